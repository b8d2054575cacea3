package models

import (
	"fmt"
	"strings"

	"swiftgen/mt9gen/internal/parsererror"
)

// RecordWidth is the number of columns every statement record must carry.
const RecordWidth = 27

// Column positions of the statement record layout. The layout is a contract
// with the ledger export and must never be renumbered.
const (
	ColSenderBIC = iota
	ColReceiverBIC
	ColAccount
	ColStatementNumber
	ColPageNumber
	ColOpeningSign
	ColOpeningType
	ColOpeningDate
	ColOpeningAmount
	ColValueDate
	ColEntryDate
	ColDebitCredit
	ColAmount
	ColTransactionType
	ColCustomerReference
	ColBankReference
	ColSupplementary
	ColClosingSign
	ColClosingType
	ColClosingDate
	ColClosingAmount
	ColAvailableSign
	ColAvailableDate
	ColAvailableAmount
	ColCurrency
	ColReference4
	ColTRN
)

// HeaderSentinel identifies the label row of an export. It is compared against
// the second-to-last column with case and spaces ignored.
const HeaderSentinel = "REF4(MT940ONLY)"

// RawRecord is one row of the ledger export as read from the source.
type RawRecord []string

// IsHeader reports whether the row is the export's label row.
func (r RawRecord) IsHeader() bool {
	if len(r) < 2 {
		return false
	}
	label := strings.ToUpper(strings.ReplaceAll(r[len(r)-2], " ", ""))
	return label == HeaderSentinel
}

// IsBlank reports whether the row has an empty first column.
func (r RawRecord) IsBlank() bool {
	return len(r) == 0 || r[0] == ""
}

// Balance groups the sign, type, date and amount of a statement balance.
// Available balances carry no type.
type Balance struct {
	Sign   string
	Type   string
	Date   string
	Amount string
}

// Record is a statement record with named fields.
type Record struct {
	SenderBIC         string `csv:"sender_bic"`
	ReceiverBIC       string `csv:"receiver_bic"`
	Account           string `csv:"account"`
	StatementNumber   string `csv:"statement_number"`
	PageNumber        string `csv:"page_number"`
	OpeningSign       string `csv:"opening_sign"`
	OpeningType       string `csv:"opening_type"`
	OpeningDate       string `csv:"opening_date"`
	OpeningAmount     string `csv:"opening_amount"`
	ValueDate         string `csv:"value_date"`
	EntryDate         string `csv:"entry_date"`
	DebitCredit       string `csv:"debit_credit"`
	Amount            string `csv:"amount"`
	TransactionType   string `csv:"transaction_type"`
	CustomerReference string `csv:"customer_reference"`
	BankReference     string `csv:"bank_reference"`
	Supplementary     string `csv:"supplementary"`
	ClosingSign       string `csv:"closing_sign"`
	ClosingType       string `csv:"closing_type"`
	ClosingDate       string `csv:"closing_date"`
	ClosingAmount     string `csv:"closing_amount"`
	AvailableSign     string `csv:"available_sign"`
	AvailableDate     string `csv:"available_date"`
	AvailableAmount   string `csv:"available_amount"`
	Currency          string `csv:"currency"`
	Reference4        string `csv:"reference4"`
	TRN               string `csv:"trn"`

	normalized bool
}

// NewRecord builds a Record from a raw row. Rows that are not exactly
// RecordWidth wide are rejected with a MalformedRecordError.
func NewRecord(raw RawRecord) (Record, error) {
	if len(raw) != RecordWidth {
		return Record{}, &parsererror.MalformedRecordError{
			FieldCount: len(raw),
			Record:     []string(raw),
		}
	}
	return Record{
		SenderBIC:         raw[ColSenderBIC],
		ReceiverBIC:       raw[ColReceiverBIC],
		Account:           raw[ColAccount],
		StatementNumber:   raw[ColStatementNumber],
		PageNumber:        raw[ColPageNumber],
		OpeningSign:       raw[ColOpeningSign],
		OpeningType:       raw[ColOpeningType],
		OpeningDate:       raw[ColOpeningDate],
		OpeningAmount:     raw[ColOpeningAmount],
		ValueDate:         raw[ColValueDate],
		EntryDate:         raw[ColEntryDate],
		DebitCredit:       raw[ColDebitCredit],
		Amount:            raw[ColAmount],
		TransactionType:   raw[ColTransactionType],
		CustomerReference: raw[ColCustomerReference],
		BankReference:     raw[ColBankReference],
		Supplementary:     raw[ColSupplementary],
		ClosingSign:       raw[ColClosingSign],
		ClosingType:       raw[ColClosingType],
		ClosingDate:       raw[ColClosingDate],
		ClosingAmount:     raw[ColClosingAmount],
		AvailableSign:     raw[ColAvailableSign],
		AvailableDate:     raw[ColAvailableDate],
		AvailableAmount:   raw[ColAvailableAmount],
		Currency:          raw[ColCurrency],
		Reference4:        raw[ColReference4],
		TRN:               raw[ColTRN],
	}, nil
}

// Raw returns the record in its positional layout.
func (r Record) Raw() RawRecord {
	raw := make(RawRecord, RecordWidth)
	raw[ColSenderBIC] = r.SenderBIC
	raw[ColReceiverBIC] = r.ReceiverBIC
	raw[ColAccount] = r.Account
	raw[ColStatementNumber] = r.StatementNumber
	raw[ColPageNumber] = r.PageNumber
	raw[ColOpeningSign] = r.OpeningSign
	raw[ColOpeningType] = r.OpeningType
	raw[ColOpeningDate] = r.OpeningDate
	raw[ColOpeningAmount] = r.OpeningAmount
	raw[ColValueDate] = r.ValueDate
	raw[ColEntryDate] = r.EntryDate
	raw[ColDebitCredit] = r.DebitCredit
	raw[ColAmount] = r.Amount
	raw[ColTransactionType] = r.TransactionType
	raw[ColCustomerReference] = r.CustomerReference
	raw[ColBankReference] = r.BankReference
	raw[ColSupplementary] = r.Supplementary
	raw[ColClosingSign] = r.ClosingSign
	raw[ColClosingType] = r.ClosingType
	raw[ColClosingDate] = r.ClosingDate
	raw[ColClosingAmount] = r.ClosingAmount
	raw[ColAvailableSign] = r.AvailableSign
	raw[ColAvailableDate] = r.AvailableDate
	raw[ColAvailableAmount] = r.AvailableAmount
	raw[ColCurrency] = r.Currency
	raw[ColReference4] = r.Reference4
	raw[ColTRN] = r.TRN
	return raw
}

// IsNormalized reports whether the record already went through normalization.
func (r Record) IsNormalized() bool {
	return r.normalized
}

// AsNormalized returns a copy of the record marked as normalized.
func (r Record) AsNormalized() Record {
	r.normalized = true
	return r
}

// Opening returns the opening balance of the record's page.
func (r Record) Opening() Balance {
	return Balance{Sign: r.OpeningSign, Type: r.OpeningType, Date: r.OpeningDate, Amount: r.OpeningAmount}
}

// Closing returns the closing balance of the record's page.
func (r Record) Closing() Balance {
	return Balance{Sign: r.ClosingSign, Type: r.ClosingType, Date: r.ClosingDate, Amount: r.ClosingAmount}
}

// Available returns the closing available balance. Its sign is blank when the
// export carries no available balance.
func (r Record) Available() Balance {
	return Balance{Sign: r.AvailableSign, Date: r.AvailableDate, Amount: r.AvailableAmount}
}

// String returns a short description used in log output.
func (r Record) String() string {
	return fmt.Sprintf("%s/%s %s %s/%s", r.SenderBIC, r.ReceiverBIC, r.Account, r.StatementNumber, r.PageNumber)
}
