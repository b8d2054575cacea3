package mt9

import (
	"bufio"
	"fmt"
	"strings"

	"swiftgen/mt9gen/internal/currencyutils"
	"swiftgen/mt9gen/internal/parsererror"

	"github.com/shopspring/decimal"
)

const expectedFormat = "SWIFT MT940/MT950"

// Message is one statement message read back from text.
type Message struct {
	Header  string
	Trailer string
	Pages   []Page
}

// Page is one statement page of a message.
type Page struct {
	Reference     string
	Account       string
	StatementPage string
	Opening       BalanceLine
	Closing       BalanceLine
	Available     *BalanceLine
	Transactions  []Transaction
}

// BalanceLine is a parsed balance field (60a, 62a or 64).
type BalanceLine struct {
	Tag      string
	Sign     string
	Date     string
	Currency string
	Amount   decimal.Decimal
}

// Signed returns the balance amount, negative for debit balances.
func (b BalanceLine) Signed() decimal.Decimal {
	return currencyutils.Signed(b.Amount, b.Sign)
}

// Transaction is a field 61 with its optional supplementary line and field 86.
type Transaction struct {
	ValueDate     string
	EntryDate     string
	Mark          string
	Amount        decimal.Decimal
	Type          string
	CustomerRef   string
	BankRef       string
	Supplementary string
	Information   string
}

// Difference returns closing minus opening minus the sum of all transactions.
// It is zero for a page whose balances reconcile.
func (p Page) Difference() decimal.Decimal {
	total := p.Opening.Signed()
	for _, tx := range p.Transactions {
		total = total.Add(currencyutils.Signed(tx.Amount, tx.Mark))
	}
	return p.Closing.Signed().Sub(total)
}

// ParseMessages reads statement text as produced by an Assembler. A page that
// stays open across a message boundary belongs to the message in which its
// closing balance is written.
func ParseMessages(text string) ([]Message, error) {
	var (
		messages []Message
		msg      *Message
		page     *Page
		lineNo   int
		// set while the previous line was a closing balance
		afterClosing bool
	)

	fail := func(msgText, line string) error {
		return &parsererror.InvalidFormatError{
			ExpectedFormat:       expectedFormat,
			ActualContentSnippet: line,
			Msg:                  fmt.Sprintf("line %d: %s", lineNo, msgText),
		}
	}

	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		switch {
		case strings.HasPrefix(line, "{1:"):
			if msg != nil {
				return nil, fail("message opened before the previous one was closed", line)
			}
			if !strings.HasSuffix(line, "{4:") {
				return nil, fail("header does not open block 4", line)
			}
			msg = &Message{Header: line}

		case strings.HasPrefix(line, "-}"):
			if msg == nil {
				return nil, fail("trailer outside of a message", line)
			}
			msg.Trailer = line
			messages = append(messages, *msg)
			msg = nil

		case msg == nil:
			return nil, fail("content outside of a message", line)

		case strings.HasPrefix(line, ":20:"):
			if page != nil {
				return nil, fail("page opened before the previous one was closed", line)
			}
			page = &Page{Reference: strings.TrimPrefix(line, ":20:")}

		case strings.HasPrefix(line, ":64:"):
			if !afterClosing {
				return nil, fail("available balance does not follow a closing balance", line)
			}
			b, err := parseBalance(line)
			if err != nil {
				return nil, fail(err.Error(), line)
			}
			msg.Pages[len(msg.Pages)-1].Available = &b

		case page == nil:
			return nil, fail("field outside of a page", line)

		case strings.HasPrefix(line, ":25:"):
			page.Account = strings.TrimPrefix(line, ":25:")

		case strings.HasPrefix(line, ":28C:"):
			page.StatementPage = strings.TrimPrefix(line, ":28C:")

		case strings.HasPrefix(line, ":60"):
			b, err := parseBalance(line)
			if err != nil {
				return nil, fail(err.Error(), line)
			}
			page.Opening = b

		case strings.HasPrefix(line, ":61:"):
			tx, err := parseTransaction(strings.TrimPrefix(line, ":61:"))
			if err != nil {
				return nil, fail(err.Error(), line)
			}
			page.Transactions = append(page.Transactions, tx)

		case strings.HasPrefix(line, ":86:"):
			if len(page.Transactions) == 0 {
				return nil, fail("field 86 without a transaction", line)
			}
			page.Transactions[len(page.Transactions)-1].Information = strings.TrimPrefix(line, ":86:")

		case strings.HasPrefix(line, ":62"):
			b, err := parseBalance(line)
			if err != nil {
				return nil, fail(err.Error(), line)
			}
			page.Closing = b
			msg.Pages = append(msg.Pages, *page)
			page = nil

		default:
			if len(page.Transactions) == 0 {
				return nil, fail("unexpected line", line)
			}
			page.Transactions[len(page.Transactions)-1].Supplementary = line
		}

		afterClosing = strings.HasPrefix(line, ":62")
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if msg != nil {
		return nil, fail("unterminated message", "")
	}
	if page != nil {
		return nil, fail("page never closed", "")
	}
	return messages, nil
}

// parseBalance reads ":60F:C151015EUR1000,00" style lines.
func parseBalance(line string) (BalanceLine, error) {
	end := strings.Index(line[1:], ":")
	if end < 0 {
		return BalanceLine{}, fmt.Errorf("malformed balance field")
	}
	tag := line[1 : end+1]
	value := line[end+2:]
	if len(value) < 11 {
		return BalanceLine{}, fmt.Errorf("balance field %s too short", tag)
	}
	amount, err := currencyutils.ParseSwiftAmount(value[10:])
	if err != nil {
		return BalanceLine{}, fmt.Errorf("balance field %s: %w", tag, err)
	}
	return BalanceLine{
		Tag:      tag,
		Sign:     value[:1],
		Date:     value[1:7],
		Currency: value[7:10],
		Amount:   amount,
	}, nil
}

// parseTransaction reads the value of a field 61.
func parseTransaction(value string) (Transaction, error) {
	var tx Transaction
	if len(value) < 6 || !isDigits(value[:6]) {
		return tx, fmt.Errorf("transaction without value date")
	}
	tx.ValueDate, value = value[:6], value[6:]
	if len(value) >= 4 && isDigits(value[:4]) {
		tx.EntryDate, value = value[:4], value[4:]
	}

	for _, mark := range []string{"RC", "RD", "C", "D"} {
		if strings.HasPrefix(value, mark) {
			tx.Mark, value = mark, value[len(mark):]
			break
		}
	}
	if tx.Mark == "" {
		return tx, fmt.Errorf("transaction without debit/credit mark")
	}

	i := 0
	for i < len(value) && (isDigit(value[i]) || value[i] == ',') {
		i++
	}
	amount, err := currencyutils.ParseSwiftAmount(value[:i])
	if err != nil {
		return tx, fmt.Errorf("transaction amount: %w", err)
	}
	tx.Amount, value = amount, value[i:]

	refs, bankRef, _ := strings.Cut(value, "//")
	tx.BankRef = bankRef
	if len(refs) >= 4 {
		tx.Type, tx.CustomerRef = refs[:4], refs[4:]
	} else {
		tx.Type = refs
	}
	return tx, nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return s != ""
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
