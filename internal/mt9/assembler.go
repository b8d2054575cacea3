// Package mt9 assembles SWIFT MT940 and MT950 statement messages from
// normalized statement records and reads them back.
//
// An Assembler folds records one at a time. Each record is compared with the
// previous one to decide whether the current statement page has to be
// closed, whether the sender/receiver pair starts a new message and whether
// a new page has to be opened, before the record's own field 61 is written.
// Page and message boundaries are independent: a page whose account and
// page number do not change stays open across a new message header.
package mt9

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"swiftgen/mt9gen/internal/models"
)

// AutoReferencePrefix starts every generated field 20 reference.
const AutoReferencePrefix = "MT94050GEN"

var (
	// ErrNoRecords is returned by Finalize when nothing was processed.
	ErrNoRecords = errors.New("no statement records to assemble")
	// ErrFinalized is returned when records are added after Finalize.
	ErrFinalized = errors.New("assembler already finalized")
)

// Stats counts what an Assembler has written.
type Stats struct {
	Records        int
	Messages       int
	Pages          int
	AutoReferences int
}

// runningContext is the page and message currently open.
type runningContext struct {
	account     string
	senderBIC   string
	receiverBIC string
	statement   string
	page        string
	currency    string
	closing     models.Balance
	available   models.Balance
}

// Assembler produces the statement text for one conversion run. It is not
// safe for concurrent use; every run needs its own Assembler.
type Assembler struct {
	settings Settings
	clock    func() time.Time

	lines       []string
	ctx         runningContext
	last        models.Record
	hasLast     bool
	messageOpen bool
	nextRef     int
	finalized   bool
	stats       Stats
}

// Option configures an Assembler.
type Option func(*Assembler)

// WithClock sets the clock used for generated message input references.
func WithClock(clock func() time.Time) Option {
	return func(a *Assembler) {
		if clock != nil {
			a.clock = clock
		}
	}
}

// NewAssembler returns an Assembler with no message open.
func NewAssembler(settings Settings, opts ...Option) *Assembler {
	a := &Assembler{
		settings: settings,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Process appends the tags for one normalized record.
func (a *Assembler) Process(rec models.Record) error {
	if a.finalized {
		return ErrFinalized
	}

	sender, receiver := strings.ToUpper(rec.SenderBIC), strings.ToUpper(rec.ReceiverBIC)
	pageChanged := a.ctx.page != rec.PageNumber || a.ctx.account != rec.Account
	messageChanged := a.ctx.senderBIC != sender || a.ctx.receiverBIC != receiver

	if a.ctx.account != "" && pageChanged {
		a.closePageFromContext()
	}

	if messageChanged {
		if a.messageOpen {
			a.closeMessage()
		}
		a.openMessage(rec)
	}

	if pageChanged {
		a.openPage(rec)
	}

	a.writeTransaction(rec)

	a.ctx = runningContext{
		account:     rec.Account,
		senderBIC:   sender,
		receiverBIC: receiver,
		statement:   rec.StatementNumber,
		page:        rec.PageNumber,
		currency:    rec.Currency,
		closing:     rec.Closing(),
		available:   rec.Available(),
	}
	a.last = rec
	a.hasLast = true
	a.stats.Records++
	return nil
}

// Finalize closes the last page from the last record's own balances and
// closes the last message. It must be called once after the last record.
func (a *Assembler) Finalize() error {
	if a.finalized {
		return ErrFinalized
	}
	if !a.hasLast {
		return ErrNoRecords
	}
	a.closeFinalPage(a.last)
	a.closeMessage()
	a.finalized = true
	return nil
}

// Lines returns the text lines written so far.
func (a *Assembler) Lines() []string {
	out := make([]string, len(a.lines))
	copy(out, a.lines)
	return out
}

// Text returns the statement text. Lines are joined with newlines and the
// final trailer carries no trailing newline.
func (a *Assembler) Text() string {
	return strings.Join(a.lines, "\n")
}

// WriteTo writes Text to w.
func (a *Assembler) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, a.Text())
	return int64(n), err
}

// Stats returns counters for the run so far.
func (a *Assembler) Stats() Stats {
	return a.stats
}

func (a *Assembler) emit(format string, args ...interface{}) {
	a.lines = append(a.lines, fmt.Sprintf(format, args...))
}

// closePageFromContext writes field 62 and, when present, field 64 of the
// page that was open before the current record.
func (a *Assembler) closePageFromContext() {
	c := a.ctx.closing
	a.emit(":62%s:%s%s%s%s", c.Type, c.Sign, c.Date, a.ctx.currency, c.Amount)
	if av := a.ctx.available; strings.TrimSpace(av.Sign) != "" {
		a.emit(":64:%s%s%s%s", av.Sign, av.Date, a.ctx.currency, av.Amount)
	}
}

// closeFinalPage writes the final closing balance from rec itself.
func (a *Assembler) closeFinalPage(rec models.Record) {
	a.emit(":62F:%s%s%s%s", rec.ClosingSign, rec.ClosingDate, rec.Currency, rec.ClosingAmount)
	if strings.TrimSpace(rec.AvailableSign) != "" {
		a.emit(":64:%s%s%s%s", rec.AvailableSign, rec.AvailableDate, rec.Currency, rec.AvailableAmount)
	}
}

func (a *Assembler) closeMessage() {
	a.lines = append(a.lines, a.trailer())
	a.messageOpen = false
}

func (a *Assembler) trailer() string {
	if chk, ok := a.settings.Checksum.Get(); ok {
		return fmt.Sprintf("-}{5:{CHK:%s}}", chk)
	}
	return "-}{5:}"
}

// openMessage writes blocks 1 to 3 and opens block 4 on a single line.
func (a *Assembler) openMessage(rec models.Record) {
	var b strings.Builder
	b.WriteString(a.basicHeader(rec))
	b.WriteString(a.applicationHeader(rec))
	b.WriteString(a.userHeader())
	b.WriteString("{4:")
	a.lines = append(a.lines, b.String())
	a.messageOpen = true
	a.stats.Messages++
}

func (a *Assembler) basicHeader(rec models.Record) string {
	h := a.settings.Basic
	return fmt.Sprintf("{1:%s%s%s%s%s}", h.AppID, h.ServiceID, padBIC(rec.SenderBIC), h.Session, h.Sequence)
}

func (a *Assembler) applicationHeader(rec models.Record) string {
	h := a.settings.Application
	if h.Direction == Output {
		return fmt.Sprintf("{2:O%s%s%s%s%s%s}",
			a.settings.MessageType, h.InputTime, a.messageInputReference(rec), h.OutputDate, h.OutputTime, h.Priority)
	}
	return fmt.Sprintf("{2:I%s%s%s%s%s}",
		a.settings.MessageType, padBIC(rec.ReceiverBIC), h.Priority, h.DeliveryMonitoring, h.Obsolescence)
}

func (a *Assembler) messageInputReference(rec models.Record) string {
	mir := a.settings.Application.MIR
	if !mir.IsAuto() {
		return mir.Value()
	}
	b := a.settings.Basic
	return a.clock().UTC().Format("060102") + padBIC(rec.SenderBIC) + b.Session + b.Sequence
}

func (a *Assembler) userHeader() string {
	var b strings.Builder
	b.WriteString("{3:")
	if code, ok := a.settings.User.BankingPriority.Get(); ok {
		fmt.Fprintf(&b, "{113:%s}", code)
	}
	fmt.Fprintf(&b, "{108:%s}}", a.settings.User.UserReference)
	return b.String()
}

// openPage writes fields 20, 25, 28C and the opening balance.
func (a *Assembler) openPage(rec models.Record) {
	if strings.TrimSpace(rec.TRN) != "" {
		a.emit(":20:%s", rec.TRN)
	} else {
		a.emit(":20:%s%06d", AutoReferencePrefix, a.nextRef)
		a.nextRef++
		a.stats.AutoReferences++
	}
	a.emit(":25:%s", rec.Account)
	a.emit(":28C:%s/%s", padLeft(rec.StatementNumber, 5, '0'), padLeft(rec.PageNumber, 5, '0'))
	a.emit(":60%s:%s%s%s%s", rec.OpeningType, rec.OpeningSign, rec.OpeningDate, rec.Currency, rec.OpeningAmount)
	a.stats.Pages++
}

// writeTransaction writes field 61, the supplementary line and, for MT940,
// field 86.
func (a *Assembler) writeTransaction(rec models.Record) {
	a.emit(":61:%s%s%s%s%s%s//%s",
		rec.ValueDate, rec.EntryDate, rec.DebitCredit, rec.Amount,
		rec.TransactionType, rec.CustomerReference, rec.BankReference)
	if strings.TrimSpace(rec.Supplementary) != "" {
		a.lines = append(a.lines, rec.Supplementary)
	}
	if a.settings.MessageType == models.MT940 && strings.TrimSpace(rec.Reference4) != "" {
		a.emit(":86:%s", rec.Reference4)
	}
}

// padBIC pads a BIC to the 12 characters of a logical terminal address. The
// BIC is written as given; only boundary detection ignores case.
func padBIC(bic string) string {
	return padRight(bic, 12, 'X')
}

func padRight(s string, width int, pad byte) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(string(pad), width-len(s))
}

func padLeft(s string, width int, pad byte) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(string(pad), width-len(s)) + s
}
