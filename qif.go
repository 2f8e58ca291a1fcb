package comptes

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrDuplicateImport reports that the file being imported already left its
// mark in the ledger. It is fatal for the whole file and raised before any
// write.
var ErrDuplicateImport = errors.New("duplicate import detected")

// qifState is the current section of the QIF state machine.
type qifState int

const (
	qifNone qifState = iota
	qifAccount
	qifTransaction // any of the Bank/Cash/CCard/Oth A/Oth L sub-states
	qifIgnored     // Invst, Cat, Class, Memorized and unknown sections
)

// qifSection classifies a section-header line. The boolean reports whether
// the line is a header at all.
func qifSection(line string) (qifState, bool) {
	switch line {
	case "!Account":
		return qifAccount, true
	case "!Type:Bank", "!Type:Cash", "!Type:CCard", "!Type:Oth A", "!Type:Oth L":
		return qifTransaction, true
	case "!Type:Invst", "!Type:Cat", "!Type:Class", "!Type:Memorized":
		return qifIgnored, true
	}
	if strings.HasPrefix(line, "!") {
		// Unknown headers (e.g. !Option:AutoSwitch) are skipped wholesale.
		return qifIgnored, true
	}
	return qifNone, false
}

// qifFields is the accumulator of one record, one field per QIF field code.
type qifFields struct {
	date     string // D
	amount   string // T
	cleared  string // C
	payee    string // P
	memo     string // M
	category string // L
	name     string // N: account name in account sections, payment method in transaction sections
	typeTok  string // T again, but in account sections it is the type token
}

// ImportOptions tunes a QIF import run.
type ImportOptions struct {
	// ParseMemo enables the decoding of structured `Keyword:[Label]` memos.
	ParseMemo bool
}

// qifParser is the line-oriented state machine turning a QIF file into
// account and transaction records.
type qifParser struct {
	ledger    *Ledger
	resolver  *EntityResolver
	transfers *TransferSynchronizer
	memos     *MemoDecoder
	parseMemo bool
	report    *ImportReport

	state   qifState
	account *Account // account opened by the last !Account section
	fields  qifFields
	record  int            // 1-based record counter, for warnings
	touched map[int64]bool // accounts written during this run
}

// ImportQIF imports a QIF file into the ledger. It aborts with
// ErrDuplicateImport before any write when the first identifiable record's
// (date, account, amount) signature is already stored; this is a best-effort
// heuristic, not a complete check. After all records are written, every
// account is fully recomputed.
func ImportQIF(l *Ledger, r io.Reader, opts ImportOptions) (*ImportReport, error) {
	var lines []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading QIF input: %w", err)
	}

	if name, on, amount, ok := firstRecordSignature(lines); ok {
		if account := l.AccountByName(name); account != nil && l.HasTransaction(account.ID, on, amount) {
			return nil, fmt.Errorf("%w: %s %s on %q", ErrDuplicateImport, on, amount, name)
		}
	}

	resolver := NewEntityResolver(l)
	p := &qifParser{
		ledger:    l,
		resolver:  resolver,
		transfers: NewTransferSynchronizer(l),
		memos:     NewMemoDecoder(l, resolver),
		parseMemo: opts.ParseMemo,
		report:    &ImportReport{},
		touched:   make(map[int64]bool),
	}

	for _, line := range lines {
		if err := p.feed(line); err != nil {
			return nil, err
		}
	}

	engine := NewBalanceEngine(l)
	if err := engine.RecomputeAll(); err != nil {
		return nil, err
	}

	p.report.addCreated(resolver)
	for account := range l.AllAccounts() {
		if !p.touched[account.ID] {
			continue
		}
		p.report.Totals = append(p.report.Totals, AccountTotal{
			Name:     account.Name,
			Balance:  account.Balance,
			Invested: account.InvestedAmount,
		})
	}
	return p.report, nil
}

// feed consumes one line: a header transitions state, `^` commits the
// accumulated fields, anything else is tagged by its leading field code.
func (p *qifParser) feed(line string) error {
	if line == "" {
		return nil
	}
	if state, ok := qifSection(line); ok {
		p.state = state
		p.fields = qifFields{}
		return nil
	}
	if line == "^" {
		defer func() { p.fields = qifFields{} }()
		return p.commit()
	}
	code, value := line[0], strings.TrimSpace(line[1:])
	switch code {
	case 'D':
		p.fields.date = value
	case 'T':
		p.fields.amount = value
		p.fields.typeTok = value
	case 'C':
		p.fields.cleared = value
	case 'P':
		p.fields.payee = value
	case 'M':
		p.fields.memo = value
	case 'L':
		p.fields.category = value
	case 'N':
		p.fields.name = value
	}
	return nil
}

// commit materializes the accumulated record according to the current state.
func (p *qifParser) commit() error {
	switch p.state {
	case qifAccount:
		return p.commitAccount()
	case qifTransaction:
		p.record++
		return p.commitTransaction()
	default:
		return nil
	}
}

// commitAccount opens (resolving or creating) the account the next
// transaction sections belong to. The QIF type token only sets the account
// type when it is diagnostic.
func (p *qifParser) commitAccount() error {
	if p.fields.name == "" {
		return nil
	}
	account, err := p.resolver.Account(p.fields.name)
	if err != nil {
		return err
	}
	if typ, diagnostic := qifAccountType(p.fields.typeTok); diagnostic {
		account.Type = typ
	}
	p.account = account
	return nil
}

// commitTransaction materializes one transaction record: a transfer pair for
// bracketed categories, a decoded sub-operation for structured memos, a
// standard transaction otherwise. Recoverable problems are downgraded to
// warnings and the run continues.
func (p *qifParser) commitTransaction() error {
	if p.account == nil {
		p.report.Warnf(p.record, "no account open, record skipped")
		return nil
	}
	on, err := ParseQifDate(p.fields.date)
	if err != nil {
		p.report.Warnf(p.record, "%v", err)
		return nil
	}
	amount, err := parseQifAmount(p.fields.amount)
	if err != nil {
		p.report.Warnf(p.record, "%v", err)
		return nil
	}

	t := &Transaction{
		Date:          on,
		Amount:        amount,
		Account:       p.account.ID,
		PaymentMethod: p.fields.name,
		Memo:          p.fields.memo,
		State:         qifReconcileState(p.fields.cleared),
	}
	p.touched[p.account.ID] = true

	// A category wrapped in brackets names the other account of an
	// inter-account transfer.
	if name, ok := bracketed(p.fields.category); ok {
		return p.commitTransfer(t, name)
	}

	if p.parseMemo && memoDecodable(t.Memo) {
		standard, err := p.memos.Decode(t)
		switch {
		case errors.Is(err, ErrMissingToken):
			p.report.Warnf(p.record, "%v", err)
			return nil // aborts only this record
		case errors.Is(err, ErrMalformedMemo):
			p.report.Warnf(p.record, "%v", err)
			// fall through to the standard transaction
		case err != nil:
			return err
		case !standard:
			p.report.Transactions++
			return nil
		}
	}

	return p.commitStandard(t)
}

// commitTransfer builds the linked pair between the open account and the
// bracket-named one. The sign of the amount decides which side the current
// account is on.
func (p *qifParser) commitTransfer(t *Transaction, name string) error {
	other, err := p.resolver.Account(name)
	if err != nil {
		return err
	}
	if _, err := p.resolver.MovementCategory(CodeTransfer, Expense); err != nil {
		return err
	}
	if _, err := p.resolver.MovementCategory(CodeTransfer, Income); err != nil {
		return err
	}

	source, target := p.account, other
	if t.Amount.IsPositive() {
		source, target = other, p.account
	}
	pair, err := p.transfers.NewTransfer(CodeTransfer, source, target, t.Date, t.Amount, t.Memo, Money{})
	if err != nil {
		return err
	}

	// The record describes the open account's side of the pair: its cleared
	// flag and payee land there, the synthesized side stays pending.
	mine := pair.Debit
	if t.Amount.IsPositive() {
		mine = pair.Credit
	}
	mine.State = t.State
	if p.fields.payee != "" {
		recipient, err := p.resolver.Recipient(p.fields.payee)
		if err != nil {
			return err
		}
		mine.Recipient = recipient.ID
	}

	p.touched[other.ID] = true
	p.report.Transactions += 2
	return nil
}

// commitStandard stores a plain transaction with resolved recipient,
// category and payment method.
func (p *qifParser) commitStandard(t *Transaction) error {
	typ := Income
	if t.Amount.IsNegative() {
		typ = Expense
	}
	name := p.fields.category
	if name == "" {
		name = "Non classé"
	}
	category, err := p.resolver.Category(name, typ)
	if err != nil {
		return err
	}
	t.Category = category.ID

	if p.fields.payee != "" {
		recipient, err := p.resolver.Recipient(p.fields.payee)
		if err != nil {
			return err
		}
		t.Recipient = recipient.ID
	}

	if err := p.ledger.AddTransaction(t); err != nil {
		return err
	}
	p.report.Transactions++
	return nil
}

// bracketed reports whether a category field has the `[Account]` transfer
// shape, and returns the account name.
func bracketed(category string) (string, bool) {
	if len(category) >= 2 && strings.HasPrefix(category, "[") && strings.HasSuffix(category, "]") {
		return category[1 : len(category)-1], true
	}
	return "", false
}

// parseQifAmount parses a QIF T field. Thousands separators are tolerated,
// and a comma followed by at most two final digits is a decimal separator
// ("1234,56"), as French exports write it.
func parseQifAmount(field string) (Money, error) {
	cleaned := strings.TrimSpace(field)
	if i := strings.LastIndex(cleaned, ","); i >= 0 && !strings.Contains(cleaned, ".") && len(cleaned)-i-1 <= 2 {
		cleaned = cleaned[:i] + "." + cleaned[i+1:]
	}
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	dec, err := decimal.NewFromString(cleaned)
	if err != nil {
		return Money{}, fmt.Errorf("invalid QIF amount %q: %w", field, err)
	}
	return M(dec, "EUR"), nil
}

// firstRecordSignature runs a light pass over the lines to find the first
// identifiable transaction record and the account open at that point. It
// backs the duplicate-import heuristic: only the first record is inspected.
func firstRecordSignature(lines []string) (account string, on Date, amount Money, ok bool) {
	state := qifNone
	var fields qifFields
	var current string
	for _, line := range lines {
		if line == "" {
			continue
		}
		if s, header := qifSection(line); header {
			state = s
			fields = qifFields{}
			continue
		}
		if line == "^" {
			switch state {
			case qifAccount:
				if fields.name != "" {
					current = fields.name
				}
			case qifTransaction:
				if current == "" || fields.date == "" || fields.amount == "" {
					return "", Date{}, Money{}, false
				}
				on, err := ParseQifDate(fields.date)
				if err != nil {
					return "", Date{}, Money{}, false
				}
				amount, err := parseQifAmount(fields.amount)
				if err != nil {
					return "", Date{}, Money{}, false
				}
				return current, on, amount, true
			}
			fields = qifFields{}
			continue
		}
		switch line[0] {
		case 'D':
			fields.date = strings.TrimSpace(line[1:])
		case 'T':
			fields.amount = strings.TrimSpace(line[1:])
		case 'N':
			fields.name = strings.TrimSpace(line[1:])
		}
	}
	return "", Date{}, Money{}, false
}
