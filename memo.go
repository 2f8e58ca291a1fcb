package comptes

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrMalformedMemo reports a memo whose colon-bearing prefix matches no known
// keyword. Callers downgrade it to a warning and fall back to a standard
// transaction.
var ErrMalformedMemo = errors.New("malformed memo")

// ErrMissingToken reports a decodable memo lacking a required token (e.g. a
// Stock memo without v= or p=). It aborts only the record that carries it.
var ErrMissingToken = errors.New("missing memo token")

// Structured memos follow the convention `Keyword:[Label] token=value ...`.
var memoRE = regexp.MustCompile(`^([\pL]+):\[([^\]]*)\]\s*(.*)$`)

// memoDecodable reports whether a memo looks structured: a leading word
// followed by a colon. Such memos are routed to the decoder; a non-matching
// keyword there is then a decode error, not a plain memo.
var memoDecodableRE = regexp.MustCompile(`^[\pL]+:`)

func memoDecodable(memo string) bool { return memoDecodableRE.MatchString(memo) }

// MemoDecoder parses the `Keyword:[Label] token=value` convention out of
// free-text memo fields into structured sub-operations: capital
// contributions, brokerage trades and dividends, project tags.
type MemoDecoder struct {
	ledger    *Ledger
	resolver  *EntityResolver
	transfers *TransferSynchronizer
}

// NewMemoDecoder creates a decoder sharing the import run's resolver.
func NewMemoDecoder(l *Ledger, resolver *EntityResolver) *MemoDecoder {
	return &MemoDecoder{
		ledger:    l,
		resolver:  resolver,
		transfers: NewTransferSynchronizer(l),
	}
}

// Decode processes the structured memo of a prototype transaction (account,
// date, amount and memo already set, nothing stored yet). Depending on the
// keyword it materializes a transfer pair or an enriched transaction itself.
//
// The returned boolean tells the caller whether a plain standard transaction
// must still be created for the record.
func (d *MemoDecoder) Decode(t *Transaction) (standard bool, err error) {
	match := memoRE.FindStringSubmatch(t.Memo)
	if match == nil {
		return true, fmt.Errorf("%w: %q", ErrMalformedMemo, t.Memo)
	}
	keyword, label, rest := match[1], match[2], match[3]

	switch keyword {
	case "Versement":
		return false, d.decodeContribution(t, label, rest)
	case "Stock":
		return false, d.decodeTrade(t, label, rest)
	case "Dividendes":
		return false, d.decodeDividend(t, label)
	case "Virement":
		// Explicit transfer marker: the bracketed category already carries
		// the target account, the standard path handles it.
		return true, nil
	case "Projet":
		project, err := d.resolver.Project(label)
		if err != nil {
			return true, err
		}
		t.Project = project.ID
		return true, nil
	default:
		return true, fmt.Errorf("%w: unknown keyword %q", ErrMalformedMemo, keyword)
	}
}

// decodeContribution turns `Versement:[Wrapper] [€N]` into a capital
// contribution pair: the current account is debited, the named
// capitalization account credited. The capitalized value is the explicit
// € token when present, the negated source amount otherwise.
func (d *MemoDecoder) decodeContribution(t *Transaction, label, rest string) error {
	target, err := d.resolver.AccountOfType(label, AccountCapitalization)
	if err != nil {
		return err
	}
	source := d.ledger.AccountByID(t.Account)
	if source == nil {
		return fmt.Errorf("contribution references unknown account %d", t.Account)
	}
	// Both category variants must exist before the pair is synthesized.
	if _, err := d.resolver.MovementCategory(CodeContribution, Expense); err != nil {
		return err
	}
	if _, err := d.resolver.MovementCategory(CodeContribution, Income); err != nil {
		return err
	}

	var invested Money
	for _, token := range strings.Fields(rest) {
		if value, ok := strings.CutPrefix(token, "€"); ok {
			dec, err := decimal.NewFromString(value)
			if err != nil {
				return fmt.Errorf("%w: bad € amount %q", ErrMissingToken, value)
			}
			invested = M(dec, t.Amount.Currency())
		}
	}

	_, err = d.transfers.NewTransfer(CodeContribution, source, target, t.Date, t.Amount, t.Memo, invested)
	return err
}

// decodeTrade turns `Stock:[Name] v=V p=P` into a brokerage trade. The
// position kind follows the amount sign: money out buys, money in sells.
// The fee is whatever part of the amount the volume×price does not explain.
func (d *MemoDecoder) decodeTrade(t *Transaction, label, rest string) error {
	volume, hasVolume := memoToken(rest, "v=")
	price, hasPrice := memoToken(rest, "p=")
	if !hasVolume {
		return fmt.Errorf("%w: Stock memo needs v=", ErrMissingToken)
	}
	if !hasPrice {
		return fmt.Errorf("%w: Stock memo needs p=", ErrMissingToken)
	}

	stock, err := d.resolver.Stock(label)
	if err != nil {
		return err
	}

	kind, typ := Selling, Income
	if t.Amount.IsNegative() {
		kind, typ = Buying, Expense
	}
	category, err := d.resolver.MovementCategory(CodeSecurity, typ)
	if err != nil {
		return err
	}

	unit := M(price, t.Amount.Currency())
	gross := unit.Mul(volume)
	var fee Money
	if kind == Buying {
		fee = t.Amount.Abs().Sub(gross)
	} else {
		fee = gross.Sub(t.Amount)
	}

	t.Category = category.ID
	t.PaymentMethod = archetypes[CodeSecurity].PaymentMethod
	t.Brokerage = &BrokerageDetail{
		Stock:  stock.ID,
		Kind:   kind,
		Volume: volume,
		Price:  unit,
		Fee:    fee,
	}
	return d.ledger.AddTransaction(t)
}

// decodeDividend turns `Dividendes:[Name]` into brokerage income. No volume
// is required: the position is untouched.
func (d *MemoDecoder) decodeDividend(t *Transaction, label string) error {
	stock, err := d.resolver.Stock(label)
	if err != nil {
		return err
	}
	category, err := d.resolver.MovementCategory(CodeDividend, Income)
	if err != nil {
		return err
	}
	t.Category = category.ID
	t.PaymentMethod = archetypes[CodeDividend].PaymentMethod
	t.Brokerage = &BrokerageDetail{
		Stock: stock.ID,
		Kind:  DividendIncome,
	}
	return d.ledger.AddTransaction(t)
}

// memoToken extracts a `prefix`-tagged decimal token from a memo tail.
func memoToken(rest, prefix string) (decimal.Decimal, bool) {
	for _, token := range strings.Fields(rest) {
		if value, ok := strings.CutPrefix(token, prefix); ok {
			dec, err := decimal.NewFromString(value)
			if err != nil {
				return decimal.Zero, false
			}
			return dec, true
		}
	}
	return decimal.Zero, false
}
