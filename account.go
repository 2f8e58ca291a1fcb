package comptes

import "fmt"

// AccountType classifies an account by the way its balance is computed.
type AccountType int

const (
	// AccountCash is a plain checking account: balance is the running sum of amounts.
	AccountCash AccountType = iota
	// AccountSavings is a savings account, same balance rules as cash.
	AccountSavings
	// AccountBrokerage holds stock positions: its balance is the valuation of
	// the reconstructed wallet, not a running sum.
	AccountBrokerage
	// AccountCapitalization is the cash leg of a capitalization wrapper
	// (e.g. life insurance): it receives contributions and pinned-balance
	// revaluations.
	AccountCapitalization
)

func (t AccountType) String() string {
	switch t {
	case AccountCash:
		return "cash"
	case AccountSavings:
		return "savings"
	case AccountBrokerage:
		return "brokerage"
	case AccountCapitalization:
		return "capitalization"
	default:
		return "unknown"
	}
}

// ParseAccountType parses a string into an AccountType.
func ParseAccountType(s string) (AccountType, error) {
	switch s {
	case "cash":
		return AccountCash, nil
	case "savings":
		return AccountSavings, nil
	case "brokerage":
		return AccountBrokerage, nil
	case "capitalization":
		return AccountCapitalization, nil
	default:
		return 0, fmt.Errorf("unknown account type: %q", s)
	}
}

// Account is a personal financial account. The balance fields are derived
// caches maintained by the balance engine; the transactions are the source
// of truth.
type Account struct {
	ID                int64
	Name              string
	Type              AccountType
	Balance           Money // cached, recomputed after every mutation
	ReconciledBalance Money // cached sum of reconciled amounts
	InvestedAmount    Money // cached sum of investment-coded amounts
	CashAccount       string // for the securities leg of a dual wrapper, the name of the paired cash account
	OpenedOn          Date
	ClosedOn          Date
}

// qifAccountType maps a QIF account-type token to an AccountType. The token
// is only diagnostic for some values: asset sections (Oth A) are savings-like,
// bank and card sections are cash-like. Investment sections are brokerage.
// The boolean reports whether the token was diagnostic at all.
func qifAccountType(token string) (AccountType, bool) {
	switch token {
	case "Bank", "Cash", "CCard", "Oth L":
		return AccountCash, true
	case "Oth A":
		return AccountSavings, true
	case "Invst", "Port":
		return AccountBrokerage, true
	default:
		return AccountCash, false
	}
}
