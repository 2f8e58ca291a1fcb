package comptes

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ReconcileState is the reconciliation state of a transaction against a bank
// statement. QIF encodes it in the C field ("" pending, "*" cleared, "X" or
// "R" reconciled).
type ReconcileState int

const (
	Pending ReconcileState = iota
	Cleared
	Reconciled
)

func (s ReconcileState) String() string {
	switch s {
	case Cleared:
		return "cleared"
	case Reconciled:
		return "reconciled"
	default:
		return "pending"
	}
}

// ParseReconcileState parses a string into a ReconcileState.
func ParseReconcileState(s string) (ReconcileState, error) {
	switch s {
	case "", "pending":
		return Pending, nil
	case "cleared":
		return Cleared, nil
	case "reconciled":
		return Reconciled, nil
	default:
		return 0, fmt.Errorf("unknown reconcile state: %q", s)
	}
}

// qifReconcileState maps the QIF cleared flag to a ReconcileState.
func qifReconcileState(flag string) ReconcileState {
	switch flag {
	case "*", "c", "C":
		return Cleared
	case "X", "x", "R", "r":
		return Reconciled
	default:
		return Pending
	}
}

// PositionKind is the effect of a brokerage transaction on a stock position.
type PositionKind int

const (
	Buying PositionKind = iota
	Selling
	FusionBuy  // opens the replacement position after a merger
	FusionSale // closes the merged-away position
	DividendIncome
)

func (k PositionKind) String() string {
	switch k {
	case Buying:
		return "buying"
	case Selling:
		return "selling"
	case FusionBuy:
		return "fusion-buy"
	case FusionSale:
		return "fusion-sale"
	case DividendIncome:
		return "dividend"
	default:
		return "unknown"
	}
}

// ParsePositionKind parses a string into a PositionKind.
func ParsePositionKind(s string) (PositionKind, error) {
	switch s {
	case "buying":
		return Buying, nil
	case "selling":
		return Selling, nil
	case "fusion-buy":
		return FusionBuy, nil
	case "fusion-sale":
		return FusionSale, nil
	case "dividend":
		return DividendIncome, nil
	default:
		return 0, fmt.Errorf("unknown position kind: %q", s)
	}
}

// BrokerageDetail is the optional one-to-one security leg of a transaction
// on a brokerage account.
type BrokerageDetail struct {
	Stock  int64 // id of the traded stock
	Kind   PositionKind
	Volume decimal.Decimal
	Price  Money // unit price
	Fee    Money // |amount| - volume*price for a buy, volume*price - amount for a sale
}

// Transaction is one ledger row. Amount is signed; Balance is the cached
// running balance on the owning account, maintained by the balance engine
// and never trusted as ground truth.
//
// A revaluation transaction (category code EVAL) inverts the relation:
// Balance is author-supplied and Amount is derived from it.
type Transaction struct {
	ID            int64
	Date          Date
	Amount        Money
	Account       int64 // owning account id
	Category      int64
	PaymentMethod string
	Recipient     int64 // 0 when none
	Project       int64 // 0 when none
	Memo          string
	State         ReconcileState
	Balance       Money // cached running balance, see invariant above
	Transfer      int64 // id of the paired transaction for transfer-shaped rows, 0 otherwise
	Brokerage     *BrokerageDetail
}

// IsTransfer reports whether the transaction is one side of a linked pair.
func (t *Transaction) IsTransfer() bool { return t.Transfer != 0 }

// compareCanonical orders two transactions in the canonical per-account
// sequence: date ascending, then id ascending.
func compareCanonical(a, b *Transaction) int {
	if c := a.Date.Compare(b.Date); c != 0 {
		return c
	}
	switch {
	case a.ID < b.ID:
		return -1
	case a.ID > b.ID:
		return 1
	default:
		return 0
	}
}
