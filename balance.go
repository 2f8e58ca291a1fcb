package comptes

import (
	"fmt"
)

// BalanceEngine recomputes the cached running balances of transactions and
// the cached aggregates of accounts after any mutation. It is the only code
// allowed to write those fields.
//
// The engine is idempotent: re-running it with unchanged inputs reproduces
// identical cached fields.
type BalanceEngine struct {
	ledger *Ledger
}

// NewBalanceEngine creates an engine bound to a ledger.
func NewBalanceEngine(l *Ledger) *BalanceEngine {
	return &BalanceEngine{ledger: l}
}

// RecomputeFrom walks the transactions of an account on or after fromDate in
// canonical order and rewrites their running balances. The walk is seeded
// with the balance of the last transaction strictly before fromDate, or zero
// when there is none.
//
// Standard rows follow balance = previous + amount. Revaluation rows invert
// the relation: their stored balance is authoritative, the amount is
// overwritten with the variation from the previous balance, and the
// surplus/deficit category variant is chosen by the variation's sign.
//
// An unknown category on a transaction is a data-integrity bug, not user
// input: the error propagates.
func (e *BalanceEngine) RecomputeFrom(account *Account, fromDate Date) error {
	txs := e.ledger.TransactionsOf(account.ID)

	var prev Money
	i := 0
	for ; i < len(txs) && txs[i].Date.Before(fromDate); i++ {
		prev = txs[i].Balance
	}

	for ; i < len(txs); i++ {
		t := txs[i]
		category := e.ledger.CategoryByID(t.Category)
		if category == nil {
			return fmt.Errorf("transaction %d on %q references unknown category %d", t.ID, account.Name, t.Category)
		}
		if category.Code == CodeRevaluation {
			// The stored balance is pinned by the author; derive the amount.
			variation := t.Balance.Sub(prev)
			t.Amount = variation
			typ := Income
			if variation.IsNegative() {
				typ = Expense
			}
			variant := e.ledger.CategoryVariant(CodeRevaluation, typ)
			if variant == nil {
				return fmt.Errorf("revaluation on %q: no %s category variant for %s", account.Name, typ, CodeRevaluation)
			}
			t.Category = variant.ID
			prev = t.Balance
			continue
		}
		t.Balance = prev.Add(t.Amount)
		prev = t.Balance
	}

	return e.refreshAggregates(account, txs)
}

// RecomputeFull recomputes the whole account from its earliest transaction.
// Brokerage accounts do not follow the running-sum rule for their aggregates:
// the wallet is reconstructed and the account is valued from the snapshot.
func (e *BalanceEngine) RecomputeFull(account *Account) error {
	if err := e.RecomputeFrom(account, Date{}); err != nil {
		return err
	}
	if account.Type != AccountBrokerage {
		return nil
	}

	reconstructor := NewWalletReconstructor(e.ledger)
	rows, err := reconstructor.Rebuild(account)
	if err != nil {
		return err
	}
	account.Balance = reconstructor.Valuation(rows)
	if account.CashAccount != "" {
		// Securities leg of a dual cash/securities wrapper: the invested
		// amount lives on the paired cash account.
		cash := e.ledger.AccountByName(account.CashAccount)
		if cash == nil {
			return fmt.Errorf("account %q pairs with unknown cash account %q", account.Name, account.CashAccount)
		}
		account.InvestedAmount = cash.InvestedAmount
	} else {
		account.InvestedAmount = reconstructor.Invested(rows)
	}
	return nil
}

// RecomputeAll recomputes every account. Cash-side accounts go first so that
// the securities leg of a dual wrapper reads an up-to-date invested amount
// from its paired cash account.
func (e *BalanceEngine) RecomputeAll() error {
	var brokerage []*Account
	for account := range e.ledger.AllAccounts() {
		if account.Type == AccountBrokerage {
			brokerage = append(brokerage, account)
			continue
		}
		if err := e.RecomputeFull(account); err != nil {
			return err
		}
	}
	for _, account := range brokerage {
		if err := e.RecomputeFull(account); err != nil {
			return err
		}
	}
	return nil
}

// refreshAggregates rewrites the account's cached fields from its rows:
// the balance of the last row, the sum of reconciled amounts, and the sum of
// positive amounts on investment-coded categories.
func (e *BalanceEngine) refreshAggregates(account *Account, txs []*Transaction) error {
	var balance, reconciled, invested Money
	for _, t := range txs {
		balance = t.Balance
		if t.State == Reconciled {
			reconciled = reconciled.Add(t.Amount)
		}
		if t.Amount.IsPositive() {
			category := e.ledger.CategoryByID(t.Category)
			if category == nil {
				return fmt.Errorf("transaction %d on %q references unknown category %d", t.ID, account.Name, t.Category)
			}
			if category.Code == CodeInvestment || category.Code == CodeContribution {
				invested = invested.Add(t.Amount)
			}
		}
	}
	account.Balance = balance
	account.ReconciledBalance = reconciled
	account.InvestedAmount = invested
	return nil
}
