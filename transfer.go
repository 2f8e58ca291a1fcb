package comptes

import (
	"fmt"
)

// TransferPair is one logical money movement between two accounts,
// represented by two mutually linked transactions. The credit side carries
// the positive amount, the debit side the negative one.
type TransferPair struct {
	Credit *Transaction
	Debit  *Transaction
}

// TransferSynchronizer maintains linked debit/credit transaction pairs for
// transfers, capital contributions and repurchases. All structural mutation
// of a pair goes through it, so that both sides stay consistent before any
// balance run.
type TransferSynchronizer struct {
	ledger *Ledger
}

// NewTransferSynchronizer creates a synchronizer bound to a ledger.
func NewTransferSynchronizer(l *Ledger) *TransferSynchronizer {
	return &TransferSynchronizer{ledger: l}
}

// PairOf recovers the pair a linked transaction belongs to. The side is
// classified by amount sign: the negative side is the debit.
func (s *TransferSynchronizer) PairOf(t *Transaction) (TransferPair, error) {
	if t.Transfer == 0 {
		return TransferPair{}, fmt.Errorf("transaction %d is not linked to a pair", t.ID)
	}
	other := s.ledger.TransactionByID(t.Transfer)
	if other == nil {
		return TransferPair{}, fmt.Errorf("transaction %d links to unknown transaction %d", t.ID, t.Transfer)
	}
	if other.Transfer != t.ID {
		return TransferPair{}, fmt.Errorf("transactions %d and %d are not mutually linked", t.ID, other.ID)
	}
	if t.Amount.IsNegative() {
		return TransferPair{Credit: other, Debit: t}, nil
	}
	return TransferPair{Credit: t, Debit: other}, nil
}

// Synthesize builds the missing side of a pair for a stored transaction:
// a clone with flipped sign and the opposite income/expense category variant
// of the same movement code, linked back to the original.
func (s *TransferSynchronizer) Synthesize(t *Transaction) (TransferPair, error) {
	category := s.ledger.CategoryByID(t.Category)
	if category == nil {
		return TransferPair{}, fmt.Errorf("transaction %d references unknown category %d", t.ID, t.Category)
	}
	if category.Code == "" {
		return TransferPair{}, fmt.Errorf("category %q has no movement code, cannot pair", category.Name)
	}
	opposite := Income
	if category.Type == Income {
		opposite = Expense
	}
	variant := s.ledger.CategoryVariant(category.Code, opposite)
	if variant == nil {
		return TransferPair{}, fmt.Errorf("movement %s has no %s category variant", category.Code, opposite)
	}

	clone := &Transaction{
		Date:          t.Date,
		Amount:        t.Amount.Neg(),
		Account:       t.Account,
		Category:      variant.ID,
		PaymentMethod: t.PaymentMethod,
		Recipient:     t.Recipient,
		Project:       t.Project,
		Memo:          t.Memo,
	}
	if err := s.ledger.AddTransaction(clone); err != nil {
		return TransferPair{}, err
	}
	t.Transfer = clone.ID
	clone.Transfer = t.ID

	if t.Amount.IsNegative() {
		return TransferPair{Credit: clone, Debit: t}, nil
	}
	return TransferPair{Credit: t, Debit: clone}, nil
}

// Bind assigns the two sides of a pair to their accounts and settles the
// amounts: the debit mirrors the credit with a flipped sign and shares its
// date. For capital contributions the capitalized value may legitimately
// differ from the debited amount (rounding, fees): passing a non-zero
// invested amount overrides the credit side only, and a rebind keeps the
// stored debit amount rather than mirroring the credit over it.
func (s *TransferSynchronizer) Bind(pair TransferPair, source, target *Account, invested Money) error {
	if source == nil || target == nil {
		return fmt.Errorf("transfer needs both a source and a target account")
	}
	credit, debit := pair.Credit, pair.Debit
	debit.Account = source.ID
	if !s.freeCredit(credit) {
		debit.Amount = credit.Amount.Abs().Neg()
	}
	debit.Date = credit.Date
	credit.Account = target.ID
	if !invested.IsZero() {
		credit.Amount = invested.Abs()
	}
	return nil
}

// freeCredit reports whether the transaction's movement allows the credit
// amount to differ from the debited one.
func (s *TransferSynchronizer) freeCredit(t *Transaction) bool {
	c := s.ledger.CategoryByID(t.Category)
	if c == nil {
		return false
	}
	a, ok := ArchetypeOf(c.Code)
	return ok && a.FreeCredit
}

// Unbind neutralizes a pair before deletion: both amounts are zeroed so a
// subsequent balance run removes their effect cleanly, and the mutual links
// are cleared. The caller then deletes the rows.
func (s *TransferSynchronizer) Unbind(pair TransferPair) {
	pair.Credit.Amount = M(0, pair.Credit.Amount.Currency())
	pair.Debit.Amount = M(0, pair.Debit.Amount.Currency())
	pair.Credit.Transfer = 0
	pair.Debit.Transfer = 0
}

// NewTransfer materializes a full pair for a movement code: the debit on the
// source account for the given (negative or positive, only the magnitude
// matters) amount, the credit on the target account. A non-zero invested
// amount sets the credit side independently, for capital contributions.
func (s *TransferSynchronizer) NewTransfer(code string, source, target *Account, on Date, amount Money, memo string, invested Money) (TransferPair, error) {
	arch, ok := ArchetypeOf(code)
	if !ok {
		return TransferPair{}, fmt.Errorf("unknown movement code %q", code)
	}
	expense := s.ledger.CategoryVariant(code, Expense)
	if expense == nil {
		return TransferPair{}, fmt.Errorf("movement %s has no expense category variant", code)
	}
	debit := &Transaction{
		Date:          on,
		Amount:        amount.Abs().Neg(),
		Account:       source.ID,
		Category:      expense.ID,
		PaymentMethod: arch.PaymentMethod,
		Memo:          memo,
	}
	if err := s.ledger.AddTransaction(debit); err != nil {
		return TransferPair{}, err
	}
	pair, err := s.Synthesize(debit)
	if err != nil {
		return TransferPair{}, err
	}
	if err := s.Bind(pair, source, target, invested); err != nil {
		return TransferPair{}, err
	}
	return pair, nil
}
