package comptes

import (
	"testing"
)

func transferFixture(t *testing.T) (*Ledger, *Account, *Account) {
	t.Helper()
	l, source := testLedger(t)
	target := &Account{Name: "Livret", Type: AccountSavings}
	if err := l.AddAccount(target); err != nil {
		t.Fatal(err)
	}
	addMovementCategories(t, l, CodeTransfer, CodeContribution)
	return l, source, target
}

func TestNewTransfer_PairInvariants(t *testing.T) {
	l, source, target := transferFixture(t)

	sync := NewTransferSynchronizer(l)
	pair, err := sync.NewTransfer(CodeTransfer, source, target, MustParseDate("2025-03-01"), eur(-200), "", Money{})
	if err != nil {
		t.Fatalf("NewTransfer() error = %v", err)
	}

	credit, debit := pair.Credit, pair.Debit
	if credit.Transfer != debit.ID || debit.Transfer != credit.ID {
		t.Errorf("pair not mutually linked: credit.Transfer=%d debit.ID=%d debit.Transfer=%d credit.ID=%d",
			credit.Transfer, debit.ID, debit.Transfer, credit.ID)
	}
	if credit.Date != debit.Date {
		t.Errorf("dates differ: credit %s, debit %s", credit.Date, debit.Date)
	}
	assertMoney(t, "debit.Amount", debit.Amount, eur(-200))
	assertMoney(t, "credit.Amount", credit.Amount, eur(200))
	if debit.Account != source.ID || credit.Account != target.ID {
		t.Errorf("accounts: debit on %d want %d, credit on %d want %d", debit.Account, source.ID, credit.Account, target.ID)
	}

	// opposite-signed category variants of the same movement code
	cc, dc := l.CategoryByID(credit.Category), l.CategoryByID(debit.Category)
	if cc.Code != CodeTransfer || dc.Code != CodeTransfer {
		t.Errorf("category codes: credit %q, debit %q, want %q", cc.Code, dc.Code, CodeTransfer)
	}
	if cc.Type != Income || dc.Type != Expense {
		t.Errorf("category types: credit %v, debit %v", cc.Type, dc.Type)
	}
}

func TestNewTransfer_ContributionInvestedAmount(t *testing.T) {
	l, source, _ := transferFixture(t)
	wrapper := &Account{Name: "Assurance vie", Type: AccountCapitalization}
	if err := l.AddAccount(wrapper); err != nil {
		t.Fatal(err)
	}

	// the capitalized value differs from the debited amount (entry fees)
	sync := NewTransferSynchronizer(l)
	pair, err := sync.NewTransfer(CodeContribution, source, wrapper, MustParseDate("2025-03-01"), eur(-1000), "", eur(980))
	if err != nil {
		t.Fatalf("NewTransfer() error = %v", err)
	}

	assertMoney(t, "debit.Amount", pair.Debit.Amount, eur(-1000))
	assertMoney(t, "credit.Amount", pair.Credit.Amount, eur(980))
}

func TestPairOf_ClassifiesBySign(t *testing.T) {
	l, source, target := transferFixture(t)
	sync := NewTransferSynchronizer(l)
	pair, err := sync.NewTransfer(CodeTransfer, source, target, MustParseDate("2025-03-01"), eur(-50), "", Money{})
	if err != nil {
		t.Fatalf("NewTransfer() error = %v", err)
	}

	// recover the pair from either side
	fromDebit, err := sync.PairOf(pair.Debit)
	if err != nil {
		t.Fatalf("PairOf(debit) error = %v", err)
	}
	fromCredit, err := sync.PairOf(pair.Credit)
	if err != nil {
		t.Fatalf("PairOf(credit) error = %v", err)
	}
	if fromDebit.Credit.ID != pair.Credit.ID || fromCredit.Debit.ID != pair.Debit.ID {
		t.Error("PairOf() did not recover the same pair from both sides")
	}
}

func TestPairOf_RejectsBrokenLinks(t *testing.T) {
	l, source, target := transferFixture(t)
	sync := NewTransferSynchronizer(l)
	pair, err := sync.NewTransfer(CodeTransfer, source, target, MustParseDate("2025-03-01"), eur(-50), "", Money{})
	if err != nil {
		t.Fatalf("NewTransfer() error = %v", err)
	}

	// break the mutual link
	pair.Credit.Transfer = 0
	if _, err := sync.PairOf(pair.Debit); err == nil {
		t.Error("PairOf() = nil error on a one-way link")
	}
}

func TestDeleteTransaction_RemovesBothSides(t *testing.T) {
	l, source, target := transferFixture(t)
	sync := NewTransferSynchronizer(l)
	pair, err := sync.NewTransfer(CodeTransfer, source, target, MustParseDate("2025-03-01"), eur(-200), "", Money{})
	if err != nil {
		t.Fatalf("NewTransfer() error = %v", err)
	}
	addTx(t, l, source, "2025-01-01", eur(500), "Salaire")

	engine := NewBalanceEngine(l)
	if err := engine.RecomputeAll(); err != nil {
		t.Fatalf("RecomputeAll() error = %v", err)
	}
	assertMoney(t, "source.Balance", source.Balance, eur(300))
	assertMoney(t, "target.Balance", target.Balance, eur(200))

	if err := l.DeleteTransaction(pair.Debit.ID); err != nil {
		t.Fatalf("DeleteTransaction() error = %v", err)
	}
	if l.TransactionByID(pair.Credit.ID) != nil {
		t.Error("credit side still stored after deleting the debit side")
	}
	assertMoney(t, "source.Balance after delete", source.Balance, eur(500))
	if !target.Balance.IsZero() {
		t.Errorf("target.Balance after delete = %v, want zero", target.Balance)
	}
}

func TestUpdateTransaction_MemoEditKeepsContributionDebit(t *testing.T) {
	l, source, _ := transferFixture(t)
	wrapper := &Account{Name: "Assurance vie", Type: AccountCapitalization}
	if err := l.AddAccount(wrapper); err != nil {
		t.Fatal(err)
	}
	addTx(t, l, source, "2025-01-01", eur(2000), "Salaire")

	sync := NewTransferSynchronizer(l)
	pair, err := sync.NewTransfer(CodeContribution, source, wrapper, MustParseDate("2025-03-01"), eur(-1000), "", eur(980))
	if err != nil {
		t.Fatalf("NewTransfer() error = %v", err)
	}
	engine := NewBalanceEngine(l)
	if err := engine.RecomputeAll(); err != nil {
		t.Fatalf("RecomputeAll() error = %v", err)
	}

	// a memo-only edit of the debit side must not touch either amount
	edit := *pair.Debit
	edit.Memo = "september contribution"
	if err := l.UpdateTransaction(&edit); err != nil {
		t.Fatalf("UpdateTransaction() error = %v", err)
	}

	debit := l.TransactionByID(edit.ID)
	if debit.Memo != "september contribution" {
		t.Errorf("Memo = %q, want the edited one", debit.Memo)
	}
	assertMoney(t, "debit.Amount", debit.Amount, eur(-1000))
	assertMoney(t, "credit.Amount", l.TransactionByID(debit.Transfer).Amount, eur(980))
	assertMoney(t, "source.Balance", source.Balance, eur(1000))
	assertMoney(t, "wrapper.Balance", wrapper.Balance, eur(980))
}

func TestUpdateTransaction_CreditEditMirrorsDebit(t *testing.T) {
	l, source, target := transferFixture(t)
	addTx(t, l, source, "2025-01-01", eur(500), "Salaire")

	sync := NewTransferSynchronizer(l)
	pair, err := sync.NewTransfer(CodeTransfer, source, target, MustParseDate("2025-03-01"), eur(-200), "", Money{})
	if err != nil {
		t.Fatalf("NewTransfer() error = %v", err)
	}
	engine := NewBalanceEngine(l)
	if err := engine.RecomputeAll(); err != nil {
		t.Fatalf("RecomputeAll() error = %v", err)
	}

	// a plain transfer keeps both sides mirrored on edit
	edit := *pair.Credit
	edit.Amount = eur(250)
	if err := l.UpdateTransaction(&edit); err != nil {
		t.Fatalf("UpdateTransaction() error = %v", err)
	}

	assertMoney(t, "debit.Amount", l.TransactionByID(edit.Transfer).Amount, eur(-250))
	assertMoney(t, "source.Balance", source.Balance, eur(250))
	assertMoney(t, "target.Balance", target.Balance, eur(250))
}

func TestCreateTransaction_RejectsPairedCategories(t *testing.T) {
	l, source, _ := transferFixture(t)
	transfer := l.CategoryVariant(CodeTransfer, Expense)
	tx := &Transaction{
		Date:     MustParseDate("2025-03-01"),
		Amount:   eur(-10),
		Account:  source.ID,
		Category: transfer.ID,
	}
	if err := l.CreateTransaction(tx); err == nil {
		t.Error("CreateTransaction() = nil, want error for a paired-movement category")
	}
}
