package comptes

import (
	"testing"
)

func TestRecomputeFrom_RunningBalances(t *testing.T) {
	l, account := testLedger(t)
	t1 := addTx(t, l, account, "2025-01-01", eur(100), "Salaire")
	t2 := addTx(t, l, account, "2025-01-02", eur(-30), "Courses")

	engine := NewBalanceEngine(l)
	if err := engine.RecomputeFull(account); err != nil {
		t.Fatalf("RecomputeFull() error = %v", err)
	}

	assertMoney(t, "t1.Balance", t1.Balance, eur(100))
	assertMoney(t, "t2.Balance", t2.Balance, eur(70))
	assertMoney(t, "account.Balance", account.Balance, eur(70))
}

func TestRecomputeFrom_InsertionShiftsLaterBalances(t *testing.T) {
	l, account := testLedger(t)
	addTx(t, l, account, "2025-01-01", eur(100), "Salaire")
	t2 := addTx(t, l, account, "2025-01-05", eur(-30), "Courses")

	engine := NewBalanceEngine(l)
	if err := engine.RecomputeFull(account); err != nil {
		t.Fatalf("RecomputeFull() error = %v", err)
	}
	assertMoney(t, "account.Balance before insert", account.Balance, eur(70))

	// insert a transaction dated between the two existing ones
	inserted := addTx(t, l, account, "2025-01-03", eur(-20), "Courses")
	if err := engine.RecomputeFrom(account, inserted.Date); err != nil {
		t.Fatalf("RecomputeFrom() error = %v", err)
	}

	assertMoney(t, "inserted.Balance", inserted.Balance, eur(80))
	assertMoney(t, "t2.Balance", t2.Balance, eur(50))
	assertMoney(t, "account.Balance", account.Balance, eur(50))
}

func TestRecomputeFrom_RevaluationPinsBalance(t *testing.T) {
	l, account := testLedger(t)
	addMovementCategories(t, l, CodeRevaluation)
	addTx(t, l, account, "2025-01-01", eur(450), "Salaire")

	surplus := l.CategoryVariant(CodeRevaluation, Income)
	deficit := l.CategoryVariant(CodeRevaluation, Expense)

	// pinned above the previous balance: the surplus variant must be picked
	pinned := &Transaction{
		Date:     MustParseDate("2025-02-01"),
		Account:  account.ID,
		Category: deficit.ID, // wrong on purpose, the engine re-picks by sign
		Balance:  eur(500),
	}
	if err := l.AddTransaction(pinned); err != nil {
		t.Fatal(err)
	}

	engine := NewBalanceEngine(l)
	if err := engine.RecomputeFull(account); err != nil {
		t.Fatalf("RecomputeFull() error = %v", err)
	}

	assertMoney(t, "pinned.Amount", pinned.Amount, eur(50))
	assertMoney(t, "pinned.Balance", pinned.Balance, eur(500))
	if pinned.Category != surplus.ID {
		t.Errorf("pinned.Category = %d, want surplus variant %d", pinned.Category, surplus.ID)
	}
	assertMoney(t, "account.Balance", account.Balance, eur(500))
}

func TestRecomputeFrom_RevaluationDeficit(t *testing.T) {
	l, account := testLedger(t)
	addMovementCategories(t, l, CodeRevaluation)
	addTx(t, l, account, "2025-01-01", eur(500), "Salaire")

	surplus := l.CategoryVariant(CodeRevaluation, Income)
	deficit := l.CategoryVariant(CodeRevaluation, Expense)

	pinned := &Transaction{
		Date:     MustParseDate("2025-02-01"),
		Account:  account.ID,
		Category: surplus.ID,
		Balance:  eur(420),
	}
	if err := l.AddTransaction(pinned); err != nil {
		t.Fatal(err)
	}

	engine := NewBalanceEngine(l)
	if err := engine.RecomputeFull(account); err != nil {
		t.Fatalf("RecomputeFull() error = %v", err)
	}

	assertMoney(t, "pinned.Amount", pinned.Amount, eur(-80))
	if pinned.Category != deficit.ID {
		t.Errorf("pinned.Category = %d, want deficit variant %d", pinned.Category, deficit.ID)
	}
}

func TestRecomputeFull_Idempotent(t *testing.T) {
	l, account := testLedger(t)
	addMovementCategories(t, l, CodeRevaluation)
	addTx(t, l, account, "2025-01-01", eur(100), "Salaire")
	addTx(t, l, account, "2025-01-02", eur(-30), "Courses")
	pinned := &Transaction{
		Date:     MustParseDate("2025-02-01"),
		Account:  account.ID,
		Category: l.CategoryVariant(CodeRevaluation, Income).ID,
		Balance:  eur(90),
	}
	if err := l.AddTransaction(pinned); err != nil {
		t.Fatal(err)
	}

	engine := NewBalanceEngine(l)
	if err := engine.RecomputeFull(account); err != nil {
		t.Fatalf("RecomputeFull() error = %v", err)
	}

	var first []Money
	for _, tx := range l.TransactionsOf(account.ID) {
		first = append(first, tx.Balance, tx.Amount)
	}
	balance, reconciled := account.Balance, account.ReconciledBalance

	if err := engine.RecomputeFull(account); err != nil {
		t.Fatalf("second RecomputeFull() error = %v", err)
	}
	for i, tx := range l.TransactionsOf(account.ID) {
		assertMoney(t, "balance after rerun", tx.Balance, first[2*i])
		assertMoney(t, "amount after rerun", tx.Amount, first[2*i+1])
	}
	assertMoney(t, "account.Balance after rerun", account.Balance, balance)
	assertMoney(t, "account.ReconciledBalance after rerun", account.ReconciledBalance, reconciled)
}

// The cached balances must always match an independent recomputation from
// the amounts and pinned balances alone.
func TestRecomputeFrom_MatchesIndependentRecomputation(t *testing.T) {
	l, account := testLedger(t)
	addMovementCategories(t, l, CodeRevaluation)
	addTx(t, l, account, "2025-01-01", eur(1000), "Salaire")
	addTx(t, l, account, "2025-01-10", eur(-250.5), "Courses")
	pinned := &Transaction{
		Date:     MustParseDate("2025-01-15"),
		Account:  account.ID,
		Category: l.CategoryVariant(CodeRevaluation, Income).ID,
		Balance:  eur(800),
	}
	if err := l.AddTransaction(pinned); err != nil {
		t.Fatal(err)
	}
	addTx(t, l, account, "2025-01-20", eur(42), "Salaire")

	engine := NewBalanceEngine(l)
	if err := engine.RecomputeFull(account); err != nil {
		t.Fatalf("RecomputeFull() error = %v", err)
	}

	var prev Money
	for _, tx := range l.TransactionsOf(account.ID) {
		category := l.CategoryByID(tx.Category)
		var want Money
		if category.Code == CodeRevaluation {
			want = tx.Balance // pinned, trusted as is
		} else {
			want = prev.Add(tx.Amount)
		}
		assertMoney(t, "balance of "+tx.Date.String(), tx.Balance, want)
		prev = want
	}
}

func TestRecomputeFrom_ReconciledAggregate(t *testing.T) {
	l, account := testLedger(t)
	t1 := addTx(t, l, account, "2025-01-01", eur(100), "Salaire")
	addTx(t, l, account, "2025-01-02", eur(-30), "Courses")
	t1.State = Reconciled

	engine := NewBalanceEngine(l)
	if err := engine.RecomputeFull(account); err != nil {
		t.Fatalf("RecomputeFull() error = %v", err)
	}
	assertMoney(t, "account.ReconciledBalance", account.ReconciledBalance, eur(100))
}

func TestRecomputeFrom_UnknownCategoryIsAnError(t *testing.T) {
	l, account := testLedger(t)
	tx := &Transaction{
		Date:     MustParseDate("2025-01-01"),
		Amount:   eur(10),
		Account:  account.ID,
		Category: 999,
	}
	if err := l.AddTransaction(tx); err != nil {
		t.Fatal(err)
	}
	engine := NewBalanceEngine(l)
	if err := engine.RecomputeFull(account); err == nil {
		t.Error("RecomputeFull() = nil, want referential error")
	}
}
