package comptes

import "testing"

// eur builds an amount in euros, the ledger's single-currency convention.
func eur(v float64) Money { return M(v, "EUR") }

// testLedger builds a ledger with one cash account and the usual categories.
func testLedger(t *testing.T) (*Ledger, *Account) {
	t.Helper()
	l := NewLedger()
	account := &Account{Name: "Courant"}
	if err := l.AddAccount(account); err != nil {
		t.Fatal(err)
	}
	for _, c := range []*Category{
		{Name: "Salaire", Type: Income},
		{Name: "Courses", Type: Expense},
	} {
		if err := l.AddCategory(c); err != nil {
			t.Fatal(err)
		}
	}
	return l, account
}

// addMovementCategories creates both variants of the given movement codes.
func addMovementCategories(t *testing.T, l *Ledger, codes ...string) {
	t.Helper()
	resolver := NewEntityResolver(l)
	for _, code := range codes {
		if _, err := resolver.MovementCategory(code, Income); err != nil {
			t.Fatal(err)
		}
		if _, err := resolver.MovementCategory(code, Expense); err != nil {
			t.Fatal(err)
		}
	}
}

// addTx stores a transaction on the account with the named category.
func addTx(t *testing.T, l *Ledger, account *Account, on string, amount Money, category string) *Transaction {
	t.Helper()
	c := l.CategoryByName(category)
	if c == nil {
		t.Fatalf("unknown category %q", category)
	}
	tx := &Transaction{
		Date:     MustParseDate(on),
		Amount:   amount,
		Account:  account.ID,
		Category: c.ID,
	}
	if err := l.AddTransaction(tx); err != nil {
		t.Fatal(err)
	}
	return tx
}

// assertMoney fails the test when got differs from want.
func assertMoney(t *testing.T, label string, got, want Money) {
	t.Helper()
	if !got.Equal(want) {
		t.Errorf("%s = %v, want %v", label, got, want)
	}
}
