package comptes

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
)

func memoFixture(t *testing.T) (*Ledger, *MemoDecoder, *Account) {
	t.Helper()
	l, account := testLedger(t)
	decoder := NewMemoDecoder(l, NewEntityResolver(l))
	return l, decoder, account
}

// prototype builds the neutral transaction an import record starts from.
func prototype(account *Account, amount Money, memo string) *Transaction {
	return &Transaction{
		Date:    MustParseDate("2025-04-01"),
		Amount:  amount,
		Account: account.ID,
		Memo:    memo,
	}
}

func TestMemoDecodable(t *testing.T) {
	tests := []struct {
		memo string
		want bool
	}{
		{"Stock:[AcmeCorp] v=10 p=12.50", true},
		{"Versement:[Assurance vie]", true},
		{"Projet:", true},
		{"groceries at the corner shop", false},
		{"", false},
		{"10:30 parking", false},
	}
	for _, tc := range tests {
		if got := memoDecodable(tc.memo); got != tc.want {
			t.Errorf("memoDecodable(%q) = %v, want %v", tc.memo, got, tc.want)
		}
	}
}

func TestDecode_Trade(t *testing.T) {
	l, decoder, account := memoFixture(t)
	tx := prototype(account, eur(-125), "Stock:[AcmeCorp] v=10 p=12.50")

	standard, err := decoder.Decode(tx)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if standard {
		t.Fatal("Decode() standard = true, want a decoded trade")
	}

	if tx.Brokerage == nil {
		t.Fatal("no brokerage detail")
	}
	if tx.Brokerage.Kind != Buying {
		t.Errorf("Kind = %v, want Buying", tx.Brokerage.Kind)
	}
	if !tx.Brokerage.Volume.Equal(decimal.NewFromInt(10)) {
		t.Errorf("Volume = %v, want 10", tx.Brokerage.Volume)
	}
	assertMoney(t, "Price", tx.Brokerage.Price, eur(12.50))
	// |amount| fully explained by volume*price: no fee
	if !tx.Brokerage.Fee.IsZero() {
		t.Errorf("Fee = %v, want 0", tx.Brokerage.Fee)
	}
	if c := l.CategoryByID(tx.Category); c.Code != CodeSecurity || c.Type != Expense {
		t.Errorf("category = %+v, want the %s expense variant", c, CodeSecurity)
	}
	if s := l.StockByName("AcmeCorp"); s == nil {
		t.Error("stock AcmeCorp not created")
	}
	if l.TransactionByID(tx.ID) == nil {
		t.Error("trade not stored in the ledger")
	}
}

func TestDecode_TradeSelling(t *testing.T) {
	l, decoder, account := memoFixture(t)
	tx := prototype(account, eur(120), "Stock:[AcmeCorp] v=10 p=12.50")

	if _, err := decoder.Decode(tx); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if tx.Brokerage.Kind != Selling {
		t.Errorf("Kind = %v, want Selling", tx.Brokerage.Kind)
	}
	// gross 125 received 120: 5 of brokerage fees
	assertMoney(t, "Fee", tx.Brokerage.Fee, eur(5))
	if c := l.CategoryByID(tx.Category); c.Type != Income {
		t.Errorf("category type = %v, want Income", c.Type)
	}
}

func TestDecode_TradeMissingToken(t *testing.T) {
	_, decoder, account := memoFixture(t)
	tests := []string{
		"Stock:[AcmeCorp] v=10",
		"Stock:[AcmeCorp] p=12.50",
		"Stock:[AcmeCorp]",
	}
	for _, memo := range tests {
		tx := prototype(account, eur(-125), memo)
		if _, err := decoder.Decode(tx); !errors.Is(err, ErrMissingToken) {
			t.Errorf("Decode(%q) error = %v, want ErrMissingToken", memo, err)
		}
	}
}

func TestDecode_Dividend(t *testing.T) {
	l, decoder, account := memoFixture(t)
	tx := prototype(account, eur(15), "Dividendes:[AcmeCorp]")

	standard, err := decoder.Decode(tx)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if standard {
		t.Fatal("Decode() standard = true, want a decoded dividend")
	}
	if tx.Brokerage == nil || tx.Brokerage.Kind != DividendIncome {
		t.Fatalf("Brokerage = %+v, want a dividend detail", tx.Brokerage)
	}
	if !tx.Brokerage.Volume.IsZero() {
		t.Errorf("Volume = %v, want 0", tx.Brokerage.Volume)
	}
	if c := l.CategoryByID(tx.Category); c.Code != CodeDividend {
		t.Errorf("category code = %q, want %s", c.Code, CodeDividend)
	}
}

func TestDecode_Contribution(t *testing.T) {
	l, decoder, account := memoFixture(t)
	tx := prototype(account, eur(-1000), "Versement:[Assurance vie] €980")

	standard, err := decoder.Decode(tx)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if standard {
		t.Fatal("Decode() standard = true, want a contribution pair")
	}

	wrapper := l.AccountByName("Assurance vie")
	if wrapper == nil {
		t.Fatal("wrapper account not created")
	}
	if wrapper.Type != AccountCapitalization {
		t.Errorf("wrapper.Type = %v, want capitalization", wrapper.Type)
	}

	credits := l.TransactionsOf(wrapper.ID)
	debits := l.TransactionsOf(account.ID)
	if len(credits) != 1 || len(debits) != 1 {
		t.Fatalf("transactions: wrapper %d, source %d, want 1 and 1", len(credits), len(debits))
	}
	assertMoney(t, "debit.Amount", debits[0].Amount, eur(-1000))
	assertMoney(t, "credit.Amount", credits[0].Amount, eur(980))
	if debits[0].Transfer != credits[0].ID {
		t.Error("pair not linked")
	}
}

func TestDecode_ContributionWithoutExplicitValue(t *testing.T) {
	l, decoder, account := memoFixture(t)
	tx := prototype(account, eur(-500), "Versement:[Assurance vie]")

	if _, err := decoder.Decode(tx); err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	wrapper := l.AccountByName("Assurance vie")
	credits := l.TransactionsOf(wrapper.ID)
	assertMoney(t, "credit.Amount", credits[0].Amount, eur(500))
}

func TestDecode_Project(t *testing.T) {
	l, decoder, account := memoFixture(t)
	tx := prototype(account, eur(-50), "Projet:[Cuisine] new oven")

	standard, err := decoder.Decode(tx)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !standard {
		t.Fatal("Decode() standard = false, want a tagged standard transaction")
	}
	project := l.ProjectByName("Cuisine")
	if project == nil {
		t.Fatal("project not created")
	}
	if tx.Project != project.ID {
		t.Errorf("tx.Project = %d, want %d", tx.Project, project.ID)
	}
}

func TestDecode_VirementStaysStandard(t *testing.T) {
	_, decoder, account := memoFixture(t)
	tx := prototype(account, eur(-50), "Virement:[Livret]")

	standard, err := decoder.Decode(tx)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if !standard {
		t.Error("Decode() standard = false, want true for Virement")
	}
}

func TestDecode_UnknownKeyword(t *testing.T) {
	_, decoder, account := memoFixture(t)
	tx := prototype(account, eur(-50), "Bidule:[X] y=2")
	if _, err := decoder.Decode(tx); !errors.Is(err, ErrMalformedMemo) {
		t.Errorf("Decode() error = %v, want ErrMalformedMemo", err)
	}
}
