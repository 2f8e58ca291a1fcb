package renderer

import (
	"strings"
	"testing"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/etnz/comptes"
)

// headings parses a markdown source and returns its heading texts in order.
func headings(t *testing.T, source string) []string {
	t.Helper()
	content := []byte(source)
	mdParser := goldmark.DefaultParser()
	root := mdParser.Parse(text.NewReader(content))

	var found []string
	ast.Walk(root, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		if h, ok := n.(*ast.Heading); ok {
			var b strings.Builder
			for i := 0; i < h.Lines().Len(); i++ {
				line := h.Lines().At(i)
				b.Write(line.Value(content))
			}
			found = append(found, strings.TrimSpace(b.String()))
		}
		return ast.WalkContinue, nil
	})
	return found
}

func TestReport(t *testing.T) {
	r := &comptes.ImportReport{
		File:         "export.qif",
		Transactions: 3,
		CreatedAccounts: []string{
			"Livret",
		},
		Warnings: []comptes.ImportWarning{
			{Record: 2, Message: "invalid QIF date"},
		},
		Totals: []comptes.AccountTotal{
			{Name: "Courant", Balance: comptes.M(70, "EUR")},
		},
	}
	got := Report(r)

	want := []string{"Import of export.qif", "Accounts created", "Warnings", "Accounts"}
	if hs := headings(t, got); !equalStrings(hs, want) {
		t.Errorf("headings = %q, want %q", hs, want)
	}
	if !strings.Contains(got, "3 transactions imported.") {
		t.Errorf("missing transaction count in:\n%s", got)
	}
	if !strings.Contains(got, "| 2 | invalid QIF date |") {
		t.Errorf("missing warning row in:\n%s", got)
	}
}

func TestAccounts(t *testing.T) {
	l := comptes.NewLedger()
	if err := l.AddAccount(&comptes.Account{Name: "Courant"}); err != nil {
		t.Fatal(err)
	}
	got := Accounts(l)

	if hs := headings(t, got); !equalStrings(hs, []string{"Accounts"}) {
		t.Errorf("headings = %q", hs)
	}
	if !strings.Contains(got, "| Courant | cash |") {
		t.Errorf("missing account row in:\n%s", got)
	}
}

func TestWalletEmpty(t *testing.T) {
	l := comptes.NewLedger()
	a := &comptes.Account{Name: "PEA", Type: comptes.AccountBrokerage}
	if err := l.AddAccount(a); err != nil {
		t.Fatal(err)
	}
	got := Wallet(l, a)
	if !strings.Contains(got, "No open position.") {
		t.Errorf("unexpected wallet rendering:\n%s", got)
	}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
