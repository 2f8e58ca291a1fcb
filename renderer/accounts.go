package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/comptes"
)

// Accounts renders the account list with cached balances to markdown.
func Accounts(l *comptes.Ledger) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Accounts\n\n")
	fmt.Fprintln(&b, "| Account | Type | Balance | Reconciled | Invested |")
	fmt.Fprintln(&b, "|:---|:---|---:|---:|---:|")
	for a := range l.AllAccounts() {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			a.Name,
			a.Type,
			a.Balance,
			a.ReconciledBalance,
			a.InvestedAmount,
		)
	}
	return b.String()
}

// Transaction renders a transaction to a one-line description.
func Transaction(l *comptes.Ledger, t *comptes.Transaction) string {
	account := ""
	if a := l.AccountByID(t.Account); a != nil {
		account = a.Name
	}
	category := ""
	if c := l.CategoryByID(t.Category); c != nil {
		category = c.Name
	}
	return fmt.Sprintf("%s %s %s on %q (%s)", t.Date, t.Amount.SignedString(), category, account, t.Memo)
}
