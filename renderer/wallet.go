package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/comptes"
)

// Wallet renders the stock-position snapshot of a brokerage account.
func Wallet(l *comptes.Ledger, account *comptes.Account) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Wallet of %s\n\n", account.Name)

	rows := l.Wallet(account.ID)
	if len(rows) == 0 {
		fmt.Fprintln(&b, "No open position.")
		return b.String()
	}

	fmt.Fprintln(&b, "| Stock | Volume | Cost | Price | Value |")
	fmt.Fprintln(&b, "|:---|---:|---:|---:|---:|")
	for _, row := range rows {
		name := ""
		if s := l.StockByID(row.Stock); s != nil {
			name = s.Name
		}
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
			name,
			row.Volume,
			row.Cost,
			row.Price,
			row.Value(),
		)
	}
	return b.String()
}
