// Package renderer turns ledger objects into markdown reports.
//
// The functions here only build strings; printing (possibly through a
// terminal markdown renderer) is the caller's concern.
package renderer

import (
	"fmt"
	"strings"

	"github.com/etnz/comptes"
)

// Report renders an import report to markdown: counters, created entities,
// warnings, and the resulting account totals.
func Report(r *comptes.ImportReport) string {
	var b strings.Builder
	if r.File != "" {
		fmt.Fprintf(&b, "# Import of %s\n\n", r.File)
	} else {
		fmt.Fprintf(&b, "# Import\n\n")
	}
	fmt.Fprintf(&b, "%d transactions imported.\n\n", r.Transactions)

	createdSection(&b, "Accounts created", r.CreatedAccounts)
	createdSection(&b, "Categories created", r.CreatedCategories)
	createdSection(&b, "Recipients created", r.CreatedRecipients)
	createdSection(&b, "Stocks created", r.CreatedStocks)
	createdSection(&b, "Projects created", r.CreatedProjects)

	if len(r.Warnings) > 0 {
		fmt.Fprintf(&b, "## Warnings\n\n")
		fmt.Fprintln(&b, "| Record | Message |")
		fmt.Fprintln(&b, "|---:|:---|")
		for _, w := range r.Warnings {
			fmt.Fprintf(&b, "| %d | %s |\n", w.Record, w.Message)
		}
		fmt.Fprintln(&b)
	}

	if len(r.Totals) > 0 {
		fmt.Fprintf(&b, "## Accounts\n\n")
		fmt.Fprintln(&b, "| Account | Balance | Invested |")
		fmt.Fprintln(&b, "|:---|---:|---:|")
		for _, total := range r.Totals {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", total.Name, total.Balance, total.Invested)
		}
		fmt.Fprintln(&b)
	}
	return b.String()
}

func createdSection(b *strings.Builder, title string, names []string) {
	if len(names) == 0 {
		return
	}
	fmt.Fprintf(b, "## %s\n\n", title)
	for _, name := range names {
		fmt.Fprintf(b, "* %s\n", name)
	}
	fmt.Fprintln(b)
}
