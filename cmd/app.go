// Package cmd implements the CLI application to manage the accounts ledger.
package cmd

import (
	"flag"
	"fmt"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/comptes"
	"github.com/google/subcommands"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&importQifCmd{}, "imports")
	c.Register(&importCategoriesCmd{}, "imports")
	c.Register(&importValuationsCmd{}, "imports")

	c.Register(&addCmd{}, "transactions")
	c.Register(&delCmd{}, "transactions")
	c.Register(&transferCmd{}, "transactions")

	c.Register(&accountsCmd{}, "reports")
	c.Register(&walletCmd{}, "reports")

	c.Register(&updateCmd{}, "maintenance")
	c.Register(&recomputeCmd{}, "maintenance")
	c.Register(&fmtCmd{}, "maintenance")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var dataFile = flag.String("data-file", comptes.DefaultDataFile, "Path to the ledger data file (JSONL format)")

// openLedger loads the ledger from the app data file.
func openLedger() (*comptes.Ledger, error) {
	return comptes.LoadLedger(*dataFile)
}

// closeLedger persists the ledger back to the app data file.
func closeLedger(l *comptes.Ledger) error {
	return comptes.SaveLedger(*dataFile, l)
}

// printMarkdown renders markdown for the terminal and prints it. On any
// rendering trouble the raw markdown is printed instead.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(120),
	)
	if err != nil {
		fmt.Print(md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// confirm asks the user for confirmation on stdin unless force is set.
func confirm(force bool, format string, args ...any) bool {
	if force {
		return true
	}
	fmt.Fprintf(os.Stderr, format+" [y/N] ", args...)
	var answer string
	fmt.Scanln(&answer)
	return answer == "y" || answer == "Y"
}
