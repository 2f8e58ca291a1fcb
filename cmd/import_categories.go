package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/comptes"
	"github.com/etnz/comptes/renderer"
	"github.com/google/subcommands"
)

type importCategoriesCmd struct{}

func (*importCategoriesCmd) Name() string     { return "import-categories" }
func (*importCategoriesCmd) Synopsis() string { return "import the category tree from a CSV file" }
func (*importCategoriesCmd) Usage() string {
	return `cts import-categories <file.csv>

  Imports categories from a "level;sign;name" CSV file. Level 1 rows open a
  root category, level 2 rows attach a child to the last root.
`
}

func (*importCategoriesCmd) SetFlags(f *flag.FlagSet) {}

func (p *importCategoriesCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "exactly one CSV file expected")
		return subcommands.ExitUsageError
	}

	ledger, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	filename := f.Arg(0)
	file, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	report, err := comptes.ImportCategories(ledger, file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	report.File = filename

	if err := closeLedger(ledger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	printMarkdown(renderer.Report(report))
	return subcommands.ExitSuccess
}
