package cmd

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/etnz/comptes"
	"github.com/etnz/comptes/renderer"
	"github.com/google/subcommands"
)

type importQifCmd struct {
	force     bool
	parseMemo bool
}

func (*importQifCmd) Name() string     { return "import-qif" }
func (*importQifCmd) Synopsis() string { return "import transactions from QIF files" }
func (*importQifCmd) Usage() string {
	return `cts import-qif [-force] [-parse-memo] <file.qif> [<file.qif>...]

  Imports accounts and transactions from QIF exports. Each file is checked
  against already imported transactions first; a file whose first record is
  already in the ledger is rejected entirely.
`
}

func (p *importQifCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.force, "force", false, "Do not ask for confirmation.")
	f.BoolVar(&p.parseMemo, "parse-memo", false, "Decode structured memos (Versement, Stock, Dividendes, ...).")
}

func (p *importQifCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "at least one QIF file expected")
		return subcommands.ExitUsageError
	}

	ledger, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if !confirm(p.force, "import %d file(s) into %q?", f.NArg(), *dataFile) {
		return subcommands.ExitSuccess
	}

	for _, filename := range f.Args() {
		file, err := os.Open(filename)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", filename, err)
			return subcommands.ExitFailure
		}
		report, err := comptes.ImportQIF(ledger, file, comptes.ImportOptions{ParseMemo: p.parseMemo})
		file.Close()
		if errors.Is(err, comptes.ErrDuplicateImport) {
			fmt.Fprintf(os.Stderr, "Skipping %q: %v\n", filename, err)
			continue
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error importing %q: %v\n", filename, err)
			return subcommands.ExitFailure
		}
		report.File = filename
		printMarkdown(renderer.Report(report))
	}

	if err := closeLedger(ledger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
