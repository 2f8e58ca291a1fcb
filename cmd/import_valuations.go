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

type importValuationsCmd struct {
	force bool
}

func (*importValuationsCmd) Name() string { return "import-valuations" }
func (*importValuationsCmd) Synopsis() string {
	return "import pinned balance valuations from a CSV file"
}
func (*importValuationsCmd) Usage() string {
	return `cts import-valuations [-force] <file.csv>

  Imports monthly valuations of capitalization accounts. Each row pins the
  account balance at its date; the gain or loss amount is derived.
`
}

func (p *importValuationsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&p.force, "force", false, "Do not ask for confirmation.")
}

func (p *importValuationsCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "exactly one CSV file expected")
		return subcommands.ExitUsageError
	}

	ledger, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	if !confirm(p.force, "import valuations into %q?", *dataFile) {
		return subcommands.ExitSuccess
	}

	filename := f.Arg(0)
	file, err := os.Open(filename)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening %q: %v\n", filename, err)
		return subcommands.ExitFailure
	}
	defer file.Close()

	report, err := comptes.ImportValuations(ledger, file)
	if errors.Is(err, comptes.ErrDuplicateImport) {
		fmt.Fprintf(os.Stderr, "Skipping %q: %v\n", filename, err)
		return subcommands.ExitSuccess
	}
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
