package cmd

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"

	"github.com/etnz/comptes"
	"github.com/etnz/comptes/renderer"
	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
)

type addCmd struct {
	date      string
	amount    string
	category  string
	recipient string
	memo      string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record a single transaction" }
func (*addCmd) Usage() string {
	return `cts add -a <amount> -c <category> [-d <date>] [-r <recipient>] [-m <memo>] <account>

  Records one hand-entered transaction on an account. The amount is signed:
  negative for an expense, positive for an income.
`
}

func (p *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.date, "d", "", "Transaction date (defaults to today).")
	f.StringVar(&p.amount, "a", "", "Signed amount, e.g. -42.50.")
	f.StringVar(&p.category, "c", "", "Category name, possibly \"Parent:Child\".")
	f.StringVar(&p.recipient, "r", "", "Recipient name.")
	f.StringVar(&p.memo, "m", "", "Free-text memo.")
}

func (p *addCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || p.amount == "" || p.category == "" {
		fmt.Fprintln(os.Stderr, "an account, -a and -c are required")
		return subcommands.ExitUsageError
	}

	ledger, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	on := comptes.Today()
	if p.date != "" {
		on, err = comptes.ParseDate(p.date)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}
	value, err := decimal.NewFromString(p.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid amount %q: %v\n", p.amount, err)
		return subcommands.ExitFailure
	}
	amount := comptes.M(value, "EUR")

	resolver := comptes.NewEntityResolver(ledger)
	account, err := resolver.Account(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	typ := comptes.Income
	if amount.IsNegative() {
		typ = comptes.Expense
	}
	category, err := resolver.Category(p.category, typ)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	t := &comptes.Transaction{
		Date:     on,
		Amount:   amount,
		Account:  account.ID,
		Category: category.ID,
		Memo:     p.memo,
	}
	if p.recipient != "" {
		recipient, err := resolver.Recipient(p.recipient)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
		t.Recipient = recipient.ID
	}

	if err := ledger.CreateTransaction(t); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := closeLedger(ledger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Println(renderer.Transaction(ledger, t))
	return subcommands.ExitSuccess
}

type delCmd struct{}

func (*delCmd) Name() string     { return "del" }
func (*delCmd) Synopsis() string { return "delete a transaction by id" }
func (*delCmd) Usage() string {
	return `cts del <id>

  Deletes one transaction. Deleting one side of a transfer removes both
  sides and recomputes both accounts.
`
}

func (p *delCmd) SetFlags(f *flag.FlagSet) {}

func (p *delCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "exactly one transaction id expected")
		return subcommands.ExitUsageError
	}
	id, err := strconv.ParseInt(f.Arg(0), 10, 64)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid id %q\n", f.Arg(0))
		return subcommands.ExitUsageError
	}

	ledger, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := ledger.DeleteTransaction(id); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := closeLedger(ledger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}

type transferCmd struct {
	date   string
	amount string
	memo   string
}

func (*transferCmd) Name() string     { return "transfer" }
func (*transferCmd) Synopsis() string { return "record a transfer between two accounts" }
func (*transferCmd) Usage() string {
	return `cts transfer -a <amount> [-d <date>] [-m <memo>] <source> <target>

  Records a linked pair of transactions: a debit on the source account and a
  credit on the target account.
`
}

func (p *transferCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&p.date, "d", "", "Transfer date (defaults to today).")
	f.StringVar(&p.amount, "a", "", "Transferred amount, positive.")
	f.StringVar(&p.memo, "m", "", "Free-text memo.")
}

func (p *transferCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 || p.amount == "" {
		fmt.Fprintln(os.Stderr, "a source, a target and -a are required")
		return subcommands.ExitUsageError
	}

	ledger, err := openLedger()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	on := comptes.Today()
	if p.date != "" {
		on, err = comptes.ParseDate(p.date)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return subcommands.ExitFailure
		}
	}
	value, err := decimal.NewFromString(p.amount)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid amount %q: %v\n", p.amount, err)
		return subcommands.ExitFailure
	}

	resolver := comptes.NewEntityResolver(ledger)
	source, err := resolver.Account(f.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	target, err := resolver.Account(f.Arg(1))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if _, err := resolver.MovementCategory(comptes.CodeTransfer, comptes.Expense); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if _, err := resolver.MovementCategory(comptes.CodeTransfer, comptes.Income); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	sync := comptes.NewTransferSynchronizer(ledger)
	pair, err := sync.NewTransfer(comptes.CodeTransfer, source, target, on, comptes.M(value, "EUR").Abs().Neg(), p.memo, comptes.Money{})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}

	engine := comptes.NewBalanceEngine(ledger)
	if err := engine.RecomputeAll(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	if err := closeLedger(ledger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return subcommands.ExitFailure
	}
	fmt.Println(renderer.Transaction(ledger, pair.Debit))
	fmt.Println(renderer.Transaction(ledger, pair.Credit))
	return subcommands.ExitSuccess
}
