package comptes

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// Category CSV rows are `level;sign;name`: level 1 opens a root, level 2
// attaches a child to the last root seen. The sign column is "+" for income
// categories, anything else is expense.
//
// Valuation CSV rows are `compte;date;versement;valorisation;rendement;mois`.
// Only the account, date and valorisation columns feed the ledger: each row
// pins a revaluation balance on the account at that date. The versement and
// rendement columns are informative output of the producing bank and are
// ignored here.
const (
	valAccountCol = 0
	valDateCol    = 1
	valAmountCol  = 3
	valMonthCol   = 5
)

// ImportCategories reads a `level;sign;name` CSV and creates the category
// tree. Already existing categories are kept untouched.
func ImportCategories(l *Ledger, r io.Reader) (*ImportReport, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1

	report := &ImportReport{}
	resolver := NewEntityResolver(l)
	var root *Category
	record := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading categories CSV: %w", err)
		}
		record++
		if len(row) < 3 {
			report.Warnf(record, "expected level;sign;name, got %d columns", len(row))
			continue
		}
		level, sign, name := strings.TrimSpace(row[0]), strings.TrimSpace(row[1]), strings.TrimSpace(row[2])
		if name == "" {
			report.Warnf(record, "empty category name")
			continue
		}
		typ := Expense
		if sign == "+" {
			typ = Income
		}

		switch level {
		case "1":
			c, err := resolver.Category(name, typ)
			if err != nil {
				return nil, err
			}
			root = c
		case "2":
			if root == nil {
				report.Warnf(record, "child category %q has no root above it", name)
				continue
			}
			qualified := root.Name + ":" + name
			if l.CategoryByName(qualified) != nil {
				continue
			}
			c := &Category{Name: name, Type: typ, Parent: root.ID}
			if err := l.AddCategory(c); err != nil {
				return nil, err
			}
			report.CreatedCategories = append(report.CreatedCategories, qualified)
		default:
			report.Warnf(record, "unknown level %q", level)
		}
	}
	report.addCreated(resolver)
	return report, nil
}

// ImportValuations reads a valuation CSV and pins one revaluation row per
// line: the stored balance is the valorisation column, the amount is derived
// by the balance engine on recompute.
//
// The duplicate guard deliberately inspects only the first two rows of the
// file against the stored transactions. A full-file check would be stronger,
// but the producing bank re-exports overlapping files and the first rows are
// what identifies a re-import.
func ImportValuations(l *Ledger, r io.Reader) (*ImportReport, error) {
	reader := csv.NewReader(r)
	reader.Comma = ';'
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("error reading valuations CSV: %w", err)
	}

	for i, row := range rows {
		if i >= 2 {
			break
		}
		account, on, pinned, err := valuationRow(row)
		if err != nil {
			continue
		}
		a := l.AccountByName(account)
		if a == nil {
			continue
		}
		for _, t := range l.TransactionsOf(a.ID) {
			if t.Date == on && t.Balance.Equal(pinned) {
				if c := l.CategoryByID(t.Category); c != nil && c.Code == CodeRevaluation {
					return nil, fmt.Errorf("%w: valuation %s on %q already pinned", ErrDuplicateImport, on, account)
				}
			}
		}
	}

	report := &ImportReport{}
	resolver := NewEntityResolver(l)
	touched := make(map[int64]bool)
	for i, row := range rows {
		record := i + 1
		account, on, pinned, err := valuationRow(row)
		if err != nil {
			report.Warnf(record, "%v", err)
			continue
		}
		a, err := resolver.AccountOfType(account, AccountCapitalization)
		if err != nil {
			return nil, err
		}
		// Both variants must exist: the engine re-picks by variation sign.
		category, err := resolver.MovementCategory(CodeRevaluation, Income)
		if err != nil {
			return nil, err
		}
		if _, err := resolver.MovementCategory(CodeRevaluation, Expense); err != nil {
			return nil, err
		}

		memo := ""
		if len(row) > valMonthCol {
			memo = strings.TrimSpace(row[valMonthCol])
		}
		t := &Transaction{
			Date:          on,
			Account:       a.ID,
			Category:      category.ID,
			PaymentMethod: archetypes[CodeRevaluation].PaymentMethod,
			Memo:          memo,
			Balance:       pinned,
		}
		if err := l.AddTransaction(t); err != nil {
			return nil, err
		}
		touched[a.ID] = true
		report.Transactions++
	}

	engine := NewBalanceEngine(l)
	if err := engine.RecomputeAll(); err != nil {
		return nil, err
	}
	report.addCreated(resolver)
	for account := range l.AllAccounts() {
		if !touched[account.ID] {
			continue
		}
		report.Totals = append(report.Totals, AccountTotal{
			Name:     account.Name,
			Balance:  account.Balance,
			Invested: account.InvestedAmount,
		})
	}
	return report, nil
}

// valuationRow extracts (account, date, pinned balance) from a CSV row.
func valuationRow(row []string) (string, Date, Money, error) {
	if len(row) <= valAmountCol {
		return "", Date{}, Money{}, fmt.Errorf("expected at least %d columns, got %d", valAmountCol+1, len(row))
	}
	account := strings.TrimSpace(row[valAccountCol])
	if account == "" {
		return "", Date{}, Money{}, fmt.Errorf("empty account column")
	}
	on, err := ParseDate(strings.TrimSpace(row[valDateCol]))
	if err != nil {
		return "", Date{}, Money{}, err
	}
	pinned, err := parseQifAmount(row[valAmountCol])
	if err != nil {
		return "", Date{}, Money{}, err
	}
	return account, on, pinned, nil
}
