package comptes

import (
	"fmt"
	"log"
)

// ImportWarning is one recoverable problem met while importing: the record
// was skipped or fell back to a plain transaction, and the run went on.
type ImportWarning struct {
	Record  int // 1-based record number in the imported file
	Message string
}

// AccountTotal is the cached state of one account after an import run.
type AccountTotal struct {
	Name     string
	Balance  Money
	Invested Money
}

// ImportReport is the end-of-run summary of an import: newly created
// entities, per-record warnings, and per-account totals.
type ImportReport struct {
	File         string
	Transactions int

	CreatedAccounts   []string
	CreatedCategories []string
	CreatedRecipients []string
	CreatedStocks     []string
	CreatedProjects   []string

	Warnings []ImportWarning
	Totals   []AccountTotal
}

// Warnf records a per-record warning and logs it.
func (r *ImportReport) Warnf(record int, format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	r.Warnings = append(r.Warnings, ImportWarning{Record: record, Message: message})
	log.Printf("record %d: %s", record, message)
}

// addCreated copies the resolver's creation log into the report.
func (r *ImportReport) addCreated(resolver *EntityResolver) {
	r.CreatedAccounts = append(r.CreatedAccounts, resolver.CreatedAccounts...)
	r.CreatedCategories = append(r.CreatedCategories, resolver.CreatedCategories...)
	r.CreatedRecipients = append(r.CreatedRecipients, resolver.CreatedRecipients...)
	r.CreatedStocks = append(r.CreatedStocks, resolver.CreatedStocks...)
	r.CreatedProjects = append(r.CreatedProjects, resolver.CreatedProjects...)
}
