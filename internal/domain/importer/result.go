package importer

import (
	"fmt"

	"finance-tracker-go/internal/domain/ledger"
)

type Result struct {
	TotalRows            int                  `json:"totalRows"`
	SuccessCount         int                  `json:"successCount"`
	ErrorCount           int                  `json:"errorCount"`
	Errors               []string             `json:"errors"`
	ImportedTransactions []ledger.Transaction `json:"importedTransactions"`
}

// RowError describes why one sheet row was not imported. Row is the 1-based sheet row.
type RowError struct {
	Row    int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("Row %d: %s", e.Row, e.Reason)
}

func (e *RowError) Unwrap() error {
	return ledger.ErrRowValidation
}

func (r *Result) fail(rowErr *RowError) {
	r.ErrorCount++
	r.Errors = append(r.Errors, rowErr.Error())
}

func (r *Result) succeed(tx ledger.Transaction) {
	r.SuccessCount++
	r.ImportedTransactions = append(r.ImportedTransactions, tx)
}
