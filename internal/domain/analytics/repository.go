package analytics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"finance-tracker-go/internal/domain/ledger"
)

// Repository is the read side of ledger.TransactionStore used for reporting.
type Repository interface {
	ListByOwnerAndRange(ctx context.Context, ownerID string, from, to time.Time) ([]ledger.Transaction, error)
	SumByOwnerKindRange(ctx context.Context, ownerID string, kind ledger.Kind, from, to time.Time) (decimal.Decimal, error)
}
