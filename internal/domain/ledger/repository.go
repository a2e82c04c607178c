package ledger

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStore is owner-scoped: records of other owners behave as missing.
type TransactionStore interface {
	// ListByOwnerAndRange returns transactions with from <= OccurredAt <= to ordered by
	// OccurredAt then ID. A zero from means unbounded.
	ListByOwnerAndRange(ctx context.Context, ownerID string, from, to time.Time) ([]Transaction, error)
	ListFiltered(ctx context.Context, query Query) (Page, error)
	SumByOwnerKindRange(ctx context.Context, ownerID string, kind Kind, from, to time.Time) (decimal.Decimal, error)
	FindByID(ctx context.Context, ownerID, id string) (*Transaction, error)
	// Save inserts when ID is empty (assigning one) and updates otherwise.
	Save(ctx context.Context, tx *Transaction) error
	Delete(ctx context.Context, ownerID, id string) (bool, error)
	CountByCategory(ctx context.Context, ownerID, categoryID string) (int64, error)
}

type CategoryStore interface {
	// FindByOwnerAndName matches the exact name across both kinds.
	FindByOwnerAndName(ctx context.Context, ownerID, name string) ([]Category, error)
	FindByID(ctx context.Context, ownerID, id string) (*Category, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Category, error)
	ListByOwnerAndKind(ctx context.Context, ownerID string, kind Kind) ([]Category, error)
	ExistsByOwnerNameKind(ctx context.Context, ownerID, name string, kind Kind, excludeID string) (bool, error)
	Create(ctx context.Context, category *Category) error
	Update(ctx context.Context, category *Category) error
	Delete(ctx context.Context, ownerID, id string) (bool, error)
}
