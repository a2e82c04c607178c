package budget

import (
	"context"
	"time"

	"finance-tracker-go/internal/domain/ledger"
)

// Store is owner-scoped. Budgets are returned with their category loaded.
type Store interface {
	ListByOwnerAndPeriod(ctx context.Context, ownerID string, month, year int) ([]Budget, error)
	FindByID(ctx context.Context, ownerID, id string) (*Budget, error)
	// FindByOwnerCategoryPeriod returns ledger.ErrBudgetNotFound when no budget exists.
	FindByOwnerCategoryPeriod(ctx context.Context, ownerID, categoryID string, month, year int) (*Budget, error)
	CountByCategory(ctx context.Context, ownerID, categoryID string) (int64, error)
	Create(ctx context.Context, budget *Budget) error
	Update(ctx context.Context, budget *Budget) error
	Delete(ctx context.Context, ownerID, id string) (bool, error)
}

type CategoryFinder interface {
	FindByID(ctx context.Context, ownerID, id string) (*ledger.Category, error)
}

type TransactionLister interface {
	ListByOwnerAndRange(ctx context.Context, ownerID string, from, to time.Time) ([]ledger.Transaction, error)
}
