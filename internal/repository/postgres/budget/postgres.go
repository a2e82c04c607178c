package budget

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	budgetdomain "finance-tracker-go/internal/domain/budget"
	"finance-tracker-go/internal/domain/ledger"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) ListByOwnerAndPeriod(ctx context.Context, ownerID string, month, year int) ([]budgetdomain.Budget, error) {
	var budgets []budgetdomain.Budget
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where("owner_id = ? AND month = ? AND year = ?", ownerID, month, year).
		Order("created_at asc, id asc").
		Find(&budgets).Error; err != nil {
		return nil, err
	}
	return budgets, nil
}

func (r *PostgresRepository) FindByID(ctx context.Context, ownerID, id string) (*budgetdomain.Budget, error) {
	return r.first(ctx, "owner_id = ? AND id = ?", ownerID, id)
}

func (r *PostgresRepository) FindByOwnerCategoryPeriod(ctx context.Context, ownerID, categoryID string, month, year int) (*budgetdomain.Budget, error) {
	return r.first(ctx, "owner_id = ? AND category_id = ? AND month = ? AND year = ?", ownerID, categoryID, month, year)
}

func (r *PostgresRepository) first(ctx context.Context, where string, args ...interface{}) (*budgetdomain.Budget, error) {
	var budget budgetdomain.Budget
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where(where, args...).
		First(&budget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledger.ErrBudgetNotFound
		}
		return nil, err
	}
	return &budget, nil
}

func (r *PostgresRepository) CountByCategory(ctx context.Context, ownerID, categoryID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&budgetdomain.Budget{}).
		Where("owner_id = ? AND category_id = ?", ownerID, categoryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *PostgresRepository) Create(ctx context.Context, budget *budgetdomain.Budget) error {
	if budget.ID == "" {
		budget.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(budget).Error
}

func (r *PostgresRepository) Update(ctx context.Context, budget *budgetdomain.Budget) error {
	result := r.db.WithContext(ctx).
		Model(&budgetdomain.Budget{}).
		Where("id = ? AND owner_id = ?", budget.ID, budget.OwnerID).
		Updates(map[string]interface{}{
			"category_id": budget.CategoryID,
			"amount":      budget.Amount,
			"month":       budget.Month,
			"year":        budget.Year,
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ledger.ErrBudgetNotFound
	}
	return nil
}

func (r *PostgresRepository) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&budgetdomain.Budget{}, "owner_id = ? AND id = ?", ownerID, id)
	return result.RowsAffected > 0, result.Error
}
