package ledger

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	ledgerdomain "finance-tracker-go/internal/domain/ledger"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactions(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) ListByOwnerAndRange(ctx context.Context, ownerID string, from, to time.Time) ([]ledgerdomain.Transaction, error) {
	query := r.db.WithContext(ctx).
		Preload("Category").
		Where("owner_id = ? AND occurred_at <= ?", ownerID, to)
	if !from.IsZero() {
		query = query.Where("occurred_at >= ?", from)
	}

	var items []ledgerdomain.Transaction
	if err := query.Order("occurred_at asc, id asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *TransactionRepository) ListFiltered(ctx context.Context, q ledgerdomain.Query) (ledgerdomain.Page, error) {
	query := r.db.WithContext(ctx).
		Model(&ledgerdomain.Transaction{}).
		Where("transactions.owner_id = ?", q.OwnerID)
	if q.CategoryID != nil {
		query = query.Where("transactions.category_id = ?", *q.CategoryID)
	}
	if q.Kind != nil {
		query = query.Where("transactions.kind = ?", string(*q.Kind))
	}
	if q.Period != nil {
		query = query.Where("transactions.occurred_at >= ? AND transactions.occurred_at <= ?", q.Period.Start, q.Period.End)
	}
	if q.Keyword != nil {
		pattern := q.LikePattern()
		query = query.
			Joins("JOIN categories ON categories.id = transactions.category_id").
			Where(`(LOWER(transactions.note) LIKE ? ESCAPE '\' OR LOWER(categories.name) LIKE ? ESCAPE '\')`, pattern, pattern)
	}

	var total int64
	if err := query.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return ledgerdomain.Page{}, err
	}

	query = query.Select("transactions.*").Preload("Category").Order(orderBy(q.Sort))
	if q.Paged() {
		query = query.Limit(q.Size).Offset(q.Offset())
	}

	var items []ledgerdomain.Transaction
	if err := query.Find(&items).Error; err != nil {
		return ledgerdomain.Page{}, err
	}

	return ledgerdomain.Page{Items: items, Total: total, Page: q.Page, Size: q.Size}, nil
}

func orderBy(sort ledgerdomain.SortOrder) string {
	switch sort {
	case ledgerdomain.SortDateAsc:
		return "transactions.occurred_at asc, transactions.id asc"
	case ledgerdomain.SortAmountDesc:
		return "transactions.amount desc, transactions.id asc"
	case ledgerdomain.SortAmountAsc:
		return "transactions.amount asc, transactions.id asc"
	default:
		return "transactions.occurred_at desc, transactions.id asc"
	}
}

func (r *TransactionRepository) SumByOwnerKindRange(ctx context.Context, ownerID string, kind ledgerdomain.Kind, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	row := r.db.WithContext(ctx).
		Model(&ledgerdomain.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("owner_id = ? AND kind = ? AND occurred_at >= ? AND occurred_at <= ?", ownerID, string(kind), from, to).
		Row()
	if err := row.Scan(&total); err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, ownerID, id string) (*ledgerdomain.Transaction, error) {
	var tx ledgerdomain.Transaction
	if err := r.db.WithContext(ctx).
		Preload("Category").
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledgerdomain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &tx, nil
}

func (r *TransactionRepository) Save(ctx context.Context, tx *ledgerdomain.Transaction) error {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
		return r.db.WithContext(ctx).Omit(clause.Associations).Create(tx).Error
	}

	result := r.db.WithContext(ctx).
		Model(&ledgerdomain.Transaction{}).
		Where("id = ? AND owner_id = ?", tx.ID, tx.OwnerID).
		Updates(map[string]interface{}{
			"category_id": tx.CategoryID,
			"amount":      tx.Amount,
			"kind":        string(tx.Kind),
			"occurred_at": tx.OccurredAt,
			"note":        tx.Note,
			"updated_at":  time.Now().UTC(),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ledgerdomain.ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&ledgerdomain.Transaction{}, "owner_id = ? AND id = ?", ownerID, id)
	return result.RowsAffected > 0, result.Error
}

func (r *TransactionRepository) CountByCategory(ctx context.Context, ownerID, categoryID string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&ledgerdomain.Transaction{}).
		Where("owner_id = ? AND category_id = ?", ownerID, categoryID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
