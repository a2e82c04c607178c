package ledger

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	ledgerdomain "finance-tracker-go/internal/domain/ledger"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategories(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) FindByOwnerAndName(ctx context.Context, ownerID, name string) ([]ledgerdomain.Category, error) {
	var categories []ledgerdomain.Category
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND name = ?", ownerID, name).
		Order("kind asc, id asc").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepository) FindByID(ctx context.Context, ownerID, id string) (*ledgerdomain.Category, error) {
	var category ledgerdomain.Category
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND id = ?", ownerID, id).
		First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ledgerdomain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *CategoryRepository) ListByOwner(ctx context.Context, ownerID string) ([]ledgerdomain.Category, error) {
	var categories []ledgerdomain.Category
	if err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("name asc, id asc").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepository) ListByOwnerAndKind(ctx context.Context, ownerID string, kind ledgerdomain.Kind) ([]ledgerdomain.Category, error) {
	var categories []ledgerdomain.Category
	if err := r.db.WithContext(ctx).
		Where("owner_id = ? AND kind = ?", ownerID, string(kind)).
		Order("name asc").
		Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoryRepository) ExistsByOwnerNameKind(ctx context.Context, ownerID, name string, kind ledgerdomain.Kind, excludeID string) (bool, error) {
	query := r.db.WithContext(ctx).
		Model(&ledgerdomain.Category{}).
		Where("owner_id = ? AND name = ? AND kind = ?", ownerID, name, string(kind))
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *CategoryRepository) Create(ctx context.Context, category *ledgerdomain.Category) error {
	if category.ID == "" {
		category.ID = uuid.NewString()
	}
	return r.db.WithContext(ctx).Create(category).Error
}

func (r *CategoryRepository) Update(ctx context.Context, category *ledgerdomain.Category) error {
	result := r.db.WithContext(ctx).
		Model(&ledgerdomain.Category{}).
		Where("id = ? AND owner_id = ?", category.ID, category.OwnerID).
		Updates(map[string]interface{}{
			"name":  category.Name,
			"color": category.Color,
			"icon":  category.Icon,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ledgerdomain.ErrCategoryNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, ownerID, id string) (bool, error) {
	result := r.db.WithContext(ctx).Delete(&ledgerdomain.Category{}, "owner_id = ? AND id = ?", ownerID, id)
	return result.RowsAffected > 0, result.Error
}
