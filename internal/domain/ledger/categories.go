package ledger

import (
	"context"
	"fmt"
	"regexp"
	"strings"
)

const (
	maxCategoryNameLength = 50
	maxCategoryIconLength = 50
)

var categoryColorRegex = regexp.MustCompile(`^#([0-9a-f]{6}|[0-9a-f]{3})$`)

// CategoryUsage counts records that reference a category.
type CategoryUsage interface {
	CountByCategory(ctx context.Context, ownerID, categoryID string) (int64, error)
}

type CategoryService struct {
	categories CategoryStore
	usages     []CategoryUsage
}

func NewCategoryService(categories CategoryStore, usages ...CategoryUsage) *CategoryService {
	return &CategoryService{categories: categories, usages: usages}
}

// List returns every category of the owner, or only those of kind when it is set.
func (s *CategoryService) List(ctx context.Context, ownerID string, kind *Kind) ([]Category, error) {
	if kind == nil {
		return s.categories.ListByOwner(ctx, ownerID)
	}
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: invalid type %q", ErrInvalidInput, *kind)
	}
	return s.categories.ListByOwnerAndKind(ctx, ownerID, *kind)
}

func (s *CategoryService) Get(ctx context.Context, ownerID, id string) (*Category, error) {
	return s.categories.FindByID(ctx, ownerID, id)
}

func (s *CategoryService) Create(ctx context.Context, ownerID string, input CategoryInput) (*Category, error) {
	normalized, err := normalizeCategoryInput(input)
	if err != nil {
		return nil, err
	}

	exists, err := s.categories.ExistsByOwnerNameKind(ctx, ownerID, normalized.Name, normalized.Kind, "")
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrDuplicateCategory
	}

	category := Category{
		OwnerID: ownerID,
		Name:    normalized.Name,
		Kind:    normalized.Kind,
		Color:   normalized.Color,
		Icon:    normalized.Icon,
	}
	if err := s.categories.Create(ctx, &category); err != nil {
		return nil, err
	}

	return &category, nil
}

// Update changes name, colour and icon. The kind is fixed at creation because existing
// transactions and budgets depend on it.
func (s *CategoryService) Update(ctx context.Context, ownerID, id string, input CategoryInput) (*Category, error) {
	normalized, err := normalizeCategoryInput(input)
	if err != nil {
		return nil, err
	}

	category, err := s.categories.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if category.Kind != normalized.Kind {
		return nil, fmt.Errorf("%w: category type cannot change from %s to %s", ErrKindMismatch, category.Kind, normalized.Kind)
	}

	if category.Name != normalized.Name {
		exists, err := s.categories.ExistsByOwnerNameKind(ctx, ownerID, normalized.Name, normalized.Kind, category.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, ErrDuplicateCategory
		}
	}

	category.Name = normalized.Name
	category.Color = normalized.Color
	category.Icon = normalized.Icon

	if err := s.categories.Update(ctx, category); err != nil {
		return nil, err
	}

	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.categories.FindByID(ctx, ownerID, id); err != nil {
		return err
	}

	for _, usage := range s.usages {
		count, err := usage.CountByCategory(ctx, ownerID, id)
		if err != nil {
			return err
		}
		if count > 0 {
			return ErrCategoryInUse
		}
	}

	deleted, err := s.categories.Delete(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrCategoryNotFound
	}
	return nil
}

func normalizeCategoryInput(input CategoryInput) (CategoryInput, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return CategoryInput{}, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len([]rune(name)) > maxCategoryNameLength {
		return CategoryInput{}, fmt.Errorf("%w: name must be at most %d characters", ErrInvalidInput, maxCategoryNameLength)
	}

	if !input.Kind.Valid() {
		return CategoryInput{}, fmt.Errorf("%w: type must be INCOME or EXPENSE", ErrInvalidInput)
	}

	color := strings.ToLower(strings.TrimSpace(input.Color))
	if color == "" {
		return CategoryInput{}, fmt.Errorf("%w: color is required", ErrInvalidInput)
	}
	if !categoryColorRegex.MatchString(color) {
		return CategoryInput{}, fmt.Errorf("%w: invalid color format", ErrInvalidInput)
	}

	icon := strings.TrimSpace(input.Icon)
	if len([]rune(icon)) > maxCategoryIconLength {
		return CategoryInput{}, fmt.Errorf("%w: icon must be at most %d characters", ErrInvalidInput, maxCategoryIconLength)
	}

	return CategoryInput{Name: name, Kind: input.Kind, Color: color, Icon: icon}, nil
}
