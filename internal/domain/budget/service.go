package budget

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"finance-tracker-go/internal/domain/ledger"
	"finance-tracker-go/internal/domain/money"
	"finance-tracker-go/internal/domain/period"
)

type Service struct {
	budgets      Store
	categories   CategoryFinder
	transactions TransactionLister
	now          period.Clock
}

func NewService(budgets Store, categories CategoryFinder, transactions TransactionLister, clock period.Clock) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		budgets:      budgets,
		categories:   categories,
		transactions: transactions,
		now:          clock,
	}
}

func (s *Service) List(ctx context.Context, ownerID string, month, year *int) ([]Budget, error) {
	p, err := period.Derive(month, year, s.now())
	if err != nil {
		return nil, err
	}
	return s.budgets.ListByOwnerAndPeriod(ctx, ownerID, p.Month, p.Year)
}

// Status evaluates every budget of the period against the owner's expenses in the same
// period. Transactions are fetched once for all budgets.
func (s *Service) Status(ctx context.Context, ownerID string, month, year *int) ([]Status, error) {
	p, err := period.Derive(month, year, s.now())
	if err != nil {
		return nil, err
	}

	budgets, err := s.budgets.ListByOwnerAndPeriod(ctx, ownerID, p.Month, p.Year)
	if err != nil {
		return nil, err
	}
	if len(budgets) == 0 {
		return []Status{}, nil
	}

	txs, err := s.transactions.ListByOwnerAndRange(ctx, ownerID, p.Start, p.End)
	if err != nil {
		return nil, err
	}

	spentByCategory := make(map[string]decimal.Decimal)
	for _, tx := range txs {
		if tx.Kind != ledger.KindExpense {
			continue
		}
		spentByCategory[tx.CategoryID] = spentByCategory[tx.CategoryID].Add(tx.Amount)
	}

	statuses := make([]Status, 0, len(budgets))
	for _, b := range budgets {
		if b.Category.Kind != ledger.KindExpense {
			return nil, fmt.Errorf("%w: budget %s references %s category %q", ledger.ErrKindMismatch, b.ID, b.Category.Kind, b.Category.Name)
		}
		statuses = append(statuses, Evaluate(b, spentByCategory[b.CategoryID]))
	}

	return statuses, nil
}

// Evaluate compares a budget with the amount spent in its category.
func Evaluate(b Budget, spent decimal.Decimal) Status {
	remaining := b.Amount.Sub(spent)
	return Status{
		BudgetID:        b.ID,
		CategoryID:      b.CategoryID,
		CategoryName:    b.Category.Name,
		CategoryColor:   b.Category.Color,
		BudgetAmount:    b.Amount,
		SpentAmount:     spent,
		RemainingAmount: remaining,
		Percentage:      money.Ratio(spent, b.Amount),
		Exceeded:        remaining.IsNegative(),
	}
}

func (s *Service) Create(ctx context.Context, ownerID string, input Input) (*Budget, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	category, err := s.expenseCategory(ctx, ownerID, input.CategoryID)
	if err != nil {
		return nil, err
	}

	if err := s.ensureUnique(ctx, ownerID, input, ""); err != nil {
		return nil, err
	}

	b := Budget{
		OwnerID:    ownerID,
		CategoryID: category.ID,
		Category:   *category,
		Amount:     input.Amount,
		Month:      input.Month,
		Year:       input.Year,
	}
	if err := s.budgets.Create(ctx, &b); err != nil {
		return nil, err
	}

	return &b, nil
}

// Update replaces amount, category and period. A changed category or period is
// validated the same way as on creation.
func (s *Service) Update(ctx context.Context, ownerID, id string, input Input) (*Budget, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	b, err := s.budgets.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	if input.CategoryID != b.CategoryID {
		category, err := s.expenseCategory(ctx, ownerID, input.CategoryID)
		if err != nil {
			return nil, err
		}
		b.Category = *category
	}

	if input.CategoryID != b.CategoryID || input.Month != b.Month || input.Year != b.Year {
		if err := s.ensureUnique(ctx, ownerID, input, b.ID); err != nil {
			return nil, err
		}
	}

	b.CategoryID = input.CategoryID
	b.Amount = input.Amount
	b.Month = input.Month
	b.Year = input.Year

	if err := s.budgets.Update(ctx, b); err != nil {
		return nil, err
	}

	return b, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	deleted, err := s.budgets.Delete(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ledger.ErrBudgetNotFound
	}
	return nil
}

func (s *Service) expenseCategory(ctx context.Context, ownerID, categoryID string) (*ledger.Category, error) {
	category, err := s.categories.FindByID(ctx, ownerID, categoryID)
	if err != nil {
		return nil, err
	}
	if category.Kind != ledger.KindExpense {
		return nil, fmt.Errorf("%w: budgets can only be set for EXPENSE categories", ledger.ErrKindMismatch)
	}
	return category, nil
}

func (s *Service) ensureUnique(ctx context.Context, ownerID string, input Input, excludeID string) error {
	existing, err := s.budgets.FindByOwnerCategoryPeriod(ctx, ownerID, input.CategoryID, input.Month, input.Year)
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return nil
	case err != nil:
		return err
	case existing.ID != excludeID:
		return ledger.ErrDuplicateBudget
	}
	return nil
}

func validateInput(input Input) error {
	if input.Month < 1 || input.Month > 12 || input.Year <= 0 {
		return fmt.Errorf("%w: month %d, year %d", ledger.ErrInvalidPeriod, input.Month, input.Year)
	}
	if !input.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than 0", ledger.ErrInvalidInput)
	}
	return nil
}
