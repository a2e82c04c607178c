package ledger

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"finance-tracker-go/internal/domain/period"
)

const maxNoteLength = 500

type TransactionService struct {
	transactions TransactionStore
	categories   CategoryStore
	now          period.Clock
}

func NewTransactionService(transactions TransactionStore, categories CategoryStore, clock period.Clock) *TransactionService {
	if clock == nil {
		clock = time.Now
	}
	return &TransactionService{
		transactions: transactions,
		categories:   categories,
		now:          clock,
	}
}

type TransactionPage struct {
	Items      []TransactionWithBalance
	Total      int64
	Page       int
	Size       int
	TotalPages int
}

// List returns one page of the owner's transactions. Each item carries the owner's
// balance over all transactions up to and including it, independent of the filters.
func (s *TransactionService) List(ctx context.Context, ownerID string, params FilterParams) (TransactionPage, error) {
	query, err := BuildQuery(ownerID, params, s.now())
	if err != nil {
		return TransactionPage{}, err
	}

	page, err := s.transactions.ListFiltered(ctx, query)
	if err != nil {
		return TransactionPage{}, err
	}

	result := TransactionPage{
		Items:      make([]TransactionWithBalance, 0, len(page.Items)),
		Total:      page.Total,
		Page:       page.Page,
		Size:       page.Size,
		TotalPages: page.TotalPages(),
	}
	if len(page.Items) == 0 {
		return result, nil
	}

	earliest, latest := page.Items[0].OccurredAt, page.Items[0].OccurredAt
	for _, tx := range page.Items[1:] {
		if tx.OccurredAt.Before(earliest) {
			earliest = tx.OccurredAt
		}
		if tx.OccurredAt.After(latest) {
			latest = tx.OccurredAt
		}
	}

	balances, err := s.runningBalances(ctx, ownerID, earliest, latest)
	if err != nil {
		return TransactionPage{}, err
	}

	for _, tx := range page.Items {
		result.Items = append(result.Items, TransactionWithBalance{
			Transaction:    tx,
			RunningBalance: balances[tx.ID],
		})
	}

	return result, nil
}

// runningBalances folds the owner's transactions in [from, to] on top of the balance
// of everything strictly before from, which the store sums.
func (s *TransactionService) runningBalances(ctx context.Context, ownerID string, from, to time.Time) (map[string]decimal.Decimal, error) {
	var (
		window          []Transaction
		income, expense decimal.Decimal
	)
	before := from.Add(-time.Nanosecond)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		window, err = s.transactions.ListByOwnerAndRange(groupCtx, ownerID, from, to)
		return err
	})
	group.Go(func() error {
		var err error
		income, err = s.transactions.SumByOwnerKindRange(groupCtx, ownerID, KindIncome, time.Time{}, before)
		return err
	})
	group.Go(func() error {
		var err error
		expense, err = s.transactions.SumByOwnerKindRange(groupCtx, ownerID, KindExpense, time.Time{}, before)
		return err
	})
	if err := group.Wait(); err != nil {
		return nil, err
	}

	return RunningBalances(income.Sub(expense), window), nil
}

func (s *TransactionService) Get(ctx context.Context, ownerID, id string) (*Transaction, error) {
	return s.transactions.FindByID(ctx, ownerID, id)
}

func (s *TransactionService) Create(ctx context.Context, ownerID string, input TransactionInput) (*Transaction, error) {
	category, err := s.resolveCategory(ctx, ownerID, input)
	if err != nil {
		return nil, err
	}

	tx := Transaction{
		OwnerID:    ownerID,
		CategoryID: category.ID,
		Category:   *category,
		Amount:     input.Amount,
		Kind:       input.Kind,
		OccurredAt: input.OccurredAt,
		Note:       strings.TrimSpace(input.Note),
	}

	if err := s.transactions.Save(ctx, &tx); err != nil {
		return nil, err
	}

	return &tx, nil
}

func (s *TransactionService) Update(ctx context.Context, ownerID, id string, input TransactionInput) (*Transaction, error) {
	tx, err := s.transactions.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	category, err := s.resolveCategory(ctx, ownerID, input)
	if err != nil {
		return nil, err
	}

	tx.CategoryID = category.ID
	tx.Category = *category
	tx.Amount = input.Amount
	tx.Kind = input.Kind
	tx.OccurredAt = input.OccurredAt
	tx.Note = strings.TrimSpace(input.Note)

	if err := s.transactions.Save(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *TransactionService) Delete(ctx context.Context, ownerID, id string) error {
	deleted, err := s.transactions.Delete(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTransactionNotFound
	}
	return nil
}

func (s *TransactionService) resolveCategory(ctx context.Context, ownerID string, input TransactionInput) (*Category, error) {
	if err := validateTransactionInput(input); err != nil {
		return nil, err
	}

	category, err := s.categories.FindByID(ctx, ownerID, input.CategoryID)
	if err != nil {
		return nil, err
	}
	if category.Kind != input.Kind {
		return nil, fmt.Errorf("%w: category %q is %s, transaction is %s", ErrKindMismatch, category.Name, category.Kind, input.Kind)
	}

	return category, nil
}

func validateTransactionInput(input TransactionInput) error {
	if !input.Kind.Valid() {
		return fmt.Errorf("%w: type must be INCOME or EXPENSE", ErrInvalidInput)
	}
	if strings.TrimSpace(input.CategoryID) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidInput)
	}
	if !input.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than 0", ErrInvalidInput)
	}
	if input.OccurredAt.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}
	if len([]rune(strings.TrimSpace(input.Note))) > maxNoteLength {
		return fmt.Errorf("%w: note must be at most %d characters", ErrInvalidInput, maxNoteLength)
	}
	return nil
}
