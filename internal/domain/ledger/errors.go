package ledger

import (
	"errors"
	"fmt"

	"finance-tracker-go/internal/domain/period"
)

var (
	ErrInvalidPeriod       = period.ErrInvalidPeriod
	ErrNotFound            = errors.New("not found")
	ErrCategoryNotFound    = fmt.Errorf("category %w", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("transaction %w", ErrNotFound)
	ErrBudgetNotFound      = fmt.Errorf("budget %w", ErrNotFound)
	ErrDuplicateBudget     = errors.New("budget already exists for this category and period")
	ErrDuplicateCategory   = errors.New("category with this name and type already exists")
	ErrKindMismatch        = errors.New("category type does not match")
	ErrCategoryInUse       = errors.New("category in use")
	ErrInvalidInput        = errors.New("invalid input")
	ErrRowValidation       = errors.New("row validation failed")
	ErrMalformedInput      = errors.New("malformed input")
)
