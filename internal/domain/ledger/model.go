package ledger

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Kind string

const (
	KindIncome  Kind = "INCOME"
	KindExpense Kind = "EXPENSE"
)

// ParseKind accepts INCOME or EXPENSE in any letter case.
func ParseKind(value string) (Kind, error) {
	switch Kind(strings.ToUpper(strings.TrimSpace(value))) {
	case KindIncome:
		return KindIncome, nil
	case KindExpense:
		return KindExpense, nil
	}
	return "", fmt.Errorf("%w: invalid type %q, must be INCOME or EXPENSE", ErrInvalidInput, value)
}

func (k Kind) Valid() bool {
	return k == KindIncome || k == KindExpense
}

type Category struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	OwnerID   string    `gorm:"index;uniqueIndex:idx_categories_owner_name_kind;not null"`
	Name      string    `gorm:"size:50;uniqueIndex:idx_categories_owner_name_kind;not null"`
	Kind      Kind      `gorm:"size:10;uniqueIndex:idx_categories_owner_name_kind;not null"`
	Color     string    `gorm:"size:7"`
	Icon      string    `gorm:"size:50"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Transaction carries a snapshot of its category so aggregation never needs a second lookup.
type Transaction struct {
	ID         string          `gorm:"type:uuid;primaryKey"`
	OwnerID    string          `gorm:"index:idx_transactions_owner_occurred;not null"`
	CategoryID string          `gorm:"type:uuid;index;not null"`
	Category   Category        `gorm:"foreignKey:CategoryID"`
	Amount     decimal.Decimal `gorm:"type:numeric(19,2);not null"`
	Kind       Kind            `gorm:"size:10;not null"`
	OccurredAt time.Time       `gorm:"index:idx_transactions_owner_occurred;not null"`
	Note       string          `gorm:"size:500"`
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime"`
}

// Signed returns the amount with the sign implied by the kind.
func (t Transaction) Signed() decimal.Decimal {
	if t.Kind == KindExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}

type TransactionInput struct {
	CategoryID string
	Kind       Kind
	Amount     decimal.Decimal
	OccurredAt time.Time
	Note       string
}

// TransactionWithBalance pairs a transaction with the owner's cumulative balance up to and including it.
type TransactionWithBalance struct {
	Transaction
	RunningBalance decimal.Decimal
}

type CategoryInput struct {
	Name  string
	Kind  Kind
	Color string
	Icon  string
}
