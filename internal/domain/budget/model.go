package budget

import (
	"time"

	"github.com/shopspring/decimal"

	"finance-tracker-go/internal/domain/ledger"
)

type Budget struct {
	ID         string          `gorm:"type:uuid;primaryKey"`
	OwnerID    string          `gorm:"uniqueIndex:idx_budgets_owner_category_period;not null"`
	CategoryID string          `gorm:"type:uuid;uniqueIndex:idx_budgets_owner_category_period;not null"`
	Category   ledger.Category `gorm:"foreignKey:CategoryID"`
	Amount     decimal.Decimal `gorm:"type:numeric(19,2);not null"`
	Month      int             `gorm:"uniqueIndex:idx_budgets_owner_category_period;not null"`
	Year       int             `gorm:"uniqueIndex:idx_budgets_owner_category_period;not null"`
	CreatedAt  time.Time       `gorm:"autoCreateTime"`
	UpdatedAt  time.Time       `gorm:"autoUpdateTime"`
}

type Input struct {
	CategoryID string
	Amount     decimal.Decimal
	Month      int
	Year       int
}

type Status struct {
	BudgetID        string          `json:"budgetId"`
	CategoryID      string          `json:"categoryId"`
	CategoryName    string          `json:"categoryName"`
	CategoryColor   string          `json:"categoryColor"`
	BudgetAmount    decimal.Decimal `json:"budgetAmount"`
	SpentAmount     decimal.Decimal `json:"spentAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	Percentage      float64         `json:"percentage"`
	Exceeded        bool            `json:"isExceeded"`
}
