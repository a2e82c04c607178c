package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

type Summary struct {
	TotalIncome  decimal.Decimal `json:"totalIncome"`
	TotalExpense decimal.Decimal `json:"totalExpense"`
	Balance      decimal.Decimal `json:"balance"`
	Count        int64           `json:"transactionCount"`
}

type CategoryTotal struct {
	CategoryID   string          `json:"categoryId"`
	CategoryName string          `json:"categoryName"`
	Color        string          `json:"color"`
	Icon         string          `json:"icon"`
	TotalAmount  decimal.Decimal `json:"totalAmount"`
	Percentage   float64         `json:"percentage"`
}

type DayTotal struct {
	Day         int             `json:"day"`
	Date        time.Time       `json:"date"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
}

type CategoryShare struct {
	CategoryName string          `json:"categoryName"`
	Amount       decimal.Decimal `json:"amount"`
	Percentage   float64         `json:"percentage"`
}

type DashboardSummary struct {
	Month            string          `json:"month"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpense     decimal.Decimal `json:"totalExpense"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int64           `json:"transactionCount"`
	TotalBalance     decimal.Decimal `json:"totalBalance"`
}

type ChartData struct {
	Labels []string          `json:"labels"`
	Data   []decimal.Decimal `json:"data"`
	Colors []string          `json:"colors,omitempty"`
}

type MonthlyReport struct {
	Month            string          `json:"month"`
	TotalIncome      decimal.Decimal `json:"totalIncome"`
	TotalExpense     decimal.Decimal `json:"totalExpense"`
	Balance          decimal.Decimal `json:"balance"`
	TransactionCount int64           `json:"transactionCount"`
	TopCategories    []CategoryShare `json:"topCategories"`
}

type PeriodSummary struct {
	Month   string          `json:"month"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Count   int64           `json:"count"`
}

type DeltaResult struct {
	Amount  decimal.Decimal `json:"amount"`
	Percent float64         `json:"percent"`
}

type CompareResult struct {
	PeriodA PeriodSummary `json:"periodA"`
	PeriodB PeriodSummary `json:"periodB"`
	Delta   DeltaResult   `json:"delta"`
}
