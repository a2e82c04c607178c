package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"finance-tracker-go/internal/domain/ledger"
	"finance-tracker-go/internal/domain/money"
	"finance-tracker-go/internal/domain/period"
)

func Summarize(txs []ledger.Transaction) Summary {
	income := decimal.Zero
	expense := decimal.Zero
	for _, tx := range txs {
		switch tx.Kind {
		case ledger.KindIncome:
			income = income.Add(tx.Amount)
		case ledger.KindExpense:
			expense = expense.Add(tx.Amount)
		}
	}

	return Summary{
		TotalIncome:  income,
		TotalExpense: expense,
		Balance:      income.Sub(expense),
		Count:        int64(len(txs)),
	}
}

// CumulativeBalanceAt is income minus expense over every transaction at or before at.
func CumulativeBalanceAt(txs []ledger.Transaction, at time.Time) decimal.Decimal {
	return ledger.BalanceAt(txs, at)
}

// GroupByCategory totals txs of kind per category. Percentages are shares of the
// kind total; ordering is amount desc, then name, then id.
func GroupByCategory(txs []ledger.Transaction, kind ledger.Kind) []CategoryTotal {
	totals := make(map[string]decimal.Decimal)
	lookup := make(map[string]ledger.Category)
	grand := decimal.Zero

	for _, tx := range txs {
		if tx.Kind != kind {
			continue
		}
		totals[tx.CategoryID] = totals[tx.CategoryID].Add(tx.Amount)
		if _, ok := lookup[tx.CategoryID]; !ok {
			lookup[tx.CategoryID] = tx.Category
		}
		grand = grand.Add(tx.Amount)
	}

	rows := make([]CategoryTotal, 0, len(totals))
	for categoryID, total := range totals {
		category := lookup[categoryID]
		rows = append(rows, CategoryTotal{
			CategoryID:   categoryID,
			CategoryName: category.Name,
			Color:        category.Color,
			Icon:         category.Icon,
			TotalAmount:  total,
			Percentage:   money.Ratio(total, grand),
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if cmp := rows[i].TotalAmount.Cmp(rows[j].TotalAmount); cmp != 0 {
			return cmp > 0
		}
		if rows[i].CategoryName != rows[j].CategoryName {
			return rows[i].CategoryName < rows[j].CategoryName
		}
		return rows[i].CategoryID < rows[j].CategoryID
	})

	return rows
}

// GroupByDay returns one entry per calendar day of p, zero-filled. Transactions outside
// p are ignored.
func GroupByDay(txs []ledger.Transaction, p period.Period, kind ledger.Kind) []DayTotal {
	days := p.Days()
	totals := make([]decimal.Decimal, days+1)

	for _, tx := range txs {
		if tx.Kind != kind || !p.Contains(tx.OccurredAt) {
			continue
		}
		day := tx.OccurredAt.In(p.Start.Location()).Day()
		totals[day] = totals[day].Add(tx.Amount)
	}

	series := make([]DayTotal, 0, days)
	for day := 1; day <= days; day++ {
		series = append(series, DayTotal{
			Day:         day,
			Date:        p.Date(day),
			TotalAmount: totals[day],
		})
	}
	return series
}

// TopExpenseCategories returns at most limit expense categories by amount, with shares
// of the total expense.
func TopExpenseCategories(txs []ledger.Transaction, limit int) []CategoryShare {
	rows := GroupByCategory(txs, ledger.KindExpense)
	if limit >= 0 && len(rows) > limit {
		rows = rows[:limit]
	}

	shares := make([]CategoryShare, 0, len(rows))
	for _, row := range rows {
		shares = append(shares, CategoryShare{
			CategoryName: row.CategoryName,
			Amount:       row.TotalAmount,
			Percentage:   row.Percentage,
		})
	}
	return shares
}
