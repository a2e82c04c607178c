package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finance-tracker-go/internal/domain/ledger"
	"finance-tracker-go/internal/domain/period"
)

func category(id, name string, kind ledger.Kind) ledger.Category {
	return ledger.Category{ID: id, OwnerID: "owner-1", Name: name, Kind: kind, Color: "#" + id}
}

func txn(id string, c ledger.Category, amount string, at time.Time) ledger.Transaction {
	return ledger.Transaction{
		ID:         id,
		OwnerID:    c.OwnerID,
		CategoryID: c.ID,
		Category:   c,
		Kind:       c.Kind,
		Amount:     decimal.RequireFromString(amount),
		OccurredAt: at,
	}
}

func day(d int) time.Time {
	return time.Date(2026, 4, d, 10, 0, 0, 0, time.UTC)
}

func TestSummarize(t *testing.T) {
	salary := category("s", "Salary", ledger.KindIncome)
	food := category("f", "Food", ledger.KindExpense)

	summary := Summarize([]ledger.Transaction{
		txn("1", salary, "1000.10", day(1)),
		txn("2", food, "0.10", day(2)),
		txn("3", food, "0.20", day(3)),
	})

	if !summary.TotalIncome.Equal(decimal.RequireFromString("1000.10")) {
		t.Fatalf("unexpected income %s", summary.TotalIncome)
	}
	if !summary.TotalExpense.Equal(decimal.RequireFromString("0.30")) {
		t.Fatalf("expected exact 0.30 expense, got %s", summary.TotalExpense)
	}
	if !summary.Balance.Equal(decimal.RequireFromString("999.80")) || summary.Count != 3 {
		t.Fatalf("unexpected summary %+v", summary)
	}

	empty := Summarize(nil)
	if !empty.Balance.IsZero() || empty.Count != 0 {
		t.Fatalf("expected zero summary, got %+v", empty)
	}
}

func TestGroupByDayIsDense(t *testing.T) {
	p := period.Of(2026, time.April, time.UTC)
	food := category("f", "Food", ledger.KindExpense)
	salary := category("s", "Salary", ledger.KindIncome)

	txs := []ledger.Transaction{
		txn("1", food, "10", day(1)),
		txn("2", food, "15.5", day(1)),
		txn("3", food, "20", day(30)),
		txn("4", salary, "999", day(2)),
		txn("5", food, "77", time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)),
	}

	series := GroupByDay(txs, p, ledger.KindExpense)
	if len(series) != 30 {
		t.Fatalf("expected 30 entries, got %d", len(series))
	}

	total := decimal.Zero
	for i, entry := range series {
		if entry.Day != i+1 {
			t.Fatalf("expected day %d at index %d, got %d", i+1, i, entry.Day)
		}
		total = total.Add(entry.TotalAmount)
	}
	if !total.Equal(decimal.RequireFromString("45.5")) {
		t.Fatalf("expected series sum 45.5, got %s", total)
	}
	if !series[0].TotalAmount.Equal(decimal.RequireFromString("25.5")) {
		t.Fatalf("expected 25.5 on day 1, got %s", series[0].TotalAmount)
	}
	if !series[1].TotalAmount.IsZero() {
		t.Fatalf("expected zero-filled day 2, got %s", series[1].TotalAmount)
	}
	if !series[29].Date.Equal(time.Date(2026, 4, 30, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("unexpected date for last day %v", series[29].Date)
	}

	if got := GroupByDay(nil, p, ledger.KindExpense); len(got) != 30 {
		t.Fatalf("expected dense series for empty input, got %d", len(got))
	}
}

func TestGroupByCategoryTotalsAndOrdering(t *testing.T) {
	food := category("f", "Food", ledger.KindExpense)
	rent := category("r", "Rent", ledger.KindExpense)
	bills := category("b", "Bills", ledger.KindExpense)
	salary := category("s", "Salary", ledger.KindIncome)

	txs := []ledger.Transaction{
		txn("1", food, "100", day(1)),
		txn("2", rent, "500", day(2)),
		txn("3", food, "150", day(3)),
		txn("4", bills, "250", day(4)),
		txn("5", salary, "5000", day(5)),
	}

	rows := GroupByCategory(txs, ledger.KindExpense)
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}

	wantOrder := []string{"Rent", "Bills", "Food"}
	sum := decimal.Zero
	for i, row := range rows {
		if row.CategoryName != wantOrder[i] {
			t.Fatalf("expected %s at %d, got %s", wantOrder[i], i, row.CategoryName)
		}
		sum = sum.Add(row.TotalAmount)
	}
	if !sum.Equal(Summarize(txs).TotalExpense) {
		t.Fatalf("expected category totals to sum to total expense, got %s", sum)
	}
	if rows[0].Percentage != 50 || rows[1].Percentage != 25 || rows[2].Percentage != 25 {
		t.Fatalf("unexpected percentages %v %v %v", rows[0].Percentage, rows[1].Percentage, rows[2].Percentage)
	}
	if rows[0].Color != "#r" {
		t.Fatalf("expected colour from category snapshot, got %q", rows[0].Color)
	}
}

func TestGroupByCategoryKeepsSameNamedCategoriesApart(t *testing.T) {
	first := category("a", "Misc", ledger.KindExpense)
	second := category("b", "Misc", ledger.KindExpense)

	rows := GroupByCategory([]ledger.Transaction{
		txn("1", second, "10", day(1)),
		txn("2", first, "10", day(2)),
	}, ledger.KindExpense)

	if len(rows) != 2 {
		t.Fatalf("expected categories grouped by id, got %d rows", len(rows))
	}
	if rows[0].CategoryID != "a" || rows[1].CategoryID != "b" {
		t.Fatalf("expected id tie-break, got %s, %s", rows[0].CategoryID, rows[1].CategoryID)
	}
}

func TestTopExpenseCategories(t *testing.T) {
	txs := make([]ledger.Transaction, 0)
	names := []string{"A", "B", "C", "D", "E", "F", "G"}
	for i, name := range names {
		c := category(name, name, ledger.KindExpense)
		txs = append(txs, txn(name, c, decimal.NewFromInt(int64((i+1)*10)).String(), day(i+1)))
	}

	top := TopExpenseCategories(txs, 5)
	if len(top) != 5 {
		t.Fatalf("expected 5 categories, got %d", len(top))
	}
	if top[0].CategoryName != "G" || !top[0].Amount.Equal(decimal.NewFromInt(70)) {
		t.Fatalf("unexpected first entry %+v", top[0])
	}
	// 70 / 280
	if top[0].Percentage != 25 {
		t.Fatalf("expected 25%%, got %v", top[0].Percentage)
	}

	if got := TopExpenseCategories(nil, 5); len(got) != 0 {
		t.Fatalf("expected no categories, got %d", len(got))
	}
}

func TestCumulativeBalanceDifference(t *testing.T) {
	salary := category("s", "Salary", ledger.KindIncome)
	food := category("f", "Food", ledger.KindExpense)

	txs := []ledger.Transaction{
		txn("1", salary, "1000", day(1)),
		txn("2", food, "120.25", day(3)),
		txn("3", food, "30", day(7)),
		txn("4", salary, "50", day(9)),
		txn("5", food, "10", day(12)),
	}

	t1 := day(3)
	t2 := day(9)

	inBetween := decimal.Zero
	for _, tx := range txs {
		if tx.OccurredAt.After(t1) && !tx.OccurredAt.After(t2) {
			inBetween = inBetween.Add(tx.Signed())
		}
	}

	diff := CumulativeBalanceAt(txs, t2).Sub(CumulativeBalanceAt(txs, t1))
	if !diff.Equal(inBetween) {
		t.Fatalf("expected difference %s, got %s", inBetween, diff)
	}
	if !CumulativeBalanceAt(txs, day(1).Add(-time.Second)).IsZero() {
		t.Fatalf("expected zero balance before the first transaction")
	}
}
