package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"finance-tracker-go/internal/domain/ledger"
	"finance-tracker-go/internal/domain/period"
)

func sampleTransactions() []ledger.Transaction {
	food := ledger.Category{ID: "cat-1", Name: "Food, Dining", Kind: ledger.KindExpense}
	salary := ledger.Category{ID: "cat-2", Name: "Salary", Kind: ledger.KindIncome}
	return []ledger.Transaction{
		{
			ID: "tx-1", Category: salary, CategoryID: salary.ID, Kind: ledger.KindIncome,
			Amount:     decimal.RequireFromString("15000000"),
			OccurredAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
			Note:       "March salary",
		},
		{
			ID: "tx-2", Category: food, CategoryID: food.ID, Kind: ledger.KindExpense,
			Amount:     decimal.RequireFromString("150000.5"),
			OccurredAt: time.Date(2026, 3, 2, 12, 30, 0, 0, time.UTC),
			Note:       `Lunch "team"`,
		},
		{
			ID: "tx-3", Category: food, CategoryID: food.ID, Kind: ledger.KindExpense,
			Amount:     decimal.RequireFromString("20000"),
			OccurredAt: time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC),
		},
	}
}

func TestWriteCSV(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteCSV(buf, sampleTransactions()))

	want := "Date,Type,Category,Amount,Note\n" +
		"2026-03-01T09:00:00,INCOME,Salary,15000000.00,\"March salary\"\n" +
		"2026-03-02T12:30:00,EXPENSE,\"Food, Dining\",150000.50,\"Lunch \"\"team\"\"\"\n" +
		"2026-03-03T00:00:00,EXPENSE,\"Food, Dining\",20000.00,\"\"\n"
	require.Equal(t, want, buf.String())
}

func TestWriteCSVEmpty(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteCSV(buf, nil))
	require.Equal(t, "Date,Type,Category,Amount,Note\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, WriteXLSX(buf, sampleTransactions()))

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{SheetName}, f.GetSheetList())

	rows, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	require.Equal(t, Headers, rows[0])
	require.Equal(t, []string{"2026-03-02T12:30:00", "EXPENSE", "Food, Dining", "150000.5", `Lunch "team"`}, rows[2])
	require.Equal(t, []string{"2026-03-03T00:00:00", "EXPENSE", "Food, Dining", "20000"}, rows[3][:4])

	cellType, err := f.GetCellType(SheetName, "D2")
	require.NoError(t, err)
	require.NotEqual(t, excelize.CellTypeSharedString, cellType)
	require.NotEqual(t, excelize.CellTypeInlineString, cellType)

	styleID, err := f.GetCellStyle(SheetName, "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	require.True(t, style.Font.Bold)
}

func TestFilename(t *testing.T) {
	p := period.Of(2026, 3, time.UTC)
	require.Equal(t, "transactions_2026_3.csv", Filename(p, "csv"))
	require.Equal(t, "transactions_2026_12.xlsx", Filename(period.Of(2026, 12, time.UTC), "xlsx"))
}

func TestWriteXLSXKeepsAmountDigits(t *testing.T) {
	large := sampleTransactions()[:1]
	large[0].Amount = decimal.RequireFromString("12345678901234567.89")

	buf := &bytes.Buffer{}
	require.NoError(t, WriteXLSX(buf, large))

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	raw, err := f.GetCellValue(SheetName, "D2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Equal(t, "12345678901234567.89", raw)

	cellType, err := f.GetCellType(SheetName, "D2")
	require.NoError(t, err)
	require.NotEqual(t, excelize.CellTypeSharedString, cellType)
	require.NotEqual(t, excelize.CellTypeInlineString, cellType)
}
