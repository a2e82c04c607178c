package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"finance-tracker-go/internal/domain/ledger"
	"finance-tracker-go/internal/domain/money"
	"finance-tracker-go/internal/domain/period"
)

const (
	SheetName  = "Transactions"
	DateLayout = "2006-01-02T15:04:05"
)

var Headers = []string{"Date", "Type", "Category", "Amount", "Note"}

// WriteXLSX writes txs in the given order to a single-sheet workbook. Amounts are
// numeric cells; dates are text in DateLayout.
func WriteXLSX(w io.Writer, txs []ledger.Transaction) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	header := make([]any, len(Headers))
	for i, title := range Headers {
		header[i] = title
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(SheetName, "A1", "E1", headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	for i, tx := range txs {
		row := []any{
			tx.OccurredAt.Format(DateLayout),
			string(tx.Kind),
			tx.Category.Name,
			nil,
			tx.Note,
		}
		if err := f.SetSheetRow(SheetName, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
		// untyped cell with the decimal's own digits: numeric, and no float64 rounding
		if err := f.SetCellDefault(SheetName, fmt.Sprintf("D%d", i+2), tx.Amount.String()); err != nil {
			return fmt.Errorf("write amount %d: %w", i+2, err)
		}
	}

	if err := f.SetColWidth(SheetName, "A", "A", 20); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(SheetName, "C", "C", 20); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}
	if err := f.SetColWidth(SheetName, "E", "E", 40); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// WriteCSV writes txs in the given order. The note column is always quoted, even when
// empty; the category is quoted only when it needs to be.
func WriteCSV(w io.Writer, txs []ledger.Transaction) error {
	bw := bufio.NewWriter(w)

	if _, err := bw.WriteString(strings.Join(Headers, ",") + "\n"); err != nil {
		return err
	}

	for _, tx := range txs {
		fields := []string{
			tx.OccurredAt.Format(DateLayout),
			string(tx.Kind),
			csvField(tx.Category.Name),
			money.FormatFixed2(tx.Amount),
			quote(tx.Note),
		}
		if _, err := bw.WriteString(strings.Join(fields, ",") + "\n"); err != nil {
			return err
		}
	}

	return bw.Flush()
}

// Filename follows transactions_<year>_<month>.<ext>.
func Filename(p period.Period, ext string) string {
	return fmt.Sprintf("transactions_%d_%d.%s", p.Year, p.Month, ext)
}

func quote(value string) string {
	return `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
}

func csvField(value string) string {
	if strings.ContainsAny(value, ",\"\r\n") {
		return quote(value)
	}
	return value
}
