package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const (
	TemplateFilename = "transaction_import_template.xlsx"
	templateSheet    = "Transactions"
)

var templateHeaders = []string{"Date (YYYY-MM-DD)", "Type (INCOME/EXPENSE)", "Category Name", "Amount", "Note"}

var templateSamples = [][]string{
	{"2026-02-11", "EXPENSE", "Food & Dining", "150000", "Lunch with team"},
	{"2026-02-10", "INCOME", "Salary", "15000000", "Monthly salary"},
	{"2026-02-09", "EXPENSE", "Transportation", "50000", "Taxi to office"},
}

// WriteTemplate writes the static import template: a styled header and sample rows.
func WriteTemplate(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), templateSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	border := []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:   &excelize.Font{Bold: true, Size: 12},
		Fill:   excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"C0C0C0"}},
		Border: border,
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	header := make([]any, len(templateHeaders))
	for i, title := range templateHeaders {
		header[i] = title
	}
	if err := f.SetSheetRow(templateSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := f.SetCellStyle(templateSheet, "A1", "E1", headerStyle); err != nil {
		return fmt.Errorf("style header: %w", err)
	}
	if err := f.SetColWidth(templateSheet, "A", "E", 20); err != nil {
		return fmt.Errorf("set column width: %w", err)
	}

	for i, sample := range templateSamples {
		row := make([]any, len(sample))
		for j, value := range sample {
			row[j] = value
		}
		if err := f.SetSheetRow(templateSheet, fmt.Sprintf("A%d", i+2), &row); err != nil {
			return fmt.Errorf("write sample row: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write template: %w", err)
	}
	return nil
}
