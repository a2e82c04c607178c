package importer

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// dateCell is the raw date column of one row. numeric reports whether the cell is
// stored as a number, which is how date-typed cells arrive.
type dateCell struct {
	value   string
	numeric func() bool
}

// dateFormat is one accepted spelling of the date column. Formats are tried in order
// and the first that parses wins.
type dateFormat struct {
	name  string
	parse func(cell dateCell, loc *time.Location) (time.Time, bool)
}

var dateFormats = []dateFormat{
	{name: "iso-date-time", parse: layouts("2006-01-02T15:04:05", "2006-01-02T15:04")},
	{name: "iso-date", parse: layouts("2006-01-02")},
	{name: "date-time", parse: layouts("2006-01-02 15:04:05")},
	{name: "date-time-minutes", parse: layouts("2006-01-02 15:04")},
	{name: "day-month-year-slash", parse: layouts("02/01/2006")},
	{name: "day-month-year-dash", parse: layouts("02-01-2006")},
	{name: "spreadsheet-serial", parse: parseSerial},
}

func layouts(values ...string) func(dateCell, *time.Location) (time.Time, bool) {
	return func(cell dateCell, loc *time.Location) (time.Time, bool) {
		for _, layout := range values {
			if t, err := time.ParseInLocation(layout, cell.value, loc); err == nil {
				return t, true
			}
		}
		return time.Time{}, false
	}
}

// maxSerial is 9999-12-31 in the 1900 date system.
const maxSerial = 2958465

// parseSerial reads numeric cells as day counts since 1899-12-30. Text cells holding
// digits are rejected so "2026" never becomes a date in 1905.
func parseSerial(cell dateCell, loc *time.Location) (time.Time, bool) {
	serial, err := strconv.ParseFloat(cell.value, 64)
	if err != nil || math.IsNaN(serial) || serial < 1 || serial > maxSerial {
		return time.Time{}, false
	}
	if cell.numeric == nil || !cell.numeric() {
		return time.Time{}, false
	}

	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	t = t.Round(time.Second)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc), true
}

func parseDate(cell dateCell, loc *time.Location) (time.Time, bool) {
	cell.value = strings.TrimSpace(cell.value)
	for _, format := range dateFormats {
		if t, ok := format.parse(cell, loc); ok {
			return t, true
		}
	}
	return time.Time{}, false
}
