package handler

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"finance-tracker-go/internal/domain/ledger"
	"finance-tracker-go/internal/domain/period"
)

var dateTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// parseDateTime accepts RFC 3339 or a local date(-time) interpreted in loc.
func parseDateTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}
	for _, layout := range dateTimeLayouts {
		if layout == time.RFC3339Nano {
			if parsed, err := time.Parse(layout, value); err == nil {
				return parsed.In(loc), nil
			}
			continue
		}
		if parsed, err := time.ParseInLocation(layout, value, loc); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

func parseOptionalInt(value string) (*int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid int %q", value)
	}
	return &parsed, nil
}

func parseIntParam(value string, fallback int) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil || parsed < 0 {
		return 0, fmt.Errorf("invalid int")
	}
	return parsed, nil
}

func parseMonthYear(query url.Values) (*int, *int, error) {
	month, err := parseOptionalInt(query.Get("month"))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid month")
	}
	year, err := parseOptionalInt(query.Get("year"))
	if err != nil {
		return nil, nil, fmt.Errorf("invalid year")
	}
	return month, year, nil
}

func parseKindParam(value string) (*ledger.Kind, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	kind, err := ledger.ParseKind(value)
	if err != nil {
		return nil, err
	}
	return &kind, nil
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}

// parseFilterParams reads categoryId, type, month, year, keyword, page, size and sort.
func parseFilterParams(query url.Values) (ledger.FilterParams, error) {
	var params ledger.FilterParams

	month, year, err := parseMonthYear(query)
	if err != nil {
		return params, err
	}
	params.Month = month
	params.Year = year

	kind, err := parseKindParam(query.Get("type"))
	if err != nil {
		return params, fmt.Errorf("invalid type")
	}
	params.Kind = kind

	params.CategoryID = optionalString(query.Get("categoryId"))
	params.Keyword = optionalString(query.Get("keyword"))

	if params.Page, err = parseIntParam(query.Get("page"), 0); err != nil {
		return params, fmt.Errorf("invalid page")
	}
	if params.Size, err = parseIntParam(query.Get("size"), ledger.DefaultPageSize); err != nil {
		return params, fmt.Errorf("invalid size")
	}

	sort, err := ledger.ParseSortOrder(query.Get("sort"))
	if err != nil {
		return params, fmt.Errorf("invalid sort")
	}
	params.Sort = sort

	return params, nil
}

// parseMonthPeriod reads a "2006-01" month.
func parseMonthPeriod(value string, loc *time.Location) (period.Period, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return period.Period{}, fmt.Errorf("month is required")
	}
	parsed, err := time.Parse("2006-01", value)
	if err != nil {
		return period.Period{}, fmt.Errorf("invalid month %q", value)
	}
	return period.Of(parsed.Year(), parsed.Month(), loc), nil
}
