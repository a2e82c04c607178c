package ledger

import (
	"fmt"
	"strings"
	"time"

	"finance-tracker-go/internal/domain/period"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 1000
)

type SortOrder string

const (
	SortDateDesc   SortOrder = "date_desc"
	SortDateAsc    SortOrder = "date_asc"
	SortAmountDesc SortOrder = "amount_desc"
	SortAmountAsc  SortOrder = "amount_asc"
)

func ParseSortOrder(value string) (SortOrder, error) {
	switch SortOrder(strings.ToLower(strings.TrimSpace(value))) {
	case "", SortDateDesc:
		return SortDateDesc, nil
	case SortDateAsc:
		return SortDateAsc, nil
	case SortAmountDesc:
		return SortAmountDesc, nil
	case SortAmountAsc:
		return SortAmountAsc, nil
	}
	return "", fmt.Errorf("%w: unknown sort %q", ErrInvalidInput, value)
}

// FilterParams is the caller-facing filter. Nil fields are absent and filter nothing.
type FilterParams struct {
	CategoryID *string
	Kind       *Kind
	Month      *int
	Year       *int
	Keyword    *string
	Page       int
	Size       int
	Sort       SortOrder
}

// Query is the store-facing form of FilterParams.
type Query struct {
	OwnerID    string
	CategoryID *string
	Kind       *Kind
	Period     *period.Period
	Keyword    *string
	Page       int
	Size       int
	Sort       SortOrder
}

// BuildQuery translates params for ownerID. The period filter applies only when a month
// or year is given; a missing counterpart is taken from now.
func BuildQuery(ownerID string, params FilterParams, now time.Time) (Query, error) {
	query := Query{
		OwnerID:    ownerID,
		CategoryID: params.CategoryID,
		Page:       params.Page,
		Size:       params.Size,
		Sort:       params.Sort,
	}

	if query.CategoryID != nil && strings.TrimSpace(*query.CategoryID) == "" {
		query.CategoryID = nil
	}

	if params.Kind != nil {
		if !params.Kind.Valid() {
			return Query{}, fmt.Errorf("%w: invalid type %q", ErrInvalidInput, *params.Kind)
		}
		kind := *params.Kind
		query.Kind = &kind
	}

	if params.Month != nil || params.Year != nil {
		p, err := period.Derive(params.Month, params.Year, now)
		if err != nil {
			return Query{}, err
		}
		query.Period = &p
	}

	if params.Keyword != nil {
		keyword := strings.TrimSpace(*params.Keyword)
		if keyword != "" {
			query.Keyword = &keyword
		}
	}

	if query.Page < 0 {
		return Query{}, fmt.Errorf("%w: page must not be negative", ErrInvalidInput)
	}
	switch {
	case query.Size <= 0:
		query.Size = DefaultPageSize
	case query.Size > MaxPageSize:
		query.Size = MaxPageSize
	}

	if query.Sort == "" {
		query.Sort = SortDateDesc
	}
	if _, err := ParseSortOrder(string(query.Sort)); err != nil {
		return Query{}, err
	}

	return query, nil
}

// Unpaged drops paging and switches to the natural order (date asc, id asc).
func (q Query) Unpaged() Query {
	q.Page = 0
	q.Size = 0
	q.Sort = SortDateAsc
	return q
}

func (q Query) Paged() bool {
	return q.Size > 0
}

func (q Query) Offset() int {
	return q.Page * q.Size
}

// Matches is the reference predicate for the query filters; paging and ordering are
// not part of it.
func (q Query) Matches(tx Transaction) bool {
	if tx.OwnerID != q.OwnerID {
		return false
	}
	if q.CategoryID != nil && tx.CategoryID != *q.CategoryID {
		return false
	}
	if q.Kind != nil && tx.Kind != *q.Kind {
		return false
	}
	if q.Period != nil && !q.Period.Contains(tx.OccurredAt) {
		return false
	}
	if q.Keyword != nil {
		keyword := strings.ToLower(*q.Keyword)
		if !strings.Contains(strings.ToLower(tx.Note), keyword) &&
			!strings.Contains(strings.ToLower(tx.Category.Name), keyword) {
			return false
		}
	}
	return true
}

// Less orders a before b according to the query sort, breaking ties by ID.
func (q Query) Less(a, b Transaction) bool {
	switch q.Sort {
	case SortDateAsc:
		if !a.OccurredAt.Equal(b.OccurredAt) {
			return a.OccurredAt.Before(b.OccurredAt)
		}
	case SortAmountDesc:
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.GreaterThan(b.Amount)
		}
	case SortAmountAsc:
		if !a.Amount.Equal(b.Amount) {
			return a.Amount.LessThan(b.Amount)
		}
	default:
		if !a.OccurredAt.Equal(b.OccurredAt) {
			return a.OccurredAt.After(b.OccurredAt)
		}
	}
	return a.ID < b.ID
}

// LikePattern returns the keyword as a lower-cased LIKE pattern with wildcards escaped
// by a backslash.
func (q Query) LikePattern() string {
	if q.Keyword == nil {
		return ""
	}
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + replacer.Replace(strings.ToLower(*q.Keyword)) + "%"
}

type Page struct {
	Items []Transaction
	Total int64
	Page  int
	Size  int
}

func (p Page) TotalPages() int {
	if p.Size <= 0 {
		if p.Total > 0 {
			return 1
		}
		return 0
	}
	return int((p.Total + int64(p.Size) - 1) / int64(p.Size))
}
