package export

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"finance-tracker-go/internal/domain/ledger"
	"finance-tracker-go/internal/domain/period"
)

type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts xlsx (alias excel) and csv.
func ParseFormat(value string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "xlsx", "excel":
		return FormatXLSX, nil
	case "csv":
		return FormatCSV, nil
	}
	return "", fmt.Errorf("%w: unsupported export format %q", ledger.ErrInvalidInput, value)
}

func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

type File struct {
	Name        string
	ContentType string
	Data        []byte
}

type TransactionFilterer interface {
	ListFiltered(ctx context.Context, query ledger.Query) (ledger.Page, error)
}

type Service struct {
	transactions TransactionFilterer
	now          period.Clock
}

func NewService(transactions TransactionFilterer, clock period.Clock) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{transactions: transactions, now: clock}
}

// Export encodes one month of the owner's transactions, narrowed by the remaining
// filters, in the store's natural order. Paging and sort in params are ignored.
func (s *Service) Export(ctx context.Context, ownerID string, params ledger.FilterParams, format Format) (File, error) {
	now := s.now()
	p, err := period.Derive(params.Month, params.Year, now)
	if err != nil {
		return File{}, err
	}
	params.Month = &p.Month
	params.Year = &p.Year

	query, err := ledger.BuildQuery(ownerID, params, now)
	if err != nil {
		return File{}, err
	}

	page, err := s.transactions.ListFiltered(ctx, query.Unpaged())
	if err != nil {
		return File{}, err
	}

	buf := &bytes.Buffer{}
	switch format {
	case FormatXLSX:
		err = WriteXLSX(buf, page.Items)
	case FormatCSV:
		err = WriteCSV(buf, page.Items)
	default:
		return File{}, fmt.Errorf("%w: unsupported export format %q", ledger.ErrInvalidInput, format)
	}
	if err != nil {
		return File{}, err
	}

	return File{
		Name:        Filename(p, string(format)),
		ContentType: format.ContentType(),
		Data:        buf.Bytes(),
	}, nil
}
