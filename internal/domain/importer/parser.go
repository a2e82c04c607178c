package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"finance-tracker-go/internal/domain/ledger"
	"finance-tracker-go/internal/domain/money"
	"finance-tracker-go/internal/events"
	"finance-tracker-go/pkg/logger"
)

const (
	columnDate = iota
	columnType
	columnCategory
	columnAmount
	columnNote
	columnCount
)

type CategoryFinder interface {
	FindByOwnerAndName(ctx context.Context, ownerID, name string) ([]ledger.Category, error)
}

type TransactionSaver interface {
	Save(ctx context.Context, tx *ledger.Transaction) error
}

type Parser struct {
	categories   CategoryFinder
	transactions TransactionSaver
	notifier     events.Publisher
	log          logger.Logger
	loc          *time.Location
	now          func() time.Time
}

func NewParser(categories CategoryFinder, transactions TransactionSaver, notifier events.Publisher, log logger.Logger, loc *time.Location) *Parser {
	if notifier == nil {
		notifier = events.Nop{}
	}
	if log == nil {
		log = logger.NewNop()
	}
	if loc == nil {
		loc = time.Local
	}
	return &Parser{
		categories:   categories,
		transactions: transactions,
		notifier:     notifier,
		log:          log,
		loc:          loc,
		now:          time.Now,
	}
}

// Import reads the first sheet of an xlsx workbook and saves one transaction per valid
// row. Row 1 is the header. Failing rows are reported in the result and never stop the
// batch; saved rows stay saved if a later row fails or ctx is cancelled.
func (p *Parser) Import(ctx context.Context, ownerID string, r io.Reader) (Result, error) {
	result := Result{
		Errors:               []string{},
		ImportedTransactions: []ledger.Transaction{},
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return result, fmt.Errorf("%w: open workbook: %v", ledger.ErrMalformedInput, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return result, fmt.Errorf("%w: workbook has no sheets", ledger.ErrMalformedInput)
	}
	sheet := sheets[0]

	rows, err := f.Rows(sheet)
	if err != nil {
		return result, fmt.Errorf("%w: read sheet %q: %v", ledger.ErrMalformedInput, sheet, err)
	}
	defer rows.Close()

	resolver := newCategoryResolver(p.categories, ownerID)
	rowNum := 0
	for rows.Next() {
		rowNum++
		if rowNum == 1 {
			continue
		}

		if err := ctx.Err(); err != nil {
			p.notify(ownerID, result)
			return result, err
		}

		cells, err := rows.Columns(excelize.Options{RawCellValue: true})
		if err != nil {
			return result, fmt.Errorf("%w: row %d: %v", ledger.ErrMalformedInput, rowNum, err)
		}
		if isBlankRow(cells) {
			continue
		}

		result.TotalRows++
		numeric := numericCellCheck(f, sheet, rowNum)

		tx, err := p.parseRow(ctx, resolver, ownerID, cells, numeric)
		if err != nil {
			result.fail(&RowError{Row: rowNum, Reason: err.Error()})
			continue
		}

		if err := p.transactions.Save(ctx, &tx); err != nil {
			p.log.InternalError("importer.import: save row failed", err, "owner_id", ownerID, "row", rowNum)
			result.fail(&RowError{Row: rowNum, Reason: "failed to save transaction"})
			continue
		}
		result.succeed(tx)
	}
	if err := rows.Error(); err != nil {
		return result, fmt.Errorf("%w: %v", ledger.ErrMalformedInput, err)
	}

	p.notify(ownerID, result)
	return result, nil
}

func (p *Parser) parseRow(ctx context.Context, resolver *categoryResolver, ownerID string, cells []string, numeric func() bool) (ledger.Transaction, error) {
	dateValue := cell(cells, columnDate)
	if dateValue == "" {
		return ledger.Transaction{}, errors.New("date is required")
	}
	occurredAt, ok := parseDate(dateCell{value: dateValue, numeric: numeric}, p.loc)
	if !ok {
		return ledger.Transaction{}, errors.New("invalid date format, expected YYYY-MM-DD or DD/MM/YYYY")
	}

	typeValue := cell(cells, columnType)
	if typeValue == "" {
		return ledger.Transaction{}, errors.New("type is required")
	}
	kind, err := ledger.ParseKind(typeValue)
	if err != nil {
		return ledger.Transaction{}, errors.New("invalid type, must be INCOME or EXPENSE")
	}

	categoryName := cell(cells, columnCategory)
	if categoryName == "" {
		return ledger.Transaction{}, errors.New("category name is required")
	}
	category, err := resolver.resolve(ctx, categoryName, kind)
	if err != nil {
		return ledger.Transaction{}, err
	}

	amount, err := money.ParseAmount(cell(cells, columnAmount))
	if err != nil {
		return ledger.Transaction{}, err
	}

	return ledger.Transaction{
		OwnerID:    ownerID,
		CategoryID: category.ID,
		Category:   category,
		Amount:     amount,
		Kind:       kind,
		OccurredAt: occurredAt,
		Note:       cell(cells, columnNote),
	}, nil
}

func (p *Parser) notify(ownerID string, result Result) {
	if result.TotalRows == 0 {
		return
	}

	// the import already happened; a cancelled request must not drop the event
	ctx := context.Background()
	event := events.NewImportCompleted(ownerID, result.TotalRows, result.SuccessCount, result.ErrorCount, p.now())
	if err := p.notifier.PublishImportCompleted(ctx, event); err != nil {
		p.log.InternalError("importer.import: publish event failed", err, "owner_id", ownerID)
	}
}

// categoryResolver memoizes name lookups for the duration of one import.
type categoryResolver struct {
	store   CategoryFinder
	ownerID string
	byName  map[string][]ledger.Category
}

func newCategoryResolver(store CategoryFinder, ownerID string) *categoryResolver {
	return &categoryResolver{store: store, ownerID: ownerID, byName: make(map[string][]ledger.Category)}
}

func (r *categoryResolver) resolve(ctx context.Context, name string, kind ledger.Kind) (ledger.Category, error) {
	matches, ok := r.byName[name]
	if !ok {
		var err error
		matches, err = r.store.FindByOwnerAndName(ctx, r.ownerID, name)
		if err != nil {
			return ledger.Category{}, fmt.Errorf("category '%s' lookup failed", name)
		}
		r.byName[name] = matches
	}

	if len(matches) == 0 {
		return ledger.Category{}, fmt.Errorf("category '%s' not found", name)
	}
	for _, category := range matches {
		if category.Kind == kind {
			return category, nil
		}
	}
	return ledger.Category{}, fmt.Errorf("category '%s' type does not match transaction type", name)
}

func cell(cells []string, index int) string {
	if index >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[index])
}

func isBlankRow(cells []string) bool {
	for i := 0; i < columnCount; i++ {
		if cell(cells, i) != "" {
			return false
		}
	}
	return true
}

func numericCellCheck(f *excelize.File, sheet string, rowNum int) func() bool {
	return func() bool {
		name, err := excelize.CoordinatesToCellName(columnDate+1, rowNum)
		if err != nil {
			return false
		}
		cellType, err := f.GetCellType(sheet, name)
		if err != nil {
			return false
		}
		switch cellType {
		case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeDate:
			return true
		}
		return false
	}
}
