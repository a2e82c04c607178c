package analytics

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"finance-tracker-go/internal/domain/ledger"
	"finance-tracker-go/internal/domain/money"
	"finance-tracker-go/internal/domain/period"
)

const monthlyTopCategories = 5

var ErrTotalsMismatch = errors.New("store totals differ from transaction sums")

type Service struct {
	repo Repository
	now  period.Clock
}

func NewService(repo Repository, clock period.Clock) *Service {
	if clock == nil {
		clock = time.Now
	}
	return &Service{repo: repo, now: clock}
}

// DashboardSummary reports the month totals plus the owner's overall balance up to the
// end of the month, or up to now for the running month.
func (s *Service) DashboardSummary(ctx context.Context, ownerID string, month, year *int) (DashboardSummary, error) {
	now := s.now()
	p, err := period.Derive(month, year, now)
	if err != nil {
		return DashboardSummary{}, err
	}

	balanceAt := p.End
	if now.Before(balanceAt) {
		balanceAt = now
	}

	var (
		txs     []ledger.Transaction
		history []ledger.Transaction
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		txs, err = s.repo.ListByOwnerAndRange(groupCtx, ownerID, p.Start, p.End)
		return err
	})
	group.Go(func() error {
		var err error
		history, err = s.repo.ListByOwnerAndRange(groupCtx, ownerID, time.Time{}, balanceAt)
		return err
	})
	if err := group.Wait(); err != nil {
		return DashboardSummary{}, err
	}

	summary := Summarize(txs)
	return DashboardSummary{
		Month:            p.Label(),
		TotalIncome:      summary.TotalIncome,
		TotalExpense:     summary.TotalExpense,
		Balance:          summary.Balance,
		TransactionCount: summary.Count,
		TotalBalance:     CumulativeBalanceAt(history, balanceAt),
	}, nil
}

func (s *Service) CategoryChart(ctx context.Context, ownerID string, month, year *int) (ChartData, error) {
	_, txs, err := s.periodTransactions(ctx, ownerID, month, year)
	if err != nil {
		return ChartData{}, err
	}

	rows := GroupByCategory(txs, ledger.KindExpense)
	chart := ChartData{
		Labels: make([]string, 0, len(rows)),
		Data:   make([]decimal.Decimal, 0, len(rows)),
		Colors: make([]string, 0, len(rows)),
	}
	for _, row := range rows {
		chart.Labels = append(chart.Labels, row.CategoryName)
		chart.Data = append(chart.Data, row.TotalAmount)
		chart.Colors = append(chart.Colors, row.Color)
	}
	return chart, nil
}

func (s *Service) DailyChart(ctx context.Context, ownerID string, month, year *int) (ChartData, error) {
	p, txs, err := s.periodTransactions(ctx, ownerID, month, year)
	if err != nil {
		return ChartData{}, err
	}

	series := GroupByDay(txs, p, ledger.KindExpense)
	chart := ChartData{
		Labels: make([]string, 0, len(series)),
		Data:   make([]decimal.Decimal, 0, len(series)),
	}
	for _, day := range series {
		chart.Labels = append(chart.Labels, strconv.Itoa(day.Day))
		chart.Data = append(chart.Data, day.TotalAmount)
	}
	return chart, nil
}

func (s *Service) CategorySummary(ctx context.Context, ownerID string, month, year *int) ([]CategoryTotal, error) {
	_, txs, err := s.periodTransactions(ctx, ownerID, month, year)
	if err != nil {
		return nil, err
	}
	return GroupByCategory(txs, ledger.KindExpense), nil
}

func (s *Service) MonthlyReport(ctx context.Context, ownerID string, month, year *int) (MonthlyReport, error) {
	p, txs, err := s.periodTransactions(ctx, ownerID, month, year)
	if err != nil {
		return MonthlyReport{}, err
	}

	summary := Summarize(txs)
	return MonthlyReport{
		Month:            p.Label(),
		TotalIncome:      summary.TotalIncome,
		TotalExpense:     summary.TotalExpense,
		Balance:          summary.Balance,
		TransactionCount: summary.Count,
		TopCategories:    TopExpenseCategories(txs, monthlyTopCategories),
	}, nil
}

func (s *Service) CumulativeBalanceAt(ctx context.Context, ownerID string, at time.Time) (decimal.Decimal, error) {
	txs, err := s.repo.ListByOwnerAndRange(ctx, ownerID, time.Time{}, at)
	if err != nil {
		return decimal.Zero, err
	}
	return CumulativeBalanceAt(txs, at), nil
}

// Compare reports expense totals of two months and the change from b to a.
func (s *Service) Compare(ctx context.Context, ownerID string, a, b period.Period) (CompareResult, error) {
	var txsA, txsB []ledger.Transaction
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		txsA, err = s.repo.ListByOwnerAndRange(groupCtx, ownerID, a.Start, a.End)
		return err
	})
	group.Go(func() error {
		var err error
		txsB, err = s.repo.ListByOwnerAndRange(groupCtx, ownerID, b.Start, b.End)
		return err
	})
	if err := group.Wait(); err != nil {
		return CompareResult{}, err
	}

	summaryA := Summarize(txsA)
	summaryB := Summarize(txsB)
	delta := summaryA.TotalExpense.Sub(summaryB.TotalExpense)

	percent := 0.0
	if summaryB.TotalExpense.IsPositive() {
		percent = money.Ratio(delta, summaryB.TotalExpense)
	}

	return CompareResult{
		PeriodA: periodSummary(a, summaryA),
		PeriodB: periodSummary(b, summaryB),
		Delta: DeltaResult{
			Amount:  delta,
			Percent: percent,
		},
	}, nil
}

// VerifyTotals checks that the store's aggregate sums agree with summing the month's
// transactions one by one.
func (s *Service) VerifyTotals(ctx context.Context, ownerID string, month, year *int) (Summary, error) {
	p, txs, err := s.periodTransactions(ctx, ownerID, month, year)
	if err != nil {
		return Summary{}, err
	}
	summary := Summarize(txs)

	income, err := s.repo.SumByOwnerKindRange(ctx, ownerID, ledger.KindIncome, p.Start, p.End)
	if err != nil {
		return Summary{}, err
	}
	expense, err := s.repo.SumByOwnerKindRange(ctx, ownerID, ledger.KindExpense, p.Start, p.End)
	if err != nil {
		return Summary{}, err
	}

	if !income.Equal(summary.TotalIncome) || !expense.Equal(summary.TotalExpense) {
		return summary, fmt.Errorf("%w: %s income %s vs %s, expense %s vs %s", ErrTotalsMismatch,
			p.Label(), income, summary.TotalIncome, expense, summary.TotalExpense)
	}
	return summary, nil
}

func (s *Service) periodTransactions(ctx context.Context, ownerID string, month, year *int) (period.Period, []ledger.Transaction, error) {
	p, err := period.Derive(month, year, s.now())
	if err != nil {
		return period.Period{}, nil, err
	}

	txs, err := s.repo.ListByOwnerAndRange(ctx, ownerID, p.Start, p.End)
	if err != nil {
		return period.Period{}, nil, err
	}
	return p, txs, nil
}

func periodSummary(p period.Period, summary Summary) PeriodSummary {
	return PeriodSummary{
		Month:   p.Label(),
		Income:  summary.TotalIncome,
		Expense: summary.TotalExpense,
		Count:   summary.Count,
	}
}
