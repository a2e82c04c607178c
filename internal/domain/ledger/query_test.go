package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var queryNow = time.Date(2026, 10, 15, 12, 0, 0, 0, time.UTC)

func ptr[T any](value T) *T {
	return &value
}

func TestBuildQueryAbsentFiltersAreNoOps(t *testing.T) {
	query, err := BuildQuery("owner-1", FilterParams{Keyword: ptr("   "), CategoryID: ptr("")}, queryNow)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if query.CategoryID != nil || query.Kind != nil || query.Period != nil || query.Keyword != nil {
		t.Fatalf("expected every filter to be absent, got %+v", query)
	}
	if query.Size != DefaultPageSize || query.Sort != SortDateDesc {
		t.Fatalf("expected defaults, got size=%d sort=%s", query.Size, query.Sort)
	}

	tx := Transaction{OwnerID: "owner-1", Note: "anything", OccurredAt: time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)}
	if !query.Matches(tx) {
		t.Fatalf("expected unfiltered query to match every owner transaction")
	}
	tx.OwnerID = "owner-2"
	if query.Matches(tx) {
		t.Fatalf("expected other owner to be excluded")
	}
}

func TestBuildQueryPeriodFromPartialInput(t *testing.T) {
	query, err := BuildQuery("owner-1", FilterParams{Month: ptr(3)}, queryNow)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if query.Period == nil || query.Period.Label() != "2026-03" {
		t.Fatalf("expected 2026-03 period, got %+v", query.Period)
	}

	if _, err := BuildQuery("owner-1", FilterParams{Month: ptr(13), Year: ptr(2026)}, queryNow); !errors.Is(err, ErrInvalidPeriod) {
		t.Fatalf("expected ErrInvalidPeriod, got %v", err)
	}
}

func TestBuildQueryPaging(t *testing.T) {
	query, err := BuildQuery("owner-1", FilterParams{Page: 2, Size: 5000}, queryNow)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if query.Size != MaxPageSize {
		t.Fatalf("expected size clamp to %d, got %d", MaxPageSize, query.Size)
	}
	if query.Offset() != 2*MaxPageSize {
		t.Fatalf("expected offset %d, got %d", 2*MaxPageSize, query.Offset())
	}

	if _, err := BuildQuery("owner-1", FilterParams{Page: -1}, queryNow); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if _, err := BuildQuery("owner-1", FilterParams{Sort: "random"}, queryNow); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for sort, got %v", err)
	}
	if _, err := BuildQuery("owner-1", FilterParams{Kind: ptr(Kind("TRANSFER"))}, queryNow); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for kind, got %v", err)
	}
}

func TestQueryMatchesKeywordOnNoteOrCategory(t *testing.T) {
	query, err := BuildQuery("owner-1", FilterParams{Keyword: ptr(" LUNCH ")}, queryNow)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	byNote := Transaction{OwnerID: "owner-1", Note: "Lunch with team"}
	byCategory := Transaction{OwnerID: "owner-1", Category: Category{Name: "Business lunches"}}
	neither := Transaction{OwnerID: "owner-1", Note: "Taxi", Category: Category{Name: "Transport"}}

	if !query.Matches(byNote) || !query.Matches(byCategory) {
		t.Fatalf("expected keyword to match note or category name")
	}
	if query.Matches(neither) {
		t.Fatalf("expected keyword not to match")
	}
}

func TestQueryMatchesCombinedFilters(t *testing.T) {
	query, err := BuildQuery("owner-1", FilterParams{
		CategoryID: ptr("cat-1"),
		Kind:       ptr(KindExpense),
		Month:      ptr(10),
		Year:       ptr(2026),
	}, queryNow)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	tx := Transaction{
		OwnerID:    "owner-1",
		CategoryID: "cat-1",
		Kind:       KindExpense,
		OccurredAt: time.Date(2026, 10, 31, 23, 59, 59, 0, time.UTC),
	}
	if !query.Matches(tx) {
		t.Fatalf("expected transaction on last second of month to match")
	}

	tx.OccurredAt = time.Date(2026, 11, 1, 0, 0, 0, 0, time.UTC)
	if query.Matches(tx) {
		t.Fatalf("expected next month to be excluded")
	}
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	query := Query{Keyword: ptr(`50%_Off\`)}
	if got := query.LikePattern(); got != `%50\%\_off\\%` {
		t.Fatalf("unexpected pattern %q", got)
	}
	if got := (Query{}).LikePattern(); got != "" {
		t.Fatalf("expected empty pattern, got %q", got)
	}
}

func TestQueryLessBreaksTiesByID(t *testing.T) {
	at := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	a := Transaction{ID: "a", OccurredAt: at, Amount: decimal.NewFromInt(5)}
	b := Transaction{ID: "b", OccurredAt: at, Amount: decimal.NewFromInt(5)}

	for _, sort := range []SortOrder{SortDateDesc, SortDateAsc, SortAmountDesc, SortAmountAsc} {
		query := Query{Sort: sort}
		if !query.Less(a, b) || query.Less(b, a) {
			t.Fatalf("%s: expected id tie-break", sort)
		}
	}

	later := Transaction{ID: "0", OccurredAt: at.Add(time.Hour), Amount: decimal.NewFromInt(1)}
	if !(Query{Sort: SortDateDesc}).Less(later, a) {
		t.Fatalf("expected later transaction first for date_desc")
	}
	if !(Query{Sort: SortAmountDesc}).Less(a, later) {
		t.Fatalf("expected larger amount first for amount_desc")
	}
}

func TestPageTotalPages(t *testing.T) {
	cases := []struct {
		page Page
		want int
	}{
		{Page{Total: 0, Size: 20}, 0},
		{Page{Total: 20, Size: 20}, 1},
		{Page{Total: 21, Size: 20}, 2},
		{Page{Total: 3}, 1},
	}
	for _, tc := range cases {
		if got := tc.page.TotalPages(); got != tc.want {
			t.Fatalf("expected %d pages for %+v, got %d", tc.want, tc.page, got)
		}
	}
}

func TestRunningBalancesFollowChronology(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, 5, d, 0, 0, 0, 0, time.UTC) }
	txs := []Transaction{
		{ID: "c", Kind: KindExpense, Amount: decimal.NewFromInt(30), OccurredAt: day(3)},
		{ID: "a", Kind: KindIncome, Amount: decimal.NewFromInt(100), OccurredAt: day(1)},
		{ID: "b", Kind: KindExpense, Amount: decimal.NewFromInt(20), OccurredAt: day(3)},
	}

	balances := RunningBalances(decimal.Zero, txs)
	want := map[string]int64{"a": 100, "b": 80, "c": 50}
	for id, value := range want {
		if !balances[id].Equal(decimal.NewFromInt(value)) {
			t.Fatalf("expected balance %d for %s, got %s", value, id, balances[id])
		}
	}
	if txs[0].ID != "c" {
		t.Fatalf("expected input order to be preserved")
	}

	if got := BalanceAt(txs, day(2)); !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("expected 100 at day 2, got %s", got)
	}

	opened := RunningBalances(decimal.NewFromInt(-40), txs[1:])
	if !opened["a"].Equal(decimal.NewFromInt(60)) || !opened["b"].Equal(decimal.NewFromInt(40)) {
		t.Fatalf("expected balances on top of the opening amount, got %v", opened)
	}
}

func TestParseKind(t *testing.T) {
	for _, value := range []string{"income", "INCOME", " Income "} {
		if kind, err := ParseKind(value); err != nil || kind != KindIncome {
			t.Fatalf("expected INCOME for %q, got %q %v", value, kind, err)
		}
	}
	if _, err := ParseKind("transfer"); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
