package synthesis

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"finbro/pkg/models"
)

// =============================================================================
// HELPER FUNCTIONS FOR TEST DATA CREATION
// =============================================================================

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func makeMetric(ticker string, year int, revenue string, updated string) models.FinancialMetric {
	ts, err := time.Parse("2006-01-02", updated)
	if err != nil {
		panic(err)
	}
	m := models.FinancialMetric{
		Ticker:      ticker,
		Year:        year,
		LastUpdated: ts.UTC(),
	}
	if revenue != "" {
		m.Revenue = dec(revenue)
	}
	return m
}

// =============================================================================
// TEST CASE 1: NORMAL RESTATEMENT OVERRIDE
// =============================================================================
// Input:
//   - AAPL FY2023 revenue 100, last_updated 2024-02-28 (original)
//   - AAPL FY2023 revenue 102, last_updated 2025-02-28 (restated)
// Expected:
//   - Timeline holds revenue 102 for 2023
//   - One Restatement logged with the old and new timestamps and the
//     revenue change 100 -> 102

func TestStitch_RestatementSupersedes(t *testing.T) {
	original := makeMetric("AAPL", 2023, "100", "2024-02-28")
	restated := makeMetric("AAPL", 2023, "102", "2025-02-28")
	restated.GrossProfit = dec("45")

	timelines := NewZipper().Stitch([]models.FinancialMetric{original, restated})

	tl := timelines["AAPL"]
	if tl == nil {
		t.Fatal("missing AAPL timeline")
	}
	got, ok := tl.Years[2023]
	if !ok {
		t.Fatal("missing 2023 in timeline")
	}
	if got.Revenue == nil || !got.Revenue.Equal(decimal.RequireFromString("102")) {
		t.Errorf("2023 revenue = %v, want 102 (restated value)", got.Revenue)
	}

	if len(tl.Restatements) != 1 {
		t.Fatalf("Restatements = %d, want 1", len(tl.Restatements))
	}
	r := tl.Restatements[0]
	if r.Ticker != "AAPL" || r.Year != 2023 {
		t.Errorf("restatement identifies %s FY%d, want AAPL FY2023", r.Ticker, r.Year)
	}
	if !r.OldUpdated.Equal(original.LastUpdated) || !r.NewUpdated.Equal(restated.LastUpdated) {
		t.Errorf("restatement timestamps = %v -> %v, want %v -> %v",
			r.OldUpdated, r.NewUpdated, original.LastUpdated, restated.LastUpdated)
	}
	if r.DetectedAt.IsZero() {
		t.Error("DetectedAt should be stamped")
	}

	// Revenue changed and gross profit appeared; both belong in the diff.
	changed := map[string]bool{}
	for _, c := range r.Changes {
		changed[c.Field] = true
	}
	if !changed["revenue"] {
		t.Errorf("changes should include revenue, got %v", r.Changes)
	}
	if !changed["gross_profit"] {
		t.Errorf("changes should include gross_profit (nil -> 45), got %v", r.Changes)
	}
}

// =============================================================================
// TEST CASE 2: ARRIVAL ORDER DOES NOT DECIDE THE WINNER
// =============================================================================
// The same two records in either order must leave the same figures in the
// timeline; supersession follows last_updated, not position.

func TestStitch_OrderInvariant(t *testing.T) {
	original := makeMetric("AAPL", 2023, "100", "2024-02-28")
	restated := makeMetric("AAPL", 2023, "102", "2025-02-28")

	forward := NewZipper().Stitch([]models.FinancialMetric{original, restated})
	reversed := NewZipper().Stitch([]models.FinancialMetric{restated, original})

	a := forward["AAPL"].Years[2023]
	b := reversed["AAPL"].Years[2023]
	if !a.Equal(b) {
		t.Errorf("winner depends on input order: %v vs %v", a.Revenue, b.Revenue)
	}
	if !a.Revenue.Equal(decimal.RequireFromString("102")) {
		t.Errorf("winner revenue = %v, want 102", a.Revenue)
	}

	// Only the order that actually displaced a stored record logs a
	// restatement; the other ignored a stale arrival.
	if len(forward["AAPL"].Restatements) != 1 {
		t.Errorf("forward order should log 1 restatement, got %d", len(forward["AAPL"].Restatements))
	}
	if len(reversed["AAPL"].Restatements) != 0 {
		t.Errorf("reversed order should log none, got %d", len(reversed["AAPL"].Restatements))
	}
}

// =============================================================================
// TEST CASE 3: TIES KEEP THE INCUMBENT
// =============================================================================

func TestMerge_EqualTimestampKeepsIncumbent(t *testing.T) {
	incumbent := makeMetric("MSFT", 2024, "245122", "2024-07-30")
	challenger := makeMetric("MSFT", 2024, "999999", "2024-07-30")

	tl := NewTimeline("MSFT")
	z := NewZipper()
	if err := z.Merge(tl, incumbent); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if err := z.Merge(tl, challenger); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	got := tl.Years[2024]
	if !got.Revenue.Equal(decimal.RequireFromString("245122")) {
		t.Errorf("tie should keep the incumbent, got revenue %v", got.Revenue)
	}
	if len(tl.Restatements) != 0 {
		t.Errorf("a tie is not a restatement, got %d", len(tl.Restatements))
	}
}

// =============================================================================
// GROUPING AND ACCESSORS
// =============================================================================

func TestStitch_GroupsByTicker(t *testing.T) {
	records := []models.FinancialMetric{
		makeMetric("AAPL", 2022, "394328", "2022-10-28"),
		makeMetric("MSFT", 2023, "211915", "2023-07-27"),
		makeMetric("AAPL", 2023, "383285", "2023-11-03"),
		makeMetric("AAPL", 2021, "365817", "2021-10-29"),
	}

	timelines := NewZipper().Stitch(records)
	if len(timelines) != 2 {
		t.Fatalf("timelines = %d, want 2", len(timelines))
	}

	aapl := timelines["AAPL"]
	years := aapl.SortedYears()
	want := []int{2021, 2022, 2023}
	if len(years) != len(want) {
		t.Fatalf("AAPL years = %v, want %v", years, want)
	}
	for i := range want {
		if years[i] != want[i] {
			t.Fatalf("AAPL years = %v, want %v", years, want)
		}
	}

	latest, ok := aapl.Latest()
	if !ok {
		t.Fatal("Latest should exist")
	}
	if latest.Year != 2023 {
		t.Errorf("Latest year = %d, want 2023", latest.Year)
	}
}

func TestStitch_EmptyInput(t *testing.T) {
	timelines := NewZipper().Stitch(nil)
	if len(timelines) != 0 {
		t.Errorf("empty input should produce no timelines, got %d", len(timelines))
	}
}

func TestTimeline_LatestOnEmpty(t *testing.T) {
	if _, ok := NewTimeline("AAPL").Latest(); ok {
		t.Error("Latest on an empty timeline should report ok=false")
	}
}

func TestMerge_TickerMismatch(t *testing.T) {
	tl := NewTimeline("AAPL")
	err := NewZipper().Merge(tl, makeMetric("MSFT", 2023, "1", "2024-01-01"))
	if err == nil {
		t.Fatal("merging a MSFT record into the AAPL timeline should fail")
	}
	t.Logf("mismatch error: %v", err)
}

// A value disappearing in the superseding record is still a change: the old
// figure was withdrawn, not confirmed.
func TestMerge_DiffTracksWithdrawnValues(t *testing.T) {
	withValue := makeMetric("AAPL", 2023, "100", "2024-01-01")
	withValue.LongTermDebt = dec("95000")

	withdrawn := makeMetric("AAPL", 2023, "100", "2024-06-01")

	tl := NewTimeline("AAPL")
	z := NewZipper()
	if err := z.Merge(tl, withValue); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}
	if err := z.Merge(tl, withdrawn); err != nil {
		t.Fatalf("Merge failed: %v", err)
	}

	if len(tl.Restatements) != 1 {
		t.Fatalf("Restatements = %d, want 1", len(tl.Restatements))
	}
	var found *FieldChange
	for i, c := range tl.Restatements[0].Changes {
		if c.Field == "long_term_debt" {
			found = &tl.Restatements[0].Changes[i]
		}
	}
	if found == nil {
		t.Fatalf("withdrawn long_term_debt not in diff: %v", tl.Restatements[0].Changes)
	}
	if found.OldValue == nil || found.NewValue != nil {
		t.Errorf("diff should read 95000 -> nil, got %v -> %v", found.OldValue, found.NewValue)
	}
}
