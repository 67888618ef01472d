// Package synthesis folds validated records into per-ticker timelines.
// One ticker+year slot holds exactly one record; when the provider returns
// the same company-year twice (a restatement or a refreshed row), the record
// with the later last_updated wins and the displacement is logged for audit.
package synthesis

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"finbro/pkg/core/schema"
	"finbro/pkg/models"
)

// =============================================================================
// CORE DATA STRUCTURES
// =============================================================================

// Timeline is the authoritative per-company series keyed by fiscal year.
type Timeline struct {
	Ticker       string                         `json:"ticker"`
	Years        map[int]models.FinancialMetric `json:"years"`
	Restatements []Restatement                  `json:"restatements,omitempty"`
}

// Restatement records a superseded company-year: which year was replaced,
// the timestamps that decided the winner, and the figures that moved.
type Restatement struct {
	Ticker     string        `json:"ticker"`
	Year       int           `json:"year"`
	OldUpdated time.Time     `json:"old_last_updated"`
	NewUpdated time.Time     `json:"new_last_updated"`
	Changes    []FieldChange `json:"changes,omitempty"`
	DetectedAt time.Time     `json:"detected_at"`
}

// FieldChange is one figure revised by a superseding record.
type FieldChange struct {
	Field    string           `json:"field"`
	OldValue *decimal.Decimal `json:"old_value,omitempty"`
	NewValue *decimal.Decimal `json:"new_value,omitempty"`
}

// NewTimeline creates an empty timeline for a ticker.
func NewTimeline(ticker string) *Timeline {
	return &Timeline{
		Ticker: ticker,
		Years:  make(map[int]models.FinancialMetric),
	}
}

// SortedYears returns the fiscal years ascending.
func (t *Timeline) SortedYears() []int {
	years := make([]int, 0, len(t.Years))
	for y := range t.Years {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Latest returns the most recent fiscal year's record.
func (t *Timeline) Latest() (models.FinancialMetric, bool) {
	years := t.SortedYears()
	if len(years) == 0 {
		return models.FinancialMetric{}, false
	}
	return t.Years[years[len(years)-1]], true
}

// =============================================================================
// ZIPPER
// =============================================================================

// Zipper assembles timelines from validated records.
type Zipper struct{}

// NewZipper creates a Zipper.
func NewZipper() *Zipper {
	return &Zipper{}
}

// Stitch groups records by ticker and merges each into its timeline.
// Input order does not matter: supersession is decided by last_updated,
// so the result is the same for any permutation of the input.
func (z *Zipper) Stitch(records []models.FinancialMetric) map[string]*Timeline {
	timelines := make(map[string]*Timeline)
	for _, rec := range records {
		t, ok := timelines[rec.Ticker]
		if !ok {
			t = NewTimeline(rec.Ticker)
			timelines[rec.Ticker] = t
		}
		_ = z.Merge(t, rec) // ticker always matches: records are routed by rec.Ticker
	}
	return timelines
}

// Merge integrates one record into an existing timeline. A record for an
// already-populated year supersedes only when its last_updated is strictly
// later; the displaced record is logged as a Restatement. Ties keep the
// incumbent.
func (z *Zipper) Merge(t *Timeline, rec models.FinancialMetric) error {
	if rec.Ticker != t.Ticker {
		return fmt.Errorf("ticker mismatch: timeline %s, record %s", t.Ticker, rec.Ticker)
	}

	existing, ok := t.Years[rec.Year]
	if !ok {
		t.Years[rec.Year] = rec
		return nil
	}
	if !rec.LastUpdated.After(existing.LastUpdated) {
		return nil
	}

	t.Restatements = append(t.Restatements, Restatement{
		Ticker:     t.Ticker,
		Year:       rec.Year,
		OldUpdated: existing.LastUpdated,
		NewUpdated: rec.LastUpdated,
		Changes:    diffFields(existing, rec),
		DetectedAt: time.Now(),
	})
	t.Years[rec.Year] = rec
	return nil
}

// diffFields lists the numeric figures that changed between two records for
// the same company-year.
func diffFields(old, new models.FinancialMetric) []FieldChange {
	type pair struct {
		name     string
		old, new *decimal.Decimal
	}
	pairs := []pair{
		{schema.FieldRevenue, old.Revenue, new.Revenue},
		{schema.FieldGrossProfit, old.GrossProfit, new.GrossProfit},
		{schema.FieldOperatingIncome, old.OperatingIncome, new.OperatingIncome},
		{schema.FieldNetIncome, old.NetIncome, new.NetIncome},
		{schema.FieldCashFromOperations, old.CashFromOperations, new.CashFromOperations},
		{schema.FieldCashFromFinancing, old.CashFromFinancing, new.CashFromFinancing},
		{schema.FieldCashFromInvesting, old.CashFromInvesting, new.CashFromInvesting},
		{schema.FieldCapitalExpenditure, old.CapitalExpenditure, new.CapitalExpenditure},
		{schema.FieldShareBasedComp, old.ShareBasedComp, new.ShareBasedComp},
		{schema.FieldTotalAssets, old.TotalAssets, new.TotalAssets},
		{schema.FieldTotalLiabilities, old.TotalLiabilities, new.TotalLiabilities},
		{schema.FieldStockholdersEquity, old.StockholdersEquity, new.StockholdersEquity},
		{schema.FieldLongTermDebt, old.LongTermDebt, new.LongTermDebt},
		{schema.FieldSharesOutstanding, old.SharesOutstanding, new.SharesOutstanding},
	}

	var changes []FieldChange
	for _, p := range pairs {
		if !sameValue(p.old, p.new) {
			changes = append(changes, FieldChange{Field: p.name, OldValue: p.old, NewValue: p.new})
		}
	}
	return changes
}

func sameValue(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
