// Package calc derives analytics from validated financial metrics: margin
// ratios and year-over-year growth. Every computation is missing-aware; a
// nil input never becomes a fake zero, it propagates as a nil result.
package calc

import (
	"math"
	"sort"

	"github.com/shopspring/decimal"

	"finbro/pkg/models"
)

var hundred = decimal.NewFromInt(100)

// =============================================================================
// GROWTH ANALYSIS
// =============================================================================

// GrowthEntry is the year-over-year change between two consecutive reported
// years, plus the later year's margins. Percentages are nil when either side
// of the ratio is missing or the denominator is zero.
type GrowthEntry struct {
	Ticker             string           `json:"ticker"`
	Year               int              `json:"year"`
	PriorYear          int              `json:"prior_year"`
	RevenueGrowthPct   *decimal.Decimal `json:"revenue_growth_pct,omitempty"`
	NetIncomeGrowthPct *decimal.Decimal `json:"net_income_growth_pct,omitempty"`
	GrossMarginPct     *decimal.Decimal `json:"gross_margin_pct,omitempty"`
	OperatingMarginPct *decimal.Decimal `json:"operating_margin_pct,omitempty"`
	NetMarginPct       *decimal.Decimal `json:"net_margin_pct,omitempty"`
}

// GrowthRates compares consecutive reported years (sorted ascending) and
// returns one entry per pair. Fewer than two records yield nothing.
func GrowthRates(metrics []models.FinancialMetric) []GrowthEntry {
	if len(metrics) < 2 {
		return nil
	}

	sorted := make([]models.FinancialMetric, len(metrics))
	copy(sorted, metrics)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Year < sorted[j].Year })

	var entries []GrowthEntry
	for i := 1; i < len(sorted); i++ {
		current, prior := sorted[i], sorted[i-1]
		margins := Margins(current)
		entries = append(entries, GrowthEntry{
			Ticker:             current.Ticker,
			Year:               current.Year,
			PriorYear:          prior.Year,
			RevenueGrowthPct:   GrowthRate(current.Revenue, prior.Revenue),
			NetIncomeGrowthPct: GrowthRate(current.NetIncome, prior.NetIncome),
			GrossMarginPct:     margins.Gross,
			OperatingMarginPct: margins.Operating,
			NetMarginPct:       margins.Net,
		})
	}
	return entries
}

// GrowthRate computes (current - prior) / prior * 100. Nil when either
// value is missing or the prior value is zero.
func GrowthRate(current, prior *decimal.Decimal) *decimal.Decimal {
	if current == nil || prior == nil || prior.IsZero() {
		return nil
	}
	g := current.Sub(*prior).Div(*prior).Mul(hundred)
	return &g
}

// =============================================================================
// MARGINS
// =============================================================================

// MarginSet holds a year's profitability ratios as percentages of revenue.
type MarginSet struct {
	Gross     *decimal.Decimal `json:"gross,omitempty"`
	Operating *decimal.Decimal `json:"operating,omitempty"`
	Net       *decimal.Decimal `json:"net,omitempty"`
}

// Margins computes gross, operating and net margin for one record.
func Margins(m models.FinancialMetric) MarginSet {
	return MarginSet{
		Gross:     Ratio(m.GrossProfit, m.Revenue),
		Operating: Ratio(m.OperatingIncome, m.Revenue),
		Net:       Ratio(m.NetIncome, m.Revenue),
	}
}

// Ratio computes part / whole * 100, nil-safe and zero-denominator-safe.
func Ratio(part, whole *decimal.Decimal) *decimal.Decimal {
	if part == nil || whole == nil || whole.IsZero() {
		return nil
	}
	r := part.Div(*whole).Mul(hundred)
	return &r
}

// FreeCashFlow is cash from operations plus capital expenditure (capex is
// reported negative). Nil when either input is missing.
func FreeCashFlow(m models.FinancialMetric) *decimal.Decimal {
	if m.CashFromOperations == nil || m.CapitalExpenditure == nil {
		return nil
	}
	fcf := m.CashFromOperations.Add(*m.CapitalExpenditure)
	return &fcf
}

// CAGR is the compound annual growth rate between two values n years apart,
// as a percentage. Nil when either value is missing or non-positive, when
// years < 1, or when the rate falls outside float64 range. Root extraction
// goes through float64; callers wanting exact arithmetic should use
// GrowthRate on consecutive years instead.
func CAGR(start, end *decimal.Decimal, years int) *decimal.Decimal {
	if start == nil || end == nil || years < 1 {
		return nil
	}
	if !start.IsPositive() || !end.IsPositive() {
		return nil
	}
	ratio := end.InexactFloat64() / start.InexactFloat64()
	rate := (math.Pow(ratio, 1.0/float64(years)) - 1.0) * 100.0
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return nil
	}
	d := decimal.NewFromFloat(rate)
	return &d
}

// =============================================================================
// BALANCE SHEET IDENTITY
// =============================================================================

// BalanceCheck reports whether assets = liabilities + equity holds for one
// record, within tolerance (same unit as the figures).
type BalanceCheck struct {
	Checked    bool             `json:"checked"`
	IsBalanced bool             `json:"is_balanced"`
	Difference *decimal.Decimal `json:"difference,omitempty"`
}

// CheckBalanceEquation verifies the accounting identity when all three sides
// are reported. Records missing any side are not checked rather than failed.
func CheckBalanceEquation(m models.FinancialMetric, tolerance decimal.Decimal) BalanceCheck {
	if m.TotalAssets == nil || m.TotalLiabilities == nil || m.StockholdersEquity == nil {
		return BalanceCheck{}
	}
	diff := m.TotalAssets.Sub(m.TotalLiabilities.Add(*m.StockholdersEquity))
	return BalanceCheck{
		Checked:    true,
		IsBalanced: diff.Abs().LessThanOrEqual(tolerance.Abs()),
		Difference: &diff,
	}
}
