package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Raw is one deserialized provider record before validation: field names
// mapped to untyped wire scalars (string, float64, json.Number, bool, nil).
type Raw map[string]any

// FinancialMetric is one company-year of validated fundamentals.
// Optional figures are pointers: nil means the provider did not report the
// value, which is distinct from a reported zero. Instances are constructed
// by the validator and never mutated afterwards.
type FinancialMetric struct {
	Ticker string `json:"ticker"`
	Year   int    `json:"year"`

	// Income statement
	Revenue         *decimal.Decimal `json:"revenue,omitempty"`
	GrossProfit     *decimal.Decimal `json:"gross_profit,omitempty"`
	OperatingIncome *decimal.Decimal `json:"operating_income,omitempty"`
	NetIncome       *decimal.Decimal `json:"net_income,omitempty"`

	// Cash flow statement
	CashFromOperations *decimal.Decimal `json:"cash_from_operations,omitempty"`
	CashFromFinancing  *decimal.Decimal `json:"cash_from_financing,omitempty"`
	CashFromInvesting  *decimal.Decimal `json:"cash_from_investing,omitempty"`
	CapitalExpenditure *decimal.Decimal `json:"capital_expenditure,omitempty"`
	ShareBasedComp     *decimal.Decimal `json:"share_based_comp,omitempty"`

	// Balance sheet
	TotalAssets        *decimal.Decimal `json:"total_assets,omitempty"`
	TotalLiabilities   *decimal.Decimal `json:"total_liabilities,omitempty"`
	StockholdersEquity *decimal.Decimal `json:"stockholders_equity,omitempty"`
	LongTermDebt       *decimal.Decimal `json:"long_term_debt,omitempty"`
	SharesOutstanding  *decimal.Decimal `json:"shares_outstanding,omitempty"`

	LastUpdated time.Time `json:"last_updated"`
}

// Key identifies a record within one response sequence.
func (m FinancialMetric) Key() string {
	return fmt.Sprintf("%s:%d", m.Ticker, m.Year)
}

// Equal compares two records field by field. Decimal fields compare by
// numeric value ("1.0" equals "1.00"), timestamps by instant.
func (m FinancialMetric) Equal(o FinancialMetric) bool {
	if m.Ticker != o.Ticker || m.Year != o.Year {
		return false
	}
	if !m.LastUpdated.Equal(o.LastUpdated) {
		return false
	}
	pairs := [][2]*decimal.Decimal{
		{m.Revenue, o.Revenue},
		{m.GrossProfit, o.GrossProfit},
		{m.OperatingIncome, o.OperatingIncome},
		{m.NetIncome, o.NetIncome},
		{m.CashFromOperations, o.CashFromOperations},
		{m.CashFromFinancing, o.CashFromFinancing},
		{m.CashFromInvesting, o.CashFromInvesting},
		{m.CapitalExpenditure, o.CapitalExpenditure},
		{m.ShareBasedComp, o.ShareBasedComp},
		{m.TotalAssets, o.TotalAssets},
		{m.TotalLiabilities, o.TotalLiabilities},
		{m.StockholdersEquity, o.StockholdersEquity},
		{m.LongTermDebt, o.LongTermDebt},
		{m.SharesOutstanding, o.SharesOutstanding},
	}
	for _, p := range pairs {
		if !decimalEqual(p[0], p[1]) {
			return false
		}
	}
	return true
}

func decimalEqual(a, b *decimal.Decimal) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
