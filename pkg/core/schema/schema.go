// Package schema is the authoritative description of the FinancialMetric
// record shape. The validator consumes Fields() so that enumeration order
// and processing order cannot drift; external tooling consumes Describe()
// as a JSON-serializable schema document.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldType is the semantic type of a record field, independent of any
// particular wire encoding.
type FieldType string

const (
	TypeString    FieldType = "string"
	TypeInteger   FieldType = "integer"
	TypeDecimal   FieldType = "decimal"
	TypeTimestamp FieldType = "timestamp"
)

// Field name constants shared by the schema, the validator and the tests.
const (
	FieldTicker             = "ticker"
	FieldYear               = "year"
	FieldRevenue            = "revenue"
	FieldGrossProfit        = "gross_profit"
	FieldOperatingIncome    = "operating_income"
	FieldNetIncome          = "net_income"
	FieldCashFromOperations = "cash_from_operations"
	FieldCashFromFinancing  = "cash_from_financing"
	FieldCashFromInvesting  = "cash_from_investing"
	FieldCapitalExpenditure = "capital_expenditure"
	FieldShareBasedComp     = "share_based_comp"
	FieldTotalAssets        = "total_assets"
	FieldTotalLiabilities   = "total_liabilities"
	FieldStockholdersEquity = "stockholders_equity"
	FieldLongTermDebt       = "long_term_debt"
	FieldSharesOutstanding  = "shares_outstanding"
	FieldLastUpdated        = "last_updated"
)

// FieldSpec describes a single field: its semantic type, whether the
// provider must supply it, and the constraints the validator enforces.
type FieldSpec struct {
	Name        string    `json:"name"`
	Type        FieldType `json:"type"`
	Required    bool      `json:"required"`
	Constraints []string  `json:"constraints,omitempty"`
	Description string    `json:"description"`
}

// Description is the introspectable shape of one record type.
type Description struct {
	Name   string      `json:"name"`
	Doc    string      `json:"doc"`
	Fields []FieldSpec `json:"fields"`
}

const metricDoc = "One company-year of validated financial fundamentals retrieved from the FinBro data provider."

// financialMetricFields is the canonical field order. Constraint bounds are
// stated as text, never computed, so Describe output is identical across
// calls.
var financialMetricFields = []FieldSpec{
	{Name: FieldTicker, Type: TypeString, Required: true,
		Constraints: []string{"non-empty", "uppercase alphanumeric"},
		Description: "Exchange ticker symbol, normalized to uppercase"},
	{Name: FieldYear, Type: TypeInteger, Required: true,
		Constraints: []string{"1900 <= year <= current year + 1"},
		Description: "Fiscal year the metrics belong to"},
	{Name: FieldRevenue, Type: TypeDecimal, Required: false,
		Description: "Total revenue for the fiscal year"},
	{Name: FieldGrossProfit, Type: TypeDecimal, Required: false,
		Description: "Revenue less cost of goods sold"},
	{Name: FieldOperatingIncome, Type: TypeDecimal, Required: false,
		Description: "Profit from core operations"},
	{Name: FieldNetIncome, Type: TypeDecimal, Required: false,
		Description: "Bottom-line earnings for the fiscal year"},
	{Name: FieldCashFromOperations, Type: TypeDecimal, Required: false,
		Description: "Net cash generated by operating activities"},
	{Name: FieldCashFromFinancing, Type: TypeDecimal, Required: false,
		Description: "Net cash from financing activities"},
	{Name: FieldCashFromInvesting, Type: TypeDecimal, Required: false,
		Description: "Net cash from investing activities"},
	{Name: FieldCapitalExpenditure, Type: TypeDecimal, Required: false,
		Description: "Spend on property, plant and equipment"},
	{Name: FieldShareBasedComp, Type: TypeDecimal, Required: false,
		Description: "Share-based compensation expense"},
	{Name: FieldTotalAssets, Type: TypeDecimal, Required: false,
		Description: "Total assets at fiscal year end"},
	{Name: FieldTotalLiabilities, Type: TypeDecimal, Required: false,
		Description: "Total liabilities at fiscal year end"},
	{Name: FieldStockholdersEquity, Type: TypeDecimal, Required: false,
		Description: "Total stockholders' equity at fiscal year end"},
	{Name: FieldLongTermDebt, Type: TypeDecimal, Required: false,
		Constraints: []string{">= 0 when present"},
		Description: "Long-term debt at fiscal year end"},
	{Name: FieldSharesOutstanding, Type: TypeDecimal, Required: false,
		Constraints: []string{">= 0 when present"},
		Description: "Shares outstanding at fiscal year end"},
	{Name: FieldLastUpdated, Type: TypeTimestamp, Required: true,
		Constraints: []string{"ISO-8601 string or integer epoch seconds", "normalized to UTC"},
		Description: "When the provider last refreshed this record"},
}

// Describe returns the FinancialMetric schema. Pure and deterministic; the
// returned value is a copy, so callers cannot corrupt the canonical order.
func Describe() Description {
	return Description{
		Name:   "FinancialMetric",
		Doc:    metricDoc,
		Fields: Fields(),
	}
}

// Fields returns the canonical field list in validation order.
func Fields() []FieldSpec {
	out := make([]FieldSpec, len(financialMetricFields))
	for i, f := range financialMetricFields {
		if f.Constraints != nil {
			f.Constraints = append([]string(nil), f.Constraints...)
		}
		out[i] = f
	}
	return out
}

// TypeInfo looks up a record type by name. Only FinancialMetric exists
// today; unknown names return an error rather than an empty description.
func TypeInfo(name string) (Description, error) {
	if name != "FinancialMetric" {
		return Description{}, fmt.Errorf("unknown type %q", name)
	}
	return Describe(), nil
}

// JSON serializes the description as an interchange schema document.
func (d Description) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// Markdown renders the description as a data-dictionary table.
func (d Description) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n%s\n\n## Fields\n\n", d.Name, d.Doc)
	b.WriteString("| Field | Type | Required | Constraints | Description |\n")
	b.WriteString("|---|---|---|---|---|\n")
	for _, f := range d.Fields {
		req := "no"
		if f.Required {
			req = "yes"
		}
		constraints := strings.Join(f.Constraints, "; ")
		if constraints == "" {
			constraints = "—"
		}
		fmt.Fprintf(&b, "| `%s` | %s | %s | %s | %s |\n",
			f.Name, f.Type, req, constraints, f.Description)
	}
	return b.String()
}
