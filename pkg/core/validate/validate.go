// Package validate turns raw provider records into typed FinancialMetric
// values. It is pure: no I/O, no logging, no shared state, so one Builder
// can be used from any number of goroutines.
package validate

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"finbro/pkg/core/schema"
	"finbro/pkg/models"
)

// =============================================================================
// CONFIGURATION
// =============================================================================

// Config selects the validation policy. The policy is explicit and
// caller-selectable; nothing here is a hidden global.
type Config struct {
	// Strict fails the whole record on any violation, optional fields
	// included. Lenient (false) keeps the record, marks the violating
	// optional field missing, and reports the violation as a diagnostic.
	Strict bool

	// MaxYear is the inclusive upper bound for the year field. Zero means
	// "current year + 1", captured once at builder construction so that
	// repeated Build calls never consult the clock.
	MaxYear int
}

// NewStrictConfig returns the policy where every violation is fatal.
func NewStrictConfig() Config {
	return Config{Strict: true}
}

// NewLenientConfig returns the policy where optional-field violations are
// downgraded to diagnostics.
func NewLenientConfig() Config {
	return Config{Strict: false}
}

// =============================================================================
// BUILDER
// =============================================================================

var tickerPattern = regexp.MustCompile(`^[A-Z0-9]+$`)

// Builder validates raw records against the FinancialMetric schema.
type Builder struct {
	cfg     Config
	maxYear int
}

// NewBuilder constructs a Builder for the given policy.
func NewBuilder(cfg Config) *Builder {
	maxYear := cfg.MaxYear
	if maxYear == 0 {
		maxYear = time.Now().Year() + 1
	}
	return &Builder{cfg: cfg, maxYear: maxYear}
}

// Build transforms one raw record into a FinancialMetric. Fields are
// processed in schema order: presence, type coercion, constraint check,
// then assignment (or the explicit missing marker for absent optionals).
//
// The first fatal failure rejects the record and returns a *RecordError;
// no partial record is ever returned. In lenient mode, optional-field
// violations are returned as diagnostics next to the record instead.
func (b *Builder) Build(raw models.Raw) (*models.FinancialMetric, []FieldError, error) {
	var m models.FinancialMetric
	var diags []FieldError

	for _, spec := range schema.Fields() {
		v, present := raw[spec.Name]
		if !present || isAbsent(v) {
			if spec.Required {
				return nil, nil, b.fatal(&m, FieldError{
					Field: spec.Name, Kind: MissingField,
					Constraint: "required field is absent or null",
				})
			}
			continue
		}

		switch spec.Name {
		case schema.FieldTicker:
			s, ferr := coerceString(spec.Name, v)
			if ferr == nil {
				m.Ticker = normalizeTicker(s)
				ferr = checkTicker(m.Ticker, v)
			}
			if ferr != nil {
				return nil, nil, b.fatal(&m, *ferr)
			}

		case schema.FieldYear:
			y, ferr := coerceYear(spec.Name, v)
			if ferr == nil {
				ferr = b.checkYear(y, v)
			}
			if ferr != nil {
				return nil, nil, b.fatal(&m, *ferr)
			}
			m.Year = y

		case schema.FieldLastUpdated:
			ts, ferr := coerceTimestamp(spec.Name, v)
			if ferr != nil {
				return nil, nil, b.fatal(&m, *ferr)
			}
			m.LastUpdated = ts

		default:
			d, ferr := coerceDecimal(spec.Name, v)
			if ferr == nil {
				ferr = checkBounds(spec, d, v)
			}
			if ferr != nil {
				if b.cfg.Strict {
					return nil, nil, b.fatal(&m, *ferr)
				}
				diags = append(diags, *ferr)
				continue
			}
			assignDecimal(&m, spec.Name, d)
		}
	}

	return &m, diags, nil
}

func (b *Builder) fatal(m *models.FinancialMetric, cause FieldError) error {
	return &RecordError{Ticker: m.Ticker, Cause: cause}
}

// =============================================================================
// CONSTRAINT CHECKS
// =============================================================================

func normalizeTicker(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

func checkTicker(normalized string, raw any) *FieldError {
	if normalized == "" || !tickerPattern.MatchString(normalized) {
		return &FieldError{Field: schema.FieldTicker, Kind: ConstraintViolation,
			Value: raw, Constraint: "non-empty uppercase alphanumeric"}
	}
	return nil
}

func (b *Builder) checkYear(y int, raw any) *FieldError {
	if y < 1900 || y > b.maxYear {
		return &FieldError{Field: schema.FieldYear, Kind: ConstraintViolation,
			Value: raw, Constraint: "1900 <= year <= current year + 1"}
	}
	return nil
}

// checkBounds applies the non-negativity constraint carried by
// long_term_debt and shares_outstanding. Every other decimal field accepts
// any sign (restatements can be negative).
func checkBounds(spec schema.FieldSpec, d decimal.Decimal, raw any) *FieldError {
	switch spec.Name {
	case schema.FieldLongTermDebt, schema.FieldSharesOutstanding:
		if d.IsNegative() {
			return &FieldError{Field: spec.Name, Kind: ConstraintViolation,
				Value: raw, Constraint: ">= 0 when present"}
		}
	}
	return nil
}

func assignDecimal(m *models.FinancialMetric, field string, d decimal.Decimal) {
	switch field {
	case schema.FieldRevenue:
		m.Revenue = &d
	case schema.FieldGrossProfit:
		m.GrossProfit = &d
	case schema.FieldOperatingIncome:
		m.OperatingIncome = &d
	case schema.FieldNetIncome:
		m.NetIncome = &d
	case schema.FieldCashFromOperations:
		m.CashFromOperations = &d
	case schema.FieldCashFromFinancing:
		m.CashFromFinancing = &d
	case schema.FieldCashFromInvesting:
		m.CashFromInvesting = &d
	case schema.FieldCapitalExpenditure:
		m.CapitalExpenditure = &d
	case schema.FieldShareBasedComp:
		m.ShareBasedComp = &d
	case schema.FieldTotalAssets:
		m.TotalAssets = &d
	case schema.FieldTotalLiabilities:
		m.TotalLiabilities = &d
	case schema.FieldStockholdersEquity:
		m.StockholdersEquity = &d
	case schema.FieldLongTermDebt:
		m.LongTermDebt = &d
	case schema.FieldSharesOutstanding:
		m.SharesOutstanding = &d
	}
}
