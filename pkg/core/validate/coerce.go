package validate

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// nullSentinels are strings providers emit to mean "no value". They are
// treated as absence, never as a parse failure.
var nullSentinels = map[string]bool{
	"":     true,
	"-":    true,
	"—":    true,
	"n/a":  true,
	"null": true,
	"none": true,
}

// isAbsent reports whether a present map value still counts as "no value":
// a nil scalar or a null-sentinel string.
func isAbsent(v any) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return nullSentinels[strings.ToLower(strings.TrimSpace(s))]
	}
	return false
}

// timestampLayouts are tried in order for string values; ISO-8601 shapes
// take priority over the epoch fallback.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// coerceString accepts only string scalars.
func coerceString(field string, v any) (string, *FieldError) {
	s, ok := v.(string)
	if !ok {
		return "", &FieldError{Field: field, Kind: TypeMismatch, Value: v,
			Constraint: "expected a string"}
	}
	return s, nil
}

// coerceYear accepts integers and integer-looking strings. Wire numbers
// with a fractional part are rejected rather than truncated.
func coerceYear(field string, v any) (int, *FieldError) {
	mismatch := func(constraint string) (int, *FieldError) {
		return 0, &FieldError{Field: field, Kind: TypeMismatch, Value: v, Constraint: constraint}
	}
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		if t != math.Trunc(t) {
			return mismatch("fractional year")
		}
		return int(t), nil
	case json.Number:
		if n, err := t.Int64(); err == nil {
			return int(n), nil
		}
		if f, err := t.Float64(); err == nil && f == math.Trunc(f) {
			return int(f), nil
		}
		return mismatch("fractional year")
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(t))
		if err != nil {
			return mismatch("expected an integer or integer-looking string")
		}
		return n, nil
	default:
		return mismatch("expected an integer or integer-looking string")
	}
}

// coerceDecimal accepts numbers and numeric-looking strings, including
// provider formatting: thousands separators, a leading $, surrounding
// whitespace, and parenthesized negatives. Booleans, collections and
// non-numeric strings are type mismatches.
func coerceDecimal(field string, v any) (decimal.Decimal, *FieldError) {
	mismatch := func(constraint string) (decimal.Decimal, *FieldError) {
		return decimal.Zero, &FieldError{Field: field, Kind: TypeMismatch, Value: v, Constraint: constraint}
	}
	switch t := v.(type) {
	case json.Number:
		d, err := decimal.NewFromString(string(t))
		if err != nil {
			return mismatch("expected a number")
		}
		return d, nil
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return mismatch("expected a finite number")
		}
		return decimal.NewFromFloat(t), nil
	case int:
		return decimal.NewFromInt(int64(t)), nil
	case int64:
		return decimal.NewFromInt(t), nil
	case string:
		d, ok := parseNumericString(t)
		if !ok {
			return mismatch("expected a number or numeric-looking string")
		}
		return d, nil
	case bool:
		return mismatch("booleans are not numeric")
	default:
		return mismatch("expected a number or numeric-looking string")
	}
}

// parseNumericString normalizes financial formatting before parsing. The
// whole cleaned string must parse; partial numeric content is not extracted.
func parseNumericString(s string) (decimal.Decimal, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, " ", "")

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}
	if s == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	if negative {
		d = d.Neg()
	}
	return d, true
}

// coerceTimestamp accepts ISO-8601 strings and integer epoch seconds,
// normalized to UTC. For strings, ISO-8601 layouts are tried before the
// all-digits epoch fallback, so ISO wins on ambiguity.
func coerceTimestamp(field string, v any) (time.Time, *FieldError) {
	parseErr := func(constraint string) (time.Time, *FieldError) {
		return time.Time{}, &FieldError{Field: field, Kind: TimestampParseError, Value: v, Constraint: constraint}
	}
	switch t := v.(type) {
	case string:
		s := strings.TrimSpace(t)
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts.UTC(), nil
			}
		}
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return time.Unix(n, 0).UTC(), nil
		}
		return parseErr("expected ISO-8601 or epoch seconds")
	case json.Number:
		n, err := t.Int64()
		if err != nil {
			return parseErr("epoch seconds must be integral")
		}
		return time.Unix(n, 0).UTC(), nil
	case float64:
		if t != math.Trunc(t) {
			return parseErr("epoch seconds must be integral")
		}
		return time.Unix(int64(t), 0).UTC(), nil
	case int:
		return time.Unix(int64(t), 0).UTC(), nil
	case int64:
		return time.Unix(t, 0).UTC(), nil
	default:
		return parseErr("expected ISO-8601 or epoch seconds")
	}
}
