package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestKey(t *testing.T) {
	m := FinancialMetric{Ticker: "AAPL", Year: 2024}
	assert.Equal(t, "AAPL:2024", m.Key())
}

func TestEqual(t *testing.T) {
	ts := time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)
	base := FinancialMetric{Ticker: "AAPL", Year: 2024, Revenue: dec("391035000000"), LastUpdated: ts}

	t.Run("identical records", func(t *testing.T) {
		other := FinancialMetric{Ticker: "AAPL", Year: 2024, Revenue: dec("391035000000"), LastUpdated: ts}
		assert.True(t, base.Equal(other))
	})

	t.Run("scale differences do not matter", func(t *testing.T) {
		other := base
		other.Revenue = dec("391035000000.00")
		assert.True(t, base.Equal(other), "1.0 and 1.00 are the same number")
	})

	t.Run("nil is not zero", func(t *testing.T) {
		withZero := base
		withZero.NetIncome = dec("0")
		withNil := base
		withNil.NetIncome = nil
		assert.False(t, withZero.Equal(withNil))
	})

	t.Run("timestamps compare by instant", func(t *testing.T) {
		other := base
		other.LastUpdated = ts.In(time.FixedZone("PST", -8*3600))
		assert.True(t, base.Equal(other), "same instant in another zone is equal")

		other.LastUpdated = ts.Add(time.Second)
		assert.False(t, base.Equal(other))
	})

	t.Run("different figures differ", func(t *testing.T) {
		other := base
		other.Revenue = dec("383285000000")
		assert.False(t, base.Equal(other))
	})
}

func TestJSON_MissingFieldsOmitted(t *testing.T) {
	m := FinancialMetric{
		Ticker:      "AAPL",
		Year:        2024,
		Revenue:     dec("391035000000"),
		LastUpdated: time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC),
	}

	data, err := json.Marshal(m)
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(data, &wire))

	// Reported fields appear; decimals travel as strings so no precision
	// is lost in transit.
	assert.Equal(t, "391035000000", wire["revenue"])
	assert.Equal(t, "AAPL", wire["ticker"])

	// Unreported fields are absent, not null and not zero.
	_, present := wire["net_income"]
	assert.False(t, present, "missing optional fields should not serialize")
}
