package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("creates money with valid inputs", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(99.99), USD)
		require.NoError(t, err)
		assert.Equal(t, USD, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromFloat(99.99)))
	})

	t.Run("rejects empty currency", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(1), "")
		assert.Error(t, err)
	})

	t.Run("allows negative amounts", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromFloat(-10.50), USD)
		require.NoError(t, err)
		assert.True(t, m.IsNegative())
	})
}

func TestNewMoneyFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid decimal", "123.45", false},
		{"integer", "100", false},
		{"negative", "-5.25", false},
		{"invalid", "abc", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMoneyFromString(tt.input, USD)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, m.Amount().String())
		})
	}
}

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoneyUSDFromFloat(100.00)
	b := NewMoneyUSDFromFloat(25.50)

	t.Run("add", func(t *testing.T) {
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.Equal(t, "125.50", sum.StringFixed(2))
	})

	t.Run("subtract", func(t *testing.T) {
		diff, err := a.Subtract(b)
		require.NoError(t, err)
		assert.Equal(t, "74.50", diff.StringFixed(2))
	})

	t.Run("multiply", func(t *testing.T) {
		product := b.Multiply(decimal.NewFromInt(3))
		assert.Equal(t, "76.50", product.StringFixed(2))
	})

	t.Run("divide", func(t *testing.T) {
		quotient, err := a.Divide(decimal.NewFromInt(4))
		require.NoError(t, err)
		assert.Equal(t, "25.00", quotient.StringFixed(2))
	})

	t.Run("divide by zero fails", func(t *testing.T) {
		_, err := a.Divide(decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("currency mismatch fails", func(t *testing.T) {
		eur, err := NewMoney(decimal.NewFromInt(10), EUR)
		require.NoError(t, err)

		_, err = a.Add(eur)
		assert.Error(t, err)

		_, err = a.Subtract(eur)
		assert.Error(t, err)
	})
}

func TestMoney_Comparison(t *testing.T) {
	a := NewMoneyUSDFromFloat(50)
	b := NewMoneyUSDFromFloat(75)

	less, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, less)

	greater, err := b.GreaterThan(a)
	require.NoError(t, err)
	assert.True(t, greater)

	gte, err := a.GreaterThanOrEqual(a)
	require.NoError(t, err)
	assert.True(t, gte)

	assert.True(t, a.Equals(NewMoneyUSDFromFloat(50)))
	assert.False(t, a.Equals(b))
}

func TestMoney_Predicates(t *testing.T) {
	assert.True(t, ZeroUSD().IsZero())
	assert.True(t, NewMoneyUSDFromFloat(1).IsPositive())
	assert.True(t, NewMoneyUSDFromFloat(-1).IsNegative())
	assert.True(t, NewMoneyUSDFromFloat(-1).Negate().IsPositive())
	assert.True(t, NewMoneyUSDFromFloat(-3.5).Abs().Equals(NewMoneyUSDFromFloat(3.5)))
}

func TestMoney_Allocate(t *testing.T) {
	t.Run("even split", func(t *testing.T) {
		m := NewMoneyUSDFromFloat(100)
		parts, err := m.Allocate(4)
		require.NoError(t, err)
		require.Len(t, parts, 4)
		for _, p := range parts {
			assert.Equal(t, "25.00", p.StringFixed(2))
		}
	})

	t.Run("uneven split distributes remainder cents", func(t *testing.T) {
		m := NewMoneyUSDFromFloat(100)
		parts, err := m.Allocate(3)
		require.NoError(t, err)
		require.Len(t, parts, 3)

		sum := ZeroUSD()
		for _, p := range parts {
			sum = sum.MustAdd(p)
		}
		assert.True(t, sum.Equals(m), "allocated parts must sum to the original amount")
	})

	t.Run("single part returns original", func(t *testing.T) {
		m := NewMoneyUSDFromFloat(42.42)
		parts, err := m.Allocate(1)
		require.NoError(t, err)
		require.Len(t, parts, 1)
		assert.True(t, parts[0].Equals(m))
	})

	t.Run("rejects non-positive parts", func(t *testing.T) {
		_, err := NewMoneyUSDFromFloat(10).Allocate(0)
		assert.Error(t, err)
	})
}

func TestMoney_CalculatePercentage(t *testing.T) {
	m := NewMoneyUSDFromFloat(200)
	commission := m.CalculatePercentage(decimal.NewFromFloat(7.5))
	assert.Equal(t, "15.00", commission.StringFixed(2))
}

func TestMoney_JSON(t *testing.T) {
	m := NewMoneyUSDFromFloat(19.99)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"19.99","currency":"USD"}`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoney_Scan(t *testing.T) {
	t.Run("scans string value", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan("123.45"))
		assert.Equal(t, "123.45", m.Amount().String())
		assert.Equal(t, DefaultCurrency, m.Currency())
	})

	t.Run("scans nil as zero", func(t *testing.T) {
		var m Money
		require.NoError(t, m.Scan(nil))
		assert.True(t, m.IsZero())
	})

	t.Run("rejects unsupported type", func(t *testing.T) {
		var m Money
		assert.Error(t, m.Scan(42))
	})
}
