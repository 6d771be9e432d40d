package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	t.Run("valid amount", func(t *testing.T) {
		m, err := NewMoney(decimal.NewFromInt(50), USD)
		require.NoError(t, err)
		assert.Equal(t, USD, m.Currency())
		assert.True(t, m.Amount().Equal(decimal.NewFromInt(50)))
	})

	t.Run("empty currency rejected", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(1), "")
		assert.Error(t, err)
	})

	t.Run("negative amount rejected", func(t *testing.T) {
		_, err := NewMoney(decimal.NewFromInt(-1), USD)
		assert.Error(t, err)
	})
}

func TestNewMoneyFromCents(t *testing.T) {
	m, err := NewMoneyFromCents(12550, USD)
	require.NoError(t, err)
	assert.Equal(t, "125.50 USD", m.String())
	assert.Equal(t, int64(12550), m.Cents())
}

func TestMoneyAdd(t *testing.T) {
	t.Run("same currency", func(t *testing.T) {
		a := MustNewMoney("10.50", USD)
		b := MustNewMoney("4.50", USD)
		sum, err := a.Add(b)
		require.NoError(t, err)
		assert.True(t, sum.Equals(MustNewMoney("15.00", USD)))
	})

	t.Run("currency mismatch", func(t *testing.T) {
		a := MustNewMoney("10.50", USD)
		b := MustNewMoney("4.50", EUR)
		_, err := a.Add(b)
		assert.Error(t, err)
	})
}

func TestMoneyMultiplyByInt(t *testing.T) {
	unit := MustNewMoney("25.00", USD)
	total := unit.MultiplyByInt(4)
	assert.True(t, total.Equals(MustNewMoney("100.00", USD)))
}

func TestMoneyJSON(t *testing.T) {
	m := MustNewMoney("99.99", USD)
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"99.99","currency":"USD"}`, string(data))

	var decoded Money
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, m.Equals(decoded))
}

func TestMoneyScan(t *testing.T) {
	var m Money
	require.NoError(t, m.Scan("42.00"))
	assert.Equal(t, DefaultCurrency, m.Currency())
	assert.Equal(t, int64(4200), m.Cents())
}
