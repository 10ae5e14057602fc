package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoneyAddSub(t *testing.T) {
	a := NewMoney(1500, "USD")
	b := NewMoney(250, "USD")

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.Equal(t, int64(1750), sum.MinorUnits)

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.Equal(t, int64(1250), diff.MinorUnits)
}

func TestMoneyCurrencyMismatch(t *testing.T) {
	usd := NewMoney(100, "USD")
	eur := NewMoney(100, "EUR")

	_, err := usd.Add(eur)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = usd.Sub(eur)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)

	_, err = usd.Min(eur)
	assert.ErrorIs(t, err, ErrCurrencyMismatch)
}

func TestMoneyPercentOfRoundsHalfUp(t *testing.T) {
	// 33% of 101 = 33.33 -> 33; 50% of 101 = 50.5 -> 51
	m := NewMoney(101, "USD")
	assert.Equal(t, int64(33), m.PercentOf(33).MinorUnits)
	assert.Equal(t, int64(51), m.PercentOf(50).MinorUnits)

	assert.Equal(t, int64(0), m.PercentOf(0).MinorUnits)
	assert.Equal(t, int64(101), m.PercentOf(100).MinorUnits)
	// out-of-range percentages clamp rather than overshoot
	assert.Equal(t, int64(101), m.PercentOf(150).MinorUnits)
	assert.Equal(t, int64(0), m.PercentOf(-5).MinorUnits)
}

func TestMoneyMulRat(t *testing.T) {
	m := NewMoney(1000, "USD")
	assert.Equal(t, int64(333), m.MulRat(1, 3).MinorUnits)
	assert.Equal(t, int64(500), m.MulRat(1, 2).MinorUnits)
	assert.Equal(t, int64(2000), m.MulRat(2, 1).MinorUnits)

	// half-up is symmetric for negative amounts
	n := NewMoney(-5, "USD")
	assert.Equal(t, int64(-3), n.MulRat(1, 2).MinorUnits)
}

func TestMoneyClampZero(t *testing.T) {
	neg := NewMoney(-42, "USD")
	assert.True(t, neg.IsNegative())
	assert.Equal(t, int64(0), neg.ClampZero().MinorUnits)
	assert.True(t, neg.ClampZero().IsZero())
	assert.Equal(t, "USD", neg.ClampZero().Currency)
}
