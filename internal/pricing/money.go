package pricing

import "fmt"

// Money is an amount in integer minor units (cents) with an ISO 4217
// currency code. All arithmetic stays in minor units; fractional
// multipliers round half-up exactly once at the end of a computation
// chain so per-night and per-guest factors never accumulate drift.
type Money struct {
	MinorUnits int64  `json:"minor_units"`
	Currency   string `json:"currency"`
}

// NewMoney creates a Money value.
func NewMoney(minorUnits int64, currency string) Money {
	return Money{MinorUnits: minorUnits, Currency: currency}
}

// Zero returns a zero amount in the given currency.
func Zero(currency string) Money {
	return Money{Currency: currency}
}

func (m Money) sameCurrency(other Money) error {
	if m.Currency != other.Currency {
		return fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.Currency, other.Currency)
	}
	return nil
}

// Add returns m + other.
func (m Money) Add(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{MinorUnits: m.MinorUnits + other.MinorUnits, Currency: m.Currency}, nil
}

// Sub returns m - other. The result may be negative; callers clamp
// where their invariants require it.
func (m Money) Sub(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	return Money{MinorUnits: m.MinorUnits - other.MinorUnits, Currency: m.Currency}, nil
}

// MulInt returns m multiplied by an integer factor.
func (m Money) MulInt(factor int64) Money {
	return Money{MinorUnits: m.MinorUnits * factor, Currency: m.Currency}
}

// MulRat multiplies by the rational num/den and rounds half-up to the
// nearest minor unit. den must be positive.
func (m Money) MulRat(num, den int64) Money {
	if den <= 0 {
		return Money{Currency: m.Currency}
	}
	return Money{MinorUnits: divRoundHalfUp(m.MinorUnits*num, den), Currency: m.Currency}
}

// PercentOf returns pct% of m, rounded half-up. pct is expected in
// [0, 100]; values outside are clamped.
func (m Money) PercentOf(pct int) Money {
	if pct <= 0 {
		return Zero(m.Currency)
	}
	if pct > 100 {
		pct = 100
	}
	return m.MulRat(int64(pct), 100)
}

// Min returns the smaller of m and other.
func (m Money) Min(other Money) (Money, error) {
	if err := m.sameCurrency(other); err != nil {
		return Money{}, err
	}
	if other.MinorUnits < m.MinorUnits {
		return other, nil
	}
	return m, nil
}

// ClampZero floors a negative amount at zero.
func (m Money) ClampZero() Money {
	if m.MinorUnits < 0 {
		return Zero(m.Currency)
	}
	return m
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.MinorUnits == 0
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.MinorUnits < 0
}

// String formats the amount for logs, e.g. "12345 USD".
func (m Money) String() string {
	return fmt.Sprintf("%d %s", m.MinorUnits, m.Currency)
}

// divRoundHalfUp divides n by positive den rounding half away from
// zero, so 5/2 -> 3 and -5/2 -> -3.
func divRoundHalfUp(n, den int64) int64 {
	if n >= 0 {
		return (n + den/2) / den
	}
	return -((-n + den/2) / den)
}
