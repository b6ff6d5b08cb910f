// Package money holds KWD amounts as integer dinar-mils (1/1000 KWD).
package money

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

const Scale = 3

// Max is the largest amount a decimal(12,3) column holds.
const Max Mils = 999_999_999_999

var ErrOutOfRange = errors.New("amount out of range")

// Mils is an exact amount in thousandths of a dinar.
type Mils int64

// FromDecimal rounds d half away from zero to three places.
func FromDecimal(d decimal.Decimal) Mils {
	return Mils(d.Round(Scale).Shift(Scale).IntPart())
}

func Parse(s string) (Mils, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("parse amount %q: %w", s, err)
	}
	if d.Round(Scale).Abs().GreaterThan(Max.Decimal()) {
		return 0, fmt.Errorf("parse amount %q: %w", s, ErrOutOfRange)
	}
	return FromDecimal(d), nil
}

func MustParse(s string) Mils {
	m, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

func (m Mils) Decimal() decimal.Decimal {
	return decimal.New(int64(m), -Scale)
}

// InRange reports whether m fits a persisted amount column.
func (m Mils) InRange() bool {
	return m >= -Max && m <= Max
}

func (m Mils) Mul(qty int) Mils {
	return m * Mils(qty)
}

func (m Mils) String() string {
	return m.Decimal().StringFixed(Scale)
}

func (m Mils) MarshalJSON() ([]byte, error) {
	return []byte(m.String()), nil
}

// UnmarshalJSON accepts a JSON number or a numeric string.
func (m *Mils) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*m = 0
		return nil
	}
	b = bytes.Trim(b, `"`)
	v, err := Parse(string(b))
	if err != nil {
		return err
	}
	*m = v
	return nil
}
