package normalize

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseNumber(t *testing.T) {
	cases := []struct {
		raw  string
		want float64
	}{
		{"₹1,234.50", 1234.50},
		{"(−45.2)", -45.2},
		{"(45.2)", -45.2},
		{"(+10)", 10},
		{"+3.1%", 3.1},
		{"-2.75 %", -2.75},
		{"–1,520.33", -1520.33},
		{"Rs. 62,450", 62450},
		{"INR 7,000", 7000},
		{"$ 39,118.86", 39118.86},
		{" 12,345 ", 12345},
		{"₹-1,200", -1200},
		{"0", 0},
		{".5", 0.5},
	}
	for _, c := range cases {
		t.Run(c.raw, func(t *testing.T) {
			got, err := ParseNumber("value", c.raw)
			require.NoError(t, err)
			require.InDelta(t, c.want, got, 1e-9)
		})
	}
}

func TestParseNumberErrors(t *testing.T) {
	cases := []struct {
		raw  string
		want error
	}{
		{"", ErrEmpty},
		{"   ", ErrEmpty},
		{"₹", ErrNoDigits},
		{"Rs.", ErrNoDigits},
		{"N/A", ErrNoDigits},
		{"12.3.4", ErrMalformed},
		{"1e10", ErrMalformed},
		{"12abc", ErrMalformed},
	}
	for _, c := range cases {
		t.Run(c.raw, func(t *testing.T) {
			_, err := ParseNumber("net", c.raw)
			require.Error(t, err)
			require.True(t, errors.Is(err, c.want), "got %v", err)

			var pe *ParseError
			require.True(t, errors.As(err, &pe))
			require.Equal(t, "net", pe.Field)
			require.Equal(t, c.raw, pe.Raw)
		})
	}
}

func TestParseNumberPolicy(t *testing.T) {
	v, ok, err := ParseNumberPolicy("buy", "", EmptyZero)
	require.NoError(t, err)
	require.True(t, ok)
	require.Zero(t, v)

	_, ok, err = ParseNumberPolicy("buy", "-", EmptySkip)
	require.NoError(t, err)
	require.False(t, ok)

	// a lone currency symbol is not an empty cell
	_, _, err = ParseNumberPolicy("buy", "₹", EmptyZero)
	require.ErrorIs(t, err, ErrNoDigits)

	_, _, err = ParseNumberPolicy("buy", "abc1", EmptySkip)
	require.ErrorIs(t, err, ErrMalformed)
}

func TestParseDecimalExact(t *testing.T) {
	d, ok, err := ParseDecimal("sum", "10.1", EmptyFail)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, "10.1", d.String())
}
