package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDecimalToCents(t *testing.T) {
	cases := []struct {
		in  string
		out int64
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true}, // half-up rounding
		{" 2.50 ", 250, true},
		{".5", 50, true},
		{"-1", 0, false},
		{"+1", 0, false},
		{"0", 0, false},
		{"0.004", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok {
			require.NoError(t, err, tc.in)
			assert.Equal(t, tc.out, got, tc.in)
		} else {
			assert.ErrorIs(t, err, ErrInvalidAmount, tc.in)
		}
	}
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "12.30", Money{Cents: 1230}.String())
	assert.Equal(t, "0.05", Money{Cents: 5}.String())
	assert.Equal(t, "-1.50", Money{Cents: -150}.String())
}

func TestMoneyFloatAndAdd(t *testing.T) {
	m := Money{Cents: 1050}.Add(Money{Cents: 25})
	assert.Equal(t, int64(1075), m.Cents)
	assert.InDelta(t, 10.75, m.Float(), 1e-9)
}

func TestParseMoney(t *testing.T) {
	m, err := ParseMoney("42,10")
	require.NoError(t, err)
	assert.Equal(t, Money{Cents: 4210}, m)

	_, err = ParseMoney("nope")
	assert.Error(t, err)
}
