package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAddMonths(t *testing.T) {
	tests := []struct {
		from YearMonth
		n    int
		want YearMonth
	}{
		{YearMonth{2024, time.March}, -5, YearMonth{2023, time.October}},
		{YearMonth{2024, time.January}, -1, YearMonth{2023, time.December}},
		{YearMonth{2024, time.December}, 1, YearMonth{2025, time.January}},
		{YearMonth{2024, time.June}, 0, YearMonth{2024, time.June}},
		{YearMonth{2024, time.February}, -26, YearMonth{2021, time.December}},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.AddMonths(tt.n), "%v%+d", tt.from, tt.n)
	}
}

func TestLabelAndBefore(t *testing.T) {
	assert.Equal(t, "Jan 2024", YearMonth{2024, time.January}.Label())
	assert.Equal(t, "Sep 2025", YearMonth{2025, time.September}.String())

	assert.True(t, YearMonth{2023, time.December}.Before(YearMonth{2024, time.January}))
	assert.False(t, YearMonth{2024, time.January}.Before(YearMonth{2024, time.January}))
	assert.False(t, YearMonth{2024, time.February}.Before(YearMonth{2024, time.January}))
}

func TestOfUsesLocation(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	ts := time.Date(2024, time.February, 1, 3, 0, 0, 0, time.UTC).In(loc) // Jan 31 locally
	assert.Equal(t, YearMonth{2024, time.January}, Of(ts))
}

func TestContains(t *testing.T) {
	ym := YearMonth{2024, time.March}
	assert.True(t, ym.Contains(time.Date(2024, time.March, 31, 23, 0, 0, 0, time.UTC)))
	assert.False(t, ym.Contains(time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)))
	assert.False(t, ym.Contains(time.Date(2023, time.March, 10, 0, 0, 0, 0, time.UTC)))
}
