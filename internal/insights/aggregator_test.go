package insights

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"spendlens/internal/core"
)

var refNow = time.Date(2024, time.March, 15, 18, 30, 0, 0, time.UTC)

func exp(cat core.Category, cents int64, y, m, d int) core.Expense {
	return core.Expense{
		ID:          fmt.Sprintf("%s-%d-%d-%d-%d", cat, cents, y, m, d),
		Description: "x",
		Amount:      core.Money{Cents: cents},
		Category:    cat,
		Date:        core.NewDate(y, m, d),
	}
}

func TestGenerateEmpty(t *testing.T) {
	for _, in := range [][]core.Expense{nil, {}} {
		got := Generate(in, refNow)

		assert.NotNil(t, got.TopCategories)
		assert.Empty(t, got.TopCategories)
		assert.Zero(t, got.TotalThisMonth.Cents)
		assert.Zero(t, got.AverageDaily)
		require.Len(t, got.MonthlyTrend, TrendMonths)
		for _, m := range got.MonthlyTrend {
			assert.Zero(t, m.Amount.Cents)
		}
	}
}

func TestGenerateTwoCategoriesThisMonth(t *testing.T) {
	in := []core.Expense{
		exp(core.CategoryFood, 5000, 2024, 3, 2),
		exp(core.CategoryShopping, 10000, 2024, 3, 10),
	}
	got := Generate(in, refNow)

	assert.Equal(t, int64(15000), got.TotalThisMonth.Cents)
	require.Len(t, got.TopCategories, 2)
	assert.Equal(t, core.CategoryShopping, got.TopCategories[0].Category)
	assert.Equal(t, int64(10000), got.TopCategories[0].Amount.Cents)
	assert.InDelta(t, 66.67, got.TopCategories[0].Percentage, 0.01)
	assert.Equal(t, core.CategoryFood, got.TopCategories[1].Category)
	assert.InDelta(t, 33.33, got.TopCategories[1].Percentage, 0.01)
	assert.InDelta(t, 150.0/15.0, got.AverageDaily, 1e-9)
}

func TestGenerateTrendWindow(t *testing.T) {
	in := []core.Expense{
		exp(core.CategoryFood, 100, 2023, 9, 30),  // before window
		exp(core.CategoryFood, 200, 2023, 10, 1),  // first month
		exp(core.CategoryFood, 300, 2023, 12, 31), // across the year boundary
		exp(core.CategoryFood, 400, 2024, 1, 1),
		exp(core.CategoryFood, 500, 2024, 3, 31), // later this month
		exp(core.CategoryFood, 600, 2024, 4, 1),  // after window
		exp(core.CategoryFood, 700, 2022, 12, 5), // same month, other year
	}
	got := Generate(in, refNow)

	labels := make([]string, 0, len(got.MonthlyTrend))
	amounts := make([]int64, 0, len(got.MonthlyTrend))
	for _, m := range got.MonthlyTrend {
		labels = append(labels, m.Label)
		amounts = append(amounts, m.Amount.Cents)
	}
	assert.Equal(t, []string{"Oct 2023", "Nov 2023", "Dec 2023", "Jan 2024", "Feb 2024", "Mar 2024"}, labels)
	assert.Equal(t, []int64{200, 0, 300, 400, 0, 500}, amounts)

	last := got.MonthlyTrend[TrendMonths-1]
	assert.Equal(t, 2024, last.Year)
	assert.Equal(t, 3, last.Month)

	// category totals are not windowed
	require.Len(t, got.TopCategories, 1)
	assert.Equal(t, int64(2800), got.TopCategories[0].Amount.Cents)
	assert.InDelta(t, 100.0, got.TopCategories[0].Percentage, 1e-9)
	assert.Equal(t, int64(500), got.TotalThisMonth.Cents)
}

func TestGenerateTrendStrictlyIncreasing(t *testing.T) {
	for _, now := range []time.Time{
		time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.May, 31, 23, 59, 0, 0, time.UTC),
		time.Date(2025, time.December, 10, 0, 0, 0, 0, time.UTC),
	} {
		trend := Generate(nil, now).MonthlyTrend
		require.Len(t, trend, TrendMonths)
		for i := 1; i < len(trend); i++ {
			prev := YearMonth{trend[i-1].Year, time.Month(trend[i-1].Month)}
			cur := YearMonth{trend[i].Year, time.Month(trend[i].Month)}
			assert.True(t, prev.Before(cur), "%v !< %v", prev, cur)
		}
		assert.Equal(t, Of(now).Label(), trend[TrendMonths-1].Label)
	}
}

func TestGenerateTopCategoriesLimitAndOrder(t *testing.T) {
	in := []core.Expense{
		exp(core.CategoryFood, 100, 2024, 1, 1),
		exp(core.CategoryTransport, 700, 2024, 1, 1),
		exp(core.CategoryShopping, 300, 2024, 1, 1),
		exp(core.CategoryEntertainment, 300, 2024, 1, 1),
		exp(core.CategoryBills, 900, 2024, 1, 1),
		exp(core.CategoryHealthcare, 50, 2024, 1, 1),
		exp(core.CategoryTravel, 800, 2024, 1, 1),
		exp(core.CategoryFood, 150, 2024, 2, 1),
	}
	got := Generate(in, refNow)

	require.Len(t, got.TopCategories, TopCategoryLimit)
	cats := make([]core.Category, 0, TopCategoryLimit)
	sum := 0.0
	for i, s := range got.TopCategories {
		cats = append(cats, s.Category)
		sum += s.Percentage
		assert.GreaterOrEqual(t, s.Percentage, 0.0)
		assert.LessOrEqual(t, s.Percentage, 100.0)
		if i > 0 {
			assert.GreaterOrEqual(t, got.TopCategories[i-1].Amount.Cents, s.Amount.Cents)
		}
	}
	// equal totals keep first-seen order
	assert.Equal(t, []core.Category{
		core.CategoryBills, core.CategoryTravel, core.CategoryTransport,
		core.CategoryShopping, core.CategoryEntertainment,
	}, cats)
	assert.Less(t, sum, 100.0)
}

func TestGeneratePercentagesSumToHundred(t *testing.T) {
	in := []core.Expense{
		exp(core.CategoryFood, 333, 2024, 3, 1),
		exp(core.CategoryTravel, 333, 2024, 3, 1),
		exp(core.CategoryBills, 334, 2024, 3, 1),
	}
	sum := 0.0
	for _, s := range Generate(in, refNow).TopCategories {
		sum += s.Percentage
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
}

func TestGenerateFreeTextCategory(t *testing.T) {
	in := []core.Expense{exp("Pets", 1200, 2024, 3, 3)}
	got := Generate(in, refNow)
	require.Len(t, got.TopCategories, 1)
	assert.Equal(t, core.Category("Pets"), got.TopCategories[0].Category)
}

func TestGenerateAverageDailyUsesDayOfMonth(t *testing.T) {
	in := []core.Expense{exp(core.CategoryFood, 3000, 2024, 3, 1)}

	first := time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC)
	assert.InDelta(t, 30.0, Generate(in, first).AverageDaily, 1e-9)

	tenth := time.Date(2024, time.March, 10, 8, 0, 0, 0, time.UTC)
	assert.InDelta(t, 3.0, Generate(in, tenth).AverageDaily, 1e-9)
}

func TestGenerateIdempotent(t *testing.T) {
	in := []core.Expense{
		exp(core.CategoryFood, 5000, 2024, 3, 2),
		exp(core.CategoryShopping, 10000, 2024, 2, 10),
	}
	assert.Equal(t, Generate(in, refNow), Generate(in, refNow))
}
