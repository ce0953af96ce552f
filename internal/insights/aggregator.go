// Package insights aggregates an expense collection into summary figures.
package insights

import (
	"sort"
	"time"

	"spendlens/internal/core"
)

const (
	// TopCategoryLimit bounds Insights.TopCategories.
	TopCategoryLimit = 5
	// TrendMonths is the length of Insights.MonthlyTrend.
	TrendMonths = 6
)

// Generate summarizes expenses relative to now. It never fails: an empty
// collection yields zero totals, no categories and six zero months.
//
// Category totals span the whole collection. The trend covers the five months
// before now's month plus now's month. Expense dates are bucketed by their
// calendar year and month; now is interpreted in its own location.
func Generate(expenses []core.Expense, now time.Time) core.Insights {
	current := Of(now)
	total := monthTotal(expenses, current)

	return core.Insights{
		TopCategories:  topCategories(expenses, TopCategoryLimit),
		MonthlyTrend:   monthlyTrend(expenses, current),
		TotalThisMonth: total,
		AverageDaily:   averageDaily(total, now),
	}
}

func topCategories(expenses []core.Expense, limit int) []core.CategoryShare {
	var (
		order  []core.Category
		totals = make(map[core.Category]int64)
		grand  int64
	)
	for _, e := range expenses {
		if _, seen := totals[e.Category]; !seen {
			order = append(order, e.Category)
		}
		totals[e.Category] += e.Amount.Cents
		grand += e.Amount.Cents
	}

	shares := make([]core.CategoryShare, 0, len(order))
	for _, c := range order {
		pct := 0.0
		if grand > 0 {
			pct = float64(totals[c]) / float64(grand) * 100
		}
		shares = append(shares, core.CategoryShare{
			Category:   c,
			Amount:     core.Money{Cents: totals[c]},
			Percentage: pct,
		})
	}

	sort.SliceStable(shares, func(i, j int) bool {
		return shares[i].Amount.Cents > shares[j].Amount.Cents
	})

	if len(shares) > limit {
		shares = shares[:limit]
	}
	return shares
}

func monthlyTrend(expenses []core.Expense, current YearMonth) []core.MonthAmount {
	first := current.AddMonths(-(TrendMonths - 1))

	buckets := make(map[YearMonth]int64, TrendMonths)
	for _, e := range expenses {
		ym := Of(e.Date.Time)
		if ym.Before(first) || current.Before(ym) {
			continue
		}
		buckets[ym] += e.Amount.Cents
	}

	trend := make([]core.MonthAmount, 0, TrendMonths)
	for i := 0; i < TrendMonths; i++ {
		ym := first.AddMonths(i)
		trend = append(trend, core.MonthAmount{
			Year:   ym.Year,
			Month:  int(ym.Month),
			Label:  ym.Label(),
			Amount: core.Money{Cents: buckets[ym]},
		})
	}
	return trend
}

func monthTotal(expenses []core.Expense, ym YearMonth) core.Money {
	var total int64
	for _, e := range expenses {
		if ym.Contains(e.Date.Time) {
			total += e.Amount.Cents
		}
	}
	return core.Money{Cents: total}
}

// averageDaily divides by the day of month, not by the days in the month.
func averageDaily(total core.Money, now time.Time) float64 {
	day := now.Day()
	if day < 1 || total.Cents == 0 {
		return 0
	}
	return total.Float() / float64(day)
}
