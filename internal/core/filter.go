package core

import (
	"sort"
	"strings"
)

// Filter selects expenses for listing. Zero fields match everything.
type Filter struct {
	Search   string   // case-insensitive substring of the description
	Category Category // exact match
	From     Date     // inclusive
	To       Date     // inclusive
}

// Match reports whether e passes the filter.
func (f Filter) Match(e Expense) bool {
	if f.Search != "" && !strings.Contains(strings.ToLower(e.Description), strings.ToLower(f.Search)) {
		return false
	}
	if f.Category != "" && e.Category != f.Category {
		return false
	}
	if !f.From.IsZero() && e.Date.Before(f.From.Time) {
		return false
	}
	if !f.To.IsZero() && e.Date.After(f.To.Time) {
		return false
	}
	return true
}

// FilterExpenses returns the matching expenses, most recent first.
// The input slice is not modified.
func FilterExpenses(in []Expense, f Filter) []Expense {
	out := make([]Expense, 0, len(in))
	for _, e := range in {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	SortMostRecentFirst(out)
	return out
}

// SortMostRecentFirst orders by date descending, then creation time descending.
func SortMostRecentFirst(es []Expense) {
	sort.SliceStable(es, func(i, j int) bool {
		if !es[i].Date.Equal(es[j].Date.Time) {
			return es[i].Date.After(es[j].Date.Time)
		}
		return es[i].CreatedAt.After(es[j].CreatedAt)
	})
}
