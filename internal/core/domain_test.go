package core

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validExpense() Expense {
	return Expense{
		ID:          "e-1",
		Description: "Lunch",
		Amount:      Money{Cents: 1250},
		Category:    CategoryFood,
		Date:        NewDate(2025, 3, 14),
		CreatedAt:   time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC),
		Tags:        []string{},
	}
}

func TestDateValidate(t *testing.T) {
	assert.NoError(t, NewDate(2025, 1, 1).Validate())
	assert.ErrorIs(t, Date{}.Validate(), ErrInvalidDate)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate(" 2024-02-29 ")
	require.NoError(t, err)
	assert.Equal(t, NewDate(2024, 2, 29), d)
	assert.Equal(t, "2024-02-29", d.String())

	_, err = ParseDate("29/02/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestDateOfKeepsLocalCalendarDay(t *testing.T) {
	loc := time.FixedZone("UTC+10", 10*3600)
	d := DateOf(time.Date(2025, 1, 1, 2, 0, 0, 0, loc))
	assert.Equal(t, NewDate(2025, 1, 1), d)
}

func TestExpenseValidate(t *testing.T) {
	require.NoError(t, validExpense().Validate())

	tests := []struct {
		name   string
		mutate func(*Expense)
		want   error
	}{
		{"empty id", func(e *Expense) { e.ID = " " }, ErrEmptyID},
		{"blank description", func(e *Expense) { e.Description = "  " }, ErrEmptyDescription},
		{"long description", func(e *Expense) { e.Description = strings.Repeat("x", 501) }, ErrDescriptionTooLong},
		{"zero amount", func(e *Expense) { e.Amount = Money{} }, ErrInvalidAmount},
		{"negative amount", func(e *Expense) { e.Amount = Money{Cents: -1} }, ErrInvalidAmount},
		{"empty category", func(e *Expense) { e.Category = "" }, ErrEmptyCategory},
		{"zero date", func(e *Expense) { e.Date = Date{} }, ErrInvalidDate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := validExpense()
			tt.mutate(&e)
			assert.ErrorIs(t, e.Validate(), tt.want)
		})
	}
}

func TestDescriptionLimitCountsCharacters(t *testing.T) {
	e := validExpense()
	e.Description = strings.Repeat("é", 500)
	assert.NoError(t, e.Validate())
}

func TestNewExpenseValidateAllowsEmptyCategory(t *testing.T) {
	n := NewExpense{Description: "coffee", Amount: Money{Cents: 300}, Date: NewDate(2025, 1, 2)}
	assert.NoError(t, n.Validate())
}

func TestExpensePatchApply(t *testing.T) {
	orig := validExpense()
	desc := "Dinner"
	amount := Money{Cents: 4000}
	tags := []string{" work ", "", "work", "team"}

	got := ExpensePatch{Description: &desc, Amount: &amount, Tags: &tags}.Apply(orig)

	assert.Equal(t, "Dinner", got.Description)
	assert.Equal(t, amount, got.Amount)
	assert.Equal(t, []string{"work", "team"}, got.Tags)
	assert.Equal(t, orig.ID, got.ID)
	assert.Equal(t, orig.CreatedAt, got.CreatedAt)
	assert.Equal(t, orig.Category, got.Category)
	assert.Equal(t, "Lunch", orig.Description, "original must not change")
}

func TestExpensePatchIsEmpty(t *testing.T) {
	assert.True(t, ExpensePatch{}.IsEmpty())
	b := true
	assert.False(t, ExpensePatch{AISuggested: &b}.IsEmpty())
}

func TestNormalizeTagsNeverNil(t *testing.T) {
	assert.NotNil(t, NormalizeTags(nil))
	assert.Empty(t, NormalizeTags([]string{" ", ""}))
}

func TestCategories(t *testing.T) {
	cats := Categories()
	require.Len(t, cats, 10)
	assert.Equal(t, CategoryFood, cats[0])
	assert.Equal(t, CategoryOther, cats[9])

	cats[0] = "mutated"
	assert.Equal(t, CategoryFood, Categories()[0])

	assert.True(t, CategoryTravel.IsKnown())
	assert.False(t, Category("Pets").IsKnown())
}

func TestFilterExpenses(t *testing.T) {
	mk := func(id, desc string, cat Category, d Date, created int) Expense {
		e := validExpense()
		e.ID, e.Description, e.Category, e.Date = id, desc, cat, d
		e.CreatedAt = time.Date(2025, 1, 1, created, 0, 0, 0, time.UTC)
		return e
	}
	in := []Expense{
		mk("a", "Coffee at Starbucks", CategoryFood, NewDate(2025, 1, 10), 1),
		mk("b", "Uber ride", CategoryTransport, NewDate(2025, 2, 1), 2),
		mk("c", "coffee beans", CategoryShopping, NewDate(2025, 1, 10), 3),
		mk("d", "Rent", CategoryBills, NewDate(2024, 12, 31), 4),
	}

	ids := func(es []Expense) []string {
		out := make([]string, len(es))
		for i, e := range es {
			out[i] = e.ID
		}
		return out
	}

	assert.Equal(t, []string{"b", "c", "a", "d"}, ids(FilterExpenses(in, Filter{})))
	assert.Equal(t, []string{"c", "a"}, ids(FilterExpenses(in, Filter{Search: "COFFEE"})))
	assert.Equal(t, []string{"a"}, ids(FilterExpenses(in, Filter{Search: "coffee", Category: CategoryFood})))
	assert.Equal(t, []string{"c", "a"}, ids(FilterExpenses(in, Filter{From: NewDate(2025, 1, 10), To: NewDate(2025, 1, 10)})))
	assert.Equal(t, "a", in[0].ID, "input order untouched")
}
