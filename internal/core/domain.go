package core

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxDescriptionLength is the longest description accepted, in characters.
const MaxDescriptionLength = 500

const dateLayout = "2006-01-02"

type (
	// Date is a calendar date. Only year, month and day are meaningful.
	Date struct {
		time.Time
	}

	// Expense is a single recorded spend. Records are replaced, never mutated in place.
	Expense struct {
		ID          string
		Description string
		Amount      Money
		Category    Category
		Date        Date
		CreatedAt   time.Time
		AISuggested bool // category was filled by the categorizer
		Tags        []string
	}

	// NewExpense is the user input for creating an expense. Category may be empty.
	NewExpense struct {
		Description string
		Amount      Money
		Category    Category
		Date        Date
		Tags        []string
	}

	// ExpensePatch carries the fields of a partial update. Nil fields are left unchanged.
	ExpensePatch struct {
		Description *string
		Amount      *Money
		Category    *Category
		Date        *Date
		AISuggested *bool
		Tags        *[]string
	}
)

var (
	ErrEmptyID            = errors.New("empty id")
	ErrInvalidDate        = errors.New("invalid date")
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 500 characters)")
	ErrEmptyCategory      = errors.New("empty category")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar date in t's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return d.Format(dateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func validateDescription(desc string) error {
	if len(strings.TrimSpace(desc)) == 0 {
		return ErrEmptyDescription
	}
	if utf8.RuneCountInString(desc) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return nil
}

func (e Expense) Validate() error {
	if strings.TrimSpace(e.ID) == "" {
		return ErrEmptyID
	}
	if err := validateDescription(e.Description); err != nil {
		return err
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(string(e.Category)) == "" {
		return ErrEmptyCategory
	}
	return e.Date.Validate()
}

// Validate checks the user supplied fields. Category is optional at creation.
func (n NewExpense) Validate() error {
	if err := validateDescription(n.Description); err != nil {
		return err
	}
	if err := n.Amount.Validate(); err != nil {
		return err
	}
	return n.Date.Validate()
}

// Apply merges the patch into e. ID and CreatedAt are never touched.
func (p ExpensePatch) Apply(e Expense) Expense {
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Amount != nil {
		e.Amount = *p.Amount
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Date != nil {
		e.Date = *p.Date
	}
	if p.AISuggested != nil {
		e.AISuggested = *p.AISuggested
	}
	if p.Tags != nil {
		e.Tags = NormalizeTags(*p.Tags)
	}
	return e
}

// IsEmpty reports whether the patch changes nothing.
func (p ExpensePatch) IsEmpty() bool {
	return p.Description == nil && p.Amount == nil && p.Category == nil &&
		p.Date == nil && p.AISuggested == nil && p.Tags == nil
}

// NormalizeTags trims, drops blanks and dedupes. Never returns nil.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
