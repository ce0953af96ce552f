package insights

import (
	"fmt"
	"time"
)

// YearMonth identifies a calendar month. It is the bucketing key; labels are
// only derived from it for display.
type YearMonth struct {
	Year  int
	Month time.Month
}

// Of returns the calendar month containing t, in t's location.
func Of(t time.Time) YearMonth {
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// AddMonths returns the month n months away (n may be negative).
func (ym YearMonth) AddMonths(n int) YearMonth {
	idx := ym.Year*12 + int(ym.Month-1) + n
	y := idx / 12
	m := idx % 12
	if m < 0 {
		m += 12
		y--
	}
	return YearMonth{Year: y, Month: time.Month(m + 1)}
}

// Before reports whether ym is earlier than other.
func (ym YearMonth) Before(other YearMonth) bool {
	if ym.Year != other.Year {
		return ym.Year < other.Year
	}
	return ym.Month < other.Month
}

// Label formats the month as "Jan 2024".
func (ym YearMonth) Label() string {
	return fmt.Sprintf("%s %d", ym.Month.String()[:3], ym.Year)
}

func (ym YearMonth) String() string {
	return ym.Label()
}

// Contains reports whether t falls in ym, using t's location.
func (ym YearMonth) Contains(t time.Time) bool {
	return Of(t) == ym
}
