/*
Package billing implements the credit-card billing-cycle engine.

PURPOSE:
  This package contains the pure calculation core: mapping purchases to
  monthly statements, computing due dates, generating installment plans,
  and advancing recurring-transaction dates. Everything here is
  stateless, synchronous, and safe for concurrent use — handlers call
  in with dates and amounts and get structured results back.

KEY CONCEPTS IN THIS FILE (date.go):
  - CalendarDate: A civil date with no time-of-day and no zone
  - ParseDate/String: YYYY-MM-DD conversion by integer splitting
  - DaysInMonth/IsLeapYear: Gregorian month-length arithmetic

WHY NOT time.Time:
  Parsing "2025-01-04" through a zoned time object silently shifts the
  day near UTC offset boundaries, and formatting has the same hazard in
  reverse. Billing arithmetic must be reproducible regardless of host
  timezone, so dates are kept as explicit (year, month, day) integer
  triples end to end. time.Time never appears in this package.

SEE ALSO:
  - cycle.go: Statement assignment and due dates
  - installment.go: Installment plan generation
  - recurrence.go: Recurring-transaction date stepping
*/
package billing

import (
	"fmt"
	"strconv"
	"strings"
)

// =============================================================================
// CALENDAR DATE - Zone-less civil date
// =============================================================================

// CalendarDate is a civil date. Month is 1-based (1=January) to match
// the YYYY-MM-DD wire form; statement cycles use 0-based months and
// convert explicitly.
type CalendarDate struct {
	Year  int
	Month int
	Day   int
}

// ParseDate parses a YYYY-MM-DD string by splitting on '-' and
// converting each field to an integer. It reports an error only when
// the shape is wrong or a field is not numeric; it does not validate
// day-of-month ranges (callers at the boundary own that contract).
func ParseDate(s string) (CalendarDate, error) {
	parts := strings.Split(s, "-")
	if len(parts) != 3 {
		return CalendarDate{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return CalendarDate{}, fmt.Errorf("invalid year in date %q", s)
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return CalendarDate{}, fmt.Errorf("invalid month in date %q", s)
	}
	day, err := strconv.Atoi(parts[2])
	if err != nil {
		return CalendarDate{}, fmt.Errorf("invalid day in date %q", s)
	}
	return CalendarDate{Year: year, Month: month, Day: day}, nil
}

// MustDate is ParseDate for literals and tests; returns the zero value
// on malformed input.
func MustDate(s string) CalendarDate {
	d, err := ParseDate(s)
	if err != nil {
		return CalendarDate{}
	}
	return d
}

// NewDate builds a date from explicit components.
func NewDate(year, month, day int) CalendarDate {
	return CalendarDate{Year: year, Month: month, Day: day}
}

// String serializes as zero-padded YYYY-MM-DD from the integer
// components.
func (d CalendarDate) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

func (d CalendarDate) IsZero() bool {
	return d.Year == 0 && d.Month == 0 && d.Day == 0
}

// =============================================================================
// MONTH-LENGTH ARITHMETIC
// =============================================================================

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

var monthDays = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

// DaysInMonth returns the number of days in the given 1-based month.
func DaysInMonth(year, month int) int {
	if month == 2 && IsLeapYear(year) {
		return 29
	}
	return monthDays[month]
}

// ClampDay reduces day to the last valid day of the given month.
func ClampDay(year, month, day int) int {
	if last := DaysInMonth(year, month); day > last {
		return last
	}
	return day
}

// =============================================================================
// ARITHMETIC & COMPARISON
// =============================================================================

// AddDays advances the date by n calendar days (n >= 0), rolling over
// months and years as needed.
func (d CalendarDate) AddDays(n int) CalendarDate {
	year, month, day := d.Year, d.Month, d.Day
	day += n
	for day > DaysInMonth(year, month) {
		day -= DaysInMonth(year, month)
		month++
		if month > 12 {
			month = 1
			year++
		}
	}
	return CalendarDate{Year: year, Month: month, Day: day}
}

// Compare orders dates by (year, month, day); -1, 0, or +1.
func (d CalendarDate) Compare(other CalendarDate) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(d.Month - other.Month)
	default:
		return sign(d.Day - other.Day)
	}
}

func (d CalendarDate) Before(other CalendarDate) bool { return d.Compare(other) < 0 }
func (d CalendarDate) After(other CalendarDate) bool  { return d.Compare(other) > 0 }
func (d CalendarDate) Equal(other CalendarDate) bool  { return d.Compare(other) == 0 }

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
