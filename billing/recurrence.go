/*
recurrence.go - Next-occurrence dates for recurring transactions

PURPOSE:
  Advances a date forward by one period (weekly, monthly, yearly) for
  recurring-transaction scheduling. Shares the month-end clamping
  discipline with the billing cycle resolver but is independent of it.

CLAMPING ORDER:
  Monthly and yearly branches resolve the target (year, month) FIRST
  and only then derive the day via clamping. Mutable date objects that
  set the month while the day still reads 31 silently overflow
  ("Jan 31 + 1 month" becoming Mar 3); the integer representation makes
  that overflow impossible, which is the point of doing it this way.

FALLBACK:
  An unrecognized pattern behaves as monthly. That is a documented
  fallback for forward compatibility, not an error.
*/
package billing

// =============================================================================
// RECURRENCE PATTERN
// =============================================================================

// RecurrencePattern selects the advance period.
type RecurrencePattern string

const (
	RecurWeekly  RecurrencePattern = "weekly"
	RecurMonthly RecurrencePattern = "monthly"
	RecurYearly  RecurrencePattern = "yearly"
)

// =============================================================================
// NEXT OCCURRENCE
// =============================================================================

// NextOccurrence returns the next date of a recurring transaction.
// recurrenceDay is the target day-of-month for monthly/yearly
// patterns; 0 means "keep the current date's day". The result day is
// always clamped to its month's actual length (Feb 29 recurs on
// Feb 28 in non-leap years, day 31 on the 28th/29th/30th as needed).
func NextOccurrence(current CalendarDate, pattern RecurrencePattern, recurrenceDay int) CalendarDate {
	day := recurrenceDay
	if day == 0 {
		day = current.Day
	}

	switch pattern {
	case RecurWeekly:
		return current.AddDays(7)

	case RecurYearly:
		year := current.Year + 1
		return CalendarDate{
			Year:  year,
			Month: current.Month,
			Day:   ClampDay(year, current.Month, day),
		}

	default: // monthly, and the fallback for unrecognized patterns
		month := current.Month + 1
		year := current.Year
		if month > 12 {
			month = 1
			year++
		}
		return CalendarDate{
			Year:  year,
			Month: month,
			Day:   ClampDay(year, month, day),
		}
	}
}
