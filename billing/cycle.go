/*
cycle.go - Statement assignment and due-date computation

PURPOSE:
  Maps a purchase date plus a card's (closing day, due day) policy to
  the monthly statement the purchase belongs to, and computes that
  statement's due date with month-length clamping and year rollover.

STATEMENT ASSIGNMENT:
  A purchase on or after the closing day belongs to the NEXT month's
  statement; the closing day itself rolls forward. Only the day-of-month
  is compared — the policy days are calendar days independent of any
  particular month's length.

DUE-DATE MONTH:
  The due date is not necessarily in the statement month. When the due
  day precedes the closing day, a statement that closes late in one
  month is paid early in the FOLLOWING month, so the due month shifts
  forward by one. The due day is then clamped to the actual length of
  the due month (Feb 28/29, Apr 30, ...).

SEE ALSO:
  - date.go: CalendarDate and month-length arithmetic
  - installment.go: Advances cycles once per installment
*/
package billing

// =============================================================================
// CYCLE POLICY - Per-card closing/due configuration
// =============================================================================

// CyclePolicy is a card's statement configuration. Both days are
// calendar days in 1..31; callers validate ranges at the boundary.
type CyclePolicy struct {
	ClosingDay int
	DueDay     int
}

// =============================================================================
// STATEMENT CYCLE - One monthly billing statement
// =============================================================================

// StatementCycle identifies one monthly statement. Month is 0-based
// (0=January .. 11=December); cycles order lexicographically by
// (Year, Month).
type StatementCycle struct {
	Month int
	Year  int
}

// Next returns the cycle one month later, rolling the year forward on
// the December to January transition.
func (c StatementCycle) Next() StatementCycle {
	month := c.Month + 1
	year := c.Year
	if month > 11 {
		month = 0
		year++
	}
	return StatementCycle{Month: month, Year: year}
}

// Before orders cycles by (Year, Month).
func (c StatementCycle) Before(other StatementCycle) bool {
	if c.Year != other.Year {
		return c.Year < other.Year
	}
	return c.Month < other.Month
}

// =============================================================================
// RESOLUTION
// =============================================================================

// Statement is the resolved billing cycle for a purchase. Month is
// 0-based, matching StatementCycle.
type Statement struct {
	Month   int
	Year    int
	DueDate CalendarDate
}

// CycleFor returns the statement cycle a purchase date falls into.
// Purchases on the closing day itself belong to the next cycle.
func (p CyclePolicy) CycleFor(purchase CalendarDate) StatementCycle {
	cycle := StatementCycle{Month: purchase.Month - 1, Year: purchase.Year}
	if purchase.Day >= p.ClosingDay {
		cycle = cycle.Next()
	}
	return cycle
}

// DueDateFor computes the due date for a statement cycle. The due
// month shifts one month past the statement month when the due day
// precedes the closing day; the day is clamped to the due month's
// actual length.
func (p CyclePolicy) DueDateFor(cycle StatementCycle) CalendarDate {
	due := cycle
	if p.DueDay < p.ClosingDay {
		due = due.Next()
	}
	month := due.Month + 1 // back to 1-based for the calendar date
	day := ClampDay(due.Year, month, p.DueDay)
	return CalendarDate{Year: due.Year, Month: month, Day: day}
}

// Resolve maps a purchase date to its statement cycle and due date.
// Total and deterministic over any valid calendar date.
func (p CyclePolicy) Resolve(purchase CalendarDate) Statement {
	cycle := p.CycleFor(purchase)
	return Statement{
		Month:   cycle.Month,
		Year:    cycle.Year,
		DueDate: p.DueDateFor(cycle),
	}
}
