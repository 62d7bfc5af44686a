package date

import "fmt"

// Range represents a range of dates, boundaries included.
type Range struct{ From, To Date }

// NewRange returns the range between two dates, whatever their order.
func NewRange(a, b Date) Range {
	if b.Before(a) {
		a, b = b, a
	}
	return Range{From: a, To: b}
}

// Contains return true date is included in the range (boundaries included)
func (r Range) Contains(date Date) bool { return !date.Before(r.From) && !date.After(r.To) }

// Days returns the number of days between From and To.
func (r Range) Days() int { return r.To.DaysSince(r.From) }

// Identifier compute a unique identifier for the Range.
// Calendar months use their short name.
func (r Range) Identifier() string {
	if r.From.Day() == 1 && r.From.EndOfMonth() == r.To {
		return MonthOf(r.From).String()
	}
	if r.From == r.To {
		return r.From.String()
	}
	return fmt.Sprintf("%s_%s", r.From, r.To)
}
