package date

import (
	"encoding/json"
	"fmt"
	"time"
)

// monthFormat is the canonical representation of a YearMonth.
const monthFormat = "2006-01"

// YearMonth identifies a calendar month of a given year.
//
// The zero value is not a valid month.
type YearMonth struct {
	y int
	m time.Month
}

// NewYearMonth returns a normalized YearMonth, so that NewYearMonth(2024, 13) is January 2025.
func NewYearMonth(year int, month time.Month) YearMonth {
	first := New(year, month, 1)
	return YearMonth{first.y, first.m}
}

// MonthOf returns the month containing d.
func MonthOf(d Date) YearMonth { return YearMonth{d.y, d.m} }

// ParseYearMonth parses "2024-01" or the lenient "2024-1".
func ParseYearMonth(str string) (YearMonth, error) {
	on, err := time.Parse("2006-1", str)
	if err != nil {
		return YearMonth{}, fmt.Errorf("invalid month %q want format %q: %w", str, monthFormat, err)
	}
	return YearMonth{on.Year(), on.Month()}, nil
}

// MustParseYearMonth is like ParseYearMonth but panics on error.
func MustParseYearMonth(str string) YearMonth {
	m, err := ParseYearMonth(str)
	if err != nil {
		panic(err.Error())
	}
	return m
}

func (ym YearMonth) Year() int           { return ym.y }
func (ym YearMonth) Month() time.Month   { return ym.m }
func (ym YearMonth) IsZero() bool        { return ym.y == 0 && ym.m == 0 }
func (ym YearMonth) First() Date         { return New(ym.y, ym.m, 1) }
func (ym YearMonth) Last() Date          { return New(ym.y, ym.m+1, 0) }
func (ym YearMonth) Add(n int) YearMonth { return NewYearMonth(ym.y, ym.m+time.Month(n)) }
func (ym YearMonth) Next() YearMonth     { return ym.Add(1) }
func (ym YearMonth) Prev() YearMonth     { return ym.Add(-1) }

// Index returns the 0-based position of the month in its year (January is 0).
func (ym YearMonth) Index() int { return int(ym.m) - 1 }

// Before reports whether ym is strictly before x.
func (ym YearMonth) Before(x YearMonth) bool {
	return ym.y < x.y || (ym.y == x.y && ym.m < x.m)
}

func (ym YearMonth) Equal(x YearMonth) bool { return ym == x }

// Contains reports whether d falls in the month.
func (ym YearMonth) Contains(d Date) bool { return d.y == ym.y && d.m == ym.m }

// Range returns the range of days in the month.
func (ym YearMonth) Range() Range { return Range{From: ym.First(), To: ym.Last()} }

// String formats the month as "2006-01".
func (ym YearMonth) String() string { return ym.First().Format(monthFormat) }

// Months returns the 12 months of a year, in calendar order.
func Months(year int) [12]YearMonth {
	var months [12]YearMonth
	for i := range months {
		months[i] = YearMonth{year, time.Month(i + 1)}
	}
	return months
}

func (ym *YearMonth) UnmarshalJSON(bytes []byte) error {
	var str string
	if err := json.Unmarshal(bytes, &str); err != nil {
		return err
	}
	v, err := ParseYearMonth(str)
	if err != nil {
		return err
	}
	*ym = v
	return nil
}

func (ym YearMonth) MarshalJSON() ([]byte, error) {
	str := ym.String()
	return json.Marshal(&str)
}
