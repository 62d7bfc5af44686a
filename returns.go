package tradelog

import (
	"encoding/json"
	"fmt"

	"github.com/etnz/tradelog/date"
	"github.com/rs/zerolog"
)

// Window is the period of an annualized return.
type Window int

const (
	YTD Window = iota
	OneMonth
	ThreeMonths
	SixMonths
	TwelveMonths
)

// Windows lists every window in the order of the results of For.
var Windows = []Window{YTD, OneMonth, ThreeMonths, SixMonths, TwelveMonths}

// Months returns the length of a rolling window, 0 for YTD.
func (w Window) Months() int {
	switch w {
	case OneMonth:
		return 1
	case ThreeMonths:
		return 3
	case SixMonths:
		return 6
	case TwelveMonths:
		return 12
	default:
		return 0
	}
}

func (w Window) String() string {
	if w == YTD {
		return "YTD"
	}
	return fmt.Sprintf("%dM", w.Months())
}

// ParseWindow parses "YTD", "1M", "3M", "6M" or "12M".
func ParseWindow(s string) (Window, error) {
	for _, w := range Windows {
		if w.String() == s {
			return w, nil
		}
	}
	return YTD, fmt.Errorf("unknown return window %q", s)
}

func (w Window) MarshalJSON() ([]byte, error) { return json.Marshal(w.String()) }

// Status tells how a return was resolved.
type Status int

const (
	// Computed is a solved rate.
	Computed Status = iota
	// InsufficientHistory is a rolling window reaching before January of the same year.
	InsufficientHistory
	// NoSolution is a degenerate or non convergent cash-flow series.
	NoSolution
)

func (s Status) String() string {
	switch s {
	case Computed:
		return "computed"
	case InsufficientHistory:
		return "insufficient history"
	case NoSolution:
		return "no solution"
	default:
		return "unknown"
	}
}

func (s Status) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

// RollingReturn is the annualized return of a month over a window.
//
// Return is 0 unless Status is Computed.
type RollingReturn struct {
	Month  date.YearMonth `json:"month"`
	Window Window         `json:"window"`
	Return Percent        `json:"return"`
	Status Status         `json:"status"`
}

// Returns computes YTD and rolling annualized returns over a ledger.
type Returns struct {
	ledger *Ledger
	solver Solver
	log    zerolog.Logger
}

// NewReturns creates the return aggregator of ledger.
func NewReturns(ledger *Ledger) *Returns {
	return &Returns{
		ledger: ledger,
		log:    ledger.log.With().Str("component", "returns").Logger(),
	}
}

// Year returns, for each month of year, the returns of every window.
func (r *Returns) Year(year int) [12][]RollingReturn {
	records := r.ledger.Year(year)
	var all [12][]RollingReturn
	for m := range records {
		all[m] = r.For(records, year, m)
	}
	return all
}

// For returns the returns of the month at index m (January is 0) of records, one per
// window in the order of Windows.
func (r *Returns) For(records [12]MonthlyCapitalRecord, year, m int) []RollingReturn {
	results := make([]RollingReturn, 0, len(Windows))
	for _, w := range Windows {
		results = append(results, r.window(records, year, m, w))
	}
	return results
}

func (r *Returns) window(records [12]MonthlyCapitalRecord, year, m int, w Window) RollingReturn {
	res := RollingReturn{Month: records[m].Month, Window: w}
	end := records[m].Month.First()
	endValue := records[m].FinalCapital

	var start date.Date
	var startValue Money
	var changes []CapitalChange
	if w == YTD {
		start = date.New(year, 1, 1)
		startValue = records[0].StartingCapital
		changes = r.ledger.store.ChangesUpToAndIncluding(end)
	} else {
		k := w.Months()
		if m-k < 0 {
			res.Status = InsufficientHistory
			return res
		}
		start = records[m-k].Month.First()
		startValue = records[m-k].FinalCapital
		changes = r.ledger.store.ChangesFrom(start)
	}

	// earlier history is part of the starting value
	span := date.Range{From: start, To: end}
	interim := make([]CashFlowEvent, 0, len(changes))
	for _, c := range changes {
		if span.Contains(c.Date) {
			interim = append(interim, CashFlowEvent{Date: c.Date, Amount: c.Signed().Float64()})
		}
	}
	if excluded := len(changes) - len(interim); excluded > 0 {
		r.log.Debug().Stringer("month", res.Month).Stringer("window", w).Int("excluded", excluded).Msg("capital changes outside the window")
	}

	series, err := NewCashFlowSeries(start, startValue.Float64(), end, endValue.Float64(), interim...)
	if err == nil {
		var rate float64
		rate, err = r.solver.Solve(series)
		if err == nil {
			res.Return, res.Status = FromRate(rate), Computed
			return res
		}
	}
	r.log.Debug().Err(err).Stringer("month", res.Month).Stringer("window", w).Msg("no annualized return")
	res.Status = NoSolution
	return res
}
