package tradelog

import (
	"fmt"
	"slices"

	"github.com/etnz/tradelog/date"
)

// CashFlowEvent is a dated, signed amount.
//
// Positive amounts are inflows to the portfolio (deposits, terminal valuation),
// negative amounts are outflows (withdrawals, initial valuation).
type CashFlowEvent struct {
	Date   date.Date
	Amount float64
}

// CashFlowSeries is the input of one XIRR evaluation: the initial valuation, the
// interim events and the final valuation.
//
// Events are kept in insertion order, the valuation does not depend on it.
type CashFlowSeries struct {
	start, end           date.Date
	startValue, endValue float64
	events               []CashFlowEvent
}

// NewCashFlowSeries creates a series valued startValue on start and endValue on end.
//
// The start boundary is recorded as an outflow of -startValue and the end boundary as an
// inflow of endValue. Interim events must lie within [start, end], they are never clipped.
func NewCashFlowSeries(start date.Date, startValue float64, end date.Date, endValue float64, interim ...CashFlowEvent) (*CashFlowSeries, error) {
	if end.Before(start) {
		return nil, fmt.Errorf("series ends on %s before it starts on %s: %w", end, start, ErrOutOfRange)
	}
	r := date.Range{From: start, To: end}
	for _, e := range interim {
		if !r.Contains(e.Date) {
			return nil, fmt.Errorf("event on %s is outside [%s, %s]: %w", e.Date, start, end, ErrOutOfRange)
		}
	}
	events := make([]CashFlowEvent, 0, len(interim)+2)
	events = append(events, CashFlowEvent{Date: start, Amount: -startValue})
	events = append(events, interim...)
	events = append(events, CashFlowEvent{Date: end, Amount: endValue})
	return &CashFlowSeries{
		start:      start,
		end:        end,
		startValue: startValue,
		endValue:   endValue,
		events:     events,
	}, nil
}

func (s *CashFlowSeries) Start() date.Date    { return s.start }
func (s *CashFlowSeries) End() date.Date      { return s.end }
func (s *CashFlowSeries) StartValue() float64 { return s.startValue }
func (s *CashFlowSeries) EndValue() float64   { return s.endValue }
func (s *CashFlowSeries) Len() int            { return len(s.events) }

// Events returns a copy of all events, boundaries included.
func (s *CashFlowSeries) Events() []CashFlowEvent { return slices.Clone(s.events) }
