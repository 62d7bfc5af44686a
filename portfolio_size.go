package tradelog

import (
	"github.com/etnz/tradelog/date"
)

// PortfolioSizes is the capital anchor: the externally tracked portfolio size used as a
// month's default starting capital.
type PortfolioSizes interface {
	// PortfolioSize returns the anchor in effect for month.
	PortfolioSize(month date.YearMonth) Money
	// SetPortfolioSize records value as the anchor of month.
	SetPortfolioSize(value Money, month date.YearMonth)
	// LatestPortfolioSize returns the most recent anchor.
	LatestPortfolioSize() Money
	// HasPortfolioSize reports whether month has its own anchor.
	HasPortfolioSize(month date.YearMonth) bool
	// ClearPortfolioSize removes the anchor of month, which then inherits the previous one.
	ClearPortfolioSize(month date.YearMonth)
}

// SizeHistory is a PortfolioSizes on a chronological history of anchors.
//
// The anchor of a month is the latest value set on or before that month, so that an
// anchor set in January still applies in June.
type SizeHistory struct {
	cur     string
	history *date.History[Money]
}

// NewSizeHistory returns an empty anchor history in currency cur.
func NewSizeHistory(cur string) *SizeHistory {
	return &SizeHistory{cur: cur, history: new(date.History[Money])}
}

func (h *SizeHistory) PortfolioSize(month date.YearMonth) Money {
	v, ok := h.history.ValueAsOf(month.First())
	if !ok {
		return M(0, h.cur)
	}
	return v
}

func (h *SizeHistory) SetPortfolioSize(value Money, month date.YearMonth) {
	h.history.Append(month.First(), value)
}

func (h *SizeHistory) HasPortfolioSize(month date.YearMonth) bool {
	_, ok := h.history.Get(month.First())
	return ok
}

func (h *SizeHistory) ClearPortfolioSize(month date.YearMonth) { h.history.Remove(month.First()) }

func (h *SizeHistory) LatestPortfolioSize() Money {
	if h.history.Len() == 0 {
		return M(0, h.cur)
	}
	_, v := h.history.Latest()
	return v
}

// Anchors returns the explicitly set anchors by month.
func (h *SizeHistory) Anchors() map[date.YearMonth]Money {
	anchors := make(map[date.YearMonth]Money, h.history.Len())
	for on, v := range h.history.Values() {
		anchors[date.MonthOf(on)] = v
	}
	return anchors
}

// Clone returns an independent copy of the anchors.
func (h *SizeHistory) Clone() *SizeHistory {
	return &SizeHistory{cur: h.cur, history: h.history.Clone()}
}
