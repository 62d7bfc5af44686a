package tradelog

import (
	"encoding/json"
	"math"
	"strconv"

	"gonum.org/v1/gonum/stat"
)

// Stat is a trade-dependent statistic that may be not applicable, typically on a month
// without trades where 0 would read as a 0% win rate.
type Stat struct {
	value float64
	ok    bool
}

// NotApplicable is the Stat of an empty population.
var NotApplicable = Stat{}

// Value returns a defined Stat.
func Value(v float64) Stat { return Stat{value: v, ok: true} }

// Get returns the value and whether it is applicable.
func (s Stat) Get() (float64, bool) { return s.value, s.ok }

// Applicable reports whether the stat has a value.
func (s Stat) Applicable() bool { return s.ok }

func (s Stat) String() string {
	if !s.ok {
		return "n/a"
	}
	if s.value == math.Trunc(s.value) {
		return strconv.FormatFloat(s.value, 'f', 0, 64)
	}
	return strconv.FormatFloat(s.value, 'f', 2, 64)
}

// MarshalJSON writes null for not applicable.
func (s Stat) MarshalJSON() ([]byte, error) {
	if !s.ok {
		return []byte("null"), nil
	}
	return json.Marshal(s.value)
}

func (s *Stat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = NotApplicable
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*s = Value(v)
	return nil
}

// TradeStats summarizes the trades of a month.
type TradeStats struct {
	Trades         Stat `json:"trades"`         // every trade dated in the month
	WinPercentage  Stat `json:"winPercentage"`  // winners among realized trades
	AvgGain        Stat `json:"avgGain"`        // mean stock move of winners
	AvgLoss        Stat `json:"avgLoss"`        // mean stock move of losers
	AvgRewardRisk  Stat `json:"avgRewardRisk"`  // over realized trades
	AvgHoldingDays Stat `json:"avgHoldingDays"` // over realized trades
}

// NewTradeStats computes the statistics of trades, all n/a when there are none.
func NewTradeStats(trades []Trade) TradeStats {
	var ts TradeStats
	if len(trades) == 0 {
		return ts
	}
	ts.Trades = Value(float64(len(trades)))

	var gains, losses, rr, holding []float64
	var realized int
	for _, t := range trades {
		if !t.Realized() {
			continue
		}
		realized++
		switch {
		case t.PL.IsPositive():
			gains = append(gains, float64(t.StockMove))
		case t.PL.IsNegative():
			losses = append(losses, float64(t.StockMove))
		}
		rr = append(rr, t.RewardRisk)
		holding = append(holding, float64(t.HoldingDays))
	}
	if realized == 0 {
		return ts
	}
	ts.WinPercentage = Value(100 * float64(len(gains)) / float64(realized))
	ts.AvgGain = mean(gains)
	ts.AvgLoss = mean(losses)
	ts.AvgRewardRisk = mean(rr)
	ts.AvgHoldingDays = mean(holding)
	return ts
}

func mean(x []float64) Stat {
	if len(x) == 0 {
		return NotApplicable
	}
	return Value(stat.Mean(x, nil))
}
