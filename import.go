package tradelog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/PaesslerAG/jsonpath"
	"github.com/etnz/tradelog/date"
	"github.com/shopspring/decimal"
)

// DefaultTradesPath selects the trades of a journal export.
const DefaultTradesPath = "$.trades[*]"

// ImportTrades reads trades from an arbitrary JSON document.
//
// path is a jsonpath expression selecting the trade objects. Each object has the fields
// date, positionStatus, plRs, stockMove, holdingDays and rewardRisk, and an optional id.
// Numbers may be JSON numbers or strings. P/L amounts are in currency cur.
func ImportTrades(r io.Reader, path, cur string) ([]Trade, error) {
	if path == "" {
		path = DefaultTradesPath
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	var jobj any
	if err := dec.Decode(&jobj); err != nil {
		return nil, fmt.Errorf("invalid json document: %w", err)
	}
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		return nil, fmt.Errorf("error selecting %q: %w", path, err)
	}
	// jsonpath returns a single object for a definite path
	jlist, ok := jval.([]any)
	if !ok {
		jlist = []any{jval}
	}

	trades := make([]Trade, 0, len(jlist))
	var errs []error
	for i, item := range jlist {
		t, err := importTrade(item, cur)
		if err != nil {
			errs = append(errs, fmt.Errorf("trade %d: %w", i, err))
			continue
		}
		trades = append(trades, t)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return trades, nil
}

func importTrade(item any, cur string) (Trade, error) {
	jobj, ok := item.(map[string]any)
	if !ok {
		return Trade{}, fmt.Errorf("not an object: %v", item)
	}
	var t Trade

	str, err := field[string](jobj, "date")
	if err != nil {
		return t, err
	}
	if t.Date, err = date.Parse(str); err != nil {
		return t, err
	}

	if str, err = field[string](jobj, "positionStatus"); err != nil {
		return t, err
	}
	if t.Status, err = ParsePositionStatus(str); err != nil {
		return t, err
	}

	pl, err := number(jobj, "plRs")
	if err != nil {
		return t, err
	}
	t.PL = M(pl, cur)

	move, err := number(jobj, "stockMove")
	if err != nil {
		return t, err
	}
	t.StockMove = Percent(move.InexactFloat64())

	days, err := number(jobj, "holdingDays")
	if err != nil {
		return t, err
	}
	t.HoldingDays = int(days.IntPart())

	rr, err := number(jobj, "rewardRisk")
	if err != nil {
		return t, err
	}
	t.RewardRisk = rr.InexactFloat64()

	switch id := jobj["id"].(type) {
	case string:
		t.ID = id
	case json.Number:
		t.ID = id.String()
	}
	return t, nil
}

func field[T any](jobj map[string]any, name string) (T, error) {
	var zero T
	jval, ok := jobj[name]
	if !ok {
		return zero, fmt.Errorf("missing property %q", name)
	}
	v, ok := jval.(T)
	if !ok {
		return zero, fmt.Errorf("property %q must be of type %T, got %v", name, zero, jval)
	}
	return v, nil
}

// number reads an optional number, 0 when absent or null.
func number(jobj map[string]any, name string) (decimal.Decimal, error) {
	switch v := jobj[name].(type) {
	case nil:
		return decimal.Zero, nil
	case json.Number:
		return decimal.NewFromString(v.String())
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		if v == "" {
			return decimal.Zero, nil
		}
		if _, err := strconv.ParseFloat(v, 64); err != nil {
			return decimal.Zero, fmt.Errorf("property %q must be a number, got %q", name, v)
		}
		return decimal.NewFromString(v)
	default:
		return decimal.Zero, fmt.Errorf("property %q must be a number, got %v", name, v)
	}
}
