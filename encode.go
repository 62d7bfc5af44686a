package tradelog

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// The persistence format is JSONL: one object per line, human-readable and git-friendly.
// Blank lines are ignored. Decoding reports every faulty line, not only the first one.

// decodeJSONL decodes every line of r into a T. name is for error messages only.
func decodeJSONL[T any](name string, r io.Reader) ([]T, error) {
	var list []T
	var errs []error
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	i := 0
	for scanner.Scan() {
		i++
		line := scanner.Bytes()
		if len(strings.TrimSpace(string(line))) == 0 {
			continue
		}
		var v T
		if err := json.Unmarshal(line, &v); err != nil {
			errs = append(errs, fmt.Errorf("parse error %s:%d: %w", name, i, err))
			continue
		}
		list = append(list, v)
	}
	if err := scanner.Err(); err != nil {
		errs = append(errs, fmt.Errorf("error reading %s: %w", name, err))
	}
	return list, errors.Join(errs...)
}

// encodeJSONL writes each item as a JSON line.
func encodeJSONL[T any](w io.Writer, items []T) error {
	for _, item := range items {
		data, err := json.Marshal(item)
		if err != nil {
			return fmt.Errorf("failed to marshal %v: %w", item, err)
		}
		if _, err := w.Write(append(data, '\n')); err != nil {
			return fmt.Errorf("failed to write: %w", err)
		}
	}
	return nil
}

// DecodeTrades reads trades in JSONL format.
func DecodeTrades(r io.Reader) ([]Trade, error) { return decodeJSONL[Trade]("trades", r) }

// EncodeTrades writes trades in JSONL format.
func EncodeTrades(w io.Writer, trades []Trade) error { return encodeJSONL(w, trades) }

// DecodeCapitalChanges reads capital changes in JSONL format, and validates them.
func DecodeCapitalChanges(r io.Reader) ([]CapitalChange, error) {
	changes, err := decodeJSONL[CapitalChange]("capital changes", r)
	if err != nil {
		return nil, err
	}
	var errs []error
	ids := make(map[string]bool, len(changes))
	for _, c := range changes {
		if err := c.Validate(); err != nil {
			errs = append(errs, err)
		}
		if ids[c.ID] {
			errs = append(errs, fmt.Errorf("capital change %s is defined twice", c.ID))
		}
		ids[c.ID] = true
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return changes, nil
}

// EncodeCapitalChanges writes changes in JSONL format.
func EncodeCapitalChanges(w io.Writer, changes []CapitalChange) error {
	return encodeJSONL(w, changes)
}

// DecodeMonthSettings reads month settings in JSONL format.
func DecodeMonthSettings(r io.Reader) ([]MonthSettings, error) {
	settings, err := decodeJSONL[MonthSettings]("month settings", r)
	if err != nil {
		return nil, err
	}
	var errs []error
	for _, s := range settings {
		if s.Month.IsZero() {
			errs = append(errs, errors.New("month setting without a month"))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return settings, nil
}

// EncodeMonthSettings writes settings in JSONL format.
func EncodeMonthSettings(w io.Writer, settings []MonthSettings) error {
	return encodeJSONL(w, settings)
}
