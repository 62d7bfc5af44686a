package tradelog

import (
	"fmt"
	"maps"
	"slices"

	"github.com/etnz/tradelog/date"
)

// MonthSettings is the persisted state of a month: every field is optional.
type MonthSettings struct {
	Month date.YearMonth `json:"month"`
	// PortfolioSize is the capital anchor set on this month.
	PortfolioSize *Money `json:"portfolioSize,omitempty"`
	// StartingCapital is the explicit override.
	StartingCapital *Money `json:"startingCapital,omitempty"`
	// Deposits and Withdrawals are legacy aggregates from before capital changes.
	Deposits    *Money `json:"deposits,omitempty"`
	Withdrawals *Money `json:"withdrawals,omitempty"`
}

// Snapshot is the in-memory form of all month settings: the anchors, the overrides and
// the legacy flows a Ledger is built from.
type Snapshot struct {
	Currency  string
	Sizes     *SizeHistory
	Overrides map[date.YearMonth]Money
	Legacy    map[date.YearMonth]Flows
}

// NewSnapshot groups settings by concern.
func NewSnapshot(cur string, settings []MonthSettings) *Snapshot {
	s := &Snapshot{
		Currency:  cur,
		Sizes:     NewSizeHistory(cur),
		Overrides: make(map[date.YearMonth]Money),
		Legacy:    make(map[date.YearMonth]Flows),
	}
	for _, ms := range settings {
		if ms.PortfolioSize != nil {
			s.Sizes.SetPortfolioSize(*ms.PortfolioSize, ms.Month)
		}
		if ms.StartingCapital != nil {
			s.Overrides[ms.Month] = *ms.StartingCapital
		}
		if ms.Deposits != nil || ms.Withdrawals != nil {
			f := Flows{Deposits: M(0, cur), Withdrawals: M(0, cur)}
			if ms.Deposits != nil {
				f.Deposits = *ms.Deposits
			}
			if ms.Withdrawals != nil {
				f.Withdrawals = *ms.Withdrawals
			}
			s.Legacy[ms.Month] = f
		}
	}
	return s
}

// CheckCurrencies returns an error for the first amount of trades, changes or settings
// that is not in currency cur. Inputs that pass can be given to a Ledger in cur.
func CheckCurrencies(cur string, trades []Trade, changes []CapitalChange, settings []MonthSettings) error {
	for _, t := range trades {
		if err := checkCurrency(t.PL, cur, fmt.Sprintf("P/L of the trade on %s", t.Date)); err != nil {
			return err
		}
	}
	for _, c := range changes {
		if err := checkCurrency(c.Amount, cur, fmt.Sprintf("capital change %s on %s", c.ID, c.Date)); err != nil {
			return err
		}
	}
	for _, ms := range settings {
		for _, m := range []*Money{ms.PortfolioSize, ms.StartingCapital, ms.Deposits, ms.Withdrawals} {
			if m == nil {
				continue
			}
			if err := checkCurrency(*m, cur, fmt.Sprintf("an amount of %s", ms.Month)); err != nil {
				return err
			}
		}
	}
	return nil
}

// Options returns the ledger options reading the snapshot.
func (s *Snapshot) Options() []LedgerOption {
	return []LedgerOption{
		WithCurrency(s.Currency),
		WithOverrides(s.Overrides),
		WithLegacyFlows(s.Legacy),
	}
}

// Ledger creates a ledger on the snapshot. The ledger shares the anchors of the snapshot.
func (s *Snapshot) Ledger(trades []Trade, store *CapitalChangeStore, opts ...LedgerOption) *Ledger {
	return NewLedger(trades, store, s.Sizes, append(s.Options(), opts...)...)
}

// Sync copies back the overrides of l, after an edit.
func (s *Snapshot) Sync(l *Ledger) { s.Overrides = l.Overrides() }

// Settings returns the month settings sorted by month.
func (s *Snapshot) Settings() []MonthSettings {
	byMonth := make(map[date.YearMonth]*MonthSettings)
	get := func(m date.YearMonth) *MonthSettings {
		ms, ok := byMonth[m]
		if !ok {
			ms = &MonthSettings{Month: m}
			byMonth[m] = ms
		}
		return ms
	}
	for m, v := range s.Sizes.Anchors() {
		get(m).PortfolioSize = &v
	}
	for m, v := range s.Overrides {
		get(m).StartingCapital = &v
	}
	for m, f := range s.Legacy {
		ms := get(m)
		ms.Deposits, ms.Withdrawals = &f.Deposits, &f.Withdrawals
	}

	months := slices.SortedFunc(maps.Keys(byMonth), func(a, b date.YearMonth) int {
		return a.First().Compare(b.First())
	})
	settings := make([]MonthSettings, 0, len(months))
	for _, m := range months {
		settings = append(settings, *byMonth[m])
	}
	return settings
}
