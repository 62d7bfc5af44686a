package tradelog

import (
	"testing"

	"github.com/etnz/tradelog/date"
	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
)

// INR is a helper for test to create rupee money from const
func INR(v float64) Money { return M(v, "INR") }

// NO is a helper for test to create money from const with no currency set
func NO(v float64) Money { return M(v, "") }

func month(s string) date.YearMonth { return date.MustParseYearMonth(s) }

func day(s string) date.Date { return date.MustParse(s) }

// moneyCmp compares Money by value and currency.
var moneyCmp = cmp.Comparer(func(a, b Money) bool { return a.Equal(b) })

// statCmp compares Stat with a float tolerance.
var statCmp = cmp.Comparer(func(a, b Stat) bool {
	av, aok := a.Get()
	bv, bok := b.Get()
	return aok == bok && (av-bv) < 1e-9 && (bv-av) < 1e-9
})

func closed(on string, pl float64) Trade {
	return Trade{Date: day(on), Status: Closed, PL: INR(pl)}
}

// newTestLedger returns a ledger in INR on an empty store and anchor history.
func newTestLedger(t *testing.T, trades []Trade, opts ...LedgerOption) *Ledger {
	t.Helper()
	store := NewCapitalChangeStore(zerolog.Nop())
	return NewLedger(trades, store, NewSizeHistory("INR"), opts...)
}
