package tradelog

import (
	"bytes"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ptr(m Money) *Money { return &m }

func TestSnapshot(t *testing.T) {
	settings := []MonthSettings{
		{Month: month("2024-01"), PortfolioSize: ptr(INR(10000)), StartingCapital: ptr(INR(9000))},
		{Month: month("2024-02"), Deposits: ptr(INR(300))},
		{Month: month("2024-04"), PortfolioSize: ptr(INR(12000))},
	}
	s := NewSnapshot("INR", settings)

	l := s.Ledger([]Trade{closed("2024-01-10", 100)}, nil)
	year := l.Year(2024)
	if got := year[0].FinalCapital; !got.Equal(INR(9100)) {
		t.Errorf("January FinalCapital = %v, want 9100", got)
	}
	if got := year[1]; !got.StartingCapital.Equal(INR(10000)) || !got.Deposits.Equal(INR(300)) || !got.Withdrawals.IsZero() {
		t.Errorf("February = %v +%v -%v, want 10000 +300 -0", got.StartingCapital, got.Deposits, got.Withdrawals)
	}
	if got := year[4].StartingCapital; !got.Equal(INR(12000)) {
		t.Errorf("May StartingCapital = %v, want 12000", got)
	}

	if err := l.SetStartingCapital(month("2024-03"), INR(11000)); err != nil {
		t.Fatal(err)
	}
	if _, err := l.SetNetChange(month("2024-05"), INR(500)); err != nil {
		t.Fatal(err)
	}
	s.Sync(l)

	var buf bytes.Buffer
	if err := EncodeMonthSettings(&buf, s.Settings()); err != nil {
		t.Fatalf("EncodeMonthSettings() error = %v", err)
	}
	back, err := DecodeMonthSettings(&buf)
	if err != nil {
		t.Fatalf("DecodeMonthSettings() error = %v", err)
	}
	want := []MonthSettings{
		{Month: month("2024-01"), PortfolioSize: ptr(INR(10000)), StartingCapital: ptr(INR(9000))},
		{Month: month("2024-02"), Deposits: ptr(INR(300)), Withdrawals: ptr(INR(0))},
		{Month: month("2024-03"), StartingCapital: ptr(INR(11000))},
		{Month: month("2024-04"), PortfolioSize: ptr(INR(12000))},
		{Month: month("2024-06"), PortfolioSize: ptr(INR(12500))},
	}
	if diff := cmp.Diff(want, back, moneyCmp); diff != "" {
		t.Errorf("Settings() mismatch (-want +got):\n%s", diff)
	}
}

func TestCheckCurrencies(t *testing.T) {
	usd := M(100, "USD")
	tests := []struct {
		name     string
		trades   []Trade
		changes  []CapitalChange
		settings []MonthSettings
		wantErr  bool
	}{
		{
			name:     "same currency",
			trades:   []Trade{closed("2024-01-10", 100)},
			changes:  []CapitalChange{NewCapitalChange(day("2024-01-10"), INR(100), "")},
			settings: []MonthSettings{{Month: month("2024-01"), PortfolioSize: ptr(INR(10000))}},
		},
		{
			name:    "no currency",
			changes: []CapitalChange{NewCapitalChange(day("2024-01-10"), NO(100), "")},
		},
		{
			name:    "USD change",
			changes: []CapitalChange{NewCapitalChange(day("2024-01-10"), usd, "")},
			wantErr: true,
		},
		{
			name:    "USD trade",
			trades:  []Trade{{Date: day("2024-01-10"), Status: Closed, PL: usd}},
			wantErr: true,
		},
		{
			name:     "USD override",
			settings: []MonthSettings{{Month: month("2024-01"), StartingCapital: ptr(usd)}},
			wantErr:  true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckCurrencies("INR", tc.trades, tc.changes, tc.settings)
			if tc.wantErr != errors.Is(err, ErrCurrencyMismatch) {
				t.Errorf("CheckCurrencies() error = %v, want mismatch %v", err, tc.wantErr)
			}
			if !tc.wantErr && err != nil {
				t.Errorf("CheckCurrencies() unexpected error = %v", err)
			}
		})
	}
}
