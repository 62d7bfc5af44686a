package tradelog

import (
	"errors"
	"math"
	"testing"

	"github.com/etnz/tradelog/date"
)

// npvAt evaluates the NPV of a series at rate r.
func npvAt(s *CashFlowSeries, r float64) float64 {
	var sum float64
	for _, e := range s.Events() {
		sum += e.Amount / math.Pow(1+r, float64(e.Date.DaysSince(s.Start()))/365)
	}
	return sum
}

func mustSeries(t *testing.T, start string, startValue float64, end string, endValue float64, interim ...CashFlowEvent) *CashFlowSeries {
	t.Helper()
	s, err := NewCashFlowSeries(date.MustParse(start), startValue, date.MustParse(end), endValue, interim...)
	if err != nil {
		t.Fatalf("NewCashFlowSeries() error = %v", err)
	}
	return s
}

func TestXIRR_OneYearTenPercent(t *testing.T) {
	// 2023 is not a leap year: exactly 365 days.
	s := mustSeries(t, "2023-01-01", 1000, "2024-01-01", 1100)
	got, err := Solver{}.Solve(s)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if math.Abs(got-0.10) > 1e-4 {
		t.Errorf("Solve() = %v, want 0.10", got)
	}
}

func TestXIRR_RelativeToleranceAfterCap(t *testing.T) {
	// One step from 10.01% leaves |NPV| around 0.09: above the absolute tolerance but
	// below 1e-4 of the largest flow.
	s := mustSeries(t, "2023-01-01", 1000, "2024-01-01", 1100)

	got, err := Solver{Guess: 0.1001, MaxIterations: 1}.Solve(s)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if math.Abs(got-0.1001) > 1e-9 {
		t.Errorf("Solve() = %v, want the guess 0.1001", got)
	}

	_, err = Solver{Guess: 0.1001, MaxIterations: 1, RelativeTolerance: 1e-6}.Solve(s)
	if !errors.Is(err, ErrNotConverged) {
		t.Errorf("Solve() with a tight relative tolerance error = %v, want %v", err, ErrNotConverged)
	}
}

func TestXIRR_Solutions(t *testing.T) {
	testCases := []struct {
		name string
		s    *CashFlowSeries
		want float64
	}{
		{
			name: "half lost in a year",
			s:    mustSeries(t, "2023-01-01", 1000, "2024-01-01", 500),
			want: -0.5,
		},
		{
			name: "ten percent in one month",
			s:    mustSeries(t, "2024-01-01", 10000, "2024-02-01", 11000),
			want: math.Pow(1.1, 365.0/31) - 1,
		},
		{
			name: "tripled in a year, guess far from root",
			s:    mustSeries(t, "2023-01-01", 1000, "2024-01-01", 3000),
			want: 2,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Solver{}.Solve(tc.s)
			if err != nil {
				t.Fatalf("Solve() error = %v", err)
			}
			if math.Abs(got-tc.want) > 1e-6 {
				t.Errorf("Solve() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestXIRR_InterimEventsZeroNPV(t *testing.T) {
	s := mustSeries(t, "2024-01-01", 10000, "2024-07-01", 9000,
		CashFlowEvent{Date: date.MustParse("2024-03-15"), Amount: -1500},
		CashFlowEvent{Date: date.MustParse("2024-02-10"), Amount: 500},
	)
	r, err := Solver{}.Solve(s)
	if err != nil {
		t.Fatalf("Solve() error = %v", err)
	}
	if npv := npvAt(s, r); math.Abs(npv) > 1e-4 {
		t.Errorf("NPV(Solve()) = %v, want ~0", npv)
	}
}

func TestXIRR_Degenerate(t *testing.T) {
	testCases := []struct {
		name    string
		s       *CashFlowSeries
		solver  Solver
		wantErr error
	}{
		{
			name:    "all positive amounts",
			s:       mustSeries(t, "2023-01-01", -1000, "2024-01-01", 1100),
			wantErr: ErrNoSignChange,
		},
		{
			name:    "zero starting capital",
			s:       mustSeries(t, "2023-01-01", 0, "2024-01-01", 1100),
			wantErr: ErrDegenerate,
		},
		{
			name:    "all zero",
			s:       mustSeries(t, "2023-01-01", 0, "2024-01-01", 0),
			wantErr: ErrDegenerate,
		},
		{
			name:    "no time elapsed",
			s:       mustSeries(t, "2024-01-01", 1000, "2024-01-01", 1100),
			wantErr: ErrDegenerate,
		},
		{
			name:    "iteration cap",
			s:       mustSeries(t, "2023-01-01", 1000, "2024-01-01", 3000),
			solver:  Solver{MaxIterations: 1},
			wantErr: ErrNotConverged,
		},
		{
			name:    "nil series",
			wantErr: ErrDegenerate,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.solver.Solve(tc.s)
			if !errors.Is(err, tc.wantErr) {
				t.Errorf("Solve() error = %v, want %v", err, tc.wantErr)
			}
			if got := tc.solver.XIRR(tc.s); got != 0 {
				t.Errorf("XIRR() = %v, want 0", got)
			}
		})
	}
}

func TestNewCashFlowSeries(t *testing.T) {
	start, end := date.MustParse("2024-01-01"), date.MustParse("2024-03-01")

	if _, err := NewCashFlowSeries(end, 1, start, 1); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("end before start: error = %v, want ErrOutOfRange", err)
	}
	outside := CashFlowEvent{Date: date.MustParse("2024-03-02"), Amount: 10}
	if _, err := NewCashFlowSeries(start, 1, end, 1, outside); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("event after end: error = %v, want ErrOutOfRange", err)
	}

	onBoundary := CashFlowEvent{Date: end, Amount: 10}
	s, err := NewCashFlowSeries(start, 100, end, 120, onBoundary)
	if err != nil {
		t.Fatalf("NewCashFlowSeries() error = %v", err)
	}
	events := s.Events()
	if len(events) != 3 {
		t.Fatalf("len(Events()) = %d, want 3", len(events))
	}
	if events[0].Amount != -100 || events[1] != onBoundary || events[2].Amount != 120 {
		t.Errorf("Events() = %v, want [-100, interim, +120] in insertion order", events)
	}
}
