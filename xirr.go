package tradelog

import (
	"fmt"
	"math"
)

const (
	defaultGuess         = 0.1
	defaultMaxIterations = 100

	// Convergence is an absolute |NPV| below defaultTolerance. After the iteration cap the
	// best estimate is still accepted when its |NPV| is below defaultRelativeTolerance
	// times the largest flow.
	defaultTolerance         = 1e-6
	defaultRelativeTolerance = 1e-4

	daysPerYear = 365
	minSlope    = 1e-12
	maxRate     = 1e6
)

// Solver finds the annualized rate r zeroing the net present value of a series:
//
//	Σ amount_i / (1 + r)^(days_i / 365) = 0
//
// using Newton-Raphson. The zero value uses the default parameters.
type Solver struct {
	Guess            float64 // initial rate, 0.1 when zero
	Tolerance        float64 // absolute tolerance on |NPV|
	RelativeTolerance float64 // accepted |NPV| after the iteration cap, relative to the largest flow
	MaxIterations    int
}

func (s Solver) guess() float64 {
	if s.Guess == 0 {
		return defaultGuess
	}
	return s.Guess
}

func (s Solver) tolerance() float64 {
	if s.Tolerance <= 0 {
		return defaultTolerance
	}
	return s.Tolerance
}

func (s Solver) relativeTolerance() float64 {
	if s.RelativeTolerance <= 0 {
		return defaultRelativeTolerance
	}
	return s.RelativeTolerance
}

func (s Solver) maxIterations() int {
	if s.MaxIterations <= 0 {
		return defaultMaxIterations
	}
	return s.MaxIterations
}

// XIRR returns the annualized rate of the series with the default solver, or 0 when no
// rate can be computed.
func XIRR(series *CashFlowSeries) float64 { return Solver{}.XIRR(series) }

// SolveXIRR is Solve with the default solver.
func SolveXIRR(series *CashFlowSeries) (float64, error) { return Solver{}.Solve(series) }

// XIRR is like Solve but resolves every failure to the 0 sentinel.
func (s Solver) XIRR(series *CashFlowSeries) float64 {
	r, err := s.Solve(series)
	if err != nil {
		return 0
	}
	return r
}

// Solve returns the annualized rate of the series as a decimal (0.184 for 18.4%).
//
// Errors are ErrDegenerate, ErrNoSignChange or ErrNotConverged: they describe why there is
// no rate, they are not meant to be displayed as failures.
func (s Solver) Solve(series *CashFlowSeries) (float64, error) {
	if series == nil || series.Len() == 0 {
		return 0, fmt.Errorf("empty series: %w", ErrDegenerate)
	}
	if series.StartValue() == 0 || series.EndValue() == 0 {
		return 0, fmt.Errorf("zero boundary value: %w", ErrDegenerate)
	}

	amounts := make([]float64, 0, series.Len())
	years := make([]float64, 0, series.Len())
	var hasPos, hasNeg, elapsed bool
	var scale float64
	for _, e := range series.events {
		if math.IsNaN(e.Amount) || math.IsInf(e.Amount, 0) {
			return 0, fmt.Errorf("non finite amount on %s: %w", e.Date, ErrDegenerate)
		}
		hasPos = hasPos || e.Amount > 0
		hasNeg = hasNeg || e.Amount < 0
		scale = math.Max(scale, math.Abs(e.Amount))
		y := float64(e.Date.DaysSince(series.Start())) / daysPerYear
		elapsed = elapsed || y != 0
		amounts = append(amounts, e.Amount)
		years = append(years, y)
	}
	if !hasPos || !hasNeg {
		return 0, ErrNoSignChange
	}
	if !elapsed {
		return 0, fmt.Errorf("no time elapsed between cash flows: %w", ErrDegenerate)
	}

	// npv returns f(r) and f'(r).
	npv := func(r float64) (f, df float64) {
		base := 1 + r
		for i, a := range amounts {
			discount := math.Pow(base, -years[i])
			f += a * discount
			df -= years[i] * a * discount / base
		}
		return f, df
	}

	tol := s.tolerance()
	rate := s.guess()
	best, bestAbs := rate, math.Inf(1)
	cause := ErrNotConverged
	for range s.maxIterations() {
		f, df := npv(rate)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			cause = ErrDegenerate
			break
		}
		if abs := math.Abs(f); abs < bestAbs {
			best, bestAbs = rate, abs
		}
		if math.Abs(f) < tol {
			return rate, nil
		}
		if math.IsNaN(df) || math.Abs(df) < minSlope {
			cause = ErrDegenerate
			break
		}
		next := rate - f/df
		if math.IsNaN(next) || math.IsInf(next, 0) || next > maxRate {
			cause = ErrDegenerate
			break
		}
		// (1+r)^t is undefined for r <= -1, step halfway to -100% instead.
		if next <= -1 {
			next = -1 + (rate+1)/2
		}
		rate = next
	}

	if bestAbs < s.relativeTolerance()*scale {
		return best, nil
	}
	return 0, fmt.Errorf("best |npv| is %g: %w", bestAbs, cause)
}
