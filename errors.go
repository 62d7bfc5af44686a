package tradelog

import "errors"

var (
	// ErrStartingCapitalRequired rejects a capital edit on a month without a positive starting capital.
	ErrStartingCapitalRequired = errors.New("starting capital required")
	// ErrInvalidAmount rejects negative magnitudes and non-positive capital overrides.
	ErrInvalidAmount = errors.New("invalid amount")
	// ErrOutOfRange rejects cash-flow events outside the series boundaries.
	ErrOutOfRange = errors.New("cash flow out of range")
	// ErrCurrencyMismatch rejects amounts in another currency than the ledger's.
	ErrCurrencyMismatch = errors.New("currency mismatch")

	// ErrNoSignChange means every cash flow has the same sign, so NPV has no real root.
	ErrNoSignChange = errors.New("cash flows do not change sign")
	// ErrDegenerate means the NPV equation cannot be solved (zero boundary, flat derivative, rate <= -100%).
	ErrDegenerate = errors.New("degenerate cash flows")
	// ErrNotConverged means Newton-Raphson did not reach the tolerance within the iteration cap.
	ErrNotConverged = errors.New("xirr did not converge")
)
