package tradelog

import (
	"fmt"
	"math"
)

// Percent is a percentage, 18.4 means 18.4%.
type Percent float64

// FromRate converts a decimal rate (0.184) into a Percent (18.4).
func FromRate(rate float64) Percent { return Percent(100 * rate) }

// Rate returns the decimal rate of p.
func (p Percent) Rate() float64 { return float64(p) / 100 }

func (p Percent) Equal(q Percent) bool {
	// it has to be compared with some precision
	const precision = 0.0001
	return math.Abs(float64(p-q)) < precision
}

func (p Percent) String() string {
	return fmt.Sprintf("%.2f%%", p)
}

func (p Percent) SignedString() string {
	res := fmt.Sprintf("%+.2f%%", p)
	if res == "+0.00%" || res == "-0.00%" {
		return "-"
	}
	return res
}
