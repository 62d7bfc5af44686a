package tradelog

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/etnz/tradelog/date"
)

// PositionStatus is the life-cycle state of a trade.
type PositionStatus int

const (
	Open PositionStatus = iota
	Closed
	Partial
)

func (s PositionStatus) String() string {
	switch s {
	case Open:
		return "Open"
	case Closed:
		return "Closed"
	case Partial:
		return "Partial"
	default:
		return "Unknown"
	}
}

// ParsePositionStatus parses a status, case insensitive.
func ParsePositionStatus(s string) (PositionStatus, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "open":
		return Open, nil
	case "closed":
		return Closed, nil
	case "partial":
		return Partial, nil
	default:
		return Open, fmt.Errorf("unknown position status %q", s)
	}
}

func (s PositionStatus) MarshalJSON() ([]byte, error) { return json.Marshal(s.String()) }

func (s *PositionStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	v, err := ParsePositionStatus(str)
	if err != nil {
		return err
	}
	*s = v
	return nil
}

// Trade is the read-only view of a journal trade the ledger needs.
type Trade struct {
	ID          string         `json:"id,omitempty"`
	Date        date.Date      `json:"date"`
	Status      PositionStatus `json:"positionStatus"`
	PL          Money          `json:"plRs"`      // realized profit/loss in currency
	StockMove   Percent        `json:"stockMove"` // price move of the position
	HoldingDays int            `json:"holdingDays"`
	RewardRisk  float64        `json:"rewardRisk"`
}

// Realized reports whether the trade P/L counts in the month's realized P/L.
func (t Trade) Realized() bool { return t.Status == Closed || t.Status == Partial }
