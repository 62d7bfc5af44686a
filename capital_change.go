package tradelog

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/etnz/tradelog/date"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ChangeType tells whether a capital change adds or removes capital.
type ChangeType int

const (
	Deposit ChangeType = iota
	Withdrawal
)

func (t ChangeType) String() string {
	switch t {
	case Deposit:
		return "deposit"
	case Withdrawal:
		return "withdrawal"
	default:
		return "unknown"
	}
}

// ParseChangeType parses "deposit" or "withdrawal".
func ParseChangeType(s string) (ChangeType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "deposit":
		return Deposit, nil
	case "withdrawal", "withdraw":
		return Withdrawal, nil
	default:
		return Deposit, fmt.Errorf("unknown capital change type %q", s)
	}
}

func (t ChangeType) MarshalJSON() ([]byte, error) { return json.Marshal(t.String()) }

func (t *ChangeType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	v, err := ParseChangeType(str)
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// CapitalChange is a dated deposit or withdrawal recorded by the user.
type CapitalChange struct {
	ID          string     `json:"id"`
	Date        date.Date  `json:"date"`
	Amount      Money      `json:"amount"` // magnitude, never negative
	Type        ChangeType `json:"type"`
	Description string     `json:"description,omitempty"`
}

// MarshalJSON writes the change with a stable field order, the description only when set.
func (c CapitalChange) MarshalJSON() ([]byte, error) {
	var w jsonObjectWriter
	w.Append("id", c.ID).
		Append("date", c.Date).
		Append("amount", c.Amount).
		Append("type", c.Type).
		Optional("description", c.Description)
	return w.MarshalJSON()
}

// NewCapitalChange creates a change with a fresh id from a signed amount: positive is a
// deposit, negative a withdrawal.
func NewCapitalChange(on date.Date, signed Money, description string) CapitalChange {
	c := CapitalChange{
		ID:          uuid.NewString(),
		Date:        on,
		Description: description,
	}
	c.SetSigned(signed)
	return c
}

// Signed returns the contribution of the change to a cash-flow series.
func (c CapitalChange) Signed() Money {
	if c.Type == Withdrawal {
		return c.Amount.Neg()
	}
	return c.Amount
}

// SetSigned updates the magnitude and the type from a signed amount.
func (c *CapitalChange) SetSigned(signed Money) {
	c.Type = Deposit
	if signed.IsNegative() {
		c.Type = Withdrawal
	}
	c.Amount = signed.Abs()
}

// Validate checks the change can be stored.
func (c CapitalChange) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("capital change on %s has no id", c.Date)
	}
	if c.Date.IsZero() {
		return fmt.Errorf("capital change %s has no date", c.ID)
	}
	if c.Amount.IsNegative() {
		return fmt.Errorf("capital change %s has a negative magnitude %v: %w", c.ID, c.Amount.Decimal(), ErrInvalidAmount)
	}
	if c.Type != Deposit && c.Type != Withdrawal {
		return fmt.Errorf("capital change %s has an unknown type: %w", c.ID, ErrInvalidAmount)
	}
	return nil
}

// CapitalChangeStore owns the list of capital changes.
//
// The store is a plain in-memory list, single writer. Persistence is the job of a
// Repository.
type CapitalChangeStore struct {
	changes []CapitalChange
	log     zerolog.Logger
}

// NewCapitalChangeStore creates a store holding changes.
func NewCapitalChangeStore(log zerolog.Logger, changes ...CapitalChange) *CapitalChangeStore {
	return &CapitalChangeStore{
		changes: slices.Clone(changes),
		log:     log.With().Str("component", "capital_changes").Logger(),
	}
}

// Len returns the number of changes.
func (s *CapitalChangeStore) Len() int { return len(s.changes) }

// Add appends a new change. Several changes can share the same month.
func (s *CapitalChangeStore) Add(c CapitalChange) error {
	if err := c.Validate(); err != nil {
		return err
	}
	if s.index(c.ID) >= 0 {
		return fmt.Errorf("capital change %s already exists", c.ID)
	}
	s.changes = append(s.changes, c)
	s.log.Debug().Str("id", c.ID).Stringer("date", c.Date).Stringer("type", c.Type).Msg("capital change added")
	return nil
}

// Update replaces the change with the same id. It does nothing if the id is unknown.
func (s *CapitalChangeStore) Update(c CapitalChange) error {
	if err := c.Validate(); err != nil {
		return err
	}
	i := s.index(c.ID)
	if i < 0 {
		return nil
	}
	s.changes[i] = c
	s.log.Debug().Str("id", c.ID).Stringer("date", c.Date).Stringer("type", c.Type).Msg("capital change updated")
	return nil
}

// Remove deletes the change with id. It does nothing if the id is unknown.
func (s *CapitalChangeStore) Remove(id string) {
	i := s.index(id)
	if i < 0 {
		return
	}
	s.changes = slices.Delete(s.changes, i, i+1)
	s.log.Debug().Str("id", id).Msg("capital change removed")
}

// Get returns the change with id.
func (s *CapitalChangeStore) Get(id string) (CapitalChange, bool) {
	i := s.index(id)
	if i < 0 {
		return CapitalChange{}, false
	}
	return s.changes[i], true
}

func (s *CapitalChangeStore) index(id string) int {
	return slices.IndexFunc(s.changes, func(c CapitalChange) bool { return c.ID == id })
}

// NetChangeFor sums the signed contributions of the changes dated in month.
func (s *CapitalChangeStore) NetChangeFor(month date.YearMonth) Money {
	var net Money
	for _, c := range s.changes {
		if month.Contains(c.Date) {
			net = net.Add(c.Signed())
		}
	}
	return net
}

// ChangesIn returns the changes dated in month, in insertion order.
func (s *CapitalChangeStore) ChangesIn(month date.YearMonth) []CapitalChange {
	return s.filter(func(c CapitalChange) bool { return month.Contains(c.Date) })
}

// ChangesUpToAndIncluding returns the changes dated on or before on.
func (s *CapitalChangeStore) ChangesUpToAndIncluding(on date.Date) []CapitalChange {
	return s.filter(func(c CapitalChange) bool { return !c.Date.After(on) })
}

// ChangesFrom returns the changes dated on or after on.
func (s *CapitalChangeStore) ChangesFrom(on date.Date) []CapitalChange {
	return s.filter(func(c CapitalChange) bool { return !c.Date.Before(on) })
}

// All returns a copy of all changes sorted by date, insertion order for equal dates.
func (s *CapitalChangeStore) All() []CapitalChange {
	all := slices.Clone(s.changes)
	slices.SortStableFunc(all, func(a, b CapitalChange) int { return a.Date.Compare(b.Date) })
	return all
}

func (s *CapitalChangeStore) filter(keep func(CapitalChange) bool) []CapitalChange {
	var list []CapitalChange
	for _, c := range s.changes {
		if keep(c) {
			list = append(list, c)
		}
	}
	return list
}
