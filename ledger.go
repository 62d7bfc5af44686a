package tradelog

import (
	"fmt"
	"maps"

	"github.com/etnz/tradelog/date"
	"github.com/rs/zerolog"
)

// ChainPolicy selects how a month without an override gets its starting capital.
type ChainPolicy int

const (
	// IndependentAnchors reads the portfolio-size anchor of every month. January's final
	// capital and February's starting capital may diverge.
	IndependentAnchors ChainPolicy = iota
	// ChainFromPreviousMonth starts a month with the final capital of the previous month
	// of the same year. January still reads the anchor.
	ChainFromPreviousMonth
)

func (p ChainPolicy) String() string {
	switch p {
	case IndependentAnchors:
		return "independent"
	case ChainFromPreviousMonth:
		return "chained"
	default:
		return "unknown"
	}
}

// CapitalSource tells where a month's starting capital comes from.
type CapitalSource int

const (
	FromAnchor CapitalSource = iota
	FromOverride
	FromPreviousMonth
)

func (s CapitalSource) String() string {
	switch s {
	case FromAnchor:
		return "anchor"
	case FromOverride:
		return "override"
	case FromPreviousMonth:
		return "chained"
	default:
		return "unknown"
	}
}

// Flows are aggregate deposits and withdrawals of a month, both as magnitudes.
//
// They are the legacy form of capital changes, used for months without any CapitalChange.
type Flows struct {
	Deposits    Money
	Withdrawals Money
}

// MonthlyCapitalRecord is the capital of one calendar month.
//
// FinalCapital = StartingCapital + RealizedPL + Deposits - Withdrawals, exactly.
type MonthlyCapitalRecord struct {
	Month           date.YearMonth `json:"month"`
	StartingCapital Money          `json:"startingCapital"`
	Source          CapitalSource  `json:"-"`
	Deposits        Money          `json:"deposits"`
	Withdrawals     Money          `json:"withdrawals"`
	RealizedPL      Money          `json:"realizedPL"`
	FinalCapital    Money          `json:"finalCapital"`
	Stats           TradeStats     `json:"stats"`
}

// NetChange returns deposits minus withdrawals.
func (r MonthlyCapitalRecord) NetChange() Money { return r.Deposits.Sub(r.Withdrawals) }

// Ledger computes monthly capital records from trades, capital changes and anchors.
//
// A Ledger holds no derived state: every call to Year scans its inputs again. The only
// writes are the edits on the store, the anchors and the overrides.
type Ledger struct {
	cur       string
	byMonth   map[date.YearMonth][]Trade
	store     *CapitalChangeStore
	sizes     PortfolioSizes
	overrides map[date.YearMonth]Money
	legacy    map[date.YearMonth]Flows
	chain     ChainPolicy
	log       zerolog.Logger
}

// LedgerOption configures a Ledger.
type LedgerOption func(*Ledger)

// WithOverrides sets the starting capital overrides per month.
func WithOverrides(overrides map[date.YearMonth]Money) LedgerOption {
	return func(l *Ledger) { l.overrides = maps.Clone(overrides) }
}

// WithLegacyFlows sets the aggregate deposits and withdrawals used for months without
// capital changes.
func WithLegacyFlows(flows map[date.YearMonth]Flows) LedgerOption {
	return func(l *Ledger) { l.legacy = maps.Clone(flows) }
}

// WithChaining sets the starting capital policy.
func WithChaining(p ChainPolicy) LedgerOption {
	return func(l *Ledger) { l.chain = p }
}

func WithLogger(log zerolog.Logger) LedgerOption {
	return func(l *Ledger) { l.log = log }
}

// WithCurrency sets the currency of zero amounts. Defaults to INR.
func WithCurrency(cur string) LedgerOption {
	return func(l *Ledger) { l.cur = cur }
}

// DefaultCurrency is the currency of trade P/L (plRs).
const DefaultCurrency = "INR"

// NewLedger creates a ledger over a read-only list of trades.
//
// All amounts must be in the ledger currency, see CheckCurrencies.
func NewLedger(trades []Trade, store *CapitalChangeStore, sizes PortfolioSizes, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		cur:     DefaultCurrency,
		byMonth: make(map[date.YearMonth][]Trade),
		store:   store,
		sizes:   sizes,
		log:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.overrides == nil {
		l.overrides = make(map[date.YearMonth]Money)
	}
	if l.legacy == nil {
		l.legacy = make(map[date.YearMonth]Flows)
	}
	if l.store == nil {
		l.store = NewCapitalChangeStore(l.log)
	}
	if l.sizes == nil {
		l.sizes = NewSizeHistory(l.cur)
	}
	l.log = l.log.With().Str("component", "ledger").Logger()
	for _, t := range trades {
		m := date.MonthOf(t.Date)
		l.byMonth[m] = append(l.byMonth[m], t)
	}
	return l
}

func (l *Ledger) Currency() string           { return l.cur }
func (l *Ledger) Store() *CapitalChangeStore { return l.store }
func (l *Ledger) Sizes() PortfolioSizes      { return l.sizes }
func (l *Ledger) Policy() ChainPolicy        { return l.chain }

// Overrides returns a copy of the starting capital overrides.
func (l *Ledger) Overrides() map[date.YearMonth]Money { return maps.Clone(l.overrides) }

// Year returns the 12 records of year, January first.
func (l *Ledger) Year(year int) [12]MonthlyCapitalRecord {
	var records [12]MonthlyCapitalRecord
	for i, month := range date.Months(year) {
		var prev *MonthlyCapitalRecord
		if i > 0 {
			prev = &records[i-1]
		}
		records[i] = l.record(month, prev)
	}
	return records
}

// Month returns the record of a single month.
func (l *Ledger) Month(month date.YearMonth) MonthlyCapitalRecord {
	return l.Year(month.Year())[month.Index()]
}

func (l *Ledger) record(month date.YearMonth, prev *MonthlyCapitalRecord) MonthlyCapitalRecord {
	r := MonthlyCapitalRecord{
		Month:       month,
		Deposits:    M(0, l.cur),
		Withdrawals: M(0, l.cur),
		RealizedPL:  M(0, l.cur),
	}
	r.StartingCapital, r.Source = l.startingCapital(month, prev)

	trades := l.byMonth[month]
	for _, t := range trades {
		if t.Realized() {
			r.RealizedPL = r.RealizedPL.Add(t.PL)
		}
	}

	if changes := l.store.ChangesIn(month); len(changes) > 0 {
		for _, c := range changes {
			switch c.Type {
			case Deposit:
				r.Deposits = r.Deposits.Add(c.Amount)
			case Withdrawal:
				r.Withdrawals = r.Withdrawals.Add(c.Amount)
			}
		}
	} else if f, ok := l.legacy[month]; ok {
		r.Deposits = r.Deposits.Add(f.Deposits)
		r.Withdrawals = r.Withdrawals.Add(f.Withdrawals)
	}

	r.FinalCapital = r.StartingCapital.Add(r.RealizedPL).Add(r.Deposits).Sub(r.Withdrawals)
	r.Stats = NewTradeStats(trades)
	return r
}

func (l *Ledger) startingCapital(month date.YearMonth, prev *MonthlyCapitalRecord) (Money, CapitalSource) {
	if v, ok := l.overrides[month]; ok {
		return v, FromOverride
	}
	if l.chain == ChainFromPreviousMonth && prev != nil {
		return prev.FinalCapital, FromPreviousMonth
	}
	return M(0, l.cur).Add(l.sizes.PortfolioSize(month)), FromAnchor
}

// SetStartingCapital overrides the starting capital of month.
func (l *Ledger) SetStartingCapital(month date.YearMonth, value Money) error {
	if err := checkCurrency(value, l.cur, "starting capital for "+month.String()); err != nil {
		return err
	}
	if !value.IsPositive() {
		return fmt.Errorf("starting capital for %s must be positive, got %v: %w", month, value.Decimal(), ErrInvalidAmount)
	}
	l.overrides[month] = value
	l.log.Info().Stringer("month", month).Stringer("value", value).Msg("starting capital set")
	return nil
}

// ClearStartingCapital removes the override of month, which falls back to its anchor.
func (l *Ledger) ClearStartingCapital(month date.YearMonth) {
	if _, ok := l.overrides[month]; !ok {
		return
	}
	delete(l.overrides, month)
	l.log.Info().Stringer("month", month).Msg("starting capital cleared")
}

// EditAction is the store mutation performed by SetNetChange.
type EditAction int

const (
	NoChange EditAction = iota
	Created
	Updated
	Deleted
)

func (a EditAction) String() string {
	switch a {
	case NoChange:
		return "none"
	case Created:
		return "created"
	case Updated:
		return "updated"
	case Deleted:
		return "deleted"
	default:
		return "unknown"
	}
}

// NetChangeEdit describes what SetNetChange did, so that the caller can persist it.
type NetChangeEdit struct {
	Month  date.YearMonth
	Action EditAction
	// Change is the created or updated change, or the deleted one.
	Change CapitalChange
	// Removed lists the ids of the other changes of the month, merged into Change.
	Removed []string
	// AnchorMonth is the month whose portfolio size absorbed the delta.
	AnchorMonth  date.YearMonth
	AnchorBefore Money
	AnchorAfter  Money
	// AnchorOwned tells whether AnchorMonth had its own anchor before the edit.
	AnchorOwned bool
	// AnchorCleared tells that the edit removed the anchor of AnchorMonth, which inherits
	// the previous one again.
	AnchorCleared bool
}

// Delta returns the change applied to the anchor.
func (e NetChangeEdit) Delta() Money { return e.AnchorAfter.Sub(e.AnchorBefore) }

// SetNetChange sets the net capital change of month to value (positive for a net deposit).
//
// The month must have a positive starting capital. The month's changes collapse into
// a single change carrying value, removed when value is zero. The portfolio size of the
// following month moves by the difference with the previous net change so that later
// months start from the new capital. When it moves back to the anchor of month it is
// cleared instead.
func (l *Ledger) SetNetChange(month date.YearMonth, value Money) (NetChangeEdit, error) {
	edit := NetChangeEdit{Month: month, AnchorMonth: month.Next()}
	if err := checkCurrency(value, l.cur, "net change for "+month.String()); err != nil {
		return edit, err
	}
	if start, _ := l.startingCapital(month, l.previous(month)); !start.IsPositive() {
		return edit, fmt.Errorf("set the starting capital for %s first: %w", month, ErrStartingCapitalRequired)
	}

	existing := l.store.ChangesIn(month)
	old := M(0, l.cur).Add(l.store.NetChangeFor(month))
	delta := value.Sub(old)

	switch {
	case len(existing) == 0 && value.IsZero():
		edit.Action = NoChange
	case len(existing) == 0:
		c := NewCapitalChange(month.First(), value, "")
		if err := l.store.Add(c); err != nil {
			return edit, err
		}
		edit.Action, edit.Change = Created, c
	case value.IsZero():
		for _, c := range existing {
			l.store.Remove(c.ID)
		}
		edit.Action, edit.Change = Deleted, existing[0]
		edit.Removed = ids(existing[1:])
	case len(existing) == 1 && existing[0].Signed().Equal(value):
		edit.Action, edit.Change = NoChange, existing[0]
	default:
		c := existing[0]
		c.SetSigned(value)
		if err := l.store.Update(c); err != nil {
			return edit, err
		}
		for _, other := range existing[1:] {
			l.store.Remove(other.ID)
		}
		edit.Action, edit.Change = Updated, c
		edit.Removed = ids(existing[1:])
	}

	edit.AnchorBefore = M(0, l.cur).Add(l.sizes.PortfolioSize(edit.AnchorMonth))
	edit.AnchorAfter = edit.AnchorBefore
	edit.AnchorOwned = l.sizes.HasPortfolioSize(edit.AnchorMonth)
	if !delta.IsZero() {
		edit.AnchorAfter = edit.AnchorBefore.Add(delta)
		// An own anchor back to the inherited value is removed, so that the following
		// month follows the anchors set before it again.
		inherited := M(0, l.cur).Add(l.sizes.PortfolioSize(month))
		if edit.AnchorOwned && edit.AnchorAfter.Equal(inherited) {
			l.sizes.ClearPortfolioSize(edit.AnchorMonth)
			edit.AnchorCleared = true
		} else {
			l.sizes.SetPortfolioSize(edit.AnchorAfter, edit.AnchorMonth)
		}
	}

	l.log.Info().
		Stringer("month", month).
		Stringer("action", edit.Action).
		Stringer("delta", delta).
		Stringer("anchor", edit.AnchorAfter).
		Msg("net change set")
	return edit, nil
}

// previous returns the record of the month before month in the same year, if the
// chaining policy needs it.
func (l *Ledger) previous(month date.YearMonth) *MonthlyCapitalRecord {
	if l.chain != ChainFromPreviousMonth || month.Index() == 0 {
		return nil
	}
	prev := l.Month(month.Prev())
	return &prev
}

func ids(changes []CapitalChange) []string {
	list := make([]string, 0, len(changes))
	for _, c := range changes {
		list = append(list, c.ID)
	}
	return list
}
