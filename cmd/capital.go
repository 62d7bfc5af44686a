package cmd

import (
	"context"
	"flag"
	"fmt"

	"github.com/etnz/tradelog"
	"github.com/etnz/tradelog/date"
	"github.com/google/subcommands"
)

// monthFlags are the flags of the commands editing a month.
type monthFlags struct {
	month string
	value string
}

func (m *monthFlags) set(f *flag.FlagSet, value string) {
	f.StringVar(&m.month, "m", "", "Month to edit, as YYYY-MM")
	f.StringVar(&m.value, "v", "", value)
}

func (m *monthFlags) parseMonth() (date.YearMonth, error) {
	if m.month == "" {
		return date.YearMonth{}, fmt.Errorf("-m is required")
	}
	return date.ParseYearMonth(m.month)
}

type sizeCmd struct {
	monthFlags
}

func (*sizeCmd) Name() string     { return "size" }
func (*sizeCmd) Synopsis() string { return "set the portfolio size of a month" }
func (*sizeCmd) Usage() string {
	return `tlg size -m <YYYY-MM> -v <amount>

  Sets the portfolio size anchor of a month. Without an override, a month starts
  with the latest portfolio size set at or before it.
`
}

func (c *sizeCmd) SetFlags(f *flag.FlagSet) { c.set(f, "Portfolio size") }

func (c *sizeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	month, err := c.parseMonth()
	if err != nil {
		return usage("%v", err)
	}
	s, err := openSession(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer s.Close()

	value, err := s.money(c.value)
	if err != nil {
		return usage("%v", err)
	}
	if value.IsNegative() {
		return usage("portfolio size must not be negative, got %v", value)
	}
	s.ledger.Sizes().SetPortfolioSize(value, month)
	if err := s.saveSettings(ctx); err != nil {
		return fail("%v", err)
	}
	fmt.Printf("Portfolio size of %s set to %v\n", month, value)
	return subcommands.ExitSuccess
}

type capitalCmd struct {
	monthFlags
	clear bool
}

func (*capitalCmd) Name() string     { return "capital" }
func (*capitalCmd) Synopsis() string { return "override the starting capital of a month" }
func (*capitalCmd) Usage() string {
	return `tlg capital -m <YYYY-MM> (-v <amount> | -clear)

  Sets the starting capital of a month, taking precedence over its portfolio size.
  -clear removes the override.
`
}

func (c *capitalCmd) SetFlags(f *flag.FlagSet) {
	c.set(f, "Starting capital, must be positive")
	f.BoolVar(&c.clear, "clear", false, "Remove the override")
}

func (c *capitalCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	month, err := c.parseMonth()
	if err != nil {
		return usage("%v", err)
	}
	if c.clear == (c.value != "") {
		return usage("exactly one of -v or -clear is required")
	}
	s, err := openSession(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer s.Close()

	if c.clear {
		s.ledger.ClearStartingCapital(month)
	} else {
		value, err := s.money(c.value)
		if err != nil {
			return usage("%v", err)
		}
		if err := s.ledger.SetStartingCapital(month, value); err != nil {
			return fail("%v", err)
		}
	}
	if err := s.saveSettings(ctx); err != nil {
		return fail("%v", err)
	}
	r := s.ledger.Month(month)
	fmt.Printf("Starting capital of %s is %v (%v)\n", month, r.StartingCapital, r.Source)
	return subcommands.ExitSuccess
}

type netChangeCmd struct {
	monthFlags
}

func (*netChangeCmd) Name() string     { return "net-change" }
func (*netChangeCmd) Synopsis() string { return "set the net capital change of a month" }
func (*netChangeCmd) Usage() string {
	return `tlg net-change -m <YYYY-MM> -v <amount>

  Sets the net deposits minus withdrawals of a month: positive for a net deposit,
  negative for a net withdrawal, 0 to remove it. The month must have a starting
  capital. The portfolio size of the next month moves by the difference.
`
}

func (c *netChangeCmd) SetFlags(f *flag.FlagSet) { c.set(f, "Net change, signed") }

func (c *netChangeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	month, err := c.parseMonth()
	if err != nil {
		return usage("%v", err)
	}
	s, err := openSession(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer s.Close()

	value, err := s.money(c.value)
	if err != nil {
		return usage("%v", err)
	}
	edit, err := s.ledger.SetNetChange(month, value)
	if err != nil {
		return fail("%v", err)
	}
	if err := tradelog.Apply(ctx, s.storage, edit); err != nil {
		return fail("cannot save capital changes: %v", err)
	}
	if err := s.saveSettings(ctx); err != nil {
		return fail("%v", err)
	}
	fmt.Printf("Net change of %s %v: %v\n", month, edit.Action, edit.Change.Signed().SignedString())
	if !edit.Delta().IsZero() {
		fmt.Printf("Portfolio size of %s moved from %v to %v\n", edit.AnchorMonth, edit.AnchorBefore, edit.AnchorAfter)
	}
	return subcommands.ExitSuccess
}

type changesCmd struct {
	month string
}

func (*changesCmd) Name() string     { return "changes" }
func (*changesCmd) Synopsis() string { return "list the capital changes" }
func (*changesCmd) Usage() string {
	return `tlg changes [-m <YYYY-MM>]

  Lists the deposits and withdrawals, of a single month with -m.
`
}

func (c *changesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.month, "m", "", "Only list the changes of this month, as YYYY-MM")
}

func (c *changesCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	s, err := openSession(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer s.Close()

	changes := s.ledger.Store().All()
	if c.month != "" {
		month, err := date.ParseYearMonth(c.month)
		if err != nil {
			return usage("%v", err)
		}
		changes = s.ledger.Store().ChangesIn(month)
	}
	for _, ch := range changes {
		fmt.Printf("%s  %-10s  %12s  %s\n", ch.Date, ch.Type, ch.Signed().SignedString(), ch.Description)
	}
	return subcommands.ExitSuccess
}

// usage prints err on stderr and returns the usage error status.
func usage(format string, args ...any) subcommands.ExitStatus {
	fail(format, args...)
	return subcommands.ExitUsageError
}
