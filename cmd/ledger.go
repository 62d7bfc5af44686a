package cmd

import (
	"context"
	"flag"

	"github.com/etnz/tradelog/date"
	"github.com/etnz/tradelog/renderer"
	"github.com/google/subcommands"
)

// yearFlags are the flags of the report commands.
type yearFlags struct {
	year int
	json bool
}

func (y *yearFlags) set(f *flag.FlagSet) {
	f.IntVar(&y.year, "y", date.Today().Year(), "Year of the report")
	f.BoolVar(&y.json, "json", false, "Print the report as JSON")
}

func (y *yearFlags) report(ctx context.Context) (*renderer.YearReport, error) {
	s, err := openSession(ctx)
	if err != nil {
		return nil, err
	}
	defer s.Close()
	return renderer.NewYearReport(s.ledger, y.year), nil
}

type ledgerCmd struct {
	yearFlags
}

func (*ledgerCmd) Name() string     { return "ledger" }
func (*ledgerCmd) Synopsis() string { return "display the monthly capital ledger of a year" }
func (*ledgerCmd) Usage() string {
	return `tlg ledger [-y <year>] [-json]

  Displays the 12 months of a year: starting capital, net capital change,
  realized P/L, final capital, trade statistics and annualized returns.
`
}

func (c *ledgerCmd) SetFlags(f *flag.FlagSet) { c.set(f) }

func (c *ledgerCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := c.report(ctx)
	if err != nil {
		return fail("%v", err)
	}
	if c.json {
		if err := printJSON(r); err != nil {
			return fail("%v", err)
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.YearMarkdown(r))
	return subcommands.ExitSuccess
}

type returnsCmd struct {
	yearFlags
}

func (*returnsCmd) Name() string     { return "returns" }
func (*returnsCmd) Synopsis() string { return "display the annualized returns of a year" }
func (*returnsCmd) Usage() string {
	return `tlg returns [-y <year>] [-json]

  Displays for every month of a year the annualized YTD, 1M, 3M, 6M and 12M returns.
  n/a marks a window reaching before January.
`
}

func (c *returnsCmd) SetFlags(f *flag.FlagSet) { c.set(f) }

func (c *returnsCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	r, err := c.report(ctx)
	if err != nil {
		return fail("%v", err)
	}
	if c.json {
		returns := make(map[string]any, len(r.Months))
		for _, m := range r.Months {
			returns[m.Month.String()] = m.Returns
		}
		if err := printJSON(map[string]any{"year": r.Year, "returns": returns}); err != nil {
			return fail("%v", err)
		}
		return subcommands.ExitSuccess
	}
	printMarkdown(renderer.ReturnsMarkdown(r))
	return subcommands.ExitSuccess
}
