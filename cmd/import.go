package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/tradelog"
	"github.com/google/subcommands"
)

type importCmd struct {
	file string
	path string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "replace the trades with a JSON journal export" }
func (*importCmd) Usage() string {
	return `tlg import -f <export.json> [-path <jsonpath>]

  Reads trades from a JSON document and replaces the stored trades with them.
  -path selects the trade objects, it defaults to the trades_path configuration.
  Use -f - to read from the standard input.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.file, "f", "", "JSON export to import, - for stdin")
	f.StringVar(&c.path, "path", "", "jsonpath expression selecting the trades")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.file == "" {
		return usage("-f is required")
	}
	s, err := openSession(ctx)
	if err != nil {
		return fail("%v", err)
	}
	defer s.Close()

	var r io.Reader = os.Stdin
	if c.file != "-" {
		file, err := os.Open(c.file)
		if err != nil {
			return fail("%v", err)
		}
		defer file.Close()
		r = file
	}

	path := c.path
	if path == "" {
		path = s.cfg.TradesPath
	}
	trades, err := tradelog.ImportTrades(r, path, s.cfg.Currency)
	if err != nil {
		return fail("cannot import %q: %v", c.file, err)
	}
	if err := s.storage.SaveTrades(ctx, trades); err != nil {
		return fail("cannot save trades: %v", err)
	}
	fmt.Printf("Imported %d trades\n", len(trades))
	return subcommands.ExitSuccess
}
