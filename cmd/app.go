// Package cmd implements the tlg command line application.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/etnz/tradelog"
	"github.com/etnz/tradelog/config"
	"github.com/etnz/tradelog/logger"
	"github.com/etnz/tradelog/sqlite"
	"github.com/google/subcommands"
	"github.com/rs/zerolog"
)

// Register the subcommands.
// A main package will call Register() to allow subcommands, and Execute() on the user-selected one.
func Register(c *subcommands.Commander) {
	c.Register(&ledgerCmd{}, "reports")
	c.Register(&returnsCmd{}, "reports")

	c.Register(&sizeCmd{}, "capital")
	c.Register(&capitalCmd{}, "capital")
	c.Register(&netChangeCmd{}, "capital")
	c.Register(&changesCmd{}, "capital")

	c.Register(&importCmd{}, "trades")

	c.Register(&topicCmd{}, "help")
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var configFile = flag.String("config", config.DefaultFile, "Path to the configuration file (YAML)")
var dataDir = flag.String("data-dir", "", "Folder of the data files, overrides the configuration")
var storage = flag.String("storage", "", "Storage backend (jsonl, sqlite), overrides the configuration")
var chain = flag.Bool("chain", false, "Start every month with the final capital of the previous month")

// loadConfig reads the configuration and applies the global flags on top.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configFile)
	if err != nil {
		return nil, err
	}
	var errValidate error
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "data-dir":
			cfg.DataDir = *dataDir
		case "storage":
			cfg.Storage = *storage
			errValidate = cfg.Validate()
		case "chain":
			cfg.ChainMonths = *chain
		}
	})
	return cfg, errValidate
}

// session holds the state loaded for a single command.
type session struct {
	cfg      *config.Config
	log      zerolog.Logger
	storage  tradelog.Storage
	closer   io.Closer
	trades   []tradelog.Trade
	snapshot *tradelog.Snapshot
	ledger   *tradelog.Ledger
}

// openSession loads the configuration, opens the storage and builds the ledger.
func openSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	s := &session{cfg: cfg, log: logger.New(cfg.Logger())}

	switch cfg.Storage {
	case config.SQLite:
		repo, err := sqlite.Open(ctx, cfg.DBPath(), s.log)
		if err != nil {
			return nil, err
		}
		s.storage, s.closer = repo, repo
	default:
		s.storage = tradelog.NewFileRepository(cfg.DataDir, s.log)
	}

	if err := s.load(ctx); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *session) load(ctx context.Context) error {
	var err error
	if s.trades, err = s.storage.LoadTrades(ctx); err != nil {
		return fmt.Errorf("cannot load trades: %w", err)
	}
	store, err := tradelog.LoadStore(ctx, s.storage, s.log)
	if err != nil {
		return err
	}
	settings, err := s.storage.LoadSettings(ctx)
	if err != nil {
		return fmt.Errorf("cannot load month settings: %w", err)
	}
	if err := tradelog.CheckCurrencies(s.cfg.Currency, s.trades, store.All(), settings); err != nil {
		return fmt.Errorf("cannot load %s data: %w", s.cfg.Storage, err)
	}
	s.snapshot = tradelog.NewSnapshot(s.cfg.Currency, settings)
	s.ledger = s.snapshot.Ledger(s.trades, store,
		tradelog.WithChaining(s.cfg.Policy()),
		tradelog.WithLogger(s.log),
	)
	s.log.Debug().
		Int("trades", len(s.trades)).
		Int("changes", store.Len()).
		Int("settings", len(settings)).
		Msg("session loaded")
	return nil
}

// saveSettings writes back the month settings after an edit of the ledger.
func (s *session) saveSettings(ctx context.Context) error {
	s.snapshot.Sync(s.ledger)
	return s.storage.SaveSettings(ctx, s.snapshot.Settings())
}

func (s *session) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// money parses an amount in the session currency.
func (s *session) money(value string) (tradelog.Money, error) {
	return tradelog.ParseMoney(value, s.cfg.Currency)
}

// fail prints err on stderr and returns the failure status.
func fail(format string, args ...any) subcommands.ExitStatus {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	return subcommands.ExitFailure
}
