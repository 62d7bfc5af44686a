// Package sqlite stores trades, capital changes and month settings in a SQLite database.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/tradelog"
	"github.com/etnz/tradelog/date"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

var _ tradelog.Storage = (*Repository)(nil)

// Repository is a tradelog.Storage on a SQLite database.
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open opens (or creates) the database and runs migrations.
func Open(ctx context.Context, path string, log zerolog.Logger) (*Repository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single connection: the tlg command is the only writer
	db.SetMaxOpenConns(1)

	r := &Repository{db: db, log: log.With().Str("component", "sqlite").Logger()}
	if err := r.migrate(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	r.log.Debug().Str("path", path).Msg("sqlite repository opened")
	return r, nil
}

// Close closes the database connection
func (r *Repository) Close() error { return r.db.Close() }

func (r *Repository) migrate(ctx context.Context) error {
	stmts := []string{
		`PRAGMA journal_mode=WAL`,
		`CREATE TABLE IF NOT EXISTS capital_changes (
			id          TEXT PRIMARY KEY,
			date        TEXT NOT NULL,
			amount      TEXT NOT NULL,
			currency    TEXT NOT NULL,
			type        TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS idx_capital_changes_date ON capital_changes(date)`,
		`CREATE TABLE IF NOT EXISTS month_settings (
			month            TEXT PRIMARY KEY,
			portfolio_size   TEXT,
			starting_capital TEXT,
			deposits         TEXT,
			withdrawals      TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS trades (
			seq           INTEGER PRIMARY KEY AUTOINCREMENT,
			id            TEXT NOT NULL DEFAULT '',
			date          TEXT NOT NULL,
			status        TEXT NOT NULL,
			pl            TEXT NOT NULL,
			currency      TEXT NOT NULL,
			stock_move    REAL NOT NULL,
			holding_days  INTEGER NOT NULL,
			reward_risk   REAL NOT NULL
		)`,
	}
	for _, stmt := range stmts {
		if _, err := r.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt, err)
		}
	}
	return nil
}

// scanner is a *sql.Row or *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanChange(s scanner) (tradelog.CapitalChange, error) {
	var c tradelog.CapitalChange
	var on, amount, cur, typ string
	if err := s.Scan(&c.ID, &on, &amount, &cur, &typ, &c.Description); err != nil {
		return c, err
	}
	var err error
	if c.Date, err = date.Parse(on); err != nil {
		return c, fmt.Errorf("capital change %s: %w", c.ID, err)
	}
	v, err := decimal.NewFromString(amount)
	if err != nil {
		return c, fmt.Errorf("capital change %s: invalid amount %q: %w", c.ID, amount, err)
	}
	c.Amount = tradelog.M(v, cur)
	if c.Type, err = tradelog.ParseChangeType(typ); err != nil {
		return c, fmt.Errorf("capital change %s: %w", c.ID, err)
	}
	return c, nil
}

func (r *Repository) List(ctx context.Context) ([]tradelog.CapitalChange, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, amount, currency, type, description FROM capital_changes ORDER BY date, rowid`)
	if err != nil {
		return nil, fmt.Errorf("list capital changes: %w", err)
	}
	defer rows.Close()

	var changes []tradelog.CapitalChange
	for rows.Next() {
		c, err := scanChange(rows)
		if err != nil {
			return nil, err
		}
		changes = append(changes, c)
	}
	return changes, rows.Err()
}

// Get returns the change with id.
func (r *Repository) Get(ctx context.Context, id string) (tradelog.CapitalChange, bool, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, date, amount, currency, type, description FROM capital_changes WHERE id = ?`, id)
	c, err := scanChange(row)
	if errors.Is(err, sql.ErrNoRows) {
		return c, false, nil
	}
	return c, err == nil, err
}

func (r *Repository) Add(ctx context.Context, c tradelog.CapitalChange) error {
	if err := c.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO capital_changes (id, date, amount, currency, type, description) VALUES (?, ?, ?, ?, ?, ?)`,
		c.ID, c.Date.String(), c.Amount.Decimal().String(), c.Amount.Currency(), c.Type.String(), c.Description)
	if err != nil {
		return fmt.Errorf("add capital change %s: %w", c.ID, err)
	}
	r.log.Debug().Str("id", c.ID).Msg("capital change inserted")
	return nil
}

// Update replaces the change with the same id. It does nothing if the id is unknown.
func (r *Repository) Update(ctx context.Context, c tradelog.CapitalChange) error {
	if err := c.Validate(); err != nil {
		return err
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE capital_changes SET date = ?, amount = ?, currency = ?, type = ?, description = ? WHERE id = ?`,
		c.Date.String(), c.Amount.Decimal().String(), c.Amount.Currency(), c.Type.String(), c.Description, c.ID)
	if err != nil {
		return fmt.Errorf("update capital change %s: %w", c.ID, err)
	}
	return nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM capital_changes WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete capital change %s: %w", id, err)
	}
	return nil
}

// money columns hold the JSON form of tradelog.Money, NULL when absent.

func moneyValue(m *tradelog.Money) (any, error) {
	if m == nil {
		return nil, nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func moneyScan(s sql.NullString) (*tradelog.Money, error) {
	if !s.Valid {
		return nil, nil
	}
	var m tradelog.Money
	if err := json.Unmarshal([]byte(s.String), &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *Repository) LoadSettings(ctx context.Context) ([]tradelog.MonthSettings, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT month, portfolio_size, starting_capital, deposits, withdrawals FROM month_settings ORDER BY month`)
	if err != nil {
		return nil, fmt.Errorf("load month settings: %w", err)
	}
	defer rows.Close()

	var settings []tradelog.MonthSettings
	for rows.Next() {
		var month string
		var cols [4]sql.NullString
		if err := rows.Scan(&month, &cols[0], &cols[1], &cols[2], &cols[3]); err != nil {
			return nil, err
		}
		ms := tradelog.MonthSettings{}
		if ms.Month, err = date.ParseYearMonth(month); err != nil {
			return nil, err
		}
		fields := []**tradelog.Money{&ms.PortfolioSize, &ms.StartingCapital, &ms.Deposits, &ms.Withdrawals}
		for i, f := range fields {
			if *f, err = moneyScan(cols[i]); err != nil {
				return nil, fmt.Errorf("month setting %s: %w", month, err)
			}
		}
		settings = append(settings, ms)
	}
	return settings, rows.Err()
}

// SaveSettings replaces all month settings in a single transaction.
func (r *Repository) SaveSettings(ctx context.Context, settings []tradelog.MonthSettings) error {
	return r.replace(ctx, "month_settings", func(tx *sql.Tx) error {
		for _, ms := range settings {
			var args [4]any
			for i, m := range []*tradelog.Money{ms.PortfolioSize, ms.StartingCapital, ms.Deposits, ms.Withdrawals} {
				v, err := moneyValue(m)
				if err != nil {
					return err
				}
				args[i] = v
			}
			_, err := tx.ExecContext(ctx,
				`INSERT INTO month_settings (month, portfolio_size, starting_capital, deposits, withdrawals) VALUES (?, ?, ?, ?, ?)`,
				ms.Month.String(), args[0], args[1], args[2], args[3])
			if err != nil {
				return fmt.Errorf("save month setting %s: %w", ms.Month, err)
			}
		}
		return nil
	})
}

func (r *Repository) LoadTrades(ctx context.Context) ([]tradelog.Trade, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, date, status, pl, currency, stock_move, holding_days, reward_risk FROM trades ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("load trades: %w", err)
	}
	defer rows.Close()

	var trades []tradelog.Trade
	for rows.Next() {
		var t tradelog.Trade
		var on, status, pl, cur string
		var move float64
		if err := rows.Scan(&t.ID, &on, &status, &pl, &cur, &move, &t.HoldingDays, &t.RewardRisk); err != nil {
			return nil, err
		}
		if t.Date, err = date.Parse(on); err != nil {
			return nil, err
		}
		if t.Status, err = tradelog.ParsePositionStatus(status); err != nil {
			return nil, err
		}
		v, err := decimal.NewFromString(pl)
		if err != nil {
			return nil, fmt.Errorf("trade on %s: invalid P/L %q: %w", on, pl, err)
		}
		t.PL = tradelog.M(v, cur)
		t.StockMove = tradelog.Percent(move)
		trades = append(trades, t)
	}
	return trades, rows.Err()
}

// SaveTrades replaces all trades in a single transaction.
func (r *Repository) SaveTrades(ctx context.Context, trades []tradelog.Trade) error {
	return r.replace(ctx, "trades", func(tx *sql.Tx) error {
		for _, t := range trades {
			_, err := tx.ExecContext(ctx,
				`INSERT INTO trades (id, date, status, pl, currency, stock_move, holding_days, reward_risk) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				t.ID, t.Date.String(), t.Status.String(), t.PL.Decimal().String(), t.PL.Currency(), float64(t.StockMove), t.HoldingDays, t.RewardRisk)
			if err != nil {
				return fmt.Errorf("save trade on %s: %w", t.Date, err)
			}
		}
		return nil
	})
}

// replace empties table and fills it with insert, atomically.
func (r *Repository) replace(ctx context.Context, table string, insert func(*sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return fmt.Errorf("empty %s: %w", table, err)
	}
	if err := insert(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	r.log.Debug().Str("table", table).Msg("replaced")
	return nil
}
