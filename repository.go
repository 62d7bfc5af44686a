package tradelog

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	"github.com/rs/zerolog"
)

// Repository persists capital changes, keyed by their id.
type Repository interface {
	List(ctx context.Context) ([]CapitalChange, error)
	Add(ctx context.Context, c CapitalChange) error
	Update(ctx context.Context, c CapitalChange) error
	Delete(ctx context.Context, id string) error
}

// SettingsRepository persists the month settings as a whole.
type SettingsRepository interface {
	LoadSettings(ctx context.Context) ([]MonthSettings, error)
	SaveSettings(ctx context.Context, settings []MonthSettings) error
}

// TradeRepository persists the read-only trade list, replaced as a whole on import.
type TradeRepository interface {
	LoadTrades(ctx context.Context) ([]Trade, error)
	SaveTrades(ctx context.Context, trades []Trade) error
}

// Storage is everything the tlg command persists.
type Storage interface {
	Repository
	SettingsRepository
	TradeRepository
}

// LoadStore creates a store with all the changes of repo.
func LoadStore(ctx context.Context, repo Repository, log zerolog.Logger) (*CapitalChangeStore, error) {
	changes, err := repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("cannot list capital changes: %w", err)
	}
	return NewCapitalChangeStore(log, changes...), nil
}

// Apply persists the store mutations of edit.
func Apply(ctx context.Context, repo Repository, edit NetChangeEdit) error {
	switch edit.Action {
	case Created:
		if err := repo.Add(ctx, edit.Change); err != nil {
			return err
		}
	case Updated:
		if err := repo.Update(ctx, edit.Change); err != nil {
			return err
		}
	case Deleted:
		if err := repo.Delete(ctx, edit.Change.ID); err != nil {
			return err
		}
	}
	for _, id := range edit.Removed {
		if err := repo.Delete(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

const (
	TradesFile   = "trades.jsonl"
	CapitalFile  = "capital.jsonl"
	SettingsFile = "months.jsonl"
)

var _ Storage = (*FileRepository)(nil)

// FileRepository stores trades, capital changes and month settings as JSONL files in a folder.
//
// Every mutation rewrites the whole file.
type FileRepository struct {
	dir string
	log zerolog.Logger
}

// NewFileRepository returns a repository in dir, created on the first write.
func NewFileRepository(dir string, log zerolog.Logger) *FileRepository {
	return &FileRepository{dir: dir, log: log.With().Str("component", "file_repository").Logger()}
}

func (r *FileRepository) path(name string) string { return filepath.Join(r.dir, name) }

func (r *FileRepository) List(ctx context.Context) ([]CapitalChange, error) {
	f, err := os.Open(r.path(CapitalFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeCapitalChanges(f)
}

func (r *FileRepository) Add(ctx context.Context, c CapitalChange) error {
	if err := c.Validate(); err != nil {
		return err
	}
	changes, err := r.List(ctx)
	if err != nil {
		return err
	}
	if slices.ContainsFunc(changes, func(x CapitalChange) bool { return x.ID == c.ID }) {
		return fmt.Errorf("capital change %s already exists", c.ID)
	}
	return r.save(append(changes, c))
}

func (r *FileRepository) Update(ctx context.Context, c CapitalChange) error {
	if err := c.Validate(); err != nil {
		return err
	}
	changes, err := r.List(ctx)
	if err != nil {
		return err
	}
	i := slices.IndexFunc(changes, func(x CapitalChange) bool { return x.ID == c.ID })
	if i < 0 {
		return nil
	}
	changes[i] = c
	return r.save(changes)
}

func (r *FileRepository) Delete(ctx context.Context, id string) error {
	changes, err := r.List(ctx)
	if err != nil {
		return err
	}
	kept := slices.DeleteFunc(changes, func(x CapitalChange) bool { return x.ID == id })
	return r.save(kept)
}

func (r *FileRepository) save(changes []CapitalChange) error {
	slices.SortStableFunc(changes, func(a, b CapitalChange) int { return a.Date.Compare(b.Date) })
	return r.write(CapitalFile, func(f *os.File) error { return EncodeCapitalChanges(f, changes) })
}

func (r *FileRepository) LoadSettings(ctx context.Context) ([]MonthSettings, error) {
	f, err := os.Open(r.path(SettingsFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeMonthSettings(f)
}

func (r *FileRepository) SaveSettings(ctx context.Context, settings []MonthSettings) error {
	return r.write(SettingsFile, func(f *os.File) error { return EncodeMonthSettings(f, settings) })
}

// LoadTrades reads the trades file, a missing file is an empty list.
func (r *FileRepository) LoadTrades(ctx context.Context) ([]Trade, error) {
	f, err := os.Open(r.path(TradesFile))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeTrades(f)
}

// SaveTrades replaces the trades file.
func (r *FileRepository) SaveTrades(ctx context.Context, trades []Trade) error {
	return r.write(TradesFile, func(f *os.File) error { return EncodeTrades(f, trades) })
}

// write replaces name with the content written by encode, through a temporary file.
func (r *FileRepository) write(name string, encode func(*os.File) error) error {
	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return fmt.Errorf("cannot create data folder %q: %w", r.dir, err)
	}
	f, err := os.CreateTemp(r.dir, name+".*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())
	if err := encode(f); err != nil {
		f.Close()
		return fmt.Errorf("cannot encode %q: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	if err := os.Rename(f.Name(), r.path(name)); err != nil {
		return err
	}
	r.log.Debug().Str("file", r.path(name)).Msg("saved")
	return nil
}
