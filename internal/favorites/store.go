package favorites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/samber/lo"
)

// ErrClosed is returned by operations on a closed Store.
var ErrClosed = errors.New("favorites store is closed")

// Record is the stored projection of a recipe. Ingredients and Measures are
// comma-joined lists; empty optional fields are stored as NULL.
type Record struct {
	ID           string
	Name         string
	ImageURL     string
	Category     string
	Instructions string
	Alcoholic    string
	Glass        string
	Ingredients  string
	Measures     string
}

// Store persists favorite records in SQLite and publishes live query
// results to watchers after every committed write.
type Store struct {
	db     *sql.DB
	logger *slog.Logger

	mu       sync.Mutex
	closed   bool
	watchers map[*watcher]struct{}
}

// Open opens (creating if needed) the favorites database at path.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if path != ":memory:" && path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	db, err := openSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	return &Store{
		db:       db,
		logger:   logger,
		watchers: make(map[*watcher]struct{}),
	}, nil
}

// Close stops all watchers and closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	for w := range s.watchers {
		close(w.signal)
		delete(s.watchers, w)
	}
	s.mu.Unlock()

	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close sqlite: %w", err)
	}
	return nil
}

// Upsert inserts r or replaces the whole row with the same id.
func (s *Store) Upsert(ctx context.Context, r Record) error {
	if r.ID == "" {
		return errors.New("upsert favorite: id is empty")
	}
	return s.write(ctx, "upsert favorite", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO favorite_cocktails (
				id,
				name,
				image_url,
				category,
				instructions,
				alcoholic,
				glass,
				ingredients,
				measures
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			r.ID,
			r.Name,
			lo.EmptyableToPtr(r.ImageURL),
			lo.EmptyableToPtr(r.Category),
			lo.EmptyableToPtr(r.Instructions),
			lo.EmptyableToPtr(r.Alcoholic),
			lo.EmptyableToPtr(r.Glass),
			r.Ingredients,
			r.Measures,
		)
		return err
	})
}

// DeleteByID removes the row with id. Deleting a missing id is not an error.
func (s *Store) DeleteByID(ctx context.Context, id string) error {
	return s.write(ctx, "delete favorite", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "DELETE FROM favorite_cocktails WHERE id = ?", id)
		return err
	})
}

// DeleteAll clears the table.
func (s *Store) DeleteAll(ctx context.Context) error {
	return s.write(ctx, "delete all favorites", func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, "DELETE FROM favorite_cocktails")
		return err
	})
}

// Exists reports whether id is currently stored.
func (s *Store) Exists(ctx context.Context, id string) (bool, error) {
	if s.isClosed() {
		return false, ErrClosed
	}
	var exists bool
	row := s.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM favorite_cocktails WHERE id = ?)", id)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("query favorite exists: %w", err)
	}
	return exists, nil
}

// Count returns the number of stored favorites.
func (s *Store) Count(ctx context.Context) (int, error) {
	if s.isClosed() {
		return 0, ErrClosed
	}
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM favorite_cocktails").Scan(&n); err != nil {
		return 0, fmt.Errorf("count favorites: %w", err)
	}
	return n, nil
}

// All returns every stored favorite ordered by name using SQLite's default
// (binary) collation.
func (s *Store) All(ctx context.Context) ([]Record, error) {
	if s.isClosed() {
		return nil, ErrClosed
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, image_url, category, instructions, alcoholic, glass, ingredients, measures
		FROM favorite_cocktails
		ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("query favorites: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := []Record{}
	for rows.Next() {
		var r Record
		var image, category, instructions, alcoholic, glass sql.NullString
		err := rows.Scan(&r.ID, &r.Name, &image, &category, &instructions, &alcoholic, &glass, &r.Ingredients, &r.Measures)
		if err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		r.ImageURL = image.String
		r.Category = category.String
		r.Instructions = instructions.String
		r.Alcoholic = alcoholic.String
		r.Glass = glass.String
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}
	return records, nil
}

// write runs fn in its own transaction and signals watchers after commit.
func (s *Store) write(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	if s.isClosed() {
		return ErrClosed
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin txn: %w", op, err)
	}

	committed := false

	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	if err := fn(tx); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit txn: %w", op, err)
	}

	committed = true

	s.logger.Debug("favorites write committed", "op", op)
	s.notify()

	return nil
}

func (s *Store) isClosed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}
