package ratecache

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/etnz/finrep/date"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS rates (
	ticker TEXT NOT NULL,
	day    TEXT NOT NULL,
	rate   TEXT NOT NULL,
	PRIMARY KEY (ticker, day)
);`

// SQLStore stores every series in a single SQLite table.
type SQLStore struct {
	conn *sql.DB
	log  zerolog.Logger
}

// OpenSQL opens (or creates) the SQLite database at path. Use ":memory:" for
// a transient store.
func OpenSQL(path string, log zerolog.Logger) (*SQLStore, error) {
	dsn := path
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
		dsn = path + "?_pragma=journal_mode(WAL)"
	}
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// a single connection, ":memory:" databases are per connection
	conn.SetMaxOpenConns(1)
	return NewSQLStore(conn, log)
}

// NewSQLStore uses an open database, creating the rates table if needed.
func NewSQLStore(conn *sql.DB, log zerolog.Logger) (*SQLStore, error) {
	if _, err := conn.Exec(schema); err != nil {
		return nil, fmt.Errorf("failed to create rates table: %w", err)
	}
	return &SQLStore{
		conn: conn,
		log:  log.With().Str("component", "ratecache").Str("backend", "sqlite").Logger(),
	}, nil
}

// Close closes the database connection.
func (s *SQLStore) Close() error { return s.conn.Close() }

// Load returns the series of ticker, empty if unknown.
func (s *SQLStore) Load(ctx context.Context, ticker string) (*date.History[decimal.Decimal], error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT day, rate FROM rates WHERE ticker = ? ORDER BY day`, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s rates: %w", ticker, err)
	}
	defer rows.Close()

	h := new(date.History[decimal.Decimal])
	for rows.Next() {
		var day, rate string
		if err := rows.Scan(&day, &rate); err != nil {
			return nil, fmt.Errorf("failed to scan %s rate: %w", ticker, err)
		}
		on, err := date.Parse(day)
		if err != nil {
			return nil, fmt.Errorf("invalid %s rate day %q: %w", ticker, day, err)
		}
		v, err := decimal.NewFromString(rate)
		if err != nil {
			return nil, fmt.Errorf("invalid %s rate on %s: %w", ticker, day, err)
		}
		h.Append(on, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s rates: %w", ticker, err)
	}
	return h, nil
}

// Save upserts every day of h. Days stored before and missing from h are kept.
func (s *SQLStore) Save(ctx context.Context, ticker string, h *date.History[decimal.Decimal]) error {
	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO rates (ticker, day, rate) VALUES (?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer stmt.Close()

	for on, rate := range h.Values() {
		if _, err := stmt.ExecContext(ctx, ticker, on.String(), rate.String()); err != nil {
			return fmt.Errorf("failed to store %s rate on %s: %w", ticker, on, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s rates: %w", ticker, err)
	}
	s.log.Debug().Str("ticker", ticker).Int("days", h.Len()).Msg("saved")
	return nil
}
