package ledger

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"finlog/internal/ledgererror"
	"finlog/internal/models"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS entries (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	ts_ns       INTEGER NOT NULL,
	description TEXT    NOT NULL,
	category    TEXT    NOT NULL,
	amount      TEXT    NOT NULL,
	type        TEXT    NOT NULL,
	truncated   INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_entries_ts ON entries (ts_ns);
`

// SQLiteStore is a ledger backed by a single-table SQLite database.
// AUTOINCREMENT guarantees IDs are strictly increasing and never reused,
// matching the append-only contract.
type SQLiteStore struct {
	mu     sync.Mutex
	db     *sql.DB
	lastTS time.Time
}

// OpenSQLiteStore opens (or creates) the ledger database at dbPath.
func OpenSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		return nil, fmt.Errorf("error creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("error opening sqlite database: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error pinging sqlite database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("error creating ledger schema: %w", err)
	}

	s := &SQLiteStore{db: db}

	// Recover the last committed timestamp so clamping survives restarts.
	var tsNanos int64
	err = db.QueryRow(`SELECT ts_ns FROM entries ORDER BY id DESC LIMIT 1`).Scan(&tsNanos)
	switch {
	case err == nil:
		s.lastTS = time.Unix(0, tsNanos).UTC()
	case err != sql.ErrNoRows:
		_ = db.Close()
		return nil, fmt.Errorf("error reading last ledger entry: %w", err)
	}

	log.WithField("file", dbPath).Debug("Opened SQLite ledger store")
	return s, nil
}

// Append inserts the entry in a single statement; the assigned rowid is the
// entry's ID. Timestamps that would run backwards are clamped to the last
// committed one under the lock, keeping time order aligned with ID order.
func (s *SQLiteStore) Append(entry models.LedgerEntry) (models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.Timestamp = entry.Timestamp.UTC()
	if entry.Timestamp.Before(s.lastTS) {
		entry.Timestamp = s.lastTS
	}

	res, err := s.db.Exec(
		`INSERT INTO entries (ts_ns, description, category, amount, type, truncated)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		entry.Timestamp.UnixNano(),
		entry.Description,
		entry.Category,
		entry.Amount.StringFixed(2),
		entry.Type,
		entry.Truncated,
	)
	if err != nil {
		return models.LedgerEntry{}, &ledgererror.PersistenceError{Op: "append", Err: err}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return models.LedgerEntry{}, &ledgererror.PersistenceError{Op: "append", Err: err}
	}
	entry.ID = id
	s.lastTS = entry.Timestamp

	log.WithFields(map[string]interface{}{
		"id":       id,
		"type":     entry.Type,
		"category": entry.Category,
		"amount":   entry.Amount.StringFixed(2),
	}).Info("Appended ledger entry")

	return entry, nil
}

// ReadAll returns every entry ordered by id, which is append order.
func (s *SQLiteStore) ReadAll() ([]models.LedgerEntry, error) {
	return s.query(`SELECT id, ts_ns, description, category, amount, type, truncated
		FROM entries ORDER BY id`)
}

// ReadRange returns entries with start <= timestamp <= end, in append order.
func (s *SQLiteStore) ReadRange(start, end time.Time) ([]models.LedgerEntry, error) {
	return s.query(`SELECT id, ts_ns, description, category, amount, type, truncated
		FROM entries WHERE ts_ns >= ? AND ts_ns <= ? ORDER BY id`,
		start.UTC().UnixNano(), end.UTC().UnixNano())
}

// Close closes the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) query(q string, args ...interface{}) ([]models.LedgerEntry, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, &ledgererror.PersistenceError{Op: "read", Err: err}
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.WithError(err).Warn("Failed to close result rows")
		}
	}()

	var entries []models.LedgerEntry
	for rows.Next() {
		var (
			entry     models.LedgerEntry
			tsNanos   int64
			amountStr string
		)
		if err := rows.Scan(&entry.ID, &tsNanos, &entry.Description, &entry.Category,
			&amountStr, &entry.Type, &entry.Truncated); err != nil {
			return nil, &ledgererror.PersistenceError{Op: "read", Err: err}
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return nil, &ledgererror.PersistenceError{Op: "read", Err: fmt.Errorf("bad amount %q: %w", amountStr, err)}
		}
		entry.Timestamp = time.Unix(0, tsNanos).UTC()
		entry.Amount = amount
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, &ledgererror.PersistenceError{Op: "read", Err: err}
	}
	return entries, nil
}
