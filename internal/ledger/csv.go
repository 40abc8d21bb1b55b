package ledger

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"finlog/internal/ledgererror"
	"finlog/internal/models"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
)

// csvRow is the persisted shape of one entry. The header row this struct
// describes defines the column order; the file is append-only.
type csvRow struct {
	ID          int64  `csv:"id"`
	Timestamp   string `csv:"timestamp"`
	Description string `csv:"description"`
	Category    string `csv:"category"`
	Amount      string `csv:"amount"`
	Type        string `csv:"type"`
	Truncated   bool   `csv:"truncated"`
}

const csvTimeLayout = time.RFC3339Nano

// CSVStore is a ledger backed by a header-described CSV file, one row per
// entry. Existing rows are loaded at open so ID assignment continues across
// restarts; committed entries are also kept in memory so reads never touch
// the file again.
type CSVStore struct {
	mu      sync.Mutex
	file    *os.File
	path    string
	entries []models.LedgerEntry
	lastID  int64
	lastTS  time.Time
}

// OpenCSVStore opens (or creates) the ledger file at path. A fresh file
// gets its header row immediately so the layout is self-describing from the
// first byte.
func OpenCSVStore(path string) (*CSVStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return nil, fmt.Errorf("error creating ledger directory: %w", err)
	}

	s := &CSVStore{path: path}

	existing, err := os.ReadFile(path)
	switch {
	case err == nil && len(bytes.TrimSpace(existing)) > 0:
		var rows []csvRow
		if err := gocsv.UnmarshalBytes(existing, &rows); err != nil {
			return nil, fmt.Errorf("error parsing ledger file %s: %w", path, err)
		}
		for _, row := range rows {
			entry, err := row.toEntry()
			if err != nil {
				return nil, fmt.Errorf("corrupt ledger row id=%d in %s: %w", row.ID, path, err)
			}
			s.entries = append(s.entries, entry)
			if entry.ID > s.lastID {
				s.lastID = entry.ID
			}
			if entry.Timestamp.After(s.lastTS) {
				s.lastTS = entry.Timestamp
			}
		}
	case err != nil && !os.IsNotExist(err):
		return nil, fmt.Errorf("error reading ledger file: %w", err)
	}

	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("error opening ledger file: %w", err)
	}
	s.file = file

	if len(s.entries) == 0 && len(bytes.TrimSpace(existing)) == 0 {
		if err := s.writeHeader(); err != nil {
			_ = file.Close()
			return nil, err
		}
	}

	log.WithFields(map[string]interface{}{
		"file":    path,
		"entries": len(s.entries),
	}).Debug("Opened CSV ledger store")

	return s, nil
}

// Append serializes the entry as a single CSV record and writes it in one
// call, so a medium failure never leaves a partial row behind. The ID and,
// if it would run backwards, the timestamp are assigned under the lock:
// append order, ID order and time order never disagree.
func (s *CSVStore) Append(entry models.LedgerEntry) (models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry.ID = s.lastID + 1
	entry.Timestamp = entry.Timestamp.UTC()
	if entry.Timestamp.Before(s.lastTS) {
		entry.Timestamp = s.lastTS
	}

	var buf bytes.Buffer
	w := gocsv.NewSafeCSVWriter(csv.NewWriter(&buf))
	if err := gocsv.MarshalCSVWithoutHeaders([]csvRow{rowFromEntry(entry)}, w); err != nil {
		return models.LedgerEntry{}, &ledgererror.PersistenceError{Op: "append", Err: err}
	}

	if _, err := s.file.Write(buf.Bytes()); err != nil {
		return models.LedgerEntry{}, &ledgererror.PersistenceError{Op: "append", Err: err}
	}

	s.lastID = entry.ID
	s.lastTS = entry.Timestamp
	s.entries = append(s.entries, entry)

	log.WithFields(map[string]interface{}{
		"id":       entry.ID,
		"type":     entry.Type,
		"category": entry.Category,
		"amount":   entry.Amount.StringFixed(2),
	}).Info("Appended ledger entry")

	return entry, nil
}

// ReadAll returns a snapshot copy of every entry in append order.
func (s *CSVStore) ReadAll() ([]models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.LedgerEntry, len(s.entries))
	copy(out, s.entries)
	return out, nil
}

// ReadRange returns entries with start <= timestamp <= end, in append order.
func (s *CSVStore) ReadRange(start, end time.Time) ([]models.LedgerEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.LedgerEntry
	for _, entry := range s.entries {
		if inRange(entry.Timestamp, start, end) {
			out = append(out, entry)
		}
	}
	return out, nil
}

// Close flushes and closes the underlying file.
func (s *CSVStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

// writeHeader emits the header row gocsv derives from csvRow's tags, so the
// struct stays the single source of the column layout.
func (s *CSVStore) writeHeader() error {
	var buf bytes.Buffer
	w := gocsv.NewSafeCSVWriter(csv.NewWriter(&buf))
	if err := gocsv.MarshalCSV([]csvRow{}, w); err != nil {
		return fmt.Errorf("error writing ledger header: %w", err)
	}
	if _, err := s.file.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("error writing ledger header: %w", err)
	}
	return nil
}

func rowFromEntry(entry models.LedgerEntry) csvRow {
	return csvRow{
		ID:          entry.ID,
		Timestamp:   entry.Timestamp.UTC().Format(csvTimeLayout),
		Description: entry.Description,
		Category:    entry.Category,
		Amount:      entry.Amount.StringFixed(2),
		Type:        entry.Type,
		Truncated:   entry.Truncated,
	}
}

func (r csvRow) toEntry() (models.LedgerEntry, error) {
	ts, err := time.Parse(csvTimeLayout, r.Timestamp)
	if err != nil {
		return models.LedgerEntry{}, fmt.Errorf("bad timestamp %q: %w", r.Timestamp, err)
	}
	amount, err := decimal.NewFromString(r.Amount)
	if err != nil {
		return models.LedgerEntry{}, fmt.Errorf("bad amount %q: %w", r.Amount, err)
	}
	return models.LedgerEntry{
		ID:          r.ID,
		Timestamp:   ts.UTC(),
		Description: r.Description,
		Category:    r.Category,
		Amount:      amount,
		Type:        r.Type,
		Truncated:   r.Truncated,
	}, nil
}
