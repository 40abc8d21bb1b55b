// Package ledger provides the append-only store of canonical entries.
// The store is the single source of truth and the only shared mutable
// resource in the system: the sole mutation is Append, appends are
// serialized so ID assignment is race-free, and reads return snapshot
// copies so they can run concurrently with appends.
package ledger

import (
	"time"

	"finlog/internal/models"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger allows setting a custom logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// Store is the append-only ledger. Implementations assign strictly
// increasing IDs at append time and preserve append order on reads; there
// is no update and no delete. A failed Append surfaces as a
// *ledgererror.PersistenceError and is considered not to have happened.
type Store interface {
	// Append persists the entry and returns the committed form: the store
	// assigns the ID and, when the entry's timestamp precedes the last
	// committed one, clamps it forward so timestamps stay non-decreasing
	// in append order.
	Append(entry models.LedgerEntry) (models.LedgerEntry, error)

	// ReadAll returns every entry in append order, which is also
	// chronological order of recording.
	ReadAll() ([]models.LedgerEntry, error)

	// ReadRange returns the entries whose timestamps fall within
	// [start, end], inclusive on both bounds, in append order.
	ReadRange(start, end time.Time) ([]models.LedgerEntry, error)

	// Close releases the storage medium.
	Close() error
}

func inRange(ts, start, end time.Time) bool {
	return !ts.Before(start) && !ts.After(end)
}
