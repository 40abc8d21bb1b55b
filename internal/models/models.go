// Package models provides the data structures used throughout the application.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entry types
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// DescriptionMaxLen is the upper bound on a committed description.
// Longer descriptions are truncated and flagged, never rejected.
const DescriptionMaxLen = 256

// LedgerEntry is one canonical financial record. It is immutable once
// committed: the store assigns ID and nothing mutates it afterwards.
// Amount is always strictly positive; direction is carried by Type.
// Persisted forms are defined by each store backend, not here.
type LedgerEntry struct {
	ID          int64
	Timestamp   time.Time
	Description string
	Category    string
	Amount      decimal.Decimal
	Type        string
	Truncated   bool
}

// IsIncome reports whether the entry adds to the balance.
func (e LedgerEntry) IsIncome() bool {
	return e.Type == TypeIncome
}

// Month returns the entry's timestamp truncated to its UTC calendar month,
// formatted as "2006-01". Aggregation groups on this key.
func (e LedgerEntry) Month() string {
	return e.Timestamp.UTC().Format("2006-01")
}

// CandidateRecord is the extraction oracle's best-effort guess for one
// inbound message. Every field is optional and untrusted: Amount may carry
// currency symbols, separators or a sign; Category may be free text; Type
// may be absent or arbitrary. A candidate is consumed exactly once by the
// normalizer and never persisted.
type CandidateRecord struct {
	Description string `json:"description"`
	Category    string `json:"category"`
	Amount      string `json:"amount"`
	Type        string `json:"type"`
}
