// Package normalizer is the single validation gate between the untrusted
// CandidateRecord and the canonical LedgerEntry. Untyped oracle output never
// crosses past this package: Normalize either returns a fully populated
// entry or a typed rejection, never anything partial.
package normalizer

import (
	"strings"
	"time"

	"finlog/internal/currencyutils"
	"finlog/internal/ledgererror"
	"finlog/internal/models"
	"finlog/internal/taxonomy"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

// SetLogger allows setting a custom logger
func SetLogger(logger *logrus.Logger) {
	if logger != nil {
		log = logger
	}
}

// incomeCues are type-field values that read as an income signal even when
// the oracle didn't answer with the literal enum value.
var incomeCues = []string{"received", "salary", "credit", "credited", "earning", "earnings"}

var expenseCues = []string{"spent", "debit", "debited", "paid", "purchase"}

// Normalize resolves a candidate record against a taxonomy snapshot into a
// canonical ledger entry.
//
// The amount is resolved first: an unparsable value rejects with
// InvalidAmount, an exact zero with ZeroAmount, and a negative value is
// kept as its absolute value with the sign remembered as an expense
// signal. The type comes from the explicit field when present, then the
// sign signal, then defaults to Expense. An unresolvable category becomes
// Uncategorized and never fails the record. The description is the
// candidate text falling back to rawText, truncated at the length bound;
// if it is empty after trimming the record rejects with EmptyDescription.
// The timestamp is always `now` in UTC; the ledger records when logged,
// not when spent. The ID is left for the store to assign.
func Normalize(candidate models.CandidateRecord, rawText string, now time.Time, tax taxonomy.Taxonomy) (models.LedgerEntry, error) {
	// 1. Amount
	amount, err := currencyutils.ParseAmount(candidate.Amount)
	if err != nil {
		return models.LedgerEntry{}, &ledgererror.RejectionError{
			Reason: ledgererror.InvalidAmount,
			Field:  "amount",
			Value:  candidate.Amount,
		}
	}
	if amount.IsZero() {
		return models.LedgerEntry{}, &ledgererror.RejectionError{
			Reason: ledgererror.ZeroAmount,
			Field:  "amount",
			Value:  candidate.Amount,
		}
	}
	negative := amount.IsNegative()
	amount = amount.Abs().Round(2)

	// 2. Type
	entryType := resolveType(candidate.Type, negative)

	// 3. Category
	category, ok := tax.Resolve(candidate.Category)
	if !ok {
		if strings.TrimSpace(candidate.Category) != "" {
			log.WithField("category", candidate.Category).Debug("Unresolvable category, using Uncategorized")
		}
		category = taxonomy.Uncategorized
	}

	// 4. Description
	description := strings.TrimSpace(candidate.Description)
	if description == "" {
		description = strings.TrimSpace(rawText)
	}
	if description == "" {
		return models.LedgerEntry{}, &ledgererror.RejectionError{
			Reason: ledgererror.EmptyDescription,
			Field:  "description",
			Value:  candidate.Description,
		}
	}
	truncated := false
	if len(description) > models.DescriptionMaxLen {
		description = truncate(description, models.DescriptionMaxLen)
		truncated = true
	}

	// 5. Timestamp: commit time, never a user-claimed date.
	return models.LedgerEntry{
		Timestamp:   now.UTC(),
		Description: description,
		Category:    category,
		Amount:      amount,
		Type:        entryType,
		Truncated:   truncated,
	}, nil
}

// resolveType picks the entry type: the oracle's explicit answer wins, the
// amount's sign is the next signal, cue words after that, and Expense is
// the default.
func resolveType(raw string, negative bool) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	switch value {
	case models.TypeIncome:
		return models.TypeIncome
	case models.TypeExpense:
		return models.TypeExpense
	}
	if negative {
		return models.TypeExpense
	}
	for _, cue := range incomeCues {
		if value == cue {
			return models.TypeIncome
		}
	}
	for _, cue := range expenseCues {
		if value == cue {
			return models.TypeExpense
		}
	}
	return models.TypeExpense
}

// truncate cuts s to at most max bytes without splitting a UTF-8 sequence.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && (s[max]&0xC0) == 0x80 {
		max--
	}
	return strings.TrimSpace(s[:max])
}
