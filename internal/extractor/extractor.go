// Package extractor wraps the external natural-language extraction oracle.
// The adapter's only job is to turn raw text into an untrusted
// CandidateRecord; it performs no validation beyond syntactic shape and
// never touches the ledger. All failures are transient-by-default
// ExtractionErrors the caller may retry.
package extractor

import (
	"context"

	"finlog/internal/models"
)

// Extractor is the boundary to the extraction oracle.
type Extractor interface {
	// Extract returns the oracle's best-effort structured guess for rawText,
	// or a *ledgererror.ExtractionError when the oracle is unreachable,
	// times out, or returns output that cannot be parsed.
	Extract(ctx context.Context, rawText string) (models.CandidateRecord, error)
}
