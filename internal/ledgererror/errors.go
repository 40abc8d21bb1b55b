// Package ledgererror defines the typed failures of the logging pipeline.
// Every failure path in the core returns one of these to its caller; the
// core never logs-and-swallows an error internally.
package ledgererror

import "fmt"

// RejectionReason identifies why a candidate record was rejected by the
// normalizer. Rejections are user-input-level: the caller surfaces them
// verbatim for correction, no retry is useful.
type RejectionReason string

const (
	// InvalidAmount means the candidate's amount did not parse as a decimal.
	InvalidAmount RejectionReason = "invalid_amount"
	// ZeroAmount means the amount parsed to exactly zero, which carries no
	// ledger meaning.
	ZeroAmount RejectionReason = "zero_amount"
	// EmptyDescription means neither the candidate nor the raw text yielded
	// a non-empty description after trimming.
	EmptyDescription RejectionReason = "empty_description"
)

// RejectionError reports a candidate record the normalizer refused to turn
// into a ledger entry. No partial entry exists when one is returned.
type RejectionError struct {
	Reason RejectionReason
	Field  string
	Value  string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("rejected: %s (%s=%q)", e.Reason, e.Field, e.Value)
}

// ExtractionError reports a failure of the extraction oracle: unreachable,
// timed out, or returned output that could not be parsed. Transient by
// default; the caller may retry with backoff. The ledger is never touched.
type ExtractionError struct {
	RawText string
	Err     error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %q: %v", e.RawText, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// PersistenceError reports a storage-medium failure. The append it
// interrupted is considered not to have happened.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence failure during %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
