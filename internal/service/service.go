// Package service wires the pipeline together and exposes the boundary
// operations a surrounding system (a chat dispatcher, a CLI) calls:
// LogEntry, GetSummary and GetBreakdown.
package service

import (
	"context"
	"time"

	"finlog/internal/aggregate"
	"finlog/internal/extractor"
	"finlog/internal/ledger"
	"finlog/internal/models"
	"finlog/internal/normalizer"
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

// Service runs the ingestion pipeline over a ledger store. Each inbound
// text is one independent unit of work: extract, normalize, append. The
// extraction call happens before any store interaction, so network I/O
// never suspends while holding the store's lock.
type Service struct {
	extractor extractor.Extractor
	store     ledger.Store
	taxonomy  taxonomy.Taxonomy
	now       func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithClock overrides the commit-time source. Tests use it to pin
// timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New creates a Service over the given collaborators.
func New(ext extractor.Extractor, store ledger.Store, tax taxonomy.Taxonomy, opts ...Option) *Service {
	s := &Service{
		extractor: ext,
		store:     store,
		taxonomy:  tax,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LogEntry runs rawText through the full pipeline and returns the committed
// entry. Any failure (extraction, rejection or persistence) leaves the
// ledger and its aggregates untouched and surfaces as the typed error from
// the failing stage.
func (s *Service) LogEntry(ctx context.Context, rawText string) (models.LedgerEntry, error) {
	candidate, err := s.extractor.Extract(ctx, rawText)
	if err != nil {
		return models.LedgerEntry{}, err
	}

	entry, err := normalizer.Normalize(candidate, rawText, s.now(), s.taxonomy)
	if err != nil {
		log.WithError(err).WithField("text", rawText).Debug("Candidate rejected")
		return models.LedgerEntry{}, err
	}

	committed, err := s.store.Append(entry)
	if err != nil {
		return models.LedgerEntry{}, err
	}

	return committed, nil
}

// GetSummary computes the totals view over the whole ledger.
func (s *Service) GetSummary(_ context.Context) (aggregate.Summary, error) {
	entries, err := s.store.ReadAll()
	if err != nil {
		return aggregate.Summary{}, err
	}
	return aggregate.Summarize(entries), nil
}

// GetBreakdown computes the month-by-category view over the whole ledger.
func (s *Service) GetBreakdown(_ context.Context) ([]aggregate.MonthGroup, error) {
	entries, err := s.store.ReadAll()
	if err != nil {
		return nil, err
	}
	return aggregate.BreakdownByMonth(entries), nil
}

// GetRangeSummary computes the totals view over entries recorded within
// [start, end].
func (s *Service) GetRangeSummary(_ context.Context, start, end time.Time) (aggregate.Summary, error) {
	entries, err := s.store.ReadRange(start, end)
	if err != nil {
		return aggregate.Summary{}, err
	}
	return aggregate.Summarize(entries), nil
}
