package extractor

import (
	"context"
	"fmt"

	"finlog/internal/ledgererror"
	"finlog/internal/models"
)

// Scripted is an Extractor that replays canned candidates keyed by raw
// text. It exists so the pipeline can be exercised without network access.
type Scripted struct {
	Candidates map[string]models.CandidateRecord
	Err        error
}

// Extract returns the scripted candidate for rawText, the scripted error
// if one is set, or an ExtractionError for unknown inputs.
func (s *Scripted) Extract(_ context.Context, rawText string) (models.CandidateRecord, error) {
	if s.Err != nil {
		return models.CandidateRecord{}, &ledgererror.ExtractionError{RawText: rawText, Err: s.Err}
	}
	candidate, ok := s.Candidates[rawText]
	if !ok {
		return models.CandidateRecord{}, &ledgererror.ExtractionError{
			RawText: rawText,
			Err:     fmt.Errorf("no scripted candidate"),
		}
	}
	return candidate, nil
}
