package domain

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownStatus indicates a batch payload carried a status value outside the
// four known states.
var ErrUnknownStatus = errors.New("unknown batch status")

// NormalizationError indicates a raw batch payload could not be shaped into a
// valid Batch. It is never retried; the payload is simply not displayable.
type NormalizationError struct {
	Reason string
	Err    error
}

// Error implements the error interface.
// Parameters: none.
// Returns:
//   - string: human-readable description of the shape problem.
func (e *NormalizationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("normalize batch: %s: %v", e.Reason, e.Err)
	}
	return "normalize batch: " + e.Reason
}

// Unwrap exposes the underlying cause for errors.Is matching.
// Parameters: none.
// Returns:
//   - error: wrapped cause, may be nil.
func (e *NormalizationError) Unwrap() error {
	return e.Err
}

// NormalizeBatch validates and shapes a raw JSON payload into a Batch.
//
// The payload must carry an id and one of the four known status values.
// Missing documents/results collections default to empty slices: a queued
// batch legitimately has no results yet, so absence means "not yet available",
// not malformed. An ai_detection object without a verdict (the backend emits
// {} before analysis runs) is dropped so downstream code can rely on
// HasAIVerdict.
//
// Parameters:
//   - raw: JSON bytes believed to represent a batch.
//
// Returns:
//   - *Batch: validated batch snapshot.
//   - error: *NormalizationError if the payload is malformed or carries an
//     unknown status (errors.Is ErrUnknownStatus in the latter case).
func NormalizeBatch(raw []byte) (*Batch, error) {
	var b Batch
	if err := json.Unmarshal(raw, &b); err != nil {
		return nil, &NormalizationError{Reason: "invalid JSON", Err: err}
	}
	if b.ID == "" {
		return nil, &NormalizationError{Reason: "missing batch id"}
	}
	if !b.Status.Valid() {
		return nil, &NormalizationError{
			Reason: fmt.Sprintf("status %q", b.Status),
			Err:    ErrUnknownStatus,
		}
	}

	if b.Documents == nil {
		b.Documents = []Document{}
	}
	if b.Results == nil {
		b.Results = []PairResult{}
	}
	for i := range b.Documents {
		if b.Documents[i].AIDetection != nil && b.Documents[i].AIDetection.Verdict == "" {
			b.Documents[i].AIDetection = nil
		}
	}

	return &b, nil
}
