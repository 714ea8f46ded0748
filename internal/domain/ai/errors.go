package ai

import (
	"errors"
	"fmt"
)

// ErrNotInitialized indicates the summarization backend is unavailable or
// was never initialized; surfaced to the caller, never retried.
var ErrNotInitialized = errors.New("summarizer not initialized")

// ErrInvalidInput indicates the page text is missing or blank; fails fast.
var ErrInvalidInput = errors.New("invalid page text")

// ErrEmptyResponse indicates the backend returned no usable text; retried.
var ErrEmptyResponse = errors.New("empty summarizer response")

// ErrNoFindings indicates the summary parsed to zero findings; retried.
var ErrNoFindings = errors.New("no findings in summary")

// ErrQuotaExceeded indicates the AI provider returned a quota/limit error (HTTP 429 or similar).
var ErrQuotaExceeded = errors.New("ai quota exceeded")

// AnalysisFailedError wraps the last underlying failure after the retry
// budget is exhausted, annotated with the total attempts made.
type AnalysisFailedError struct {
	Attempts int
	Err      error
}

func (e *AnalysisFailedError) Error() string {
	return fmt.Sprintf("analysis failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *AnalysisFailedError) Unwrap() error { return e.Err }
