package ai

import "context"

// Summarizer port (interface for the external summarization backend).
// Initialize must succeed once before Summarize is used; Summarize may be
// slow, return empty output, or fail entirely. The caller owns retries.
type Summarizer interface {
	Initialize(ctx context.Context) error
	Summarize(ctx context.Context, text, instructions string) (string, error)
}
