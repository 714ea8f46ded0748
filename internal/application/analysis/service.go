package analysis

import (
	"context"
	"regexp"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/legalens/internal/application"
	"github.com/bryanwahyu/legalens/internal/domain/ai"
	"github.com/bryanwahyu/legalens/internal/domain/findings"
)

const (
	defaultMaxRetries = 3
	defaultRetryDelay = time.Second
)

// Leading bullet markers produced by the summarizer's key-point output.
var bulletPrefix = regexp.MustCompile(`^[*\-•]+\s*`)

// Service turns raw page text into classified, risk-scored findings.
// It owns the retry/backoff policy around the unreliable summarizer.
// Safe for concurrent use across pages.
type Service struct {
	Summarizer   ai.Summarizer
	Clock        application.Clock
	Instructions string

	// MaxRetries additional attempts after the first; delay before retry
	// n is RetryDelay * n (linear backoff).
	MaxRetries int
	RetryDelay time.Duration

	// Sleep is the backoff wait, injectable for tests.
	Sleep func(ctx context.Context, d time.Duration) error

	ready atomic.Bool
}

// NewService builds an orchestrator with the default retry policy.
func NewService(summarizer ai.Summarizer, instructions string) *Service {
	return &Service{
		Summarizer:   summarizer,
		Clock:        application.SystemClock{},
		Instructions: instructions,
		MaxRetries:   defaultMaxRetries,
		RetryDelay:   defaultRetryDelay,
		Sleep:        sleepContext,
	}
}

// Init checks the backend capability once at startup. Analyze calls fail
// with ErrNotInitialized until this has succeeded.
func (s *Service) Init(ctx context.Context) error {
	if err := s.Summarizer.Initialize(ctx); err != nil {
		return err
	}
	s.ready.Store(true)
	return nil
}

// Ready reports whether the backend capability has been initialized.
func (s *Service) Ready() bool { return s.ready.Load() }

// AnalyzePage analyzes one page of extracted text. On success the result
// carries RetryCount, the number of retries consumed (0 on first-attempt
// success). After exhausting retries the last error is surfaced wrapped in
// AnalysisFailedError with the total attempt count.
func (s *Service) AnalyzePage(ctx context.Context, pageText string) (*findings.AnalysisResult, error) {
	if !s.ready.Load() {
		return nil, ai.ErrNotInitialized
	}
	if strings.TrimSpace(pageText) == "" {
		return nil, ai.ErrInvalidInput
	}

	var lastErr error
	for attempt := 0; attempt <= s.MaxRetries; attempt++ {
		if attempt > 0 {
			if err := s.Sleep(ctx, s.RetryDelay*time.Duration(attempt)); err != nil {
				return nil, err
			}
		}
		result, err := s.attempt(ctx, pageText, attempt)
		if err != nil {
			lastErr = err
			continue
		}
		return result, nil
	}
	return nil, &ai.AnalysisFailedError{Attempts: s.MaxRetries + 1, Err: lastErr}
}

func (s *Service) attempt(ctx context.Context, pageText string, retryCount int) (*findings.AnalysisResult, error) {
	summary, err := s.Summarizer.Summarize(ctx, pageText, s.Instructions)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(summary) == "" {
		return nil, ai.ErrEmptyResponse
	}

	fs := parseFindings(summary)
	// Zero parsed findings is treated as a failed attempt, not a clean
	// document: key-point output virtually never comes back truly empty.
	if len(fs) == 0 {
		return nil, ai.ErrNoFindings
	}

	return &findings.AnalysisResult{
		Findings:     fs,
		RiskAnalysis: findings.ScoreRisk(fs),
		Timestamp:    s.Clock.Now().UTC(),
		RetryCount:   retryCount,
	}, nil
}

// parseFindings splits a summary blob into one finding per non-blank line,
// stripping bullet markers and classifying each line.
func parseFindings(summary string) []findings.Finding {
	var fs []findings.Finding
	for _, line := range strings.Split(summary, "\n") {
		text := strings.TrimSpace(bulletPrefix.ReplaceAllString(strings.TrimSpace(line), ""))
		if text == "" {
			continue
		}
		fs = append(fs, findings.Finding{
			ID:       findings.FindingID(uuid.New().String()),
			Text:     text,
			Category: findings.Classify(text),
		})
	}
	return fs
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
