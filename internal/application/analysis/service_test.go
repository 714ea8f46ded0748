package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/legalens/internal/domain/ai"
	"github.com/bryanwahyu/legalens/internal/domain/findings"
)

// stubSummarizer returns scripted responses in order; the last entry
// repeats once the script is exhausted.
type stubSummarizer struct {
	script []response
	calls  int
}

type response struct {
	text string
	err  error
}

func (s *stubSummarizer) Initialize(ctx context.Context) error { return nil }

func (s *stubSummarizer) Summarize(ctx context.Context, text, instructions string) (string, error) {
	i := s.calls
	if i >= len(s.script) {
		i = len(s.script) - 1
	}
	s.calls++
	r := s.script[i]
	return r.text, r.err
}

func newTestService(t *testing.T, stub *stubSummarizer) (*Service, *[]time.Duration) {
	t.Helper()
	var delays []time.Duration
	svc := NewService(stub, "analyze this")
	svc.Sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	require.NoError(t, svc.Init(context.Background()))
	return svc, &delays
}

const summary = `* Critical breach of data privacy obligations
* Payment terms are vague and unclear

* Note: notice period is 30 days`

func TestAnalyzePage_ParsesAndClassifies(t *testing.T) {
	svc, _ := newTestService(t, &stubSummarizer{script: []response{{text: summary}}})

	res, err := svc.AnalyzePage(context.Background(), "some page text")
	require.NoError(t, err)

	require.Len(t, res.Findings, 3)
	assert.Equal(t, "Critical breach of data privacy obligations", res.Findings[0].Text)
	assert.Equal(t, findings.CategoryCritical, res.Findings[0].Category)
	assert.Equal(t, findings.CategoryWarning, res.Findings[1].Category)
	assert.Equal(t, findings.CategoryInfo, res.Findings[2].Category)
	assert.Equal(t, 0, res.RetryCount)
	assert.NotZero(t, res.RiskAnalysis.Score)

	// every finding gets a fresh unique id
	seen := map[findings.FindingID]bool{}
	for _, f := range res.Findings {
		assert.NotEmpty(t, f.ID)
		assert.False(t, seen[f.ID])
		seen[f.ID] = true
	}
}

func TestAnalyzePage_RetriesThenSucceeds(t *testing.T) {
	stub := &stubSummarizer{script: []response{
		{err: errors.New("backend hiccup")},
		{text: ""},
		{text: summary},
	}}
	svc, delays := newTestService(t, stub)

	res, err := svc.AnalyzePage(context.Background(), "text")
	require.NoError(t, err)

	assert.Equal(t, 2, res.RetryCount)
	assert.Equal(t, 3, stub.calls)
	// linear backoff: delay before retry n is RetryDelay * n
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second}, *delays)
}

func TestAnalyzePage_ExhaustsRetriesOnEmptyResponse(t *testing.T) {
	stub := &stubSummarizer{script: []response{{text: ""}}}
	svc, delays := newTestService(t, stub)

	_, err := svc.AnalyzePage(context.Background(), "text")

	var failed *ai.AnalysisFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, 4, failed.Attempts)
	assert.ErrorIs(t, err, ai.ErrEmptyResponse)
	assert.Equal(t, 4, stub.calls)
	assert.Equal(t, []time.Duration{1 * time.Second, 2 * time.Second, 3 * time.Second}, *delays)
}

func TestAnalyzePage_ZeroFindingsIsFailure(t *testing.T) {
	// blank lines and bare bullets parse to nothing
	stub := &stubSummarizer{script: []response{{text: "\n* \n  \n"}}}
	svc, _ := newTestService(t, stub)

	_, err := svc.AnalyzePage(context.Background(), "text")
	assert.ErrorIs(t, err, ai.ErrNoFindings)
}

func TestAnalyzePage_InvalidInput(t *testing.T) {
	stub := &stubSummarizer{script: []response{{text: summary}}}
	svc, _ := newTestService(t, stub)

	_, err := svc.AnalyzePage(context.Background(), "   \n ")
	assert.ErrorIs(t, err, ai.ErrInvalidInput)
	assert.Zero(t, stub.calls)
}

func TestAnalyzePage_NotInitialized(t *testing.T) {
	svc := NewService(&stubSummarizer{script: []response{{text: summary}}}, "")

	_, err := svc.AnalyzePage(context.Background(), "text")
	assert.ErrorIs(t, err, ai.ErrNotInitialized)
}

func TestAnalyzePage_ContextCancelledDuringBackoff(t *testing.T) {
	stub := &stubSummarizer{script: []response{{err: errors.New("down")}}}
	svc, _ := newTestService(t, stub)
	svc.Sleep = sleepContext
	svc.RetryDelay = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := svc.AnalyzePage(ctx, "text")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, stub.calls)
}

func TestParseFindings_BulletStripping(t *testing.T) {
	fs := parseFindings("- dash bullet warning\n• dot bullet warning\nplain line warning")
	require.Len(t, fs, 3)
	assert.Equal(t, "dash bullet warning", fs[0].Text)
	assert.Equal(t, "dot bullet warning", fs[1].Text)
	assert.Equal(t, "plain line warning", fs[2].Text)
}
