package documents

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/legalens/internal/application/analysis"
	"github.com/bryanwahyu/legalens/internal/application/recommend"
	"github.com/bryanwahyu/legalens/internal/application/search"
	"github.com/bryanwahyu/legalens/internal/domain/findings"
)

// echoSummarizer turns each analyzed page text into one finding per call,
// numbering calls so re-analysis is observable.
type echoSummarizer struct {
	calls int
}

func (s *echoSummarizer) Initialize(ctx context.Context) error { return nil }

func (s *echoSummarizer) Summarize(ctx context.Context, text, instructions string) (string, error) {
	s.calls++
	return fmt.Sprintf("* warning %s run %d", text, s.calls), nil
}

type memoryStore struct {
	keys []string
	data [][]byte
}

func (m *memoryStore) UploadBytes(ctx context.Context, data []byte, key, contentType string) (string, error) {
	m.keys = append(m.keys, key)
	m.data = append(m.data, data)
	return "http://store.local/" + key, nil
}

func newTestDocs(t *testing.T, stub *echoSummarizer, store *memoryStore) *Service {
	t.Helper()
	analyzer := analysis.NewService(stub, "instructions")
	analyzer.Sleep = func(ctx context.Context, d time.Duration) error { return nil }
	require.NoError(t, analyzer.Init(context.Background()))

	var svc *Service
	if store != nil {
		svc = NewService(analyzer, recommend.NewEngine(), store)
	} else {
		svc = NewService(analyzer, recommend.NewEngine(), nil)
	}
	return svc
}

func TestCreateGetDelete(t *testing.T) {
	svc := newTestDocs(t, &echoSummarizer{}, nil)

	sess := svc.Create("contract.pdf", []string{"page one", "page two"})
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, 2, sess.PageCount)

	got, err := svc.Get(sess.ID)
	require.NoError(t, err)
	assert.Same(t, sess, got)

	require.NoError(t, svc.Delete(sess.ID))
	_, err = svc.Get(sess.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, svc.Delete(sess.ID), ErrSessionNotFound)
}

func TestAnalyzePage_CachesResult(t *testing.T) {
	stub := &echoSummarizer{}
	svc := newTestDocs(t, stub, nil)
	sess := svc.Create("doc", []string{"alpha clause"})

	first, err := svc.AnalyzePage(context.Background(), sess.ID, 1, false)
	require.NoError(t, err)
	second, err := svc.AnalyzePage(context.Background(), sess.ID, 1, false)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, stub.calls)
}

func TestAnalyzePage_ForceReplacesCacheAndReindexes(t *testing.T) {
	stub := &echoSummarizer{}
	svc := newTestDocs(t, stub, nil)
	sess := svc.Create("doc", []string{"alpha clause"})

	first, err := svc.AnalyzePage(context.Background(), sess.ID, 1, false)
	require.NoError(t, err)
	second, err := svc.AnalyzePage(context.Background(), sess.ID, 1, true)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, 2, stub.calls)

	// the index only resolves the replacement findings
	hits, err := svc.Search(sess.ID, "alpha")
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, second.Findings[0].ID, hits[0].ID)
}

func TestAnalyzePage_PageOutOfRange(t *testing.T) {
	svc := newTestDocs(t, &echoSummarizer{}, nil)
	sess := svc.Create("doc", []string{"only page"})

	_, err := svc.AnalyzePage(context.Background(), sess.ID, 2, false)
	assert.ErrorIs(t, err, ErrPageOutOfRange)
	_, err = svc.AnalyzePage(context.Background(), sess.ID, 0, false)
	assert.ErrorIs(t, err, ErrPageOutOfRange)
}

func TestCachedResult(t *testing.T) {
	svc := newTestDocs(t, &echoSummarizer{}, nil)
	sess := svc.Create("doc", []string{"page"})

	_, err := svc.CachedResult(sess.ID, 1)
	assert.ErrorIs(t, err, ErrPageNotAnalyzed)

	res, err := svc.AnalyzePage(context.Background(), sess.ID, 1, false)
	require.NoError(t, err)

	cached, err := svc.CachedResult(sess.ID, 1)
	require.NoError(t, err)
	assert.Same(t, res, cached)
}

func TestSearchAndFilterAcrossPages(t *testing.T) {
	svc := newTestDocs(t, &echoSummarizer{}, nil)
	sess := svc.Create("doc", []string{"payment deadline", "payment terms"})

	_, err := svc.AnalyzePage(context.Background(), sess.ID, 1, false)
	require.NoError(t, err)
	_, err = svc.AnalyzePage(context.Background(), sess.ID, 2, false)
	require.NoError(t, err)

	hits, err := svc.Search(sess.ID, "payment")
	require.NoError(t, err)
	assert.Len(t, hits, 2)

	fs, err := svc.Filter(sess.ID, search.Filter{Text: "deadline"})
	require.NoError(t, err)
	require.Len(t, fs, 1)
	assert.Equal(t, 1, fs[0].PageNumber)
}

func TestActionItems_CategoryRoundTrip(t *testing.T) {
	svc := newTestDocs(t, &echoSummarizer{}, nil)
	sess := svc.Create("doc", []string{"critical breach", "vague wording"})

	_, err := svc.AnalyzePage(context.Background(), sess.ID, 1, false)
	require.NoError(t, err)
	_, err = svc.AnalyzePage(context.Background(), sess.ID, 2, false)
	require.NoError(t, err)

	items, err := svc.ActionItems(sess.ID, 0)
	require.NoError(t, err)
	require.Len(t, items, 2)

	// filtering action items by category matches filtering findings directly
	criticalFindings, err := svc.Filter(sess.ID, search.Filter{Category: findings.CategoryCritical})
	require.NoError(t, err)

	var criticalItems []findings.FindingID
	for _, it := range items {
		if it.Category == findings.CategoryCritical {
			criticalItems = append(criticalItems, it.ID)
		}
	}
	require.Len(t, criticalFindings, len(criticalItems))
	assert.Equal(t, criticalFindings[0].ID, criticalItems[0])
}

func TestReportAndExport(t *testing.T) {
	store := &memoryStore{}
	svc := newTestDocs(t, &echoSummarizer{}, store)
	sess := svc.Create("contract.pdf", []string{"critical breach", "second page"})

	_, err := svc.AnalyzePage(context.Background(), sess.ID, 1, false)
	require.NoError(t, err)

	report, err := svc.Report(sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "contract.pdf", report.DocumentName)
	assert.Equal(t, 2, report.PagesTotal)
	assert.Equal(t, 1, report.PagesAnalyzed)
	assert.Equal(t, 1, report.Totals[findings.CategoryCritical])

	url, err := svc.ExportReport(context.Background(), sess.ID)
	require.NoError(t, err)
	assert.Contains(t, url, "reports/"+sess.ID+"/")
	require.Len(t, store.data, 1)
	assert.Contains(t, string(store.data[0]), "contract.pdf")
}

func TestExportReport_Unconfigured(t *testing.T) {
	svc := newTestDocs(t, &echoSummarizer{}, nil)
	sess := svc.Create("doc", []string{"page"})

	_, err := svc.ExportReport(context.Background(), sess.ID)
	assert.ErrorIs(t, err, ErrExportUnavailable)
}
