package documents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/legalens/internal/application"
	"github.com/bryanwahyu/legalens/internal/application/analysis"
	"github.com/bryanwahyu/legalens/internal/application/recommend"
	"github.com/bryanwahyu/legalens/internal/application/search"
	"github.com/bryanwahyu/legalens/internal/domain/findings"
	"github.com/bryanwahyu/legalens/internal/domain/reports"
)

var (
	ErrSessionNotFound   = errors.New("document session not found")
	ErrPageOutOfRange    = errors.New("page number out of range")
	ErrPageNotAnalyzed   = errors.New("page has no analysis result")
	ErrExportUnavailable = errors.New("report export store not configured")
)

// Session holds one loaded document: its extracted page texts, the
// per-page analysis result cache and the search index. All state lives in
// memory and disappears with the session.
type Session struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	PageCount int       `json:"pageCount"`
	CreatedAt time.Time `json:"createdAt"`

	pages []string

	mu      sync.RWMutex
	results map[int]*findings.AnalysisResult
	index   *search.Engine
}

// pageText returns the 1-based page's extracted text.
func (s *Session) pageText(page int) (string, error) {
	if page < 1 || page > len(s.pages) {
		return "", fmt.Errorf("%w: %d of %d", ErrPageOutOfRange, page, len(s.pages))
	}
	return s.pages[page-1], nil
}

func (s *Session) cached(page int) (*findings.AnalysisResult, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	res, ok := s.results[page]
	return res, ok
}

// commit replaces the page's cached result and reindexes its findings.
// The page's old index entries are cleared first so the index never points
// at evicted findings. Concurrent analyses of the same page: last write
// wins; de-duplication is the caller's concern.
func (s *Session) commit(page int, res *findings.AnalysisResult) {
	s.mu.Lock()
	s.results[page] = res
	s.mu.Unlock()
	s.index.ClearPage(page)
	s.index.Index(page, res.Findings)
}

// snapshot copies the result map so readers work off a consistent view.
// Results themselves are immutable once cached.
func (s *Session) snapshot() map[int]*findings.AnalysisResult {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := make(map[int]*findings.AnalysisResult, len(s.results))
	for p, r := range s.results {
		snap[p] = r
	}
	return snap
}

// Service implements the document-session use cases: load a document,
// analyze pages on demand, and query the accumulated findings.
// Safe for concurrent use.
type Service struct {
	Analyzer    *analysis.Service
	Recommender *recommend.Engine
	Exports     reports.ArtifactStore
	Clock       application.Clock

	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewService(analyzer *analysis.Service, recommender *recommend.Engine, exports reports.ArtifactStore) *Service {
	return &Service{
		Analyzer:    analyzer,
		Recommender: recommender,
		Exports:     exports,
		Clock:       application.SystemClock{},
		sessions:    make(map[string]*Session),
	}
}

// Create opens a session for a new document from its extracted page texts.
func (s *Service) Create(name string, pages []string) *Session {
	sess := &Session{
		ID:        uuid.New().String(),
		Name:      name,
		PageCount: len(pages),
		CreatedAt: s.Clock.Now().UTC(),
		pages:     pages,
		results:   make(map[int]*findings.AnalysisResult),
		index:     search.NewEngine(),
	}
	s.mu.Lock()
	s.sessions[sess.ID] = sess
	s.mu.Unlock()
	return sess
}

func (s *Service) Get(id string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	return sess, nil
}

// Delete discards a session and everything cached under it.
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(s.sessions, id)
	return nil
}

// AnalyzePage returns the cached result for the page, or runs analysis and
// caches it. force re-runs analysis even when a result is cached.
func (s *Service) AnalyzePage(ctx context.Context, id string, page int, force bool) (*findings.AnalysisResult, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	text, err := sess.pageText(page)
	if err != nil {
		return nil, err
	}
	if !force {
		if res, ok := sess.cached(page); ok {
			return res, nil
		}
	}
	res, err := s.Analyzer.AnalyzePage(ctx, text)
	if err != nil {
		return nil, err
	}
	sess.commit(page, res)
	return res, nil
}

// CachedResult returns the page's cached analysis without triggering one.
func (s *Service) CachedResult(id string, page int) (*findings.AnalysisResult, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if _, err := sess.pageText(page); err != nil {
		return nil, err
	}
	res, ok := sess.cached(page)
	if !ok {
		return nil, ErrPageNotAnalyzed
	}
	return res, nil
}

// Search runs a free-text relevance search over the session's findings.
func (s *Service) Search(id, query string) ([]search.ScoredFinding, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return sess.index.Search(query, sess.snapshot()), nil
}

// Filter returns findings matching the structured criteria across pages.
func (s *Service) Filter(id string, filter search.Filter) ([]search.PageFinding, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	return search.FilterFindings(sess.snapshot(), filter), nil
}

// ActionItems builds prioritized action items from the session's analyzed
// findings; page 0 means all pages, in page order.
func (s *Service) ActionItems(id string, page int) ([]recommend.ActionItem, error) {
	sess, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	snap := sess.snapshot()

	var fs []findings.Finding
	if page != 0 {
		if _, err := sess.pageText(page); err != nil {
			return nil, err
		}
		if res, ok := snap[page]; ok {
			fs = res.Findings
		}
	} else {
		for _, pf := range search.FilterFindings(snap, search.Filter{}) {
			fs = append(fs, findings.Finding{
				ID:       pf.ID,
				Text:     pf.Text,
				Category: pf.Category,
			})
		}
	}
	return s.Recommender.ActionItems(fs), nil
}

// Report assembles the per-category, per-page report for the session.
func (s *Service) Report(id string) (reports.Report, error) {
	sess, err := s.Get(id)
	if err != nil {
		return reports.Report{}, err
	}
	return reports.Build(sess.Name, sess.PageCount, sess.snapshot(), s.Clock.Now().UTC()), nil
}

// ExportReport uploads the report JSON to the artifact store and returns
// the object URL.
func (s *Service) ExportReport(ctx context.Context, id string) (string, error) {
	if s.Exports == nil {
		return "", ErrExportUnavailable
	}
	report, err := s.Report(id)
	if err != nil {
		return "", err
	}
	data, err := json.Marshal(report)
	if err != nil {
		return "", err
	}
	key := fmt.Sprintf("reports/%s/%s.json", id, report.GeneratedAt.Format("20060102T150405Z"))
	return s.Exports.UploadBytes(ctx, data, key, "application/json")
}
