package search

import (
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/bryanwahyu/legalens/internal/domain/findings"
)

var nonWord = regexp.MustCompile(`[^\w\s]`)

// PageFinding is a finding annotated with its source page.
type PageFinding struct {
	PageNumber int                `json:"pageNumber"`
	ID         findings.FindingID `json:"id"`
	Text       string             `json:"text"`
	Category   findings.Category  `json:"category"`
}

// ScoredFinding is a search hit with query relevance in [0,1].
type ScoredFinding struct {
	PageFinding
	Relevance float64 `json:"relevance"`
}

// Engine holds the inverted word index over findings for one document
// session: word -> page number -> set of finding IDs. Entries are only
// removed by ClearPage; a new document gets a fresh engine. Safe for
// concurrent use.
type Engine struct {
	mu    sync.RWMutex
	index map[string]map[int]map[findings.FindingID]struct{}
}

func NewEngine() *Engine {
	return &Engine{index: make(map[string]map[int]map[findings.FindingID]struct{})}
}

// Tokenize lower-cases, strips punctuation, splits on whitespace and drops
// tokens of length <= 2.
func Tokenize(text string) []string {
	cleaned := nonWord.ReplaceAllString(strings.ToLower(text), "")
	var tokens []string
	for _, w := range strings.Fields(cleaned) {
		if len(w) > 2 {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// Index adds the findings of one page to the index. Additive: reindexing a
// page does not drop prior entries, call ClearPage first when replacing a
// page's findings.
func (e *Engine) Index(pageNumber int, fs []findings.Finding) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, f := range fs {
		for _, word := range Tokenize(f.Text) {
			pages, ok := e.index[word]
			if !ok {
				pages = make(map[int]map[findings.FindingID]struct{})
				e.index[word] = pages
			}
			ids, ok := pages[pageNumber]
			if !ok {
				ids = make(map[findings.FindingID]struct{})
				pages[pageNumber] = ids
			}
			ids[f.ID] = struct{}{}
		}
	}
}

// ClearPage removes every index entry pointing at the given page, so a
// re-analyzed page never leaves stale finding IDs behind.
func (e *Engine) ClearPage(pageNumber int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for word, pages := range e.index {
		delete(pages, pageNumber)
		if len(pages) == 0 {
			delete(e.index, word)
		}
	}
}

// Search resolves query tokens against the index and the supplied results
// map, scoring each hit by the fraction of query tokens present in the
// finding's own text. Results are sorted by descending relevance; ties
// keep page order then insertion order (stable).
func (e *Engine) Search(query string, results map[int]*findings.AnalysisResult) []ScoredFinding {
	queryWords := Tokenize(query)
	if len(queryWords) == 0 {
		return nil
	}

	type hit struct {
		page int
		id   findings.FindingID
	}
	seen := make(map[hit]struct{})
	var hits []hit

	e.mu.RLock()
	for _, word := range queryWords {
		pages, ok := e.index[word]
		if !ok {
			continue
		}
		for page, ids := range pages {
			for id := range ids {
				h := hit{page, id}
				if _, dup := seen[h]; dup {
					continue
				}
				seen[h] = struct{}{}
				hits = append(hits, h)
			}
		}
	}
	e.mu.RUnlock()

	// Deterministic base order before the relevance sort.
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].page != hits[j].page {
			return hits[i].page < hits[j].page
		}
		return hits[i].id < hits[j].id
	})

	var scored []ScoredFinding
	for _, h := range hits {
		f, ok := lookup(results, h.page, h.id)
		if !ok {
			continue
		}
		scored = append(scored, ScoredFinding{
			PageFinding: PageFinding{
				PageNumber: h.page,
				ID:         f.ID,
				Text:       f.Text,
				Category:   f.Category,
			},
			Relevance: relevance(f.Text, queryWords),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Relevance > scored[j].Relevance
	})
	return scored
}

func lookup(results map[int]*findings.AnalysisResult, page int, id findings.FindingID) (findings.Finding, bool) {
	res, ok := results[page]
	if !ok {
		return findings.Finding{}, false
	}
	for _, f := range res.Findings {
		if f.ID == id {
			return f, true
		}
	}
	return findings.Finding{}, false
}

// relevance = matched query tokens / total query tokens.
func relevance(text string, queryWords []string) float64 {
	words := make(map[string]struct{})
	for _, w := range Tokenize(text) {
		words[w] = struct{}{}
	}
	matched := 0
	for _, q := range queryWords {
		if _, ok := words[q]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(queryWords))
}
