package search

import (
	"sort"
	"strings"

	"github.com/bryanwahyu/legalens/internal/domain/findings"
)

// Filter is a structured findings query. Zero-valued fields are wildcards;
// supplied fields must all match.
type Filter struct {
	Category  findings.Category
	RiskLevel string // "high", "medium" or "low"
	Text      string // case-insensitive substring
}

// FilterFindings walks all cached results in page order and returns the
// findings matching every supplied criterion.
func FilterFindings(results map[int]*findings.AnalysisResult, filter Filter) []PageFinding {
	pages := make([]int, 0, len(results))
	for p := range results {
		pages = append(pages, p)
	}
	sort.Ints(pages)

	var out []PageFinding
	for _, page := range pages {
		for _, f := range results[page].Findings {
			if !matches(f, filter) {
				continue
			}
			out = append(out, PageFinding{
				PageNumber: page,
				ID:         f.ID,
				Text:       f.Text,
				Category:   f.Category,
			})
		}
	}
	return out
}

func matches(f findings.Finding, filter Filter) bool {
	if filter.Category != "" && f.Category != filter.Category {
		return false
	}
	if filter.RiskLevel != "" && CategoryRiskLevel(f.Category) != filter.RiskLevel {
		return false
	}
	if filter.Text != "" && !strings.Contains(strings.ToLower(f.Text), strings.ToLower(filter.Text)) {
		return false
	}
	return true
}

// CategoryRiskLevel maps a severity category onto the coarse risk level
// used by filtering: critical->high, warning->medium, info->low.
func CategoryRiskLevel(c findings.Category) string {
	switch c {
	case findings.CategoryCritical:
		return "high"
	case findings.CategoryInfo:
		return "low"
	default:
		return "medium"
	}
}
