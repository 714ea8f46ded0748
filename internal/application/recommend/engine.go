package recommend

import (
	"sort"
	"strings"

	"github.com/bryanwahyu/legalens/internal/domain/findings"
)

// Recommendation is one suggested remediation for a finding.
type Recommendation struct {
	Title      string  `json:"title"`
	Suggestion string  `json:"suggestion"`
	Example    string  `json:"example"`
	Relevance  float64 `json:"relevance"`
}

// ActionItem is a finding enriched with ranked recommendations and a
// priority used to order remediation work.
type ActionItem struct {
	ID              findings.FindingID `json:"id"`
	Text            string             `json:"text"`
	Category        findings.Category  `json:"category"`
	Recommendations []Recommendation   `json:"recommendations"`
	Priority        float64            `json:"priority"`
}

type rule struct {
	keyword string
	title   string
	suggest string
	example string
}

// Topic rules, matched as substrings against lower-cased finding text.
// Kept as an ordered slice so output order is deterministic.
var rules = []rule{
	{"vague language", "Clarify Ambiguous Terms",
		"Replace vague terms with specific, measurable criteria",
		`Instead of "reasonable time", specify "within 30 business days"`},
	{"data privacy", "Enhance Data Protection",
		"Add specific data handling and protection clauses",
		"Include GDPR compliance measures and data breach notification procedures"},
	{"liability", "Address Liability Concerns",
		"Clearly define liability limits and responsibilities",
		"Specify maximum liability amounts and excluded scenarios"},
	{"termination", "Clarify Termination Terms",
		"Define clear termination conditions and procedures",
		"Include notice periods and post-termination obligations"},
	{"payment", "Specify Payment Terms",
		"Add detailed payment conditions and schedules",
		"Define payment deadlines, late fees, and accepted payment methods"},
	{"compliance", "Ensure Regulatory Compliance",
		"Add relevant compliance clauses",
		"Reference specific regulations and compliance requirements"},
	{"intellectual property", "Protect Intellectual Property",
		"Add IP protection clauses",
		"Define ownership, usage rights, and confidentiality terms"},
}

// Engine maps finding text to remediation suggestions via the fixed topic
// rule table. Stateless and safe for concurrent use.
type Engine struct{}

func NewEngine() *Engine { return &Engine{} }

// Recommend returns recommendations for a finding text, descending by
// relevance. With no topic match it falls back to a generic suggestion
// keyed on severity wording; text matching neither yields an empty list.
func (e *Engine) Recommend(findingText string) []Recommendation {
	lower := strings.ToLower(findingText)

	var recs []Recommendation
	for _, r := range rules {
		if strings.Contains(lower, r.keyword) {
			recs = append(recs, Recommendation{
				Title:      r.title,
				Suggestion: r.suggest,
				Example:    r.example,
				Relevance:  relevance(lower),
			})
		}
	}

	if len(recs) == 0 {
		if strings.Contains(lower, "critical") || strings.Contains(lower, "severe") {
			recs = append(recs, Recommendation{
				Title:      "Address Critical Issue",
				Suggestion: "Review and revise this clause with legal counsel",
				Example:    "Consider potential legal implications and risks",
				Relevance:  1.0,
			})
		} else if strings.Contains(lower, "warning") {
			recs = append(recs, Recommendation{
				Title:      "Review Potential Risk",
				Suggestion: "Evaluate and clarify the terms",
				Example:    "Add specific definitions or examples where needed",
				Relevance:  0.8,
			})
		}
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Relevance > recs[j].Relevance
	})
	return recs
}

// ActionItems builds prioritized action items from findings, descending by
// priority. Ties keep insertion order (stable sort).
func (e *Engine) ActionItems(fs []findings.Finding) []ActionItem {
	items := make([]ActionItem, 0, len(fs))
	for _, f := range fs {
		recs := e.Recommend(f.Text)
		items = append(items, ActionItem{
			ID:              f.ID,
			Text:            f.Text,
			Category:        f.Category,
			Recommendations: recs,
			Priority:        priority(f.Category, recs),
		})
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Priority > items[j].Priority
	})
	return items
}

// relevance scores how strongly a recommendation applies to the text:
// 0.5 base, boosted by severity and urgency wording, capped at 1.0.
func relevance(lower string) float64 {
	r := 0.5
	if strings.Contains(lower, "critical") || strings.Contains(lower, "severe") {
		r += 0.3
	}
	if strings.Contains(lower, "immediate") || strings.Contains(lower, "urgent") {
		r += 0.2
	}
	if strings.Contains(lower, "recommend") || strings.Contains(lower, "suggest") {
		r += 0.1
	}
	if r > 1.0 {
		r = 1.0
	}
	return r
}

func priority(c findings.Category, recs []Recommendation) float64 {
	base := 1.0
	switch c {
	case findings.CategoryCritical:
		base = 3.0
	case findings.CategoryWarning:
		base = 2.0
	}

	maxRelevance := 0.0
	for _, r := range recs {
		if r.Relevance > maxRelevance {
			maxRelevance = r.Relevance
		}
	}
	return base * (1 + maxRelevance)
}
