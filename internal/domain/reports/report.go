package reports

import (
	"sort"
	"time"

	"github.com/bryanwahyu/legalens/internal/domain/findings"
)

// PageReport groups one page's findings by category for report rendering.
type PageReport struct {
	PageNumber   int                   `json:"pageNumber"`
	RiskAnalysis findings.RiskAnalysis `json:"riskAnalysis"`
	Critical     []findings.Finding    `json:"critical"`
	Warning      []findings.Finding    `json:"warning"`
	Info         []findings.Finding    `json:"info"`
}

// Report is the exportable analysis summary for a document: category
// totals plus per-page findings grouped by category, pages in order.
type Report struct {
	DocumentName  string                    `json:"documentName"`
	GeneratedAt   time.Time                 `json:"generatedAt"`
	PagesTotal    int                       `json:"pagesTotal"`
	PagesAnalyzed int                       `json:"pagesAnalyzed"`
	Totals        map[findings.Category]int `json:"totals"`
	Pages         []PageReport              `json:"pages"`
}

// Build assembles a Report from the cached per-page analysis results.
// Totals always carry all three categories.
func Build(documentName string, pagesTotal int, results map[int]*findings.AnalysisResult, generatedAt time.Time) Report {
	totals := make(map[findings.Category]int, len(findings.Categories))
	for _, c := range findings.Categories {
		totals[c] = 0
	}

	pageNumbers := make([]int, 0, len(results))
	for p := range results {
		pageNumbers = append(pageNumbers, p)
	}
	sort.Ints(pageNumbers)

	pages := make([]PageReport, 0, len(pageNumbers))
	for _, p := range pageNumbers {
		res := results[p]
		pr := PageReport{PageNumber: p, RiskAnalysis: res.RiskAnalysis}
		for _, f := range res.Findings {
			totals[f.Category]++
			switch f.Category {
			case findings.CategoryCritical:
				pr.Critical = append(pr.Critical, f)
			case findings.CategoryWarning:
				pr.Warning = append(pr.Warning, f)
			case findings.CategoryInfo:
				pr.Info = append(pr.Info, f)
			}
		}
		pages = append(pages, pr)
	}

	return Report{
		DocumentName:  documentName,
		GeneratedAt:   generatedAt,
		PagesTotal:    pagesTotal,
		PagesAnalyzed: len(pages),
		Totals:        totals,
		Pages:         pages,
	}
}
