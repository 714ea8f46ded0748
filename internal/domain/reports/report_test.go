package reports

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/legalens/internal/domain/findings"
)

func result(categories ...findings.Category) *findings.AnalysisResult {
	fs := make([]findings.Finding, len(categories))
	for i, c := range categories {
		fs[i] = findings.Finding{ID: findings.FindingID(string(rune('a' + i))), Text: "f", Category: c}
	}
	return &findings.AnalysisResult{Findings: fs, RiskAnalysis: findings.ScoreRisk(fs)}
}

func TestBuild_GroupsByCategoryPerPage(t *testing.T) {
	results := map[int]*findings.AnalysisResult{
		3: result(findings.CategoryInfo),
		1: result(findings.CategoryCritical, findings.CategoryWarning, findings.CategoryWarning),
	}

	r := Build("contract.pdf", 5, results, time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC))

	assert.Equal(t, "contract.pdf", r.DocumentName)
	assert.Equal(t, 5, r.PagesTotal)
	assert.Equal(t, 2, r.PagesAnalyzed)
	assert.Equal(t, 1, r.Totals[findings.CategoryCritical])
	assert.Equal(t, 2, r.Totals[findings.CategoryWarning])
	assert.Equal(t, 1, r.Totals[findings.CategoryInfo])

	require.Len(t, r.Pages, 2)
	// pages come out in page order
	assert.Equal(t, 1, r.Pages[0].PageNumber)
	assert.Equal(t, 3, r.Pages[1].PageNumber)
	assert.Len(t, r.Pages[0].Critical, 1)
	assert.Len(t, r.Pages[0].Warning, 2)
	assert.Empty(t, r.Pages[0].Info)
	assert.Len(t, r.Pages[1].Info, 1)
}

func TestBuild_EmptyResults(t *testing.T) {
	r := Build("empty.pdf", 2, nil, time.Now())

	assert.Equal(t, 0, r.PagesAnalyzed)
	assert.Empty(t, r.Pages)
	require.Len(t, r.Totals, 3)
	for _, c := range findings.Categories {
		assert.Zero(t, r.Totals[c])
	}
}
