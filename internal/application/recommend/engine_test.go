package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bryanwahyu/legalens/internal/domain/findings"
)

func TestRecommend_TopicMatch(t *testing.T) {
	e := NewEngine()

	recs := e.Recommend("Unlimited liability exposure in clause 4")
	require.Len(t, recs, 1)
	assert.Equal(t, "Address Liability Concerns", recs[0].Title)
	assert.Equal(t, 0.5, recs[0].Relevance)
}

func TestRecommend_MultipleTopicsSortedByRelevance(t *testing.T) {
	e := NewEngine()

	recs := e.Recommend("critical data privacy and payment issues")
	require.Len(t, recs, 2)
	// both topics share the boosted relevance; insertion order holds
	assert.Equal(t, "Enhance Data Protection", recs[0].Title)
	assert.Equal(t, "Specify Payment Terms", recs[1].Title)
	assert.Equal(t, 0.8, recs[0].Relevance)
}

func TestRecommend_RelevanceBoostsCapAtOne(t *testing.T) {
	e := NewEngine()

	recs := e.Recommend("critical liability issue, immediate action suggested")
	require.Len(t, recs, 1)
	assert.Equal(t, 1.0, recs[0].Relevance) // 0.5+0.3+0.2+0.1 capped
}

func TestRecommend_GenericCriticalFallback(t *testing.T) {
	e := NewEngine()

	recs := e.Recommend("severe problem with clause 9")
	require.Len(t, recs, 1)
	assert.Equal(t, "Address Critical Issue", recs[0].Title)
	assert.Equal(t, 1.0, recs[0].Relevance)
}

func TestRecommend_GenericWarningFallback(t *testing.T) {
	e := NewEngine()

	recs := e.Recommend("warning: odd wording")
	require.Len(t, recs, 1)
	assert.Equal(t, "Review Potential Risk", recs[0].Title)
	assert.Equal(t, 0.8, recs[0].Relevance)
}

func TestRecommend_NoMatchIsEmpty(t *testing.T) {
	e := NewEngine()
	assert.Empty(t, e.Recommend("plain descriptive sentence"))
}

func TestActionItems_PriorityOrdering(t *testing.T) {
	e := NewEngine()
	fs := []findings.Finding{
		{ID: "1", Text: "note about notice requirements", Category: findings.CategoryInfo},
		{ID: "2", Text: "critical liability breach", Category: findings.CategoryCritical},
		{ID: "3", Text: "payment schedule is vague", Category: findings.CategoryWarning},
	}

	items := e.ActionItems(fs)
	require.Len(t, items, 3)

	// critical first: 3 * (1 + 0.8) = 5.4
	assert.Equal(t, findings.FindingID("2"), items[0].ID)
	assert.InDelta(t, 5.4, items[0].Priority, 1e-9)
	// warning: 2 * (1 + 0.5) = 3.0
	assert.Equal(t, findings.FindingID("3"), items[1].ID)
	assert.InDelta(t, 3.0, items[1].Priority, 1e-9)
	// info with no recommendations: 1 * (1 + 0) = 1.0
	assert.Equal(t, findings.FindingID("1"), items[2].ID)
	assert.InDelta(t, 1.0, items[2].Priority, 1e-9)
	assert.Empty(t, items[2].Recommendations)
}

func TestActionItems_CategoryPreserved(t *testing.T) {
	e := NewEngine()
	fs := []findings.Finding{
		{ID: "a", Text: "critical compliance gap", Category: findings.CategoryCritical},
		{ID: "b", Text: "minor note", Category: findings.CategoryInfo},
	}

	items := e.ActionItems(fs)

	var criticalIDs []findings.FindingID
	for _, it := range items {
		if it.Category == findings.CategoryCritical {
			criticalIDs = append(criticalIDs, it.ID)
		}
	}
	assert.Equal(t, []findings.FindingID{"a"}, criticalIDs)
}
