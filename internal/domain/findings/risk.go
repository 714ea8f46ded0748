package findings

import "math"

// Risk scoring weights per category.
var riskWeights = map[Category]int{
	CategoryCritical: 10,
	CategoryWarning:  5,
	CategoryInfo:     1,
}

// Weight returns the risk weight of a category (0 for unknown values).
func Weight(c Category) int {
	return riskWeights[c]
}

// ScoreRisk derives a RiskAnalysis from a finding sequence. Deterministic:
// the same findings always produce the same analysis.
func ScoreRisk(fs []Finding) RiskAnalysis {
	raw := 0
	for _, f := range fs {
		raw += riskWeights[f.Category]
	}

	// Normalize to 0-100
	normalized := math.Min(100, float64(raw)/50*100)
	score := int(math.Round(normalized))

	return RiskAnalysis{
		Score:     score,
		Level:     riskLevel(score),
		Breakdown: riskBreakdown(fs),
	}
}

func riskLevel(score int) RiskLevel {
	switch {
	case score >= 70:
		return RiskHigh
	case score >= 40:
		return RiskMedium
	default:
		return RiskLow
	}
}

func riskBreakdown(fs []Finding) map[Category]CategoryImpact {
	breakdown := make(map[Category]CategoryImpact, len(Categories))
	for _, c := range Categories {
		count := 0
		for _, f := range fs {
			if f.Category == c {
				count++
			}
		}
		breakdown[c] = CategoryImpact{
			Count:  count,
			Impact: count * riskWeights[c],
		}
	}
	return breakdown
}
