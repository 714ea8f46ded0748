package findings

import (
	"time"
)

// FindingID identifier type
type FindingID string

// Category enum
type Category string

const (
	CategoryCritical Category = "critical"
	CategoryWarning  Category = "warning"
	CategoryInfo     Category = "info"
)

// Categories in fixed order, used for breakdowns and report grouping.
var Categories = []Category{CategoryCritical, CategoryWarning, CategoryInfo}

// RiskLevel enum
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low Risk"
	RiskMedium RiskLevel = "Medium Risk"
	RiskHigh   RiskLevel = "High Risk"
)

// Finding is a single classified observation extracted from analyzed text.
// Immutable once created within an AnalysisResult.
type Finding struct {
	ID             FindingID `json:"id"`
	Text           string    `json:"text"`
	Category       Category  `json:"category"`
	Recommendation string    `json:"recommendation,omitempty"`
}

// CategoryImpact value object
type CategoryImpact struct {
	Count  int `json:"count"`
	Impact int `json:"impact"`
}

// RiskAnalysis is the aggregate risk derived from a finding sequence.
// Breakdown always carries all three categories, zero counts included.
type RiskAnalysis struct {
	Score     int                         `json:"score"`
	Level     RiskLevel                   `json:"level"`
	Breakdown map[Category]CategoryImpact `json:"breakdown"`
}

// AnalysisResult is the outcome of analyzing one page of document text.
type AnalysisResult struct {
	Findings     []Finding    `json:"findings"`
	RiskAnalysis RiskAnalysis `json:"riskAnalysis"`
	Timestamp    time.Time    `json:"timestamp"`
	RetryCount   int          `json:"retryCount"`
}
