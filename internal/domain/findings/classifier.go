package findings

import "strings"

// Keyword sets checked in priority order: critical first, then warning,
// then info. The first set with a substring match wins.
var categoryKeywords = []struct {
	category Category
	keywords []string
}{
	{CategoryCritical, []string{
		"critical",
		"severe",
		"major",
		"significant risk",
		"dangerous",
		"immediate action",
		"legal violation",
		"non-compliant",
		"breach",
		"illegal",
	}},
	{CategoryWarning, []string{
		"warning",
		"caution",
		"potential risk",
		"unclear",
		"vague",
		"ambiguous",
		"consider reviewing",
		"may be problematic",
		"potentially unfair",
	}},
	{CategoryInfo, []string{
		"note",
		"consider",
		"may",
		"might",
		"suggestion",
		"recommendation",
		"best practice",
	}},
}

// Classify assigns a severity category to a finding text by keyword match.
// Unmatched text defaults to warning so unclassified findings stay visible
// rather than sinking into info.
func Classify(text string) Category {
	lower := strings.ToLower(text)
	for _, set := range categoryKeywords {
		for _, kw := range set.keywords {
			if strings.Contains(lower, kw) {
				return set.category
			}
		}
	}
	return CategoryWarning
}
