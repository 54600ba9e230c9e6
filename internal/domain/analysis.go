package domain

// PatternCount is how many stories share one room pattern.
type PatternCount struct {
	Pattern string `json:"pattern"`
	Count   int    `json:"count"`
}

type SkippedStories struct {
	Count           int   `json:"count"`
	InstanceIndices []int `json:"instance_indices"`
}

// PatternDistribution groups the stories of one setting by initial room pattern.
// Specific patterns are listed per parent category, most frequent first.
type PatternDistribution struct {
	Setting        string                    `json:"setting"`
	TotalStories   int                       `json:"total_stories_in_setting"`
	Categorized    int                       `json:"processed_and_categorized"`
	Skipped        int                       `json:"skipped_stories"`
	ParentCounts   map[string]int            `json:"pattern_category_distribution"`
	SpecificCounts map[string][]PatternCount `json:"specific_pattern_distribution"`
	SkippedReport  map[string]SkippedStories `json:"skipped_stories_report"`
}

// PercentAccuracy adds a display percentage such as "66.7%".
type PercentAccuracy struct {
	Accuracy
	Percent string `json:"accuracy_percent"`
}

type PatternAccuracy struct {
	Pattern    string                         `json:"pattern"`
	StoryCount int                            `json:"story_count"`
	Overall    PercentAccuracy                `json:"overall"`
	ByCategory map[QACategory]PercentAccuracy `json:"by_category"`
}

// AccuracyReport breaks evaluation accuracy down by room pattern, ordered by
// story count.
type AccuracyReport struct {
	Setting    string            `json:"setting"`
	ByParent   []PatternAccuracy `json:"summary_by_parent_category"`
	BySpecific []PatternAccuracy `json:"detailed_by_specific_pattern"`
}
