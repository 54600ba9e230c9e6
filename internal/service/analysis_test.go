package service

import (
	"testing"

	"github.com/Harshitk-cp/tombench/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var a3 = domain.Setting{Label: "A3_O3_C3", Agents: 3, Objects: 3, Containers: 3, Locations: 3}

// allTogether: every agent and container in R1, objects spread over two containers.
func allTogether() domain.Layout {
	return domain.Layout{
		Locations:          []string{"R1", "R2", "R3"},
		AgentLocations:     map[string]string{"A1": "R1", "A2": "R1", "A3": "R1"},
		ContainerLocations: map[string]string{"C1": "R1", "C2": "R1", "C3": "R1"},
		ObjectLocations:    map[string]string{"O1": "C1", "O2": "C1", "O3": "C2"},
	}
}

// split: two agents with two containers in R1, one agent with a container in R2.
func split() domain.Layout {
	return domain.Layout{
		Locations:          []string{"R1", "R2", "R3"},
		AgentLocations:     map[string]string{"A1": "R1", "A2": "R1", "A3": "R2"},
		ContainerLocations: map[string]string{"C1": "R1", "C2": "R1", "C3": "R2"},
		ObjectLocations:    map[string]string{"O1": "C1", "O2": "C3", "O3": "C3"},
	}
}

func TestRoomPattern(t *testing.T) {
	tests := []struct {
		name           string
		layout         domain.Layout
		specific, root string
	}{
		{"all together", allTogether(), "//AAACCCOOO", "AAA//"},
		{"split", split(), "/AACCO/ACOO", "AA/A/"},
		{"spread", domain.Layout{
			Locations:          []string{"R1", "R2", "R3"},
			AgentLocations:     map[string]string{"A1": "R1", "A2": "R2", "A3": "R3"},
			ContainerLocations: map[string]string{"C1": "R1", "C2": "R1", "C3": "R3"},
			ObjectLocations:    map[string]string{"O1": "C1", "O2": "C1", "O3": "C1"},
		}, "A/AC/ACCOOO", "A/A/A"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			specific, parent := RoomPattern(tt.layout)
			assert.Equal(t, tt.specific, specific)
			assert.Equal(t, tt.root, parent)
		})
	}
}

func TestPatternDistribution(t *testing.T) {
	stories := []domain.Story{
		storyWithLayout(1, "A3_O3_C3", allTogether()),
		storyWithLayout(2, "A3_O3_C3", split()),
		storyWithLayout(3, "A3_O3_C3", split()),
		storyWithLayout(4, "A4_O3_C3", split()),
	}
	bad := split()
	delete(bad.ObjectLocations, "O3")
	stories = append(stories, storyWithLayout(5, "A3_O3_C3", bad))

	got := NewAnalysisService(nopLogger()).PatternDistribution(stories, a3)
	assert.Equal(t, 4, got.TotalStories)
	assert.Equal(t, 3, got.Categorized)
	assert.Equal(t, 1, got.Skipped)
	assert.Equal(t, map[string]int{"AAA//": 1, "AA/A/": 2}, got.ParentCounts)
	assert.Equal(t, []domain.PatternCount{{Pattern: "/AACCO/ACOO", Count: 2}}, got.SpecificCounts["AA/A/"])
	assert.Equal(t, domain.SkippedStories{Count: 1, InstanceIndices: []int{5}}, got.SkippedReport[SkipCountMismatch])
}

func TestPatternAccuracy(t *testing.T) {
	stories := []domain.Story{
		storyWithLayout(1, "A3_O3_C3", allTogether()),
		storyWithLayout(2, "A3_O3_C3", split()),
		storyWithLayout(3, "A3_O3_C3", split()),
	}
	results := []domain.EvaluationResult{
		{InstanceIndex: 1, Category: domain.QAFalseBelief1, IsCorrect: true},
		{InstanceIndex: 2, Category: domain.QAFalseBelief1, IsCorrect: false},
		{InstanceIndex: 2, Category: domain.QAMemory, IsCorrect: true},
		{InstanceIndex: 3, Category: domain.QAFalseBelief1, IsCorrect: true},
		{InstanceIndex: 99, Category: domain.QAMemory, IsCorrect: true},
	}

	report := NewAnalysisService(nopLogger()).PatternAccuracy(stories, results, a3)
	require.Len(t, report.ByParent, 2)

	top := report.ByParent[0]
	assert.Equal(t, "AA/A/", top.Pattern)
	assert.Equal(t, 2, top.StoryCount)
	assert.Equal(t, 2, top.Overall.Correct)
	assert.Equal(t, 3, top.Overall.Total)
	assert.Equal(t, "66.7%", top.Overall.Percent)
	assert.Equal(t, "50.0%", top.ByCategory[domain.QAFalseBelief1].Percent)
	assert.Equal(t, "100.0%", top.ByCategory[domain.QAMemory].Percent)

	assert.Equal(t, "AAA//", report.ByParent[1].Pattern)
	assert.Equal(t, 1, report.ByParent[1].StoryCount)

	require.Len(t, report.BySpecific, 2)
	assert.Equal(t, "/AACCO/ACOO", report.BySpecific[0].Pattern)
}
