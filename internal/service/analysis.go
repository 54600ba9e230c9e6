package service

import (
	"cmp"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Harshitk-cp/tombench/internal/domain"
	"go.uber.org/zap"
)

const SkipCountMismatch = "entity-count-mismatch"

type AnalysisService struct {
	logger *zap.Logger
}

func NewAnalysisService(logger *zap.Logger) *AnalysisService {
	return &AnalysisService{logger: logger}
}

// RoomPattern describes a layout room by room: "A" per agent, "C" per
// container and "O" per object, padded with empty rooms to the location
// count, sorted and joined with "/". The parent pattern keeps only agents,
// largest group first, e.g. "AA/A/".
func RoomPattern(l domain.Layout) (specific, parent string) {
	type contents struct{ a, c, o int }
	rooms := make(map[string]*contents)
	at := func(loc string) *contents {
		if rooms[loc] == nil {
			rooms[loc] = &contents{}
		}
		return rooms[loc]
	}
	for _, loc := range l.AgentLocations {
		at(loc).a++
	}
	for _, loc := range l.ContainerLocations {
		at(loc).c++
	}
	for _, container := range l.ObjectLocations {
		at(l.ContainerLocations[container]).o++
	}

	var parts []string
	var agents []int
	for _, c := range rooms {
		parts = append(parts, strings.Repeat("A", c.a)+strings.Repeat("C", c.c)+strings.Repeat("O", c.o))
		if c.a > 0 {
			agents = append(agents, c.a)
		}
	}
	for len(parts) < len(l.Locations) {
		parts = append(parts, "")
	}
	slices.Sort(parts)

	slices.Sort(agents)
	slices.Reverse(agents)
	parentParts := make([]string, 0, len(l.Locations))
	for _, n := range agents {
		parentParts = append(parentParts, strings.Repeat("A", n))
	}
	for len(parentParts) < len(l.Locations) {
		parentParts = append(parentParts, "")
	}
	return strings.Join(parts, "/"), strings.Join(parentParts, "/")
}

func matchesSetting(st domain.Story, setting domain.Setting) bool {
	return len(st.Layout.AgentLocations) == setting.Agents &&
		len(st.Layout.ObjectLocations) == setting.Objects &&
		len(st.Layout.ContainerLocations) == setting.Containers
}

// PatternDistribution counts the initial room patterns of the stories of one setting.
func (s *AnalysisService) PatternDistribution(stories []domain.Story, setting domain.Setting) domain.PatternDistribution {
	out := domain.PatternDistribution{
		Setting:        setting.Label,
		ParentCounts:   make(map[string]int),
		SpecificCounts: make(map[string][]domain.PatternCount),
		SkippedReport:  make(map[string]domain.SkippedStories),
	}
	specific := make(map[string]map[string]int)

	for _, st := range stories {
		if st.Setting != setting.Label {
			continue
		}
		out.TotalStories++
		if !matchesSetting(st, setting) {
			r := out.SkippedReport[SkipCountMismatch]
			r.Count++
			r.InstanceIndices = append(r.InstanceIndices, st.InstanceIndex)
			out.SkippedReport[SkipCountMismatch] = r
			out.Skipped++
			continue
		}
		pattern, parent := RoomPattern(st.Layout)
		out.Categorized++
		out.ParentCounts[parent]++
		if specific[parent] == nil {
			specific[parent] = make(map[string]int)
		}
		specific[parent][pattern]++
	}

	for parent, counts := range specific {
		rows := make([]domain.PatternCount, 0, len(counts))
		for p, n := range counts {
			rows = append(rows, domain.PatternCount{Pattern: p, Count: n})
		}
		slices.SortFunc(rows, func(a, b domain.PatternCount) int {
			return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.Pattern, b.Pattern))
		})
		out.SpecificCounts[parent] = rows
	}
	for reason, r := range out.SkippedReport {
		slices.Sort(r.InstanceIndices)
		out.SkippedReport[reason] = r
	}

	s.logger.Debug("pattern distribution",
		zap.String("setting", setting.Label),
		zap.Int("categorized", out.Categorized),
		zap.Int("skipped", out.Skipped))
	return out
}

type patternTally struct {
	stories    map[int]bool
	overall    domain.Accuracy
	byCategory map[domain.QACategory]*domain.Accuracy
}

func (t *patternTally) add(r domain.EvaluationResult) {
	t.stories[r.InstanceIndex] = true
	t.overall.Add(r.IsCorrect)
	acc := t.byCategory[r.Category]
	if acc == nil {
		acc = &domain.Accuracy{}
		t.byCategory[r.Category] = acc
	}
	acc.Add(r.IsCorrect)
}

// PatternAccuracy joins evaluation results to stories by instance index and
// reports accuracy per parent and per specific room pattern.
func (s *AnalysisService) PatternAccuracy(stories []domain.Story, results []domain.EvaluationResult, setting domain.Setting) domain.AccuracyReport {
	type patterns struct{ specific, parent string }
	byIndex := make(map[int]patterns)
	for _, st := range stories {
		if st.Setting != setting.Label || !matchesSetting(st, setting) {
			continue
		}
		sp, pa := RoomPattern(st.Layout)
		byIndex[st.InstanceIndex] = patterns{sp, pa}
	}

	specific := make(map[string]*patternTally)
	parent := make(map[string]*patternTally)
	tallyFor := func(m map[string]*patternTally, key string) *patternTally {
		if m[key] == nil {
			m[key] = &patternTally{stories: make(map[int]bool), byCategory: make(map[domain.QACategory]*domain.Accuracy)}
		}
		return m[key]
	}
	for _, r := range results {
		p, ok := byIndex[r.InstanceIndex]
		if !ok {
			continue
		}
		tallyFor(specific, p.specific).add(r)
		tallyFor(parent, p.parent).add(r)
	}

	return domain.AccuracyReport{
		Setting:    setting.Label,
		ByParent:   accuracyRows(parent),
		BySpecific: accuracyRows(specific),
	}
}

func withPercent(a domain.Accuracy) domain.PercentAccuracy {
	return domain.PercentAccuracy{Accuracy: a, Percent: fmt.Sprintf("%.1f%%", a.Accuracy*100)}
}

func accuracyRows(m map[string]*patternTally) []domain.PatternAccuracy {
	rows := make([]domain.PatternAccuracy, 0, len(m))
	for _, key := range slices.Sorted(maps.Keys(m)) {
		t := m[key]
		row := domain.PatternAccuracy{
			Pattern:    key,
			StoryCount: len(t.stories),
			Overall:    withPercent(t.overall),
			ByCategory: make(map[domain.QACategory]domain.PercentAccuracy, len(t.byCategory)),
		}
		for cat, acc := range t.byCategory {
			row.ByCategory[cat] = withPercent(*acc)
		}
		rows = append(rows, row)
	}
	slices.SortStableFunc(rows, func(a, b domain.PatternAccuracy) int {
		return cmp.Compare(b.StoryCount, a.StoryCount)
	})
	return rows
}
