package service

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"

	"github.com/Harshitk-cp/tombench/internal/domain"
	"github.com/Harshitk-cp/tombench/internal/render"
	"github.com/Harshitk-cp/tombench/internal/sim"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type QAService struct {
	logger *zap.Logger
}

func NewQAService(logger *zap.Logger) *QAService {
	return &QAService{logger: logger}
}

// Build replays a story's structured actions and samples one question per
// category from the result.
func (s *QAService) Build(rng *rand.Rand, story *domain.Story) (*domain.QASet, error) {
	initial, err := sim.NewWorldState(story.Layout)
	if err != nil {
		return nil, fmt.Errorf("story %d: %w", story.InstanceIndex, err)
	}
	run, err := sim.Replay(initial, story.Actions())
	if err != nil {
		return nil, fmt.Errorf("story %d: %w", story.InstanceIndex, err)
	}
	q := newQASet(rng, run, story.InstanceIndex, story.Setting, story.FullStory)
	q.StoryID = story.ID
	return q, nil
}

// BuildAll builds a QA set per story and returns per-category counts.
// It stops at the first story that cannot be replayed.
func (s *QAService) BuildAll(ctx context.Context, rng *rand.Rand, stories []domain.Story) ([]domain.QASet, map[domain.QACategory]int, error) {
	sets := make([]domain.QASet, 0, len(stories))
	counts := make(map[domain.QACategory]int)
	for i := range stories {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		q, err := s.Build(rng, &stories[i])
		if err != nil {
			return nil, nil, err
		}
		tally(counts, q)
		sets = append(sets, *q)
	}
	s.logger.Info("qa sets built", zap.Int("stories", len(stories)), zap.Any("per_category", counts))
	return sets, counts, nil
}

// BuildLegacy reconstructs stories that only exist as text. rooms is the
// catalog's location list. Any sentence outside the story grammar fails the
// whole call with render.ErrMalformedSentence.
func (s *QAService) BuildLegacy(ctx context.Context, rng *rand.Rand, stories []domain.LegacyStory, rooms []string) ([]domain.QASet, map[domain.QACategory]int, error) {
	sets := make([]domain.QASet, 0, len(stories))
	counts := make(map[domain.QACategory]int)
	for _, st := range stories {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}
		run, err := replayLegacy(st, rooms)
		if err != nil {
			return nil, nil, fmt.Errorf("story %d: %w", st.InstanceIndex, err)
		}
		q := newQASet(rng, run, st.InstanceIndex, st.Setting, st.FullStory)
		tally(counts, q)
		sets = append(sets, *q)
	}
	s.logger.Info("legacy qa sets built", zap.Int("stories", len(stories)), zap.Any("per_category", counts))
	return sets, counts, nil
}

func replayLegacy(st domain.LegacyStory, rooms []string) (*sim.Run, error) {
	layout, err := render.ParseInitialState(st.InitialState, rooms)
	if err != nil {
		return nil, err
	}
	actions := make([]domain.Action, len(st.SimulationLog))
	for i, step := range st.SimulationLog {
		a, err := render.ParseEvent(step.Event)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", step.Step, err)
		}
		actions[i] = a
		// Exits may lead into a room the description never mentions.
		if a.Kind == domain.ActionExitEnter && slices.Contains(rooms, a.To) && !slices.Contains(layout.Locations, a.To) {
			layout.Locations = append(layout.Locations, a.To)
		}
	}
	initial, err := sim.NewWorldState(layout)
	if err != nil {
		return nil, err
	}
	return sim.Replay(initial, actions)
}

func newQASet(rng *rand.Rand, run *sim.Run, index int, setting string, story []string) *domain.QASet {
	probes := sim.Elicit(run).Sample(rng)
	q := &domain.QASet{
		ID:            uuid.New(),
		InstanceIndex: index,
		Setting:       setting,
		FullStory:     story,
		Pairs:         make(map[domain.QACategory][]domain.QAPair, len(probes)),
		Probes:        probes,
	}
	for cat, p := range probes {
		q.Pairs[cat] = []domain.QAPair{render.Pair(p)}
	}
	return q
}

func tally(counts map[domain.QACategory]int, q *domain.QASet) {
	for cat, pairs := range q.Pairs {
		if len(pairs) > 0 {
			counts[cat]++
		}
	}
}
