package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
	"time"

	"github.com/Harshitk-cp/tombench/internal/config"
	"github.com/Harshitk-cp/tombench/internal/domain"
	"github.com/Harshitk-cp/tombench/internal/render"
	"github.com/Harshitk-cp/tombench/internal/sim"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrSettingSkipped  = errors.New("setting skipped")
	ErrNoFalseBelief   = errors.New("no false belief occurred")
	ErrBeliefsResolved = errors.New("every false belief was resolved")

	ErrCatalogTooSmall   = errors.New("world catalog too small for setting")
	ErrNoStructure       = errors.New("no initial structure allows a move")
	ErrAttemptsExhausted = errors.New("no story accepted")
)

// Skip reasons recorded on a batch.
const (
	SkipCatalogTooSmall = "configuration-insufficient"
	SkipNoStructure     = "no-valid-structure"
	SkipPoolTooSmall    = "pool-insufficient"
)

type GeneratorService struct {
	logger *zap.Logger
}

func NewGeneratorService(logger *zap.Logger) *GeneratorService {
	return &GeneratorService{logger: logger}
}

// NewRand returns the single random source of a batch. A zero seed is
// replaced by a time-based one; the seed actually used is returned.
func NewRand(seed uint64) (*rand.Rand, uint64) {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return rand.New(rand.NewPCG(seed, seed>>32|seed<<32)), seed
}

// GenerateStory builds one candidate story. It fails with
// sim.ErrPlanUnrealizable, ErrNoFalseBelief or ErrBeliefsResolved when the
// attempt does not yield a story whose false belief survives to the end.
func (s *GeneratorService) GenerateStory(ctx context.Context, rng *rand.Rand, world domain.WorldDefinition, setting domain.Setting, structure domain.Structure, plan domain.Plan) (*domain.Story, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	layout, err := sim.SampleLayout(rng, world, setting, structure)
	if err != nil {
		return nil, err
	}
	initial, err := sim.NewWorldState(layout)
	if err != nil {
		return nil, err
	}
	run, err := sim.NewRealizer(rng).Realize(initial, plan)
	if err != nil {
		return nil, err
	}
	if !run.HasFalseBelief() {
		return nil, ErrNoFalseBelief
	}
	intervals := sim.TrackPersistence(run.Log)
	if !sim.HasUnresolved(intervals) {
		return nil, ErrBeliefsResolved
	}
	return StoryFromRun(setting.Label, layout, run, intervals), nil
}

// StoryFromRun renders a finished run into a story.
func StoryFromRun(setting string, layout domain.Layout, run *sim.Run, intervals []domain.PersistenceInterval) *domain.Story {
	log := slices.Clone(run.Log)
	for i := range log {
		log[i].Event = render.Event(log[i].Action)
	}
	initial := render.InitialState(layout)
	full := slices.Clone(initial)
	for _, step := range log {
		full = append(full, step.Event)
	}
	return &domain.Story{
		ID:                     uuid.New(),
		Setting:                setting,
		HasFalseBelief:         run.HasFalseBelief(),
		Layout:                 layout,
		InitialState:           initial,
		SimulationLog:          log,
		ActionSequence:         slices.Clone(run.Plan),
		FullStory:              full,
		FalseBeliefPersistence: intervals,
	}
}

// GenerateBatch runs every setting of cfg. Settings that cannot fill their
// pool are recorded in Batch.Skipped rather than failing the batch. The only
// errors are an invalid config and context cancellation.
func (s *GeneratorService) GenerateBatch(ctx context.Context, world domain.WorldDefinition, cfg config.BatchConfig) (*domain.Batch, []domain.Story, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("batch config: %w", err)
	}
	rng, seed := NewRand(cfg.Seed)
	batch := &domain.Batch{
		ID:           uuid.New(),
		Seed:         seed,
		Distribution: make(map[string]domain.SettingDistribution),
	}
	s.logger.Info("batch started",
		zap.String("batch_id", batch.ID.String()),
		zap.Uint64("seed", seed),
		zap.Int("settings", len(cfg.Settings)))

	var stories []domain.Story
	for _, setting := range cfg.Settings {
		sampled, err := s.generateSetting(ctx, rng, world, setting, cfg, batch)
		if errors.Is(err, ErrSettingSkipped) {
			continue
		}
		if err != nil {
			return nil, nil, err
		}
		for i := range sampled {
			sampled[i].InstanceIndex = len(stories) + 1
			sampled[i].BatchID = &batch.ID
			stories = append(stories, sampled[i])
		}
		batch.Distribution[setting.Label] = Distribution(sampled)
	}
	batch.StoryCount = len(stories)

	s.logger.Info("batch finished",
		zap.String("batch_id", batch.ID.String()),
		zap.Int("stories", len(stories)),
		zap.Int("skipped_settings", len(batch.Skipped)))
	return batch, stories, nil
}

func (s *GeneratorService) generateSetting(ctx context.Context, rng *rand.Rand, world domain.WorldDefinition, setting domain.Setting, cfg config.BatchConfig, batch *domain.Batch) ([]domain.Story, error) {
	logger := s.logger.With(zap.String("setting", setting.Label))

	if !world.Covers(setting) {
		logger.Warn("catalog too small for setting, skipping")
		batch.Skipped = append(batch.Skipped, domain.SkippedSetting{Setting: setting.Label, Reason: SkipCatalogTooSmall})
		return nil, ErrSettingSkipped
	}
	structures := sim.ValidStructures(setting.Agents, setting.Containers, setting.Locations)
	if len(structures) == 0 {
		logger.Warn("no initial structure allows a move, skipping")
		batch.Skipped = append(batch.Skipped, domain.SkippedSetting{Setting: setting.Label, Reason: SkipNoStructure})
		return nil, ErrSettingSkipped
	}

	target := cfg.PerSequenceTarget()
	var pool []domain.Story
	for _, plan := range cfg.Sequences {
		stats := domain.YieldStats{Setting: setting.Label, Sequence: plan.String()}
		for stats.Accepted < target && stats.Attempts < cfg.MaxAttemptsPerSequence {
			story, err := s.attempt(ctx, rng, world, setting, structures, plan, &stats)
			if err != nil {
				return nil, err
			}
			if story != nil {
				pool = append(pool, *story)
			}
		}
		stats.AttemptCeilingHit = stats.Accepted < target
		batch.Yield = append(batch.Yield, stats)

		if stats.AttemptCeilingHit {
			logger.Warn("attempt ceiling reached",
				zap.String("sequence", stats.Sequence),
				zap.Int("accepted", stats.Accepted),
				zap.Int("target", target))
		} else {
			logger.Debug("sequence filled",
				zap.String("sequence", stats.Sequence),
				zap.Int("attempts", stats.Attempts))
		}
	}

	if len(pool) < cfg.MinPool {
		logger.Warn("story pool below minimum, skipping",
			zap.Int("pool", len(pool)),
			zap.Int("min_pool", cfg.MinPool))
		batch.Skipped = append(batch.Skipped, domain.SkippedSetting{Setting: setting.Label, Reason: SkipPoolTooSmall, Pool: len(pool)})
		return nil, ErrSettingSkipped
	}

	sampled := make([]domain.Story, cfg.SampleSize)
	for i, idx := range rng.Perm(len(pool))[:cfg.SampleSize] {
		sampled[i] = pool[idx]
	}
	logger.Info("setting sampled", zap.Int("pool", len(pool)), zap.Int("sampled", len(sampled)))
	return sampled, nil
}

// attempt draws a structure and tries once to realize plan, recording the
// outcome in stats. A rejected candidate yields (nil, nil).
func (s *GeneratorService) attempt(ctx context.Context, rng *rand.Rand, world domain.WorldDefinition, setting domain.Setting, structures []domain.Structure, plan domain.Plan, stats *domain.YieldStats) (*domain.Story, error) {
	stats.Attempts++
	st := structures[rng.IntN(len(structures))]
	story, err := s.GenerateStory(ctx, rng, world, setting, st, plan)
	switch {
	case err == nil:
		stats.Accepted++
		return story, nil
	case errors.Is(err, sim.ErrPlanUnrealizable):
		stats.Unrealizable++
	case errors.Is(err, ErrNoFalseBelief):
		stats.NoFalseBelief++
	case errors.Is(err, ErrBeliefsResolved):
		stats.AllResolved++
	default:
		return nil, err
	}
	return nil, nil
}

// GenerateOne retries GenerateStory with fresh layouts until a story is
// accepted or maxAttempts candidates were rejected, in which case the error
// wraps ErrAttemptsExhausted.
func (s *GeneratorService) GenerateOne(ctx context.Context, rng *rand.Rand, world domain.WorldDefinition, setting domain.Setting, plan domain.Plan, maxAttempts int) (*domain.Story, domain.YieldStats, error) {
	stats := domain.YieldStats{Setting: setting.Label, Sequence: plan.String()}
	if !world.Covers(setting) {
		return nil, stats, fmt.Errorf("%w: %s", ErrCatalogTooSmall, setting.Label)
	}
	structures := sim.ValidStructures(setting.Agents, setting.Containers, setting.Locations)
	if len(structures) == 0 {
		return nil, stats, fmt.Errorf("%w: %s", ErrNoStructure, setting.Label)
	}
	for stats.Attempts < maxAttempts {
		story, err := s.attempt(ctx, rng, world, setting, structures, plan, &stats)
		if err != nil {
			return nil, stats, err
		}
		if story != nil {
			return story, stats, nil
		}
	}
	stats.AttemptCeilingHit = true
	return nil, stats, fmt.Errorf("%w after %d attempts", ErrAttemptsExhausted, stats.Attempts)
}

// Distribution counts which plans a set of stories realized, most frequent first.
func Distribution(stories []domain.Story) domain.SettingDistribution {
	counts := make(map[string]int)
	for _, st := range stories {
		counts[st.ActionSequence.String()]++
	}
	out := domain.SettingDistribution{TotalSamples: len(stories)}
	for seq, n := range counts {
		out.Distribution = append(out.Distribution, domain.SequenceCount{
			Sequence:   seq,
			Count:      n,
			Percentage: fmt.Sprintf("%.1f%%", float64(n)/float64(len(stories))*100),
		})
	}
	slices.SortFunc(out.Distribution, func(a, b domain.SequenceCount) int {
		return cmp.Or(cmp.Compare(b.Count, a.Count), cmp.Compare(a.Sequence, b.Sequence))
	})
	return out
}
