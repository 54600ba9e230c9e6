package sim

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/Harshitk-cp/tombench/internal/domain"
)

var ErrPlanUnrealizable = errors.New("plan unrealizable")

// Run is a finished simulation: N applied actions and the N+1 snapshots they produced.
type Run struct {
	Plan      domain.Plan
	Snapshots []*WorldState
	Actions   []domain.Action
	// Log[i] describes Actions[i] and the false beliefs present in Snapshots[i+1].
	// Event text is left empty; rendering fills it in.
	Log []domain.SimulationStep
}

func (r *Run) Initial() *WorldState { return r.Snapshots[0] }
func (r *Run) Final() *WorldState   { return r.Snapshots[len(r.Snapshots)-1] }

// HasFalseBelief reports whether a false belief was observed at any step.
func (r *Run) HasFalseBelief() bool {
	for _, step := range r.Log {
		if len(step.FalseBeliefsFound) > 0 {
			return true
		}
	}
	return false
}

func (r *Run) append(a domain.Action, next *WorldState) {
	r.Actions = append(r.Actions, a)
	r.Snapshots = append(r.Snapshots, next)
	r.Log = append(r.Log, domain.SimulationStep{
		Step:              len(r.Actions),
		ActionType:        a.Kind,
		Action:            a,
		FalseBeliefsFound: DetectFalseBeliefs(next),
	})
}

// Replay applies a recorded action sequence to initial.
func Replay(initial *WorldState, actions []domain.Action) (*Run, error) {
	run := &Run{Snapshots: []*WorldState{initial}}
	current := initial
	for i, a := range actions {
		next, err := current.Apply(a)
		if err != nil {
			return nil, fmt.Errorf("replay step %d: %w", i+1, err)
		}
		run.Plan = append(run.Plan, a.Kind)
		run.append(a, next)
		current = next
	}
	return run, nil
}

// Realizer turns a plan of action kinds into concrete actions by randomized
// search with one-step lookahead.
type Realizer struct {
	rng *rand.Rand
}

func NewRealizer(rng *rand.Rand) *Realizer {
	return &Realizer{rng: rng}
}

// Realize picks, for each kind in plan, a random legal action that keeps the
// rest of the plan realizable: when a later step still needs a move, the state
// after the candidate must offer at least one legal move. It fails with
// ErrPlanUnrealizable when a step has no legal or no safe candidate; the caller
// is expected to retry from a fresh layout.
func (r *Realizer) Realize(initial *WorldState, plan domain.Plan) (*Run, error) {
	run := &Run{Plan: plan, Snapshots: []*WorldState{initial}}
	current := initial

	for i, kind := range plan {
		candidates := Enumerate(current, kind)
		if len(candidates) == 0 {
			return nil, fmt.Errorf("%w: step %d: no legal %s action", ErrPlanUnrealizable, i+1, kind)
		}
		r.rng.Shuffle(len(candidates), func(a, b int) {
			candidates[a], candidates[b] = candidates[b], candidates[a]
		})

		needsMove := domain.Plan(plan[i+1:]).Contains(domain.ActionMove)
		var (
			chosen domain.Action
			next   *WorldState
		)
		for _, c := range candidates {
			tentative, err := current.Apply(c)
			if err != nil {
				return nil, fmt.Errorf("apply candidate %s: %w", c, err)
			}
			if needsMove && len(PossibleMoves(tentative)) == 0 {
				continue
			}
			chosen, next = c, tentative
			break
		}
		if next == nil {
			return nil, fmt.Errorf("%w: step %d: no safe %s action", ErrPlanUnrealizable, i+1, kind)
		}

		run.append(chosen, next)
		current = next
	}
	return run, nil
}
