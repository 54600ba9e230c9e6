package sim

import (
	"cmp"
	"slices"

	"github.com/Harshitk-cp/tombench/internal/domain"
)

type beliefKey struct {
	agent  string
	object string
}

// TrackPersistence reconstructs the lifetime of every false belief from the
// per-step reports of a run. An interval opens on the first step a pair is
// reported and closes on the first later step it is absent; intervals still
// open after the last step end Unresolved.
//
// A pair that becomes false again after resolving (the object is moved back
// and away while the agent is absent) opens a new interval, so one pair can
// own several disjoint intervals.
func TrackPersistence(log []domain.SimulationStep) []domain.PersistenceInterval {
	active := make(map[beliefKey]int)
	var out []domain.PersistenceInterval

	for _, step := range log {
		seen := make(map[beliefKey]bool, len(step.FalseBeliefsFound))
		for _, fb := range step.FalseBeliefsFound {
			k := beliefKey{fb.Agent, fb.Object}
			seen[k] = true
			if _, ok := active[k]; !ok {
				active[k] = step.Step
			}
		}
		for k, start := range active {
			if seen[k] {
				continue
			}
			out = append(out, domain.PersistenceInterval{
				Agent:     k.agent,
				Object:    k.object,
				StartStep: start,
				EndStep:   domain.StepMarker(step.Step),
			})
			delete(active, k)
		}
	}
	for k, start := range active {
		out = append(out, domain.PersistenceInterval{
			Agent:     k.agent,
			Object:    k.object,
			StartStep: start,
			EndStep:   domain.Unresolved,
		})
	}

	slices.SortFunc(out, func(a, b domain.PersistenceInterval) int {
		return cmp.Or(
			cmp.Compare(a.StartStep, b.StartStep),
			cmp.Compare(a.Agent, b.Agent),
			cmp.Compare(a.Object, b.Object),
		)
	})
	return out
}

// HasUnresolved reports whether any false belief survives to the end of the run.
func HasUnresolved(intervals []domain.PersistenceInterval) bool {
	for _, iv := range intervals {
		if !iv.EndStep.IsResolved() {
			return true
		}
	}
	return false
}
