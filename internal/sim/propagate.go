package sim

import (
	"fmt"
	"maps"

	"github.com/Harshitk-cp/tombench/internal/domain"
)

// Apply performs one action and returns the resulting snapshot.
//
// A move relocates the object and sets the belief of every agent sharing the
// mover's room to the target container; agents elsewhere keep whatever they
// believed before. An exit/enter changes only the mover's location.
//
// Apply checks that the action refers to known entities. Whether the mover is
// allowed to perform it is decided by the enumerator, so hypothetical and
// replayed actions can be applied freely.
func (s *WorldState) Apply(a domain.Action) (*WorldState, error) {
	moverLoc, ok := s.agentLoc[a.Agent]
	if !ok {
		return nil, fmt.Errorf("%w: unknown agent %q", ErrInvalidAction, a.Agent)
	}

	switch a.Kind {
	case domain.ActionMove:
		if _, ok := s.objectLoc[a.Object]; !ok {
			return nil, fmt.Errorf("%w: unknown object %q", ErrInvalidAction, a.Object)
		}
		if _, ok := s.containerLoc[a.Target]; !ok {
			return nil, fmt.Errorf("%w: unknown container %q", ErrInvalidAction, a.Target)
		}

		next := s.derive()
		next.objectLoc = maps.Clone(s.objectLoc)
		next.objectLoc[a.Object] = a.Target

		next.beliefs = maps.Clone(s.beliefs)
		for _, agent := range s.agents {
			if s.agentLoc[agent] != moverLoc {
				continue
			}
			updated := maps.Clone(s.beliefs[agent])
			updated[a.Object] = a.Target
			next.beliefs[agent] = updated
		}
		return next, nil

	case domain.ActionExitEnter:
		if !s.hasLocation(a.To) {
			return nil, fmt.Errorf("%w: unknown location %q", ErrInvalidAction, a.To)
		}
		if a.From != "" && a.From != moverLoc {
			return nil, fmt.Errorf("%w: %s is in %q, not %q", ErrInvalidAction, a.Agent, moverLoc, a.From)
		}
		if a.To == moverLoc {
			return nil, fmt.Errorf("%w: %s is already in %q", ErrInvalidAction, a.Agent, a.To)
		}

		next := s.derive()
		next.agentLoc = maps.Clone(s.agentLoc)
		next.agentLoc[a.Agent] = a.To
		return next, nil

	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidAction, a.Kind)
	}
}
