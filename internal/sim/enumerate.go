package sim

import "github.com/Harshitk-cp/tombench/internal/domain"

// PossibleMoves lists every legal relocate-object action. An agent may move an
// object only when it correctly knows the object's container, that container
// is in the agent's room, and the target is another container in the same room.
func PossibleMoves(s *WorldState) []domain.Action {
	var out []domain.Action
	for _, agent := range s.agents {
		loc := s.agentLoc[agent]
		for _, object := range s.objects {
			actual := s.objectLoc[object]
			believed, ok := s.beliefs[agent][object]
			if !ok || believed != actual {
				continue
			}
			if s.containerLoc[actual] != loc {
				continue
			}
			for _, target := range s.containers {
				if target != actual && s.containerLoc[target] == loc {
					out = append(out, domain.MoveAction(agent, object, target))
				}
			}
		}
	}
	return out
}

// PossibleExits lists every relocate-agent action: any agent to any other room.
func PossibleExits(s *WorldState) []domain.Action {
	var out []domain.Action
	for _, agent := range s.agents {
		from := s.agentLoc[agent]
		for _, to := range s.locations {
			if to != from {
				out = append(out, domain.ExitAction(agent, from, to))
			}
		}
	}
	return out
}

// Enumerate returns the legal actions of one kind; nil for an unknown kind.
func Enumerate(s *WorldState, kind domain.ActionKind) []domain.Action {
	switch kind {
	case domain.ActionMove:
		return PossibleMoves(s)
	case domain.ActionExitEnter:
		return PossibleExits(s)
	default:
		return nil
	}
}

// IsLegal reports whether a would be produced by the enumerator for s.
func IsLegal(s *WorldState, a domain.Action) bool {
	loc, ok := s.agentLoc[a.Agent]
	if !ok {
		return false
	}
	switch a.Kind {
	case domain.ActionMove:
		actual, ok := s.objectLoc[a.Object]
		if !ok {
			return false
		}
		if believed, ok := s.beliefs[a.Agent][a.Object]; !ok || believed != actual {
			return false
		}
		targetLoc, ok := s.containerLoc[a.Target]
		return ok && a.Target != actual && s.containerLoc[actual] == loc && targetLoc == loc
	case domain.ActionExitEnter:
		return (a.From == "" || a.From == loc) && a.To != loc && s.hasLocation(a.To)
	default:
		return false
	}
}
