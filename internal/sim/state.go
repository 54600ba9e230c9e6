// Package sim simulates how agents' beliefs about object locations diverge
// from reality as objects and agents move between rooms.
package sim

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/Harshitk-cp/tombench/internal/domain"
)

var (
	ErrInvalidLayout = errors.New("invalid layout")
	ErrInvalidAction = errors.New("invalid action")
)

// WorldState is an immutable snapshot of entity locations and the belief matrix.
// Transitions return a new WorldState; maps that did not change are shared
// between snapshots and never written after construction.
type WorldState struct {
	agents     []string
	objects    []string
	containers []string
	locations  []string

	agentLoc     map[string]string
	containerLoc map[string]string
	objectLoc    map[string]string

	// agent -> object -> believed container. A missing entry means no belief formed.
	beliefs map[string]map[string]string
}

// NewWorldState validates a layout and seeds initial beliefs: every agent
// believes the true container of each object located in its starting room.
func NewWorldState(l domain.Layout) (*WorldState, error) {
	if len(l.Locations) == 0 {
		return nil, fmt.Errorf("%w: no locations", ErrInvalidLayout)
	}
	locSet := make(map[string]bool, len(l.Locations))
	for _, loc := range l.Locations {
		if locSet[loc] {
			return nil, fmt.Errorf("%w: duplicate location %q", ErrInvalidLayout, loc)
		}
		locSet[loc] = true
	}
	for agent, loc := range l.AgentLocations {
		if !locSet[loc] {
			return nil, fmt.Errorf("%w: agent %q in unknown location %q", ErrInvalidLayout, agent, loc)
		}
	}
	for container, loc := range l.ContainerLocations {
		if !locSet[loc] {
			return nil, fmt.Errorf("%w: container %q in unknown location %q", ErrInvalidLayout, container, loc)
		}
	}
	for object, container := range l.ObjectLocations {
		if _, ok := l.ContainerLocations[container]; !ok {
			return nil, fmt.Errorf("%w: object %q in unknown container %q", ErrInvalidLayout, object, container)
		}
	}

	s := &WorldState{
		agents:       slices.Sorted(maps.Keys(l.AgentLocations)),
		objects:      slices.Sorted(maps.Keys(l.ObjectLocations)),
		containers:   slices.Sorted(maps.Keys(l.ContainerLocations)),
		locations:    slices.Sorted(slices.Values(l.Locations)),
		agentLoc:     maps.Clone(l.AgentLocations),
		containerLoc: maps.Clone(l.ContainerLocations),
		objectLoc:    maps.Clone(l.ObjectLocations),
		beliefs:      make(map[string]map[string]string, len(l.AgentLocations)),
	}
	for _, agent := range s.agents {
		formed := make(map[string]string)
		for _, object := range s.objects {
			container := s.objectLoc[object]
			if s.containerLoc[container] == s.agentLoc[agent] {
				formed[object] = container
			}
		}
		s.beliefs[agent] = formed
	}
	return s, nil
}

func (s *WorldState) Agents() []string     { return slices.Clone(s.agents) }
func (s *WorldState) Objects() []string    { return slices.Clone(s.objects) }
func (s *WorldState) Containers() []string { return slices.Clone(s.containers) }
func (s *WorldState) Locations() []string  { return slices.Clone(s.locations) }

// AgentLocation returns "" for an unknown agent.
func (s *WorldState) AgentLocation(agent string) string {
	return s.agentLoc[agent]
}

func (s *WorldState) ContainerLocation(container string) string {
	return s.containerLoc[container]
}

// ObjectContainer returns the true container of an object.
func (s *WorldState) ObjectContainer(object string) string {
	return s.objectLoc[object]
}

// ObjectLocation is the room of the object's container.
func (s *WorldState) ObjectLocation(object string) string {
	return s.containerLoc[s.objectLoc[object]]
}

// Belief returns the container agent believes object is in, and false when
// the agent has not formed a belief.
func (s *WorldState) Belief(agent, object string) (string, bool) {
	c, ok := s.beliefs[agent][object]
	return c, ok
}

// AgentsAt lists agents currently in loc, sorted.
func (s *WorldState) AgentsAt(loc string) []string {
	var out []string
	for _, a := range s.agents {
		if s.agentLoc[a] == loc {
			out = append(out, a)
		}
	}
	return out
}

// ContainersAt lists containers located in loc, sorted.
func (s *WorldState) ContainersAt(loc string) []string {
	var out []string
	for _, c := range s.containers {
		if s.containerLoc[c] == loc {
			out = append(out, c)
		}
	}
	return out
}

// ObjectsAt lists objects whose container is in loc, sorted.
func (s *WorldState) ObjectsAt(loc string) []string {
	var out []string
	for _, o := range s.objects {
		if s.ObjectLocation(o) == loc {
			out = append(out, o)
		}
	}
	return out
}

func (s *WorldState) hasLocation(loc string) bool {
	_, found := slices.BinarySearch(s.locations, loc)
	return found
}

// Layout exports the reality part of the snapshot.
func (s *WorldState) Layout() domain.Layout {
	return domain.Layout{
		Locations:          slices.Clone(s.locations),
		AgentLocations:     maps.Clone(s.agentLoc),
		ContainerLocations: maps.Clone(s.containerLoc),
		ObjectLocations:    maps.Clone(s.objectLoc),
	}
}

// derive returns a copy sharing every map with s. Callers replace the maps they change.
func (s *WorldState) derive() *WorldState {
	next := *s
	return &next
}
