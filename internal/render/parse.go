package render

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/Harshitk-cp/tombench/internal/domain"
)

var ErrMalformedSentence = errors.New("malformed sentence")

var (
	emptyRoomRe = regexp.MustCompile(`^No one was in the ([\w-]+)\.$`)
	placementRe = regexp.MustCompile(`^The ([\w-]+(?: and [\w-]+)*) (?:was|were) in the ([\w-]+)\.$`)
	agentRe     = regexp.MustCompile(`^([\w-]+) was in the ([\w-]+)\.$`)
	moveRe      = regexp.MustCompile(`^([\w-]+) moved the ([\w-]+) to the ([\w-]+)\.$`)
	exitRe      = regexp.MustCompile(`^([\w-]+) exited (?:the )?([\w-]+) and entered (?:the )?([\w-]+)\.$`)
)

type SentenceKind int

const (
	AgentSentence SentenceKind = iota + 1
	// PlacementSentence puts containers in a room or objects in a container;
	// which one depends on whether Place names a room.
	PlacementSentence
	EmptyRoomSentence
)

// InitialSentence is one parsed line of an initial-state description.
type InitialSentence struct {
	Kind     SentenceKind
	Subjects []string
	Place    string
}

func ParseInitialSentence(s string) (InitialSentence, error) {
	s = strings.TrimSpace(s)
	if m := emptyRoomRe.FindStringSubmatch(s); m != nil {
		return InitialSentence{Kind: EmptyRoomSentence, Place: m[1]}, nil
	}
	if m := placementRe.FindStringSubmatch(s); m != nil {
		return InitialSentence{Kind: PlacementSentence, Subjects: strings.Split(m[1], " and "), Place: m[2]}, nil
	}
	if m := agentRe.FindStringSubmatch(s); m != nil {
		return InitialSentence{Kind: AgentSentence, Subjects: []string{m[1]}, Place: m[2]}, nil
	}
	return InitialSentence{}, fmt.Errorf("%w: %q", ErrMalformedSentence, s)
}

// ParseEvent recovers the action an event sentence describes.
func ParseEvent(s string) (domain.Action, error) {
	s = strings.TrimSpace(s)
	if m := moveRe.FindStringSubmatch(s); m != nil {
		return domain.MoveAction(m[1], m[2], m[3]), nil
	}
	if m := exitRe.FindStringSubmatch(s); m != nil {
		return domain.ExitAction(m[1], m[2], m[3]), nil
	}
	return domain.Action{}, fmt.Errorf("%w: %q", ErrMalformedSentence, s)
}

// ParseInitialState rebuilds a layout from its description. rooms is the set
// of known room names; it tells container placements apart from object
// placements. Every sentence must parse and refer to known places.
func ParseInitialState(sentences []string, rooms []string) (domain.Layout, error) {
	isRoom := make(map[string]bool, len(rooms))
	for _, r := range rooms {
		isRoom[r] = true
	}

	parsed := make([]InitialSentence, 0, len(sentences))
	for _, s := range sentences {
		p, err := ParseInitialSentence(s)
		if err != nil {
			return domain.Layout{}, err
		}
		parsed = append(parsed, p)
	}

	l := domain.Layout{
		AgentLocations:     make(map[string]string),
		ContainerLocations: make(map[string]string),
		ObjectLocations:    make(map[string]string),
	}
	mentioned := make(map[string]bool)
	for _, p := range parsed {
		if p.Kind == PlacementSentence && isRoom[p.Place] {
			for _, c := range p.Subjects {
				l.ContainerLocations[c] = p.Place
			}
			mentioned[p.Place] = true
		}
	}
	for _, p := range parsed {
		switch p.Kind {
		case EmptyRoomSentence:
			if !isRoom[p.Place] {
				return domain.Layout{}, fmt.Errorf("%w: unknown room %q", ErrMalformedSentence, p.Place)
			}
			mentioned[p.Place] = true
		case AgentSentence:
			if !isRoom[p.Place] {
				return domain.Layout{}, fmt.Errorf("%w: agent %q in unknown room %q", ErrMalformedSentence, p.Subjects[0], p.Place)
			}
			l.AgentLocations[p.Subjects[0]] = p.Place
			mentioned[p.Place] = true
		case PlacementSentence:
			if isRoom[p.Place] {
				continue
			}
			if _, ok := l.ContainerLocations[p.Place]; !ok {
				return domain.Layout{}, fmt.Errorf("%w: %q is neither a room nor a container", ErrMalformedSentence, p.Place)
			}
			for _, o := range p.Subjects {
				l.ObjectLocations[o] = p.Place
			}
		}
	}
	if len(l.AgentLocations) == 0 || len(l.ObjectLocations) == 0 {
		return domain.Layout{}, fmt.Errorf("%w: description has no agents or no objects", ErrMalformedSentence)
	}

	for r := range mentioned {
		l.Locations = append(l.Locations, r)
	}
	slices.Sort(l.Locations)
	return l, nil
}
