// Package render turns layouts, actions and probes into story text, and
// parses that text back for stories that only exist in text form.
package render

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/Harshitk-cp/tombench/internal/domain"
)

// IsPlural treats a noun as plural when it ends in "s" but not "ss".
func IsPlural(noun string) bool {
	return strings.HasSuffix(noun, "s") && !strings.HasSuffix(noun, "ss")
}

func agree(noun, singular, plural string) string {
	if IsPlural(noun) {
		return plural
	}
	return singular
}

// InitialState describes a layout: agents, then containers, then the objects
// of each container, then every room holding neither agents nor containers.
func InitialState(l domain.Layout) []string {
	var out []string
	for _, agent := range slices.Sorted(maps.Keys(l.AgentLocations)) {
		out = append(out, fmt.Sprintf("%s was in the %s.", agent, l.AgentLocations[agent]))
	}
	for _, container := range slices.Sorted(maps.Keys(l.ContainerLocations)) {
		out = append(out, fmt.Sprintf("The %s was in the %s.", container, l.ContainerLocations[container]))
	}

	byContainer := make(map[string][]string)
	for object, container := range l.ObjectLocations {
		byContainer[container] = append(byContainer[container], object)
	}
	for _, container := range slices.Sorted(maps.Keys(byContainer)) {
		objects := byContainer[container]
		slices.Sort(objects)
		verb := "was"
		if len(objects) > 1 || IsPlural(objects[0]) {
			verb = "were"
		}
		out = append(out, fmt.Sprintf("The %s %s in the %s.", strings.Join(objects, " and "), verb, container))
	}

	occupied := make(map[string]bool)
	for _, loc := range l.AgentLocations {
		occupied[loc] = true
	}
	for _, loc := range l.ContainerLocations {
		occupied[loc] = true
	}
	for _, loc := range slices.Sorted(slices.Values(l.Locations)) {
		if !occupied[loc] {
			out = append(out, fmt.Sprintf("No one was in the %s.", loc))
		}
	}
	return out
}

// Event describes one action. Unknown kinds render as their String form.
func Event(a domain.Action) string {
	switch a.Kind {
	case domain.ActionMove:
		return fmt.Sprintf("%s moved the %s to the %s.", a.Agent, a.Object, a.Target)
	case domain.ActionExitEnter:
		return fmt.Sprintf("%s exited the %s and entered the %s.", a.Agent, a.From, a.To)
	default:
		return a.String()
	}
}

// Story is the initial description followed by one sentence per action.
func Story(l domain.Layout, actions []domain.Action) []string {
	out := InitialState(l)
	for _, a := range actions {
		out = append(out, Event(a))
	}
	return out
}

// Question renders the text of a probe.
func Question(p domain.Probe) string {
	switch p.Category {
	case domain.QAMemory:
		return fmt.Sprintf("Where %s the %s at the beginning?", agree(p.Object, "was", "were"), p.Object)
	case domain.QAReality:
		return fmt.Sprintf("Where %s the %s now?", agree(p.Object, "is", "are"), p.Object)
	case domain.QATrueBelief1, domain.QAFalseBelief1:
		return fmt.Sprintf("Where does %s think the %s %s?", p.Agent, p.Object, agree(p.Object, "is", "are"))
	case domain.QATrueBelief2, domain.QAFalseBelief2:
		return fmt.Sprintf("Where does %s think that %s thinks the %s %s?", p.Agent, p.Target, p.Object, agree(p.Object, "is", "are"))
	default:
		return ""
	}
}

// Pair renders a probe as a question with its ground-truth answer.
func Pair(p domain.Probe) domain.QAPair {
	return domain.QAPair{Question: Question(p), Answer: p.Answer}
}
