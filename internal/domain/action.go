package domain

import (
	"fmt"
	"strings"
)

type ActionKind string

const (
	// ActionMove relocates an object into another container in the mover's room.
	ActionMove ActionKind = "move"
	// ActionExitEnter relocates an agent to another room.
	ActionExitEnter ActionKind = "exit_enter"
)

func (k ActionKind) IsValid() bool {
	switch k {
	case ActionMove, ActionExitEnter:
		return true
	}
	return false
}

// Label renders the kind the way distribution reports print it ("exit/enter").
func (k ActionKind) Label() string {
	return strings.ReplaceAll(string(k), "_", "/")
}

func ParseActionKind(s string) (ActionKind, error) {
	k := ActionKind(strings.TrimSpace(strings.ToLower(s)))
	if !k.IsValid() {
		return "", fmt.Errorf("unknown action kind %q (valid: move, exit_enter)", s)
	}
	return k, nil
}

// Plan is the ordered sequence of action kinds a story must realize.
type Plan []ActionKind

// ParsePlan reads a comma separated kind list such as "move,exit_enter,move,exit_enter".
func ParsePlan(s string) (Plan, error) {
	var p Plan
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		k, err := ParseActionKind(part)
		if err != nil {
			return nil, err
		}
		p = append(p, k)
	}
	if len(p) == 0 {
		return nil, fmt.Errorf("empty plan")
	}
	return p, nil
}

func (p Plan) String() string {
	parts := make([]string, len(p))
	for i, k := range p {
		parts[i] = string(k)
	}
	return strings.Join(parts, " -> ")
}

// Contains reports whether kind appears anywhere in the plan.
func (p Plan) Contains(kind ActionKind) bool {
	for _, k := range p {
		if k == kind {
			return true
		}
	}
	return false
}

// DefaultPlans are the five orderings of two moves and two exits.
func DefaultPlans() []Plan {
	m, e := ActionMove, ActionExitEnter
	return []Plan{
		{m, e, m, e},
		{m, e, e, m},
		{e, m, m, e},
		{e, m, e, m},
		{e, e, m, m},
	}
}

// Action is one applied event. Object and Target are set for moves,
// From and To for exits.
type Action struct {
	Kind   ActionKind `json:"type"`
	Agent  string     `json:"agent"`
	Object string     `json:"object,omitempty"`
	Target string     `json:"target,omitempty"`
	From   string     `json:"from,omitempty"`
	To     string     `json:"to,omitempty"`
}

func MoveAction(agent, object, target string) Action {
	return Action{Kind: ActionMove, Agent: agent, Object: object, Target: target}
}

func ExitAction(agent, from, to string) Action {
	return Action{Kind: ActionExitEnter, Agent: agent, From: from, To: to}
}

func (a Action) String() string {
	switch a.Kind {
	case ActionMove:
		return fmt.Sprintf("move(%s, %s -> %s)", a.Agent, a.Object, a.Target)
	case ActionExitEnter:
		return fmt.Sprintf("exit_enter(%s, %s -> %s)", a.Agent, a.From, a.To)
	default:
		return fmt.Sprintf("%s(%s)", a.Kind, a.Agent)
	}
}
