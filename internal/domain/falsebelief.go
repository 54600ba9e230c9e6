package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FalseBelief is an (agent, object) pair whose believed container differs from reality.
type FalseBelief struct {
	Agent      string `json:"agent"`
	Object     string `json:"object"`
	BelievedIn string `json:"believed_in"`
	ActuallyIn string `json:"actually_in"`
}

// StepMarker is a simulation step index, or Unresolved.
type StepMarker int

// Unresolved marks a false belief that survives to the final snapshot.
const Unresolved StepMarker = -1

const unresolvedLabel = "unresolved"

func (m StepMarker) IsResolved() bool {
	return m != Unresolved
}

func (m StepMarker) String() string {
	if m == Unresolved {
		return unresolvedLabel
	}
	return strconv.Itoa(int(m))
}

func (m StepMarker) MarshalJSON() ([]byte, error) {
	if m == Unresolved {
		return json.Marshal(unresolvedLabel)
	}
	return json.Marshal(int(m))
}

func (m *StepMarker) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if s != unresolvedLabel {
			return fmt.Errorf("invalid step marker %q", s)
		}
		*m = Unresolved
		return nil
	}
	var n int
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("invalid step marker: %w", err)
	}
	*m = StepMarker(n)
	return nil
}

// PersistenceInterval is one contiguous lifetime of a false belief.
// EndStep is the first step at which the belief no longer appears.
type PersistenceInterval struct {
	Agent     string     `json:"agent"`
	Object    string     `json:"object"`
	StartStep int        `json:"start_step"`
	EndStep   StepMarker `json:"end_step"`
}

// Duration is EndStep-StartStep, or false when the belief is unresolved.
func (p PersistenceInterval) Duration() (int, bool) {
	if !p.EndStep.IsResolved() {
		return 0, false
	}
	return int(p.EndStep) - p.StartStep, true
}

type persistenceIntervalJSON struct {
	Agent         string     `json:"agent"`
	Object        string     `json:"object"`
	StartStep     int        `json:"start_step"`
	EndStep       StepMarker `json:"end_step"`
	DurationSteps any        `json:"duration_steps"`
}

func (p PersistenceInterval) MarshalJSON() ([]byte, error) {
	var duration any = "N/A"
	if d, ok := p.Duration(); ok {
		duration = d
	}
	return json.Marshal(persistenceIntervalJSON{
		Agent:         p.Agent,
		Object:        p.Object,
		StartStep:     p.StartStep,
		EndStep:       p.EndStep,
		DurationSteps: duration,
	})
}

func (p *PersistenceInterval) UnmarshalJSON(b []byte) error {
	var raw persistenceIntervalJSON
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*p = PersistenceInterval{
		Agent:     raw.Agent,
		Object:    raw.Object,
		StartStep: raw.StartStep,
		EndStep:   raw.EndStep,
	}
	return nil
}
