package domain

import (
	"time"

	"github.com/google/uuid"
)

// SimulationStep is one applied action plus the false beliefs visible right after it.
type SimulationStep struct {
	Step              int           `json:"step"`
	ActionType        ActionKind    `json:"action_type"`
	Action            Action        `json:"action"`
	Event             string        `json:"event"`
	FalseBeliefsFound []FalseBelief `json:"false_beliefs_found"`
}

// Story is an accepted story instance.
type Story struct {
	ID                     uuid.UUID             `json:"id"`
	TenantID               uuid.UUID             `json:"tenant_id,omitempty"`
	BatchID                *uuid.UUID            `json:"batch_id,omitempty"`
	InstanceIndex          int                   `json:"instance_index"`
	Setting                string                `json:"setting"`
	HasFalseBelief         bool                  `json:"has_false_belief"`
	Layout                 Layout                `json:"layout"`
	InitialState           []string              `json:"initial_state"`
	SimulationLog          []SimulationStep      `json:"simulation_log"`
	ActionSequence         Plan                  `json:"action_sequence"`
	FullStory              []string              `json:"full_story"`
	FalseBeliefPersistence []PersistenceInterval `json:"false_belief_persistence"`
	CreatedAt              time.Time             `json:"created_at,omitempty"`
}

// Actions returns the structured action log in step order.
func (s *Story) Actions() []Action {
	out := make([]Action, len(s.SimulationLog))
	for i, step := range s.SimulationLog {
		out[i] = step.Action
	}
	return out
}

// LegacyStory is the text-only stories.json format. It carries no structured
// actions, so QA construction has to parse the sentences back.
type LegacyStory struct {
	InstanceIndex int          `json:"instance_index"`
	Setting       string       `json:"setting"`
	InitialState  []string     `json:"initial_state"`
	SimulationLog []LegacyStep `json:"simulation_log"`
	FullStory     []string     `json:"full_story"`
}

type LegacyStep struct {
	Step  int    `json:"step"`
	Event string `json:"event"`
}

// YieldStats counts construction attempts for one (setting, plan).
type YieldStats struct {
	Setting           string `json:"setting"`
	Sequence          string `json:"sequence"`
	Attempts          int    `json:"attempts"`
	Accepted          int    `json:"accepted"`
	Unrealizable      int    `json:"unrealizable"`
	NoFalseBelief     int    `json:"no_false_belief"`
	AllResolved       int    `json:"all_resolved"`
	AttemptCeilingHit bool   `json:"attempt_ceiling_hit"`
}

// SequenceCount is one row of the distribution report.
type SequenceCount struct {
	Sequence   string `json:"sequence"`
	Count      int    `json:"count"`
	Percentage string `json:"percentage"`
}

// SettingDistribution summarizes which plans the sampled stories of a setting realized.
type SettingDistribution struct {
	TotalSamples int             `json:"total_samples"`
	Distribution []SequenceCount `json:"distribution"`
}

// SkippedSetting records a setting that produced no output and why.
type SkippedSetting struct {
	Setting string `json:"setting"`
	Reason  string `json:"reason"`
	Pool    int    `json:"pool"`
}

// Batch is one generation run across settings.
type Batch struct {
	ID           uuid.UUID                      `json:"id"`
	TenantID     uuid.UUID                      `json:"tenant_id,omitempty"`
	Seed         uint64                         `json:"seed"`
	StoryCount   int                            `json:"story_count"`
	Distribution map[string]SettingDistribution `json:"distribution"`
	Yield        []YieldStats                   `json:"yield"`
	Skipped      []SkippedSetting               `json:"skipped,omitempty"`
	CreatedAt    time.Time                      `json:"created_at,omitempty"`
}
