package domain

import (
	"time"

	"github.com/google/uuid"
)

type QACategory string

const (
	QAMemory       QACategory = "memory_QA"
	QAReality      QACategory = "reality_QA"
	QATrueBelief1  QACategory = "true_belief1_QA"
	QAFalseBelief1 QACategory = "false_belief1_QA"
	QATrueBelief2  QACategory = "true_belief2_QA"
	QAFalseBelief2 QACategory = "false_belief2_QA"
)

// AllQACategories lists categories in report order.
func AllQACategories() []QACategory {
	return []QACategory{QAMemory, QAReality, QATrueBelief1, QAFalseBelief1, QATrueBelief2, QAFalseBelief2}
}

func ValidQACategory(s string) bool {
	for _, c := range AllQACategories() {
		if string(c) == s {
			return true
		}
	}
	return false
}

// Probe is a structured question before it is rendered to text.
// Agent is set for belief questions; Target only for second-order ones.
type Probe struct {
	Category QACategory `json:"category"`
	Object   string     `json:"object"`
	Agent    string     `json:"agent,omitempty"`
	Target   string     `json:"target,omitempty"`
	Answer   string     `json:"answer"`
}

type QAPair struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// QASet holds at most one sampled pair per category for a story.
type QASet struct {
	ID            uuid.UUID               `json:"id,omitempty"`
	StoryID       uuid.UUID               `json:"story_id,omitempty"`
	InstanceIndex int                     `json:"instance_index"`
	Setting       string                  `json:"setting"`
	FullStory     []string                `json:"full_story"`
	Pairs         map[QACategory][]QAPair `json:"pairs"`
	Probes        map[QACategory]Probe    `json:"probes,omitempty"`
	CreatedAt     time.Time               `json:"created_at,omitempty"`
}

// Count returns how many categories hold a pair.
func (q *QASet) Count() int {
	n := 0
	for _, c := range AllQACategories() {
		if len(q.Pairs[c]) > 0 {
			n++
		}
	}
	return n
}
