package domain

import (
	"time"

	"github.com/google/uuid"
)

// EvaluationResult is one scored model answer.
type EvaluationResult struct {
	ID                uuid.UUID  `json:"id,omitempty"`
	BatchID           *uuid.UUID `json:"batch_id,omitempty"`
	InstanceIndex     int        `json:"instance_index"`
	Category          QACategory `json:"qa_category"`
	Setting           string     `json:"setting"`
	Question          string     `json:"question"`
	GroundTruthAnswer string     `json:"ground_truth_answer"`
	Model             string     `json:"model"`
	LLMAnswer         string     `json:"llm_answer"`
	IsCorrect         bool       `json:"is_correct"`
	CreatedAt         time.Time  `json:"created_at,omitempty"`
}

// Accuracy is a correct/total tally.
type Accuracy struct {
	Accuracy float64 `json:"accuracy"`
	Correct  int     `json:"correct"`
	Total    int     `json:"total"`
}

// Add records one outcome and refreshes the ratio.
func (a *Accuracy) Add(correct bool) {
	a.Total++
	if correct {
		a.Correct++
	}
	a.Accuracy = float64(a.Correct) / float64(a.Total)
}

type EvaluationSummary struct {
	Model              string                  `json:"model"`
	OverallAccuracy    Accuracy                `json:"overall_accuracy"`
	AccuracyByCategory map[QACategory]Accuracy `json:"accuracy_by_category"`
}
