package domain

import "time"

// RiskAssessment is the outcome of scoring one event. Assessments are
// computed fresh per evaluation and never mutated or persisted; inputs
// (event and model bundle) may differ between calls.
type RiskAssessment struct {
	Event       RawEvent  `json:"event"`
	Probability float64   `json:"probability"`
	Tier        Tier      `json:"tier"`
	Factors     []string  `json:"factors,omitempty"`
	AssessedAt  time.Time `json:"assessed_at"`
}
