package models

import "github.com/google/uuid"

// ParticipantOutcome records what one participant's choice resolved to.
type ParticipantOutcome struct {
	ParticipantID     uuid.UUID  `json:"participant_id"`
	Choice            ChoiceKind `json:"choice"`
	Survived          bool       `json:"survived"`
	PopulationBefore  int        `json:"population_before"`
	PopulationAfter   int        `json:"population_after"`
	MultiplierApplied float64    `json:"multiplier_applied"`
}

// RoundResult is the immutable record of one completed round. One outcome is
// appended per non-host, non-eliminated participant present that round.
type RoundResult struct {
	Round      int                  `json:"round"`
	ScenarioID string               `json:"scenario_id"`
	Outcomes   []ParticipantOutcome `json:"outcomes"`
}
