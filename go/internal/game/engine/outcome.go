package engine

import (
	"math"

	"github.com/mcdev12/outbreak/go/internal/models"
)

// failureCut is the population multiplier applied when a choice fails.
const failureCut = 0.5

// resolveRound resolves the current round for every playing participant.
// A participant who never chose defaults to the safe choice; eliminated
// participants and the host are skipped entirely.
func (e *Engine) resolveRound(s *models.Session) *models.RoundResult {
	result := &models.RoundResult{
		Round:      s.CurrentRound,
		ScenarioID: s.CurrentScenario.ID,
	}

	for i := range s.Participants {
		p := &s.Participants[i]
		if !p.Plays() {
			continue
		}

		kind := models.ChoiceSafe
		if p.PendingChoice != nil {
			kind = *p.PendingChoice
		}

		outcome := resolveOutcome(p, kind, s.CurrentScenario.Choice(kind), e.rng.Float64())
		p.Population = outcome.PopulationAfter
		if p.Population < 1 {
			p.IsEliminated = true
		}
		result.Outcomes = append(result.Outcomes, outcome)
	}

	return result
}

// resolveOutcome applies one uniform draw r in [0,1) to a choice:
// r below the failure probability halves the population, anything else
// multiplies it by the success multiplier. Results floor toward zero.
func resolveOutcome(p *models.Participant, kind models.ChoiceKind, choice models.Choice, r float64) models.ParticipantOutcome {
	survived := r >= choice.FailureProbability

	multiplier := failureCut
	if survived {
		multiplier = choice.SuccessMultiplier
	}

	after := int(math.Floor(float64(p.Population) * multiplier))
	if after < 0 {
		after = 0
	}

	return models.ParticipantOutcome{
		ParticipantID:     p.ID,
		Choice:            kind,
		Survived:          survived,
		PopulationBefore:  p.Population,
		PopulationAfter:   after,
		MultiplierApplied: multiplier,
	}
}
