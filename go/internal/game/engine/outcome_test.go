package engine

import (
	"testing"

	"github.com/google/uuid"
	"github.com/mcdev12/outbreak/go/internal/models"
)

func TestResolveOutcomeSafeSuccess(t *testing.T) {
	p := &models.Participant{ID: uuid.New(), Population: 100}
	choice := models.Choice{FailureProbability: 0.05, SuccessMultiplier: 1.3}

	out := resolveOutcome(p, models.ChoiceSafe, choice, 0.5)
	if !out.Survived {
		t.Fatal("draw 0.5 against failure probability 0.05 must succeed")
	}
	if out.PopulationAfter != 130 {
		t.Fatalf("expected floor(100*1.3)=130, got %d", out.PopulationAfter)
	}
	if out.MultiplierApplied != 1.3 {
		t.Fatalf("expected multiplier 1.3, got %v", out.MultiplierApplied)
	}
}

func TestResolveOutcomeRiskyFailure(t *testing.T) {
	p := &models.Participant{ID: uuid.New(), Population: 100}
	choice := models.Choice{FailureProbability: 0.5, SuccessMultiplier: 2.0}

	out := resolveOutcome(p, models.ChoiceRisky, choice, 0.1)
	if out.Survived {
		t.Fatal("draw 0.1 against failure probability 0.5 must fail")
	}
	if out.PopulationAfter != 50 {
		t.Fatalf("expected floor(100*0.5)=50, got %d", out.PopulationAfter)
	}
	if out.MultiplierApplied != failureCut {
		t.Fatalf("expected failure cut %v, got %v", failureCut, out.MultiplierApplied)
	}
}

func TestResolveOutcomeFloorsFractions(t *testing.T) {
	p := &models.Participant{ID: uuid.New(), Population: 3}
	choice := models.Choice{FailureProbability: 0.5, SuccessMultiplier: 1.3}

	out := resolveOutcome(p, models.ChoiceRisky, choice, 0.0)
	if out.PopulationAfter != 1 {
		t.Fatalf("expected floor(3*0.5)=1, got %d", out.PopulationAfter)
	}
}

func TestEliminationIsMonotonic(t *testing.T) {
	// Scripted draws make every round fail, so Bob's population halves
	// 100 → 50 → 25 → 12 → 6 → 3 → 1 → 0, eliminating him.
	rng := newScriptedRand(0.0)
	e, _ := newTestEngine(t, rng)

	s, err := e.NewSession("ABC234", "Host", 8)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	bob, err := e.Join(s, "Bob")
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	bobID := bob.ID
	if err := e.Start(s); err != nil {
		t.Fatalf("start: %v", err)
	}

	var eliminatedAt int
	for round := 1; round <= s.TotalRounds; round++ {
		result, err := e.EndRound(s)
		if err != nil {
			t.Fatalf("end round %d: %v", round, err)
		}

		p := s.Participant(bobID)
		if p.Population < 0 {
			t.Fatalf("round %d: population must never be negative, got %d", round, p.Population)
		}
		if (p.Population < 1) != p.IsEliminated {
			t.Fatalf("round %d: eliminated=%v inconsistent with population %d", round, p.IsEliminated, p.Population)
		}
		if p.IsEliminated && eliminatedAt == 0 {
			eliminatedAt = round
		}
		if eliminatedAt > 0 {
			if !p.IsEliminated {
				t.Fatalf("round %d: elimination must not revert", round)
			}
			if round > eliminatedAt && len(result.Outcomes) != 0 {
				t.Fatalf("round %d: eliminated participant must be skipped, got %d outcomes", round, len(result.Outcomes))
			}
		}

		if _, err := e.NextRound(s); err != nil {
			t.Fatalf("next round %d: %v", round, err)
		}
	}

	if eliminatedAt == 0 {
		t.Fatal("expected Bob to be eliminated by repeated failures")
	}
	if err := e.Choose(s, bobID, models.ChoiceSafe); err == nil {
		t.Fatal("eliminated participant must not be able to choose")
	}
}

func TestPopulationNonNegativeAfterEveryRound(t *testing.T) {
	rng := newScriptedRand(0.0, 0.99, 0.0, 0.0)
	e, _ := newTestEngine(t, rng)

	s, _ := e.NewSession("ABC234", "Host", 5)
	for _, name := range []string{"Bob", "Carol", "Dave"} {
		if _, err := e.Join(s, name); err != nil {
			t.Fatalf("join %s: %v", name, err)
		}
	}
	if err := e.Start(s); err != nil {
		t.Fatalf("start: %v", err)
	}

	for round := 1; round <= s.TotalRounds; round++ {
		if _, err := e.EndRound(s); err != nil {
			t.Fatalf("end round %d: %v", round, err)
		}
		for _, p := range s.Participants {
			if p.Population < 0 {
				t.Fatalf("round %d: %s has negative population %d", round, p.Name, p.Population)
			}
		}
		if _, err := e.NextRound(s); err != nil {
			t.Fatalf("next round %d: %v", round, err)
		}
	}
}
