package engine

import (
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/outbreak/go/internal/game/catalog"
	"github.com/mcdev12/outbreak/go/internal/models"
)

// scriptedRand returns queued Float64 values for outcome draws and delegates
// Perm to a seeded source. It loops over the queue when exhausted.
type scriptedRand struct {
	draws []float64
	next  int
	perm  *rand.Rand
}

func newScriptedRand(draws ...float64) *scriptedRand {
	return &scriptedRand{draws: draws, perm: rand.New(rand.NewSource(1))}
}

func (r *scriptedRand) Float64() float64 {
	if len(r.draws) == 0 {
		return 0.99
	}
	v := r.draws[r.next%len(r.draws)]
	r.next++
	return v
}

func (r *scriptedRand) Perm(n int) []int {
	return r.perm.Perm(n)
}

func newTestEngine(t *testing.T, rng Rand) (*Engine, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	if rng == nil {
		rng = newScriptedRand()
	}
	return NewEngine(catalog.Default(), rng, clock, 60), clock
}

func newStartedSession(t *testing.T, e *Engine, players ...string) *models.Session {
	t.Helper()
	s, err := e.NewSession("ABC234", "Host", 5)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	for _, name := range players {
		if _, err := e.Join(s, name); err != nil {
			t.Fatalf("join %s: %v", name, err)
		}
	}
	if err := e.Start(s); err != nil {
		t.Fatalf("start: %v", err)
	}
	return s
}

func TestNewSessionValidation(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	tests := []struct {
		name        string
		hostName    string
		totalRounds int
	}{
		{name: "empty host name", hostName: "  ", totalRounds: 5},
		{name: "name too long", hostName: "abcdefghijklmnopqrstuvwxyz", totalRounds: 5},
		{name: "too few rounds", hostName: "Alice", totalRounds: 2},
		{name: "too many rounds", hostName: "Alice", totalRounds: 16},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.NewSession("ABC234", tt.hostName, tt.totalRounds)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestNewSessionLobbyShape(t *testing.T) {
	e, _ := newTestEngine(t, nil)

	s, err := e.NewSession("ABC234", "Alice", 5)
	if err != nil {
		t.Fatalf("new session: %v", err)
	}
	if s.Phase != models.PhaseLobby {
		t.Fatalf("expected LOBBY, got %s", s.Phase)
	}
	if len(s.Participants) != 1 || !s.Participants[0].IsHost {
		t.Fatalf("expected host-only lobby, got %+v", s.Participants)
	}
	if s.Participants[0].SecretToken == "" {
		t.Fatal("host must receive a secret token")
	}
	if s.CurrentRound != 0 {
		t.Fatalf("expected round 0 in lobby, got %d", s.CurrentRound)
	}
}

func TestJoinRejectsCaseInsensitiveDuplicate(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	s, _ := e.NewSession("ABC234", "Alice", 5)

	if _, err := e.Join(s, "Bob"); err != nil {
		t.Fatalf("join Bob: %v", err)
	}
	_, err := e.Join(s, "bob")
	var serr *StateError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StateError for duplicate name, got %v", err)
	}

	if _, err := e.Join(s, "Carol"); err != nil {
		t.Fatalf("join Carol: %v", err)
	}
	if got := len(s.Participants); got != 3 {
		t.Fatalf("expected 3 participants, got %d", got)
	}
}

func TestJoinOnlyInLobby(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	s := newStartedSession(t, e, "Bob")

	if _, err := e.Join(s, "Late"); err == nil {
		t.Fatal("expected join after start to fail")
	}
}

func TestStartNeedsAPlayer(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	s, _ := e.NewSession("ABC234", "Alice", 5)

	err := e.Start(s)
	var serr *StateError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StateError for empty game, got %v", err)
	}
	if s.Phase != models.PhaseLobby {
		t.Fatalf("failed start must not change phase, got %s", s.Phase)
	}
}

func TestStartSamplesScenarioOrder(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	s := newStartedSession(t, e, "Bob")

	if s.Phase != models.PhasePlaying {
		t.Fatalf("expected PLAYING, got %s", s.Phase)
	}
	if len(s.ScenarioOrder) != s.TotalRounds {
		t.Fatalf("expected %d scenario ids, got %d", s.TotalRounds, len(s.ScenarioOrder))
	}
	if s.CurrentRound != 1 {
		t.Fatalf("expected round 1, got %d", s.CurrentRound)
	}
	if s.CurrentScenario == nil || s.CurrentScenario.ID != s.ScenarioOrder[0] {
		t.Fatalf("current scenario not resolved from order: %+v", s.CurrentScenario)
	}
	if s.RoundStartTime == nil {
		t.Fatal("round start time must be set while playing")
	}
	if err := e.Start(s); err == nil {
		t.Fatal("expected second start to fail")
	}
}

func TestPauseResumePreservesElapsedTime(t *testing.T) {
	e, clock := newTestEngine(t, nil)
	s := newStartedSession(t, e, "Bob")

	clock.Advance(20 * time.Second)
	if err := e.Pause(s); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if s.Phase != models.PhasePaused {
		t.Fatalf("expected PAUSED, got %s", s.Phase)
	}
	if s.RoundStartTime != nil {
		t.Fatal("round start time must be cleared while paused")
	}
	if s.PausedRemainingSec == nil || *s.PausedRemainingSec != 40 {
		t.Fatalf("expected 40s remaining, got %v", s.PausedRemainingSec)
	}

	clock.Advance(5 * time.Minute)
	if err := e.Resume(s); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if s.PausedRemainingSec != nil {
		t.Fatal("paused remaining must be cleared on resume")
	}

	deadline, ok := s.RoundDeadline()
	if !ok {
		t.Fatal("expected deadline while playing")
	}
	if remaining := deadline.Sub(clock.Now()); remaining != 40*time.Second {
		t.Fatalf("expected 40s until deadline after resume, got %v", remaining)
	}
}

func TestPauseClampsNegativeRemaining(t *testing.T) {
	e, clock := newTestEngine(t, nil)
	s := newStartedSession(t, e, "Bob")

	clock.Advance(90 * time.Second)
	if err := e.Pause(s); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if *s.PausedRemainingSec != 0 {
		t.Fatalf("expected remaining clamped to 0, got %d", *s.PausedRemainingSec)
	}
}

func TestChooseExactlyOncePerRound(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	s := newStartedSession(t, e, "Bob")
	bob := s.Participants[1]

	if err := e.Choose(s, bob.ID, models.ChoiceRisky); err != nil {
		t.Fatalf("choose: %v", err)
	}
	if !s.Participants[1].HasChosen {
		t.Fatal("has_chosen must be set after choose")
	}

	popBefore := s.Participants[1].Population
	err := e.Choose(s, bob.ID, models.ChoiceSafe)
	var serr *StateError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StateError on double choose, got %v", err)
	}
	if s.Participants[1].Population != popBefore {
		t.Fatal("rejected choose must not alter population")
	}
	if *s.Participants[1].PendingChoice != models.ChoiceRisky {
		t.Fatal("rejected choose must not overwrite the pending choice")
	}
}

func TestChooseGuards(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	s := newStartedSession(t, e, "Bob")
	host := s.Participants[0]
	bob := s.Participants[1]

	if err := e.Choose(s, host.ID, models.ChoiceSafe); err == nil {
		t.Fatal("host must not be able to choose")
	}
	if err := e.Choose(s, bob.ID, models.ChoiceKind("reckless")); err == nil {
		t.Fatal("unknown choice kind must be rejected")
	}

	// Choosing stays legal while paused.
	if err := e.Pause(s); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if err := e.Choose(s, bob.ID, models.ChoiceSafe); err != nil {
		t.Fatalf("choose while paused: %v", err)
	}
}

func TestEndRoundClearsChoicesAndIsIdempotent(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	s := newStartedSession(t, e, "Bob", "Carol")

	if err := e.Choose(s, s.Participants[1].ID, models.ChoiceRisky); err != nil {
		t.Fatalf("choose: %v", err)
	}

	result, err := e.EndRound(s)
	if err != nil {
		t.Fatalf("end round: %v", err)
	}
	if s.Phase != models.PhaseResults {
		t.Fatalf("expected RESULTS, got %s", s.Phase)
	}
	if len(result.Outcomes) != 2 {
		t.Fatalf("expected one outcome per player, got %d", len(result.Outcomes))
	}
	if len(s.RoundResults) != 1 {
		t.Fatalf("expected one stored round result, got %d", len(s.RoundResults))
	}
	for _, p := range s.Participants {
		if p.HasChosen || p.PendingChoice != nil {
			t.Fatalf("choices must be cleared at round end: %+v", p)
		}
	}

	if _, err := e.EndRound(s); err == nil {
		t.Fatal("second end round for the same round must fail")
	}
	if len(s.RoundResults) != 1 {
		t.Fatalf("second end round must not append, got %d results", len(s.RoundResults))
	}
}

func TestDefaultChoiceIsSafe(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	s := newStartedSession(t, e, "Bob")

	result, err := e.EndRound(s)
	if err != nil {
		t.Fatalf("end round: %v", err)
	}
	if result.Outcomes[0].Choice != models.ChoiceSafe {
		t.Fatalf("absent submission must default to safe, got %s", result.Outcomes[0].Choice)
	}
}

func TestNextRoundAdvancesAndFinishes(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	s := newStartedSession(t, e, "Bob")

	for round := 1; round <= s.TotalRounds; round++ {
		if s.CurrentRound != round {
			t.Fatalf("expected round %d, got %d", round, s.CurrentRound)
		}
		if s.CurrentScenario.ID != s.ScenarioOrder[round-1] {
			t.Fatalf("round %d scenario mismatch", round)
		}
		if _, err := e.EndRound(s); err != nil {
			t.Fatalf("end round %d: %v", round, err)
		}
		finished, err := e.NextRound(s)
		if err != nil {
			t.Fatalf("next round after %d: %v", round, err)
		}
		if wantFinished := round == s.TotalRounds; finished != wantFinished {
			t.Fatalf("round %d: finished=%v, want %v", round, finished, wantFinished)
		}
	}

	if s.Phase != models.PhaseFinished {
		t.Fatalf("expected FINISHED, got %s", s.Phase)
	}
	if _, err := e.NextRound(s); err == nil {
		t.Fatal("advancing past the final round twice must fail")
	}
	if _, err := e.EndRound(s); err == nil {
		t.Fatal("finished session must reject end round")
	}
}

func TestNextRoundOnlyFromResults(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	s := newStartedSession(t, e, "Bob")

	if _, err := e.NextRound(s); err == nil {
		t.Fatal("next round while playing must fail")
	}
}

func TestLeaveSemantics(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	s, _ := e.NewSession("ABC234", "Alice", 5)
	bob, _ := e.Join(s, "Bob")
	bobID := bob.ID
	carol, _ := e.Join(s, "Carol")
	carolID := carol.ID

	// Lobby leave removes the participant outright.
	over, err := e.Leave(s, bobID)
	if err != nil || over {
		t.Fatalf("lobby leave: over=%v err=%v", over, err)
	}
	if len(s.Participants) != 2 {
		t.Fatalf("expected 2 participants after lobby leave, got %d", len(s.Participants))
	}

	// Mid-game leave eliminates instead, keeping round accounting intact.
	if err := e.Start(s); err != nil {
		t.Fatalf("start: %v", err)
	}
	over, err = e.Leave(s, carolID)
	if err != nil || over {
		t.Fatalf("mid-game leave: over=%v err=%v", over, err)
	}
	p := s.Participant(carolID)
	if p == nil || !p.IsEliminated {
		t.Fatalf("mid-game leave must eliminate, got %+v", p)
	}

	// Host leave signals session teardown.
	over, err = e.Leave(s, s.Participants[0].ID)
	if err != nil || !over {
		t.Fatalf("host leave: over=%v err=%v", over, err)
	}
}
