package engine

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/outbreak/go/internal/game/catalog"
	"github.com/mcdev12/outbreak/go/internal/models"
)

// Round and participant limits.
const (
	MinRounds  = 3
	MaxRounds  = 15
	MaxNameLen = 24

	// BaselinePopulation is every non-host participant's starting score.
	BaselinePopulation = 100

	// DefaultRoundDurationSec is the fixed per-round timer unless the
	// deployment overrides it.
	DefaultRoundDurationSec = 60
)

// Rand is the randomness the engine needs for outcome resolution and
// scenario shuffling. *math/rand.Rand satisfies it; tests inject a seeded
// source so probabilistic outcomes are reproducible.
type Rand interface {
	Float64() float64
	Perm(n int) []int
}

// Engine applies phase transitions and outcome resolution to a session
// aggregate. All methods mutate the session in place and return a typed
// error without touching it when a guard fails; callers are expected to
// operate on a clone under the registry's per-code lock.
type Engine struct {
	catalog          *catalog.Catalog
	rng              Rand
	clock            clockwork.Clock
	roundDurationSec int
}

// NewEngine creates an engine. roundDurationSec <= 0 selects the default.
func NewEngine(cat *catalog.Catalog, rng Rand, clock clockwork.Clock, roundDurationSec int) *Engine {
	if roundDurationSec <= 0 {
		roundDurationSec = DefaultRoundDurationSec
	}
	return &Engine{
		catalog:          cat,
		rng:              rng,
		clock:            clock,
		roundDurationSec: roundDurationSec,
	}
}

// NewSession builds a fresh Lobby session with the host as sole participant.
func (e *Engine) NewSession(code, hostName string, totalRounds int) (*models.Session, error) {
	hostName = strings.TrimSpace(hostName)
	if err := validateName(hostName); err != nil {
		return nil, err
	}
	if totalRounds < MinRounds || totalRounds > MaxRounds {
		return nil, validationErr("total_rounds", "must be between %d and %d, got %d", MinRounds, MaxRounds, totalRounds)
	}
	if totalRounds > e.catalog.Size() {
		return nil, validationErr("total_rounds", "exceeds scenario catalog size %d", e.catalog.Size())
	}

	now := e.clock.Now()
	return &models.Session{
		Code:  code,
		Phase: models.PhaseLobby,
		Participants: []models.Participant{{
			ID:          uuid.New(),
			Name:        hostName,
			IsHost:      true,
			SecretToken: uuid.NewString(),
			JoinedAt:    now,
		}},
		TotalRounds:      totalRounds,
		RoundDurationSec: e.roundDurationSec,
		RoundResults:     []models.RoundResult{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}, nil
}

// Join appends a new non-host participant. Only valid in Lobby, and names
// must be unique case-insensitively.
func (e *Engine) Join(s *models.Session, name string) (*models.Participant, error) {
	name = strings.TrimSpace(name)
	if err := validateName(name); err != nil {
		return nil, err
	}
	if s.Phase != models.PhaseLobby {
		return nil, stateErr("join", s.Phase, "game already started")
	}
	if s.HasParticipantNamed(name) {
		return nil, stateErr("join", s.Phase, "name %q already taken", name)
	}

	p := models.Participant{
		ID:          uuid.New(),
		Name:        name,
		Population:  BaselinePopulation,
		SecretToken: uuid.NewString(),
		JoinedAt:    e.clock.Now(),
	}
	s.Participants = append(s.Participants, p)
	e.touch(s)
	return &s.Participants[len(s.Participants)-1], nil
}

// Leave removes a participant. In Lobby the participant is dropped; mid-game
// they are marked eliminated so round accounting stays consistent. The host
// leaving ends the session: sessionOver is true and the caller is expected
// to delete the aggregate.
func (e *Engine) Leave(s *models.Session, participantID uuid.UUID) (sessionOver bool, err error) {
	p := s.Participant(participantID)
	if p == nil {
		return false, stateErr("leave", s.Phase, "participant not in session")
	}

	if p.IsHost {
		return true, nil
	}

	if s.Phase == models.PhaseLobby {
		for i := range s.Participants {
			if s.Participants[i].ID == participantID {
				s.Participants = append(s.Participants[:i], s.Participants[i+1:]...)
				break
			}
		}
	} else {
		// Elimination tracks population below 1, so a leaver's population
		// is forfeited along with their seat.
		p.Population = 0
		p.IsEliminated = true
		p.PendingChoice = nil
		p.HasChosen = false
	}
	e.touch(s)
	return false, nil
}

// Start moves Lobby → Playing: samples the scenario order, sets round 1, and
// starts the round clock. Requires at least one non-host participant.
func (e *Engine) Start(s *models.Session) error {
	if s.Phase != models.PhaseLobby {
		return stateErr("start", s.Phase, "game already started")
	}
	if countPlayers(s) == 0 {
		return stateErr("start", s.Phase, "need at least one player besides the host")
	}

	order, err := e.catalog.ShuffledIDs(s.TotalRounds, e.rng)
	if err != nil {
		return err
	}

	s.ScenarioOrder = order
	s.CurrentRound = 1
	if err := e.setCurrentScenario(s); err != nil {
		return err
	}
	now := e.clock.Now()
	s.Phase = models.PhasePlaying
	s.RoundStartTime = &now
	s.PausedRemainingSec = nil
	e.touch(s)
	return nil
}

// Pause freezes the round clock, recording how many seconds remain.
func (e *Engine) Pause(s *models.Session) error {
	if s.Phase != models.PhasePlaying {
		return stateErr("pause", s.Phase, "can only pause a running round")
	}

	elapsed := e.clock.Now().Sub(*s.RoundStartTime)
	remaining := s.RoundDurationSec - int(elapsed/time.Second)
	if remaining < 0 {
		remaining = 0
	}

	s.Phase = models.PhasePaused
	s.PausedRemainingSec = &remaining
	s.RoundStartTime = nil
	e.touch(s)
	return nil
}

// Resume reconstructs a start time that preserves elapsed-time continuity:
// the round continues with exactly the remaining seconds recorded at pause.
func (e *Engine) Resume(s *models.Session) error {
	if s.Phase != models.PhasePaused {
		return stateErr("resume", s.Phase, "can only resume a paused round")
	}

	elapsed := time.Duration(s.RoundDurationSec-*s.PausedRemainingSec) * time.Second
	start := e.clock.Now().Add(-elapsed)

	s.Phase = models.PhasePlaying
	s.RoundStartTime = &start
	s.PausedRemainingSec = nil
	e.touch(s)
	return nil
}

// EndRound resolves every playing participant's choice, appends the round's
// result, and moves to Results. Calling it twice for the same round is a
// StateError, which makes concurrent manual and timer-driven triggers safe.
func (e *Engine) EndRound(s *models.Session) (*models.RoundResult, error) {
	if s.Phase != models.PhasePlaying && s.Phase != models.PhasePaused {
		return nil, stateErr("end_round", s.Phase, "round already ended")
	}

	result := e.resolveRound(s)
	s.RoundResults = append(s.RoundResults, *result)

	for i := range s.Participants {
		s.Participants[i].HasChosen = false
		s.Participants[i].PendingChoice = nil
	}

	s.Phase = models.PhaseResults
	s.RoundStartTime = nil
	s.PausedRemainingSec = nil
	e.touch(s)
	return result, nil
}

// NextRound advances Results → Playing for the next round, or → Finished
// after the final round. finished reports which edge was taken.
func (e *Engine) NextRound(s *models.Session) (finished bool, err error) {
	if s.Phase != models.PhaseResults {
		return false, stateErr("next_round", s.Phase, "no round result to advance from")
	}

	if s.CurrentRound >= s.TotalRounds {
		s.Phase = models.PhaseFinished
		s.CurrentScenario = nil
		s.RoundStartTime = nil
		s.PausedRemainingSec = nil
		e.touch(s)
		return true, nil
	}

	s.CurrentRound++
	if err := e.setCurrentScenario(s); err != nil {
		return false, err
	}
	now := e.clock.Now()
	s.Phase = models.PhasePlaying
	s.RoundStartTime = &now
	s.PausedRemainingSec = nil
	e.touch(s)
	return false, nil
}

// Choose records a participant's pending choice for the current round.
// Valid while Playing or Paused, once per participant per round.
func (e *Engine) Choose(s *models.Session, participantID uuid.UUID, kind models.ChoiceKind) error {
	if !kind.Valid() {
		return validationErr("choice", "must be %q or %q, got %q", models.ChoiceSafe, models.ChoiceRisky, kind)
	}
	if s.Phase != models.PhasePlaying && s.Phase != models.PhasePaused {
		return stateErr("choose", s.Phase, "no round in progress")
	}

	p := s.Participant(participantID)
	if p == nil {
		return stateErr("choose", s.Phase, "participant not in session")
	}
	if p.IsHost {
		return stateErr("choose", s.Phase, "host does not play rounds")
	}
	if p.IsEliminated {
		return stateErr("choose", s.Phase, "participant is eliminated")
	}
	if p.HasChosen {
		return stateErr("choose", s.Phase, "choice already submitted this round")
	}

	choice := kind
	p.PendingChoice = &choice
	p.HasChosen = true
	e.touch(s)
	return nil
}

func (e *Engine) setCurrentScenario(s *models.Session) error {
	id := s.ScenarioOrder[s.CurrentRound-1]
	sc, ok := e.catalog.ByID(id)
	if !ok {
		// ScenarioOrder is sampled from the catalog at start, so a miss
		// means the catalog changed under a live session.
		return stateErr("next_round", s.Phase, "scenario %q missing from catalog", id)
	}
	s.CurrentScenario = &sc
	return nil
}

func (e *Engine) touch(s *models.Session) {
	s.UpdatedAt = e.clock.Now()
}

func countPlayers(s *models.Session) int {
	n := 0
	for i := range s.Participants {
		if !s.Participants[i].IsHost {
			n++
		}
	}
	return n
}

func validateName(name string) error {
	if name == "" {
		return validationErr("name", "must not be empty")
	}
	if len(name) > MaxNameLen {
		return validationErr("name", "longer than %d characters", MaxNameLen)
	}
	return nil
}
