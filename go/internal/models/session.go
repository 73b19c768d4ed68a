package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Phase defines where a session is in the round lifecycle.
type Phase string

const (
	PhaseLobby    Phase = "LOBBY"
	PhasePlaying  Phase = "PLAYING"
	PhasePaused   Phase = "PAUSED"
	PhaseResults  Phase = "RESULTS"
	PhaseFinished Phase = "FINISHED"
)

// Session is the aggregate root for one game, keyed by its join code.
//
// Optional fields encode the phase invariant:
//   - RoundStartTime is set only while PLAYING
//   - PausedRemainingSec is set only while PAUSED
//   - CurrentScenario is set from the first round onward
type Session struct {
	Code               string        `json:"code"`
	Phase              Phase         `json:"phase"`
	Participants       []Participant `json:"participants"` // insertion order = join order
	CurrentRound       int           `json:"current_round"`
	TotalRounds        int           `json:"total_rounds"`
	ScenarioOrder      []string      `json:"scenario_order,omitempty"`
	CurrentScenario    *Scenario     `json:"current_scenario,omitempty"`
	RoundStartTime     *time.Time    `json:"round_start_time,omitempty"`
	RoundDurationSec   int           `json:"round_duration_sec"`
	PausedRemainingSec *int          `json:"paused_remaining_sec,omitempty"`
	RoundResults       []RoundResult `json:"round_results"`
	CreatedAt          time.Time     `json:"created_at"`
	UpdatedAt          time.Time     `json:"updated_at"`
}

// Clone returns a deep copy of the session. Engine transitions mutate a clone
// so a failed guard leaves the stored aggregate untouched.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	out := *s

	out.Participants = make([]Participant, len(s.Participants))
	copy(out.Participants, s.Participants)
	for i := range out.Participants {
		if pc := out.Participants[i].PendingChoice; pc != nil {
			v := *pc
			out.Participants[i].PendingChoice = &v
		}
	}

	if s.ScenarioOrder != nil {
		out.ScenarioOrder = make([]string, len(s.ScenarioOrder))
		copy(out.ScenarioOrder, s.ScenarioOrder)
	}
	if s.CurrentScenario != nil {
		sc := *s.CurrentScenario
		out.CurrentScenario = &sc
	}
	if s.RoundStartTime != nil {
		t := *s.RoundStartTime
		out.RoundStartTime = &t
	}
	if s.PausedRemainingSec != nil {
		v := *s.PausedRemainingSec
		out.PausedRemainingSec = &v
	}

	out.RoundResults = make([]RoundResult, len(s.RoundResults))
	copy(out.RoundResults, s.RoundResults)
	for i := range out.RoundResults {
		outcomes := make([]ParticipantOutcome, len(s.RoundResults[i].Outcomes))
		copy(outcomes, s.RoundResults[i].Outcomes)
		out.RoundResults[i].Outcomes = outcomes
	}

	return &out
}

// Snapshot returns a client-safe copy: secret tokens and pending choices are
// stripped. Participants stay in join order.
func (s *Session) Snapshot() *Session {
	out := s.Clone()
	for i := range out.Participants {
		out.Participants[i].SecretToken = ""
		out.Participants[i].PendingChoice = nil
	}
	return out
}

// Leaderboard returns the non-host participants ordered by population
// descending. Ties keep join order.
func (s *Session) Leaderboard() []Participant {
	var ps []Participant
	for i := range s.Participants {
		if !s.Participants[i].IsHost {
			ps = append(ps, s.Participants[i])
		}
	}
	sortLeaderboard(ps)
	return ps
}

// Participant returns the participant with the given ID, or nil.
func (s *Session) Participant(id uuid.UUID) *Participant {
	for i := range s.Participants {
		if s.Participants[i].ID == id {
			return &s.Participants[i]
		}
	}
	return nil
}

// Host returns the host participant, or nil for a malformed session.
func (s *Session) Host() *Participant {
	for i := range s.Participants {
		if s.Participants[i].IsHost {
			return &s.Participants[i]
		}
	}
	return nil
}

// HasParticipantNamed reports whether a participant with the given name
// already exists, compared case-insensitively.
func (s *Session) HasParticipantNamed(name string) bool {
	for i := range s.Participants {
		if strings.EqualFold(s.Participants[i].Name, name) {
			return true
		}
	}
	return false
}

// RoundDeadline returns the authoritative end-of-round instant. It is only
// meaningful while PLAYING; ok is false otherwise.
func (s *Session) RoundDeadline() (time.Time, bool) {
	if s.Phase != PhasePlaying || s.RoundStartTime == nil {
		return time.Time{}, false
	}
	return s.RoundStartTime.Add(time.Duration(s.RoundDurationSec) * time.Second), true
}

// sortLeaderboard orders participants by population descending with a stable
// insertion sort, so equal populations keep join order.
func sortLeaderboard(ps []Participant) {
	for i := 1; i < len(ps); i++ {
		for j := i; j > 0 && ps[j-1].Population < ps[j].Population; j-- {
			ps[j-1], ps[j] = ps[j], ps[j-1]
		}
	}
}
