// Package game wires the session registry, round engine, auth guard, and
// broadcaster into the operations the transport layer exposes.
package game

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/outbreak/go/internal/game/auth"
	"github.com/mcdev12/outbreak/go/internal/game/broadcast"
	"github.com/mcdev12/outbreak/go/internal/game/engine"
	"github.com/mcdev12/outbreak/go/internal/game/events"
	"github.com/mcdev12/outbreak/go/internal/game/registry"
	"github.com/mcdev12/outbreak/go/internal/models"
	"github.com/rs/zerolog/log"
)

// Waker is poked whenever a mutation produced a new round deadline, so a
// deadline scheduler can re-evaluate its sleep.
type Waker interface {
	Wake()
}

// App handles game business logic. Every mutation runs inside the
// registry's per-code lock; broadcasting happens after the lock is
// released so slow subscribers can never stall a mutation.
type App struct {
	registry    registry.Registry
	engine      *engine.Engine
	broadcaster broadcast.Publisher
	clock       clockwork.Clock
	waker       Waker
}

// NewApp creates a new game App.
func NewApp(reg registry.Registry, eng *engine.Engine, pub broadcast.Publisher, clock clockwork.Clock) *App {
	return &App{
		registry:    reg,
		engine:      eng,
		broadcaster: pub,
		clock:       clock,
	}
}

// SetWaker attaches the deadline scheduler. Optional; wiring-time only.
func (a *App) SetWaker(w Waker) {
	a.waker = w
}

// CreateGame creates a new Lobby session and returns the host credentials.
func (a *App) CreateGame(ctx context.Context, hostName string, totalRounds int) (*CreateGameResult, error) {
	session, err := a.registry.Create(ctx, func(code string) (*models.Session, error) {
		return a.engine.NewSession(code, hostName, totalRounds)
	})
	if err != nil {
		return nil, fmt.Errorf("create game: %w", err)
	}

	host := session.Host()
	log.Info().Str("code", session.Code).Str("host", host.Name).Int("rounds", session.TotalRounds).Msg("game created")

	return &CreateGameResult{
		Code:        session.Code,
		HostID:      host.ID,
		SecretToken: host.SecretToken,
		Session:     session.Snapshot(),
	}, nil
}

// JoinGame adds a participant to a Lobby session and returns their
// credentials. This is the only time the secret token leaves the server.
func (a *App) JoinGame(ctx context.Context, code, name string) (*JoinGameResult, error) {
	var joinedID uuid.UUID
	var joinedToken string

	session, err := a.registry.WithLock(ctx, code, func(s *models.Session) error {
		p, err := a.engine.Join(s, name)
		if err != nil {
			return err
		}
		joinedID = p.ID
		joinedToken = p.SecretToken
		return nil
	})
	if err != nil {
		return nil, err
	}

	a.publish(events.EventTypePlayerJoined, session, fmt.Sprintf("%s joined the game", name))
	return &JoinGameResult{
		ParticipantID: joinedID,
		SecretToken:   joinedToken,
		Session:       session.Snapshot(),
	}, nil
}

// GetState returns a consistent sanitized snapshot. Safe to call at any
// time and from any caller; it is the poll-fallback for clients.
func (a *App) GetState(ctx context.Context, code string) (*models.Session, error) {
	session, err := a.registry.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	return session.Snapshot(), nil
}

// StartGame moves Lobby → Playing. Host only.
func (a *App) StartGame(ctx context.Context, code string, callerID uuid.UUID, token string) (*models.Session, error) {
	session, err := a.hostTransition(ctx, code, callerID, token, a.engine.Start)
	if err != nil {
		return nil, err
	}
	a.publish(events.EventTypeGameStarted, session, "")
	a.wake()
	return session.Snapshot(), nil
}

// PauseGame freezes the round clock. Host only.
func (a *App) PauseGame(ctx context.Context, code string, callerID uuid.UUID, token string) (*models.Session, error) {
	session, err := a.hostTransition(ctx, code, callerID, token, a.engine.Pause)
	if err != nil {
		return nil, err
	}
	a.publish(events.EventTypeGamePaused, session, "")
	return session.Snapshot(), nil
}

// ResumeGame continues a paused round with its remaining time intact.
// Host only.
func (a *App) ResumeGame(ctx context.Context, code string, callerID uuid.UUID, token string) (*models.Session, error) {
	session, err := a.hostTransition(ctx, code, callerID, token, a.engine.Resume)
	if err != nil {
		return nil, err
	}
	a.publish(events.EventTypeGameResumed, session, "")
	a.wake()
	return session.Snapshot(), nil
}

// Choose records the caller's pending choice for the current round.
func (a *App) Choose(ctx context.Context, code string, callerID uuid.UUID, token string, kind models.ChoiceKind) (*models.Session, error) {
	var chooserName string
	session, err := a.registry.WithLock(ctx, code, func(s *models.Session) error {
		p, err := auth.Verify(s, callerID, token)
		if err != nil {
			return err
		}
		chooserName = p.Name
		return a.engine.Choose(s, callerID, kind)
	})
	if err != nil {
		return nil, err
	}

	// The event announces WHO chose, never what: pending choices stay
	// private until the round resolves.
	a.publish(events.EventTypePlayerChose, session, fmt.Sprintf("%s locked in a choice", chooserName))
	return session.Snapshot(), nil
}

// EndRound resolves the current round. Host only; the timer path goes
// through EndRoundByTimer.
func (a *App) EndRound(ctx context.Context, code string, callerID uuid.UUID, token string) (*models.Session, error) {
	session, err := a.registry.WithLock(ctx, code, func(s *models.Session) error {
		if _, err := auth.VerifyHost(s, callerID, token); err != nil {
			return err
		}
		_, err := a.engine.EndRound(s)
		return err
	})
	if err != nil {
		return nil, err
	}

	a.publish(events.EventTypeRoundEnded, session, "")
	return session.Snapshot(), nil
}

// EndRoundByTimer is the deadline scheduler's entry point. It skips auth
// but runs the same serialized transition, and it re-checks the deadline
// inside the lock: a stale timer that fired after a pause, or before a
// resume-shifted deadline, gets a StateError and treats it as a no-op,
// exactly like losing a race with a manual endRound.
func (a *App) EndRoundByTimer(ctx context.Context, code string) error {
	session, err := a.registry.WithLock(ctx, code, func(s *models.Session) error {
		deadline, ok := s.RoundDeadline()
		if !ok {
			return &engine.StateError{Op: "end_round", Phase: s.Phase, Reason: "no running round clock"}
		}
		if a.clock.Now().Before(deadline) {
			return &engine.StateError{Op: "end_round", Phase: s.Phase, Reason: "round deadline not reached"}
		}
		_, err := a.engine.EndRound(s)
		return err
	})
	if err != nil {
		return err
	}

	log.Info().Str("code", code).Int("round", session.CurrentRound).Msg("round ended by timer")
	a.publish(events.EventTypeRoundEnded, session, "")
	return nil
}

// NextRound advances Results → Playing, or → Finished after the last
// round. Host only.
func (a *App) NextRound(ctx context.Context, code string, callerID uuid.UUID, token string) (*models.Session, error) {
	var finished bool
	session, err := a.registry.WithLock(ctx, code, func(s *models.Session) error {
		if _, err := auth.VerifyHost(s, callerID, token); err != nil {
			return err
		}
		var err error
		finished, err = a.engine.NextRound(s)
		return err
	})
	if err != nil {
		return nil, err
	}

	if finished {
		a.publish(events.EventTypeGameEnded, session, "")
	} else {
		a.publish(events.EventTypeRoundStarted, session, "")
		a.wake()
	}
	return session.Snapshot(), nil
}

// LeaveGame removes the caller from the session. A leaving host tears the
// whole session down.
func (a *App) LeaveGame(ctx context.Context, code string, callerID uuid.UUID, token string) (*LeaveGameResult, error) {
	var over bool
	var leaverName string
	session, err := a.registry.WithLock(ctx, code, func(s *models.Session) error {
		p, err := auth.Verify(s, callerID, token)
		if err != nil {
			return err
		}
		leaverName = p.Name
		over, err = a.engine.Leave(s, callerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if over {
		if err := a.registry.Delete(ctx, code); err != nil {
			log.Error().Err(err).Str("code", code).Msg("failed to delete session after host left")
		}
		a.publish(events.EventTypeGameEnded, session, fmt.Sprintf("host %s ended the game", leaverName))
		log.Info().Str("code", code).Msg("session deleted, host left")
		return &LeaveGameResult{Success: true, SessionEnded: true}, nil
	}

	a.publish(events.EventTypePlayerLeft, session, fmt.Sprintf("%s left the game", leaverName))
	return &LeaveGameResult{Success: true}, nil
}

// hostTransition runs a host-gated engine transition under the session lock.
func (a *App) hostTransition(ctx context.Context, code string, callerID uuid.UUID, token string, transition func(*models.Session) error) (*models.Session, error) {
	return a.registry.WithLock(ctx, code, func(s *models.Session) error {
		if _, err := auth.VerifyHost(s, callerID, token); err != nil {
			return err
		}
		return transition(s)
	})
}

func (a *App) publish(t events.EventType, session *models.Session, message string) {
	a.broadcaster.Publish(session.Code, events.Event{
		Type:      t,
		Code:      session.Code,
		Session:   session.Snapshot(),
		Message:   message,
		Timestamp: a.clock.Now(),
	})
}

func (a *App) wake() {
	if a.waker != nil {
		a.waker.Wake()
	}
}
