package scheduler

import (
	"context"
	"errors"
	"sync"

	"github.com/mcdev12/outbreak/go/internal/game/engine"
	"github.com/mcdev12/outbreak/go/internal/game/registry"
	"github.com/rs/zerolog/log"
)

// worker processes round timeouts from the work channel.
func (s *Scheduler) worker(ctx context.Context, wg *sync.WaitGroup, workerID int) {
	defer wg.Done()

	log.Debug().
		Str("instance", s.instanceID).
		Int("worker_id", workerID).
		Msg("worker started")

	for {
		select {
		case <-ctx.Done():
			log.Debug().
				Str("instance", s.instanceID).
				Int("worker_id", workerID).
				Msg("worker shutting down")
			return
		case code, ok := <-s.workCh:
			if !ok {
				return
			}

			s.handleTimeout(ctx, code, workerID)
			s.release(code)
		}
	}
}

// handleTimeout closes the expired round. Losing the race to a manual
// endRound, or the session disappearing, are expected outcomes, not errors.
func (s *Scheduler) handleTimeout(ctx context.Context, code string, workerID int) {
	err := s.app.EndRoundByTimer(ctx, code)
	if err == nil {
		log.Info().
			Str("code", code).
			Str("instance", s.instanceID).
			Int("worker_id", workerID).
			Msg("round timed out")
		return
	}

	var serr *engine.StateError
	switch {
	case errors.As(err, &serr):
		log.Debug().
			Str("code", code).
			Str("instance", s.instanceID).
			Msg("round already closed, timeout is a no-op")
	case errors.Is(err, registry.ErrNotFound):
		log.Debug().
			Str("code", code).
			Str("instance", s.instanceID).
			Msg("session gone before timeout fired")
	default:
		log.Error().
			Err(err).
			Str("code", code).
			Str("instance", s.instanceID).
			Int("worker_id", workerID).
			Msg("worker timeout handling failed")
	}
}
