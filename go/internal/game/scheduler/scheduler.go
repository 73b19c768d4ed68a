// Package scheduler closes rounds whose timers expired. It sleeps until the
// earliest deadline across all sessions, wakes early when a mutation created
// a sooner one, and hands due codes to a worker pool.
package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/outbreak/go/internal/game/registry"
	"github.com/rs/zerolog/log"
)

// RoundEnder is what the scheduler needs from the game app.
type RoundEnder interface {
	EndRoundByTimer(ctx context.Context, code string) error
}

// DeadlineSource yields the earliest round deadline across live sessions.
// The registry backends satisfy it.
type DeadlineSource interface {
	NextDeadline(ctx context.Context) (*registry.Deadline, error)
}

// Config tunes the scheduler loop.
type Config struct {
	NumWorkers   int
	IdlePoll     time.Duration
	InFlightPoll time.Duration
}

// DefaultConfig returns scheduler settings suitable for a single node.
func DefaultConfig() Config {
	return Config{
		NumWorkers:   4,
		IdlePoll:     5 * time.Second,
		InFlightPoll: 100 * time.Millisecond,
	}
}

// Scheduler drives round timeouts. It is the server-side authority for the
// round clock: clients may call endRound early, but an expired round closes
// even if every client went away.
type Scheduler struct {
	app       RoundEnder
	deadlines DeadlineSource
	clock     clockwork.Clock
	config    Config

	wakeCh     chan struct{}
	instanceID string

	workCh     chan string
	inFlight   map[string]bool
	inFlightMu sync.Mutex
}

// New creates a scheduler. Zero config fields fall back to defaults.
func New(app RoundEnder, deadlines DeadlineSource, clock clockwork.Clock, config Config) *Scheduler {
	def := DefaultConfig()
	if config.NumWorkers <= 0 {
		config.NumWorkers = def.NumWorkers
	}
	if config.IdlePoll <= 0 {
		config.IdlePoll = def.IdlePoll
	}
	if config.InFlightPoll <= 0 {
		config.InFlightPoll = def.InFlightPoll
	}

	return &Scheduler{
		app:        app,
		deadlines:  deadlines,
		clock:      clock,
		config:     config,
		wakeCh:     make(chan struct{}, 1),
		instanceID: uuid.New().String()[:8],
		workCh:     make(chan string, config.NumWorkers*2),
		inFlight:   make(map[string]bool),
	}
}

// Wake nudges the scheduler to re-evaluate its sleep. Called after any
// mutation that produced a new deadline; safe from any goroutine and never
// blocks.
func (s *Scheduler) Wake() {
	select {
	case s.wakeCh <- struct{}{}:
	default:
	}
}

// Run loops until ctx is cancelled, sleeping until the next deadline and
// firing timeouts.
func (s *Scheduler) Run(ctx context.Context) error {
	log.Info().Str("instance", s.instanceID).Int("workers", s.config.NumWorkers).Msg("scheduler started")

	var wg sync.WaitGroup
	workerCtx, cancelWorkers := context.WithCancel(ctx)
	defer cancelWorkers()

	for i := 0; i < s.config.NumWorkers; i++ {
		wg.Add(1)
		go s.worker(workerCtx, &wg, i)
	}

	defer func() {
		log.Info().Str("instance", s.instanceID).Msg("shutting down workers")
		cancelWorkers()
		close(s.workCh)
		wg.Wait()
		log.Info().Str("instance", s.instanceID).Msg("all workers shut down")
	}()

	timer := s.clock.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.Chan()
	}

	for {
		// Drain any stale wake so the next one is not lost while we sleep.
		select {
		case <-s.wakeCh:
			log.Debug().Str("instance", s.instanceID).Msg("drained wake channel")
		default:
		}

		next, err := s.deadlines.NextDeadline(ctx)
		if err != nil {
			log.Error().Err(err).Str("instance", s.instanceID).Msg("error fetching next deadline")
			timer.Reset(time.Second)
			select {
			case <-timer.Chan():
				continue
			case <-ctx.Done():
				return nil
			}
		}

		if next == nil {
			// Nothing running. Idle until woken or the poll fires; the poll
			// covers deadlines created by another process sharing the store.
			timer.Reset(s.config.IdlePoll)
			select {
			case <-timer.Chan():
				continue
			case <-ctx.Done():
				log.Info().Str("instance", s.instanceID).Msg("shutdown during idle")
				return nil
			case <-s.wakeCh:
				log.Debug().Str("instance", s.instanceID).Msg("woken up from idle")
				continue
			}
		}

		wait := next.At.Sub(s.clock.Now())
		if wait > 0 {
			timer.Reset(wait)
			select {
			case <-timer.Chan():
				log.Debug().Str("instance", s.instanceID).Str("code", next.Code).Msg("timer fired")
			case <-ctx.Done():
				log.Info().Str("instance", s.instanceID).Msg("shutdown during wait")
				return nil
			case <-s.wakeCh:
				log.Debug().Str("instance", s.instanceID).Msg("woken up early, re-evaluating deadlines")
				continue
			}
		}

		if !s.claim(next.Code) {
			// A worker already has this code; its deadline will clear once
			// the round closes. Back off briefly instead of spinning.
			timer.Reset(s.config.InFlightPoll)
			select {
			case <-timer.Chan():
				continue
			case <-ctx.Done():
				return nil
			case <-s.wakeCh:
				continue
			}
		}

		select {
		case <-ctx.Done():
			s.release(next.Code)
			log.Info().Str("instance", s.instanceID).Msg("shutdown while queueing timeout")
			return nil
		case s.workCh <- next.Code:
			log.Debug().Str("code", next.Code).Str("instance", s.instanceID).Msg("queued timeout for worker")
		}
	}
}

func (s *Scheduler) claim(code string) bool {
	s.inFlightMu.Lock()
	defer s.inFlightMu.Unlock()
	if s.inFlight[code] {
		return false
	}
	s.inFlight[code] = true
	return true
}

func (s *Scheduler) release(code string) {
	s.inFlightMu.Lock()
	delete(s.inFlight, code)
	s.inFlightMu.Unlock()
}
