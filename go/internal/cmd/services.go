package main

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/outbreak/go/internal/game"
	"github.com/mcdev12/outbreak/go/internal/game/broadcast"
	"github.com/mcdev12/outbreak/go/internal/game/catalog"
	"github.com/mcdev12/outbreak/go/internal/game/engine"
	"github.com/mcdev12/outbreak/go/internal/game/gateway"
	"github.com/mcdev12/outbreak/go/internal/game/registry"
	"github.com/mcdev12/outbreak/go/internal/game/scheduler"
	"github.com/rs/zerolog/log"
)

// Services holds everything the server process runs.
type Services struct {
	App               *game.App
	Service           *game.Service
	ConnectionManager *gateway.ConnectionManager
	WebSocketHandler  *gateway.WebSocketHandler
	EventConsumer     *gateway.EventConsumer
	Scheduler         *scheduler.Scheduler

	closers []io.Closer
}

// Close releases broker and database handles in reverse wiring order.
func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			log.Error().Err(err).Msg("failed to close service dependency")
		}
	}
}

// setupServices wires the dependency chain:
// catalog → engine → registry → app → broadcaster → gateway → scheduler.
func setupServices(config *Config) (*Services, error) {
	services := &Services{}
	clock := clockwork.NewRealClock()

	eng := engine.NewEngine(
		catalog.Default(),
		rand.New(rand.NewSource(time.Now().UnixNano())),
		clock,
		config.Game.RoundDurationSec,
	)

	reg, err := setupRegistry(services)
	if err != nil {
		return nil, err
	}

	connManager := gateway.NewConnectionManager(gateway.DefaultConnectionConfig())
	services.ConnectionManager = connManager

	publisher, err := setupBroadcast(services, connManager)
	if err != nil {
		return nil, err
	}

	app := game.NewApp(reg, eng, publisher, clock)
	services.App = app
	services.Service = game.NewService(app)
	services.WebSocketHandler = gateway.NewWebSocketHandler(connManager, app)

	sched := scheduler.New(app, reg, clock, scheduler.Config{
		NumWorkers: config.Scheduler.NumWorkers,
		IdlePoll:   time.Duration(config.Scheduler.IdlePollSec) * time.Second,
	})
	services.Scheduler = sched
	app.SetWaker(sched)

	return services, nil
}

// setupRegistry selects the session store. Postgres keeps sessions across
// restarts and lets several server instances share one pool of games; the
// in-memory store is for single-node and development runs.
func setupRegistry(services *Services) (registry.Registry, error) {
	backend := getEnv("REGISTRY_BACKEND", "memory")
	switch backend {
	case "memory":
		log.Info().Msg("using in-memory session registry")
		return registry.NewMemoryRegistry(), nil

	case "postgres":
		database, err := setupDatabase()
		if err != nil {
			return nil, fmt.Errorf("setup database: %w", err)
		}
		services.closers = append(services.closers, database)

		reg := registry.NewPostgresRegistry(database)
		if err := reg.EnsureSchema(context.Background()); err != nil {
			return nil, fmt.Errorf("ensure schema: %w", err)
		}
		log.Info().Msg("using postgres session registry")
		return reg, nil

	default:
		return nil, fmt.Errorf("unknown registry backend %q", backend)
	}
}

// setupBroadcast picks the event path. With NATS enabled, mutations publish
// to JetStream and a consumer feeds the websocket rooms, so gateways in
// other processes see the same events. Without it, the app publishes
// straight into this process's rooms.
func setupBroadcast(services *Services, connManager *gateway.ConnectionManager) (broadcast.Publisher, error) {
	if !getEnvAsBool("NATS_ENABLED", false) {
		log.Info().Msg("broadcasting events in-process")
		return connManager, nil
	}

	natsURL := getEnv("NATS_URL", "nats://localhost:4222")

	jsConfig := broadcast.DefaultJetStreamConfig()
	jsConfig.URL = natsURL
	publisher, err := broadcast.NewJetStreamPublisher(jsConfig)
	if err != nil {
		return nil, fmt.Errorf("setup JetStream publisher: %w", err)
	}
	services.closers = append(services.closers, publisher)

	consumerConfig := gateway.DefaultJetStreamConsumerConfig()
	consumerConfig.URL = natsURL
	consumer, err := gateway.NewEventConsumer(connManager, consumerConfig)
	if err != nil {
		publisher.Close()
		return nil, fmt.Errorf("setup JetStream consumer: %w", err)
	}
	services.EventConsumer = consumer

	log.Info().Str("url", natsURL).Msg("broadcasting events through JetStream")
	return publisher, nil
}
