package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	amendment "concord/contexts/policy-governance/amendment-service"
	amendmentpostgres "concord/contexts/policy-governance/amendment-service/adapters/postgres"
	routingadapter "concord/contexts/policy-governance/amendment-service/adapters/routing"
	event "concord/contexts/policy-governance/event-service"
	eventpostgres "concord/contexts/policy-governance/event-service/adapters/postgres"
	eventports "concord/contexts/policy-governance/event-service/ports"
	eventworkers "concord/contexts/policy-governance/event-service/application/workers"
	groupnetwork "concord/contexts/policy-governance/group-network-service"
	groupnetworkpostgres "concord/contexts/policy-governance/group-network-service/adapters/postgres"
	outcome "concord/contexts/policy-governance/outcome-dispatcher"
	outcomepostgres "concord/contexts/policy-governance/outcome-dispatcher/adapters/postgres"
	outcomeports "concord/contexts/policy-governance/outcome-dispatcher/ports"
	outcomeworkers "concord/contexts/policy-governance/outcome-dispatcher/application/workers"
	revote "concord/contexts/policy-governance/revote-scheduler"
	eventsadapter "concord/contexts/policy-governance/revote-scheduler/adapters/events"
	revotepostgres "concord/contexts/policy-governance/revote-scheduler/adapters/postgres"
	votingsession "concord/contexts/policy-governance/voting-session-service"
	votingpostgres "concord/contexts/policy-governance/voting-session-service/adapters/postgres"
	votingports "concord/contexts/policy-governance/voting-session-service/ports"
	votingworkers "concord/contexts/policy-governance/voting-session-service/application/workers"
	"concord/internal/platform/config"
	"concord/internal/platform/db"
	"concord/internal/platform/httpserver"
	"concord/internal/platform/messaging"
	"concord/internal/shared/events"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres        *db.Postgres
	bus             *messaging.Kafka
	votingRelay     votingworkers.OutboxRelay
	eventRelay      eventworkers.OutboxRelay
	outcomeRelay    outcomeworkers.OutboxRelay
	outcomeConsumer outcomeworkers.SessionOutcomeConsumer
	pathAudit       eventworkers.PathAudit
	cfg             config.Config
	pollInterval    time.Duration
	logger          *slog.Logger
}

type modules struct {
	voting       votingsession.Module
	groupNetwork groupnetwork.Module
	amendments   amendment.Module
	events       event.Module
	revotes      revote.Module
	outcomes     outcome.Module
	votingRepo   *votingpostgres.Repository
	eventRepo    *eventpostgres.Repository
	outcomeRepo  *outcomepostgres.Repository
}

func buildModules(pg *db.Postgres, logger *slog.Logger) modules {
	groupRepo := groupnetworkpostgres.NewRepository(pg.DB, logger)
	groupNetworkModule := groupnetwork.NewModule(groupnetwork.Dependencies{
		Groups: groupRepo,
		Events: groupRepo,
		Clock:  groupnetworkpostgres.SystemClock{},
		IDGen:  groupnetworkpostgres.UUIDGenerator{},
		Logger: logger,
	})

	amendmentRepo := amendmentpostgres.NewRepository(pg.DB, logger)
	amendmentModule := amendment.NewModule(amendment.Dependencies{
		Amendments:     amendmentRepo,
		Routes:         routingadapter.GroupNetworkRouteBuilder{Routes: groupNetworkModule.Routes},
		Idempotency:    amendmentRepo,
		Clock:          amendmentpostgres.SystemClock{},
		IDGen:          amendmentpostgres.UUIDGenerator{},
		IdempotencyTTL: 24 * time.Hour,
		Logger:         logger,
	})

	eventRepo := eventpostgres.NewRepository(pg.DB, logger)
	eventModule := event.NewModule(event.Dependencies{
		Events:     eventRepo,
		Agenda:     eventRepo,
		Amendments: eventRepo,
		Groups:     eventRepo,
		Outbox:     eventRepo,
		Clock:      eventpostgres.SystemClock{},
		IDGen:      eventpostgres.UUIDGenerator{},
		Logger:     logger,
	})

	revoteRepo := revotepostgres.NewRepository(pg.DB, logger)
	revoteModule := revote.NewModule(revote.Dependencies{
		Positions: revoteRepo,
		Elections: revoteRepo,
		Events: eventsadapter.EventServicePlanner{
			Events:     eventModule.Events,
			Repository: eventRepo,
		},
		Clock:  revotepostgres.SystemClock{},
		IDGen:  revotepostgres.UUIDGenerator{},
		Logger: logger,
	})

	votingRepo := votingpostgres.NewRepository(pg.DB, logger)
	votingModule := votingsession.NewModule(votingsession.Dependencies{
		Sessions:       votingRepo,
		Votes:          votingRepo,
		Idempotency:    votingRepo,
		Outbox:         votingRepo,
		Clock:          votingpostgres.SystemClock{},
		IDGen:          votingpostgres.UUIDGenerator{},
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})

	outcomeRepo := outcomepostgres.NewRepository(pg.DB, logger)
	outcomeModule := outcome.NewModule(outcome.Dependencies{
		Agenda:         eventRepo,
		Amendments:     amendmentRepo,
		Idempotency:    outcomeRepo,
		Outbox:         outcomeRepo,
		Clock:          outcomepostgres.SystemClock{},
		IDGen:          outcomepostgres.UUIDGenerator{},
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})

	return modules{
		voting:       votingModule,
		groupNetwork: groupNetworkModule,
		amendments:   amendmentModule,
		events:       eventModule,
		revotes:      revoteModule,
		outcomes:     outcomeModule,
		votingRepo:   votingRepo,
		eventRepo:    eventRepo,
		outcomeRepo:  outcomeRepo,
	}
}

func BuildAPI() (*APIApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	mods := buildModules(pg, logger)
	server := httpserver.New(
		mods.voting,
		mods.groupNetwork,
		mods.amendments,
		mods.events,
		mods.revotes,
		logger,
		normalizeAddr(cfg.HTTPPort),
	)
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker() (*WorkerApp, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN)
	if err != nil {
		return nil, err
	}

	bus, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	mods := buildModules(pg, logger)
	return &WorkerApp{
		postgres: pg,
		bus:      bus,
		votingRelay: votingworkers.OutboxRelay{
			Outbox:    mods.votingRepo,
			Publisher: votingBusPublisher{bus: bus},
			Clock:     votingpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		eventRelay: eventworkers.OutboxRelay{
			Outbox:    mods.eventRepo,
			Publisher: eventBusPublisher{bus: bus},
			Clock:     eventpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		outcomeRelay: outcomeworkers.OutboxRelay{
			Outbox:    mods.outcomeRepo,
			Publisher: outcomeBusPublisher{bus: bus},
			Clock:     outcomepostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		outcomeConsumer: mods.outcomes.Consumer,
		pathAudit:       mods.events.PathAudit,
		cfg:             cfg,
		pollInterval:    2 * time.Second,
		logger:          logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if w.cfg.EnableSessionOutcomeConsumer {
		err := w.bus.Subscribe(ctx, events.TopicSessionClosed, "outcome-dispatcher-cg",
			func(ctx context.Context, envelope events.Envelope) error {
				return w.outcomeConsumer.Handle(ctx, outcomeEnvelopeFromBus(envelope))
			})
		if err != nil {
			return err
		}
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	for {
		if err := w.votingRelay.RunOnce(ctx); err != nil {
			return err
		}
		if err := w.eventRelay.RunOnce(ctx); err != nil {
			return err
		}
		if w.cfg.EnableOutcomeOutboxRelay {
			if err := w.outcomeRelay.RunOnce(ctx); err != nil {
				return err
			}
		}
		if w.cfg.EnablePathAuditWorker {
			if err := w.pathAudit.RunOnce(ctx); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

// Bus bridges. Each context owns its envelope type; the bus carries the
// shared shape, so relays publish through a field-for-field conversion.

type votingBusPublisher struct {
	bus *messaging.Kafka
}

func (p votingBusPublisher) Publish(ctx context.Context, topic string, event votingports.EventEnvelope) error {
	return p.bus.Publish(ctx, topic, events.Envelope{
		EventID:          event.EventID,
		EventType:        event.EventType,
		OccurredAt:       event.OccurredAt,
		SourceService:    event.SourceService,
		TraceID:          event.TraceID,
		SchemaVersion:    event.SchemaVersion,
		PartitionKeyPath: event.PartitionKeyPath,
		PartitionKey:     event.PartitionKey,
		Data:             event.Data,
	})
}

type eventBusPublisher struct {
	bus *messaging.Kafka
}

func (p eventBusPublisher) Publish(ctx context.Context, topic string, event eventports.EventEnvelope) error {
	return p.bus.Publish(ctx, topic, events.Envelope{
		EventID:          event.EventID,
		EventType:        event.EventType,
		OccurredAt:       event.OccurredAt,
		SourceService:    event.SourceService,
		TraceID:          event.TraceID,
		SchemaVersion:    event.SchemaVersion,
		PartitionKeyPath: event.PartitionKeyPath,
		PartitionKey:     event.PartitionKey,
		Data:             event.Data,
	})
}

type outcomeBusPublisher struct {
	bus *messaging.Kafka
}

func (p outcomeBusPublisher) Publish(ctx context.Context, topic string, event outcomeports.EventEnvelope) error {
	return p.bus.Publish(ctx, topic, events.Envelope{
		EventID:          event.EventID,
		EventType:        event.EventType,
		OccurredAt:       event.OccurredAt,
		SourceService:    event.SourceService,
		TraceID:          event.TraceID,
		SchemaVersion:    event.SchemaVersion,
		PartitionKeyPath: event.PartitionKeyPath,
		PartitionKey:     event.PartitionKey,
		Data:             event.Data,
	})
}

func outcomeEnvelopeFromBus(envelope events.Envelope) outcomeports.EventEnvelope {
	return outcomeports.EventEnvelope{
		EventID:          envelope.EventID,
		EventType:        envelope.EventType,
		OccurredAt:       envelope.OccurredAt,
		SourceService:    envelope.SourceService,
		TraceID:          envelope.TraceID,
		SchemaVersion:    envelope.SchemaVersion,
		PartitionKeyPath: envelope.PartitionKeyPath,
		PartitionKey:     envelope.PartitionKey,
		Data:             envelope.Data,
	}
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
