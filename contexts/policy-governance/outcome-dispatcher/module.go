package outcome

import (
	"log/slog"
	"time"

	amendmententities "concord/contexts/policy-governance/amendment-service/domain/entities"
	evententities "concord/contexts/policy-governance/event-service/domain/entities"
	"concord/contexts/policy-governance/outcome-dispatcher/adapters/memory"
	"concord/contexts/policy-governance/outcome-dispatcher/application/commands"
	"concord/contexts/policy-governance/outcome-dispatcher/application/workers"
	"concord/contexts/policy-governance/outcome-dispatcher/ports"
)

type Module struct {
	Dispatch commands.DispatchUseCase
	Consumer workers.SessionOutcomeConsumer
	Store    *memory.Store
}

type Dependencies struct {
	Agenda         ports.AgendaRepository
	Amendments     ports.AmendmentRepository
	Idempotency    ports.IdempotencyStore
	Outbox         ports.OutboxWriter
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	dispatchUseCase := commands.DispatchUseCase{
		Agenda:         deps.Agenda,
		Amendments:     deps.Amendments,
		Idempotency:    deps.Idempotency,
		Outbox:         deps.Outbox,
		Clock:          deps.Clock,
		IDGen:          deps.IDGen,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	return Module{
		Dispatch: dispatchUseCase,
		Consumer: workers.SessionOutcomeConsumer{
			Dispatch:   dispatchUseCase,
			Amendments: deps.Amendments,
			Logger:     deps.Logger,
		},
	}
}

func NewInMemoryModule(seedAgenda []evententities.AgendaItem, seedAmendments []amendmententities.Amendment, logger *slog.Logger) Module {
	store := memory.NewStore(seedAgenda, seedAmendments)
	module := NewModule(Dependencies{
		Agenda:         store,
		Amendments:     store,
		Idempotency:    store,
		Outbox:         store,
		Clock:          store,
		IDGen:          store,
		IdempotencyTTL: 7 * 24 * time.Hour,
		Logger:         logger,
	})
	module.Store = store
	return module
}
