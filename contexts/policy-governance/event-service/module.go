package event

import (
	"log/slog"

	httpadapter "concord/contexts/policy-governance/event-service/adapters/http"
	"concord/contexts/policy-governance/event-service/adapters/memory"
	"concord/contexts/policy-governance/event-service/application/commands"
	"concord/contexts/policy-governance/event-service/application/queries"
	"concord/contexts/policy-governance/event-service/application/workers"
	"concord/contexts/policy-governance/event-service/domain/entities"
	"concord/contexts/policy-governance/event-service/ports"
)

type Module struct {
	Handler   httpadapter.Handler
	Events    commands.EventUseCase
	PathAudit workers.PathAudit
	Store     *memory.Store
}

type Dependencies struct {
	Events     ports.EventRepository
	Agenda     ports.AgendaRepository
	Amendments ports.AmendmentPathStore
	Groups     ports.GroupDirectory
	Outbox     ports.OutboxWriter
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Logger     *slog.Logger
}

func NewModule(deps Dependencies) Module {
	validationUseCase := queries.ValidationUseCase{
		Events: deps.Events,
		Agenda: deps.Agenda,
		Groups: deps.Groups,
		Clock:  deps.Clock,
	}
	reassignUseCase := commands.ReassignUseCase{
		Agenda: deps.Agenda,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	recalculateUseCase := commands.RecalculateUseCase{
		Amendments: deps.Amendments,
		Logger:     deps.Logger,
	}
	eventUseCase := commands.EventUseCase{
		Events:      deps.Events,
		Agenda:      deps.Agenda,
		Validation:  validationUseCase,
		Reassign:    reassignUseCase,
		Recalculate: recalculateUseCase,
		Outbox:      deps.Outbox,
		Clock:       deps.Clock,
		IDGen:       deps.IDGen,
		Logger:      deps.Logger,
	}
	agendaUseCase := queries.AgendaUseCase{
		Events: deps.Events,
		Agenda: deps.Agenda,
	}
	return Module{
		Handler: httpadapter.Handler{
			Events:     eventUseCase,
			Validation: validationUseCase,
			Agenda:     agendaUseCase,
			Logger:     deps.Logger,
		},
		Events: eventUseCase,
		PathAudit: workers.PathAudit{
			Amendments: deps.Amendments,
			Validation: validationUseCase,
			Logger:     deps.Logger,
		},
	}
}

func NewInMemoryModule(seedEvents []entities.Event, seedAgenda []entities.AgendaItem, logger *slog.Logger) Module {
	store := memory.NewStore(seedEvents, seedAgenda)
	module := NewModule(Dependencies{
		Events:     store,
		Agenda:     store,
		Amendments: store,
		Groups:     store,
		Outbox:     store,
		Clock:      store,
		IDGen:      store,
		Logger:     logger,
	})
	module.Store = store
	return module
}
