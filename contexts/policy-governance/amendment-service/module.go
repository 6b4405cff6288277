package amendment

import (
	"log/slog"
	"time"

	httpadapter "concord/contexts/policy-governance/amendment-service/adapters/http"
	"concord/contexts/policy-governance/amendment-service/adapters/memory"
	"concord/contexts/policy-governance/amendment-service/application/commands"
	"concord/contexts/policy-governance/amendment-service/application/queries"
	"concord/contexts/policy-governance/amendment-service/domain/entities"
	"concord/contexts/policy-governance/amendment-service/ports"
)

type Module struct {
	Handler    httpadapter.Handler
	Amendments commands.AmendmentUseCase
	Store      *memory.Store
}

type Dependencies struct {
	Amendments     ports.AmendmentRepository
	Routes         ports.RouteBuilder
	Idempotency    ports.IdempotencyStore
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	amendmentUseCase := commands.AmendmentUseCase{
		Amendments:     deps.Amendments,
		Routes:         deps.Routes,
		Idempotency:    deps.Idempotency,
		Clock:          deps.Clock,
		IDGen:          deps.IDGen,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	viewUseCase := queries.AmendmentUseCase{
		Amendments: deps.Amendments,
	}
	return Module{
		Handler: httpadapter.Handler{
			Amendments: amendmentUseCase,
			Views:      viewUseCase,
			Logger:     deps.Logger,
		},
		Amendments: amendmentUseCase,
	}
}

func NewInMemoryModule(seed []entities.Amendment, routes ports.RouteBuilder, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Amendments:     store,
		Routes:         routes,
		Idempotency:    store,
		Clock:          store,
		IDGen:          store,
		IdempotencyTTL: 24 * time.Hour,
		Logger:         logger,
	})
	module.Store = store
	return module
}
