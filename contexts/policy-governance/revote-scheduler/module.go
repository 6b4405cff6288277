package revote

import (
	"log/slog"

	httpadapter "concord/contexts/policy-governance/revote-scheduler/adapters/http"
	"concord/contexts/policy-governance/revote-scheduler/adapters/memory"
	"concord/contexts/policy-governance/revote-scheduler/application/commands"
	"concord/contexts/policy-governance/revote-scheduler/domain/entities"
	"concord/contexts/policy-governance/revote-scheduler/ports"
)

type Module struct {
	Handler   httpadapter.Handler
	Schedules commands.ScheduleUseCase
	Store     *memory.Store
}

type Dependencies struct {
	Positions ports.PositionRepository
	Elections ports.ElectionRepository
	Events    ports.EventPlanner
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	scheduleUseCase := commands.ScheduleUseCase{
		Positions: deps.Positions,
		Elections: deps.Elections,
		Events:    deps.Events,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Schedules: scheduleUseCase,
			Logger:    deps.Logger,
		},
		Schedules: scheduleUseCase,
	}
}

func NewInMemoryModule(seedPositions []entities.Position, logger *slog.Logger) Module {
	store := memory.NewStore(seedPositions)
	module := NewModule(Dependencies{
		Positions: store,
		Elections: store,
		Events:    store,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
