package groupnetwork

import (
	"log/slog"

	httpadapter "concord/contexts/policy-governance/group-network-service/adapters/http"
	"concord/contexts/policy-governance/group-network-service/adapters/memory"
	"concord/contexts/policy-governance/group-network-service/application/commands"
	"concord/contexts/policy-governance/group-network-service/application/queries"
	"concord/contexts/policy-governance/group-network-service/domain/entities"
	"concord/contexts/policy-governance/group-network-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Routes  queries.RouteUseCase
	Store   *memory.Store
}

type Dependencies struct {
	Groups ports.GroupRepository
	Events ports.EventDirectory
	Clock  ports.Clock
	IDGen  ports.IDGenerator
	Logger *slog.Logger
}

func NewModule(deps Dependencies) Module {
	routeUseCase := queries.RouteUseCase{
		Groups: deps.Groups,
		Events: deps.Events,
		Clock:  deps.Clock,
		Logger: deps.Logger,
	}
	relationshipUseCase := commands.RelationshipUseCase{
		Groups: deps.Groups,
		Clock:  deps.Clock,
		IDGen:  deps.IDGen,
		Logger: deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Routes:        routeUseCase,
			Relationships: relationshipUseCase,
			Logger:        deps.Logger,
		},
		Routes: routeUseCase,
	}
}

func NewInMemoryModule(seedGroups []entities.Group, seedRelationships []entities.GroupRelationship, logger *slog.Logger) Module {
	store := memory.NewStore(seedGroups, seedRelationships)
	module := NewModule(Dependencies{
		Groups: store,
		Events: store,
		Clock:  store,
		IDGen:  store,
		Logger: logger,
	})
	module.Store = store
	return module
}
