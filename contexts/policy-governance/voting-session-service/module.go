package votingsession

import (
	"log/slog"
	"time"

	httpadapter "concord/contexts/policy-governance/voting-session-service/adapters/http"
	"concord/contexts/policy-governance/voting-session-service/adapters/memory"
	"concord/contexts/policy-governance/voting-session-service/application/commands"
	"concord/contexts/policy-governance/voting-session-service/application/queries"
	"concord/contexts/policy-governance/voting-session-service/domain/entities"
	"concord/contexts/policy-governance/voting-session-service/ports"
)

type Module struct {
	Handler  httpadapter.Handler
	Sessions commands.SessionUseCase
	Store    *memory.Store
}

type Dependencies struct {
	Sessions       ports.SessionRepository
	Votes          ports.VoteRepository
	Idempotency    ports.IdempotencyStore
	Outbox         ports.OutboxWriter
	Clock          ports.Clock
	IDGen          ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

func NewModule(deps Dependencies) Module {
	voteUseCase := commands.VoteUseCase{
		Sessions:       deps.Sessions,
		Votes:          deps.Votes,
		Idempotency:    deps.Idempotency,
		Clock:          deps.Clock,
		IDGen:          deps.IDGen,
		IdempotencyTTL: deps.IdempotencyTTL,
		Logger:         deps.Logger,
	}
	sessionUseCase := commands.SessionUseCase{
		Sessions: deps.Sessions,
		Votes:    deps.Votes,
		Outbox:   deps.Outbox,
		Clock:    deps.Clock,
		IDGen:    deps.IDGen,
		Logger:   deps.Logger,
	}
	tallyUseCase := queries.TallyUseCase{
		Sessions: deps.Sessions,
		Votes:    deps.Votes,
	}
	return Module{
		Handler: httpadapter.Handler{
			Sessions: sessionUseCase,
			Votes:    voteUseCase,
			Tallies:  tallyUseCase,
			Logger:   deps.Logger,
		},
		Sessions: sessionUseCase,
	}
}

func NewInMemoryModule(seed []entities.VotingSession, logger *slog.Logger) Module {
	store := memory.NewStore(seed)
	module := NewModule(Dependencies{
		Sessions:       store,
		Votes:          store,
		Idempotency:    store,
		Outbox:         store,
		Clock:          store,
		IDGen:          store,
		IdempotencyTTL: 24 * time.Hour,
		Logger:         logger,
	})
	module.Store = store
	return module
}
