package ballotbox

import (
	"log/slog"

	httpadapter "evotar/contexts/election-operations/ballot-box/adapters/http"
	"evotar/contexts/election-operations/ballot-box/adapters/memory"
	"evotar/contexts/election-operations/ballot-box/application/commands"
	"evotar/contexts/election-operations/ballot-box/application/queries"
	"evotar/contexts/election-operations/ballot-box/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Sessions  ports.SessionRepository
	Catalog   ports.CatalogRepository
	BallotBox ports.BallotBox
	Receipts  ports.ReceiptIssuer
	Outbox    ports.OutboxWriter
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Logger    *slog.Logger
}

func NewModule(deps Dependencies) Module {
	castUseCase := commands.CastBallotUseCase{
		Sessions:  deps.Sessions,
		Catalog:   deps.Catalog,
		BallotBox: deps.BallotBox,
		Receipts:  deps.Receipts,
		Outbox:    deps.Outbox,
		Clock:     deps.Clock,
		IDGen:     deps.IDGen,
		Logger:    deps.Logger,
	}
	ballotQuery := queries.BallotQueryUseCase{
		Sessions: deps.Sessions,
		Catalog:  deps.Catalog,
		Clock:    deps.Clock,
		Logger:   deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Cast:    castUseCase,
			Ballots: ballotQuery,
			Logger:  deps.Logger,
		},
	}
}

// NewInMemoryModule wires every port to the in-memory store, with the receipt
// issuer left to the caller so tests can bridge a real or failing forge.
func NewInMemoryModule(receipts ports.ReceiptIssuer, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Sessions:  store,
		Catalog:   store,
		BallotBox: store,
		Receipts:  receipts,
		Outbox:    store,
		Clock:     store,
		IDGen:     store,
		Logger:    logger,
	})
	module.Store = store
	return module
}
