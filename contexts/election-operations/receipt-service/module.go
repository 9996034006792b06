package receiptservice

import (
	"log/slog"

	httpadapter "evotar/contexts/election-operations/receipt-service/adapters/http"
	"evotar/contexts/election-operations/receipt-service/adapters/memory"
	"evotar/contexts/election-operations/receipt-service/adapters/pdf"
	"evotar/contexts/election-operations/receipt-service/application/commands"
	"evotar/contexts/election-operations/receipt-service/application/queries"
	"evotar/contexts/election-operations/receipt-service/ports"
)

type Module struct {
	Handler httpadapter.Handler
	Store   *memory.Store
}

type Dependencies struct {
	Receipts      ports.ReceiptRepository
	Renderer      ports.DocumentRenderer
	Tokens        ports.TokenGenerator
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	VerifyBaseURL string
	Logger        *slog.Logger
}

func NewModule(deps Dependencies) Module {
	issueUseCase := commands.IssueReceiptUseCase{
		Receipts:      deps.Receipts,
		Renderer:      deps.Renderer,
		Tokens:        deps.Tokens,
		Clock:         deps.Clock,
		IDGen:         deps.IDGen,
		VerifyBaseURL: deps.VerifyBaseURL,
		Logger:        deps.Logger,
	}
	verifyUseCase := queries.VerifyReceiptUseCase{
		Receipts: deps.Receipts,
		Logger:   deps.Logger,
	}
	return Module{
		Handler: httpadapter.Handler{
			Issue:  issueUseCase,
			Verify: verifyUseCase,
			Logger: deps.Logger,
		},
	}
}

// NewInMemoryModule wires the repository, token source, and clock to the
// in-memory store. Rendering still uses the real PDF renderer.
func NewInMemoryModule(verifyBaseURL string, logger *slog.Logger) Module {
	store := memory.NewStore()
	module := NewModule(Dependencies{
		Receipts:      store,
		Renderer:      pdf.NewRenderer(),
		Tokens:        store,
		Clock:         store,
		IDGen:         store,
		VerifyBaseURL: verifyBaseURL,
		Logger:        logger,
	})
	module.Store = store
	return module
}
