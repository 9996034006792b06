package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	ballotbox "evotar/contexts/election-operations/ballot-box"
	ballotpostgres "evotar/contexts/election-operations/ballot-box/adapters/postgres"
	ballotworkers "evotar/contexts/election-operations/ballot-box/application/workers"
	ballotports "evotar/contexts/election-operations/ballot-box/ports"
	receiptservice "evotar/contexts/election-operations/receipt-service"
	receiptpdf "evotar/contexts/election-operations/receipt-service/adapters/pdf"
	receiptpostgres "evotar/contexts/election-operations/receipt-service/adapters/postgres"
	receiptcommands "evotar/contexts/election-operations/receipt-service/application/commands"
	receiptentities "evotar/contexts/election-operations/receipt-service/domain/entities"
	"evotar/internal/platform/config"
	"evotar/internal/platform/db"
	"evotar/internal/platform/httpserver"
	"evotar/internal/platform/messaging"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  ballotworkers.OutboxRelay
	relayEnabled bool
	pollInterval time.Duration
	logger       *slog.Logger
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

	receiptModule, issuer := buildReceiptModule(pg, cfg, logger)

	ballotRepo := ballotpostgres.NewRepository(pg.DB, logger)
	ballotModule := ballotbox.NewModule(ballotbox.Dependencies{
		Sessions:  ballotRepo,
		Catalog:   ballotRepo,
		BallotBox: ballotRepo,
		Receipts:  issuer,
		Outbox:    ballotRepo,
		Clock:     ballotpostgres.SystemClock{},
		IDGen:     ballotpostgres.UUIDGenerator{},
		Logger:    logger,
	})

	server := httpserver.New(ballotModule, receiptModule, logger, normalizeAddr(cfg.HTTPPort))
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

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	repo := ballotpostgres.NewRepository(pg.DB, logger)
	return &WorkerApp{
		postgres: pg,
		outboxRelay: ballotworkers.OutboxRelay{
			Outbox:    repo,
			Publisher: kafka,
			Clock:     ballotpostgres.SystemClock{},
			BatchSize: 100,
			Logger:    logger,
		},
		relayEnabled: cfg.EnableBallotOutboxRelay,
		pollInterval: 2 * time.Second,
		logger:       logger,
	}, nil
}

func buildReceiptModule(pg *db.Postgres, cfg config.Config, logger *slog.Logger) (receiptservice.Module, ballotports.ReceiptIssuer) {
	receiptRepo := receiptpostgres.NewRepository(pg.DB, logger)
	receiptModule := receiptservice.NewModule(receiptservice.Dependencies{
		Receipts:      receiptRepo,
		Renderer:      receiptpdf.NewRenderer(),
		Tokens:        receiptpostgres.HexTokenGenerator{},
		Clock:         receiptpostgres.SystemClock{},
		IDGen:         receiptpostgres.UUIDGenerator{},
		VerifyBaseURL: cfg.ReceiptVerifyBaseURL,
		Logger:        logger,
	})

	if !cfg.EnableReceiptIssuance {
		return receiptModule, nil
	}
	return receiptModule, receiptIssuerBridge{issue: receiptModule.Handler.Issue}
}

// receiptIssuerBridge adapts the receipt-service issue use case to the
// ballot-box ReceiptIssuer port so neither context imports the other.
type receiptIssuerBridge struct {
	issue receiptcommands.IssueReceiptUseCase
}

func (b receiptIssuerBridge) IssueReceipt(ctx context.Context, req ballotports.ReceiptRequest) (ballotports.IssuedReceipt, error) {
	selections := make([]receiptentities.SelectionLine, 0, len(req.Selections))
	for _, line := range req.Selections {
		selections = append(selections, receiptentities.SelectionLine{
			PositionID:    line.PositionID,
			PositionTitle: line.PositionTitle,
			CandidateID:   line.CandidateID,
			CandidateName: line.CandidateName,
		})
	}

	result, err := b.issue.Execute(ctx, receiptcommands.IssueReceiptCommand{
		ElectionID:    req.ElectionID,
		ElectionTitle: req.ElectionTitle,
		VotedAt:       req.VotedAt,
		Selections:    selections,
	})
	if err != nil {
		return ballotports.IssuedReceipt{}, err
	}

	return ballotports.IssuedReceipt{
		ReceiptID: result.ReceiptID,
		Document:  result.Document,
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
	if !w.relayEnabled {
		w.logger.Info("worker app idle, outbox relay disabled",
			"event", "bootstrap_worker_relay_disabled",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
		<-ctx.Done()
		return nil
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
		if err := w.outboxRelay.RunOnce(ctx); err != nil {
			return err
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
