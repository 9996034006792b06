package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"evotar/contexts/election-operations/receipt-service/application"
	"evotar/contexts/election-operations/receipt-service/domain/entities"
	domainerrors "evotar/contexts/election-operations/receipt-service/domain/errors"
	"evotar/contexts/election-operations/receipt-service/ports"
)

type IssueReceiptCommand struct {
	ElectionID    string
	ElectionTitle string
	VotedAt       time.Time
	Selections    []entities.SelectionLine
}

type IssueReceiptResult struct {
	ReceiptID         string
	VerificationToken string
	Document          []byte
	DocumentRendered  bool
}

// IssueReceiptUseCase persists a receipt and renders its voter-facing
// document. Persistence is the hard requirement; a render failure still
// returns the stored receipt so the caller can degrade gracefully.
type IssueReceiptUseCase struct {
	Receipts      ports.ReceiptRepository
	Renderer      ports.DocumentRenderer
	Tokens        ports.TokenGenerator
	Clock         ports.Clock
	IDGen         ports.IDGenerator
	VerifyBaseURL string
	Logger        *slog.Logger
}

func (uc IssueReceiptUseCase) Execute(ctx context.Context, cmd IssueReceiptCommand) (IssueReceiptResult, error) {
	logger := application.ResolveLogger(uc.Logger)

	cmd.ElectionID = strings.TrimSpace(cmd.ElectionID)
	cmd.ElectionTitle = strings.TrimSpace(cmd.ElectionTitle)
	if cmd.ElectionID == "" || cmd.VotedAt.IsZero() || len(cmd.Selections) == 0 {
		return IssueReceiptResult{}, domainerrors.ErrInvalidReceiptInput
	}
	for _, line := range cmd.Selections {
		if strings.TrimSpace(line.PositionID) == "" || strings.TrimSpace(line.CandidateID) == "" {
			return IssueReceiptResult{}, domainerrors.ErrInvalidReceiptInput
		}
	}
	if strings.TrimSpace(uc.VerifyBaseURL) == "" {
		return IssueReceiptResult{}, domainerrors.ErrVerifyBaseURLRequired
	}

	receiptID, err := uc.IDGen.NewID(ctx)
	if err != nil {
		return IssueReceiptResult{}, fmt.Errorf("generate receipt id: %w", err)
	}

	token, err := uc.Tokens.NewToken(ctx)
	if err != nil {
		return IssueReceiptResult{}, fmt.Errorf("generate verification token: %w", err)
	}

	now := uc.Clock.Now().UTC()
	receipt := entities.Receipt{
		ReceiptID:         receiptID,
		ElectionID:        cmd.ElectionID,
		ElectionTitle:     cmd.ElectionTitle,
		Selections:        cmd.Selections,
		VerificationToken: token,
		VotedAt:           cmd.VotedAt.UTC(),
		CreatedAt:         now,
	}
	receipt.ContentHash = entities.ComputeContentHash(
		receipt.ReceiptID,
		receipt.ElectionID,
		receipt.Selections,
		receipt.VotedAt,
		receipt.VerificationToken,
	)

	if err := uc.Receipts.SaveReceipt(ctx, receipt); err != nil {
		if errors.Is(err, domainerrors.ErrReceiptAlreadyExists) {
			return IssueReceiptResult{}, err
		}

		logger.ErrorContext(ctx, "receipt persistence failed",
			"event", "receipt_save_failed",
			"module", "receipt-service",
			"layer", "application",
			"receipt_id", receiptID,
			"error", err,
		)

		return IssueReceiptResult{}, domainerrors.ErrReceiptPersistFailed
	}

	result := IssueReceiptResult{
		ReceiptID:         receiptID,
		VerificationToken: token,
	}

	document, err := uc.Renderer.RenderReceipt(ctx, receipt, uc.verifyURL(receipt))
	if err != nil {
		logger.WarnContext(ctx, "receipt document rendering failed",
			"event", "receipt_render_failed",
			"module", "receipt-service",
			"layer", "application",
			"receipt_id", receiptID,
			"error", err,
		)

		return result, nil
	}

	result.Document = document
	result.DocumentRendered = true

	logger.InfoContext(ctx, "receipt issued",
		"event", "receipt_issued",
		"module", "receipt-service",
		"layer", "application",
		"receipt_id", receiptID,
		"election_id", receipt.ElectionID,
	)

	return result, nil
}

func (uc IssueReceiptUseCase) verifyURL(receipt entities.Receipt) string {
	base := strings.TrimRight(strings.TrimSpace(uc.VerifyBaseURL), "/")

	query := url.Values{}
	query.Set("receipt_id", receipt.ReceiptID)
	query.Set("token", receipt.VerificationToken)

	return base + "/api/receipts/verify?" + query.Encode()
}
