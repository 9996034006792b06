package queries

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"evotar/contexts/election-operations/receipt-service/application"
	"evotar/contexts/election-operations/receipt-service/domain/entities"
	domainerrors "evotar/contexts/election-operations/receipt-service/domain/errors"
	"evotar/contexts/election-operations/receipt-service/ports"
)

type VerifyReceiptQuery struct {
	ReceiptID string
	Token     string
}

type VerifiedSelection struct {
	PositionTitle string
	CandidateName string
}

type VerifiedReceipt struct {
	ReceiptID     string
	ElectionTitle string
	VotedAt       time.Time
	Selections    []VerifiedSelection
}

// VerifyReceiptUseCase recomputes a stored receipt's content hash and checks
// the presented token. The two failure modes stay distinct here so the store
// can be audited; transports are expected to collapse them into one answer.
type VerifyReceiptUseCase struct {
	Receipts ports.ReceiptRepository
	Logger   *slog.Logger
}

func (uc VerifyReceiptUseCase) Execute(ctx context.Context, query VerifyReceiptQuery) (VerifiedReceipt, error) {
	logger := application.ResolveLogger(uc.Logger)

	query.ReceiptID = strings.TrimSpace(query.ReceiptID)
	query.Token = strings.TrimSpace(query.Token)
	if query.ReceiptID == "" {
		return VerifiedReceipt{}, domainerrors.ErrReceiptNotFound
	}
	if query.Token == "" {
		return VerifiedReceipt{}, domainerrors.ErrVerifyTokenMissing
	}

	receipt, found, err := uc.Receipts.GetReceipt(ctx, query.ReceiptID)
	if err != nil {
		logger.ErrorContext(ctx, "receipt lookup failed",
			"event", "receipt_lookup_failed",
			"module", "receipt-service",
			"layer", "application",
			"receipt_id", query.ReceiptID,
			"error", err,
		)

		return VerifiedReceipt{}, err
	}
	if !found {
		return VerifiedReceipt{}, domainerrors.ErrReceiptNotFound
	}

	if !receipt.Verify(query.Token) {
		logger.WarnContext(ctx, "receipt verification rejected",
			"event", "receipt_verification_rejected",
			"module", "receipt-service",
			"layer", "application",
			"receipt_id", query.ReceiptID,
		)

		return VerifiedReceipt{}, domainerrors.ErrReceiptTampered
	}

	return toVerifiedReceipt(receipt), nil
}

func toVerifiedReceipt(receipt entities.Receipt) VerifiedReceipt {
	selections := make([]VerifiedSelection, 0, len(receipt.Selections))
	for _, line := range receipt.Selections {
		selections = append(selections, VerifiedSelection{
			PositionTitle: line.PositionTitle,
			CandidateName: line.CandidateName,
		})
	}

	return VerifiedReceipt{
		ReceiptID:     receipt.ReceiptID,
		ElectionTitle: receipt.ElectionTitle,
		VotedAt:       receipt.VotedAt,
		Selections:    selections,
	}
}
