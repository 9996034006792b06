package httpadapter

import (
	"context"
	"log/slog"

	"evotar/contexts/election-operations/receipt-service/application/commands"
	"evotar/contexts/election-operations/receipt-service/application/queries"
	httptransport "evotar/contexts/election-operations/receipt-service/transport/http"
)

type Handler struct {
	Issue  commands.IssueReceiptUseCase
	Verify queries.VerifyReceiptUseCase
	Logger *slog.Logger
}

func (h Handler) VerifyReceiptHandler(ctx context.Context, receiptID string, token string) (httptransport.VerifyReceiptResponse, error) {
	verified, err := h.Verify.Execute(ctx, queries.VerifyReceiptQuery{
		ReceiptID: receiptID,
		Token:     token,
	})
	if err != nil {
		return httptransport.VerifyReceiptResponse{}, err
	}

	selections := make([]httptransport.VerifiedSelectionView, 0, len(verified.Selections))
	for _, line := range verified.Selections {
		selections = append(selections, httptransport.VerifiedSelectionView{
			PositionTitle: line.PositionTitle,
			CandidateName: line.CandidateName,
		})
	}

	return httptransport.VerifyReceiptResponse{
		Valid:         true,
		ReceiptID:     verified.ReceiptID,
		ElectionTitle: verified.ElectionTitle,
		VotedAt:       verified.VotedAt,
		Selections:    selections,
	}, nil
}
