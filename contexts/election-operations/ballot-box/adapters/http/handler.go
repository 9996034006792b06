package httpadapter

import (
	"context"
	"encoding/base64"
	"log/slog"

	"evotar/contexts/election-operations/ballot-box/application/commands"
	"evotar/contexts/election-operations/ballot-box/application/queries"
	httptransport "evotar/contexts/election-operations/ballot-box/transport/http"
)

type Handler struct {
	Cast    commands.CastBallotUseCase
	Ballots queries.BallotQueryUseCase
	Logger  *slog.Logger
}

func (h Handler) GetBallotHandler(ctx context.Context, voterID string, electionID string) (httptransport.BallotResponse, error) {
	view, err := h.Ballots.GetBallot(ctx, voterID, electionID)
	if err != nil {
		return httptransport.BallotResponse{}, err
	}

	resp := httptransport.BallotResponse{
		ElectionID:    view.ElectionID,
		ElectionTitle: view.ElectionTitle,
		Status:        string(view.Status),
		StartsAt:      view.StartsAt,
		EndsAt:        view.EndsAt,
	}
	if !view.SessionExpiresAt.IsZero() {
		expires := view.SessionExpiresAt
		resp.SessionExpiresAt = &expires
	}
	for _, position := range view.Positions {
		candidates := make([]httptransport.BallotCandidateView, 0, len(position.Candidates))
		for _, candidate := range position.Candidates {
			candidates = append(candidates, httptransport.BallotCandidateView{
				CandidateID: candidate.CandidateID,
				FullName:    candidate.FullName,
				Course:      candidate.Course,
				YearLevel:   candidate.YearLevel,
				PhotoURL:    candidate.PhotoURL,
			})
		}
		resp.Positions = append(resp.Positions, httptransport.BallotPositionView{
			PositionID:  position.PositionID,
			Title:       position.Title,
			Cardinality: position.Cardinality,
			Candidates:  candidates,
		})
	}
	return resp, nil
}

func (h Handler) CastBallotHandler(
	ctx context.Context,
	voterID string,
	electionID string,
	req httptransport.CastBallotRequest,
) (httptransport.CastBallotResponse, error) {
	result, err := h.Cast.CastBallot(ctx, commands.CastBallotCommand{
		VoterID:    voterID,
		ElectionID: electionID,
		Selections: req.Selections,
	})
	if err != nil {
		return httptransport.CastBallotResponse{}, err
	}

	resp := httptransport.CastBallotResponse{
		Message:       "vote recorded",
		VotesRecorded: result.VotesRecorded,
		VotedAt:       result.VotedAt,
		ReceiptIssued: result.ReceiptIssued,
		ReceiptID:     result.ReceiptID,
	}
	if result.ReceiptIssued {
		if len(result.ReceiptDocument) > 0 {
			resp.ReceiptDocument = base64.StdEncoding.EncodeToString(result.ReceiptDocument)
		}
	} else {
		resp.Warning = "vote recorded, receipt unavailable"
	}
	return resp, nil
}
