package httpserver

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	ballotbox "evotar/contexts/election-operations/ballot-box"
	ballotdomainerrors "evotar/contexts/election-operations/ballot-box/domain/errors"
	ballothttp "evotar/contexts/election-operations/ballot-box/transport/http"
	receiptservice "evotar/contexts/election-operations/receipt-service"
	receiptdomainerrors "evotar/contexts/election-operations/receipt-service/domain/errors"
	receipthttp "evotar/contexts/election-operations/receipt-service/transport/http"

	httpSwagger "github.com/swaggo/http-swagger"
	_ "evotar/internal/platform/httpserver/docs"
)

type Server struct {
	mux      *http.ServeMux
	logger   *slog.Logger
	addr     string
	ballot   ballotbox.Module
	receipts receiptservice.Module
}

func New(
	ballotModule ballotbox.Module,
	receiptModule receiptservice.Module,
	logger *slog.Logger,
	addr string,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if addr == "" {
		addr = ":8080"
	}

	s := &Server{
		mux:      http.NewServeMux(),
		logger:   logger,
		addr:     addr,
		ballot:   ballotModule,
		receipts: receiptModule,
	}
	s.registerRoutes()
	return s
}

func (s *Server) Start() error {
	s.logger.Info("http server starting",
		"event", "http_server_starting",
		"module", "internal/platform/httpserver",
		"layer", "platform",
		"addr", s.addr,
	)
	return http.ListenAndServe(s.addr, s.mux)
}

// Handler exposes the route table for httptest-based tests.
func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) registerRoutes() {
	s.mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	s.mux.HandleFunc("GET /api/elections/{election_id}/ballot", s.handleGetBallot)
	s.mux.HandleFunc("POST /api/elections/{election_id}/ballot", s.handleCastBallot)

	s.mux.HandleFunc("GET /api/receipts/verify", s.handleVerifyReceipt)
}

func (s *Server) handleGetBallot(w http.ResponseWriter, r *http.Request) {
	voterID := r.Header.Get("X-Voter-Id")
	if voterID == "" {
		writeBallotError(w, http.StatusUnauthorized, "missing_voter", "X-Voter-Id header is required")
		return
	}

	electionID := r.PathValue("election_id")
	resp, err := s.ballot.Handler.GetBallotHandler(r.Context(), voterID, electionID)
	if err != nil {
		writeBallotDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCastBallot(w http.ResponseWriter, r *http.Request) {
	voterID := r.Header.Get("X-Voter-Id")
	if voterID == "" {
		writeBallotError(w, http.StatusUnauthorized, "missing_voter", "X-Voter-Id header is required")
		return
	}

	var req ballothttp.CastBallotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBallotError(w, http.StatusBadRequest, "invalid_json", "request body must be valid JSON")
		return
	}

	electionID := r.PathValue("election_id")
	resp, err := s.ballot.Handler.CastBallotHandler(r.Context(), voterID, electionID, req)
	if err != nil {
		writeBallotDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleVerifyReceipt(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	resp, err := s.receipts.Handler.VerifyReceiptHandler(
		r.Context(),
		query.Get("receipt_id"),
		query.Get("token"),
	)
	if err != nil {
		writeReceiptDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeBallotDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ballotdomainerrors.ErrInvalidBallotInput):
		writeBallotError(w, http.StatusBadRequest, "invalid_ballot", err.Error())
	case errors.Is(err, ballotdomainerrors.ErrElectionNotFound):
		writeBallotError(w, http.StatusNotFound, "election_not_found", err.Error())
	case errors.Is(err, ballotdomainerrors.ErrVoterNotFound):
		writeBallotError(w, http.StatusNotFound, "voter_not_found", err.Error())
	case errors.Is(err, ballotdomainerrors.ErrVotingNotStarted):
		writeBallotError(w, http.StatusForbidden, "voting_not_started", err.Error())
	case errors.Is(err, ballotdomainerrors.ErrVotingEnded):
		writeBallotError(w, http.StatusForbidden, "voting_ended", err.Error())
	case errors.Is(err, ballotdomainerrors.ErrSessionNotFound):
		writeBallotError(w, http.StatusUnauthorized, "no_session", err.Error())
	case errors.Is(err, ballotdomainerrors.ErrSessionExpired):
		writeBallotError(w, http.StatusUnauthorized, "session_expired", err.Error())
	case errors.Is(err, ballotdomainerrors.ErrAlreadyVoted):
		writeBallotError(w, http.StatusConflict, "already_voted", err.Error())
	case errors.Is(err, ballotdomainerrors.ErrEmptyBallot):
		writeBallotError(w, http.StatusUnprocessableEntity, "nothing_to_vote", err.Error())
	case errors.Is(err, ballotdomainerrors.ErrPositionNotOnBallot),
		errors.Is(err, ballotdomainerrors.ErrCandidateNotOnBallot):
		writeBallotError(w, http.StatusUnprocessableEntity, "selection_not_on_ballot", err.Error())
	case errors.Is(err, ballotdomainerrors.ErrSelectionLimitExceeded):
		writeBallotError(w, http.StatusUnprocessableEntity, "selection_limit_exceeded", err.Error())
	case errors.Is(err, ballotdomainerrors.ErrIncompleteBallot):
		writeBallotError(w, http.StatusUnprocessableEntity, "incomplete_ballot", err.Error())
	case errors.Is(err, ballotdomainerrors.ErrBallotSubmissionFailed):
		writeBallotError(w, http.StatusInternalServerError, "ballot_submission_failed",
			"your vote could not be recorded and no votes were saved, please try again")
	default:
		writeBallotError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

// writeReceiptDomainError collapses the not-found and tampered cases into one
// identical response so callers cannot probe which receipts exist.
func writeReceiptDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, receiptdomainerrors.ErrVerifyTokenMissing):
		writeReceiptError(w, http.StatusBadRequest, "missing_token", "token query parameter is required")
	case errors.Is(err, receiptdomainerrors.ErrReceiptNotFound),
		errors.Is(err, receiptdomainerrors.ErrReceiptTampered):
		writeReceiptError(w, http.StatusNotFound, "receipt_not_verified", "receipt could not be verified")
	default:
		writeReceiptError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}

func writeBallotError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, ballothttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeReceiptError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, receipthttp.ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
