package http

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type BallotCandidateView struct {
	CandidateID string `json:"candidate_id"`
	FullName    string `json:"full_name"`
	Course      string `json:"course,omitempty"`
	YearLevel   int    `json:"year_level,omitempty"`
	PhotoURL    string `json:"photo_url,omitempty"`
}

type BallotPositionView struct {
	PositionID  string                `json:"position_id"`
	Title       string                `json:"title"`
	Cardinality int                   `json:"cardinality"`
	Candidates  []BallotCandidateView `json:"candidates"`
}

type BallotResponse struct {
	ElectionID       string               `json:"election_id"`
	ElectionTitle    string               `json:"election_title"`
	Status           string               `json:"status"`
	StartsAt         time.Time            `json:"starts_at"`
	EndsAt           time.Time            `json:"ends_at"`
	SessionExpiresAt *time.Time           `json:"session_expires_at,omitempty"`
	Positions        []BallotPositionView `json:"positions,omitempty"`
}

// CastBallotRequest carries the complete ballot: position id to the chosen
// candidate ids.
type CastBallotRequest struct {
	Selections map[string][]string `json:"selections"`
}

type CastBallotResponse struct {
	Message         string    `json:"message"`
	VotesRecorded   int       `json:"votes_recorded"`
	VotedAt         time.Time `json:"voted_at"`
	ReceiptIssued   bool      `json:"receipt_issued"`
	ReceiptID       string    `json:"receipt_id,omitempty"`
	ReceiptDocument string    `json:"receipt_document,omitempty"`
	Warning         string    `json:"warning,omitempty"`
}
