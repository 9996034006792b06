package httptransport

import "time"

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type VerifiedSelectionView struct {
	PositionTitle string `json:"position_title"`
	CandidateName string `json:"candidate_name"`
}

type VerifyReceiptResponse struct {
	Valid         bool                    `json:"valid"`
	ReceiptID     string                  `json:"receipt_id"`
	ElectionTitle string                  `json:"election_title"`
	VotedAt       time.Time               `json:"voted_at"`
	Selections    []VerifiedSelectionView `json:"selections"`
}
