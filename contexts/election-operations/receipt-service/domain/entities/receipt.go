package entities

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// SelectionLine is one (position, candidate) pair of a receipt's snapshot.
// Only positions that actually received a selection appear; there are no
// placeholder entries for unselected or ineligible positions.
type SelectionLine struct {
	PositionID    string `json:"position_id"`
	PositionTitle string `json:"position_title"`
	CandidateID   string `json:"candidate_id"`
	CandidateName string `json:"candidate_name"`
}

// Receipt is the immutable proof-of-vote artifact record. It carries no voter
// identity; the binding between voter and ballot content ends at issuance.
type Receipt struct {
	ReceiptID         string
	ElectionID        string
	ElectionTitle     string
	Selections        []SelectionLine
	ContentHash       string
	VerificationToken string
	VotedAt           time.Time
	CreatedAt         time.Time
}

// ComputeContentHash binds a receipt's fields one-way. Every covered field,
// token included, must match bit for bit to reproduce the digest.
func ComputeContentHash(
	receiptID string,
	electionID string,
	selections []SelectionLine,
	votedAt time.Time,
	verificationToken string,
) string {
	payload := struct {
		ReceiptID         string          `json:"receipt_id"`
		ElectionID        string          `json:"election_id"`
		Selections        []SelectionLine `json:"selections"`
		VotedAt           string          `json:"voted_at"`
		VerificationToken string          `json:"verification_token"`
	}{
		ReceiptID:         receiptID,
		ElectionID:        electionID,
		Selections:        selections,
		VotedAt:           votedAt.UTC().Format(time.RFC3339),
		VerificationToken: verificationToken,
	}
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

// Verify reports whether the stored fields plus the supplied token recompute
// to the stored content hash.
func (r Receipt) Verify(token string) bool {
	return ComputeContentHash(r.ReceiptID, r.ElectionID, r.Selections, r.VotedAt, token) == r.ContentHash
}
