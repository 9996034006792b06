package entities

import "strings"

type Candidate struct {
	CandidateID string
	PositionID  string
	FirstName   string
	LastName    string
	Course      string
	YearLevel   int
	PhotoURL    string
}

func (c Candidate) FullName() string {
	return strings.TrimSpace(strings.TrimSpace(c.FirstName) + " " + strings.TrimSpace(c.LastName))
}

// VoterProfile carries the confirmed eligibility attributes this core consumes
// from the surrounding registration system.
type VoterProfile struct {
	VoterID   string
	YearLevel int
	Course    string
}

// VoteRecord is one flattened (election, position, candidate) triple of a
// ballot. Records never reference the voter or the session token.
type VoteRecord struct {
	ElectionID  string
	PositionID  string
	CandidateID string
}
