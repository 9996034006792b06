package services

import (
	"strings"

	"evotar/contexts/election-operations/ballot-box/domain/entities"
	domainerrors "evotar/contexts/election-operations/ballot-box/domain/errors"
)

// BallotDraft holds the in-progress selections for one voting attempt against
// a fixed eligible ballot shape. The cardinality cap is enforced at mutation
// time; no sequence of toggles can leave a position over its limit.
type BallotDraft struct {
	positions  map[string]entities.Position
	order      []string
	candidates map[string]map[string]bool
	selected   map[string][]string
}

// NewBallotDraft builds a draft over the positions the eligibility filter
// returned. Candidates not belonging to an eligible position are ignored.
func NewBallotDraft(eligible []entities.Position, candidates []entities.Candidate) *BallotDraft {
	draft := &BallotDraft{
		positions:  make(map[string]entities.Position, len(eligible)),
		order:      make([]string, 0, len(eligible)),
		candidates: make(map[string]map[string]bool, len(eligible)),
		selected:   make(map[string][]string, len(eligible)),
	}
	for _, position := range eligible {
		draft.positions[position.PositionID] = position
		draft.order = append(draft.order, position.PositionID)
		draft.candidates[position.PositionID] = make(map[string]bool)
	}
	for _, candidate := range candidates {
		allowed, ok := draft.candidates[candidate.PositionID]
		if !ok {
			continue
		}
		allowed[candidate.CandidateID] = true
	}
	return draft
}

// Toggle flips a candidate's selected state for a position. A selected
// candidate is deselected; an unselected one is added while the position is
// under its cardinality; at the cap a single-select position replaces its
// prior choice and a multi-select position leaves the state unchanged.
func (d *BallotDraft) Toggle(positionID string, candidateID string) error {
	positionID = strings.TrimSpace(positionID)
	candidateID = strings.TrimSpace(candidateID)

	position, ok := d.positions[positionID]
	if !ok {
		return domainerrors.ErrPositionNotOnBallot
	}
	if !d.candidates[positionID][candidateID] {
		return domainerrors.ErrCandidateNotOnBallot
	}

	current := d.selected[positionID]
	for i, selectedID := range current {
		if selectedID == candidateID {
			d.selected[positionID] = append(current[:i:i], current[i+1:]...)
			return nil
		}
	}
	switch {
	case len(current) < position.Cardinality:
		d.selected[positionID] = append(current, candidateID)
	case position.Cardinality == 1:
		d.selected[positionID] = []string{candidateID}
	}
	return nil
}

// Selected returns the current selections for a position in toggle order.
func (d *BallotDraft) Selected(positionID string) []string {
	current := d.selected[strings.TrimSpace(positionID)]
	return append([]string(nil), current...)
}

// MissingPositions lists eligible positions that still have zero selections,
// in ballot order.
func (d *BallotDraft) MissingPositions() []string {
	missing := make([]string, 0)
	for _, positionID := range d.order {
		if len(d.selected[positionID]) == 0 {
			missing = append(missing, positionID)
		}
	}
	return missing
}

// Complete reports whether every eligible position has at least one selection.
func (d *BallotDraft) Complete() bool {
	return len(d.MissingPositions()) == 0
}

// Flatten produces the ordered (election, position, candidate) triples for the
// single atomic submission. The draft itself is discarded after the attempt.
func (d *BallotDraft) Flatten(electionID string) []entities.VoteRecord {
	electionID = strings.TrimSpace(electionID)
	records := make([]entities.VoteRecord, 0, len(d.order))
	for _, positionID := range d.order {
		for _, candidateID := range d.selected[positionID] {
			records = append(records, entities.VoteRecord{
				ElectionID:  electionID,
				PositionID:  positionID,
				CandidateID: candidateID,
			})
		}
	}
	return records
}
