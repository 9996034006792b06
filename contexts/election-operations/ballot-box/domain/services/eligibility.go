package services

import (
	"sort"

	"evotar/contexts/election-operations/ballot-box/domain/entities"
)

// EligiblePositions returns the subset of an election's positions the voter
// may act on, ordered for display. Year-restricted positions are included only
// when the voter's year level matches; open positions are always included.
// An empty result is not an error: the voter simply has nothing to vote for.
func EligiblePositions(voter entities.VoterProfile, positions []entities.Position) []entities.Position {
	eligible := make([]entities.Position, 0, len(positions))
	for _, position := range positions {
		if position.EligibleYearLevel != entities.YearLevelOpen &&
			position.EligibleYearLevel != voter.YearLevel {
			continue
		}
		eligible = append(eligible, position)
	}
	sort.SliceStable(eligible, func(i, j int) bool {
		if eligible[i].DisplayOrder == eligible[j].DisplayOrder {
			return eligible[i].PositionID < eligible[j].PositionID
		}
		return eligible[i].DisplayOrder < eligible[j].DisplayOrder
	})
	return eligible
}
