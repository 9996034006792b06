package entities

import (
	"strings"

	domainerrors "evotar/contexts/election-operations/ballot-box/domain/errors"
)

// YearLevelOpen marks a position every voter may act on regardless of year.
const YearLevelOpen = 0

// Position is one contest on a ballot. Cardinality and EligibleYearLevel are
// explicit, validated fields fixed when the position enters the catalog; they
// are never re-derived from the display title after that point.
type Position struct {
	PositionID        string
	ElectionID        string
	Title             string
	Cardinality       int
	EligibleYearLevel int
	DisplayOrder      int
}

var yearQualifiers = []struct {
	level    int
	patterns []string
}{
	{1, []string{"1st year", "first year"}},
	{2, []string{"2nd year", "second year"}},
	{3, []string{"3rd year", "third year"}},
	{4, []string{"4th year", "fourth year"}},
}

// NewPosition derives the structured voting rules from the display title
// exactly once. Representative roles allow two selections, everything else
// one. A title carrying a year qualifier restricts the position to voters of
// that year level; a title carrying more than one distinct qualifier is
// rejected as a data error instead of guessing.
func NewPosition(positionID string, electionID string, title string, displayOrder int) (Position, error) {
	cleaned := strings.TrimSpace(title)
	if cleaned == "" {
		return Position{}, domainerrors.ErrInvalidPositionTitle
	}

	lowered := strings.ToLower(cleaned)
	yearLevel := YearLevelOpen
	for _, qualifier := range yearQualifiers {
		matched := false
		for _, pattern := range qualifier.patterns {
			if strings.Contains(lowered, pattern) {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		if yearLevel != YearLevelOpen {
			return Position{}, domainerrors.ErrAmbiguousPositionTitle
		}
		yearLevel = qualifier.level
	}

	cardinality := 1
	if strings.Contains(lowered, "representative") {
		cardinality = 2
	}

	return Position{
		PositionID:        strings.TrimSpace(positionID),
		ElectionID:        strings.TrimSpace(electionID),
		Title:             cleaned,
		Cardinality:       cardinality,
		EligibleYearLevel: yearLevel,
		DisplayOrder:      displayOrder,
	}, nil
}
