package entities

import (
	"errors"
	"testing"

	domainerrors "evotar/contexts/election-operations/ballot-box/domain/errors"
)

func TestNewPositionDerivesCardinality(t *testing.T) {
	president, err := NewPosition("pos-1", "election-1", "President", 1)
	if err != nil {
		t.Fatalf("new position failed: %v", err)
	}
	if president.Cardinality != 1 {
		t.Fatalf("expected cardinality 1 for president, got %d", president.Cardinality)
	}

	representative, err := NewPosition("pos-2", "election-1", "Board Representative", 2)
	if err != nil {
		t.Fatalf("new position failed: %v", err)
	}
	if representative.Cardinality != 2 {
		t.Fatalf("expected cardinality 2 for representative, got %d", representative.Cardinality)
	}
}

func TestNewPositionDerivesYearLevel(t *testing.T) {
	cases := []struct {
		title string
		want  int
	}{
		{"President", YearLevelOpen},
		{"1st Year Representative", 1},
		{"First Year Representative", 1},
		{"2nd year senator", 2},
		{"Third Year Auditor", 3},
		{"4th Year Representative", 4},
	}
	for _, tc := range cases {
		position, err := NewPosition("pos-1", "election-1", tc.title, 1)
		if err != nil {
			t.Fatalf("new position %q failed: %v", tc.title, err)
		}
		if position.EligibleYearLevel != tc.want {
			t.Fatalf("title %q: expected year level %d, got %d", tc.title, tc.want, position.EligibleYearLevel)
		}
	}
}

func TestNewPositionRejectsAmbiguousTitle(t *testing.T) {
	_, err := NewPosition("pos-1", "election-1", "1st Year and 2nd Year Representative", 1)
	if !errors.Is(err, domainerrors.ErrAmbiguousPositionTitle) {
		t.Fatalf("expected ambiguous title error, got %v", err)
	}
}

func TestNewPositionAllowsRepeatedSameYearQualifier(t *testing.T) {
	position, err := NewPosition("pos-1", "election-1", "1st Year Rep (first year students only)", 1)
	if err != nil {
		t.Fatalf("new position failed: %v", err)
	}
	if position.EligibleYearLevel != 1 {
		t.Fatalf("expected year level 1, got %d", position.EligibleYearLevel)
	}
}

func TestNewPositionRejectsEmptyTitle(t *testing.T) {
	_, err := NewPosition("pos-1", "election-1", "   ", 1)
	if !errors.Is(err, domainerrors.ErrInvalidPositionTitle) {
		t.Fatalf("expected invalid title error, got %v", err)
	}
}
