package unit

import (
	"context"
	"errors"
	"testing"
	"time"

	receiptservice "evotar/contexts/election-operations/receipt-service"
	receiptcommands "evotar/contexts/election-operations/receipt-service/application/commands"
	receiptentities "evotar/contexts/election-operations/receipt-service/domain/entities"
	receiptdomainerrors "evotar/contexts/election-operations/receipt-service/domain/errors"
)

func TestVerifyReceiptRoundTrip(t *testing.T) {
	module := receiptservice.NewInMemoryModule("http://localhost:8080", nil)
	result := issueTestReceipt(t, module)

	resp, err := module.Handler.VerifyReceiptHandler(context.Background(), result.ReceiptID, result.VerificationToken)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if !resp.Valid {
		t.Fatalf("expected valid receipt")
	}
	if resp.ElectionTitle != "Student Council 2026" {
		t.Fatalf("unexpected election title %q", resp.ElectionTitle)
	}
	if len(resp.Selections) != 2 {
		t.Fatalf("expected 2 selection lines, got %d", len(resp.Selections))
	}
	if resp.Selections[0].PositionTitle != "President" || resp.Selections[0].CandidateName != "Ana Reyes" {
		t.Fatalf("unexpected first line %+v", resp.Selections[0])
	}
}

func TestVerifyReceiptWrongTokenAndUnknownID(t *testing.T) {
	module := receiptservice.NewInMemoryModule("http://localhost:8080", nil)
	result := issueTestReceipt(t, module)

	_, err := module.Handler.VerifyReceiptHandler(context.Background(), result.ReceiptID, "forged-token")
	if !errors.Is(err, receiptdomainerrors.ErrReceiptTampered) {
		t.Fatalf("expected tampered error for wrong token, got %v", err)
	}

	_, err = module.Handler.VerifyReceiptHandler(context.Background(), "receipt-unknown", result.VerificationToken)
	if !errors.Is(err, receiptdomainerrors.ErrReceiptNotFound) {
		t.Fatalf("expected not-found error for unknown id, got %v", err)
	}

	_, err = module.Handler.VerifyReceiptHandler(context.Background(), result.ReceiptID, "")
	if !errors.Is(err, receiptdomainerrors.ErrVerifyTokenMissing) {
		t.Fatalf("expected missing-token error, got %v", err)
	}
}

func TestIssueReceiptPersistFailure(t *testing.T) {
	module := receiptservice.NewInMemoryModule("http://localhost:8080", nil)
	module.Store.FailNextSave(errors.New("disk full"))

	_, err := module.Handler.Issue.Execute(context.Background(), receiptcommands.IssueReceiptCommand{
		ElectionID:    "election-1",
		ElectionTitle: "Student Council 2026",
		VotedAt:       time.Now().UTC(),
		Selections: []receiptentities.SelectionLine{
			{PositionID: "pos-1", PositionTitle: "President", CandidateID: "cand-a", CandidateName: "Ana Reyes"},
		},
	})
	if !errors.Is(err, receiptdomainerrors.ErrReceiptPersistFailed) {
		t.Fatalf("expected persist failure, got %v", err)
	}
	if module.Store.SaveAttempts() != 1 {
		t.Fatalf("expected one save attempt, got %d", module.Store.SaveAttempts())
	}
}

func TestIssueReceiptRejectsInvalidInput(t *testing.T) {
	module := receiptservice.NewInMemoryModule("http://localhost:8080", nil)

	_, err := module.Handler.Issue.Execute(context.Background(), receiptcommands.IssueReceiptCommand{
		ElectionID:    "election-1",
		ElectionTitle: "Student Council 2026",
		VotedAt:       time.Now().UTC(),
	})
	if !errors.Is(err, receiptdomainerrors.ErrInvalidReceiptInput) {
		t.Fatalf("expected invalid input for empty selections, got %v", err)
	}

	_, err = module.Handler.Issue.Execute(context.Background(), receiptcommands.IssueReceiptCommand{
		ElectionID: "",
		VotedAt:    time.Now().UTC(),
		Selections: []receiptentities.SelectionLine{
			{PositionID: "pos-1", CandidateID: "cand-a"},
		},
	})
	if !errors.Is(err, receiptdomainerrors.ErrInvalidReceiptInput) {
		t.Fatalf("expected invalid input for empty election, got %v", err)
	}
	if module.Store.SaveAttempts() != 0 {
		t.Fatalf("invalid input must not reach the store")
	}
}
