package unit

import (
	"bytes"
	"context"
	"testing"
	"time"

	receiptservice "evotar/contexts/election-operations/receipt-service"
	receiptcommands "evotar/contexts/election-operations/receipt-service/application/commands"
	receiptentities "evotar/contexts/election-operations/receipt-service/domain/entities"
)

func issueTestReceipt(t *testing.T, module receiptservice.Module) receiptcommands.IssueReceiptResult {
	t.Helper()
	result, err := module.Handler.Issue.Execute(context.Background(), receiptcommands.IssueReceiptCommand{
		ElectionID:    "election-1",
		ElectionTitle: "Student Council 2026",
		VotedAt:       time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
		Selections: []receiptentities.SelectionLine{
			{PositionID: "pos-president", PositionTitle: "President", CandidateID: "cand-a", CandidateName: "Ana Reyes"},
			{PositionID: "pos-rep", PositionTitle: "Representative", CandidateID: "cand-c", CandidateName: "Carla Santos"},
		},
	})
	if err != nil {
		t.Fatalf("issue receipt failed: %v", err)
	}
	return result
}

func TestIssueReceiptPersistsVerifiableRecord(t *testing.T) {
	module := receiptservice.NewInMemoryModule("http://localhost:8080", nil)
	result := issueTestReceipt(t, module)

	if result.ReceiptID == "" || result.VerificationToken == "" {
		t.Fatalf("expected receipt id and token, got %+v", result)
	}
	if !result.DocumentRendered {
		t.Fatalf("expected rendered document")
	}
	if !bytes.HasPrefix(result.Document, []byte("%PDF")) {
		t.Fatalf("expected a PDF document, got prefix %q", result.Document[:4])
	}

	stored, ok := module.Store.Receipt(result.ReceiptID)
	if !ok {
		t.Fatalf("receipt not persisted")
	}
	if !stored.Verify(result.VerificationToken) {
		t.Fatalf("persisted receipt does not verify")
	}
}

func TestContentHashCoversEveryField(t *testing.T) {
	votedAt := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	selections := []receiptentities.SelectionLine{
		{PositionID: "pos-1", PositionTitle: "President", CandidateID: "cand-a", CandidateName: "Ana Reyes"},
	}
	base := receiptentities.ComputeContentHash("receipt-1", "election-1", selections, votedAt, "token-1")

	if receiptentities.ComputeContentHash("receipt-2", "election-1", selections, votedAt, "token-1") == base {
		t.Fatalf("receipt id change must alter the hash")
	}
	if receiptentities.ComputeContentHash("receipt-1", "election-2", selections, votedAt, "token-1") == base {
		t.Fatalf("election id change must alter the hash")
	}
	if receiptentities.ComputeContentHash("receipt-1", "election-1", selections, votedAt.Add(time.Second), "token-1") == base {
		t.Fatalf("timestamp change must alter the hash")
	}
	if receiptentities.ComputeContentHash("receipt-1", "election-1", selections, votedAt, "token-2") == base {
		t.Fatalf("token change must alter the hash")
	}

	mutated := []receiptentities.SelectionLine{
		{PositionID: "pos-1", PositionTitle: "President", CandidateID: "cand-b", CandidateName: "Ben Cruz"},
	}
	if receiptentities.ComputeContentHash("receipt-1", "election-1", mutated, votedAt, "token-1") == base {
		t.Fatalf("selection change must alter the hash")
	}

	if receiptentities.ComputeContentHash("receipt-1", "election-1", selections, votedAt, "token-1") != base {
		t.Fatalf("hash must be deterministic over identical input")
	}
}

func TestReceiptTamperingBreaksVerification(t *testing.T) {
	module := receiptservice.NewInMemoryModule("http://localhost:8080", nil)
	result := issueTestReceipt(t, module)

	stored, _ := module.Store.Receipt(result.ReceiptID)
	stored.Selections[0].CandidateID = "cand-z"
	stored.Selections[0].CandidateName = "Someone Else"

	if stored.Verify(result.VerificationToken) {
		t.Fatalf("tampered receipt must not verify")
	}
}
