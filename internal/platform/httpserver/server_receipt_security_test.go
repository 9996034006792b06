package httpserver

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	receiptcommands "evotar/contexts/election-operations/receipt-service/application/commands"
	receiptentities "evotar/contexts/election-operations/receipt-service/domain/entities"
)

func issueServerReceipt(t *testing.T, server *Server) (string, string) {
	t.Helper()
	result, err := server.receipts.Handler.Issue.Execute(context.Background(), receiptcommands.IssueReceiptCommand{
		ElectionID:    "election-1",
		ElectionTitle: "Student Council 2026",
		VotedAt:       time.Now().UTC(),
		Selections: []receiptentities.SelectionLine{
			{PositionID: "pos-1", PositionTitle: "President", CandidateID: "cand-a", CandidateName: "Ana Reyes"},
		},
	})
	if err != nil {
		t.Fatalf("issue receipt failed: %v", err)
	}
	return result.ReceiptID, result.VerificationToken
}

func verifyResponse(server *Server, receiptID string, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet,
		"/api/receipts/verify?receipt_id="+receiptID+"&token="+token, nil)
	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	return rr
}

func TestVerifyReceiptSucceedsWithIssuedToken(t *testing.T) {
	server, _, _ := newTestServer()
	receiptID, token := issueServerReceipt(t, server)

	rr := verifyResponse(server, receiptID, token)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
	if !strings.Contains(rr.Body.String(), `"valid":true`) {
		t.Fatalf("expected valid receipt payload, got %s", rr.Body.String())
	}
}

func TestVerifyReceiptFailuresAreIndistinguishable(t *testing.T) {
	server, _, _ := newTestServer()
	receiptID, _ := issueServerReceipt(t, server)

	wrongToken := verifyResponse(server, receiptID, "forged-token")
	unknownID := verifyResponse(server, "receipt-unknown", "forged-token")

	if wrongToken.Code != http.StatusNotFound || unknownID.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for both failures, got %d and %d", wrongToken.Code, unknownID.Code)
	}
	// A caller probing the endpoint must not learn whether the receipt exists.
	if !bytes.Equal(wrongToken.Body.Bytes(), unknownID.Body.Bytes()) {
		t.Fatalf("failure responses differ: %q vs %q", wrongToken.Body.String(), unknownID.Body.String())
	}
	if wrongToken.Header().Get("Content-Type") != unknownID.Header().Get("Content-Type") {
		t.Fatalf("failure headers differ")
	}
	if strings.Contains(wrongToken.Body.String(), receiptID) {
		t.Fatalf("failure payload must not echo the receipt id")
	}
}

func TestVerifyReceiptMissingToken(t *testing.T) {
	server, _, _ := newTestServer()
	receiptID, _ := issueServerReceipt(t, server)

	rr := verifyResponse(server, receiptID, "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing token, got %d", rr.Code)
	}
	if strings.Contains(rr.Body.String(), `"valid":true`) {
		t.Fatalf("missing token must never verify")
	}
}
