package pdf

import (
	"bytes"
	"context"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"

	"evotar/contexts/election-operations/receipt-service/domain/entities"
	domainerrors "evotar/contexts/election-operations/receipt-service/domain/errors"
)

// Renderer produces the printable receipt document. The embedded QR code
// carries the verification URL so a phone camera lands on the verify
// endpoint directly.
type Renderer struct{}

func NewRenderer() Renderer {
	return Renderer{}
}

func (Renderer) RenderReceipt(_ context.Context, receipt entities.Receipt, verifyURL string) ([]byte, error) {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetTitle("Ballot Receipt", false)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 18)
	doc.CellFormat(0, 12, "Official Ballot Receipt", "", 1, "C", false, 0, "")

	doc.SetFont("Helvetica", "", 12)
	doc.CellFormat(0, 8, receipt.ElectionTitle, "", 1, "C", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "", 10)
	doc.CellFormat(0, 6, fmt.Sprintf("Receipt ID: %s", receipt.ReceiptID), "", 1, "L", false, 0, "")
	doc.CellFormat(0, 6, fmt.Sprintf("Cast at: %s", receipt.VotedAt.Format("2006-01-02 15:04:05 MST")), "", 1, "L", false, 0, "")
	doc.Ln(4)

	doc.SetFont("Helvetica", "B", 11)
	doc.CellFormat(0, 7, "Selections", "B", 1, "L", false, 0, "")
	doc.SetFont("Helvetica", "", 10)
	for _, line := range receipt.Selections {
		doc.CellFormat(90, 7, line.PositionTitle, "", 0, "L", false, 0, "")
		doc.CellFormat(0, 7, line.CandidateName, "", 1, "L", false, 0, "")
	}
	doc.Ln(6)

	code, err := qrcode.Encode(verifyURL, qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("encode verification qr: %w", err)
	}

	opts := fpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	doc.RegisterImageOptionsReader("verify-qr", opts, bytes.NewReader(code))
	doc.ImageOptions("verify-qr", 80, doc.GetY(), 50, 50, false, opts, 0, "")
	doc.SetY(doc.GetY() + 54)

	doc.SetFont("Helvetica", "", 8)
	doc.CellFormat(0, 5, "Scan the code or visit the link below to verify this receipt.", "", 1, "C", false, 0, "")
	doc.CellFormat(0, 5, verifyURL, "", 1, "C", false, 0, "")
	doc.Ln(4)
	doc.CellFormat(0, 5, "This receipt proves your ballot was recorded. It does not identify you.", "", 1, "C", false, 0, "")

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, domainerrors.ErrDocumentRenderFailed
	}

	return buf.Bytes(), nil
}
