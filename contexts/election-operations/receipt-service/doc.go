// Package receiptservice issues and verifies anonymous ballot receipts inside
// the election-operations context.
//
// A receipt records which candidates a ballot selected and when it was cast,
// never who cast it. Issuance persists the receipt with a content hash and a
// random verification token, then renders a printable PDF carrying a QR code
// that resolves to the public verify endpoint. Verification recomputes the
// hash and checks the token, so any tampering with a stored receipt makes the
// lookup behave as if the receipt never existed.
package receiptservice
