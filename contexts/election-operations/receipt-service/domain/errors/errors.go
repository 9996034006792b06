package errors

import "errors"

var (
	ErrInvalidReceiptInput   = errors.New("invalid receipt input")
	ErrReceiptPersistFailed  = errors.New("receipt could not be persisted")
	ErrReceiptAlreadyExists  = errors.New("receipt already exists")
	ErrReceiptNotFound       = errors.New("receipt not found")
	ErrReceiptTampered       = errors.New("receipt content hash mismatch")
	ErrVerifyTokenMissing    = errors.New("verification token is required")
	ErrDocumentRenderFailed  = errors.New("receipt document rendering failed")
	ErrVerifyBaseURLRequired = errors.New("verification base url is required")
)
