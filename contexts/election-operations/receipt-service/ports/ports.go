package ports

import (
	"context"
	"time"

	"evotar/contexts/election-operations/receipt-service/domain/entities"
)

// ReceiptRepository persists each receipt exactly once; records are read-only
// for all later verification calls.
type ReceiptRepository interface {
	SaveReceipt(ctx context.Context, receipt entities.Receipt) error
	GetReceipt(ctx context.Context, receiptID string) (entities.Receipt, bool, error)
}

type TokenGenerator interface {
	NewToken(ctx context.Context) (string, error)
}

// DocumentRenderer produces the durable artifact handed to the voter,
// embedding a scannable code whose payload is the verification URL.
type DocumentRenderer interface {
	RenderReceipt(ctx context.Context, receipt entities.Receipt, verifyURL string) ([]byte, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}
