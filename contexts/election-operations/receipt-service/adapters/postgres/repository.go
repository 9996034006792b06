package postgresadapter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"evotar/contexts/election-operations/receipt-service/domain/entities"
	domainerrors "evotar/contexts/election-operations/receipt-service/domain/errors"
)

type Repository struct {
	db     *gorm.DB
	logger *slog.Logger
}

func NewRepository(db *gorm.DB, logger *slog.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

type receiptModel struct {
	ReceiptID         string    `gorm:"column:receipt_id;primaryKey"`
	ElectionID        string    `gorm:"column:election_id;not null;index"`
	ElectionTitle     string    `gorm:"column:election_title;not null"`
	Selections        string    `gorm:"column:selections;type:jsonb;not null"`
	ContentHash       string    `gorm:"column:content_hash;not null"`
	VerificationToken string    `gorm:"column:verification_token;not null"`
	VotedAt           time.Time `gorm:"column:voted_at;not null"`
	CreatedAt         time.Time `gorm:"column:created_at;not null"`
}

func (receiptModel) TableName() string {
	return "ballot_receipts"
}

func (r *Repository) SaveReceipt(ctx context.Context, receipt entities.Receipt) error {
	selections, err := json.Marshal(receipt.Selections)
	if err != nil {
		return fmt.Errorf("encode receipt selections: %w", err)
	}

	model := receiptModel{
		ReceiptID:         receipt.ReceiptID,
		ElectionID:        receipt.ElectionID,
		ElectionTitle:     receipt.ElectionTitle,
		Selections:        string(selections),
		ContentHash:       receipt.ContentHash,
		VerificationToken: receipt.VerificationToken,
		VotedAt:           receipt.VotedAt,
		CreatedAt:         receipt.CreatedAt,
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "receipt_id"}},
			DoNothing: true,
		}).
		Create(&model)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return domainerrors.ErrReceiptAlreadyExists
		}

		r.logError(ctx, "save_receipt_failed", result.Error, "receipt_id", receipt.ReceiptID)

		return result.Error
	}
	if result.RowsAffected == 0 {
		return domainerrors.ErrReceiptAlreadyExists
	}

	return nil
}

func (r *Repository) GetReceipt(ctx context.Context, receiptID string) (entities.Receipt, bool, error) {
	var model receiptModel

	err := r.db.WithContext(ctx).
		Where("receipt_id = ?", receiptID).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return entities.Receipt{}, false, nil
		}

		r.logError(ctx, "get_receipt_failed", err, "receipt_id", receiptID)

		return entities.Receipt{}, false, err
	}

	receipt, err := toReceiptEntity(model)
	if err != nil {
		r.logError(ctx, "decode_receipt_failed", err, "receipt_id", receiptID)

		return entities.Receipt{}, false, err
	}

	return receipt, true, nil
}

func toReceiptEntity(model receiptModel) (entities.Receipt, error) {
	var selections []entities.SelectionLine
	if err := json.Unmarshal([]byte(model.Selections), &selections); err != nil {
		return entities.Receipt{}, fmt.Errorf("decode receipt selections: %w", err)
	}

	return entities.Receipt{
		ReceiptID:         model.ReceiptID,
		ElectionID:        model.ElectionID,
		ElectionTitle:     model.ElectionTitle,
		Selections:        selections,
		ContentHash:       model.ContentHash,
		VerificationToken: model.VerificationToken,
		VotedAt:           model.VotedAt,
		CreatedAt:         model.CreatedAt,
	}, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	return false
}

func (r *Repository) logError(ctx context.Context, event string, err error, args ...any) {
	if r.logger == nil {
		return
	}

	fields := append([]any{
		"event", event,
		"module", "receipt-service",
		"layer", "adapter",
		"error", err,
	}, args...)

	r.logger.ErrorContext(ctx, "receipt repository operation failed", fields...)
}
