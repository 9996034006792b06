package memory

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"evotar/contexts/election-operations/receipt-service/domain/entities"
	domainerrors "evotar/contexts/election-operations/receipt-service/domain/errors"
)

// Store is the in-memory receipt repository used by tests and local runs.
type Store struct {
	mu           sync.RWMutex
	receipts     map[string]entities.Receipt
	nextSaveErr  error
	saveAttempts int
}

func NewStore() *Store {
	return &Store{
		receipts: map[string]entities.Receipt{},
	}
}

// FailNextSave makes the next SaveReceipt call return err.
func (s *Store) FailNextSave(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSaveErr = err
}

func (s *Store) SaveAttempts() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.saveAttempts
}

func (s *Store) Receipt(receiptID string) (entities.Receipt, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	receipt, ok := s.receipts[receiptID]

	return receipt, ok
}

func (s *Store) SaveReceipt(_ context.Context, receipt entities.Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.saveAttempts++

	if s.nextSaveErr != nil {
		err := s.nextSaveErr
		s.nextSaveErr = nil

		return err
	}

	if _, exists := s.receipts[receipt.ReceiptID]; exists {
		return domainerrors.ErrReceiptAlreadyExists
	}

	s.receipts[receipt.ReceiptID] = receipt

	return nil
}

func (s *Store) GetReceipt(_ context.Context, receiptID string) (entities.Receipt, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	receipt, ok := s.receipts[receiptID]

	return receipt, ok, nil
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func (s *Store) NewToken(_ context.Context) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}
