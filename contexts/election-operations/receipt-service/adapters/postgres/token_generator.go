package postgresadapter

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// HexTokenGenerator issues 256-bit verification tokens from crypto/rand.
type HexTokenGenerator struct{}

func (HexTokenGenerator) NewToken(_ context.Context) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	return hex.EncodeToString(buf), nil
}
