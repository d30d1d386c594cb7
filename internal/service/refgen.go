package service

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

var (
	settlementBound = big.NewInt(10_000_000_000)
	authCodeBound   = big.NewInt(1_000_000_000)
)

// ReferenceSource draws settlement references and authorization codes from a
// cryptographically secure random source, so issued codes are not predictable
// or replayable. It holds no per-call state and is safe for concurrent use.
// No uniqueness is guaranteed for the codes themselves; only the external id
// identifies a transaction.
type ReferenceSource struct {
	reader io.Reader
}

func NewReferenceSource() *ReferenceSource {
	return &ReferenceSource{reader: rand.Reader}
}

// NewReferenceSourceFrom allows tests to substitute a deterministic reader.
func NewReferenceSourceFrom(reader io.Reader) *ReferenceSource {
	return &ReferenceSource{reader: reader}
}

// SettlementReference returns a zero-padded 10-digit code.
func (g *ReferenceSource) SettlementReference() (string, error) {
	n, err := rand.Int(g.reader, settlementBound)
	if err != nil {
		return "", fmt.Errorf("settlement reference: %w", err)
	}
	return fmt.Sprintf("%010d", n), nil
}

// AuthorizationCode returns a zero-padded 9-digit code.
func (g *ReferenceSource) AuthorizationCode() (string, error) {
	n, err := rand.Int(g.reader, authCodeBound)
	if err != nil {
		return "", fmt.Errorf("authorization code: %w", err)
	}
	return fmt.Sprintf("%09d", n), nil
}
