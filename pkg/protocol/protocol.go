// Package protocol issues the human-shareable codes customers use to track
// a request. Return/exchange codes look like RET-7KQ2M9XA, refunds use the
// RB- prefix with the same suffix scheme.
package protocol

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"reversa-be/pkg/lifecycle"
)

const (
	returnPrefix = "RET-"
	refundPrefix = "RB-"

	suffixLen   = 8
	alphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	maxAttempts = 5
)

// ErrExhausted is returned when maxAttempts consecutive codes collided
// within the store. With an 8-character suffix this means the store either
// holds billions of requests or the checker is broken.
var ErrExhausted = errors.New("could not generate a unique protocol code")

// Checker answers whether a code is already taken within a store.
type Checker interface {
	ProtocolExists(ctx context.Context, storeID uuid.UUID, code string) (bool, error)
}

// Generate produces a random protocol code for the given request type.
// Uniqueness is NOT guaranteed; use GenerateUnique when a checker is
// available.
func Generate(t lifecycle.Type) string {
	prefix := returnPrefix
	if t == lifecycle.TypeRefund {
		prefix = refundPrefix
	}

	buf := make([]byte, suffixLen)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand only fails when the OS entropy source is broken.
		panic(fmt.Sprintf("protocol: entropy source unavailable: %v", err))
	}
	for i, b := range buf {
		buf[i] = alphabet[int(b)%len(alphabet)]
	}
	return prefix + string(buf)
}

// GenerateUnique wraps Generate with a per-store check-and-retry loop so a
// random collision never issues a duplicate protocol.
func GenerateUnique(ctx context.Context, storeID uuid.UUID, t lifecycle.Type, checker Checker) (string, error) {
	for i := 0; i < maxAttempts; i++ {
		code := Generate(t)
		taken, err := checker.ProtocolExists(ctx, storeID, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
	return "", ErrExhausted
}
