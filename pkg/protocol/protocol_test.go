package protocol

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"testing"

	"github.com/google/uuid"

	"reversa-be/pkg/lifecycle"
)

var codePattern = regexp.MustCompile(`^(RET|RB)-[A-Z0-9]{8}$`)

func TestGenerateFormat(t *testing.T) {
	tests := []struct {
		name       string
		reqType    lifecycle.Type
		wantPrefix string
	}{
		{name: "return", reqType: lifecycle.TypeReturn, wantPrefix: "RET-"},
		{name: "exchange", reqType: lifecycle.TypeExchange, wantPrefix: "RET-"},
		{name: "refund", reqType: lifecycle.TypeRefund, wantPrefix: "RB-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 100; i++ {
				code := Generate(tt.reqType)
				if !strings.HasPrefix(code, tt.wantPrefix) {
					t.Fatalf("Generate(%s) = %s, want prefix %s", tt.reqType, code, tt.wantPrefix)
				}
				if !codePattern.MatchString(code) {
					t.Fatalf("Generate(%s) = %s, does not match %s", tt.reqType, code, codePattern)
				}
			}
		})
	}
}

// collidingChecker reports the first n codes as taken.
type collidingChecker struct {
	collisions int
	calls      int
}

func (c *collidingChecker) ProtocolExists(ctx context.Context, storeID uuid.UUID, code string) (bool, error) {
	c.calls++
	return c.calls <= c.collisions, nil
}

type failingChecker struct{}

func (failingChecker) ProtocolExists(ctx context.Context, storeID uuid.UUID, code string) (bool, error) {
	return false, errors.New("db down")
}

func TestGenerateUnique(t *testing.T) {
	storeID := uuid.New()

	t.Run("first attempt free", func(t *testing.T) {
		checker := &collidingChecker{}
		code, err := GenerateUnique(context.Background(), storeID, lifecycle.TypeReturn, checker)
		if err != nil {
			t.Fatalf("GenerateUnique = %v", err)
		}
		if !codePattern.MatchString(code) {
			t.Fatalf("code %s does not match pattern", code)
		}
		if checker.calls != 1 {
			t.Fatalf("checker called %d times, want 1", checker.calls)
		}
	})

	t.Run("retries past collisions", func(t *testing.T) {
		checker := &collidingChecker{collisions: 4}
		code, err := GenerateUnique(context.Background(), storeID, lifecycle.TypeRefund, checker)
		if err != nil {
			t.Fatalf("GenerateUnique = %v", err)
		}
		if !strings.HasPrefix(code, "RB-") {
			t.Fatalf("code %s lost its prefix across retries", code)
		}
		if checker.calls != 5 {
			t.Fatalf("checker called %d times, want 5", checker.calls)
		}
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		checker := &collidingChecker{collisions: 1000}
		_, err := GenerateUnique(context.Background(), storeID, lifecycle.TypeReturn, checker)
		if !errors.Is(err, ErrExhausted) {
			t.Fatalf("GenerateUnique = %v, want ErrExhausted", err)
		}
	})

	t.Run("checker error propagates", func(t *testing.T) {
		_, err := GenerateUnique(context.Background(), storeID, lifecycle.TypeReturn, failingChecker{})
		if err == nil || errors.Is(err, ErrExhausted) {
			t.Fatalf("GenerateUnique = %v, want checker error", err)
		}
	})
}
