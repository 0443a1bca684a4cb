package helpers

import (
	"testing"
	"time"
)

func TestNewResetToken(t *testing.T) {
	tok, err := NewResetToken(10 * time.Minute)
	if err != nil {
		t.Fatalf("NewResetToken: %v", err)
	}
	if len(tok.Raw) != 64 {
		t.Fatalf("raw token length = %d, want 64 hex chars", len(tok.Raw))
	}
	if tok.Raw == tok.Hashed {
		t.Fatal("stored hash equals the raw token")
	}
	if got := HashResetToken(tok.Raw); got != tok.Hashed {
		t.Fatalf("HashResetToken(raw) = %q, want %q", got, tok.Hashed)
	}
	if until := time.Until(tok.ExpiresAt); until < 9*time.Minute || until > 10*time.Minute {
		t.Fatalf("expiry off: %v from now", until)
	}
}

func TestResetTokensUnique(t *testing.T) {
	a, err := NewResetToken(time.Minute)
	if err != nil {
		t.Fatalf("NewResetToken: %v", err)
	}
	b, err := NewResetToken(time.Minute)
	if err != nil {
		t.Fatalf("NewResetToken: %v", err)
	}
	if a.Raw == b.Raw {
		t.Fatal("two tokens are identical")
	}
}
