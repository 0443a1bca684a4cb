package helpers

import (
	"testing"
	"time"
)

func TestJWTRoundTrip(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	tok, exp, err := m.GenerateToken("user-123")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if until := time.Until(exp); until < 59*time.Minute || until > time.Hour {
		t.Fatalf("expiry off: %v from now", until)
	}

	claims, err := m.ParseToken(tok)
	if err != nil {
		t.Fatalf("ParseToken: %v", err)
	}
	if claims.UserID != "user-123" {
		t.Fatalf("UserID = %q, want user-123", claims.UserID)
	}
	if claims.IssuedAt == nil {
		t.Fatal("IssuedAt not set")
	}
}

func TestJWTRejectsBadInput(t *testing.T) {
	m := NewJWTManager("test-secret", time.Hour)

	if _, err := m.ParseToken("not.a.token"); err == nil {
		t.Fatal("garbage token accepted")
	}

	other := NewJWTManager("other-secret", time.Hour)
	tok, _, err := other.GenerateToken("user-123")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := m.ParseToken(tok); err == nil {
		t.Fatal("token signed with a different secret accepted")
	}
}

func TestJWTRejectsExpired(t *testing.T) {
	m := NewJWTManager("test-secret", -time.Minute)
	tok, _, err := m.GenerateToken("user-123")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if _, err := m.ParseToken(tok); err == nil {
		t.Fatal("expired token accepted")
	}
}
