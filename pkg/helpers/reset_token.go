package helpers

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ResetToken is a one-time password-reset credential. Raw is handed to the
// user out-of-band; only Hashed is ever persisted, so a database read alone
// cannot forge a valid reset.
type ResetToken struct {
	Raw       string
	Hashed    string
	ExpiresAt time.Time
}

// NewResetToken generates a high-entropy reset token valid for ttl.
func NewResetToken(ttl time.Duration) (ResetToken, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return ResetToken{}, err
	}
	raw := hex.EncodeToString(b)
	return ResetToken{
		Raw:       raw,
		Hashed:    HashResetToken(raw),
		ExpiresAt: time.Now().Add(ttl),
	}, nil
}

// HashResetToken maps a raw reset token to its at-rest form.
func HashResetToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}
