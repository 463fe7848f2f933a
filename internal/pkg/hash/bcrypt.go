package hash

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"golang.org/x/crypto/bcrypt"
)

// Bcrypt implements Hash using bcrypt.
//
// The plaintext is first reduced to hex(HMAC-SHA256(pepper, plaintext)), so
// bcrypt always sees 64 bytes whatever the password length or encoding.
// Keep the pepper secret and store it in configuration (not in the database).
type Bcrypt struct {
	cost   int
	pepper []byte
}

// NewBcrypt returns a bcrypt-based hasher. A cost outside bcrypt's accepted
// range falls back to bcrypt.DefaultCost.
func NewBcrypt(cost int, pepper string) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost, pepper: []byte(pepper)}
}

// Hash hashes plaintext using bcrypt.
func (h *Bcrypt) Hash(plaintext string) ([]byte, error) {
	return bcrypt.GenerateFromPassword(h.peppered(plaintext), h.cost)
}

// Verify returns true when plaintext matches the hashed value.
func (h *Bcrypt) Verify(hashed, plaintext string) bool {
	if hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), h.peppered(plaintext)) == nil
}

func (h *Bcrypt) peppered(plaintext string) []byte {
	mac := hmac.New(sha256.New, h.pepper)
	mac.Write([]byte(plaintext))
	sum := mac.Sum(nil)

	out := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(out, sum)
	return out
}
