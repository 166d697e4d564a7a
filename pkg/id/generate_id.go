// Package id mints and checks the public identifiers the service hands out.
// Loans carry 32 lowercase hex characters; payments carry RFC 4122 UUIDs.
package id

import (
	"crypto/rand"
	"encoding/hex"
	"strings"

	"github.com/google/uuid"
)

const hex32Len = 32

// NewID32 returns 16 random bytes as lowercase hex.
func NewID32() string {
	b := make([]byte, hex32Len/2)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func IsID32(s string) bool {
	if len(s) != hex32Len {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

func NewPaymentID() string { return uuid.NewString() }

// IsUUID accepts only the canonical lowercase form of a version 1-5 uuid.
func IsUUID(s string) bool {
	if len(s) != 36 || strings.ToLower(s) != s {
		return false
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return false
	}
	return u.Variant() == uuid.RFC4122 && u.Version() >= 1 && u.Version() <= 5
}
