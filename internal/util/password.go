package util

import (
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// HashPassword produces a bcrypt credential for storage. The result is
// self-describing ($2a$ prefixed), so VerifyPassword can tell it apart from
// legacy rows.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword checks a plaintext password against a stored credential.
// Credentials in a recognized bcrypt format are verified with bcrypt; anything
// else is treated as a legacy plaintext row and compared for exact equality.
// This fallback is a known weakness kept for accounts created before hashing
// was introduced; dropping it would lock those accounts out.
//
// Returns false, never an error, for empty inputs or malformed credentials.
func VerifyPassword(plain string, stored string) bool {
	if plain == "" || stored == "" {
		return false
	}

	if IsHashed(stored) {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil
	}

	return stored == plain
}

// IsHashed reports whether the stored credential is in a recognized bcrypt
// format.
func IsHashed(stored string) bool {
	return strings.HasPrefix(stored, "$2a$") ||
		strings.HasPrefix(stored, "$2b$") ||
		strings.HasPrefix(stored, "$2y$")
}
