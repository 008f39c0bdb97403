// Package auth provides the confirmation-code primitive for the passwordless
// signup flow: a random short-lived code is mailed to the user, and its bcrypt
// hash, salted with a fingerprint of the user's mutable state, is kept
// server-side until redeemed.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// GenerateCode returns a random confirmation code (12 hex characters).
func GenerateCode() (string, error) {
	buf := make([]byte, 6)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate confirmation code: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// StateFingerprint derives a stable digest of the user fields a code is bound
// to. A role or email change invalidates outstanding codes.
func StateFingerprint(userID, email, role string) string {
	sum := sha256.Sum256([]byte(userID + "\x00" + email + "\x00" + role))
	return hex.EncodeToString(sum[:])
}

// HashCode creates a bcrypt hash of the code bound to the given fingerprint.
func HashCode(code, fingerprint string) (string, error) {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(code+fingerprint), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashedBytes), nil
}

// VerifyCode checks a submitted code against the stored hash. The fingerprint
// must be recomputed from the user's current state.
func VerifyCode(hash, code, fingerprint string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(code+fingerprint))
}
