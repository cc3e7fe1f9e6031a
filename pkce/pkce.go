// Package pkce generates Proof Key for Code Exchange material per RFC 7636.
package pkce

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// Method is the only challenge method this package produces.
const Method = "S256"

// verifierBytes is the amount of random material behind each verifier. 32
// bytes encode to 43 URL-safe characters, the minimum the RFC allows.
const verifierBytes = 32

// Pair is a transient one-time verifier/challenge pair. The verifier must be
// retained by the caller across the redirect and supplied exactly once at
// token exchange; a pair is never reused across authorization attempts.
type Pair struct {
	Verifier  string
	Challenge string
}

// New draws a fresh verifier from a cryptographically secure source and
// derives its S256 challenge.
func New() (*Pair, error) {
	raw := make([]byte, verifierBytes)
	if _, err := rand.Read(raw); err != nil {
		return nil, fmt.Errorf("generating verifier: %w", err)
	}

	verifier := base64.RawURLEncoding.EncodeToString(raw)
	return &Pair{
		Verifier:  verifier,
		Challenge: ChallengeFrom(verifier),
	}, nil
}

// ChallengeFrom computes the S256 challenge for a verifier:
// BASE64URL(SHA256(ASCII(verifier))) without padding.
func ChallengeFrom(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
