package auth

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const (
	// tokenPrefixTag marks API tokens in the wild and keys the prefix index
	tokenPrefixTag = "fv"
	// prefixRandomBytes gives 12 hex chars of prefix entropy
	prefixRandomBytes = 6
	// secretRandomBytes gives 43 base64url chars of secret entropy
	secretRandomBytes = 32
	// secretHashCost bounds the hash cost so token verification stays
	// cheap enough for per-request use
	secretHashCost = 10
)

// ErrMalformedToken is returned when a presented token does not split into
// prefix and secret.
var ErrMalformedToken = errors.New("malformed api token")

// TokenParts is a freshly generated API token: a non-secret indexable
// prefix and a high-entropy secret. The secret exists in memory only; the
// caller hashes it and shows the plaintext exactly once.
type TokenParts struct {
	Prefix string
	Secret string
}

// Plaintext returns the single wire representation "prefix.secret" shown
// to the user at creation time.
func (p TokenParts) Plaintext() string {
	return p.Prefix + "." + p.Secret
}

// GenerateTokenParts produces a new prefix/secret pair from crypto/rand.
// Two calls never produce the same secret (collision probability is
// negligible at 256 bits of entropy).
func GenerateTokenParts() (TokenParts, error) {
	prefixBytes := make([]byte, prefixRandomBytes)
	if _, err := rand.Read(prefixBytes); err != nil {
		return TokenParts{}, fmt.Errorf("failed to generate token prefix: %w", err)
	}

	secretBytes := make([]byte, secretRandomBytes)
	if _, err := rand.Read(secretBytes); err != nil {
		return TokenParts{}, fmt.Errorf("failed to generate token secret: %w", err)
	}

	return TokenParts{
		Prefix: tokenPrefixTag + "_" + hex.EncodeToString(prefixBytes),
		Secret: base64.RawURLEncoding.EncodeToString(secretBytes),
	}, nil
}

// HashTokenSecret hashes the secret with a salted, cost-bounded bcrypt
// hash. The plaintext is never persisted.
func HashTokenSecret(secret string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), secretHashCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash token secret: %w", err)
	}
	return string(hash), nil
}

// VerifyTokenSecret compares a presented secret against the stored hash.
// bcrypt's comparison is constant-time-safe.
func VerifyTokenSecret(secret, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret)) == nil
}

// SplitToken separates a presented "prefix.secret" token into its parts
func SplitToken(token string) (prefix, secret string, err error) {
	parts := strings.SplitN(token, ".", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", ErrMalformedToken
	}
	if !strings.HasPrefix(parts[0], tokenPrefixTag+"_") {
		return "", "", ErrMalformedToken
	}
	return parts[0], parts[1], nil
}
