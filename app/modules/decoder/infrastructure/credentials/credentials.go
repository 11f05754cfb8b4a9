// Package credentials implements the hashing and verification primitives for
// decoder accounts: a slow salted hash for passwords and a fast digest with
// constant-time comparison for API key secrets.
package credentials

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

// KeySeparator joins the decoder name and secret in a client-facing API key.
const KeySeparator = "::"

// secretBytes is the entropy of a freshly issued secret.
const secretBytes = 48

// HashPassword produces a salted bcrypt digest of the plaintext password.
func HashPassword(plain string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(digest), nil
}

// VerifyPassword reports whether the plaintext matches the stored digest.
func VerifyPassword(plain, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plain)) == nil
}

// NewSecret generates a high-entropy url-safe secret and the sha256 hex
// digest under which it is stored. Only the digest ever touches the database.
func NewSecret() (secret string, storedDigest string, err error) {
	raw := make([]byte, secretBytes)
	if _, err := rand.Read(raw); err != nil {
		return "", "", fmt.Errorf("failed to generate secret: %w", err)
	}
	secret = base64.RawURLEncoding.EncodeToString(raw)
	return secret, DigestSecret(secret), nil
}

// DigestSecret returns the sha256 hex digest of a secret.
func DigestSecret(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

// SecretMatches compares the digest of a presented secret against the stored
// digest in constant time.
func SecretMatches(presented, storedDigest string) bool {
	digest := DigestSecret(presented)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(storedDigest)) == 1
}

// ComposeKey builds the client-facing API key for a decoder.
func ComposeKey(name, secret string) string {
	return name + KeySeparator + secret
}

// SplitKey splits an API key into its name and secret parts. ok is false when
// the key is malformed.
func SplitKey(key string) (name, secret string, ok bool) {
	name, secret, ok = strings.Cut(key, KeySeparator)
	if !ok || name == "" || secret == "" {
		return "", "", false
	}
	return name, secret, true
}
