// Package secrets generates the per-session secrets used by the
// authorization flow: the state nonce and the PKCE code verifier, plus the
// RFC 7636 S256 challenge derivation.
package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"

	"github.com/jrsteele09/go-auth-relay/internal/errors"
)

const (
	stateLength    = 16
	verifierLength = 128

	alphanumeric = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

	// RFC 7636 unreserved characters - the raw verifier must survive
	// transport without percent-encoding.
	verifierAlphabet = alphanumeric + "_.-"
)

// State returns a fresh 16-character alphanumeric state nonce.
func State() (string, error) {
	s, err := randomString(stateLength, alphanumeric)
	if err != nil {
		return "", errors.Wrapf(err, "secrets.State")
	}
	return s, nil
}

// Verifier returns a fresh 128-character PKCE code verifier drawn from the
// RFC 7636 unreserved character set.
func Verifier() (string, error) {
	v, err := randomString(verifierLength, verifierAlphabet)
	if err != nil {
		return "", errors.Wrapf(err, "secrets.Verifier")
	}
	return v, nil
}

// Challenge derives the S256 code challenge for a verifier:
// base64url(SHA-256(verifier)) with padding stripped.
func Challenge(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

// randomString draws length characters uniformly from alphabet using
// crypto/rand. Bytes outside the largest multiple of len(alphabet) are
// rejected so the distribution stays uniform.
func randomString(length int, alphabet string) (string, error) {
	out := make([]byte, 0, length)
	max := byte(256 - (256 % len(alphabet)))

	buf := make([]byte, length*2)
	for len(out) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= max && max != 0 {
				continue
			}
			out = append(out, alphabet[int(b)%len(alphabet)])
			if len(out) == length {
				break
			}
		}
	}
	return string(out), nil
}
