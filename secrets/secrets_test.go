package secrets_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-auth-relay/secrets"
)

const (
	// RFC 7636 appendix B reference pair
	rfcVerifier  = "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	rfcChallenge = "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM"

	alphanumeric     = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	verifierAlphabet = alphanumeric + "_.-"
)

func TestState(t *testing.T) {
	t.Run("length and alphabet", func(t *testing.T) {
		for i := 0; i < 100; i++ {
			state, err := secrets.State()
			require.NoError(t, err)
			require.Len(t, state, 16)
			for _, c := range state {
				require.True(t, strings.ContainsRune(alphanumeric, c), "unexpected character %q in state %q", c, state)
			}
		}
	})

	t.Run("values differ between calls", func(t *testing.T) {
		a, err := secrets.State()
		require.NoError(t, err)
		b, err := secrets.State()
		require.NoError(t, err)
		require.NotEqual(t, a, b)
	})
}

func TestVerifier(t *testing.T) {
	for i := 0; i < 100; i++ {
		verifier, err := secrets.Verifier()
		require.NoError(t, err)
		require.Len(t, verifier, 128)
		for _, c := range verifier {
			require.True(t, strings.ContainsRune(verifierAlphabet, c), "unexpected character %q in verifier", c)
		}
	}
}

func TestChallenge(t *testing.T) {
	t.Run("matches RFC 7636 S256 reference", func(t *testing.T) {
		require.Equal(t, rfcChallenge, secrets.Challenge(rfcVerifier))
	})

	t.Run("deterministic", func(t *testing.T) {
		verifier, err := secrets.Verifier()
		require.NoError(t, err)
		require.Equal(t, secrets.Challenge(verifier), secrets.Challenge(verifier))
	})

	t.Run("base64url without padding", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			verifier, err := secrets.Verifier()
			require.NoError(t, err)
			challenge := secrets.Challenge(verifier)
			require.NotContains(t, challenge, "+")
			require.NotContains(t, challenge, "/")
			require.NotContains(t, challenge, "=")
		}
	})
}
