package sessionrepo_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-auth-relay/internal/errors"
	"github.com/jrsteele09/go-auth-relay/secrets"
	"github.com/jrsteele09/go-auth-relay/server/sessionrepo"
)

const testKey = "test-access-key"

func TestRegister(t *testing.T) {
	repo := sessionrepo.NewInMemoryRepo()

	t.Run("populates fresh secrets", func(t *testing.T) {
		session, err := repo.Register(testKey)
		require.NoError(t, err)
		require.Equal(t, testKey, session.Key)
		require.Len(t, session.State, 16)
		require.Len(t, session.CodeVerifier, 128)
		require.Equal(t, secrets.Challenge(session.CodeVerifier), session.CodeChallenge)
		require.False(t, session.HasCode())
		require.Empty(t, session.ClientID)
		require.False(t, session.CreatedAt.IsZero())
	})

	t.Run("overwrite discards in-flight data", func(t *testing.T) {
		first, err := repo.Register(testKey)
		require.NoError(t, err)
		require.NoError(t, repo.SetCode(testKey, "ABC123"))
		require.NoError(t, repo.SetClientID(testKey, "client-1"))

		second, err := repo.Register(testKey)
		require.NoError(t, err)
		require.NotEqual(t, first.State, second.State)
		require.NotEqual(t, first.CodeVerifier, second.CodeVerifier)

		stored, err := repo.Get(testKey)
		require.NoError(t, err)
		require.False(t, stored.HasCode())
		require.Empty(t, stored.ClientID)
	})

	t.Run("empty key is legal", func(t *testing.T) {
		_, err := repo.Register("")
		require.NoError(t, err)
		_, err = repo.Get("")
		require.NoError(t, err)
	})
}

func TestGet(t *testing.T) {
	repo := sessionrepo.NewInMemoryRepo()

	t.Run("unknown key", func(t *testing.T) {
		_, err := repo.Get("nope")
		require.ErrorIs(t, err, errors.ErrSessionNotFound)
	})

	t.Run("returns a copy", func(t *testing.T) {
		_, err := repo.Register(testKey)
		require.NoError(t, err)

		got, err := repo.Get(testKey)
		require.NoError(t, err)
		got.AuthorizationCode = "tampered"
		got.State = "tampered"

		again, err := repo.Get(testKey)
		require.NoError(t, err)
		require.False(t, again.HasCode())
		require.NotEqual(t, "tampered", again.State)
	})
}

func TestSetCode(t *testing.T) {
	repo := sessionrepo.NewInMemoryRepo()

	t.Run("unknown key", func(t *testing.T) {
		require.ErrorIs(t, repo.SetCode("nope", "ABC123"), errors.ErrSessionNotFound)
	})

	t.Run("last write wins", func(t *testing.T) {
		_, err := repo.Register(testKey)
		require.NoError(t, err)

		require.NoError(t, repo.SetCode(testKey, "first"))
		require.NoError(t, repo.SetCode(testKey, "second"))

		session, err := repo.Get(testKey)
		require.NoError(t, err)
		require.Equal(t, "second", session.AuthorizationCode)
	})
}

func TestSetClientID(t *testing.T) {
	repo := sessionrepo.NewInMemoryRepo()
	_, err := repo.Register(testKey)
	require.NoError(t, err)

	t.Run("first registration sticks", func(t *testing.T) {
		require.NoError(t, repo.SetClientID(testKey, "client-1"))

		session, err := repo.Get(testKey)
		require.NoError(t, err)
		require.Equal(t, "client-1", session.ClientID)
	})

	t.Run("second registration rejected, prior kept", func(t *testing.T) {
		err := repo.SetClientID(testKey, "client-2")
		require.ErrorIs(t, err, errors.ErrClientIDAlreadySet)

		session, err := repo.Get(testKey)
		require.NoError(t, err)
		require.Equal(t, "client-1", session.ClientID)
	})

	t.Run("unknown key", func(t *testing.T) {
		require.ErrorIs(t, repo.SetClientID("nope", "client-1"), errors.ErrSessionNotFound)
	})
}

func TestDelete(t *testing.T) {
	repo := sessionrepo.NewInMemoryRepo()
	_, err := repo.Register(testKey)
	require.NoError(t, err)

	require.NoError(t, repo.Delete(testKey))
	_, err = repo.Get(testKey)
	require.ErrorIs(t, err, errors.ErrSessionNotFound)

	// Deleting again is harmless
	require.NoError(t, repo.Delete(testKey))
}
