package server_test

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/go-auth-relay/internal/config"
	"github.com/jrsteele09/go-auth-relay/internal/errors"
	"github.com/jrsteele09/go-auth-relay/server"
	"github.com/jrsteele09/go-auth-relay/server/sessionrepo"
)

func setupController(t *testing.T) (*server.Controller, *sessionrepo.InMemoryRepo) {
	t.Helper()

	repo := sessionrepo.NewInMemoryRepo()
	controller := server.NewController(testConfig{clientID: testClientID}, repo)
	t.Cleanup(func() {
		_, _ = controller.Stop(context.Background())
	})
	return controller, repo
}

// noRedirectClient returns the redirect response instead of following it
var noRedirectClient = &http.Client{
	CheckRedirect: func(*http.Request, []*http.Request) error {
		return http.ErrUseLastResponse
	},
	Timeout: 5 * time.Second,
}

func getJSON(t *testing.T, rawURL string, headers map[string]string) (int, map[string]string) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	require.NoError(t, err)
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := noRedirectClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	return resp.StatusCode, body
}

func TestControllerStart(t *testing.T) {
	controller, repo := setupController(t)

	result, err := controller.Start(context.Background(), testAccessKey)
	require.NoError(t, err)
	require.False(t, result.Timestamp.IsZero())
	require.Contains(t, result.Status, "UP")
	require.Contains(t, result.Status, controller.Addr())
	require.True(t, controller.Running())

	_, err = repo.Get(testAccessKey)
	require.NoError(t, err)

	status, body := getJSON(t, "http://"+controller.Addr()+"/heartbeat", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, map[string]string{"status": "ok"}, body)
}

func TestControllerRestart(t *testing.T) {
	controller, repo := setupController(t)

	_, err := controller.Start(context.Background(), "key-a")
	require.NoError(t, err)
	oldAddr := controller.Addr()

	_, err = controller.Start(context.Background(), "key-b")
	require.NoError(t, err)
	require.True(t, controller.Running())

	// Old listener is fully released
	_, err = net.DialTimeout("tcp", oldAddr, time.Second)
	require.Error(t, err)

	// Old session discarded, new one registered
	_, err = repo.Get("key-a")
	require.ErrorIs(t, err, errors.ErrSessionNotFound)
	_, err = repo.Get("key-b")
	require.NoError(t, err)
}

func TestControllerStop(t *testing.T) {
	controller, repo := setupController(t)

	t.Run("stop without start is a no-op", func(t *testing.T) {
		result, err := controller.Stop(context.Background())
		require.NoError(t, err)
		require.Nil(t, result)
	})

	t.Run("stop releases the socket and session", func(t *testing.T) {
		_, err := controller.Start(context.Background(), testAccessKey)
		require.NoError(t, err)
		addr := controller.Addr()

		result, err := controller.Stop(context.Background())
		require.NoError(t, err)
		require.Contains(t, result.Status, "DOWN")
		require.False(t, controller.Running())
		require.Empty(t, controller.Addr())

		_, err = net.DialTimeout("tcp", addr, time.Second)
		require.Error(t, err)
		_, err = repo.Get(testAccessKey)
		require.ErrorIs(t, err, errors.ErrSessionNotFound)
	})

	t.Run("second stop is a safe no-op", func(t *testing.T) {
		result, err := controller.Stop(context.Background())
		require.NoError(t, err)
		require.Nil(t, result)
	})
}

func TestEndToEndFlow(t *testing.T) {
	controller, _ := setupController(t)
	keyHeader := config.OAuth{}.GetAccessKeyHeader()

	_, err := controller.Start(context.Background(), "secret1")
	require.NoError(t, err)
	base := "http://" + controller.Addr()

	// Liveness before pointing the user at the login page
	status, body := getJSON(t, base+"/heartbeat", nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ok", body["status"])

	// Redirect carries the session state and a well-formed challenge
	resp, err := noRedirectClient.Get(base + "/")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusFound, resp.StatusCode)

	location, err := url.Parse(resp.Header.Get("Location"))
	require.NoError(t, err)
	state := location.Query().Get("state")
	challenge := location.Query().Get("code_challenge")
	require.Len(t, state, 16)
	require.NotEmpty(t, challenge)

	// Simulated provider callback
	resp, err = noRedirectClient.Get(base + "/callback?state=" + state + "&code=ABC123")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Headless client picks the code up with the access key
	status, body = getJSON(t, base+"/access_code", map[string]string{keyHeader: "secret1"})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "ABC123", body["access_code"])
	require.Equal(t, challenge, body["code_challenge"])
	require.NotEmpty(t, body["code_verifier"])
}
