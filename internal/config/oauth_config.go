package config

import "strings"

const (
	authorizeURLEnvVar    = "OAUTH_AUTHORIZE_URL"
	clientIDEnvVar        = "OAUTH_CLIENT_ID"
	scopesEnvVar          = "OAUTH_SCOPES"
	accessKeyHeaderEnvVar = "ACCESS_KEY_HEADER"
)

// defaultScopes covers playback control, playback state, and the
// currently-playing track.
var defaultScopes = []string{
	"user-modify-playback-state",
	"user-read-playback-state",
	"user-read-currently-playing",
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

func (OAuth) GetAuthorizeURL() string {
	return GetEnv(authorizeURLEnvVar, "https://accounts.spotify.com/authorize")
}

// GetClientID returns the provider application id baked into the deployment.
// When empty, end users register their own id through the /setclientid
// endpoint before the redirect can proceed.
func (OAuth) GetClientID() string {
	return GetEnv(clientIDEnvVar, "")
}

func (OAuth) GetScopes() []string {
	scopes := GetEnv(scopesEnvVar, "")
	if scopes == "" {
		return defaultScopes
	}
	return strings.Fields(scopes)
}

func (OAuth) GetAccessKeyHeader() string {
	return GetEnv(accessKeyHeaderEnvVar, "X-RELAY-ACCESS-KEY")
}
