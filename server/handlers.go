package server

import (
	"crypto/subtle"
	"net/http"
	"net/url"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"

	"github.com/jrsteele09/go-auth-relay/internal/errors"
	"github.com/jrsteele09/go-auth-relay/server/sessionrepo"
)

// PreflightHandler answers CORS preflight requests on any path. No session
// state is touched.
func (s *Server) PreflightHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", s.config.GetAllowedMethods())
		w.Header().Set("Access-Control-Allow-Headers", s.config.GetAllowedHeaders())
		w.WriteHeader(http.StatusOK)
	}
}

// RedirectHandler sends the companion browser to the provider's
// authorization endpoint, carrying the session's state nonce and the S256
// challenge derived from its code verifier.
func (s *Server) RedirectHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.session(w)
		if err != nil {
			return
		}

		clientID := session.ClientID
		if clientID == "" {
			clientID = s.config.GetClientID()
		}
		if clientID == "" {
			respondHTML(w, instructionPage(
				"Client id required",
				"No provider application id is registered yet. Visit "+
					RouteSetClientID+"?clientid=<your application id> first, then come back here.",
			), http.StatusOK)
			return
		}

		oauthConfig := &oauth2.Config{
			ClientID:    clientID,
			RedirectURL: getScheme(r) + "://" + r.Host + RouteCallback,
			Scopes:      s.config.GetScopes(),
			Endpoint: oauth2.Endpoint{
				AuthURL: s.config.GetAuthorizeURL(),
			},
		}

		authURL := oauthConfig.AuthCodeURL(session.State,
			oauth2.SetAuthURLParam("code_challenge_method", "S256"),
			oauth2.SetAuthURLParam("code_challenge", session.CodeChallenge),
			oauth2.SetAuthURLParam("show_dialog", "false"),
		)

		http.Redirect(w, r, authURL, http.StatusFound)
	}
}

// SetClientIDHandler registers a user-supplied provider application id for
// the session. Registration is one-shot: a second attempt keeps the prior
// value and tells the user to restart through the primary flow.
func (s *Server) SetClientIDHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		clientID := r.URL.Query().Get("clientid")
		if clientID == "" {
			respondHTML(w, instructionPage(
				"Missing parameters",
				"Provide your provider application id as "+RouteSetClientID+"?clientid=<your application id>.",
			), http.StatusOK)
			return
		}

		err := s.sessions.SetClientID(s.accessKey, clientID)
		switch {
		case errors.Is(err, errors.ErrClientIDAlreadySet):
			respondHTML(w, instructionPage(
				"Client id already set",
				"A client id is already registered for this session. Close this tab and restart the login from your device.",
			), http.StatusOK)
		case err != nil:
			log.Error().Err(err).Msg("[SetClientIDHandler] registration failed")
			writeJSONError(w, "session_not_found", http.StatusInternalServerError)
		default:
			respondHTML(w, instructionPage(
				"Client id registered",
				"You can now return to the login page and continue.",
			), http.StatusOK)
		}
	}
}

// CallbackHandler is the provider's redirect target. Classification runs in
// a fixed order: presence of parameters, state equality, provider error, and
// only then is the authorization code stored.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, err := s.session(w)
		if err != nil {
			return
		}

		code, providerDetail, err := classifyCallback(r.URL.RawQuery, r.URL.Query(), session.State)
		if err != nil {
			log.Warn().Err(err).Msg("[CallbackHandler] callback rejected")
			respondHTML(w, callbackErrorPage(err, providerDetail), http.StatusForbidden)
			return
		}

		if err := s.sessions.SetCode(s.accessKey, code); err != nil {
			log.Error().Err(err).Msg("[CallbackHandler] failed to store authorization code")
			writeJSONError(w, "session_not_found", http.StatusInternalServerError)
			return
		}

		log.Info().Msg("authorization code captured")
		respondHTML(w, successPage, http.StatusOK)
	}
}

// classifyCallback validates the provider's callback parameters against the
// session's expected state. Pure: no session mutation happens here. The
// state check runs before the error check, and both before the code is
// accepted.
func classifyCallback(rawQuery string, query url.Values, expectedState string) (code, providerDetail string, err error) {
	if rawQuery == "" {
		return "", "", errors.ErrMissingParameters
	}

	if subtle.ConstantTimeCompare([]byte(query.Get("state")), []byte(expectedState)) != 1 {
		return "", "", errors.ErrInvalidState
	}

	if providerErr := query.Get("error"); providerErr != "" {
		return "", providerErr, errors.ErrProviderError
	}

	code = query.Get("code")
	if code == "" {
		return "", "", errors.ErrMissingParameters
	}

	return code, "", nil
}

// HeartbeatHandler is the liveness probe the external controller polls
// before pointing the end user at the redirect endpoint.
func (s *Server) HeartbeatHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
	}
}

// AccessCodeHandler is polled by the headless client. It is gated by the
// access-protection key; once a code has been captured it returns the code
// together with the PKCE values the client needs for its own token
// exchange.
func (s *Server) AccessCodeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.accessKey != "" {
			supplied := r.Header.Get(s.config.GetAccessKeyHeader())
			if subtle.ConstantTimeCompare([]byte(supplied), []byte(s.accessKey)) != 1 {
				writeJSONError(w, "invalid_access_key", http.StatusForbidden)
				return
			}
		}

		session, err := s.sessions.Get(s.accessKey)
		if err != nil {
			log.Error().Err(err).Msg("[AccessCodeHandler] session lookup failed")
			writeJSONError(w, "session_not_found", http.StatusInternalServerError)
			return
		}

		if !session.HasCode() {
			// Not yet authenticated, the client keeps polling
			respondJSON(w, map[string]string{}, http.StatusOK)
			return
		}

		respondJSON(w, map[string]string{
			"access_code":    session.AuthorizationCode,
			"code_challenge": session.CodeChallenge,
			"code_verifier":  session.CodeVerifier,
		}, http.StatusOK)
	}
}

// InvalidRouteHandler answers everything no other route claimed.
func (s *Server) InvalidRouteHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSONError(w, "invalid_route", http.StatusNotFound)
	}
}

// session looks up this listener's session, rendering a diagnostic payload
// on the impossible-but-defensive miss.
func (s *Server) session(w http.ResponseWriter) (*sessionrepo.Session, error) {
	session, err := s.sessions.Get(s.accessKey)
	if err != nil {
		log.Error().Err(err).Msg("[Server session] lookup failed")
		writeJSONError(w, "session_not_found", http.StatusInternalServerError)
		return nil, err
	}
	return session, nil
}
