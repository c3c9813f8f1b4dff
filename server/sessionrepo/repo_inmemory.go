package sessionrepo

import (
	"sync"
	"time"

	"github.com/jrsteele09/go-auth-relay/internal/errors"
	"github.com/jrsteele09/go-auth-relay/secrets"
)

// InMemoryRepo is a thread-safe in-memory implementation of the Repo interface
type InMemoryRepo struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewInMemoryRepo creates a new in-memory session repository
func NewInMemoryRepo() *InMemoryRepo {
	return &InMemoryRepo{
		sessions: make(map[string]*Session),
	}
}

// Register creates a fresh session under key, generating new secrets. Any
// prior session under the same key is discarded, including an in-flight
// authorization code and a registered client id. An empty key is legal: it
// disables the access-key gate on retrieval.
func (r *InMemoryRepo) Register(key string) (*Session, error) {
	state, err := secrets.State()
	if err != nil {
		return nil, errors.Wrapf(err, "[InMemoryRepo Register] state generation")
	}
	verifier, err := secrets.Verifier()
	if err != nil {
		return nil, errors.Wrapf(err, "[InMemoryRepo Register] verifier generation")
	}

	session := &Session{
		Key:           key,
		State:         state,
		CodeVerifier:  verifier,
		CodeChallenge: secrets.Challenge(verifier),
		CreatedAt:     time.Now(),
	}

	r.mu.Lock()
	r.sessions[key] = session
	r.mu.Unlock()

	return copySession(session), nil
}

// Get retrieves a session by access-protection key
func (r *InMemoryRepo) Get(key string) (*Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	session, exists := r.sessions[key]
	if !exists {
		return nil, errors.ErrSessionNotFound
	}

	return copySession(session), nil
}

// SetCode stores the captured authorization code. Repeat calls overwrite:
// a later valid callback for the same session wins.
func (r *InMemoryRepo) SetCode(key, code string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, exists := r.sessions[key]
	if !exists {
		return errors.ErrSessionNotFound
	}

	session.AuthorizationCode = code
	return nil
}

// SetClientID registers the provider application id for a session. A second
// registration is rejected and the prior value kept.
func (r *InMemoryRepo) SetClientID(key, clientID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	session, exists := r.sessions[key]
	if !exists {
		return errors.ErrSessionNotFound
	}

	if session.ClientID != "" {
		return errors.ErrClientIDAlreadySet
	}

	session.ClientID = clientID
	return nil
}

// Delete removes a session
func (r *InMemoryRepo) Delete(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, key)
	return nil
}

// copySession returns a copy to prevent external modifications
func copySession(s *Session) *Session {
	c := *s
	return &c
}
