package sessionrepo

import "time"

// Session holds the secrets and captured results of one authorization
// attempt, keyed by the caller-supplied access-protection key.
type Session struct {
	Key               string
	State             string
	CodeVerifier      string
	CodeChallenge     string
	AuthorizationCode string
	ClientID          string
	CreatedAt         time.Time
}

// HasCode reports whether a valid callback has been captured. Codes are
// rejected before storage when empty, so a non-empty value means captured.
func (s *Session) HasCode() bool {
	return s.AuthorizationCode != ""
}

type Repo interface {
	Register(key string) (*Session, error)
	Get(key string) (*Session, error)
	SetCode(key, code string) error
	SetClientID(key, clientID string) error
	Delete(key string) error
}
