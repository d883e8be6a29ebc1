package session

import (
	"net/http"
	"time"
)

// Session represents a user session
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`

	// Fresh is set by the lookup layer when the session is inside the
	// renewal window. It is never persisted.
	Fresh bool `json:"-"`
}

// User is the identity projection exposed to callers of the validator
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Outcome is the result of validating a request. User and Session are either
// both set (authenticated) or both nil.
type Outcome struct {
	User    *User    `json:"user"`
	Session *Session `json:"session"`
}

// Authenticated reports whether the outcome carries an identity
func (o Outcome) Authenticated() bool {
	return o.User != nil && o.Session != nil
}

// MutationKind tells the caller what to do with the session cookie
type MutationKind int

const (
	// MutationNone leaves the cookie untouched
	MutationNone MutationKind = iota
	// MutationSet writes a session cookie
	MutationSet
	// MutationClear writes a blank, immediately expiring session cookie
	MutationClear
)

func (k MutationKind) String() string {
	switch k {
	case MutationSet:
		return "set"
	case MutationClear:
		return "clear"
	default:
		return "none"
	}
}

// CookieMutation is an instruction for the response boundary. The validator
// never writes cookies itself.
type CookieMutation struct {
	Kind   MutationKind
	Cookie *http.Cookie
}

// Reason classifies why validation ended the way it did. It is used for
// logging and is not exposed through the request-level entry point.
type Reason string

const (
	ReasonValid             Reason = "valid"
	ReasonNoCredential      Reason = "no_credential"
	ReasonInvalidCredential Reason = "invalid_credential"
	ReasonExpiredCredential Reason = "expired_credential"
	ReasonStoreUnavailable  Reason = "store_unavailable"
)

// Result pairs a validation outcome with its cookie mutation
type Result struct {
	Outcome  Outcome
	Mutation CookieMutation
	Reason   Reason
}
