package session

import "net/http"

// DefaultCookieName is used when no cookie name is configured
const DefaultCookieName = "auth_session"

// Codec maps session ids to cookie values and carries the cookie attribute
// policy for a deployment.
type Codec struct {
	name   string
	secure bool
}

// NewCodec creates a codec. secure should be true in production-like
// environments.
func NewCodec(name string, secure bool) Codec {
	if name == "" {
		name = DefaultCookieName
	}
	return Codec{name: name, secure: secure}
}

// CookieName returns the session cookie name
func (c Codec) CookieName() string {
	return c.name
}

// Encode returns the cookie value for a session id. The value is the opaque
// id itself.
func (c Codec) Encode(sessionID string) string {
	return sessionID
}

// Decode returns the candidate session id carried by a cookie value. Any
// non-empty value is a candidate; whether it exists is up to the store.
func (c Codec) Decode(value string) (string, bool) {
	if value == "" {
		return "", false
	}
	return value, true
}

// SessionCookie builds the cookie carrying sessionID. It has no Max-Age or
// Expires, so it lives for the browser session; server-side expiry is
// tracked separately on the session record.
func (c Codec) SessionCookie(sessionID string) *http.Cookie {
	ck := c.base()
	ck.Value = c.Encode(sessionID)
	return ck
}

// BlankCookie builds a cookie that removes the session cookie from the client
func (c Codec) BlankCookie() *http.Cookie {
	ck := c.base()
	ck.MaxAge = -1
	return ck
}

func (c Codec) base() *http.Cookie {
	return &http.Cookie{
		Name:     c.name,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
