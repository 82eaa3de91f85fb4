// Package session carries the caller's credential explicitly instead of
// reading cookies or local storage at each call site.
package session

import (
	"context"
	"net/http"
	"strings"
)

// CookieName is the cookie the dashboard stores the bearer token in.
const CookieName = "token"

// Session is either a bearer token or the explicit "no session" value.
// The token is opaque; it is never inspected for validity.
type Session struct {
	token string
}

// None is the "no session" variant.
func None() Session { return Session{} }

// WithToken returns a session for the given token. A blank token yields None.
func WithToken(token string) Session {
	return Session{token: strings.TrimSpace(token)}
}

// Token returns the bearer token and whether a session exists.
func (s Session) Token() (string, bool) {
	return s.token, s.token != ""
}

// Active reports whether the session carries a token.
func (s Session) Active() bool {
	return s.token != ""
}

// Authorize sets the Authorization header when a session exists.
func (s Session) Authorize(h http.Header) {
	if s.token != "" {
		h.Set("Authorization", "Bearer "+s.token)
	}
}

func (s Session) String() string {
	if s.token == "" {
		return "none"
	}
	return "bearer"
}

// FromRequest reads the session from the Authorization header, falling back
// to the token cookie.
func FromRequest(r *http.Request) Session {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
			return WithToken(auth[7:])
		}
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return WithToken(c.Value)
	}
	return None()
}

type contextKey struct{}

// NewContext stores the session in ctx.
func NewContext(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the session stored in ctx or None.
func FromContext(ctx context.Context) Session {
	s, ok := ctx.Value(contextKey{}).(Session)
	if !ok {
		return None()
	}
	return s
}
