// Package identity resolves the caller of a request from credentials issued by an external provider.
// Nothing here stores sessions or checks passwords.
package identity

import (
	"context"
	"errors"
	"net/http"
)

var (
	// ErrNoIdentity means the request carried no credentials for this provider.
	ErrNoIdentity = errors.New("no identity supplied")
	// ErrInvalidCredentials means credentials were present but unusable.
	ErrInvalidCredentials = errors.New("invalid identity credentials")
)

// Session is the resolved caller.
type Session struct {
	UserID  int64
	IsAdmin bool
}

// Provider extracts a session from an inbound request.
type Provider interface {
	Resolve(r *http.Request) (Session, error)
}

// Chain tries providers in order. The first provider that finds credentials decides the outcome.
type Chain []Provider

func (c Chain) Resolve(r *http.Request) (Session, error) {
	for _, p := range c {
		if p == nil {
			continue
		}
		session, err := p.Resolve(r)
		if errors.Is(err, ErrNoIdentity) {
			continue
		}
		return session, err
	}
	return Session{}, ErrNoIdentity
}

type sessionKey struct{}

func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// FromContext returns the session placed by the middleware, if any.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(sessionKey{}).(Session)
	return s, ok && s.UserID > 0
}
