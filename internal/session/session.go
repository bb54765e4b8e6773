// Package session resolves the operator identity behind an admin request or
// CLI invocation.
package session

import (
	"context"
	stderrors "errors"

	"github.com/Jannatul-Ferdauss/PathX-sub001/internal/models"
)

// ErrNoSession is returned by a Provider when no identity is signed in.
var ErrNoSession = stderrors.New("no user is logged in")

type Provider interface {
	Current(ctx context.Context) (models.Session, error)
}

type tokenKey struct{}

// WithToken attaches a raw session token, usually taken from a bearer
// header, to ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func TokenFromContext(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey{}).(string)
	return token
}

// token prefers the request-scoped token and falls back to the one the
// process was started with.
func token(ctx context.Context, fallback string) string {
	if t := TokenFromContext(ctx); t != "" {
		return t
	}
	return fallback
}
