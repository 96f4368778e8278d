// Package session carries the authenticated principal through request
// contexts and stores token revocations.
package session

import (
	"context"
	"grievance/backend/internal/models"
	"time"
)

// Session is the authenticated principal of one request.
type Session struct {
	UserID     string
	Name       string
	Role       models.Role
	Department string
	TokenID    string
	ExpiresAt  time.Time
}

// Expired reports whether the session is past its expiry at now.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

type ctxKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored in ctx, if any.
func FromContext(ctx context.Context) (Session, bool) {
	s, ok := ctx.Value(ctxKey{}).(Session)
	return s, ok
}

// RevocationStore remembers logged-out token IDs until the token would have
// expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}
