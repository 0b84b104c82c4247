package session

import (
	"context"
	"time"
)

type SessionRepository interface {
	Create(ctx context.Context, userID string, refreshToken string, expiresAt int64, tracking Tracking) (Record, error)
	// GetByToken returns ErrSessionNotFound when no row matches the token.
	GetByToken(ctx context.Context, refreshToken string) (Record, error)
	// GetByID returns ErrSessionNotFound when the row does not exist.
	GetByID(ctx context.Context, id string) (Record, error)
	Revoke(ctx context.Context, id string) error
	RevokeAllForUser(ctx context.Context, userID string) (int64, error)
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}
