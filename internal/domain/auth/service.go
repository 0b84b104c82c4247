package auth

import (
	"context"

	"github.com/codenest/erp-backend/internal/domain/session"
)

type AuthService interface {
	SignUp(ctx context.Context, req SignUpRequest, tracking session.Tracking) (session.Session, error)
	SignIn(ctx context.Context, req SignInRequest, tracking session.Tracking) (session.Session, error)
	Refresh(ctx context.Context, req RefreshTokenRequest) (session.Session, error)
	// SignOut is idempotent: an unknown or already revoked token is not an error.
	SignOut(ctx context.Context, refreshToken string) error
	// StreamToken issues a short-lived token that opens an access stream for the session.
	StreamToken(ctx context.Context, userID, sessionID string) (token string, expiresIn int, err error)
	// ClientSession returns the session provider for the client holding the stream token.
	ClientSession(ctx context.Context, streamToken string) (session.Provider, error)
	// ClaimsSession returns a provider backed by verified access-token claims.
	ClaimsSession(claims map[string]interface{}) session.Provider
}
