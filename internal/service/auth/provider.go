package auth

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/codenest/erp-backend/internal/domain/auth"
	"github.com/codenest/erp-backend/internal/domain/session"
)

// ClientSession implements auth.AuthService.
func (a *AuthServiceImpl) ClientSession(ctx context.Context, streamToken string) (session.Provider, error) {
	userID, sessionID, err := a.tokens.ValidateStreamToken(streamToken)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	return &clientSession{svc: a, ctx: ctx, userID: userID, sessionID: sessionID}, nil
}

// ClaimsSession implements auth.AuthService.
func (a *AuthServiceImpl) ClaimsSession(claims map[string]interface{}) session.Provider {
	userID, _ := claims["user_id"].(string)
	sessionID, _ := claims["sid"].(string)
	email, _ := claims["email"].(string)
	return &claimsSession{svc: a, userID: userID, sessionID: sessionID, email: email}
}

// clientSession follows one stored session of one user through the hub.
type clientSession struct {
	svc       *AuthServiceImpl
	ctx       context.Context
	userID    string
	sessionID string
}

func (c *clientSession) CurrentSession(ctx context.Context) (*session.Session, error) {
	s, err := c.svc.currentSession(ctx, c.sessionID)
	if err != nil || s == nil {
		return nil, err
	}
	if s.UserID != c.userID {
		return nil, nil
	}
	return s, nil
}

func (c *clientSession) Subscribe(handler session.Handler) func() {
	events, cleanup := c.svc.hub.Subscribe(c.userID)
	var stopped atomic.Bool

	go func() {
		for ev := range events {
			switch ev.Kind {
			case session.EventSignedOut:
				// Empty SessionID ends every session of the user.
				if ev.SessionID == "" || ev.SessionID == c.sessionID {
					handler(nil)
				}
			case session.EventTokenRefreshed:
				if ev.SessionID == c.sessionID && ev.Session != nil {
					handler(ev.Session)
				}
			case session.EventProfileUpdated:
				s, err := c.CurrentSession(c.ctx)
				if err != nil {
					slog.Warn("session reload after profile update failed", "user_id", c.userID, "error", err)
				}
				handler(s)
			}
			// Sign-ins on other devices do not change this session.
		}

		// The hub closed the channel itself: events were lost, so the
		// session can no longer be followed.
		if !stopped.Load() {
			slog.Warn("session subscription evicted", "user_id", c.userID, "session_id", c.sessionID)
			handler(nil)
		}
	}()

	return func() {
		stopped.Store(true)
		cleanup()
	}
}

func (c *clientSession) SignOut(ctx context.Context) error {
	rec, err := c.svc.sessions.GetByID(ctx, c.sessionID)
	if err != nil {
		return err
	}
	return c.svc.endSession(ctx, rec)
}

// claimsSession is the per-request view built from verified access-token
// claims. It never changes during a request, so Subscribe is a no-op.
type claimsSession struct {
	svc       *AuthServiceImpl
	userID    string
	sessionID string
	email     string
}

func (c *claimsSession) CurrentSession(ctx context.Context) (*session.Session, error) {
	if c.userID == "" {
		return nil, nil
	}
	s, err := c.svc.currentSession(ctx, c.sessionID)
	if err != nil || s == nil {
		return nil, err
	}
	if s.UserID != c.userID {
		return nil, nil
	}
	if c.email != "" {
		s.Email = c.email
	}
	return s, nil
}

func (c *claimsSession) Subscribe(handler session.Handler) func() {
	return func() {}
}

func (c *claimsSession) SignOut(ctx context.Context) error {
	return session.ErrSignOutForbidden
}
