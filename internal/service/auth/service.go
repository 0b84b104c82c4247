package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/codenest/erp-backend/internal/domain/auth"
	"github.com/codenest/erp-backend/internal/domain/profile"
	"github.com/codenest/erp-backend/internal/domain/session"
	"github.com/codenest/erp-backend/internal/domain/user"
	"github.com/codenest/erp-backend/internal/pkg/jwt"
	"github.com/codenest/erp-backend/internal/pkg/sse"
	"github.com/go-chi/jwtauth/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthServiceImpl struct {
	users    user.UserRepository
	profiles profile.ProfileRepository
	sessions session.SessionRepository
	tokens   jwt.Service
	hub      *sse.Hub
	now      func() time.Time
}

func NewAuthService(userRepository user.UserRepository, profileRepository profile.ProfileRepository, sessionRepository session.SessionRepository, jwtService jwt.Service, hub *sse.Hub) auth.AuthService {
	return &AuthServiceImpl{
		users:    userRepository,
		profiles: profileRepository,
		sessions: sessionRepository,
		tokens:   jwtService,
		hub:      hub,
		now:      time.Now,
	}
}

func (a *AuthServiceImpl) hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// SignUp implements auth.AuthService. The identity and the profile are two
// separate writes; a failed profile write leaves an orphaned identity that
// the orphan audit reports.
func (a *AuthServiceImpl) SignUp(ctx context.Context, req auth.SignUpRequest, tracking session.Tracking) (session.Session, error) {
	email := auth.NormalizeIdentifier(req.Identifier)

	_, err := a.users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return session.Session{}, auth.ErrEmailAlreadyExists
	case !errors.Is(err, user.ErrUserNotFound):
		return session.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	hashed, err := a.hashPassword(req.Password)
	if err != nil {
		return session.Session{}, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := a.users.Create(ctx, user.User{
		Email:        email,
		PasswordHash: &hashed,
	})
	if err != nil {
		if errors.Is(err, user.ErrUserEmailExists) {
			return session.Session{}, auth.ErrEmailAlreadyExists
		}
		return session.Session{}, fmt.Errorf("failed to create user: %w", err)
	}

	_, err = a.profiles.Create(ctx, profile.Profile{
		UserID:     created.ID,
		FullName:   strings.TrimSpace(req.FullName),
		Role:       profile.RoleEmployee,
		IsApproved: false,
	})
	if err != nil && !errors.Is(err, profile.ErrProfileExists) {
		slog.Error("signup profile insert failed", "user_id", created.ID, "email", email, "error", err)
		return session.Session{}, errors.Join(auth.ErrSignupPartialFailure, err)
	}

	s, err := a.issueSession(ctx, created, tracking)
	if err != nil {
		return session.Session{}, err
	}
	a.publish(session.EventSignedIn, s)
	return s, nil
}

// SignIn implements auth.AuthService.
func (a *AuthServiceImpl) SignIn(ctx context.Context, req auth.SignInRequest, tracking session.Tracking) (session.Session, error) {
	userData, err := a.users.GetByEmail(ctx, auth.NormalizeIdentifier(req.Identifier))
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return session.Session{}, auth.ErrInvalidCredentials
		}
		return session.Session{}, fmt.Errorf("failed to get user by email: %w", err)
	}

	if userData.PasswordHash == nil {
		return session.Session{}, auth.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(*userData.PasswordHash), []byte(req.Password)); err != nil {
		return session.Session{}, auth.ErrInvalidCredentials
	}

	s, err := a.issueSession(ctx, userData, tracking)
	if err != nil {
		return session.Session{}, err
	}
	a.publish(session.EventSignedIn, s)
	return s, nil
}

// Refresh implements auth.AuthService. The refresh token and session id are
// kept; only the access token is reissued.
func (a *AuthServiceImpl) Refresh(ctx context.Context, req auth.RefreshTokenRequest) (session.Session, error) {
	// 1. Verify JWT signature and expiry
	token, err := jwtauth.VerifyToken(a.tokens.JWTAuth(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, jwtauth.ErrExpired) {
			return session.Session{}, auth.ErrTokenExpired
		}
		return session.Session{}, auth.ErrInvalidToken
	}

	// 2. Check token type is "refresh"
	claims, err := token.AsMap(ctx)
	if err != nil {
		return session.Session{}, auth.ErrInvalidToken
	}
	if tokenType, ok := claims["type"].(string); !ok || tokenType != jwt.TokenTypeRefresh {
		return session.Session{}, auth.ErrInvalidToken
	}

	// 3. Check the stored session
	rec, err := a.sessions.GetByToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return session.Session{}, auth.ErrInvalidToken
		}
		return session.Session{}, fmt.Errorf("failed to get session: %w", err)
	}
	if !rec.Active(a.now()) {
		return session.Session{}, auth.ErrRefreshTokenRevoked
	}

	// 4. Get user
	userData, err := a.users.GetByID(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return session.Session{}, auth.ErrUserNotFound
		}
		return session.Session{}, fmt.Errorf("failed to get user by id: %w", err)
	}

	// 5. Generate new access token
	accessToken, accessExp, err := a.tokens.GenerateAccessToken(userData.ID, userData.Email, rec.ID)
	if err != nil {
		return session.Session{}, fmt.Errorf("failed to generate access token: %w", err)
	}

	s := session.Session{
		ID:                    rec.ID,
		UserID:                userData.ID,
		Email:                 userData.Email,
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessExp,
		RefreshToken:          req.RefreshToken,
		RefreshTokenExpiresAt: rec.ExpiresAt.Unix(),
	}
	a.publish(session.EventTokenRefreshed, s)
	return s, nil
}

// SignOut implements auth.AuthService.
func (a *AuthServiceImpl) SignOut(ctx context.Context, refreshToken string) error {
	rec, err := a.sessions.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get session: %w", err)
	}
	return a.endSession(ctx, rec)
}

// StreamToken implements auth.AuthService.
func (a *AuthServiceImpl) StreamToken(ctx context.Context, userID, sessionID string) (string, int, error) {
	rec, err := a.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return "", 0, auth.ErrInvalidToken
		}
		return "", 0, fmt.Errorf("failed to get session: %w", err)
	}
	if rec.UserID != userID || !rec.Active(a.now()) {
		return "", 0, auth.ErrRefreshTokenRevoked
	}
	return a.tokens.GenerateStreamToken(userID, sessionID)
}

func (a *AuthServiceImpl) endSession(ctx context.Context, rec session.Record) error {
	if rec.RevokedAt == nil {
		if err := a.sessions.Revoke(ctx, rec.ID); err != nil {
			return fmt.Errorf("failed to revoke session: %w", err)
		}
	}
	a.hub.Publish(session.Event{
		Kind:      session.EventSignedOut,
		UserID:    rec.UserID,
		SessionID: rec.ID,
	})
	return nil
}

func (a *AuthServiceImpl) issueSession(ctx context.Context, u user.User, tracking session.Tracking) (session.Session, error) {
	refreshToken, refreshExp, err := a.tokens.GenerateRefreshToken(u.ID)
	if err != nil {
		return session.Session{}, fmt.Errorf("failed to create refresh token: %w", err)
	}

	rec, err := a.sessions.Create(ctx, u.ID, refreshToken, refreshExp, tracking)
	if err != nil {
		return session.Session{}, fmt.Errorf("failed to save session: %w", err)
	}

	accessToken, accessExp, err := a.tokens.GenerateAccessToken(u.ID, u.Email, rec.ID)
	if err != nil {
		return session.Session{}, fmt.Errorf("failed to create access token: %w", err)
	}

	return session.Session{
		ID:                    rec.ID,
		UserID:                u.ID,
		Email:                 u.Email,
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessExp,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: refreshExp,
	}, nil
}

func (a *AuthServiceImpl) publish(kind session.EventKind, s session.Session) {
	a.hub.Publish(session.Event{
		Kind:      kind,
		UserID:    s.UserID,
		SessionID: s.ID,
		Session:   &s,
	})
}

// currentSession reads the stored session by id. Revoked, expired or unknown
// sessions read as no session.
func (a *AuthServiceImpl) currentSession(ctx context.Context, sessionID string) (*session.Session, error) {
	if sessionID == "" {
		return nil, nil
	}

	rec, err := a.sessions.GetByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}
	if !rec.Active(a.now()) {
		return nil, nil
	}

	userData, err := a.users.GetByID(ctx, rec.UserID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by id: %w", err)
	}

	return &session.Session{
		ID:                    rec.ID,
		UserID:                userData.ID,
		Email:                 userData.Email,
		RefreshTokenExpiresAt: rec.ExpiresAt.Unix(),
	}, nil
}
