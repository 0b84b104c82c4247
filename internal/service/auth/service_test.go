package auth

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/codenest/erp-backend/internal/domain/access"
	"github.com/codenest/erp-backend/internal/domain/auth"
	"github.com/codenest/erp-backend/internal/domain/profile"
	"github.com/codenest/erp-backend/internal/domain/session"
	"github.com/codenest/erp-backend/internal/pkg/jwt"
	"github.com/codenest/erp-backend/internal/pkg/sse"
	accesssvc "github.com/codenest/erp-backend/internal/service/access"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccessExp  = "1h"
	testRefreshExp = "24h"
	testSecret     = "test-secret-key-for-jwt"
)

type testEnv struct {
	svc      *AuthServiceImpl
	users    *memUsers
	profiles *memProfiles
	sessions *memSessions
	tokens   jwt.Service
	hub      *sse.Hub
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		users:    newMemUsers(),
		profiles: newMemProfiles(),
		sessions: newMemSessions(),
		tokens:   jwt.NewJWTService(testSecret, testAccessExp, testRefreshExp, 64),
		hub:      sse.NewHub(),
	}
	env.svc = NewAuthService(env.users, env.profiles, env.sessions, env.tokens, env.hub).(*AuthServiceImpl)
	return env
}

func (e *testEnv) signUp(t *testing.T, identifier string) session.Session {
	t.Helper()
	s, err := e.svc.SignUp(context.Background(), auth.SignUpRequest{
		Identifier:      identifier,
		FullName:        "  " + identifier + "  ",
		Password:        "password123",
		ConfirmPassword: "password123",
	}, session.Tracking{UserAgent: "test", IPAddress: "127.0.0.1"})
	require.NoError(t, err)
	return s
}

func TestSignUp_CreatesPendingEmployee(t *testing.T) {
	env := newTestEnv(t)

	s := env.signUp(t, "new_user")

	assert.Equal(t, "new_user@codenest.com", s.Email)
	assert.NotEmpty(t, s.ID)
	assert.NotEmpty(t, s.AccessToken)
	assert.NotEmpty(t, s.RefreshToken)

	p, err := env.profiles.FindByUserID(context.Background(), s.UserID)
	require.NoError(t, err)
	assert.Equal(t, profile.RoleEmployee, p.Role)
	assert.False(t, p.IsApproved)
	assert.Equal(t, "new_user", p.FullName)
}

func TestSignUp_DuplicateIdentifier(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t, "ali")

	_, err := env.svc.SignUp(context.Background(), auth.SignUpRequest{
		Identifier: "ALI@codenest.com",
		FullName:   "Ali Again",
		Password:   "password123",
	}, session.Tracking{})

	assert.ErrorIs(t, err, auth.ErrEmailAlreadyExists)
}

func TestSignUp_ProfileFailureIsPartial(t *testing.T) {
	env := newTestEnv(t)
	env.profiles.createErr = errors.New("profiles table locked")

	_, err := env.svc.SignUp(context.Background(), auth.SignUpRequest{
		Identifier: "orphan",
		FullName:   "Orphan",
		Password:   "password123",
	}, session.Tracking{})

	assert.ErrorIs(t, err, auth.ErrSignupPartialFailure)
	// The identity was written and is now orphaned.
	_, err = env.users.GetByEmail(context.Background(), "orphan@codenest.com")
	assert.NoError(t, err)
}

func TestSignIn(t *testing.T) {
	env := newTestEnv(t)
	env.signUp(t, "ali")
	ctx := context.Background()

	_, err := env.svc.SignIn(ctx, auth.SignInRequest{Identifier: "ali", Password: "wrong-password"}, session.Tracking{})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	_, err = env.svc.SignIn(ctx, auth.SignInRequest{Identifier: "nobody", Password: "password123"}, session.Tracking{})
	assert.ErrorIs(t, err, auth.ErrInvalidCredentials)

	s, err := env.svc.SignIn(ctx, auth.SignInRequest{Identifier: " ALI ", Password: "password123"}, session.Tracking{})
	require.NoError(t, err)
	assert.Equal(t, "ali@codenest.com", s.Email)
}

func TestSignIn_PublishesEvent(t *testing.T) {
	env := newTestEnv(t)
	first := env.signUp(t, "ali")

	events, done := env.hub.Subscribe(first.UserID)
	defer done()

	second, err := env.svc.SignIn(context.Background(), auth.SignInRequest{Identifier: "ali", Password: "password123"}, session.Tracking{})
	require.NoError(t, err)

	select {
	case ev := <-events:
		assert.Equal(t, session.EventSignedIn, ev.Kind)
		assert.Equal(t, second.ID, ev.SessionID)
	case <-time.After(time.Second):
		t.Fatal("no sign-in event")
	}
	assert.NotEqual(t, first.ID, second.ID)
}

func TestRefresh(t *testing.T) {
	env := newTestEnv(t)
	s := env.signUp(t, "ali")
	ctx := context.Background()

	refreshed, err := env.svc.Refresh(ctx, auth.RefreshTokenRequest{RefreshToken: s.RefreshToken})
	require.NoError(t, err)
	assert.Equal(t, s.ID, refreshed.ID)
	assert.Equal(t, s.RefreshToken, refreshed.RefreshToken)
	assert.NotEmpty(t, refreshed.AccessToken)

	_, err = env.svc.Refresh(ctx, auth.RefreshTokenRequest{RefreshToken: s.AccessToken})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	_, err = env.svc.Refresh(ctx, auth.RefreshTokenRequest{RefreshToken: "garbage"})
	assert.ErrorIs(t, err, auth.ErrInvalidToken)

	require.NoError(t, env.svc.SignOut(ctx, s.RefreshToken))
	_, err = env.svc.Refresh(ctx, auth.RefreshTokenRequest{RefreshToken: s.RefreshToken})
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)
}

func TestSignOut_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	s := env.signUp(t, "ali")
	ctx := context.Background()

	events, done := env.hub.Subscribe(s.UserID)
	defer done()

	require.NoError(t, env.svc.SignOut(ctx, s.RefreshToken))
	require.NoError(t, env.svc.SignOut(ctx, s.RefreshToken))
	require.NoError(t, env.svc.SignOut(ctx, "never-issued"))

	ev := <-events
	assert.Equal(t, session.EventSignedOut, ev.Kind)
	assert.Equal(t, s.ID, ev.SessionID)

	rec, err := env.sessions.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.NotNil(t, rec.RevokedAt)
}

func TestStreamToken(t *testing.T) {
	env := newTestEnv(t)
	s := env.signUp(t, "ali")
	ctx := context.Background()

	token, expiresIn, err := env.svc.StreamToken(ctx, s.UserID, s.ID)
	require.NoError(t, err)
	assert.Positive(t, expiresIn)

	provider, err := env.svc.ClientSession(ctx, token)
	require.NoError(t, err)
	current, err := provider.CurrentSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, s.UserID, current.UserID)

	_, _, err = env.svc.StreamToken(ctx, "someone-else", s.ID)
	assert.ErrorIs(t, err, auth.ErrRefreshTokenRevoked)

	_, err = env.svc.ClientSession(ctx, s.AccessToken)
	assert.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestClaimsSession(t *testing.T) {
	env := newTestEnv(t)
	s := env.signUp(t, "ali")
	ctx := context.Background()

	provider := env.svc.ClaimsSession(map[string]interface{}{
		"user_id": s.UserID,
		"email":   s.Email,
		"sid":     s.ID,
	})

	current, err := provider.CurrentSession(ctx)
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, s.Email, current.Email)
	assert.ErrorIs(t, provider.SignOut(ctx), session.ErrSignOutForbidden)
	provider.Subscribe(func(*session.Session) {})()

	require.NoError(t, env.svc.SignOut(ctx, s.RefreshToken))
	current, err = provider.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)

	empty := env.svc.ClaimsSession(map[string]interface{}{})
	current, err = empty.CurrentSession(ctx)
	require.NoError(t, err)
	assert.Nil(t, current)
}

func TestClientSession_DrivesGate(t *testing.T) {
	env := newTestEnv(t)
	s := env.signUp(t, "ali")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token, _, err := env.svc.StreamToken(ctx, s.UserID, s.ID)
	require.NoError(t, err)
	provider, err := env.svc.ClientSession(ctx, token)
	require.NoError(t, err)

	gate := accesssvc.NewGate(provider, accesssvc.NewResolver(env.profiles, time.Second))
	defer gate.Close()

	require.Equal(t, access.StatePending, gate.Start(ctx).State)

	// An administrator approves ali.
	_, err = env.profiles.UpdateApproval(ctx, s.UserID, true)
	require.NoError(t, err)
	env.hub.Publish(session.Event{Kind: session.EventProfileUpdated, UserID: s.UserID})

	assert.Eventually(t, func() bool {
		return gate.Decision().State == access.StateEmployee
	}, 2*time.Second, 10*time.Millisecond)

	// A sign-in elsewhere does not disturb this session.
	_, err = env.svc.SignIn(ctx, auth.SignInRequest{Identifier: "ali", Password: "password123"}, session.Tracking{})
	require.NoError(t, err)
	assert.Equal(t, access.StateEmployee, gate.Decision().State)

	require.NoError(t, env.svc.SignOut(ctx, s.RefreshToken))
	assert.Eventually(t, func() bool {
		return gate.Decision().State == access.StateUnauthenticated
	}, 2*time.Second, 10*time.Millisecond)
}

func TestClientSession_GateSignOut(t *testing.T) {
	env := newTestEnv(t)
	s := env.signUp(t, "ali")
	ctx := context.Background()

	token, _, err := env.svc.StreamToken(ctx, s.UserID, s.ID)
	require.NoError(t, err)
	provider, err := env.svc.ClientSession(ctx, token)
	require.NoError(t, err)

	gate := accesssvc.NewGate(provider, accesssvc.NewResolver(env.profiles, time.Second))
	defer gate.Close()
	require.Equal(t, access.StatePending, gate.Start(ctx).State)

	d, err := gate.SignOut(ctx)
	require.NoError(t, err)
	assert.Equal(t, access.StateUnauthenticated, d.State)

	rec, err := env.sessions.GetByID(ctx, s.ID)
	require.NoError(t, err)
	assert.NotNil(t, rec.RevokedAt)
}

// stallingResolver blocks its second lookup until release is closed.
type stallingResolver struct {
	accesssvc.ProfileResolver
	calls   atomic.Int32
	entered chan struct{}
	release chan struct{}
}

func (r *stallingResolver) Resolve(ctx context.Context, userID string) profile.Lookup {
	if r.calls.Add(1) == 2 {
		close(r.entered)
		<-r.release
	}
	return r.ProfileResolver.Resolve(ctx, userID)
}

func TestClientSession_EvictedSubscriberSignsGateOut(t *testing.T) {
	env := newTestEnv(t)
	s := env.signUp(t, "ali")
	ctx := context.Background()

	token, _, err := env.svc.StreamToken(ctx, s.UserID, s.ID)
	require.NoError(t, err)
	provider, err := env.svc.ClientSession(ctx, token)
	require.NoError(t, err)

	resolver := &stallingResolver{
		ProfileResolver: accesssvc.NewResolver(env.profiles, time.Second),
		entered:         make(chan struct{}),
		release:         make(chan struct{}),
	}
	gate := accesssvc.NewGate(provider, resolver)
	defer gate.Close()
	require.Equal(t, access.StatePending, gate.Start(ctx).State)

	// The subscription goroutine stalls inside a resolution while events pile up.
	env.hub.Publish(session.Event{Kind: session.EventProfileUpdated, UserID: s.UserID})
	<-resolver.entered
	for i := 0; i < 64; i++ {
		env.hub.Publish(session.Event{Kind: session.EventSignedIn, UserID: s.UserID, SessionID: "elsewhere"})
	}
	close(resolver.release)

	assert.Eventually(t, func() bool {
		return gate.Decision().State == access.StateUnauthenticated
	}, 2*time.Second, 10*time.Millisecond)
}
