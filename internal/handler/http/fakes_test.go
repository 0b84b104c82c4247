package http

import (
	"context"
	"net/http"
	"sync"

	"github.com/codenest/erp-backend/internal/domain/access"
	"github.com/codenest/erp-backend/internal/domain/auth"
	"github.com/codenest/erp-backend/internal/domain/dashboard"
	"github.com/codenest/erp-backend/internal/domain/profile"
	"github.com/codenest/erp-backend/internal/domain/project"
	"github.com/codenest/erp-backend/internal/domain/session"
	"github.com/codenest/erp-backend/internal/handler/http/middleware"
	"github.com/codenest/erp-backend/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
)

const (
	testSecret = "handler-test-secret"

	adminID    = "01920000-0000-7000-8000-00000000000a"
	employeeID = "01920000-0000-7000-8000-00000000000b"
	pendingID  = "01920000-0000-7000-8000-00000000000c"
	orphanID   = "01920000-0000-7000-8000-00000000000d"
)

type staticProvider struct {
	s *session.Session
}

func (p *staticProvider) CurrentSession(ctx context.Context) (*session.Session, error) {
	return p.s, nil
}

func (p *staticProvider) Subscribe(handler session.Handler) func() {
	return func() {}
}

func (p *staticProvider) SignOut(ctx context.Context) error {
	return session.ErrSignOutForbidden
}

type fakeAuthService struct {
	tokens    jwt.Service
	signInErr error
	signedOut []string
	// ended lists session ids whose rows are gone.
	ended map[string]bool
}

func (f *fakeAuthService) issue(userID string) session.Session {
	sid := "sid-" + userID
	accessToken, accessExp, _ := f.tokens.GenerateAccessToken(userID, userID+"@codenest.com", sid)
	refresh, refreshExp, _ := f.tokens.GenerateRefreshToken(userID)
	return session.Session{
		ID:                    sid,
		UserID:                userID,
		Email:                 userID + "@codenest.com",
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessExp,
		RefreshToken:          refresh,
		RefreshTokenExpiresAt: refreshExp,
	}
}

func (f *fakeAuthService) SignUp(ctx context.Context, req auth.SignUpRequest, tracking session.Tracking) (session.Session, error) {
	if auth.NormalizeIdentifier(req.Identifier) == "ali@codenest.com" {
		return session.Session{}, auth.ErrEmailAlreadyExists
	}
	return f.issue(pendingID), nil
}

func (f *fakeAuthService) SignIn(ctx context.Context, req auth.SignInRequest, tracking session.Tracking) (session.Session, error) {
	if f.signInErr != nil {
		return session.Session{}, f.signInErr
	}
	return f.issue(employeeID), nil
}

func (f *fakeAuthService) Refresh(ctx context.Context, req auth.RefreshTokenRequest) (session.Session, error) {
	s := f.issue(employeeID)
	s.RefreshToken = req.RefreshToken
	return s, nil
}

func (f *fakeAuthService) SignOut(ctx context.Context, refreshToken string) error {
	f.signedOut = append(f.signedOut, refreshToken)
	return nil
}

func (f *fakeAuthService) StreamToken(ctx context.Context, userID, sessionID string) (string, int, error) {
	if f.ended[sessionID] {
		return "", 0, auth.ErrRefreshTokenRevoked
	}
	return f.tokens.GenerateStreamToken(userID, sessionID)
}

func (f *fakeAuthService) ClientSession(ctx context.Context, streamToken string) (session.Provider, error) {
	userID, sessionID, err := f.tokens.ValidateStreamToken(streamToken)
	if err != nil {
		return nil, auth.ErrInvalidToken
	}
	return f.provider(userID, sessionID), nil
}

func (f *fakeAuthService) ClaimsSession(claims map[string]interface{}) session.Provider {
	userID, _ := claims["user_id"].(string)
	sessionID, _ := claims["sid"].(string)
	return f.provider(userID, sessionID)
}

func (f *fakeAuthService) provider(userID, sessionID string) session.Provider {
	if f.ended[sessionID] {
		return &staticProvider{}
	}
	return &staticProvider{s: &session.Session{ID: sessionID, UserID: userID, Email: userID + "@codenest.com"}}
}

type fakeResolver struct {
	mu      sync.Mutex
	lookups map[string]profile.Lookup
}

func (f *fakeResolver) put(p profile.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups[p.UserID] = profile.Found(p)
}

func (f *fakeResolver) Resolve(ctx context.Context, userID string) profile.Lookup {
	f.mu.Lock()
	defer f.mu.Unlock()
	if l, ok := f.lookups[userID]; ok {
		return l
	}
	return profile.NotFound()
}

type fakeDashboardService struct{}

func (fakeDashboardService) GetOverview(ctx context.Context) (*dashboard.OverviewResponse, error) {
	return &dashboard.OverviewResponse{Staff: dashboard.StaffSummaryResponse{Total: 3, Pending: 1}}, nil
}

type fakeProfileService struct {
	approvedBy string
}

func (f *fakeProfileService) GetOwn(ctx context.Context, userID string) (profile.ProfileResponse, error) {
	return profile.ProfileResponse{UserID: userID, FullName: "Ali", Role: "employee", IsPending: true}, nil
}

func (f *fakeProfileService) UpdateOwn(ctx context.Context, userID string, req profile.UpdateOwnProfileRequest) (profile.ProfileResponse, error) {
	if err := req.Validate(); err != nil {
		return profile.ProfileResponse{}, err
	}
	return profile.ProfileResponse{UserID: userID, FullName: req.FullName}, nil
}

func (f *fakeProfileService) List(ctx context.Context, filter profile.ListProfilesFilter) ([]profile.ProfileResponse, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	return []profile.ProfileResponse{{UserID: pendingID, IsPending: true}}, nil
}

func (f *fakeProfileService) Approve(ctx context.Context, actorID, userID string) (profile.ProfileResponse, error) {
	if actorID == userID {
		return profile.ProfileResponse{}, profile.ErrCannotSelfApprove
	}
	f.approvedBy = actorID
	return profile.ProfileResponse{UserID: userID, IsApproved: true}, nil
}

func (f *fakeProfileService) RevokeApproval(ctx context.Context, actorID, userID string) (profile.ProfileResponse, error) {
	return profile.ProfileResponse{UserID: userID, IsPending: true}, nil
}

func (f *fakeProfileService) UpdateRole(ctx context.Context, actorID string, req profile.UpdateRoleRequest) (profile.ProfileResponse, error) {
	return profile.ProfileResponse{UserID: req.UserID, Role: req.Role}, nil
}

type fakeProjectService struct {
	project.ProjectService
}

func (fakeProjectService) ListAssigned(ctx context.Context, userID string) ([]project.ProjectResponse, error) {
	return []project.ProjectResponse{{ID: "p1", Name: "Website", AssigneeIDs: []string{userID}}}, nil
}

func (fakeProjectService) Unassign(ctx context.Context, projectID, userID string) error {
	return project.ErrAssignmentNotFound
}

type testEnv struct {
	router   *chi.Mux
	tokens   jwt.Service
	auth     *fakeAuthService
	profiles *fakeProfileService
	resolver *fakeResolver
	access   *accessHandlerImpl
}

func newTestEnv(policy access.FallbackPolicy) *testEnv {
	tokens := jwt.NewJWTService(testSecret, "15m", "24h", 100)
	authSvc := &fakeAuthService{tokens: tokens, ended: map[string]bool{}}
	resolver := &fakeResolver{lookups: map[string]profile.Lookup{
		adminID:    profile.Found(profile.Profile{UserID: adminID, FullName: "Rabnawaz", Role: profile.RoleAdmin}),
		employeeID: profile.Found(profile.Profile{UserID: employeeID, FullName: "Sara", Role: profile.RoleEmployee, IsApproved: true}),
		pendingID:  profile.Found(profile.Profile{UserID: pendingID, FullName: "Ali", Role: profile.RoleEmployee}),
	}}
	profiles := &fakeProfileService{}
	accessHandler := NewAccessHandler(authSvc, resolver, policy)

	handlers := Handlers{
		Auth:      NewAuthHandler(tokens, authSvc),
		Access:    accessHandler,
		Profile:   NewProfileHandler(profiles),
		Project:   NewProjectHandler(fakeProjectService{}),
		Dashboard: NewDashboardHandler(fakeDashboardService{}),
	}
	decide := middleware.Decide(authSvc, resolver, policy)

	return &testEnv{
		router:   NewRouter(testAppConfig(), tokens, decide, handlers),
		tokens:   tokens,
		auth:     authSvc,
		profiles: profiles,
		resolver: resolver,
		access:   accessHandler.(*accessHandlerImpl),
	}
}

func (e *testEnv) bearer(userID string) string {
	token, _, _ := e.tokens.GenerateAccessToken(userID, userID+"@codenest.com", "sid-"+userID)
	return token
}

func withBearer(req *http.Request, token string) *http.Request {
	req.Header.Set("Authorization", "Bearer "+token)
	return req
}
