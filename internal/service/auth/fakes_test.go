package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/codenest/erp-backend/internal/domain/profile"
	"github.com/codenest/erp-backend/internal/domain/session"
	"github.com/codenest/erp-backend/internal/domain/user"
	"github.com/google/uuid"
)

type memUsers struct {
	mu   sync.Mutex
	byID map[string]user.User
}

func newMemUsers() *memUsers {
	return &memUsers{byID: make(map[string]user.User)}
}

func (m *memUsers) GetByEmail(ctx context.Context, email string) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (m *memUsers) GetByID(ctx context.Context, id string) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (m *memUsers) Create(ctx context.Context, newUser user.User) (user.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.byID {
		if strings.EqualFold(u.Email, newUser.Email) {
			return user.User{}, user.ErrUserEmailExists
		}
	}
	newUser.ID = uuid.Must(uuid.NewV7()).String()
	newUser.CreatedAt = time.Now()
	newUser.UpdatedAt = newUser.CreatedAt
	m.byID[newUser.ID] = newUser
	return newUser, nil
}

func (m *memUsers) ListWithoutProfile(ctx context.Context, olderThan time.Time, limit int) ([]user.User, error) {
	return nil, nil
}

func (m *memUsers) DeleteWithoutProfile(ctx context.Context, id string) error {
	return nil
}

type memProfiles struct {
	profile.ProfileRepository

	mu        sync.Mutex
	byUser    map[string]profile.Profile
	createErr error
}

func newMemProfiles() *memProfiles {
	return &memProfiles{byUser: make(map[string]profile.Profile)}
}

func (m *memProfiles) FindByUserID(ctx context.Context, userID string) (profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byUser[userID]
	if !ok {
		return profile.Profile{}, profile.ErrProfileNotFound
	}
	return p, nil
}

func (m *memProfiles) Create(ctx context.Context, newProfile profile.Profile) (profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return profile.Profile{}, m.createErr
	}
	if _, ok := m.byUser[newProfile.UserID]; ok {
		return profile.Profile{}, profile.ErrProfileExists
	}
	m.byUser[newProfile.UserID] = newProfile
	return newProfile, nil
}

func (m *memProfiles) UpdateApproval(ctx context.Context, userID string, approved bool) (profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byUser[userID]
	if !ok {
		return profile.Profile{}, profile.ErrProfileNotFound
	}
	p.IsApproved = approved
	m.byUser[userID] = p
	return p, nil
}

type memSessions struct {
	mu      sync.Mutex
	byID    map[string]session.Record
	byToken map[string]string
}

func newMemSessions() *memSessions {
	return &memSessions{byID: make(map[string]session.Record), byToken: make(map[string]string)}
}

func (m *memSessions) Create(ctx context.Context, userID string, refreshToken string, expiresAt int64, tracking session.Tracking) (session.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec := session.Record{
		ID:        uuid.Must(uuid.NewV7()).String(),
		UserID:    userID,
		TokenHash: refreshToken,
		ExpiresAt: time.Unix(expiresAt, 0),
		UserAgent: tracking.UserAgent,
		IPAddress: tracking.IPAddress,
		CreatedAt: time.Now(),
	}
	m.byID[rec.ID] = rec
	m.byToken[refreshToken] = rec.ID
	return rec, nil
}

func (m *memSessions) GetByToken(ctx context.Context, refreshToken string) (session.Record, error) {
	m.mu.Lock()
	id, ok := m.byToken[refreshToken]
	m.mu.Unlock()
	if !ok {
		return session.Record{}, session.ErrSessionNotFound
	}
	return m.GetByID(ctx, id)
}

func (m *memSessions) GetByID(ctx context.Context, id string) (session.Record, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.byID[id]
	if !ok {
		return session.Record{}, session.ErrSessionNotFound
	}
	return rec, nil
}

func (m *memSessions) Revoke(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	rec, ok := m.byID[id]
	if !ok || rec.RevokedAt != nil {
		return nil
	}
	now := time.Now()
	rec.RevokedAt = &now
	m.byID[id] = rec
	return nil
}

func (m *memSessions) RevokeAllForUser(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	now := time.Now()
	for id, rec := range m.byID {
		if rec.UserID == userID && rec.RevokedAt == nil {
			rec.RevokedAt = &now
			m.byID[id] = rec
			n++
		}
	}
	return n, nil
}

func (m *memSessions) PurgeExpired(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}
