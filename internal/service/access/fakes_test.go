package access

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/codenest/erp-backend/internal/domain/profile"
	"github.com/codenest/erp-backend/internal/domain/session"
)

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

type fakeProvider struct {
	mu         sync.Mutex
	current    *session.Session
	err        error
	signOutErr error
	signOuts   int
	nextID     int
	handlers   map[int]session.Handler
}

func newFakeProvider(current *session.Session) *fakeProvider {
	return &fakeProvider{current: current, handlers: make(map[int]session.Handler)}
}

func (p *fakeProvider) CurrentSession(ctx context.Context) (*session.Session, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return nil, p.err
	}
	return p.current, nil
}

func (p *fakeProvider) Subscribe(handler session.Handler) func() {
	p.mu.Lock()
	defer p.mu.Unlock()
	id := p.nextID
	p.nextID++
	p.handlers[id] = handler
	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		delete(p.handlers, id)
	}
}

func (p *fakeProvider) SignOut(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.signOuts++
	p.current = nil
	return p.signOutErr
}

// emit delivers s to every subscriber synchronously.
func (p *fakeProvider) emit(s *session.Session) {
	p.mu.Lock()
	p.current = s
	handlers := make([]session.Handler, 0, len(p.handlers))
	for _, h := range p.handlers {
		handlers = append(handlers, h)
	}
	p.mu.Unlock()

	for _, h := range handlers {
		h(s)
	}
}

func (p *fakeProvider) subscribers() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.handlers)
}

type fakeProfiles struct {
	profile.ProfileRepository

	mu       sync.Mutex
	profiles map[string]profile.Profile
	errs     map[string]error
	block    map[string]chan struct{}
	entered  chan string
	calls    int
}

func newFakeProfiles(profiles ...profile.Profile) *fakeProfiles {
	f := &fakeProfiles{
		profiles: make(map[string]profile.Profile),
		errs:     make(map[string]error),
		block:    make(map[string]chan struct{}),
		entered:  make(chan string, 8),
	}
	for _, p := range profiles {
		f.profiles[p.UserID] = p
	}
	return f
}

func (f *fakeProfiles) put(p profile.Profile) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.profiles[p.UserID] = p
}

// hold makes lookups for userID wait until the returned func is called.
func (f *fakeProfiles) hold(userID string) (release func()) {
	ch := make(chan struct{})
	f.mu.Lock()
	f.block[userID] = ch
	f.mu.Unlock()
	return func() { close(ch) }
}

func (f *fakeProfiles) FindByUserID(ctx context.Context, userID string) (profile.Profile, error) {
	f.mu.Lock()
	f.calls++
	ch := f.block[userID]
	f.mu.Unlock()

	if ch != nil {
		f.entered <- userID
		select {
		case <-ch:
		case <-ctx.Done():
			return profile.Profile{}, ctx.Err()
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.errs[userID]; err != nil {
		return profile.Profile{}, err
	}
	p, ok := f.profiles[userID]
	if !ok {
		return profile.Profile{}, profile.ErrProfileNotFound
	}
	return p, nil
}

var (
	rabnawaz = &session.Session{ID: "s-rab", UserID: "u-rabnawaz", Email: "rabnawaz@codenest.com"}
	ali      = &session.Session{ID: "s-ali", UserID: "u-ali", Email: "ali@codenest.com"}
	newUser  = &session.Session{ID: "s-new", UserID: "u-new", Email: "new_user@codenest.com"}
)

func rabnawazProfile() profile.Profile {
	return profile.Profile{UserID: rabnawaz.UserID, FullName: "Rab Nawaz", Role: profile.RoleAdmin, IsApproved: false}
}

func aliProfile() profile.Profile {
	return profile.Profile{UserID: ali.UserID, FullName: "Ali", Role: profile.RoleEmployee, IsApproved: false}
}
