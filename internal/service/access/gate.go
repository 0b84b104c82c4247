package access

import (
	"context"
	"log/slog"
	"sync"

	"github.com/codenest/erp-backend/internal/domain/access"
	"github.com/codenest/erp-backend/internal/domain/profile"
	"github.com/codenest/erp-backend/internal/domain/session"
)

// Listener receives every decision the gate commits, oldest first. It runs
// synchronously and must not call back into the gate.
type Listener func(d access.Decision)

type Option func(*Gate)

func WithFallbackPolicy(policy access.FallbackPolicy) Option {
	return func(g *Gate) {
		g.policy = policy
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(g *Gate) {
		g.logger = logger
	}
}

func WithListener(l Listener) Option {
	return func(g *Gate) {
		g.listeners = append(g.listeners, l)
	}
}

// Gate owns the access decision for one client. Every resolution attempt takes
// a sequence number and only the latest attempt may commit.
type Gate struct {
	provider session.Provider
	resolver ProfileResolver
	policy   access.FallbackPolicy
	logger   *slog.Logger

	mu          sync.Mutex
	ctx         context.Context
	seq         uint64
	current     *session.Session
	decision    access.Decision
	unsubscribe func()
	closed      bool

	notifyMu  sync.Mutex
	notified  uint64
	listeners []Listener
}

func NewGate(provider session.Provider, resolver ProfileResolver, opts ...Option) *Gate {
	g := &Gate{
		provider: provider,
		resolver: resolver,
		policy:   access.FallbackEmployee,
		logger:   slog.Default(),
		decision: access.Decision{State: access.StateInitializing},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Start subscribes to session changes and runs the initial session check.
// ctx bounds the gate's lifetime; subscription-driven resolutions use it.
func (g *Gate) Start(ctx context.Context) access.Decision {
	g.mu.Lock()
	g.ctx = ctx
	g.mu.Unlock()

	// Subscribe before the first check so no change between the two is lost.
	unsubscribe := g.provider.Subscribe(g.onSessionChange)

	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		unsubscribe()
		return g.Decision()
	}
	g.unsubscribe = unsubscribe
	g.mu.Unlock()

	return g.check(ctx)
}

// Decision returns the latest committed decision.
func (g *Gate) Decision() access.Decision {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.decision
}

// Session returns the session behind the latest decision, or nil.
func (g *Gate) Session() *session.Session {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.current
}

// Refresh re-reads the session and profile. Unlike a session change it does
// not pass through loading, so listeners only see the settled outcome.
func (g *Gate) Refresh(ctx context.Context) access.Decision {
	seq, ok := g.next()
	if !ok {
		return g.Decision()
	}
	return g.settle(ctx, seq, g.currentSession(ctx))
}

// HandleSessionChange re-resolves for s. A nil session signs the gate out.
func (g *Gate) HandleSessionChange(ctx context.Context, s *session.Session) access.Decision {
	seq, ok := g.next()
	if !ok {
		return g.Decision()
	}
	return g.resolve(ctx, seq, s)
}

// Retry re-runs the session check and profile lookup. It is only offered
// while the gate is unresolved.
func (g *Gate) Retry(ctx context.Context) (access.Decision, error) {
	current := g.Decision()
	if !access.Route(current.State).Allows(access.ActionRetry) {
		return current, access.ErrActionUnavailable
	}
	return g.check(ctx), nil
}

// SignOut ends the session through the provider. The gate becomes
// unauthenticated even when the provider fails; the provider error is returned.
func (g *Gate) SignOut(ctx context.Context) (access.Decision, error) {
	seq, ok := g.next()
	if !ok {
		return g.Decision(), nil
	}

	err := g.provider.SignOut(ctx)
	if err != nil {
		g.logger.Warn("session sign-out failed", "error", err)
	}

	return g.commit(seq, nil, access.Decide(nil, profile.Lookup{}, g.policy)), err
}

// Close releases the session subscription. In-flight resolutions are discarded.
func (g *Gate) Close() {
	g.mu.Lock()
	unsubscribe := g.unsubscribe
	g.unsubscribe = nil
	g.closed = true
	g.seq++
	g.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

func (g *Gate) onSessionChange(s *session.Session) {
	g.mu.Lock()
	ctx := g.ctx
	g.mu.Unlock()
	if ctx == nil {
		ctx = context.Background()
	}
	g.HandleSessionChange(ctx, s)
}

func (g *Gate) check(ctx context.Context) access.Decision {
	seq, ok := g.next()
	if !ok {
		return g.Decision()
	}
	return g.resolve(ctx, seq, g.currentSession(ctx))
}

// currentSession asks the provider for the session. A failed check counts
// as no session.
func (g *Gate) currentSession(ctx context.Context) *session.Session {
	s, err := g.provider.CurrentSession(ctx)
	if err != nil {
		g.logger.Warn("session check failed", "error", err)
		return nil
	}
	return s
}

func (g *Gate) next() (uint64, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return 0, false
	}
	g.seq++
	return g.seq, true
}

func (g *Gate) resolve(ctx context.Context, seq uint64, s *session.Session) access.Decision {
	if s != nil {
		g.markLoading(seq, s)
	}
	return g.settle(ctx, seq, s)
}

func (g *Gate) settle(ctx context.Context, seq uint64, s *session.Session) access.Decision {
	if s == nil {
		return g.commit(seq, nil, access.Decide(nil, profile.Lookup{}, g.policy))
	}

	lookup := g.resolver.Resolve(ctx, s.UserID)
	switch lookup.Status {
	case profile.LookupNotFound:
		g.logger.Warn("profile not found, applying fallback policy",
			"user_id", s.UserID, "policy", g.policy)
	case profile.LookupStoreError:
		g.logger.Error("profile lookup failed, applying fallback policy",
			"user_id", s.UserID, "policy", g.policy, "error", lookup.Err)
	}

	return g.commit(seq, s, access.Decide(s, lookup, g.policy))
}

func (g *Gate) markLoading(seq uint64, s *session.Session) {
	g.mu.Lock()
	if seq != g.seq {
		g.mu.Unlock()
		return
	}
	g.current = s
	g.decision = access.Decision{
		State:  access.StateLoading,
		UserID: s.UserID,
		Email:  s.Email,
		Seq:    seq,
	}
	d := g.decision
	g.mu.Unlock()

	g.notify(d)
}

func (g *Gate) commit(seq uint64, s *session.Session, d access.Decision) access.Decision {
	g.mu.Lock()
	if seq != g.seq {
		current := g.decision
		g.mu.Unlock()
		staleResultsTotal.Inc()
		g.logger.Debug("discarding stale access decision",
			"seq", seq, "latest", current.Seq, "state", d.State)
		return current
	}
	d.Seq = seq
	previous := g.decision.State
	g.current = s
	g.decision = d
	g.mu.Unlock()

	decisionsTotal.WithLabelValues(string(d.State)).Inc()
	g.logger.Debug("access decision committed",
		"seq", seq, "from", previous, "to", d.State, "user_id", d.UserID)

	g.notify(d)
	return d
}

func (g *Gate) notify(d access.Decision) {
	g.notifyMu.Lock()
	defer g.notifyMu.Unlock()

	if d.Seq < g.notified {
		return
	}
	g.notified = d.Seq
	for _, l := range g.listeners {
		l(d)
	}
}
