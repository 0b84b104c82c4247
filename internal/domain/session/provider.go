package session

import "context"

// Handler receives the session after a change; nil means no active session.
type Handler func(s *Session)

// Provider is the view of the session store one client has.
type Provider interface {
	// CurrentSession returns nil, nil when there is no active session.
	CurrentSession(ctx context.Context) (*Session, error)
	// Subscribe invokes handler on every sign-in, sign-out or token refresh
	// affecting this client. The returned func must be called on teardown.
	Subscribe(handler Handler) (unsubscribe func())
	SignOut(ctx context.Context) error
}
