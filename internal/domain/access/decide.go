package access

import (
	"fmt"

	"github.com/codenest/erp-backend/internal/domain/profile"
	"github.com/codenest/erp-backend/internal/domain/session"
)

// FallbackPolicy chooses the state for a session whose profile could not be resolved.
type FallbackPolicy string

const (
	// FallbackEmployee grants the least-privileged non-blocking role.
	FallbackEmployee FallbackPolicy = "employee"
	// FallbackUnresolved blocks on an explicit state with a retry action.
	FallbackUnresolved FallbackPolicy = "unresolved"
)

func ParseFallbackPolicy(s string) (FallbackPolicy, error) {
	switch FallbackPolicy(s) {
	case "", FallbackEmployee:
		return FallbackEmployee, nil
	case FallbackUnresolved:
		return FallbackUnresolved, nil
	default:
		return "", fmt.Errorf("invalid fallback policy %q: must be %q or %q", s, FallbackEmployee, FallbackUnresolved)
	}
}

func (p FallbackPolicy) state() State {
	if p == FallbackUnresolved {
		return StateUnresolved
	}
	return StateEmployee
}

// Decide computes the access decision for a session and its profile lookup.
// A nil session is unauthenticated whatever the lookup says.
func Decide(s *session.Session, lookup profile.Lookup, policy FallbackPolicy) Decision {
	if s == nil {
		return Decision{State: StateUnauthenticated}
	}

	d := Decision{
		UserID: s.UserID,
		Email:  s.Email,
	}

	switch lookup.Status {
	case profile.LookupFound:
		p := lookup.Profile
		d.FullName = p.FullName
		d.Role = p.Role
		d.Approved = p.IsApproved
		switch {
		case p.Role.IsAdmin():
			d.State = StateAdmin
		case p.IsApproved:
			d.State = StateEmployee
		default:
			d.State = StatePending
		}
	case profile.LookupNotFound:
		d.Fallback = true
		d.Reason = ReasonProfileNotFound
		d.State = policy.state()
	default:
		d.Fallback = true
		d.Reason = ReasonProfileStoreError
		d.State = policy.state()
	}

	return d
}
