package access

import (
	"github.com/codenest/erp-backend/internal/domain/profile"
)

type State string

const (
	StateInitializing    State = "initializing"
	StateUnauthenticated State = "unauthenticated"
	StateLoading         State = "loading"
	StatePending         State = "pending"
	StateAdmin           State = "admin"
	StateEmployee        State = "employee"
	// StateUnresolved is only produced by FallbackUnresolved.
	StateUnresolved State = "unresolved"
)

// IsAuthenticated reports whether the state implies an active session.
func (s State) IsAuthenticated() bool {
	switch s {
	case StatePending, StateAdmin, StateEmployee, StateUnresolved:
		return true
	default:
		return false
	}
}

// IsSettled reports whether resolution for the current session has finished.
func (s State) IsSettled() bool {
	return s != StateInitializing && s != StateLoading
}

type FallbackReason string

const (
	ReasonProfileNotFound   FallbackReason = "profile_not_found"
	ReasonProfileStoreError FallbackReason = "profile_store_error"
)

// Decision is the access outcome for one session at one point in time.
// It is derived and never persisted.
type Decision struct {
	State    State          `json:"state"`
	UserID   string         `json:"user_id,omitempty"`
	Email    string         `json:"email,omitempty"`
	FullName string         `json:"full_name,omitempty"`
	Role     profile.Role   `json:"role,omitempty"`
	Approved bool           `json:"is_approved"`
	Fallback bool           `json:"fallback,omitempty"`
	Reason   FallbackReason `json:"reason,omitempty"`
	// Seq orders decisions produced by one gate; later wins.
	Seq uint64 `json:"seq"`
}

// DecisionResponse represents an access decision in API responses
type DecisionResponse struct {
	Decision
	Surface Surface `json:"surface"`
}

func NewDecisionResponse(d Decision) DecisionResponse {
	return DecisionResponse{Decision: d, Surface: Route(d.State)}
}
