package access

type SurfaceName string

const (
	SurfaceLoading           SurfaceName = "loading"
	SurfaceLogin             SurfaceName = "login"
	SurfacePendingApproval   SurfaceName = "pending_approval"
	SurfaceAdminDashboard    SurfaceName = "admin_dashboard"
	SurfaceEmployeeDashboard SurfaceName = "employee_dashboard"
	SurfaceUnresolved        SurfaceName = "unresolved"
)

type Action string

const (
	ActionSignIn  Action = "sign_in"
	ActionSignUp  Action = "sign_up"
	ActionSignOut Action = "sign_out"
	ActionRetry   Action = "retry"
)

type Surface struct {
	Name    SurfaceName `json:"name"`
	Actions []Action    `json:"actions"`
}

// Allows reports whether the surface exposes the action.
func (s Surface) Allows(a Action) bool {
	for _, allowed := range s.Actions {
		if allowed == a {
			return true
		}
	}
	return false
}

// Route maps a gate state to the surface a client must show.
// Unknown states fall back to the login surface.
func Route(state State) Surface {
	switch state {
	case StateInitializing, StateLoading:
		return Surface{Name: SurfaceLoading, Actions: []Action{}}
	case StatePending:
		return Surface{Name: SurfacePendingApproval, Actions: []Action{ActionSignOut}}
	case StateAdmin:
		return Surface{Name: SurfaceAdminDashboard, Actions: []Action{ActionSignOut}}
	case StateEmployee:
		return Surface{Name: SurfaceEmployeeDashboard, Actions: []Action{ActionSignOut}}
	case StateUnresolved:
		return Surface{Name: SurfaceUnresolved, Actions: []Action{ActionRetry, ActionSignOut}}
	default:
		return Surface{Name: SurfaceLogin, Actions: []Action{ActionSignIn, ActionSignUp}}
	}
}
