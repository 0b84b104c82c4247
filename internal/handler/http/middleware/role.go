package middleware

import (
	"net/http"

	"github.com/codenest/erp-backend/internal/domain/access"
	"github.com/codenest/erp-backend/internal/handler/http/response"
)

// RequireAdmin requires an admin decision
func RequireAdmin(next http.Handler) http.Handler {
	return RequireState(access.StateAdmin, access.ErrAdminAccessRequired)(next)
}

// RequireEmployee requires an approved employee decision
func RequireEmployee(next http.Handler) http.Handler {
	return RequireState(access.StateEmployee, access.ErrEmployeeAccessRequired)(next)
}

// RequireState rejects requests whose decision is not state. The denial
// carries the decision so the client can route to the right surface.
func RequireState(state access.State, denied error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d, err := access.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			if d.State != state {
				response.ForbiddenWithData(w, denied.Error(), access.NewDecisionResponse(d))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
