package middleware

import (
	"net/http"

	"github.com/codenest/erp-backend/internal/domain/access"
	"github.com/codenest/erp-backend/internal/domain/auth"
	"github.com/codenest/erp-backend/internal/handler/http/response"
	accesssvc "github.com/codenest/erp-backend/internal/service/access"
	"github.com/go-chi/jwtauth/v5"
)

// Decide runs a gate for the request's access-token session and stores the
// settled decision in the request context. It must run after AuthRequired.
func Decide(authService auth.AuthService, resolver accesssvc.ProfileResolver, policy access.FallbackPolicy) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, claims, err := jwtauth.FromContext(r.Context())
			if err != nil {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			gate := accesssvc.NewGate(authService.ClaimsSession(claims), resolver, accesssvc.WithFallbackPolicy(policy))
			defer gate.Close()

			d := gate.Start(r.Context())
			if !d.State.IsAuthenticated() {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			next.ServeHTTP(w, r.WithContext(access.WithDecision(r.Context(), d)))
		})
	}
}
