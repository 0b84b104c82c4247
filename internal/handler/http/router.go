package http

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/codenest/erp-backend/internal/config"
	"github.com/codenest/erp-backend/internal/handler/http/middleware"
	"github.com/codenest/erp-backend/internal/pkg/jwt"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httplog/v3"
	"github.com/go-chi/jwtauth/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers groups every HTTP handler the router mounts
type Handlers struct {
	Auth      AuthHandler
	Access    AccessHandler
	Profile   ProfileHandler
	Project   ProjectHandler
	Dashboard DashboardHandler
}

// NewRouter builds the API. decide settles the access decision for a request
// and must be middleware.Decide or an equivalent.
func NewRouter(app config.AppConfig, JWTService jwt.Service, decide func(http.Handler) http.Handler, h Handlers) *chi.Mux {
	r := chi.NewRouter()
	logFormat := httplog.SchemaECS.Concise(app.Env != "production")
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		ReplaceAttr: logFormat.ReplaceAttr,
	})).With(
		slog.String("app", "codenest-erp"),
		slog.String("version", "v1.0.0"),
		slog.String("env", app.Env),
	)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.AllowedOrigins,
		AllowCredentials: true,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		MaxAge:           300,
	}))

	r.Use(httplog.RequestLogger(logger, &httplog.Options{
		Level:  logLevel(app.LogLevel),
		Schema: httplog.SchemaECS,
	}))

	r.Use(middleware.Metrics)
	r.Use(chiMiddleware.CleanPath)
	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.Heartbeat("/"))

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", h.Auth.SignUp)
			r.Post("/signin", h.Auth.SignIn)
			r.Post("/refresh", h.Auth.Refresh)
			r.Post("/signout", h.Auth.SignOut)
		})

		// Stream token travels in the query string
		r.Get("/access/stream", h.Access.Stream)

		// Requires authentication
		r.Group(func(r chi.Router) {
			r.Use(jwtauth.Verifier(JWTService.JWTAuth()))
			r.Use(middleware.AuthRequired(JWTService))

			r.Post("/access/stream-token", h.Access.GetStreamToken)
			r.Post("/access/retry", h.Access.Retry)

			// Requires a settled access decision
			r.Group(func(r chi.Router) {
				r.Use(decide)

				r.Get("/access", h.Access.GetDecision)

				r.Route("/me/profile", func(r chi.Router) {
					r.Get("/", h.Profile.GetOwn)
					r.Put("/", h.Profile.UpdateOwn)
				})

				// Admin only
				r.Route("/admin", func(r chi.Router) {
					r.Use(middleware.RequireAdmin)

					r.Get("/overview", h.Dashboard.GetOverview)

					r.Route("/profiles", func(r chi.Router) {
						r.Get("/", h.Profile.List)
						r.Post("/{id}/approve", h.Profile.Approve)
						r.Post("/{id}/revoke", h.Profile.Revoke)
						r.Put("/{id}/role", h.Profile.UpdateRole)
					})

					r.Route("/clients", func(r chi.Router) {
						r.Get("/", h.Project.ListClients)
						r.Post("/", h.Project.CreateClient)
					})

					r.Route("/projects", func(r chi.Router) {
						r.Get("/", h.Project.ListProjects)
						r.Post("/", h.Project.CreateProject)
						r.Post("/{id}/assignments", h.Project.Assign)
						r.Delete("/{id}/assignments/{userID}", h.Project.Unassign)
					})
				})

				// Approved employees only
				r.Route("/employee", func(r chi.Router) {
					r.Use(middleware.RequireEmployee)

					r.Get("/projects", h.Project.ListAssigned)
				})
			})
		})
	})
	return r
}

func logLevel(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}
