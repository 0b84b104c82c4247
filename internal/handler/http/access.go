package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/codenest/erp-backend/internal/domain/access"
	"github.com/codenest/erp-backend/internal/domain/auth"
	"github.com/codenest/erp-backend/internal/handler/http/response"
	accesssvc "github.com/codenest/erp-backend/internal/service/access"
	"github.com/go-chi/jwtauth/v5"
)

const streamKeepalive = 30 * time.Second

// AccessHandler exposes the access gate to clients
type AccessHandler interface {
	GetDecision(w http.ResponseWriter, r *http.Request)
	Retry(w http.ResponseWriter, r *http.Request)

	// SSE
	GetStreamToken(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type accessHandlerImpl struct {
	authService auth.AuthService
	resolver    accesssvc.ProfileResolver
	policy      access.FallbackPolicy
	streams     *streamGates
	keepalive   time.Duration
}

func NewAccessHandler(authService auth.AuthService, resolver accesssvc.ProfileResolver, policy access.FallbackPolicy) AccessHandler {
	return &accessHandlerImpl{
		authService: authService,
		resolver:    resolver,
		policy:      policy,
		streams:     newStreamGates(),
		keepalive:   streamKeepalive,
	}
}

// streamGates indexes the gates of open access streams by session id.
type streamGates struct {
	mu    sync.Mutex
	gates map[string]map[*accesssvc.Gate]struct{}
}

func newStreamGates() *streamGates {
	return &streamGates{gates: make(map[string]map[*accesssvc.Gate]struct{})}
}

func (s *streamGates) add(sessionID string, g *accesssvc.Gate) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.gates[sessionID] == nil {
		s.gates[sessionID] = make(map[*accesssvc.Gate]struct{})
	}
	s.gates[sessionID][g] = struct{}{}

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.gates[sessionID], g)
		if len(s.gates[sessionID]) == 0 {
			delete(s.gates, sessionID)
		}
	}
}

func (s *streamGates) list(sessionID string) []*accesssvc.Gate {
	s.mu.Lock()
	defer s.mu.Unlock()

	gates := make([]*accesssvc.Gate, 0, len(s.gates[sessionID]))
	for g := range s.gates[sessionID] {
		gates = append(gates, g)
	}
	return gates
}

// getUserIDFromContext extracts user_id from JWT context
func getUserIDFromContext(r *http.Request) string {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if userID, ok := claims["user_id"].(string); ok {
		return userID
	}
	return ""
}

// getSessionIDFromContext extracts the session id from JWT context
func getSessionIDFromContext(r *http.Request) string {
	_, claims, _ := jwtauth.FromContext(r.Context())
	if sessionID, ok := claims["sid"].(string); ok {
		return sessionID
	}
	return ""
}

// GetDecision returns the decision the gate middleware settled for this request
func (h *accessHandlerImpl) GetDecision(w http.ResponseWriter, r *http.Request) {
	d, err := access.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, access.NewDecisionResponse(d))
}

// Retry re-runs resolution for the caller's session. Open streams of the
// session that are unresolved retry through their own gate, so they push the
// new decision too.
func (h *accessHandlerImpl) Retry(w http.ResponseWriter, r *http.Request) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, auth.ErrInvalidToken)
		return
	}

	retried := false
	var d access.Decision
	for _, g := range h.streams.list(getSessionIDFromContext(r)) {
		gd, err := g.Retry(r.Context())
		if errors.Is(err, access.ErrActionUnavailable) {
			continue
		}
		d, retried = gd, true
	}

	if !retried {
		gate := accesssvc.NewGate(h.authService.ClaimsSession(claims), h.resolver, accesssvc.WithFallbackPolicy(h.policy))
		defer gate.Close()
		d = gate.Start(r.Context())
	}

	if !d.State.IsAuthenticated() {
		response.Unauthorized(w, "Session ended")
		return
	}

	response.Success(w, access.NewDecisionResponse(d))
}

// GetStreamToken generates a short-lived token for the access stream
func (h *accessHandlerImpl) GetStreamToken(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	sessionID := getSessionIDFromContext(r)
	if userID == "" || sessionID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	token, expiresIn, err := h.authService.StreamToken(r.Context(), userID, sessionID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, auth.StreamTokenResponse{
		Token:     token,
		ExpiresIn: expiresIn,
	})
}

// Stream pushes every access decision for the session over SSE
func (h *accessHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	// Get token from query parameter (SSE doesn't support custom headers)
	tokenStr := r.URL.Query().Get("token")
	if tokenStr == "" {
		http.Error(w, "Missing token", http.StatusUnauthorized)
		return
	}

	provider, err := h.authService.ClientSession(r.Context(), tokenStr)
	if err != nil {
		http.Error(w, "Invalid token", http.StatusUnauthorized)
		return
	}

	rc := http.NewResponseController(w)

	// Set SSE headers
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)

	updates := make(chan access.Decision, 1)
	gate := accesssvc.NewGate(provider, h.resolver,
		accesssvc.WithFallbackPolicy(h.policy),
		accesssvc.WithListener(func(d access.Decision) { offerLatest(updates, d) }),
	)
	defer gate.Close()
	gate.Start(r.Context())
	if s := gate.Session(); s != nil {
		defer h.streams.add(s.ID, gate)()
	}

	// Stream events
	keepalive := time.NewTicker(h.keepalive)
	defer keepalive.Stop()

	var last access.Decision
	for {
		select {
		case d := <-updates:
			if sameOutcome(last, d) {
				continue
			}
			last = d

			data, err := json.Marshal(access.NewDecisionResponse(d))
			if err != nil {
				slog.Error("Stream encode error", "error", err)
				continue
			}
			fmt.Fprintf(w, "event: decision\ndata: %s\n\n", data)
			if err := rc.Flush(); err != nil {
				slog.Error("Stream flush error", "error", err)
				return
			}
			if d.State == access.StateUnauthenticated {
				return
			}

		case <-keepalive.C:
			// Send keepalive ping
			fmt.Fprintf(w, "event: ping\ndata: {\"timestamp\":%d}\n\n", time.Now().Unix())
			if err := rc.Flush(); err != nil {
				return
			}
			// Changes made outside this process publish no events here.
			gate.Refresh(r.Context())

		case <-r.Context().Done():
			return
		}
	}
}

// sameOutcome reports whether b repeats what a already told the client.
func sameOutcome(a, b access.Decision) bool {
	a.Seq, b.Seq = 0, 0
	return a == b
}

// offerLatest keeps only the newest decision in ch. Listeners are called one
// at a time, so there is a single sender.
func offerLatest(ch chan access.Decision, d access.Decision) {
	for {
		select {
		case ch <- d:
			return
		default:
			select {
			case <-ch:
			default:
			}
		}
	}
}
