package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/codenest/erp-backend/internal/domain/access"
	"github.com/codenest/erp-backend/internal/domain/profile"
	"github.com/codenest/erp-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ProfileHandler interface {
	// Own profile
	GetOwn(w http.ResponseWriter, r *http.Request)
	UpdateOwn(w http.ResponseWriter, r *http.Request)

	// Staff management (admin)
	List(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Revoke(w http.ResponseWriter, r *http.Request)
	UpdateRole(w http.ResponseWriter, r *http.Request)
}

type profileHandlerImpl struct {
	profileService profile.ProfileService
}

func NewProfileHandler(profileService profile.ProfileService) ProfileHandler {
	return &profileHandlerImpl{profileService: profileService}
}

// getIntQueryParam gets an int query parameter with a default value
func getIntQueryParam(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}
	intVal, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return intVal
}

// GetOwn handles GET /me/profile
func (h *profileHandlerImpl) GetOwn(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.profileService.GetOwn(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// UpdateOwn handles PUT /me/profile
func (h *profileHandlerImpl) UpdateOwn(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	var req profile.UpdateOwnProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateOwn decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.profileService.UpdateOwn(r.Context(), userID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Profile updated", result)
}

// List handles GET /admin/profiles
func (h *profileHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := profile.ListProfilesFilter{
		Status: profile.StatusFilter(r.URL.Query().Get("status")),
		Limit:  getIntQueryParam(r, "limit", 50),
		Offset: getIntQueryParam(r, "offset", 0),
	}

	result, err := h.profileService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Approve handles POST /admin/profiles/{id}/approve
func (h *profileHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	actor, err := access.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.profileService.Approve(r.Context(), actor.UserID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Profile approved", "user_id", result.UserID, "actor_id", actor.UserID)
	response.SuccessWithMessage(w, "Profile approved", result)
}

// Revoke handles POST /admin/profiles/{id}/revoke
func (h *profileHandlerImpl) Revoke(w http.ResponseWriter, r *http.Request) {
	actor, err := access.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.profileService.RevokeApproval(r.Context(), actor.UserID, chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Profile approval revoked", "user_id", result.UserID, "actor_id", actor.UserID)
	response.SuccessWithMessage(w, "Profile approval revoked", result)
}

// UpdateRole handles PUT /admin/profiles/{id}/role
func (h *profileHandlerImpl) UpdateRole(w http.ResponseWriter, r *http.Request) {
	actor, err := access.FromContext(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	var req profile.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("UpdateRole decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.UserID = chi.URLParam(r, "id")

	result, err := h.profileService.UpdateRole(r.Context(), actor.UserID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	slog.Info("Profile role changed", "user_id", result.UserID, "role", result.Role, "actor_id", actor.UserID)
	response.SuccessWithMessage(w, "Role updated", result)
}
