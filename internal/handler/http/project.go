package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/codenest/erp-backend/internal/domain/project"
	"github.com/codenest/erp-backend/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type ProjectHandler interface {
	// Clients
	ListClients(w http.ResponseWriter, r *http.Request)
	CreateClient(w http.ResponseWriter, r *http.Request)

	// Projects
	ListProjects(w http.ResponseWriter, r *http.Request)
	CreateProject(w http.ResponseWriter, r *http.Request)
	Assign(w http.ResponseWriter, r *http.Request)
	Unassign(w http.ResponseWriter, r *http.Request)

	// Employee
	ListAssigned(w http.ResponseWriter, r *http.Request)
}

type projectHandlerImpl struct {
	projectService project.ProjectService
}

func NewProjectHandler(projectService project.ProjectService) ProjectHandler {
	return &projectHandlerImpl{projectService: projectService}
}

// ListClients handles GET /admin/clients
func (h *projectHandlerImpl) ListClients(w http.ResponseWriter, r *http.Request) {
	result, err := h.projectService.ListClients(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateClient handles POST /admin/clients
func (h *projectHandlerImpl) CreateClient(w http.ResponseWriter, r *http.Request) {
	var req project.CreateClientRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateClient decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.projectService.CreateClient(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Client created", result)
}

// ListProjects handles GET /admin/projects
func (h *projectHandlerImpl) ListProjects(w http.ResponseWriter, r *http.Request) {
	result, err := h.projectService.ListProjects(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// CreateProject handles POST /admin/projects
func (h *projectHandlerImpl) CreateProject(w http.ResponseWriter, r *http.Request) {
	var req project.CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("CreateProject decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.projectService.CreateProject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Project created", result)
}

// Assign handles POST /admin/projects/{id}/assignments
func (h *projectHandlerImpl) Assign(w http.ResponseWriter, r *http.Request) {
	var req project.AssignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Assign decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ProjectID = chi.URLParam(r, "id")

	result, err := h.projectService.Assign(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Staff member assigned", result)
}

// Unassign handles DELETE /admin/projects/{id}/assignments/{userID}
func (h *projectHandlerImpl) Unassign(w http.ResponseWriter, r *http.Request) {
	err := h.projectService.Unassign(r.Context(), chi.URLParam(r, "id"), chi.URLParam(r, "userID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Staff member unassigned", nil)
}

// ListAssigned handles GET /employee/projects
func (h *projectHandlerImpl) ListAssigned(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r)
	if userID == "" {
		response.Unauthorized(w, "Unauthorized")
		return
	}

	result, err := h.projectService.ListAssigned(r.Context(), userID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
