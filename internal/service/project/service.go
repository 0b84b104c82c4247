package project

import (
	"context"
	"errors"
	"strings"

	"github.com/codenest/erp-backend/internal/domain/profile"
	"github.com/codenest/erp-backend/internal/domain/project"
)

type ProjectServiceImpl struct {
	projects project.ProjectRepository
	profiles profile.ProfileRepository
}

func NewProjectService(projectRepo project.ProjectRepository, profileRepo profile.ProfileRepository) project.ProjectService {
	return &ProjectServiceImpl{
		projects: projectRepo,
		profiles: profileRepo,
	}
}

// CreateClient implements project.ProjectService.
func (s *ProjectServiceImpl) CreateClient(ctx context.Context, req project.CreateClientRequest) (project.ClientResponse, error) {
	if err := req.Validate(); err != nil {
		return project.ClientResponse{}, err
	}

	newClient := project.Client{
		Name:         strings.TrimSpace(req.Name),
		ContactEmail: trimmed(req.ContactEmail),
		Country:      trimmed(req.Country),
	}

	created, err := s.projects.CreateClient(ctx, newClient)
	if err != nil {
		return project.ClientResponse{}, err
	}
	return project.NewClientResponse(created), nil
}

// ListClients implements project.ProjectService.
func (s *ProjectServiceImpl) ListClients(ctx context.Context) ([]project.ClientResponse, error) {
	clients, err := s.projects.ListClients(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]project.ClientResponse, 0, len(clients))
	for _, c := range clients {
		responses = append(responses, project.NewClientResponse(c))
	}
	return responses, nil
}

// CreateProject implements project.ProjectService.
func (s *ProjectServiceImpl) CreateProject(ctx context.Context, req project.CreateProjectRequest) (project.ProjectResponse, error) {
	if err := req.Validate(); err != nil {
		return project.ProjectResponse{}, err
	}

	if _, err := s.projects.GetClientByID(ctx, req.ClientID); err != nil {
		return project.ProjectResponse{}, err
	}

	assignees := dedupe(req.AssigneeIDs)
	for _, userID := range assignees {
		if err := s.checkAssignable(ctx, userID); err != nil {
			return project.ProjectResponse{}, err
		}
	}

	newProject := project.Project{
		ClientID:    req.ClientID,
		Name:        strings.TrimSpace(req.Name),
		Description: trimmed(req.Description),
		Status:      project.Status(req.Status),
		AssigneeIDs: assignees,
	}

	created, err := s.projects.CreateProject(ctx, newProject)
	if err != nil {
		return project.ProjectResponse{}, err
	}
	return project.NewProjectResponse(created), nil
}

// ListProjects implements project.ProjectService.
func (s *ProjectServiceImpl) ListProjects(ctx context.Context) ([]project.ProjectResponse, error) {
	projects, err := s.projects.ListProjects(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(projects), nil
}

// Assign implements project.ProjectService.
func (s *ProjectServiceImpl) Assign(ctx context.Context, req project.AssignRequest) (project.ProjectResponse, error) {
	if err := req.Validate(); err != nil {
		return project.ProjectResponse{}, err
	}

	p, err := s.projects.GetProjectByID(ctx, req.ProjectID)
	if err != nil {
		return project.ProjectResponse{}, err
	}
	if !p.IsOpen() {
		return project.ProjectResponse{}, project.ErrProjectClosed
	}

	if err := s.checkAssignable(ctx, req.UserID); err != nil {
		return project.ProjectResponse{}, err
	}

	if _, err := s.projects.Assign(ctx, req.ProjectID, req.UserID); err != nil {
		return project.ProjectResponse{}, err
	}

	updated, err := s.projects.GetProjectByID(ctx, req.ProjectID)
	if err != nil {
		return project.ProjectResponse{}, err
	}
	return project.NewProjectResponse(updated), nil
}

// Unassign implements project.ProjectService.
func (s *ProjectServiceImpl) Unassign(ctx context.Context, projectID, userID string) error {
	return s.projects.Unassign(ctx, projectID, userID)
}

// ListAssigned implements project.ProjectService.
func (s *ProjectServiceImpl) ListAssigned(ctx context.Context, userID string) ([]project.ProjectResponse, error) {
	projects, err := s.projects.ListByAssignee(ctx, userID)
	if err != nil {
		return nil, err
	}
	return toResponses(projects), nil
}

// checkAssignable requires an existing profile that passed approval. Admins always pass.
func (s *ProjectServiceImpl) checkAssignable(ctx context.Context, userID string) error {
	p, err := s.profiles.FindByUserID(ctx, userID)
	if errors.Is(err, profile.ErrProfileNotFound) {
		return project.ErrAssigneeNotFound
	}
	if err != nil {
		return err
	}
	if p.IsPending() {
		return project.ErrAssigneeNotApproved
	}
	return nil
}

func toResponses(projects []project.Project) []project.ProjectResponse {
	responses := make([]project.ProjectResponse, 0, len(projects))
	for _, p := range projects {
		responses = append(responses, project.NewProjectResponse(p))
	}
	return responses
}

func dedupe(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
