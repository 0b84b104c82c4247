package project

import "context"

type ProjectService interface {
	CreateClient(ctx context.Context, req CreateClientRequest) (ClientResponse, error)
	ListClients(ctx context.Context) ([]ClientResponse, error)
	CreateProject(ctx context.Context, req CreateProjectRequest) (ProjectResponse, error)
	ListProjects(ctx context.Context) ([]ProjectResponse, error)
	Assign(ctx context.Context, req AssignRequest) (ProjectResponse, error)
	Unassign(ctx context.Context, projectID, userID string) error
	// ListAssigned backs the employee surface.
	ListAssigned(ctx context.Context, userID string) ([]ProjectResponse, error)
}
