package project

import "context"

type ProjectRepository interface {
	CreateClient(ctx context.Context, newClient Client) (Client, error)
	ListClients(ctx context.Context) ([]Client, error)
	GetClientByID(ctx context.Context, id string) (Client, error)

	CreateProject(ctx context.Context, newProject Project) (Project, error)
	GetProjectByID(ctx context.Context, id string) (Project, error)
	ListProjects(ctx context.Context) ([]Project, error)
	// ListByAssignee returns projects the user is assigned to, newest first.
	ListByAssignee(ctx context.Context, userID string) ([]Project, error)

	Assign(ctx context.Context, projectID, userID string) (Assignment, error)
	Unassign(ctx context.Context, projectID, userID string) error
}
