package project

import (
	"context"
	"testing"
	"time"

	"github.com/codenest/erp-backend/internal/domain/profile"
	"github.com/codenest/erp-backend/internal/domain/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	clientID   = "01920000-0000-7000-8000-000000000001"
	projectID  = "01920000-0000-7000-8000-000000000002"
	approvedID = "01920000-0000-7000-8000-000000000010"
	pendingID  = "01920000-0000-7000-8000-000000000011"
	adminID    = "01920000-0000-7000-8000-000000000012"
	missingID  = "01920000-0000-7000-8000-000000000013"
)

type memProjects struct {
	clients     map[string]project.Client
	projects    map[string]project.Project
	assignments map[string][]string
}

func newMemProjects() *memProjects {
	return &memProjects{
		clients:     map[string]project.Client{clientID: {ID: clientID, Name: "Acme"}},
		projects:    map[string]project.Project{},
		assignments: map[string][]string{},
	}
}

func (m *memProjects) CreateClient(ctx context.Context, c project.Client) (project.Client, error) {
	for _, existing := range m.clients {
		if existing.Name == c.Name {
			return project.Client{}, project.ErrClientNameExists
		}
	}
	c.ID = "client-" + c.Name
	c.CreatedAt = time.Now()
	m.clients[c.ID] = c
	return c, nil
}

func (m *memProjects) ListClients(ctx context.Context) ([]project.Client, error) {
	out := make([]project.Client, 0, len(m.clients))
	for _, c := range m.clients {
		out = append(out, c)
	}
	return out, nil
}

func (m *memProjects) GetClientByID(ctx context.Context, id string) (project.Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return project.Client{}, project.ErrClientNotFound
	}
	return c, nil
}

func (m *memProjects) CreateProject(ctx context.Context, p project.Project) (project.Project, error) {
	p.ID = projectID
	m.assignments[p.ID] = append([]string(nil), p.AssigneeIDs...)
	m.projects[p.ID] = p
	return m.GetProjectByID(ctx, p.ID)
}

func (m *memProjects) GetProjectByID(ctx context.Context, id string) (project.Project, error) {
	p, ok := m.projects[id]
	if !ok {
		return project.Project{}, project.ErrProjectNotFound
	}
	p.AssigneeIDs = m.assignments[id]
	return p, nil
}

func (m *memProjects) ListProjects(ctx context.Context) ([]project.Project, error) {
	out := make([]project.Project, 0, len(m.projects))
	for id := range m.projects {
		p, _ := m.GetProjectByID(ctx, id)
		out = append(out, p)
	}
	return out, nil
}

func (m *memProjects) ListByAssignee(ctx context.Context, userID string) ([]project.Project, error) {
	var out []project.Project
	for id, users := range m.assignments {
		for _, u := range users {
			if u == userID {
				p, _ := m.GetProjectByID(ctx, id)
				out = append(out, p)
			}
		}
	}
	return out, nil
}

func (m *memProjects) Assign(ctx context.Context, projectID, userID string) (project.Assignment, error) {
	for _, u := range m.assignments[projectID] {
		if u == userID {
			return project.Assignment{}, project.ErrAlreadyAssigned
		}
	}
	m.assignments[projectID] = append(m.assignments[projectID], userID)
	return project.Assignment{ProjectID: projectID, UserID: userID, AssignedAt: time.Now()}, nil
}

func (m *memProjects) Unassign(ctx context.Context, projectID, userID string) error {
	users := m.assignments[projectID]
	for i, u := range users {
		if u == userID {
			m.assignments[projectID] = append(users[:i], users[i+1:]...)
			return nil
		}
	}
	return project.ErrAssignmentNotFound
}

type memProfiles struct {
	profile.ProfileRepository
	byID map[string]profile.Profile
}

func (m *memProfiles) FindByUserID(ctx context.Context, userID string) (profile.Profile, error) {
	p, ok := m.byID[userID]
	if !ok {
		return profile.Profile{}, profile.ErrProfileNotFound
	}
	return p, nil
}

func newTestService() (*ProjectServiceImpl, *memProjects) {
	projects := newMemProjects()
	profiles := &memProfiles{byID: map[string]profile.Profile{
		approvedID: {UserID: approvedID, Role: profile.RoleEmployee, IsApproved: true},
		pendingID:  {UserID: pendingID, Role: profile.RoleEmployee},
		adminID:    {UserID: adminID, Role: profile.RoleAdmin},
	}}
	return NewProjectService(projects, profiles).(*ProjectServiceImpl), projects
}

func TestCreateClient(t *testing.T) {
	svc, _ := newTestService()
	country := "  Pakistan "

	resp, err := svc.CreateClient(context.Background(), project.CreateClientRequest{Name: " Globex ", Country: &country})
	require.NoError(t, err)
	assert.Equal(t, "Globex", resp.Name)
	require.NotNil(t, resp.Country)
	assert.Equal(t, "Pakistan", *resp.Country)

	_, err = svc.CreateClient(context.Background(), project.CreateClientRequest{Name: "Globex"})
	assert.ErrorIs(t, err, project.ErrClientNameExists)
}

func TestCreateProject(t *testing.T) {
	t.Run("dedupes assignees and defaults status", func(t *testing.T) {
		svc, _ := newTestService()

		resp, err := svc.CreateProject(context.Background(), project.CreateProjectRequest{
			ClientID:    clientID,
			Name:        "Website",
			AssigneeIDs: []string{approvedID, adminID, approvedID},
		})
		require.NoError(t, err)
		assert.Equal(t, string(project.StatusActive), resp.Status)
		assert.Equal(t, []string{approvedID, adminID}, resp.AssigneeIDs)
	})

	t.Run("unknown client", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.CreateProject(context.Background(), project.CreateProjectRequest{ClientID: missingID, Name: "X"})
		assert.ErrorIs(t, err, project.ErrClientNotFound)
	})

	t.Run("pending assignee rejected", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.CreateProject(context.Background(), project.CreateProjectRequest{
			ClientID: clientID, Name: "X", AssigneeIDs: []string{pendingID},
		})
		assert.ErrorIs(t, err, project.ErrAssigneeNotApproved)
	})

	t.Run("assignee without profile rejected", func(t *testing.T) {
		svc, _ := newTestService()

		_, err := svc.CreateProject(context.Background(), project.CreateProjectRequest{
			ClientID: clientID, Name: "X", AssigneeIDs: []string{missingID},
		})
		assert.ErrorIs(t, err, project.ErrAssigneeNotFound)
	})
}

func TestAssign(t *testing.T) {
	svc, repo := newTestService()
	ctx := context.Background()

	_, err := svc.CreateProject(ctx, project.CreateProjectRequest{ClientID: clientID, Name: "Website"})
	require.NoError(t, err)

	resp, err := svc.Assign(ctx, project.AssignRequest{ProjectID: projectID, UserID: approvedID})
	require.NoError(t, err)
	assert.Equal(t, []string{approvedID}, resp.AssigneeIDs)

	_, err = svc.Assign(ctx, project.AssignRequest{ProjectID: projectID, UserID: approvedID})
	assert.ErrorIs(t, err, project.ErrAlreadyAssigned)

	_, err = svc.Assign(ctx, project.AssignRequest{ProjectID: projectID, UserID: pendingID})
	assert.ErrorIs(t, err, project.ErrAssigneeNotApproved)

	assigned, err := svc.ListAssigned(ctx, approvedID)
	require.NoError(t, err)
	require.Len(t, assigned, 1)
	assert.Equal(t, "Website", assigned[0].Name)

	require.NoError(t, svc.Unassign(ctx, projectID, approvedID))
	assert.ErrorIs(t, svc.Unassign(ctx, projectID, approvedID), project.ErrAssignmentNotFound)

	p := repo.projects[projectID]
	p.Status = project.StatusCompleted
	repo.projects[projectID] = p

	_, err = svc.Assign(ctx, project.AssignRequest{ProjectID: projectID, UserID: approvedID})
	assert.ErrorIs(t, err, project.ErrProjectClosed)
}
