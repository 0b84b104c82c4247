package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/codenest/erp-backend/internal/domain/project"
	"github.com/codenest/erp-backend/internal/pkg/database"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type projectRepositoryImpl struct {
	db *database.DB
}

func NewProjectRepository(db *database.DB) project.ProjectRepository {
	return &projectRepositoryImpl{db: db}
}

const clientColumns = `id, name, contact_email, country, created_at, updated_at`

func scanClient(row pgx.Row) (project.Client, error) {
	var c project.Client
	err := row.Scan(&c.ID, &c.Name, &c.ContactEmail, &c.Country, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// CreateClient implements project.ProjectRepository.
func (r *projectRepositoryImpl) CreateClient(ctx context.Context, newClient project.Client) (project.Client, error) {
	q := GetQuerier(ctx, r.db)

	id, err := uuid.NewV7()
	if err != nil {
		return project.Client{}, fmt.Errorf("generate client id: %w", err)
	}

	query := `
		INSERT INTO clients (id, name, contact_email, country)
		VALUES ($1, $2, $3, $4)
		RETURNING ` + clientColumns

	created, err := scanClient(q.QueryRow(ctx, query, id.String(), newClient.Name, newClient.ContactEmail, newClient.Country))
	if err != nil {
		if isUniqueViolation(err) {
			return project.Client{}, project.ErrClientNameExists
		}
		return project.Client{}, err
	}
	return created, nil
}

// ListClients implements project.ProjectRepository.
func (r *projectRepositoryImpl) ListClients(ctx context.Context) ([]project.Client, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT `+clientColumns+` FROM clients ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := make([]project.Client, 0)
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

// GetClientByID implements project.ProjectRepository.
func (r *projectRepositoryImpl) GetClientByID(ctx context.Context, id string) (project.Client, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanClient(q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return project.Client{}, project.ErrClientNotFound
		}
		return project.Client{}, err
	}
	return found, nil
}

// projectSelect aggregates assignees so one row carries the whole project.
const projectSelect = `
	SELECT p.id, p.client_id, c.name, p.name, p.description, p.status, p.created_at, p.updated_at,
	       COALESCE(array_agg(pa.user_id::text ORDER BY pa.assigned_at) FILTER (WHERE pa.user_id IS NOT NULL), '{}') as assignee_ids
	FROM projects p
	JOIN clients c ON c.id = p.client_id
	LEFT JOIN project_assignments pa ON pa.project_id = p.id
`

const projectGroupBy = ` GROUP BY p.id, c.name `

func scanProject(row pgx.Row) (project.Project, error) {
	var p project.Project
	err := row.Scan(
		&p.ID,
		&p.ClientID,
		&p.ClientName,
		&p.Name,
		&p.Description,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
		&p.AssigneeIDs,
	)
	return p, err
}

// CreateProject implements project.ProjectRepository. The project row and its
// initial assignments are written in one transaction.
func (r *projectRepositoryImpl) CreateProject(ctx context.Context, newProject project.Project) (project.Project, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return project.Project{}, fmt.Errorf("generate project id: %w", err)
	}

	err = WithTransaction(ctx, r.db, func(txCtx context.Context) error {
		q := GetQuerier(txCtx, r.db)

		_, err := q.Exec(txCtx, `
			INSERT INTO projects (id, client_id, name, description, status)
			VALUES ($1, $2, $3, $4, $5)
		`, id.String(), newProject.ClientID, newProject.Name, newProject.Description, string(newProject.Status))
		if err != nil {
			if isForeignKeyViolation(err) {
				return project.ErrClientNotFound
			}
			return err
		}

		for _, userID := range newProject.AssigneeIDs {
			if _, err := r.Assign(txCtx, id.String(), userID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return project.Project{}, err
	}

	return r.GetProjectByID(ctx, id.String())
}

// GetProjectByID implements project.ProjectRepository.
func (r *projectRepositoryImpl) GetProjectByID(ctx context.Context, id string) (project.Project, error) {
	q := GetQuerier(ctx, r.db)

	found, err := scanProject(q.QueryRow(ctx, projectSelect+` WHERE p.id = $1`+projectGroupBy, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return project.Project{}, project.ErrProjectNotFound
		}
		return project.Project{}, err
	}
	return found, nil
}

// ListProjects implements project.ProjectRepository.
func (r *projectRepositoryImpl) ListProjects(ctx context.Context) ([]project.Project, error) {
	return r.listProjects(ctx, projectSelect+projectGroupBy+` ORDER BY p.created_at DESC`)
}

// ListByAssignee implements project.ProjectRepository.
func (r *projectRepositoryImpl) ListByAssignee(ctx context.Context, userID string) ([]project.Project, error) {
	query := projectSelect + `
		WHERE p.id IN (SELECT project_id FROM project_assignments WHERE user_id = $1)
	` + projectGroupBy + ` ORDER BY p.created_at DESC`
	return r.listProjects(ctx, query, userID)
}

func (r *projectRepositoryImpl) listProjects(ctx context.Context, query string, args ...interface{}) ([]project.Project, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	projects := make([]project.Project, 0)
	for rows.Next() {
		p, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

// Assign implements project.ProjectRepository.
func (r *projectRepositoryImpl) Assign(ctx context.Context, projectID, userID string) (project.Assignment, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO project_assignments (project_id, user_id)
		VALUES ($1, $2)
		RETURNING project_id, user_id, assigned_at
	`

	var a project.Assignment
	err := q.QueryRow(ctx, query, projectID, userID).Scan(&a.ProjectID, &a.UserID, &a.AssignedAt)
	if err != nil {
		switch {
		case isUniqueViolation(err):
			return project.Assignment{}, project.ErrAlreadyAssigned
		case isForeignKeyViolation(err):
			return project.Assignment{}, project.ErrAssigneeNotFound
		}
		return project.Assignment{}, err
	}
	return a, nil
}

// Unassign implements project.ProjectRepository.
func (r *projectRepositoryImpl) Unassign(ctx context.Context, projectID, userID string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM project_assignments WHERE project_id = $1 AND user_id = $2`, projectID, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return project.ErrAssignmentNotFound
	}
	return nil
}
