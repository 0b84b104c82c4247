package project

import (
	"time"

	"github.com/codenest/erp-backend/internal/pkg/validator"
)

type CreateClientRequest struct {
	Name         string  `json:"name"`
	ContactEmail *string `json:"contact_email,omitempty"`
	Country      *string `json:"country,omitempty"`
}

func (r *CreateClientRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}
	if r.ContactEmail != nil && !validator.IsValidEmail(*r.ContactEmail) {
		errs = append(errs, validator.ValidationError{
			Field:   "contact_email",
			Message: "contact_email must be a valid email address",
		})
	}
	if r.Country != nil && len(*r.Country) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "country",
			Message: "country must not exceed 100 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateProjectRequest struct {
	ClientID    string   `json:"client_id"`
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	Status      string   `json:"status,omitempty"`
	AssigneeIDs []string `json:"assignee_ids,omitempty"`
}

func (r *CreateProjectRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ClientID) {
		errs = append(errs, validator.ValidationError{
			Field:   "client_id",
			Message: "client_id must be a valid UUID",
		})
	}
	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	} else if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 255 characters",
		})
	}
	if r.Status == "" {
		r.Status = string(StatusActive)
	}
	if !validator.IsInSlice(r.Status, []string{string(StatusActive), string(StatusOnHold), string(StatusCompleted)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: ErrInvalidProjectStatus.Error(),
		})
	}
	for _, id := range r.AssigneeIDs {
		if !validator.IsValidUUID(id) {
			errs = append(errs, validator.ValidationError{
				Field:   "assignee_ids",
				Message: "assignee_ids must contain valid UUIDs",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AssignRequest struct {
	ProjectID string `json:"-"`
	UserID    string `json:"user_id"`
}

func (r *AssignRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ProjectID) {
		errs = append(errs, validator.ValidationError{
			Field:   "project_id",
			Message: "project_id must be a valid UUID",
		})
	}
	if !validator.IsValidUUID(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ClientResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	ContactEmail *string `json:"contact_email,omitempty"`
	Country      *string `json:"country,omitempty"`
	CreatedAt    string  `json:"created_at"`
}

func NewClientResponse(c Client) ClientResponse {
	return ClientResponse{
		ID:           c.ID,
		Name:         c.Name,
		ContactEmail: c.ContactEmail,
		Country:      c.Country,
		CreatedAt:    c.CreatedAt.Format(time.RFC3339),
	}
}

type ProjectResponse struct {
	ID          string   `json:"id"`
	ClientID    string   `json:"client_id"`
	ClientName  string   `json:"client_name,omitempty"`
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	Status      string   `json:"status"`
	AssigneeIDs []string `json:"assignee_ids"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

func NewProjectResponse(p Project) ProjectResponse {
	assignees := p.AssigneeIDs
	if assignees == nil {
		assignees = []string{}
	}
	return ProjectResponse{
		ID:          p.ID,
		ClientID:    p.ClientID,
		ClientName:  p.ClientName,
		Name:        p.Name,
		Description: p.Description,
		Status:      string(p.Status),
		AssigneeIDs: assignees,
		CreatedAt:   p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:   p.UpdatedAt.Format(time.RFC3339),
	}
}
