package project

import "time"

type Status string

const (
	StatusActive    Status = "active"
	StatusOnHold    Status = "on_hold"
	StatusCompleted Status = "completed"
)

type Client struct {
	ID           string
	Name         string
	ContactEmail *string
	Country      *string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type Project struct {
	ID          string
	ClientID    string
	Name        string
	Description *string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// DTO / Join
	ClientName  string
	AssigneeIDs []string
}

type Assignment struct {
	ProjectID  string
	UserID     string
	AssignedAt time.Time
}

// IsOpen checks if the project still takes work
func (p *Project) IsOpen() bool {
	return p.Status != StatusCompleted
}
