package profile

import (
	"strings"
	"time"
)

type Role string

const (
	RoleAdmin    Role = "admin"    // Agency owner - manages staff, clients and projects
	RoleEmployee Role = "employee" // Remote staff member
)

// ParseRole normalizes a role name. Matching is case-insensitive.
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case string(RoleAdmin):
		return RoleAdmin, nil
	case string(RoleEmployee):
		return RoleEmployee, nil
	default:
		return "", ErrInvalidRole
	}
}

// IsAdmin reports whether the stored role names the admin role.
// Stored values written by older clients may be upper-case.
func (r Role) IsAdmin() bool {
	return strings.EqualFold(strings.TrimSpace(string(r)), string(RoleAdmin))
}

type Profile struct {
	UserID     string
	FullName   string
	Role       Role
	IsApproved bool
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// DTO / Join
	Email *string
}

// RequiresApproval reports whether the approval flag gates this profile.
// Admins bypass approval.
func (p *Profile) RequiresApproval() bool {
	return !p.Role.IsAdmin()
}

// IsPending checks if the profile is still waiting for an administrator
func (p *Profile) IsPending() bool {
	return p.RequiresApproval() && !p.IsApproved
}
