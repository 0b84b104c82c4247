package profile

import (
	"time"

	"github.com/codenest/erp-backend/internal/pkg/validator"
)

// ProfileResponse represents profile data in API responses
type ProfileResponse struct {
	UserID     string  `json:"user_id"`
	Email      *string `json:"email,omitempty"`
	FullName   string  `json:"full_name"`
	Role       string  `json:"role"`
	IsApproved bool    `json:"is_approved"`
	IsPending  bool    `json:"is_pending"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

func NewProfileResponse(p Profile) ProfileResponse {
	return ProfileResponse{
		UserID:     p.UserID,
		Email:      p.Email,
		FullName:   p.FullName,
		Role:       string(p.Role),
		IsApproved: p.IsApproved,
		IsPending:  p.IsPending(),
		CreatedAt:  p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:  p.UpdatedAt.Format(time.RFC3339),
	}
}

type StatusFilter string

const (
	StatusPending  StatusFilter = "pending"
	StatusApproved StatusFilter = "approved"
	StatusAll      StatusFilter = "all"
)

type ListProfilesFilter struct {
	Status StatusFilter
	Limit  int
	Offset int
}

func (f *ListProfilesFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status == "" {
		f.Status = StatusAll
	}
	if !validator.IsInSlice(string(f.Status), []string{string(StatusPending), string(StatusApproved), string(StatusAll)}) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: ErrInvalidStatusFilter.Error(),
		})
	}
	if f.Limit <= 0 || f.Limit > 100 {
		f.Limit = 50
	}
	if f.Offset < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "offset",
			Message: "offset must not be negative",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateRoleRequest represents request to change a staff member's role
type UpdateRoleRequest struct {
	UserID string `json:"-"`
	Role   string `json:"role"`
}

func (r *UpdateRoleRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.UserID) {
		errs = append(errs, validator.ValidationError{
			Field:   "user_id",
			Message: "user_id must be a valid UUID",
		})
	}
	if validator.IsEmpty(r.Role) {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "role is required",
		})
	} else if _, err := ParseRole(r.Role); err != nil {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: err.Error(),
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateOwnProfileRequest is what a staff member may change about themselves.
// Role and approval are intentionally absent.
type UpdateOwnProfileRequest struct {
	FullName string `json:"full_name"`
}

func (r *UpdateOwnProfileRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name is required",
		})
	} else if len(r.FullName) > 255 {
		errs = append(errs, validator.ValidationError{
			Field:   "full_name",
			Message: "full_name must not exceed 255 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
