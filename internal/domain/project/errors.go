package project

import "errors"

var (
	ErrClientNotFound       = errors.New("client not found")
	ErrClientNameExists     = errors.New("client name already exists")
	ErrProjectNotFound      = errors.New("project not found")
	ErrAssigneeNotFound     = errors.New("assignee has no staff profile")
	ErrAssigneeNotApproved  = errors.New("assignee is not approved")
	ErrAlreadyAssigned      = errors.New("staff member already assigned to this project")
	ErrAssignmentNotFound   = errors.New("assignment not found")
	ErrProjectClosed        = errors.New("project is completed")
	ErrInvalidProjectStatus = errors.New("status must be active, on_hold or completed")
)
