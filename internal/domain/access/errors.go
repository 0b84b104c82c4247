package access

import "errors"

var (
	ErrActionUnavailable      = errors.New("action not available in the current access state")
	ErrAdminAccessRequired    = errors.New("admin access required")
	ErrEmployeeAccessRequired = errors.New("employee access required")
	ErrDecisionMissing        = errors.New("access decision missing from context")
)
