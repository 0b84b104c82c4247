package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/codenest/erp-backend/internal/domain/access"
	"github.com/codenest/erp-backend/internal/domain/auth"
	"github.com/codenest/erp-backend/internal/domain/profile"
	"github.com/codenest/erp-backend/internal/domain/project"
	"github.com/codenest/erp-backend/internal/domain/session"
	"github.com/codenest/erp-backend/internal/domain/user"
	"github.com/codenest/erp-backend/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Token expired")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrRefreshTokenRevoked):
		Unauthorized(w, "Refresh token revoked")
	case errors.Is(err, auth.ErrEmailAlreadyExists), errors.Is(err, user.ErrUserEmailExists):
		Conflict(w, auth.ErrEmailAlreadyExists.Error())
	case errors.Is(err, auth.ErrSignupPartialFailure):
		slog.Error("signup partial failure", "error", err)
		InternalServerError(w, auth.ErrSignupPartialFailure.Error())
	case errors.Is(err, auth.ErrUserNotFound), errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")

	// Session domain errors
	case errors.Is(err, session.ErrSessionNotFound):
		Unauthorized(w, "Session not found")
	case errors.Is(err, session.ErrSignOutForbidden):
		Forbidden(w, err.Error())

	// Access domain errors
	case errors.Is(err, access.ErrActionUnavailable):
		Conflict(w, err.Error())
	case errors.Is(err, access.ErrAdminAccessRequired), errors.Is(err, access.ErrEmployeeAccessRequired):
		Forbidden(w, err.Error())
	case errors.Is(err, access.ErrDecisionMissing):
		Forbidden(w, "Access decision unavailable")

	// Profile domain errors
	case errors.Is(err, profile.ErrProfileNotFound):
		NotFound(w, "Profile not found")
	case errors.Is(err, profile.ErrProfileExists):
		Conflict(w, "Profile already exists")
	case errors.Is(err, profile.ErrCannotSelfApprove), errors.Is(err, profile.ErrCannotChangeOwnRole):
		Forbidden(w, err.Error())
	case errors.Is(err, profile.ErrInvalidRole), errors.Is(err, profile.ErrInvalidStatusFilter):
		BadRequest(w, err.Error(), nil)

	// Project domain errors
	case errors.Is(err, project.ErrClientNotFound):
		NotFound(w, "Client not found")
	case errors.Is(err, project.ErrProjectNotFound):
		NotFound(w, "Project not found")
	case errors.Is(err, project.ErrAssignmentNotFound):
		NotFound(w, "Assignment not found")
	case errors.Is(err, project.ErrAssigneeNotFound):
		NotFound(w, err.Error())
	case errors.Is(err, project.ErrClientNameExists), errors.Is(err, project.ErrAlreadyAssigned):
		Conflict(w, err.Error())
	case errors.Is(err, project.ErrAssigneeNotApproved), errors.Is(err, project.ErrProjectClosed):
		Conflict(w, err.Error())
	case errors.Is(err, project.ErrInvalidProjectStatus):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
