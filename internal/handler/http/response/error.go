package response

import (
	"errors"
	"net/http"

	"github.com/authsphere/authsphere-backend-go/internal/domain/attendance"
	"github.com/authsphere/authsphere-backend-go/internal/domain/auth"
	"github.com/authsphere/authsphere-backend-go/internal/domain/task"
	"github.com/authsphere/authsphere-backend-go/internal/domain/user"
	"github.com/authsphere/authsphere-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenExpired):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrEmailNotVerified):
		Forbidden(w, "Email not verified")
	case errors.Is(err, auth.ErrVerificationTokenInvalid):
		BadRequest(w, "Verification token is invalid or expired", nil)
	case errors.Is(err, auth.ErrEmailAlreadyVerified):
		Conflict(w, "Email already verified")
	case errors.Is(err, auth.ErrOAuthAccountNotFound):
		NotFound(w, "No account registered for this google account")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrRemovedUserNotFound):
		NotFound(w, "Removed user not found")
	case errors.Is(err, user.ErrManagerNotFound):
		NotFound(w, "Manager not found")
	case errors.Is(err, user.ErrEmailExists):
		Conflict(w, "Email already registered")
	case errors.Is(err, user.ErrEmailAlreadyActive):
		Conflict(w, "An active account with this email already exists")
	case errors.Is(err, user.ErrSelfDelete):
		BadRequest(w, "You cannot delete your own account", nil)
	case errors.Is(err, user.ErrSelfRoleChange):
		BadRequest(w, "You cannot change your own role", nil)
	case errors.Is(err, user.ErrCannotDeleteAdmin):
		Forbidden(w, "Admin accounts cannot be deleted")
	case errors.Is(err, user.ErrCannotModifyAdmin):
		Forbidden(w, "Admin accounts cannot be modified")
	case errors.Is(err, user.ErrInvalidRole):
		BadRequest(w, "Invalid role", nil)
	case errors.Is(err, user.ErrInvalidManager):
		BadRequest(w, "Manager must hold the manager role", nil)
	case errors.Is(err, user.ErrAdminOnly):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, user.ErrNotAuthorized):
		Forbidden(w, "Not authorized")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in today")
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "Already checked out today")
	case errors.Is(err, attendance.ErrNoCheckInFound):
		NotFound(w, "No check-in found for today")
	case errors.Is(err, attendance.ErrNoRecordFound):
		NotFound(w, "No attendance record for today")
	case errors.Is(err, attendance.ErrRecordNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrInvalidStatus):
		BadRequest(w, "Invalid attendance status", nil)
	case errors.Is(err, attendance.ErrNotAuthorized):
		Forbidden(w, "Not authorized for this attendance record")

	// Task domain errors
	case errors.Is(err, task.ErrTaskNotFound):
		NotFound(w, "Task not found")
	case errors.Is(err, task.ErrNotAssignee):
		Forbidden(w, "Only the assigned user can perform this action")
	case errors.Is(err, task.ErrNotCreator):
		Forbidden(w, "Only the task creator can delete it")
	case errors.Is(err, task.ErrNotAuthorized):
		Forbidden(w, "Not authorized to view this task")
	case errors.Is(err, task.ErrAssignmentDenied):
		Forbidden(w, "Only managers can assign tasks")
	case errors.Is(err, task.ErrNotInYourTeam):
		Forbidden(w, "User is not in your team")
	case errors.Is(err, task.ErrInvalidStatus):
		BadRequest(w, "Invalid task status", nil)
	case errors.Is(err, task.ErrHoldReasonRequired):
		BadRequest(w, "Hold reason is required when putting a task on hold", nil)
	case errors.Is(err, task.ErrReplyRequired):
		Conflict(w, "A reply must be submitted before completing this task")
	case errors.Is(err, task.ErrReplyTextRequired):
		BadRequest(w, "Reply text is required", nil)
	case errors.Is(err, task.ErrAssigneeRequired):
		BadRequest(w, "An assignee is required", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
