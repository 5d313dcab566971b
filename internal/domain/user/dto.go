package user

import (
	"time"

	"github.com/authsphere/authsphere-backend-go/internal/pkg/validator"
)

// UpdateUserRequest changes a user's role and/or manager. A nil field is left
// unchanged; an empty ManagerID string unassigns the manager.
type UpdateUserRequest struct {
	Role      *string `json:"role"`
	ManagerID *string `json:"manager_id"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Role == nil && r.ManagerID == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "role",
			Message: "at least one of role or manager_id is required",
		})
	}

	if r.Role != nil {
		role := Role(*r.Role)
		if role != RoleUser && role != RoleManager {
			errs = append(errs, validator.ValidationError{
				Field:   "role",
				Message: "role must be 'user' or 'manager'",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// SoftDeleteRequest carries the admin's reason for removing a user.
type SoftDeleteRequest struct {
	Reason string `json:"reason"`
}

// Response is the wire shape of an active user. Password material never
// leaves the service layer.
type Response struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Role          Role    `json:"role"`
	ManagerID     *string `json:"manager_id"`
	ManagerName   *string `json:"manager_name,omitempty"`
	ManagerEmail  *string `json:"manager_email,omitempty"`
	EmailVerified bool    `json:"email_verified"`
	CreatedAt     string  `json:"created_at"`
}

// RemovedResponse is the wire shape of an archived user.
type RemovedResponse struct {
	ID             string  `json:"id"`
	OriginalUserID string  `json:"original_user_id"`
	Name           string  `json:"name"`
	Email          string  `json:"email"`
	Role           Role    `json:"role"`
	DeletedAt      string  `json:"deleted_at"`
	DeletedBy      string  `json:"deleted_by"`
	DeletedByName  *string `json:"deleted_by_name,omitempty"`
	DeletionReason string  `json:"deletion_reason"`
}

// LoginHistoryResponse is the wire shape of one sign-in event.
type LoginHistoryResponse struct {
	ID        string `json:"id"`
	LoggedAt  string `json:"logged_at"`
	IPAddress string `json:"ip_address"`
	UserAgent string `json:"user_agent"`
}

// ToResponse converts an entity to its wire shape.
func ToResponse(u User) Response {
	return Response{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		Role:          u.Role,
		ManagerID:     u.ManagerID,
		ManagerName:   u.ManagerName,
		ManagerEmail:  u.ManagerEmail,
		EmailVerified: u.EmailVerified,
		CreatedAt:     u.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// ToResponseList converts a slice of entities.
func ToResponseList(users []User) []Response {
	out := make([]Response, 0, len(users))
	for _, u := range users {
		out = append(out, ToResponse(u))
	}
	return out
}

// ToRemovedResponse converts an archive entity to its wire shape.
func ToRemovedResponse(ru RemovedUser) RemovedResponse {
	return RemovedResponse{
		ID:             ru.ID,
		OriginalUserID: ru.OriginalUserID,
		Name:           ru.Name,
		Email:          ru.Email,
		Role:           ru.Role,
		DeletedAt:      ru.DeletedAt.UTC().Format(time.RFC3339),
		DeletedBy:      ru.DeletedBy,
		DeletedByName:  ru.DeletedByName,
		DeletionReason: ru.DeletionReason,
	}
}

// ToRemovedResponseList converts a slice of archive entities.
func ToRemovedResponseList(removed []RemovedUser) []RemovedResponse {
	out := make([]RemovedResponse, 0, len(removed))
	for _, ru := range removed {
		out = append(out, ToRemovedResponse(ru))
	}
	return out
}

// ToLoginHistoryResponseList converts sign-in events to their wire shape.
func ToLoginHistoryResponseList(history []LoginHistory) []LoginHistoryResponse {
	out := make([]LoginHistoryResponse, 0, len(history))
	for _, h := range history {
		out = append(out, LoginHistoryResponse{
			ID:        h.ID,
			LoggedAt:  h.LoggedAt.UTC().Format(time.RFC3339),
			IPAddress: h.IPAddress,
			UserAgent: h.UserAgent,
		})
	}
	return out
}
