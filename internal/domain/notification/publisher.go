package notification

import (
	"github.com/authsphere/authsphere-backend-go/internal/domain/task"
)

// Event names pushed to connected clients.
const (
	EventTaskCreated               = "task:created"
	EventTaskUpdated               = "task:updated"
	EventTaskDeleted               = "task:deleted"
	EventManagerAssignmentsUpdated = "manager:assignments-updated"
)

// ManagerAssignmentPayload announces a user's manager change to the managers
// on both sides of it.
type ManagerAssignmentPayload struct {
	UserID    string  `json:"user_id"`
	ManagerID *string `json:"manager_id"`
}

// TaskDeletedPayload carries only the identifier of a removed task.
type TaskDeletedPayload struct {
	ID string `json:"id"`
}

// Publisher fans mutation events out to the users affected by them. It is
// injected into the services that mutate tasks and users; implementations are
// fire-and-forget and must never surface a delivery failure to the caller.
type Publisher interface {
	// TaskCreated, TaskUpdated, and TaskDeleted notify the distinct set of
	// {creator, assignee, assigning manager}. With no recipients the event is
	// broadcast to everyone.
	TaskCreated(t task.Task)
	TaskUpdated(t task.Task)
	TaskDeleted(t task.Task)

	// ManagerAssignmentsUpdated notifies the previous and new manager of a
	// reassigned user, whichever exist; with neither it broadcasts.
	ManagerAssignmentsUpdated(userID string, previousManagerID, newManagerID *string)
}
