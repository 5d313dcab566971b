package task

import (
	"context"

	"github.com/authsphere/authsphere-backend-go/internal/domain/user"
)

// Service governs the task lifecycle and its authorization rules.
type Service interface {
	// Create makes a self-task owned by the caller, with no assignee.
	Create(ctx context.Context, caller user.Identity, req CreateRequest) (Task, error)

	// Assign creates a task for a team member. Managers may only assign
	// within their own team; admins may assign to anyone.
	Assign(ctx context.Context, caller user.Identity, req AssignRequest) (Task, error)

	// SetStatus moves the task through its lifecycle. Assignee only. Putting
	// a task on hold requires a reason; any other status clears it.
	SetStatus(ctx context.Context, caller user.Identity, taskID string, req SetStatusRequest) (Task, error)

	// Complete marks the task done. Assignee only; rejected while a required
	// reply is missing.
	Complete(ctx context.Context, caller user.Identity, taskID string) (Task, error)

	// SubmitReply stores the assignee's reply. Does not change status.
	SubmitReply(ctx context.Context, caller user.Identity, taskID string, req ReplyRequest) (Task, error)

	// Delete removes the task. Creator only, admins included.
	Delete(ctx context.Context, caller user.Identity, taskID string) error

	// Get returns a task visible to its creator or assignee.
	Get(ctx context.Context, caller user.Identity, taskID string) (Task, error)

	// ListForUser returns tasks the caller created or is assigned to.
	ListForUser(ctx context.Context, caller user.Identity) ([]Task, error)

	// ListAssignedByManager returns tasks the caller handed out.
	ListAssignedByManager(ctx context.Context, caller user.Identity) ([]Task, error)
}
