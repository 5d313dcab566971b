package task

import (
	"context"
)

// Repository defines data access for tasks.
type Repository interface {
	Create(ctx context.Context, t Task) (Task, error)
	GetByID(ctx context.Context, id string) (Task, error)

	// Update writes the full mutable state of the task: status, hold reason,
	// done flag, reply fields. All writes set absolute values, so concurrent
	// updates serialize at the row and last-write-wins is acceptable.
	Update(ctx context.Context, t Task) (Task, error)

	Delete(ctx context.Context, id string) error

	// ListForUser returns tasks created by or assigned to the user,
	// newest-first.
	ListForUser(ctx context.Context, userID string) ([]Task, error)

	// ListAssignedByManager returns tasks the manager handed out,
	// newest-first.
	ListAssignedByManager(ctx context.Context, managerID string) ([]Task, error)
}
