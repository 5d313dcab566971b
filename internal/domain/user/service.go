package user

import (
	"context"
)

// Service covers the user directory and the admin lifecycle operations.
type Service interface {
	// List returns active users. Admin callers get manager joins.
	List(ctx context.Context, caller Identity) ([]User, error)

	// Team returns the members reporting to a manager. Admins may pass any
	// manager id; managers always get their own team.
	Team(ctx context.Context, caller Identity, managerID string) ([]User, error)

	// LoginHistoryFor returns a user's recent sign-ins. Admin only.
	LoginHistoryFor(ctx context.Context, caller Identity, userID string) ([]LoginHistory, error)

	// Update changes a user's role and/or manager assignment. Admin only.
	// A manager change backfills the denormalized manager id on all of the
	// user's attendance records in the same transaction, then notifies both
	// the previous and the new manager.
	Update(ctx context.Context, caller Identity, targetID string, req UpdateUserRequest) (User, error)

	// SoftDelete archives a user into the removed-users collection. Admin
	// only; self-deletion and deleting admins are rejected.
	SoftDelete(ctx context.Context, caller Identity, targetID string, reason string) (RemovedUser, error)

	// Restore converts an archived user back into an active account, blocked
	// while another active account holds the same email.
	Restore(ctx context.Context, caller Identity, removedID string) (User, error)

	// PermanentDelete irreversibly drops an archived user.
	PermanentDelete(ctx context.Context, caller Identity, removedID string) error

	// ListRemoved returns the archive, newest deletions first. Admin only.
	ListRemoved(ctx context.Context, caller Identity) ([]RemovedUser, error)
}
