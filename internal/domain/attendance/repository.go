package attendance

import (
	"context"
	"time"
)

// Repository defines data access for attendance records.
type Repository interface {
	// Create inserts a new record. The (user_id, date) unique constraint
	// makes this the arbiter of the one-record-per-day invariant: a
	// conflicting insert returns ErrAlreadyCheckedIn.
	Create(ctx context.Context, att Attendance) (Attendance, error)

	// GetByID retrieves a record by ID.
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByUserAndDate retrieves the record for a user on a specific day.
	// Returns nil (no error) when none exists.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)

	// Update writes check-out, reset, and override mutations.
	Update(ctx context.Context, att Attendance) (Attendance, error)

	// ListByUser returns a user's records newest-first, capped at limit.
	ListByUser(ctx context.Context, userID string, limit int) ([]Attendance, error)

	// ListByManager returns all records snapshotted to a manager, newest-first.
	ListByManager(ctx context.Context, managerID string) ([]Attendance, error)

	// ListAll returns every record, newest-first. Admin-only views.
	ListAll(ctx context.Context) ([]Attendance, error)

	// UpdateManagerForUser rewrites the denormalized manager_id on all of a
	// user's records. Runs inside the same transaction as the user update.
	UpdateManagerForUser(ctx context.Context, userID string, managerID *string) error

	// ListOpenBefore returns records with a check-in but no check-out whose
	// day started before cutoff. Used by the stale-session cron job.
	ListOpenBefore(ctx context.Context, cutoff time.Time) ([]Attendance, error)
}
