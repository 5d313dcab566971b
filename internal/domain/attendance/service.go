package attendance

import (
	"context"

	"github.com/authsphere/authsphere-backend-go/internal/domain/user"
)

// Service defines business logic for attendance operations. The caller
// identity is resolved by the auth layer from the request token.
type Service interface {
	// CheckIn opens today's record for the caller.
	CheckIn(ctx context.Context, caller user.Identity) (Attendance, error)

	// CheckOut closes today's record and recomputes worked time and status.
	CheckOut(ctx context.Context, caller user.Identity) (Attendance, error)

	// ResetToday clears the check-out, zeroes worked time, and sets status
	// back to present. Idempotent.
	ResetToday(ctx context.Context, caller user.Identity) (Attendance, error)

	// Today returns the caller's record for the current day, or nil.
	Today(ctx context.Context, caller user.Identity) (*Attendance, error)

	// MyHistory returns the caller's recent records, newest-first.
	MyHistory(ctx context.Context, caller user.Identity) ([]Attendance, error)

	// TeamHistory returns records visible to a manager (own team) or admin (all).
	TeamHistory(ctx context.Context, caller user.Identity) ([]Attendance, error)

	// OverrideStatus writes a status directly, bypassing derivation. Managers
	// may only touch records snapshotted to them; admins may touch any.
	OverrideStatus(ctx context.Context, caller user.Identity, req OverrideStatusRequest) (Attendance, error)
}
