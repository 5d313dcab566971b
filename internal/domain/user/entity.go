package user

import "time"

// Role is the closed set of roles in the system.
type Role string

const (
	RoleAdmin   Role = "admin"   // Full access, user lifecycle management
	RoleManager Role = "manager" // Can assign tasks and oversee a team
	RoleUser    Role = "user"    // Regular employee
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleUser:
		return true
	}
	return false
}

// AssignableRoles are the roles an admin may set on another account. Admin
// itself is excluded: admins are only created out-of-band.
func AssignableRoles() []Role {
	return []Role{RoleUser, RoleManager}
}

// User is an active account. ManagerID points at the managing user for
// employees on a team; it is nil for admins, managers without a manager,
// and unassigned employees. Admins are never subordinate.
type User struct {
	ID                         string
	Name                       string
	Email                      string
	PasswordHash               string
	Role                       Role
	ManagerID                  *string
	EmailVerified              bool
	EmailVerificationToken     *string
	EmailVerificationExpiresAt *time.Time
	CreatedAt                  time.Time
	UpdatedAt                  time.Time

	// DTO / join
	ManagerName  *string
	ManagerEmail *string
}

// RemovedUser is the archival snapshot taken when an account is soft-deleted.
// It is destroyed on restore (converted back to a User) or on permanent
// delete.
type RemovedUser struct {
	ID               string
	OriginalUserID   string
	Name             string
	Email            string
	PasswordHash     string
	Role             Role
	ManagerID        *string
	DeletedAt        time.Time
	DeletedBy        string
	DeletionReason   string
	OriginalJoinedAt time.Time
	WasEmailVerified bool

	// DTO / join
	DeletedByName *string
}

// LoginHistory records one successful sign-in.
type LoginHistory struct {
	ID        string
	UserID    string
	LoggedAt  time.Time
	IPAddress string
	UserAgent string
}
