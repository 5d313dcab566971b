package user

// Identity is the resolved caller of an operation: who they are, what role
// they hold, and which manager (if any) they report to. The auth layer builds
// it from token claims; services consume it through the predicates below and
// translate a false result into the operation's specific domain error, never
// a generic forbidden.
type Identity struct {
	ID        string
	Role      Role
	ManagerID *string
}

// IsAdmin reports whether the caller holds the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// IsSelf reports whether the caller is acting on their own account.
func (i Identity) IsSelf(targetID string) bool {
	return i.ID == targetID
}

// IsManagerOf reports whether the caller is the manager a record or user is
// attached to. Only managers qualify; admins go through IsAdmin instead.
func (i Identity) IsManagerOf(targetManagerID *string) bool {
	if i.Role != RoleManager || targetManagerID == nil {
		return false
	}
	return i.ID == *targetManagerID
}

// CanAssignTasks reports whether the caller may create tasks for other users.
func (i Identity) CanAssignTasks() bool {
	return i.Role == RoleManager || i.Role == RoleAdmin
}

// CanViewTeam reports whether the caller may read team-scoped attendance and
// task listings.
func (i Identity) CanViewTeam() bool {
	return i.Role == RoleManager || i.Role == RoleAdmin
}

// CanOverrideAttendance reports whether the caller may write an attendance
// status directly: admins always, managers only on records snapshotted to
// their own team.
func (i Identity) CanOverrideAttendance(recordManagerID *string) bool {
	return i.IsAdmin() || i.IsManagerOf(recordManagerID)
}

// CanManageUsers reports whether the caller may run the user lifecycle
// operations (role changes, soft delete, restore, permanent delete).
func (i Identity) CanManageUsers() bool {
	return i.Role == RoleAdmin
}
