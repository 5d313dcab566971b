package user

import "errors"

var (
	ErrUserNotFound        = errors.New("user not found")
	ErrRemovedUserNotFound = errors.New("removed user not found")
	ErrEmailExists         = errors.New("email already registered")
	ErrNotAuthorized       = errors.New("not authorized")
	ErrAdminOnly           = errors.New("admin privilege required")

	// Lifecycle guards
	ErrSelfDelete         = errors.New("you cannot delete your own account")
	ErrSelfRoleChange     = errors.New("you cannot change your own role")
	ErrCannotDeleteAdmin  = errors.New("admin accounts cannot be deleted")
	ErrCannotModifyAdmin  = errors.New("admin accounts cannot be modified")
	ErrEmailAlreadyActive = errors.New("an active account with this email already exists")
	ErrInvalidRole        = errors.New("invalid role")
	ErrManagerNotFound    = errors.New("manager not found")
	ErrInvalidManager     = errors.New("manager must hold the manager role")
)
