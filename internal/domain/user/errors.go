package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidRole            = errors.New("invalid role")
	ErrInvalidPasswordLength  = errors.New("password must be at least 4 characters")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
	ErrStaffRoleRequired      = errors.New("staff role required")
	ErrCannotDeleteSelf       = errors.New("cannot delete the signed-in user")
)
