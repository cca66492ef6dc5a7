package user

import "time"

type Role string

const (
	RoleAdmin Role = "admin" // Reviews, approves and creates shifts
	RoleStaff Role = "staff" // Submits desired shifts
)

var RoleValues = []string{string(RoleAdmin), string(RoleStaff)}

type User struct {
	ID        string
	Name      string
	Role      Role
	Password  string // bcrypt hash, or a legacy plaintext value from the table API
	CreatedAt time.Time
}

// IsAdmin checks if user can manage shifts and users
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsStaff checks if user is a regular staff member
func (u *User) IsStaff() bool {
	return u.Role == RoleStaff
}
