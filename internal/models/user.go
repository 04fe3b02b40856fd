package models

import "time"

// UserRole enumerates the closed set of dashboard roles.
type UserRole string

const (
	RoleAdmin      UserRole = "Admin"
	RolePrincipal  UserRole = "Principal"
	RoleTeacher    UserRole = "Teacher"
	RoleStudent    UserRole = "Student"
	RoleAccountant UserRole = "Accountant"
	RoleReception  UserRole = "Reception"
	RoleParent     UserRole = "Parent"
)

// AllRoles lists every recognised role.
var AllRoles = []UserRole{
	RoleAdmin,
	RolePrincipal,
	RoleTeacher,
	RoleStudent,
	RoleAccountant,
	RoleReception,
	RoleParent,
}

// Valid reports whether the role belongs to the closed set.
func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RolePrincipal, RoleTeacher, RoleStudent, RoleAccountant, RoleReception, RoleParent:
		return true
	}
	return false
}

// User represents an application user stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"name"`
	Role         UserRole   `db:"role" json:"role"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"lastLogin,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updatedAt"`
}

// UserInfo is the public identity shape returned to the client.
type UserInfo struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Name     string   `json:"name"`
	Role     UserRole `json:"role"`
}

// Info projects the public identity of a user.
func (u *User) Info() UserInfo {
	return UserInfo{ID: u.ID, Username: u.Username, Name: u.FullName, Role: u.Role}
}
