// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level granted to an account.
//
// The set is closed. The client-side "guest" role never reaches the server
// because guests hold no token.
type UserRole string

const (
	// Full catalogue management and account administration
	RoleAdmin UserRole = "admin"

	// Default role for every self-registered account
	RoleViewer UserRole = "viewer"
)

// ParseRole maps a raw string onto the closed role set.
func ParseRole(raw string) (UserRole, bool) {
	role := UserRole(raw)
	if !role.Valid() {
		return "", false
	}
	return role, true
}

// Valid reports whether r belongs to the closed role set.
func (r UserRole) Valid() bool {
	return r.level() > 0
}

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
// Unknown roles never satisfy anything.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.Valid() && r.level() >= target.level()
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 40
	case RoleViewer:
		return 10
	default:
		return 0
	}
}
