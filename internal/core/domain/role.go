package domain

import "time"

// RoleName is the closed set of role names an account can carry. Roles are
// compared as typed values, never as raw strings from the wire.
type RoleName string

const (
	RoleAdmin  RoleName = "admin"
	RoleCommon RoleName = "common"
)

// Valid reports whether the role name belongs to the closed enumeration.
func (r RoleName) Valid() bool {
	return r == RoleAdmin || r == RoleCommon
}

// ParseRoleName converts a raw string (e.g. a JWT claim) into a RoleName.
func ParseRoleName(s string) (RoleName, error) {
	r := RoleName(s)
	if !r.Valid() {
		return "", Validation("unknown role: "+s, nil)
	}
	return r, nil
}

// Role is a persisted role record. Deleting a role that is still referenced
// by an account is rejected by the store (restrict semantics).
type Role struct {
	ID        int       `json:"id"`
	Name      RoleName  `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
