// Package access holds the actor model of the marketplace: roles, the
// capability table consulted by the orchestrator, and the Principal value that
// is threaded explicitly through every workflow call.
package access

// Role is the immutable role a user registers with.
type Role string

const (
	RoleJobSeeker Role = "JOB_SEEKER"
	RoleEmployer  Role = "EMPLOYER"
	RoleAdmin     Role = "ADMIN"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleJobSeeker, RoleEmployer, RoleAdmin:
		return true
	default:
		return false
	}
}

// String returns the string representation of the role.
func (r Role) String() string {
	return string(r)
}

// Principal is the authenticated actor performing an operation.
type Principal struct {
	UserID  int64 `json:"user_id"`
	Role    Role  `json:"role"`
	Enabled bool  `json:"enabled"`
}

// Is reports whether the principal has the given role.
func (p Principal) Is(role Role) bool {
	return p.Role == role
}
