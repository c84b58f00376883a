package entity

import (
	"time"

	"github.com/garyjia/jobsphere/internal/domain/access"
)

// User is a registered marketplace account
type User struct {
	ID        int64       `json:"id"`
	Email     string      `json:"email"`
	FirstName string      `json:"first_name"`
	LastName  string      `json:"last_name"`
	Role      access.Role `json:"role"`
	Enabled   bool        `json:"enabled"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// Principal returns the acting identity of the user
func (u *User) Principal() access.Principal {
	return access.Principal{UserID: u.ID, Role: u.Role, Enabled: u.Enabled}
}
