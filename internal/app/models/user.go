package models

import (
	"time"
)

// Role is the account role tag. Exactly three values are valid; the rule is
// enforced both by the validation layer and by a CHECK constraint on the
// users table.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleUser    Role = "user"
	RoleManager Role = "manager"
)

// Valid reports whether the role is one of the enumerated values.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleUser, RoleManager:
		return true
	}
	return false
}

// User defines the account model based on the 'users' table
type User struct {
	ID          int64      `json:"id" db:"id"`                               // Generated account id, distinct from the login ID
	LoginID     string     `json:"loginId" db:"login_id"`                    // Unique human-chosen identifier
	Password    string     `json:"-" db:"password"`                          // bcrypt hash (excluded from JSON)
	Role        Role       `json:"role" db:"role"`                           // admin, user or manager
	Email       string     `json:"email" db:"email"`                         // Account email address
	FirstName   string     `json:"firstName" db:"first_name"`                // First name
	LastName    string     `json:"lastName" db:"last_name"`                  // Last name
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`                // Creation timestamp
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`                // Last update timestamp
	LastLoginAt *time.Time `json:"lastLoginAt,omitempty" db:"last_login_at"` // Last successful login (nullable)
}
