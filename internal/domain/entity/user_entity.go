package entity

import (
	"time"
)

// User is the aggregate root for the identity domain
// PasswordHash holds a bcrypt digest; plaintext is never stored.
// VerificationCode is non-empty only while IsVerified is false.
type User struct {
	ID               string
	Email            string
	FullName         string
	PasswordHash     string
	Role             Role
	IsVerified       bool
	VerificationCode string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
