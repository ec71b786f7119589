package model

import "time"

// Role is the single authority granted to a user. Signup always grants
// RolePlayer; RoleAdmin is reserved and no operation assigns it.
type Role string

const (
	RolePlayer Role = "USER_PLAYER"
	RoleAdmin  Role = "USER_ADMIN"
)

// User represents a user in the database.
type User struct {
	ID           int64
	FirstName    string
	LastName     string
	Username     string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the identity behind an authenticated request.
type Principal struct {
	UserID   int64
	Username string
	Email    string
	Role     Role
}

// PrincipalOf returns the principal for u.
func PrincipalOf(u *User) Principal {
	return Principal{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}
}

// UserProfile is the public view of a user.
type UserProfile struct {
	Username string `json:"username"`
}
