// Package models defines the storefront domain records shared by the
// repositories, services and the HTTP layer.
package models

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User is a stored account. PasswordHash never leaves the server.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"name"`
	IsAdmin      bool      `json:"isAdmin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Identity is the caller as freshly loaded from the credential store.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"name"`
	IsAdmin     bool   `json:"isAdmin"`
}

func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email, DisplayName: u.DisplayName, IsAdmin: u.IsAdmin}
}

// HasRole reports whether the identity satisfies role. Admins satisfy every role.
func (i Identity) HasRole(role Role) bool {
	switch role {
	case RoleUser:
		return i.ID != ""
	case RoleAdmin:
		return i.IsAdmin
	default:
		return false
	}
}
