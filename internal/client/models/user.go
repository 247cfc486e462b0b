// Package models defines the data structures exchanged with the storefront
// backend and persisted in the local profile store.
package models

// User roles as reported by the backend.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

// User is the authenticated identity, loaded once per session from the
// backend and cached wholesale under the current-user key.
type User struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      string `json:"role,omitempty"`
	IsActive  bool   `json:"is_active,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// Credentials is the login request payload.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Registration is the register request payload.
type Registration struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
