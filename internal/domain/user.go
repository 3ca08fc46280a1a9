package domain

import "time"

// User represents a user in the system. PasswordHash is empty for accounts
// created through a federated identity provider.
type User struct {
	ID           string    `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	Phone        string    `json:"phone,omitempty" db:"phone"`
	IsActive     bool      `json:"is_active" db:"is_active"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// UserView is the public projection of a user, safe to embed in tokens
// and responses. It never carries the password hash.
type UserView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// View strips the user to its public projection.
func (u *User) View() UserView {
	return UserView{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// ResetCode is the one-per-user password recovery secret. A placeholder row
// with nil code and timestamps is created at registration and populated the
// first time forgot-password is invoked.
type ResetCode struct {
	UserID    string     `json:"user_id" db:"user_id"`
	Code      *int       `json:"-" db:"code"`
	IssuedAt  *time.Time `json:"issued_at" db:"issued_at"`
	ExpiresAt *time.Time `json:"expires_at" db:"expires_at"`
}
