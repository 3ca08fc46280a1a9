package dto

// RegisterRequest represents a registration request. Password is optional:
// accounts originating from a federated identity provider carry provider
// fields instead of a local password.
type RegisterRequest struct {
	Name       string `json:"name" binding:"required" validate:"required"`
	Email      string `json:"email" binding:"required,email" validate:"required,email"`
	Password   string `json:"password,omitempty" validate:"omitempty,min=8"`
	Phone      string `json:"phone,omitempty" validate:"omitempty"`
	Provider   string `json:"provider,omitempty"`
	ProviderID string `json:"providerId,omitempty"`
}

// LoginRequest represents a credential login request.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" validate:"required,email"`
	Password string `json:"password" binding:"required" validate:"required"`
}

// FederatedIdentity is the identity payload yielded by an OAuth provider
// handshake. The handshake itself happens upstream; only this payload
// crosses into the auth service.
type FederatedIdentity struct {
	Email      string `json:"email" binding:"required,email" validate:"required,email"`
	Name       string `json:"name" binding:"required" validate:"required"`
	Provider   string `json:"provider" binding:"required" validate:"required"`
	ProviderID string `json:"providerId" binding:"required" validate:"required"`
	Picture    string `json:"picture,omitempty"`
}

// ChangePasswordRequest represents a password change for an authenticated user.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required" validate:"required"`
	NewPassword string `json:"newPassword" binding:"required,min=8" validate:"required,min=8"`
}

// ForgotPasswordRequest starts the reset-code protocol.
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required,email" validate:"required,email"`
}

// VerifyForgotPasswordRequest checks a previously issued reset code.
type VerifyForgotPasswordRequest struct {
	Code   int    `json:"code" binding:"required" validate:"required"`
	UserID string `json:"userId" binding:"required" validate:"required"`
}

// ResetPasswordRequest sets a new password after the reset code was verified.
type ResetPasswordRequest struct {
	NewPassword string `json:"newPassword" binding:"required,min=8" validate:"required,min=8"`
	UserID      string `json:"userId" binding:"required" validate:"required"`
}

// UpdateProfileRequest mutates the caller's profile fields.
type UpdateProfileRequest struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Envelope is the success response shape shared by all operations.
type Envelope struct {
	Message string `json:"message"`
	Result  any    `json:"result,omitempty"`
	Meta    any    `json:"meta,omitempty"`
}

// PageMeta describes a paginated result set.
type PageMeta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
}

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}
