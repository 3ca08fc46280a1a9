package gateway

import (
	"net/http"

	"github.com/chativo/backend/internal/dto"
)

// Command is one entry of the gateway dispatch table. It binds a stable
// operation identifier to its inbound route, its downstream auth-service
// path, an auth precondition, and an optional payload prototype that is
// validated before forwarding.
type Command struct {
	Name         string
	Method       string
	Route        string // route exposed by the gateway
	Path         string // downstream auth-service path
	RequiresAuth bool
	Payload      func() any
}

// Commands returns the full dispatch table. Operation identifiers are the
// stable names of the command surface, independent of transport.
func Commands() []Command {
	return []Command{
		{
			Name:    "register",
			Method:  http.MethodPost,
			Route:   "/auth/register",
			Path:    "/api/v1/auth/register",
			Payload: func() any { return &dto.RegisterRequest{} },
		},
		{
			Name:    "login",
			Method:  http.MethodPost,
			Route:   "/auth/login",
			Path:    "/api/v1/auth/login",
			Payload: func() any { return &dto.LoginRequest{} },
		},
		{
			Name:    "login-federated",
			Method:  http.MethodPost,
			Route:   "/auth/google",
			Path:    "/api/v1/auth/login-google",
			Payload: func() any { return &dto.FederatedIdentity{} },
		},
		{
			Name:   "verify-email",
			Method: http.MethodPost,
			Route:  "/auth/verify",
			Path:   "/api/v1/auth/verify-email",
		},
		{
			Name:         "change-password",
			Method:       http.MethodPost,
			Route:        "/auth/change-password",
			Path:         "/api/v1/auth/change-password",
			RequiresAuth: true,
			Payload:      func() any { return &dto.ChangePasswordRequest{} },
		},
		{
			Name:    "forgot-password",
			Method:  http.MethodPost,
			Route:   "/auth/forgot-password",
			Path:    "/api/v1/auth/forgot-password",
			Payload: func() any { return &dto.ForgotPasswordRequest{} },
		},
		{
			Name:    "verify-forgot-password",
			Method:  http.MethodPost,
			Route:   "/auth/verify-forgot-password",
			Path:    "/api/v1/auth/verify-forgot-password",
			Payload: func() any { return &dto.VerifyForgotPasswordRequest{} },
		},
		{
			Name:    "reset-password",
			Method:  http.MethodPost,
			Route:   "/auth/reset-password",
			Path:    "/api/v1/auth/reset-password",
			Payload: func() any { return &dto.ResetPasswordRequest{} },
		},
		{
			Name:         "get-users",
			Method:       http.MethodGet,
			Route:        "/users",
			Path:         "/api/v1/users",
			RequiresAuth: true,
		},
		{
			Name:         "get-user",
			Method:       http.MethodGet,
			Route:        "/users/:id",
			Path:         "/api/v1/users/:id",
			RequiresAuth: true,
		},
		{
			Name:         "update-profile",
			Method:       http.MethodPost,
			Route:        "/users/update-profile",
			Path:         "/api/v1/users/update-profile",
			RequiresAuth: true,
			Payload:      func() any { return &dto.UpdateProfileRequest{} },
		},
		{
			Name:         "delete-user",
			Method:       http.MethodDelete,
			Route:        "/users/:id",
			Path:         "/api/v1/users/:id",
			RequiresAuth: true,
		},
	}
}
