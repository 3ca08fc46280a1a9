package service

import (
	"context"
	"math/rand"
	"time"

	"github.com/chativo/backend/internal/domain"
	"github.com/chativo/backend/internal/dto"
)

// AuthService defines the command surface of the credential core.
type AuthService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*AuthResult, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*AuthResult, error)
	LoginFederated(ctx context.Context, identity *dto.FederatedIdentity) (*AuthResult, error)
	VerifyEmail(ctx context.Context, token string) error
	VerifyToken(ctx context.Context, token string) (*domain.TokenClaims, error)
	DecodeToken(ctx context.Context, token string) (*domain.TokenClaims, error)
	ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error
	ForgotPassword(ctx context.Context, email string) error
	VerifyForgotPassword(ctx context.Context, code int, userID string) error
	ResetPassword(ctx context.Context, newPassword, userID string) error
	GetUser(ctx context.Context, id string) (domain.UserView, error)
	GetUsers(ctx context.Context, page, limit int) ([]domain.UserView, int, error)
	UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (domain.UserView, error)
	DeleteUser(ctx context.Context, id string) error
}

// AuthResult is the outcome of a successful register or login.
type AuthResult struct {
	Token string          `json:"token"`
	User  domain.UserView `json:"user"`
}

// Notifier dispatches notifications to users. Calls are fire-and-forget:
// a delivery failure never fails the enclosing credential operation.
type Notifier interface {
	SendVerification(ctx context.Context, user domain.UserView, token string) error
	SendResetCode(ctx context.Context, user domain.UserView, code int) error
}

// Clock is the source of now, injectable for expiry tests.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to the Clock interface.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock {
	return ClockFunc(time.Now)
}

// CodeGenerator produces reset codes. The 4-digit numeric format is part of
// the recovery protocol; the generator is an interface so the default
// math/rand source can be swapped for a cryptographic one.
type CodeGenerator interface {
	Code() int
}

// CodeGeneratorFunc adapts a function to the CodeGenerator interface.
type CodeGeneratorFunc func() int

func (f CodeGeneratorFunc) Code() int { return f() }

// PseudoRandomCodes returns the default generator producing codes in
// [1000, 9999] from math/rand.
func PseudoRandomCodes() CodeGenerator {
	return CodeGeneratorFunc(func() int {
		return 1000 + rand.Intn(9000)
	})
}
