package repository

import (
	"context"

	"github.com/chativo/backend/internal/domain"
)

// UserRepository is the narrow user directory contract the credential core
// depends on.
type UserRepository interface {
	Save(ctx context.Context, user *domain.User) error
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
	List(ctx context.Context, page, limit int) ([]*domain.User, int, error)
	Delete(ctx context.Context, id string) error
}

// ResetCodeRepository persists the one-per-user password reset code rows.
type ResetCodeRepository interface {
	// Upsert overwrites any prior row for the user.
	Upsert(ctx context.Context, code *domain.ResetCode) error
	FindByUserID(ctx context.Context, userID string) (*domain.ResetCode, error)
	// Clear nils out the code and timestamps, keeping the placeholder row.
	Clear(ctx context.Context, userID string) error
}
