package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/chativo/backend/internal/domain"
	"github.com/chativo/backend/pkg/database"
)

// resetCodeRepository implements ResetCodeRepository interface
type resetCodeRepository struct {
	db *database.Postgres
}

// NewResetCodeRepository creates a new reset code repository
func NewResetCodeRepository(db *database.Postgres) ResetCodeRepository {
	return &resetCodeRepository{db: db}
}

// Upsert inserts or overwrites the single reset code row for a user
func (r *resetCodeRepository) Upsert(ctx context.Context, code *domain.ResetCode) error {
	query := `
		INSERT INTO reset_codes (user_id, code, issued_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE
		SET code = EXCLUDED.code, issued_at = EXCLUDED.issued_at, expires_at = EXCLUDED.expires_at
	`

	_, err := r.db.DB.ExecContext(ctx, query,
		code.UserID,
		nullInt(code.Code),
		nullTime(code.IssuedAt),
		nullTime(code.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert reset code: %w", err)
	}

	return nil
}

// FindByUserID retrieves the reset code row for a user
func (r *resetCodeRepository) FindByUserID(ctx context.Context, userID string) (*domain.ResetCode, error) {
	query := `
		SELECT user_id, code, issued_at, expires_at
		FROM reset_codes
		WHERE user_id = $1
	`

	rc := &domain.ResetCode{}
	var code sql.NullInt64
	var issuedAt, expiresAt sql.NullTime

	err := r.db.DB.QueryRowContext(ctx, query, userID).Scan(
		&rc.UserID,
		&code,
		&issuedAt,
		&expiresAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("reset code for user %s not found: %w", userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get reset code: %w", err)
	}

	if code.Valid {
		v := int(code.Int64)
		rc.Code = &v
	}
	if issuedAt.Valid {
		rc.IssuedAt = &issuedAt.Time
	}
	if expiresAt.Valid {
		rc.ExpiresAt = &expiresAt.Time
	}

	return rc, nil
}

// Clear resets the row back to its placeholder state
func (r *resetCodeRepository) Clear(ctx context.Context, userID string) error {
	query := `
		UPDATE reset_codes
		SET code = NULL, issued_at = NULL, expires_at = NULL
		WHERE user_id = $1
	`

	if _, err := r.db.DB.ExecContext(ctx, query, userID); err != nil {
		return fmt.Errorf("failed to clear reset code: %w", err)
	}

	return nil
}

func nullInt(v *int) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*v), Valid: true}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
