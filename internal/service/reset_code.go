package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chativo/backend/internal/apperr"
	"github.com/chativo/backend/internal/domain"
	"github.com/chativo/backend/internal/repository"
)

// ResetCodeStore issues and validates the short-lived numeric codes used
// for password recovery. At most one live code exists per user; a new
// issuance overwrites the previous one.
type ResetCodeStore struct {
	repo  repository.ResetCodeRepository
	clock Clock
	gen   CodeGenerator
	ttl   time.Duration
}

// NewResetCodeStore creates a new reset code store
func NewResetCodeStore(repo repository.ResetCodeRepository, clock Clock, gen CodeGenerator, ttl time.Duration) *ResetCodeStore {
	return &ResetCodeStore{
		repo:  repo,
		clock: clock,
		gen:   gen,
		ttl:   ttl,
	}
}

// CreatePlaceholder writes the empty row for a freshly registered user.
func (s *ResetCodeStore) CreatePlaceholder(ctx context.Context, userID string) error {
	rc := &domain.ResetCode{UserID: userID}
	if err := s.repo.Upsert(ctx, rc); err != nil {
		return fmt.Errorf("failed to create reset code placeholder: %w", err)
	}
	return nil
}

// Issue generates a fresh code for the user, overwriting any prior one.
func (s *ResetCodeStore) Issue(ctx context.Context, userID string) (int, error) {
	code := s.gen.Code()
	now := s.clock.Now()
	expiresAt := now.Add(s.ttl)

	rc := &domain.ResetCode{
		UserID:    userID,
		Code:      &code,
		IssuedAt:  &now,
		ExpiresAt: &expiresAt,
	}

	if err := s.repo.Upsert(ctx, rc); err != nil {
		return 0, fmt.Errorf("failed to issue reset code: %w", err)
	}

	return code, nil
}

// Validate checks the code against the stored row. The code is matched
// before expiry is considered, so exactly one failure reason is reported:
// an expired-but-matching code fails with the expiry reason.
func (s *ResetCodeStore) Validate(ctx context.Context, userID string, code int) error {
	rc, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.Unauthorized("invalid code")
		}
		return apperr.Internal("failed to look up reset code", err)
	}

	if rc.Code == nil || *rc.Code != code {
		return apperr.Unauthorized("invalid code")
	}

	if rc.ExpiresAt == nil || !s.clock.Now().Before(*rc.ExpiresAt) {
		return apperr.Unauthorized("reset code expired")
	}

	return nil
}

// Clear invalidates the user's code so it cannot reset the password twice.
func (s *ResetCodeStore) Clear(ctx context.Context, userID string) error {
	if err := s.repo.Clear(ctx, userID); err != nil {
		return fmt.Errorf("failed to clear reset code: %w", err)
	}
	return nil
}
