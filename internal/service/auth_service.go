package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chativo/backend/internal/apperr"
	"github.com/chativo/backend/internal/domain"
	"github.com/chativo/backend/internal/dto"
	"github.com/chativo/backend/internal/repository"
	"github.com/chativo/backend/internal/utils"
)

// authService implements AuthService interface
type authService struct {
	userRepo   repository.UserRepository
	resetCodes *ResetCodeStore
	tokens     *utils.TokenService
	notifier   Notifier
	logger     *zap.Logger
	bcryptCost int
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repository.UserRepository,
	resetCodes *ResetCodeStore,
	tokens *utils.TokenService,
	notifier Notifier,
	logger *zap.Logger,
	bcryptCost int,
) AuthService {
	return &authService{
		userRepo:   userRepo,
		resetCodes: resetCodes,
		tokens:     tokens,
		notifier:   notifier,
		logger:     logger,
		bcryptCost: bcryptCost,
	}
}

// Register creates a new user account. Local accounts start inactive until
// the email is verified; federated accounts are active immediately because
// no locally-set password requires verification.
func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*AuthResult, error) {
	if !utils.ValidateEmail(req.Email) {
		return nil, apperr.BadRequest("invalid email format")
	}

	federated := req.Provider != "" && req.ProviderID != ""
	if !federated && req.Password == "" {
		return nil, apperr.BadRequest("password is required")
	}

	_, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err == nil {
		return nil, apperr.Conflict("an account with that email already exists")
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.Internal("failed to check user existence", err)
	}

	var passwordHash string
	if req.Password != "" {
		passwordHash, err = utils.HashPassword(req.Password, s.bcryptCost)
		if err != nil {
			return nil, apperr.Internal("failed to hash password", err)
		}
	}

	user := &domain.User{
		ID:           uuid.New().String(),
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: passwordHash,
		Phone:        req.Phone,
		IsActive:     federated,
	}

	if err := s.userRepo.Save(ctx, user); err != nil {
		// The directory's unique constraint closes the check-then-act
		// window between FindByEmail and Save.
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperr.Conflict("an account with that email already exists")
		}
		return nil, apperr.Internal("failed to create user", err)
	}

	if err := s.resetCodes.CreatePlaceholder(ctx, user.ID); err != nil {
		return nil, apperr.Internal("failed to create reset code row", err)
	}

	view := user.View()

	token, err := s.tokens.Sign(view)
	if err != nil {
		return nil, apperr.Internal("failed to sign token", err)
	}

	if err := s.notifier.SendVerification(ctx, view, token); err != nil {
		s.logger.Warn("failed to dispatch verification notification",
			zap.String("user_id", user.ID), zap.Error(err))
	}

	return &AuthResult{Token: token, User: view}, nil
}

// Login authenticates a user by email and password. Unknown email and wrong
// password produce indistinguishable failures.
func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*AuthResult, error) {
	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.Unauthorized("invalid email or password")
		}
		return nil, apperr.Internal("failed to get user", err)
	}

	if !utils.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperr.Unauthorized("invalid email or password")
	}

	view := user.View()

	token, err := s.tokens.Sign(view)
	if err != nil {
		return nil, apperr.Internal("failed to sign token", err)
	}

	return &AuthResult{Token: token, User: view}, nil
}

// LoginFederated signs in a user asserted by an external identity provider.
// An unknown email is treated as an implicit sign-up through Register; an
// existing user is signed a token without password verification, trusting
// the upstream provider handshake.
func (s *authService) LoginFederated(ctx context.Context, identity *dto.FederatedIdentity) (*AuthResult, error) {
	if identity == nil || identity.Email == "" {
		return nil, apperr.Unauthorized("missing federated identity")
	}

	user, err := s.userRepo.FindByEmail(ctx, identity.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return s.Register(ctx, &dto.RegisterRequest{
				Name:       identity.Name,
				Email:      identity.Email,
				Provider:   identity.Provider,
				ProviderID: identity.ProviderID,
			})
		}
		return nil, apperr.Internal("failed to get user", err)
	}

	view := user.View()

	token, err := s.tokens.Sign(view)
	if err != nil {
		return nil, apperr.Internal("failed to sign token", err)
	}

	return &AuthResult{Token: token, User: view}, nil
}

// VerifyEmail activates the user embedded in a valid verification token.
// Re-verifying an already active user is harmless.
func (s *authService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return err
	}

	if claims.User.ID == "" {
		return apperr.Unauthorized("invalid or expired token")
	}

	if err := s.userRepo.UpdateFields(ctx, claims.User.ID, map[string]any{"is_active": true}); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal("failed to activate user", err)
	}

	return nil
}

// VerifyToken validates a bearer token and returns its claims.
func (s *authService) VerifyToken(ctx context.Context, token string) (*domain.TokenClaims, error) {
	return s.tokens.Verify(token)
}

// DecodeToken reads identity off a token without signature verification.
func (s *authService) DecodeToken(ctx context.Context, token string) (*domain.TokenClaims, error) {
	return s.tokens.Decode(token)
}

// ChangePassword replaces the stored hash after checking the old password.
func (s *authService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal("failed to get user", err)
	}

	if !utils.CheckPasswordHash(oldPassword, user.PasswordHash) {
		return apperr.Unauthorized("invalid password")
	}

	hash, err := utils.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperr.Internal("failed to hash password", err)
	}

	if err := s.userRepo.UpdateFields(ctx, userID, map[string]any{"password_hash": hash}); err != nil {
		return apperr.Internal("failed to update password", err)
	}

	return nil
}

// ForgotPassword issues a reset code and dispatches it to the user's email.
func (s *authService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.Unauthorized("no account with that email")
		}
		return apperr.Internal("failed to get user", err)
	}

	code, err := s.resetCodes.Issue(ctx, user.ID)
	if err != nil {
		return apperr.Internal("failed to issue reset code", err)
	}

	if err := s.notifier.SendResetCode(ctx, user.View(), code); err != nil {
		s.logger.Warn("failed to dispatch reset code notification",
			zap.String("user_id", user.ID), zap.Error(err))
	}

	return nil
}

// VerifyForgotPassword checks a reset code against the stored one.
func (s *authService) VerifyForgotPassword(ctx context.Context, code int, userID string) error {
	return s.resetCodes.Validate(ctx, userID, code)
}

// ResetPassword persists the hash of the new password. The caller is
// expected to have verified the reset code first; the two calls are a
// sequencing contract, not a transaction. The code is cleared afterwards
// so it cannot be replayed within its TTL.
func (s *authService) ResetPassword(ctx context.Context, newPassword, userID string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal("failed to get user", err)
	}

	hash, err := utils.HashPassword(newPassword, s.bcryptCost)
	if err != nil {
		return apperr.Internal("failed to hash password", err)
	}

	if err := s.userRepo.UpdateFields(ctx, user.ID, map[string]any{"password_hash": hash}); err != nil {
		return apperr.Internal("failed to update password", err)
	}

	if err := s.resetCodes.Clear(ctx, user.ID); err != nil {
		s.logger.Warn("failed to clear reset code after reset",
			zap.String("user_id", user.ID), zap.Error(err))
	}

	return nil
}

// GetUser returns the public projection of a user.
func (s *authService) GetUser(ctx context.Context, id string) (domain.UserView, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return domain.UserView{}, apperr.NotFound("user not found")
		}
		return domain.UserView{}, apperr.Internal("failed to get user", err)
	}

	return user.View(), nil
}

// GetUsers returns a page of user projections and the total count.
func (s *authService) GetUsers(ctx context.Context, page, limit int) ([]domain.UserView, int, error) {
	users, total, err := s.userRepo.List(ctx, page, limit)
	if err != nil {
		return nil, 0, apperr.Internal("failed to list users", err)
	}

	views := make([]domain.UserView, 0, len(users))
	for _, user := range users {
		views = append(views, user.View())
	}

	return views, total, nil
}

// UpdateProfile mutates the caller's name and phone.
func (s *authService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (domain.UserView, error) {
	fields := map[string]any{}
	if req.Name != "" {
		fields["name"] = req.Name
	}
	if req.Phone != "" {
		fields["phone"] = req.Phone
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(ctx, userID, fields); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return domain.UserView{}, apperr.NotFound("user not found")
			}
			return domain.UserView{}, apperr.Internal("failed to update profile", err)
		}
	}

	return s.GetUser(ctx, userID)
}

// DeleteUser removes a user from the directory.
func (s *authService) DeleteUser(ctx context.Context, id string) error {
	if err := s.userRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return apperr.Internal("failed to delete user", err)
	}
	return nil
}
