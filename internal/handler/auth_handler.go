package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chativo/backend/internal/dto"
	"github.com/chativo/backend/internal/service"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "BadRequest",
			Message: err.Error(),
		})
		return
	}

	result, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondCreated(c, "User created", result)
}

// Login handles credential login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "BadRequest",
			Message: err.Error(),
		})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Login successful", result)
}

// LoginFederated handles sign-in with a federated identity payload
func (h *AuthHandler) LoginFederated(c *gin.Context) {
	var identity dto.FederatedIdentity
	if err := c.ShouldBindJSON(&identity); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "BadRequest",
			Message: err.Error(),
		})
		return
	}

	result, err := h.authService.LoginFederated(c.Request.Context(), &identity)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Login successful", result)
}

// VerifyEmail activates the account embedded in the verification token
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := c.Query("token")

	if err := h.authService.VerifyEmail(c.Request.Context(), token); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Email verified.", nil)
}

// ChangePassword replaces the caller's password after checking the old one
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "BadRequest",
			Message: err.Error(),
		})
		return
	}

	userID := c.GetString(ContextUserIDKey)

	if err := h.authService.ChangePassword(c.Request.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Password changed", nil)
}

// ForgotPassword issues a reset code for the given email
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "BadRequest",
			Message: err.Error(),
		})
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req.Email); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Reset code sent", nil)
}

// VerifyForgotPassword checks a previously issued reset code
func (h *AuthHandler) VerifyForgotPassword(c *gin.Context) {
	var req dto.VerifyForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "BadRequest",
			Message: err.Error(),
		})
		return
	}

	if err := h.authService.VerifyForgotPassword(c.Request.Context(), req.Code, req.UserID); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Code verified", nil)
}

// ResetPassword sets a new password after the code was verified
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "BadRequest",
			Message: err.Error(),
		})
		return
	}

	if err := h.authService.ResetPassword(c.Request.Context(), req.NewPassword, req.UserID); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Password reset", nil)
}
