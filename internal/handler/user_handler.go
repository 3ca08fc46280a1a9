package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/chativo/backend/internal/dto"
	"github.com/chativo/backend/internal/service"
)

// UserHandler handles user directory requests
type UserHandler struct {
	authService service.AuthService
}

// NewUserHandler creates a new user handler
func NewUserHandler(authService service.AuthService) *UserHandler {
	return &UserHandler{
		authService: authService,
	}
}

// GetUsers returns a page of users
func (h *UserHandler) GetUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	users, total, err := h.authService.GetUsers(c.Request.Context(), page, limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.Envelope{
		Message: "Users retrieved",
		Result:  users,
		Meta:    dto.PageMeta{Page: page, Limit: limit, Total: total},
	})
}

// GetUser returns a single user by id
func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.authService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "User retrieved", user)
}

// UpdateProfile mutates the caller's profile
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req dto.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{
			Error:   "BadRequest",
			Message: err.Error(),
		})
		return
	}

	userID := c.GetString(ContextUserIDKey)

	user, err := h.authService.UpdateProfile(c.Request.Context(), userID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "Profile updated", user)
}

// DeleteUser removes a user from the directory
func (h *UserHandler) DeleteUser(c *gin.Context) {
	if err := h.authService.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	respondOK(c, "User deleted", nil)
}
