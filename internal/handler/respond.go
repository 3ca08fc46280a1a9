package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/chativo/backend/internal/apperr"
	"github.com/chativo/backend/internal/dto"
)

func respondOK(c *gin.Context, message string, result any) {
	c.JSON(http.StatusOK, dto.Envelope{Message: message, Result: result})
}

func respondCreated(c *gin.Context, message string, result any) {
	c.JSON(http.StatusCreated, dto.Envelope{Message: message, Result: result})
}

// respondError maps a typed failure to its HTTP status, leaking only the
// kind and the human message.
func respondError(c *gin.Context, err error) {
	c.JSON(apperr.HTTPStatus(err), dto.ErrorResponse{
		Error:   string(apperr.KindOf(err)),
		Message: apperr.MessageOf(err),
	})
}
