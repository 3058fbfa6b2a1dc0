package handlers

import (
	"errors"
	"net/http"

	"github.com/birlikkoshan/todo-tracker/internal/logging"
	"github.com/birlikkoshan/todo-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// writeError maps service errors to status codes. Anything unknown is a 500
// and is logged; the client only sees a generic message.
func writeError(c *gin.Context, log logging.Logger, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrValidation), errors.Is(err, service.ErrInvalidDueDate):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials):
		status = http.StatusUnauthorized
	}

	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		log.Error(c.Request.Context(), "request failed", "path", c.FullPath(), "error", err)
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
