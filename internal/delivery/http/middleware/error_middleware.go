package middleware

import (
	"errors"
	"go-workspace-portal/internal/delivery/http/response"
	"go-workspace-portal/pkg/apperror"
	"go-workspace-portal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		// Check if there are errors appended to the context
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err
			var appErr *apperror.AppError
			if errors.As(err, &appErr) {
				response.Error(c, appErr.Code, appErr.Message, nil)
			} else {
				// SECURITY: Never expose internal error details to clients.
				// Log the actual error server-side, send a generic message.
				logger.Log.Error("unhandled request error", "path", c.Request.URL.Path, "error", err)
				response.Error(c, http.StatusInternalServerError, "An unexpected error occurred. Please try again later.", nil)
			}
		}
	}
}
