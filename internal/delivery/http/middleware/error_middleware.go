package middleware

import (
	"errors"
	"net/http"

	"skillijob-backend/internal/delivery/http/response"
	"skillijob-backend/pkg/apperror"
	"skillijob-backend/pkg/logger"

	"github.com/gin-gonic/gin"
)

// ErrorHandler renders the last error pushed with c.Error. AppErrors keep
// their code, message and details; anything else becomes a generic 500.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			if appErr.Code >= http.StatusInternalServerError {
				logger.Log.Error("Request failed",
					"request_id", response.RequestID(c),
					"path", c.FullPath(),
					"status", appErr.Code,
					"error", err,
					"cause", appErr.Err,
				)
			}
			response.Error(c, appErr.Code, appErr.Message, appErr.Details)
			return
		}

		// Internal details stay in the log, never in the response.
		logger.Log.Error("Internal Server Error",
			"request_id", response.RequestID(c),
			"path", c.FullPath(),
			"error", err,
		)
		response.Error(c, http.StatusInternalServerError, "Une erreur inattendue est survenue. Veuillez réessayer plus tard.", nil)
	}
}
