package utils

import (
	"errors"

	"gamerscove/apperror"
	"gamerscove/logger"

	"github.com/gin-gonic/gin"
)

// AbortWithError maps a service error to its HTTP status and writes the
// standard {"error": message} body. Internal errors are logged but only a
// generic message leaves the server.
func AbortWithError(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)

	message := err.Error()
	var appErr *apperror.AppError
	if !errors.As(err, &appErr) {
		logger.Log.Errorw("unhandled error", "path", c.FullPath(), "error", err)
		message = "internal server error"
	}

	c.AbortWithStatusJSON(status, gin.H{"error": message})
}
