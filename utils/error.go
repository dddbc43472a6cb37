package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorResponse defines the structure of error responses
type ErrorResponse struct {
	Error   string      `json:"error"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorHandler is a middleware to catch panics and return structured errors
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				GetLogger().Error("Unhandled panic",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path))

				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error:   "Internal Server Error",
					Details: "An unexpected error occurred. Please try again later.",
				})
			}
		}()
		c.Next()
	}
}

// JSONError sends a standardized JSON error response and aborts the chain.
// 5xx responses are logged at error level, the rest at warn.
func JSONError(c *gin.Context, status int, message string, details interface{}) {
	fields := []zap.Field{
		zap.Int("status", status),
		zap.String("path", c.Request.URL.Path),
		zap.Any("details", details),
	}
	if status >= http.StatusInternalServerError {
		GetLogger().Error(message, fields...)
	} else {
		GetLogger().Warn(message, fields...)
	}
	c.AbortWithStatusJSON(status, ErrorResponse{Error: message, Details: details})
}
