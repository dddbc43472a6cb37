package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"chronoboard/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by JWTAuthAdminMiddleware.
const (
	CtxAdminToken   = "adminToken"
	CtxAdminSubject = "adminSubject"
	CtxAdminRole    = "adminRole"
)

// SessionValidator checks a bearer token against the live admin sessions.
type SessionValidator interface {
	ValidateSession(ctx context.Context, token string) (*utils.TokenClaims, error)
}

// BearerToken extracts the token from "Authorization: Bearer <token>".
func BearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	return token, token != ""
}

// JWTAuthAdminMiddleware requires a valid admin token whose session is still live.
func JWTAuthAdminMiddleware(sessions SessionValidator, isUnauthorized func(error) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := BearerToken(c)
		if !ok {
			utils.JSONError(c, http.StatusUnauthorized, "Missing or invalid Authorization header", nil)
			return
		}

		claims, err := sessions.ValidateSession(c.Request.Context(), tokenString)
		if err != nil {
			if isUnauthorized != nil && isUnauthorized(err) {
				utils.JSONError(c, http.StatusUnauthorized, "Invalid or expired token", nil)
				return
			}
			utils.JSONError(c, http.StatusInternalServerError, "Could not verify session", err.Error())
			return
		}

		c.Set(CtxAdminToken, tokenString)
		c.Set(CtxAdminSubject, claims.Subject)
		c.Set(CtxAdminRole, claims.Role)
		c.Next()
	}
}

// AdminRole returns the authenticated role, or "".
func AdminRole(c *gin.Context) string {
	return c.GetString(CtxAdminRole)
}

// AdminToken returns the raw bearer token of an authenticated request.
func AdminToken(c *gin.Context) string {
	return c.GetString(CtxAdminToken)
}

// ErrorIs adapts a sentinel into the isUnauthorized callback.
func ErrorIs(target error) func(error) bool {
	return func(err error) bool { return errors.Is(err, target) }
}
