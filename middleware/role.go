package middleware

import (
	"net/http"

	"chronoboard/models"
	"chronoboard/utils"

	"github.com/gin-gonic/gin"
)

// RequireSchoolAccess lets through super admins and the admin of :schoolId.
func RequireSchoolAccess(param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		switch c.GetString(CtxAdminRole) {
		case models.RoleSuperAdmin:
			c.Next()
		case models.RoleSchoolAdmin:
			if c.GetString(CtxAdminSubject) != c.Param(param) {
				utils.JSONError(c, http.StatusForbidden, "Token does not grant access to this school", nil)
				return
			}
			c.Next()
		default:
			utils.JSONError(c, http.StatusForbidden, "Admin role required", nil)
		}
	}
}

// RequireSuperAdmin restricts a group to super admin tokens.
func RequireSuperAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxAdminRole) != models.RoleSuperAdmin {
			utils.JSONError(c, http.StatusForbidden, "Super admin role required", nil)
			return
		}
		c.Next()
	}
}
