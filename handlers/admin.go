package handlers

import (
	"net/http"
	"strconv"

	"chronoboard/middleware"
	"chronoboard/models"
	"chronoboard/services/school"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the school admin panel API.
type AdminHandler struct {
	Schools school.SchoolService
}

func NewAdminHandler(schools school.SchoolService) *AdminHandler {
	return &AdminHandler{Schools: schools}
}

// LoginHandler authenticates the admin of :schoolId.
func (h *AdminHandler) LoginHandler(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.Schools.AuthenticateAdmin(c.Request.Context(), c.Param("schoolId"), req.Password, middleware.ClientIP(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// LogoutHandler revokes the caller's session.
func (h *AdminHandler) LogoutHandler(c *gin.Context) {
	if err := h.Schools.Logout(c.Request.Context(), middleware.AdminToken(c)); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetSchoolHandler returns the full record for the admin panel.
func (h *AdminHandler) GetSchoolHandler(c *gin.Context) {
	s, err := h.Schools.GetPublicSchool(c.Request.Context(), c.Param("schoolId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *AdminHandler) ReplaceScheduleHandler(c *gin.Context) {
	var req models.ScheduleUpdate
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.Schools.ReplaceSchedule(c.Request.Context(), c.Param("schoolId"), req.Schedule, middleware.AdminRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *AdminHandler) UpdateDesignHandler(c *gin.Context) {
	var req models.DesignUpdate
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.Schools.UpdateDesign(c.Request.Context(), c.Param("schoolId"), req, middleware.AdminRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *AdminHandler) ResetDesignHandler(c *gin.Context) {
	s, err := h.Schools.ResetDesign(c.Request.Context(), c.Param("schoolId"), middleware.AdminRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *AdminHandler) UpdateBellHandler(c *gin.Context) {
	var req models.BellUpdate
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.Schools.UpdateBell(c.Request.Context(), c.Param("schoolId"), req, middleware.AdminRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *AdminHandler) UpdateContentHandler(c *gin.Context) {
	var req models.ContentUpdate
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.Schools.UpdateContent(c.Request.Context(), c.Param("schoolId"), req, middleware.AdminRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *AdminHandler) UpdateProfileHandler(c *gin.Context) {
	var req models.ProfileUpdate
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.Schools.UpdateProfile(c.Request.Context(), c.Param("schoolId"), req, middleware.AdminRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

// ChangePasswordHandler rotates the password and returns a fresh token;
// every older token of the school stops working.
func (h *AdminHandler) ChangePasswordHandler(c *gin.Context) {
	var req models.PasswordChange
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.Schools.ChangeAdminPassword(c.Request.Context(), c.Param("schoolId"), req, middleware.AdminRole(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListAuditLogsHandler returns the newest entries first; ?limit= caps the count.
func (h *AdminHandler) ListAuditLogsHandler(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	logs, err := h.Schools.ListAuditLogs(c.Request.Context(), c.Param("schoolId"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

func (h *AdminHandler) ClearAuditLogsHandler(c *gin.Context) {
	removed, err := h.Schools.ClearAuditLogs(c.Request.Context(), c.Param("schoolId"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed})
}
