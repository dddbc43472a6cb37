package handlers

import (
	"net/http"

	"chronoboard/middleware"
	"chronoboard/models"
	"chronoboard/services/school"

	"github.com/gin-gonic/gin"
)

// SuperAdminHandler manages the set of schools.
type SuperAdminHandler struct {
	Schools school.SchoolService
}

func NewSuperAdminHandler(schools school.SchoolService) *SuperAdminHandler {
	return &SuperAdminHandler{Schools: schools}
}

func (h *SuperAdminHandler) LoginHandler(c *gin.Context) {
	var req models.LoginRequest
	if !bindJSON(c, &req) {
		return
	}
	resp, err := h.Schools.AuthenticateSuperAdmin(c.Request.Context(), req.Password, middleware.ClientIP(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *SuperAdminHandler) ListSchoolsHandler(c *gin.Context) {
	schools, err := h.Schools.ListSchools(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"schools": schools})
}

func (h *SuperAdminHandler) CreateSchoolHandler(c *gin.Context) {
	var req models.CreateSchoolRequest
	if !bindJSON(c, &req) {
		return
	}
	s, err := h.Schools.CreateSchool(c.Request.Context(), req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *SuperAdminHandler) DeleteSchoolHandler(c *gin.Context) {
	if err := h.Schools.DeleteSchool(c.Request.Context(), c.Param("schoolId")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
