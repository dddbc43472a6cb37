package handlers

import (
	"errors"
	"net/http"

	schoolRepo "chronoboard/database/repository/school"
	"chronoboard/services/board"
	"chronoboard/services/schedule"
	"chronoboard/services/school"
	"chronoboard/services/storage"
	"chronoboard/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	var scheduleErr *schedule.InvalidScheduleError
	var validationErr *school.ValidationError

	switch {
	case errors.As(err, &scheduleErr):
		utils.JSONError(c, http.StatusBadRequest, "Invalid schedule", scheduleErr)
	case errors.As(err, &validationErr):
		utils.JSONError(c, http.StatusBadRequest, "Invalid input", validationErr.Fields)
	case errors.Is(err, school.ErrSchoolNotFound), errors.Is(err, schoolRepo.ErrNotFound):
		utils.JSONError(c, http.StatusNotFound, "School not found", nil)
	case errors.Is(err, school.ErrSchoolExists):
		utils.JSONError(c, http.StatusConflict, "School already exists", nil)
	case errors.Is(err, school.ErrInvalidCredentials):
		utils.JSONError(c, http.StatusUnauthorized, "Invalid credentials", nil)
	case errors.Is(err, school.ErrUnauthorized):
		utils.JSONError(c, http.StatusUnauthorized, "Invalid or expired token", nil)
	case errors.Is(err, storage.ErrStorageDisabled), errors.Is(err, board.ErrHubStopped),
		errors.Is(err, board.ErrNotTracked):
		utils.JSONError(c, http.StatusServiceUnavailable, "Service unavailable", err.Error())
	default:
		utils.GetLogger().Error("Request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
		utils.JSONError(c, http.StatusInternalServerError, "Internal Server Error", nil)
	}
}

// bindJSON decodes the request body or answers 400.
func bindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "Invalid request body", err.Error())
		return false
	}
	return true
}
