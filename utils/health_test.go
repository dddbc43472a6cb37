package utils

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRunHealthCheck(t *testing.T) {
	probes := []HealthProbe{
		{Name: "firestore", Check: func(context.Context) error { return nil }},
		{Name: "redis-cache", Check: func(context.Context) error { return errors.New("down") }},
	}

	status := RunHealthCheck(context.Background(), probes)
	assert.False(t, status.Healthy)
	assert.True(t, status.Services["firestore"])
	assert.False(t, status.Services["redis-cache"])

	stored := GetHealthStatus()
	assert.Equal(t, status.Services, stored.Services)

	// callers get a copy
	stored.Services["firestore"] = false
	assert.True(t, GetHealthStatus().Services["firestore"])

	assert.True(t, RunHealthCheck(context.Background(), nil).Healthy)
}

func TestErrorHandlerRecoversPanics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandler())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })
	r.GET("/bad", func(c *gin.Context) {
		JSONError(c, http.StatusBadRequest, "Invalid input", map[string]string{"field": "name"})
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"Internal Server Error"`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/bad", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Invalid input","details":{"field":"name"}}`, w.Body.String())
}
