package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"chronoboard/models"
	"chronoboard/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRevoked = errors.New("revoked")

type stubSessions map[string]*utils.TokenClaims

func (s stubSessions) ValidateSession(_ context.Context, token string) (*utils.TokenClaims, error) {
	if token == "broken" {
		return nil, errors.New("redis down")
	}
	if claims, ok := s[token]; ok {
		return claims, nil
	}
	return nil, errRevoked
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	sessions := stubSessions{
		"school-a": {Subject: "a", Role: models.RoleSchoolAdmin},
		"root":     {Subject: models.SuperAdminSubject, Role: models.RoleSuperAdmin},
	}
	r := gin.New()
	admin := r.Group("/schools/:schoolId", JWTAuthAdminMiddleware(sessions, ErrorIs(errRevoked)), RequireSchoolAccess("schoolId"))
	admin.GET("/secret", func(c *gin.Context) { c.String(http.StatusOK, AdminRole(c)) })
	super := r.Group("/super", JWTAuthAdminMiddleware(sessions, ErrorIs(errRevoked)), RequireSuperAdmin())
	super.GET("/schools", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAdminAccess(t *testing.T) {
	r := newRouter()
	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"no token", "/schools/a/secret", "", http.StatusUnauthorized},
		{"revoked token", "/schools/a/secret", "gone", http.StatusUnauthorized},
		{"session store failure", "/schools/a/secret", "broken", http.StatusInternalServerError},
		{"own school", "/schools/a/secret", "school-a", http.StatusOK},
		{"other school", "/schools/b/secret", "school-a", http.StatusForbidden},
		{"super admin on any school", "/schools/b/secret", "root", http.StatusOK},
		{"school admin on super routes", "/super/schools", "school-a", http.StatusForbidden},
		{"super admin on super routes", "/super/schools", "root", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.status, do(r, tt.path, tt.token).Code)
		})
	}
}

func TestRateLimiter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewRateLimiter("login", 2, 2)
	r := gin.New()
	require.NoError(t, TrustProxies(r, nil))
	r.GET("/login", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/login", nil)
		req.RemoteAddr = ip + ":40000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusNoContent, call("1.1.1.1"))
	assert.Equal(t, http.StatusNoContent, call("1.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("1.1.1.1"))
	assert.Equal(t, http.StatusNoContent, call("2.2.2.2"))
}

func TestRateLimiterIgnoresForwardedHeadersFromUntrustedPeer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewRateLimiter("login", 1, 3)
	r := gin.New()
	require.NoError(t, TrustProxies(r, nil))
	r.POST("/login", limiter.Middleware(), func(c *gin.Context) { c.Status(http.StatusUnauthorized) })

	limited := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", nil)
		req.RemoteAddr = "203.0.113.7:51000"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.1.%d.%d", i/250, i%250))
		req.Header.Set("X-Real-IP", fmt.Sprintf("10.2.0.%d", i))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		if w.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	assert.Equal(t, 47, limited)
}

func TestClientIP(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tests := []struct {
		name    string
		trusted []string
		headers map[string]string
		remote  string
		want    string
	}{
		{"untrusted peer spoofs forwarded chain", nil, map[string]string{"X-Forwarded-For": "9.9.9.9, 10.0.0.1"}, "1.2.3.4:5", "1.2.3.4"},
		{"untrusted peer spoofs real ip", nil, map[string]string{"X-Real-IP": "8.8.8.8"}, "1.2.3.4:5", "1.2.3.4"},
		{"trusted proxy forwards client", []string{"10.0.0.0/8"}, map[string]string{"X-Forwarded-For": "9.9.9.9"}, "10.0.0.2:5", "9.9.9.9"},
		{"remote addr", nil, nil, "1.2.3.4:5678", "1.2.3.4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			require.NoError(t, TrustProxies(r, tt.trusted))
			var got string
			r.GET("/", func(c *gin.Context) { got = ClientIP(c) })

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			r.ServeHTTP(httptest.NewRecorder(), req)
			assert.Equal(t, tt.want, got)
		})
	}
}
