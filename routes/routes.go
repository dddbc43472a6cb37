package routes

import (
	"time"

	"chronoboard/handlers"
	"chronoboard/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterPublicRoutes registers the unauthenticated board and helper endpoints.
func RegisterPublicRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)

	api := r.Group("/api")
	{
		api.GET("/bell-presets", hb.BellPresetsHandler)
		api.GET("/colors/convert", hb.ConvertColorHandler)

		board := api.Group("/schools/:schoolId/board")
		board.GET("", hb.GetBoardHandler)
		board.GET("/state", hb.GetBoardStateHandler)
		board.GET("/ws", hb.StreamBoardHandler)
	}
}

// RegisterSchoolAdminRoutes registers the per-school admin panel endpoints.
func RegisterSchoolAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	admin := r.Group("/api/schools/:schoolId/admin")
	{
		admin.POST("/login", hb.LoginRateLimitMiddleware, hb.AdminLoginHandler)

		// Protected routes (school admin of :schoolId or super admin)
		protected := admin.Group("")
		protected.Use(hb.AdminAuthMiddleware, middleware.RequireSchoolAccess("schoolId"))
		protected.POST("/logout", hb.AdminLogoutHandler)
		protected.GET("", hb.GetAdminSchoolHandler)
		protected.PUT("/schedule", hb.ReplaceScheduleHandler)
		protected.PUT("/design", hb.UpdateDesignHandler)
		protected.POST("/design/reset", hb.ResetDesignHandler)
		protected.PUT("/bell", hb.UpdateBellHandler)
		protected.PUT("/content", hb.UpdateContentHandler)
		protected.PUT("/profile", hb.UpdateProfileHandler)
		protected.PUT("/password", hb.ChangePasswordHandler)
		protected.POST("/images/:kind", hb.UploadImageHandler)
		protected.GET("/logs", hb.ListAuditLogsHandler)
		protected.DELETE("/logs", hb.ClearAuditLogsHandler)
	}
}

// RegisterSuperAdminRoutes registers school management endpoints.
func RegisterSuperAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	superAdmin := r.Group("/api/super-admin")
	{
		superAdmin.POST("/login", hb.LoginRateLimitMiddleware, hb.SuperAdminLoginHandler)

		protected := superAdmin.Group("")
		protected.Use(hb.AdminAuthMiddleware, middleware.RequireSuperAdmin())
		protected.POST("/logout", hb.AdminLogoutHandler)
		protected.GET("/schools", hb.ListSchoolsHandler)
		protected.POST("/schools", hb.CreateSchoolHandler)
		protected.DELETE("/schools/:schoolId", hb.DeleteSchoolHandler)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length", "Retry-After"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterPublicRoutes(r, hb)
	RegisterSchoolAdminRoutes(r, hb)
	RegisterSuperAdminRoutes(r, hb)
}
