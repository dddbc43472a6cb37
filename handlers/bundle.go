package handlers

import (
	"chronoboard/middleware"
	"chronoboard/services/school"
	"chronoboard/services/storage"

	"github.com/gin-gonic/gin"
)

// HandlerBundle groups all endpoint handlers into one struct.
type HandlerBundle struct {
	// Public endpoints
	HealthHandler        gin.HandlerFunc
	BellPresetsHandler   gin.HandlerFunc
	ConvertColorHandler  gin.HandlerFunc
	GetBoardHandler      gin.HandlerFunc
	GetBoardStateHandler gin.HandlerFunc
	StreamBoardHandler   gin.HandlerFunc

	// Admin authentication
	AdminAuthMiddleware      gin.HandlerFunc
	LoginRateLimitMiddleware gin.HandlerFunc
	AdminLoginHandler        gin.HandlerFunc
	AdminLogoutHandler       gin.HandlerFunc
	SuperAdminLoginHandler   gin.HandlerFunc

	// School admin endpoints
	GetAdminSchoolHandler  gin.HandlerFunc
	ReplaceScheduleHandler gin.HandlerFunc
	UpdateDesignHandler    gin.HandlerFunc
	ResetDesignHandler     gin.HandlerFunc
	UpdateBellHandler      gin.HandlerFunc
	UpdateContentHandler   gin.HandlerFunc
	UpdateProfileHandler   gin.HandlerFunc
	ChangePasswordHandler  gin.HandlerFunc
	UploadImageHandler     gin.HandlerFunc
	ListAuditLogsHandler   gin.HandlerFunc
	ClearAuditLogsHandler  gin.HandlerFunc

	// Super admin endpoints
	ListSchoolsHandler  gin.HandlerFunc
	CreateSchoolHandler gin.HandlerFunc
	DeleteSchoolHandler gin.HandlerFunc
}

// NewHandlerBundle assembles every handler around the school service.
// loginLimiter may be nil to leave the login endpoints unthrottled.
func NewHandlerBundle(schools school.SchoolService, hub BoardHub, store storage.StorageService, loginLimiter *middleware.RateLimiter) *HandlerBundle {
	boardHandler := NewBoardHandler(schools, hub)
	adminHandler := NewAdminHandler(schools)
	superAdminHandler := NewSuperAdminHandler(schools)
	storageHandler := NewStorageHandler(store, schools)

	loginLimit := func(c *gin.Context) { c.Next() }
	if loginLimiter != nil {
		loginLimit = loginLimiter.Middleware()
	}

	return &HandlerBundle{
		HealthHandler:        HealthHandler,
		BellPresetsHandler:   BellPresetsHandler,
		ConvertColorHandler:  ConvertColorHandler,
		GetBoardHandler:      boardHandler.GetBoardHandler,
		GetBoardStateHandler: boardHandler.GetBoardStateHandler,
		StreamBoardHandler:   boardHandler.StreamBoardHandler,

		AdminAuthMiddleware:      middleware.JWTAuthAdminMiddleware(schools, middleware.ErrorIs(school.ErrUnauthorized)),
		LoginRateLimitMiddleware: loginLimit,
		AdminLoginHandler:        adminHandler.LoginHandler,
		AdminLogoutHandler:       adminHandler.LogoutHandler,
		SuperAdminLoginHandler:   superAdminHandler.LoginHandler,

		GetAdminSchoolHandler:  adminHandler.GetSchoolHandler,
		ReplaceScheduleHandler: adminHandler.ReplaceScheduleHandler,
		UpdateDesignHandler:    adminHandler.UpdateDesignHandler,
		ResetDesignHandler:     adminHandler.ResetDesignHandler,
		UpdateBellHandler:      adminHandler.UpdateBellHandler,
		UpdateContentHandler:   adminHandler.UpdateContentHandler,
		UpdateProfileHandler:   adminHandler.UpdateProfileHandler,
		ChangePasswordHandler:  adminHandler.ChangePasswordHandler,
		UploadImageHandler:     storageHandler.UploadImageHandler,
		ListAuditLogsHandler:   adminHandler.ListAuditLogsHandler,
		ClearAuditLogsHandler:  adminHandler.ClearAuditLogsHandler,

		ListSchoolsHandler:  superAdminHandler.ListSchoolsHandler,
		CreateSchoolHandler: superAdminHandler.CreateSchoolHandler,
		DeleteSchoolHandler: superAdminHandler.DeleteSchoolHandler,
	}
}
