package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"chronoboard/config"
	"chronoboard/cron"
	"chronoboard/database"
	auditlogRepo "chronoboard/database/repository/auditlog"
	schoolRepo "chronoboard/database/repository/school"
	"chronoboard/handlers"
	"chronoboard/middleware"
	"chronoboard/routes"
	"chronoboard/services/board"
	"chronoboard/services/notification"
	"chronoboard/services/school"
	"chronoboard/services/storage"
	"chronoboard/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func main() {
	config.LoadConfig()
	utils.InitializeLogger()
	logger := utils.GetLogger()
	defer logger.Sync()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// repositories.
	var (
		schools  schoolRepo.SchoolRepository
		audits   auditlogRepo.AuditLogRepository
		sessions utils.SessionStore
		probes   []utils.HealthProbe
		notifier notification.RingNotifier = notification.NopNotifier{}
	)
	if config.UseMemoryStore() {
		logger.Warn("STORE_BACKEND=memory: data is lost on restart")
		schools = schoolRepo.NewMemorySchoolRepo()
		audits = auditlogRepo.NewMemoryAuditLogRepo()
		sessions = utils.NewMemorySessionStore()
	} else {
		database.FirebaseInit()
		database.InitDB()
		utils.InitCache()
		utils.InitAuthCache()

		schools = schoolRepo.NewCachedSchoolRepo(
			schoolRepo.NewFirestoreSchoolRepo(database.FirestoreClient),
			utils.GetCacheClient(),
			config.AppConfig.SchoolCacheTTL,
		)
		audits = auditlogRepo.NewMongoAuditLogRepo(database.MongoDatabase())
		sessions = utils.NewRedisSessionStore(utils.GetAuthCacheClient())
		probes = []utils.HealthProbe{
			{Name: "firestore", Check: database.PingFirestore},
			utils.MongoProbe(database.MongoClient),
			utils.RedisProbe("redis-cache", utils.GetCacheClient()),
			utils.RedisProbe("redis-auth", utils.GetAuthCacheClient()),
		}

		if database.FCMClient != nil {
			fcm, err := notification.NewFCMRingNotifier(database.FCMClient)
			if err != nil {
				logger.Fatal("failed to initialize ring notifier", zap.Error(err))
			}
			notifier = fcm
		}
	}

	// services.
	hub := board.NewHub(schools, notifier, board.WithFallbackLocation(config.DefaultLocation()))
	schoolService := school.NewDefaultSchoolService(schools, audits, sessions, hub, school.Options{
		DefaultTimezone:        config.AppConfig.DefaultTimezone,
		SessionTTL:             config.AppConfig.SessionTTL,
		SuperAdminPasswordHash: config.AppConfig.SuperAdminPasswordHash,
	})

	storageService, err := storage.NewCloudinaryStorageService(
		config.AppConfig.CloudinaryCloudName,
		config.AppConfig.CloudinaryAPIKey,
		config.AppConfig.CloudinaryAPISecret,
	)
	if err != nil {
		logger.Fatal("failed to initialize image storage", zap.Error(err))
	}

	hubCtx, stopHub := context.WithCancel(context.Background())
	trackCtx, cancelTrack := context.WithTimeout(hubCtx, 30*time.Second)
	n, err := hub.TrackAll(trackCtx)
	cancelTrack()
	if err != nil {
		logger.Error("some schools could not be loaded at startup", zap.Error(err))
	}
	logger.Info("Board hub tracking schools", zap.Int("count", n))
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		hub.Run(hubCtx)
	}()

	worker, err := cron.NewWorker(cron.WorkerConfig{
		RefreshSpec: config.AppConfig.RefreshCron,
		HealthSpec:  config.AppConfig.HealthCron,
	}, hub, probes)
	if err != nil {
		logger.Fatal("failed to configure maintenance worker", zap.Error(err))
	}
	worker.Start()

	// Create the Gin router.
	router := gin.New()
	if err := middleware.TrustProxies(router, config.AppConfig.TrustedProxies); err != nil {
		logger.Fatal("invalid TRUSTED_PROXIES", zap.Error(err))
	}
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.NewRateLimiter("global", config.AppConfig.MaxRequestsPerMin, 0).Middleware())

	loginLimiter := middleware.NewRateLimiter("login", config.AppConfig.LoginRequestsPerMin, 3)
	handlerBundle := handlers.NewHandlerBundle(schoolService, hub, storageService, loginLimiter)
	routes.RegisterRoutes(router, handlerBundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("main: server is shutting down...")

	// Closing the hub first ends every websocket stream so Shutdown can drain.
	stopHub()
	<-hubDone

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	worker.Stop(ctx)
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
	}
	if err := database.CloseDB(ctx); err != nil {
		logger.Warn("main: failed to close MongoDB", zap.Error(err))
	}
	if err := database.CloseFirebase(); err != nil {
		logger.Warn("main: failed to close Firestore", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
}
