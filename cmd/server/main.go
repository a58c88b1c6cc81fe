package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/echo-cqy/codeling/internal/config"
	"github.com/echo-cqy/codeling/internal/database"
	"github.com/echo-cqy/codeling/internal/handlers"
	"github.com/echo-cqy/codeling/internal/localstore"
	"github.com/echo-cqy/codeling/internal/middleware"
	"github.com/echo-cqy/codeling/internal/routes"
	"github.com/echo-cqy/codeling/internal/storage"
	"github.com/echo-cqy/codeling/pkg/logger"
)

func main() {
	// 0. Load Config & Initialize Logger
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger.Init(cfg.Env)
	logger.Info().Str("environment", cfg.Env).Msg("Starting Codeling Backend...")

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 1. Open the local store. This is the source of truth; the process does
	// not start without it.
	local, err := localstore.Open(localstore.DefaultConfig(cfg.DataDir))
	if err != nil {
		logger.Fatal().Err(err).Str("dir", cfg.DataDir).Msg("Failed to open local store")
	}
	defer local.Close()

	// 2. Connect the remote database when configured. Startup continues
	// without it; auth and sync endpoints answer 503 until it exists.
	var db *gorm.DB
	if cfg.DatabaseURL != "" {
		db, err = database.Connect(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect database")
		}
		if err := database.Migrate(db); err != nil {
			logger.Fatal().Err(err).Msg("Failed to run database migrations")
		}
		logger.Info().Msg("Remote database connected and migrated")
	} else {
		logger.Warn().Msg("DATABASE_URL not set; running local-only")
	}

	database.InitRedis(cfg.RedisAddr, cfg.RedisPassword)

	// 3. Storage facade: local-first writes, debounced draft autosave,
	// fire-and-forget remote mirroring.
	svc := storage.NewService(local, db, time.Duration(cfg.DraftDebounceMS)*time.Millisecond)
	defer svc.Close()

	handlers.Setup(svc, db)

	// 4. Setup Router
	r := gin.New()
	r.Use(middleware.LoggingMiddleware())
	r.Use(gin.Recovery())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.GeneralRateLimit())

	// 5. Register Routes
	api := r.Group("/api")
	api.Use(middleware.OptionalAuthMiddleware())
	{
		auth := api.Group("/auth")
		routes.RegisterAuthRoutes(auth)

		routes.RegisterQuestionRoutes(api)
		routes.RegisterPracticeRoutes(api)
		routes.RegisterSettingsRoutes(api)
		routes.RegisterSyncRoutes(api)
	}

	r.GET("/health", func(c *gin.Context) {
		dbStatus := "not configured"
		if db != nil {
			dbStatus = "ok"
			sqlDB, err := db.DB()
			if err != nil || sqlDB.Ping() != nil {
				dbStatus = "error"
			}
		}

		redisStatus := "not configured"
		if database.Redis != nil {
			redisStatus = "ok"
			if _, err := database.Redis.Ping(context.Background()).Result(); err != nil {
				redisStatus = "error"
			}
		}

		status := "ok"
		if dbStatus == "error" || redisStatus == "error" {
			status = "degraded"
		}

		c.JSON(200, gin.H{
			"status": status,
			"checks": gin.H{
				"database": dbStatus,
				"redis":    redisStatus,
			},
		})
	})

	// 6. Start Server with graceful shutdown
	port := cfg.Port
	if port == "" {
		port = "8787"
	}

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info().Str("port", port).Str("env", cfg.Env).Msg("Server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server gracefully...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	// The deferred svc.Close runs before the store closes: pending draft
	// autosaves flush and in-flight mirrors drain first.
	logger.Info().Msg("Server exited")
}
