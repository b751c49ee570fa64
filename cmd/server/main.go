// Package main runs the ShareMyThali HTTP server with graceful shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Sanyam2511/ShareMyThali/config"
	"github.com/Sanyam2511/ShareMyThali/internal/auth"
	"github.com/Sanyam2511/ShareMyThali/internal/donations"
	"github.com/Sanyam2511/ShareMyThali/internal/middleware"
	"github.com/Sanyam2511/ShareMyThali/internal/models"
	"github.com/Sanyam2511/ShareMyThali/internal/profiles"
	"github.com/Sanyam2511/ShareMyThali/pkg/cache"
	"github.com/Sanyam2511/ShareMyThali/pkg/database"
	"github.com/Sanyam2511/ShareMyThali/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	// Listing cache is optional; the server runs without Redis.
	var listings *cache.Listings
	if cfg.Redis.Addr != "" {
		rdb, err := cache.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			logger.Warn("listing cache disabled", zap.Error(err))
		} else {
			defer rdb.Close()
			listings = cache.NewListings(rdb, time.Duration(cfg.Redis.CacheTTLSec)*time.Second, logger)
		}
	}

	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.ExpireHours)

	// Auth
	authRepo := auth.NewRepository(pool)
	authHandler := auth.NewHandler(authRepo, jwtService, logger)

	// Donations
	donationRepo := donations.NewRepository(pool)
	donationHandler := donations.NewHandler(donationRepo, listings, logger)

	// Profiles
	profileRepo := profiles.NewRepository(pool)
	profileHandler := profiles.NewHandler(profileRepo, logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health (includes a DB ping)
	router.GET("/health", func(c *gin.Context) {
		if err := pool.Ping(c.Request.Context()); err != nil {
			response.ServiceUnavailable(c, "database unreachable")
			return
		}
		response.OK(c, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	// Auth (public)
	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authHandler.Register)
		authGroup.POST("/login", authHandler.Login)
	}

	// Protected API (JWT required)
	protected := api.Group("")
	protected.Use(middleware.JWT(jwtService))
	{
		donor := middleware.RequireUserType(models.UserTypeDonor)
		org := middleware.RequireUserType(models.UserTypeOrganization)

		// Donations
		protected.POST("/donations", donor, donationHandler.Create)
		protected.GET("/donations", donationHandler.List)
		protected.GET("/donations/:id", donationHandler.GetByID)
		protected.PUT("/donations/:id", donor, donationHandler.Update)
		protected.DELETE("/donations/:id", donor, donationHandler.Cancel)
		protected.PATCH("/donations/:id/claim", org, donationHandler.Claim)
		protected.PATCH("/donations/:id/fulfill", donor, donationHandler.Fulfill)

		// Profiles
		protected.GET("/profiles/me", profileHandler.GetMe)
		protected.PUT("/profiles/me", profileHandler.UpdateMe)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
