package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"litreview/database"
	"litreview/internal/config"
	"litreview/internal/logging"
	"litreview/internal/microservices/http-api/handler"
	"litreview/internal/microservices/http-api/repository"
	"litreview/internal/microservices/http-api/service"
	"litreview/internal/web"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func main() {
	// 1. Load config
	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("could not load config")
	}

	format := cfg.LogFormat
	if cfg.IsDevelopment() {
		format = "console"
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: format})
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// 2. Connect to the database
	db, err := database.OpenGorm(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("could not connect to database")
	}
	defer database.Close(db)

	if cfg.AutoMigrateOnUp {
		if err := database.Migrate(db); err != nil {
			logging.Fatal().Err(err).Msg("auto-migration failed")
		}
	}

	// 3. Optional redis denylist for logged-out access tokens
	var denylist repository.TokenDenylist
	if cfg.RedisURL != "" {
		rdb, err := repository.NewTokenDenylistRedis(cfg.RedisURL, cfg.RedisPassword)
		if err != nil {
			logging.Warn().Err(err).Msg("redis unavailable, logout will not deny live access tokens")
		} else {
			defer rdb.Close()
			denylist = rdb
		}
	}

	// 4. Wire services and routes
	tmpl, err := web.Templates()
	if err != nil {
		logging.Fatal().Err(err).Msg("could not parse templates")
	}

	router := handler.NewRouter(cfg, tmpl, buildServices(db, denylist, cfg), func(ctx context.Context) error {
		return database.Ping(ctx, db)
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logging.Info().Str("addr", srv.Addr).Str("env", cfg.GoEnv).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error().Err(err).Msg("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	logging.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logging.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func buildServices(db *gorm.DB, denylist repository.TokenDenylist, cfg *config.Config) handler.Services {
	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	bookRepo := repository.NewBookRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	refreshRepo := repository.NewRefreshTokenRepository(db)

	follows := service.NewFollowService(userRepo, followRepo)
	search := service.NewSearchService(userRepo, bookRepo)
	books := service.NewBookService(bookRepo, reviewRepo, cfg)

	return handler.Services{
		Auth:     service.NewAuthService(userRepo, refreshRepo, denylist, cfg),
		Feed:     service.NewFeedService(reviewRepo, cfg),
		Search:   search,
		Books:    books,
		Reviews:  service.NewReviewService(reviewRepo, bookRepo),
		Profiles: service.NewProfileService(userRepo, reviewRepo, follows, search),
	}
}
