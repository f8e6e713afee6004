package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"taskdeck/internal/config"
	"taskdeck/internal/database"
	"taskdeck/internal/domain"
	"taskdeck/internal/repository"
	"taskdeck/internal/revocation"
	"taskdeck/internal/server"
	"taskdeck/internal/service"
	"taskdeck/internal/token"

	_ "github.com/joho/godotenv/autoload"
)

func gracefulShutdown(apiServer *http.Server, dbService database.Service, revoked revocation.Store, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	log.Info().Msg("Shutting down gracefully, press Ctrl+C again to force")
	stop()

	ctxTimeout, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctxTimeout); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	if err := revoked.Close(); err != nil {
		log.Error().Err(err).Msg("Error closing revocation store")
	}

	if dbService != nil {
		if err := dbService.Close(); err != nil {
			log.Error().Err(err).Msg("Error closing database connection pool")
		}
	}

	log.Info().Msg("Server exiting")

	done <- true
}

func main() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	ctx := context.Background()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	dbService, err := database.New(cfg.DBDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("connect database")
	}
	gormDB := dbService.GetDB()

	if err := gormDB.AutoMigrate(&domain.User{}, &domain.Todo{}); err != nil {
		log.Fatal().Err(err).Msg("auto-migrate database")
	}

	// The revocation store is shared mutable state across all request
	// workers; redis when configured, otherwise a per-process map.
	var revoked revocation.Store
	if cfg.RedisAddr != "" {
		revoked, err = revocation.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			log.Fatal().Err(err).Msg("connect redis")
		}
		log.Info().Str("addr", cfg.RedisAddr).Msg("using redis revocation store")
	} else {
		revoked = revocation.NewMemoryStore()
		log.Info().Msg("using in-memory revocation store")
	}

	codec := token.NewCodec(
		[]byte(cfg.JWTSigningKey),
		[]byte(cfg.JWTRefreshKey),
		cfg.AccessTokenTTL,
		cfg.RefreshTokenTTL,
	)

	userRepo := repository.NewGormUserRepository(gormDB)
	todoRepo := repository.NewGormTodoRepository(gormDB)

	authService := service.NewAuthService(userRepo, codec, revoked, log.Logger)
	todoService := service.NewTodoService(todoRepo, userRepo, log.Logger)

	apiServer := server.NewServer(cfg, authService, todoService, dbService, log.Logger)

	done := make(chan bool, 1)
	go gracefulShutdown(apiServer, dbService, revoked, done)

	log.Info().Str("addr", apiServer.Addr).Msg("Starting server")
	err = apiServer.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("HTTP server ListenAndServe error")
	}

	<-done
	log.Info().Msg("Graceful shutdown complete.")
}
