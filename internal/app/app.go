package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"comic-auth/internal/config"
	"comic-auth/internal/database"
	"comic-auth/internal/handler"
	"comic-auth/internal/middleware"
	"comic-auth/internal/repository"
	"comic-auth/internal/router"
	"comic-auth/internal/service"
)

type App struct {
	server       *http.Server
	db           *database.DB
	cleanupFuncs []func()
}

func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	ctx := context.Background()

	slog.Info("connecting to PostgreSQL")
	db, err := database.New(ctx, cfg.DatabaseURL, cfg.DBMaxConns, cfg.DBMinConns)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ensure database schema: %w", err)
	}

	userRepo := repository.NewUserRepository(db.Pool)
	roleRepo := repository.NewRoleRepository(db.Pool)
	if err := roleRepo.Seed(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed role catalog: %w", err)
	}
	slog.Info("database ready")

	cleanupFuncs := []func(){db.Close}

	tokenStore, cleanup, err := newTokenStore(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, err
	}
	if cleanup != nil {
		cleanupFuncs = append(cleanupFuncs, cleanup)
	}

	tokenService := service.NewTokenService(tokenStore)
	authService := service.NewAuthService(userRepo, roleRepo, tokenService)

	if cfg.AdminPassword != "" {
		if err := authService.EnsureAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to seed admin account: %w", err)
		}
	}

	authMiddleware := middleware.NewAuthMiddleware(authService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(authService)
	roleHandler := handler.NewRoleHandler(authService)

	appRouter := router.New(cfg, authMiddleware, authHandler, userHandler, roleHandler)

	server := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      appRouter,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  cfg.ServerIdleTimeout,
	}

	return &App{
		server:       server,
		db:           db,
		cleanupFuncs: cleanupFuncs,
	}, nil
}

func newTokenStore(ctx context.Context, cfg *config.Config) (service.TokenStore, func(), error) {
	if cfg.TokenStore == config.TokenStoreRedis {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}

		slog.Info("using redis token store", "addr", cfg.RedisAddr, "ttl", cfg.TokenTTL)
		return repository.NewRedisTokenStore(client, cfg.TokenTTL), func() { _ = client.Close() }, nil
	}

	slog.Info("using in-memory token store", "ttl", cfg.TokenTTL)
	return repository.NewMemoryTokenStore(cfg.TokenTTL), nil, nil
}

func (a *App) Run() error {
	go func() {
		slog.Info("server starting", "addr", a.server.Addr)
		if serveErr := a.server.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			slog.Error("server failed", "error", serveErr)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}

	for _, cleanup := range a.cleanupFuncs {
		cleanup()
	}

	slog.Info("server stopped")
	return nil
}
