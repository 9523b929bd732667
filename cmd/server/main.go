package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/nepx/backend/internal/catalog"
	"github.com/nepx/backend/internal/config"
	"github.com/nepx/backend/internal/handlers"
	"github.com/nepx/backend/internal/logging"
	appMiddleware "github.com/nepx/backend/internal/middleware"
	"github.com/nepx/backend/internal/services"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.LogLevel, cfg.LogDevelopment)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}

	if code := finish(logger, run(cfg, logger)); code != 0 {
		os.Exit(code)
	}
}

// finish flushes the logger and returns the process exit code for err.
func finish(logger *zap.Logger, err error) int {
	code := 0
	if err != nil {
		logger.Error("server stopped", zap.Error(err))
		code = 1
	}
	_ = logger.Sync()
	return code
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		repo      services.CatalogRepository
		favorites services.FavoriteService
	)
	if cfg.UseMongo() {
		client, db, err := services.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDB)
		if err != nil {
			return err
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			_ = client.Disconnect(dctx)
		}()

		mongoRepo, err := services.NewMongoCatalogRepository(ctx, db, catalog.SeedProducts())
		if err != nil {
			return fmt.Errorf("mongo catalog: %w", err)
		}
		repo = mongoRepo
		favorites = services.NewMongoFavoriteService(ctx, db, repo)
		logger.Info("using mongo storage", zap.String("db", cfg.MongoDB))
	} else if cfg.DataDir != "" {
		fileRepo, err := services.NewPersistentCatalogRepository(cfg.DataDir, catalog.SeedProducts())
		if err != nil {
			return fmt.Errorf("catalog: %w", err)
		}
		repo = fileRepo
		favorites = services.NewMemoryFavoriteService(repo)
		logger.Info("using file storage", zap.String("data_dir", cfg.DataDir))
	} else {
		repo = services.NewMemoryCatalogRepository(catalog.SeedProducts())
		favorites = services.NewMemoryFavoriteService(repo)
		logger.Warn("no DATA_DIR or MONGO_URI set, catalog changes are kept in memory only")
	}

	users := services.NewUserService()
	if cfg.DataDir != "" {
		persistent, err := services.NewPersistentUserService(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("users: %w", err)
		}
		users = persistent
	}
	if cfg.HasAdmin() {
		admin, err := users.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName)
		if err != nil {
			return fmt.Errorf("bootstrap admin: %w", err)
		}
		logger.Info("admin account ready", zap.String("user_id", admin.ID), zap.String("email", admin.Email))
	}

	router := handlers.NewRouter(handlers.RouterConfig{
		Catalog:        services.NewCatalogService(repo),
		Favorites:      favorites,
		Users:          users,
		JWTSecret:      cfg.JWTSecret,
		JWTExpiration:  cfg.JWTExpiration,
		AuthLimiter:    appMiddleware.NewRateLimiter(cfg.AuthRatePerMinute, cfg.AuthRateBurst),
		AllowedOrigins: cfg.CORSAllowedOrigins,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("nepx API server starting", zap.String("addr", cfg.ServerAddress))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", zap.Duration("timeout", cfg.ShutdownTimeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
