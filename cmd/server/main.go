// backend-go/cmd/server/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/blackdogpanama/pedidos/backend-go/internal/api"
	"github.com/blackdogpanama/pedidos/backend-go/internal/cache"
	"github.com/blackdogpanama/pedidos/backend-go/internal/config"
	"github.com/blackdogpanama/pedidos/backend-go/internal/domain"
	"github.com/blackdogpanama/pedidos/backend-go/internal/erp"
	"github.com/blackdogpanama/pedidos/backend-go/internal/repository"
	"github.com/blackdogpanama/pedidos/backend-go/internal/repository/postgres"
	"github.com/blackdogpanama/pedidos/backend-go/internal/service"
	"github.com/blackdogpanama/pedidos/backend-go/internal/storage"
	"github.com/blackdogpanama/pedidos/backend-go/pkg/logger"
)

func main() {
	cfg := config.Load()

	logger.SetLevel(cfg.Server.Mode)
	if cfg.Server.Mode == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()

	var (
		repo   repository.RunRepository
		stores = domain.DefaultStoreDirectory()
	)
	db, err := postgres.NewDB(&cfg.Database)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Database unavailable, run history disabled")
	} else {
		defer db.Close()
		repo = postgres.NewRunRepository(db)
		if loaded, err := repo.LoadStoreDirectory(ctx); err != nil {
			logger.Log.Warn().Err(err).Msg("Could not load store directory, using built-in defaults")
		} else {
			stores = loaded
		}
	}

	catalogCache := cache.NewNoopCatalogCache()
	if cfg.Cache.Enabled {
		c, err := cache.NewCatalogCache(cfg.Cache)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Redis unavailable, catalog cache disabled")
		} else {
			catalogCache = c
		}
	}

	objects := storage.NewNoopStorage()
	if cfg.Storage.Enabled {
		s, err := storage.NewMinioStorage(ctx, &cfg.Storage)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Object storage unavailable, zip archiving disabled")
		} else {
			objects = s
		}
	}

	loader := erp.NewLoader(cfg.Odoo)
	defer loader.Close()

	runService := service.NewRunService(cfg, loader, catalogCache, repo, objects, stores)

	router := api.NewRouter(runService, cfg.App.RulesPath, cfg.App.OutputDir, cfg.Server.AllowedOrigins)
	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Log.Info().Str("port", cfg.Server.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	logger.Log.Info().Msg("Server exiting")
}
