// backend-go/cmd/generate/main.go
package main

import (
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"

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
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("warning: could not load .env file: %v", err)
	}

	app := &cli.App{
		Name:  "generate",
		Usage: "Generate suggested replenishment orders from the ERP feed",
		Commands: []*cli.Command{
			{
				Name:  "run",
				Usage: "Execute one full suggestion run",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Usage:   "Directory for generated order files",
						EnvVars: []string{"APP_OUTPUT_DIR"},
					},
					&cli.StringFlag{
						Name:    "rules",
						Usage:   "Path to the rules JSON document",
						EnvVars: []string{"APP_RULES_PATH"},
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Products allocated in parallel",
					},
					&cli.BoolFlag{
						Name:  "no-db",
						Usage: "Skip run history persistence",
					},
				},
				Action: runGenerate,
			},
			{
				Name:   "refresh-catalog",
				Usage:  "Invalidate the cached product catalog",
				Action: runRefreshCatalog,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func runGenerate(c *cli.Context) error {
	cfg := config.Load()
	logger.SetLevel("info")

	if v := c.String("output"); v != "" {
		cfg.App.OutputDir = v
	}
	if v := c.String("rules"); v != "" {
		cfg.App.RulesPath = v
	}
	if v := c.Int("workers"); v > 0 {
		cfg.App.Workers = v
	}

	ctx, stop := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var (
		repo   repository.RunRepository
		stores = domain.DefaultStoreDirectory()
	)
	if !c.Bool("no-db") {
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
	}

	catalogCache := cache.NewNoopCatalogCache()
	if cfg.Cache.Enabled {
		cc, err := cache.NewCatalogCache(cfg.Cache)
		if err != nil {
			logger.Log.Warn().Err(err).Msg("Redis unavailable, catalog cache disabled")
		} else {
			catalogCache = cc
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

	result, err := runService.Execute(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNoUsableInput) {
			return cli.Exit(fmt.Sprintf("run aborted: %v", err), 2)
		}
		return err
	}

	fmt.Printf("Run %s completed: %d products processed, %d with orders, %d units\n",
		result.Run.Sequence,
		result.Run.Stats.ProductsProcessed,
		result.Run.Stats.ProductsWithOrders,
		result.Run.Stats.TotalUnits,
	)
	fmt.Printf("Files: %s\nZip:   %s\nLog:   %s\n", result.Output.Dir, result.Output.ZipPath, result.Output.LogPath)
	return nil
}

func runRefreshCatalog(c *cli.Context) error {
	cfg := config.Load()
	logger.SetLevel("info")

	if !cfg.Cache.Enabled {
		return cli.Exit("catalog cache is not enabled", 1)
	}
	cc, err := cache.NewCatalogCache(cfg.Cache)
	if err != nil {
		return err
	}
	if err := cc.Invalidate(c.Context); err != nil {
		return err
	}
	fmt.Println("catalog cache invalidated")
	return nil
}
