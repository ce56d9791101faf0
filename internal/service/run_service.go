// backend-go/internal/service/run_service.go
// Package service orchestrates a full suggestion run: load the feed and the
// catalog, classify, allocate per product, aggregate, export and persist.
package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/blackdogpanama/pedidos/backend-go/internal/cache"
	"github.com/blackdogpanama/pedidos/backend-go/internal/catalog"
	"github.com/blackdogpanama/pedidos/backend-go/internal/config"
	"github.com/blackdogpanama/pedidos/backend-go/internal/domain"
	"github.com/blackdogpanama/pedidos/backend-go/internal/engine"
	"github.com/blackdogpanama/pedidos/backend-go/internal/export"
	"github.com/blackdogpanama/pedidos/backend-go/internal/forecast"
	"github.com/blackdogpanama/pedidos/backend-go/internal/grouping"
	"github.com/blackdogpanama/pedidos/backend-go/internal/report"
	"github.com/blackdogpanama/pedidos/backend-go/internal/repository"
	"github.com/blackdogpanama/pedidos/backend-go/internal/rules"
	"github.com/blackdogpanama/pedidos/backend-go/internal/storage"
	"github.com/blackdogpanama/pedidos/backend-go/pkg/logger"
)

// LineSource provides the replenishment feed and the product catalog.
// Implemented by the ERP loader; tests substitute fixtures.
type LineSource interface {
	ReplenishmentLines(ctx context.Context) ([]domain.DemandLine, error)
	Products(ctx context.Context, ids []int64) (map[int64]*catalog.ProductRecord, error)
}

// RunService executes suggestion runs. One run at a time; a second Execute
// blocks until the first finishes.
type RunService struct {
	cfg     *config.Config
	source  LineSource
	catalog cache.CatalogCache
	repo    repository.RunRepository
	objects storage.ObjectStorage
	stores  *domain.StoreDirectory

	runMu sync.Mutex
}

func NewRunService(
	cfg *config.Config,
	source LineSource,
	catalogCache cache.CatalogCache,
	repo repository.RunRepository,
	objects storage.ObjectStorage,
	stores *domain.StoreDirectory,
) *RunService {
	return &RunService{
		cfg:     cfg,
		source:  source,
		catalog: catalogCache,
		repo:    repo,
		objects: objects,
		stores:  stores,
	}
}

// RunResult is everything one run produced.
type RunResult struct {
	Run    *domain.RunRecord `json:"run"`
	Report *report.Report    `json:"report"`
	Output *export.Output    `json:"output"`
}

// Execute performs one full run. Returns domain.ErrNoUsableInput when the
// feed or the catalog came back empty.
func (s *RunService) Execute(ctx context.Context) (*RunResult, error) {
	s.runMu.Lock()
	defer s.runMu.Unlock()

	startedAt := time.Now()
	logger.Log.Info().Msg("Starting suggestion run")

	r, err := rules.Load(s.cfg.App.RulesPath)
	if err != nil {
		logger.Log.Warn().Err(err).Str("path", s.cfg.App.RulesPath).Msg("Could not load rules file, using defaults")
		r = rules.Default()
	}

	lines, err := s.source.ReplenishmentLines(ctx)
	if err != nil {
		return nil, fmt.Errorf("load replenishment lines: %w", err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("replenishment feed is empty: %w", domain.ErrNoUsableInput)
	}

	byProduct := make(map[int64][]domain.DemandLine)
	for _, ln := range lines {
		byProduct[ln.ProductID] = append(byProduct[ln.ProductID], ln)
	}

	products, err := s.loadCatalog(ctx, byProduct)
	if err != nil {
		return nil, err
	}

	resolver := catalog.NewResolver(r.ExcluirPalabras)
	allocator := engine.NewAllocator(r, s.stores)
	builder := report.NewBuilder()

	productIDs := make([]int64, 0, len(byProduct))
	for id := range byProduct {
		productIDs = append(productIDs, id)
	}
	sort.Slice(productIDs, func(i, j int) bool { return productIDs[i] < productIDs[j] })

	var (
		decMu     sync.Mutex
		decisions []domain.AllocationDecision
	)

	g, gctx := errgroup.WithContext(ctx)
	workers := s.cfg.App.Workers
	if workers <= 0 {
		workers = 4
	}
	g.SetLimit(workers)

	for _, id := range productIDs {
		id := id
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			res, ok := s.allocateProduct(resolver, allocator, builder, products[id], id, byProduct[id])
			if !ok {
				return nil
			}

			decMu.Lock()
			decisions = append(decisions, res.Decisions...)
			decMu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sortDecisions(decisions)

	rep := builder.Build()
	grouped := grouping.NewAggregator(s.stores).Group(decisions)

	sequence := export.NextSequence()
	exporter := export.NewExporter(s.cfg.App.OutputDir, s.cfg.App.ZipDir)
	out, err := exporter.Export(grouped, rep, sequence)
	if err != nil {
		return nil, fmt.Errorf("export run %s: %w", sequence, err)
	}

	zipURL := out.ZipPath
	if url, err := s.objects.Upload(ctx, out.ZipPath, "pedidos/"+filepath.Base(out.ZipPath), "application/zip"); err != nil {
		logger.Log.Warn().Err(err).Msg("Could not archive zip bundle, keeping local copy only")
	} else {
		zipURL = url
	}

	run := &domain.RunRecord{
		Sequence:    sequence,
		Stats:       rep.Stats,
		ZipPath:     zipURL,
		LogPath:     out.LogPath,
		StartedAt:   startedAt,
		CompletedAt: time.Now(),
	}

	if s.repo != nil {
		if err := s.repo.SaveRun(ctx, run, decisions, rep.Shortfalls); err != nil {
			logger.Log.Error().Err(err).Msg("Could not persist run history")
		}
	}

	logger.Log.Info().
		Str("sequence", sequence).
		Int("products_processed", rep.Stats.ProductsProcessed).
		Int("products_with_orders", rep.Stats.ProductsWithOrders).
		Int("total_units", rep.Stats.TotalUnits).
		Dur("elapsed", time.Since(startedAt)).
		Msg("Suggestion run completed")

	return &RunResult{Run: run, Report: rep, Output: out}, nil
}

// allocateProduct classifies one product and, if it survives the exclusion
// gates, runs the allocator over its store lines. ok is false when the
// product was excluded before allocation.
func (s *RunService) allocateProduct(
	resolver *catalog.Resolver,
	allocator *engine.Allocator,
	builder *report.Builder,
	rec *catalog.ProductRecord,
	id int64,
	lines []domain.DemandLine,
) (engine.Result, bool) {
	if rec == nil || rec.Category == "" {
		builder.AddExcluded(fmt.Sprintf("ID: %d", id), catalog.SeasonalNone, "Sin información de producto o categoría")
		return engine.Result{}, false
	}

	p, cls := resolver.Resolve(rec)
	if cls.Excluded {
		builder.AddExcluded(p.Name, cls.Seasonal, cls.ExclusionReason)
		return engine.Result{}, false
	}

	// The feed repeats the warehouse figure on every line of the product.
	available := int(lines[0].WarehouseQty)
	if available <= 0 {
		builder.AddExcluded(p.Name, catalog.SeasonalNone, "Sin stock en bodega")
		return engine.Result{}, false
	}

	storeLines := make([]engine.StoreLine, 0, len(lines))
	for _, ln := range lines {
		storeLines = append(storeLines, engine.StoreLine{
			Store:    ln.Store,
			Estimate: forecast.Estimate(ln.Monthly),
			OnHand:   ln.OnHand,
		})
	}

	res := allocator.Allocate(p, available, storeLines)
	builder.AddResult(p, res)
	return res, true
}

// loadCatalog serves product records from the cache when fresh, falling back
// to the ERP and repopulating the cache on a miss.
func (s *RunService) loadCatalog(ctx context.Context, byProduct map[int64][]domain.DemandLine) (map[int64]*catalog.ProductRecord, error) {
	cached, fresh, err := s.catalog.Get(ctx)
	if err != nil {
		logger.Log.Warn().Err(err).Msg("Catalog cache read failed, fetching from ERP")
	}
	if fresh && len(cached) > 0 {
		logger.Log.Info().Int("products", len(cached)).Msg("Using cached catalog")
		return cached, nil
	}

	ids := make([]int64, 0, len(byProduct))
	for id := range byProduct {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	products, err := s.source.Products(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load product catalog: %w", err)
	}
	if len(products) == 0 {
		return nil, fmt.Errorf("product catalog is empty: %w", domain.ErrNoUsableInput)
	}

	if err := s.catalog.Set(ctx, products); err != nil {
		logger.Log.Warn().Err(err).Msg("Could not populate catalog cache")
	}

	return products, nil
}

// ListRuns exposes the persisted run history.
func (s *RunService) ListRuns(ctx context.Context, limit int) ([]*domain.RunRecord, error) {
	if s.repo == nil {
		return nil, nil
	}
	return s.repo.ListRuns(ctx, limit)
}

// RefreshCatalog drops the cached catalog so the next run fetches it anew.
func (s *RunService) RefreshCatalog(ctx context.Context) error {
	return s.catalog.Invalidate(ctx)
}

// sortDecisions fixes the output order regardless of worker scheduling.
func sortDecisions(decisions []domain.AllocationDecision) {
	sort.Slice(decisions, func(i, j int) bool {
		a, b := decisions[i], decisions[j]
		if a.Store != b.Store {
			return a.Store < b.Store
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		if a.Product != b.Product {
			return a.Product < b.Product
		}
		return a.ProductID < b.ProductID
	})
}
