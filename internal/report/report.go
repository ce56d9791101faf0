// backend-go/internal/report/report.go
package report

import (
	"sync"
	"time"

	"github.com/blackdogpanama/pedidos/backend-go/internal/catalog"
	"github.com/blackdogpanama/pedidos/backend-go/internal/domain"
	"github.com/blackdogpanama/pedidos/backend-go/internal/engine"
)

// Exclusion is one product dropped before allocation, with its audit reason.
type Exclusion struct {
	Product  string               `json:"product"`
	Reason   string               `json:"reason"`
	Seasonal catalog.SeasonalKind `json:"seasonal,omitempty"`
}

// InvalidLot is a product whose replenishment unit could not be resolved.
type InvalidLot struct {
	Product  string `json:"product"`
	Code     string `json:"code"`
	Category string `json:"category"`
}

// Rationale is one line of the per-store decision trail.
type Rationale struct {
	Product  string `json:"product"`
	Category string `json:"category"`
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason"`
}

// Report is the structured audit record of one run: every exclusion and every
// computed quantity's rationale. Pure derived output, no decision logic.
type Report struct {
	GeneratedAt time.Time                             `json:"generated_at"`
	Stats       domain.RunStats                       `json:"stats"`
	Excluded    []Exclusion                           `json:"excluded"`
	Shortfalls  []domain.ShortfallEvent               `json:"shortfalls"`
	StoreTotals map[string]map[domain.ProductType]int `json:"store_totals"`
	Detail      map[string][]Rationale                `json:"detail"`
	InvalidLots []InvalidLot                          `json:"invalid_lots"`
}

// Builder accumulates audit data while products are being allocated. Safe for
// concurrent use; products may be processed in parallel.
type Builder struct {
	mu     sync.Mutex
	report Report
}

// NewBuilder starts an empty report.
func NewBuilder() *Builder {
	return &Builder{
		report: Report{
			GeneratedAt: time.Now(),
			StoreTotals: make(map[string]map[domain.ProductType]int),
			Detail:      make(map[string][]Rationale),
		},
	}
}

// AddExcluded records a product dropped before allocation.
func (b *Builder) AddExcluded(product string, kind catalog.SeasonalKind, reason string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.report.Stats.ProductsProcessed++
	b.report.Stats.TotalExcluded++
	switch kind {
	case catalog.SeasonalHalloween:
		b.report.Stats.HalloweenExcluded++
	case catalog.SeasonalNavidad:
		b.report.Stats.NavidadExcluded++
	}
	b.report.Excluded = append(b.report.Excluded, Exclusion{Product: product, Reason: reason, Seasonal: kind})
}

// AddResult folds one product's allocation outcome into the report.
func (b *Builder) AddResult(p domain.Product, res engine.Result) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.report.Stats.ProductsProcessed++

	if res.LotSizeInvalid {
		b.report.InvalidLots = append(b.report.InvalidLots, InvalidLot{
			Product:  p.Name,
			Code:     p.InternalRef,
			Category: p.Category,
		})
		return
	}

	b.report.Shortfalls = append(b.report.Shortfalls, res.Shortfalls...)

	if len(res.Decisions) > 0 {
		b.report.Stats.ProductsWithOrders++
	} else if p.ClinicOnly {
		// Clinic-only product that reached allocation but fit no store.
		b.report.Stats.ClinicOnlyLimited++
	}

	for _, d := range res.Decisions {
		if b.report.StoreTotals[d.Store] == nil {
			b.report.StoreTotals[d.Store] = make(map[domain.ProductType]int)
		}
		b.report.StoreTotals[d.Store][d.Type] += d.Quantity
		b.report.Stats.TotalUnits += d.Quantity

		b.report.Detail[d.Store] = append(b.report.Detail[d.Store], Rationale{
			Product:  d.Product,
			Category: d.Category,
			Quantity: d.Quantity,
			Reason:   d.Reason.Label(),
		})
	}
}

// Build returns the finished report.
func (b *Builder) Build() *Report {
	b.mu.Lock()
	defer b.mu.Unlock()

	snapshot := b.report
	return &snapshot
}
