// backend-go/internal/grouping/aggregator.go
package grouping

import (
	"sort"
	"strings"

	"github.com/blackdogpanama/pedidos/backend-go/internal/domain"
)

// Aggregator buckets allocation decisions by route, store and category and
// builds the consolidated master lists warehouse pickers work from.
type Aggregator struct {
	stores *domain.StoreDirectory
}

// NewAggregator creates an aggregator over a store directory.
func NewAggregator(stores *domain.StoreDirectory) *Aggregator {
	return &Aggregator{stores: stores}
}

// Grouped is the full grouping output for one run.
type Grouped struct {
	// ByRoute: route -> store -> product type -> export lines.
	ByRoute map[string]map[string]map[domain.ProductType][]domain.OrderItem

	// Masters: route -> product type -> consolidated lines (master types only).
	Masters map[string]map[domain.ProductType][]domain.OrderItem

	// Global is the cross-route consolidation of every exported line.
	Global []domain.OrderItem
}

// Group consumes the full decision stream and builds all buckets. Unmapped
// stores land in the unassigned route.
func (a *Aggregator) Group(decisions []domain.AllocationDecision) *Grouped {
	g := &Grouped{
		ByRoute: make(map[string]map[string]map[domain.ProductType][]domain.OrderItem),
		Masters: make(map[string]map[domain.ProductType][]domain.OrderItem),
	}

	masterTypes := make(map[domain.ProductType]bool, len(domain.MasterTypes))
	for _, t := range domain.MasterTypes {
		masterTypes[t] = true
	}

	var all []domain.OrderItem
	for _, d := range decisions {
		if d.Quantity <= 0 {
			continue
		}

		item := domain.OrderItem{
			Barcode:     d.Barcode,
			InternalRef: d.InternalRef,
			Description: d.Product,
			Quantity:    d.Quantity,
			Category:    d.Category,
		}

		route := a.stores.Route(d.Store)
		store := strings.ToLower(strings.TrimSpace(d.Store))

		if g.ByRoute[route] == nil {
			g.ByRoute[route] = make(map[string]map[domain.ProductType][]domain.OrderItem)
		}
		if g.ByRoute[route][store] == nil {
			g.ByRoute[route][store] = make(map[domain.ProductType][]domain.OrderItem)
		}
		g.ByRoute[route][store][d.Type] = append(g.ByRoute[route][store][d.Type], item)

		if masterTypes[d.Type] {
			if g.Masters[route] == nil {
				g.Masters[route] = make(map[domain.ProductType][]domain.OrderItem)
			}
			g.Masters[route][d.Type] = append(g.Masters[route][d.Type], item)
		}

		all = append(all, item)
	}

	for route, byType := range g.Masters {
		for t, items := range byType {
			g.Masters[route][t] = Consolidate(items)
		}
	}
	g.Global = Consolidate(all)

	return g
}

// Consolidate merges duplicate (barcode, ref, description, category) lines by
// summing their quantities. Output order is deterministic: category, then
// description, then barcode.
func Consolidate(items []domain.OrderItem) []domain.OrderItem {
	merged := make(map[domain.ConsolidationKey]domain.OrderItem, len(items))
	for _, item := range items {
		key := item.Key()
		if existing, ok := merged[key]; ok {
			existing.Quantity += item.Quantity
			merged[key] = existing
		} else {
			merged[key] = item
		}
	}

	out := make([]domain.OrderItem, 0, len(merged))
	for _, item := range merged {
		out = append(out, item)
	}
	SortItems(out)
	return out
}

// SortItems orders export lines the way the picker files are printed.
func SortItems(items []domain.OrderItem) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].Category != items[j].Category {
			return items[i].Category < items[j].Category
		}
		if items[i].Description != items[j].Description {
			return items[i].Description < items[j].Description
		}
		return items[i].Barcode < items[j].Barcode
	})
}
