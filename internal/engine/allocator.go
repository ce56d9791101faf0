// backend-go/internal/engine/allocator.go
package engine

import (
	"math"
	"sort"

	"github.com/blackdogpanama/pedidos/backend-go/internal/domain"
	"github.com/blackdogpanama/pedidos/backend-go/internal/rules"
)

// Allocator decides per-store order quantities for one product at a time,
// spending a shared warehouse stock across stores in strict sequence. The
// remaining-stock accumulator is owned by Allocate for the duration of one
// product; products are independent and may run in parallel.
type Allocator struct {
	rules  *rules.Rules
	stores *domain.StoreDirectory
}

// NewAllocator creates an allocator bound to a rules document and store
// directory.
func NewAllocator(r *rules.Rules, stores *domain.StoreDirectory) *Allocator {
	return &Allocator{rules: r, stores: stores}
}

// StoreLine is one store competing for the product's warehouse stock.
type StoreLine struct {
	Store    string
	Estimate int // top-2-of-6 demand forecast
	OnHand   int // current stock at the store
}

// Result is the full outcome of allocating one product.
type Result struct {
	InitialStock   int
	Remaining      int
	Decisions      []domain.AllocationDecision
	Skips          []domain.StoreSkip
	Shortfalls     []domain.ShortfallEvent
	LotSizeInvalid bool
}

// Allocated returns the total quantity spent from the warehouse.
func (r *Result) Allocated() int {
	total := 0
	for _, d := range r.Decisions {
		total += d.Quantity
	}
	return total
}

// Allocate processes every store line for one product. Stores are visited in
// descending order of demand estimate (stable on ties) so scarce stock reaches
// the fastest-selling stores first. Total allocated never exceeds available.
func (a *Allocator) Allocate(p domain.Product, available int, lines []StoreLine) Result {
	res := Result{InitialStock: available, Remaining: available}

	// Invalid replenishment unit excludes the whole product.
	if p.LotSize < 1 {
		res.LotSizeInvalid = true
		return res
	}

	ordered := make([]StoreLine, len(lines))
	copy(ordered, lines)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Estimate > ordered[j].Estimate
	})

	remaining := available
	for _, ln := range ordered {
		// No further store can receive a full lot.
		if remaining < p.LotSize {
			res.Skips = append(res.Skips, domain.StoreSkip{Store: ln.Store, Reason: domain.ReasonInsufficientSupply})
			break
		}

		// Eligibility gates: no decision line at all.
		if p.ClinicOnly && !a.stores.HasClinic(ln.Store) {
			continue
		}
		class := a.stores.Class(ln.Store)
		if p.LargeItem && class == domain.ClassSmall && a.rules.ProductosGrandes.ExcluirDeTiendasChicas {
			continue
		}

		qty, reason, ok := a.decide(p, class, ln, remaining)
		if !ok {
			res.Skips = append(res.Skips, domain.StoreSkip{Store: ln.Store, Reason: reason})
			continue
		}

		short := false
		if qty > remaining {
			// Emergency clamp: deliver the exact remainder, off-lot, and
			// record the under-fulfillment separately.
			res.Shortfalls = append(res.Shortfalls, domain.ShortfallEvent{
				Store:     ln.Store,
				Product:   p.Name,
				Category:  p.Category,
				Requested: qty,
				Delivered: remaining,
			})
			qty = remaining
			reason = domain.ReasonShortSupply
			short = true
		}

		res.Decisions = append(res.Decisions, domain.AllocationDecision{
			ProductID:     p.ID,
			Barcode:       p.Barcode,
			InternalRef:   p.InternalRef,
			Product:       p.Name,
			Category:      p.Category,
			Type:          p.Type,
			Store:         ln.Store,
			Quantity:      qty,
			Reason:        reason,
			ShortSupplied: short,
		})
		remaining -= qty
	}

	res.Remaining = remaining
	return res
}

// decide computes the order quantity for one store, applying the business
// rules in precedence order. ok is false when the store receives nothing.
func (a *Allocator) decide(p domain.Product, class domain.StoreClass, ln StoreLine, remaining int) (int, domain.Reason, bool) {
	// Stock-zero floor rule (policy-gated).
	if ln.OnHand == 0 && a.rules.ZeroStockFloorApplies(ln.Estimate) {
		floor := a.rules.CategoryMinimum(p.Type, p.Category, class)
		reason := domain.ReasonZeroStockFloor
		if p.MinInventory > 0 && p.MinInventory > floor {
			floor = p.MinInventory
			reason = domain.ReasonZeroStockProduct
		}

		qty := ceilToLot(float64(floor), p.LotSize)
		if qty > remaining {
			qty = floorToLot(remaining, p.LotSize)
		}
		if qty >= p.LotSize {
			if qty < a.rules.MinimumToOrder(p.Category, class) {
				return 0, domain.ReasonBelowMinOrder, false
			}
			return qty, reason, true
		}
		// Clamped below one lot: fall through to the normal computation.
	}

	// Demand-driven target over the configured inventory months.
	months := a.rules.MonthsFor(p.Type, class)
	demandQty := math.Max(0, float64(ln.Estimate)*months-float64(ln.OnHand))
	reason := domain.ReasonSalesBased

	// Category-minimum gap.
	catGap := 0
	if min := a.rules.CategoryMinimum(p.Type, p.Category, class); ln.OnHand < min {
		catGap = min - ln.OnHand
	}

	// Product-floor gap.
	prodGap := 0
	if p.MinInventory > 0 && ln.OnHand < p.MinInventory {
		prodGap = p.MinInventory - ln.OnHand
	}

	pre := demandQty
	if float64(catGap) > pre {
		pre = float64(catGap)
		reason = domain.ReasonCategoryMinimum
	}
	if float64(prodGap) > pre {
		pre = float64(prodGap)
		reason = domain.ReasonProductMinimum
	}

	qty := 0
	if pre > 0 {
		qty = ceilToLot(pre, p.LotSize)
	}

	// Inventory ceiling: on-hand plus order never exceeds the maximum.
	if p.MaxInventory > 0 {
		headroom := p.MaxInventory - ln.OnHand
		if headroom <= 0 {
			return 0, domain.ReasonExceedsMaximum, false
		}
		if cap := floorToLot(headroom, p.LotSize); qty > cap {
			qty = cap
			reason = domain.ReasonMaxInventoryCap
		}
	}

	if qty <= 0 {
		return 0, domain.ReasonZeroComputed, false
	}

	// Minimum-to-order gate; warehouse stock is not consumed on a drop.
	if qty < a.rules.MinimumToOrder(p.Category, class) {
		return 0, domain.ReasonBelowMinOrder, false
	}

	return qty, reason, true
}

// ceilToLot rounds up to the next multiple of the lot size.
func ceilToLot(n float64, lot int) int {
	return int(math.Ceil(n/float64(lot))) * lot
}

// floorToLot rounds down to the largest multiple of the lot size that fits.
func floorToLot(n, lot int) int {
	return (n / lot) * lot
}
