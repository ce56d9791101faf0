// backend-go/internal/domain/models.go
package domain

import (
	"errors"
	"time"
)

// ErrNoUsableInput signals a fatal run: no replenishment lines or no catalog
// data could be loaded. Distinct from a run that processed products but
// allocated nothing.
var ErrNoUsableInput = errors.New("no usable input data for this run")

// ProductType is the resolved business category of a product.
type ProductType string

const (
	TypeAlimentos    ProductType = "alimentos"
	TypeAccesorios   ProductType = "accesorios"
	TypeMedicamentos ProductType = "medicamentos"
	TypeInsumos      ProductType = "insumos"
	TypeOtros        ProductType = "otros"
)

// MasterTypes are the categories consolidated into route and global masters.
var MasterTypes = []ProductType{TypeAlimentos, TypeAccesorios, TypeMedicamentos}

// ExcludedTypes are dropped before allocation.
var ExcludedTypes = map[ProductType]bool{
	TypeInsumos: true,
	TypeOtros:   true,
}

// StoreClass drives which minimum/ceiling table applies.
type StoreClass string

const (
	ClassRegular StoreClass = "regular"
	ClassSmall   StoreClass = "chica"
)

// Product is the resolved, typed product built once by the catalog resolver.
// Immutable for the duration of one run.
type Product struct {
	ID          int64       `json:"id"`
	Barcode     string      `json:"barcode"`
	InternalRef string      `json:"internal_ref"`
	Name        string      `json:"name"`
	Category    string      `json:"category"`
	Type        ProductType `json:"type"`
	ClinicOnly  bool        `json:"clinic_only"`
	LargeItem   bool        `json:"large_item"`

	// LotSize is the replenishment unit; every order is a multiple of it.
	// Zero means the source value could not be resolved to a positive integer.
	LotSize int `json:"lot_size"`

	// MinInventory / MaxInventory are per-product floor and ceiling overrides.
	// Zero means unset.
	MinInventory int `json:"min_inventory"`
	MaxInventory int `json:"max_inventory"`
}

// DemandLine is one (product, store) pair from the sales & stock feed.
type DemandLine struct {
	ProductID int64
	Store     string

	// Monthly holds six trailing monthly unit-sales figures. A nil entry is a
	// missing value and is treated as absent, not zero, when estimating.
	Monthly []*float64

	// OnHand is the store's current stock.
	OnHand int

	// WarehouseQty is the product's warehouse-available quantity. The feed
	// repeats it identically on every line of the product; it is de-duplicated
	// into one shared value before allocation.
	WarehouseQty float64
}

// AllocationDecision is the output unit of the engine: how many units of a
// product one store receives and why. Quantity is always positive; zero
// results are recorded as skips, not decisions.
type AllocationDecision struct {
	ProductID   int64       `json:"product_id"`
	Barcode     string      `json:"barcode"`
	InternalRef string      `json:"internal_ref"`
	Product     string      `json:"product"`
	Category    string      `json:"category"`
	Type        ProductType `json:"type"`
	Store       string      `json:"store"`
	Quantity    int         `json:"quantity"`
	Reason      Reason      `json:"reason"`

	// ShortSupplied marks the emergency clamp path: Quantity equals the
	// warehouse remainder instead of a lot-size multiple.
	ShortSupplied bool `json:"short_supplied"`
}

// StoreSkip records a store that was evaluated but received nothing.
type StoreSkip struct {
	Store  string `json:"store"`
	Reason Reason `json:"reason"`
}

// ShortfallEvent records an under-fulfillment: the store asked for more than
// the warehouse had left.
type ShortfallEvent struct {
	Store     string `json:"store"`
	Product   string `json:"product"`
	Category  string `json:"category"`
	Requested int    `json:"requested"`
	Delivered int    `json:"delivered"`
}

// OrderItem is one export line in the picker files and masters.
type OrderItem struct {
	Barcode     string `json:"codigo"`
	InternalRef string `json:"referencia_interna"`
	Description string `json:"descripcion"`
	Quantity    int    `json:"cantidad"`
	Category    string `json:"categoria"`
}

// ConsolidationKey identifies duplicate order lines across stores; matching
// keys sum their quantities in the masters.
type ConsolidationKey struct {
	Barcode     string
	InternalRef string
	Description string
	Category    string
}

// Key returns the consolidation identity of an order item.
func (i OrderItem) Key() ConsolidationKey {
	return ConsolidationKey{
		Barcode:     i.Barcode,
		InternalRef: i.InternalRef,
		Description: i.Description,
		Category:    i.Category,
	}
}

// RunStats summarizes one generation run.
type RunStats struct {
	ProductsProcessed  int `json:"products_processed"`
	ProductsWithOrders int `json:"products_with_orders"`
	HalloweenExcluded  int `json:"halloween_excluded"`
	NavidadExcluded    int `json:"navidad_excluded"`
	ClinicOnlyLimited  int `json:"clinic_only_limited"`
	TotalExcluded      int `json:"total_excluded"`
	TotalUnits         int `json:"total_units"`
}

// RunRecord is the persisted history entry for a run.
type RunRecord struct {
	ID          int64     `json:"id" db:"id"`
	Sequence    string    `json:"sequence" db:"sequence"`
	Stats       RunStats  `json:"stats" db:"-"`
	ZipPath     string    `json:"zip_path" db:"zip_path"`
	LogPath     string    `json:"log_path" db:"log_path"`
	StartedAt   time.Time `json:"started_at" db:"started_at"`
	CompletedAt time.Time `json:"completed_at" db:"completed_at"`
}
