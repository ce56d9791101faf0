// backend-go/internal/catalog/types.go
package catalog

// ProductRecord is the raw, dict-shaped product variant as read from the ERP,
// before the resolver turns it into a typed domain.Product.
type ProductRecord struct {
	ID          int64  `json:"id"`
	Barcode     string `json:"barcode"`
	InternalRef string `json:"internal_ref"`
	Name        string `json:"name"`
	Category    string `json:"category"` // display name of the ERP category

	// Variant-level flags; the template carries its own copies.
	Halloween  bool `json:"halloween"`
	Navidad    bool `json:"navidad"`
	ClinicOnly bool `json:"clinic_only"`

	// LotSize as the ERP delivers it; may be fractional or negative garbage.
	LotSize float64 `json:"lot_size"`

	Template *TemplateRecord `json:"template,omitempty"`
}

// TemplateRecord is the parent product template; variant fields fall back to
// it during resolution.
type TemplateRecord struct {
	Name         string  `json:"name"`
	Halloween    bool    `json:"halloween"`
	Navidad      bool    `json:"navidad"`
	ClinicOnly   bool    `json:"clinic_only"`
	LargeItem    bool    `json:"large_item"`
	LotSize      float64 `json:"lot_size"`
	MinInventory float64 `json:"min_inventory"`
	MaxInventory float64 `json:"max_inventory"`
}

// SeasonalKind tallies which seasonal campaign excluded a product.
type SeasonalKind string

const (
	SeasonalNone      SeasonalKind = ""
	SeasonalHalloween SeasonalKind = "halloween"
	SeasonalNavidad   SeasonalKind = "navidad"
)

// Classification is the resolver verdict for one product.
type Classification struct {
	Excluded        bool
	ExclusionReason string
	Seasonal        SeasonalKind
	ClinicOnly      bool
}
