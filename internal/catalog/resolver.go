// backend-go/internal/catalog/resolver.go
package catalog

import (
	"fmt"
	"math"
	"strings"

	"github.com/blackdogpanama/pedidos/backend-go/internal/domain"
)

// Resolver classifies raw ERP product records into typed products: business
// type by keyword match, seasonal exclusion, clinic-only restriction and lot
// size resolution. The keyword tables are injected so they can be overridden
// per run.
type Resolver struct {
	excludeKeywords []string
}

// NewResolver creates a resolver with the given exclusion-keyword list.
// Keywords match against product name OR category and force type "otros".
func NewResolver(excludeKeywords []string) *Resolver {
	kw := make([]string, 0, len(excludeKeywords))
	for _, k := range excludeKeywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			kw = append(kw, k)
		}
	}
	return &Resolver{excludeKeywords: kw}
}

// Resolve builds the typed product and its classification verdict.
func (r *Resolver) Resolve(rec *ProductRecord) (domain.Product, Classification) {
	name := CleanName(pickName(rec))

	p := domain.Product{
		ID:          rec.ID,
		Barcode:     rec.Barcode,
		InternalRef: rec.InternalRef,
		Name:        name,
		Category:    rec.Category,
		Type:        r.TypeOf(rec.Category, name),
	}

	var c Classification

	// Clinic-only: variant flag OR template flag.
	p.ClinicOnly = rec.ClinicOnly || (rec.Template != nil && rec.Template.ClinicOnly)
	c.ClinicOnly = p.ClinicOnly

	if rec.Template != nil {
		p.LargeItem = rec.Template.LargeItem
		p.MinInventory = int(rec.Template.MinInventory)
		p.MaxInventory = int(rec.Template.MaxInventory)
	}

	p.LotSize = resolveLotSize(rec)

	// Seasonal check runs before the category drop so the audit tallies
	// halloween/navidad separately from plain category exclusions.
	if kind, source := seasonal(rec, name); kind != SeasonalNone {
		c.Excluded = true
		c.Seasonal = kind
		c.ExclusionReason = source
		return p, c
	}

	if domain.ExcludedTypes[p.Type] {
		c.Excluded = true
		c.ExclusionReason = fmt.Sprintf("Categoría excluida: %s", p.Type)
		return p, c
	}

	return p, c
}

// TypeOf resolves the business type by keyword match against category and
// product name, in fixed priority order. Exclusion keywords win over all.
func (r *Resolver) TypeOf(category, name string) domain.ProductType {
	cat := strings.ToLower(category)
	nom := strings.ToLower(name)

	for _, kw := range r.excludeKeywords {
		if strings.Contains(nom, kw) || strings.Contains(cat, kw) {
			return domain.TypeOtros
		}
	}

	switch {
	case strings.Contains(cat, "insumo") || strings.Contains(cat, "gasto"):
		return domain.TypeInsumos
	case strings.Contains(cat, "alimento") || strings.Contains(cat, "medicado") || strings.Contains(cat, "treat"):
		return domain.TypeAlimentos
	case strings.Contains(cat, "accesorio"):
		return domain.TypeAccesorios
	case strings.Contains(cat, "medicamento") || strings.Contains(cat, "vacuna"):
		return domain.TypeMedicamentos
	}
	return domain.TypeOtros
}

// seasonal detects halloween/navidad products. Four sources are checked
// independently, first match wins and is reported for the audit log: the
// variant flag, the word in the product name, the word in the category name,
// then the template flag and template name.
func seasonal(rec *ProductRecord, name string) (SeasonalKind, string) {
	if rec.Halloween {
		return SeasonalHalloween, "Campo halloween en variante"
	}
	if rec.Navidad {
		return SeasonalNavidad, "Campo navidad en variante"
	}

	nom := strings.ToLower(name)
	if strings.Contains(nom, "halloween") {
		return SeasonalHalloween, "Palabra 'halloween' en nombre"
	}
	if strings.Contains(nom, "navidad") {
		return SeasonalNavidad, "Palabra 'navidad' en nombre"
	}

	cat := strings.ToLower(rec.Category)
	if strings.Contains(cat, "halloween") {
		return SeasonalHalloween, "Palabra 'halloween' en categoría"
	}
	if strings.Contains(cat, "navidad") {
		return SeasonalNavidad, "Palabra 'navidad' en categoría"
	}

	if t := rec.Template; t != nil {
		if t.Halloween {
			return SeasonalHalloween, "Campo halloween en plantilla"
		}
		if t.Navidad {
			return SeasonalNavidad, "Campo navidad en plantilla"
		}
		tn := strings.ToLower(t.Name)
		if strings.Contains(tn, "halloween") {
			return SeasonalHalloween, "Palabra 'halloween' en nombre de plantilla"
		}
		if strings.Contains(tn, "navidad") {
			return SeasonalNavidad, "Palabra 'navidad' en nombre de plantilla"
		}
	}

	return SeasonalNone, ""
}

// resolveLotSize resolves the replenishment unit: variant value first, then
// template, defaulting to 1 when neither is set. A value that is set but is
// not a positive integer yields 0, which the engine reports as invalid.
func resolveLotSize(rec *ProductRecord) int {
	variant := rec.LotSize
	var template float64
	if rec.Template != nil {
		template = rec.Template.LotSize
	}

	for _, raw := range []float64{variant, template} {
		if raw == 0 {
			continue
		}
		if raw < 0 || raw != math.Trunc(raw) {
			return 0
		}
		return int(raw)
	}
	return 1
}

// pickName prefers the template name over the variant's, as the template
// carries the curated English name.
func pickName(rec *ProductRecord) string {
	if rec.Template != nil && rec.Template.Name != "" {
		return rec.Template.Name
	}
	return rec.Name
}

// CleanName strips the "(copia)" marker and collapses duplicate spaces.
func CleanName(name string) string {
	if name == "" {
		return ""
	}
	name = strings.ReplaceAll(name, "(copia)", "")
	name = strings.TrimSpace(name)
	for strings.Contains(name, "  ") {
		name = strings.ReplaceAll(name, "  ", " ")
	}
	return name
}
