// backend-go/internal/rules/rules.go
package rules

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/blackdogpanama/pedidos/backend-go/internal/domain"
)

// Rules is the typed business-rules document driving the allocation engine:
// inventory-months targets, per-category minimums, minimum-to-order thresholds,
// the large-item option and the stock-zero policy. The JSON layout matches the
// settings file the operations team edits.
type Rules struct {
	MesesInventario     InventoryMonths           `json:"meses_inventario"`
	MinimosAlimentos    map[string]int            `json:"minimos_alimentos"`
	MinimosAccesorios   map[string]map[string]int `json:"minimos_accesorios"`
	MinimosMedicamentos map[string]int            `json:"minimos_medicamentos"`
	MinimosParaPedir    map[string]map[string]int `json:"minimos_para_pedir"`
	ProductosGrandes    LargeItemOptions          `json:"opciones_productos_grandes"`
	StockCero           ZeroStockPolicy           `json:"reglas_stock_cero"`

	// ExcluirPalabras force-classifies matching products as "otros".
	ExcluirPalabras []string `json:"excluir_palabras,omitempty"`
}

// InventoryMonths holds the months-of-inventory targets. Categorias is keyed
// by category key, then store class.
type InventoryMonths struct {
	General    float64                       `json:"general"`
	Categorias map[string]map[string]float64 `json:"categorias"`
}

// LargeItemOptions controls large-item handling.
type LargeItemOptions struct {
	ExcluirDeTiendasChicas bool `json:"excluir_de_tiendas_chicas"`
}

// ZeroStockPolicy gates the stock-zero floor rule.
type ZeroStockPolicy struct {
	AplicarMinimoSinVentas  bool `json:"aplicar_minimo_sin_ventas"`
	ConsiderarVentasMinimas bool `json:"considerar_ventas_minimas"`
	UmbralVentasMinimas     int  `json:"umbral_ventas_minimas"`
}

// Default returns the embedded default document.
func Default() *Rules {
	return &Rules{
		MesesInventario: InventoryMonths{
			General: 1,
			Categorias: map[string]map[string]float64{
				"alimento":    {"regular": 1, "chica": 1},
				"accesorio":   {"regular": 1, "chica": 1},
				"medicamento": {"regular": 2, "chica": 1},
			},
		},
		MinimosAlimentos: map[string]int{"regular": 1, "chica": 1},
		MinimosAccesorios: map[string]map[string]int{
			"regular": {"default": 3, "correa": 2, "collar": 2, "juguete": 1},
			"chica":   {"default": 2, "correa": 1, "collar": 1, "juguete": 1},
		},
		MinimosMedicamentos: map[string]int{"regular": 1, "chica": 1},
		MinimosParaPedir: map[string]map[string]int{
			"regular": {"default": 2},
			"chica":   {"default": 1},
		},
		ProductosGrandes: LargeItemOptions{ExcluirDeTiendasChicas: true},
		StockCero: ZeroStockPolicy{
			AplicarMinimoSinVentas:  true,
			ConsiderarVentasMinimas: true,
			UmbralVentasMinimas:     1,
		},
		ExcluirPalabras: []string{"urna", "ropa mascota", "(copia)", "halloween", "navidad"},
	}
}

// Load reads a rules file; missing keys fall back to defaults. A missing or
// unreadable file yields the defaults and no error metadata beyond err.
func Load(path string) (*Rules, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), fmt.Errorf("read rules file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a rules document, filling any missing keys from defaults.
func Parse(data []byte) (*Rules, error) {
	var r Rules
	if err := json.Unmarshal(data, &r); err != nil {
		return Default(), fmt.Errorf("decode rules: %w", err)
	}
	r.fillDefaults()
	return &r, nil
}

func (r *Rules) fillDefaults() {
	def := Default()
	if r.MesesInventario.General <= 0 {
		r.MesesInventario.General = def.MesesInventario.General
	}
	if r.MesesInventario.Categorias == nil {
		r.MesesInventario.Categorias = def.MesesInventario.Categorias
	}
	if r.MinimosAlimentos == nil {
		r.MinimosAlimentos = def.MinimosAlimentos
	}
	if r.MinimosAccesorios == nil {
		r.MinimosAccesorios = def.MinimosAccesorios
	}
	if r.MinimosMedicamentos == nil {
		r.MinimosMedicamentos = def.MinimosMedicamentos
	}
	if r.MinimosParaPedir == nil {
		r.MinimosParaPedir = def.MinimosParaPedir
	}
	if len(r.ExcluirPalabras) == 0 {
		r.ExcluirPalabras = def.ExcluirPalabras
	}
}

// monthsKeys maps resolved product types to their months-table keys.
var monthsKeys = map[domain.ProductType]string{
	domain.TypeAlimentos:    "alimento",
	domain.TypeAccesorios:   "accesorio",
	domain.TypeMedicamentos: "medicamento",
}

// MonthsFor returns the months-of-inventory target for a product type and
// store class. Exact category key lookup with the general value as fallback;
// the legacy substring variant of this table is deliberately not reproduced.
func (r *Rules) MonthsFor(t domain.ProductType, class domain.StoreClass) float64 {
	key, ok := monthsKeys[t]
	if !ok {
		return r.MesesInventario.General
	}
	if byClass, ok := r.MesesInventario.Categorias[key]; ok {
		if v, ok := byClass[string(class)]; ok && v > 0 {
			return v
		}
	}
	return r.MesesInventario.General
}

// CategoryMinimum returns the stock floor for a product type at a store class.
// Accessories are additionally keyed by sub-category substring match with a
// "default" fallback; subcategory is the raw category name of the product.
func (r *Rules) CategoryMinimum(t domain.ProductType, subcategory string, class domain.StoreClass) int {
	switch t {
	case domain.TypeAlimentos:
		return valueFor(r.MinimosAlimentos, class, 1)
	case domain.TypeMedicamentos:
		return valueFor(r.MinimosMedicamentos, class, 1)
	case domain.TypeAccesorios:
		return substringLookup(r.MinimosAccesorios[string(class)], subcategory, 3)
	}
	return 0
}

// MinimumToOrder returns the minimum order size below which a computed
// quantity is dropped. Same substring-with-default pattern as accessories.
func (r *Rules) MinimumToOrder(subcategory string, class domain.StoreClass) int {
	return substringLookup(r.MinimosParaPedir[string(class)], subcategory, 2)
}

// ZeroStockFloorApplies reports whether the stock-zero floor rule fires for a
// store with zero on-hand and the given demand estimate.
func (r *Rules) ZeroStockFloorApplies(estimate int) bool {
	if !r.StockCero.AplicarMinimoSinVentas {
		return false
	}
	if r.StockCero.ConsiderarVentasMinimas {
		return estimate <= r.StockCero.UmbralVentasMinimas
	}
	return estimate == 0
}

func valueFor(table map[string]int, class domain.StoreClass, fallback int) int {
	if v, ok := table[string(class)]; ok {
		return v
	}
	return fallback
}

// substringLookup finds the first table key contained in the subcategory name.
// Keys are visited in sorted order so ambiguous names resolve the same way on
// every run; "default" is only used when nothing else matches.
func substringLookup(table map[string]int, subcategory string, fallback int) int {
	if table == nil {
		return fallback
	}
	sub := strings.ToLower(subcategory)
	if sub != "" {
		keys := make([]string, 0, len(table))
		for k := range table {
			if k != "default" {
				keys = append(keys, k)
			}
		}
		sort.Strings(keys)
		for _, k := range keys {
			if strings.Contains(sub, strings.ToLower(k)) {
				return table[k]
			}
		}
	}
	if v, ok := table["default"]; ok {
		return v
	}
	return fallback
}
