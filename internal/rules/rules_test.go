// backend-go/internal/rules/rules_test.go
package rules

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/blackdogpanama/pedidos/backend-go/internal/domain"
)

func TestMonthsFor(t *testing.T) {
	r := Default()

	tests := []struct {
		name  string
		typ   domain.ProductType
		class domain.StoreClass
		want  float64
	}{
		{"alimentos regular", domain.TypeAlimentos, domain.ClassRegular, 1},
		{"medicamentos regular", domain.TypeMedicamentos, domain.ClassRegular, 2},
		{"medicamentos chica", domain.TypeMedicamentos, domain.ClassSmall, 1},
		{"unknown type falls back to general", domain.TypeOtros, domain.ClassRegular, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.MonthsFor(tt.typ, tt.class); got != tt.want {
				t.Errorf("MonthsFor(%s, %s) = %v, want %v", tt.typ, tt.class, got, tt.want)
			}
		})
	}
}

func TestCategoryMinimum(t *testing.T) {
	r := Default()

	tests := []struct {
		name        string
		typ         domain.ProductType
		subcategory string
		class       domain.StoreClass
		want        int
	}{
		{"alimentos regular", domain.TypeAlimentos, "Alimento Perro", domain.ClassRegular, 1},
		{"accesorio correa regular", domain.TypeAccesorios, "Accesorios / Correas", domain.ClassRegular, 2},
		{"accesorio collar chica", domain.TypeAccesorios, "Collares", domain.ClassSmall, 1},
		{"accesorio juguete", domain.TypeAccesorios, "Juguetes para gato", domain.ClassRegular, 1},
		{"accesorio default", domain.TypeAccesorios, "Camas", domain.ClassRegular, 3},
		{"medicamento", domain.TypeMedicamentos, "Vacunas", domain.ClassRegular, 1},
		{"otros has no floor", domain.TypeOtros, "", domain.ClassRegular, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.CategoryMinimum(tt.typ, tt.subcategory, tt.class); got != tt.want {
				t.Errorf("CategoryMinimum(%s, %q, %s) = %d, want %d", tt.typ, tt.subcategory, tt.class, got, tt.want)
			}
		})
	}
}

func TestMinimumToOrder(t *testing.T) {
	r := Default()

	if got := r.MinimumToOrder("Alimento Perro", domain.ClassRegular); got != 2 {
		t.Errorf("regular minimum = %d, want 2", got)
	}
	if got := r.MinimumToOrder("Alimento Perro", domain.ClassSmall); got != 1 {
		t.Errorf("chica minimum = %d, want 1", got)
	}
}

func TestZeroStockFloorApplies(t *testing.T) {
	r := Default()

	// Default policy: estimate at or below the threshold of 1.
	if !r.ZeroStockFloorApplies(0) {
		t.Error("estimate 0 should trigger the floor")
	}
	if !r.ZeroStockFloorApplies(1) {
		t.Error("estimate 1 should trigger the floor")
	}
	if r.ZeroStockFloorApplies(2) {
		t.Error("estimate 2 should not trigger the floor")
	}

	r.StockCero.ConsiderarVentasMinimas = false
	if !r.ZeroStockFloorApplies(0) {
		t.Error("estimate 0 should trigger the floor without the threshold variant")
	}
	if r.ZeroStockFloorApplies(1) {
		t.Error("estimate 1 should not trigger the floor without the threshold variant")
	}

	r.StockCero.AplicarMinimoSinVentas = false
	if r.ZeroStockFloorApplies(0) {
		t.Error("disabled policy must never trigger")
	}
}

func TestParseFillsDefaults(t *testing.T) {
	r, err := Parse([]byte(`{"meses_inventario": {"general": 3}}`))
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}

	if r.MesesInventario.General != 3 {
		t.Errorf("general months = %v, want 3", r.MesesInventario.General)
	}
	if r.MinimosAccesorios == nil {
		t.Error("accessory minimums should be filled from defaults")
	}
	if len(r.ExcluirPalabras) == 0 {
		t.Error("exclusion keywords should be filled from defaults")
	}
}

func TestLoadMissingFileWrapsNotExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("error should wrap os.ErrNotExist, got %v", err)
	}
}

func TestParseRejectsBadJSON(t *testing.T) {
	if _, err := Parse([]byte(`{not json`)); err == nil {
		t.Error("expected error for malformed document")
	}
}

func TestSubstringLookupIsDeterministic(t *testing.T) {
	table := map[string]int{"correa": 2, "collar": 5, "default": 3}

	// "collar" sorts before "correa"; a name containing both must always
	// resolve to the same entry.
	for i := 0; i < 20; i++ {
		if got := substringLookup(table, "collar con correa", 0); got != 5 {
			t.Fatalf("lookup = %d, want 5 (iteration %d)", got, i)
		}
	}
}
