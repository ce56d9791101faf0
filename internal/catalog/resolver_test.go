// backend-go/internal/catalog/resolver_test.go
package catalog

import (
	"testing"

	"github.com/blackdogpanama/pedidos/backend-go/internal/domain"
)

var testKeywords = []string{"urna", "ropa mascota", "(copia)", "halloween", "navidad"}

func TestTypeOf(t *testing.T) {
	r := NewResolver(testKeywords)

	tests := []struct {
		name     string
		category string
		product  string
		want     domain.ProductType
	}{
		{"insumo", "Insumos de limpieza", "Detergente", domain.TypeInsumos},
		{"gasto", "Gastos generales", "Bolsas", domain.TypeInsumos},
		{"alimento", "Alimento Perro Adulto", "Croquetas", domain.TypeAlimentos},
		{"medicado counts as food", "Alimento Medicado", "Dieta renal", domain.TypeAlimentos},
		{"treat counts as food", "Treats / Snacks", "Galletas", domain.TypeAlimentos},
		{"accesorio", "Accesorios / Correas", "Correa nylon", domain.TypeAccesorios},
		{"medicamento", "Medicamentos", "Antipulgas", domain.TypeMedicamentos},
		{"vacuna", "Vacunas", "Triple felina", domain.TypeMedicamentos},
		{"no match", "Servicios", "Baño y corte", domain.TypeOtros},
		{"insumo wins over alimento", "Insumos alimento", "Mezcla", domain.TypeInsumos},
		{"exclusion keyword in name", "Accesorios", "Urna de madera", domain.TypeOtros},
		{"exclusion keyword in category", "Ropa mascota", "Abrigo", domain.TypeOtros},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := r.TypeOf(tt.category, tt.product); got != tt.want {
				t.Errorf("TypeOf(%q, %q) = %s, want %s", tt.category, tt.product, got, tt.want)
			}
		})
	}
}

func TestResolveSeasonalExclusion(t *testing.T) {
	r := NewResolver(testKeywords)

	tests := []struct {
		name   string
		rec    *ProductRecord
		kind   SeasonalKind
		source string
	}{
		{
			name:   "variant flag",
			rec:    &ProductRecord{Name: "Disfraz", Category: "Accesorios", Halloween: true},
			kind:   SeasonalHalloween,
			source: "Campo halloween en variante",
		},
		{
			name:   "word in name",
			rec:    &ProductRecord{Name: "Collar Halloween", Category: "Accesorios"},
			kind:   SeasonalHalloween,
			source: "Palabra 'halloween' en nombre",
		},
		{
			name:   "word in category",
			rec:    &ProductRecord{Name: "Gorro", Category: "Accesorios Navidad"},
			kind:   SeasonalNavidad,
			source: "Palabra 'navidad' en categoría",
		},
		{
			name: "template flag",
			rec: &ProductRecord{
				Name:     "Sueter",
				Category: "Accesorios",
				Template: &TemplateRecord{Name: "Sueter", Navidad: true},
			},
			kind:   SeasonalNavidad,
			source: "Campo navidad en plantilla",
		},
		{
			name: "word in template name",
			rec: &ProductRecord{
				Name:     "Juguete",
				Category: "Accesorios",
				Template: &TemplateRecord{Name: "Juguete Halloween calabaza"},
			},
			kind:   SeasonalHalloween,
			source: "Palabra 'halloween' en nombre de plantilla",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, cls := r.Resolve(tt.rec)
			if !cls.Excluded {
				t.Fatal("seasonal product should be excluded")
			}
			if cls.Seasonal != tt.kind {
				t.Errorf("seasonal kind = %v, want %v", cls.Seasonal, tt.kind)
			}
			if cls.ExclusionReason != tt.source {
				t.Errorf("reason = %q, want %q", cls.ExclusionReason, tt.source)
			}
		})
	}
}

func TestResolveCategoryExclusion(t *testing.T) {
	r := NewResolver(testKeywords)

	p, cls := r.Resolve(&ProductRecord{Name: "Detergente", Category: "Insumos"})
	if !cls.Excluded {
		t.Fatal("insumos product should be excluded")
	}
	if cls.Seasonal != SeasonalNone {
		t.Error("category exclusion must not count as seasonal")
	}
	if p.Type != domain.TypeInsumos {
		t.Errorf("type = %s, want insumos", p.Type)
	}
}

func TestResolveClinicOnly(t *testing.T) {
	r := NewResolver(testKeywords)

	tests := []struct {
		name string
		rec  *ProductRecord
		want bool
	}{
		{"variant flag", &ProductRecord{Name: "Anestesico", Category: "Medicamentos", ClinicOnly: true}, true},
		{
			"template flag",
			&ProductRecord{Name: "Anestesico", Category: "Medicamentos", Template: &TemplateRecord{ClinicOnly: true}},
			true,
		},
		{"neither", &ProductRecord{Name: "Antipulgas", Category: "Medicamentos"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, _ := r.Resolve(tt.rec)
			if p.ClinicOnly != tt.want {
				t.Errorf("ClinicOnly = %v, want %v", p.ClinicOnly, tt.want)
			}
		})
	}
}

func TestResolveLotSize(t *testing.T) {
	tests := []struct {
		name string
		rec  *ProductRecord
		want int
	}{
		{"variant value", &ProductRecord{LotSize: 6}, 6},
		{"template fallback", &ProductRecord{Template: &TemplateRecord{LotSize: 12}}, 12},
		{"variant wins over template", &ProductRecord{LotSize: 6, Template: &TemplateRecord{LotSize: 12}}, 6},
		{"unset defaults to one", &ProductRecord{}, 1},
		{"negative is invalid", &ProductRecord{LotSize: -4}, 0},
		{"fractional is invalid", &ProductRecord{LotSize: 2.5}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := resolveLotSize(tt.rec); got != tt.want {
				t.Errorf("resolveLotSize() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCleanName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Collar rojo (copia)", "Collar rojo"},
		{"Collar  rojo   grande", "Collar rojo grande"},
		{"  Collar  ", "Collar"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := CleanName(tt.in); got != tt.want {
			t.Errorf("CleanName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestResolvePrefersTemplateName(t *testing.T) {
	r := NewResolver(testKeywords)

	p, _ := r.Resolve(&ProductRecord{
		Name:     "PROD-001",
		Category: "Alimento Perro",
		Template: &TemplateRecord{Name: "Croquetas adulto 15kg"},
	})
	if p.Name != "Croquetas adulto 15kg" {
		t.Errorf("name = %q, want template name", p.Name)
	}
}

func TestResolveTemplateInventoryBounds(t *testing.T) {
	r := NewResolver(testKeywords)

	p, _ := r.Resolve(&ProductRecord{
		Name:     "Croquetas",
		Category: "Alimento Perro",
		Template: &TemplateRecord{MinInventory: 2, MaxInventory: 10, LargeItem: true},
	})
	if p.MinInventory != 2 || p.MaxInventory != 10 {
		t.Errorf("bounds = (%d, %d), want (2, 10)", p.MinInventory, p.MaxInventory)
	}
	if !p.LargeItem {
		t.Error("large-item flag should carry over from the template")
	}
}
