// backend-go/internal/report/report_test.go
package report

import (
	"strings"
	"testing"

	"github.com/blackdogpanama/pedidos/backend-go/internal/catalog"
	"github.com/blackdogpanama/pedidos/backend-go/internal/domain"
	"github.com/blackdogpanama/pedidos/backend-go/internal/engine"
)

func TestTitle(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"tienda centro", "Tienda Centro"},
		{"ñandú azul", "Ñandú Azul"},
		{"clínica este", "Clínica Este"},
		{"", ""},
	}

	for _, tt := range tests {
		if got := title(tt.in); got != tt.want {
			t.Errorf("title(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuilderTallies(t *testing.T) {
	b := NewBuilder()

	b.AddExcluded("Disfraz calabaza", catalog.SeasonalHalloween, "Campo halloween en variante")
	b.AddExcluded("Gorro rojo", catalog.SeasonalNavidad, "Palabra 'navidad' en nombre")
	b.AddExcluded("Detergente", catalog.SeasonalNone, "Categoría excluida: insumos")

	p := domain.Product{Name: "Croquetas", Category: "Alimento Perro", Type: domain.TypeAlimentos}
	b.AddResult(p, engine.Result{
		InitialStock: 10,
		Decisions: []domain.AllocationDecision{
			{Store: "tienda a", Product: "Croquetas", Category: "Alimento Perro", Type: domain.TypeAlimentos, Quantity: 6, Reason: domain.ReasonSalesBased},
		},
	})

	rep := b.Build()

	if rep.Stats.ProductsProcessed != 4 {
		t.Errorf("processed = %d, want 4", rep.Stats.ProductsProcessed)
	}
	if rep.Stats.HalloweenExcluded != 1 || rep.Stats.NavidadExcluded != 1 {
		t.Errorf("seasonal tallies = (%d, %d), want (1, 1)", rep.Stats.HalloweenExcluded, rep.Stats.NavidadExcluded)
	}
	if rep.Stats.TotalExcluded != 3 {
		t.Errorf("excluded = %d, want 3", rep.Stats.TotalExcluded)
	}
	if rep.Stats.TotalUnits != 6 {
		t.Errorf("units = %d, want 6", rep.Stats.TotalUnits)
	}
	if rep.StoreTotals["tienda a"][domain.TypeAlimentos] != 6 {
		t.Errorf("store totals = %+v", rep.StoreTotals)
	}
}

func TestBuilderInvalidLot(t *testing.T) {
	b := NewBuilder()

	p := domain.Product{Name: "Correa", InternalRef: "C-01", Category: "Accesorios"}
	b.AddResult(p, engine.Result{LotSizeInvalid: true})

	rep := b.Build()
	if len(rep.InvalidLots) != 1 {
		t.Fatalf("invalid lots = %d, want 1", len(rep.InvalidLots))
	}
	if rep.InvalidLots[0].Code != "C-01" {
		t.Errorf("code = %q, want C-01", rep.InvalidLots[0].Code)
	}
	if rep.Stats.ProductsWithOrders != 0 {
		t.Error("an invalid-lot product must not count as ordered")
	}
}

func TestBuilderClinicOnlyLimited(t *testing.T) {
	b := NewBuilder()

	p := domain.Product{Name: "Anestesico", Category: "Medicamentos", ClinicOnly: true}
	b.AddResult(p, engine.Result{InitialStock: 5})

	rep := b.Build()
	if rep.Stats.ClinicOnlyLimited != 1 {
		t.Errorf("clinic-only limited = %d, want 1", rep.Stats.ClinicOnlyLimited)
	}
}

func TestRenderSections(t *testing.T) {
	b := NewBuilder()
	b.AddExcluded("Gorro rojo", catalog.SeasonalNavidad, "Palabra 'navidad' en nombre")

	p := domain.Product{Name: "Croquetas", Category: "Alimento Perro", Type: domain.TypeAlimentos}
	b.AddResult(p, engine.Result{
		Decisions: []domain.AllocationDecision{
			{Store: "tienda a", Product: "Croquetas", Category: "Alimento Perro", Type: domain.TypeAlimentos, Quantity: 6, Reason: domain.ReasonSalesBased},
		},
		Shortfalls: []domain.ShortfallEvent{
			{Store: "tienda a", Product: "Croquetas", Category: "Alimento Perro", Requested: 10, Delivered: 6},
		},
	})

	var sb strings.Builder
	if err := b.Build().Render(&sb); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	out := sb.String()

	for _, section := range []string{
		"ESTADÍSTICAS GENERALES",
		"PRODUCTOS EXCLUIDOS DEL PROCESAMIENTO",
		"PRODUCTOS NO SUPLIDOS POR FALTA DE STOCK EN BODEGA",
		"RESUMEN DE PRODUCTOS ENVIADOS POR TIENDA",
		"DETALLE DE MOTIVOS DE PEDIDO POR TIENDA Y PRODUCTO",
	} {
		if !strings.Contains(out, section) {
			t.Errorf("log missing section %q", section)
		}
	}

	if !strings.Contains(out, "TIENDA A") {
		t.Error("log should list the store in uppercase")
	}
	if !strings.Contains(out, "Solicitado 10, Entregado 6") {
		t.Error("log should include the shortfall line")
	}
}

func TestRenderEmptyReport(t *testing.T) {
	var sb strings.Builder
	if err := NewBuilder().Build().Render(&sb); err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(sb.String(), "Productos procesados: 0") {
		t.Error("empty report should still render the statistics header")
	}
}
