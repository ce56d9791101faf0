// backend-go/internal/export/export_test.go
package export

import (
	"archive/zip"
	"os"
	"path/filepath"
	"testing"

	"github.com/blackdogpanama/pedidos/backend-go/internal/domain"
	"github.com/blackdogpanama/pedidos/backend-go/internal/grouping"
	"github.com/blackdogpanama/pedidos/backend-go/internal/report"
)

func testGrouped() *grouping.Grouped {
	stores := domain.NewStoreDirectory([]domain.StoreInfo{
		{Name: "tienda a", Route: "R1"},
		{Name: "tienda b", Route: "R1"},
	})

	return grouping.NewAggregator(stores).Group([]domain.AllocationDecision{
		{Store: "tienda a", Barcode: "111", Product: "Croquetas", Category: "Alimento Perro", Type: domain.TypeAlimentos, Quantity: 6},
		{Store: "tienda b", Barcode: "111", Product: "Croquetas", Category: "Alimento Perro", Type: domain.TypeAlimentos, Quantity: 3},
		{Store: "tienda a", Barcode: "333", Product: "Antipulgas", Category: "Medicamentos", Type: domain.TypeMedicamentos, Quantity: 2},
	})
}

func TestExportFileTree(t *testing.T) {
	base := t.TempDir()
	e := NewExporter(filepath.Join(base, "out"), filepath.Join(base, "zips"))

	out, err := e.Export(testGrouped(), report.NewBuilder().Build(), "20260831_120000")
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	routeDir := filepath.Join(out.Dir, "R1_PEDIDO_20260831_120000")
	wantFiles := []string{
		filepath.Join(routeDir, "Tienda_A", "Tienda_A_R1_ALIMENTOS_20260831_120000.xlsx"),
		filepath.Join(routeDir, "Tienda_B", "Tienda_B_R1_ALIMENTOS_20260831_120000.xlsx"),
		// Medicamentos files land in the shared folder, not the store folder.
		filepath.Join(out.Dir, "medicamentos", "Tienda_A_R1_MEDICAMENTOS_20260831_120000.xlsx"),
		filepath.Join(routeDir, "MASTER_ALIMENTOS_R1_20260831_120000.xlsx"),
		filepath.Join(routeDir, "MASTER_MEDICAMENTOS_R1_20260831_120000.xlsx"),
		filepath.Join(out.Dir, "MASTER_GLOBAL_20260831_120000.xlsx"),
		out.LogPath,
	}
	for _, f := range wantFiles {
		if _, err := os.Stat(f); err != nil {
			t.Errorf("missing artifact %s: %v", f, err)
		}
	}

	if _, err := os.Stat(filepath.Join(routeDir, "Tienda_A", "Tienda_A_R1_MEDICAMENTOS_20260831_120000.xlsx")); err == nil {
		t.Error("medicamentos file must not appear inside the store folder")
	}
}

func TestExportZipContainsTree(t *testing.T) {
	base := t.TempDir()
	e := NewExporter(filepath.Join(base, "out"), filepath.Join(base, "zips"))

	out, err := e.Export(testGrouped(), report.NewBuilder().Build(), "20260831_120000")
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	r, err := zip.OpenReader(out.ZipPath)
	if err != nil {
		t.Fatalf("zip unreadable: %v", err)
	}
	defer r.Close()

	names := make(map[string]bool, len(r.File))
	for _, f := range r.File {
		names[f.Name] = true
	}

	if !names["MASTER_GLOBAL_20260831_120000.xlsx"] {
		t.Error("zip missing the global master")
	}
	if !names["log_pedidos_20260831_120000.txt"] {
		t.Error("zip missing the audit log")
	}
	if !names["R1_PEDIDO_20260831_120000/Tienda_A/Tienda_A_R1_ALIMENTOS_20260831_120000.xlsx"] {
		t.Error("zip missing the store order file")
	}
}

func TestCreateZipRoundTrip(t *testing.T) {
	src := t.TempDir()
	if err := os.MkdirAll(filepath.Join(src, "sub"), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(src, "sub", "a.txt"), []byte("hola"), 0644); err != nil {
		t.Fatal(err)
	}

	zipPath := filepath.Join(t.TempDir(), "out.zip")
	if err := createZip(src, zipPath); err != nil {
		t.Fatalf("createZip() error: %v", err)
	}

	r, err := zip.OpenReader(zipPath)
	if err != nil {
		t.Fatalf("zip unreadable: %v", err)
	}
	defer r.Close()

	if len(r.File) != 1 || r.File[0].Name != "sub/a.txt" {
		t.Errorf("entries = %v, want [sub/a.txt]", entryNames(r))
	}
}

func entryNames(r *zip.ReadCloser) []string {
	names := make([]string, 0, len(r.File))
	for _, f := range r.File {
		names = append(names, f.Name)
	}
	return names
}

func TestFileStoreName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"tienda a", "Tienda_A"},
		{"brisas del golf", "Brisas_Del_Golf"},
		{"calle 50", "Calle_50"},
	}
	for _, tt := range tests {
		if got := fileStoreName(tt.in); got != tt.want {
			t.Errorf("fileStoreName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
