// backend-go/internal/api/handlers/settings_handler_test.go
package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/blackdogpanama/pedidos/backend-go/internal/rules"
)

func settingsRouter(rulesPath string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewSettingsHandler(rulesPath)
	r := gin.New()
	r.GET("/settings", h.GetSettings)
	r.PUT("/settings", h.UpdateSettings)
	return r
}

func TestGetSettingsServesDefaultsWhenFileMissing(t *testing.T) {
	router := settingsRouter(filepath.Join(t.TempDir(), "config_ajustes.json"))

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/settings", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
	}

	var got rules.Rules
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	want := rules.Default()
	if got.MesesInventario.General != want.MesesInventario.General {
		t.Errorf("general months = %v, want %v", got.MesesInventario.General, want.MesesInventario.General)
	}
	if len(got.ExcluirPalabras) == 0 {
		t.Error("defaults should carry the exclusion keywords")
	}
}

func TestGetSettingsServesStoredDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config_ajustes.json")
	if err := os.WriteFile(path, []byte(`{"meses_inventario": {"general": 4}}`), 0644); err != nil {
		t.Fatal(err)
	}
	router := settingsRouter(path)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/settings", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var got rules.Rules
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.MesesInventario.General != 4 {
		t.Errorf("general months = %v, want 4", got.MesesInventario.General)
	}
}

func TestUpdateSettingsStoresAndFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config_ajustes.json")
	router := settingsRouter(path)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/settings", strings.NewReader(`{"meses_inventario": {"general": 3}}`))
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", w.Code, http.StatusOK, w.Body.String())
	}

	stored, err := rules.Load(path)
	if err != nil {
		t.Fatalf("Load() after update: %v", err)
	}
	if stored.MesesInventario.General != 3 {
		t.Errorf("stored general months = %v, want 3", stored.MesesInventario.General)
	}
	if stored.MinimosAccesorios == nil {
		t.Error("stored document should have accessory minimums filled from defaults")
	}
}

func TestUpdateSettingsRejectsMalformedBody(t *testing.T) {
	router := settingsRouter(filepath.Join(t.TempDir(), "config_ajustes.json"))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/settings", strings.NewReader(`{not json`))
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}
