// backend-go/cmd/files/main.go
// files serves the generated run artifacts over HTTP: zip bundles for
// download and the per-run file trees for browsing.
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gorilla/mux"
	"github.com/joho/godotenv"

	"github.com/blackdogpanama/pedidos/backend-go/internal/config"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()

	r := mux.NewRouter()

	r.HandleFunc("/zips", listZips(cfg.App.ZipDir)).Methods("GET")
	r.HandleFunc("/zips/{name}", downloadZip(cfg.App.ZipDir)).Methods("GET")
	r.PathPrefix("/pedidos/").Handler(
		http.StripPrefix("/pedidos/", http.FileServer(http.Dir(cfg.App.OutputDir))),
	).Methods("GET")

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	}).Methods("GET")

	port := os.Getenv("FILES_PORT")
	if port == "" {
		port = "8081"
	}
	addr := fmt.Sprintf(":%s", port)
	log.Printf("File server starting on %s\n", addr)
	log.Fatal(http.ListenAndServe(addr, r))
}

type zipEntry struct {
	Name string `json:"name"`
	Size int64  `json:"size"`
}

func listZips(zipDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := os.ReadDir(zipDir)
		if err != nil {
			http.Error(w, "could not read zip directory", http.StatusInternalServerError)
			return
		}

		zips := make([]zipEntry, 0, len(entries))
		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".zip") {
				continue
			}
			info, err := entry.Info()
			if err != nil {
				continue
			}
			zips = append(zips, zipEntry{Name: entry.Name(), Size: info.Size()})
		}
		sort.Slice(zips, func(i, j int) bool { return zips[i].Name > zips[j].Name })

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(zips)
	}
}

func downloadZip(zipDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := mux.Vars(r)["name"]
		if name != filepath.Base(name) || !strings.HasSuffix(name, ".zip") {
			http.Error(w, "invalid zip name", http.StatusBadRequest)
			return
		}

		path := filepath.Join(zipDir, name)
		if _, err := os.Stat(path); err != nil {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
		http.ServeFile(w, r, path)
	}
}
