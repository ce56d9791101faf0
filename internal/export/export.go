// backend-go/internal/export/export.go
// Package export turns a run's grouped decisions into the picker file tree:
// per-store xlsx files split by route and category, consolidated masters, the
// Spanish audit log and a zip bundle of the whole run.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/blackdogpanama/pedidos/backend-go/internal/domain"
	"github.com/blackdogpanama/pedidos/backend-go/internal/grouping"
	"github.com/blackdogpanama/pedidos/backend-go/internal/report"
	"github.com/blackdogpanama/pedidos/backend-go/pkg/logger"
)

// Exporter writes run artifacts under a base output directory and packages
// them under a zip directory.
type Exporter struct {
	outputDir string
	zipDir    string
}

func NewExporter(outputDir, zipDir string) *Exporter {
	return &Exporter{outputDir: outputDir, zipDir: zipDir}
}

// Output describes where one run's artifacts landed.
type Output struct {
	Sequence string
	Dir      string
	LogPath  string
	ZipPath  string
}

// NextSequence returns the timestamp tag shared by every file of one run.
func NextSequence() string {
	return time.Now().Format("20060102_150405")
}

// Export writes the full file tree for one run: store files per route (with
// medicamentos collected in a shared folder), per-route masters, the global
// master, the audit log, and finally the zip bundle.
func (e *Exporter) Export(g *grouping.Grouped, rep *report.Report, sequence string) (*Output, error) {
	runDir := filepath.Join(e.outputDir, "pedidos_"+sequence)
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create run directory: %w", err)
	}

	medsDir := filepath.Join(runDir, "medicamentos")
	if err := os.MkdirAll(medsDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create medicamentos directory: %w", err)
	}

	for route, stores := range g.ByRoute {
		routeDir := filepath.Join(runDir, fmt.Sprintf("%s_PEDIDO_%s", route, sequence))
		if err := os.MkdirAll(routeDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create route directory %s: %w", route, err)
		}

		for store, types := range stores {
			storeName := fileStoreName(store)
			storeDir := filepath.Join(routeDir, storeName)
			if err := os.MkdirAll(storeDir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create store directory %s: %w", store, err)
			}

			for t, items := range types {
				if domain.ExcludedTypes[t] || len(items) == 0 {
					continue
				}

				fileName := fmt.Sprintf("%s_%s_%s_%s.xlsx", storeName, route, strings.ToUpper(string(t)), sequence)

				dir := storeDir
				if t == domain.TypeMedicamentos {
					dir = medsDir
				}
				if err := writeOrderSheet(filepath.Join(dir, fileName), items); err != nil {
					return nil, err
				}

				logger.Log.Debug().
					Str("file", fileName).
					Int("lines", len(items)).
					Msg("Wrote store order file")
			}
		}
	}

	for route, types := range g.Masters {
		routeDir := filepath.Join(runDir, fmt.Sprintf("%s_PEDIDO_%s", route, sequence))
		if err := os.MkdirAll(routeDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create route directory %s: %w", route, err)
		}

		for _, t := range domain.MasterTypes {
			items := types[t]
			if len(items) == 0 {
				continue
			}

			fileName := fmt.Sprintf("MASTER_%s_%s_%s.xlsx", strings.ToUpper(string(t)), route, sequence)
			if err := writeOrderSheet(filepath.Join(routeDir, fileName), items); err != nil {
				return nil, err
			}

			logger.Log.Info().
				Str("file", fileName).
				Int("lines", len(items)).
				Msg("Wrote route master")
		}
	}

	if len(g.Global) > 0 {
		globalPath := filepath.Join(runDir, fmt.Sprintf("MASTER_GLOBAL_%s.xlsx", sequence))
		if err := writeOrderSheet(globalPath, g.Global); err != nil {
			return nil, err
		}
		logger.Log.Info().
			Str("file", globalPath).
			Int("lines", len(g.Global)).
			Msg("Wrote global master")
	}

	logPath := filepath.Join(runDir, fmt.Sprintf("log_pedidos_%s.txt", sequence))
	logFile, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	if err := rep.Render(logFile); err != nil {
		logFile.Close()
		return nil, fmt.Errorf("failed to write log file: %w", err)
	}
	if err := logFile.Close(); err != nil {
		return nil, fmt.Errorf("failed to close log file: %w", err)
	}

	if err := os.MkdirAll(e.zipDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create zip directory: %w", err)
	}
	zipPath := filepath.Join(e.zipDir, fmt.Sprintf("pedidos_%s.zip", sequence))
	if err := createZip(runDir, zipPath); err != nil {
		return nil, err
	}

	return &Output{
		Sequence: sequence,
		Dir:      runDir,
		LogPath:  logPath,
		ZipPath:  zipPath,
	}, nil
}

// fileStoreName normalizes a store name for directories and file names:
// Title_Case joined by underscores.
func fileStoreName(store string) string {
	words := strings.Fields(strings.ToLower(store))
	for i, w := range words {
		r := []rune(w)
		r[0] = unicode.ToUpper(r[0])
		words[i] = string(r)
	}
	return strings.Join(words, "_")
}
