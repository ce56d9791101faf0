// backend-go/internal/api/handlers/run_handler.go
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/blackdogpanama/pedidos/backend-go/internal/domain"
	"github.com/blackdogpanama/pedidos/backend-go/internal/service"
)

type RunHandler struct {
	runService *service.RunService
	outputDir  string
	running    atomic.Bool
}

func NewRunHandler(runService *service.RunService, outputDir string) *RunHandler {
	return &RunHandler{runService: runService, outputDir: outputDir}
}

// StartRun triggers a suggestion run in the background. Only one run may be
// in flight; a second request is rejected until the first finishes.
func (h *RunHandler) StartRun(c *gin.Context) {
	if !h.running.CompareAndSwap(false, true) {
		c.JSON(http.StatusConflict, gin.H{"error": "a run is already in progress"})
		return
	}

	go func() {
		defer h.running.Store(false)

		result, err := h.runService.Execute(context.Background())
		if err != nil {
			if errors.Is(err, domain.ErrNoUsableInput) {
				log.Error().Err(err).Msg("run aborted: no usable input")
			} else {
				log.Error().Err(err).Msg("run failed")
			}
			return
		}

		log.Info().
			Str("sequence", result.Run.Sequence).
			Str("zip", result.Run.ZipPath).
			Msg("background run finished")
	}()

	c.JSON(http.StatusAccepted, gin.H{"message": "run started"})
}

// ListRuns returns the persisted run history, newest first.
func (h *RunHandler) ListRuns(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		limit = parsed
	}

	runs, err := h.runService.ListRuns(c.Request.Context(), limit)
	if err != nil {
		log.Error().Err(err).Msg("failed to list runs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch run history"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"runs": runs, "count": len(runs)})
}

var sequencePattern = regexp.MustCompile(`^\d{8}_\d{6}$`)

// GetRunLog streams the audit log of one run by its sequence tag.
func (h *RunHandler) GetRunLog(c *gin.Context) {
	sequence := c.Param("sequence")
	if !sequencePattern.MatchString(sequence) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid run sequence"})
		return
	}

	path := filepath.Join(h.outputDir, "pedidos_"+sequence, fmt.Sprintf("log_pedidos_%s.txt", sequence))
	if _, err := os.Stat(path); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "log not found for run"})
		return
	}

	c.Header("Content-Type", "text/plain; charset=utf-8")
	c.File(path)
}

// RefreshCatalog drops the cached product catalog.
func (h *RunHandler) RefreshCatalog(c *gin.Context) {
	if err := h.runService.RefreshCatalog(c.Request.Context()); err != nil {
		log.Error().Err(err).Msg("failed to invalidate catalog cache")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to invalidate catalog cache"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "catalog cache invalidated"})
}
