// backend-go/internal/api/handlers/settings_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/blackdogpanama/pedidos/backend-go/internal/rules"
)

// SettingsHandler serves and updates the business rules document the
// allocation engine reads on every run.
type SettingsHandler struct {
	rulesPath string
}

func NewSettingsHandler(rulesPath string) *SettingsHandler {
	return &SettingsHandler{rulesPath: rulesPath}
}

// GetSettings returns the effective rules: the stored document with defaults
// filled in for any missing section.
func (h *SettingsHandler) GetSettings(c *gin.Context) {
	r, err := rules.Load(h.rulesPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			c.JSON(http.StatusOK, rules.Default())
			return
		}
		log.Error().Err(err).Str("path", h.rulesPath).Msg("failed to load rules")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load settings"})
		return
	}

	c.JSON(http.StatusOK, r)
}

// UpdateSettings validates and stores a new rules document. The body must be
// a well-formed rules JSON; missing sections are filled from defaults.
func (h *SettingsHandler) UpdateSettings(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "could not read body"})
		return
	}

	parsed, err := rules.Parse(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid rules document: " + err.Error()})
		return
	}

	pretty, err := json.MarshalIndent(parsed, "", "  ")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to encode settings"})
		return
	}
	if err := os.WriteFile(h.rulesPath, pretty, 0644); err != nil {
		log.Error().Err(err).Str("path", h.rulesPath).Msg("failed to write rules")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store settings"})
		return
	}

	c.JSON(http.StatusOK, parsed)
}
