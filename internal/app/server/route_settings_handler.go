package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"

	"sifter/internal/config"
	"sifter/internal/support"
)

func getSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, config.GetConfig())
}

// saveSettings replaces the runtime configuration and persists it to the
// settings file.
func saveSettings(w http.ResponseWriter, r *http.Request) {
	var newConfig config.Config
	if err := json.NewDecoder(r.Body).Decode(&newConfig); err != nil {
		writeError(w, "Invalid JSON", http.StatusBadRequest)
		return
	}

	if newConfig.AI.Endpoint != "" && !support.IsValidURL(newConfig.AI.Endpoint) {
		writeError(w, "AI endpoint must be an http(s) URL", http.StatusBadRequest)
		return
	}
	if newConfig.Extractor.MaxBodyBytes < 0 || newConfig.Jobs.PageSize < 0 {
		writeError(w, "Limits must not be negative", http.StatusBadRequest)
		return
	}

	config.SetConfig(newConfig)
	log.Info("Configuration updated")

	writeJSON(w, http.StatusOK, map[string]string{"message": "Configuration updated successfully"})
}
