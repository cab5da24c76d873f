package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"sifter/internal/config"
	"sifter/internal/database"
	"sifter/internal/extract"
)

func getJobCount(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, database.GetExtractionJobCount())
}

func getJobPage(w http.ResponseWriter, r *http.Request) {
	page, err := strconv.Atoi(r.PathValue("page"))
	if err != nil || page < 1 {
		log.Error("error converting page to int", "error", r.PathValue("page"))
		writeError(w, "Invalid page", http.StatusBadRequest)
		return
	}

	pageSize := config.GetConfig().Jobs.PageSize
	if pageSize < 1 {
		pageSize = 25
	}

	writeJSON(w, http.StatusOK, database.GetExtractionJobPage(page, pageSize))
}

// renderJob re-renders a persisted snapshot with a fresh filter selection.
func renderJob(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		writeError(w, "Invalid job id", http.StatusBadRequest)
		return
	}

	job, err := database.GetExtractionJob(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			writeError(w, "Job not found", http.StatusNotFound)
			return
		}
		writeError(w, "Could not load job", http.StatusInternalServerError)
		return
	}

	selectedCountry := r.URL.Query().Get("country")
	if selectedCountry == "" {
		selectedCountry = extract.AllCountries
	}
	hidePort := r.URL.Query().Get("hide_port") == "true"

	writeText(w, http.StatusOK, extract.Render(database.RecordSetOfJob(job), selectedCountry, hidePort))
}

func deleteJobs(w http.ResponseWriter, r *http.Request) {
	var ids []uint64
	if err := json.NewDecoder(r.Body).Decode(&ids); err != nil {
		writeError(w, "Invalid request", http.StatusBadRequest)
		return
	}

	if err := database.DeleteExtractionJobs(ids); err != nil {
		log.Error("Could not delete jobs", "error", err)
		writeError(w, "Could not delete jobs", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, "Jobs deleted successfully")
}
