package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"sifter/internal/ai"
	"sifter/internal/api/dto"
	"sifter/internal/cache"
	"sifter/internal/config"
	"sifter/internal/database"
	"sifter/internal/domain"
	"sifter/internal/extract"
	"sifter/internal/geolite"
	"sifter/internal/scraper"
	"sifter/internal/support"
)

// recordSetFor runs the extraction pipeline, going through the shared memo when
// the bootstrap wired one and enriching Unknown markers when GeoLite is on.
func recordSetFor(rawText string) extract.RecordSet {
	var records extract.RecordSet
	if cache.PublicMemo != nil {
		records = cache.PublicMemo.RecordSet(rawText)
	} else {
		records = extract.BuildRecordSet(rawText)
	}

	if geolite.Enabled() {
		records = geolite.EnrichUnknown(records)
	}

	return records
}

func buildExtractionResult(records extract.RecordSet, selectedCountry string, hidePort bool) dto.ExtractionResult {
	if selectedCountry == "" {
		selectedCountry = extract.AllCountries
	}

	total, filtered := extract.Stats(records, selectedCountry)

	return dto.ExtractionResult{
		Records: records,
		Catalog: extract.Catalog(records),
		Output:  extract.Render(records, selectedCountry, hidePort),
		Stats:   dto.ExtractionStats{Total: total, FilteredCount: filtered},
	}
}

// persistJobIfRequested stores the finished run when the caller asked for it and
// the job store is up. Persistence failures degrade to a stateless response.
func persistJobIfRequested(r *http.Request, source, rawText string, records extract.RecordSet) uint64 {
	if r.FormValue("persist") != "true" || !database.Available() {
		return 0
	}

	job := domain.ExtractionJob{
		Label:     r.FormValue("label"),
		Source:    source,
		LineCount: len(strings.Split(rawText, "\n")),
	}
	job.SetText(rawText)

	if err := database.SaveExtractionJob(&job, records); err != nil {
		log.Warn("Could not persist extraction job", "error", err)
		return 0
	}

	return job.ID
}

func limitBody(w http.ResponseWriter, r *http.Request) {
	maxBytes := config.GetConfig().Extractor.MaxBodyBytes
	if maxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	}
}

// extractEndpoints accepts text from a textarea field, a clipboard field and a
// file upload, merges them into one buffer and runs the full pipeline.
func extractEndpoints(w http.ResponseWriter, r *http.Request) {
	limitBody(w, r)

	textareaContent := r.FormValue("textarea")
	clipboardContent := r.FormValue("clipboard")
	file, fileHeader, err := r.FormFile("file")

	var fileContent []byte

	if err == nil {
		defer file.Close()

		log.Debugf("Uploaded file: %s (%d bytes)", fileHeader.Filename, fileHeader.Size)

		fileContent, err = io.ReadAll(file)
		if err != nil {
			writeError(w, "Failed to read file", http.StatusInternalServerError)
			return
		}
	} else if len(textareaContent) == 0 && len(clipboardContent) == 0 {
		writeError(w, "Failed to retrieve text from any input method", http.StatusBadRequest)
		return
	}

	mergedContent := string(fileContent) + "\n" + textareaContent + "\n" + clipboardContent

	log.Infof("Input received: %d bytes", len(mergedContent))

	records := recordSetFor(mergedContent)

	result := buildExtractionResult(records, r.FormValue("country"), r.FormValue("hide_port") == "true")
	result.JobID = persistJobIfRequested(r, "paste", mergedContent, records)

	writeJSON(w, http.StatusOK, result)
}

// renderEndpoints returns only the newline-joined rendering for a given text and
// filter, as plain text ready for clipboard copy or download.
func renderEndpoints(w http.ResponseWriter, r *http.Request) {
	limitBody(w, r)

	rawText := r.FormValue("text")
	selectedCountry := r.FormValue("country")
	if selectedCountry == "" {
		selectedCountry = extract.AllCountries
	}
	hidePort := r.FormValue("hide_port") == "true"

	if cache.PublicMemo != nil && !geolite.Enabled() {
		writeText(w, http.StatusOK, cache.PublicMemo.Render(rawText, selectedCountry, hidePort))
		return
	}

	writeText(w, http.StatusOK, extract.Render(recordSetFor(rawText), selectedCountry, hidePort))
}

// extractFromURL fetches a page, flattens its HTML to text and extracts from
// that, so table-based sites keep address and port together.
func extractFromURL(w http.ResponseWriter, r *http.Request) {
	pageURL := r.FormValue("url")
	if !support.IsValidURL(pageURL) {
		writeError(w, "Invalid URL", http.StatusBadRequest)
		return
	}

	rawHTML, err := scraper.FetchPage(pageURL)
	if err != nil {
		log.Error("Could not fetch page", "url", pageURL, "error", err)
		writeError(w, "Could not fetch page", http.StatusBadGateway)
		return
	}

	rawText := support.TextOfHTML(rawHTML)
	records := recordSetFor(rawText)

	result := buildExtractionResult(records, r.FormValue("country"), r.FormValue("hide_port") == "true")
	result.JobID = persistJobIfRequested(r, "url", rawText, records)

	writeJSON(w, http.StatusOK, result)
}

// extractWithAI delegates to the external extraction service and re-parses its
// CSV answer through the engine, so the response carries the same guarantees as
// any other input path.
func extractWithAI(w http.ResponseWriter, r *http.Request) {
	limitBody(w, r)

	rawText := r.FormValue("text")
	if strings.TrimSpace(rawText) == "" {
		writeError(w, "No text provided", http.StatusBadRequest)
		return
	}

	client, err := ai.NewClientFromEnv()
	if err != nil {
		writeError(w, "AI extraction is not configured", http.StatusServiceUnavailable)
		return
	}

	csvText, err := client.ExtractEndpoints(r.Context(), rawText)
	if err != nil {
		log.Error("AI extraction failed", "error", err)
		writeError(w, "AI extraction failed", http.StatusBadGateway)
		return
	}

	records := recordSetFor(csvText)

	result := buildExtractionResult(records, r.FormValue("country"), r.FormValue("hide_port") == "true")
	result.JobID = persistJobIfRequested(r, "ai", csvText, records)

	writeJSON(w, http.StatusOK, result)
}
