package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"sifter/internal/api/dto"
)

func postForm(t *testing.T, handler http.HandlerFunc, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func TestExtractEndpointsHandler(t *testing.T) {
	form := url.Values{
		"textarea": {"1.2.3.4:80 US ok\n10.0.0.1 8080 DE"},
	}

	recorder := postForm(t, extractEndpoints, "/extract", form)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body: %s)", recorder.Code, http.StatusOK, recorder.Body.String())
	}

	var result dto.ExtractionResult
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}

	if result.Stats.Total != 2 || result.Stats.FilteredCount != 2 {
		t.Fatalf("stats = %+v, want total 2 filtered 2", result.Stats)
	}
	if len(result.Catalog) != 2 || result.Catalog[0] != "DE" || result.Catalog[1] != "US" {
		t.Fatalf("catalog = %v, want [DE US]", result.Catalog)
	}
	if result.Output != "10.0.0.1:8080\n1.2.3.4:80" {
		t.Fatalf("output = %q, want sorted endpoints", result.Output)
	}
	if result.JobID != 0 {
		t.Fatalf("job persisted without being requested: id %d", result.JobID)
	}
}

func TestExtractEndpointsHandlerFiltersByCountry(t *testing.T) {
	form := url.Values{
		"textarea":  {"1.1.1.1 JP\n2.2.2.2 AU\n3.3.3.3 AU"},
		"country":   {"AU"},
		"hide_port": {"true"},
	}

	recorder := postForm(t, extractEndpoints, "/extract", form)

	var result dto.ExtractionResult
	if err := json.Unmarshal(recorder.Body.Bytes(), &result); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}

	if result.Stats.Total != 3 || result.Stats.FilteredCount != 2 {
		t.Fatalf("stats = %+v, want total 3 filtered 2", result.Stats)
	}
	if result.Output != "2.2.2.2\n3.3.3.3" {
		t.Fatalf("output = %q, want AU endpoints only", result.Output)
	}
}

func TestExtractEndpointsHandlerRejectsEmptyInput(t *testing.T) {
	recorder := postForm(t, extractEndpoints, "/extract", url.Values{})

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d for empty input", recorder.Code, http.StatusBadRequest)
	}
}

func TestRenderEndpointsHandler(t *testing.T) {
	form := url.Values{
		"text":    {"1.1.1.1 JP\n2.2.2.2 AU"},
		"country": {"JP"},
	}

	recorder := postForm(t, renderEndpoints, "/render", form)
	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", recorder.Code, http.StatusOK)
	}
	if got := recorder.Body.String(); got != "1.1.1.1" {
		t.Fatalf("render body = %q, want %q", got, "1.1.1.1")
	}
}

func TestRenderEndpointsHandlerEmptyText(t *testing.T) {
	recorder := postForm(t, renderEndpoints, "/render", url.Values{"text": {"   "}})

	if recorder.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (empty input is not an error)", recorder.Code, http.StatusOK)
	}
	if got := recorder.Body.String(); got != "" {
		t.Fatalf("render body = %q, want empty string", got)
	}
}

func TestExtractFromURLRejectsInvalidURL(t *testing.T) {
	recorder := postForm(t, extractFromURL, "/extract/url", url.Values{"url": {"not-a-url"}})

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d for invalid URL", recorder.Code, http.StatusBadRequest)
	}
}

func TestExtractWithAIUnconfigured(t *testing.T) {
	t.Setenv("AI_API_KEY", "")

	recorder := postForm(t, extractWithAI, "/extract/ai", url.Values{"text": {"1.2.3.4 US"}})

	if recorder.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want %d when AI key is missing", recorder.Code, http.StatusServiceUnavailable)
	}
}
