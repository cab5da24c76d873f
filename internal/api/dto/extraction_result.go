package dto

import "sifter/internal/extract"

type ExtractionStats struct {
	Total         int `json:"total"`
	FilteredCount int `json:"filtered_count"`
}

type ExtractionResult struct {
	Records extract.RecordSet `json:"records"`
	Catalog []string          `json:"catalog"`
	Output  string            `json:"output"`
	Stats   ExtractionStats   `json:"stats"`
	JobID   uint64            `json:"job_id,omitempty"`
}
