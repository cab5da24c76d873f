package domain

import (
	"crypto/sha256"
	"time"
)

// ExtractionJob is a persisted snapshot of one finished extraction run. Jobs are
// an audit trail: they are written once and never updated incrementally.
type ExtractionJob struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Label       string `gorm:"size:120;default:''" json:"label"`
	Source      string `gorm:"size:20;not null" json:"source"` // paste, file, url, ai
	TextHash    []byte `gorm:"type:bytea;index;size:32" json:"-"`
	LineCount   int    `gorm:"not null" json:"line_count"`
	RecordCount int    `gorm:"not null" json:"record_count"`

	Records []ExtractedRecord `gorm:"foreignKey:JobID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"records,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// ExtractedRecord mirrors one engine record inside a stored job. Rows keep the
// job's sorted order through their autoincrement IDs.
type ExtractedRecord struct {
	ID         uint64 `gorm:"primaryKey;autoIncrement" json:"-"`
	JobID      uint64 `gorm:"index;not null" json:"-"`
	Address    string `gorm:"size:15;not null" json:"address"`
	Port       string `gorm:"size:5;default:''" json:"port"`
	Country    string `gorm:"size:7;not null" json:"country"`
	SourceLine string `gorm:"type:text" json:"source_line"`
}

// SetText stores the SHA-256 of the raw input so identical inputs can be spotted
// without keeping the text itself around.
func (job *ExtractionJob) SetText(rawText string) {
	hash := sha256.Sum256([]byte(rawText))
	job.TextHash = hash[:]
}
