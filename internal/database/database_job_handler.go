package database

import (
	"fmt"

	"sifter/internal/domain"
	"sifter/internal/extract"

	"gorm.io/gorm"
)

// Available reports whether the job store was set up. Handlers degrade to
// stateless extraction when it was not.
func Available() bool {
	return DB != nil
}

// SaveExtractionJob persists a finished run together with its sorted records.
func SaveExtractionJob(job *domain.ExtractionJob, records extract.RecordSet) error {
	if !Available() {
		return fmt.Errorf("database: job store not configured")
	}

	job.RecordCount = len(records)
	job.Records = make([]domain.ExtractedRecord, 0, len(records))
	for _, record := range records {
		job.Records = append(job.Records, domain.ExtractedRecord{
			Address:    record.Address,
			Port:       record.Port,
			Country:    record.Country,
			SourceLine: record.SourceLine,
		})
	}

	return DB.Create(job).Error
}

func GetExtractionJobCount() int64 {
	if !Available() {
		return 0
	}

	var count int64
	DB.Model(&domain.ExtractionJob{}).Count(&count)
	return count
}

// GetExtractionJobPage returns one page of jobs, newest first, without their
// record rows.
func GetExtractionJobPage(page, pageSize int) []domain.ExtractionJob {
	if !Available() || page < 1 {
		return nil
	}

	var jobs []domain.ExtractionJob
	DB.Model(&domain.ExtractionJob{}).
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&jobs)

	return jobs
}

// GetExtractionJob loads a single job with its records in stored order.
func GetExtractionJob(id uint64) (domain.ExtractionJob, error) {
	var job domain.ExtractionJob
	if !Available() {
		return job, fmt.Errorf("database: job store not configured")
	}

	err := DB.Preload("Records", func(db *gorm.DB) *gorm.DB {
		return db.Order("id ASC")
	}).First(&job, id).Error

	return job, err
}

// RecordSetOfJob rebuilds the engine's record set from a stored job so the
// renderer and stats run on persisted snapshots exactly like on fresh input.
func RecordSetOfJob(job domain.ExtractionJob) extract.RecordSet {
	records := make(extract.RecordSet, 0, len(job.Records))
	for _, row := range job.Records {
		records = append(records, extract.Record{
			Address:    row.Address,
			Port:       row.Port,
			Country:    row.Country,
			SourceLine: row.SourceLine,
		})
	}
	return records
}

func DeleteExtractionJobs(ids []uint64) error {
	if !Available() {
		return fmt.Errorf("database: job store not configured")
	}
	if len(ids) == 0 {
		return nil
	}

	return DB.Delete(&domain.ExtractionJob{}, ids).Error
}
