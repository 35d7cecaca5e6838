package domain

import (
	"time"

	"github.com/google/uuid"
)

// IngestionStatus is the terminal status of a completed run. Hard parse or
// persistence failures never produce a run row, so there is no FAILED value.
type IngestionStatus string

const (
	IngestionStatusCompleted           IngestionStatus = "COMPLETED"
	IngestionStatusCompletedWithErrors IngestionStatus = "COMPLETED_WITH_ERRORS"
)

// StatusForErrorCount picks the terminal status for a finished run.
func StatusForErrorCount(errorCount int) IngestionStatus {
	if errorCount > 0 {
		return IngestionStatusCompletedWithErrors
	}
	return IngestionStatusCompleted
}

// RunMetadata is the audit blob stored alongside a run. Errors hold at most
// the first 100 validation failures.
type RunMetadata struct {
	FileSize int64             `json:"fileSize"`
	MimeType string            `json:"mimeType"`
	Errors   []ValidationError `json:"errors"`
}

// IngestionRun is the immutable audit row recorded once per upload or pull.
type IngestionRun struct {
	ID          uuid.UUID       `json:"id"`
	Filename    string          `json:"filename"`
	FilePath    string          `json:"filePath"`
	DataType    DataType        `json:"dataType"`
	Source      string          `json:"source"`
	MappingType string          `json:"mappingType"`
	RecordCount int             `json:"recordCount"`
	ErrorCount  int             `json:"errorCount"`
	Status      IngestionStatus `json:"status"`
	Metadata    RunMetadata     `json:"metadata"`
	CreatedAt   time.Time       `json:"createdAt"`
}
