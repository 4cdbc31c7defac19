package models

import "time"

// SheetFormat selects the rendered document type.
type SheetFormat string

// Supported sheet formats.
const (
	SheetFormatPDF SheetFormat = "pdf"
	SheetFormatCSV SheetFormat = "csv"
)

// SheetStatus tracks a rendering job through its lifecycle.
type SheetStatus string

// Sheet job states.
const (
	SheetStatusQueued     SheetStatus = "queued"
	SheetStatusProcessing SheetStatus = "processing"
	SheetStatusDone       SheetStatus = "done"
	SheetStatusFailed     SheetStatus = "failed"
)

// SheetJob is one result-sheet rendering request. Jobs live in memory only;
// a restart drops pending jobs and their statuses.
type SheetJob struct {
	ID         string      `json:"id"`
	StudentID  string      `json:"studentId"`
	Format     SheetFormat `json:"format"`
	Status     SheetStatus `json:"status"`
	Owner      string      `json:"-"`
	Error      string      `json:"error,omitempty"`
	Token      string      `json:"-"`
	ResultURL  string      `json:"resultUrl,omitempty"`
	ExpiresAt  *time.Time  `json:"expiresAt,omitempty"`
	CreatedAt  time.Time   `json:"createdAt"`
	FinishedAt *time.Time  `json:"finishedAt,omitempty"`
}
