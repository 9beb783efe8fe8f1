package domain

import "time"

// Scan run statuses.
const (
	RunStatusPending    = "pending"
	RunStatusProcessing = "processing"
	RunStatusCompleted  = "completed"
	RunStatusFailed     = "failed"
)

// ScanRun records one execution of the radar pipeline.
type ScanRun struct {
	ID            string     `json:"id" db:"id"`
	Status        string     `json:"status" db:"status"`
	Trigger       string     `json:"trigger" db:"run_trigger"`
	ProductsFound int        `json:"products_found" db:"products_found"`
	ProductsKept  int        `json:"products_kept" db:"products_kept"`
	ReportPath    *string    `json:"report_path,omitempty" db:"report_path"`
	ErrorMessage  *string    `json:"error_message,omitempty" db:"error_message"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	StartedAt     *time.Time `json:"started_at,omitempty" db:"started_at"`
	CompletedAt   *time.Time `json:"completed_at,omitempty" db:"completed_at"`
}

// Run triggers.
const (
	RunTriggerManual   = "manual"
	RunTriggerSchedule = "schedule"
	RunTriggerAPI      = "api"
)
