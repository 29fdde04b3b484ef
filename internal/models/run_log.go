package models

import (
	"time"

	"ledgerly/internal/uuid"

	"gorm.io/gorm"
)

// RunKind names a pipeline stage that records a run summary.
type RunKind string

// Run kinds.
const (
	RunIngest    RunKind = "ingest"
	RunRefresh   RunKind = "refresh"
	RunRecompute RunKind = "recompute"
	RunReconcile RunKind = "reconcile"
	RunImportRaw RunKind = "import_raw"
)

// RunLog records the outcome of one pipeline run. Runs never abort on the
// first bad row, so the summary is the user-visible result.
type RunLog struct {
	ID         string    `gorm:"type:uuid;primaryKey" json:"id"`
	Kind       RunKind   `gorm:"size:16;not null;index" json:"kind"`
	StartedAt  time.Time `gorm:"not null" json:"started_at"`
	FinishedAt time.Time `gorm:"not null" json:"finished_at"`
	Inserted   int       `json:"inserted"`
	Skipped    int       `json:"skipped"`
	Failed     int       `json:"failed"`
	Details    string    `json:"details,omitempty"`
}

// BeforeCreate hook generates a UUIDv7 for new records
func (r *RunLog) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New()
	}
	return nil
}
