package entity

import (
	"time"

	"github.com/google/uuid"
)

// SyncJobStatus is the sync job state vocabulary.
type SyncJobStatus string

const (
	SyncQueued     SyncJobStatus = "QUEUED"
	SyncProcessing SyncJobStatus = "PROCESSING"
	SyncSuccess    SyncJobStatus = "SUCCESS"
	SyncError      SyncJobStatus = "ERROR"
)

// Terminal reports whether the status admits no further updates.
func (s SyncJobStatus) Terminal() bool {
	return s == SyncSuccess || s == SyncError
}

// SyncJob tracks one external data-fetch run for a (store, period) scope
// key. At most one non-terminal job should exist per key; the orchestrator
// enforces this best-effort through pre-emptive stale reclamation, not a
// database constraint.
type SyncJob struct {
	ID          uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	StoreID     uuid.UUID     `gorm:"type:uuid;not null;index"`
	PeriodStart time.Time     `gorm:"type:date;not null"`
	PeriodEnd   time.Time     `gorm:"type:date;not null"`
	Status      SyncJobStatus `gorm:"type:varchar(20);not null;default:'QUEUED'"`
	RequestID   string        `gorm:"type:varchar(100)"` // correlation id from the external trigger
	StartedAt   time.Time     `gorm:"not null"`
	FinishedAt  *time.Time
	Error       string `gorm:"type:text"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (SyncJob) TableName() string {
	return "sync_jobs"
}
