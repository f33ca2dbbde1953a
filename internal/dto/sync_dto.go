package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- Sync Trigger ---

type StartSyncRequest struct {
	PeriodStart string `json:"period_start" validate:"required"` // 2006-01-02
	PeriodEnd   string `json:"period_end" validate:"required"`
}

type StartSyncResponse struct {
	JobId     uuid.UUID `json:"job_id"`
	RequestId string    `json:"request_id"`
}

type SyncJobResponse struct {
	Id          uuid.UUID  `json:"id"`
	PeriodStart string     `json:"period_start"`
	PeriodEnd   string     `json:"period_end"`
	Status      string     `json:"status"`
	RequestId   string     `json:"request_id,omitempty"`
	StartedAt   time.Time  `json:"started_at"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	Error       string     `json:"error,omitempty"`
}

// --- Provider Callback ---

// SyncCallbackRequest is what the external platform posts back when a
// fetch finishes. Aggregate rows ride along so one call settles the job
// and the dashboard data.
type SyncCallbackRequest struct {
	RequestId string                `json:"request_id" validate:"required"`
	Status    string                `json:"status" validate:"required,oneof=PROCESSING SUCCESS ERROR"`
	Error     string                `json:"error"`
	Summary   []SummaryRowPayload   `json:"summary"`
	Channels  []ChannelRowPayload   `json:"channels"`
}

type SummaryRowPayload struct {
	Metric string  `json:"metric" validate:"required"`
	Value  float64 `json:"value"`
}

type ChannelRowPayload struct {
	Channel string  `json:"channel" validate:"required"`
	Revenue float64 `json:"revenue"`
	Orders  int     `json:"orders"`
}
