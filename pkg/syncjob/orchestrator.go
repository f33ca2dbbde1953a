// Package syncjob creates and supervises the tracked job records behind
// the dashboard's external data synchronization. Exclusivity per scope key
// is best effort: timestamp-based reclamation bounds how long a stuck job
// can block a key, but two near-simultaneous calls may both create jobs.
// The reconciler tolerates the resulting duplicate notifications.
package syncjob

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"reversa-be/internal/entity"
	"reversa-be/internal/pkg/logger"
	"reversa-be/internal/repository/contract"
	"reversa-be/internal/repository/specification"
)

const (
	// CoarseStaleAfter bounds any in-flight job for the store, whatever
	// its period. A safety net when scope-key bookkeeping fails.
	CoarseStaleAfter = 30 * time.Minute

	// ScopedStaleAfter is the tighter deadline for the exact scope key
	// being retried, so an operator can force a fresh sync without
	// waiting the full coarse window.
	ScopedStaleAfter = 10 * time.Minute

	timeoutMessage = "tempo limite de sincronização excedido; job recuperado"
)

// ScopeKey identifies one sync unit.
type ScopeKey struct {
	StoreID     uuid.UUID
	PeriodStart time.Time
	PeriodEnd   time.Time
}

// Trigger invokes the opaque external fetch side effect. It must return
// quickly: completion is observed through record-change notifications,
// never by polling here.
type Trigger interface {
	TriggerFetch(ctx context.Context, key ScopeKey) (requestID string, err error)
}

// StartResult is what the sync endpoint hands back immediately.
type StartResult struct {
	JobID     uuid.UUID
	RequestID string
}

type Orchestrator struct {
	jobs    contract.SyncJobRepository
	trigger Trigger
	logger  logger.ILogger
	now     func() time.Time
}

func NewOrchestrator(jobs contract.SyncJobRepository, trigger Trigger, log logger.ILogger) *Orchestrator {
	return &Orchestrator{
		jobs:    jobs,
		trigger: trigger,
		logger:  log,
		now:     time.Now,
	}
}

// SetClock overrides the time source. Test hook.
func (o *Orchestrator) SetClock(now func() time.Time) {
	o.now = now
}

// StartSync reclaims stale jobs, records a new QUEUED job for the scope
// key and fires the external fetch. It returns as soon as the trigger
// acknowledges; it never waits for the sync to finish.
func (o *Orchestrator) StartSync(ctx context.Context, key ScopeKey) (*StartResult, error) {
	if key.StoreID == uuid.Nil {
		return nil, ErrNoSession
	}

	now := o.now()

	// Coarse reclamation: any non-terminal job for this store older than
	// the coarse window, regardless of period.
	if err := o.reclaim(ctx, now,
		specification.ByStore{StoreID: key.StoreID},
		specification.NonTerminal{},
		specification.StartedBefore{Cutoff: now.Add(-CoarseStaleAfter)},
	); err != nil {
		return nil, err
	}

	// Scoped reclamation: the exact key being retried gets the tighter
	// deadline.
	if err := o.reclaim(ctx, now,
		specification.ByStore{StoreID: key.StoreID},
		specification.NonTerminal{},
		specification.ByPeriod{Start: key.PeriodStart, End: key.PeriodEnd},
		specification.StartedBefore{Cutoff: now.Add(-ScopedStaleAfter)},
	); err != nil {
		return nil, err
	}

	job := &entity.SyncJob{
		ID:          uuid.New(),
		StoreID:     key.StoreID,
		PeriodStart: key.PeriodStart,
		PeriodEnd:   key.PeriodEnd,
		Status:      entity.SyncQueued,
		StartedAt:   now,
	}
	if err := o.jobs.Create(ctx, job); err != nil {
		return nil, err
	}

	requestID, err := o.trigger.TriggerFetch(ctx, key)
	if err != nil {
		// The job record keeps the failure for later inspection.
		if markErr := o.jobs.MarkError(ctx, job.ID, err.Error(), o.now()); markErr != nil {
			o.logger.Error("SyncJob", "Failed to mark job after trigger error", map[string]interface{}{
				"job_id": job.ID.String(), "error": markErr,
			})
		}

		var domainErr *DomainError
		if errors.As(err, &domainErr) {
			return nil, domainErr
		}
		return nil, &DomainError{Code: CodeUnknown, Message: err.Error()}
	}

	job.RequestID = requestID
	if err := o.jobs.Update(ctx, job); err != nil {
		return nil, err
	}

	o.logger.Info("SyncJob", "Sync started", map[string]interface{}{
		"job_id":     job.ID.String(),
		"store_id":   key.StoreID.String(),
		"request_id": requestID,
	})

	return &StartResult{JobID: job.ID, RequestID: requestID}, nil
}

// reclaim force-closes every job matching the specs with a timeout error.
// From the operator's point of view this is an implicit retry, not a
// failure; the ERROR row stays for audit.
func (o *Orchestrator) reclaim(ctx context.Context, now time.Time, specs ...specification.Specification) error {
	stale, err := o.jobs.FindAll(ctx, specs...)
	if err != nil {
		return err
	}
	for _, job := range stale {
		if err := o.jobs.MarkError(ctx, job.ID, timeoutMessage, now); err != nil {
			return err
		}
		o.logger.Warn("SyncJob", "Reclaimed stale job", map[string]interface{}{
			"job_id":     job.ID.String(),
			"started_at": job.StartedAt,
			"status":     string(job.Status),
		})
	}
	return nil
}
