package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"reversa-be/internal/dto"
	"reversa-be/internal/entity"
	"reversa-be/internal/pkg/logger"
	"reversa-be/internal/repository/specification"
	"reversa-be/internal/repository/unitofwork"
	"reversa-be/pkg/events"
	pktNats "reversa-be/pkg/nats"
	"reversa-be/pkg/syncjob"
)

// ISyncService fronts the sync pipeline: the operator-triggered start, the
// provider callback that settles a job, and job reads for the dashboard.
type ISyncService interface {
	StartSync(ctx context.Context, storeID uuid.UUID, req *dto.StartSyncRequest) (*dto.StartSyncResponse, error)
	HandleCallback(ctx context.Context, req *dto.SyncCallbackRequest) error
	LatestJob(ctx context.Context, storeID uuid.UUID) (*dto.SyncJobResponse, error)
}

type syncService struct {
	uowFactory   unitofwork.RepositoryFactory
	orchestrator *syncjob.Orchestrator
	changeFeed   IChangeFeedService
	natsPub      *pktNats.Publisher
	logger       logger.ILogger
	now          func() time.Time
}

func NewSyncService(uowFactory unitofwork.RepositoryFactory, orchestrator *syncjob.Orchestrator, changeFeed IChangeFeedService, natsPub *pktNats.Publisher, log logger.ILogger) ISyncService {
	return &syncService{
		uowFactory:   uowFactory,
		orchestrator: orchestrator,
		changeFeed:   changeFeed,
		natsPub:      natsPub,
		logger:       log,
		now:          time.Now,
	}
}

func (s *syncService) StartSync(ctx context.Context, storeID uuid.UUID, req *dto.StartSyncRequest) (*dto.StartSyncResponse, error) {
	start, err := time.Parse("2006-01-02", req.PeriodStart)
	if err != nil {
		return nil, fmt.Errorf("invalid period start: %w", err)
	}
	end, err := time.Parse("2006-01-02", req.PeriodEnd)
	if err != nil {
		return nil, fmt.Errorf("invalid period end: %w", err)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("period end precedes period start")
	}

	result, err := s.orchestrator.StartSync(ctx, syncjob.ScopeKey{
		StoreID:     storeID,
		PeriodStart: start,
		PeriodEnd:   end,
	})
	if err != nil {
		return nil, err
	}

	s.changeFeed.PublishChange(events.RecordChange{
		Table:    events.TableSyncJobs,
		RecordID: result.JobID,
		StoreID:  storeID,
		NewValues: map[string]interface{}{
			"status":       string(entity.SyncQueued),
			"period_start": req.PeriodStart,
			"period_end":   req.PeriodEnd,
		},
	})

	if s.natsPub != nil {
		_ = s.natsPub.Publish(ctx, events.New(events.TypeSyncStarted, map[string]interface{}{
			"job_id":     result.JobID.String(),
			"store_id":   storeID.String(),
			"request_id": result.RequestID,
		}))
	}

	return &dto.StartSyncResponse{JobId: result.JobID, RequestId: result.RequestID}, nil
}

// HandleCallback settles a job from the provider's webhook. The job status
// and the aggregate rows land in one transaction; change notifications go
// out only after commit.
func (s *syncService) HandleCallback(ctx context.Context, req *dto.SyncCallbackRequest) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	job, err := uow.SyncJobRepository().FindOne(ctx,
		specification.Filter("request_id", req.RequestId),
		specification.NonTerminal{},
	)
	if err != nil {
		return err
	}
	if job == nil {
		// Late callback for a reclaimed or unknown job. Drop it; the
		// reclaimed ERROR row already tells the operator what happened.
		s.logger.Warn("Sync", "Callback for unknown or settled job", map[string]interface{}{
			"request_id": req.RequestId,
		})
		return nil
	}

	status := entity.SyncJobStatus(req.Status)
	now := s.now()

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	job.Status = status
	job.Error = req.Error
	if status.Terminal() {
		job.FinishedAt = &now
	}
	if err := uow.SyncJobRepository().Update(ctx, job); err != nil {
		return err
	}

	var summaryIDs, channelIDs []uuid.UUID
	if status == entity.SyncSuccess {
		for _, payload := range req.Summary {
			row := &entity.SummaryRow{
				ID:          uuid.New(),
				StoreID:     job.StoreID,
				PeriodStart: job.PeriodStart,
				PeriodEnd:   job.PeriodEnd,
				Metric:      payload.Metric,
				Value:       payload.Value,
			}
			if err := uow.SummaryRepository().UpsertSummary(ctx, row); err != nil {
				return err
			}
			summaryIDs = append(summaryIDs, row.ID)
		}
		for _, payload := range req.Channels {
			row := &entity.ChannelRevenue{
				ID:          uuid.New(),
				StoreID:     job.StoreID,
				PeriodStart: job.PeriodStart,
				PeriodEnd:   job.PeriodEnd,
				Channel:     payload.Channel,
				Revenue:     payload.Revenue,
				Orders:      payload.Orders,
			}
			if err := uow.SummaryRepository().UpsertChannel(ctx, row); err != nil {
				return err
			}
			channelIDs = append(channelIDs, row.ID)
		}
	}

	if err := uow.Commit(); err != nil {
		return err
	}

	s.logger.Info("Sync", "Job settled by callback", map[string]interface{}{
		"job_id":     job.ID.String(),
		"request_id": req.RequestId,
		"status":     string(status),
	})

	periodValues := map[string]interface{}{
		"period_start": job.PeriodStart.Format("2006-01-02"),
		"period_end":   job.PeriodEnd.Format("2006-01-02"),
	}

	jobValues := map[string]interface{}{
		"status": string(status),
		"error":  req.Error,
	}
	for k, v := range periodValues {
		jobValues[k] = v
	}
	s.changeFeed.PublishChange(events.RecordChange{
		Table:     events.TableSyncJobs,
		RecordID:  job.ID,
		StoreID:   job.StoreID,
		NewValues: jobValues,
	})
	for _, id := range summaryIDs {
		s.changeFeed.PublishChange(events.RecordChange{
			Table:     events.TableSummaryRows,
			RecordID:  id,
			StoreID:   job.StoreID,
			NewValues: periodValues,
		})
	}
	for _, id := range channelIDs {
		s.changeFeed.PublishChange(events.RecordChange{
			Table:     events.TableChannelRevenue,
			RecordID:  id,
			StoreID:   job.StoreID,
			NewValues: periodValues,
		})
	}

	return nil
}

func (s *syncService) LatestJob(ctx context.Context, storeID uuid.UUID) (*dto.SyncJobResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	job, err := uow.SyncJobRepository().FindOne(ctx,
		specification.ByStore{StoreID: storeID},
		specification.OrderBy{Field: "started_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	if job == nil {
		return nil, nil
	}

	return &dto.SyncJobResponse{
		Id:          job.ID,
		PeriodStart: job.PeriodStart.Format("2006-01-02"),
		PeriodEnd:   job.PeriodEnd.Format("2006-01-02"),
		Status:      string(job.Status),
		RequestId:   job.RequestID,
		StartedAt:   job.StartedAt,
		FinishedAt:  job.FinishedAt,
		Error:       job.Error,
	}, nil
}
