package service

import (
	"context"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"reversa-be/internal/dto"
	"reversa-be/internal/entity"
	"reversa-be/internal/pkg/logger"
	"reversa-be/internal/repository/specification"
	"reversa-be/internal/repository/unitofwork"
	"reversa-be/pkg/reconcile"
)

// IDashboardService serves the aggregate reads and owns the live
// reconciliation sessions behind the websocket. One session per store,
// refcounted across connected operators; the last Detach tears it down.
type IDashboardService interface {
	GetDashboard(ctx context.Context, storeID uuid.UUID, start, end time.Time) (*dto.DashboardResponse, error)
	AttachSession(ctx context.Context, storeID uuid.UUID, period reconcile.Period) error
	DetachSession(storeID uuid.UUID)
	SetPeriod(ctx context.Context, storeID uuid.UUID, period reconcile.Period) error
	MarkSyncing(storeID uuid.UUID)
}

type sessionEntry struct {
	session *reconcile.Session
	refs    int
}

type dashboardService struct {
	uowFactory unitofwork.RepositoryFactory
	subscriber message.Subscriber
	sink       reconcile.Sink
	logger     logger.ILogger

	mu       sync.Mutex
	sessions map[uuid.UUID]*sessionEntry
}

func NewDashboardService(uowFactory unitofwork.RepositoryFactory, subscriber message.Subscriber, sink reconcile.Sink, log logger.ILogger) IDashboardService {
	return &dashboardService{
		uowFactory: uowFactory,
		subscriber: subscriber,
		sink:       sink,
		logger:     log,
		sessions:   make(map[uuid.UUID]*sessionEntry),
	}
}

func (s *dashboardService) GetDashboard(ctx context.Context, storeID uuid.UUID, start, end time.Time) (*dto.DashboardResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.SummaryRepository()

	summary, err := repo.FindSummary(ctx, storeID, start, end)
	if err != nil {
		return nil, err
	}
	channels, err := repo.FindChannels(ctx, storeID, start, end)
	if err != nil {
		return nil, err
	}

	out := &dto.DashboardResponse{}
	for _, row := range summary {
		out.Summary = append(out.Summary, dto.SummaryRowResponse{Metric: row.Metric, Value: row.Value})
	}
	for _, row := range channels {
		out.Channels = append(out.Channels, dto.ChannelRevenueResponse{
			Channel: row.Channel, Revenue: row.Revenue, Orders: row.Orders,
		})
	}

	job, err := uow.SyncJobRepository().FindOne(ctx,
		specification.ByStore{StoreID: storeID},
		specification.OrderBy{Field: "started_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}
	if job != nil {
		out.Syncing = !job.Status.Terminal()
		if job.Status == entity.SyncError {
			out.LastError = job.Error
		}
	}
	return out, nil
}

// AttachSession starts (or joins) the store's live session. The session
// subscribes once no matter how many operators watch the same store.
func (s *dashboardService) AttachSession(ctx context.Context, storeID uuid.UUID, period reconcile.Period) error {
	s.mu.Lock()
	entry, ok := s.sessions[storeID]
	if ok {
		entry.refs++
		s.mu.Unlock()
		return nil
	}

	session := reconcile.NewSession(
		storeID,
		period,
		s.subscriber,
		s.uowFactory.NewUnitOfWork(ctx).SummaryRepository(),
		s.sink,
		s.logger,
	)
	s.sessions[storeID] = &sessionEntry{session: session, refs: 1}
	s.mu.Unlock()

	if err := session.Attach(ctx); err != nil {
		s.mu.Lock()
		delete(s.sessions, storeID)
		s.mu.Unlock()
		return err
	}

	s.logger.Info("Dashboard", "Live session attached", map[string]interface{}{
		"store_id": storeID.String(),
	})
	return nil
}

// DetachSession drops one reference; the subscription dies with the last
// viewer so listeners never outlive their store's audience.
func (s *dashboardService) DetachSession(storeID uuid.UUID) {
	s.mu.Lock()
	entry, ok := s.sessions[storeID]
	if !ok {
		s.mu.Unlock()
		return
	}
	entry.refs--
	if entry.refs > 0 {
		s.mu.Unlock()
		return
	}
	delete(s.sessions, storeID)
	s.mu.Unlock()

	entry.session.Detach()
	s.logger.Info("Dashboard", "Live session detached", map[string]interface{}{
		"store_id": storeID.String(),
	})
}

func (s *dashboardService) SetPeriod(ctx context.Context, storeID uuid.UUID, period reconcile.Period) error {
	s.mu.Lock()
	entry, ok := s.sessions[storeID]
	s.mu.Unlock()
	if !ok {
		return nil
	}
	return entry.session.SetPeriod(ctx, period)
}

// MarkSyncing flips the live indicator right after a startSync so the UI
// reacts before the first record change arrives.
func (s *dashboardService) MarkSyncing(storeID uuid.UUID) {
	s.mu.Lock()
	entry, ok := s.sessions[storeID]
	s.mu.Unlock()
	if ok {
		entry.session.MarkSyncing()
	}
}
