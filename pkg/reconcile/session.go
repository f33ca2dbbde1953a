// Package reconcile keeps a viewing session's dashboard state consistent
// with the database without polling. A Session subscribes to the record
// change feed, discards notifications outside its store/period scope and
// rebuilds its snapshot wholesale on every relevant change.
package reconcile

import (
	"context"
	"sync"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"reversa-be/internal/entity"
	"reversa-be/internal/pkg/logger"
	"reversa-be/pkg/events"
)

// Fetcher reads the aggregates the snapshot is rebuilt from. Satisfied by
// contract.SummaryRepository.
type Fetcher interface {
	FindSummary(ctx context.Context, storeID uuid.UUID, start, end time.Time) ([]*entity.SummaryRow, error)
	FindChannels(ctx context.Context, storeID uuid.UUID, start, end time.Time) ([]*entity.ChannelRevenue, error)
}

// Sink receives fresh snapshots; implemented by the websocket hub adapter.
type Sink interface {
	Push(storeID uuid.UUID, snap Snapshot)
}

// Snapshot is the session-owned dashboard state. Rebuilt wholesale on each
// reconciliation; never partially merged.
type Snapshot struct {
	Summary     []*entity.SummaryRow     `json:"summary"`
	Channels    []*entity.ChannelRevenue `json:"channels"`
	Syncing     bool                     `json:"syncing"`
	LastError   string                   `json:"last_error,omitempty"`
	RefreshedAt time.Time                `json:"refreshed_at"`
}

// Session is the explicit per-viewing-context object: one store, one
// selected period, one subscription. Attach starts consuming; Detach tears
// the subscription down so listeners never leak across stores.
type Session struct {
	storeID uuid.UUID
	sub     message.Subscriber
	fetch   Fetcher
	sink    Sink
	logger  logger.ILogger

	mu     sync.Mutex
	period Period
	snap   Snapshot
	cancel context.CancelFunc
}

func NewSession(storeID uuid.UUID, period Period, sub message.Subscriber, fetch Fetcher, sink Sink, log logger.ILogger) *Session {
	return &Session{
		storeID: storeID,
		period:  period,
		sub:     sub,
		fetch:   fetch,
		sink:    sink,
		logger:  log,
	}
}

// Attach subscribes to the record change feed and loads the initial
// snapshot. Idempotent only through Detach: attach twice without detaching
// and you get two consumers.
func (s *Session) Attach(ctx context.Context) error {
	subCtx, cancel := context.WithCancel(ctx)

	msgs, err := s.sub.Subscribe(subCtx, events.TopicRecordChanges)
	if err != nil {
		cancel()
		return err
	}

	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	if err := s.refetch(ctx); err != nil {
		s.logger.Warn("Reconcile", "Initial snapshot load failed", map[string]interface{}{"error": err.Error()})
	}

	go func() {
		for msg := range msgs {
			s.handle(subCtx, msg)
		}
	}()

	return nil
}

// Detach cancels the subscription. Safe to call more than once.
func (s *Session) Detach() {
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// SetPeriod switches the viewing period and rebuilds the snapshot; later
// notifications are filtered against the new period.
func (s *Session) SetPeriod(ctx context.Context, p Period) error {
	s.mu.Lock()
	s.period = p
	s.mu.Unlock()
	return s.refetch(ctx)
}

// MarkSyncing flips the syncing indicator on, typically right after a
// startSync call, and pushes the state so the UI reacts immediately.
func (s *Session) MarkSyncing() {
	s.mu.Lock()
	s.snap.Syncing = true
	s.snap.LastError = ""
	snap := s.snap
	s.mu.Unlock()
	s.push(snap)
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

func (s *Session) handle(ctx context.Context, msg *message.Message) {
	// Always ack: the feed is a notification stream, not a work queue;
	// a dropped notification costs one refetch, nothing more.
	defer msg.Ack()

	ev, err := events.UnmarshalRecordChange(msg.Payload)
	if err != nil {
		s.logger.Warn("Reconcile", "Malformed record change", map[string]interface{}{"error": err.Error()})
		return
	}

	s.mu.Lock()
	period := s.period
	s.mu.Unlock()

	if !Matches(s.storeID, period, ev) {
		return
	}

	switch ev.Table {
	case events.TableSyncJobs:
		s.handleJobChange(ctx, ev)
	default:
		// Summary or channel rows changed: rebuild and push.
		if err := s.refetch(ctx); err != nil {
			s.logger.Error("Reconcile", "Refetch failed", map[string]interface{}{"error": err})
			return
		}
		s.push(s.Snapshot())
	}
}

func (s *Session) handleJobChange(ctx context.Context, ev events.RecordChange) {
	switch entity.SyncJobStatus(ev.StringValue("status")) {
	case entity.SyncSuccess:
		s.mu.Lock()
		s.snap.Syncing = false
		s.snap.LastError = ""
		s.mu.Unlock()
		if err := s.refetch(ctx); err != nil {
			s.logger.Error("Reconcile", "Refetch after sync failed", map[string]interface{}{"error": err})
		}
		s.push(s.Snapshot())

	case entity.SyncError:
		s.mu.Lock()
		s.snap.Syncing = false
		s.snap.LastError = ev.StringValue("error")
		snap := s.snap
		s.mu.Unlock()
		s.push(snap)

	case entity.SyncQueued, entity.SyncProcessing:
		s.mu.Lock()
		s.snap.Syncing = true
		snap := s.snap
		s.mu.Unlock()
		s.push(snap)
	}
}

// refetch rebuilds the snapshot wholesale from the aggregates.
func (s *Session) refetch(ctx context.Context) error {
	s.mu.Lock()
	period := s.period
	s.mu.Unlock()

	summary, err := s.fetch.FindSummary(ctx, s.storeID, period.Start, period.End)
	if err != nil {
		return err
	}
	channels, err := s.fetch.FindChannels(ctx, s.storeID, period.Start, period.End)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.snap.Summary = summary
	s.snap.Channels = channels
	s.snap.RefreshedAt = time.Now()
	s.mu.Unlock()
	return nil
}

func (s *Session) push(snap Snapshot) {
	if s.sink != nil {
		s.sink.Push(s.storeID, snap)
	}
}
