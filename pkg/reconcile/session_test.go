package reconcile

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reversa-be/internal/entity"
	"reversa-be/pkg/events"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type stubFetcher struct {
	mu      sync.Mutex
	fetches int
	summary []*entity.SummaryRow
}

func (f *stubFetcher) FindSummary(ctx context.Context, storeID uuid.UUID, start, end time.Time) ([]*entity.SummaryRow, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fetches++
	return f.summary, nil
}

func (f *stubFetcher) FindChannels(ctx context.Context, storeID uuid.UUID, start, end time.Time) ([]*entity.ChannelRevenue, error) {
	return nil, nil
}

func (f *stubFetcher) fetchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetches
}

type collectingSink struct {
	mu    sync.Mutex
	snaps []Snapshot
}

func (s *collectingSink) Push(storeID uuid.UUID, snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snaps = append(s.snaps, snap)
}

func (s *collectingSink) last() (Snapshot, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.snaps) == 0 {
		return Snapshot{}, false
	}
	return s.snaps[len(s.snaps)-1], true
}

func waitUntil(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("condition not reached in time")
}

func publish(t *testing.T, pubSub *gochannel.GoChannel, ev events.RecordChange) {
	t.Helper()
	payload, err := ev.Marshal()
	require.NoError(t, err)
	require.NoError(t, pubSub.Publish(events.TopicRecordChanges, message.NewMessage(watermill.NewUUID(), payload)))
}

func newTestSession(t *testing.T) (*Session, *gochannel.GoChannel, *stubFetcher, *collectingSink, uuid.UUID, Period) {
	t.Helper()

	storeID := uuid.New()
	period := Period{
		Start: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
	}
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	fetcher := &stubFetcher{summary: []*entity.SummaryRow{{Metric: "revenue", Value: 1234.56}}}
	sink := &collectingSink{}

	session := NewSession(storeID, period, pubSub, fetcher, sink, nopLogger{})
	require.NoError(t, session.Attach(context.Background()))
	t.Cleanup(session.Detach)

	return session, pubSub, fetcher, sink, storeID, period
}

func scopedValues(status string) map[string]interface{} {
	return map[string]interface{}{
		"status":       status,
		"period_start": "2026-08-01",
		"period_end":   "2026-08-31",
	}
}

func TestSessionLoadsInitialSnapshot(t *testing.T) {
	session, _, fetcher, _, _, _ := newTestSession(t)

	waitUntil(t, func() bool { return fetcher.fetchCount() >= 1 })

	snap := session.Snapshot()
	require.Len(t, snap.Summary, 1)
	assert.Equal(t, "revenue", snap.Summary[0].Metric)
}

func TestSessionJobSuccessClearsSyncingAndRefetches(t *testing.T) {
	session, pubSub, fetcher, sink, storeID, _ := newTestSession(t)
	session.MarkSyncing()
	before := fetcher.fetchCount()

	publish(t, pubSub, events.RecordChange{
		Table:     events.TableSyncJobs,
		RecordID:  uuid.New(),
		StoreID:   storeID,
		NewValues: scopedValues("SUCCESS"),
	})

	waitUntil(t, func() bool {
		snap, ok := sink.last()
		return ok && !snap.Syncing && fetcher.fetchCount() > before
	})

	snap := session.Snapshot()
	assert.False(t, snap.Syncing)
	assert.Empty(t, snap.LastError)
}

func TestSessionJobErrorSurfacesMessage(t *testing.T) {
	session, pubSub, _, sink, storeID, _ := newTestSession(t)
	session.MarkSyncing()

	values := scopedValues("ERROR")
	values["error"] = "tempo limite de sincronização excedido; job recuperado"
	publish(t, pubSub, events.RecordChange{
		Table:     events.TableSyncJobs,
		RecordID:  uuid.New(),
		StoreID:   storeID,
		NewValues: values,
	})

	waitUntil(t, func() bool {
		snap, ok := sink.last()
		return ok && !snap.Syncing && snap.LastError != ""
	})

	snap := session.Snapshot()
	assert.Equal(t, "tempo limite de sincronização excedido; job recuperado", snap.LastError)
}

func TestSessionIgnoresForeignChanges(t *testing.T) {
	_, pubSub, fetcher, _, storeID, _ := newTestSession(t)
	waitUntil(t, func() bool { return fetcher.fetchCount() >= 1 })
	before := fetcher.fetchCount()

	// Another store, another period, an unwatched table.
	publish(t, pubSub, events.RecordChange{
		Table:     events.TableSummaryRows,
		RecordID:  uuid.New(),
		StoreID:   uuid.New(),
		NewValues: scopedValues("SUCCESS"),
	})
	publish(t, pubSub, events.RecordChange{
		Table:    events.TableSummaryRows,
		RecordID: uuid.New(),
		StoreID:  storeID,
		NewValues: map[string]interface{}{
			"period_start": "2026-01-01",
			"period_end":   "2026-01-31",
		},
	})
	publish(t, pubSub, events.RecordChange{
		Table:     "requests",
		RecordID:  uuid.New(),
		StoreID:   storeID,
		NewValues: scopedValues(""),
	})

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, before, fetcher.fetchCount(), "foreign changes must not trigger refetches")
}

func TestSessionAggregateChangeTriggersRefetchAndPush(t *testing.T) {
	_, pubSub, fetcher, sink, storeID, _ := newTestSession(t)
	waitUntil(t, func() bool { return fetcher.fetchCount() >= 1 })
	before := fetcher.fetchCount()

	publish(t, pubSub, events.RecordChange{
		Table:     events.TableChannelRevenue,
		RecordID:  uuid.New(),
		StoreID:   storeID,
		NewValues: scopedValues(""),
	})

	waitUntil(t, func() bool {
		_, pushed := sink.last()
		return pushed && fetcher.fetchCount() > before
	})
}
