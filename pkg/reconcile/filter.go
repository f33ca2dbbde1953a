package reconcile

import (
	"time"

	"github.com/google/uuid"

	"reversa-be/pkg/events"
)

// Period is the viewing context's selected date range, compared at day
// granularity.
type Period struct {
	Start time.Time
	End   time.Time
}

func (p Period) startString() string { return p.Start.Format("2006-01-02") }
func (p Period) endString() string   { return p.End.Format("2006-01-02") }

var watchedTables = map[string]bool{
	events.TableSyncJobs:       true,
	events.TableSummaryRows:    true,
	events.TableChannelRevenue: true,
}

// Matches is the pure filter deciding whether a record change concerns
// this store and period. Non-matching notifications must never trigger a
// refetch.
func Matches(storeID uuid.UUID, p Period, ev events.RecordChange) bool {
	if ev.StoreID != storeID {
		return false
	}
	if !watchedTables[ev.Table] {
		return false
	}

	start := ev.StringValue("period_start")
	end := ev.StringValue("period_end")
	if start == "" || end == "" {
		return false
	}
	return normalizeDate(start) == p.startString() && normalizeDate(end) == p.endString()
}

// normalizeDate tolerates full timestamps in the notification payload by
// keeping only the date part.
func normalizeDate(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
