package events

import (
	"encoding/json"

	"github.com/google/uuid"
)

// TopicRecordChanges is the in-process watermill topic carrying row-level
// change notifications for the tables the dashboard watches.
const TopicRecordChanges = "record_changes"

// Watched table names.
const (
	TableSyncJobs       = "sync_jobs"
	TableSummaryRows    = "summary_rows"
	TableChannelRevenue = "channel_revenue"
)

// RecordChange is emitted after a watched row is committed. NewValues
// carries the row's fresh column values; consumers filter by StoreID and
// the embedded period before reacting.
type RecordChange struct {
	Table     string                 `json:"table"`
	RecordID  uuid.UUID              `json:"record_id"`
	StoreID   uuid.UUID              `json:"store_id"`
	NewValues map[string]interface{} `json:"new_values"`
}

// Marshal encodes the change for the message bus.
func (c RecordChange) Marshal() ([]byte, error) {
	return json.Marshal(c)
}

// UnmarshalRecordChange decodes a bus payload back into a RecordChange.
func UnmarshalRecordChange(data []byte) (RecordChange, error) {
	var c RecordChange
	err := json.Unmarshal(data, &c)
	return c, err
}

// StringValue reads a string column from NewValues, tolerating absence.
func (c RecordChange) StringValue(key string) string {
	if v, ok := c.NewValues[key].(string); ok {
		return v
	}
	return ""
}
