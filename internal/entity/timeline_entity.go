package entity

import (
	"time"

	"github.com/google/uuid"

	"reversa-be/pkg/lifecycle"
)

// TimelineEvent is an append-only audit row for a request's status
// history. Rows are never edited or deleted; the request's current status
// must always equal the ToStatus of its most recent event.
type TimelineEvent struct {
	ID         uuid.UUID         `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	RequestID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	FromStatus *lifecycle.Status `gorm:"type:varchar(30)"` // nil on creation
	ToStatus   lifecycle.Status  `gorm:"type:varchar(30);not null"`
	Reason     string            `gorm:"type:text"`
	ActorID    *uuid.UUID        `gorm:"type:uuid"` // nil when the system acted
	CreatedAt  time.Time
}

func (TimelineEvent) TableName() string {
	return "request_events"
}
