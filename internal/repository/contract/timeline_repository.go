package contract

import (
	"context"

	"github.com/google/uuid"

	"reversa-be/internal/entity"
)

// TimelineRepository is append-only by contract: events are never edited
// or deleted.
type TimelineRepository interface {
	Append(ctx context.Context, event *entity.TimelineEvent) error
	FindLatest(ctx context.Context, requestID uuid.UUID) (*entity.TimelineEvent, error)
	FindAllByRequest(ctx context.Context, requestID uuid.UUID) ([]*entity.TimelineEvent, error)
}
