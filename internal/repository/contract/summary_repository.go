package contract

import (
	"context"
	"time"

	"github.com/google/uuid"

	"reversa-be/internal/entity"
)

// SummaryRepository reads and writes the dashboard aggregates the external
// sync pipeline produces.
type SummaryRepository interface {
	FindSummary(ctx context.Context, storeID uuid.UUID, start, end time.Time) ([]*entity.SummaryRow, error)
	FindChannels(ctx context.Context, storeID uuid.UUID, start, end time.Time) ([]*entity.ChannelRevenue, error)
	UpsertSummary(ctx context.Context, row *entity.SummaryRow) error
	UpsertChannel(ctx context.Context, row *entity.ChannelRevenue) error
}
