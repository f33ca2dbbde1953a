package implementation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"reversa-be/internal/entity"
	"reversa-be/internal/repository/contract"
)

type summaryRepositoryImpl struct {
	db *gorm.DB
}

func NewSummaryRepository(db *gorm.DB) contract.SummaryRepository {
	return &summaryRepositoryImpl{db: db}
}

func (r *summaryRepositoryImpl) FindSummary(ctx context.Context, storeID uuid.UUID, start, end time.Time) ([]*entity.SummaryRow, error) {
	var rows []*entity.SummaryRow
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND period_start = ? AND period_end = ?",
			storeID, start.Format("2006-01-02"), end.Format("2006-01-02")).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *summaryRepositoryImpl) FindChannels(ctx context.Context, storeID uuid.UUID, start, end time.Time) ([]*entity.ChannelRevenue, error) {
	var rows []*entity.ChannelRevenue
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND period_start = ? AND period_end = ?",
			storeID, start.Format("2006-01-02"), end.Format("2006-01-02")).
		Order("revenue DESC").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *summaryRepositoryImpl) UpsertSummary(ctx context.Context, row *entity.SummaryRow) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "store_id"}, {Name: "period_start"}, {Name: "period_end"}, {Name: "metric"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(row).Error
}

func (r *summaryRepositoryImpl) UpsertChannel(ctx context.Context, row *entity.ChannelRevenue) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "store_id"}, {Name: "period_start"}, {Name: "period_end"}, {Name: "channel"}},
		DoUpdates: clause.AssignmentColumns([]string{"revenue", "orders", "updated_at"}),
	}).Create(row).Error
}

