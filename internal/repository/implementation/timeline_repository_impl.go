package implementation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reversa-be/internal/entity"
	"reversa-be/internal/repository/contract"
)

type timelineRepositoryImpl struct {
	db *gorm.DB
}

func NewTimelineRepository(db *gorm.DB) contract.TimelineRepository {
	return &timelineRepositoryImpl{db: db}
}

func (r *timelineRepositoryImpl) Append(ctx context.Context, event *entity.TimelineEvent) error {
	return r.db.WithContext(ctx).Create(event).Error
}

func (r *timelineRepositoryImpl) FindLatest(ctx context.Context, requestID uuid.UUID) (*entity.TimelineEvent, error) {
	var event entity.TimelineEvent
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at DESC").
		First(&event).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &event, nil
}

func (r *timelineRepositoryImpl) FindAllByRequest(ctx context.Context, requestID uuid.UUID) ([]*entity.TimelineEvent, error) {
	var events []*entity.TimelineEvent
	err := r.db.WithContext(ctx).
		Where("request_id = ?", requestID).
		Order("created_at ASC").
		Find(&events).Error
	if err != nil {
		return nil, err
	}
	return events, nil
}
