package implementation

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reversa-be/internal/entity"
	"reversa-be/internal/repository/contract"
	"reversa-be/internal/repository/specification"
)

type syncJobRepositoryImpl struct {
	db *gorm.DB
}

func NewSyncJobRepository(db *gorm.DB) contract.SyncJobRepository {
	return &syncJobRepositoryImpl{db: db}
}

func (r *syncJobRepositoryImpl) Create(ctx context.Context, job *entity.SyncJob) error {
	return r.db.WithContext(ctx).Create(job).Error
}

func (r *syncJobRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SyncJob, error) {
	var job entity.SyncJob
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&job).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &job, nil
}

func (r *syncJobRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SyncJob, error) {
	var jobs []*entity.SyncJob
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *syncJobRepositoryImpl) Update(ctx context.Context, job *entity.SyncJob) error {
	return r.db.WithContext(ctx).Model(&entity.SyncJob{}).
		Where("id = ?", job.ID).
		Updates(map[string]interface{}{
			"status":      job.Status,
			"request_id":  job.RequestID,
			"finished_at": job.FinishedAt,
			"error":       job.Error,
		}).Error
}

func (r *syncJobRepositoryImpl) MarkError(ctx context.Context, id uuid.UUID, message string, finishedAt time.Time) error {
	return r.db.WithContext(ctx).Model(&entity.SyncJob{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":      entity.SyncError,
			"error":       message,
			"finished_at": finishedAt,
		}).Error
}
