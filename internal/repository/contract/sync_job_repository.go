package contract

import (
	"context"
	"time"

	"github.com/google/uuid"

	"reversa-be/internal/entity"
	"reversa-be/internal/repository/specification"
)

type SyncJobRepository interface {
	Create(ctx context.Context, job *entity.SyncJob) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.SyncJob, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.SyncJob, error)
	Update(ctx context.Context, job *entity.SyncJob) error
	// MarkError force-closes a job with an error message; used by stale
	// reclamation and by failed triggers.
	MarkError(ctx context.Context, id uuid.UUID, message string, finishedAt time.Time) error
}
