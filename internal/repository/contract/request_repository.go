package contract

import (
	"context"

	"github.com/google/uuid"

	"reversa-be/internal/entity"
	"reversa-be/internal/repository/specification"
)

type RequestRepository interface {
	Create(ctx context.Context, request *entity.Request) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Request, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Request, error)
	FindAllWithItems(ctx context.Context, specs ...specification.Specification) ([]*entity.Request, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	Update(ctx context.Context, request *entity.Request) error
	ProtocolExists(ctx context.Context, storeID uuid.UUID, code string) (bool, error)
}
