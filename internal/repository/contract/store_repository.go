package contract

import (
	"context"

	"reversa-be/internal/entity"
	"reversa-be/internal/repository/specification"
)

type StoreRepository interface {
	Create(ctx context.Context, store *entity.Store) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Store, error)
	FindBySlug(ctx context.Context, slug string) (*entity.Store, error)
}
