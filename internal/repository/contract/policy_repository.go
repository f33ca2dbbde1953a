package contract

import (
	"context"

	"github.com/google/uuid"

	"reversa-be/internal/entity"
)

type PolicyRepository interface {
	FindByStoreAndLink(ctx context.Context, storeID uuid.UUID, link entity.LinkType) (*entity.PolicyConfig, error)
	Upsert(ctx context.Context, policy *entity.PolicyConfig) error
}
