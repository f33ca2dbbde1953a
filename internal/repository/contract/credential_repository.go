package contract

import (
	"context"

	"github.com/google/uuid"

	"reversa-be/internal/entity"
)

// CredentialRepository holds the store's external-platform OAuth material.
type CredentialRepository interface {
	FindByStore(ctx context.Context, storeID uuid.UUID) (*entity.IntegrationCredential, error)
	Upsert(ctx context.Context, cred *entity.IntegrationCredential) error
}
