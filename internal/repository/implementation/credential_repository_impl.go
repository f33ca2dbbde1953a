package implementation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"reversa-be/internal/entity"
	"reversa-be/internal/repository/contract"
)

type credentialRepositoryImpl struct {
	db *gorm.DB
}

func NewCredentialRepository(db *gorm.DB) contract.CredentialRepository {
	return &credentialRepositoryImpl{db: db}
}

func (r *credentialRepositoryImpl) FindByStore(ctx context.Context, storeID uuid.UUID) (*entity.IntegrationCredential, error) {
	var cred entity.IntegrationCredential
	err := r.db.WithContext(ctx).Where("store_id = ?", storeID).First(&cred).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &cred, nil
}

func (r *credentialRepositoryImpl) Upsert(ctx context.Context, cred *entity.IntegrationCredential) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "store_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"provider", "access_token", "refresh_token", "expires_at", "updated_at"}),
	}).Create(cred).Error
}
