package implementation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"reversa-be/internal/entity"
	"reversa-be/internal/repository/contract"
)

type policyRepositoryImpl struct {
	db *gorm.DB
}

func NewPolicyRepository(db *gorm.DB) contract.PolicyRepository {
	return &policyRepositoryImpl{db: db}
}

func (r *policyRepositoryImpl) FindByStoreAndLink(ctx context.Context, storeID uuid.UUID, link entity.LinkType) (*entity.PolicyConfig, error) {
	var policy entity.PolicyConfig
	err := r.db.WithContext(ctx).
		Where("store_id = ? AND link_type = ?", storeID, link).
		First(&policy).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &policy, nil
}

func (r *policyRepositoryImpl) Upsert(ctx context.Context, policy *entity.PolicyConfig) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "store_id"}, {Name: "link_type"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"window_days", "min_value", "auto_approve", "auto_approve_limit",
			"require_photos", "form_fields", "theming", "updated_at",
		}),
	}).Create(policy).Error
}
