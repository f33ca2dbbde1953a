package implementation

import (
	"context"

	"gorm.io/gorm"

	"reversa-be/internal/entity"
	"reversa-be/internal/repository/contract"
	"reversa-be/internal/repository/specification"
)

type storeRepositoryImpl struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) contract.StoreRepository {
	return &storeRepositoryImpl{db: db}
}

func (r *storeRepositoryImpl) Create(ctx context.Context, store *entity.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

func (r *storeRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Store, error) {
	var store entity.Store
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&store).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &store, nil
}

func (r *storeRepositoryImpl) FindBySlug(ctx context.Context, slug string) (*entity.Store, error) {
	var store entity.Store
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&store).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &store, nil
}
