package implementation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"reversa-be/internal/entity"
	"reversa-be/internal/repository/contract"
	"reversa-be/internal/repository/specification"
)

type requestRepositoryImpl struct {
	db *gorm.DB
}

func NewRequestRepository(db *gorm.DB) contract.RequestRepository {
	return &requestRepositoryImpl{db: db}
}

func (r *requestRepositoryImpl) Create(ctx context.Context, request *entity.Request) error {
	return r.db.WithContext(ctx).Create(request).Error
}

func (r *requestRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Request, error) {
	var request entity.Request
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&request).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return &request, nil
}

func (r *requestRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Request, error) {
	var requests []*entity.Request
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}

	return requests, nil
}

// FindAllWithItems preloads the immutable line items.
func (r *requestRepositoryImpl) FindAllWithItems(ctx context.Context, specs ...specification.Specification) ([]*entity.Request, error) {
	var requests []*entity.Request
	query := r.db.WithContext(ctx).Preload("Items")

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&requests).Error; err != nil {
		return nil, err
	}

	return requests, nil
}

func (r *requestRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&entity.Request{})

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *requestRepositoryImpl) Update(ctx context.Context, request *entity.Request) error {
	return r.db.WithContext(ctx).Model(&entity.Request{}).
		Where("id = ?", request.ID).
		Updates(map[string]interface{}{
			"status":          request.Status,
			"approved_amount": request.ApprovedAmount,
			"method":          request.Method,
			"notes":           request.Notes,
		}).Error
}

func (r *requestRepositoryImpl) ProtocolExists(ctx context.Context, storeID uuid.UUID, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Request{}).
		Where("store_id = ? AND protocol = ?", storeID, code).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
