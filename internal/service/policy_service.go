package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"gorm.io/datatypes"

	"reversa-be/internal/dto"
	"reversa-be/internal/entity"
	"reversa-be/internal/repository/unitofwork"
	"reversa-be/pkg/eligibility"
)

// IPolicyService owns PolicyConfig rows. Reads are cached: the public
// submission flow hits the policy on every request.
type IPolicyService interface {
	Get(ctx context.Context, storeID uuid.UUID, link entity.LinkType) (*entity.PolicyConfig, error)
	Upsert(ctx context.Context, storeID uuid.UUID, link entity.LinkType, req *dto.UpsertPolicyRequest) (*entity.PolicyConfig, error)
	// AsEligibilityPolicy projects the row into the validator's input.
	AsEligibilityPolicy(policy *entity.PolicyConfig) eligibility.Policy
}

type policyService struct {
	uowFactory unitofwork.RepositoryFactory
	cache      *gocache.Cache
}

func NewPolicyService(uowFactory unitofwork.RepositoryFactory) IPolicyService {
	return &policyService{
		uowFactory: uowFactory,
		cache:      gocache.New(5*time.Minute, 10*time.Minute),
	}
}

func cacheKey(storeID uuid.UUID, link entity.LinkType) string {
	return storeID.String() + ":" + string(link)
}

func (s *policyService) Get(ctx context.Context, storeID uuid.UUID, link entity.LinkType) (*entity.PolicyConfig, error) {
	if cached, found := s.cache.Get(cacheKey(storeID, link)); found {
		return cached.(*entity.PolicyConfig), nil
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	policy, err := uow.PolicyRepository().FindByStoreAndLink(ctx, storeID, link)
	if err != nil {
		return nil, err
	}
	if policy == nil {
		return nil, fmt.Errorf("policy not configured for link type %s", link)
	}

	s.cache.Set(cacheKey(storeID, link), policy, gocache.DefaultExpiration)
	return policy, nil
}

func (s *policyService) Upsert(ctx context.Context, storeID uuid.UUID, link entity.LinkType, req *dto.UpsertPolicyRequest) (*entity.PolicyConfig, error) {
	fieldsJSON, err := json.Marshal(req.FormFields)
	if err != nil {
		return nil, fmt.Errorf("malformed form field schema: %w", err)
	}

	policy := &entity.PolicyConfig{
		ID:               uuid.New(),
		StoreID:          storeID,
		LinkType:         link,
		WindowDays:       req.WindowDays,
		MinValue:         req.MinValue,
		AutoApprove:      req.AutoApprove,
		AutoApproveLimit: req.AutoApproveLimit,
		RequirePhotos:    req.RequirePhotos,
		FormFields:       datatypes.JSON(fieldsJSON),
		Theming:          datatypes.JSON(req.Theming),
	}

	// Parse-or-reject at the boundary: a blob that does not round-trip
	// into typed fields never reaches the database.
	if _, err := policy.ParseFormFields(); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.PolicyRepository().Upsert(ctx, policy); err != nil {
		return nil, err
	}

	s.cache.Delete(cacheKey(storeID, link))
	return policy, nil
}

func (s *policyService) AsEligibilityPolicy(policy *entity.PolicyConfig) eligibility.Policy {
	return eligibility.Policy{
		WindowDays:       policy.WindowDays,
		MinValue:         policy.MinValue,
		AutoApprove:      policy.AutoApprove,
		AutoApproveLimit: policy.AutoApproveLimit,
		RequirePhotos:    policy.RequirePhotos,
	}
}
