package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"reversa-be/internal/dto"
	"reversa-be/internal/entity"
	"reversa-be/internal/repository/contract"
	"reversa-be/internal/repository/specification"
	"reversa-be/internal/repository/unitofwork"
	"reversa-be/pkg/eligibility"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// memRequestRepo keeps requests in memory and interprets the query
// specifications the services actually build.
type memRequestRepo struct {
	requests map[uuid.UUID]*entity.Request
}

func newMemRequestRepo() *memRequestRepo {
	return &memRequestRepo{requests: map[uuid.UUID]*entity.Request{}}
}

func (r *memRequestRepo) matches(req *entity.Request, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if req.ID != s.ID {
				return false
			}
		case specification.ByStore:
			if req.StoreID != s.StoreID {
				return false
			}
		case specification.ByStatus:
			if req.Status != s.Status {
				return false
			}
		case specification.ByType:
			if req.Type != s.Type {
				return false
			}
		case specification.ByProtocol:
			if req.Protocol != s.Protocol {
				return false
			}
		}
	}
	return true
}

func (r *memRequestRepo) Create(ctx context.Context, request *entity.Request) error {
	cp := *request
	r.requests[request.ID] = &cp
	return nil
}

func (r *memRequestRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Request, error) {
	for _, req := range r.requests {
		if r.matches(req, specs) {
			cp := *req
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memRequestRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Request, error) {
	var out []*entity.Request
	for _, req := range r.requests {
		if r.matches(req, specs) {
			cp := *req
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memRequestRepo) FindAllWithItems(ctx context.Context, specs ...specification.Specification) ([]*entity.Request, error) {
	return r.FindAll(ctx, specs...)
}

func (r *memRequestRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	all, _ := r.FindAll(ctx, specs...)
	return int64(len(all)), nil
}

func (r *memRequestRepo) Update(ctx context.Context, request *entity.Request) error {
	stored, ok := r.requests[request.ID]
	if !ok {
		return fmt.Errorf("request %s not found", request.ID)
	}
	stored.Status = request.Status
	stored.ApprovedAmount = request.ApprovedAmount
	stored.Method = request.Method
	stored.Notes = request.Notes
	return nil
}

func (r *memRequestRepo) ProtocolExists(ctx context.Context, storeID uuid.UUID, code string) (bool, error) {
	for _, req := range r.requests {
		if req.StoreID == storeID && req.Protocol == code {
			return true, nil
		}
	}
	return false, nil
}

// memTimelineRepo stores events in append order; failNext injects one
// write failure for atomicity tests.
type memTimelineRepo struct {
	events   []*entity.TimelineEvent
	failNext bool
}

func (r *memTimelineRepo) Append(ctx context.Context, event *entity.TimelineEvent) error {
	if r.failNext {
		r.failNext = false
		return fmt.Errorf("append failed")
	}
	cp := *event
	r.events = append(r.events, &cp)
	return nil
}

func (r *memTimelineRepo) FindLatest(ctx context.Context, requestID uuid.UUID) (*entity.TimelineEvent, error) {
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].RequestID == requestID {
			return r.events[i], nil
		}
	}
	return nil, nil
}

func (r *memTimelineRepo) FindAllByRequest(ctx context.Context, requestID uuid.UUID) ([]*entity.TimelineEvent, error) {
	var out []*entity.TimelineEvent
	for _, ev := range r.events {
		if ev.RequestID == requestID {
			out = append(out, ev)
		}
	}
	return out, nil
}

type memStoreRepo struct {
	stores map[string]*entity.Store
}

func (r *memStoreRepo) Create(ctx context.Context, store *entity.Store) error {
	r.stores[store.Slug] = store
	return nil
}

func (r *memStoreRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Store, error) {
	return nil, nil
}

func (r *memStoreRepo) FindBySlug(ctx context.Context, slug string) (*entity.Store, error) {
	return r.stores[slug], nil
}

// memUow gives the services real transaction semantics: Begin snapshots
// the request and timeline state, Rollback without a Commit restores it.
type memUow struct {
	requests *memRequestRepo
	timeline *memTimelineRepo
	stores   *memStoreRepo

	snapshot    map[uuid.UUID]entity.Request
	timelineLen int
	commits     int
}

func newMemUow() *memUow {
	return &memUow{
		requests: newMemRequestRepo(),
		timeline: &memTimelineRepo{},
		stores:   &memStoreRepo{stores: map[string]*entity.Store{}},
	}
}

func (u *memUow) Begin(ctx context.Context) error {
	u.snapshot = make(map[uuid.UUID]entity.Request, len(u.requests.requests))
	for id, req := range u.requests.requests {
		u.snapshot[id] = *req
	}
	u.timelineLen = len(u.timeline.events)
	return nil
}

func (u *memUow) Commit() error {
	u.snapshot = nil
	u.commits++
	return nil
}

func (u *memUow) Rollback() error {
	if u.snapshot == nil {
		return nil
	}
	restored := make(map[uuid.UUID]*entity.Request, len(u.snapshot))
	for id, req := range u.snapshot {
		cp := req
		restored[id] = &cp
	}
	u.requests.requests = restored
	u.timeline.events = u.timeline.events[:u.timelineLen]
	u.snapshot = nil
	return nil
}

func (u *memUow) StoreRepository() contract.StoreRepository           { return u.stores }
func (u *memUow) UserRepository() contract.UserRepository             { return nil }
func (u *memUow) RequestRepository() contract.RequestRepository       { return u.requests }
func (u *memUow) TimelineRepository() contract.TimelineRepository     { return u.timeline }
func (u *memUow) SyncJobRepository() contract.SyncJobRepository       { return nil }
func (u *memUow) PolicyRepository() contract.PolicyRepository         { return nil }
func (u *memUow) SummaryRepository() contract.SummaryRepository       { return nil }
func (u *memUow) CredentialRepository() contract.CredentialRepository { return nil }

type memFactory struct {
	uow *memUow
}

func (f *memFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

// stubPolicies serves one fixed policy regardless of link type.
type stubPolicies struct {
	policy *entity.PolicyConfig
}

func (s *stubPolicies) Get(ctx context.Context, storeID uuid.UUID, link entity.LinkType) (*entity.PolicyConfig, error) {
	return s.policy, nil
}

func (s *stubPolicies) Upsert(ctx context.Context, storeID uuid.UUID, link entity.LinkType, req *dto.UpsertPolicyRequest) (*entity.PolicyConfig, error) {
	return nil, nil
}

func (s *stubPolicies) AsEligibilityPolicy(policy *entity.PolicyConfig) eligibility.Policy {
	return eligibility.Policy{
		WindowDays:       policy.WindowDays,
		MinValue:         policy.MinValue,
		AutoApprove:      policy.AutoApprove,
		AutoApproveLimit: policy.AutoApproveLimit,
		RequirePhotos:    policy.RequirePhotos,
	}
}

type fakeMailer struct {
	statusUpdates []string
	protocols     []string
}

func (m *fakeMailer) SendStatusUpdate(toEmail, protocol, statusLabel, message string) error {
	m.statusUpdates = append(m.statusUpdates, message)
	return nil
}

func (m *fakeMailer) SendProtocol(toEmail, protocol string) error {
	m.protocols = append(m.protocols, protocol)
	return nil
}
