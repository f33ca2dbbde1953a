package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"reversa-be/internal/dto"
	"reversa-be/internal/entity"
	"reversa-be/internal/pkg/logger"
	"reversa-be/internal/pkg/mailer"
	"reversa-be/internal/repository/specification"
	"reversa-be/internal/repository/unitofwork"
	"reversa-be/pkg/events"
	"reversa-be/pkg/lifecycle"
	pktNats "reversa-be/pkg/nats"
)

// IRequestService owns every status mutation of a request. The timeline
// event and the status column always move in one transaction; there is no
// other write path.
type IRequestService interface {
	List(ctx context.Context, storeID uuid.UUID, page, limit int, status, reqType string) ([]dto.RequestListResponse, int64, error)
	Get(ctx context.Context, storeID, id uuid.UUID) (*dto.RequestDetailResponse, error)
	Advance(ctx context.Context, storeID, id uuid.UUID, actorID *uuid.UUID, req *dto.AdvanceRequest) (*dto.TransitionResponse, error)
	Approve(ctx context.Context, storeID, id uuid.UUID, actorID *uuid.UUID, req *dto.ApproveRequest) (*dto.TransitionResponse, error)
	Reject(ctx context.Context, storeID, id uuid.UUID, actorID *uuid.UUID, req *dto.RejectRequest) (*dto.TransitionResponse, error)
	Revert(ctx context.Context, storeID, id uuid.UUID, actorID *uuid.UUID, req *dto.RevertRequest) (*dto.TransitionResponse, error)
}

type requestService struct {
	uowFactory unitofwork.RepositoryFactory
	natsPub    *pktNats.Publisher
	mail       mailer.IEmailService
	logger     logger.ILogger
}

func NewRequestService(uowFactory unitofwork.RepositoryFactory, natsPub *pktNats.Publisher, mail mailer.IEmailService, log logger.ILogger) IRequestService {
	return &requestService{
		uowFactory: uowFactory,
		natsPub:    natsPub,
		mail:       mail,
		logger:     log,
	}
}

func (s *requestService) List(ctx context.Context, storeID uuid.UUID, page, limit int, status, reqType string) ([]dto.RequestListResponse, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	specs := []specification.Specification{
		specification.ByStore{StoreID: storeID},
	}
	if status != "" {
		specs = append(specs, specification.ByStatus{Status: lifecycle.Status(status)})
	}
	if reqType != "" {
		specs = append(specs, specification.ByType{Type: lifecycle.Type(reqType)})
	}

	total, err := uow.RequestRepository().Count(ctx, specs...)
	if err != nil {
		return nil, 0, err
	}

	specs = append(specs,
		specification.OrderBy{Field: "created_at", Desc: true},
		specification.Pagination{Limit: limit, Offset: (page - 1) * limit},
	)

	requests, err := uow.RequestRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, 0, err
	}

	out := make([]dto.RequestListResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, toListResponse(r))
	}
	return out, total, nil
}

func (s *requestService) Get(ctx context.Context, storeID, id uuid.UUID) (*dto.RequestDetailResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	requests, err := uow.RequestRepository().FindAllWithItems(ctx,
		specification.ByID{ID: id},
		specification.ByStore{StoreID: storeID},
	)
	if err != nil {
		return nil, err
	}
	if len(requests) == 0 {
		return nil, fmt.Errorf("request not found")
	}
	request := requests[0]

	timeline, err := uow.TimelineRepository().FindAllByRequest(ctx, request.ID)
	if err != nil {
		return nil, err
	}

	detail := &dto.RequestDetailResponse{
		RequestListResponse: toListResponse(request),
		Reason:              request.Reason,
		Notes:               request.Notes,
	}
	for _, item := range request.Items {
		detail.Items = append(detail.Items, dto.RequestItemResponse{
			Id:       item.ID,
			Name:     item.Name,
			Sku:      item.SKU,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}
	for _, ev := range timeline {
		detail.Timeline = append(detail.Timeline, toTimelineResponse(ev))
	}
	return detail, nil
}

func (s *requestService) Advance(ctx context.Context, storeID, id uuid.UUID, actorID *uuid.UUID, req *dto.AdvanceRequest) (*dto.TransitionResponse, error) {
	return s.transition(ctx, storeID, id, actorID, lifecycle.Status(req.ToStatus), req.Reason, nil)
}

func (s *requestService) Approve(ctx context.Context, storeID, id uuid.UUID, actorID *uuid.UUID, req *dto.ApproveRequest) (*dto.TransitionResponse, error) {
	mutate := func(r *entity.Request) error {
		if req.ApprovedAmount != nil {
			r.ApprovedAmount = req.ApprovedAmount
		} else {
			amount := r.Amount
			r.ApprovedAmount = &amount
		}
		if req.Method != "" {
			method := lifecycle.RefundMethod(req.Method)
			if !lifecycle.ValidMethod(method) {
				return fmt.Errorf("unknown refund method: %s", req.Method)
			}
			r.Method = method
		}
		if req.Notes != "" {
			r.Notes = req.Notes
		}
		return nil
	}

	res, err := s.transition(ctx, storeID, id, actorID, lifecycle.StatusApproved, "", mutate)
	if err != nil {
		return nil, err
	}

	s.notifyCustomer(ctx, storeID, id, "Sua solicitação foi aprovada.")
	return res, nil
}

func (s *requestService) Reject(ctx context.Context, storeID, id uuid.UUID, actorID *uuid.UUID, req *dto.RejectRequest) (*dto.TransitionResponse, error) {
	res, err := s.transition(ctx, storeID, id, actorID, lifecycle.StatusRejected, req.Reason, nil)
	if err != nil {
		return nil, err
	}

	s.notifyCustomer(ctx, storeID, id, fmt.Sprintf("Sua solicitação foi recusada: %s", req.Reason))
	return res, nil
}

func (s *requestService) Revert(ctx context.Context, storeID, id uuid.UUID, actorID *uuid.UUID, req *dto.RevertRequest) (*dto.TransitionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	request, err := uow.RequestRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByStore{StoreID: storeID},
	)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, fmt.Errorf("request not found")
	}

	to, err := lifecycle.ValidateRevert(request.Type, request.Status, req.Reason)
	if err != nil {
		return nil, err
	}

	return s.commitTransition(ctx, uow, request, to, req.Reason, actorID, nil, events.TypeRequestAdvanced)
}

// transition is the single forward-transition path.
// mutate, when set, adjusts the request row inside the same transaction.
func (s *requestService) transition(ctx context.Context, storeID, id uuid.UUID, actorID *uuid.UUID, to lifecycle.Status, reason string, mutate func(*entity.Request) error) (*dto.TransitionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	request, err := uow.RequestRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByStore{StoreID: storeID},
	)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, fmt.Errorf("request not found")
	}

	if err := lifecycle.Validate(request.Type, request.Status, to); err != nil {
		// Invariant violation: reject outright, leave the record untouched.
		return nil, err
	}

	eventType := events.TypeRequestAdvanced
	switch to {
	case lifecycle.StatusApproved:
		eventType = events.TypeRequestApproved
	case lifecycle.StatusRejected:
		eventType = events.TypeRequestRejected
	}

	return s.commitTransition(ctx, uow, request, to, reason, actorID, mutate, eventType)
}

// commitTransition performs the status write and the timeline append as
// one logical operation: both land or neither does.
func (s *requestService) commitTransition(ctx context.Context, uow unitofwork.UnitOfWork, request *entity.Request, to lifecycle.Status, reason string, actorID *uuid.UUID, mutate func(*entity.Request) error, eventType string) (*dto.TransitionResponse, error) {
	from := request.Status

	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}
	defer uow.Rollback()

	request.Status = to
	if mutate != nil {
		if err := mutate(request); err != nil {
			return nil, err
		}
	}

	if err := uow.RequestRepository().Update(ctx, request); err != nil {
		return nil, err
	}

	if err := uow.TimelineRepository().Append(ctx, &entity.TimelineEvent{
		ID:         uuid.New(),
		RequestID:  request.ID,
		FromStatus: &from,
		ToStatus:   to,
		Reason:     reason,
		ActorID:    actorID,
	}); err != nil {
		return nil, err
	}

	if err := uow.Commit(); err != nil {
		return nil, err
	}

	s.logger.Info("Request", "Status transition", map[string]interface{}{
		"request_id": request.ID.String(),
		"protocol":   request.Protocol,
		"from":       string(from),
		"to":         string(to),
	})

	if s.natsPub != nil {
		_ = s.natsPub.Publish(ctx, events.New(eventType, map[string]interface{}{
			"request_id":  request.ID.String(),
			"store_id":    request.StoreID.String(),
			"protocol":    request.Protocol,
			"from_status": string(from),
			"to_status":   string(to),
			"reason":      reason,
		}))
	}

	label, _ := lifecycle.Label(to)
	return &dto.TransitionResponse{
		Id:          request.ID,
		Protocol:    request.Protocol,
		FromStatus:  string(from),
		ToStatus:    string(to),
		StatusLabel: label,
	}, nil
}

// notifyCustomer mails the status change; failures are logged, never
// bubbled, the transition already committed.
func (s *requestService) notifyCustomer(ctx context.Context, storeID, id uuid.UUID, message string) {
	if s.mail == nil {
		return
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	request, err := uow.RequestRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByStore{StoreID: storeID},
	)
	if err != nil || request == nil {
		return
	}

	label, _ := lifecycle.Label(request.Status)
	if err := s.mail.SendStatusUpdate(request.CustomerEmail, request.Protocol, label, message); err != nil {
		s.logger.Warn("Request", "Status email failed", map[string]interface{}{
			"request_id": id.String(), "error": err.Error(),
		})
	}
}

func toListResponse(r *entity.Request) dto.RequestListResponse {
	label, _ := lifecycle.Label(r.Status)
	return dto.RequestListResponse{
		Id:             r.ID,
		Protocol:       r.Protocol,
		Type:           string(r.Type),
		Status:         string(r.Status),
		StatusLabel:    label,
		CustomerName:   r.CustomerName,
		CustomerEmail:  r.CustomerEmail,
		OrderCode:      r.OrderCode,
		Amount:         r.Amount,
		ApprovedAmount: r.ApprovedAmount,
		Method:         string(r.Method),
		RiskScore:      r.RiskScore,
		Origin:         string(r.Origin),
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func toTimelineResponse(ev *entity.TimelineEvent) dto.TimelineEventResponse {
	out := dto.TimelineEventResponse{
		Id:        ev.ID,
		ToStatus:  string(ev.ToStatus),
		Reason:    ev.Reason,
		CreatedAt: ev.CreatedAt,
	}
	if ev.FromStatus != nil {
		from := string(*ev.FromStatus)
		out.FromStatus = &from
	}
	if ev.ActorID != nil {
		actor := ev.ActorID.String()
		out.ActorId = &actor
	}
	return out
}
