package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"reversa-be/internal/dto"
	"reversa-be/internal/entity"
	"reversa-be/internal/pkg/logger"
	"reversa-be/internal/pkg/mailer"
	"reversa-be/internal/repository/specification"
	"reversa-be/internal/repository/unitofwork"
	"reversa-be/pkg/eligibility"
	"reversa-be/pkg/events"
	"reversa-be/pkg/lifecycle"
	pktNats "reversa-be/pkg/nats"
	"reversa-be/pkg/protocol"
	"reversa-be/pkg/risk"
)

// ISubmissionService handles the anonymous public portal: creating a
// request through a store's link and tracking it by protocol code. No
// authentication; the store slug scopes everything.
type ISubmissionService interface {
	Submit(ctx context.Context, slug string, req *dto.SubmissionRequest) (*dto.SubmissionResponse, *dto.EligibilityRejection, error)
	Track(ctx context.Context, slug, protocolCode string) (*dto.TrackingResponse, error)
}

type submissionService struct {
	uowFactory unitofwork.RepositoryFactory
	policies   IPolicyService
	natsPub    *pktNats.Publisher
	mail       mailer.IEmailService
	logger     logger.ILogger
	now        func() time.Time
}

func NewSubmissionService(uowFactory unitofwork.RepositoryFactory, policies IPolicyService, natsPub *pktNats.Publisher, mail mailer.IEmailService, log logger.ILogger) ISubmissionService {
	return &submissionService{
		uowFactory: uowFactory,
		policies:   policies,
		natsPub:    natsPub,
		mail:       mail,
		logger:     log,
		now:        time.Now,
	}
}

func linkTypeFor(t lifecycle.Type) entity.LinkType {
	if t == lifecycle.TypeRefund {
		return entity.LinkRefunds
	}
	return entity.LinkReturns
}

func (s *submissionService) Submit(ctx context.Context, slug string, req *dto.SubmissionRequest) (*dto.SubmissionResponse, *dto.EligibilityRejection, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	store, err := uow.StoreRepository().FindBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	if store == nil {
		return nil, nil, fmt.Errorf("store not found")
	}

	reqType := lifecycle.Type(req.Type)

	policy, err := s.policies.Get(ctx, store.ID, linkTypeFor(reqType))
	if err != nil {
		return nil, nil, err
	}
	if policy == nil {
		return nil, nil, fmt.Errorf("no policy configured for this link")
	}

	if err := s.validateFormValues(policy, req.FormValues); err != nil {
		return nil, nil, err
	}

	orderDate, err := time.Parse("2006-01-02", req.OrderDate)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid order date: %w", err)
	}
	ageDays := int(s.now().Sub(orderDate).Hours() / 24)

	elig := s.policies.AsEligibilityPolicy(policy)
	verdict := eligibility.Evaluate(eligibility.Input{
		Type:           reqType,
		OrderAgeDays:   ageDays,
		Amount:         req.Amount,
		HasAttachments: len(req.Attachments) > 0,
	}, elig)

	if !verdict.IsEligible {
		return nil, &dto.EligibilityRejection{Eligible: false, Reasons: verdict.Reasons}, nil
	}

	status := lifecycle.StatusNew
	riskScore := 0
	if reqType == lifecycle.TypeRefund {
		assessment := risk.Evaluate(req.Amount, len(req.Attachments) > 0, len(req.Items) > 0, elig.AutoApproveLimit)
		riskScore = assessment.Score
		if verdict.AutoApprove && assessment.AutoApproved {
			status = lifecycle.StatusApproved
		}
	} else if verdict.AutoApprove {
		status = lifecycle.StatusApproved
	}

	code, err := protocol.GenerateUnique(ctx, store.ID, reqType, uow.RequestRepository())
	if err != nil {
		return nil, nil, err
	}

	request := &entity.Request{
		ID:            uuid.New(),
		StoreID:       store.ID,
		Protocol:      code,
		Type:          reqType,
		Status:        status,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		OrderCode:     req.OrderCode,
		Reason:        req.Reason,
		Notes:         req.Notes,
		Amount:        req.Amount,
		Currency:      "BRL",
		RiskScore:     riskScore,
		Origin:        entity.OriginPublic,
	}
	if reqType == lifecycle.TypeRefund && req.Method != "" {
		method := lifecycle.RefundMethod(req.Method)
		if !lifecycle.ValidMethod(method) {
			return nil, nil, fmt.Errorf("unknown refund method: %s", req.Method)
		}
		request.Method = method
	}
	for _, item := range req.Items {
		request.Items = append(request.Items, entity.RequestItem{
			ID:       uuid.New(),
			Name:     item.Name,
			SKU:      item.Sku,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	reason := ""
	if status == lifecycle.StatusApproved {
		reason = "aprovação automática"
	}

	if err := uow.Begin(ctx); err != nil {
		return nil, nil, err
	}
	defer uow.Rollback()

	if err := uow.RequestRepository().Create(ctx, request); err != nil {
		return nil, nil, err
	}
	if err := uow.TimelineRepository().Append(ctx, &entity.TimelineEvent{
		ID:        uuid.New(),
		RequestID: request.ID,
		ToStatus:  status,
		Reason:    reason,
	}); err != nil {
		return nil, nil, err
	}
	if err := uow.Commit(); err != nil {
		return nil, nil, err
	}

	s.logger.Info("Submission", "Public request created", map[string]interface{}{
		"store_id": store.ID.String(),
		"protocol": code,
		"type":     string(reqType),
		"status":   string(status),
	})

	if s.natsPub != nil {
		_ = s.natsPub.Publish(ctx, events.New(events.TypeRequestCreated, map[string]interface{}{
			"request_id": request.ID.String(),
			"store_id":   store.ID.String(),
			"protocol":   code,
			"type":       string(reqType),
			"status":     string(status),
			"risk_score": riskScore,
		}))
	}

	if s.mail != nil {
		if err := s.mail.SendProtocol(req.CustomerEmail, code); err != nil {
			s.logger.Warn("Submission", "Protocol email failed", map[string]interface{}{
				"protocol": code, "error": err.Error(),
			})
		}
	}

	label, _ := lifecycle.Label(status)
	return &dto.SubmissionResponse{
		Protocol:    code,
		Status:      string(status),
		StatusLabel: label,
		Message:     fmt.Sprintf("Solicitação recebida. Guarde o protocolo %s para acompanhar o andamento.", code),
		Warnings:    verdict.Warnings,
	}, nil, nil
}

func (s *submissionService) Track(ctx context.Context, slug, protocolCode string) (*dto.TrackingResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	store, err := uow.StoreRepository().FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if store == nil {
		return nil, fmt.Errorf("store not found")
	}

	request, err := uow.RequestRepository().FindOne(ctx,
		specification.ByStore{StoreID: store.ID},
		specification.ByProtocol{Protocol: protocolCode},
	)
	if err != nil {
		return nil, err
	}
	if request == nil {
		return nil, fmt.Errorf("protocol not found")
	}

	timeline, err := uow.TimelineRepository().FindAllByRequest(ctx, request.ID)
	if err != nil {
		return nil, err
	}

	label, _ := lifecycle.Label(request.Status)
	out := &dto.TrackingResponse{
		Protocol:    request.Protocol,
		Type:        string(request.Type),
		Status:      string(request.Status),
		StatusLabel: label,
		CreatedAt:   request.CreatedAt,
	}
	for _, ev := range timeline {
		out.Timeline = append(out.Timeline, toTimelineResponse(ev))
	}
	return out, nil
}

// validateFormValues enforces the store's custom form schema. A malformed
// schema blocks the submission instead of silently skipping validation.
func (s *submissionService) validateFormValues(policy *entity.PolicyConfig, values map[string]string) error {
	fields, err := policy.ParseFormFields()
	if err != nil {
		return err
	}
	for _, f := range fields {
		if f.Required && values[f.Key] == "" {
			return fmt.Errorf("campo obrigatório não preenchido: %s", f.Label)
		}
	}
	return nil
}
