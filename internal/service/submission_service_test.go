package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"reversa-be/internal/dto"
	"reversa-be/internal/entity"
	"reversa-be/pkg/lifecycle"
)

func testPolicy(autoApprove bool, limit *float64) *entity.PolicyConfig {
	return &entity.PolicyConfig{
		ID:               uuid.New(),
		WindowDays:       30,
		AutoApprove:      autoApprove,
		AutoApproveLimit: limit,
		FormFields:       datatypes.JSON(`[{"key":"motivo_detalhe","label":"Detalhe do motivo","kind":"text","required":true}]`),
	}
}

func newSubmissionHarness(policy *entity.PolicyConfig) (*memUow, *fakeMailer, ISubmissionService) {
	uow := newMemUow()
	uow.stores.stores["loja-demo"] = &entity.Store{ID: uuid.New(), Slug: "loja-demo", Name: "Loja Demo"}

	mail := &fakeMailer{}
	svc := NewSubmissionService(&memFactory{uow: uow}, &stubPolicies{policy: policy}, nil, mail, nopLogger{})
	svc.(*submissionService).now = func() time.Time {
		return time.Date(2026, 8, 20, 12, 0, 0, 0, time.UTC)
	}
	return uow, mail, svc
}

func submission(reqType string) *dto.SubmissionRequest {
	return &dto.SubmissionRequest{
		Type:          reqType,
		CustomerName:  "João Pereira",
		CustomerEmail: "joao@example.com.br",
		OrderCode:     "PED-2002",
		OrderDate:     "2026-08-01",
		Reason:        "defeito",
		Amount:        100,
		Items:         []dto.SubmissionItem{{Name: "Tênis", Quantity: 1, Price: 100}},
		FormValues:    map[string]string{"motivo_detalhe": "solado descolando"},
	}
}

func storedRequest(t *testing.T, uow *memUow) *entity.Request {
	t.Helper()
	require.Len(t, uow.requests.requests, 1)
	for _, req := range uow.requests.requests {
		return req
	}
	return nil
}

// An eligible return lands in manual review: created as new, with the
// creation event as the timeline root and the protocol mailed out.
func TestSubmitReturnCreatesNewRequest(t *testing.T) {
	uow, mail, svc := newSubmissionHarness(testPolicy(false, nil))

	res, rejection, err := svc.Submit(context.Background(), "loja-demo", submission("return"))
	require.NoError(t, err)
	require.Nil(t, rejection)
	require.NotNil(t, res)

	assert.True(t, strings.HasPrefix(res.Protocol, "RET-"), "protocol %s", res.Protocol)
	assert.Equal(t, string(lifecycle.StatusNew), res.Status)
	assert.Contains(t, res.Message, res.Protocol)

	request := storedRequest(t, uow)
	assert.Equal(t, lifecycle.StatusNew, request.Status)
	assert.Equal(t, entity.OriginPublic, request.Origin)
	assert.Len(t, request.Items, 1)

	ev := lastEvent(t, uow, request.ID)
	assert.Equal(t, request.Status, ev.ToStatus)
	assert.Nil(t, ev.FromStatus)
	assert.Empty(t, ev.Reason)

	require.Len(t, mail.protocols, 1)
	assert.Equal(t, res.Protocol, mail.protocols[0])
	assert.Equal(t, 1, uow.commits)
}

// A low-value refund under the policy ceiling auto-approves at creation;
// the creation event records why.
func TestSubmitRefundAutoApproves(t *testing.T) {
	limit := 300.0
	uow, _, svc := newSubmissionHarness(testPolicy(true, &limit))

	req := submission("refund")
	req.Method = string(lifecycle.MethodPix)

	res, rejection, err := svc.Submit(context.Background(), "loja-demo", req)
	require.NoError(t, err)
	require.Nil(t, rejection)

	assert.True(t, strings.HasPrefix(res.Protocol, "RB-"), "protocol %s", res.Protocol)
	assert.Equal(t, string(lifecycle.StatusApproved), res.Status)

	request := storedRequest(t, uow)
	assert.Equal(t, lifecycle.StatusApproved, request.Status)
	assert.Equal(t, lifecycle.MethodPix, request.Method)
	assert.Greater(t, request.RiskScore, 0)

	ev := lastEvent(t, uow, request.ID)
	assert.Equal(t, lifecycle.StatusApproved, ev.ToStatus)
	assert.Equal(t, "aprovação automática", ev.Reason)
}

// Over the ceiling the refund stays eligible but lands in manual review.
func TestSubmitRefundOverCeilingNeedsReview(t *testing.T) {
	limit := 300.0
	uow, _, svc := newSubmissionHarness(testPolicy(true, &limit))

	req := submission("refund")
	req.Amount = 400
	req.Items[0].Price = 400

	res, rejection, err := svc.Submit(context.Background(), "loja-demo", req)
	require.NoError(t, err)
	require.Nil(t, rejection)

	assert.Equal(t, string(lifecycle.StatusNew), res.Status)
	request := storedRequest(t, uow)
	assert.Equal(t, lifecycle.StatusNew, lastEvent(t, uow, request.ID).ToStatus)
}

// Outside the return window nothing is persisted: no request, no timeline
// row, no committed transaction.
func TestSubmitOutsideWindowIsRejected(t *testing.T) {
	uow, mail, svc := newSubmissionHarness(testPolicy(false, nil))

	req := submission("return")
	req.OrderDate = "2026-07-01"

	res, rejection, err := svc.Submit(context.Background(), "loja-demo", req)
	require.NoError(t, err)
	assert.Nil(t, res)
	require.NotNil(t, rejection)
	assert.False(t, rejection.Eligible)
	require.NotEmpty(t, rejection.Reasons)
	assert.Contains(t, rejection.Reasons[0], "expirado")

	assert.Empty(t, uow.requests.requests)
	assert.Empty(t, uow.timeline.events)
	assert.Empty(t, mail.protocols)
	assert.Equal(t, 0, uow.commits)
}

func TestSubmitMissingRequiredFieldFails(t *testing.T) {
	uow, _, svc := newSubmissionHarness(testPolicy(false, nil))

	req := submission("return")
	req.FormValues = map[string]string{}

	_, _, err := svc.Submit(context.Background(), "loja-demo", req)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Detalhe do motivo")
	assert.Empty(t, uow.requests.requests)
}

func TestSubmitMalformedFormSchemaBlocks(t *testing.T) {
	policy := testPolicy(false, nil)
	policy.FormFields = datatypes.JSON(`{"not":"a list"}`)
	uow, _, svc := newSubmissionHarness(policy)

	_, _, err := svc.Submit(context.Background(), "loja-demo", submission("return"))
	require.Error(t, err)
	assert.Empty(t, uow.requests.requests)
}

func TestSubmitUnknownStoreFails(t *testing.T) {
	_, _, svc := newSubmissionHarness(testPolicy(false, nil))

	_, _, err := svc.Submit(context.Background(), "loja-inexistente", submission("return"))
	require.Error(t, err)
}

// Tracking exposes the protocol, status and timeline only; amounts and
// customer data stay private.
func TestTrackReturnsTimeline(t *testing.T) {
	_, _, svc := newSubmissionHarness(testPolicy(false, nil))

	res, _, err := svc.Submit(context.Background(), "loja-demo", submission("return"))
	require.NoError(t, err)

	track, err := svc.Track(context.Background(), "loja-demo", res.Protocol)
	require.NoError(t, err)
	assert.Equal(t, res.Protocol, track.Protocol)
	assert.Equal(t, string(lifecycle.StatusNew), track.Status)
	require.Len(t, track.Timeline, 1)
	assert.Equal(t, string(lifecycle.StatusNew), track.Timeline[0].ToStatus)
}

func TestTrackUnknownProtocolFails(t *testing.T) {
	_, _, svc := newSubmissionHarness(testPolicy(false, nil))

	_, err := svc.Track(context.Background(), "loja-demo", "RET-NAOEXISTE")
	require.Error(t, err)
}
