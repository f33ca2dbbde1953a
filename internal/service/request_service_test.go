package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reversa-be/internal/dto"
	"reversa-be/internal/entity"
	"reversa-be/pkg/lifecycle"
)

func newRequestHarness() (*memUow, IRequestService) {
	uow := newMemUow()
	svc := NewRequestService(&memFactory{uow: uow}, nil, &fakeMailer{}, nopLogger{})
	return uow, svc
}

func seedRequest(uow *memUow, reqType lifecycle.Type, status lifecycle.Status) *entity.Request {
	request := &entity.Request{
		ID:            uuid.New(),
		StoreID:       uuid.New(),
		Protocol:      "RET-TESTE001",
		Type:          reqType,
		Status:        status,
		CustomerName:  "Maria Silva",
		CustomerEmail: "maria@example.com.br",
		OrderCode:     "PED-1001",
		Amount:        150,
	}
	uow.requests.requests[request.ID] = request
	uow.timeline.events = append(uow.timeline.events, &entity.TimelineEvent{
		ID:        uuid.New(),
		RequestID: request.ID,
		ToStatus:  status,
	})
	return request
}

func currentStatus(t *testing.T, uow *memUow, id uuid.UUID) lifecycle.Status {
	t.Helper()
	stored, ok := uow.requests.requests[id]
	require.True(t, ok)
	return stored.Status
}

func lastEvent(t *testing.T, uow *memUow, id uuid.UUID) *entity.TimelineEvent {
	t.Helper()
	ev, err := uow.timeline.FindLatest(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, ev)
	return ev
}

// A return walks the whole forward flow; after every step the stored
// status must equal the to_status of the most recent timeline event.
func TestReturnFlowStatusTracksTimeline(t *testing.T) {
	uow, svc := newRequestHarness()
	request := seedRequest(uow, lifecycle.TypeReturn, lifecycle.StatusNew)
	ctx := context.Background()
	actorID := uuid.New()

	steps := []lifecycle.Status{
		lifecycle.StatusReview,
		lifecycle.StatusApproved,
		lifecycle.StatusAwaitingPost,
		lifecycle.StatusReceivedDC,
		lifecycle.StatusClosed,
	}

	for i, to := range steps {
		from := currentStatus(t, uow, request.ID)

		res, err := svc.Advance(ctx, request.StoreID, request.ID, &actorID, &dto.AdvanceRequest{ToStatus: string(to)})
		require.NoError(t, err, "step to %s", to)
		assert.Equal(t, string(from), res.FromStatus)
		assert.Equal(t, string(to), res.ToStatus)

		assert.Equal(t, to, currentStatus(t, uow, request.ID))

		ev := lastEvent(t, uow, request.ID)
		assert.Equal(t, to, ev.ToStatus)
		require.NotNil(t, ev.FromStatus)
		assert.Equal(t, from, *ev.FromStatus)
		assert.Equal(t, actorID, *ev.ActorID)

		events, _ := uow.timeline.FindAllByRequest(ctx, request.ID)
		assert.Len(t, events, i+2, "one creation event plus one per transition")
	}
}

func TestInvalidTransitionLeavesNoTrace(t *testing.T) {
	uow, svc := newRequestHarness()
	request := seedRequest(uow, lifecycle.TypeReturn, lifecycle.StatusReview)
	ctx := context.Background()

	_, err := svc.Advance(ctx, request.StoreID, request.ID, nil, &dto.AdvanceRequest{ToStatus: string(lifecycle.StatusClosed)})
	require.Error(t, err)

	assert.Equal(t, lifecycle.StatusReview, currentStatus(t, uow, request.ID))
	events, _ := uow.timeline.FindAllByRequest(ctx, request.ID)
	assert.Len(t, events, 1)
}

// Terminal requests reject every further action and keep their timeline.
func TestRejectedRequestIsFrozen(t *testing.T) {
	uow, svc := newRequestHarness()
	request := seedRequest(uow, lifecycle.TypeRefund, lifecycle.StatusNew)
	ctx := context.Background()

	res, err := svc.Reject(ctx, request.StoreID, request.ID, nil, &dto.RejectRequest{Reason: "fora da política de trocas"})
	require.NoError(t, err)
	assert.Equal(t, string(lifecycle.StatusRejected), res.ToStatus)

	ev := lastEvent(t, uow, request.ID)
	assert.Equal(t, lifecycle.StatusRejected, ev.ToStatus)
	assert.Equal(t, "fora da política de trocas", ev.Reason)

	_, err = svc.Approve(ctx, request.StoreID, request.ID, nil, &dto.ApproveRequest{})
	require.Error(t, err)
	assert.Equal(t, lifecycle.StatusRejected, currentStatus(t, uow, request.ID))
	events, _ := uow.timeline.FindAllByRequest(ctx, request.ID)
	assert.Len(t, events, 2)
}

func TestApproveRecordsAmountAndMethod(t *testing.T) {
	uow, svc := newRequestHarness()
	request := seedRequest(uow, lifecycle.TypeRefund, lifecycle.StatusNew)
	ctx := context.Background()

	partial := 99.9
	_, err := svc.Approve(ctx, request.StoreID, request.ID, nil, &dto.ApproveRequest{
		ApprovedAmount: &partial,
		Method:         string(lifecycle.MethodPix),
	})
	require.NoError(t, err)

	stored := uow.requests.requests[request.ID]
	assert.Equal(t, lifecycle.StatusApproved, stored.Status)
	require.NotNil(t, stored.ApprovedAmount)
	assert.Equal(t, partial, *stored.ApprovedAmount)
	assert.Equal(t, lifecycle.MethodPix, stored.Method)
	assert.Equal(t, lifecycle.StatusApproved, lastEvent(t, uow, request.ID).ToStatus)
}

func TestApproveDefaultsToFullAmount(t *testing.T) {
	uow, svc := newRequestHarness()
	request := seedRequest(uow, lifecycle.TypeRefund, lifecycle.StatusNew)

	_, err := svc.Approve(context.Background(), request.StoreID, request.ID, nil, &dto.ApproveRequest{})
	require.NoError(t, err)

	stored := uow.requests.requests[request.ID]
	require.NotNil(t, stored.ApprovedAmount)
	assert.Equal(t, request.Amount, *stored.ApprovedAmount)
}

func TestApproveRejectsUnknownMethod(t *testing.T) {
	uow, svc := newRequestHarness()
	request := seedRequest(uow, lifecycle.TypeRefund, lifecycle.StatusNew)
	ctx := context.Background()

	_, err := svc.Approve(ctx, request.StoreID, request.ID, nil, &dto.ApproveRequest{Method: "cheque"})
	require.Error(t, err)

	assert.Equal(t, lifecycle.StatusNew, currentStatus(t, uow, request.ID))
	events, _ := uow.timeline.FindAllByRequest(ctx, request.ID)
	assert.Len(t, events, 1)
}

func TestRevertStepsBackOneStatus(t *testing.T) {
	uow, svc := newRequestHarness()
	request := seedRequest(uow, lifecycle.TypeReturn, lifecycle.StatusApproved)
	ctx := context.Background()

	res, err := svc.Revert(ctx, request.StoreID, request.ID, nil, &dto.RevertRequest{Reason: "aprovado por engano"})
	require.NoError(t, err)
	assert.Equal(t, string(lifecycle.StatusReview), res.ToStatus)

	ev := lastEvent(t, uow, request.ID)
	assert.Equal(t, lifecycle.StatusReview, ev.ToStatus)
	assert.Equal(t, "aprovado por engano", ev.Reason)

	_, err = svc.Revert(ctx, request.StoreID, request.ID, nil, &dto.RevertRequest{})
	assert.Error(t, err, "revert without a reason")
}

// A failed timeline append must roll the status write back with it.
func TestTransitionIsAtomic(t *testing.T) {
	uow, svc := newRequestHarness()
	request := seedRequest(uow, lifecycle.TypeReturn, lifecycle.StatusNew)
	ctx := context.Background()

	uow.timeline.failNext = true
	_, err := svc.Advance(ctx, request.StoreID, request.ID, nil, &dto.AdvanceRequest{ToStatus: string(lifecycle.StatusReview)})
	require.Error(t, err)

	assert.Equal(t, lifecycle.StatusNew, currentStatus(t, uow, request.ID))
	events, _ := uow.timeline.FindAllByRequest(ctx, request.ID)
	assert.Len(t, events, 1)
	assert.Equal(t, 0, uow.commits)
}

func TestRejectNotifiesCustomer(t *testing.T) {
	uow := newMemUow()
	mail := &fakeMailer{}
	svc := NewRequestService(&memFactory{uow: uow}, nil, mail, nopLogger{})
	request := seedRequest(uow, lifecycle.TypeReturn, lifecycle.StatusReview)

	_, err := svc.Reject(context.Background(), request.StoreID, request.ID, nil, &dto.RejectRequest{Reason: "produto usado"})
	require.NoError(t, err)

	require.Len(t, mail.statusUpdates, 1)
	assert.Contains(t, mail.statusUpdates[0], "produto usado")
}

func TestTransitionScopedToStore(t *testing.T) {
	uow, svc := newRequestHarness()
	request := seedRequest(uow, lifecycle.TypeReturn, lifecycle.StatusNew)

	_, err := svc.Advance(context.Background(), uuid.New(), request.ID, nil, &dto.AdvanceRequest{ToStatus: string(lifecycle.StatusReview)})
	require.Error(t, err)
	assert.Equal(t, lifecycle.StatusNew, currentStatus(t, uow, request.ID))
}
