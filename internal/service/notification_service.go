package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"reversa-be/internal/pkg/logger"
	"reversa-be/pkg/events"
	pktNats "reversa-be/pkg/nats"
)

// NotificationDelivery pushes real-time updates to connected operators.
// Implemented by the websocket Hub.
type NotificationDelivery interface {
	Send(storeID uuid.UUID, payload interface{})
}

// Notification is the ephemeral frame pushed over the websocket. Nothing
// is persisted; an operator who reconnects reloads state from the REST
// endpoints instead of replaying a feed.
type Notification struct {
	TypeCode  string                 `json:"type_code"`
	Title     string                 `json:"title"`
	Message   string                 `json:"message"`
	Metadata  map[string]interface{} `json:"metadata"`
	CreatedAt time.Time              `json:"created_at"`
}

// titles maps event codes to the pt-BR headline operators see.
var titles = map[string]string{
	events.TypeRequestCreated:  "Nova solicitação",
	events.TypeRequestApproved: "Solicitação aprovada",
	events.TypeRequestRejected: "Solicitação recusada",
	events.TypeRequestAdvanced: "Solicitação atualizada",
	events.TypeSyncStarted:     "Sincronização iniciada",
}

type NotificationService struct {
	subscriber *pktNats.Subscriber
	delivery   NotificationDelivery
	logger     logger.ILogger
}

func NewNotificationService(sub *pktNats.Subscriber, delivery NotificationDelivery, log logger.ILogger) *NotificationService {
	return &NotificationService{
		subscriber: sub,
		delivery:   delivery,
		logger:     log,
	}
}

// Start begins listening to the event bus.
func (s *NotificationService) Start() {
	err := s.subscriber.Subscribe("events.>", "notif-service-worker", s.handleEvent)
	if err != nil {
		s.logger.Error("NotificationService", "Failed to start notification subscriber", map[string]interface{}{"error": err})
		return
	}
	s.logger.Info("NotificationService", "Notification service started, listening to events.>", nil)
}

func (s *NotificationService) handleEvent(ctx context.Context, event events.Event) error {
	// NATS subjects carry the stream prefix.
	typeCode := strings.TrimPrefix(event.EventType(), "events.")

	payload := event.Payload()
	storeStr, ok := payload["store_id"].(string)
	if !ok {
		s.logger.Warn("NotificationService", fmt.Sprintf("Event %s has no store_id, dropping", typeCode), nil)
		return nil
	}
	storeID, err := uuid.Parse(storeStr)
	if err != nil {
		s.logger.Warn("NotificationService", "Malformed store_id in event", map[string]interface{}{"store_id": storeStr})
		return nil
	}

	title, ok := titles[typeCode]
	if !ok {
		// Unknown event kind; nothing to show the operator.
		return nil
	}

	if s.delivery != nil {
		s.delivery.Send(storeID, Notification{
			TypeCode:  typeCode,
			Title:     title,
			Message:   buildMessage(typeCode, payload),
			Metadata:  payload,
			CreatedAt: time.Now(),
		})
	}
	return nil
}

func buildMessage(typeCode string, payload map[string]interface{}) string {
	protocol, _ := payload["protocol"].(string)

	switch typeCode {
	case events.TypeRequestCreated:
		return fmt.Sprintf("Protocolo %s recebido pelo portal.", protocol)
	case events.TypeRequestApproved:
		return fmt.Sprintf("Protocolo %s aprovado.", protocol)
	case events.TypeRequestRejected:
		return fmt.Sprintf("Protocolo %s recusado.", protocol)
	case events.TypeRequestAdvanced:
		to, _ := payload["to_status"].(string)
		return fmt.Sprintf("Protocolo %s mudou para %s.", protocol, to)
	case events.TypeSyncStarted:
		return "A sincronização de dados foi iniciada."
	default:
		return ""
	}
}
