package service

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"reversa-be/pkg/events"
)

// IChangeFeedService publishes row-level change notifications onto the
// in-process bus the reconciler listens to. Emitted after commits only:
// observers must never see uncommitted state.
type IChangeFeedService interface {
	PublishChange(change events.RecordChange)
}

type changeFeedService struct {
	pub message.Publisher
}

func NewChangeFeedService(pub message.Publisher) IChangeFeedService {
	return &changeFeedService{pub: pub}
}

func (s *changeFeedService) PublishChange(change events.RecordChange) {
	payload, err := change.Marshal()
	if err != nil {
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	// Best effort: a lost notification costs one manual refresh.
	_ = s.pub.Publish(events.TopicRecordChanges, msg)
}
