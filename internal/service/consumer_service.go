package service

import (
	"context"
	"encoding/json"
	"log"

	"lecturelens-be/internal/dto"
	"lecturelens-be/internal/repository/unitofwork"
	"lecturelens-be/internal/websocket"
	"lecturelens-be/pkg/citation"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the segment topic and pushes each ingested segment
// to the session's live viewers. Citation numbers are recomputed over the
// full ordered transcript per message so live clients see the same numbering
// a fresh page load would.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	wsHub      *websocket.Hub
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	wsHub *websocket.Hub,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		wsHub:      wsHub,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishSegmentMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		log.Printf("[ERROR] Failed to unmarshal segment message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)

	segments, err := loadOrderedTranscript(ctx, uow, payload.SessionId)
	if err != nil {
		log.Printf("[ERROR] Failed to load transcript for session %s: %v", payload.SessionId, err)
		msg.Nack()
		return
	}

	numbers := citation.NumberCitations(segments)

	for _, seg := range segments {
		if seg.Id != payload.SegmentId {
			continue
		}
		cs.wsHub.BroadcastToSession(payload.SessionId, "segment", segmentToResponse(seg, numbers))
		msg.Ack()
		return
	}

	// Segment vanished between ingest and delivery (session deleted); drop it
	log.Printf("[WARN] Segment %s not found for session %s", payload.SegmentId, payload.SessionId)
	msg.Ack()
}
