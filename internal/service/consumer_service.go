package service

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"plantpal-be/internal/pkg/logger"
	"plantpal-be/pkg/events"
)

// SessionEventDelivery pushes an encoded event to whoever watches a session.
// Typically implemented by the WebSocket Hub.
type SessionEventDelivery interface {
	Deliver(sessionId uuid.UUID, payload []byte)
}

type IConsumerService interface {
	// Consume blocks until ctx is done or the subscription closes.
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	delivery   SessionEventDelivery
	logger     logger.ILogger
}

func NewConsumerService(subscriber message.Subscriber, topicName string, delivery SessionEventDelivery, log logger.ILogger) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		delivery:   delivery,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	cs.logger.Info(logger.ModuleEvents, "Session event consumer started", map[string]interface{}{"topic": cs.topicName})
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			cs.processMessage(msg)
		}
	}
}

func (cs *consumerService) processMessage(msg *message.Message) {
	event, err := events.Decode(msg.Payload)
	if err != nil {
		cs.logger.Error(logger.ModuleEvents, "Failed to decode session event", map[string]interface{}{"error": err.Error()})
		msg.Ack() // Ack invalid messages to prevent infinite redelivery
		return
	}

	cs.delivery.Deliver(event.SessionId, msg.Payload)
	cs.logger.Debug(logger.ModuleEvents, "Session event delivered", map[string]interface{}{
		"type":       event.Type,
		"session_id": event.SessionId.String(),
	})
	msg.Ack()
}
