package service

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plantpal-be/internal/constant"
	"plantpal-be/internal/pkg/logger"
	"plantpal-be/pkg/events"
)

type delivered struct {
	sessionId uuid.UUID
	event     events.SessionEvent
}

type channelDelivery chan delivered

func (c channelDelivery) Deliver(sessionId uuid.UUID, payload []byte) {
	event, _ := events.Decode(payload)
	c <- delivered{sessionId: sessionId, event: event}
}

func TestConsumer_ForwardsPublishedEvents(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	defer pubSub.Close()

	delivery := make(channelDelivery, 16)
	consumer := NewConsumerService(pubSub, "test.events", delivery, logger.NewNopLogger())
	publisher := NewPublisherService("test.events", pubSub)

	ctx, cancel := context.WithCancel(context.Background())
	consumed := make(chan error, 1)
	go func() { consumed <- consumer.Consume(ctx) }()

	sessionId := uuid.New()
	event, err := events.NewSessionEvent(constant.EventSessionReset, sessionId, map[string]bool{"offline_mode": false})
	require.NoError(t, err)

	// the subscription is created asynchronously, keep publishing until it lands
	var got delivered
	require.Eventually(t, func() bool {
		if err := publisher.Publish(context.Background(), event); err != nil {
			return false
		}
		select {
		case got = <-delivery:
			return true
		case <-time.After(20 * time.Millisecond):
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)

	assert.Equal(t, sessionId, got.sessionId)
	assert.Equal(t, constant.EventSessionReset, got.event.Type)
	assert.JSONEq(t, `{"offline_mode":false}`, string(got.event.Data))

	cancel()
	select {
	case err := <-consumed:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop")
	}
}
