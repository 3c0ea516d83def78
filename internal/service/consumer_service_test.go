package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cloudnote-be/internal/dto"
	"cloudnote-be/internal/entity"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumerPersistsEvents(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	factory := newFakeFactory()

	consumer := NewConsumerService(pubSub, "AUDIT_TEST", factory, nopLogger{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService("AUDIT_TEST", pubSub)
	payload, err := json.Marshal(dto.NotebookEventMessage{
		Slug:       "nb",
		Action:     "content_saved",
		Actor:      entity.ActorOwner,
		Details:    map[string]interface{}{"content_bytes": 12},
		OccurredAt: time.Now(),
	})
	require.NoError(t, err)
	require.NoError(t, publisher.Publish(ctx, payload))

	assert.Eventually(t, func() bool {
		logs, err := factory.uow.audits.FindRecent(ctx, 10)
		return err == nil && len(logs) == 1
	}, 2*time.Second, 10*time.Millisecond)

	logs, err := factory.uow.audits.FindRecent(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "nb", logs[0].NotebookSlug)
	assert.Equal(t, "content_saved", logs[0].Action)
	assert.Equal(t, entity.ActorOwner, logs[0].Actor)
}

func TestConsumerSkipsMalformedPayloads(t *testing.T) {
	pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NopLogger{})
	factory := newFakeFactory()

	consumer := NewConsumerService(pubSub, "AUDIT_TEST", factory, nopLogger{})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, consumer.Consume(ctx))

	publisher := NewPublisherService("AUDIT_TEST", pubSub)
	require.NoError(t, publisher.Publish(ctx, []byte("{not json")))

	good, _ := json.Marshal(dto.NotebookEventMessage{Slug: "nb", Action: "notebook_created", Actor: entity.ActorOwner})
	require.NoError(t, publisher.Publish(ctx, good))

	// Only the well-formed event lands.
	assert.Eventually(t, func() bool {
		logs, err := factory.uow.audits.FindRecent(ctx, 10)
		return err == nil && len(logs) == 1
	}, 2*time.Second, 10*time.Millisecond)
}
