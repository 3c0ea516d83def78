package events

import (
	"context"
	"time"

	"cloudnote-be/internal/pkg/logger"
	pkgEvents "cloudnote-be/pkg/events"
	pktNats "cloudnote-be/pkg/nats"
)

// Publisher abstracts event publishing for admin operations
type Publisher interface {
	PublishNotebookDeleted(ctx context.Context, slug string)
	PublishPublicChanged(ctx context.Context, slug string, isPublic bool)
	PublishArchiveCodeChanged(ctx context.Context, slug, archiveCode string)
}

// NatsPublisher implements Publisher using NATS
type NatsPublisher struct {
	publisher *pktNats.Publisher
	logger    logger.ILogger
}

// NewNatsPublisher creates a new NATS-based event publisher. A nil publisher
// is allowed; events are then dropped silently (NATS is optional).
func NewNatsPublisher(publisher *pktNats.Publisher, sysLogger logger.ILogger) *NatsPublisher {
	return &NatsPublisher{
		publisher: publisher,
		logger:    sysLogger,
	}
}

func (p *NatsPublisher) publish(ctx context.Context, eventType string, data map[string]interface{}) {
	if p.publisher == nil {
		return
	}

	evt := pkgEvents.BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}

	if err := p.publisher.Publish(ctx, evt); err != nil {
		p.logger.Error("ADMIN", "Failed to publish "+eventType+" event", map[string]interface{}{"error": err.Error()})
	}
}

// PublishNotebookDeleted emits NOTEBOOK_DELETED after an admin removal
func (p *NatsPublisher) PublishNotebookDeleted(ctx context.Context, slug string) {
	p.publish(ctx, "NOTEBOOK_DELETED", map[string]interface{}{
		"slug": slug,
	})
}

// PublishPublicChanged emits NOTEBOOK_PUBLIC_CHANGED
func (p *NatsPublisher) PublishPublicChanged(ctx context.Context, slug string, isPublic bool) {
	p.publish(ctx, "NOTEBOOK_PUBLIC_CHANGED", map[string]interface{}{
		"slug":     slug,
		"ispublic": isPublic,
	})
}

// PublishArchiveCodeChanged emits NOTEBOOK_ARCHIVE_CODE_CHANGED
func (p *NatsPublisher) PublishArchiveCodeChanged(ctx context.Context, slug, archiveCode string) {
	p.publish(ctx, "NOTEBOOK_ARCHIVE_CODE_CHANGED", map[string]interface{}{
		"slug":         slug,
		"archive_code": archiveCode,
	})
}
