package service

import (
	"context"
	"encoding/json"

	"cloudnote-be/internal/dto"
	"cloudnote-be/internal/entity"
	"cloudnote-be/internal/pkg/logger"
	"cloudnote-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the notebook events topic into the audit_logs table.
type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	logger     logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	sysLogger logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		logger:     sysLogger,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
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
	var event dto.NotebookEventMessage
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		cs.logger.Error("AUDIT", "Failed to unmarshal notebook event", map[string]interface{}{"error": err.Error()})
		// Ack malformed messages to prevent infinite redelivery.
		msg.Ack()
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	record := &entity.AuditLog{
		NotebookSlug: event.Slug,
		Action:       event.Action,
		Actor:        event.Actor,
		Details:      event.Details,
		CreatedAt:    event.OccurredAt,
	}
	if err := uow.AuditLogRepository().Create(ctx, record); err != nil {
		cs.logger.Error("AUDIT", "Failed to persist audit log", map[string]interface{}{
			"slug":   event.Slug,
			"action": event.Action,
			"error":  err.Error(),
		})
		msg.Nack()
		return
	}

	msg.Ack()
}
