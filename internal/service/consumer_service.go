package service

import (
	"context"
	"encoding/json"
	"time"

	"wms-ops-agent/internal/dto"
	"wms-ops-agent/internal/entity"
	"wms-ops-agent/internal/pkg/logger"
	"wms-ops-agent/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// IConsumerService drains the tool audit topic into agent_audit_logs and
// the isolated audit log.
type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber  message.Subscriber
	topicName   string
	uowFactory  unitofwork.RepositoryFactory
	auditLogger logger.ILogger
	logger      logger.ILogger
}

func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	auditLogger logger.ILogger,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber:  subscriber,
		topicName:   topicName,
		uowFactory:  uowFactory,
		auditLogger: auditLogger,
		logger:      log,
	}
}

// Consume subscribes and processes messages until ctx is done.
func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			cs.processMessage(ctx, msg)
		}
	}
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.AgentToolAuditMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("AUDIT", "Failed to unmarshal audit message", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		// Ack invalid messages to prevent infinite redelivery
		msg.Ack()
		return
	}

	cs.auditLogger.Info("AUDIT", "Tool executed", map[string]interface{}{
		"tenant_id":   payload.TenantId.String(),
		"user_id":     payload.UserId.String(),
		"session_id":  payload.SessionId.String(),
		"actor":       payload.Actor,
		"tool":        payload.Tool,
		"arguments":   payload.Arguments,
		"ok":          payload.Ok,
		"outcome":     payload.Outcome,
		"duration_ms": payload.DurationMs,
	})

	at := payload.At
	if at.IsZero() {
		at = time.Now().UTC()
	}
	row := &entity.AgentAuditLog{
		Id:         uuid.New(),
		TenantId:   payload.TenantId,
		UserId:     payload.UserId,
		SessionId:  payload.SessionId,
		Tool:       payload.Tool,
		Ok:         payload.Ok,
		Outcome:    payload.Outcome,
		DurationMs: payload.DurationMs,
		CreatedAt:  at,
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.AgentAuditRepository().Create(ctx, row); err != nil {
		cs.logger.Error("AUDIT", "Failed to store audit row", map[string]interface{}{
			"tool":  payload.Tool,
			"error": err.Error(),
		})
	}
	// The isolated log already holds the entry, so a failed insert is not
	// redelivered.
	msg.Ack()
}
