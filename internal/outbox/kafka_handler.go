package outbox

import (
	"context"
	"fmt"

	"github.com/gayanfadna-spec/OMS-backend/internal/models"
	"github.com/gayanfadna-spec/OMS-backend/pkg/kafka"
	"github.com/gayanfadna-spec/OMS-backend/pkg/logger"
	"github.com/gayanfadna-spec/OMS-backend/pkg/retry"
)

// KafkaHandler publishes outbox messages to Kafka
type KafkaHandler struct {
	logger   logger.Logger
	producer *kafka.Producer
	topic    string
	retryCfg *retry.Config
}

// NewKafkaHandler creates a new KafkaHandler
func NewKafkaHandler(producer *kafka.Producer, topic string, logger logger.Logger) *KafkaHandler {
	return &KafkaHandler{
		producer: producer,
		topic:    topic,
		logger:   logger,
		retryCfg: &retry.Config{
			MaxAttempts:     3,
			BackoffStrategy: retry.NewDefaultExponentialBackoff(),
			Logger:          logger,
		},
	}
}

// HandleMessage handles an outbox message by publishing it to Kafka,
// retrying transient broker failures before handing the message back to
// the processor.
func (h *KafkaHandler) HandleMessage(ctx context.Context, message *models.OutboxMessage) error {
	// The aggregate ID (order ID) keys the message so one order's events
	// stay on one partition.
	key := message.AggregateID

	h.logger.Debug("Publishing message to Kafka",
		"topic", h.topic,
		"messageID", message.ID,
		"aggregateID", message.AggregateID,
		"eventType", message.EventType)

	err := retry.Do(ctx, func() error {
		return h.producer.SendMessage(ctx, h.topic, key, message.Payload)
	}, h.retryCfg)

	if err != nil {
		h.logger.Error("Failed to publish message to Kafka",
			"error", err,
			"messageID", message.ID,
			"aggregateID", message.AggregateID)
		return fmt.Errorf("failed to publish message to Kafka: %w", err)
	}

	h.logger.Info("Successfully published message to Kafka",
		"messageID", message.ID,
		"aggregateID", message.AggregateID)

	return nil
}
