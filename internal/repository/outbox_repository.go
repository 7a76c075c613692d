package repository

import (
	"context"
	"fmt"

	"github.com/gayanfadna-spec/OMS-backend/internal/database"
	"github.com/gayanfadna-spec/OMS-backend/internal/models"
	"github.com/gayanfadna-spec/OMS-backend/pkg/logger"
)

// OutboxRepository handles database operations for outbox messages
type OutboxRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewOutboxRepository creates a new OutboxRepository
func NewOutboxRepository(db *database.Database, logger logger.Logger) *OutboxRepository {
	return &OutboxRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts an outbox message outside of any order transaction.
func (r *OutboxRepository) Create(ctx context.Context, msg *models.OutboxMessage) error {
	query := `
		INSERT INTO outbox_messages (aggregate_type, aggregate_id, event_type, payload, created_at, processing_attempts, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.DB.ExecContext(
		ctx,
		query,
		msg.AggregateType,
		msg.AggregateID,
		msg.EventType,
		msg.Payload,
		msg.CreatedAt,
		msg.ProcessingAttempts,
		msg.Status,
	)
	if err != nil {
		r.logger.Error("Failed to create outbox message", "error", err, "aggregateID", msg.AggregateID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}

// GetPendingMessages retrieves up to limit pending messages, oldest first.
func (r *OutboxRepository) GetPendingMessages(ctx context.Context, limit int) ([]*models.OutboxMessage, error) {
	query := `
		SELECT id, aggregate_type, aggregate_id, event_type, payload, created_at,
			processed_at, processing_attempts, last_error, status
		FROM outbox_messages
		WHERE status = $1
		ORDER BY created_at ASC
		LIMIT $2
	`

	var messages []*models.OutboxMessage
	err := r.db.DB.SelectContext(ctx, &messages, query, models.OutboxStatusPending, limit)
	if err != nil {
		r.logger.Error("Failed to get pending outbox messages", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return messages, nil
}

// MarkAsProcessing claims a message and counts the attempt.
func (r *OutboxRepository) MarkAsProcessing(ctx context.Context, id int64) error {
	query := `
		UPDATE outbox_messages
		SET status = $1, processing_attempts = processing_attempts + 1
		WHERE id = $2
	`

	_, err := r.db.DB.ExecContext(ctx, query, models.OutboxStatusProcessing, id)
	if err != nil {
		r.logger.Error("Failed to mark outbox message as processing", "error", err, "messageID", id)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}

// MarkAsCompleted marks a message successfully published.
func (r *OutboxRepository) MarkAsCompleted(ctx context.Context, id int64) error {
	query := `
		UPDATE outbox_messages
		SET status = $1, processed_at = NOW()
		WHERE id = $2
	`

	_, err := r.db.DB.ExecContext(ctx, query, models.OutboxStatusCompleted, id)
	if err != nil {
		r.logger.Error("Failed to mark outbox message as completed", "error", err, "messageID", id)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}

// MarkForRetry returns a message to the pending pool with the last error recorded.
func (r *OutboxRepository) MarkForRetry(ctx context.Context, id int64, errMsg string) error {
	query := `
		UPDATE outbox_messages
		SET status = $1, last_error = $2
		WHERE id = $3
	`

	_, err := r.db.DB.ExecContext(ctx, query, models.OutboxStatusPending, errMsg, id)
	if err != nil {
		r.logger.Error("Failed to mark outbox message for retry", "error", err, "messageID", id)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}

// MarkAsFailed gives up on a message permanently.
func (r *OutboxRepository) MarkAsFailed(ctx context.Context, id int64, errMsg string) error {
	query := `
		UPDATE outbox_messages
		SET status = $1, last_error = $2, processed_at = NOW()
		WHERE id = $3
	`

	_, err := r.db.DB.ExecContext(ctx, query, models.OutboxStatusFailed, errMsg, id)
	if err != nil {
		r.logger.Error("Failed to mark outbox message as failed", "error", err, "messageID", id)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}
