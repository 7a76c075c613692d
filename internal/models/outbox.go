package models

import (
	"encoding/json"
	"time"
)

// OutboxStatus represents the status of an outbox message
type OutboxStatus string

const (
	OutboxStatusPending    OutboxStatus = "pending"
	OutboxStatusProcessing OutboxStatus = "processing"
	OutboxStatusCompleted  OutboxStatus = "completed"
	OutboxStatusFailed     OutboxStatus = "failed"
)

// Event types published for the order aggregate.
const (
	EventOrderCreated    = "order_created"
	EventOrderUpdated    = "order_updated"
	EventOrderDeleted    = "order_deleted"
	EventOrderDispatched = "order_dispatched"
	EventOrdersImported  = "orders_imported"
)

// OutboxMessage represents a message to be published from the outbox table
type OutboxMessage struct {
	ID                 int64        `db:"id" json:"id"`
	AggregateType      string       `db:"aggregate_type" json:"aggregate_type"`
	AggregateID        string       `db:"aggregate_id" json:"aggregate_id"`
	EventType          string       `db:"event_type" json:"event_type"`
	Payload            []byte       `db:"payload" json:"payload"`
	CreatedAt          time.Time    `db:"created_at" json:"created_at"`
	ProcessedAt        *time.Time   `db:"processed_at" json:"processed_at,omitempty"`
	ProcessingAttempts int          `db:"processing_attempts" json:"processing_attempts"`
	LastError          *string      `db:"last_error" json:"last_error,omitempty"`
	Status             OutboxStatus `db:"status" json:"status"`
}

// OutboxMessageEvent represents the event data in the outbox message
type OutboxMessageEvent struct {
	EventType   string      `json:"event_type"`
	EventID     string      `json:"event_id"`
	AggregateID string      `json:"aggregate_id"`
	OccurredAt  time.Time   `json:"occurred_at"`
	Data        interface{} `json:"data"`
}

// NewOrderEvent wraps an order mutation as an outbox message of the given event type.
func NewOrderEvent(eventType string, order *Order) (*OutboxMessage, error) {
	return newOutboxMessage(eventType, order.ID, order)
}

// NewOrderDeletedEvent records an order deletion together with the actor who confirmed it.
func NewOrderDeletedEvent(orderID, deletedBy string) (*OutboxMessage, error) {
	return newOutboxMessage(EventOrderDeleted, orderID, map[string]interface{}{
		"order_id":   orderID,
		"deleted_by": deletedBy,
	})
}

// NewOrderDispatchedEvent records a dispatch batch against its report log.
func NewOrderDispatchedEvent(log *ReportLog) (*OutboxMessage, error) {
	return newOutboxMessage(EventOrderDispatched, log.ID, map[string]interface{}{
		"report_id":   log.ID,
		"order_count": log.OrderCount,
		"start_date":  log.StartDate,
		"end_date":    log.EndDate,
	})
}

// NewOrdersImportedEvent summarizes a completed bulk import batch.
func NewOrdersImportedEvent(batchID string, successCount, errorCount int) (*OutboxMessage, error) {
	return newOutboxMessage(EventOrdersImported, batchID, map[string]interface{}{
		"batch_id":      batchID,
		"success_count": successCount,
		"error_count":   errorCount,
	})
}

func newOutboxMessage(eventType, aggregateID string, data interface{}) (*OutboxMessage, error) {
	event := OutboxMessageEvent{
		EventType:   eventType,
		EventID:     GenerateID("evt"),
		AggregateID: aggregateID,
		OccurredAt:  GetCurrentTime(),
		Data:        data,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	return &OutboxMessage{
		AggregateType:      "order",
		AggregateID:        aggregateID,
		EventType:          eventType,
		Payload:            payload,
		CreatedAt:          GetCurrentTime(),
		ProcessingAttempts: 0,
		Status:             OutboxStatusPending,
	}, nil
}
