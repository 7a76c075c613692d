package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/gayanfadna-spec/OMS-backend/internal/database"
	"github.com/gayanfadna-spec/OMS-backend/internal/models"
	"github.com/gayanfadna-spec/OMS-backend/pkg/logger"
)

// OrderRepository handles database operations for orders
type OrderRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewOrderRepository creates a new OrderRepository
func NewOrderRepository(db *database.Database, logger logger.Logger) *OrderRepository {
	return &OrderRepository{
		db:     db,
		logger: logger,
	}
}

const orderColumns = `id, customer_id, agent_id, items, total_amount, discount_amount,
	delivery_charge, final_amount, remark, additional_remark, status, payment_status,
	edited_by, edit_request, is_downloaded, created_at, updated_at`

// Create inserts an order and its outbox message in one transaction, so an
// order write never succeeds without its event being queued.
func (r *OrderRepository) Create(ctx context.Context, order *models.Order, msg *models.OutboxMessage) error {
	tx, err := r.db.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Error("Failed to rollback transaction", "error", rbErr)
			}
		}
	}()

	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err = tx.ExecContext(
		ctx,
		query,
		order.ID,
		order.CustomerID,
		order.AgentID,
		order.Items,
		order.TotalAmount,
		order.DiscountAmount,
		order.DeliveryCharge,
		order.FinalAmount,
		order.Remark,
		order.AdditionalRemark,
		order.Status,
		order.PaymentStatus,
		order.EditedBy,
		order.EditRequest,
		order.IsDownloaded,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create order", "error", err, "orderID", order.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	if msg != nil {
		if err = insertOutboxTx(tx, msg); err != nil {
			r.logger.Error("Failed to queue outbox message", "error", err, "orderID", order.ID)
			return fmt.Errorf("%w: %v", ErrDatabase, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}

// GetByID retrieves an order by its ID
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE id = $1`

	var order models.Order
	err := r.db.DB.GetContext(ctx, &order, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get order by ID", "error", err, "orderID", id)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &order, nil
}

// Update rewrites an order and queues its outbox message in one transaction.
func (r *OrderRepository) Update(ctx context.Context, order *models.Order, msg *models.OutboxMessage) error {
	tx, err := r.db.DB.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.logger.Error("Failed to rollback transaction", "error", rbErr)
			}
		}
	}()

	query := `
		UPDATE orders
		SET customer_id = $1, agent_id = $2, items = $3, total_amount = $4,
			discount_amount = $5, delivery_charge = $6, final_amount = $7,
			remark = $8, additional_remark = $9, status = $10, payment_status = $11,
			edited_by = $12, edit_request = $13, is_downloaded = $14, updated_at = $15
		WHERE id = $16
	`

	result, err := tx.ExecContext(
		ctx,
		query,
		order.CustomerID,
		order.AgentID,
		order.Items,
		order.TotalAmount,
		order.DiscountAmount,
		order.DeliveryCharge,
		order.FinalAmount,
		order.Remark,
		order.AdditionalRemark,
		order.Status,
		order.PaymentStatus,
		order.EditedBy,
		order.EditRequest,
		order.IsDownloaded,
		models.GetCurrentTime(),
		order.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update order", "error", err, "orderID", order.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if rowsAffected == 0 {
		err = ErrNotFound
		return err
	}

	if msg != nil {
		if err = insertOutboxTx(tx, msg); err != nil {
			r.logger.Error("Failed to queue outbox message", "error", err, "orderID", order.ID)
			return fmt.Errorf("%w: %v", ErrDatabase, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}

// Delete deletes an order by its ID
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete order", "error", err, "orderID", id)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}

	return nil
}

// DeleteAll removes every order and returns the deleted count.
func (r *OrderRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM orders`)
	if err != nil {
		r.logger.Error("Failed to bulk delete orders", "error", err)
		return 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return result.RowsAffected()
}

// List retrieves orders matching the filter, newest first.
func (r *OrderRepository) List(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error) {
	query := `SELECT ` + orderColumns + ` FROM orders WHERE 1=1`
	args := []interface{}{}

	if filter.From != nil {
		args = append(args, *filter.From)
		query += fmt.Sprintf(" AND created_at >= $%d", len(args))
	}
	if filter.To != nil {
		args = append(args, *filter.To)
		query += fmt.Sprintf(" AND created_at <= $%d", len(args))
	}
	if filter.PaymentStatus != "" && filter.PaymentStatus != "All" {
		args = append(args, filter.PaymentStatus)
		query += fmt.Sprintf(" AND payment_status = $%d", len(args))
	}
	if filter.AgentID != "" && filter.AgentID != "All" {
		args = append(args, filter.AgentID)
		query += fmt.Sprintf(" AND agent_id = $%d", len(args))
	}

	query += " ORDER BY created_at DESC"

	var orders []*models.Order
	err := r.db.DB.SelectContext(ctx, &orders, query, args...)
	if err != nil {
		r.logger.Error("Failed to list orders", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return orders, nil
}

// Count counts the total number of orders
func (r *OrderRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM orders`)
	if err != nil {
		r.logger.Error("Failed to count orders", "error", err)
		return 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return count, nil
}

// SumFinalAmount sums final_amount over all orders, optionally only those
// created at or after since. An empty table sums to zero.
func (r *OrderRepository) SumFinalAmount(ctx context.Context, since *time.Time) (float64, error) {
	var total float64
	var err error

	if since != nil {
		err = r.db.DB.GetContext(ctx, &total,
			`SELECT COALESCE(SUM(final_amount), 0) FROM orders WHERE created_at >= $1`, *since)
	} else {
		err = r.db.DB.GetContext(ctx, &total,
			`SELECT COALESCE(SUM(final_amount), 0) FROM orders`)
	}

	if err != nil {
		r.logger.Error("Failed to sum order revenue", "error", err)
		return 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return total, nil
}

// BulkUpdateStatus sets the status on every order created in the range and
// appends the acting agent to each order's edit log.
func (r *OrderRepository) BulkUpdateStatus(ctx context.Context, from, to time.Time, status models.OrderStatus, entry models.EditEntry) (int64, error) {
	entryJSON, err := models.EditLog{entry}.Value()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	query := `
		UPDATE orders
		SET status = $1, edited_by = edited_by || $2::jsonb, updated_at = $3
		WHERE created_at >= $4 AND created_at <= $5
	`

	result, err := r.db.DB.ExecContext(ctx, query, status, entryJSON, models.GetCurrentTime(), from, to)
	if err != nil {
		r.logger.Error("Failed to bulk update order status", "error", err, "status", status)
		return 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return result.RowsAffected()
}

// MarkDispatched flags the given orders as exported and dispatched.
func (r *OrderRepository) MarkDispatched(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}

	query := `
		UPDATE orders
		SET is_downloaded = TRUE, status = $1, updated_at = $2
		WHERE id = ANY($3)
	`

	_, err := r.db.DB.ExecContext(ctx, query, models.OrderStatusDispatched, models.GetCurrentTime(), pq.Array(ids))
	if err != nil {
		r.logger.Error("Failed to mark orders dispatched", "error", err, "count", len(ids))
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}

// CountPendingEditRequests counts orders with an unresolved edit
// request. An empty agentID counts across all agents.
func (r *OrderRepository) CountPendingEditRequests(ctx context.Context, agentID string) (int, error) {
	query := `SELECT COUNT(*) FROM orders WHERE (edit_request->>'pending')::boolean = TRUE`
	args := []interface{}{}

	if agentID != "" {
		args = append(args, agentID)
		query += " AND agent_id = $1"
	}

	var count int
	err := r.db.DB.GetContext(ctx, &count, query, args...)
	if err != nil {
		r.logger.Error("Failed to count pending edit requests", "error", err, "agentID", agentID)
		return 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return count, nil
}

// insertOutboxTx queues an outbox message inside an open transaction.
func insertOutboxTx(tx *sqlx.Tx, msg *models.OutboxMessage) error {
	query := `
		INSERT INTO outbox_messages (aggregate_type, aggregate_id, event_type, payload, created_at, processing_attempts, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := tx.Exec(
		query,
		msg.AggregateType,
		msg.AggregateID,
		msg.EventType,
		msg.Payload,
		msg.CreatedAt,
		msg.ProcessingAttempts,
		msg.Status,
	)
	return err
}
