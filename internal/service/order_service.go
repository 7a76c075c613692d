package service

import (
	"context"
	"errors"
	"time"

	"github.com/gayanfadna-spec/OMS-backend/internal/models"
	"github.com/gayanfadna-spec/OMS-backend/internal/pricing"
	"github.com/gayanfadna-spec/OMS-backend/internal/repository"
	"github.com/gayanfadna-spec/OMS-backend/pkg/auth"
	apperrors "github.com/gayanfadna-spec/OMS-backend/pkg/errors"
	"github.com/gayanfadna-spec/OMS-backend/pkg/logger"
)

// OrderService reconciles order writes: pricing, remark annotation, the
// edit-request workflow, and the append-only edit audit trail.
type OrderService struct {
	orders    OrderStore
	customers CustomerStore
	users     UserStore
	outbox    OutboxStore
	policy    pricing.Policy
	logger    logger.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	orders OrderStore,
	customers CustomerStore,
	users UserStore,
	outbox OutboxStore,
	policy pricing.Policy,
	logger logger.Logger,
) *OrderService {
	return &OrderService{
		orders:    orders,
		customers: customers,
		users:     users,
		outbox:    outbox,
		policy:    policy,
		logger:    logger,
	}
}

// CreateOrderRequest carries the inputs for a direct order creation.
type CreateOrderRequest struct {
	CustomerID       string               `json:"customer_id"`
	Items            models.OrderItems    `json:"items"`
	DiscountAmount   float64              `json:"discount_amount"`
	PaymentStatus    models.PaymentStatus `json:"payment_status"`
	Remark           string               `json:"remark"`
	AdditionalRemark string               `json:"additional_remark"`
	DeliveryCharge   *float64             `json:"delivery_charge"`
}

// UpdateOrderRequest is a partial patch. Nil fields are left untouched;
// totals are recomputed only when items, discount, delivery charge or
// remark are supplied.
type UpdateOrderRequest struct {
	CustomerID       string               `json:"customer_id"`
	Items            models.OrderItems    `json:"items"`
	DiscountAmount   *float64             `json:"discount_amount"`
	PaymentStatus    models.PaymentStatus `json:"payment_status"`
	Remark           *string              `json:"remark"`
	AdditionalRemark *string              `json:"additional_remark"`
	DeliveryCharge   *float64             `json:"delivery_charge"`
	Status           models.OrderStatus   `json:"status"`
}

// CreateOrder validates the request, prices the order and persists it as
// Pending, owned by the acting agent.
func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest, actor *models.User) (*models.Order, error) {
	if len(req.Items) == 0 {
		return nil, apperrors.NewInvalidInputError("no order items")
	}
	for _, item := range req.Items {
		if item.Quantity <= 0 {
			return nil, apperrors.NewInvalidInputError("item quantity must be positive")
		}
	}

	customer, err := s.customers.GetByID(ctx, req.CustomerID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("customer not found")
		}
		return nil, apperrors.NewInternalError("failed to load customer")
	}

	quote := s.policy.Calculate(pricing.Input{
		Items:            req.Items,
		DiscountAmount:   req.DiscountAmount,
		DeliveryOverride: req.DeliveryCharge,
	})

	order := models.NewOrder(customer.ID, actor.ID, req.Items)
	order.TotalAmount = quote.TotalAmount
	order.DiscountAmount = req.DiscountAmount
	order.DeliveryCharge = quote.DeliveryCharge
	order.FinalAmount = quote.FinalAmount
	order.Remark = pricing.AnnotateDiscount(req.Remark, req.DiscountAmount)
	order.AdditionalRemark = req.AdditionalRemark
	if req.PaymentStatus != "" {
		order.PaymentStatus = req.PaymentStatus
	}

	msg, err := models.NewOrderEvent(models.EventOrderCreated, order)
	if err != nil {
		s.logger.Error("Failed to create outbox message", "error", err)
		return nil, apperrors.NewInternalError("failed to create order event")
	}

	if err := s.orders.Create(ctx, order, msg); err != nil {
		return nil, apperrors.NewInternalError("failed to create order")
	}

	if err := s.customers.AppendOrderHistory(ctx, customer.ID, order.ID); err != nil {
		// The order exists; a missing history entry is recoverable.
		s.logger.Warn("Failed to append order history", "error", err, "customerID", customer.ID, "orderID", order.ID)
	}

	s.logger.Info("Order created", "orderID", order.ID, "agentID", actor.ID, "finalAmount", order.FinalAmount)
	return order, nil
}

// UpdateOrder applies a partial patch. The actor must own the order or
// hold elevated privilege. Every successful update resolves any pending
// edit request and appends one audit entry for the actor.
func (s *OrderService) UpdateOrder(ctx context.Context, orderID string, req UpdateOrderRequest, actor *models.User) (*models.Order, error) {
	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	isElevated := actor.IsElevated()
	if !isElevated && order.AgentID != actor.ID {
		return nil, apperrors.NewForbiddenError("not authorized to edit this order")
	}

	if req.Items != nil || req.DiscountAmount != nil || req.DeliveryCharge != nil || req.Remark != nil {
		s.reprice(order, req)
	}

	if req.CustomerID != "" {
		order.CustomerID = req.CustomerID
	}
	if req.PaymentStatus != "" {
		order.PaymentStatus = req.PaymentStatus
	}
	if req.AdditionalRemark != nil {
		order.AdditionalRemark = *req.AdditionalRemark
	}
	if isElevated && req.Status != "" {
		order.Status = req.Status
	}

	// An update resolves whatever request prompted it.
	order.EditRequest.Pending = false
	order.EditedBy = append(order.EditedBy, models.EditEntry{AgentID: actor.ID, At: models.GetCurrentTime()})

	msg, err := models.NewOrderEvent(models.EventOrderUpdated, order)
	if err != nil {
		s.logger.Error("Failed to create outbox message", "error", err)
		return nil, apperrors.NewInternalError("failed to create order event")
	}

	if err := s.orders.Update(ctx, order, msg); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("order not found")
		}
		return nil, apperrors.NewInternalError("failed to update order")
	}

	s.logger.Info("Order updated", "orderID", order.ID, "agentID", actor.ID)
	return order, nil
}

// reprice recomputes totals, delivery and the discount annotation on the
// update path. When items are unchanged the stored total and delivery
// charge carry over unless explicitly overridden.
func (s *OrderService) reprice(order *models.Order, req UpdateOrderRequest) {
	discount := order.DiscountAmount
	if req.DiscountAmount != nil {
		discount = *req.DiscountAmount
	}

	in := pricing.Input{
		DiscountAmount:   discount,
		DeliveryOverride: req.DeliveryCharge,
	}

	if req.Items != nil {
		in.Items = req.Items
		in.RequirePositiveTotal = true
	} else {
		in.Items = order.Items
		if req.DeliveryCharge == nil {
			in.DeliveryOverride = &order.DeliveryCharge
		}
	}

	quote := s.policy.Calculate(in)
	if req.Items == nil {
		// Items unchanged: the stored total carries over as-is, even zero.
		quote.TotalAmount = order.TotalAmount
		quote.FinalAmount = quote.TotalAmount - discount + quote.DeliveryCharge
	}

	baseRemark := order.Remark
	if req.Remark != nil {
		baseRemark = *req.Remark
	}

	order.Items = in.Items
	order.TotalAmount = quote.TotalAmount
	order.DiscountAmount = discount
	order.DeliveryCharge = quote.DeliveryCharge
	order.FinalAmount = quote.FinalAmount
	order.Remark = pricing.AnnotateDiscount(baseRemark, discount)
}

// RequestEdit files (or replaces) the order's pending edit request.
// At most one request is outstanding; the last writer wins.
func (s *OrderService) RequestEdit(ctx context.Context, orderID, message string, actor *models.User) (*models.Order, error) {
	if message == "" {
		return nil, apperrors.NewInvalidInputError("message is required")
	}

	order, err := s.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := models.GetCurrentTime()
	order.EditRequest = models.EditRequest{
		Pending:   true,
		Message:   message,
		FromID:    actor.ID,
		CreatedAt: &now,
	}

	if err := s.orders.Update(ctx, order, nil); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("order not found")
		}
		return nil, apperrors.NewInternalError("failed to save edit request")
	}

	s.logger.Info("Edit request filed", "orderID", order.ID, "fromID", actor.ID)
	return order, nil
}

// DeleteOrder removes an order. Elevated privilege is required, and the
// actor must confirm with their own password.
func (s *OrderService) DeleteOrder(ctx context.Context, orderID, password string, actor *models.User) error {
	if _, err := s.getOrder(ctx, orderID); err != nil {
		return err
	}

	if !actor.IsElevated() {
		return apperrors.NewForbiddenError("only Admin or Super Admin can delete orders")
	}

	if err := s.confirmPassword(ctx, actor, password); err != nil {
		return err
	}

	if err := s.orders.Delete(ctx, orderID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFoundError("order not found")
		}
		return apperrors.NewInternalError("failed to delete order")
	}

	if msg, err := models.NewOrderDeletedEvent(orderID, actor.ID); err == nil {
		if err := s.outbox.Create(ctx, msg); err != nil {
			s.logger.Warn("Failed to queue order deleted event", "error", err, "orderID", orderID)
		}
	}

	s.logger.Info("Order deleted", "orderID", orderID, "deletedBy", actor.ID)
	return nil
}

// BulkDeleteOrders removes every order. Super Admin only, password confirmed.
func (s *OrderService) BulkDeleteOrders(ctx context.Context, password string, actor *models.User) (int64, error) {
	if !actor.IsSuperAdmin() {
		return 0, apperrors.NewForbiddenError("only Super Admin can perform bulk deletion")
	}

	if err := s.confirmPassword(ctx, actor, password); err != nil {
		return 0, err
	}

	count, err := s.orders.DeleteAll(ctx)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to bulk delete orders")
	}

	s.logger.Info("Bulk order deletion", "count", count, "deletedBy", actor.ID)
	return count, nil
}

// BulkUpdateStatus sets the status on every order created in the range
// and credits the edit to the acting admin.
func (s *OrderService) BulkUpdateStatus(ctx context.Context, from, to time.Time, status models.OrderStatus, actor *models.User) (int64, error) {
	if !actor.IsElevated() {
		return 0, apperrors.NewForbiddenError("not authorized")
	}

	if from.IsZero() || to.IsZero() || status == "" {
		return 0, apperrors.NewInvalidInputError("startDate, endDate and status are required")
	}

	entry := models.EditEntry{AgentID: actor.ID, At: models.GetCurrentTime()}
	count, err := s.orders.BulkUpdateStatus(ctx, from, to, status, entry)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to bulk update orders")
	}

	s.logger.Info("Bulk status update", "count", count, "status", status, "agentID", actor.ID)
	return count, nil
}

// GetOrder retrieves an order by ID
func (s *OrderService) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	return s.getOrder(ctx, id)
}

// ListOrders retrieves orders matching the filter, newest first.
func (s *OrderService) ListOrders(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error) {
	orders, err := s.orders.List(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to list orders")
	}
	return orders, nil
}

func (s *OrderService) getOrder(ctx context.Context, id string) (*models.Order, error) {
	order, err := s.orders.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("order not found")
		}
		return nil, apperrors.NewInternalError("failed to load order")
	}
	return order, nil
}

// confirmPassword re-authenticates the actor against their stored
// credential before a destructive action.
func (s *OrderService) confirmPassword(ctx context.Context, actor *models.User, password string) error {
	if password == "" {
		return apperrors.NewInvalidInputError("password is required for deletion")
	}

	stored, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return apperrors.NewInternalError("failed to load user")
	}

	if !auth.CheckPassword(stored.Password, password) {
		return apperrors.NewAuthFailedError("invalid password, deletion denied")
	}

	return nil
}
