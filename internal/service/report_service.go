package service

import (
	"context"
	"sort"
	"time"

	"github.com/gayanfadna-spec/OMS-backend/internal/models"
	apperrors "github.com/gayanfadna-spec/OMS-backend/pkg/errors"
	"github.com/gayanfadna-spec/OMS-backend/pkg/logger"
)

// ReportService aggregates read-only views over orders: dashboard
// counters, the daily agent/product matrix, and the export pipeline
// with its dispatch side effect.
type ReportService struct {
	orders     OrderStore
	customers  CustomerStore
	users      UserStore
	reportLogs ReportLogStore
	outbox     OutboxStore
	logger     logger.Logger
}

// NewReportService creates a new ReportService
func NewReportService(
	orders OrderStore,
	customers CustomerStore,
	users UserStore,
	reportLogs ReportLogStore,
	outbox OutboxStore,
	logger logger.Logger,
) *ReportService {
	return &ReportService{
		orders:     orders,
		customers:  customers,
		users:      users,
		reportLogs: reportLogs,
		outbox:     outbox,
		logger:     logger,
	}
}

// DashboardStats is the landing-page counter set.
type DashboardStats struct {
	TotalOrders    int     `json:"total_orders"`
	TotalCustomers int     `json:"total_customers"`
	TotalRevenue   float64 `json:"total_revenue"`
	TodayRevenue   float64 `json:"today_revenue"`
}

// Dashboard returns the aggregate counters. An empty system yields all
// zeros rather than an error.
func (s *ReportService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	orderCount, err := s.orders.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count orders", "error", err)
		return nil, apperrors.NewInternalError("failed to load dashboard")
	}

	customerCount, err := s.customers.Count(ctx)
	if err != nil {
		s.logger.Error("Failed to count customers", "error", err)
		return nil, apperrors.NewInternalError("failed to load dashboard")
	}

	totalRevenue, err := s.orders.SumFinalAmount(ctx, nil)
	if err != nil {
		s.logger.Error("Failed to sum revenue", "error", err)
		return nil, apperrors.NewInternalError("failed to load dashboard")
	}

	today := startOfToday()
	todayRevenue, err := s.orders.SumFinalAmount(ctx, &today)
	if err != nil {
		s.logger.Error("Failed to sum today's revenue", "error", err)
		return nil, apperrors.NewInternalError("failed to load dashboard")
	}

	return &DashboardStats{
		TotalOrders:    orderCount,
		TotalCustomers: customerCount,
		TotalRevenue:   totalRevenue,
		TodayRevenue:   todayRevenue,
	}, nil
}

// OrderMatrix is the per-agent, per-product contribution table for one
// day. Counts holds, for each agent name, how many of today's orders by
// that agent contain each product.
type OrderMatrix struct {
	Agents   []string                  `json:"agents"`
	Products []string                  `json:"products"`
	Counts   map[string]map[string]int `json:"counts"`
}

// Matrix builds today's agent/product matrix. A product appearing twice
// inside one order still counts that order once.
func (s *ReportService) Matrix(ctx context.Context) (*OrderMatrix, error) {
	today := startOfToday()
	endOfDay := today.Add(24*time.Hour - time.Nanosecond)
	orders, err := s.orders.List(ctx, models.OrderFilter{From: &today, To: &endOfDay})
	if err != nil {
		s.logger.Error("Failed to list today's orders", "error", err)
		return nil, apperrors.NewInternalError("failed to build order matrix")
	}

	agentIDs := make([]string, 0, len(orders))
	seenAgents := make(map[string]bool)
	for _, order := range orders {
		if !seenAgents[order.AgentID] {
			seenAgents[order.AgentID] = true
			agentIDs = append(agentIDs, order.AgentID)
		}
	}

	names, err := s.users.NamesByID(ctx, agentIDs)
	if err != nil {
		s.logger.Error("Failed to resolve agent names", "error", err)
		return nil, apperrors.NewInternalError("failed to build order matrix")
	}

	counts := make(map[string]map[string]int)
	productSet := make(map[string]bool)

	for _, order := range orders {
		agentName, ok := names[order.AgentID]
		if !ok || agentName == "" {
			agentName = "Unknown"
		}
		if counts[agentName] == nil {
			counts[agentName] = make(map[string]int)
		}

		// Each product contributes at most once per order.
		seen := make(map[string]bool)
		for _, item := range order.Items {
			if item.ProductName == "" || seen[item.ProductName] {
				continue
			}
			seen[item.ProductName] = true
			counts[agentName][item.ProductName]++
			productSet[item.ProductName] = true
		}
	}

	agents := make([]string, 0, len(counts))
	for name := range counts {
		agents = append(agents, name)
	}
	sort.Strings(agents)

	products := make([]string, 0, len(productSet))
	for name := range productSet {
		products = append(products, name)
	}
	sort.Strings(products)

	return &OrderMatrix{
		Agents:   agents,
		Products: products,
		Counts:   counts,
	}, nil
}

// ExportRequest selects the orders to export. An empty or "All" AgentID
// means every agent, which also makes the export a dispatch.
type ExportRequest struct {
	From          time.Time `json:"from"`
	To            time.Time `json:"to"`
	PaymentStatus string    `json:"payment_status"`
	AgentID       string    `json:"agent_id"`
}

// ExportResult carries the selected orders plus the audit record the
// export produced.
type ExportResult struct {
	Orders []*models.Order   `json:"orders"`
	Log    *models.ReportLog `json:"log"`
}

// Export selects orders in a window, writes the audit log entry, and,
// when the export spans all agents, marks the selected orders dispatched.
func (s *ReportService) Export(ctx context.Context, actor *models.User, req ExportRequest) (*ExportResult, error) {
	if !actor.IsElevated() {
		return nil, apperrors.NewForbiddenError("not authorized to export orders")
	}
	if req.From.IsZero() || req.To.IsZero() {
		return nil, apperrors.NewInvalidInputError("start and end dates are required")
	}

	filter := models.OrderFilter{
		From:          &req.From,
		To:            &req.To,
		PaymentStatus: req.PaymentStatus,
		AgentID:       req.AgentID,
	}

	orders, err := s.orders.List(ctx, filter)
	if err != nil {
		s.logger.Error("Failed to list orders for export", "error", err)
		return nil, apperrors.NewInternalError("failed to export orders")
	}

	isDispatch := req.AgentID == "" || req.AgentID == "All"
	if isDispatch && len(orders) > 0 {
		ids := make([]string, 0, len(orders))
		for _, order := range orders {
			ids = append(ids, order.ID)
		}
		if err := s.orders.MarkDispatched(ctx, ids); err != nil {
			s.logger.Error("Failed to mark orders dispatched", "error", err)
			return nil, apperrors.NewInternalError("failed to dispatch orders")
		}
	}

	var agentID *string
	if req.AgentID != "" && req.AgentID != "All" {
		agentID = &req.AgentID
	}

	log := models.NewReportLog(actor.ID, req.From, req.To, len(orders), req.PaymentStatus, agentID, isDispatch)
	if err := s.reportLogs.Create(ctx, log); err != nil {
		s.logger.Error("Failed to record export", "error", err, "reportID", log.ID)
		return nil, apperrors.NewInternalError("failed to record export")
	}

	if isDispatch {
		if msg, err := models.NewOrderDispatchedEvent(log); err == nil {
			if err := s.outbox.Create(ctx, msg); err != nil {
				s.logger.Warn("Failed to queue dispatch event", "error", err, "reportID", log.ID)
			}
		}
	}

	s.logger.Info("Orders exported",
		"reportID", log.ID,
		"orderCount", len(orders),
		"isDispatch", isDispatch,
		"generatedBy", actor.ID)

	return &ExportResult{Orders: orders, Log: log}, nil
}

// ExportHistory lists past export records, newest first.
func (s *ReportService) ExportHistory(ctx context.Context, actor *models.User) ([]*models.ReportLog, error) {
	if !actor.IsElevated() {
		return nil, apperrors.NewForbiddenError("not authorized to view export history")
	}

	logs, err := s.reportLogs.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list export history", "error", err)
		return nil, apperrors.NewInternalError("failed to load export history")
	}
	return logs, nil
}

// MyReport lists the acting agent's own orders in a window. The agent
// filter is forced to the actor regardless of what was requested.
func (s *ReportService) MyReport(ctx context.Context, actor *models.User, from, to time.Time, paymentStatus string) ([]*models.Order, error) {
	if from.IsZero() || to.IsZero() {
		return nil, apperrors.NewInvalidInputError("start and end dates are required")
	}

	orders, err := s.orders.List(ctx, models.OrderFilter{
		From:          &from,
		To:            &to,
		PaymentStatus: paymentStatus,
		AgentID:       actor.ID,
	})
	if err != nil {
		s.logger.Error("Failed to list agent orders", "error", err, "agentID", actor.ID)
		return nil, apperrors.NewInternalError("failed to load report")
	}
	return orders, nil
}

// PendingEditCount returns how many pending edit requests concern the
// actor: their own orders for agents, every order for admins.
func (s *ReportService) PendingEditCount(ctx context.Context, actor *models.User) (int, error) {
	agentID := actor.ID
	if actor.IsElevated() {
		agentID = ""
	}

	count, err := s.orders.CountPendingEditRequests(ctx, agentID)
	if err != nil {
		s.logger.Error("Failed to count pending edit requests", "error", err)
		return 0, apperrors.NewInternalError("failed to count pending edit requests")
	}
	return count, nil
}

// startOfToday returns midnight of the current local day.
func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}
