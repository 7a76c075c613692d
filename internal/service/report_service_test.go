package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gayanfadna-spec/OMS-backend/internal/models"
	apperrors "github.com/gayanfadna-spec/OMS-backend/pkg/errors"
	"github.com/gayanfadna-spec/OMS-backend/pkg/logger"
)

type reportServiceFixture struct {
	svc        *ReportService
	orders     *fakeOrderStore
	customers  *fakeCustomerStore
	users      *fakeUserStore
	reportLogs *fakeReportLogStore
	outbox     *fakeOutboxStore

	agent *models.User
	admin *models.User
}

func newReportServiceFixture(t *testing.T) *reportServiceFixture {
	t.Helper()

	orders := newFakeOrderStore()
	customers := newFakeCustomerStore()
	users := newFakeUserStore()
	reportLogs := &fakeReportLogStore{}
	outbox := &fakeOutboxStore{}

	agent := users.add(models.NewUser("Agent One", "agent@oms.local", "x", models.RoleAgent))
	admin := users.add(models.NewUser("Admin One", "admin@oms.local", "x", models.RoleAdmin))

	svc := NewReportService(orders, customers, users, reportLogs, outbox, logger.New("error"))

	return &reportServiceFixture{
		svc:        svc,
		orders:     orders,
		customers:  customers,
		users:      users,
		reportLogs: reportLogs,
		outbox:     outbox,
		agent:      agent,
		admin:      admin,
	}
}

func (f *reportServiceFixture) addOrder(t *testing.T, agentID string, finalAmount float64, names ...string) *models.Order {
	t.Helper()

	var orderItems models.OrderItems
	for _, name := range names {
		orderItems = append(orderItems, models.OrderItem{ProductName: name, Quantity: 1, UnitPrice: 100})
	}

	order := models.NewOrder("cus-1", agentID, orderItems)
	order.FinalAmount = finalAmount
	require.NoError(t, f.orders.Create(context.Background(), order, nil))
	return order
}

func TestDashboardEmptySystemIsAllZeros(t *testing.T) {
	f := newReportServiceFixture(t)

	stats, err := f.svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &DashboardStats{}, stats)
}

func TestDashboardAggregates(t *testing.T) {
	f := newReportServiceFixture(t)

	f.addOrder(t, f.agent.ID, 1000, "Herbal Oil")
	f.addOrder(t, f.agent.ID, 2500, "Face Cream")
	require.NoError(t, f.customers.Create(context.Background(), models.NewCustomer("Nimal", "0771234567", "addr")))

	stats, err := f.svc.Dashboard(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalOrders)
	assert.Equal(t, 1, stats.TotalCustomers)
	assert.Equal(t, float64(3500), stats.TotalRevenue)
	assert.Equal(t, float64(3500), stats.TodayRevenue)
}

func TestMatrixCountsEachProductOncePerOrder(t *testing.T) {
	f := newReportServiceFixture(t)

	// The same product twice in one order still counts that order once.
	f.addOrder(t, f.agent.ID, 0, "Herbal Oil", "Herbal Oil", "Face Cream")
	f.addOrder(t, f.agent.ID, 0, "Herbal Oil")
	f.addOrder(t, f.admin.ID, 0, "Face Cream")

	matrix, err := f.svc.Matrix(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"Admin One", "Agent One"}, matrix.Agents)
	assert.Equal(t, []string{"Face Cream", "Herbal Oil"}, matrix.Products)
	assert.Equal(t, 2, matrix.Counts["Agent One"]["Herbal Oil"])
	assert.Equal(t, 1, matrix.Counts["Agent One"]["Face Cream"])
	assert.Equal(t, 1, matrix.Counts["Admin One"]["Face Cream"])
	assert.Equal(t, 0, matrix.Counts["Admin One"]["Herbal Oil"])
}

func TestMatrixBoundedToToday(t *testing.T) {
	f := newReportServiceFixture(t)

	f.addOrder(t, f.agent.ID, 0, "Herbal Oil")
	future := f.addOrder(t, f.agent.ID, 0, "Face Cream")
	future.CreatedAt = time.Now().Add(48 * time.Hour)

	matrix, err := f.svc.Matrix(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Agent One"}, matrix.Agents)
	assert.Equal(t, []string{"Herbal Oil"}, matrix.Products)
	assert.Equal(t, 1, matrix.Counts["Agent One"]["Herbal Oil"])
	assert.Zero(t, matrix.Counts["Agent One"]["Face Cream"])
}

func TestMatrixUnknownAgentName(t *testing.T) {
	f := newReportServiceFixture(t)

	f.addOrder(t, "usr-gone", 0, "Herbal Oil")

	matrix, err := f.svc.Matrix(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"Unknown"}, matrix.Agents)
	assert.Equal(t, 1, matrix.Counts["Unknown"]["Herbal Oil"])
}

func TestExportAllAgentsIsDispatch(t *testing.T) {
	f := newReportServiceFixture(t)
	ctx := context.Background()

	order := f.addOrder(t, f.agent.ID, 1000, "Herbal Oil")

	result, err := f.svc.Export(ctx, f.admin, ExportRequest{
		From: order.CreatedAt.Add(-time.Hour),
		To:   order.CreatedAt.Add(time.Hour),
	})
	require.NoError(t, err)

	require.Len(t, result.Orders, 1)
	assert.True(t, result.Log.IsDispatch)
	assert.Equal(t, 1, result.Log.OrderCount)
	assert.Equal(t, "All", result.Log.PaymentStatus)
	assert.Nil(t, result.Log.AgentID)

	assert.True(t, f.orders.orders[order.ID].IsDownloaded)
	assert.Equal(t, models.OrderStatusDispatched, f.orders.orders[order.ID].Status)

	require.Len(t, f.reportLogs.logs, 1)
	require.Len(t, f.outbox.messages, 1)
	assert.Equal(t, models.EventOrderDispatched, f.outbox.messages[0].EventType)
}

func TestExportSingleAgentIsNotDispatch(t *testing.T) {
	f := newReportServiceFixture(t)
	ctx := context.Background()

	order := f.addOrder(t, f.agent.ID, 1000, "Herbal Oil")

	result, err := f.svc.Export(ctx, f.admin, ExportRequest{
		From:    order.CreatedAt.Add(-time.Hour),
		To:      order.CreatedAt.Add(time.Hour),
		AgentID: f.agent.ID,
	})
	require.NoError(t, err)

	assert.False(t, result.Log.IsDispatch)
	require.NotNil(t, result.Log.AgentID)
	assert.Equal(t, f.agent.ID, *result.Log.AgentID)

	assert.False(t, f.orders.orders[order.ID].IsDownloaded)
	assert.Empty(t, f.outbox.messages)
}

func TestExportValidation(t *testing.T) {
	f := newReportServiceFixture(t)
	ctx := context.Background()

	_, err := f.svc.Export(ctx, f.agent, ExportRequest{From: time.Now(), To: time.Now()})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, err = f.svc.Export(ctx, f.admin, ExportRequest{})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestExportHistoryAdminOnly(t *testing.T) {
	f := newReportServiceFixture(t)
	ctx := context.Background()

	order := f.addOrder(t, f.agent.ID, 1000, "Herbal Oil")
	_, err := f.svc.Export(ctx, f.admin, ExportRequest{
		From: order.CreatedAt.Add(-time.Hour),
		To:   order.CreatedAt.Add(time.Hour),
	})
	require.NoError(t, err)

	_, err = f.svc.ExportHistory(ctx, f.agent)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	logs, err := f.svc.ExportHistory(ctx, f.admin)
	require.NoError(t, err)
	assert.Len(t, logs, 1)
}

func TestMyReportForcesOwnAgentFilter(t *testing.T) {
	f := newReportServiceFixture(t)
	ctx := context.Background()

	mine := f.addOrder(t, f.agent.ID, 1000, "Herbal Oil")
	f.addOrder(t, f.admin.ID, 2000, "Face Cream")

	orders, err := f.svc.MyReport(ctx, f.agent, mine.CreatedAt.Add(-time.Hour), mine.CreatedAt.Add(time.Hour), "")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, mine.ID, orders[0].ID)

	_, err = f.svc.MyReport(ctx, f.agent, time.Time{}, time.Now(), "")
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestPendingEditCountScope(t *testing.T) {
	f := newReportServiceFixture(t)
	ctx := context.Background()

	mine := f.addOrder(t, f.agent.ID, 0, "Herbal Oil")
	mine.EditRequest.Pending = true
	other := f.addOrder(t, f.admin.ID, 0, "Face Cream")
	other.EditRequest.Pending = true

	count, err := f.svc.PendingEditCount(ctx, f.agent)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = f.svc.PendingEditCount(ctx, f.admin)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
