package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gayanfadna-spec/OMS-backend/internal/config"
	"github.com/gayanfadna-spec/OMS-backend/internal/models"
	"github.com/gayanfadna-spec/OMS-backend/internal/pricing"
	"github.com/gayanfadna-spec/OMS-backend/pkg/logger"
)

type importServiceFixture struct {
	svc       *ImportService
	orders    *fakeOrderStore
	customers *fakeCustomerStore
	products  *fakeProductStore
	users     *fakeUserStore
	outbox    *fakeOutboxStore

	admin *models.User
}

func newImportServiceFixture(t *testing.T) *importServiceFixture {
	t.Helper()

	orders := newFakeOrderStore()
	customers := newFakeCustomerStore()
	products := newFakeProductStore()
	users := newFakeUserStore()
	outbox := &fakeOutboxStore{}

	admin := users.add(models.NewUser("Admin One", "admin@oms.local", "x", models.RoleSuperAdmin))

	cfg := config.ImportConfig{
		DefaultCountry:   "Sri Lanka",
		WebAgentName:     "Web Orders",
		WebAgentEmail:    "weborders@oms.local",
		WebAgentPassword: "123456",
	}

	svc := NewImportService(orders, customers, products, users, outbox, pricing.DefaultPolicy(), cfg, logger.New("error"))

	return &importServiceFixture{
		svc:       svc,
		orders:    orders,
		customers: customers,
		products:  products,
		users:     users,
		outbox:    outbox,
		admin:     admin,
	}
}

func importRow(orderName, customer, phone, product, price, qty string) ImportRow {
	return ImportRow{
		OrderName:     orderName,
		CustomerName:  customer,
		ShippingPhone: phone,
		ProductName:   product,
		ProductPrice:  price,
		Quantity:      qty,
	}
}

func TestImportCreatesCustomerProductAndWebAgent(t *testing.T) {
	f := newImportServiceFixture(t)

	result := f.svc.ImportOrders(context.Background(), []ImportRow{
		importRow("#1001", "Kamala", "0712223334", "Herbal Oil", "1200", "2"),
	}, f.admin)

	assert.Equal(t, 1, result.SuccessCount)
	assert.Empty(t, result.Errors)

	customer, err := f.customers.GetByPhone(context.Background(), "0712223334")
	require.NoError(t, err)
	assert.Equal(t, "Kamala", customer.Name)
	assert.Equal(t, "Sri Lanka", customer.Country)
	assert.Equal(t, "N/A", customer.Address)

	product, err := f.products.GetByName(context.Background(), "Herbal Oil")
	require.NoError(t, err)
	assert.Equal(t, float64(1200), product.Price)

	agent, err := f.users.GetByNameAndRole(context.Background(), "Web Orders", models.RoleAgent)
	require.NoError(t, err)
	assert.Equal(t, "weborders@oms.local", agent.Email)

	require.Len(t, f.orders.orders, 1)
	for _, order := range f.orders.orders {
		assert.Equal(t, agent.ID, order.AgentID)
		assert.Equal(t, customer.ID, order.CustomerID)
		assert.Equal(t, "#1001", order.Remark)
		assert.Equal(t, float64(2400), order.TotalAmount)
		assert.Equal(t, float64(350), order.DeliveryCharge)
		assert.Contains(t, []string(customer.OrderHistory), order.ID)
	}
}

func TestImportGroupsRowsIntoOneOrder(t *testing.T) {
	f := newImportServiceFixture(t)

	result := f.svc.ImportOrders(context.Background(), []ImportRow{
		importRow("#1001", "Kamala", "0712223334", "Herbal Oil", "1000", "1"),
		importRow("#1001", "Kamala", "0712223334", "Face Cream", "2000", "1"),
	}, f.admin)

	assert.Equal(t, 1, result.SuccessCount)
	require.Len(t, f.orders.orders, 1)
	for _, order := range f.orders.orders {
		require.Len(t, order.Items, 2)
		assert.Equal(t, float64(3000), order.TotalAmount)
		assert.Equal(t, float64(0), order.DeliveryCharge)
	}
}

func TestImportBadGroupDoesNotAbortSiblings(t *testing.T) {
	f := newImportServiceFixture(t)

	rows := []ImportRow{
		importRow("#1001", "Kamala", "0712223334", "Herbal Oil", "1000", "1"),
		importRow("#1002", "", "", "Face Cream", "2000", "1"),
		importRow("#1003", "Sunil", "0755556667", "Herbal Oil", "1500", "1"),
	}

	result := f.svc.ImportOrders(context.Background(), rows, f.admin)

	assert.Equal(t, 2, result.SuccessCount)
	assert.Equal(t, 1, result.ErrorCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "#1002", result.Errors[0].Order)
	assert.Len(t, f.orders.orders, 2)
}

func TestImportMissingOrderNameReportedAsUnknown(t *testing.T) {
	f := newImportServiceFixture(t)

	result := f.svc.ImportOrders(context.Background(), []ImportRow{
		importRow("", "Kamala", "0712223334", "Herbal Oil", "1000", "1"),
	}, f.admin)

	assert.Equal(t, 0, result.SuccessCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "Unknown", result.Errors[0].Order)
}

func TestImportSubtotalOverridesItemSum(t *testing.T) {
	f := newImportServiceFixture(t)

	row := importRow("#1001", "Kamala", "0712223334", "Herbal Oil", "1000", "1")
	row.Subtotal = "2600"

	f.svc.ImportOrders(context.Background(), []ImportRow{row}, f.admin)

	require.Len(t, f.orders.orders, 1)
	for _, order := range f.orders.orders {
		assert.Equal(t, float64(2600), order.TotalAmount)
		assert.Equal(t, float64(0), order.DeliveryCharge)
		assert.Equal(t, float64(2600), order.FinalAmount)
	}
}

func TestImportMalformedNumbersFallBack(t *testing.T) {
	f := newImportServiceFixture(t)

	f.svc.ImportOrders(context.Background(), []ImportRow{
		importRow("#1001", "Kamala", "0712223334", "Herbal Oil", "n/a", ""),
	}, f.admin)

	require.Len(t, f.orders.orders, 1)
	for _, order := range f.orders.orders {
		require.Len(t, order.Items, 1)
		assert.Equal(t, float64(0), order.Items[0].UnitPrice)
		assert.Equal(t, 1, order.Items[0].Quantity)
	}
}

func TestImportPaymentKeywordPromotesToPaid(t *testing.T) {
	f := newImportServiceFixture(t)

	paid := importRow("#1001", "Kamala", "0712223334", "Herbal Oil", "1000", "1")
	paid.PaymentMethod = "PayHere Gateway"
	cod := importRow("#1002", "Sunil", "0755556667", "Herbal Oil", "1000", "1")
	cod.PaymentMethod = "Cash on Delivery"

	f.svc.ImportOrders(context.Background(), []ImportRow{paid, cod}, f.admin)

	statuses := make(map[string]models.PaymentStatus)
	for _, order := range f.orders.orders {
		statuses[order.Remark] = order.PaymentStatus
	}
	assert.Equal(t, models.PaymentStatusPaid, statuses["#1001"])
	assert.Equal(t, models.PaymentStatusCOD, statuses["#1002"])
}

func TestImportReusesExistingCustomerAndAgent(t *testing.T) {
	f := newImportServiceFixture(t)
	ctx := context.Background()

	existing := models.NewCustomer("Kamala", "0712223334", "12 Galle Rd")
	require.NoError(t, f.customers.Create(ctx, existing))
	webAgent := f.users.add(models.NewUser("Web Orders", "weborders@oms.local", "x", models.RoleAgent))

	f.svc.ImportOrders(ctx, []ImportRow{
		importRow("#1001", "Kamala Renamed", "0712223334", "Herbal Oil", "1000", "1"),
	}, f.admin)

	customers, err := f.customers.List(ctx)
	require.NoError(t, err)
	assert.Len(t, customers, 1)

	for _, order := range f.orders.orders {
		assert.Equal(t, existing.ID, order.CustomerID)
		assert.Equal(t, webAgent.ID, order.AgentID)
	}
}

func TestImportZeroItemsIsGroupError(t *testing.T) {
	f := newImportServiceFixture(t)

	result := f.svc.ImportOrders(context.Background(), []ImportRow{
		importRow("#1001", "Kamala", "0712223334", "", "", ""),
	}, f.admin)

	assert.Equal(t, 0, result.SuccessCount)
	require.Len(t, result.Errors, 1)
	assert.Equal(t, "#1001", result.Errors[0].Order)
}

func TestImportQueuesBatchEvent(t *testing.T) {
	f := newImportServiceFixture(t)

	f.svc.ImportOrders(context.Background(), []ImportRow{
		importRow("#1001", "Kamala", "0712223334", "Herbal Oil", "1000", "1"),
	}, f.admin)

	require.Len(t, f.outbox.messages, 1)
	assert.Equal(t, models.EventOrdersImported, f.outbox.messages[0].EventType)
}
