package service

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/gayanfadna-spec/OMS-backend/internal/config"
	"github.com/gayanfadna-spec/OMS-backend/internal/models"
	"github.com/gayanfadna-spec/OMS-backend/internal/pricing"
	"github.com/gayanfadna-spec/OMS-backend/internal/repository"
	"github.com/gayanfadna-spec/OMS-backend/pkg/auth"
	"github.com/gayanfadna-spec/OMS-backend/pkg/logger"
)

// paidKeywords promote an imported order from COD to Paid when any of
// them appears in the source payment-method text.
var paidKeywords = []string{"paid", "card", "visa", "payhere"}

// ImportRow is one raw line of an e-commerce export file. Numeric fields
// stay textual here; parsing failures fall back to defaults the way the
// source files demand.
type ImportRow struct {
	OrderName     string
	CustomerName  string
	ShippingPhone string
	BillingPhone  string
	Address       string
	City          string
	Country       string
	Email         string
	CreatedAtRaw  string
	PaymentMethod string
	Subtotal      string
	ProductName   string
	ProductPrice  string
	Quantity      string
}

// ImportError records one failed group without aborting its siblings.
type ImportError struct {
	Order string `json:"order"`
	Error string `json:"error"`
}

// ImportResult summarizes a best-effort batch import.
type ImportResult struct {
	SuccessCount int           `json:"success_count"`
	ErrorCount   int           `json:"error_count"`
	Errors       []ImportError `json:"errors"`
}

// ImportService turns grouped raw export rows into orders, resolving or
// creating the customers, products and the synthetic web-orders agent
// they reference.
type ImportService struct {
	orders    OrderStore
	customers CustomerStore
	products  ProductStore
	users     UserStore
	outbox    OutboxStore
	policy    pricing.Policy
	cfg       config.ImportConfig
	logger    logger.Logger
}

// NewImportService creates a new ImportService
func NewImportService(
	orders OrderStore,
	customers CustomerStore,
	products ProductStore,
	users UserStore,
	outbox OutboxStore,
	policy pricing.Policy,
	cfg config.ImportConfig,
	logger logger.Logger,
) *ImportService {
	return &ImportService{
		orders:    orders,
		customers: customers,
		products:  products,
		users:     users,
		outbox:    outbox,
		policy:    policy,
		cfg:       cfg,
		logger:    logger,
	}
}

// ImportOrders processes a batch of raw rows. Groups are independent:
// a failing group is recorded and its siblings continue. Entities created
// before a group's failure point are deliberately not rolled back.
func (s *ImportService) ImportOrders(ctx context.Context, rows []ImportRow, actingAdmin *models.User) *ImportResult {
	result := &ImportResult{Errors: []ImportError{}}

	orderIDs, groups := groupRows(rows, result)

	for _, orderID := range orderIDs {
		if err := s.importGroup(ctx, orderID, groups[orderID], actingAdmin); err != nil {
			result.Errors = append(result.Errors, ImportError{Order: orderID, Error: err.Error()})
			continue
		}
		result.SuccessCount++
	}

	result.ErrorCount = len(result.Errors)

	batchID := models.GenerateID("imp")
	if msg, err := models.NewOrdersImportedEvent(batchID, result.SuccessCount, result.ErrorCount); err == nil {
		if err := s.outbox.Create(ctx, msg); err != nil {
			s.logger.Warn("Failed to queue import event", "error", err, "batchID", batchID)
		}
	}

	s.logger.Info("Import processed",
		"batchID", batchID,
		"successCount", result.SuccessCount,
		"errorCount", result.ErrorCount)

	return result
}

// groupRows buckets rows by source order identifier, preserving first-seen
// order. Rows without an identifier are recorded as errors and skipped.
func groupRows(rows []ImportRow, result *ImportResult) ([]string, map[string][]ImportRow) {
	var orderIDs []string
	groups := make(map[string][]ImportRow)

	for _, row := range rows {
		if row.OrderName == "" {
			result.Errors = append(result.Errors, ImportError{Order: "Unknown", Error: "missing order name"})
			continue
		}
		if _, seen := groups[row.OrderName]; !seen {
			orderIDs = append(orderIDs, row.OrderName)
		}
		groups[row.OrderName] = append(groups[row.OrderName], row)
	}

	return orderIDs, groups
}

func (s *ImportService) importGroup(ctx context.Context, orderID string, rows []ImportRow, actingAdmin *models.User) error {
	// The first row carries the order-level attributes.
	first := rows[0]

	if first.CustomerName == "" || first.ShippingPhone == "" {
		return errors.New("missing customer name or phone")
	}

	customer, err := s.resolveCustomer(ctx, first)
	if err != nil {
		return err
	}

	agent := s.resolveWebAgent(ctx, actingAdmin)

	items, calculatedTotal := s.resolveItems(ctx, rows)
	if len(items) == 0 {
		return errors.New("no valid items found")
	}

	in := pricing.Input{Items: items}
	if subtotal, err := strconv.ParseFloat(strings.TrimSpace(first.Subtotal), 64); err == nil && subtotal > 0 {
		in.TotalOverride = &subtotal
	}
	quote := s.policy.Calculate(in)

	order := models.NewOrder(customer.ID, agent.ID, items)
	order.TotalAmount = quote.TotalAmount
	order.DeliveryCharge = quote.DeliveryCharge
	order.FinalAmount = quote.FinalAmount
	order.PaymentStatus = derivePaymentStatus(first.PaymentMethod)
	// The source identifier becomes the remark, the raw created-at marker
	// an audit note.
	order.Remark = orderID
	order.AdditionalRemark = first.CreatedAtRaw

	msg, err := models.NewOrderEvent(models.EventOrderCreated, order)
	if err != nil {
		return err
	}

	if err := s.orders.Create(ctx, order, msg); err != nil {
		return err
	}

	if err := s.customers.AppendOrderHistory(ctx, customer.ID, order.ID); err != nil {
		return err
	}

	s.logger.Debug("Imported order",
		"sourceID", orderID,
		"orderID", order.ID,
		"items", len(items),
		"calculatedTotal", calculatedTotal,
		"finalAmount", order.FinalAmount)

	return nil
}

// resolveCustomer finds the customer by primary phone or creates one from
// the row's shipping details.
func (s *ImportService) resolveCustomer(ctx context.Context, row ImportRow) (*models.Customer, error) {
	customer, err := s.customers.GetByPhone(ctx, row.ShippingPhone)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	address := row.Address
	if address == "" {
		address = "N/A"
	}
	country := row.Country
	if country == "" {
		country = s.cfg.DefaultCountry
	}

	customer = models.NewCustomer(row.CustomerName, row.ShippingPhone, address)
	customer.Phone2 = row.BillingPhone
	customer.City = row.City
	customer.Country = country
	customer.Email = row.Email

	if err := s.customers.Create(ctx, customer); err != nil {
		return nil, err
	}

	return customer, nil
}

// resolveWebAgent finds or lazily creates the synthetic agent that owns
// unattributed imported orders. Provisioning failure must not abort the
// import, so the acting administrator is the fallback owner.
func (s *ImportService) resolveWebAgent(ctx context.Context, actingAdmin *models.User) *models.User {
	agent, err := s.users.GetByNameAndRole(ctx, s.cfg.WebAgentName, models.RoleAgent)
	if err == nil {
		return agent
	}
	if !errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn("Failed to look up web orders agent", "error", err)
		return actingAdmin
	}

	hashed, err := auth.HashPassword(s.cfg.WebAgentPassword)
	if err != nil {
		s.logger.Error("Failed to hash web orders agent password", "error", err)
		return actingAdmin
	}

	agent = models.NewUser(s.cfg.WebAgentName, s.cfg.WebAgentEmail, hashed, models.RoleAgent)
	agent.Phone = "0000000000"
	agent.Address = "System"

	if err := s.users.Create(ctx, agent); err != nil {
		s.logger.Error("Failed to create web orders agent", "error", err)
		return actingAdmin
	}

	return agent
}

// resolveItems builds the line items for a group, creating unknown
// products on the fly. Rows without a product name are skipped.
func (s *ImportService) resolveItems(ctx context.Context, rows []ImportRow) (models.OrderItems, float64) {
	var items models.OrderItems
	var total float64

	for _, row := range rows {
		if row.ProductName == "" {
			continue
		}

		price, err := strconv.ParseFloat(strings.TrimSpace(row.ProductPrice), 64)
		if err != nil {
			price = 0
		}
		quantity, err := strconv.Atoi(strings.TrimSpace(row.Quantity))
		if err != nil || quantity == 0 {
			quantity = 1
		}

		product, err := s.products.GetByName(ctx, row.ProductName)
		if err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				s.logger.Warn("Failed to look up product", "error", err, "name", row.ProductName)
				continue
			}
			product = models.NewProduct(row.ProductName, price, 0, models.UnitGram, "Imported")
			if err := s.products.Create(ctx, product); err != nil {
				s.logger.Warn("Failed to create product", "error", err, "name", row.ProductName)
				continue
			}
		}

		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			ProductName: row.ProductName,
			Quantity:    quantity,
			UnitPrice:   price,
		})
		total += price * float64(quantity)
	}

	return items, total
}

// derivePaymentStatus defaults to COD and promotes to Paid when the raw
// payment-method text mentions a prepaid keyword.
func derivePaymentStatus(paymentMethod string) models.PaymentStatus {
	lower := strings.ToLower(paymentMethod)
	for _, keyword := range paidKeywords {
		if strings.Contains(lower, keyword) {
			return models.PaymentStatusPaid
		}
	}
	return models.PaymentStatusCOD
}
