package service

import (
	"context"
	"time"

	"github.com/gayanfadna-spec/OMS-backend/internal/models"
	"github.com/gayanfadna-spec/OMS-backend/internal/repository"
)

// In-memory store fakes. They mirror the repository semantics closely
// enough for service tests: repository sentinel errors, wildcard filter
// matching, and the create/update outbox piggyback.

type fakeOrderStore struct {
	orders map[string]*models.Order
	ids    []string
	outbox []*models.OutboxMessage

	failWith error
}

func newFakeOrderStore() *fakeOrderStore {
	return &fakeOrderStore{orders: make(map[string]*models.Order)}
}

func (s *fakeOrderStore) Create(_ context.Context, order *models.Order, msg *models.OutboxMessage) error {
	if s.failWith != nil {
		return s.failWith
	}
	s.orders[order.ID] = order
	s.ids = append(s.ids, order.ID)
	if msg != nil {
		s.outbox = append(s.outbox, msg)
	}
	return nil
}

func (s *fakeOrderStore) GetByID(_ context.Context, id string) (*models.Order, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	order, ok := s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return order, nil
}

func (s *fakeOrderStore) Update(_ context.Context, order *models.Order, msg *models.OutboxMessage) error {
	if s.failWith != nil {
		return s.failWith
	}
	if _, ok := s.orders[order.ID]; !ok {
		return repository.ErrNotFound
	}
	s.orders[order.ID] = order
	if msg != nil {
		s.outbox = append(s.outbox, msg)
	}
	return nil
}

func (s *fakeOrderStore) Delete(_ context.Context, id string) error {
	if _, ok := s.orders[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.orders, id)
	return nil
}

func (s *fakeOrderStore) DeleteAll(context.Context) (int64, error) {
	n := int64(len(s.orders))
	s.orders = make(map[string]*models.Order)
	s.ids = nil
	return n, nil
}

func matchesFilter(order *models.Order, filter models.OrderFilter) bool {
	if filter.From != nil && order.CreatedAt.Before(*filter.From) {
		return false
	}
	if filter.To != nil && order.CreatedAt.After(*filter.To) {
		return false
	}
	if filter.PaymentStatus != "" && filter.PaymentStatus != "All" &&
		string(order.PaymentStatus) != filter.PaymentStatus {
		return false
	}
	if filter.AgentID != "" && filter.AgentID != "All" && order.AgentID != filter.AgentID {
		return false
	}
	return true
}

func (s *fakeOrderStore) List(_ context.Context, filter models.OrderFilter) ([]*models.Order, error) {
	if s.failWith != nil {
		return nil, s.failWith
	}
	var out []*models.Order
	for _, id := range s.ids {
		order, ok := s.orders[id]
		if ok && matchesFilter(order, filter) {
			out = append(out, order)
		}
	}
	return out, nil
}

func (s *fakeOrderStore) Count(context.Context) (int, error) {
	return len(s.orders), nil
}

func (s *fakeOrderStore) SumFinalAmount(_ context.Context, since *time.Time) (float64, error) {
	var sum float64
	for _, order := range s.orders {
		if since != nil && order.CreatedAt.Before(*since) {
			continue
		}
		sum += order.FinalAmount
	}
	return sum, nil
}

func (s *fakeOrderStore) BulkUpdateStatus(_ context.Context, from, to time.Time, status models.OrderStatus, entry models.EditEntry) (int64, error) {
	var n int64
	for _, order := range s.orders {
		if order.CreatedAt.Before(from) || order.CreatedAt.After(to) {
			continue
		}
		order.Status = status
		order.EditedBy = append(order.EditedBy, entry)
		n++
	}
	return n, nil
}

func (s *fakeOrderStore) MarkDispatched(_ context.Context, ids []string) error {
	for _, id := range ids {
		if order, ok := s.orders[id]; ok {
			order.IsDownloaded = true
			order.Status = models.OrderStatusDispatched
		}
	}
	return nil
}

// CountPendingEditRequests follows the repository contract: an empty
// agentID counts across all agents.
func (s *fakeOrderStore) CountPendingEditRequests(_ context.Context, agentID string) (int, error) {
	var n int
	for _, order := range s.orders {
		if !order.EditRequest.Pending {
			continue
		}
		if agentID != "" && order.AgentID != agentID {
			continue
		}
		n++
	}
	return n, nil
}

type fakeCustomerStore struct {
	customers map[string]*models.Customer

	historyErr error
}

func newFakeCustomerStore() *fakeCustomerStore {
	return &fakeCustomerStore{customers: make(map[string]*models.Customer)}
}

func (s *fakeCustomerStore) Create(_ context.Context, customer *models.Customer) error {
	for _, existing := range s.customers {
		if existing.Phone == customer.Phone {
			return repository.ErrDuplicate
		}
	}
	s.customers[customer.ID] = customer
	return nil
}

func (s *fakeCustomerStore) GetByID(_ context.Context, id string) (*models.Customer, error) {
	customer, ok := s.customers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return customer, nil
}

func (s *fakeCustomerStore) GetByPhone(_ context.Context, phone string) (*models.Customer, error) {
	for _, customer := range s.customers {
		if customer.Phone == phone {
			return customer, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeCustomerStore) List(context.Context) ([]*models.Customer, error) {
	out := make([]*models.Customer, 0, len(s.customers))
	for _, customer := range s.customers {
		out = append(out, customer)
	}
	return out, nil
}

func (s *fakeCustomerStore) Update(_ context.Context, customer *models.Customer) error {
	if _, ok := s.customers[customer.ID]; !ok {
		return repository.ErrNotFound
	}
	s.customers[customer.ID] = customer
	return nil
}

func (s *fakeCustomerStore) AppendOrderHistory(_ context.Context, customerID, orderID string) error {
	if s.historyErr != nil {
		return s.historyErr
	}
	customer, ok := s.customers[customerID]
	if !ok {
		return repository.ErrNotFound
	}
	customer.OrderHistory = append(customer.OrderHistory, orderID)
	return nil
}

func (s *fakeCustomerStore) Delete(_ context.Context, id string) error {
	if _, ok := s.customers[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.customers, id)
	return nil
}

func (s *fakeCustomerStore) DeleteAll(context.Context) (int64, error) {
	n := int64(len(s.customers))
	s.customers = make(map[string]*models.Customer)
	return n, nil
}

func (s *fakeCustomerStore) Count(context.Context) (int, error) {
	return len(s.customers), nil
}

type fakeProductStore struct {
	products map[string]*models.Product
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{products: make(map[string]*models.Product)}
}

func (s *fakeProductStore) Create(_ context.Context, product *models.Product) error {
	s.products[product.ID] = product
	return nil
}

func (s *fakeProductStore) GetByID(_ context.Context, id string) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return product, nil
}

func (s *fakeProductStore) GetByName(_ context.Context, name string) (*models.Product, error) {
	for _, product := range s.products {
		if product.Name == name {
			return product, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeProductStore) ListActive(context.Context) ([]*models.Product, error) {
	var out []*models.Product
	for _, product := range s.products {
		if product.Active {
			out = append(out, product)
		}
	}
	return out, nil
}

func (s *fakeProductStore) Update(_ context.Context, product *models.Product) error {
	if _, ok := s.products[product.ID]; !ok {
		return repository.ErrNotFound
	}
	s.products[product.ID] = product
	return nil
}

func (s *fakeProductStore) Deactivate(_ context.Context, id string) error {
	product, ok := s.products[id]
	if !ok {
		return repository.ErrNotFound
	}
	product.Active = false
	return nil
}

type fakeUserStore struct {
	users map[string]*models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*models.User)}
}

func (s *fakeUserStore) add(user *models.User) *models.User {
	s.users[user.ID] = user
	return user
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	for _, existing := range s.users {
		if existing.Email == user.Email {
			return repository.ErrDuplicate
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) GetByID(_ context.Context, id string) (*models.User, error) {
	user, ok := s.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return user, nil
}

func (s *fakeUserStore) GetByIdentifier(_ context.Context, identifier string) (*models.User, error) {
	for _, user := range s.users {
		if user.Email == identifier || (user.Username != "" && user.Username == identifier) {
			return user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeUserStore) GetByNameAndRole(_ context.Context, name string, role models.Role) (*models.User, error) {
	for _, user := range s.users {
		if user.Name == name && user.Role == role {
			return user, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *fakeUserStore) ListByRoles(_ context.Context, roles []models.Role) ([]*models.User, error) {
	var out []*models.User
	for _, user := range s.users {
		for _, role := range roles {
			if user.Role == role {
				out = append(out, user)
				break
			}
		}
	}
	return out, nil
}

func (s *fakeUserStore) NamesByID(_ context.Context, ids []string) (map[string]string, error) {
	names := make(map[string]string)
	for _, id := range ids {
		if user, ok := s.users[id]; ok {
			names[id] = user.Name
		}
	}
	return names, nil
}

func (s *fakeUserStore) Update(_ context.Context, user *models.User) error {
	if _, ok := s.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	s.users[user.ID] = user
	return nil
}

func (s *fakeUserStore) Delete(_ context.Context, id string) error {
	if _, ok := s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

type fakeReportLogStore struct {
	logs []*models.ReportLog
}

func (s *fakeReportLogStore) Create(_ context.Context, log *models.ReportLog) error {
	s.logs = append(s.logs, log)
	return nil
}

func (s *fakeReportLogStore) List(context.Context) ([]*models.ReportLog, error) {
	out := make([]*models.ReportLog, len(s.logs))
	copy(out, s.logs)
	return out, nil
}

type fakeOutboxStore struct {
	messages []*models.OutboxMessage
}

func (s *fakeOutboxStore) Create(_ context.Context, msg *models.OutboxMessage) error {
	s.messages = append(s.messages, msg)
	return nil
}
