package service

import (
	"context"
	"time"

	"github.com/gayanfadna-spec/OMS-backend/internal/models"
)

// The store interfaces below are what the services need from persistence.
// The sqlx repositories satisfy them; tests substitute in-memory fakes.

// OrderStore persists the order aggregate. Create and Update also queue
// the given outbox message in the same transaction when it is non-nil.
type OrderStore interface {
	Create(ctx context.Context, order *models.Order, msg *models.OutboxMessage) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	Update(ctx context.Context, order *models.Order, msg *models.OutboxMessage) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
	List(ctx context.Context, filter models.OrderFilter) ([]*models.Order, error)
	Count(ctx context.Context) (int, error)
	SumFinalAmount(ctx context.Context, since *time.Time) (float64, error)
	BulkUpdateStatus(ctx context.Context, from, to time.Time, status models.OrderStatus, entry models.EditEntry) (int64, error)
	MarkDispatched(ctx context.Context, ids []string) error
	CountPendingEditRequests(ctx context.Context, agentID string) (int, error)
}

// CustomerStore persists customers, keyed naturally by primary phone.
type CustomerStore interface {
	Create(ctx context.Context, customer *models.Customer) error
	GetByID(ctx context.Context, id string) (*models.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*models.Customer, error)
	List(ctx context.Context) ([]*models.Customer, error)
	Update(ctx context.Context, customer *models.Customer) error
	AppendOrderHistory(ctx context.Context, customerID, orderID string) error
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int, error)
}

// ProductStore persists products, keyed naturally by name for import dedup.
type ProductStore interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id string) (*models.Product, error)
	GetByName(ctx context.Context, name string) (*models.Product, error)
	ListActive(ctx context.Context) ([]*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	Deactivate(ctx context.Context, id string) error
}

// UserStore persists operator accounts.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	GetByNameAndRole(ctx context.Context, name string, role models.Role) (*models.User, error)
	ListByRoles(ctx context.Context, roles []models.Role) ([]*models.User, error)
	NamesByID(ctx context.Context, ids []string) (map[string]string, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
}

// ReportLogStore appends and lists export audit records.
type ReportLogStore interface {
	Create(ctx context.Context, log *models.ReportLog) error
	List(ctx context.Context) ([]*models.ReportLog, error)
}

// OutboxStore queues events outside of an order transaction.
type OutboxStore interface {
	Create(ctx context.Context, msg *models.OutboxMessage) error
}
