package service

import (
	"context"
	"errors"

	"github.com/gayanfadna-spec/OMS-backend/internal/models"
	"github.com/gayanfadna-spec/OMS-backend/internal/repository"
	"github.com/gayanfadna-spec/OMS-backend/pkg/auth"
	apperrors "github.com/gayanfadna-spec/OMS-backend/pkg/errors"
	"github.com/gayanfadna-spec/OMS-backend/pkg/logger"
)

// CustomerService manages the customer directory.
type CustomerService struct {
	customers CustomerStore
	users     UserStore
	logger    logger.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customers CustomerStore, users UserStore, logger logger.Logger) *CustomerService {
	return &CustomerService{customers: customers, users: users, logger: logger}
}

// CreateCustomerRequest carries the fields for a new customer.
type CreateCustomerRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Phone2  string `json:"phone2"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
	Email   string `json:"email"`
}

// CreateCustomer registers a customer. The primary phone is the natural
// key; a duplicate phone is rejected.
func (s *CustomerService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*models.Customer, error) {
	if req.Name == "" || req.Phone == "" {
		return nil, apperrors.NewInvalidInputError("name and phone are required")
	}

	customer := models.NewCustomer(req.Name, req.Phone, req.Address)
	customer.Phone2 = req.Phone2
	customer.City = req.City
	customer.Email = req.Email
	if req.Country != "" {
		customer.Country = req.Country
	}

	if err := s.customers.Create(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflictError("customer with this phone already exists")
		}
		s.logger.Error("Failed to create customer", "error", err)
		return nil, apperrors.NewInternalError("failed to create customer")
	}

	s.logger.Info("Customer created", "customerID", customer.ID)
	return customer, nil
}

// GetCustomer fetches one customer by id.
func (s *CustomerService) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("customer not found")
		}
		s.logger.Error("Failed to get customer", "error", err, "customerID", id)
		return nil, apperrors.NewInternalError("failed to load customer")
	}
	return customer, nil
}

// GetCustomerByPhone looks a customer up by primary phone, order history
// included.
func (s *CustomerService) GetCustomerByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	if phone == "" {
		return nil, apperrors.NewInvalidInputError("phone is required")
	}

	customer, err := s.customers.GetByPhone(ctx, phone)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("customer not found")
		}
		s.logger.Error("Failed to get customer by phone", "error", err)
		return nil, apperrors.NewInternalError("failed to load customer")
	}
	return customer, nil
}

// ListCustomers returns all customers.
func (s *CustomerService) ListCustomers(ctx context.Context) ([]*models.Customer, error) {
	customers, err := s.customers.List(ctx)
	if err != nil {
		s.logger.Error("Failed to list customers", "error", err)
		return nil, apperrors.NewInternalError("failed to list customers")
	}
	return customers, nil
}

// UpdateCustomerRequest patches a customer; nil fields are untouched.
type UpdateCustomerRequest struct {
	Name    *string `json:"name"`
	Phone   *string `json:"phone"`
	Phone2  *string `json:"phone2"`
	Address *string `json:"address"`
	City    *string `json:"city"`
	Country *string `json:"country"`
	Email   *string `json:"email"`
}

// UpdateCustomer applies a partial update.
func (s *CustomerService) UpdateCustomer(ctx context.Context, id string, req UpdateCustomerRequest) (*models.Customer, error) {
	customer, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Phone != nil {
		customer.Phone = *req.Phone
	}
	if req.Phone2 != nil {
		customer.Phone2 = *req.Phone2
	}
	if req.Address != nil {
		customer.Address = *req.Address
	}
	if req.City != nil {
		customer.City = *req.City
	}
	if req.Country != nil {
		customer.Country = *req.Country
	}
	if req.Email != nil {
		customer.Email = *req.Email
	}
	customer.UpdatedAt = models.GetCurrentTime()

	if err := s.customers.Update(ctx, customer); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewConflictError("customer with this phone already exists")
		}
		s.logger.Error("Failed to update customer", "error", err, "customerID", id)
		return nil, apperrors.NewInternalError("failed to update customer")
	}

	return customer, nil
}

// DeleteCustomer removes one customer. Admin only.
func (s *CustomerService) DeleteCustomer(ctx context.Context, actor *models.User, id string) error {
	if !actor.IsElevated() {
		return apperrors.NewForbiddenError("not authorized to delete customers")
	}

	if err := s.customers.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFoundError("customer not found")
		}
		s.logger.Error("Failed to delete customer", "error", err, "customerID", id)
		return apperrors.NewInternalError("failed to delete customer")
	}

	s.logger.Info("Customer deleted", "customerID", id, "deletedBy", actor.ID)
	return nil
}

// BulkDeleteCustomers removes every customer. Super admin only, with the
// actor's own password confirmed.
func (s *CustomerService) BulkDeleteCustomers(ctx context.Context, actor *models.User, password string) (int64, error) {
	if !actor.IsSuperAdmin() {
		return 0, apperrors.NewForbiddenError("not authorized to bulk delete customers")
	}

	if password == "" {
		return 0, apperrors.NewInvalidInputError("password is required for deletion")
	}
	stored, err := s.users.GetByID(ctx, actor.ID)
	if err != nil {
		return 0, apperrors.NewInternalError("failed to load user")
	}
	if !auth.CheckPassword(stored.Password, password) {
		return 0, apperrors.NewAuthFailedError("invalid password, deletion denied")
	}

	deleted, err := s.customers.DeleteAll(ctx)
	if err != nil {
		s.logger.Error("Failed to bulk delete customers", "error", err)
		return 0, apperrors.NewInternalError("failed to delete customers")
	}

	s.logger.Warn("All customers deleted", "count", deleted, "deletedBy", actor.ID)
	return deleted, nil
}
