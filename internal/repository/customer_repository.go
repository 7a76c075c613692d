package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/gayanfadna-spec/OMS-backend/internal/database"
	"github.com/gayanfadna-spec/OMS-backend/internal/models"
	"github.com/gayanfadna-spec/OMS-backend/pkg/logger"
)

// CustomerRepository handles database operations for customers
type CustomerRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewCustomerRepository creates a new CustomerRepository
func NewCustomerRepository(db *database.Database, logger logger.Logger) *CustomerRepository {
	return &CustomerRepository{
		db:     db,
		logger: logger,
	}
}

const customerColumns = `id, name, phone, phone2, address, city, country, email, order_history, created_at, updated_at`

// Create inserts a new customer. A duplicate phone violates the unique
// constraint and surfaces as ErrDuplicate.
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	query := `
		INSERT INTO customers (` + customerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`

	_, err := r.db.DB.ExecContext(
		ctx,
		query,
		customer.ID,
		customer.Name,
		customer.Phone,
		customer.Phone2,
		customer.Address,
		customer.City,
		customer.Country,
		customer.Email,
		customer.OrderHistory,
		customer.CreatedAt,
		customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		r.logger.Error("Failed to create customer", "error", err, "customerID", customer.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}

// GetByID retrieves a customer by its ID
func (r *CustomerRepository) GetByID(ctx context.Context, id string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.DB.GetContext(ctx, &customer,
		`SELECT `+customerColumns+` FROM customers WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get customer by ID", "error", err, "customerID", id)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &customer, nil
}

// GetByPhone retrieves a customer by its primary phone number.
func (r *CustomerRepository) GetByPhone(ctx context.Context, phone string) (*models.Customer, error) {
	var customer models.Customer
	err := r.db.DB.GetContext(ctx, &customer,
		`SELECT `+customerColumns+` FROM customers WHERE phone = $1`, phone)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get customer by phone", "error", err, "phone", phone)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &customer, nil
}

// List retrieves all customers
func (r *CustomerRepository) List(ctx context.Context) ([]*models.Customer, error) {
	var customers []*models.Customer
	err := r.db.DB.SelectContext(ctx, &customers,
		`SELECT `+customerColumns+` FROM customers ORDER BY created_at DESC`)
	if err != nil {
		r.logger.Error("Failed to list customers", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return customers, nil
}

// Update updates an existing customer
func (r *CustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	query := `
		UPDATE customers
		SET name = $1, phone = $2, phone2 = $3, address = $4, city = $5,
			country = $6, email = $7, updated_at = $8
		WHERE id = $9
	`

	result, err := r.db.DB.ExecContext(
		ctx,
		query,
		customer.Name,
		customer.Phone,
		customer.Phone2,
		customer.Address,
		customer.City,
		customer.Country,
		customer.Email,
		models.GetCurrentTime(),
		customer.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		r.logger.Error("Failed to update customer", "error", err, "customerID", customer.ID)
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

// AppendOrderHistory appends an order reference to the customer's history list.
func (r *CustomerRepository) AppendOrderHistory(ctx context.Context, customerID, orderID string) error {
	query := `
		UPDATE customers
		SET order_history = array_append(order_history, $1), updated_at = $2
		WHERE id = $3
	`

	result, err := r.db.DB.ExecContext(ctx, query, orderID, models.GetCurrentTime(), customerID)
	if err != nil {
		r.logger.Error("Failed to append order history", "error", err, "customerID", customerID, "orderID", orderID)
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

// Delete deletes a customer by its ID
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete customer", "error", err, "customerID", id)
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

// DeleteAll removes every customer and returns the deleted count.
func (r *CustomerRepository) DeleteAll(ctx context.Context) (int64, error) {
	result, err := r.db.DB.ExecContext(ctx, `DELETE FROM customers`)
	if err != nil {
		r.logger.Error("Failed to bulk delete customers", "error", err)
		return 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return result.RowsAffected()
}

// Count counts the total number of customers
func (r *CustomerRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.DB.GetContext(ctx, &count, `SELECT COUNT(*) FROM customers`)
	if err != nil {
		r.logger.Error("Failed to count customers", "error", err)
		return 0, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return count, nil
}
