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

// ProductRepository handles database operations for products
type ProductRepository struct {
	db     *database.Database
	logger logger.Logger
}

// NewProductRepository creates a new ProductRepository
func NewProductRepository(db *database.Database, logger logger.Logger) *ProductRepository {
	return &ProductRepository{
		db:     db,
		logger: logger,
	}
}

const productColumns = `id, name, price, weight, unit, description, active, created_at, updated_at`

// Create inserts a new product
func (r *ProductRepository) Create(ctx context.Context, product *models.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := r.db.DB.ExecContext(
		ctx,
		query,
		product.ID,
		product.Name,
		product.Price,
		product.Weight,
		product.Unit,
		product.Description,
		product.Active,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create product", "error", err, "productID", product.ID)
		return fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return nil
}

// GetByID retrieves a product by its ID
func (r *ProductRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := r.db.DB.GetContext(ctx, &product,
		`SELECT `+productColumns+` FROM products WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get product by ID", "error", err, "productID", id)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &product, nil
}

// GetByName retrieves a product by its name, the natural key used for
// import dedup. The newest match wins if names were ever duplicated.
func (r *ProductRepository) GetByName(ctx context.Context, name string) (*models.Product, error) {
	var product models.Product
	err := r.db.DB.GetContext(ctx, &product,
		`SELECT `+productColumns+` FROM products WHERE name = $1 ORDER BY created_at DESC LIMIT 1`, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		r.logger.Error("Failed to get product by name", "error", err, "name", name)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return &product, nil
}

// ListActive retrieves all active products; soft-deleted ones are excluded.
func (r *ProductRepository) ListActive(ctx context.Context) ([]*models.Product, error) {
	var products []*models.Product
	err := r.db.DB.SelectContext(ctx, &products,
		`SELECT `+productColumns+` FROM products WHERE active = TRUE ORDER BY name`)
	if err != nil {
		r.logger.Error("Failed to list products", "error", err)
		return nil, fmt.Errorf("%w: %v", ErrDatabase, err)
	}

	return products, nil
}

// Update updates an existing product
func (r *ProductRepository) Update(ctx context.Context, product *models.Product) error {
	query := `
		UPDATE products
		SET name = $1, price = $2, weight = $3, unit = $4, description = $5,
			active = $6, updated_at = $7
		WHERE id = $8
	`

	result, err := r.db.DB.ExecContext(
		ctx,
		query,
		product.Name,
		product.Price,
		product.Weight,
		product.Unit,
		product.Description,
		product.Active,
		models.GetCurrentTime(),
		product.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update product", "error", err, "productID", product.ID)
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

// Deactivate soft-deletes a product; it stays referenceable by old orders.
func (r *ProductRepository) Deactivate(ctx context.Context, id string) error {
	result, err := r.db.DB.ExecContext(ctx,
		`UPDATE products SET active = FALSE, updated_at = $1 WHERE id = $2`,
		models.GetCurrentTime(), id)
	if err != nil {
		r.logger.Error("Failed to deactivate product", "error", err, "productID", id)
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
