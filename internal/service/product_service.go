package service

import (
	"context"
	"errors"

	"github.com/gayanfadna-spec/OMS-backend/internal/models"
	"github.com/gayanfadna-spec/OMS-backend/internal/repository"
	apperrors "github.com/gayanfadna-spec/OMS-backend/pkg/errors"
	"github.com/gayanfadna-spec/OMS-backend/pkg/logger"
)

// ProductService manages the product catalog.
type ProductService struct {
	products ProductStore
	logger   logger.Logger
}

// NewProductService creates a new ProductService
func NewProductService(products ProductStore, logger logger.Logger) *ProductService {
	return &ProductService{products: products, logger: logger}
}

// CreateProductRequest carries the fields for a new product.
type CreateProductRequest struct {
	Name        string      `json:"name"`
	Price       float64     `json:"price"`
	Weight      float64     `json:"weight"`
	Unit        models.Unit `json:"unit"`
	Description string      `json:"description"`
}

// CreateProduct adds a product to the catalog. Super admin only.
func (s *ProductService) CreateProduct(ctx context.Context, actor *models.User, req CreateProductRequest) (*models.Product, error) {
	if !actor.IsSuperAdmin() {
		return nil, apperrors.NewForbiddenError("not authorized to create products")
	}
	if req.Name == "" {
		return nil, apperrors.NewInvalidInputError("product name is required")
	}
	if req.Price < 0 {
		return nil, apperrors.NewInvalidInputError("product price cannot be negative")
	}

	product := models.NewProduct(req.Name, req.Price, req.Weight, req.Unit, req.Description)
	if err := s.products.Create(ctx, product); err != nil {
		s.logger.Error("Failed to create product", "error", err)
		return nil, apperrors.NewInternalError("failed to create product")
	}

	s.logger.Info("Product created", "productID", product.ID, "name", product.Name)
	return product, nil
}

// GetProduct fetches one product by id.
func (s *ProductService) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	product, err := s.products.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewNotFoundError("product not found")
		}
		s.logger.Error("Failed to get product", "error", err, "productID", id)
		return nil, apperrors.NewInternalError("failed to load product")
	}
	return product, nil
}

// ListProducts returns the active catalog.
func (s *ProductService) ListProducts(ctx context.Context) ([]*models.Product, error) {
	products, err := s.products.ListActive(ctx)
	if err != nil {
		s.logger.Error("Failed to list products", "error", err)
		return nil, apperrors.NewInternalError("failed to list products")
	}
	return products, nil
}

// UpdateProductRequest patches a product; nil fields are untouched.
type UpdateProductRequest struct {
	Name        *string      `json:"name"`
	Price       *float64     `json:"price"`
	Weight      *float64     `json:"weight"`
	Unit        *models.Unit `json:"unit"`
	Description *string      `json:"description"`
}

// UpdateProduct applies a partial update. Super admin only.
func (s *ProductService) UpdateProduct(ctx context.Context, actor *models.User, id string, req UpdateProductRequest) (*models.Product, error) {
	if !actor.IsSuperAdmin() {
		return nil, apperrors.NewForbiddenError("not authorized to update products")
	}

	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Price != nil {
		if *req.Price < 0 {
			return nil, apperrors.NewInvalidInputError("product price cannot be negative")
		}
		product.Price = *req.Price
	}
	if req.Weight != nil {
		product.Weight = *req.Weight
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.Description != nil {
		product.Description = *req.Description
	}
	product.UpdatedAt = models.GetCurrentTime()

	if err := s.products.Update(ctx, product); err != nil {
		s.logger.Error("Failed to update product", "error", err, "productID", id)
		return nil, apperrors.NewInternalError("failed to update product")
	}

	return product, nil
}

// DeleteProduct deactivates a product so historical orders keep their
// snapshot. Admin only.
func (s *ProductService) DeleteProduct(ctx context.Context, actor *models.User, id string) error {
	if !actor.IsElevated() {
		return apperrors.NewForbiddenError("not authorized to delete products")
	}

	if err := s.products.Deactivate(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NewNotFoundError("product not found")
		}
		s.logger.Error("Failed to deactivate product", "error", err, "productID", id)
		return apperrors.NewInternalError("failed to delete product")
	}

	s.logger.Info("Product deactivated", "productID", id, "deletedBy", actor.ID)
	return nil
}
