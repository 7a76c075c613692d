package models

import (
	"time"
)

// Unit is the measurement unit a product is sold in
type Unit string

const (
	UnitGram       Unit = "g"
	UnitMilliliter Unit = "ml"
	UnitCapsules   Unit = "capsules"
)

// Product is identified by name, the natural key used for import dedup.
// Inactive products stay referenceable by historical orders.
type Product struct {
	ID          string    `db:"id" json:"id"`
	Name        string    `db:"name" json:"name"`
	Price       float64   `db:"price" json:"price"`
	Weight      float64   `db:"weight" json:"weight"`
	Unit        Unit      `db:"unit" json:"unit"`
	Description string    `db:"description" json:"description,omitempty"`
	Active      bool      `db:"active" json:"active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// NewProduct creates a new active product.
func NewProduct(name string, price, weight float64, unit Unit, description string) *Product {
	now := GetCurrentTime()

	if unit == "" {
		unit = UnitGram
	}

	return &Product{
		ID:          GenerateID("prd"),
		Name:        name,
		Price:       price,
		Weight:      weight,
		Unit:        unit,
		Description: description,
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
