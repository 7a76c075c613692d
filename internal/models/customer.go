package models

import (
	"time"

	"github.com/lib/pq"
)

// Customer is identified by its primary phone number, the natural key
// used for dedup-or-create during bulk imports.
type Customer struct {
	ID           string         `db:"id" json:"id"`
	Name         string         `db:"name" json:"name"`
	Phone        string         `db:"phone" json:"phone"`
	Phone2       string         `db:"phone2" json:"phone2,omitempty"`
	Address      string         `db:"address" json:"address"`
	City         string         `db:"city" json:"city,omitempty"`
	Country      string         `db:"country" json:"country,omitempty"`
	Email        string         `db:"email" json:"email,omitempty"`
	OrderHistory pq.StringArray `db:"order_history" json:"order_history"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updated_at"`
}

// NewCustomer creates a new customer record.
func NewCustomer(name, phone, address string) *Customer {
	now := GetCurrentTime()

	return &Customer{
		ID:           GenerateID("cus"),
		Name:         name,
		Phone:        phone,
		Address:      address,
		Country:      "Sri Lanka",
		OrderHistory: pq.StringArray{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
