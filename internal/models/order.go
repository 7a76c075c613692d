package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// OrderStatus represents the fulfillment status of an order
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusDispatched OrderStatus = "Dispatched"
	OrderStatusReturned   OrderStatus = "Returned"
)

// PaymentStatus represents how an order is (to be) paid
type PaymentStatus string

const (
	PaymentStatusCOD    PaymentStatus = "COD"
	PaymentStatusPaid   PaymentStatus = "Paid"
	PaymentStatusExport PaymentStatus = "Export"
)

// OrderItem is one line of an order. ProductName is snapshotted at order
// time so historical orders stay readable if the product is renamed or
// deactivated later.
type OrderItem struct {
	ProductID   string  `json:"product_id"`
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	UnitPrice   float64 `json:"unit_price"`
}

// OrderItems is stored as a JSONB column.
type OrderItems []OrderItem

// Value implements driver.Valuer
func (i OrderItems) Value() (driver.Value, error) {
	if i == nil {
		i = OrderItems{}
	}
	return json.Marshal(i)
}

// Scan implements sql.Scanner
func (i *OrderItems) Scan(src interface{}) error {
	return scanJSON(src, i)
}

// EditEntry is one record of the append-only edit audit trail.
type EditEntry struct {
	AgentID string    `json:"agent_id"`
	At      time.Time `json:"at"`
}

// EditLog is stored as a JSONB column.
type EditLog []EditEntry

// Value implements driver.Valuer
func (l EditLog) Value() (driver.Value, error) {
	if l == nil {
		l = EditLog{}
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner
func (l *EditLog) Scan(src interface{}) error {
	return scanJSON(src, l)
}

// EditRequest is the at-most-one outstanding request an agent can file
// against an order. Last writer wins; any update resolves it.
type EditRequest struct {
	Pending   bool       `json:"pending"`
	Message   string     `json:"message,omitempty"`
	FromID    string     `json:"from_id,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
}

// Value implements driver.Valuer
func (r EditRequest) Value() (driver.Value, error) {
	return json.Marshal(r)
}

// Scan implements sql.Scanner
func (r *EditRequest) Scan(src interface{}) error {
	return scanJSON(src, r)
}

// Order is the central aggregate: items plus reconciled pricing, remarks,
// the edit workflow state, and export tracking.
type Order struct {
	ID               string        `db:"id" json:"id"`
	CustomerID       string        `db:"customer_id" json:"customer_id"`
	AgentID          string        `db:"agent_id" json:"agent_id"`
	Items            OrderItems    `db:"items" json:"items"`
	TotalAmount      float64       `db:"total_amount" json:"total_amount"`
	DiscountAmount   float64       `db:"discount_amount" json:"discount_amount"`
	DeliveryCharge   float64       `db:"delivery_charge" json:"delivery_charge"`
	FinalAmount      float64       `db:"final_amount" json:"final_amount"`
	Remark           string        `db:"remark" json:"remark,omitempty"`
	AdditionalRemark string        `db:"additional_remark" json:"additional_remark,omitempty"`
	Status           OrderStatus   `db:"status" json:"status"`
	PaymentStatus    PaymentStatus `db:"payment_status" json:"payment_status"`
	EditedBy         EditLog       `db:"edited_by" json:"edited_by"`
	EditRequest      EditRequest   `db:"edit_request" json:"edit_request"`
	IsDownloaded     bool          `db:"is_downloaded" json:"is_downloaded"`
	CreatedAt        time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time     `db:"updated_at" json:"updated_at"`
}

// OrderFilter narrows order listings. Empty or "All" values match anything.
type OrderFilter struct {
	From          *time.Time
	To            *time.Time
	PaymentStatus string
	AgentID       string
}

// NewOrder creates a pending order owned by the given agent.
func NewOrder(customerID, agentID string, items OrderItems) *Order {
	now := GetCurrentTime()

	return &Order{
		ID:            GenerateID("ord"),
		CustomerID:    customerID,
		AgentID:       agentID,
		Items:         items,
		Status:        OrderStatusPending,
		PaymentStatus: PaymentStatusCOD,
		EditedBy:      EditLog{},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func scanJSON(src, dst interface{}) error {
	switch v := src.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported scan type %T", src)
	}
}
