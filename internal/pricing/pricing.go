package pricing

import (
	"strings"

	"github.com/gayanfadna-spec/OMS-backend/internal/models"
)

// Policy holds the delivery-charge rules. Values come from configuration
// so tests can inject alternate thresholds and keywords.
type Policy struct {
	FreeDeliveryKeyword string
	DeliveryThreshold   float64
	DeliveryFee         float64
}

// DefaultPolicy returns the production delivery policy.
func DefaultPolicy() Policy {
	return Policy{
		FreeDeliveryKeyword: "moist curl",
		DeliveryThreshold:   2500,
		DeliveryFee:         350,
	}
}

// Input is the raw material for a quote: the item list plus any external
// overrides supplied by the caller.
type Input struct {
	Items          models.OrderItems
	DiscountAmount float64

	// TotalOverride replaces the computed item sum when positive, e.g. an
	// import file's source-of-truth subtotal. Items are still stored as-is.
	TotalOverride *float64

	// DeliveryOverride wins outright when set, including an explicit zero.
	DeliveryOverride *float64

	// RequirePositiveTotal adds the strict total > 0 guard used on the
	// update-recompute path before the flat fee applies.
	RequirePositiveTotal bool
}

// Quote is the reconciled pricing for one order.
type Quote struct {
	TotalAmount    float64
	DeliveryCharge float64
	FinalAmount    float64
}

// ItemsTotal sums unit price times quantity over the item list.
func ItemsTotal(items models.OrderItems) float64 {
	var total float64
	for _, item := range items {
		total += item.UnitPrice * float64(item.Quantity)
	}
	return total
}

// Calculate produces the order totals. It is pure and deterministic:
// identical inputs always yield identical quotes.
func (p Policy) Calculate(in Input) Quote {
	total := ItemsTotal(in.Items)
	if in.TotalOverride != nil && *in.TotalOverride > 0 {
		total = *in.TotalOverride
	}

	var delivery float64
	switch {
	case in.DeliveryOverride != nil:
		delivery = *in.DeliveryOverride
	case p.HasFreeDeliveryItem(in.Items):
		delivery = 0
	case total < p.DeliveryThreshold && (!in.RequirePositiveTotal || total > 0):
		delivery = p.DeliveryFee
	}

	return Quote{
		TotalAmount:    total,
		DeliveryCharge: delivery,
		FinalAmount:    total - in.DiscountAmount + delivery,
	}
}

// HasFreeDeliveryItem reports whether any item's name snapshot matches the
// free-delivery keyword, case-insensitively.
func (p Policy) HasFreeDeliveryItem(items models.OrderItems) bool {
	if p.FreeDeliveryKeyword == "" {
		return false
	}

	keyword := strings.ToLower(p.FreeDeliveryKeyword)
	for _, item := range items {
		if item.ProductName != "" && strings.Contains(strings.ToLower(item.ProductName), keyword) {
			return true
		}
	}
	return false
}
