package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/gayanfadna-spec/OMS-backend/internal/models"
)

func floatPtr(f float64) *float64 { return &f }

func TestItemsTotal(t *testing.T) {
	items := models.OrderItems{
		{ProductName: "Shampoo", Quantity: 3, UnitPrice: 1000},
		{ProductName: "Conditioner", Quantity: 2, UnitPrice: 500},
	}

	assert.Equal(t, 4000.0, ItemsTotal(items))
	assert.Equal(t, 0.0, ItemsTotal(nil))
}

func TestCalculateAboveThreshold(t *testing.T) {
	policy := DefaultPolicy()

	q := policy.Calculate(Input{
		Items: models.OrderItems{{ProductName: "Hair Oil", Quantity: 3, UnitPrice: 1000}},
	})

	assert.Equal(t, 3000.0, q.TotalAmount)
	assert.Equal(t, 0.0, q.DeliveryCharge)
	assert.Equal(t, 3000.0, q.FinalAmount)
}

func TestCalculateBelowThreshold(t *testing.T) {
	policy := DefaultPolicy()

	q := policy.Calculate(Input{
		Items: models.OrderItems{{ProductName: "Hair Oil", Quantity: 2, UnitPrice: 500}},
	})

	assert.Equal(t, 1000.0, q.TotalAmount)
	assert.Equal(t, 350.0, q.DeliveryCharge)
	assert.Equal(t, 1350.0, q.FinalAmount)
}

func TestCalculateFreeDeliveryKeyword(t *testing.T) {
	policy := DefaultPolicy()

	q := policy.Calculate(Input{
		Items: models.OrderItems{{ProductName: "Moist Curl Cream", Quantity: 1, UnitPrice: 100}},
	})

	assert.Equal(t, 100.0, q.TotalAmount)
	assert.Equal(t, 0.0, q.DeliveryCharge)
	assert.Equal(t, 100.0, q.FinalAmount)
}

func TestCalculateManualOverrideWins(t *testing.T) {
	policy := DefaultPolicy()

	// Explicit zero override beats the flat fee.
	q := policy.Calculate(Input{
		Items:            models.OrderItems{{ProductName: "Hair Oil", Quantity: 1, UnitPrice: 100}},
		DeliveryOverride: floatPtr(0),
	})
	assert.Equal(t, 0.0, q.DeliveryCharge)

	// Override also beats the keyword exemption.
	q = policy.Calculate(Input{
		Items:            models.OrderItems{{ProductName: "Moist Curl Cream", Quantity: 1, UnitPrice: 100}},
		DeliveryOverride: floatPtr(500),
	})
	assert.Equal(t, 500.0, q.DeliveryCharge)
	assert.Equal(t, 600.0, q.FinalAmount)
}

func TestCalculateTotalOverride(t *testing.T) {
	policy := DefaultPolicy()

	// Positive override replaces the computed sum; threshold applies to it.
	q := policy.Calculate(Input{
		Items:         models.OrderItems{{ProductName: "Hair Oil", Quantity: 1, UnitPrice: 100}},
		TotalOverride: floatPtr(2600),
	})
	assert.Equal(t, 2600.0, q.TotalAmount)
	assert.Equal(t, 0.0, q.DeliveryCharge)

	// Non-positive override is ignored.
	q = policy.Calculate(Input{
		Items:         models.OrderItems{{ProductName: "Hair Oil", Quantity: 1, UnitPrice: 100}},
		TotalOverride: floatPtr(0),
	})
	assert.Equal(t, 100.0, q.TotalAmount)
}

func TestCalculateDiscount(t *testing.T) {
	policy := DefaultPolicy()

	q := policy.Calculate(Input{
		Items:          models.OrderItems{{ProductName: "Hair Oil", Quantity: 3, UnitPrice: 1000}},
		DiscountAmount: 500,
	})

	assert.Equal(t, 3000.0, q.TotalAmount)
	assert.Equal(t, 2500.0, q.FinalAmount)
}

func TestCalculatePositiveTotalGuard(t *testing.T) {
	policy := DefaultPolicy()

	in := Input{
		Items: models.OrderItems{{ProductName: "Sample", Quantity: 1, UnitPrice: 0}},
	}

	// Create-style quote charges the fee even on a zero total.
	q := policy.Calculate(in)
	assert.Equal(t, 350.0, q.DeliveryCharge)

	// Update-recompute quote waives it when the total is not positive.
	in.RequirePositiveTotal = true
	q = policy.Calculate(in)
	assert.Equal(t, 0.0, q.DeliveryCharge)
}

func TestCalculateDeterministic(t *testing.T) {
	policy := DefaultPolicy()

	in := Input{
		Items: models.OrderItems{
			{ProductName: "Hair Oil", Quantity: 2, UnitPrice: 750},
			{ProductName: "Shampoo", Quantity: 1, UnitPrice: 400},
		},
		DiscountAmount: 100,
	}

	first := policy.Calculate(in)
	second := policy.Calculate(in)
	assert.Equal(t, first, second)

	// Sum is commutative: item order does not matter.
	in.Items = models.OrderItems{in.Items[1], in.Items[0]}
	assert.Equal(t, first, policy.Calculate(in))
}

func TestHasFreeDeliveryItem(t *testing.T) {
	policy := DefaultPolicy()

	assert.True(t, policy.HasFreeDeliveryItem(models.OrderItems{{ProductName: "MOIST CURL cream 200ml"}}))
	assert.False(t, policy.HasFreeDeliveryItem(models.OrderItems{{ProductName: "Curl Cream"}}))
	assert.False(t, policy.HasFreeDeliveryItem(nil))

	custom := Policy{FreeDeliveryKeyword: "", DeliveryThreshold: 2500, DeliveryFee: 350}
	assert.False(t, custom.HasFreeDeliveryItem(models.OrderItems{{ProductName: "Moist Curl"}}))
}
