package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAnnotateDiscountAppends(t *testing.T) {
	assert.Equal(t, "VIP | Discount Applied: Rs. 200", AnnotateDiscount("VIP", 200))
	assert.Equal(t, "Discount Applied: Rs. 200", AnnotateDiscount("", 200))
}

func TestAnnotateDiscountDecimalAmount(t *testing.T) {
	assert.Equal(t, "VIP | Discount Applied: Rs. 250.5", AnnotateDiscount("VIP", 250.5))
}

func TestAnnotateDiscountIdempotent(t *testing.T) {
	once := AnnotateDiscount("VIP", 200)
	twice := AnnotateDiscount(once, 200)
	assert.Equal(t, once, twice)

	// Changing the discount replaces the fragment instead of stacking.
	changed := AnnotateDiscount(once, 300)
	assert.Equal(t, "VIP | Discount Applied: Rs. 300", changed)
}

func TestAnnotateDiscountZeroStrips(t *testing.T) {
	annotated := AnnotateDiscount("VIP", 200)
	assert.Equal(t, "VIP", AnnotateDiscount(annotated, 0))
	assert.Equal(t, "", AnnotateDiscount("Discount Applied: Rs. 450", 0))
}

func TestStripDiscount(t *testing.T) {
	assert.Equal(t, "VIP", StripDiscount("VIP | Discount Applied: Rs. 200"))
	assert.Equal(t, "VIP", StripDiscount("VIP"))
	assert.Equal(t, "", StripDiscount("Discount Applied: Rs. 99.99"))
	assert.Equal(t, "", StripDiscount(""))
}
