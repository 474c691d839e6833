package pricing_test

import (
	"testing"

	"ms-storefront/internal/models"
	"ms-storefront/internal/pricing"

	"github.com/stretchr/testify/assert"
)

func TestCartTotal(t *testing.T) {
	items := []models.CartItem{
		{Quantity: 2, Price: 50, Fees: 5},
		{Quantity: 3, Price: 19.99, Fees: 0.01},
	}

	assert.Equal(t, 170.0, pricing.CartTotal(items))
	assert.Equal(t, 0.0, pricing.CartTotal(nil))
}

func TestIssuedTotal(t *testing.T) {
	items := []models.CartItem{
		{Quantity: 2, Price: 50, Fees: 5},
		{Quantity: 1, Price: 80, Fees: 8},
	}

	assert.Equal(t, 55.0, pricing.IssuedTotal(items, []int{1, 0}))
	assert.Equal(t, 198.0, pricing.IssuedTotal(items, []int{2, 1}))
	assert.Equal(t, 110.0, pricing.IssuedTotal(items, []int{2}))
}

func TestResaleFees(t *testing.T) {
	assert.Equal(t, 6.0, pricing.RoyaltyFee(120, pricing.DefaultRoyaltyPercentage))
	assert.Equal(t, 1.23, pricing.RoyaltyFee(24.6, 5))
	assert.Equal(t, 12.0, pricing.ServiceFee(120))
	assert.Equal(t, 0.33, pricing.ServiceFee(3.33))
}
