// Package pricing does the storefront's money arithmetic in decimal so that
// totals such as 3 x 19.99 come out exact before they are stored.
package pricing

import (
	"github.com/shopspring/decimal"

	"ms-storefront/internal/models"
)

const (
	DefaultRoyaltyPercentage = 5.0
	serviceFeeRate           = "0.10"
)

// LineTotal is (price + fees) * quantity for a single cart line.
func LineTotal(item models.CartItem) decimal.Decimal {
	unit := decimal.NewFromFloat(item.Price).Add(decimal.NewFromFloat(item.Fees))
	return unit.Mul(decimal.NewFromInt(int64(item.Quantity)))
}

// CartTotal sums LineTotal over every item.
func CartTotal(items []models.CartItem) float64 {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(LineTotal(item))
	}
	return total.Round(2).InexactFloat64()
}

// IssuedTotal charges (price + fees) once per issued unit. issued[i] is the
// number of units actually issued for items[i].
func IssuedTotal(items []models.CartItem, issued []int) float64 {
	total := decimal.Zero
	for i, item := range items {
		if i >= len(issued) {
			break
		}
		unit := decimal.NewFromFloat(item.Price).Add(decimal.NewFromFloat(item.Fees))
		total = total.Add(unit.Mul(decimal.NewFromInt(int64(issued[i]))))
	}
	return total.Round(2).InexactFloat64()
}

// RoyaltyFee is price * percentage / 100.
func RoyaltyFee(price, percentage float64) float64 {
	return decimal.NewFromFloat(price).
		Mul(decimal.NewFromFloat(percentage)).
		Div(decimal.NewFromInt(100)).
		Round(2).
		InexactFloat64()
}

// ServiceFee is the marketplace's 10% cut of a resale price.
func ServiceFee(price float64) float64 {
	return decimal.NewFromFloat(price).
		Mul(decimal.RequireFromString(serviceFeeRate)).
		Round(2).
		InexactFloat64()
}
