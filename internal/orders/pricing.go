package orders

import (
	"github.com/shopspring/decimal"

	"github.com/medsup-innovation/medsup-backend/pkg/config"
	"github.com/medsup-innovation/medsup-backend/pkg/db/models"
)

type orderTotals struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Shipping decimal.Decimal
	Total    decimal.Decimal
}

// computeTotals derives the money columns from priced lines. Tax is
// applied to the subtotal and rounded to cents. Shipping is a flat fee
// waived once the subtotal reaches the free shipping threshold.
func computeTotals(items []models.OrderItem, pricing config.PricingConfig) orderTotals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(item.TotalPrice)
	}
	subtotal = subtotal.Round(2)

	tax := subtotal.Mul(pricing.VATRate).Round(2)

	shipping := decimal.Zero
	if subtotal.LessThan(pricing.FreeShippingAbove) {
		shipping = pricing.ShippingFee.Round(2)
	}

	return orderTotals{
		Subtotal: subtotal,
		Tax:      tax,
		Shipping: shipping,
		Total:    subtotal.Add(tax).Add(shipping).Round(2),
	}
}

// lineTotal prices a single line from the unit price snapshot.
func lineTotal(unitPrice decimal.Decimal, quantity int) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2)
}
