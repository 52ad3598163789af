package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCanTransitionOrderStatus(t *testing.T) {
	allowed := []struct{ from, to string }{
		{OrderPending, OrderConfirmed},
		{OrderConfirmed, OrderPreparing},
		{OrderPreparing, OrderReady},
		{OrderReady, OrderCompleted},
		{OrderPending, OrderCancelled},
		{OrderConfirmed, OrderCancelled},
		{OrderPreparing, OrderCancelled},
		{OrderReady, OrderCancelled},
	}
	for _, tt := range allowed {
		assert.True(t, CanTransitionOrderStatus(tt.from, tt.to), "%s -> %s should be allowed", tt.from, tt.to)
	}

	rejected := []struct{ from, to string }{
		{OrderPending, OrderPreparing},
		{OrderPending, OrderCompleted},
		{OrderConfirmed, OrderReady},
		{OrderCompleted, OrderPending},
		{OrderCompleted, OrderCancelled},
		{OrderCancelled, OrderConfirmed},
		{OrderReady, OrderPending},
	}
	for _, tt := range rejected {
		assert.False(t, CanTransitionOrderStatus(tt.from, tt.to), "%s -> %s should be rejected", tt.from, tt.to)
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []string{OrderPending, OrderConfirmed, OrderPreparing, OrderReady, OrderCompleted, OrderCancelled} {
		assert.True(t, ValidOrderStatus(s))
	}
	assert.False(t, ValidOrderStatus("shipped"))
	assert.False(t, ValidOrderStatus(""))
}

func TestOrderIsTerminal(t *testing.T) {
	assert.True(t, (&Order{Status: OrderCompleted}).IsTerminal())
	assert.True(t, (&Order{Status: OrderCancelled}).IsTerminal())
	assert.False(t, (&Order{Status: OrderPending}).IsTerminal())
	assert.False(t, (&Order{Status: OrderReady}).IsTerminal())
}

func TestOrderItemTotalPrice(t *testing.T) {
	fixed := OrderItem{
		Quantity:  3,
		UnitPrice: decimal.RequireFromString("10.50"),
	}
	assert.True(t, fixed.TotalPrice().Equal(decimal.RequireFromString("31.50")))

	weight := decimal.RequireFromString("2.5")
	weighed := OrderItem{
		Quantity:  1,
		WeightKg:  &weight,
		UnitPrice: decimal.RequireFromString("4.00"),
	}
	assert.True(t, weighed.TotalPrice().Equal(decimal.RequireFromString("10.00")))
}

func TestOrderFinalTotal(t *testing.T) {
	order := Order{
		TotalAmount: decimal.RequireFromString("100.00"),
		DeliveryFee: DeliveryFee,
	}
	assert.True(t, order.FinalTotal().Equal(decimal.RequireFromString("159.99")))

	pickup := Order{
		TotalAmount: decimal.RequireFromString("100.00"),
		DeliveryFee: decimal.Zero,
	}
	assert.True(t, pickup.FinalTotal().Equal(decimal.RequireFromString("100.00")))
}

func TestProductIsWeightBased(t *testing.T) {
	assert.True(t, (&Product{PricingType: PricingPerKg, ProductType: ProductFood}).IsWeightBased())
	assert.False(t, (&Product{PricingType: PricingPerKg, ProductType: ProductDrink}).IsWeightBased())
	assert.False(t, (&Product{PricingType: PricingFixed, ProductType: ProductFood}).IsWeightBased())
}

func TestProductCalculatePrice(t *testing.T) {
	fixed := Product{
		Price:       decimal.RequireFromString("10.00"),
		PricingType: PricingFixed,
		ProductType: ProductFood,
	}
	assert.True(t, fixed.CalculatePrice(3, nil).Equal(decimal.RequireFromString("30.00")))

	perKg := Product{
		Price:       decimal.RequireFromString("4.00"),
		PricingType: PricingPerKg,
		ProductType: ProductFood,
	}
	weight := decimal.RequireFromString("3.5")
	assert.True(t, perKg.CalculatePrice(1, &weight).Equal(decimal.RequireFromString("14.00")))
}
