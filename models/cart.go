package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Cart holds a registered user's pending selections. One cart per user.
type Cart struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;uniqueIndex" json:"user_id"`
	User      *User          `gorm:"foreignKey:UserID" json:"-"`
	Items     []CartItem     `gorm:"foreignKey:CartID" json:"items"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Cart model
func (Cart) TableName() string {
	return "carts"
}

// TotalPrice sums the line totals of all items at live product prices.
// Cart totals are advisory; the order total is fixed at checkout.
func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for i := range c.Items {
		total = total.Add(c.Items[i].TotalPrice())
	}
	return total
}

// TotalQuantity sums the item quantities in the cart
func (c *Cart) TotalQuantity() int {
	total := 0
	for i := range c.Items {
		total += c.Items[i].Quantity
	}
	return total
}

// CartItem is one product selection in a cart. WeightKg is set only for
// weight-based products.
type CartItem struct {
	ID                  uint             `gorm:"primaryKey" json:"id"`
	CartID              uint             `gorm:"not null;index" json:"cart_id"`
	ProductID           uint             `gorm:"not null;index" json:"product_id"`
	Product             *Product         `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity            int              `gorm:"not null;default:1;check:quantity > 0" json:"quantity"`
	WeightKg            *decimal.Decimal `gorm:"type:decimal(10,3)" json:"weight_kg,omitempty"`
	SpecialInstructions string           `json:"special_instructions"`
	CreatedAt           time.Time        `json:"created_at"`
	UpdatedAt           time.Time        `json:"updated_at"`
}

// TableName specifies the table name for the CartItem model
func (CartItem) TableName() string {
	return "cart_items"
}

// TotalPrice computes the line total at the product's current price
func (ci *CartItem) TotalPrice() decimal.Decimal {
	if ci.Product == nil {
		return decimal.Zero
	}
	return ci.Product.CalculatePrice(ci.Quantity, ci.WeightKg)
}
