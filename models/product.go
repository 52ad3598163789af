package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Pricing types
const (
	PricingFixed = "fixed"  // price per unit, stock counted in units
	PricingPerKg = "per_kg" // price per kilogram, stock tracked in kg
)

// Product types
const (
	ProductFood    = "food"
	ProductDrink   = "drink"
	ProductDessert = "dessert"
)

// Category groups products on the menu
type Category struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `json:"description"`
	IsActive    bool           `gorm:"not null;default:true" json:"is_active"`
	Products    []Product      `gorm:"foreignKey:CategoryID" json:"products,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Category model
func (Category) TableName() string {
	return "categories"
}

// Product is a catalog entry. For weight-based products the price is per
// kilogram and StockQuantity is tracked in kilograms; otherwise the price
// is fixed per item and stock is a unit count.
type Product struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"not null" json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
	PricingType   string          `gorm:"not null;default:'fixed'" json:"pricing_type"` // fixed, per_kg
	ProductType   string          `gorm:"not null;default:'food'" json:"product_type"`  // food, drink, dessert
	StockQuantity decimal.Decimal `gorm:"type:decimal(10,3);not null;default:0" json:"stock_quantity"`
	CategoryID    uint            `gorm:"not null;index" json:"category_id"`
	Category      *Category       `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	ImageS3Key    *string         `json:"image_s3_key,omitempty"`
	ImageURL      *string         `gorm:"-" json:"image_url,omitempty"` // computed field, presigned URL for image
	IsActive      bool            `gorm:"not null;default:true" json:"is_active"`
	Show          bool            `gorm:"not null;default:true" json:"show"`
	IsSpicy       bool            `gorm:"not null;default:false" json:"is_spicy"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	DeletedAt     gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Product model
func (Product) TableName() string {
	return "products"
}

// IsWeightBased reports whether the product is priced and stocked by weight.
// Only food items can be weight-based.
func (p *Product) IsWeightBased() bool {
	return p.PricingType == PricingPerKg && p.ProductType == ProductFood
}

// CalculatePrice returns the price for a quantity or weight of this product
func (p *Product) CalculatePrice(quantity int, weightKg *decimal.Decimal) decimal.Decimal {
	if p.IsWeightBased() && weightKg != nil {
		return p.Price.Mul(*weightKg)
	}
	return p.Price.Mul(decimal.NewFromInt(int64(quantity)))
}
