package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order statuses
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderPreparing = "preparing"
	OrderReady     = "ready"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

// Order types
const (
	OrderOnline  = "online"
	OrderOffline = "offline"
)

// Fulfillment methods
const (
	FulfillmentPickup   = "pickup"
	FulfillmentDelivery = "delivery"
)

// DeliveryFee is the flat surcharge for delivery orders; pickup is free
var DeliveryFee = decimal.NewFromFloat(59.99)

// statusTransitions is the allowed order status graph. Orders move forward
// through the preparation pipeline; cancellation is allowed from any
// non-terminal status. completed and cancelled are terminal.
var statusTransitions = map[string][]string{
	OrderPending:   {OrderConfirmed, OrderCancelled},
	OrderConfirmed: {OrderPreparing, OrderCancelled},
	OrderPreparing: {OrderReady, OrderCancelled},
	OrderReady:     {OrderCompleted, OrderCancelled},
	OrderCompleted: {},
	OrderCancelled: {},
}

// ValidOrderStatus reports whether s is a known order status
func ValidOrderStatus(s string) bool {
	_, ok := statusTransitions[s]
	return ok
}

// CanTransitionOrderStatus reports whether an order may move from one
// status to another
func CanTransitionOrderStatus(from, to string) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order is one checkout transaction. TotalAmount is a snapshot of the sum
// of line totals at creation time and is never recomputed afterward.
type Order struct {
	ID                       uint             `gorm:"primaryKey" json:"id"`
	OrderNumber              string           `gorm:"uniqueIndex;not null" json:"order_number"`
	UserID                   *uint            `gorm:"index" json:"user_id"` // nullable, guest checkout permitted
	User                     *User            `gorm:"foreignKey:UserID" json:"user,omitempty"`
	CustomerName             string           `gorm:"not null" json:"customer_name"`
	CustomerPhone            string           `json:"customer_phone"`
	CustomerEmail            string           `gorm:"index" json:"customer_email"`
	OrderType                string           `gorm:"not null;default:'online'" json:"order_type"`          // online, offline
	FulfillmentMethod        string           `gorm:"not null;default:'pickup'" json:"fulfillment_method"`  // pickup, delivery
	Status                   string           `gorm:"not null;default:'pending';index" json:"status"`
	TotalAmount              decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0" json:"total_amount"`
	DeliveryFee              decimal.Decimal  `gorm:"type:decimal(10,2);not null;default:0" json:"delivery_fee"`
	DeliveryAddress          string           `json:"delivery_address"`
	TableNumber              string           `json:"table_number"` // physical sales only
	Notes                    string           `json:"notes"`
	EstimatedPreparationTime int              `gorm:"not null;default:50" json:"estimated_preparation_time"` // minutes
	ReadyAt                  *time.Time       `json:"ready_at,omitempty"`
	PaymentVerified          bool             `gorm:"not null;default:false" json:"payment_verified"`
	PaymentVerifiedByID      *uint            `json:"payment_verified_by_id,omitempty"`
	PaymentVerifiedBy        *User            `gorm:"foreignKey:PaymentVerifiedByID" json:"payment_verified_by,omitempty"`
	PaymentVerifiedAt        *time.Time       `json:"payment_verified_at,omitempty"`
	PaymentConfirmationS3Key *string          `json:"payment_confirmation_s3_key,omitempty"`
	Items                    []OrderItem      `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt                time.Time        `json:"created_at"`
	UpdatedAt                time.Time        `json:"updated_at"`
	DeletedAt                gorm.DeletedAt   `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// FinalTotal is the order total plus the delivery fee
func (o *Order) FinalTotal() decimal.Decimal {
	return o.TotalAmount.Add(o.DeliveryFee)
}

// IsTerminal reports whether the order is in a terminal status
func (o *Order) IsTerminal() bool {
	return o.Status == OrderCompleted || o.Status == OrderCancelled
}

// OrderItem is a priced snapshot of one product within one order.
// UnitPrice is captured at order time and never recomputed from the
// product's live price. Items are immutable after creation.
type OrderItem struct {
	ID                  uint             `gorm:"primaryKey" json:"id"`
	OrderID             uint             `gorm:"not null;index" json:"order_id"`
	ProductID           uint             `gorm:"not null;index" json:"product_id"`
	Product             *Product         `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	ProductName         string           `gorm:"not null" json:"product_name"` // snapshot, survives catalog edits
	Quantity            int              `gorm:"not null;check:quantity > 0" json:"quantity"`
	WeightKg            *decimal.Decimal `gorm:"type:decimal(10,3)" json:"weight_kg,omitempty"`
	UnitPrice           decimal.Decimal  `gorm:"type:decimal(10,2);not null" json:"unit_price"`
	SpecialInstructions string           `json:"special_instructions"`
	CreatedAt           time.Time        `json:"created_at"`
}

// TableName specifies the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// TotalPrice is the line total: weight x unit price for weight-based
// items, else quantity x unit price
func (oi *OrderItem) TotalPrice() decimal.Decimal {
	if oi.WeightKg != nil {
		return oi.WeightKg.Mul(oi.UnitPrice)
	}
	return decimal.NewFromInt(int64(oi.Quantity)).Mul(oi.UnitPrice)
}
