package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoyaltyPointsPerOrder is the flat award per qualifying order,
// regardless of order size beyond the threshold
const LoyaltyPointsPerOrder = 1

// LoyaltyMinimumSpend is the minimum online order total that qualifies
// for a point award
var LoyaltyMinimumSpend = decimal.NewFromInt(700)

// LoyaltyAward records a point grant for one order. The unique index on
// OrderID makes the at-most-once guarantee a storage constraint instead
// of a check-then-act lookup.
type LoyaltyAward struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OrderID   uint      `gorm:"uniqueIndex;not null" json:"order_id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Points    int       `gorm:"not null" json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName specifies the table name for the LoyaltyAward model
func (LoyaltyAward) TableName() string {
	return "loyalty_awards"
}
