package models

import "time"

// Activity log actions
const (
	ActionCreate         = "create"
	ActionUpdate         = "update"
	ActionDelete         = "delete"
	ActionStockAdd       = "stock_add"
	ActionStockReduce    = "stock_reduce"
	ActionOrderStatus    = "order_status"
	ActionPhysicalSale   = "physical_sale"
	ActionLoyaltyAwarded = "loyalty_points_awarded"
	ActionUserLogin      = "user_login"
	ActionUserLogout     = "user_logout"
)

// ActivityLog is an append-only audit trail entry. Rows are never mutated
// or deleted after creation.
type ActivityLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      *uint     `gorm:"index" json:"user_id"` // nullable, system actions have no user
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Action      string    `gorm:"not null;index" json:"action"`
	ModelName   string    `gorm:"not null" json:"model_name"`
	ObjectID    string    `gorm:"index" json:"object_id"`
	Description string    `json:"description"`
	OldValue    string    `json:"old_value"`
	NewValue    string    `json:"new_value"`
	IPAddress   string    `json:"ip_address"`
	CreatedAt   time.Time `gorm:"index" json:"created_at"`
}

// TableName specifies the table name for the ActivityLog model
func (ActivityLog) TableName() string {
	return "activity_logs"
}
