package models

import (
	"time"

	"gorm.io/gorm"
)

// User represents a customer or staff member in the system
type User struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Auth0ID       string         `gorm:"uniqueIndex;not null" json:"auth0_id"` // Auth0 user ID (from 'sub' claim)
	Name          string         `gorm:"not null" json:"name"`
	Email         string         `gorm:"uniqueIndex;not null" json:"email"`
	PhoneNumber   string         `json:"phone_number"`
	Role          Role           `gorm:"not null;default:'customer'" json:"role"`
	LoyaltyPoints int            `gorm:"not null;default:0" json:"loyalty_points"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the User model
func (User) TableName() string {
	return "users"
}

// LoyaltyTier returns the tier derived from the user's current point count.
// Tiers are never stored; they are recomputed whenever displayed.
func (u *User) LoyaltyTier() string {
	return TierForPoints(u.LoyaltyPoints)
}

// TierForPoints maps a loyalty point count to a tier label
func TierForPoints(points int) string {
	switch {
	case points >= 100:
		return "Gold"
	case points >= 60:
		return "Silver"
	case points >= 35:
		return "Bronze"
	default:
		return "Member"
	}
}
