package models

import (
	"time"

	"gorm.io/gorm"
)

// Review is a product review. One review per user per product.
type Review struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	ProductID uint           `gorm:"not null;index;uniqueIndex:idx_reviews_product_user" json:"product_id"`
	Product   *Product       `gorm:"foreignKey:ProductID" json:"-"`
	UserID    uint           `gorm:"not null;index;uniqueIndex:idx_reviews_product_user" json:"user_id"`
	User      *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Rating    int            `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment   string         `json:"comment"`
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the Review model
func (Review) TableName() string {
	return "reviews"
}

// SiteReview is a review of the restaurant itself rather than a product
type SiteReview struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	UserID            *uint          `gorm:"index" json:"user_id"` // nullable, anonymous reviews allowed
	User              *User          `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Rating            int            `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Title             string         `gorm:"not null" json:"title"`
	Comment           string         `gorm:"not null" json:"comment"`
	IsApproved        bool           `gorm:"not null;default:true" json:"is_approved"`
	IsFeatured        bool           `gorm:"not null;default:false" json:"is_featured"`
	IsActive          bool           `gorm:"not null;default:true" json:"is_active"`
	AdminResponse     string         `json:"admin_response"`
	AdminResponseDate *time.Time     `json:"admin_response_date,omitempty"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the SiteReview model
func (SiteReview) TableName() string {
	return "site_reviews"
}
