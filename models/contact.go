package models

import (
	"time"

	"gorm.io/gorm"
)

// Contact submission types
const (
	ContactGeneral     = "general"
	ContactReservation = "reservation"
	ContactCatering    = "catering"
	ContactComplaint   = "complaint"
	ContactCompliment  = "compliment"
	ContactSuggestion  = "suggestion"
	ContactOther       = "other"
)

// Contact submission statuses
const (
	ContactStatusNew        = "new"
	ContactStatusInProgress = "in_progress"
	ContactStatusResolved   = "resolved"
	ContactStatusClosed     = "closed"
)

// ValidContactType reports whether t is a known contact type
func ValidContactType(t string) bool {
	switch t {
	case ContactGeneral, ContactReservation, ContactCatering,
		ContactComplaint, ContactCompliment, ContactSuggestion, ContactOther:
		return true
	}
	return false
}

// ValidContactStatus reports whether s is a known contact status
func ValidContactStatus(s string) bool {
	switch s {
	case ContactStatusNew, ContactStatusInProgress, ContactStatusResolved, ContactStatusClosed:
		return true
	}
	return false
}

// ContactSubmission is a message sent through the public contact form
type ContactSubmission struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	FullName     string         `gorm:"not null" json:"full_name"`
	Email        string         `gorm:"not null" json:"email"`
	Phone        string         `json:"phone"`
	Subject      string         `gorm:"not null" json:"subject"`
	Message      string         `gorm:"not null" json:"message"`
	ContactType  string         `gorm:"not null;default:'general'" json:"contact_type"`
	Status       string         `gorm:"not null;default:'new';index" json:"status"`
	AdminNotes   string         `json:"admin_notes"`
	AdminResponse string        `json:"admin_response"`
	AssignedToID *uint          `json:"assigned_to_id,omitempty"`
	AssignedTo   *User          `gorm:"foreignKey:AssignedToID" json:"assigned_to,omitempty"`
	IPAddress    string         `json:"ip_address"`
	UserAgent    string         `json:"user_agent"`
	ResolvedAt   *time.Time     `json:"resolved_at,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for the ContactSubmission model
func (ContactSubmission) TableName() string {
	return "contact_submissions"
}
