package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Worker payment types
const (
	PaymentSalary   = "salary"
	PaymentBonus    = "bonus"
	PaymentAdvance  = "advance"
	PaymentOvertime = "overtime"
	PaymentOther    = "other"
)

// ValidPaymentType reports whether t is a known payment type
func ValidPaymentType(t string) bool {
	switch t {
	case PaymentSalary, PaymentBonus, PaymentAdvance, PaymentOvertime, PaymentOther:
		return true
	}
	return false
}

// WorkerPayment records a payroll disbursement to a staff member
type WorkerPayment struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	WorkerID    uint            `gorm:"not null;index" json:"worker_id"`
	Worker      *User           `gorm:"foreignKey:WorkerID" json:"worker,omitempty"`
	Amount      decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"amount"`
	PaymentDate time.Time       `gorm:"not null" json:"payment_date"`
	PaymentType string          `gorm:"not null;default:'salary'" json:"payment_type"`
	Notes       string          `json:"notes"`
	PaidByID    uint            `gorm:"not null" json:"paid_by_id"` // manager who processed this payment
	PaidBy      *User           `gorm:"foreignKey:PaidByID" json:"paid_by,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`
}

// TableName specifies the table name for the WorkerPayment model
func (WorkerPayment) TableName() string {
	return "worker_payments"
}
