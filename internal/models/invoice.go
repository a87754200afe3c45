package models

import (
	"time"

	"medicore/internal/domain"
)

// Invoice is never deleted; settlement and voiding only move its status
// forward (PENDING -> PAID | VOID) via guarded updates.
type Invoice struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	PatientID   uint       `gorm:"not null;index" json:"patient_id"`
	AmountCents int64      `gorm:"not null" json:"amount_cents"`
	Description string     `gorm:"size:255" json:"description"`
	ServiceDate time.Time  `gorm:"not null" json:"service_date"`
	Status      string     `gorm:"size:20;not null;index" json:"status"` // PENDING, PAID, VOID
	DueAt       time.Time  `json:"due_at"`
	PaidAt      *time.Time `json:"paid_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	Patient Patient `gorm:"foreignKey:PatientID" json:"-"`
}

func (Invoice) TableName() string {
	return "invoices"
}

func (i *Invoice) Open() bool {
	return i.Status == domain.InvoiceStatusPending
}
