package models

import (
	"time"
)

// ControlNumber is a bank-issued payment reference tied to one invoice.
// At most one row per invoice may be ACTIVE; a reissue flips the old row
// to REISSUED and creates the replacement in the same transaction.
type ControlNumber struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	InvoiceID uint      `gorm:"not null;index" json:"invoice_id"`
	Number    string    `gorm:"size:64;uniqueIndex;not null" json:"number"`
	Status    string    `gorm:"size:20;not null;index" json:"status"` // ACTIVE, CANCELLED, EXPIRED, REISSUED
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Invoice Invoice `gorm:"foreignKey:InvoiceID" json:"-"`
}

func (ControlNumber) TableName() string {
	return "control_numbers"
}
