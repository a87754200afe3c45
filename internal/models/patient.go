package models

import (
	"time"

	"gorm.io/gorm"
)

// Patient is the clinical/billing record. UserID links the record to a
// portal login when the patient has one; walk-ins may have none.
type Patient struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	UserID            *uint          `gorm:"index" json:"user_id"`
	Name              string         `gorm:"size:128;not null" json:"name"`
	Phone             string         `gorm:"size:32" json:"phone"`
	InsuranceProvider string         `gorm:"size:64" json:"insurance_provider"`
	InsuranceMemberNo string         `gorm:"size:64" json:"insurance_member_no"`
	CreatedAt         time.Time      `json:"created_at"`
	UpdatedAt         time.Time      `json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (Patient) TableName() string {
	return "patients"
}
