package models

import (
	"time"

	"gorm.io/gorm"
)

// Payment describes a way fees can be submitted (a bank account, or cash at the office)
type Payment struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	SubmissionMethod SubmissionMethod `gorm:"type:varchar(50)" json:"submission_method"`
	Title            string           `gorm:"type:varchar(255)" json:"title"`

	// Bank transfer specific fields
	BankName      string `gorm:"type:varchar(255)" json:"bank_name"`
	AccountNumber string `gorm:"type:varchar(50)" json:"account_number"`
	IBAN          string `gorm:"type:varchar(50)" json:"iban"`
}
