package models

import (
	"time"

	"gorm.io/gorm"
)

// FeeType classifies what a fee pays for
type FeeType string

const (
	FeeTypeNewRegistration          FeeType = "new registration"
	FeeTypeRenewal                  FeeType = "renewal"
	FeeTypeChangeOfInformation      FeeType = "change of information"
	FeeTypeTransferOfOwnership      FeeType = "transfer of ownership"
	FeeTypeTransferOfOwnershipDeath FeeType = "transfer of ownership (death of original owner)"
)

// SubmissionMethod is how the fee amount was handed over
type SubmissionMethod string

const (
	SubmissionMethodCash         SubmissionMethod = "cash"
	SubmissionMethodBankTransfer SubmissionMethod = "bank_transfer"
)

// Fee is a single payment obligation of a member
type Fee struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`

	MemberID uint `gorm:"index" json:"member_id"`

	FeeType          FeeType          `gorm:"type:varchar(50)" json:"fee_type"`
	SubmissionMethod SubmissionMethod `gorm:"type:varchar(50)" json:"submission_method"`
	AmountSubmitted  float64          `gorm:"type:decimal(10,2)" json:"amount_submitted"`
	AmountRemaining  float64          `gorm:"type:decimal(10,2)" json:"amount_remaining"`

	// TransactionID is required for cash submissions and generated server-side
	TransactionID *string `gorm:"type:varchar(255)" json:"transaction_id"`

	PaymentID *uint    `json:"payment_id"`
	Payment   *Payment `gorm:"foreignKey:PaymentID" json:"payment,omitempty"`

	RenewalDate time.Time `json:"renewal_date"`
	IsApproved  bool      `gorm:"default:false" json:"is_approved"`

	// Relationships
	Member Member `gorm:"foreignKey:MemberID" json:"member,omitempty"`
}
