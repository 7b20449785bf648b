package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/moeedrafique/cea/internal/models"
)

// FeeService handles fee submissions outside the dedicated registration
// and renewal flows: change of information and the two ownership
// transfers
type FeeService struct {
	db *gorm.DB
}

func NewFeeService(db *gorm.DB) *FeeService {
	return &FeeService{db: db}
}

// FeeSubmission is one generic fee form. Unlike registration and
// renewal there is no fixed total for these fee types, so the remaining
// amount is submitted alongside the paid amount.
type FeeSubmission struct {
	FeeType          models.FeeType
	AmountSubmitted  float64
	AmountRemaining  float64
	SubmissionMethod models.SubmissionMethod
	PaymentID        *uint
}

// SubmitFee records a fee for an existing member. The fee type must be
// one of the known types; cash submissions get a generated transaction
// ID. The fee awaits admin approval like any other.
func (s *FeeService) SubmitFee(ctx context.Context, memberID uint, sub FeeSubmission) (*models.Fee, error) {
	if _, ok := feeTypeCodes[sub.FeeType]; !ok {
		return nil, NewValidationError("fee_type", "unknown fee type")
	}
	if sub.AmountSubmitted < 0 || sub.AmountRemaining < 0 {
		return nil, NewValidationError("amount", "amounts must not be negative")
	}

	var fee models.Fee
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var member models.Member
		if err := tx.First(&member, memberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ReferenceNotFoundError{Entity: "member", ID: memberID}
			}
			return err
		}

		fee = models.Fee{
			MemberID:         member.ID,
			FeeType:          sub.FeeType,
			SubmissionMethod: sub.SubmissionMethod,
			AmountSubmitted:  sub.AmountSubmitted,
			AmountRemaining:  sub.AmountRemaining,
			PaymentID:        sub.PaymentID,
			RenewalDate:      time.Now(),
		}
		if sub.SubmissionMethod == models.SubmissionMethodCash {
			tid := NextTransactionID()
			fee.TransactionID = &tid
		}
		return tx.Create(&fee).Error
	})
	if err != nil {
		return nil, classifyTxError(err, "transaction ID")
	}
	return &fee, nil
}
