package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/moeedrafique/cea/internal/models"
)

// MemberService covers registration and the admin-side member
// lifecycle: approval, activation, suspension
type MemberService struct {
	db *gorm.DB
}

func NewMemberService(db *gorm.DB) *MemberService {
	return &MemberService{db: db}
}

// RegistrationSubmission is one signup form: the member identity
// fields plus the registration fee payment
type RegistrationSubmission struct {
	Member           models.Member
	AmountPaid       float64
	SubmissionMethod models.SubmissionMethod
	PaymentID        *uint
}

// SubmitRegistration creates the member and their new-registration fee
// in one transaction and returns the application ID stamped on the
// member record
func (s *MemberService) SubmitRegistration(ctx context.Context, sub RegistrationSubmission) (string, error) {
	var applicationID string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		member := sub.Member
		member.ID = 0
		member.IsApproved = false
		member.Status = models.MemberStatusPending

		if err := tx.Create(&member).Error; err != nil {
			return err
		}

		id, err := NextApplicationID(tx, models.FeeTypeNewRegistration, time.Now())
		if err != nil {
			return err
		}
		member.ApplicationID = &id
		if err := tx.Save(&member).Error; err != nil {
			return err
		}

		fee := models.Fee{
			MemberID:         member.ID,
			FeeType:          models.FeeTypeNewRegistration,
			SubmissionMethod: sub.SubmissionMethod,
			AmountSubmitted:  sub.AmountPaid,
			AmountRemaining:  SignupFee - sub.AmountPaid,
			PaymentID:        sub.PaymentID,
			RenewalDate:      time.Now(),
		}
		if sub.SubmissionMethod == models.SubmissionMethodCash {
			tid := NextTransactionID()
			fee.TransactionID = &tid
		}
		if err := tx.Create(&fee).Error; err != nil {
			return err
		}

		applicationID = id
		return nil
	})
	if err != nil {
		return "", classifyTxError(err, "CNIC or application ID")
	}
	return applicationID, nil
}

// SetApproval records the admin's member and registration-payment
// verdicts and derives the member status: both approved activates,
// neither suspends, anything else stays pending. First approval stamps
// JoinedAt and an activation always carries a fresh expiry date.
func (s *MemberService) SetApproval(ctx context.Context, memberID uint, memberApproved, paymentApproved bool) (*models.Member, error) {
	var member models.Member

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&member, memberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ReferenceNotFoundError{Entity: "member", ID: memberID}
			}
			return err
		}

		var fee models.Fee
		hasFee := true
		err := tx.Where("member_id = ? AND fee_type = ?", memberID, models.FeeTypeNewRegistration).
			First(&fee).Error
		if err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			hasFee = false
		}

		member.IsApproved = memberApproved
		if hasFee {
			fee.IsApproved = paymentApproved
			if err := tx.Save(&fee).Error; err != nil {
				return err
			}
		}

		switch {
		case memberApproved && paymentApproved:
			member.Status = models.MemberStatusActive
		case !memberApproved && !paymentApproved:
			member.Status = models.MemberStatusSuspended
		default:
			member.Status = models.MemberStatusPending
		}

		if member.Status == models.MemberStatusActive {
			if member.JoinedAt == nil {
				now := time.Now()
				member.JoinedAt = &now
			}
			till := MembershipTill(*member.JoinedAt)
			member.MemberTill = &till
		}

		return tx.Save(&member).Error
	})
	if err != nil {
		return nil, classifyTxError(err, "CNIC")
	}
	return &member, nil
}

// ToggleStatus flips an active member to suspended, or re-activates a
// suspended/pending member provided both the member and the
// registration payment have been approved
func (s *MemberService) ToggleStatus(ctx context.Context, memberID uint) (*models.Member, error) {
	var member models.Member

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&member, memberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ReferenceNotFoundError{Entity: "member", ID: memberID}
			}
			return err
		}

		if member.Status == models.MemberStatusActive {
			member.Status = models.MemberStatusSuspended
			return tx.Save(&member).Error
		}

		var fee models.Fee
		paymentApproved := false
		err := tx.Where("member_id = ? AND fee_type = ?", memberID, models.FeeTypeNewRegistration).
			First(&fee).Error
		if err == nil {
			paymentApproved = fee.IsApproved
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		if !member.IsApproved || !paymentApproved {
			return NewValidationError("member", "member or payment is not approved")
		}

		if member.JoinedAt == nil {
			now := time.Now()
			member.JoinedAt = &now
		}
		till := MembershipTill(*member.JoinedAt)
		member.MemberTill = &till
		member.Status = models.MemberStatusActive
		return tx.Save(&member).Error
	})
	if err != nil {
		return nil, classifyTxError(err, "CNIC")
	}
	return &member, nil
}

// GetMember loads one member with their location references
func (s *MemberService) GetMember(ctx context.Context, memberID uint) (*models.Member, error) {
	var member models.Member
	err := s.db.WithContext(ctx).
		Preload("District").Preload("Tehsil").
		First(&member, memberID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ReferenceNotFoundError{Entity: "member", ID: memberID}
		}
		return nil, err
	}
	return &member, nil
}

// ListMembers returns all members for the admin listing
func (s *MemberService) ListMembers(ctx context.Context) ([]models.Member, error) {
	var members []models.Member
	err := s.db.WithContext(ctx).
		Preload("District").Preload("Tehsil").
		Order("created_at desc").
		Find(&members).Error
	return members, err
}

// DeleteMember soft-deletes a member; fees and change requests cascade
// at the database level on a hard delete and are otherwise retained for
// audit
func (s *MemberService) DeleteMember(ctx context.Context, memberID uint) error {
	res := s.db.WithContext(ctx).Delete(&models.Member{}, memberID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return &ReferenceNotFoundError{Entity: "member", ID: memberID}
	}
	return nil
}
