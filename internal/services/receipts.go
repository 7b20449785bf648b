package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/moeedrafique/cea/internal/models"
)

// Receipt is the data a fee receipt is rendered from. The PDF itself
// is produced downstream.
type Receipt struct {
	Member         models.Member `json:"member"`
	ApplicationID  string        `json:"application_id"`
	SubmissionDate time.Time     `json:"submission_date"`
	Fee            models.Fee    `json:"fee"`
}

// RenewalReceipt assembles the receipt for a member's most recent
// renewal. Both the change request and its fee must be approved.
func (s *RenewalService) RenewalReceipt(ctx context.Context, memberID uint) (*Receipt, error) {
	db := s.db.WithContext(ctx)

	var member models.Member
	if err := db.Preload("District").Preload("Tehsil").First(&member, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ReferenceNotFoundError{Entity: "member", ID: memberID}
		}
		return nil, err
	}

	var request models.ChangeRequest
	err := db.Preload("Fee").
		Where("member_id = ?", memberID).
		Order("submission_date desc").
		First(&request).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("member", "no change request found for this member")
		}
		return nil, err
	}
	if !request.IsApproved {
		return nil, NewValidationError("member", "the change request has not been approved")
	}
	if !request.Fee.IsApproved {
		return nil, NewValidationError("member", "the fee has not been approved")
	}

	applicationID := ""
	if request.ApplicationID != nil {
		applicationID = *request.ApplicationID
	}
	return &Receipt{
		Member:         member,
		ApplicationID:  applicationID,
		SubmissionDate: request.SubmissionDate,
		Fee:            request.Fee,
	}, nil
}

// RegistrationReceipt assembles the receipt for a member's original
// registration. The member and the registration fee must be approved.
func (s *MemberService) RegistrationReceipt(ctx context.Context, memberID uint) (*Receipt, error) {
	db := s.db.WithContext(ctx)

	var member models.Member
	if err := db.Preload("District").Preload("Tehsil").First(&member, memberID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ReferenceNotFoundError{Entity: "member", ID: memberID}
		}
		return nil, err
	}
	if !member.IsApproved {
		return nil, NewValidationError("member", "the member has not been approved")
	}

	var fee models.Fee
	err := db.Where("member_id = ? AND fee_type = ?", memberID, models.FeeTypeNewRegistration).
		First(&fee).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NewValidationError("member", "no registration fee found for this member")
		}
		return nil, err
	}
	if !fee.IsApproved {
		return nil, NewValidationError("member", "the fee has not been approved")
	}

	applicationID := ""
	if member.ApplicationID != nil {
		applicationID = *member.ApplicationID
	}
	return &Receipt{
		Member:         member,
		ApplicationID:  applicationID,
		SubmissionDate: member.CreatedAt,
		Fee:            fee,
	}, nil
}
