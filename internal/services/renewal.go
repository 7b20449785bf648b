package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/moeedrafique/cea/internal/models"
)

// Fee amounts in PKR
const (
	RenewalFee = 7000.00
	SignupFee  = 45000.00
)

// RenewalService is the transactional entry point for membership
// renewal submissions
type RenewalService struct {
	db *gorm.DB
}

func NewRenewalService(db *gorm.DB) *RenewalService {
	return &RenewalService{db: db}
}

// RenewalSubmission carries the payment details and proposed field
// edits from one renewal form
type RenewalSubmission struct {
	AmountPaid       float64
	SubmissionMethod models.SubmissionMethod
	PaymentID        *uint

	// Fields maps editable field names to submitted new values.
	// Absent or empty entries leave the field untouched.
	Fields map[string]string
}

// SubmitRenewal creates the renewal fee, refreshes the member's expiry
// date, diffs the submitted fields against the live record and persists
// the resulting change request, all inside one transaction. It returns
// the application ID assigned to the change request.
//
// Any failure rolls the whole submission back; an application ID or
// CNIC collision is reported as a UniquenessViolationError, everything
// else as a TransactionAbortedError.
func (s *RenewalService) SubmitRenewal(ctx context.Context, memberID uint, sub RenewalSubmission) (string, error) {
	var applicationID string

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var member models.Member
		if err := tx.Preload("District").Preload("Tehsil").First(&member, memberID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ReferenceNotFoundError{Entity: "member", ID: memberID}
			}
			return err
		}
		if member.JoinedAt == nil {
			return NewValidationError("member", "membership has not been approved yet")
		}

		now := time.Now()

		fee := models.Fee{
			MemberID:         member.ID,
			FeeType:          models.FeeTypeRenewal,
			SubmissionMethod: sub.SubmissionMethod,
			AmountSubmitted:  sub.AmountPaid,
			AmountRemaining:  RenewalFee - sub.AmountPaid,
			PaymentID:        sub.PaymentID,
			RenewalDate:      now,
		}
		if sub.SubmissionMethod == models.SubmissionMethodCash {
			tid := NextTransactionID()
			fee.TransactionID = &tid
		}
		if err := tx.Create(&fee).Error; err != nil {
			return err
		}

		// Pre-renewal refresh anchored at the original join date. The
		// review step recomputes against the review timestamp once the
		// request is approved.
		till := MembershipTill(*member.JoinedAt)
		member.MemberTill = &till
		if err := tx.Save(&member).Error; err != nil {
			return err
		}

		changes, district, tehsil, err := BuildChangeSet(tx, &member, sub.Fields)
		if err != nil {
			return err
		}

		id, err := NextApplicationID(tx, fee.FeeType, now)
		if err != nil {
			return err
		}

		request := models.ChangeRequest{
			ApplicationID:   &id,
			MemberID:        member.ID,
			FeeID:           fee.ID,
			ProposedChanges: changes,
			SubmissionDate:  now,
		}
		stageSubmittedFields(&request, &member, sub.Fields)
		if district != nil {
			request.NewDistrictID = &district.ID
		} else {
			request.NewDistrictID = member.DistrictID
		}
		if tehsil != nil {
			request.NewTehsilID = &tehsil.ID
		} else {
			request.NewTehsilID = member.TehsilID
		}

		if err := tx.Create(&request).Error; err != nil {
			return err
		}

		applicationID = id
		return nil
	})
	if err != nil {
		return "", classifyTxError(err, "application ID")
	}
	return applicationID, nil
}

// stageSubmittedFields copies every editable field onto the change
// request's staged slots, falling back to the member's current value
// when the field was not submitted
func stageSubmittedFields(request *models.ChangeRequest, member *models.Member, submitted map[string]string) {
	for _, f := range memberFields {
		value := strings.TrimSpace(submitted[f.name])
		if value == "" {
			value = f.get(member)
		}
		f.stage(request, value)
	}
}
