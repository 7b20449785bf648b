package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/moeedrafique/cea/internal/models"
)

// ReviewService owns the admin review of change requests: the two
// verdict axes (change set, payment), and the apply of approved edits
// back onto the live member record
type ReviewService struct {
	db *gorm.DB
}

func NewReviewService(db *gorm.DB) *ReviewService {
	return &ReviewService{db: db}
}

// ReviewAction is one admin review round. At most one transition per
// axis is honored; rejections need a reason. FieldOverrides lets the
// admin correct a staged new value before approving the change set.
type ReviewAction struct {
	ApproveChanges  bool
	RejectChanges   bool
	RejectionReason string

	ApprovePayment bool
	RejectPayment  bool

	FieldOverrides map[string]string
}

// ReviewResult reports the state after one review round
type ReviewResult struct {
	Request *models.ChangeRequest
	Fee     *models.Fee

	// Applied is true when both axes were approved this round and the
	// proposed edits were copied onto the member record.
	Applied bool

	// Terminal is true when this round ended in a rejection; the
	// review is over and the caller should navigate away.
	Terminal bool
}

// Review executes one admin review round inside a single transaction.
//
// An empty change set approves itself unconditionally. Rejecting either
// axis ends the round immediately without touching the other axis.
// When both axes are approved in the same round, every proposed field
// that still differs from the live value is written through, the prior
// live values are recorded once on the request, and the member's expiry
// date is recomputed from the review timestamp.
func (s *ReviewService) Review(ctx context.Context, requestID uint, action ReviewAction) (*ReviewResult, error) {
	var result ReviewResult

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var request models.ChangeRequest
		if err := tx.Preload("Fee").First(&request, requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &ReferenceNotFoundError{Entity: "change request", ID: requestID}
			}
			return err
		}
		var member models.Member
		if err := tx.Preload("District").Preload("Tehsil").First(&member, request.MemberID).Error; err != nil {
			return err
		}
		fee := request.Fee
		now := time.Now()

		// A rejected request is terminal; later rounds change nothing
		// and the original rejection reason stands.
		if request.IsRejected {
			result = ReviewResult{Request: &request, Fee: &fee, Terminal: true}
			return nil
		}

		// Nothing to decide on an empty change set; it approves itself.
		if len(request.ProposedChanges) == 0 && !request.IsApproved {
			request.IsApproved = true
			request.AdminReviewedAt = &now
		}

		switch {
		case action.RejectChanges:
			if strings.TrimSpace(action.RejectionReason) == "" {
				return NewValidationError("rejection_reason", "a reason is required to reject a change request")
			}
			request.IsApproved = false
			request.IsRejected = true
			request.RejectionReason = action.RejectionReason
			request.AdminReviewedAt = &now
			if err := tx.Save(&request).Error; err != nil {
				return err
			}
			result = ReviewResult{Request: &request, Fee: &fee, Terminal: true}
			return nil

		case action.ApproveChanges:
			for field, value := range action.FieldOverrides {
				change, ok := request.ProposedChanges[field]
				if !ok || strings.TrimSpace(value) == "" {
					continue
				}
				change.New = value
				request.ProposedChanges[field] = change
			}
			request.IsApproved = true
			request.AdminReviewedAt = &now
		}

		if action.RejectPayment {
			fee.IsApproved = false
			if err := tx.Save(&request).Error; err != nil {
				return err
			}
			if err := tx.Save(&fee).Error; err != nil {
				return err
			}
			result = ReviewResult{Request: &request, Fee: &fee, Terminal: true}
			return nil
		}
		if action.ApprovePayment {
			fee.IsApproved = true
		}

		applied := false
		if request.IsApproved && fee.IsApproved {
			previous, err := applyProposedChanges(&request, &member)
			if err != nil {
				return err
			}
			till := MembershipTill(now)
			member.MemberTill = &till
			if err := tx.Save(&member).Error; err != nil {
				return err
			}
			if len(previous) > 0 {
				request.AppliedPreviousValues = previous
			}
			applied = true
		}

		if err := tx.Save(&request).Error; err != nil {
			return err
		}
		if err := tx.Save(&fee).Error; err != nil {
			return err
		}

		result = ReviewResult{Request: &request, Fee: &fee, Applied: applied}
		return nil
	})
	if err != nil {
		return nil, classifyTxError(err, "application ID")
	}
	return &result, nil
}

// applyProposedChanges copies approved edits onto the member record in
// memory and returns the live values each overwritten field had before.
// Fields whose proposed value already matches the live value are left
// alone, which makes a second apply a no-op.
func applyProposedChanges(request *models.ChangeRequest, member *models.Member) (map[string]string, error) {
	previous := map[string]string{}

	for name, change := range request.ProposedChanges {
		switch name {
		case FieldDistrict:
			if request.NewDistrictID == nil {
				continue
			}
			if member.DistrictID == nil || *member.DistrictID != *request.NewDistrictID {
				previous[name] = districtName(member)
				member.DistrictID = request.NewDistrictID
				member.District = nil
			}
		case FieldTehsil:
			if request.NewTehsilID == nil {
				continue
			}
			if member.TehsilID == nil || *member.TehsilID != *request.NewTehsilID {
				previous[name] = tehsilName(member)
				member.TehsilID = request.NewTehsilID
				member.Tehsil = nil
			}
		default:
			f, ok := memberFieldByName(name)
			if !ok || change.New == "" {
				continue
			}
			current := f.get(member)
			if change.New == current {
				continue
			}
			previous[name] = current
			if err := f.set(member, change.New); err != nil {
				return nil, err
			}
		}
	}
	return previous, nil
}

// PendingRequests lists change requests no admin has ruled on yet
func (s *ReviewService) PendingRequests(ctx context.Context) ([]models.ChangeRequest, error) {
	var requests []models.ChangeRequest
	err := s.db.WithContext(ctx).
		Where("is_approved = ? AND is_rejected = ?", false, false).
		Preload("Member").Preload("Fee").
		Order("submission_date asc").
		Find(&requests).Error
	return requests, err
}

// GetRequest loads one change request with its member and fee for the
// review detail view. It never mutates state; auto-approval of empty
// change sets happens when the review round is committed.
func (s *ReviewService) GetRequest(ctx context.Context, requestID uint) (*models.ChangeRequest, error) {
	var request models.ChangeRequest
	err := s.db.WithContext(ctx).
		Preload("Member").Preload("Member.District").Preload("Member.Tehsil").
		Preload("Fee").Preload("NewDistrict").Preload("NewTehsil").
		First(&request, requestID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ReferenceNotFoundError{Entity: "change request", ID: requestID}
		}
		return nil, err
	}
	return &request, nil
}
