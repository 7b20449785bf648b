package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/moeedrafique/cea/internal/models"
)

func submitRegistration(t *testing.T, db *gorm.DB, amount float64) (string, models.Member) {
	t.Helper()

	district, tehsil := seedGeo(t, db)
	svc := NewMemberService(db)
	appID, err := svc.SubmitRegistration(context.Background(), RegistrationSubmission{
		Member: models.Member{
			FullName:   "Raja Tariq",
			FatherName: "Raja Bashir",
			CNIC:       "8210155555555",
			DOB:        time.Date(1975, time.March, 3, 0, 0, 0, 0, time.UTC),
			Gender:     models.GenderMale,
			NICType:    models.NICTypeCNIC,
			DistrictID: &district.ID,
			TehsilID:   &tehsil.ID,
		},
		AmountPaid:       amount,
		SubmissionMethod: models.SubmissionMethodCash,
	})
	require.NoError(t, err)

	var member models.Member
	require.NoError(t, db.Where("cnic = ?", "8210155555555").First(&member).Error)
	return appID, member
}

func TestSubmitRegistration(t *testing.T) {
	db := newTestDB(t)
	appID, member := submitRegistration(t, db, 20000)

	assert.True(t, strings.HasPrefix(appID, "PK-CEAAJK-NRG-"), "got %s", appID)
	require.NotNil(t, member.ApplicationID)
	assert.Equal(t, appID, *member.ApplicationID)
	assert.Equal(t, models.MemberStatusPending, member.Status)
	assert.False(t, member.IsApproved)
	assert.Nil(t, member.JoinedAt)

	var fee models.Fee
	require.NoError(t, db.Where("member_id = ?", member.ID).First(&fee).Error)
	assert.Equal(t, models.FeeTypeNewRegistration, fee.FeeType)
	assert.Equal(t, 20000.0, fee.AmountSubmitted)
	assert.Equal(t, 25000.0, fee.AmountRemaining)
	require.NotNil(t, fee.TransactionID)
	assert.Len(t, *fee.TransactionID, 16)
}

func TestSubmitRegistrationDuplicateCNIC(t *testing.T) {
	db := newTestDB(t)
	submitRegistration(t, db, SignupFee)

	_, err := NewMemberService(db).SubmitRegistration(context.Background(), RegistrationSubmission{
		Member:           models.Member{FullName: "Someone Else", CNIC: "8210155555555"},
		AmountPaid:       SignupFee,
		SubmissionMethod: models.SubmissionMethodCash,
	})

	var uv *UniquenessViolationError
	require.ErrorAs(t, err, &uv)
}

func TestSetApprovalActivatesAndStampsJoinedAtOnce(t *testing.T) {
	db := newTestDB(t)
	_, member := submitRegistration(t, db, SignupFee)
	svc := NewMemberService(db)

	updated, err := svc.SetApproval(context.Background(), member.ID, true, true)
	require.NoError(t, err)

	assert.Equal(t, models.MemberStatusActive, updated.Status)
	assert.True(t, updated.IsApproved)
	require.NotNil(t, updated.JoinedAt)
	require.NotNil(t, updated.MemberTill)
	assert.True(t, MembershipTill(*updated.JoinedAt).Equal(*updated.MemberTill))

	var fee models.Fee
	require.NoError(t, db.Where("member_id = ?", member.ID).First(&fee).Error)
	assert.True(t, fee.IsApproved)

	// Re-approving must not move the join date.
	firstJoined := *updated.JoinedAt
	updated, err = svc.SetApproval(context.Background(), member.ID, true, true)
	require.NoError(t, err)
	require.NotNil(t, updated.JoinedAt)
	assert.True(t, firstJoined.Equal(*updated.JoinedAt))
}

func TestSetApprovalStatusDerivation(t *testing.T) {
	tests := []struct {
		name            string
		memberApproved  bool
		paymentApproved bool
		want            models.MemberStatus
	}{
		{"both approved", true, true, models.MemberStatusActive},
		{"neither approved", false, false, models.MemberStatusSuspended},
		{"member only", true, false, models.MemberStatusPending},
		{"payment only", false, true, models.MemberStatusPending},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			db := newTestDB(t)
			_, member := submitRegistration(t, db, SignupFee)

			updated, err := NewMemberService(db).SetApproval(context.Background(), member.ID, tc.memberApproved, tc.paymentApproved)
			require.NoError(t, err)
			assert.Equal(t, tc.want, updated.Status)
		})
	}
}

func TestToggleStatusSuspendsActiveMember(t *testing.T) {
	db := newTestDB(t)
	member := seedApprovedMember(t, db)
	svc := NewMemberService(db)

	updated, err := svc.ToggleStatus(context.Background(), member.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MemberStatusSuspended, updated.Status)
}

func TestToggleStatusReactivationNeedsApprovals(t *testing.T) {
	db := newTestDB(t)
	_, member := submitRegistration(t, db, SignupFee)
	svc := NewMemberService(db)

	// Pending member with an unapproved payment cannot be activated.
	_, err := svc.ToggleStatus(context.Background(), member.ID)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = svc.SetApproval(context.Background(), member.ID, true, true)
	require.NoError(t, err)
	_, err = svc.ToggleStatus(context.Background(), member.ID)
	require.NoError(t, err)

	updated, err := svc.ToggleStatus(context.Background(), member.ID)
	require.NoError(t, err)
	assert.Equal(t, models.MemberStatusActive, updated.Status)
	require.NotNil(t, updated.MemberTill)
}

func TestDeleteMember(t *testing.T) {
	db := newTestDB(t)
	member := seedApprovedMember(t, db)
	svc := NewMemberService(db)

	require.NoError(t, svc.DeleteMember(context.Background(), member.ID))

	_, err := svc.GetMember(context.Background(), member.ID)
	var rnf *ReferenceNotFoundError
	require.ErrorAs(t, err, &rnf)

	// Soft delete keeps the row for audit.
	var count int64
	require.NoError(t, db.Unscoped().Model(&models.Member{}).
		Where("id = ?", member.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)

	err = svc.DeleteMember(context.Background(), member.ID)
	require.ErrorAs(t, err, &rnf)
}

func TestRegistrationReceipt(t *testing.T) {
	db := newTestDB(t)
	_, member := submitRegistration(t, db, SignupFee)
	svc := NewMemberService(db)

	// Unapproved registrations have no receipt.
	_, err := svc.RegistrationReceipt(context.Background(), member.ID)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = svc.SetApproval(context.Background(), member.ID, true, true)
	require.NoError(t, err)

	receipt, err := svc.RegistrationReceipt(context.Background(), member.ID)
	require.NoError(t, err)
	require.NotNil(t, member.ApplicationID)
	assert.Equal(t, *member.ApplicationID, receipt.ApplicationID)
	assert.Equal(t, models.FeeTypeNewRegistration, receipt.Fee.FeeType)
	assert.Equal(t, member.ID, receipt.Member.ID)
}

func TestRenewalReceipt(t *testing.T) {
	db := newTestDB(t)
	member := seedApprovedMember(t, db)
	request := submitRenewalRequest(t, db, member.ID, map[string]string{
		FieldPriMob: "03119876543",
	})
	svc := NewRenewalService(db)

	// No receipt while the review is still open.
	_, err := svc.RenewalReceipt(context.Background(), member.ID)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)

	_, err = NewReviewService(db).Review(context.Background(), request.ID, ReviewAction{
		ApproveChanges: true,
		ApprovePayment: true,
	})
	require.NoError(t, err)

	receipt, err := svc.RenewalReceipt(context.Background(), member.ID)
	require.NoError(t, err)
	require.NotNil(t, request.ApplicationID)
	assert.Equal(t, *request.ApplicationID, receipt.ApplicationID)
	assert.Equal(t, models.FeeTypeRenewal, receipt.Fee.FeeType)
}
