package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moeedrafique/cea/internal/models"
)

func TestNextApplicationIDFormat(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)

	id, err := NextApplicationID(db, models.FeeTypeRenewal, now)
	require.NoError(t, err)
	assert.Equal(t, "PK-CEAAJK-RNW-2024-0001", id)

	id, err = NextApplicationID(db, models.FeeTypeNewRegistration, now)
	require.NoError(t, err)
	assert.Equal(t, "PK-CEAAJK-NRG-2024-0001", id)
}

func TestNextApplicationIDIncrements(t *testing.T) {
	db := newTestDB(t)
	now := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)

	for i := 1; i <= 3; i++ {
		id, err := NextApplicationID(db, models.FeeTypeRenewal, now)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("PK-CEAAJK-RNW-2024-%04d", i), id)
	}
}

func TestNextApplicationIDSequencesAreIndependent(t *testing.T) {
	db := newTestDB(t)

	id, err := NextApplicationID(db, models.FeeTypeRenewal, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "PK-CEAAJK-RNW-2024-0001", id)

	// A different fee type and a different year each start their own count.
	id, err = NextApplicationID(db, models.FeeTypeChangeOfInformation, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "PK-CEAAJK-ICG-2024-0001", id)

	id, err = NextApplicationID(db, models.FeeTypeRenewal, time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "PK-CEAAJK-RNW-2025-0001", id)
}

func TestNextApplicationIDSeedsFromLegacyIDs(t *testing.T) {
	db := newTestDB(t)
	member := seedApprovedMember(t, db)

	// IDs issued before the sequence table existed live on the records
	// themselves; the sequence must continue from the highest of them.
	legacy := "PK-CEAAJK-RNW-2024-0007"
	fee := models.Fee{MemberID: member.ID, FeeType: models.FeeTypeRenewal, RenewalDate: time.Now()}
	require.NoError(t, db.Create(&fee).Error)
	request := models.ChangeRequest{
		ApplicationID:  &legacy,
		MemberID:       member.ID,
		FeeID:          fee.ID,
		SubmissionDate: time.Now(),
	}
	require.NoError(t, db.Create(&request).Error)

	id, err := NextApplicationID(db, models.FeeTypeRenewal, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "PK-CEAAJK-RNW-2024-0008", id)
}

func TestSeedSequenceRowToleratesExistingRow(t *testing.T) {
	db := newTestDB(t)
	year := 2024

	// A rival submission already seeded and advanced the counter. The
	// losing seed attempt must neither error nor rewind it.
	require.NoError(t, db.Create(&models.ApplicationSequence{
		FeeType:    string(models.FeeTypeRenewal),
		Year:       year,
		LastNumber: 41,
	}).Error)

	require.NoError(t, seedSequenceRow(db, models.FeeTypeRenewal, year, 7))

	var seq models.ApplicationSequence
	require.NoError(t, db.Where("fee_type = ? AND year = ?", models.FeeTypeRenewal, year).First(&seq).Error)
	assert.Equal(t, 41, seq.LastNumber)

	id, err := NextApplicationID(db, models.FeeTypeRenewal, time.Date(year, time.June, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "PK-CEAAJK-RNW-2024-0042", id)
}

func TestNextTransactionID(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := NextTransactionID()
		assert.Len(t, id, 16)
		for _, r := range id {
			assert.True(t, strings.ContainsRune(transactionIDAlphabet, r), "unexpected character %q", r)
		}
		seen[id] = true
	}
	assert.Greater(t, len(seen), 1, "transaction IDs must not repeat deterministically")
}
