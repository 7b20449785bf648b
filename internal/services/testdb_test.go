package services

import (
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/moeedrafique/cea/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cea.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return db
}

func formatUint(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func seedGeo(t *testing.T, db *gorm.DB) (models.District, models.Tehsil) {
	t.Helper()

	district := models.District{Name: "Mirpur"}
	require.NoError(t, db.Create(&district).Error)
	tehsil := models.Tehsil{Name: "Dadyal", DistrictID: district.ID}
	require.NoError(t, db.Create(&tehsil).Error)
	return district, tehsil
}

// seedApprovedMember creates an active member who joined 2023-05-01
func seedApprovedMember(t *testing.T, db *gorm.DB) models.Member {
	t.Helper()

	district, tehsil := seedGeo(t, db)

	joined := time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC)
	till := MembershipTill(joined)
	member := models.Member{
		FullName:         "Muhammad Aslam",
		FatherName:       "Muhammad Akram",
		CNIC:             "8210112345671",
		DOB:              time.Date(1980, time.January, 15, 0, 0, 0, 0, time.UTC),
		Gender:           models.GenderMale,
		NICType:          models.NICTypeCNIC,
		CountryOfStay:    "PK",
		PresentAddress:   "Main Bazar, Dadyal",
		PermanentAddress: "Main Bazar, Dadyal",
		DualCitizen:      "no",
		PriMob:           "03001234567",
		Designation:      "Member",
		BusinessName:     "Aslam Currency Exchange",
		BusinessAddress:  "Shop 12, Main Bazar",
		DistrictID:       &district.ID,
		TehsilID:         &tehsil.ID,
		EmployeeNumber:   "EMP-001",
		IsApproved:       true,
		Status:           models.MemberStatusActive,
		JoinedAt:         &joined,
		MemberTill:       &till,
	}
	require.NoError(t, db.Create(&member).Error)
	return member
}
