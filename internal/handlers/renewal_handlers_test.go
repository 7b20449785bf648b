package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/moeedrafique/cea/internal/middleware"
	"github.com/moeedrafique/cea/internal/models"
	"github.com/moeedrafique/cea/internal/services"
)

func newTestEnv(t *testing.T) (*echo.Echo, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cea.db")), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	require.NoError(t, services.AutoMigrate(db))

	e := echo.New()
	e.HTTPErrorHandler = middleware.CustomErrorHandler

	renewals := NewRenewalHandler(services.NewRenewalService(db))
	e.POST("/members/:id/renewals", renewals.SubmitRenewal)
	e.GET("/admin/receipts/renewal/:id", renewals.RenewalReceipt)

	fees := NewFeeHandler(services.NewFeeService(db))
	e.POST("/members/:id/fees", fees.SubmitFee)

	// nil cache: lookups fall through to the database
	lookups := NewLookupHandler(db, nil)
	e.GET("/districts", lookups.ListDistricts)
	e.GET("/districts/:id/tehsils", lookups.ListTehsils)
	e.GET("/tehsils-map", lookups.TehsilsMap)

	return e, db
}

func seedActiveMember(t *testing.T, db *gorm.DB) models.Member {
	t.Helper()

	joined := time.Date(2023, time.May, 1, 0, 0, 0, 0, time.UTC)
	till := services.MembershipTill(joined)
	member := models.Member{
		FullName:   "Muhammad Aslam",
		CNIC:       "8210112345671",
		PriMob:     "03001234567",
		IsApproved: true,
		Status:     models.MemberStatusActive,
		JoinedAt:   &joined,
		MemberTill: &till,
	}
	require.NoError(t, db.Create(&member).Error)
	return member
}

func formatUint(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}

func postForm(e *echo.Echo, path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestSubmitRenewalEndpoint(t *testing.T) {
	e, db := newTestEnv(t)
	member := seedActiveMember(t, db)

	rec := postForm(e, "/members/"+formatUint(member.ID)+"/renewals", url.Values{
		"submission_method": {"cash"},
		"amount_paid":       {"2000"},
		"new_pri_mob":       {"03119876543"},
	})

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "success", body["status"])
	appID, _ := body["application_id"].(string)
	assert.True(t, strings.HasPrefix(appID, "PK-CEAAJK-RNW-"), "got %s", appID)
	assert.Contains(t, body["message"], appID)

	var request models.ChangeRequest
	require.NoError(t, db.Where("member_id = ?", member.ID).First(&request).Error)
	assert.Equal(t, "03119876543", request.ProposedChanges["pri_mob"].New)
}

func TestSubmitRenewalEndpointValidation(t *testing.T) {
	e, db := newTestEnv(t)
	member := seedActiveMember(t, db)

	rec := postForm(e, "/members/"+formatUint(member.ID)+"/renewals", url.Values{
		"submission_method": {"carrier pigeon"},
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "error", body["status"])
	assert.Equal(t, "validation", body["category"])
	errs, _ := body["errors"].(map[string]interface{})
	assert.Contains(t, errs, "submission_method")
}

func TestSubmitRenewalEndpointUnknownMember(t *testing.T) {
	e, _ := newTestEnv(t)

	rec := postForm(e, "/members/404/renewals", url.Values{
		"submission_method": {"cash"},
		"amount_paid":       {"7000"},
	})

	require.Equal(t, http.StatusNotFound, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "reference_not_found", body["category"])
}

func TestSubmitRenewalEndpointBadID(t *testing.T) {
	e, _ := newTestEnv(t)

	rec := postForm(e, "/members/abc/renewals", url.Values{
		"submission_method": {"cash"},
	})

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "request", body["category"])
}
