package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/moeedrafique/cea/internal/models"
	"github.com/moeedrafique/cea/internal/services"
)

const geoCacheTTL = 6 * time.Hour

// LookupHandler serves the reference lookups backing the signup and
// renewal forms. Geo results barely change, so they are cached in Redis.
type LookupHandler struct {
	db    *gorm.DB
	cache *services.RedisCache
}

func NewLookupHandler(db *gorm.DB, cache *services.RedisCache) *LookupHandler {
	return &LookupHandler{db: db, cache: cache}
}

type geoEntry struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

// ListDistricts returns all districts
func (h *LookupHandler) ListDistricts(c echo.Context) error {
	ctx := c.Request().Context()

	districts, err := services.GetOrSet(h.cache, ctx, "geo:districts", geoCacheTTL, func() ([]geoEntry, error) {
		var rows []models.District
		if err := h.db.WithContext(ctx).Order("name asc").Find(&rows).Error; err != nil {
			return nil, err
		}
		entries := make([]geoEntry, 0, len(rows))
		for _, d := range rows {
			entries = append(entries, geoEntry{ID: d.ID, Name: d.Name})
		}
		return entries, nil
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"districts": districts})
}

// ListTehsils returns the tehsils of one district
func (h *LookupHandler) ListTehsils(c echo.Context) error {
	districtID, err := paramID(c, "id")
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	key := fmt.Sprintf("geo:district:%d:tehsils", districtID)
	tehsils, err := services.GetOrSet(h.cache, ctx, key, geoCacheTTL, func() ([]geoEntry, error) {
		var rows []models.Tehsil
		if err := h.db.WithContext(ctx).
			Where("district_id = ?", districtID).
			Order("name asc").
			Find(&rows).Error; err != nil {
			return nil, err
		}
		entries := make([]geoEntry, 0, len(rows))
		for _, t := range rows {
			entries = append(entries, geoEntry{ID: t.ID, Name: t.Name})
		}
		return entries, nil
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"tehsils": tehsils})
}

type tehsilMapEntry struct {
	Name        string  `json:"name"`
	District    string  `json:"district"`
	Latitude    float64 `json:"latitude"`
	Longitude   float64 `json:"longitude"`
	MemberCount int64   `json:"member_count"`
}

// TehsilsMap returns the map markers for the membership coverage map:
// every tehsil with known coordinates and at least one active member,
// with its active-member count
func (h *LookupHandler) TehsilsMap(c echo.Context) error {
	ctx := c.Request().Context()

	var tehsils []models.Tehsil
	if err := h.db.WithContext(ctx).
		Preload("District").
		Where("latitude IS NOT NULL AND longitude IS NOT NULL").
		Order("name asc").
		Find(&tehsils).Error; err != nil {
		return err
	}

	type countRow struct {
		TehsilID uint
		N        int64
	}
	var counts []countRow
	if err := h.db.WithContext(ctx).Model(&models.Member{}).
		Select("tehsil_id, count(*) as n").
		Where("status = ? AND tehsil_id IS NOT NULL", models.MemberStatusActive).
		Group("tehsil_id").
		Scan(&counts).Error; err != nil {
		return err
	}
	membersByTehsil := make(map[uint]int64, len(counts))
	for _, row := range counts {
		membersByTehsil[row.TehsilID] = row.N
	}

	entries := make([]tehsilMapEntry, 0, len(tehsils))
	for _, tehsil := range tehsils {
		n := membersByTehsil[tehsil.ID]
		if n == 0 {
			continue
		}
		entries = append(entries, tehsilMapEntry{
			Name:        tehsil.Name,
			District:    tehsil.District.Name,
			Latitude:    *tehsil.Latitude,
			Longitude:   *tehsil.Longitude,
			MemberCount: n,
		})
	}

	return c.JSON(http.StatusOK, echo.Map{"tehsils": entries})
}

// ListPaymentMethods returns the configured ways fees can be submitted
func (h *LookupHandler) ListPaymentMethods(c echo.Context) error {
	var payments []models.Payment
	if err := h.db.WithContext(c.Request().Context()).Find(&payments).Error; err != nil {
		return err
	}
	return c.JSON(http.StatusOK, echo.Map{"payment_details": payments})
}
