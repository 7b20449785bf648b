package handlers

import (
	"math"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/moeedrafique/cea/internal/models"
)

// DashboardHandler serves the admin dashboard stats
type DashboardHandler struct {
	db *gorm.DB
}

func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

// Dashboard returns member counts by status for the current month with
// month-over-month percentage changes, plus the pending review backlog
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	db := h.db.WithContext(c.Request().Context())

	now := time.Now()
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	previousMonth := currentMonth.AddDate(0, -1, 0)

	count := func(status models.MemberStatus, timeColumn string, from time.Time, to *time.Time) (int64, error) {
		q := db.Model(&models.Member{}).
			Where("status = ?", status).
			Where(timeColumn+" >= ?", from)
		if to != nil {
			q = q.Where(timeColumn+" < ?", *to)
		}
		var n int64
		err := q.Count(&n).Error
		return n, err
	}

	type statLine struct {
		Count            int64   `json:"count"`
		PercentageChange float64 `json:"percentage_change"`
	}
	stats := map[string]statLine{}

	for _, entry := range []struct {
		key        string
		status     models.MemberStatus
		timeColumn string
	}{
		{"active", models.MemberStatusActive, "joined_at"},
		{"pending", models.MemberStatusPending, "created_at"},
		{"suspended", models.MemberStatusSuspended, "joined_at"},
	} {
		current, err := count(entry.status, entry.timeColumn, currentMonth, nil)
		if err != nil {
			return err
		}
		previous, err := count(entry.status, entry.timeColumn, previousMonth, &currentMonth)
		if err != nil {
			return err
		}
		stats[entry.key] = statLine{
			Count:            current,
			PercentageChange: percentageChange(current, previous),
		}
	}

	var pendingRequests int64
	if err := db.Model(&models.ChangeRequest{}).
		Where("is_approved = ? AND is_rejected = ?", false, false).
		Count(&pendingRequests).Error; err != nil {
		return err
	}

	var totalMembers int64
	if err := db.Model(&models.Member{}).Count(&totalMembers).Error; err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{
		"members":          stats,
		"total_members":    totalMembers,
		"pending_requests": pendingRequests,
		"today":            now.Format("2006-01-02"),
	})
}

func percentageChange(current, previous int64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	change := float64(current-previous) / float64(previous) * 100
	return math.Round(change*100) / 100
}
