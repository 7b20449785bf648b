package tasks

import (
	"context"
	"errors"
	"log"
	"time"

	"gorm.io/gorm"

	"github.com/moeedrafique/cea/internal/models"
)

// ExpireMembershipsTaskDef suspends active members whose membership has
// run out
type ExpireMembershipsTaskDef struct{}

// TaskID returns the unique identifier for this task
func (t *ExpireMembershipsTaskDef) TaskID() string {
	return "expire_memberships"
}

// HandleExecution suspends every active member whose member_till date
// lies before today
func (t *ExpireMembershipsTaskDef) HandleExecution(ctx context.Context, db *gorm.DB, task models.ScheduledTask) (map[string]interface{}, error) {
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	res := db.WithContext(ctx).Model(&models.Member{}).
		Where("status = ?", models.MemberStatusActive).
		Where("member_till IS NOT NULL AND member_till < ?", today).
		Update("status", models.MemberStatusSuspended)
	if res.Error != nil {
		return nil, res.Error
	}

	log.Printf("[Task: expire_memberships] Suspended %d expired members", res.RowsAffected)

	return map[string]interface{}{
		"status":            "success",
		"suspended_members": res.RowsAffected,
	}, nil
}

// ExpireMembershipsTask is the singleton instance of ExpireMembershipsTaskDef
var ExpireMembershipsTask = &ExpireMembershipsTaskDef{}

// dailyMidnightRule schedules the sweep once a day
const dailyMidnightRule = "FREQ=DAILY;BYHOUR=0;BYMINUTE=30"

// EnsureExpirySweepTask makes sure exactly one recurring expiry sweep
// is scheduled. Idempotent; called on worker startup.
func EnsureExpirySweepTask(db *gorm.DB) error {
	var existing models.ScheduledTask
	err := db.Where("task_name = ? AND status IN ?", ExpireMembershipsTask.TaskID(),
		[]models.ScheduledTaskStatus{models.ScheduledTaskStatusActive}).
		First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	rule := dailyMidnightRule
	task, err := BuildScheduledTask(
		ExpireMembershipsTask.TaskID(),
		map[string]interface{}{},
		time.Now(),
		&rule,
		models.ScheduledTaskTypeRecurring,
		3,
	)
	if err != nil {
		return err
	}
	return db.Create(task).Error
}
