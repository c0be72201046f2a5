package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobplane/internal/store/po"
)

// JobDAO wraps gorm access to the jobs table, including the atomic
// conditional update ClaimNext depends on.
type JobDAO struct {
	db *gorm.DB
}

func NewJobDAO(db *gorm.DB) *JobDAO {
	return &JobDAO{db: db}
}

func (d *JobDAO) CreateMany(ctx context.Context, tx *gorm.DB, jobs []*po.Job) error {
	if len(jobs) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&jobs).Error
}

// FindDispatchableCandidate returns the id, current taken flag, and current
// heartbeat of the next dispatchable job, ordered by deadline ascending with
// id as tiebreak. The row is locked FOR UPDATE within tx so no other
// transaction can select the same candidate until this one commits or rolls
// back. Returns gorm.ErrRecordNotFound when nothing qualifies.
func (d *JobDAO) FindDispatchableCandidate(ctx context.Context, tx *gorm.DB, now time.Time, leaseTimeout time.Duration) (int64, bool, *time.Time, error) {
	var row po.Job
	stale := now.Add(-leaseTimeout)
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id", "taken", "heartbeat").
		Where("active = ? AND done = ?", true, false).
		Where("taken = ? OR heartbeat < ?", false, stale).
		Order("needed ASC, id ASC").
		Limit(1).
		First(&row).Error
	return row.ID, row.Taken, row.Heartbeat, err
}

// ClaimRow is the conditional update two concurrent claimers race on: it
// only takes effect if taken and heartbeat still equal wasTaken/oldHeartbeat.
// The heartbeat comparison is what makes an expired-lease reclaim safe: a
// fresh claim's guard is taken=false, but a reclaim's guard is taken=true,
// and taken=true alone would still be satisfied after a winning racer's
// update commits, letting a second racer reclaim the same row. Comparing the
// heartbeat too closes that window, since the winner's update changes it.
// RowsAffected == 0 means this caller lost the race.
func (d *JobDAO) ClaimRow(ctx context.Context, tx *gorm.DB, id int64, wasTaken bool, oldHeartbeat *time.Time, now time.Time) (int64, error) {
	res := tx.WithContext(ctx).Model(&po.Job{}).
		Where("id = ? AND taken = ? AND heartbeat <=> ?", id, wasTaken, oldHeartbeat).
		Updates(map[string]interface{}{"taken": true, "heartbeat": now})
	return res.RowsAffected, res.Error
}

func (d *JobDAO) FindByID(ctx context.Context, tx *gorm.DB, id int64) (*po.Job, error) {
	var row po.Job
	if err := tx.WithContext(ctx).First(&row, id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (d *JobDAO) UpdateHeartbeat(ctx context.Context, id int64, now time.Time) error {
	return d.db.WithContext(ctx).Model(&po.Job{}).Where("id = ?", id).Update("heartbeat", now).Error
}

func (d *JobDAO) MarkDone(ctx context.Context, id int64) error {
	return d.db.WithContext(ctx).Model(&po.Job{}).Where("id = ?", id).Update("done", true).Error
}

// Release clears a job's lease so it becomes dispatchable on the next
// ClaimNext, without touching done/active.
func (d *JobDAO) Release(ctx context.Context, id int64) error {
	return d.db.WithContext(ctx).Model(&po.Job{}).Where("id = ?", id).
		Updates(map[string]interface{}{"taken": false, "heartbeat": nil}).Error
}

func (d *JobDAO) PauseByCorrelationID(ctx context.Context, correlationID string) (int64, error) {
	res := d.db.WithContext(ctx).Model(&po.Job{}).
		Where("correlation_id = ? AND done = ? AND taken = ?", correlationID, false, false).
		Update("active", false)
	return res.RowsAffected, res.Error
}
