package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"jobplane/internal/store/po"
)

// WorkerHeartbeatDAO wraps gorm access to the worker_heartbeats table.
type WorkerHeartbeatDAO struct {
	db *gorm.DB
}

func NewWorkerHeartbeatDAO(db *gorm.DB) *WorkerHeartbeatDAO {
	return &WorkerHeartbeatDAO{db: db}
}

// Upsert writes or refreshes a worker's liveness row.
func (d *WorkerHeartbeatDAO) Upsert(ctx context.Context, machineName string, now time.Time) error {
	return d.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "machine_name"}},
		DoUpdates: clause.AssignmentColumns([]string{"last_seen"}),
	}).Create(&po.WorkerHeartbeat{MachineName: machineName, LastSeen: now}).Error
}
