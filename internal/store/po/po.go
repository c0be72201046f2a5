// Package po holds the gorm-mapped persisted representations of the four
// logical tables JobRepository owns.
package po

import "time"

// BaseModel mirrors the teacher's embedded audit columns.
type BaseModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// Request is the persisted form of domain.Request.
type Request struct {
	CorrelationID string    `gorm:"column:correlation_id;type:varchar(36);primaryKey" json:"correlation_id"`
	VideoSource   string    `gorm:"column:video_source;type:varchar(512)" json:"video_source"`
	AudioSource   string    `gorm:"column:audio_source;type:varchar(512)" json:"audio_source"`
	Destination   string    `gorm:"column:destination;type:varchar(512)" json:"destination"`
	Needed        time.Time `gorm:"column:needed" json:"needed"`
	Created       time.Time `gorm:"column:created" json:"created"`
	EnableDash    bool      `gorm:"column:enable_dash" json:"enable_dash"`
}

func (Request) TableName() string { return "requests" }

// Job is the persisted form of domain.Job.
type Job struct {
	BaseModel
	CorrelationID string     `gorm:"column:correlation_id;type:varchar(36);index" json:"correlation_id"`
	Arguments     string     `gorm:"column:arguments;type:text" json:"arguments"`
	Needed        time.Time  `gorm:"column:needed;index" json:"needed"`
	Kind          string     `gorm:"column:kind;type:varchar(10)" json:"kind"`
	Source        string     `gorm:"column:source;type:varchar(512)" json:"source"`
	ChunkDuration int        `gorm:"column:chunk_duration" json:"chunk_duration"`
	Active        bool       `gorm:"column:active;index" json:"active"`
	Taken         bool       `gorm:"column:taken;index" json:"taken"`
	Done          bool       `gorm:"column:done;index" json:"done"`
	Heartbeat     *time.Time `gorm:"column:heartbeat" json:"heartbeat,omitempty"`
}

func (Job) TableName() string { return "jobs" }

// Part is the persisted form of domain.Part.
type Part struct {
	BaseModel
	CorrelationID string `gorm:"column:correlation_id;type:varchar(36);index" json:"correlation_id"`
	TargetIndex   int    `gorm:"column:target_index" json:"target_index"`
	Number        int    `gorm:"column:number" json:"number"`
	Filename      string `gorm:"column:filename;type:varchar(512)" json:"filename"`
}

func (Part) TableName() string { return "parts" }

// WorkerHeartbeat is the persisted form of domain.WorkerHeartbeat.
type WorkerHeartbeat struct {
	MachineName string    `gorm:"column:machine_name;type:varchar(128);primaryKey" json:"machine_name"`
	LastSeen    time.Time `gorm:"column:last_seen" json:"last_seen"`
}

func (WorkerHeartbeat) TableName() string { return "worker_heartbeats" }
