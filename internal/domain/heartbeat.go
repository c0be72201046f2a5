package domain

import "time"

// WorkerHeartbeat records the last time a machine polled for work.
type WorkerHeartbeat struct {
	MachineName string
	LastSeen    time.Time
}
