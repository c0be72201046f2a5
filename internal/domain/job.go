package domain

import "time"

// JobKind identifies which kind of external-tool invocation a Job encodes.
type JobKind string

const (
	JobKindAudio JobKind = "audio"
	JobKindVideo JobKind = "video"
	JobKindMux   JobKind = "mux"
)

// LeaseState is the observable state of a Job's lease, per the dispatcher's
// state machine.
type LeaseState string

const (
	StateQueued  LeaseState = "queued"
	StateLeased  LeaseState = "leased"
	StateExpired LeaseState = "expired"
	StateDone    LeaseState = "done"
	StatePaused  LeaseState = "paused"
)

// Job is a unit of work runnable by a single external-tool invocation.
type Job struct {
	ID            int64
	CorrelationID string
	Arguments     string
	Needed        time.Time
	Kind          JobKind
	Source        string
	ChunkDuration int

	Active    bool
	Taken     bool
	Done      bool
	Heartbeat *time.Time
}

// Dispatchable reports whether the job is eligible for ClaimNext at now:
// active, not done, and either never taken or its lease has gone stale.
func (j *Job) Dispatchable(now time.Time, leaseTimeout time.Duration) bool {
	if !j.Active || j.Done {
		return false
	}
	if !j.Taken {
		return true
	}
	return j.Heartbeat != nil && now.Sub(*j.Heartbeat) > leaseTimeout
}

// State derives the job's lease state for observability; it does not drive
// any dispatch decision (Dispatchable does that directly).
func (j *Job) State(now time.Time, leaseTimeout time.Duration) LeaseState {
	switch {
	case j.Done:
		return StateDone
	case !j.Active:
		return StatePaused
	case !j.Taken:
		return StateQueued
	case j.Heartbeat != nil && now.Sub(*j.Heartbeat) > leaseTimeout:
		return StateExpired
	default:
		return StateLeased
	}
}
