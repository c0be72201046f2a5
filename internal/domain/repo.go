package domain

import (
	"context"
	"time"
)

// JobRepository durably persists requests, jobs, and parts, and mediates
// concurrent access to jobs via lease-based claiming. Every mutating
// operation is atomic; the isolation level it runs at is chosen by the
// implementation and is not necessarily serializable.
type JobRepository interface {
	// AddRequest persists a request with its jobs and parts atomically: all
	// rows commit together or none do.
	AddRequest(ctx context.Context, req *Request, jobs []*Job, parts []*Part) (string, error)

	// ClaimNext selects one dispatchable job ordered by deadline ascending
	// with id as tiebreak, atomically marks it taken with a fresh heartbeat,
	// and returns it. It returns (nil, nil) when nothing is dispatchable,
	// and errno.ErrClaimLost when the conditional update raced and lost.
	ClaimNext(ctx context.Context, now time.Time, leaseTimeout time.Duration) (*Job, error)

	// Heartbeat refreshes a claimed job's lease.
	Heartbeat(ctx context.Context, jobID int64, now time.Time) error

	// MarkDone transitions a job to its terminal done state.
	MarkDone(ctx context.Context, jobID int64) error

	// MarkFailed releases a job's lease so it becomes dispatchable again; the
	// repository does not persist reason (the schema has no column for it).
	MarkFailed(ctx context.Context, jobID int64, reason string) error

	// Pause sets active=false on every not-done, not-taken job of the given
	// request and returns the count affected.
	Pause(ctx context.Context, correlationID string) (int, error)

	// RecordWorkerHeartbeat upserts a worker liveness row.
	RecordWorkerHeartbeat(ctx context.Context, hb WorkerHeartbeat) error
}
