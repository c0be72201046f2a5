// Package dispatch implements the lease state machine (spec §4.4) on top
// of a domain.JobRepository: claiming, heartbeating, and completing jobs
// on behalf of polling workers.
package dispatch

import (
	"context"
	"errors"
	"time"

	"jobplane/internal/domain"
	"jobplane/internal/events"
	"jobplane/internal/heartbeatcache"
	"jobplane/internal/registry"
	"jobplane/pkg/errno"
	"jobplane/pkg/logger"
	"jobplane/pkg/reqctx"
)

// TranscodingJob is the worker-facing shape of a claimed job (spec §6).
type TranscodingJob struct {
	ID            int64
	Arguments     string
	CorrelationID string
}

// Dispatcher mediates worker polling against the repository's lease state
// machine. The repository alone holds the dispatch decision; the registry
// and cache are advisory side channels, never consulted by NextJob.
type Dispatcher struct {
	repo         domain.JobRepository
	leaseTimeout time.Duration
	publisher    events.Publisher
	workers      registry.WorkerRegistry
	heartbeats   heartbeatcache.Cache
}

func New(repo domain.JobRepository, leaseTimeout time.Duration, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		repo:         repo,
		leaseTimeout: leaseTimeout,
		publisher:    events.NoopPublisher{},
		workers:      registry.NoopWorkerRegistry{},
		heartbeats:   heartbeatcache.NoopCache{},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

type Option func(*Dispatcher)

func WithPublisher(p events.Publisher) Option {
	return func(d *Dispatcher) { d.publisher = p }
}

func WithWorkerRegistry(r registry.WorkerRegistry) Option {
	return func(d *Dispatcher) { d.workers = r }
}

func WithHeartbeatCache(c heartbeatcache.Cache) Option {
	return func(d *Dispatcher) { d.heartbeats = c }
}

// NextJob runs a transactional select-then-claim against the repository
// and returns one runnable job, or nil when nothing is dispatchable. A
// ClaimLost race is treated as "nothing right now" from the worker's
// perspective: the caller does not retry within this call (spec §4.3).
func (d *Dispatcher) NextJob(ctx context.Context, machineName string) (*TranscodingJob, error) {
	if machineName == "" {
		return nil, errno.ErrBadRequest.WithCause(errors.New("machineName must not be empty"))
	}

	ctx = reqctx.WithRequestID(ctx, "")
	now := time.Now()

	if err := d.repo.RecordWorkerHeartbeat(ctx, domain.WorkerHeartbeat{MachineName: machineName, LastSeen: now}); err != nil {
		logger.Warnf("worker heartbeat persist failed machine=%s request_id=%s error=%v", machineName, reqctx.RequestID(ctx), err)
	}
	d.workers.Touch(ctx, machineName)
	d.heartbeats.Touch(ctx, machineName, now, d.leaseTimeout)

	job, err := d.repo.ClaimNext(ctx, now, d.leaseTimeout)
	if err != nil {
		if errors.Is(err, errno.ErrClaimLost) {
			return nil, nil
		}
		return nil, err
	}
	if job == nil {
		return nil, nil
	}

	logger.Infof("job claimed job_id=%d correlation_id=%s machine=%s request_id=%s", job.ID, job.CorrelationID, machineName, reqctx.RequestID(ctx))
	d.publisher.Publish(ctx, events.Event{
		Type:          events.TypeJobClaimed,
		CorrelationID: job.CorrelationID,
		JobID:         job.ID,
		MachineName:   machineName,
		At:            now,
	})

	return &TranscodingJob{
		ID:            job.ID,
		Arguments:     job.Arguments,
		CorrelationID: job.CorrelationID,
	}, nil
}

// Heartbeat refreshes a claimed job's lease.
func (d *Dispatcher) Heartbeat(ctx context.Context, jobID int64) error {
	return d.repo.Heartbeat(ctx, jobID, time.Now())
}

// Complete transitions a job to Done and publishes a best-effort event.
func (d *Dispatcher) Complete(ctx context.Context, jobID int64, correlationID string) error {
	if err := d.repo.MarkDone(ctx, jobID); err != nil {
		return err
	}
	d.publisher.Publish(ctx, events.Event{
		Type:          events.TypeJobDone,
		CorrelationID: correlationID,
		JobID:         jobID,
		At:            time.Now(),
	})
	return nil
}

// Fail releases a job's lease so ClaimNext can hand it to another worker,
// and publishes a best-effort event. reason is not persisted (spec §4.3's
// Job schema has no column for it).
func (d *Dispatcher) Fail(ctx context.Context, jobID int64, correlationID, reason string) error {
	if err := d.repo.MarkFailed(ctx, jobID, reason); err != nil {
		return err
	}
	d.publisher.Publish(ctx, events.Event{
		Type:          events.TypeJobFailed,
		CorrelationID: correlationID,
		JobID:         jobID,
		At:            time.Now(),
	})
	return nil
}

// Pause deactivates every not-done, not-taken job of a request.
func (d *Dispatcher) Pause(ctx context.Context, correlationID string) (int, error) {
	return d.repo.Pause(ctx, correlationID)
}
