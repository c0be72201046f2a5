// Package memory is an in-process, mutex-guarded implementation of
// domain.JobRepository, used by tests that exercise Dispatcher and
// RequestService without a database.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"jobplane/internal/domain"
	"jobplane/pkg/errno"
)

type Store struct {
	mu         sync.Mutex
	nextID     int64
	requests   map[string]*domain.Request
	jobs       map[int64]*domain.Job
	parts      []*domain.Part
	heartbeats map[string]time.Time
}

func New() *Store {
	return &Store{
		requests:   make(map[string]*domain.Request),
		jobs:       make(map[int64]*domain.Job),
		heartbeats: make(map[string]time.Time),
	}
}

func (s *Store) AddRequest(ctx context.Context, req *domain.Request, jobs []*domain.Job, parts []*domain.Part) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests[req.CorrelationID] = req
	for _, j := range jobs {
		s.nextID++
		j.ID = s.nextID
		s.jobs[j.ID] = j
	}
	s.parts = append(s.parts, parts...)
	return req.CorrelationID, nil
}

func (s *Store) ClaimNext(ctx context.Context, now time.Time, leaseTimeout time.Duration) (*domain.Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var candidates []*domain.Job
	for _, j := range s.jobs {
		if j.Dispatchable(now, leaseTimeout) {
			candidates = append(candidates, j)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	sort.Slice(candidates, func(i, k int) bool {
		if !candidates[i].Needed.Equal(candidates[k].Needed) {
			return candidates[i].Needed.Before(candidates[k].Needed)
		}
		return candidates[i].ID < candidates[k].ID
	})

	chosen := candidates[0]
	chosen.Taken = true
	hb := now
	chosen.Heartbeat = &hb

	claimed := *chosen
	return &claimed, nil
}

func (s *Store) Heartbeat(ctx context.Context, jobID int64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[jobID]
	if !ok {
		return errno.ErrRepository
	}
	j.Heartbeat = &now
	return nil
}

func (s *Store) MarkDone(ctx context.Context, jobID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[jobID]
	if !ok {
		return errno.ErrRepository
	}
	j.Done = true
	return nil
}

// MarkFailed releases the job's lease so it becomes dispatchable again;
// reason is accepted but not stored.
func (s *Store) MarkFailed(ctx context.Context, jobID int64, reason string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[jobID]
	if !ok {
		return errno.ErrRepository
	}
	j.Taken = false
	j.Heartbeat = nil
	return nil
}

func (s *Store) Pause(ctx context.Context, correlationID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, j := range s.jobs {
		if j.CorrelationID != correlationID {
			continue
		}
		if j.Done || j.Taken {
			continue
		}
		j.Active = false
		n++
	}
	return n, nil
}

func (s *Store) RecordWorkerHeartbeat(ctx context.Context, hb domain.WorkerHeartbeat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.heartbeats[hb.MachineName] = hb.LastSeen
	return nil
}

// Jobs returns a snapshot of stored jobs, for assertions in tests.
func (s *Store) Jobs() []*domain.Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Job, 0, len(s.jobs))
	for _, j := range s.jobs {
		snapshot := *j
		out = append(out, &snapshot)
	}
	return out
}

// Parts returns a snapshot of stored parts, for assertions in tests.
func (s *Store) Parts() []*domain.Part {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]*domain.Part, len(s.parts))
	copy(out, s.parts)
	return out
}
