package memory

import (
	"context"
	"testing"
	"time"

	"jobplane/internal/domain"
)

func newJob(needed time.Time) *domain.Job {
	return &domain.Job{
		CorrelationID: "c1",
		Arguments:     "-i x",
		Needed:        needed,
		Kind:          domain.JobKindVideo,
		Active:        true,
	}
}

func TestClaimNextDeadlineOrdering(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now()

	late := newJob(now.Add(time.Hour))
	early := newJob(now)
	if _, err := s.AddRequest(ctx, &domain.Request{CorrelationID: "c1"}, []*domain.Job{late, early}, nil); err != nil {
		t.Fatalf("AddRequest: %v", err)
	}

	got, err := s.ClaimNext(ctx, now, time.Minute)
	if err != nil {
		t.Fatalf("ClaimNext: %v", err)
	}
	if got == nil || got.ID != early.ID {
		t.Fatalf("ClaimNext returned %+v, want the early-deadline job", got)
	}
}

func TestClaimNextExcludesTakenFreshLease(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now()

	job := newJob(now)
	if _, err := s.AddRequest(ctx, &domain.Request{CorrelationID: "c1"}, []*domain.Job{job}, nil); err != nil {
		t.Fatalf("AddRequest: %v", err)
	}

	first, err := s.ClaimNext(ctx, now, time.Minute)
	if err != nil || first == nil {
		t.Fatalf("first ClaimNext: job=%v err=%v", first, err)
	}

	second, err := s.ClaimNext(ctx, now.Add(time.Second), time.Minute)
	if err != nil {
		t.Fatalf("second ClaimNext: %v", err)
	}
	if second != nil {
		t.Fatalf("second ClaimNext returned %+v, want nil (lease still fresh)", second)
	}
}

func TestClaimNextReclaimsExpiredLease(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now()

	job := newJob(now)
	if _, err := s.AddRequest(ctx, &domain.Request{CorrelationID: "c1"}, []*domain.Job{job}, nil); err != nil {
		t.Fatalf("AddRequest: %v", err)
	}

	if _, err := s.ClaimNext(ctx, now, time.Minute); err != nil {
		t.Fatalf("first ClaimNext: %v", err)
	}

	reclaimed, err := s.ClaimNext(ctx, now.Add(2*time.Minute), time.Minute)
	if err != nil {
		t.Fatalf("reclaim ClaimNext: %v", err)
	}
	if reclaimed == nil || reclaimed.ID != job.ID {
		t.Fatalf("expected reclaim of job %d, got %+v", job.ID, reclaimed)
	}
}

func TestPauseSkipsTakenJobs(t *testing.T) {
	s := New()
	ctx := context.Background()
	now := time.Now()

	taken := newJob(now)
	queued := newJob(now)
	if _, err := s.AddRequest(ctx, &domain.Request{CorrelationID: "c1"}, []*domain.Job{taken, queued}, nil); err != nil {
		t.Fatalf("AddRequest: %v", err)
	}
	if _, err := s.ClaimNext(ctx, now, time.Minute); err != nil {
		t.Fatalf("ClaimNext: %v", err)
	}

	n, err := s.Pause(ctx, "c1")
	if err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if n != 1 {
		t.Fatalf("Pause affected %d jobs, want 1 (the taken job must be skipped)", n)
	}

	for _, j := range s.Jobs() {
		if j.ID == taken.ID && !j.Active {
			t.Fatalf("Pause must never deactivate a taken job")
		}
	}
}

func TestAddRequestAtomicCounts(t *testing.T) {
	s := New()
	ctx := context.Background()

	jobs := []*domain.Job{newJob(time.Now()), newJob(time.Now())}
	parts := []*domain.Part{{CorrelationID: "c1", TargetIndex: 0, Number: 0, Filename: "a"}}
	if _, err := s.AddRequest(ctx, &domain.Request{CorrelationID: "c1"}, jobs, parts); err != nil {
		t.Fatalf("AddRequest: %v", err)
	}
	if got := len(s.Jobs()); got != 2 {
		t.Fatalf("got %d jobs, want 2", got)
	}
	if got := len(s.Parts()); got != 1 {
		t.Fatalf("got %d parts, want 1", got)
	}
}
