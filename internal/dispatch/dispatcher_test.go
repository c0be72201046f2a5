package dispatch

import (
	"context"
	"testing"
	"time"

	"jobplane/internal/domain"
	"jobplane/internal/events"
	"jobplane/internal/store/memory"
)

type recordingPublisher struct {
	events []events.Event
}

func (r *recordingPublisher) Publish(_ context.Context, evt events.Event) {
	r.events = append(r.events, evt)
}

func seedJob(t *testing.T, store *memory.Store, needed time.Time) *domain.Job {
	t.Helper()
	job := &domain.Job{
		CorrelationID: "c1",
		Arguments:     `-y -i "a" -c:a aac -b:a 128k -vn "b"`,
		Needed:        needed,
		Kind:          domain.JobKindAudio,
		Active:        true,
	}
	if _, err := store.AddRequest(context.Background(), &domain.Request{CorrelationID: "c1"}, []*domain.Job{job}, nil); err != nil {
		t.Fatalf("AddRequest: %v", err)
	}
	return job
}

func TestDispatcherNextJobClaimsAndPublishes(t *testing.T) {
	store := memory.New()
	job := seedJob(t, store, time.Now())
	pub := &recordingPublisher{}
	d := New(store, time.Minute, WithPublisher(pub))

	got, err := d.NextJob(context.Background(), "worker-1")
	if err != nil {
		t.Fatalf("NextJob: %v", err)
	}
	if got == nil || got.ID != job.ID {
		t.Fatalf("NextJob returned %+v, want job %d", got, job.ID)
	}
	if len(pub.events) != 1 || pub.events[0].Type != events.TypeJobClaimed {
		t.Fatalf("expected one job.claimed event, got %+v", pub.events)
	}
}

func TestDispatcherNextJobReturnsNilWhenNothingDispatchable(t *testing.T) {
	store := memory.New()
	d := New(store, time.Minute)

	got, err := d.NextJob(context.Background(), "worker-1")
	if err != nil {
		t.Fatalf("NextJob: %v", err)
	}
	if got != nil {
		t.Fatalf("NextJob returned %+v, want nil", got)
	}
}

func TestDispatcherCompletePublishesDone(t *testing.T) {
	store := memory.New()
	job := seedJob(t, store, time.Now())
	pub := &recordingPublisher{}
	d := New(store, time.Minute, WithPublisher(pub))

	if _, err := d.NextJob(context.Background(), "worker-1"); err != nil {
		t.Fatalf("NextJob: %v", err)
	}
	if err := d.Complete(context.Background(), job.ID, "c1"); err != nil {
		t.Fatalf("Complete: %v", err)
	}

	var sawDone bool
	for _, evt := range pub.events {
		if evt.Type == events.TypeJobDone {
			sawDone = true
		}
	}
	if !sawDone {
		t.Fatalf("expected a job.done event, got %+v", pub.events)
	}

	again, err := d.NextJob(context.Background(), "worker-2")
	if err != nil {
		t.Fatalf("second NextJob: %v", err)
	}
	if again != nil {
		t.Fatalf("a done job must never be dispatchable again, got %+v", again)
	}
}

func TestDispatcherFailReleasesLeaseForRedispatch(t *testing.T) {
	store := memory.New()
	job := seedJob(t, store, time.Now())
	d := New(store, time.Minute)

	if _, err := d.NextJob(context.Background(), "worker-1"); err != nil {
		t.Fatalf("NextJob: %v", err)
	}
	if err := d.Fail(context.Background(), job.ID, "c1", "exit status 1"); err != nil {
		t.Fatalf("Fail: %v", err)
	}

	again, err := d.NextJob(context.Background(), "worker-2")
	if err != nil {
		t.Fatalf("second NextJob: %v", err)
	}
	if again == nil || again.ID != job.ID {
		t.Fatalf("failed job must be redispatchable, got %+v", again)
	}
}

func TestDispatcherPauseDelegatesToRepository(t *testing.T) {
	store := memory.New()
	seedJob(t, store, time.Now())
	d := New(store, time.Minute)

	n, err := d.Pause(context.Background(), "c1")
	if err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if n != 1 {
		t.Fatalf("Pause affected %d jobs, want 1", n)
	}
}
