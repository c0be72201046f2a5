// Package events publishes best-effort job-lifecycle notifications. They
// are never on the critical path of the transaction that produced them:
// publish failures are logged, not surfaced, matching the recovery policy
// that nothing in this core is retried internally.
package events

import (
	"context"
	"encoding/json"
	"time"

	"jobplane/pkg/config"
	"jobplane/pkg/kafka"
	"jobplane/pkg/logger"
)

const (
	TypeJobQueued  = "job.queued"
	TypeJobClaimed = "job.claimed"
	TypeJobDone    = "job.done"
	TypeJobFailed  = "job.failed"
)

// Event is one job-lifecycle notification.
type Event struct {
	Type          string    `json:"type"`
	CorrelationID string    `json:"correlation_id"`
	JobID         int64     `json:"job_id,omitempty"`
	MachineName   string    `json:"machine_name,omitempty"`
	At            time.Time `json:"at"`
}

// Publisher fires job-lifecycle notifications. Implementations must not
// block or fail the caller.
type Publisher interface {
	Publish(ctx context.Context, evt Event)
}

// KafkaPublisher publishes events onto a single topic via the shared kafka
// client.
type KafkaPublisher struct {
	client *kafka.Client
	topic  string
}

func NewKafkaPublisher(client *kafka.Client, cfg config.KafkaConfig) *KafkaPublisher {
	return &KafkaPublisher{client: client, topic: cfg.Topics.JobEvents}
}

func (p *KafkaPublisher) Publish(ctx context.Context, evt Event) {
	if p == nil || p.client == nil {
		return
	}
	body, err := json.Marshal(evt)
	if err != nil {
		logger.Warnf("event marshal failed type=%s correlation_id=%s error=%v", evt.Type, evt.CorrelationID, err)
		return
	}
	if err := p.client.Produce(ctx, p.topic, []byte(evt.CorrelationID), body); err != nil {
		logger.Warnf("event publish failed type=%s correlation_id=%s error=%v", evt.Type, evt.CorrelationID, err)
	}
}

// NoopPublisher discards every event; used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) {}
