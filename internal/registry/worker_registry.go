// Package registry maintains per-worker advisory liveness in etcd,
// grounded on pkg/registry's lease+keepalive pattern but scoped to
// transient polling workers instead of a long-lived service instance.
// It is consulted by nothing in the dispatch decision (see
// internal/dispatch.Dispatcher) — it exists only as an operator liveness
// view, distinct from pkg/registry.ServiceRegistry's self-registration of
// this server's own address.
package registry

import (
	"context"
	"fmt"
	"sync"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"

	"jobplane/pkg/logger"
)

// WorkerRegistry records that a worker polled recently. Touch must never
// block the poll path on etcd availability.
type WorkerRegistry interface {
	Touch(ctx context.Context, machineName string)
	Close() error
}

// EtcdWorkerRegistry grants one TTL lease per machine name on first touch
// and refreshes it with KeepAliveOnce on subsequent touches, so a worker
// that stops polling drops out of etcd on its own after ttl.
type EtcdWorkerRegistry struct {
	client *clientv3.Client
	ttl    int64

	mu     sync.Mutex
	leases map[string]clientv3.LeaseID
}

func NewEtcdWorkerRegistry(client *clientv3.Client, ttl time.Duration) *EtcdWorkerRegistry {
	return &EtcdWorkerRegistry{
		client: client,
		ttl:    int64(ttl.Seconds()),
		leases: make(map[string]clientv3.LeaseID),
	}
}

func (r *EtcdWorkerRegistry) Touch(ctx context.Context, machineName string) {
	if r == nil || r.client == nil {
		return
	}

	r.mu.Lock()
	leaseID, known := r.leases[machineName]
	r.mu.Unlock()

	if known {
		if _, err := r.client.KeepAliveOnce(ctx, leaseID); err == nil {
			return
		}
		// Lease expired or was revoked server-side; fall through and
		// re-grant rather than surfacing the error to the poll path.
	}

	lease, err := r.client.Grant(ctx, r.ttl)
	if err != nil {
		logger.Warnf("worker registry lease grant failed machine=%s error=%v", machineName, err)
		return
	}

	key := fmt.Sprintf("/workers/%s", machineName)
	if _, err := r.client.Put(ctx, key, time.Now().Format(time.RFC3339), clientv3.WithLease(lease.ID)); err != nil {
		logger.Warnf("worker registry put failed machine=%s error=%v", machineName, err)
		return
	}

	r.mu.Lock()
	r.leases[machineName] = lease.ID
	r.mu.Unlock()
}

func (r *EtcdWorkerRegistry) Close() error {
	if r == nil || r.client == nil {
		return nil
	}
	return r.client.Close()
}

// NoopWorkerRegistry disables worker-liveness tracking entirely.
type NoopWorkerRegistry struct{}

func (NoopWorkerRegistry) Touch(context.Context, string) {}
func (NoopWorkerRegistry) Close() error                  { return nil }
