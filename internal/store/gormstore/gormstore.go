// Package gormstore implements domain.JobRepository over MySQL using gorm,
// following the teacher's DAO/convertor/persistence layering.
package gormstore

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"jobplane/internal/domain"
	"jobplane/internal/store/convertor"
	"jobplane/internal/store/dao"
	"jobplane/internal/store/po"
	"jobplane/pkg/errno"
)

// Store is the gorm-backed implementation of domain.JobRepository.
type Store struct {
	db         *gorm.DB
	requests   *dao.RequestDAO
	jobs       *dao.JobDAO
	parts      *dao.PartDAO
	heartbeats *dao.WorkerHeartbeatDAO
}

func New(db *gorm.DB) *Store {
	return &Store{
		db:         db,
		requests:   dao.NewRequestDAO(db),
		jobs:       dao.NewJobDAO(db),
		parts:      dao.NewPartDAO(db),
		heartbeats: dao.NewWorkerHeartbeatDAO(db),
	}
}

// AutoMigrate creates or updates the four logical tables. Intended for
// local/dev bring-up; production schema management is out of scope here.
func (s *Store) AutoMigrate() error {
	return s.db.AutoMigrate(&po.Request{}, &po.Job{}, &po.Part{}, &po.WorkerHeartbeat{})
}

func (s *Store) AddRequest(ctx context.Context, req *domain.Request, jobs []*domain.Job, parts []*domain.Part) (string, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.requests.Create(ctx, tx, convertor.RequestToPO(req, time.Now())); err != nil {
			return err
		}

		jobPOs := make([]*po.Job, 0, len(jobs))
		for _, j := range jobs {
			jobPOs = append(jobPOs, convertor.JobToPO(j))
		}
		if err := s.jobs.CreateMany(ctx, tx, jobPOs); err != nil {
			return err
		}

		partPOs := make([]*po.Part, 0, len(parts))
		for _, p := range parts {
			partPOs = append(partPOs, convertor.PartToPO(p))
		}
		return s.parts.CreateMany(ctx, tx, partPOs)
	})
	if err != nil {
		return "", errno.ErrRepository.WithCause(err)
	}
	return req.CorrelationID, nil
}

// ClaimNext runs the select-lock-update-reselect sequence inside a single
// transaction at the connection's default isolation level; it does not
// raise the level to serializable. FindDispatchableCandidate
// locks the candidate row FOR UPDATE and ClaimRow's guard includes the
// heartbeat it read, so a concurrent reclaim of the same expired lease loses
// the race instead of both callers affecting one row each.
func (s *Store) ClaimNext(ctx context.Context, now time.Time, leaseTimeout time.Duration) (*domain.Job, error) {
	var claimed *domain.Job
	err := s.db.Transaction(func(tx *gorm.DB) error {
		id, wasTaken, oldHeartbeat, err := s.jobs.FindDispatchableCandidate(ctx, tx, now, leaseTimeout)
		if err != nil {
			return err
		}

		affected, err := s.jobs.ClaimRow(ctx, tx, id, wasTaken, oldHeartbeat, now)
		if err != nil {
			return err
		}
		if affected == 0 {
			return errno.ErrClaimLost
		}

		row, err := s.jobs.FindByID(ctx, tx, id)
		if err != nil {
			return err
		}
		claimed = convertor.JobFromPO(row)
		return nil
	})

	switch {
	case err == nil:
		return claimed, nil
	case err == gorm.ErrRecordNotFound:
		return nil, nil
	case errors.Is(err, errno.ErrClaimLost):
		return nil, errno.ErrClaimLost
	default:
		return nil, errno.ErrRepository.WithCause(err)
	}
}

func (s *Store) Heartbeat(ctx context.Context, jobID int64, now time.Time) error {
	if err := s.jobs.UpdateHeartbeat(ctx, jobID, now); err != nil {
		return errno.ErrRepository.WithCause(err)
	}
	return nil
}

func (s *Store) MarkDone(ctx context.Context, jobID int64) error {
	if err := s.jobs.MarkDone(ctx, jobID); err != nil {
		return errno.ErrRepository.WithCause(err)
	}
	return nil
}

// MarkFailed releases the job's lease rather than persisting reason: the
// Job schema (spec §6) carries no column for it.
func (s *Store) MarkFailed(ctx context.Context, jobID int64, reason string) error {
	if err := s.jobs.Release(ctx, jobID); err != nil {
		return errno.ErrRepository.WithCause(err)
	}
	return nil
}

func (s *Store) Pause(ctx context.Context, correlationID string) (int, error) {
	affected, err := s.jobs.PauseByCorrelationID(ctx, correlationID)
	if err != nil {
		return 0, errno.ErrRepository.WithCause(err)
	}
	return int(affected), nil
}

func (s *Store) RecordWorkerHeartbeat(ctx context.Context, hb domain.WorkerHeartbeat) error {
	if err := s.heartbeats.Upsert(ctx, hb.MachineName, hb.LastSeen); err != nil {
		return errno.ErrRepository.WithCause(err)
	}
	return nil
}
