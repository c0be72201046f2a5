// Package service implements RequestService (spec §4.5): validates a
// submission, probes its video source, plans it, and persists the result
// atomically through a domain.JobRepository.
package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"jobplane/internal/domain"
	"jobplane/internal/events"
	"jobplane/internal/mediaprobe"
	"jobplane/internal/planner"
	"jobplane/pkg/errno"
	"jobplane/pkg/logger"
	"jobplane/pkg/reqctx"
)

// JobRequest is the submission-API shape for a transcode request (spec §6).
type JobRequest struct {
	VideoSourceFilename string
	AudioSourceFilename string
	DestinationFilename string
	Needed              time.Time
	EnableDash          bool
	HasAlternateAudio   bool
	Targets             []domain.TargetRendition
}

// MuxJobRequest is the submission-API shape for a mux request (spec §6).
type MuxJobRequest struct {
	VideoSourceFilename string
	AudioSourceFilename string
	DestinationFilename string
	OutputFolder        string
	Inpoint             *time.Duration
}

// RequestService validates, probes, plans, and persists submissions.
type RequestService struct {
	repo      domain.JobRepository
	prober    mediaprobe.Prober
	enableCrf bool
	publisher events.Publisher
}

func New(repo domain.JobRepository, prober mediaprobe.Prober, enableCrf bool, opts ...Option) *RequestService {
	s := &RequestService{
		repo:      repo,
		prober:    prober,
		enableCrf: enableCrf,
		publisher: events.NoopPublisher{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type Option func(*RequestService)

func WithPublisher(p events.Publisher) Option {
	return func(s *RequestService) { s.publisher = p }
}

// Submit validates req, probes its video source (if any), plans it, and
// persists the outcome. Nothing is persisted on validation failure.
func (s *RequestService) Submit(ctx context.Context, req JobRequest) (string, error) {
	ctx = reqctx.WithRequestID(ctx, "")

	if req.VideoSourceFilename == "" && req.AudioSourceFilename == "" {
		return "", errno.ErrBadRequest.WithCause(fmt.Errorf("at least one of video or audio source is required"))
	}
	if len(req.Targets) == 0 {
		return "", errno.ErrBadRequest.WithCause(fmt.Errorf("at least one target rendition is required"))
	}

	destFolder := filepath.Dir(req.DestinationFilename)
	if err := checkSourcesAndDestination(destFolder, req.VideoSourceFilename, req.AudioSourceFilename); err != nil {
		return "", err
	}

	meta := mediaprobe.Metadata{}
	if req.VideoSourceFilename != "" {
		probed, err := s.prober.Probe(ctx, req.VideoSourceFilename)
		if err != nil {
			return "", err
		}
		meta = probed
	}

	domainReq := &domain.Request{
		CorrelationID:     uuid.NewString(),
		VideoSource:       req.VideoSourceFilename,
		AudioSource:       req.AudioSourceFilename,
		Destination:       req.DestinationFilename,
		Needed:            req.Needed,
		EnableDash:        req.EnableDash,
		HasAlternateAudio: req.HasAlternateAudio,
		Targets:           req.Targets,
	}

	jobs, parts, err := planner.Plan(domainReq, meta, s.enableCrf)
	if err != nil {
		return "", err
	}

	correlationID, err := s.repo.AddRequest(ctx, domainReq, jobs, parts)
	if err != nil {
		return "", err
	}

	s.publisher.Publish(ctx, events.Event{
		Type:          events.TypeJobQueued,
		CorrelationID: correlationID,
		At:            time.Now(),
	})
	logger.Infof("request submitted correlation_id=%s jobs=%d parts=%d request_id=%s", correlationID, len(jobs), len(parts), reqctx.RequestID(ctx))

	return correlationID, nil
}

// SubmitMux validates and plans a single mux job (spec §4.2, separate
// entry point from Submit).
func (s *RequestService) SubmitMux(ctx context.Context, req MuxJobRequest) (string, error) {
	ctx = reqctx.WithRequestID(ctx, "")

	if req.VideoSourceFilename == "" || req.AudioSourceFilename == "" {
		return "", errno.ErrBadRequest.WithCause(fmt.Errorf("mux requires both a video and an audio source"))
	}

	if err := checkSourcesAndDestination(req.OutputFolder, req.VideoSourceFilename, req.AudioSourceFilename); err != nil {
		return "", err
	}

	meta, err := s.prober.Probe(ctx, req.VideoSourceFilename)
	if err != nil {
		return "", err
	}

	domainReq := &domain.MuxRequest{
		CorrelationID:       uuid.NewString(),
		VideoSource:         req.VideoSourceFilename,
		AudioSource:         req.AudioSourceFilename,
		DestinationFolder:   req.OutputFolder,
		DestinationFilename: req.DestinationFilename,
		Needed:              time.Now(),
		Inpoint:             req.Inpoint,
	}

	job := planner.PlanMux(domainReq, meta.DurationSeconds)

	correlationID, err := s.repo.AddRequest(ctx, &domain.Request{
		CorrelationID: domainReq.CorrelationID,
		VideoSource:   domainReq.VideoSource,
		AudioSource:   domainReq.AudioSource,
		Destination:   fmt.Sprintf("%s/%s", domainReq.DestinationFolder, domainReq.DestinationFilename),
		Needed:        domainReq.Needed,
	}, []*domain.Job{job}, nil)
	if err != nil {
		return "", err
	}

	s.publisher.Publish(ctx, events.Event{
		Type:          events.TypeJobQueued,
		CorrelationID: correlationID,
		At:            time.Now(),
	})
	logger.Infof("mux request submitted correlation_id=%s request_id=%s", correlationID, reqctx.RequestID(ctx))

	return correlationID, nil
}

// checkSourcesAndDestination validates the declared sources and
// destination folder concurrently, since each is an independent stat call
// (spec §5: submission may block on I/O, nothing else is serialized here).
func checkSourcesAndDestination(destFolder string, sources ...string) error {
	var wg sync.WaitGroup
	errs := make([]error, len(sources)+1)

	for i, src := range sources {
		if src == "" {
			continue
		}
		wg.Add(1)
		go func(i int, src string) {
			defer wg.Done()
			if _, err := os.Stat(src); err != nil {
				errs[i] = errno.ErrSourceNotFound.WithCause(fmt.Errorf("%s: %w", src, err))
			}
		}(i, src)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		info, err := os.Stat(destFolder)
		if err != nil {
			errs[len(sources)] = errno.ErrDestinationInvalid.WithCause(fmt.Errorf("%s: %w", destFolder, err))
			return
		}
		if !info.IsDir() {
			errs[len(sources)] = errno.ErrDestinationInvalid.WithCause(fmt.Errorf("%s is not a directory", destFolder))
		}
	}()

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}
