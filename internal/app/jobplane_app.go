// Package app wires RequestService and Dispatcher behind the single
// facade spec §6 describes, in place of the teacher's gin-routed
// application service — there is no transport layer here, just the four
// operations a transport would call into.
package app

import (
	"context"

	"jobplane/internal/dispatch"
	"jobplane/internal/service"
)

// JobPlaneApp is the job-plane's external surface: Submit, SubmitMux,
// NextJob, Pause (spec §6). Construct with explicit dependencies; there is
// no package-level singleton.
type JobPlaneApp struct {
	requests   *service.RequestService
	dispatcher *dispatch.Dispatcher
}

func New(requests *service.RequestService, dispatcher *dispatch.Dispatcher) *JobPlaneApp {
	return &JobPlaneApp{requests: requests, dispatcher: dispatcher}
}

func (a *JobPlaneApp) Submit(ctx context.Context, req service.JobRequest) (string, error) {
	return a.requests.Submit(ctx, req)
}

func (a *JobPlaneApp) SubmitMux(ctx context.Context, req service.MuxJobRequest) (string, error) {
	return a.requests.SubmitMux(ctx, req)
}

func (a *JobPlaneApp) NextJob(ctx context.Context, machineName string) (*dispatch.TranscodingJob, error) {
	return a.dispatcher.NextJob(ctx, machineName)
}

func (a *JobPlaneApp) Pause(ctx context.Context, correlationID string) (int, error) {
	return a.dispatcher.Pause(ctx, correlationID)
}
