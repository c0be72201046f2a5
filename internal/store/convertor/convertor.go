// Package convertor translates between domain types and their persisted
// (po) representations, the way the teacher's convertor package does for
// its own entity/PO pair.
package convertor

import (
	"time"

	"jobplane/internal/domain"
	"jobplane/internal/store/po"
)

// RequestToPO maps a domain.Request to its persisted form. now stamps the
// created column; domain.Request itself carries no creation timestamp.
func RequestToPO(r *domain.Request, now time.Time) *po.Request {
	return &po.Request{
		CorrelationID: r.CorrelationID,
		VideoSource:   r.VideoSource,
		AudioSource:   r.AudioSource,
		Destination:   r.Destination,
		Needed:        r.Needed,
		Created:       now,
		EnableDash:    r.EnableDash,
	}
}

func JobToPO(j *domain.Job) *po.Job {
	return &po.Job{
		BaseModel:     po.BaseModel{ID: j.ID},
		CorrelationID: j.CorrelationID,
		Arguments:     j.Arguments,
		Needed:        j.Needed,
		Kind:          string(j.Kind),
		Source:        j.Source,
		ChunkDuration: j.ChunkDuration,
		Active:        j.Active,
		Taken:         j.Taken,
		Done:          j.Done,
		Heartbeat:     j.Heartbeat,
	}
}

func JobFromPO(p *po.Job) *domain.Job {
	return &domain.Job{
		ID:            p.ID,
		CorrelationID: p.CorrelationID,
		Arguments:     p.Arguments,
		Needed:        p.Needed,
		Kind:          domain.JobKind(p.Kind),
		Source:        p.Source,
		ChunkDuration: p.ChunkDuration,
		Active:        p.Active,
		Taken:         p.Taken,
		Done:          p.Done,
		Heartbeat:     p.Heartbeat,
	}
}

func PartToPO(p *domain.Part) *po.Part {
	return &po.Part{
		CorrelationID: p.CorrelationID,
		TargetIndex:   p.TargetIndex,
		Number:        p.Number,
		Filename:      p.Filename,
	}
}
