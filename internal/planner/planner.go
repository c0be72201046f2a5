// Package planner turns a validated, probed request into the ordered set
// of unit jobs and parts that JobRepository will persist atomically. It is
// pure: given the same request and probed metadata it always returns the
// same jobs and parts, in the same order.
package planner

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"jobplane/internal/domain"
	"jobplane/internal/mediaprobe"
)

// ChunkSeconds is the fixed video chunk size the video pass encodes against.
const ChunkSeconds = 60

// Plan decomposes req into jobs and parts. Audio jobs are emitted first for
// every target, then the chunked video pass, matching the dispatch order
// that lets the longest-running (unchunked) audio work start in parallel
// with the chunked video work.
func Plan(req *domain.Request, meta mediaprobe.Metadata, enableCrf bool) ([]*domain.Job, []*domain.Part, error) {
	destFolder, prefix, destExt := splitDestination(req.Destination)

	audioSource := req.AudioSource
	if !req.HasAlternateAudio {
		audioSource = req.VideoSource
	}

	audioJobs, audioParts := planAudioPass(req, audioSource, destFolder, prefix, meta.DurationSeconds)

	if req.VideoSource == "" {
		return audioJobs, audioParts, nil
	}

	videoJobs, videoParts := planVideoPass(req, meta, destFolder, prefix, destExt, enableCrf)

	jobs := make([]*domain.Job, 0, len(audioJobs)+len(videoJobs))
	jobs = append(jobs, audioJobs...)
	jobs = append(jobs, videoJobs...)

	parts := make([]*domain.Part, 0, len(audioParts)+len(videoParts))
	parts = append(parts, audioParts...)
	parts = append(parts, videoParts...)

	return jobs, parts, nil
}

func planAudioPass(req *domain.Request, audioSource, destFolder, prefix string, chunkDuration int) ([]*domain.Job, []*domain.Part) {
	jobs := make([]*domain.Job, 0, len(req.Targets))
	parts := make([]*domain.Part, 0, len(req.Targets))

	for i, target := range req.Targets {
		output := fmt.Sprintf("%s/%s_%d_audio.mp4", destFolder, prefix, i)
		parts = append(parts, &domain.Part{
			CorrelationID: req.CorrelationID,
			TargetIndex:   i,
			Number:        0,
			Filename:      output,
		})
		args := fmt.Sprintf(`-y -i "%s" -c:a aac -b:a %dk -vn "%s"`, audioSource, target.AudioBitrate, output)
		jobs = append(jobs, &domain.Job{
			CorrelationID: req.CorrelationID,
			Arguments:     args,
			Needed:        req.Needed,
			Kind:          domain.JobKindAudio,
			Source:        audioSource,
			ChunkDuration: chunkDuration,
			Active:        true,
		})
	}
	return jobs, parts
}

func planVideoPass(req *domain.Request, meta mediaprobe.Metadata, destFolder, prefix, destExt string, enableCrf bool) ([]*domain.Job, []*domain.Part) {
	var jobs []*domain.Job
	var parts []*domain.Part

	for k := 0; k*ChunkSeconds < meta.DurationSeconds; k++ {
		start := k * ChunkSeconds

		var b strings.Builder
		fmt.Fprintf(&b, `-y -ss %s -t %d -i "%s"`, formatChunkStart(start), ChunkSeconds, req.VideoSource)

		for j, target := range req.Targets {
			chunkFilename := fmt.Sprintf("%s/%s_%d_%d%s", destFolder, prefix, j, start, destExt)
			b.WriteByte(' ')
			b.WriteString(renditionTail(target, meta.Framerate, enableCrf, req.EnableDash, chunkFilename))
			parts = append(parts, &domain.Part{
				CorrelationID: req.CorrelationID,
				TargetIndex:   j,
				Number:        k,
				Filename:      chunkFilename,
			})
		}

		jobs = append(jobs, &domain.Job{
			CorrelationID: req.CorrelationID,
			Arguments:     b.String(),
			Needed:        req.Needed,
			Kind:          domain.JobKindVideo,
			Source:        req.VideoSource,
			ChunkDuration: ChunkSeconds,
			Active:        true,
		})
	}

	return jobs, parts
}

// renditionTail renders one target's per-rendition tail. The three modes
// are mutually exclusive; DASH takes precedence over the CRF toggle.
func renditionTail(t domain.TargetRendition, framerate float64, enableCrf, enableDash bool, filename string) string {
	switch {
	case enableDash:
		gop := int(math.Round(framerate * 4))
		return fmt.Sprintf(`-s %dx%d -c:v libx264 -g %d -keyint_min %d -profile:v high -b:v %dk -level 4.1 -pix_fmt yuv420p -an "%s"`,
			t.Width, t.Height, gop, gop, t.VideoBitrate, filename)
	case enableCrf:
		buf := (t.VideoBitrate / 8) * ChunkSeconds
		return fmt.Sprintf(`-s %dx%d -c:v libx264 -profile:v high -crf 18 -preset medium -maxrate %dk -bufsize %dk -level 4.1 -pix_fmt yuv420p -an "%s"`,
			t.Width, t.Height, t.VideoBitrate, buf, filename)
	default:
		return fmt.Sprintf(`-s %dx%d -c:v libx264 -profile:v high -b:v %dk -level 4.1 -pix_fmt yuv420p -an "%s"`,
			t.Width, t.Height, t.VideoBitrate, filename)
	}
}

// PlanMux produces the single mux job for a MuxRequest. videoDuration is the
// probed duration of the video source, inherited as the job's ChunkDuration.
func PlanMux(req *domain.MuxRequest, videoDuration int) *domain.Job {
	var b strings.Builder
	if req.Inpoint != nil {
		fmt.Fprintf(&b, "-ss %s ", formatMuxInpoint(*req.Inpoint))
	}
	out := fmt.Sprintf("%s/%s", req.DestinationFolder, req.DestinationFilename)
	fmt.Fprintf(&b, `-xerror -i "%s" -i "%s" -map 0:v:0 -map 1:a:0 -c copy -y "%s"`, req.VideoSource, req.AudioSource, out)

	return &domain.Job{
		CorrelationID: req.CorrelationID,
		Arguments:     b.String(),
		Needed:        req.Needed,
		Kind:          domain.JobKindMux,
		Source:        req.VideoSource,
		ChunkDuration: videoDuration,
		Active:        true,
	}
}

// formatChunkStart renders a chunk start offset as zero-padded HH:MM:SS,
// the format video chunk `-ss` values use.
func formatChunkStart(seconds int) string {
	h := seconds / 3600
	m := (seconds % 3600) / 60
	s := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// formatMuxInpoint renders a mux inpoint as H:MM:SS — the hour is not
// zero-padded, unlike formatChunkStart. Both formats are taken verbatim
// from the observed argument strings; they are not interchangeable.
func formatMuxInpoint(d time.Duration) string {
	total := int(d.Seconds())
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	return fmt.Sprintf("%d:%02d:%02d", h, m, s)
}

func splitDestination(dest string) (folder, prefix, ext string) {
	folder = filepath.Dir(dest)
	base := filepath.Base(dest)
	ext = filepath.Ext(base)
	prefix = strings.TrimSuffix(base, ext)
	return
}
