package planner

import (
	"strings"
	"testing"
	"time"

	"jobplane/internal/domain"
	"jobplane/internal/mediaprobe"
)

func baseRequest() *domain.Request {
	return &domain.Request{
		CorrelationID: "corr-1",
		VideoSource:   "/src/movie.mov",
		Destination:   "/out/movie.mp4",
		Needed:        time.Unix(0, 0),
		Targets: []domain.TargetRendition{
			{Width: 1280, Height: 720, VideoBitrate: 2000, AudioBitrate: 128},
		},
	}
}

// S1
func TestPlanAudioFirstOrdering(t *testing.T) {
	req := baseRequest()
	jobs, parts, err := Plan(req, mediaprobe.Metadata{DurationSeconds: 180, Framerate: 30}, false)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(jobs) != 4 {
		t.Fatalf("got %d jobs, want 4", len(jobs))
	}
	if jobs[0].Kind != domain.JobKindAudio {
		t.Fatalf("jobs[0].Kind = %v, want audio", jobs[0].Kind)
	}
	wantAudio := `-y -i "/src/movie.mov" -c:a aac -b:a 128k -vn "/out/movie_0_audio.mp4"`
	if jobs[0].Arguments != wantAudio {
		t.Fatalf("audio args = %q, want %q", jobs[0].Arguments, wantAudio)
	}

	wantStarts := []string{"00:00:00", "00:01:00", "00:02:00"}
	for i, start := range wantStarts {
		job := jobs[1+i]
		if job.Kind != domain.JobKindVideo {
			t.Fatalf("jobs[%d].Kind = %v, want video", 1+i, job.Kind)
		}
		prefix := `-y -ss ` + start + ` -t 60 -i "/src/movie.mov"`
		if len(job.Arguments) < len(prefix) || job.Arguments[:len(prefix)] != prefix {
			t.Fatalf("jobs[%d].Arguments = %q, want prefix %q", 1+i, job.Arguments, prefix)
		}
	}

	if len(parts) != 4 {
		t.Fatalf("got %d parts, want 4", len(parts))
	}
	if parts[0].Filename != "/out/movie_0_audio.mp4" {
		t.Fatalf("parts[0].Filename = %q", parts[0].Filename)
	}
	wantChunkFiles := []string{"/out/movie_0_0.mp4", "/out/movie_0_60.mp4", "/out/movie_0_120.mp4"}
	for i, want := range wantChunkFiles {
		if parts[1+i].Filename != want {
			t.Fatalf("parts[%d].Filename = %q, want %q", 1+i, parts[1+i].Filename, want)
		}
		if parts[1+i].Number != i {
			t.Fatalf("parts[%d].Number = %d, want %d", 1+i, parts[1+i].Number, i)
		}
	}
}

// S2
func TestPlanCrfMode(t *testing.T) {
	req := baseRequest()
	jobs, _, err := Plan(req, mediaprobe.Metadata{DurationSeconds: 180, Framerate: 30}, true)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	want := `-crf 18 -preset medium -maxrate 2000k -bufsize 15000k`
	if !strings.Contains(jobs[1].Arguments, want) {
		t.Fatalf("video tail %q does not contain %q", jobs[1].Arguments, want)
	}
}

// S3
func TestPlanDashMode(t *testing.T) {
	req := baseRequest()
	req.EnableDash = true
	jobs, _, err := Plan(req, mediaprobe.Metadata{DurationSeconds: 60, Framerate: 25}, true) // enableCrf ignored
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	want := `-g 100 -keyint_min 100`
	if !strings.Contains(jobs[1].Arguments, want) {
		t.Fatalf("video tail %q does not contain %q", jobs[1].Arguments, want)
	}
	if strings.Contains(jobs[1].Arguments, "-crf") {
		t.Fatalf("dash tail must not contain -crf: %q", jobs[1].Arguments)
	}
}

func TestPlanLastChunkNotShortened(t *testing.T) {
	req := baseRequest()
	jobs, _, err := Plan(req, mediaprobe.Metadata{DurationSeconds: 125, Framerate: 30}, false)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	// ceil(125/60) = 3 chunks; last chunk still has -t 60, not -t 5.
	last := jobs[len(jobs)-1]
	if !strings.Contains(last.Arguments, "-t 60") {
		t.Fatalf("last chunk args = %q, want -t 60 (not shortened)", last.Arguments)
	}
}

func TestPlanAlternateAudioSource(t *testing.T) {
	req := baseRequest()
	req.HasAlternateAudio = true
	req.AudioSource = "/src/alt.wav"
	jobs, _, err := Plan(req, mediaprobe.Metadata{DurationSeconds: 60, Framerate: 30}, false)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if jobs[0].Source != "/src/alt.wav" {
		t.Fatalf("audio job source = %q, want alternate source", jobs[0].Source)
	}
}

func TestPlanAudioOnlyRequest(t *testing.T) {
	req := baseRequest()
	req.VideoSource = ""
	req.AudioSource = "/src/audio.wav"
	req.HasAlternateAudio = true
	jobs, parts, err := Plan(req, mediaprobe.Metadata{DurationSeconds: 90}, false)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(jobs) != 1 || jobs[0].Kind != domain.JobKindAudio {
		t.Fatalf("got %d jobs, want exactly 1 audio job", len(jobs))
	}
	if len(parts) != 1 {
		t.Fatalf("got %d parts, want 1", len(parts))
	}
}

// S4
func TestPlanMuxWithInpoint(t *testing.T) {
	inpoint := 5 * time.Second
	req := &domain.MuxRequest{
		CorrelationID:       "corr-2",
		VideoSource:         "v.mp4",
		AudioSource:         "a.aac",
		DestinationFolder:   "/out",
		DestinationFilename: "muxed.mp4",
		Inpoint:             &inpoint,
	}
	job := PlanMux(req, 120)
	want := `-ss 0:00:05 -xerror -i "v.mp4" -i "a.aac" -map 0:v:0 -map 1:a:0 -c copy -y "/out/muxed.mp4"`
	if job.Arguments != want {
		t.Fatalf("mux args = %q, want %q", job.Arguments, want)
	}
	if job.Kind != domain.JobKindMux {
		t.Fatalf("job.Kind = %v, want mux", job.Kind)
	}
}

func TestPlanMuxWithoutInpoint(t *testing.T) {
	req := &domain.MuxRequest{
		VideoSource:         "v.mp4",
		AudioSource:         "a.aac",
		DestinationFolder:   "/out",
		DestinationFilename: "muxed.mp4",
	}
	job := PlanMux(req, 120)
	want := `-xerror -i "v.mp4" -i "a.aac" -map 0:v:0 -map 1:a:0 -c copy -y "/out/muxed.mp4"`
	if job.Arguments != want {
		t.Fatalf("mux args = %q, want %q", job.Arguments, want)
	}
}
