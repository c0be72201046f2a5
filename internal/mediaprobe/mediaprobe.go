// Package mediaprobe inspects a media file for the metadata the planner
// needs. Probing is delegated entirely to an external tool invocation;
// there is no in-process media parsing.
package mediaprobe

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"jobplane/pkg/errno"
)

// Metadata is the probed subset of a media file's characteristics.
type Metadata struct {
	DurationSeconds int
	Framerate       float64
}

// Prober inspects a media file and reports its duration and framerate.
type Prober interface {
	Probe(ctx context.Context, path string) (Metadata, error)
}

// FFProbe shells out to ffprobe, mirroring the pattern the worker-side
// executor already uses for its own quick duration check.
type FFProbe struct {
	BinaryPath string
	Timeout    time.Duration
}

func NewFFProbe(binaryPath string, timeout time.Duration) *FFProbe {
	if strings.TrimSpace(binaryPath) == "" {
		binaryPath = "ffprobe"
	}
	return &FFProbe{BinaryPath: binaryPath, Timeout: timeout}
}

func (p *FFProbe) Probe(ctx context.Context, path string) (Metadata, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	duration, err := p.probeDuration(ctx, path)
	if err != nil {
		return Metadata{}, errno.ErrProbeFailed.WithCause(err)
	}
	framerate, err := p.probeFramerate(ctx, path)
	if err != nil {
		return Metadata{}, errno.ErrProbeFailed.WithCause(err)
	}
	return Metadata{DurationSeconds: duration, Framerate: framerate}, nil
}

func (p *FFProbe) probeDuration(ctx context.Context, path string) (int, error) {
	cmd := exec.CommandContext(ctx, p.BinaryPath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe duration: %w", err)
	}
	seconds, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", out, err)
	}
	return int(seconds), nil
}

func (p *FFProbe) probeFramerate(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, p.BinaryPath,
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=r_frame_rate",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe framerate: %w", err)
	}
	return parseRational(strings.TrimSpace(string(out)))
}

// parseRational parses ffprobe's "num/den" framerate representation.
func parseRational(s string) (float64, error) {
	num, den, hasDen := strings.Cut(s, "/")
	n, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, fmt.Errorf("parse framerate numerator %q: %w", num, err)
	}
	if !hasDen || den == "" {
		return n, nil
	}
	d, err := strconv.ParseFloat(den, 64)
	if err != nil || d == 0 {
		return n, nil
	}
	return n / d, nil
}
