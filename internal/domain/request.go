package domain

import "time"

// TargetRendition is a desired output profile for a request; each video
// chunk produces one output per target.
type TargetRendition struct {
	Width        int
	Height       int
	VideoBitrate int // kbps
	AudioBitrate int // kbps
}

// Request is a logical submission. It is created once and never mutated;
// the correlation id binds it to the jobs and parts the planner derives
// from it.
type Request struct {
	CorrelationID     string
	VideoSource       string
	AudioSource       string
	Destination       string
	Needed            time.Time
	EnableDash        bool
	HasAlternateAudio bool
	Targets           []TargetRendition
}
