package domain

import "time"

// MuxRequest asks for exactly one video track and one audio track to be
// combined into a single container, with no re-encoding.
type MuxRequest struct {
	CorrelationID       string
	VideoSource         string
	AudioSource         string
	DestinationFolder   string
	DestinationFilename string
	Needed              time.Time
	Inpoint             *time.Duration
}
