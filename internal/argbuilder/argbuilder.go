// Package argbuilder maps a structured encode-parameter record to the
// argument string the external media tool consumes. It is the interface
// contract between the job plane and the worker's tool invocation, so
// emission order and formatting are fixed, not merely conventional.
package argbuilder

import (
	"fmt"
	"strings"
)

// DeinterlaceMode selects yadif's mode argument.
type DeinterlaceMode int

const (
	ModeSendFrame DeinterlaceMode = 0
	ModeSendField DeinterlaceMode = 1
)

// Parity selects yadif's field-parity argument.
type Parity int

const (
	ParityAuto   Parity = -1
	ParityTop    Parity = 0
	ParityBottom Parity = 1
)

// Size is a target frame size in pixels.
type Size struct {
	Width  int
	Height int
}

// Deinterlace holds yadif settings. Mode and Parity are pointers because
// the filter is only emitted when both are known; a present-but-incomplete
// Deinterlace is treated as absent.
type Deinterlace struct {
	Mode      *DeinterlaceMode
	Parity    *Parity
	AllFrames bool
}

func (d *Deinterlace) known() bool {
	return d != nil && d.Mode != nil && d.Parity != nil
}

// VideoSettings are the optional video encode parameters.
type VideoSettings struct {
	Codec      string
	BitrateBps int
	Preset     string // defaults to "medium" when empty
	Size       *Size
}

// AudioSettings are the optional audio encode parameters.
type AudioSettings struct {
	Codec      string
	BitrateBps int
}

// Params is the full parameter record ArgBuilder consumes.
type Params struct {
	Input       string
	Video       *VideoSettings
	Audio       *AudioSettings
	Deinterlace *Deinterlace
}

// Build renders p into the external tool's argument string. It is total and
// deterministic: the same Params always produces the same byte string.
//
// Deinterlace and scaling are mutually exclusive in the output; when both
// are present the deinterlace filter wins and the scale filter is dropped.
// This is a known limitation, not a bug: composing scale into the same
// filter graph as yadif would need a feature this builder doesn't expose.
func Build(p Params) string {
	var b strings.Builder
	fmt.Fprintf(&b, `-i "%s"`, p.Input)

	switch {
	case p.Deinterlace.known():
		all := 0
		if p.Deinterlace.AllFrames {
			all = 1
		}
		fmt.Fprintf(&b, ` -filter_complex "yadif=%d:%d:%d"`, int(*p.Deinterlace.Mode), int(*p.Deinterlace.Parity), all)
	case p.Video != nil && p.Video.Size != nil:
		fmt.Fprintf(&b, ` -filter_complex "scale=%d:%d"`, p.Video.Size.Width, p.Video.Size.Height)
	}

	if p.Video != nil {
		preset := p.Video.Preset
		if preset == "" {
			preset = "medium"
		}
		fmt.Fprintf(&b, " -codec:v %s -preset %s -b:v %dk",
			strings.ToLower(p.Video.Codec), preset, p.Video.BitrateBps/1000)
	}

	if p.Audio != nil {
		fmt.Fprintf(&b, " -codec:a %s -b:a %dk",
			strings.ToLower(p.Audio.Codec), p.Audio.BitrateBps/1000)
	}

	return b.String()
}
