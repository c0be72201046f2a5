package argbuilder

import "testing"

func TestBuild(t *testing.T) {
	sendFrame := ModeSendFrame
	auto := ParityAuto

	cases := []struct {
		name string
		p    Params
		want string
	}{
		{
			name: "input only",
			p:    Params{Input: "in.mp4"},
			want: `-i "in.mp4"`,
		},
		{
			name: "video and audio",
			p: Params{
				Input: "in.mp4",
				Video: &VideoSettings{Codec: "libx264", BitrateBps: 2_000_000, Size: &Size{Width: 1280, Height: 720}},
				Audio: &AudioSettings{Codec: "AAC", BitrateBps: 128_000},
			},
			want: `-i "in.mp4" -filter_complex "scale=1280:720" -codec:v libx264 -preset medium -b:v 2000k -codec:a aac -b:a 128k`,
		},
		{
			name: "custom preset",
			p: Params{
				Input: "in.mp4",
				Video: &VideoSettings{Codec: "libx264", BitrateBps: 2_000_000, Preset: "fast"},
			},
			want: `-i "in.mp4" -codec:v libx264 -preset fast -b:v 2000k`,
		},
		{
			// S6
			name: "deinterlace filter followed by audio settings",
			p: Params{
				Input:       "file",
				Deinterlace: &Deinterlace{Mode: &sendFrame, Parity: &auto, AllFrames: true},
				Audio:       &AudioSettings{Codec: "AAC", BitrateBps: 128_000},
			},
			want: `-i "file" -filter_complex "yadif=0:-1:1" -codec:a aac -b:a 128k`,
		},
		{
			name: "deinterlace drops scale when video size also present",
			p: Params{
				Input:       "file",
				Video:       &VideoSettings{Codec: "libx264", BitrateBps: 1_000_000, Size: &Size{Width: 640, Height: 480}},
				Deinterlace: &Deinterlace{Mode: &sendFrame, Parity: &auto},
			},
			want: `-i "file" -filter_complex "yadif=0:-1:0" -codec:v libx264 -preset medium -b:v 1000k`,
		},
		{
			name: "incomplete deinterlace is ignored, scale still applies",
			p: Params{
				Input: "file",
				Video: &VideoSettings{Codec: "libx264", BitrateBps: 1_000_000, Size: &Size{Width: 640, Height: 480}},
				Deinterlace: &Deinterlace{
					Mode: &sendFrame, // Parity left nil: filter must not fire.
				},
			},
			want: `-i "file" -filter_complex "scale=640:480" -codec:v libx264 -preset medium -b:v 1000k`,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Build(c.p)
			if got != c.want {
				t.Fatalf("Build() = %q, want %q", got, c.want)
			}
		})
	}
}

func TestBuildDeterministic(t *testing.T) {
	sendField := ModeSendField
	top := ParityTop
	p := Params{
		Input:       "clip.mov",
		Video:       &VideoSettings{Codec: "libx264", BitrateBps: 3_500_000, Size: &Size{Width: 1920, Height: 1080}},
		Audio:       &AudioSettings{Codec: "aac", BitrateBps: 192_000},
		Deinterlace: &Deinterlace{Mode: &sendField, Parity: &top, AllFrames: false},
	}
	first := Build(p)
	for i := 0; i < 10; i++ {
		if got := Build(p); got != first {
			t.Fatalf("Build() not deterministic: %q != %q", got, first)
		}
	}
}
