// Package anim describes pre-computed animation sequences for the looping
// playback mode: per-object state snapshots over time, plus timeline
// markers. The viewer ships a whole Animation to the browser once and the
// page replays it without further involvement from this process.
package anim

import (
	"scenic/transform"
)

// Frame is one snapshot on the timeline. Every map is keyed by object id
// and only needs entries for objects that change in this frame.
type Frame struct {
	Time       float64                     `json:"time"`
	Transforms map[string]transform.Matrix `json:"transforms,omitempty"`
	Colors     map[string]int              `json:"colors,omitempty"`
	Visibility map[string]bool             `json:"visibility,omitempty"`
	Opacity    map[string]float64          `json:"opacity,omitempty"`
}

// Marker labels a point on the timeline, rendered as a tick on the
// playback bar.
type Marker struct {
	Time  float64 `json:"time"`
	Label string  `json:"label"`
	Color int     `json:"color"`
}

// Animation is an ordered list of frames with optional markers.
type Animation struct {
	Loop    bool     `json:"loop"`
	Frames  []Frame  `json:"frames"`
	Markers []Marker `json:"markers,omitempty"`

	// FrameRate overrides the playback rate. When zero the rate is derived
	// from the frame times.
	FrameRate float64 `json:"fps,omitempty"`
}

// New creates an empty Animation.
func New(loop bool) *Animation {
	return &Animation{Loop: loop}
}

// AddFrame appends a frame. Frames are expected in time order.
func (a *Animation) AddFrame(f Frame) {
	a.Frames = append(a.Frames, f)
}

// AddMarker adds a timeline marker.
func (a *Animation) AddMarker(time float64, label string, color int) {
	a.Markers = append(a.Markers, Marker{Time: time, Label: label, Color: color})
}

// NFrames returns the number of frames.
func (a *Animation) NFrames() int {
	return len(a.Frames)
}

// Duration returns the time of the last frame, or zero for an empty
// animation.
func (a *Animation) Duration() float64 {
	if len(a.Frames) == 0 {
		return 0
	}
	return a.Frames[len(a.Frames)-1].Time
}

// FPS returns the playback rate: FrameRate when set, otherwise the rate
// implied by the frame count and duration.
func (a *Animation) FPS() float64 {
	if a.FrameRate > 0 {
		return a.FrameRate
	}
	d := a.Duration()
	if d <= 0 || len(a.Frames) < 2 {
		return 30
	}
	return float64(len(a.Frames)-1) / d
}
