package anim

import (
	"scenic/transform"
)

// Recorder builds an Animation incrementally from a mutable working set.
// Callers mutate object state between captures; each Capture snapshots the
// full working set into a frame, so frames are self-contained and the
// player can seek anywhere on the timeline.
type Recorder struct {
	animation *Animation

	transforms map[string]transform.Matrix
	colors     map[string]int
	visibility map[string]bool
	opacity    map[string]float64
}

// NewRecorder creates a Recorder feeding the given animation.
func NewRecorder(a *Animation) *Recorder {
	r := new(Recorder)
	r.animation = a
	r.transforms = make(map[string]transform.Matrix)
	r.colors = make(map[string]int)
	r.visibility = make(map[string]bool)
	r.opacity = make(map[string]float64)
	return r
}

// SetTransform updates an object's transform in the working set.
func (r *Recorder) SetTransform(id string, m transform.Matrix) {
	r.transforms[id] = m
}

// SetColor updates an object's color in the working set.
func (r *Recorder) SetColor(id string, color int) {
	r.colors[id] = color
}

// SetVisible updates an object's visibility in the working set.
func (r *Recorder) SetVisible(id string, visible bool) {
	r.visibility[id] = visible
}

// SetOpacity updates an object's opacity in the working set.
func (r *Recorder) SetOpacity(id string, opacity float64) {
	r.opacity[id] = opacity
}

// Capture snapshots the working set as a frame at the given time.
func (r *Recorder) Capture(time float64) {
	f := Frame{Time: time}
	if len(r.transforms) > 0 {
		f.Transforms = make(map[string]transform.Matrix, len(r.transforms))
		for id, m := range r.transforms {
			f.Transforms[id] = m
		}
	}
	if len(r.colors) > 0 {
		f.Colors = make(map[string]int, len(r.colors))
		for id, c := range r.colors {
			f.Colors[id] = c
		}
	}
	if len(r.visibility) > 0 {
		f.Visibility = make(map[string]bool, len(r.visibility))
		for id, v := range r.visibility {
			f.Visibility[id] = v
		}
	}
	if len(r.opacity) > 0 {
		f.Opacity = make(map[string]float64, len(r.opacity))
		for id, o := range r.opacity {
			f.Opacity[id] = o
		}
	}
	r.animation.AddFrame(f)
}

// Animation returns the animation being recorded.
func (r *Recorder) Animation() *Animation {
	return r.animation
}
