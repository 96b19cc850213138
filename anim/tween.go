package anim

import (
	"github.com/fogleman/ease"

	"scenic/transform"
)

// Easing remaps a parameter in [0, 1]. The fogleman/ease functions all
// satisfy this.
type Easing func(float64) float64

// Tween produces n in-between transforms from one matrix to another,
// blending elementwise with the eased parameter. The endpoints are
// included. A nil easing means linear.
func Tween(from, to transform.Matrix, n int, fn Easing) []transform.Matrix {
	if fn == nil {
		fn = ease.Linear
	}
	if n < 2 {
		return []transform.Matrix{to}
	}

	out := make([]transform.Matrix, n)
	for i := 0; i < n; i++ {
		t := fn(float64(i) / float64(n-1))
		var m transform.Matrix
		for j := range m {
			m[j] = from[j] + (to[j]-from[j])*t
		}
		out[i] = m
	}
	return out
}

// TweenFrames records a tween between two transforms as frames for a
// single object, spaced evenly between t0 and t1.
func TweenFrames(a *Animation, id string, from, to transform.Matrix, t0, t1 float64, n int, fn Easing) {
	matrices := Tween(from, to, n, fn)
	for i, m := range matrices {
		t := t0
		if n > 1 {
			t = t0 + (t1-t0)*float64(i)/float64(n-1)
		}
		a.AddFrame(Frame{
			Time:       t,
			Transforms: map[string]transform.Matrix{id: m},
		})
	}
}
