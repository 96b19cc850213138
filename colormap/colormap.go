// Package colormap maps scalar series onto perceptual color ramps for
// gradient-colored polylines.
package colormap

import (
	"github.com/lucasb-eyer/go-colorful"
)

// Table stores a look-up table of colors interpolated by position in [0, 1].
type Table []struct {
	Pos   float64
	Color colorful.Color
}

// GetColor gets the color at the specified point on the look-up table.
func (g Table) GetColor(t float64) colorful.Color {
	if t <= g[0].Pos {
		return g[0].Color
	}
	for i := 0; i < len(g)-1; i++ {
		c1 := g[i]
		c2 := g[i+1]
		if c1.Pos <= t && t <= c2.Pos {
			return c1.Color.BlendRgb(c2.Color, (t-c1.Pos)/(c2.Pos-c1.Pos))
		}
	}
	return g[len(g)-1].Color
}

func rgb(r, g, b float64) colorful.Color {
	return colorful.Color{R: r, G: g, B: b}
}

// Anchor stops sampled from the matplotlib colormaps of the same names.
var tables = map[string]Table{
	"viridis": {
		{0.0, rgb(0.267, 0.005, 0.329)},
		{0.125, rgb(0.283, 0.141, 0.458)},
		{0.25, rgb(0.254, 0.265, 0.530)},
		{0.375, rgb(0.207, 0.372, 0.553)},
		{0.5, rgb(0.164, 0.471, 0.558)},
		{0.625, rgb(0.128, 0.567, 0.551)},
		{0.75, rgb(0.135, 0.659, 0.518)},
		{0.875, rgb(0.478, 0.821, 0.318)},
		{1.0, rgb(0.993, 0.906, 0.144)},
	},
	"plasma": {
		{0.0, rgb(0.050, 0.030, 0.528)},
		{0.125, rgb(0.287, 0.011, 0.627)},
		{0.25, rgb(0.418, 0.001, 0.658)},
		{0.375, rgb(0.563, 0.052, 0.642)},
		{0.5, rgb(0.694, 0.165, 0.565)},
		{0.625, rgb(0.798, 0.280, 0.470)},
		{0.75, rgb(0.881, 0.393, 0.383)},
		{0.875, rgb(0.949, 0.518, 0.296)},
		{1.0, rgb(0.940, 0.975, 0.131)},
	},
	"turbo": {
		{0.0, rgb(0.190, 0.072, 0.232)},
		{0.125, rgb(0.276, 0.413, 0.978)},
		{0.25, rgb(0.127, 0.694, 0.964)},
		{0.375, rgb(0.061, 0.896, 0.722)},
		{0.5, rgb(0.475, 0.999, 0.365)},
		{0.625, rgb(0.833, 0.915, 0.208)},
		{0.75, rgb(0.996, 0.696, 0.240)},
		{0.875, rgb(0.893, 0.357, 0.093)},
		{1.0, rgb(0.480, 0.016, 0.011)},
	},
}

// Lookup returns the named colormap table, falling back to viridis for
// unknown names.
func Lookup(name string) Table {
	if t, ok := tables[name]; ok {
		return t
	}
	return tables["viridis"]
}

// Names lists the built-in colormaps.
func Names() []string {
	return []string{"viridis", "plasma", "turbo"}
}

// Map normalizes values into [cmin, cmax] and maps them through the named
// colormap, producing one RGB triple per value with channels in [0, 1].
// Values outside the range are clamped; when cmin == cmax every value maps
// to the low end of the ramp.
func Map(values []float64, name string, cmin, cmax float64) [][3]float32 {
	table := Lookup(name)
	span := cmax - cmin

	out := make([][3]float32, len(values))
	for i, v := range values {
		t := 0.0
		if span != 0 {
			t = (v - cmin) / span
			if t < 0 {
				t = 0
			} else if t > 1 {
				t = 1
			}
		}
		c := table.GetColor(t)
		out[i] = [3]float32{float32(c.R), float32(c.G), float32(c.B)}
	}
	return out
}
