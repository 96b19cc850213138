package viewer

import (
	"scenic/anim"
)

// DefaultColor is used for objects created with a zero Options.Color.
const DefaultColor = 0x888888

// Object describes a scene object for an add_object command. Geometry
// fields are populated according to Type; the page routes everything else
// to the material and transform.
type Object struct {
	ID   string `json:"id"`
	Type string `json:"type"`

	Color     int     `json:"color"`
	Opacity   float64 `json:"opacity,omitempty"`
	Wireframe bool    `json:"wireframe,omitempty"`

	Position []float64 `json:"position,omitempty"`
	Rotation []float64 `json:"rotation,omitempty"`
	Scale    float64   `json:"scale,omitempty"`

	// Box and plane.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Depth  float64 `json:"depth,omitempty"`

	// Sphere and cylinder.
	Radius       float64 `json:"radius,omitempty"`
	RadiusTop    float64 `json:"radiusTop,omitempty"`
	RadiusBottom float64 `json:"radiusBottom,omitempty"`

	// Polyline. Small lines travel inline; large ones go as a binary
	// payload instead and leave these empty.
	Points       [][]float64  `json:"points,omitempty"`
	VertexColors [][3]float32 `json:"vertexColors,omitempty"`
	LineWidth    float64      `json:"lineWidth,omitempty"`

	// Model payloads always travel as binary; the format tag rides along
	// in the payload header.
	Format string `json:"format,omitempty"`
}

// Update is a partial transform change for one object. Matrix, when set,
// takes precedence over the component fields.
type Update struct {
	Position []float64 `json:"position,omitempty"`
	Rotation []float64 `json:"rotation,omitempty"`
	Scale    float64   `json:"scale,omitempty"`
	Matrix   []float64 `json:"matrix,omitempty"`
}

// Camera positions the viewpoint and its orbit target.
type Camera struct {
	Position []float64 `json:"position"`
	Target   []float64 `json:"target,omitempty"`
}

// command is the JSON envelope for every text-frame message to the page.
type command struct {
	Type string `json:"type"`

	Object     *Object           `json:"object,omitempty"`
	ID         string            `json:"id,omitempty"`
	Update     *Update           `json:"update,omitempty"`
	Updates    map[string]Update `json:"updates,omitempty"`
	Color      *int              `json:"color,omitempty"`
	Opacity    *float64          `json:"opacity,omitempty"`
	Visible    *bool             `json:"visible,omitempty"`
	Animation  *anim.Animation   `json:"animation,omitempty"`
	Camera     *Camera           `json:"camera,omitempty"`
	Background *int              `json:"background,omitempty"`
}

// Options carries the common appearance and placement settings for add
// operations. A zero Color means DefaultColor.
type Options struct {
	Color     int
	Position  [3]float64
	Rotation  [3]float64
	Scale     float64
	Opacity   float64
	Wireframe bool
}

func (o Options) apply(obj *Object) {
	obj.Color = o.Color
	if obj.Color == 0 {
		obj.Color = DefaultColor
	}
	if o.Position != [3]float64{} {
		obj.Position = []float64{o.Position[0], o.Position[1], o.Position[2]}
	}
	if o.Rotation != [3]float64{} {
		obj.Rotation = []float64{o.Rotation[0], o.Rotation[1], o.Rotation[2]}
	}
	obj.Scale = o.Scale
	obj.Opacity = o.Opacity
	obj.Wireframe = o.Wireframe
}

// PolylineOptions configures AddPolyline. When Values is set the points
// are colored through the named colormap; otherwise Color applies to the
// whole line.
type PolylineOptions struct {
	Color     int
	LineWidth float64

	Colormap string
	Values   []float64
	CMin     float64
	CMax     float64
}
