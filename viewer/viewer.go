// Package viewer drives a browser-hosted three.js renderer over a local
// WebSocket. A Viewer runs the socket server; the browser page connects
// to it, applies scene commands as they arrive, and reconnects on its own
// whenever the controlling process restarts.
package viewer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"scenic/anim"
	"scenic/colormap"
	"scenic/transform"
)

// Config holds the server settings.
type Config struct {
	Host  string `yaml:"host"`
	Port  int    `yaml:"port"`
	Title string `yaml:"title"`
}

// DefaultConfig returns the settings the browser page assumes by default.
func DefaultConfig() Config {
	return Config{Host: "localhost", Port: 5666, Title: "scenic"}
}

// Polylines above this many points are shipped as binary buffers instead
// of inline JSON.
const inlinePointLimit = 1024

// Formats the browser-side loaders understand, keyed by file extension.
var modelFormats = map[string]string{
	".gltf": "gltf",
	".glb":  "glb",
	".stl":  "stl",
	".obj":  "obj",
	".fbx":  "fbx",
	".dae":  "dae",
	".ply":  "ply",
	".3ds":  "3ds",
}

// Viewer is the imperative scene interface. All methods are safe for
// concurrent use.
type Viewer struct {
	config Config
	addr   string
	hub    *hub
}

// New starts the viewer server and returns immediately. Open
// http://host:port/ in a browser to attach the renderer; commands issued
// before that are queued. A negative Port binds an ephemeral port.
func New(config Config) (*Viewer, error) {
	if config.Host == "" {
		config.Host = "localhost"
	}
	if config.Port == 0 {
		config.Port = DefaultConfig().Port
	} else if config.Port < 0 {
		config.Port = 0
	}
	if config.Title == "" {
		config.Title = DefaultConfig().Title
	}

	v := new(Viewer)
	v.config = config
	v.hub = newHub(renderPage(config.Title))
	addr, err := v.hub.listen(fmt.Sprintf("%s:%d", config.Host, config.Port))
	if err != nil {
		return nil, fmt.Errorf("viewer listen: %w", err)
	}
	v.addr = addr.String()
	return v, nil
}

// Addr returns the host:port the server is bound to.
func (v *Viewer) Addr() string {
	return v.addr
}

// URL returns the address to open in a browser.
func (v *Viewer) URL() string {
	return "http://" + v.Addr() + "/"
}

// WaitForBrowser blocks until a browser tab is attached.
func (v *Viewer) WaitForBrowser(ctx context.Context) error {
	return v.hub.waitAttached(ctx)
}

// Close shuts the server down and closes the browser connection.
func (v *Viewer) Close() error {
	return v.hub.close()
}

func (v *Viewer) sendCommand(c command) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return v.hub.send(wsMessage{data: data})
}

func (v *Viewer) sendBinary(data []byte) error {
	return v.hub.send(wsMessage{binary: true, data: data})
}

func (v *Viewer) addObject(obj *Object) error {
	if obj.ID == "" {
		return fmt.Errorf("add %s: empty object id", obj.Type)
	}
	return v.sendCommand(command{Type: "add_object", Object: obj})
}

// AddBox adds a box with the given extents.
func (v *Viewer) AddBox(id string, width, height, depth float64, opts Options) error {
	obj := &Object{ID: id, Type: "box", Width: width, Height: height, Depth: depth}
	opts.apply(obj)
	return v.addObject(obj)
}

// AddSphere adds a sphere.
func (v *Viewer) AddSphere(id string, radius float64, opts Options) error {
	obj := &Object{ID: id, Type: "sphere", Radius: radius}
	opts.apply(obj)
	return v.addObject(obj)
}

// AddCylinder adds a cylinder, optionally tapered.
func (v *Viewer) AddCylinder(id string, radiusTop, radiusBottom, height float64, opts Options) error {
	obj := &Object{ID: id, Type: "cylinder", RadiusTop: radiusTop, RadiusBottom: radiusBottom, Height: height}
	opts.apply(obj)
	return v.addObject(obj)
}

// AddPlane adds a flat plane.
func (v *Viewer) AddPlane(id string, width, height float64, opts Options) error {
	obj := &Object{ID: id, Type: "plane", Width: width, Height: height}
	opts.apply(obj)
	return v.addObject(obj)
}

// AddPolyline adds a line through the given points. With
// PolylineOptions.Values set, points are colored through the colormap;
// large lines are transferred as a binary buffer.
func (v *Viewer) AddPolyline(id string, points [][3]float64, opts PolylineOptions) error {
	if id == "" {
		return fmt.Errorf("add polyline: empty object id")
	}
	if len(points) < 2 {
		return fmt.Errorf("add polyline %q: need at least 2 points, got %d", id, len(points))
	}

	var colors [][3]float32
	if len(opts.Values) > 0 {
		if len(opts.Values) != len(points) {
			return fmt.Errorf("add polyline %q: %d values for %d points", id, len(opts.Values), len(points))
		}
		cmin, cmax := opts.CMin, opts.CMax
		if cmin == 0 && cmax == 0 {
			cmin, cmax = minMax(opts.Values)
		}
		colors = colormap.Map(opts.Values, opts.Colormap, cmin, cmax)
	}

	color := opts.Color
	if color == 0 {
		color = 0xFFFFFF
	}
	obj := &Object{ID: id, Type: "polyline", Color: color, LineWidth: opts.LineWidth}

	if len(points) <= inlinePointLimit {
		obj.Points = make([][]float64, len(points))
		for i, p := range points {
			obj.Points[i] = []float64{p[0], p[1], p[2]}
		}
		obj.VertexColors = colors
		return v.sendCommand(command{Type: "add_object", Object: obj})
	}

	// Announce the object first so the page can bind the buffer that
	// follows to its material settings.
	if err := v.sendCommand(command{Type: "add_object", Object: obj}); err != nil {
		return err
	}
	data, err := encodePolyline(id, points, colors)
	if err != nil {
		return err
	}
	return v.sendBinary(data)
}

// AddModel reads a model file and ships it to the browser-side loader for
// its format. The format is inferred from the file extension.
func (v *Viewer) AddModel(id, path string, opts Options) error {
	if id == "" {
		return fmt.Errorf("add model: empty object id")
	}
	format, ok := modelFormats[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return fmt.Errorf("add model %q: unsupported format %q", id, filepath.Ext(path))
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("add model %q: %w", id, err)
	}

	obj := &Object{ID: id, Type: "model", Format: format}
	opts.apply(obj)
	if err := v.sendCommand(command{Type: "add_object", Object: obj}); err != nil {
		return err
	}
	data, err := encodeModel(id, format, contents)
	if err != nil {
		return err
	}
	return v.sendBinary(data)
}

// SetTransform updates one object's transform.
func (v *Viewer) SetTransform(id string, u Update) error {
	return v.sendCommand(command{Type: "set_transform", ID: id, Update: &u})
}

// SetMatrix replaces one object's full transform matrix.
func (v *Viewer) SetMatrix(id string, m transform.Matrix) error {
	return v.SetTransform(id, Update{Matrix: m[:]})
}

// BatchUpdate applies partial transform updates to many objects in one
// message. This is the streaming-mode workhorse.
func (v *Viewer) BatchUpdate(updates map[string]Update) error {
	if len(updates) == 0 {
		return nil
	}
	return v.sendCommand(command{Type: "batch_update", Updates: updates})
}

// BatchUpdateMatrices sends full float32 transforms for many objects as a
// single binary frame, the cheapest path for large scenes updated at high
// rates.
func (v *Viewer) BatchUpdateMatrices(matrices map[string][16]float32) error {
	if len(matrices) == 0 {
		return nil
	}
	data, err := encodeBatchMatrices(matrices)
	if err != nil {
		return err
	}
	return v.sendBinary(data)
}

// SetColor changes an object's color.
func (v *Viewer) SetColor(id string, color int) error {
	return v.sendCommand(command{Type: "set_color", ID: id, Color: &color})
}

// SetOpacity changes an object's opacity in [0, 1].
func (v *Viewer) SetOpacity(id string, opacity float64) error {
	return v.sendCommand(command{Type: "set_opacity", ID: id, Opacity: &opacity})
}

// SetVisible shows or hides an object.
func (v *Viewer) SetVisible(id string, visible bool) error {
	return v.sendCommand(command{Type: "set_visible", ID: id, Visible: &visible})
}

// Remove deletes an object from the scene.
func (v *Viewer) Remove(id string) error {
	return v.sendCommand(command{Type: "remove_object", ID: id})
}

// Clear removes every object and stops any running animation.
func (v *Viewer) Clear() error {
	return v.sendCommand(command{Type: "clear"})
}

// LoadAnimation ships a pre-computed animation to the page and starts
// looping-mode playback there.
func (v *Viewer) LoadAnimation(a *anim.Animation) error {
	if a.NFrames() == 0 {
		return fmt.Errorf("load animation: no frames")
	}
	return v.sendCommand(command{Type: "load_animation", Animation: a})
}

// StopAnimation tears down looping-mode playback and its timeline UI.
func (v *Viewer) StopAnimation() error {
	return v.sendCommand(command{Type: "stop_animation"})
}

// SetCamera moves the viewpoint and orbit target.
func (v *Viewer) SetCamera(position, target [3]float64) error {
	return v.sendCommand(command{Type: "set_camera", Camera: &Camera{
		Position: []float64{position[0], position[1], position[2]},
		Target:   []float64{target[0], target[1], target[2]},
	}})
}

// SetBackground changes the page background color.
func (v *Viewer) SetBackground(color int) error {
	return v.sendCommand(command{Type: "set_background", Background: &color})
}

func minMax(values []float64) (float64, float64) {
	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	return lo, hi
}
