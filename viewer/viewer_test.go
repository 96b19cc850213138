package viewer

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"scenic/anim"
	"scenic/transform"
)

func newTestViewer(t *testing.T) *Viewer {
	t.Helper()
	v, err := New(Config{Host: "127.0.0.1", Port: -1, Title: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { v.Close() })
	return v
}

func dialTestViewer(t *testing.T, v *Viewer) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial("ws://"+v.Addr()+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readCommand(t *testing.T, conn *websocket.Conn) (int, map[string]interface{}) {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	typ, data, err := conn.ReadMessage()
	require.NoError(t, err)
	if typ == websocket.BinaryMessage {
		return typ, map[string]interface{}{"binary": data}
	}
	var cmd map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &cmd))
	return typ, cmd
}

func TestServesPage(t *testing.T) {
	v := newTestViewer(t)

	resp, err := http.Get(v.URL())
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), "<title>test</title>")
	assert.Contains(t, string(body), "three.module.js")
}

func TestQueuesUntilBrowserAttaches(t *testing.T) {
	v := newTestViewer(t)

	require.NoError(t, v.AddBox("ground", 10, 10, 0.05, Options{Color: 0x444444}))
	require.NoError(t, v.SetVisible("ground", false))

	conn := dialTestViewer(t, v)

	_, cmd := readCommand(t, conn)
	assert.Equal(t, "add_object", cmd["type"])
	obj := cmd["object"].(map[string]interface{})
	assert.Equal(t, "ground", obj["id"])
	assert.Equal(t, "box", obj["type"])
	assert.Equal(t, 10.0, obj["width"])

	_, cmd = readCommand(t, conn)
	assert.Equal(t, "set_visible", cmd["type"])
	assert.Equal(t, false, cmd["visible"])
}

func TestWaitForBrowser(t *testing.T) {
	v := newTestViewer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	assert.Error(t, v.WaitForBrowser(ctx))

	dialTestViewer(t, v)
	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	assert.NoError(t, v.WaitForBrowser(ctx2))
}

func TestAddSphereDefaults(t *testing.T) {
	v := newTestViewer(t)
	conn := dialTestViewer(t, v)
	require.NoError(t, v.WaitForBrowser(context.Background()))

	require.NoError(t, v.AddSphere("ball", 0.4, Options{Position: [3]float64{1, 2, 3}}))

	_, cmd := readCommand(t, conn)
	obj := cmd["object"].(map[string]interface{})
	assert.Equal(t, "sphere", obj["type"])
	assert.Equal(t, 0.4, obj["radius"])
	assert.Equal(t, float64(DefaultColor), obj["color"])
	assert.Equal(t, []interface{}{1.0, 2.0, 3.0}, obj["position"])
}

func TestBatchUpdate(t *testing.T) {
	v := newTestViewer(t)
	conn := dialTestViewer(t, v)

	updates := map[string]Update{
		"a": {Position: []float64{1, 0, 0}},
		"b": {Rotation: []float64{0, 0, 1.5}, Scale: 2},
	}
	require.NoError(t, v.BatchUpdate(updates))

	_, cmd := readCommand(t, conn)
	assert.Equal(t, "batch_update", cmd["type"])
	got := cmd["updates"].(map[string]interface{})
	assert.Len(t, got, 2)
	assert.Equal(t, 2.0, got["b"].(map[string]interface{})["scale"])
}

func TestBatchUpdateMatricesBinary(t *testing.T) {
	v := newTestViewer(t)
	conn := dialTestViewer(t, v)

	m := transform.Translation(1, 2, 3).Float32()
	require.NoError(t, v.BatchUpdateMatrices(map[string][16]float32{"obj": m}))

	typ, cmd := readCommand(t, conn)
	assert.Equal(t, websocket.BinaryMessage, typ)
	data := cmd["binary"].([]byte)
	assert.Equal(t, opBatchTransforms, data[0])
}

func TestAddPolylineInline(t *testing.T) {
	v := newTestViewer(t)
	conn := dialTestViewer(t, v)

	points := [][3]float64{{0, 0, 0}, {1, 0, 0}, {2, 0, 1}}
	require.NoError(t, v.AddPolyline("path", points, PolylineOptions{
		Values:   []float64{0, 0.5, 1},
		Colormap: "viridis",
	}))

	_, cmd := readCommand(t, conn)
	obj := cmd["object"].(map[string]interface{})
	assert.Equal(t, "polyline", obj["type"])
	assert.Len(t, obj["points"], 3)
	assert.Len(t, obj["vertexColors"], 3)
}

func TestAddPolylineBinaryOverLimit(t *testing.T) {
	v := newTestViewer(t)
	conn := dialTestViewer(t, v)

	points := make([][3]float64, inlinePointLimit+1)
	for i := range points {
		points[i] = [3]float64{float64(i), 0, 0}
	}
	require.NoError(t, v.AddPolyline("big", points, PolylineOptions{}))

	typ, cmd := readCommand(t, conn)
	assert.Equal(t, websocket.TextMessage, typ)
	obj := cmd["object"].(map[string]interface{})
	assert.Nil(t, obj["points"])

	typ, cmd = readCommand(t, conn)
	assert.Equal(t, websocket.BinaryMessage, typ)
	assert.Equal(t, opPolyline, cmd["binary"].([]byte)[0])
}

func TestAddPolylineErrors(t *testing.T) {
	v := newTestViewer(t)

	assert.Error(t, v.AddPolyline("", [][3]float64{{0, 0, 0}, {1, 1, 1}}, PolylineOptions{}))
	assert.Error(t, v.AddPolyline("short", [][3]float64{{0, 0, 0}}, PolylineOptions{}))
	assert.Error(t, v.AddPolyline("mismatch", [][3]float64{{0, 0, 0}, {1, 1, 1}}, PolylineOptions{
		Values: []float64{1},
	}))
}

func TestAddModelUnsupportedFormat(t *testing.T) {
	v := newTestViewer(t)
	assert.Error(t, v.AddModel("m", "model.xyz", Options{}))
	assert.Error(t, v.AddModel("", "model.obj", Options{}))
}

func TestLoadAnimation(t *testing.T) {
	v := newTestViewer(t)
	conn := dialTestViewer(t, v)

	a := anim.New(true)
	a.AddFrame(anim.Frame{
		Time:       0,
		Transforms: map[string]transform.Matrix{"obj": transform.Identity()},
	})
	a.AddFrame(anim.Frame{
		Time:       1,
		Transforms: map[string]transform.Matrix{"obj": transform.Translation(1, 0, 0)},
	})
	a.AddMarker(0.5, "mid", 0xFFFF00)
	require.NoError(t, v.LoadAnimation(a))

	_, cmd := readCommand(t, conn)
	assert.Equal(t, "load_animation", cmd["type"])
	spec := cmd["animation"].(map[string]interface{})
	assert.Equal(t, true, spec["loop"])
	assert.Len(t, spec["frames"], 2)
	assert.Len(t, spec["markers"], 1)

	assert.Error(t, v.LoadAnimation(anim.New(false)))
}

func TestClearAndRemove(t *testing.T) {
	v := newTestViewer(t)
	conn := dialTestViewer(t, v)

	require.NoError(t, v.Remove("a"))
	require.NoError(t, v.Clear())

	_, cmd := readCommand(t, conn)
	assert.Equal(t, "remove_object", cmd["type"])
	assert.Equal(t, "a", cmd["id"])
	_, cmd = readCommand(t, conn)
	assert.Equal(t, "clear", cmd["type"])
}

func TestNewBrowserReplacesOld(t *testing.T) {
	v := newTestViewer(t)
	old := dialTestViewer(t, v)
	require.NoError(t, v.WaitForBrowser(context.Background()))

	replacement := dialTestViewer(t, v)

	// The replaced connection gets closed by the server.
	old.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := old.ReadMessage()
	assert.Error(t, err)

	require.NoError(t, v.SetBackground(0x101010))
	_, cmd := readCommand(t, replacement)
	assert.Equal(t, "set_background", cmd["type"])
}
