package viewer

import (
	"encoding/binary"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFloat32(data []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(data))
}

func TestEncodeBatchMatrices(t *testing.T) {
	var m [16]float32
	for i := range m {
		m[i] = float32(i)
	}
	data, err := encodeBatchMatrices(map[string][16]float32{"obj": m})
	require.NoError(t, err)

	assert.Equal(t, opBatchTransforms, data[0])
	assert.Equal(t, uint16(1), binary.LittleEndian.Uint16(data[1:]))
	assert.Equal(t, byte(3), data[3])
	assert.Equal(t, "obj", string(data[4:7]))
	for i := 0; i < 16; i++ {
		assert.Equal(t, float32(i), readFloat32(data[7+i*4:]))
	}
	assert.Len(t, data, 7+64)
}

func TestEncodeBatchMatricesRejectsLongID(t *testing.T) {
	long := strings.Repeat("x", 256)
	_, err := encodeBatchMatrices(map[string][16]float32{long: {}})
	assert.Error(t, err)
}

func TestEncodePolyline(t *testing.T) {
	points := [][3]float64{{1, 2, 3}, {4, 5, 6}}
	data, err := encodePolyline("line", points, nil)
	require.NoError(t, err)

	assert.Equal(t, opPolyline, data[0])
	assert.Equal(t, byte(4), data[1])
	assert.Equal(t, "line", string(data[2:6]))
	assert.Equal(t, byte(0), data[6]) // no vertex colors
	assert.Equal(t, uint32(2), binary.LittleEndian.Uint32(data[7:]))
	assert.Equal(t, float32(1), readFloat32(data[11:]))
	assert.Equal(t, float32(6), readFloat32(data[11+5*4:]))
	assert.Len(t, data, 11+2*12)
}

func TestEncodePolylineWithColors(t *testing.T) {
	points := [][3]float64{{0, 0, 0}, {1, 1, 1}}
	colors := [][3]float32{{1, 0, 0}, {0, 1, 0}}
	data, err := encodePolyline("line", points, colors)
	require.NoError(t, err)

	assert.Equal(t, flagVertexColors, data[6]&flagVertexColors)
	assert.Len(t, data, 11+2*12+2*12)
	// First color channel follows the point buffer.
	assert.Equal(t, float32(1), readFloat32(data[11+2*12:]))
}

func TestEncodePolylineColorCountMismatch(t *testing.T) {
	points := [][3]float64{{0, 0, 0}, {1, 1, 1}}
	_, err := encodePolyline("line", points, [][3]float32{{1, 0, 0}})
	assert.Error(t, err)
}

func TestEncodeModel(t *testing.T) {
	contents := []byte("solid cube")
	data, err := encodeModel("cube", "stl", contents)
	require.NoError(t, err)

	assert.Equal(t, opModel, data[0])
	assert.Equal(t, byte(4), data[1])
	assert.Equal(t, "cube", string(data[2:6]))
	assert.Equal(t, byte(3), data[6])
	assert.Equal(t, "stl", string(data[7:10]))
	assert.Equal(t, uint32(len(contents)), binary.LittleEndian.Uint32(data[10:]))
	assert.Equal(t, contents, data[14:])
}

func TestAppendString8Empty(t *testing.T) {
	_, err := appendString8(nil, "")
	assert.Error(t, err)
}
