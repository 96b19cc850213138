package viewer

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Binary frame opcodes. Every binary WebSocket message starts with one
// opcode byte; all multi-byte values are little-endian.
const (
	opBatchTransforms byte = 1
	opPolyline        byte = 2
	opModel           byte = 3
)

func appendString8(data []byte, s string) ([]byte, error) {
	if len(s) == 0 || len(s) > 255 {
		return nil, fmt.Errorf("string %q must be 1-255 bytes", s)
	}
	data = append(data, byte(len(s)))
	return append(data, s...), nil
}

func appendFloat32(data []byte, v float32) []byte {
	return binary.LittleEndian.AppendUint32(data, math.Float32bits(v))
}

// encodeBatchMatrices packs a batch of full transforms:
// opcode, u16 count, then per entry u8 idLen, id, 16 f32 (column-major).
func encodeBatchMatrices(matrices map[string][16]float32) ([]byte, error) {
	if len(matrices) > math.MaxUint16 {
		return nil, fmt.Errorf("batch of %d transforms exceeds %d", len(matrices), math.MaxUint16)
	}

	data := make([]byte, 0, 3+len(matrices)*(1+16+16*4))
	data = append(data, opBatchTransforms)
	data = binary.LittleEndian.AppendUint16(data, uint16(len(matrices)))
	for id, m := range matrices {
		var err error
		data, err = appendString8(data, id)
		if err != nil {
			return nil, err
		}
		for _, v := range m {
			data = appendFloat32(data, v)
		}
	}
	return data, nil
}

// Polyline payload flags.
const flagVertexColors byte = 1 << 0

// encodePolyline packs a point buffer, optionally with per-vertex colors:
// opcode, u8 idLen, id, u8 flags, u32 count, f32 xyz per point, then f32
// rgb per point when flagged.
func encodePolyline(id string, points [][3]float64, colors [][3]float32) ([]byte, error) {
	if len(colors) > 0 && len(colors) != len(points) {
		return nil, fmt.Errorf("polyline %q: %d colors for %d points", id, len(colors), len(points))
	}

	size := 1 + 1 + len(id) + 1 + 4 + len(points)*3*4 + len(colors)*3*4
	data := make([]byte, 0, size)
	data = append(data, opPolyline)
	data, err := appendString8(data, id)
	if err != nil {
		return nil, err
	}

	var flags byte
	if len(colors) > 0 {
		flags |= flagVertexColors
	}
	data = append(data, flags)
	data = binary.LittleEndian.AppendUint32(data, uint32(len(points)))

	for _, p := range points {
		data = appendFloat32(data, float32(p[0]))
		data = appendFloat32(data, float32(p[1]))
		data = appendFloat32(data, float32(p[2]))
	}
	for _, c := range colors {
		data = appendFloat32(data, c[0])
		data = appendFloat32(data, c[1])
		data = appendFloat32(data, c[2])
	}
	return data, nil
}

// encodeModel packs a model file for a browser-side loader:
// opcode, u8 idLen, id, u8 fmtLen, fmt, u32 len, bytes.
func encodeModel(id, format string, contents []byte) ([]byte, error) {
	data := make([]byte, 0, 1+2+len(id)+len(format)+4+len(contents))
	data = append(data, opModel)
	data, err := appendString8(data, id)
	if err != nil {
		return nil, err
	}
	data, err = appendString8(data, format)
	if err != nil {
		return nil, err
	}
	data = binary.LittleEndian.AppendUint32(data, uint32(len(contents)))
	return append(data, contents...), nil
}
