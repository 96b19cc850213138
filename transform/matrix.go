package transform

import (
	"math"

	"github.com/chewxy/math32"
)

// Matrix is a 4x4 transform in column-major order, the layout Three.js
// expects in Matrix4.fromArray.
type Matrix [16]float64

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Translation returns a pure translation transform.
func Translation(x, y, z float64) Matrix {
	m := Identity()
	m[12] = x
	m[13] = y
	m[14] = z
	return m
}

// Compose builds a transform from a position, XYZ euler angles in radians
// and a uniform scale. The rotation is applied as R = Rz * Ry * Rx.
func Compose(position [3]float64, rotation [3]float64, scale float64) Matrix {
	cx, sx := math.Cos(rotation[0]), math.Sin(rotation[0])
	cy, sy := math.Cos(rotation[1]), math.Sin(rotation[1])
	cz, sz := math.Cos(rotation[2]), math.Sin(rotation[2])

	return Matrix{
		scale * (cy * cz), scale * (cy * sz), scale * (-sy), 0,
		scale * (sx*sy*cz - cx*sz), scale * (sx*sy*sz + cx*cz), scale * (sx * cy), 0,
		scale * (cx*sy*cz + sx*sz), scale * (cx*sy*sz - sx*cz), scale * (cx * cy), 0,
		position[0], position[1], position[2], 1,
	}
}

// Mul returns m * n, applying n first.
func (m Matrix) Mul(n Matrix) Matrix {
	var out Matrix
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			sum := 0.0
			for k := 0; k < 4; k++ {
				sum += m[k*4+row] * n[col*4+k]
			}
			out[col*4+row] = sum
		}
	}
	return out
}

// Position returns the translation component.
func (m Matrix) Position() [3]float64 {
	return [3]float64{m[12], m[13], m[14]}
}

// Float32 converts the matrix to float32 for the binary wire format.
func (m Matrix) Float32() [16]float32 {
	var out [16]float32
	for i, v := range m {
		out[i] = float32(v)
	}
	return out
}

// ComposeF32 is the float32 variant of Compose, used when transforms are
// produced in bulk for the binary batch path.
func ComposeF32(position [3]float32, rotation [3]float32, scale float32) [16]float32 {
	cx, sx := math32.Cos(rotation[0]), math32.Sin(rotation[0])
	cy, sy := math32.Cos(rotation[1]), math32.Sin(rotation[1])
	cz, sz := math32.Cos(rotation[2]), math32.Sin(rotation[2])

	return [16]float32{
		scale * (cy * cz), scale * (cy * sz), scale * (-sy), 0,
		scale * (sx*sy*cz - cx*sz), scale * (sx*sy*sz + cx*cz), scale * (sx * cy), 0,
		scale * (cx*sy*cz + sx*sz), scale * (cx*sy*sz - sx*cz), scale * (cx * cy), 0,
		position[0], position[1], position[2], 1,
	}
}
