package domain

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Transform is a 4x4 affine pose matrix.
// Storage follows mgl32 (column-major); components are addressed by (row, col).
// Column 3 holds the translation, columns 0-2 the basis vectors.
type Transform mgl32.Mat4

// Identity returns the identity transform.
func Identity() Transform {
	return Transform(mgl32.Ident4())
}

// FromRows builds a Transform from 16 components given row by row
// (m00, m01, m02, m03, m10, ... m33), the order used by the JSON format.
func FromRows(rows [16]float32) Transform {
	var t Transform
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			t.Set(r, c, rows[r*4+c])
		}
	}
	return t
}

// Translation returns a transform that only translates by (x, y, z).
func Translation(x, y, z float32) Transform {
	return Transform(mgl32.Translate3D(x, y, z))
}

// At returns the component at (row, col).
func (t Transform) At(row, col int) float32 {
	return mgl32.Mat4(t).At(row, col)
}

// Set assigns the component at (row, col).
func (t *Transform) Set(row, col int, v float32) {
	t[col*4+row] = v
}

// Rows returns the components in row-major order.
func (t Transform) Rows() [16]float32 {
	var out [16]float32
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			out[r*4+c] = t.At(r, c)
		}
	}
	return out
}

// Column returns column i as a 4-vector.
func (t Transform) Column(i int) mgl32.Vec4 {
	return mgl32.Mat4(t).Col(i)
}

// Position is the translation part (column 3).
func (t Transform) Position() mgl32.Vec3 {
	return t.Column(3).Vec3()
}

// Mat4 exposes the transform as an mgl32 matrix.
func (t Transform) Mat4() mgl32.Mat4 {
	return mgl32.Mat4(t)
}

// IsFinite reports whether every component is a finite number.
func (t Transform) IsFinite() bool {
	for _, v := range t {
		f := float64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}

func (t Transform) String() string {
	p := t.Position()
	return fmt.Sprintf("Transform{pos=(%g, %g, %g)}", p[0], p[1], p[2])
}

// MatrixSet is an ordered sequence of transforms read from (or written to) one document.
type MatrixSet []Transform
