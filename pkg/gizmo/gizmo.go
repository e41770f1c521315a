// Package gizmo derives debug geometry for transforms and drives renderers.
//
// Every transform is drawn as a small wire cube and wire sphere at its
// translation plus three rays along its forward, up and right axes.
package gizmo

import (
	"context"
	"fmt"
	"math"

	"github.com/aretw0/posematch/pkg/domain"
	"github.com/aretw0/posematch/pkg/ports"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	BoxSize      float32 = 0.1
	SphereRadius float32 = 0.05
	RayLength    float32 = 0.1
)

// ShapeType identifies a primitive.
type ShapeType int

const (
	ShapeRay ShapeType = iota
	ShapeWireCube
	ShapeWireSphere
)

func (s ShapeType) String() string {
	switch s {
	case ShapeRay:
		return "ray"
	case ShapeWireCube:
		return "wire_cube"
	case ShapeWireSphere:
		return "wire_sphere"
	}
	return fmt.Sprintf("shape(%d)", int(s))
}

// Shape is a debug primitive to be drawn.
type Shape struct {
	Type  ShapeType
	Color domain.Color

	// Center of the cube or sphere, origin of a ray.
	Origin mgl32.Vec3
	// Ray: direction scaled by length. Cube: edge lengths. Sphere: radius in X.
	Extent mgl32.Vec3
}

// Pose is the position and orthonormal axes of a transform.
type Pose struct {
	Position mgl32.Vec3
	Forward  mgl32.Vec3
	Up       mgl32.Vec3
	Right    mgl32.Vec3
}

var (
	worldForward = mgl32.Vec3{0, 0, 1}
	worldUp      = mgl32.Vec3{0, 1, 0}
	worldRight   = mgl32.Vec3{1, 0, 0}
)

const degenerate = 1e-12

// PoseOf builds a look rotation from column 2 (forward) and column 1 (up).
// A zero forward yields the world axes; an up parallel to forward is
// replaced by the world up (or world right if that is parallel too).
func PoseOf(t domain.Transform) Pose {
	p := Pose{Position: t.Position(), Forward: worldForward, Up: worldUp, Right: worldRight}

	forward := t.Column(2).Vec3()
	if forward.LenSqr() < degenerate {
		return p
	}
	forward = forward.Normalize()

	up := t.Column(1).Vec3()
	right := up.Cross(forward)
	if right.LenSqr() < degenerate {
		right = worldUp.Cross(forward)
		if right.LenSqr() < degenerate {
			right = worldRight.Cross(forward).Mul(-1)
		}
	}
	right = right.Normalize()

	p.Forward = forward
	p.Right = right
	p.Up = forward.Cross(right)
	return p
}

// Rotation returns the orientation of the pose as a quaternion.
func (p Pose) Rotation() mgl32.Quat {
	basis := mgl32.Mat3FromCols(p.Right, p.Up, p.Forward)
	return mgl32.Mat4ToQuat(basis.Mat4())
}

// Shapes returns the primitives of one transform's gizmo.
func Shapes(t domain.Transform, c domain.Color) []Shape {
	p := PoseOf(t)
	return []Shape{
		{Type: ShapeWireCube, Color: c, Origin: p.Position, Extent: mgl32.Vec3{BoxSize, BoxSize, BoxSize}},
		{Type: ShapeWireSphere, Color: c, Origin: p.Position, Extent: mgl32.Vec3{SphereRadius, 0, 0}},
		{Type: ShapeRay, Color: c, Origin: p.Position, Extent: p.Forward.Mul(RayLength)},
		{Type: ShapeRay, Color: c, Origin: p.Position, Extent: p.Up.Mul(RayLength)},
		{Type: ShapeRay, Color: c, Origin: p.Position, Extent: p.Right.Mul(RayLength)},
	}
}

// SphereSegments is the number of segments of each great circle of a wire sphere.
const SphereSegments = 24

// Line is a segment of wire geometry.
type Line struct {
	From, To mgl32.Vec3
}

// Lines tessellates shapes into segments. A cube yields its 12 edges,
// a sphere three great circles in the XY, YZ and ZX planes, a ray one segment.
func Lines(shapes []Shape) []Line {
	var out []Line
	for _, s := range shapes {
		switch s.Type {
		case ShapeRay:
			out = append(out, Line{From: s.Origin, To: s.Origin.Add(s.Extent)})
		case ShapeWireCube:
			out = appendCube(out, s.Origin, s.Extent.Mul(0.5))
		case ShapeWireSphere:
			out = appendSphere(out, s.Origin, s.Extent[0])
		}
	}
	return out
}

func appendCube(out []Line, c, h mgl32.Vec3) []Line {
	corner := func(i int) mgl32.Vec3 {
		v := mgl32.Vec3{-h[0], -h[1], -h[2]}
		for axis := 0; axis < 3; axis++ {
			if i&(1<<axis) != 0 {
				v[axis] = h[axis]
			}
		}
		return c.Add(v)
	}
	// Corners differing in exactly one bit share an edge.
	for i := 0; i < 8; i++ {
		for axis := 0; axis < 3; axis++ {
			if j := i | 1<<axis; j != i {
				out = append(out, Line{From: corner(i), To: corner(j)})
			}
		}
	}
	return out
}

func appendSphere(out []Line, c mgl32.Vec3, r float32) []Line {
	point := func(plane, k int) mgl32.Vec3 {
		a := 2 * math.Pi * float64(k) / SphereSegments
		u, v := r*float32(math.Cos(a)), r*float32(math.Sin(a))
		var p mgl32.Vec3
		p[plane] = u
		p[(plane+1)%3] = v
		return c.Add(p)
	}
	for plane := 0; plane < 3; plane++ {
		for k := 0; k < SphereSegments; k++ {
			out = append(out, Line{From: point(plane, k), To: point(plane, k+1)})
		}
	}
	return out
}

// Draw renders the three views of a report: matched in green, unmatched
// model transforms in red, then the space set in blue.
func Draw(ctx context.Context, r ports.GizmoRenderer, report *domain.Report) error {
	grouped, _ := r.(ports.CategoryRenderer)
	for _, view := range report.Views() {
		if grouped != nil {
			if err := grouped.BeginCategory(ctx, view.Category); err != nil {
				return fmt.Errorf("failed to begin %s: %w", view.Category, err)
			}
		}
		color := view.Category.Color()
		for i, t := range view.Set {
			if err := r.DrawPose(ctx, t, color); err != nil {
				return fmt.Errorf("failed to draw %s pose %d: %w", view.Category, i, err)
			}
		}
	}
	return nil
}
