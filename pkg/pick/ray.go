// Package pick resolves rays against the painted mesh for click-to-paint
// face selection.
package pick

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Sondro/pepr3d/pkg/geometry"
)

// Ray is a world-space ray with a normalized direction.
type Ray struct {
	Origin    mgl64.Vec3
	Direction mgl64.Vec3
}

// NewRay normalizes the direction.
func NewRay(origin, direction mgl64.Vec3) Ray {
	return Ray{Origin: origin, Direction: direction.Normalize()}
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) mgl64.Vec3 {
	return r.Origin.Add(r.Direction.Mul(t))
}

// IntersectAABB is the slab test against an axis-aligned box. Returns the
// entry distance, which is negative when the origin is inside the box.
func (r Ray) IntersectAABB(min, max mgl64.Vec3) (float64, bool) {
	tMin := math.Inf(-1)
	tMax := math.Inf(1)
	for i := 0; i < 3; i++ {
		if r.Direction[i] == 0 {
			if r.Origin[i] < min[i] || r.Origin[i] > max[i] {
				return 0, false
			}
			continue
		}
		t1 := (min[i] - r.Origin[i]) / r.Direction[i]
		t2 := (max[i] - r.Origin[i]) / r.Direction[i]
		if t1 > t2 {
			t1, t2 = t2, t1
		}
		tMin = math.Max(tMin, t1)
		tMax = math.Min(tMax, t2)
		if tMin > tMax {
			return 0, false
		}
	}
	if tMax < 0 {
		return 0, false
	}
	return tMin, true
}

// IntersectTriangle is the Möller-Trumbore test. Both triangle sides hit.
func (r Ray) IntersectTriangle(a, b, c mgl64.Vec3) (float64, bool) {
	const eps = 1e-12

	e1 := b.Sub(a)
	e2 := c.Sub(a)
	p := r.Direction.Cross(e2)
	det := e1.Dot(p)
	if math.Abs(det) < eps {
		return 0, false
	}
	inv := 1 / det

	s := r.Origin.Sub(a)
	u := s.Dot(p) * inv
	if u < 0 || u > 1 {
		return 0, false
	}
	q := s.Cross(e1)
	v := r.Direction.Dot(q) * inv
	if v < 0 || u+v > 1 {
		return 0, false
	}
	t := e2.Dot(q) * inv
	if t < eps {
		return 0, false
	}
	return t, true
}

// PickFace returns the nearest base face hit by the ray and the hit point.
func PickFace(m *geometry.Mesh, r Ray) (int, mgl64.Vec3, bool) {
	best := -1
	bestT := math.Inf(1)
	for i := 0; i < m.FaceCount(); i++ {
		face := m.Face(i)
		min, max := face.Bounds()
		if entry, ok := r.IntersectAABB(min, max); !ok || entry > bestT {
			continue
		}
		if t, ok := r.IntersectTriangle(face.A, face.B, face.C); ok && t < bestT {
			best, bestT = i, t
		}
	}
	if best < 0 {
		return -1, mgl64.Vec3{}, false
	}
	return best, r.At(bestT), true
}
