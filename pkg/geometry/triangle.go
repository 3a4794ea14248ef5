// Package geometry implements the painted triangle mesh: the triangle soup
// with per-face colors, the adjacency topology used by flood fill, the
// per-face color partition created by precision brushes, and the render
// buffer generation feeding the GL frontend.
package geometry

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Triangle is one face of the mesh. Base identifies the original mesh face a
// subdivided triangle descends from; for base faces it is the face's own
// index.
type Triangle struct {
	A, B, C mgl64.Vec3
	Normal  mgl64.Vec3
	Color   int
	Base    int
}

// NewTriangle builds a face with its unit normal derived from the winding.
// Degenerate corner triples yield a zero normal; callers reject those.
func NewTriangle(a, b, c mgl64.Vec3, color, base int) Triangle {
	n := b.Sub(a).Cross(c.Sub(a))
	if mag := n.Len(); mag > 1e-12 {
		n = n.Mul(1 / mag)
	} else {
		n = mgl64.Vec3{}
	}
	return Triangle{A: a, B: b, C: c, Normal: n, Color: color, Base: base}
}

// Vertices returns the corners in winding order.
func (t Triangle) Vertices() [3]mgl64.Vec3 {
	return [3]mgl64.Vec3{t.A, t.B, t.C}
}

// Area returns the triangle's surface area.
func (t Triangle) Area() float64 {
	return t.B.Sub(t.A).Cross(t.C.Sub(t.A)).Len() / 2
}

// Centroid returns the corner average.
func (t Triangle) Centroid() mgl64.Vec3 {
	return t.A.Add(t.B).Add(t.C).Mul(1.0 / 3.0)
}

// Bounds returns the axis-aligned bounding box of the corners.
func (t Triangle) Bounds() (min, max mgl64.Vec3) {
	min, max = t.A, t.A
	for _, p := range [2]mgl64.Vec3{t.B, t.C} {
		for i := 0; i < 3; i++ {
			if p[i] < min[i] {
				min[i] = p[i]
			}
			if p[i] > max[i] {
				max[i] = p[i]
			}
		}
	}
	return min, max
}

// LongestEdge returns the length of the longest edge.
func (t Triangle) LongestEdge() float64 {
	ab := t.B.Sub(t.A).Len()
	bc := t.C.Sub(t.B).Len()
	ca := t.A.Sub(t.C).Len()
	longest := ab
	if bc > longest {
		longest = bc
	}
	if ca > longest {
		longest = ca
	}
	return longest
}
