package geometry

import (
	"fmt"

	polyclip "github.com/ctessum/polyclip-go"
	"github.com/go-gl/mathgl/mgl64"
)

// Frame is an orthonormal 2D coordinate system on a triangle's supporting
// plane. Every point converted in either direction is anchored: converting
// it back returns the original bits, not a recomputed approximation. The
// partition rebuild cycle (triangles to polygons to triangles) depends on
// this to keep boundary vertices stable across arbitrarily many passes.
type Frame struct {
	origin mgl64.Vec3
	u, v   mgl64.Vec3

	toWorld map[polyclip.Point]mgl64.Vec3
	toLocal map[mgl64.Vec3]polyclip.Point
}

// NewFrame builds the frame of the triangle's plane. The first edge is the
// X axis so the frame is a pure function of the corner coordinates.
func NewFrame(t Triangle) *Frame {
	u := t.B.Sub(t.A)
	mag := u.Len()
	if mag < 1e-12 {
		panic(fmt.Sprintf("geometry: frame on a degenerate triangle %v", t.Vertices()))
	}
	u = u.Mul(1 / mag)
	v := t.Normal.Cross(u)
	return &Frame{
		origin:  t.A,
		u:       u,
		v:       v,
		toWorld: make(map[polyclip.Point]mgl64.Vec3),
		toLocal: make(map[mgl64.Vec3]polyclip.Point),
	}
}

// Local projects a world point onto the plane frame, anchoring the pair.
func (f *Frame) Local(w mgl64.Vec3) polyclip.Point {
	if p, ok := f.toLocal[w]; ok {
		return p
	}
	d := w.Sub(f.origin)
	p := polyclip.Point{X: d.Dot(f.u), Y: d.Dot(f.v)}
	f.anchor(p, w)
	return p
}

// World lifts a local point back to world space, anchoring the pair.
func (f *Frame) World(p polyclip.Point) mgl64.Vec3 {
	if w, ok := f.toWorld[p]; ok {
		return w
	}
	w := f.origin.Add(f.u.Mul(p.X)).Add(f.v.Mul(p.Y))
	f.anchor(p, w)
	return w
}

func (f *Frame) anchor(p polyclip.Point, w mgl64.Vec3) {
	f.toWorld[p] = w
	f.toLocal[w] = p
}

func (f *Frame) clone() *Frame {
	c := &Frame{
		origin:  f.origin,
		u:       f.u,
		v:       f.v,
		toWorld: make(map[polyclip.Point]mgl64.Vec3, len(f.toWorld)),
		toLocal: make(map[mgl64.Vec3]polyclip.Point, len(f.toLocal)),
	}
	for p, w := range f.toWorld {
		c.toWorld[p] = w
	}
	for w, p := range f.toLocal {
		c.toLocal[w] = p
	}
	return c
}
