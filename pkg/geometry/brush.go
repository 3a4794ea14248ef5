package geometry

import (
	"fmt"
	"math"
	"sort"

	polyclip "github.com/ctessum/polyclip-go"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/Sondro/pepr3d/pkg/triangulate"
)

// Sphere is the spherical brush footprint in world space.
type Sphere struct {
	Center mgl64.Vec3
	Radius float64
}

// IntersectsAABB reports whether the sphere touches the box.
func (s Sphere) IntersectsAABB(min, max mgl64.Vec3) bool {
	d := 0.0
	for i := 0; i < 3; i++ {
		switch {
		case s.Center[i] < min[i]:
			d += (min[i] - s.Center[i]) * (min[i] - s.Center[i])
		case s.Center[i] > max[i]:
			d += (s.Center[i] - max[i]) * (s.Center[i] - max[i])
		}
	}
	return d <= s.Radius*s.Radius
}

// SphereCircle builds the polygon of the sphere's circular cross-section on
// the face's supporting plane, in the face's local frame. Nil when the
// sphere misses or only grazes the plane.
//
// Where the circle crosses a face edge the exact crossing point is spliced
// into the ring. The crossing is solved in world space from canonically
// ordered edge endpoints, so the two faces sharing the edge arrive at
// bit-identical coordinates for the same crossing without any communication.
func SphereCircle(f *Frame, base Triangle, s Sphere, minVertices int) polyclip.Contour {
	dist := s.Center.Sub(base.A).Dot(base.Normal)
	if math.Abs(dist) >= s.Radius {
		return nil
	}
	r := math.Sqrt(s.Radius*s.Radius - dist*dist)
	if r < 1e-12 {
		return nil
	}
	center := f.Local(s.Center.Sub(base.Normal.Mul(dist)))

	segments := int(48 * r / base.LongestEdge())
	if segments < minVertices {
		segments = minVertices
	}
	if segments > 128 {
		segments = 128
	}

	type ringVertex struct {
		angle  float64
		p      polyclip.Point
		shared bool
	}
	ring := make([]ringVertex, 0, segments+6)
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		ring = append(ring, ringVertex{
			angle: a,
			p:     polyclip.Point{X: center.X + r*math.Cos(a), Y: center.Y + r*math.Sin(a)},
		})
	}
	for _, w := range sphereEdgeCrossings(base, s) {
		p := f.Local(w)
		a := math.Atan2(p.Y-center.Y, p.X-center.X)
		if a < 0 {
			a += 2 * math.Pi
		}
		ring = append(ring, ringVertex{angle: a, p: p, shared: true})
	}

	sort.Slice(ring, func(i, j int) bool { return ring[i].angle < ring[j].angle })

	// Drop regular vertices angularly indistinguishable from a crossing.
	// The crossing's bits must survive.
	const angleEps = 1e-7
	out := make(polyclip.Contour, 0, len(ring))
	for i, v := range ring {
		next := ring[(i+1)%len(ring)]
		gap := next.angle - v.angle
		if gap < 0 {
			gap += 2 * math.Pi
		}
		if !v.shared && next.shared && gap < angleEps {
			continue
		}
		prevGap := 0.0
		if i > 0 {
			prevGap = v.angle - ring[i-1].angle
		} else {
			prevGap = v.angle + 2*math.Pi - ring[len(ring)-1].angle
		}
		if !v.shared && i > 0 && ring[i-1].shared && prevGap < angleEps {
			continue
		}
		out = append(out, v.p)
	}

	verifyCircle(out)
	return out
}

// sphereEdgeCrossings returns the world-space points where the sphere's
// surface crosses the open face edges. Endpoints are ordered canonically
// before solving so the same edge yields the same bits from either face.
func sphereEdgeCrossings(base Triangle, s Sphere) []mgl64.Vec3 {
	var out []mgl64.Vec3
	corners := base.Vertices()
	for i := 0; i < 3; i++ {
		lo, hi := corners[i], corners[(i+1)%3]
		if lessVec3(hi, lo) {
			lo, hi = hi, lo
		}
		dir := hi.Sub(lo)
		oc := lo.Sub(s.Center)

		a := dir.Dot(dir)
		b := 2 * dir.Dot(oc)
		c := oc.Dot(oc) - s.Radius*s.Radius
		disc := b*b - 4*a*c
		if disc <= 0 {
			continue
		}
		sq := math.Sqrt(disc)
		for _, t := range [2]float64{(-b - sq) / (2 * a), (-b + sq) / (2 * a)} {
			if t > 0 && t < 1 {
				out = append(out, lo.Add(dir.Mul(t)))
			}
		}
	}
	return out
}

func lessVec3(a, b mgl64.Vec3) bool {
	if a[0] != b[0] {
		return a[0] < b[0]
	}
	if a[1] != b[1] {
		return a[1] < b[1]
	}
	return a[2] < b[2]
}

// verifyCircle checks the assembled ring is a simple convex
// counter-clockwise polygon. Angular ordering makes this hold by
// construction, so a failure is a programming error.
func verifyCircle(c polyclip.Contour) {
	if len(c) < 3 {
		panic(fmt.Sprintf("geometry: circle polygon degenerated to %d vertices", len(c)))
	}
	for i := range c {
		n := len(c)
		if triangulate.Orient(c[(i-1+n)%n], c[i], c[(i+1)%n]) < 0 {
			panic(fmt.Sprintf("geometry: circle polygon is not convex counter-clockwise at vertex %d", i))
		}
	}
}
