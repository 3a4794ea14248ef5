package geometry

import (
	"fmt"
	"sort"

	polyclip "github.com/ctessum/polyclip-go"

	"github.com/Sondro/pepr3d/pkg/triangulate"
)

// Detail is the color partition of one base face. Each color index owns a
// set of contours (even-odd semantics) in the face's local 2D frame; the
// regions of distinct colors are pairwise disjoint and together cover the
// triangle exactly. A matching set of render triangles is kept in sync.
type Detail struct {
	base   Triangle
	frame  *Frame
	bounds polyclip.Polygon

	colored map[int]polyclip.Polygon
	tris    []Triangle

	// dirty marks the polygons stale after an external recolor of the
	// render triangles. They are rebuilt lazily on the next brush stroke.
	dirty bool
}

// NewDetail starts the partition with the whole face owned by its color.
func NewDetail(base Triangle) *Detail {
	f := NewFrame(base)
	bounds := polyclip.Polygon{{f.Local(base.A), f.Local(base.B), f.Local(base.C)}}
	return &Detail{
		base:    base,
		frame:   f,
		bounds:  bounds,
		colored: map[int]polyclip.Polygon{base.Color: clonePolygon(bounds)},
		tris:    []Triangle{base},
	}
}

// Base returns the original face.
func (d *Detail) Base() Triangle { return d.base }

// Triangles returns the current render triangles of the partition.
func (d *Detail) Triangles() []Triangle { return d.tris }

// Colors returns the color indices present, ascending.
func (d *Detail) Colors() []int {
	d.syncPolygons()
	out := make([]int, 0, len(d.colored))
	for c := range d.colored {
		out = append(out, c)
	}
	sort.Ints(out)
	return out
}

// Region returns the contour set of one color. Nil when absent.
func (d *Detail) Region(color int) polyclip.Polygon {
	d.syncPolygons()
	return d.colored[color]
}

// UniformColor reports whether a single color covers the whole face.
func (d *Detail) UniformColor() (int, bool) {
	d.syncPolygons()
	if len(d.colored) != 1 {
		return 0, false
	}
	for c := range d.colored {
		return c, true
	}
	return 0, false
}

// SetColor collapses the partition back to a uniform face.
func (d *Detail) SetColor(color int) {
	d.base.Color = color
	d.colored = map[int]polyclip.Polygon{color: clonePolygon(d.bounds)}
	d.tris = []Triangle{d.base}
	d.dirty = false
}

// SetTriangleColor recolors one render triangle. The polygon partition is
// rebuilt lazily before the next geometric operation.
func (d *Detail) SetTriangleColor(i, color int) {
	if i < 0 || i >= len(d.tris) {
		panic(fmt.Sprintf("geometry: triangle index %d out of range [0,%d)", i, len(d.tris)))
	}
	if d.tris[i].Color == color {
		return
	}
	d.tris[i].Color = color
	d.dirty = true
}

// PaintSphere stamps the sphere's circular footprint onto the partition.
// Reports whether the sphere touched the face at all.
func (d *Detail) PaintSphere(s Sphere, minVertices, color int) bool {
	circle := SphereCircle(d.frame, d.base, s, minVertices)
	if circle == nil {
		return false
	}
	d.AddPolygon(polyclip.Polygon{circle}, color)
	return true
}

// AddPolygon assigns the polygon's intersection with the face to the color:
// the region is united into the color's contour set and subtracted from
// every other color, then collinear vertices are merged and the render
// triangles rebuilt. The disjoint-cover invariant is preserved because
// exactly what enters one color leaves all others.
func (d *Detail) AddPolygon(poly polyclip.Polygon, color int) {
	clipped := poly.Construct(polyclip.INTERSECTION, d.bounds)
	if polygonTrivial(clipped) {
		return
	}
	d.syncPolygons()

	if existing, ok := d.colored[color]; ok {
		d.colored[color] = existing.Construct(polyclip.UNION, clipped)
	} else {
		d.colored[color] = clipped
	}
	for c, region := range d.colored {
		if c == color {
			continue
		}
		remainder := region.Construct(polyclip.DIFFERENCE, clipped)
		if polygonTrivial(remainder) {
			delete(d.colored, c)
		} else {
			d.colored[c] = remainder
		}
	}

	for c, region := range d.colored {
		d.colored[c] = simplifyPolygon(region)
	}
	d.rebuildTriangles()
}

// syncPolygons rebuilds the contour sets from the render triangles after an
// external recolor.
func (d *Detail) syncPolygons() {
	if !d.dirty {
		return
	}
	d.dirty = false

	grouped := make(map[int]polyclip.Polygon)
	for _, t := range d.tris {
		c := polyclip.Contour{d.frame.Local(t.A), d.frame.Local(t.B), d.frame.Local(t.C)}
		if signedArea(c) < 0 {
			c[0], c[2] = c[2], c[0]
		}
		grouped[t.Color] = append(grouped[t.Color], c)
	}

	d.colored = make(map[int]polyclip.Polygon, len(grouped))
	for color, contours := range grouped {
		merged := polyclip.Polygon{contours[0]}
		for _, c := range contours[1:] {
			merged = merged.Construct(polyclip.UNION, polyclip.Polygon{c})
		}
		d.colored[color] = simplifyPolygon(merged)
	}
}

// rebuildTriangles re-triangulates every color region. Sub-triangle winding
// follows the base face normal.
func (d *Detail) rebuildTriangles() {
	d.tris = d.tris[:0]
	for _, color := range d.Colors() {
		for _, face := range triangulate.Triangulate(d.colored[color]) {
			a := d.frame.World(face[0])
			b := d.frame.World(face[1])
			c := d.frame.World(face[2])
			cross := b.Sub(a).Cross(c.Sub(a))
			if cross.Len() < 1e-18 {
				continue
			}
			if cross.Dot(d.base.Normal) < 0 {
				b, c = c, b
			}
			d.tris = append(d.tris, Triangle{
				A: a, B: b, C: c,
				Normal: d.base.Normal,
				Color:  color,
				Base:   d.base.Base,
			})
		}
	}
	if len(d.tris) == 0 {
		// Numerical collapse leaves the face uniform rather than empty.
		d.tris = append(d.tris, d.base)
	}
}

// rebuildAll recomputes triangles from the current contour sets. Used by
// reconciliation after boundary edits.
func (d *Detail) rebuildAll() {
	for c, region := range d.colored {
		d.colored[c] = simplifyPolygon(region)
	}
	d.rebuildTriangles()
}

// simplifyPolygon drops collinear vertices and degenerate contours.
func simplifyPolygon(poly polyclip.Polygon) polyclip.Polygon {
	out := make(polyclip.Polygon, 0, len(poly))
	for _, c := range poly {
		s := simplifyContour(c)
		if len(s) >= 3 {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func simplifyContour(c polyclip.Contour) polyclip.Contour {
	pts := append(polyclip.Contour(nil), c...)
	for changed := true; changed && len(pts) >= 3; {
		changed = false
		for i := 0; i < len(pts); i++ {
			n := len(pts)
			prev, cur, next := pts[(i-1+n)%n], pts[i], pts[(i+1)%n]
			if cur == prev || triangulate.Orient(prev, cur, next) == 0 {
				pts = append(pts[:i], pts[i+1:]...)
				changed = true
				break
			}
		}
	}
	if len(pts) < 3 {
		return nil
	}
	return pts
}

// polygonTrivial reports whether the contour set has no usable area.
func polygonTrivial(poly polyclip.Polygon) bool {
	for _, c := range poly {
		if len(c) >= 3 && absArea(c) > 0 {
			return false
		}
	}
	return true
}

func signedArea(c polyclip.Contour) float64 {
	area := 0.0
	for i := range c {
		p, q := c[i], c[(i+1)%len(c)]
		area += p.X*q.Y - q.X*p.Y
	}
	return area / 2
}

func absArea(c polyclip.Contour) float64 {
	a := signedArea(c)
	if a < 0 {
		return -a
	}
	return a
}

func clonePolygon(poly polyclip.Polygon) polyclip.Polygon {
	out := make(polyclip.Polygon, len(poly))
	for i, c := range poly {
		out[i] = append(polyclip.Contour(nil), c...)
	}
	return out
}
