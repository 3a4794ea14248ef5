// Package triangulate converts planar regions bounded by polygon contours
// into triangles. Every contour edge is inserted into an incremental
// triangulation as a constraint, triangulation faces are assigned nesting
// levels by breadth-first traversal from the unbounded region (crossing a
// constrained edge increments the level) and faces with an odd nesting level
// form the region. The even-odd rule makes arbitrarily nested holes come out
// right without any explicit hole bookkeeping.
//
// The triangulation never invents coordinates. Input vertices closer than a
// relative tolerance collapse onto the earlier vertex, and constraints whose
// span carries a vertex within that tolerance of the segment are routed
// through it: the boolean kernel emits vertices a few ulps apart or a few
// ulps off an edge that runs through them, and treating those as distinct
// breaks constraint insertion.
package triangulate

import (
	"fmt"
	"math"

	polyclip "github.com/ctessum/polyclip-go"
)

// Face is a single output triangle with counter-clockwise winding.
type Face [3]polyclip.Point

// Triangulate triangulates the region described by the even-odd rule over
// the contours of poly. Degenerate input (fewer than three distinct points,
// contours without area) yields no faces.
func Triangulate(poly polyclip.Polygon) []Face {
	m := newTriMesh(poly)
	if m == nil {
		return nil
	}

	// All points go in before any constraint, so no constrained edge is
	// ever split by a later vertex insertion.
	rings := make([][]int, 0, len(poly))
	for _, contour := range poly {
		rings = append(rings, m.ring(contour))
	}
	for _, ring := range rings {
		if len(ring) < 3 {
			continue
		}
		for i := range ring {
			m.insertConstraint(ring[i], ring[(i+1)%len(ring)])
		}
	}

	m.markNesting()
	return m.insideFaces()
}

type triangle struct {
	v     [3]int
	dead  bool
	level int
}

type edgeKey struct{ a, b int }

func key(a, b int) edgeKey {
	if a > b {
		a, b = b, a
	}
	return edgeKey{a, b}
}

// triMesh is an incremental triangulation. The first three points are the
// corners of an enclosing super-triangle; faces touching them represent the
// unbounded region and are never emitted. Constrained edges carry a
// multiplicity: an edge shared by two contour boundaries is crossed twice,
// which must leave the nesting parity unchanged.
type triMesh struct {
	pts         []polyclip.Point
	index       map[polyclip.Point]int
	tris        []triangle
	constrained map[edgeKey]int
	eps         float64
}

func newTriMesh(poly polyclip.Polygon) *triMesh {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	n := 0
	for _, c := range poly {
		for _, p := range c {
			minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
			minY, maxY = math.Min(minY, p.Y), math.Max(maxY, p.Y)
			n++
		}
	}
	if n < 3 {
		return nil
	}

	d := math.Max(maxX-minX, maxY-minY)
	if d == 0 {
		return nil
	}
	cx, cy := (minX+maxX)/2, (minY+maxY)/2

	m := &triMesh{
		pts: []polyclip.Point{
			{X: cx - 20*d, Y: cy - 10*d},
			{X: cx + 20*d, Y: cy - 10*d},
			{X: cx, Y: cy + 20*d},
		},
		index:       make(map[polyclip.Point]int, n),
		constrained: make(map[edgeKey]int),
		eps:         1e-9 * d,
	}
	m.tris = []triangle{{v: [3]int{0, 1, 2}}}
	return m
}

// ring inserts the contour's vertices and returns their indices with
// consecutive duplicates removed.
func (m *triMesh) ring(c polyclip.Contour) []int {
	ring := make([]int, 0, len(c))
	for _, p := range c {
		i := m.addPoint(p)
		if len(ring) > 0 && ring[len(ring)-1] == i {
			continue
		}
		ring = append(ring, i)
	}
	for len(ring) > 1 && ring[0] == ring[len(ring)-1] {
		ring = ring[:len(ring)-1]
	}
	return ring
}

func (m *triMesh) addPoint(p polyclip.Point) int {
	if i, ok := m.index[p]; ok {
		return i
	}
	// Near-duplicate vertices collapse onto the earlier one. Two distinct
	// triangulation points closer than the tolerance would force
	// degenerate triangles during constraint insertion.
	for i := 3; i < len(m.pts); i++ {
		q := m.pts[i]
		if math.Abs(q.X-p.X) < m.eps && math.Abs(q.Y-p.Y) < m.eps {
			m.index[p] = i
			return i
		}
	}
	m.pts = append(m.pts, p)
	i := len(m.pts) - 1
	m.index[p] = i
	m.insert(i)
	return i
}

// insert places an already registered point into the triangulation by
// splitting its containing triangle, or the pair of triangles sharing the
// edge the point falls on.
func (m *triMesh) insert(pi int) {
	p := m.pts[pi]
	for ti := range m.tris {
		t := &m.tris[ti]
		if t.dead {
			continue
		}
		s0 := Orient(m.pts[t.v[0]], m.pts[t.v[1]], p)
		s1 := Orient(m.pts[t.v[1]], m.pts[t.v[2]], p)
		s2 := Orient(m.pts[t.v[2]], m.pts[t.v[0]], p)
		if s0 < 0 || s1 < 0 || s2 < 0 {
			continue
		}
		switch {
		case s0 == 0:
			m.splitEdge(ti, 0, pi)
		case s1 == 0:
			m.splitEdge(ti, 1, pi)
		case s2 == 0:
			m.splitEdge(ti, 2, pi)
		default:
			m.splitTriangle(ti, pi)
		}
		return
	}
	panic(fmt.Sprintf("triangulate: point %v falls outside the triangulation", p))
}

func (m *triMesh) splitTriangle(ti, pi int) {
	v := m.tris[ti].v
	m.tris[ti].dead = true
	m.addTri(v[0], v[1], pi)
	m.addTri(v[1], v[2], pi)
	m.addTri(v[2], v[0], pi)
}

// splitEdge splits the triangle's edge e at point pi, together with the
// neighboring triangle sharing that edge when one exists.
func (m *triMesh) splitEdge(ti, e, pi int) {
	v := m.tris[ti].v
	a, b, c := v[e], v[(e+1)%3], v[(e+2)%3]

	m.tris[ti].dead = true
	m.addTri(a, pi, c)
	m.addTri(pi, b, c)

	for _, tj := range m.edgeTriangles(a, b) {
		if tj == ti || m.tris[tj].dead {
			continue
		}
		d := m.opposite(tj, a, b)
		m.tris[tj].dead = true
		m.addTri(b, pi, d)
		m.addTri(pi, a, d)
		return
	}
}

// addTri appends a live triangle, normalizing to counter-clockwise winding.
// Callers never pass a zero-area triple; dropping one here would leave a
// coverage hole, so the silent case below must stay unreachable.
func (m *triMesh) addTri(a, b, c int) {
	switch Orient(m.pts[a], m.pts[b], m.pts[c]) {
	case 1:
		m.tris = append(m.tris, triangle{v: [3]int{a, b, c}})
	case -1:
		m.tris = append(m.tris, triangle{v: [3]int{a, c, b}})
	}
}

// edgeTriangles returns the live triangles containing both endpoints.
func (m *triMesh) edgeTriangles(a, b int) []int {
	var out []int
	for ti, t := range m.tris {
		if t.dead {
			continue
		}
		if t.has(a) && t.has(b) {
			out = append(out, ti)
		}
	}
	return out
}

func (t triangle) has(v int) bool {
	return t.v[0] == v || t.v[1] == v || t.v[2] == v
}

func (m *triMesh) opposite(ti, a, b int) int {
	for _, v := range m.tris[ti].v {
		if v != a && v != b {
			return v
		}
	}
	panic("triangulate: degenerate triangle in opposite lookup")
}

// insertConstraint forces the segment (a, b) to appear as a triangulation
// edge. Vertices on or near the segment subdivide the constraint; triangles
// crossed by it are removed and the two resulting pseudo-polygon chains are
// re-triangulated.
func (m *triMesh) insertConstraint(a, b int) {
	if a == b {
		return
	}
	if len(m.edgeTriangles(a, b)) > 0 {
		m.constrained[key(a, b)]++
		return
	}
	if v := m.vertexOnSegment(a, b); v >= 0 {
		m.insertConstraint(a, v)
		m.insertConstraint(v, b)
		return
	}

	pa, pb := m.pts[a], m.pts[b]
	cavity := m.crossingTriangles(a, b)
	if len(cavity) == 0 {
		// Roundoff can leave a constraint without an edge, without a
		// proper crossing and without a vertex inside the tolerance
		// band. Route it through the vertex nearest the segment.
		if v := m.nearestToSegment(a, b); v >= 0 {
			m.insertConstraint(a, v)
			m.insertConstraint(v, b)
			return
		}
		panic(fmt.Sprintf("triangulate: constraint %v-%v crosses no triangle yet has no edge", pa, pb))
	}

	// Boundary edges of the cavity appear in exactly one cavity triangle.
	count := make(map[edgeKey]int)
	for _, ti := range cavity {
		v := m.tris[ti].v
		for i := 0; i < 3; i++ {
			count[key(v[i], v[(i+1)%3])]++
		}
	}
	for _, ti := range cavity {
		m.tris[ti].dead = true
	}

	var upper, lower []edgeKey
	for e, c := range count {
		if c != 1 {
			continue
		}
		su := Orient(pa, pb, m.pts[e.a])
		sv := Orient(pa, pb, m.pts[e.b])
		if su > 0 || sv > 0 {
			upper = append(upper, e)
		} else {
			lower = append(lower, e)
		}
	}

	m.fillCavity(m.chain(upper, a, b))
	m.fillCavity(m.chain(lower, a, b))
	m.constrained[key(a, b)]++
}

// vertexOnSegment returns the vertex closest to a that lies inside the open
// segment (a, b), within the mesh tolerance of its line, or -1.
func (m *triMesh) vertexOnSegment(a, b int) int {
	pa, pb := m.pts[a], m.pts[b]
	dx, dy := pb.X-pa.X, pb.Y-pa.Y
	len2 := dx*dx + dy*dy
	length := math.Sqrt(len2)

	best, bestT := -1, math.Inf(1)
	for i := 3; i < len(m.pts); i++ {
		if i == a || i == b {
			continue
		}
		p := m.pts[i]
		if math.Abs((p.X-pa.X)*dy-(p.Y-pa.Y)*dx) > m.eps*length {
			continue
		}
		t := ((p.X-pa.X)*dx + (p.Y-pa.Y)*dy) / len2
		if t <= 0 || t >= 1 {
			continue
		}
		if t < bestT {
			best, bestT = i, t
		}
	}
	return best
}

// nearestToSegment returns the vertex projecting into the open segment
// (a, b) with the smallest perpendicular distance, at any distance, or -1.
func (m *triMesh) nearestToSegment(a, b int) int {
	pa, pb := m.pts[a], m.pts[b]
	dx, dy := pb.X-pa.X, pb.Y-pa.Y
	len2 := dx*dx + dy*dy

	best, bestD := -1, math.Inf(1)
	for i := 3; i < len(m.pts); i++ {
		if i == a || i == b {
			continue
		}
		p := m.pts[i]
		t := ((p.X-pa.X)*dx + (p.Y-pa.Y)*dy) / len2
		if t <= 0 || t >= 1 {
			continue
		}
		d := math.Abs((p.X-pa.X)*dy - (p.Y-pa.Y)*dx)
		if d < bestD {
			best, bestD = i, d
		}
	}
	return best
}

// crossingTriangles collects live triangles with an edge properly crossing
// the open segment (a, b).
func (m *triMesh) crossingTriangles(a, b int) []int {
	pa, pb := m.pts[a], m.pts[b]
	var out []int
	for ti, t := range m.tris {
		if t.dead {
			continue
		}
		for i := 0; i < 3; i++ {
			u, v := m.pts[t.v[i]], m.pts[t.v[(i+1)%3]]
			if properCross(pa, pb, u, v) {
				out = append(out, ti)
				break
			}
		}
	}
	return out
}

func properCross(p, q, r, s polyclip.Point) bool {
	return Orient(p, q, r)*Orient(p, q, s) < 0 && Orient(r, s, p)*Orient(r, s, q) < 0
}

// chain orders one side's boundary edges into the vertex path from a to b.
func (m *triMesh) chain(edges []edgeKey, a, b int) []int {
	adj := make(map[int][]int, len(edges)+1)
	for _, e := range edges {
		adj[e.a] = append(adj[e.a], e.b)
		adj[e.b] = append(adj[e.b], e.a)
	}

	path := []int{a}
	prev, cur := -1, a
	for cur != b {
		next := -1
		for _, n := range adj[cur] {
			if n != prev {
				next = n
				break
			}
		}
		if next < 0 || len(path) > len(edges)+1 {
			panic("triangulate: cavity boundary does not form a chain")
		}
		path = append(path, next)
		prev, cur = cur, next
	}
	return path
}

// fillCavity retriangulates one side of a constraint cavity. The chain runs
// along the cavity boundary between the constraint endpoints; the apex
// nearest the base segment splits the chain recursively. The nearest apex
// keeps every other chain vertex out of the new triangle, so the fill stays
// free of overlaps and T-junctions even when the chain carries collinear
// runs, and the base edge itself always comes out as a triangle edge.
func (m *triMesh) fillCavity(chain []int) {
	if len(chain) < 3 {
		return
	}
	a, b := chain[0], chain[len(chain)-1]
	pa, pb := m.pts[a], m.pts[b]
	dx, dy := pb.X-pa.X, pb.Y-pa.Y

	apex, bestD := -1, math.Inf(1)
	for i := 1; i < len(chain)-1; i++ {
		p := m.pts[chain[i]]
		if Orient(pa, pb, p) == 0 {
			continue
		}
		d := math.Abs((p.X-pa.X)*dy - (p.Y-pa.Y)*dx)
		if d < bestD {
			apex, bestD = i, d
		}
	}
	if apex < 0 {
		// The whole chain collapsed onto the base line: zero area left.
		return
	}
	m.addTri(a, chain[apex], b)
	m.fillCavity(chain[:apex+1])
	m.fillCavity(chain[apex:])
}

// markNesting assigns nesting levels by breadth-first spread from the
// unbounded region: faces connected through unconstrained edges share a
// level, crossing a constrained edge increments it. This mirrors the
// classic domain-marking walk over a constrained triangulation.
func (m *triMesh) markNesting() {
	for i := range m.tris {
		m.tris[i].level = -1
	}
	adj := m.buildEdgeMap()

	start := -1
	for i, t := range m.tris {
		if !t.dead && (t.v[0] < 3 || t.v[1] < 3 || t.v[2] < 3) {
			start = i
			break
		}
	}
	if start < 0 {
		return
	}

	var border []borderEdge
	m.spread(start, 0, adj, &border)
	for len(border) > 0 {
		be := border[0]
		border = border[1:]
		for _, ti := range adj[be.e] {
			if m.tris[ti].level == -1 {
				m.spread(ti, be.level, adj, &border)
			}
		}
	}
}

// borderEdge carries the nesting level assigned to the far side of a
// constrained edge: one more per constraint the edge represents.
type borderEdge struct {
	level int
	e     edgeKey
}

func (m *triMesh) spread(start, level int, adj map[edgeKey][]int, border *[]borderEdge) {
	queue := []int{start}
	for len(queue) > 0 {
		ti := queue[0]
		queue = queue[1:]
		if m.tris[ti].level != -1 {
			continue
		}
		m.tris[ti].level = level
		v := m.tris[ti].v
		for i := 0; i < 3; i++ {
			e := key(v[i], v[(i+1)%3])
			for _, tj := range adj[e] {
				if tj == ti || m.tris[tj].level != -1 {
					continue
				}
				if c := m.constrained[e]; c > 0 {
					*border = append(*border, borderEdge{level + c, e})
				} else {
					queue = append(queue, tj)
				}
			}
		}
	}
}

func (m *triMesh) buildEdgeMap() map[edgeKey][]int {
	adj := make(map[edgeKey][]int, len(m.tris)*2)
	for ti, t := range m.tris {
		if t.dead {
			continue
		}
		for i := 0; i < 3; i++ {
			e := key(t.v[i], t.v[(i+1)%3])
			adj[e] = append(adj[e], ti)
		}
	}
	return adj
}

// insideFaces emits faces with an odd nesting level, excluding anything
// touching the super-triangle.
func (m *triMesh) insideFaces() []Face {
	var out []Face
	for _, t := range m.tris {
		if t.dead || t.level < 1 || t.level%2 == 0 {
			continue
		}
		if t.v[0] < 3 || t.v[1] < 3 || t.v[2] < 3 {
			continue
		}
		out = append(out, Face{m.pts[t.v[0]], m.pts[t.v[1]], m.pts[t.v[2]]})
	}
	return out
}
