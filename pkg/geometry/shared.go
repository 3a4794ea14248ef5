package geometry

import (
	"fmt"
	"sort"

	polyclip "github.com/ctessum/polyclip-go"
	"github.com/go-gl/mathgl/mgl64"
)

// ReconcileShared makes two edge-adjacent partitions agree point-for-point
// on their shared edge. Both sides' boundary vertices on the edge are merged
// into one canonical list; near-coincident vertices are snapped to the
// canonical bits and vertices one side is missing are inserted into the
// covering boundary edge. Afterwards the two faces emit bit-identical world
// coordinates along the edge, so the painted surface stays watertight.
//
// The faces must share exactly one edge. Calling this on non-adjacent faces
// is a programming error and panics.
func ReconcileShared(a, b *Detail) {
	line := sharedEdge(a.base, b.base)

	a.syncPolygons()
	b.syncPolygons()

	canon := canonicalEdgePoints(line, append(a.edgePoints(line), b.edgePoints(line)...))
	if len(canon) == 0 {
		return
	}

	if a.applyEdgePoints(line, canon) {
		a.rebuildAll()
	}
	if b.applyEdgePoints(line, canon) {
		b.rebuildAll()
	}
}

// edgeLine is the shared edge with canonically ordered endpoints.
type edgeLine struct {
	lo, hi mgl64.Vec3
	dir    mgl64.Vec3
	len2   float64
	eps    float64
}

func sharedEdge(ta, tb Triangle) edgeLine {
	var common []mgl64.Vec3
	for _, p := range ta.Vertices() {
		for _, q := range tb.Vertices() {
			if p == q {
				common = append(common, p)
			}
		}
	}
	if len(common) != 2 {
		panic(fmt.Sprintf("geometry: faces share %d corners, want 2", len(common)))
	}
	lo, hi := common[0], common[1]
	if lessVec3(hi, lo) {
		lo, hi = hi, lo
	}
	dir := hi.Sub(lo)
	len2 := dir.Dot(dir)
	return edgeLine{lo: lo, hi: hi, dir: dir, len2: len2, eps: 1e-9 * dir.Len()}
}

// param returns the point's parameter along the edge and whether it lies on
// the open segment, endpoints excluded.
func (e edgeLine) param(p mgl64.Vec3) (float64, bool) {
	t := p.Sub(e.lo).Dot(e.dir) / e.len2
	closest := e.lo.Add(e.dir.Mul(t))
	if p.Sub(closest).Len() > e.eps {
		return 0, false
	}
	tEps := e.eps / e.dir.Len()
	if t < tEps || t > 1-tEps {
		return 0, false
	}
	return t, true
}

// paramClosed is param with the endpoints included. Used to find the
// boundary edge bracketing an insertion point, which may run corner to
// corner.
func (e edgeLine) paramClosed(p mgl64.Vec3) (float64, bool) {
	t := p.Sub(e.lo).Dot(e.dir) / e.len2
	closest := e.lo.Add(e.dir.Mul(t))
	if p.Sub(closest).Len() > e.eps {
		return 0, false
	}
	tEps := e.eps / e.dir.Len()
	if t < -tEps || t > 1+tEps {
		return 0, false
	}
	return t, true
}

// edgePoints lifts every partition boundary vertex lying on the shared edge
// to world space.
func (d *Detail) edgePoints(line edgeLine) []mgl64.Vec3 {
	seen := make(map[mgl64.Vec3]bool)
	var out []mgl64.Vec3
	for _, region := range d.colored {
		for _, contour := range region {
			for _, p := range contour {
				w := d.frame.World(p)
				if seen[w] {
					continue
				}
				if _, on := line.param(w); on {
					seen[w] = true
					out = append(out, w)
				}
			}
		}
	}
	return out
}

// canonicalEdgePoints merges both sides' points into one ordered list.
// Points closer than the edge tolerance collapse to a single representative
// chosen by coordinate order, so both sides independently derive the same
// canonical bits.
func canonicalEdgePoints(line edgeLine, pts []mgl64.Vec3) []mgl64.Vec3 {
	if len(pts) == 0 {
		return nil
	}
	type tp struct {
		t float64
		w mgl64.Vec3
	}
	ordered := make([]tp, 0, len(pts))
	for _, w := range pts {
		t, _ := line.param(w)
		ordered = append(ordered, tp{t, w})
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].t != ordered[j].t {
			return ordered[i].t < ordered[j].t
		}
		return lessVec3(ordered[i].w, ordered[j].w)
	})

	var canon []mgl64.Vec3
	group := []tp{ordered[0]}
	flush := func() {
		rep := group[0].w
		for _, g := range group[1:] {
			if lessVec3(g.w, rep) {
				rep = g.w
			}
		}
		canon = append(canon, rep)
	}
	for _, cur := range ordered[1:] {
		if cur.w.Sub(group[len(group)-1].w).Len() < line.eps {
			group = append(group, cur)
			continue
		}
		flush()
		group = []tp{cur}
	}
	flush()
	return canon
}

// applyEdgePoints snaps near-coincident boundary vertices to the canonical
// bits and inserts the canonical points this side is missing. Reports
// whether anything changed.
func (d *Detail) applyEdgePoints(line edgeLine, canon []mgl64.Vec3) bool {
	changed := false

	// Snap pass. Vertices within tolerance of a canonical point adopt its
	// exact coordinates on both sides of the frame mapping.
	for color, region := range d.colored {
		for ci, contour := range region {
			for vi, p := range contour {
				w := d.frame.World(p)
				for _, cw := range canon {
					if w == cw {
						break
					}
					if w.Sub(cw).Len() < line.eps {
						d.colored[color][ci][vi] = d.frame.Local(cw)
						changed = true
						break
					}
				}
			}
		}
	}

	// Insertion pass. A missing point splits every boundary edge whose
	// endpoints bracket it along the shared edge.
	for _, cw := range canon {
		if d.hasWorldVertex(cw) {
			continue
		}
		t, _ := line.param(cw)
		if !d.insertOnEdge(line, t, cw) {
			panic(fmt.Sprintf("geometry: boundary point %v cannot be placed on the shared edge", cw))
		}
		changed = true
	}
	return changed
}

func (d *Detail) hasWorldVertex(w mgl64.Vec3) bool {
	for _, region := range d.colored {
		for _, contour := range region {
			for _, p := range contour {
				if d.frame.World(p) == w {
					return true
				}
			}
		}
	}
	return false
}

func (d *Detail) insertOnEdge(line edgeLine, t float64, w mgl64.Vec3) bool {
	placed := false
	for color, region := range d.colored {
		for ci, contour := range region {
			for vi := 0; vi < len(contour); vi++ {
				pu := contour[vi]
				pv := contour[(vi+1)%len(contour)]
				tu, onU := line.paramClosed(d.frame.World(pu))
				tv, onV := line.paramClosed(d.frame.World(pv))
				if !onU || !onV {
					continue
				}
				if tu > tv {
					tu, tv = tv, tu
				}
				if t <= tu || t >= tv {
					continue
				}
				pl := d.frame.Local(w)
				contour = append(contour, polyclip.Point{})
				copy(contour[vi+2:], contour[vi+1:])
				contour[vi+1] = pl
				d.colored[color][ci] = contour
				placed = true
				break
			}
		}
	}
	return placed
}
