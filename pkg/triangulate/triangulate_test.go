package triangulate

import (
	"math"
	"testing"

	polyclip "github.com/ctessum/polyclip-go"
)

func faceArea(f Face) float64 {
	return math.Abs((f[1].X-f[0].X)*(f[2].Y-f[0].Y)-(f[1].Y-f[0].Y)*(f[2].X-f[0].X)) / 2
}

func totalArea(faces []Face) float64 {
	sum := 0.0
	for _, f := range faces {
		sum += faceArea(f)
	}
	return sum
}

func square(x, y, size float64) polyclip.Contour {
	return polyclip.Contour{
		{X: x, Y: y},
		{X: x + size, Y: y},
		{X: x + size, Y: y + size},
		{X: x, Y: y + size},
	}
}

func TestTriangulateSquare(t *testing.T) {
	faces := Triangulate(polyclip.Polygon{square(0, 0, 2)})
	if len(faces) == 0 {
		t.Fatal("no faces for a square")
	}
	if got := totalArea(faces); math.Abs(got-4) > 1e-12 {
		t.Errorf("square area = %v, want 4", got)
	}
	for _, f := range faces {
		if Orient(f[0], f[1], f[2]) != 1 {
			t.Errorf("face %v is not counter-clockwise", f)
		}
	}
}

func TestTriangulateSquareWithHole(t *testing.T) {
	poly := polyclip.Polygon{square(0, 0, 4), square(1, 1, 2)}
	faces := Triangulate(poly)
	if got := totalArea(faces); math.Abs(got-12) > 1e-12 {
		t.Errorf("area = %v, want 12", got)
	}
	// No face may cover the hole interior.
	hx, hy := 2.0, 2.0
	for _, f := range faces {
		p := polyclip.Point{X: hx, Y: hy}
		if Orient(f[0], f[1], p) > 0 && Orient(f[1], f[2], p) > 0 && Orient(f[2], f[0], p) > 0 {
			t.Errorf("face %v covers the hole center", f)
		}
	}
}

func TestTriangulateNestedIsland(t *testing.T) {
	// Outer square, hole, island inside the hole. Even-odd keeps the
	// outer ring and the island.
	poly := polyclip.Polygon{square(0, 0, 8), square(2, 2, 4), square(3, 3, 2)}
	faces := Triangulate(poly)
	want := 64.0 - 16.0 + 4.0
	if got := totalArea(faces); math.Abs(got-want) > 1e-12 {
		t.Errorf("area = %v, want %v", got, want)
	}
}

func TestTriangulateCollinearBoundaryPoints(t *testing.T) {
	// Extra vertices on the bottom edge must survive as triangulation
	// vertices, not break constraint insertion.
	contour := polyclip.Contour{
		{X: 0, Y: 0},
		{X: 1, Y: 0},
		{X: 2, Y: 0},
		{X: 3, Y: 0},
		{X: 3, Y: 3},
		{X: 0, Y: 3},
	}
	faces := Triangulate(polyclip.Polygon{contour})
	if got := totalArea(faces); math.Abs(got-9) > 1e-12 {
		t.Errorf("area = %v, want 9", got)
	}

	used := map[polyclip.Point]bool{}
	for _, f := range faces {
		for _, p := range f {
			used[p] = true
		}
	}
	for _, p := range contour {
		if !used[p] {
			t.Errorf("input vertex %v missing from output faces", p)
		}
	}
}

func TestTriangulateNearDuplicateVertices(t *testing.T) {
	// The boolean kernel emits vertices a few ulps apart. They must merge
	// instead of becoming distinct triangulation points.
	poly := polyclip.Polygon{{
		{X: 0, Y: 0},
		{X: 2, Y: 0},
		{X: 2, Y: 2},
		{X: 2 - 1e-15, Y: 2 + 1e-15},
		{X: 0, Y: 2},
	}}
	faces := Triangulate(poly)
	if len(faces) == 0 {
		t.Fatal("no faces for a square with a near-duplicate corner")
	}
	if got := totalArea(faces); math.Abs(got-4) > 1e-9 {
		t.Errorf("area = %v, want 4", got)
	}
}

func TestTriangulateVertexNearConstraint(t *testing.T) {
	// The second contour's long edge passes a few ulps above two vertices
	// of the first. The constraint must be routed through them, and the
	// overlapping piece coincides with the first contour's bottom edge,
	// which is then crossed twice and must not flip the even-odd parity.
	poly := polyclip.Polygon{
		{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 2, Y: 3}},
		{{X: -1, Y: 1e-15}, {X: 5, Y: 1e-15}, {X: 2, Y: -3}},
	}
	faces := Triangulate(poly)
	if len(faces) == 0 {
		t.Fatal("no faces for overlapping near-collinear contours")
	}
	want := 15.0
	if got := totalArea(faces); math.Abs(got-want) > 1e-6 {
		t.Errorf("area = %v, want %v", got, want)
	}

	// Both triangle interiors stay covered.
	for _, probe := range []polyclip.Point{{X: 2, Y: 1}, {X: 2, Y: -1}} {
		covered := false
		for _, f := range faces {
			if Orient(f[0], f[1], probe) >= 0 && Orient(f[1], f[2], probe) >= 0 && Orient(f[2], f[0], probe) >= 0 {
				covered = true
				break
			}
		}
		if !covered {
			t.Errorf("point %v not covered by any face", probe)
		}
	}
}

func TestTriangulateDegenerate(t *testing.T) {
	cases := []polyclip.Polygon{
		nil,
		{},
		{polyclip.Contour{{X: 1, Y: 1}}},
		{polyclip.Contour{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}},
	}
	for i, poly := range cases {
		if faces := Triangulate(poly); len(faces) != 0 {
			t.Errorf("case %d: got %d faces for degenerate input", i, len(faces))
		}
	}
}

func TestOrientExactFallback(t *testing.T) {
	// Nearly collinear points where naive float64 evaluation is unreliable.
	a := polyclip.Point{X: 0, Y: 0}
	b := polyclip.Point{X: 1e-20, Y: 1e-20}
	c := polyclip.Point{X: 1, Y: 1}
	if got := Orient(a, b, c); got != 0 {
		t.Errorf("Orient on exactly collinear points = %d, want 0", got)
	}

	// Smallest representable perturbation above the line. The float64
	// determinant rounds to zero here, forcing the exact evaluation.
	c2 := polyclip.Point{X: 1, Y: math.Nextafter(1, 2)}
	if got := Orient(a, c, c2); got != 1 {
		t.Errorf("Orient with one ulp positive offset = %d, want 1", got)
	}
}
