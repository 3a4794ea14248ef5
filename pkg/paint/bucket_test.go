package paint

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Sondro/pepr3d/pkg/geometry"
)

func cubeMesh(t *testing.T) *geometry.Mesh {
	t.Helper()
	vertices, faces := geometry.Cube(1)
	m, err := geometry.NewMesh(vertices, faces, 0)
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}
	return m
}

func TestFillWholeCube(t *testing.T) {
	m := cubeMesh(t)
	if got := Fill(m, 0, 1, NoStopping{}); got != 12 {
		t.Fatalf("filled %d faces, want 12", got)
	}
	for i := 0; i < m.FaceCount(); i++ {
		if m.Color(i) != 1 {
			t.Errorf("face %d color = %d, want 1", i, m.Color(i))
		}
	}
}

func TestFillColorStopping(t *testing.T) {
	m := cubeMesh(t)
	// Faces 0 and 1 form the -Z side. Recolor that side, then fill it
	// with color stopping: the fill must not leak onto color-0 faces.
	m.SetColor(0, 1)
	m.SetColor(1, 1)

	if got := Fill(m, 0, 2, NewColorStopping(m, 0)); got != 2 {
		t.Fatalf("filled %d faces, want 2", got)
	}
	if m.Color(0) != 2 || m.Color(1) != 2 {
		t.Error("start region not recolored")
	}
	for i := 2; i < m.FaceCount(); i++ {
		if m.Color(i) != 0 {
			t.Errorf("face %d leaked to color %d", i, m.Color(i))
		}
	}
}

func TestFillRecolorsReachedFaces(t *testing.T) {
	m := cubeMesh(t)
	// The criterion gates expansion only: a face the fill reaches is
	// recolored even when expansion stops there. From one coplanar pair
	// a 45 degree threshold crosses no 90 degree cube edge.
	got := Fill(m, 0, 3, NewNormalStopping(m, 0, 45, CompareNeighbors))
	if got != 2 {
		t.Fatalf("filled %d faces, want the 2 coplanar faces", got)
	}
	if m.Color(0) != 3 || m.Color(1) != 3 {
		t.Error("coplanar pair not recolored")
	}
}

func TestFillNormalThresholdMonotonic(t *testing.T) {
	angles := []float64{10, 45, 89, 91, 180}
	prev := 0
	for _, deg := range angles {
		m := cubeMesh(t)
		got := Fill(m, 0, 1, NewNormalStopping(m, 0, deg, CompareNeighbors))
		if got < prev {
			t.Errorf("fill at %v degrees covered %d faces, less than %d at a smaller angle", deg, got, prev)
		}
		prev = got
	}

	m := cubeMesh(t)
	if got := Fill(m, 0, 1, NewNormalStopping(m, 0, 91, CompareNeighbors)); got != 12 {
		t.Errorf("91 degree neighbor threshold filled %d faces, want 12", got)
	}
}

func TestFillNormalAbsolute(t *testing.T) {
	m := cubeMesh(t)
	// Absolute mode compares against the start normal, so even a
	// generous neighbor angle cannot walk around the cube.
	if got := Fill(m, 0, 1, NewNormalStopping(m, 0, 89, CompareAbsolute)); got != 2 {
		t.Errorf("filled %d faces, want 2", got)
	}
}

func TestFillBrokenTopology(t *testing.T) {
	vertices, faces := geometry.Cube(1)
	faces = append(faces, faces[0])
	m, err := geometry.NewMesh(vertices, faces, 0)
	if err == nil {
		t.Fatal("duplicate face built without error")
	}
	if got := Fill(m, 0, 1, NoStopping{}); got != 0 {
		t.Errorf("fill on broken topology touched %d faces, want 0", got)
	}
	if m.Color(0) != 0 {
		t.Error("fill on broken topology recolored the start face")
	}
}

func TestFillResetsPartition(t *testing.T) {
	m := cubeMesh(t)
	face := m.Face(2)
	m.PaintSphere(2, geometry.Sphere{Center: face.Centroid(), Radius: 0.4}, 8, 3)
	if m.Detail(2) == nil {
		t.Fatal("sphere stroke created no partition")
	}

	Fill(m, 0, 5, NoStopping{})
	if c, ok := m.Detail(2).UniformColor(); !ok || c != 5 {
		t.Errorf("partition after fill = %v,%v, want uniform 5", c, ok)
	}
}

func TestPaintSphereStroke(t *testing.T) {
	vertices := []mgl64.Vec3{{0, 0, 0}, {2, 0, 0}, {2, 2, 0}, {0, 2, 0}}
	faces := [][3]int{{0, 1, 2}, {0, 2, 3}}
	m, err := geometry.NewMesh(vertices, faces, 0)
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}

	s := geometry.Sphere{Center: mgl64.Vec3{1, 1, 0.3}, Radius: 0.7}
	if got := PaintSphere(m, s, 12, 1); got != 2 {
		t.Fatalf("stroke painted %d faces, want 2", got)
	}
	if m.Detail(0) == nil || m.Detail(1) == nil {
		t.Fatal("stroke left a touched face without a partition")
	}

	// Shared-edge vertices must agree bit-for-bit after the stroke.
	onDiagonal := func(d *geometry.Detail) map[mgl64.Vec3]bool {
		out := make(map[mgl64.Vec3]bool)
		for _, tri := range d.Triangles() {
			for _, p := range tri.Vertices() {
				if p[0] == p[1] && p[0] > 1e-9 && p[0] < 2-1e-9 {
					out[p] = true
				}
			}
		}
		return out
	}
	setA, setB := onDiagonal(m.Detail(0)), onDiagonal(m.Detail(1))
	if len(setA) == 0 {
		t.Fatal("no interior boundary points on the shared edge")
	}
	for p := range setA {
		if !setB[p] {
			t.Errorf("boundary point %v differs across the shared edge", p)
		}
	}
	for p := range setB {
		if !setA[p] {
			t.Errorf("boundary point %v differs across the shared edge", p)
		}
	}

	miss := geometry.Sphere{Center: mgl64.Vec3{10, 10, 10}, Radius: 0.5}
	if got := PaintSphere(m, miss, 12, 2); got != 0 {
		t.Errorf("distant sphere painted %d faces", got)
	}
}

func TestPaintSphereAlternatingStrokes(t *testing.T) {
	// Repeated strokes across the shared edge stack reconciliation output
	// onto earlier partitions. Every stroke must complete and both faces
	// must keep their full area partitioned.
	vertices := []mgl64.Vec3{{0, 0, 0}, {2, 0, 0}, {2, 2, 0}, {0, 2, 0}}
	faces := [][3]int{{0, 1, 2}, {0, 2, 3}}
	m, err := geometry.NewMesh(vertices, faces, 0)
	if err != nil {
		t.Fatalf("NewMesh: %v", err)
	}

	strokes := []struct {
		s     geometry.Sphere
		color int
	}{
		{geometry.Sphere{Center: mgl64.Vec3{1, 1, 0.3}, Radius: 0.7}, 1},
		{geometry.Sphere{Center: mgl64.Vec3{0.9, 1.1, 0.25}, Radius: 0.6}, 2},
		{geometry.Sphere{Center: mgl64.Vec3{1.15, 0.85, 0.3}, Radius: 0.65}, 1},
		{geometry.Sphere{Center: mgl64.Vec3{1, 1, 0.2}, Radius: 0.5}, 3},
	}
	for i, st := range strokes {
		if got := PaintSphere(m, st.s, 12, st.color); got != 2 {
			t.Fatalf("stroke %d painted %d faces, want 2", i, got)
		}
	}

	for face := 0; face < 2; face++ {
		total := 0.0
		for _, tri := range m.Detail(face).Triangles() {
			total += tri.Area()
		}
		if math.Abs(total-2) > 1e-6 {
			t.Errorf("face %d partition area = %v, want 2", face, total)
		}
	}
}
