package geometry

import (
	"fmt"

	polyclip "github.com/ctessum/polyclip-go"
	"github.com/go-gl/mathgl/mgl64"
)

// Mesh is the painted triangle mesh: base faces, their adjacency topology
// and the lazily created per-face color partitions. Base faces stay fixed
// after construction; painting changes colors and partitions only.
type Mesh struct {
	triangles []Triangle
	vertices  []mgl64.Vec3
	indices   [][3]int
	topology  *Topology
	details   map[int]*Detail
}

// NewMesh builds a mesh from a deduplicated vertex list and face indices.
// All faces start with the given color. A returned error reports degenerate
// faces or a broken topology; the mesh is still usable, with painting
// degraded to single-face operations.
func NewMesh(vertices []mgl64.Vec3, faces [][3]int, color int) (*Mesh, error) {
	m := &Mesh{
		vertices: vertices,
		indices:  faces,
		details:  make(map[int]*Detail),
	}

	m.triangles = make([]Triangle, 0, len(faces))
	for fi, f := range faces {
		t := NewTriangle(vertices[f[0]], vertices[f[1]], vertices[f[2]], color, fi)
		if t.Normal == (mgl64.Vec3{}) {
			m.topology = &Topology{}
			return m, fmt.Errorf("face %d is degenerate", fi)
		}
		m.triangles = append(m.triangles, t)
	}

	topo, err := BuildTopology(vertices, faces)
	m.topology = topo
	if err != nil {
		return m, fmt.Errorf("building topology: %w", err)
	}
	return m, nil
}

// FaceCount returns the number of base faces.
func (m *Mesh) FaceCount() int { return len(m.triangles) }

// Face returns a base face by index.
func (m *Mesh) Face(i int) Triangle { return m.triangles[i] }

// Vertices returns the deduplicated vertex list.
func (m *Mesh) Vertices() []mgl64.Vec3 { return m.vertices }

// Indices returns the face index triples.
func (m *Mesh) Indices() [][3]int { return m.indices }

// Topology returns the adjacency structure. Never nil.
func (m *Mesh) Topology() *Topology { return m.topology }

// Color returns the base color of a face.
func (m *Mesh) Color(face int) int { return m.triangles[face].Color }

// SetColor recolors a whole base face. An existing partition collapses to
// the uniform color, which is what the bucket tool expects.
func (m *Mesh) SetColor(face, color int) {
	m.triangles[face].Color = color
	if d, ok := m.details[face]; ok {
		d.SetColor(color)
	}
}

// Detail returns the face's partition, nil when the face is uniform.
func (m *Mesh) Detail(face int) *Detail {
	return m.details[face]
}

// EnsureDetail returns the face's partition, creating a pristine one.
func (m *Mesh) EnsureDetail(face int) *Detail {
	if d, ok := m.details[face]; ok {
		return d
	}
	d := NewDetail(m.triangles[face])
	m.details[face] = d
	return d
}

// DropDetail discards a face's partition.
func (m *Mesh) DropDetail(face int) {
	delete(m.details, face)
}

// PaintSphere stamps the sphere footprint onto one face's partition.
// Reports whether the face was touched; a pristine partition created for a
// miss is discarded again.
func (m *Mesh) PaintSphere(face int, s Sphere, minVertices, color int) bool {
	_, existed := m.details[face]
	d := m.EnsureDetail(face)
	if !d.PaintSphere(s, minVertices, color) {
		if !existed {
			m.DropDetail(face)
		}
		return false
	}
	return true
}

// State is a snapshot of everything painting can change, for an external
// undo manager. Base geometry is not included because it never changes.
type State struct {
	Colors  []int
	Details map[int]*Detail
}

// SaveState deep-copies the current colors and partitions.
func (m *Mesh) SaveState() State {
	s := State{
		Colors:  make([]int, len(m.triangles)),
		Details: make(map[int]*Detail, len(m.details)),
	}
	for i, t := range m.triangles {
		s.Colors[i] = t.Color
	}
	for face, d := range m.details {
		s.Details[face] = d.clone()
	}
	return s
}

// LoadState restores a snapshot. The snapshot stays valid for further
// restores.
func (m *Mesh) LoadState(s State) {
	if len(s.Colors) != len(m.triangles) {
		panic(fmt.Sprintf("geometry: snapshot of %d faces restored onto %d faces", len(s.Colors), len(m.triangles)))
	}
	for i, c := range s.Colors {
		m.triangles[i].Color = c
	}
	m.details = make(map[int]*Detail, len(s.Details))
	for face, d := range s.Details {
		m.details[face] = d.clone()
	}
}

func (d *Detail) clone() *Detail {
	c := &Detail{
		base:    d.base,
		frame:   d.frame.clone(),
		bounds:  clonePolygon(d.bounds),
		colored: make(map[int]polyclip.Polygon, len(d.colored)),
		tris:    append([]Triangle(nil), d.tris...),
		dirty:   d.dirty,
	}
	for color, region := range d.colored {
		c.colored[color] = clonePolygon(region)
	}
	return c
}
