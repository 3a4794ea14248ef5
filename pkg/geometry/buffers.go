package geometry

import (
	"github.com/go-gl/mathgl/mgl32"
)

// RenderBuffers is the flat GL upload layout: three unshared vertices per
// triangle so per-face colors and flat normals need no splitting in the
// shader. Faces carrying a partition contribute their sub-triangles instead
// of the base face.
type RenderBuffers struct {
	Positions []float32 // xyz per vertex
	Normals   []float32 // xyz per vertex
	Colors    []float32 // rgb per vertex
	Indices   []uint32
}

// VertexCount returns the number of buffer vertices.
func (b RenderBuffers) VertexCount() int { return len(b.Positions) / 3 }

// BuildRenderBuffers flattens the painted mesh for upload. Color indices
// resolve against the palette modulo its length; an empty palette panics.
func (m *Mesh) BuildRenderBuffers(palette []mgl32.Vec3) RenderBuffers {
	if len(palette) == 0 {
		panic("geometry: empty color palette")
	}

	var tris []Triangle
	for i, t := range m.triangles {
		if d, ok := m.details[i]; ok {
			tris = append(tris, d.Triangles()...)
		} else {
			tris = append(tris, t)
		}
	}

	b := RenderBuffers{
		Positions: make([]float32, 0, len(tris)*9),
		Normals:   make([]float32, 0, len(tris)*9),
		Colors:    make([]float32, 0, len(tris)*9),
		Indices:   make([]uint32, 0, len(tris)*3),
	}
	for _, t := range tris {
		rgb := palette[t.Color%len(palette)]
		for _, p := range t.Vertices() {
			b.Positions = append(b.Positions, float32(p[0]), float32(p[1]), float32(p[2]))
			b.Normals = append(b.Normals, float32(t.Normal[0]), float32(t.Normal[1]), float32(t.Normal[2]))
			b.Colors = append(b.Colors, rgb[0], rgb[1], rgb[2])
			b.Indices = append(b.Indices, uint32(len(b.Indices)))
		}
	}
	return b
}
