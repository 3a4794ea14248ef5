package geometry

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Cube returns the vertices and faces of an axis-aligned cube centered at
// the origin with the given half-extent. Winding is outward
// counter-clockwise, two faces per side.
func Cube(halfExtent float64) ([]mgl64.Vec3, [][3]int) {
	h := halfExtent
	vertices := []mgl64.Vec3{
		{-h, -h, -h}, {h, -h, -h}, {h, h, -h}, {-h, h, -h},
		{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h},
	}
	faces := [][3]int{
		{0, 3, 2}, {0, 2, 1}, // -Z
		{4, 5, 6}, {4, 6, 7}, // +Z
		{0, 1, 5}, {0, 5, 4}, // -Y
		{3, 7, 6}, {3, 6, 2}, // +Y
		{0, 4, 7}, {0, 7, 3}, // -X
		{1, 2, 6}, {1, 6, 5}, // +X
	}
	return vertices, faces
}

// UVSphere returns a latitude/longitude sphere with shared seam vertices.
// rings is the number of latitudinal bands (minimum 3), segments the number
// of longitudinal slices (minimum 3).
func UVSphere(radius float64, rings, segments int) ([]mgl64.Vec3, [][3]int) {
	if rings < 3 {
		rings = 3
	}
	if segments < 3 {
		segments = 3
	}

	vertices := []mgl64.Vec3{{0, 0, radius}}
	for r := 1; r < rings; r++ {
		phi := math.Pi * float64(r) / float64(rings)
		for s := 0; s < segments; s++ {
			theta := 2 * math.Pi * float64(s) / float64(segments)
			vertices = append(vertices, mgl64.Vec3{
				radius * math.Sin(phi) * math.Cos(theta),
				radius * math.Sin(phi) * math.Sin(theta),
				radius * math.Cos(phi),
			})
		}
	}
	south := len(vertices)
	vertices = append(vertices, mgl64.Vec3{0, 0, -radius})

	ringStart := func(r int) int { return 1 + (r-1)*segments }

	var faces [][3]int
	for s := 0; s < segments; s++ {
		faces = append(faces, [3]int{0, ringStart(1) + s, ringStart(1) + (s+1)%segments})
	}
	for r := 1; r < rings-1; r++ {
		for s := 0; s < segments; s++ {
			a := ringStart(r) + s
			b := ringStart(r+1) + s
			c := ringStart(r+1) + (s+1)%segments
			d := ringStart(r) + (s+1)%segments
			faces = append(faces, [3]int{a, b, c}, [3]int{a, c, d})
		}
	}
	last := rings - 1
	for s := 0; s < segments; s++ {
		faces = append(faces, [3]int{south, ringStart(last) + (s+1)%segments, ringStart(last) + s})
	}
	return vertices, faces
}
