package paint

import (
	"github.com/Sondro/pepr3d/pkg/geometry"
)

// Fill flood-fills the mesh with color starting at the given face. The fill
// walks face adjacency breadth-first; every face it reaches is recolored
// unconditionally and the criterion decides only whether the fill may
// expand across an edge. Returns the number of faces recolored.
//
// A mesh without adjacency (failed topology build) cannot be filled and the
// call is a no-op.
func Fill(m *geometry.Mesh, start, color int, criterion Criterion) int {
	if start < 0 || start >= m.FaceCount() {
		return 0
	}
	topo := m.Topology()
	if topo.Empty() {
		return 0
	}

	visited := make([]bool, m.FaceCount())
	queue := []int{start}
	visited[start] = true

	count := 0
	for len(queue) > 0 {
		face := queue[0]
		queue = queue[1:]

		m.SetColor(face, color)
		count++

		for _, n := range topo.Neighbors(face) {
			if n < 0 || visited[n] {
				continue
			}
			if !criterion.Spread(face, n) {
				continue
			}
			visited[n] = true
			queue = append(queue, n)
		}
	}
	return count
}
