package paint

import (
	"github.com/Sondro/pepr3d/pkg/geometry"
)

// PaintSphere stamps a spherical brush onto every face it reaches and then
// reconciles each adjacent pair of touched partitions so their shared edges
// agree point-for-point. Returns the number of faces painted.
func PaintSphere(m *geometry.Mesh, s geometry.Sphere, minVertices, color int) int {
	var painted []int
	for i := 0; i < m.FaceCount(); i++ {
		min, max := m.Face(i).Bounds()
		if !s.IntersectsAABB(min, max) {
			continue
		}
		if m.PaintSphere(i, s, minVertices, color) {
			painted = append(painted, i)
		}
	}
	if len(painted) == 0 {
		return 0
	}

	topo := m.Topology()
	done := make(map[[2]int]bool)
	for _, face := range painted {
		for _, n := range topo.Neighbors(face) {
			if n < 0 || m.Detail(n) == nil {
				continue
			}
			pair := [2]int{face, n}
			if pair[0] > pair[1] {
				pair[0], pair[1] = pair[1], pair[0]
			}
			if done[pair] {
				continue
			}
			done[pair] = true
			geometry.ReconcileShared(m.Detail(pair[0]), m.Detail(pair[1]))
		}
	}
	return len(painted)
}
