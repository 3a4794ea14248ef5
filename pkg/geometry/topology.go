package geometry

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
)

// Topology is the face adjacency structure of a mesh, built from the
// deduplicated vertex/index lists. An empty Topology (failed build or not
// yet built) makes every face an island, which degrades painting operations
// to no-ops instead of corrupting state.
type Topology struct {
	neighbors [][3]int
	closed    bool
}

type vertexPair struct{ a, b int }

// BuildTopology indexes face adjacency over shared undirected edges. Each
// directed edge must appear at most once and have at most one reversed
// counterpart; violations mean a non-manifold edge or inconsistent winding
// and return an error with an empty topology.
func BuildTopology(vertices []mgl64.Vec3, indices [][3]int) (*Topology, error) {
	directed := make(map[vertexPair]int, len(indices)*3)
	for fi, f := range indices {
		for i := 0; i < 3; i++ {
			e := vertexPair{f[i], f[(i+1)%3]}
			if e.a == e.b {
				return &Topology{}, fmt.Errorf("face %d has a degenerate edge at vertex %d", fi, e.a)
			}
			if prev, ok := directed[e]; ok {
				return &Topology{}, fmt.Errorf("edge %d-%d shared by faces %d and %d with the same winding", e.a, e.b, prev, fi)
			}
			directed[e] = fi
		}
	}

	neighbors := make([][3]int, len(indices))
	closed := true
	for fi, f := range indices {
		for i := 0; i < 3; i++ {
			rev := vertexPair{f[(i+1)%3], f[i]}
			if other, ok := directed[rev]; ok {
				neighbors[fi][i] = other
			} else {
				neighbors[fi][i] = -1
				closed = false
			}
		}
	}
	return &Topology{neighbors: neighbors, closed: closed}, nil
}

// Neighbors returns the faces across the three edges of face, -1 where the
// edge is a boundary. Faces outside the structure have no neighbors.
func (t *Topology) Neighbors(face int) [3]int {
	if t == nil || face < 0 || face >= len(t.neighbors) {
		return [3]int{-1, -1, -1}
	}
	return t.neighbors[face]
}

// IsClosed reports whether every edge has a face on both sides.
func (t *Topology) IsClosed() bool {
	return t != nil && len(t.neighbors) > 0 && t.closed
}

// Empty reports whether the topology carries no adjacency information.
func (t *Topology) Empty() bool {
	return t == nil || len(t.neighbors) == 0
}
