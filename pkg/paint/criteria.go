// Package paint implements the painting tools: the bucket flood fill with
// its stopping criteria and the spherical brush stroke driver.
package paint

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/Sondro/pepr3d/pkg/geometry"
)

// Criterion gates the expansion of a flood fill. It never prevents a face
// already reached from being recolored, only whether the fill may continue
// from one face onto an adjacent one.
type Criterion interface {
	Spread(from, to int) bool
}

// NoStopping lets the fill cover everything reachable.
type NoStopping struct{}

// Spread always allows expansion.
func (NoStopping) Spread(from, to int) bool { return true }

// ColorStopping confines the fill to the region that had the start face's
// color when the fill began.
type ColorStopping struct {
	mesh  *geometry.Mesh
	color int
}

// NewColorStopping captures the start face's color. Capture must happen
// before the fill recolors anything.
func NewColorStopping(m *geometry.Mesh, startFace int) ColorStopping {
	return ColorStopping{mesh: m, color: m.Color(startFace)}
}

// Spread allows expansion onto faces still wearing the captured color.
func (c ColorStopping) Spread(from, to int) bool {
	return c.mesh.Color(to) == c.color
}

// CompareMode selects the reference normal for NormalStopping.
type CompareMode int

const (
	// CompareNeighbors measures the angle between adjacent faces, so the
	// fill follows gradual curvature and stops at sharp creases.
	CompareNeighbors CompareMode = iota
	// CompareAbsolute measures every face against the start face's
	// normal, confining the fill to one orientation of the surface.
	CompareAbsolute
)

// NormalStopping stops the fill where the surface bends more than a
// threshold angle.
type NormalStopping struct {
	mesh         *geometry.Mesh
	thresholdCos float64
	startNormal  mgl64.Vec3
	mode         CompareMode
}

// NewNormalStopping builds the criterion from a threshold in degrees.
func NewNormalStopping(m *geometry.Mesh, startFace int, degrees float64, mode CompareMode) NormalStopping {
	return NormalStopping{
		mesh:         m,
		thresholdCos: math.Cos(degrees * math.Pi / 180),
		startNormal:  m.Face(startFace).Normal,
		mode:         mode,
	}
}

// Spread allows expansion while the reference and neighbor normals stay
// within the threshold angle. Sub-faces of the same base face never block
// each other.
func (n NormalStopping) Spread(from, to int) bool {
	ft, tt := n.mesh.Face(from), n.mesh.Face(to)
	if ft.Base == tt.Base {
		return true
	}
	ref := n.startNormal
	if n.mode == CompareNeighbors {
		ref = ft.Normal
	}
	return ref.Dot(tt.Normal) >= n.thresholdCos
}
