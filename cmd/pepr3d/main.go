// Package main is the entry point for the pepr3d mesh painter.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"go.uber.org/zap"

	"github.com/Sondro/pepr3d/internal/config"
	"github.com/Sondro/pepr3d/internal/logger"
	"github.com/Sondro/pepr3d/internal/viewer"
	"github.com/Sondro/pepr3d/pkg/geometry"
	"github.com/Sondro/pepr3d/pkg/paint"
)

var (
	flagShape      = flag.String("shape", "sphere", "Demo mesh: cube or sphere")
	flagHeadless   = flag.Bool("headless", false, "Run the scripted paint session without a window")
	flagSaveConfig = flag.Bool("save-config", false, "Write the effective config to the user config directory and exit")
)

var palette = []mgl32.Vec3{
	{0.92, 0.92, 0.92},
	{0.86, 0.20, 0.18},
	{0.22, 0.66, 0.30},
	{0.20, 0.40, 0.85},
	{0.95, 0.78, 0.20},
	{0.60, 0.30, 0.70},
}

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== pepr3d ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if *flagSaveConfig {
		if err := cfg.Save(); err != nil {
			logger.Error("failed to save config", zap.Error(err))
			os.Exit(1)
		}
		logger.Info("config saved", zap.String("dir", config.ConfigDir()))
		return
	}

	mesh, err := buildMesh(*flagShape)
	if err != nil {
		logger.Error("failed to build mesh", zap.Error(err))
		os.Exit(1)
	}
	logger.Info("mesh ready",
		zap.String("shape", *flagShape),
		zap.Int("faces", mesh.FaceCount()),
		zap.Bool("closed", mesh.Topology().IsClosed()),
	)

	demoSession(mesh, cfg)

	if *flagHeadless {
		return
	}

	tools := viewer.Tools{
		Palette:           palette,
		ActiveColor:       1,
		BrushRadius:       cfg.Painting.BrushRadius,
		CircleMinVertices: cfg.Painting.CircleMinVertices,
		NewCriterion: func(m *geometry.Mesh, startFace int) paint.Criterion {
			return criterionFor(cfg.Painting, m, startFace)
		},
	}
	winCfg := viewer.WindowConfig{
		Title:      "pepr3d",
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	}
	if err := viewer.Run(mesh, winCfg, tools); err != nil {
		logger.Error("viewer error", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("viewer closed normally")
}

func buildMesh(shape string) (*geometry.Mesh, error) {
	switch shape {
	case "cube":
		v, f := geometry.Cube(1)
		return geometry.NewMesh(v, f, 0)
	case "sphere":
		v, f := geometry.UVSphere(1, 16, 24)
		return geometry.NewMesh(v, f, 0)
	default:
		return nil, fmt.Errorf("unknown shape %q", shape)
	}
}

// criterionFor maps the painting config onto a bucket stopping criterion.
func criterionFor(p config.PaintingConfig, m *geometry.Mesh, startFace int) paint.Criterion {
	if p.PaintEverything {
		return paint.NoStopping{}
	}
	if p.StopOnNormal {
		mode := paint.CompareNeighbors
		if p.NormalCompare == "absolute" {
			mode = paint.CompareAbsolute
		}
		return paint.NewNormalStopping(m, startFace, p.NormalDegrees, mode)
	}
	if p.StopOnColor {
		return paint.NewColorStopping(m, startFace)
	}
	return paint.NoStopping{}
}

// demoSession paints a few regions so the viewer opens on a non-blank mesh
// and headless runs have something to report.
func demoSession(m *geometry.Mesh, cfg *config.Config) {
	saved := m.SaveState()

	filled := paint.Fill(m, 0, 1, criterionFor(cfg.Painting, m, 0))
	logger.Info("bucket fill", zap.Int("start", 0), zap.Int("faces", filled))

	top := m.Face(m.FaceCount() / 2)
	s := geometry.Sphere{Center: top.Centroid(), Radius: cfg.Painting.BrushRadius}
	touched := paint.PaintSphere(m, s, cfg.Painting.CircleMinVertices, 3)
	logger.Info("sphere stroke",
		zap.Float64("radius", s.Radius),
		zap.Int("faces", touched),
	)

	// Region statistics over base faces.
	counts := make(map[int]int)
	subdivided := 0
	for i := 0; i < m.FaceCount(); i++ {
		counts[m.Color(i)]++
		if m.Detail(i) != nil {
			subdivided++
		}
	}
	for color, n := range counts {
		logger.Info("color region", zap.Int("color", color), zap.Int("faces", n))
	}
	logger.Info("partitions", zap.Int("faces", subdivided))

	// Exercise the undo snapshot before leaving the painted result.
	m.LoadState(saved)
	paint.Fill(m, 0, 1, criterionFor(cfg.Painting, m, 0))
	paint.PaintSphere(m, s, cfg.Painting.CircleMinVertices, 3)
}
