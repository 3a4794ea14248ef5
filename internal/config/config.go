// Package config handles application configuration loading and management.
package config

// Config holds all application settings.
type Config struct {
	Painting PaintingConfig `yaml:"painting"`
	Graphics GraphicsConfig `yaml:"graphics"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// PaintingConfig holds the painting tool settings.
type PaintingConfig struct {
	BrushRadius float64 `yaml:"brush_radius"`
	// CircleMinVertices is the lower bound on brush circle resolution.
	CircleMinVertices int `yaml:"circle_min_vertices"`

	// Bucket tool stopping criteria.
	StopOnColor     bool    `yaml:"stop_on_color"`
	StopOnNormal    bool    `yaml:"stop_on_normal"`
	NormalDegrees   float64 `yaml:"normal_degrees"`
	NormalCompare   string  `yaml:"normal_compare"` // "neighbors" or "absolute"
	PaintEverything bool    `yaml:"paint_everything"`
}

// GraphicsConfig holds display settings for the viewer.
type GraphicsConfig struct {
	Width      int  `yaml:"width"`
	Height     int  `yaml:"height"`
	Fullscreen bool `yaml:"fullscreen"`
	VSync      bool `yaml:"vsync"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Painting: PaintingConfig{
			BrushRadius:       0.2,
			CircleMinVertices: 12,
			StopOnColor:       true,
			StopOnNormal:      false,
			NormalDegrees:     30,
			NormalCompare:     "neighbors",
			PaintEverything:   false,
		},
		Graphics: GraphicsConfig{
			Width:      1280,
			Height:     720,
			Fullscreen: false,
			VSync:      true,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
