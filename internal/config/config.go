// Package config handles YAVNE configuration loading.
package config

// Config holds all tool settings. Angles are degrees here and at the CLI;
// the engine works in radians.
type Config struct {
	Compute ComputeConfig `yaml:"compute"`
	Merge   MergeConfig   `yaml:"merge"`
	Logging LoggingConfig `yaml:"logging"`
}

// ComputeConfig holds the normal compute pass settings.
type ComputeConfig struct {
	UseAutoSmooth     bool    `yaml:"use_auto_smooth"`
	SmoothAngleDeg    float64 `yaml:"smooth_angle"`
	FlatFaces         bool    `yaml:"flat_faces"`
	LinkedFaceWeights bool    `yaml:"linked_face_weights"`
	LinkAngleDeg      float64 `yaml:"link_angle"`
	Workers           int     `yaml:"workers"`
	Parallel          bool    `yaml:"parallel"`
}

// MergeConfig holds the normal merge settings.
type MergeConfig struct {
	Distance          float64 `yaml:"distance"`
	IncludeUnselected bool    `yaml:"include_unselected"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Compute: ComputeConfig{
			UseAutoSmooth:  true,
			SmoothAngleDeg: 60,
			LinkAngleDeg:   1,
			Parallel:       true,
		},
		Merge: MergeConfig{
			Distance: 0.0001,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
