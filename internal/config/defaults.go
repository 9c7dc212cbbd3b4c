package config

import (
	_ "embed"

	"github.com/vovakirdan/tui-match3/internal/games/match3/engine"
)

//go:embed defaults/match3.yaml
var defaultMatch3YAML []byte

// DefaultMatch3Config returns the built-in configuration, used when even the
// embedded YAML cannot be parsed.
func DefaultMatch3Config() Match3Config {
	ec := engine.DefaultConfig()
	return Match3Config{
		Board: BoardConfig{
			Width:  ec.Width,
			Height: ec.Height,
			Kinds:  ec.Kinds,
		},
		Scoring: ScoringConfig{
			PointsPerTile: ec.PointsPerTile,
		},
		Generator: GeneratorConfig{
			MaxAttempts: ec.MaxAttempts,
		},
		Cascade: CascadeConfig{
			MaxWaves:  ec.MaxWaves,
			CacheSize: ec.CacheSize,
		},
		Pacing: PacingConfig{
			StepTicks:    8,
			MessageTicks: 45,
		},
		Classic: ClassicConfig{
			MoveLimit: 30,
		},
	}
}

// DefaultYAML returns the embedded default YAML.
func DefaultYAML() []byte {
	return defaultMatch3YAML
}
