// Package config loads the YAML configuration of the match-3 game and
// applies difficulty presets.
package config

import (
	"fmt"

	"github.com/vovakirdan/tui-match3/internal/games/match3/engine"
)

// Match3Config contains all configuration for the match-3 game.
type Match3Config struct {
	Board     BoardConfig     `yaml:"board"`
	Scoring   ScoringConfig   `yaml:"scoring"`
	Generator GeneratorConfig `yaml:"generator"`
	Cascade   CascadeConfig   `yaml:"cascade"`
	Pacing    PacingConfig    `yaml:"pacing"`
	Classic   ClassicConfig   `yaml:"classic"`
}

// BoardConfig defines the grid.
type BoardConfig struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
	Kinds  int `yaml:"kinds"` // Tile types in play
}

// ScoringConfig defines how matches are paid.
type ScoringConfig struct {
	PointsPerTile int `yaml:"points_per_tile"`
}

// GeneratorConfig bounds board generation.
type GeneratorConfig struct {
	MaxAttempts int `yaml:"max_attempts"`
}

// CascadeConfig bounds cascade resolution and its detection cache.
type CascadeConfig struct {
	MaxWaves  int `yaml:"max_waves"`
	CacheSize int `yaml:"cache_size"`
}

// PacingConfig controls how fast resolved waves are replayed on screen.
type PacingConfig struct {
	StepTicks    int `yaml:"step_ticks"`    // Ticks each wave stays highlighted
	MessageTicks int `yaml:"message_ticks"` // Ticks a status message stays visible
}

// ClassicConfig holds the rules of the move-limited mode.
type ClassicConfig struct {
	MoveLimit int `yaml:"move_limit"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
)

// KindsForPreset returns the number of tile types for a preset.
// More kinds means fewer matches.
func KindsForPreset(preset DifficultyPreset) int {
	switch preset {
	case DifficultyEasy:
		return 5
	case DifficultyHard:
		return 7
	default:
		return 6
	}
}

// ParsePreset validates a preset name. The empty string means normal.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(s); p {
	case "":
		return DifficultyNormal, nil
	case DifficultyEasy, DifficultyNormal, DifficultyHard:
		return p, nil
	default:
		return "", fmt.Errorf("config: unknown difficulty %q (want easy, normal or hard)", s)
	}
}

// EngineConfig maps the YAML sections onto the engine's rules.
func (c Match3Config) EngineConfig() engine.Config {
	return engine.Config{
		Width:         c.Board.Width,
		Height:        c.Board.Height,
		Kinds:         c.Board.Kinds,
		PointsPerTile: c.Scoring.PointsPerTile,
		MaxAttempts:   c.Generator.MaxAttempts,
		MaxWaves:      c.Cascade.MaxWaves,
		CacheSize:     c.Cascade.CacheSize,
	}
}

// Validate checks the config against the engine's limits and the pacing
// section.
func (c Match3Config) Validate() error {
	if err := c.EngineConfig().Validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if c.Pacing.StepTicks < 0 || c.Pacing.MessageTicks < 0 {
		return fmt.Errorf("config: pacing ticks must not be negative")
	}
	if c.Classic.MoveLimit < 0 {
		return fmt.Errorf("config: move limit %d is negative", c.Classic.MoveLimit)
	}
	return nil
}
