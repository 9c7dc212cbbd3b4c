package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const match3File = "match3.yaml"

// LoadMatch3 loads the match-3 configuration.
// Search order: customPath -> ~/.arcade/configs/match3.yaml ->
// ./configs/match3.yaml -> embedded default.
// Files are decoded over the defaults, so a partial file only overrides the
// keys it names.
func LoadMatch3(customPath string) (Match3Config, error) {
	cfg := DefaultMatch3Config()

	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("config: failed to read %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: failed to parse %s: %w", customPath, err)
		}
		if err := cfg.Validate(); err != nil {
			return cfg, fmt.Errorf("%s: %w", customPath, err)
		}
		return cfg, nil
	}

	for _, path := range []string{userConfigPath(match3File), filepath.Join("configs", match3File)} {
		if path == "" {
			continue
		}
		if c, ok := tryLoad(path); ok {
			return c, nil
		}
	}

	// Use embedded default YAML
	embedded := DefaultMatch3Config()
	if err := yaml.Unmarshal(defaultMatch3YAML, &embedded); err != nil || embedded.Validate() != nil {
		return DefaultMatch3Config(), nil
	}
	return embedded, nil
}

// tryLoad reads an optional config file. Unreadable or invalid files are
// skipped.
func tryLoad(path string) (Match3Config, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Match3Config{}, false
	}
	cfg := DefaultMatch3Config()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Match3Config{}, false
	}
	if err := cfg.Validate(); err != nil {
		return Match3Config{}, false
	}
	return cfg, true
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".arcade", "configs", filename)
}

// ApplyMatch3Preset sets the number of tile kinds for a difficulty preset.
// The hard preset also tightens the classic move limit.
func ApplyMatch3Preset(cfg *Match3Config, preset DifficultyPreset) {
	cfg.Board.Kinds = KindsForPreset(preset)
	switch preset {
	case DifficultyEasy:
		cfg.Classic.MoveLimit = max(cfg.Classic.MoveLimit, 40)
	case DifficultyHard:
		cfg.Classic.MoveLimit = min(cfg.Classic.MoveLimit, 25)
	}
}
