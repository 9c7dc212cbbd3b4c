// match3 is a terminal match-3 game.
//
// Usage:
//
//	match3 list              - List game modes
//	match3 play [mode]       - Play a mode (default: match3)
//	match3 menu              - Pick a mode interactively
//	match3 serve             - Start SSH server for remote play
//	match3 scores [mode]     - Show high scores and best runs
//	match3 gen               - Generate a board and print its legal swaps
//
// Global flags:
//
//	--fps <rate>         - Set tick rate (default: 30)
//	--seed <value>       - Set tile seed for reproducible boards
//	--db <path>          - Set database path (default: ~/.arcade/scores.db)
//	--config <path>      - Custom match-3 config YAML
//	--difficulty <name>  - easy, normal or hard
//	--log-level <level>  - debug, info, warn or error
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/games/match3"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       uint64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLogLevel   string
	flagLogFile    string

	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "match3",
	Short: "Match-3 - swap tiles, clear lines, chain cascades",
	Long: `Match-3 is a tile-swapping puzzle game for the terminal.

Swap two neighbouring tiles to line up three or more of a kind. Cleared
tiles fall and new ones drop in; every follow-up wave scores more.

Available commands:
  list     - Show the game modes
  play     - Play a mode directly
  menu     - Interactive mode picker
  serve    - Start SSH server for remote play
  scores   - View high scores and best runs
  gen      - Generate a board and list its legal swaps

Examples:
  match3 play
  match3 play match3_endless --difficulty hard
  match3 menu
  match3 serve --ssh :2222
  match3 gen --width 9 --height 9 --kinds 6 --seed 42`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return setup()
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 30, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Uint64Var(&flagSeed, "seed", 0, "Tile seed (0 = random)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.arcade/scores.db", "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom match-3 config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Log file for interactive commands (default: ~/.arcade/match3.log)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(genCmd)
}

// setup validates the global flags and installs the logger.
func setup() error {
	level, err := log.ParseLevel(flagLogLevel)
	if err != nil {
		return fmt.Errorf("invalid --log-level %q: %w", flagLogLevel, err)
	}
	if flagDifficulty != "" {
		if _, err := config.ParsePreset(flagDifficulty); err != nil {
			return err
		}
	}

	logger = log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Level:           level,
	})
	log.SetDefault(logger)

	match3.SetConfigPath(flagConfig)
	match3.SetDifficultyPreset(flagDifficulty)
	match3.SetLogger(logger)
	return nil
}

// useLogFile sends logs to a file while a full-screen program owns the
// terminal. The returned closer restores nothing; the process exits after.
func useLogFile() io.Closer {
	path := flagLogFile
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			logger.SetOutput(io.Discard)
			return io.NopCloser(nil)
		}
		path = filepath.Join(home, ".arcade", "match3.log")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		logger.SetOutput(io.Discard)
		return io.NopCloser(nil)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger.SetOutput(io.Discard)
		return io.NopCloser(nil)
	}
	logger.SetOutput(f)
	return f
}
