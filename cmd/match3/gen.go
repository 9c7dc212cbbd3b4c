package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/games/match3/engine"
)

// exitExhausted is the exit status when generation gave up.
const exitExhausted = 2

var (
	flagGenWidth    int
	flagGenHeight   int
	flagGenKinds    int
	flagGenAttempts int
	flagGenMove     string
)

var genCmd = &cobra.Command{
	Use:   "gen",
	Short: "Generate a board and list its legal swaps",
	Long: `Generate a starting board with the engine and print it with its
legal swaps. Unset flags come from the config file and difficulty.

With --move the swap is resolved and every cascade wave is printed.

Exits with status 2 and a warning when no attempt produced a board without
matches and with a legal swap.

Examples:
  match3 gen --seed 42
  match3 gen --width 9 --height 9 --kinds 5 --seed 7
  match3 gen --seed 42 --move 3,2:3,3`,
	Args: cobra.NoArgs,
	Run:  runGen,
}

func init() {
	genCmd.Flags().IntVar(&flagGenWidth, "width", 0, "Board width")
	genCmd.Flags().IntVar(&flagGenHeight, "height", 0, "Board height")
	genCmd.Flags().IntVar(&flagGenKinds, "kinds", 0, "Number of tile kinds")
	genCmd.Flags().IntVar(&flagGenAttempts, "attempts", 0, "Maximum generation attempts")
	genCmd.Flags().StringVar(&flagGenMove, "move", "", "Swap to resolve, as x1,y1:x2,y2")
}

func runGen(cmd *cobra.Command, _ []string) {
	ec, err := genConfig(cmd.Flags(), flagConfig, flagDifficulty)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	opts := []engine.Option{engine.WithLogger(logger)}
	if flagSeed != 0 {
		opts = append(opts, engine.WithSeed(flagSeed))
	}
	eng, err := engine.New(ec, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	report := eng.Start()
	fmt.Printf("Board %dx%d, %d kinds, %d attempt(s)\n", ec.Width, ec.Height, ec.Kinds, report.Attempts)
	fmt.Println()
	fmt.Println(eng.Board())
	fmt.Println()
	printSwaps(eng.LegalSwaps())

	if flagGenMove != "" {
		a, b, err := parseSwap(flagGenMove)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		result, err := eng.Move(a, b)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		printMove(result)
	}

	if report.Exhausted {
		fmt.Fprintf(os.Stderr, "Warning: generation exhausted after %d attempts: %s\n", report.Attempts, report.Reason)
		os.Exit(exitExhausted)
	}
}

// genConfig resolves the engine rules from the config file, the difficulty
// preset and any board flags the user set.
func genConfig(flags *pflag.FlagSet, path, difficulty string) (engine.Config, error) {
	cfg, err := config.LoadMatch3(path)
	if err != nil {
		return engine.Config{}, fmt.Errorf("loading config: %w", err)
	}
	if difficulty != "" {
		preset, err := config.ParsePreset(difficulty)
		if err != nil {
			return engine.Config{}, err
		}
		config.ApplyMatch3Preset(&cfg, preset)
	}

	ec := cfg.EngineConfig()
	if flags.Changed("width") {
		ec.Width = flagGenWidth
	}
	if flags.Changed("height") {
		ec.Height = flagGenHeight
	}
	if flags.Changed("kinds") {
		ec.Kinds = flagGenKinds
	}
	if flags.Changed("attempts") {
		ec.MaxAttempts = flagGenAttempts
	}
	return ec, nil
}

func printSwaps(swaps []engine.Swap) {
	if len(swaps) == 0 {
		fmt.Println("No legal swaps.")
		return
	}
	fmt.Printf("Legal swaps (%d):\n", len(swaps))
	for _, s := range swaps {
		fmt.Printf("  %s\n", s)
	}
}

func printMove(r engine.MoveResult) {
	fmt.Println()
	fmt.Printf("Move %s\n", r.Swap)
	for _, s := range r.Steps() {
		fmt.Println()
		fmt.Printf("Wave %d: %d match(es), %d tile(s), +%d\n", s.Wave, len(s.Matches), len(s.Removed), s.Score)
		fmt.Println(s.Board)
	}
	if r.Resolution.Truncated {
		fmt.Println()
		fmt.Println("Cascade stopped at the wave limit.")
	}
	fmt.Println()
	fmt.Printf("Score +%d (total %d)\n", r.Score, r.Total)
	printSwaps(r.LegalSwaps)
}

// parseSwap reads "x1,y1:x2,y2".
func parseSwap(s string) (engine.Coord, engine.Coord, error) {
	ends := strings.Split(s, ":")
	if len(ends) != 2 {
		return engine.Coord{}, engine.Coord{}, fmt.Errorf("move %q: want x1,y1:x2,y2", s)
	}
	a, err := parseCoord(ends[0])
	if err != nil {
		return engine.Coord{}, engine.Coord{}, fmt.Errorf("move %q: %w", s, err)
	}
	b, err := parseCoord(ends[1])
	if err != nil {
		return engine.Coord{}, engine.Coord{}, fmt.Errorf("move %q: %w", s, err)
	}
	return a, b, nil
}

func parseCoord(s string) (engine.Coord, error) {
	x, y, ok := strings.Cut(strings.TrimSpace(s), ",")
	if !ok {
		return engine.Coord{}, fmt.Errorf("coordinate %q: want x,y", s)
	}
	xi, err := strconv.Atoi(strings.TrimSpace(x))
	if err != nil {
		return engine.Coord{}, fmt.Errorf("coordinate %q: %w", s, err)
	}
	yi, err := strconv.Atoi(strings.TrimSpace(y))
	if err != nil {
		return engine.Coord{}, fmt.Errorf("coordinate %q: %w", s, err)
	}
	return engine.C(xi, yi), nil
}
