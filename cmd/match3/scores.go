package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-match3/internal/games/match3"
	"github.com/vovakirdan/tui-match3/internal/registry"
	"github.com/vovakirdan/tui-match3/internal/storage"
)

const scoresLimit = 10

var (
	flagShowBoard bool
	flagRecent    bool
	flagClear     bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [mode]",
	Short: "Show high scores for a mode",
	Long: `Display the top 10 runs for the given mode (default: match3),
with moves, longest cascade and the seed that replays the run.

Examples:
  match3 scores
  match3 scores match3_endless
  match3 scores --recent
  match3 scores --board
  match3 scores match3_endless --clear`,
	Args: cobra.MaximumNArgs(1),
	Run:  runScores,
}

func init() {
	scoresCmd.Flags().BoolVar(&flagShowBoard, "board", false, "Print the final board of the best run")
	scoresCmd.Flags().BoolVar(&flagRecent, "recent", false, "List the latest runs instead of the best")
	scoresCmd.Flags().BoolVar(&flagClear, "clear", false, "Delete every score and run for the mode")
}

func runScores(_ *cobra.Command, args []string) {
	gameID := match3.IDClassic
	if len(args) == 1 {
		gameID = args[0]
	}

	if !registry.Exists(gameID) {
		fmt.Fprintf(os.Stderr, "Error: unknown mode %q\n", gameID)
		fmt.Fprintln(os.Stderr, "Run 'match3 list' to see available modes.")
		os.Exit(1)
	}

	game, err := registry.Create(gameID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating game: %v\n", err)
		os.Exit(1)
	}

	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening scores database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClear {
		if err := store.ClearScores(gameID); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing scores: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Cleared all scores for %s.\n", game.Title())
		return
	}

	runs, err := loadRuns(store, gameID, flagRecent)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving scores: %v\n", err)
		os.Exit(1)
	}

	heading := "High Scores"
	if flagRecent {
		heading = "Recent Runs"
	}
	fmt.Printf("%s - %s\n", heading, game.Title())
	fmt.Println()

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		fmt.Println()
		fmt.Printf("Play 'match3 play %s' to set the first high score!\n", gameID)
		return
	}

	printRuns(os.Stdout, runs)

	fmt.Println()
	if high, err := store.HighScore(gameID); err == nil {
		fmt.Printf("Best: %d\n", high)
	}

	if !flagShowBoard {
		return
	}
	best, err := store.BestRun(gameID)
	if err == nil && best != nil && best.FinalBoard != "" {
		fmt.Println()
		fmt.Println("Final board of the best run:")
		fmt.Println(best.FinalBoard)
	}
}

// loadRuns returns the best runs, or the latest ones when recent is set.
func loadRuns(store *storage.Store, gameID string, recent bool) ([]storage.Run, error) {
	if recent {
		return store.RecentRuns(gameID, scoresLimit)
	}
	return store.TopRuns(gameID, scoresLimit)
}

func printRuns(w io.Writer, runs []storage.Run) {
	fmt.Fprintf(w, "  %-4s  %-8s  %-5s  %-5s  %-20s  %s\n", "Rank", "Score", "Moves", "Chain", "Seed", "Date")
	fmt.Fprintf(w, "  %-4s  %-8s  %-5s  %-5s  %-20s  %s\n", "----", "-----", "-----", "-----", "----", "----")
	for i, r := range runs {
		fmt.Fprintf(w, "  %-4d  %-8d  %-5d  %-5d  %-20d  %s\n",
			i+1, r.Score, r.Moves, r.LongestCascade, r.Seed, r.CreatedAt.Format("2006-01-02 15:04"))
	}
}
