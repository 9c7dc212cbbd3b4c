package match3

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StateResolving   GameStateType = "resolving"
	StateGameOver    GameStateType = "game_over"
	StatePaused      GameStateType = "paused"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the game state for determinism testing and replay.
type Snapshot struct {
	Tick        uint64
	Mode        string
	Seed        uint64
	Score       int
	Moves       int
	BestCascade int
	Reshuffles  int
	Board       []string
	Cursor      [2]int
	Selected    *[2]int
	State       GameStateType
}

// Snapshot returns the current game snapshot.
func (g *Game) Snapshot() Snapshot {
	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case g.paused:
		state = StatePaused
	case g.playback != nil:
		state = StateResolving
	case g.gameOver:
		state = StateGameOver
	}

	s := Snapshot{
		Tick:        g.tick,
		Mode:        string(g.mode),
		Seed:        g.seed,
		BestCascade: g.bestCascade,
		Reshuffles:  g.reshuffles,
		Cursor:      [2]int{g.cursor.X, g.cursor.Y},
		State:       state,
	}
	if g.hasSel {
		s.Selected = &[2]int{g.selected.X, g.selected.Y}
	}
	if g.eng != nil {
		s.Score = g.eng.Score()
		s.Moves = g.eng.Moves()
		s.Board = g.eng.Board().Rows()
	}
	return s
}
