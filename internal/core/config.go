package core

// RuntimeConfig is passed to a game on Reset.
type RuntimeConfig struct {
	ScreenW  int    // Screen width in characters
	ScreenH  int    // Screen height in characters
	TickRate int    // Simulation ticks per second
	Seed     uint64 // Tile seed; 0 picks a random one
}

// DefaultConfig returns a RuntimeConfig with sensible defaults.
func DefaultConfig() RuntimeConfig {
	return RuntimeConfig{
		ScreenW:  80,
		ScreenH:  24,
		TickRate: 30,
	}
}

// GameState is the status a game reports to the platform.
type GameState struct {
	Score       int
	Moves       int
	BestCascade int // Most waves resolved by a single move
	GameOver    bool
	Paused      bool
}

// StepResult is returned by Game.Step after each tick.
type StepResult struct {
	State GameState
}
