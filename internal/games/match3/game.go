// Package match3 is the playable match-3 game: cursor, selection, paced
// cascade playback and rendering around the board resolution engine.
package match3

import (
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"lukechampine.com/frand"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/games/match3/engine"
	"github.com/vovakirdan/tui-match3/internal/registry"
)

// Mode represents the game mode.
type Mode string

const (
	ModeClassic Mode = "classic"
	ModeEndless Mode = "endless"
)

// Registered game IDs.
const (
	IDClassic = "match3"
	IDEndless = "match3_endless"
)

// Process-wide settings chosen on the command line. Games read them on Reset.
var (
	settingsMu       sync.RWMutex
	configPath       string
	difficultyPreset config.DifficultyPreset
	logger           = log.Default()
)

// SetConfigPath sets a custom config file path.
func SetConfigPath(path string) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names fall back to
// the config file's kinds.
func SetDifficultyPreset(preset string) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	p, err := config.ParsePreset(preset)
	if err != nil || preset == "" {
		difficultyPreset = ""
		return
	}
	difficultyPreset = p
}

// SetLogger sets the logger handed to each engine.
func SetLogger(l *log.Logger) {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	if l != nil {
		logger = l
	}
}

// loadSettings reads the config file and applies the difficulty. A non-empty
// override wins over the process-wide preset.
func loadSettings(override config.DifficultyPreset) (config.Match3Config, *log.Logger) {
	settingsMu.RLock()
	path, preset, l := configPath, difficultyPreset, logger
	settingsMu.RUnlock()
	if override != "" {
		preset = override
	}

	cfg, err := config.LoadMatch3(path)
	if err != nil {
		l.Warn("using default match-3 config", "err", err)
		cfg = config.DefaultMatch3Config()
	}
	if preset != "" {
		config.ApplyMatch3Preset(&cfg, preset)
	}
	return cfg, l
}

// Game implements registry.Game for both match-3 modes.
type Game struct {
	mode   Mode
	preset config.DifficultyPreset // Per-instance difficulty, empty for the global one
	cfg    config.Match3Config
	eng    *engine.Engine
	logger *log.Logger
	seed   uint64
	tick   uint64

	screenW int
	screenH int

	cursor   engine.Coord
	selected engine.Coord
	hasSel   bool
	hint     engine.Swap
	hintTTL  int

	message    string
	messageTTL int

	playback *playback

	lastGain    int // Points from the last move
	bestCascade int
	reshuffles  int

	gameOver   bool
	overReason string
	paused     bool
	tooSmall   bool
}

// New creates a classic (move-limited) game.
func New() *Game {
	return &Game{mode: ModeClassic}
}

// NewEndless creates an endless game.
func NewEndless() *Game {
	return &Game{mode: ModeEndless}
}

func init() {
	registry.Register(IDClassic, func() registry.Game {
		return New()
	})
	registry.Register(IDEndless, func() registry.Game {
		return NewEndless()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return IDEndless
	}
	return IDClassic
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "Match-3 (Endless)"
	}
	return "Match-3"
}

// Description returns a one-line summary for menus.
func (g *Game) Description() string {
	if g.mode == ModeEndless {
		return "No move limit; dead boards are reshuffled"
	}
	return "Score as much as you can before the moves run out"
}

// SetDifficulty picks the difficulty for this instance only, taking effect on
// the next Reset.
func (g *Game) SetDifficulty(p config.DifficultyPreset) {
	g.preset = p
}

// Reset loads the configuration and starts a new board.
func (g *Game) Reset(rt core.RuntimeConfig) {
	cfg, l := loadSettings(g.preset)
	g.start(rt, cfg, l)
}

// start begins a run with an explicit configuration.
func (g *Game) start(rt core.RuntimeConfig, cfg config.Match3Config, l *log.Logger) {
	g.cfg = cfg
	g.logger = l
	g.seed = rt.Seed
	if g.seed == 0 {
		g.seed = frand.Uint64n(1<<63) + 1
	}
	g.screenW = rt.ScreenW
	g.screenH = rt.ScreenH
	g.tick = 0

	g.cursor = engine.C(0, 0)
	g.hasSel = false
	g.hintTTL = 0
	g.message = ""
	g.messageTTL = 0
	g.playback = nil
	g.lastGain = 0
	g.bestCascade = 0
	g.reshuffles = 0
	g.gameOver = false
	g.overReason = ""
	g.paused = false

	eng, err := engine.New(cfg.EngineConfig(),
		engine.WithSeed(g.seed),
		engine.WithLogger(l),
		engine.WithSink(g),
	)
	if err != nil {
		// Validated configs never get here; fall back to the defaults.
		l.Error("invalid engine config", "err", err)
		g.cfg = config.DefaultMatch3Config()
		eng, err = engine.New(g.cfg.EngineConfig(), engine.WithSeed(g.seed), engine.WithLogger(l), engine.WithSink(g))
		if err != nil {
			panic(fmt.Sprintf("match3: default config rejected: %v", err))
		}
	}
	g.eng = eng

	if report := g.eng.Start(); report.Exhausted {
		g.flash(fmt.Sprintf("Board generation gave up after %d tries", report.Attempts))
	}
	g.checkScreenSize()
}

// Seed returns the tile seed of the current run.
func (g *Game) Seed() uint64 {
	return g.seed
}

// Engine exposes the underlying engine, mainly for tests and tooling.
func (g *Game) Engine() *engine.Engine {
	return g.eng
}

// Resize follows a terminal resize without restarting the run.
func (g *Game) Resize(w, h int) {
	g.screenW, g.screenH = w, h
	g.checkScreenSize()
}

func (g *Game) checkScreenSize() {
	w, h := layoutSize(g.cfg.Board.Width, g.cfg.Board.Height)
	g.tooSmall = g.screenW < w || g.screenH < h
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && !g.gameOver {
		g.paused = !g.paused
	}
	if g.paused {
		return core.StepResult{State: g.State()}
	}

	g.ageTimers()

	if g.playback != nil {
		if g.playback.advance(g.stepTicks()) {
			g.playback = nil
			g.afterPlayback()
		}
		return core.StepResult{State: g.State()}
	}

	if g.gameOver {
		return core.StepResult{State: g.State()}
	}

	g.handleInput(in)
	return core.StepResult{State: g.State()}
}

func (g *Game) ageTimers() {
	if g.messageTTL > 0 {
		g.messageTTL--
		if g.messageTTL == 0 {
			g.message = ""
		}
	}
	if g.hintTTL > 0 {
		g.hintTTL--
	}
}

func (g *Game) stepTicks() int {
	return max(g.cfg.Pacing.StepTicks, 1)
}

func (g *Game) handleInput(in core.InputFrame) {
	w, h := g.cfg.Board.Width, g.cfg.Board.Height

	switch {
	case in.Has(core.ActionUp):
		g.cursor.Y = core.Clamp(g.cursor.Y-1, 0, h-1)
	case in.Has(core.ActionDown):
		g.cursor.Y = core.Clamp(g.cursor.Y+1, 0, h-1)
	case in.Has(core.ActionLeft):
		g.cursor.X = core.Clamp(g.cursor.X-1, 0, w-1)
	case in.Has(core.ActionRight):
		g.cursor.X = core.Clamp(g.cursor.X+1, 0, w-1)
	}

	switch {
	case in.Has(core.ActionConfirm):
		g.confirm()
	case in.Has(core.ActionBack):
		g.hasSel = false
	case in.Has(core.ActionHint):
		g.showHint()
	}
}

// confirm selects the cursor cell, or swaps it with the selected cell when
// the two are adjacent.
func (g *Game) confirm() {
	switch {
	case !g.hasSel:
		g.selected = g.cursor
		g.hasSel = true
	case g.selected == g.cursor:
		g.hasSel = false
	case g.selected.Adjacent(g.cursor):
		g.trySwap(g.selected, g.cursor)
	default:
		g.selected = g.cursor
	}
}

func (g *Game) trySwap(a, b engine.Coord) {
	g.hasSel = false
	_, err := g.eng.Move(a, b)
	switch {
	case err == nil:
		g.hintTTL = 0
	case errors.Is(err, engine.ErrIllegalSwap):
		g.flash("No match there")
	case errors.Is(err, engine.ErrMoveInProgress):
		g.flash("Still resolving")
	default:
		g.flash(err.Error())
	}
}

func (g *Game) showHint() {
	s, ok := g.eng.Hint()
	if !ok {
		g.flash("No moves left")
		return
	}
	g.hint = s
	g.hintTTL = g.cfg.Pacing.MessageTicks
	g.cursor = s.A
}

func (g *Game) flash(msg string) {
	g.message = msg
	g.messageTTL = max(g.cfg.Pacing.MessageTicks, 1)
}

// afterPlayback applies the end-of-move rules once the cascade has been
// shown.
func (g *Game) afterPlayback() {
	if g.mode == ModeClassic && g.cfg.Classic.MoveLimit > 0 && g.eng.Moves() >= g.cfg.Classic.MoveLimit {
		g.endRun("Out of moves")
		return
	}
	if !g.eng.Dead() {
		return
	}
	if g.mode == ModeEndless {
		g.eng.Shuffle()
		g.reshuffles++
		g.flash("No moves left - shuffled")
		return
	}
	g.endRun("No moves left")
}

func (g *Game) endRun(reason string) {
	g.gameOver = true
	g.overReason = reason
	g.hasSel = false
	g.logger.Debug("run over", "mode", g.mode, "reason", reason,
		"score", g.eng.Score(), "moves", g.eng.Moves(), "seed", g.seed)
}

// OnStep queues a resolved wave for playback.
func (g *Game) OnStep(s engine.Step) {
	if g.playback == nil {
		g.playback = &playback{}
	}
	g.playback.add(s)
}

// OnSettled records the outcome of a move.
func (g *Game) OnSettled(r engine.MoveResult) {
	g.lastGain = r.Score
	g.bestCascade = max(g.bestCascade, len(r.Steps()))
	if g.playback == nil {
		g.playback = &playback{}
	}
	g.playback.settle(r)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	st := core.GameState{
		GameOver:    g.gameOver,
		Paused:      g.paused || g.tooSmall,
		BestCascade: g.bestCascade,
	}
	if g.eng != nil {
		st.Score = g.eng.Score()
		st.Moves = g.eng.Moves()
	}
	return st
}

// FinalBoard returns the current board as text rows.
func (g *Game) FinalBoard() string {
	if g.eng == nil {
		return ""
	}
	return g.eng.Board().String()
}
