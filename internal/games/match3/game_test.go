package match3

import (
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-match3/internal/config"
	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/games/match3/engine"
	"github.com/vovakirdan/tui-match3/internal/registry"
)

var (
	chainRows = []string{"BYPBY", "PBYPB", "YPRGP", "RRGRG"}
	deadRows  = []string{"RGBY", "BYRG", "RGBY", "BYRG"}
)

func testConfig(w, h, kinds int) config.Match3Config {
	cfg := config.DefaultMatch3Config()
	cfg.Board.Width, cfg.Board.Height, cfg.Board.Kinds = w, h, kinds
	cfg.Pacing.StepTicks = 1
	return cfg
}

func newTestGame(t *testing.T, mode Mode, cfg config.Match3Config, seed uint64) *Game {
	t.Helper()
	g := &Game{mode: mode}
	rt := core.DefaultConfig()
	rt.Seed = seed
	g.start(rt, cfg, log.New(io.Discard))
	return g
}

// chainGame loads a board where swapping (3,2) and (3,3) clears two waves.
func chainGame(t *testing.T, mode Mode) *Game {
	t.Helper()
	g := newTestGame(t, mode, testConfig(5, 4, 7), 42)
	g.eng.Load(engine.MustParseBoard(chainRows...))
	return g
}

func press(g *Game, actions ...core.Action) {
	for _, a := range actions {
		g.Step(core.FrameOf(a))
	}
}

// settle steps until cascade playback has finished.
func settle(t *testing.T, g *Game) {
	t.Helper()
	for i := 0; g.playback != nil; i++ {
		if i > 1000 {
			t.Fatal("playback never finished")
		}
		g.Step(core.NewInputFrame())
	}
}

func TestRegistered(t *testing.T) {
	for _, id := range []string{IDClassic, IDEndless} {
		if !registry.Exists(id) {
			t.Errorf("%s not registered", id)
		}
	}
	if New().ID() != IDClassic || NewEndless().ID() != IDEndless {
		t.Error("mode IDs mismatch")
	}
}

func TestStartIsDeterministic(t *testing.T) {
	cfg := testConfig(8, 8, 6)
	a := newTestGame(t, ModeClassic, cfg, 7)
	b := newTestGame(t, ModeClassic, cfg, 7)

	if !slices.Equal(a.Snapshot().Board, b.Snapshot().Board) {
		t.Errorf("same seed produced different boards:\n%v\n%v", a.Snapshot().Board, b.Snapshot().Board)
	}
	if a.Seed() != 7 {
		t.Errorf("Seed() = %d, want 7", a.Seed())
	}
	if a.eng.Dead() || len(a.eng.Matches()) != 0 {
		t.Error("starting board must be match-free with a legal swap")
	}
}

func TestInvalidConfigUsesDefaults(t *testing.T) {
	g := newTestGame(t, ModeClassic, testConfig(2, 2, 0), 7)
	if g.Engine() == nil {
		t.Fatal("expected an engine built from the default config")
	}

	def := config.DefaultMatch3Config()
	b := g.Engine().Board()
	if b.Width() != def.Board.Width || b.Height() != def.Board.Height {
		t.Errorf("board is %dx%d, want the default %dx%d",
			b.Width(), b.Height(), def.Board.Width, def.Board.Height)
	}
	if g.Engine().Config().Kinds != def.Board.Kinds {
		t.Errorf("kinds = %d, want %d", g.Engine().Config().Kinds, def.Board.Kinds)
	}
}

func TestRandomSeedIsNonZero(t *testing.T) {
	g := newTestGame(t, ModeClassic, testConfig(6, 6, 5), 0)
	if g.Seed() == 0 {
		t.Error("expected a random non-zero seed")
	}
}

func TestCursorClamps(t *testing.T) {
	g := chainGame(t, ModeClassic)

	press(g, core.ActionUp, core.ActionLeft)
	if g.cursor != engine.C(0, 0) {
		t.Errorf("cursor = %v, want (0,0)", g.cursor)
	}

	for range 10 {
		press(g, core.ActionRight, core.ActionDown)
	}
	if g.cursor != engine.C(4, 3) {
		t.Errorf("cursor = %v, want (4,3)", g.cursor)
	}
}

func TestSelection(t *testing.T) {
	g := chainGame(t, ModeClassic)

	press(g, core.ActionConfirm)
	if !g.hasSel || g.selected != engine.C(0, 0) {
		t.Fatalf("expected (0,0) selected, got %v %v", g.hasSel, g.selected)
	}

	press(g, core.ActionConfirm)
	if g.hasSel {
		t.Error("confirming the selected cell should deselect it")
	}

	press(g, core.ActionConfirm, core.ActionRight, core.ActionRight, core.ActionConfirm)
	if !g.hasSel || g.selected != engine.C(2, 0) {
		t.Errorf("non-adjacent confirm should move the selection, got %v", g.selected)
	}

	press(g, core.ActionBack)
	if g.hasSel {
		t.Error("back should clear the selection")
	}
	if g.eng.Moves() != 0 {
		t.Errorf("no move expected, got %d", g.eng.Moves())
	}
}

func TestIllegalSwapRejected(t *testing.T) {
	g := chainGame(t, ModeClassic)
	before := g.eng.Board()

	press(g, core.ActionConfirm, core.ActionRight, core.ActionConfirm)

	if g.eng.Moves() != 0 || !g.eng.Board().Equal(before) {
		t.Error("illegal swap changed the board")
	}
	if g.message == "" {
		t.Error("expected a message for the illegal swap")
	}
	if g.hasSel {
		t.Error("selection should be cleared after a swap attempt")
	}
}

func TestLegalSwapPlaysBack(t *testing.T) {
	g := chainGame(t, ModeEndless)

	press(g, core.ActionRight, core.ActionRight, core.ActionRight, core.ActionDown, core.ActionDown)
	press(g, core.ActionConfirm, core.ActionDown, core.ActionConfirm)

	if g.eng.Moves() != 1 {
		t.Fatalf("Moves = %d, want 1", g.eng.Moves())
	}
	if g.eng.Score() < 1100 {
		t.Errorf("Score = %d, want at least 1100", g.eng.Score())
	}
	if g.bestCascade < 2 {
		t.Errorf("bestCascade = %d, want at least 2", g.bestCascade)
	}
	if g.Snapshot().State != StateResolving {
		t.Fatalf("State = %s, want %s", g.Snapshot().State, StateResolving)
	}

	f, ok := g.playback.current()
	if !ok {
		t.Fatal("expected a playback frame")
	}
	want := engine.SimulateSwap(engine.MustParseBoard(chainRows...), engine.C(3, 2), engine.C(3, 3))
	if !f.board.Equal(want) {
		t.Errorf("first frame should show the swapped board, got\n%s", f.board)
	}
	if len(f.highlight) != 3 {
		t.Errorf("first wave highlights %d cells, want 3", len(f.highlight))
	}

	// Input is ignored while the cascade is shown.
	press(g, core.ActionLeft)
	if g.cursor != engine.C(3, 3) {
		t.Errorf("cursor moved during playback: %v", g.cursor)
	}

	settle(t, g)
	if g.lastGain != g.eng.Score() {
		t.Errorf("lastGain = %d, want %d", g.lastGain, g.eng.Score())
	}
	if st := g.Snapshot().State; st != StatePlaying {
		t.Errorf("State = %s after playback", st)
	}
}

func TestClassicMoveLimit(t *testing.T) {
	g := chainGame(t, ModeClassic)
	g.cfg.Classic.MoveLimit = 1

	g.cursor = engine.C(3, 2)
	press(g, core.ActionConfirm, core.ActionDown, core.ActionConfirm)
	if g.State().GameOver {
		t.Fatal("game over before playback finished")
	}

	settle(t, g)
	if !g.State().GameOver {
		t.Fatal("expected game over after the last move")
	}
	if g.overReason != "Out of moves" {
		t.Errorf("overReason = %q", g.overReason)
	}

	score := g.eng.Score()
	press(g, core.ActionHint, core.ActionConfirm)
	if g.eng.Score() != score || g.eng.Moves() != 1 {
		t.Error("input after game over changed the game")
	}
}

func TestDeadBoard(t *testing.T) {
	t.Run("classic ends", func(t *testing.T) {
		g := newTestGame(t, ModeClassic, testConfig(4, 4, 4), 5)
		g.eng.Load(engine.MustParseBoard(deadRows...))
		g.afterPlayback()
		if !g.gameOver || g.overReason != "No moves left" {
			t.Errorf("gameOver = %v reason %q", g.gameOver, g.overReason)
		}
	})

	t.Run("endless reshuffles", func(t *testing.T) {
		g := newTestGame(t, ModeEndless, testConfig(4, 4, 4), 5)
		g.eng.Load(engine.MustParseBoard(deadRows...))
		g.afterPlayback()
		if g.gameOver {
			t.Error("endless mode should not end on a dead board")
		}
		if g.reshuffles != 1 {
			t.Errorf("reshuffles = %d, want 1", g.reshuffles)
		}
		if g.eng.Board().Equal(engine.MustParseBoard(deadRows...)) {
			t.Error("board was not replaced")
		}
	})
}

func TestHint(t *testing.T) {
	g := chainGame(t, ModeClassic)
	press(g, core.ActionHint)

	if g.hintTTL == 0 {
		t.Fatal("hint not shown")
	}
	if !engine.IsLegal(g.eng.Board(), g.hint) {
		t.Errorf("hint %v is not legal", g.hint)
	}
	if g.cursor != g.hint.A {
		t.Errorf("cursor = %v, want hint start %v", g.cursor, g.hint.A)
	}
}

func TestPause(t *testing.T) {
	g := chainGame(t, ModeClassic)

	press(g, core.ActionPause, core.ActionRight)
	if !g.State().Paused || g.cursor != engine.C(0, 0) {
		t.Error("paused game should ignore input")
	}
	press(g, core.ActionPause, core.ActionRight)
	if g.State().Paused || g.cursor != engine.C(1, 0) {
		t.Error("unpaused game should accept input")
	}
}

func TestTooSmall(t *testing.T) {
	g := &Game{mode: ModeClassic}
	g.start(core.RuntimeConfig{ScreenW: 20, ScreenH: 10, Seed: 3}, testConfig(8, 8, 6), log.New(io.Discard))

	if g.Snapshot().State != StatePausedSmall {
		t.Errorf("State = %s, want %s", g.Snapshot().State, StatePausedSmall)
	}

	dst := core.NewScreen(20, 10)
	g.Render(dst)
	if !strings.Contains(dst.String(), "too small") {
		t.Errorf("expected too-small message, got:\n%s", dst.String())
	}
}

func TestRender(t *testing.T) {
	g := chainGame(t, ModeClassic)
	g.cursor = engine.C(1, 1)
	press(g, core.ActionConfirm)

	dst := core.NewScreen(80, 24)
	g.Render(dst)
	out := dst.String()

	for _, want := range []string{"Match-3", "Score: 0", "Moves: 0/30", "Best chain: 0"} {
		if !strings.Contains(out, want) {
			t.Errorf("render missing %q:\n%s", want, out)
		}
	}
	for i, row := range chainRows {
		if i == 1 {
			continue // Holds the selection brackets
		}
		spaced := strings.Join(strings.Split(row, ""), "  ")
		if !strings.Contains(out, spaced) {
			t.Errorf("render missing board row %q:\n%s", spaced, out)
		}
	}

	var cursorFound bool
	for y := 0; y < dst.Height(); y++ {
		for x := 0; x < dst.Width(); x++ {
			c := dst.GetCell(x, y)
			if c.Style.Reverse && c.Rune == 'B' {
				cursorFound = true
				if dst.Get(x-1, y) != '[' || dst.Get(x+1, y) != ']' {
					t.Errorf("selected cell not bracketed: %q", dst.Row(y))
				}
			}
		}
	}
	if !cursorFound {
		t.Error("cursor cell not drawn in reverse")
	}
}

func TestResizeKeepsRun(t *testing.T) {
	g := chainGame(t, ModeClassic)
	board := g.eng.Board()

	g.Resize(20, 10)
	if !g.State().Paused {
		t.Error("small window should pause the game")
	}
	g.Resize(100, 40)
	if g.State().Paused {
		t.Error("game still paused after growing the window")
	}
	if !g.eng.Board().Equal(board) {
		t.Error("resize restarted the run")
	}
}

func TestSetDifficulty(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	g := New()
	g.SetDifficulty(config.DifficultyEasy)
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 9})
	if g.cfg.Board.Kinds != config.KindsForPreset(config.DifficultyEasy) {
		t.Errorf("Kinds = %d, want the easy preset", g.cfg.Board.Kinds)
	}

	g.SetDifficulty(config.DifficultyHard)
	g.Reset(core.RuntimeConfig{ScreenW: 80, ScreenH: 24, Seed: 9})
	if g.cfg.Board.Kinds != config.KindsForPreset(config.DifficultyHard) {
		t.Errorf("Kinds = %d, want the hard preset", g.cfg.Board.Kinds)
	}
}
