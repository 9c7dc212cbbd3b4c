package engine

import (
	"errors"
	"slices"
	"sync"
	"testing"
)

func chainEngine(t *testing.T, opts ...Option) *Engine {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 5, 4
	cfg.Kinds = MaxKinds
	opts = append([]Option{WithSource(lastPick{}), WithLogger(quietLogger())}, opts...)
	e, err := New(cfg, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	e.Load(MustParseBoard(chainRows...))
	return e
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"default", func(*Config) {}, false},
		{"too narrow", func(c *Config) { c.Width = 2 }, true},
		{"too short", func(c *Config) { c.Height = 2 }, true},
		{"too few kinds", func(c *Config) { c.Kinds = 2 }, true},
		{"too many kinds", func(c *Config) { c.Kinds = MaxKinds + 1 }, true},
		{"negative points", func(c *Config) { c.PointsPerTile = -1 }, true},
		{"zero points", func(c *Config) { c.PointsPerTile = 0 }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if _, err := New(cfg); (err != nil) != tt.wantErr {
				t.Errorf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestEngineStart(t *testing.T) {
	e, err := New(DefaultConfig(), WithSeed(99), WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := e.Move(C(0, 0), C(1, 0)); !errors.Is(err, ErrNotStarted) {
		t.Errorf("expected ErrNotStarted, got %v", err)
	}
	if e.Dead() || e.LegalSwaps() != nil {
		t.Error("engine without a board should report nothing")
	}

	report := e.Start()
	if report.Exhausted {
		t.Errorf("generation exhausted: %+v", report)
	}
	b := e.Board()
	if b.Width() != 8 || b.Height() != 8 {
		t.Errorf("expected 8x8 board, got %dx%d", b.Width(), b.Height())
	}
	if len(e.Matches()) != 0 {
		t.Error("fresh board contains a match")
	}
	if e.Dead() {
		t.Error("fresh board is dead")
	}
	if _, ok := e.Hint(); !ok {
		t.Error("expected a hint on a fresh board")
	}
}

func TestEngineMoveChain(t *testing.T) {
	e := chainEngine(t)

	result, err := e.Move(C(3, 3), C(3, 2))
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if result.Score != 1100 || result.Total != 1100 {
		t.Errorf("score = %d total = %d, want 1100", result.Score, result.Total)
	}
	if len(result.Steps()) != 2 {
		t.Errorf("expected 2 waves, got %d", len(result.Steps()))
	}
	if e.Score() != 1100 || e.Moves() != 1 {
		t.Errorf("engine score %d moves %d", e.Score(), e.Moves())
	}
	if !e.Board().Equal(result.Resolution.Final) {
		t.Error("engine board is not the final board")
	}

	want := AllLegalSwaps(e.Board())
	if !slices.Equal(result.LegalSwaps, want) || !slices.Equal(e.LegalSwaps(), want) {
		t.Errorf("legal swaps after move = %v, want %v", result.LegalSwaps, want)
	}
	if result.Dead != (len(want) == 0) {
		t.Errorf("Dead = %v with %d legal swaps", result.Dead, len(want))
	}

	_, vs := e.CacheStats()
	if vs.IncrementalRecomputes != 1 {
		t.Errorf("expected one incremental recompute, got %+v", vs)
	}
}

func TestEngineRejectsMoves(t *testing.T) {
	tests := []struct {
		name string
		a, b Coord
		want error
	}{
		{"not adjacent", C(0, 0), C(2, 0), ErrNotAdjacent},
		{"diagonal", C(2, 2), C(3, 3), ErrNotAdjacent},
		{"same cell", C(1, 1), C(1, 1), ErrNotAdjacent},
		{"out of bounds", C(4, 3), C(5, 3), ErrNotAdjacent},
		{"no match", C(0, 0), C(1, 0), ErrIllegalSwap},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := chainEngine(t)
			before := e.Board()

			_, err := e.Move(tt.a, tt.b)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
			if !e.Board().Equal(before) {
				t.Error("rejected move changed the board")
			}
			if e.Score() != 0 || e.Moves() != 0 {
				t.Errorf("rejected move changed score %d or moves %d", e.Score(), e.Moves())
			}
		})
	}
}

type recordingSink struct {
	engine  *Engine
	steps   []Step
	settled []MoveResult
	nested  error
}

func (s *recordingSink) OnStep(step Step) {
	s.steps = append(s.steps, step)
	if s.engine != nil && s.nested == nil {
		_, s.nested = s.engine.Move(C(2, 2), C(2, 3))
	}
}

func (s *recordingSink) OnSettled(r MoveResult) {
	s.settled = append(s.settled, r)
}

func TestEngineSinkOrderAndReentry(t *testing.T) {
	sink := &recordingSink{}
	e := chainEngine(t, WithSink(sink))
	sink.engine = e

	if _, err := e.Move(C(3, 2), C(3, 3)); err != nil {
		t.Fatalf("Move: %v", err)
	}

	if len(sink.steps) != 2 || sink.steps[0].Wave != 1 || sink.steps[1].Wave != 2 {
		t.Errorf("sink saw waves %v", sink.steps)
	}
	if len(sink.settled) != 1 || sink.settled[0].Total != 1100 {
		t.Errorf("sink settled %v", sink.settled)
	}
	if !errors.Is(sink.nested, ErrMoveInProgress) {
		t.Errorf("nested move: expected ErrMoveInProgress, got %v", sink.nested)
	}
	if e.Moves() != 1 {
		t.Errorf("expected exactly one accepted move, got %d", e.Moves())
	}
}

func TestEngineSinkFunc(t *testing.T) {
	var waves []int
	e := chainEngine(t, WithSink(SinkFunc(func(s Step) { waves = append(waves, s.Wave) })))
	if _, err := e.Move(C(3, 2), C(3, 3)); err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(waves, []int{1, 2}) {
		t.Errorf("waves = %v", waves)
	}
}

func TestEngineConcurrentMoves(t *testing.T) {
	e := chainEngine(t)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		accepted int
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.Move(C(3, 2), C(3, 3))
			if err == nil {
				mu.Lock()
				accepted++
				mu.Unlock()
				return
			}
			if !errors.Is(err, ErrMoveInProgress) && !errors.Is(err, ErrIllegalSwap) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if accepted < 1 || accepted != e.Moves() {
		t.Errorf("accepted %d moves, engine counted %d", accepted, e.Moves())
	}
}

func TestEngineDeadBoard(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 4, 4
	cfg.Kinds = 4
	e, err := New(cfg, WithSeed(5), WithLogger(quietLogger()))
	if err != nil {
		t.Fatal(err)
	}
	e.Load(MustParseBoard(deadRows...))

	if !e.Dead() {
		t.Error("expected dead board")
	}
	if _, ok := e.Hint(); ok {
		t.Error("dead board should have no hint")
	}
	if _, err := e.Move(C(0, 0), C(1, 0)); !errors.Is(err, ErrIllegalSwap) {
		t.Errorf("expected ErrIllegalSwap, got %v", err)
	}

	e.Shuffle()
	if e.Dead() || len(e.Matches()) != 0 {
		t.Errorf("shuffled board is not playable:\n%s", e.Board())
	}
}

func TestMatchesReportsLoadedRun(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 3, 3
	e, err := New(cfg, WithSeed(1), WithLogger(quietLogger()))
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}

	e.Load(MustParseBoard("RRR", "GBY", "BYG"))
	ms := e.Matches()
	if len(ms) != 1 || ms[0].Len() != 3 {
		t.Errorf("expected one run of 3 on the loaded board, got %v", ms)
	}
}
