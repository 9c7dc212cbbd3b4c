package engine

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// Move request failures. No state is changed when one is returned.
var (
	ErrNotStarted     = errors.New("engine: no board generated yet")
	ErrNotAdjacent    = errors.New("engine: cells are not adjacent")
	ErrIllegalSwap    = errors.New("engine: swap creates no match")
	ErrMoveInProgress = errors.New("engine: a move is already being resolved")
)

// Config holds the board rules.
type Config struct {
	Width         int
	Height        int
	Kinds         int // Number of tile types in play, 1..MaxKinds
	PointsPerTile int
	MaxAttempts   int // Generation retries before accepting a flawed board
	MaxWaves      int // Upper bound on cascade waves per move
	CacheSize     int // Boards remembered by the match detector, 0 disables
}

// DefaultConfig returns an 8x8 board with six tile types.
func DefaultConfig() Config {
	return Config{
		Width:         8,
		Height:        8,
		Kinds:         6,
		PointsPerTile: 100,
		MaxAttempts:   DefaultMaxAttempts,
		MaxWaves:      DefaultMaxWaves,
		CacheSize:     256,
	}
}

// Validate checks that the config describes a playable board.
func (c Config) Validate() error {
	if c.Width < MinRun || c.Height < MinRun {
		return fmt.Errorf("engine: board %dx%d is smaller than %dx%d", c.Width, c.Height, MinRun, MinRun)
	}
	if c.Kinds < MinRun || c.Kinds > MaxKinds {
		return fmt.Errorf("engine: kinds %d out of range [%d, %d]", c.Kinds, MinRun, MaxKinds)
	}
	if c.PointsPerTile < 0 {
		return fmt.Errorf("engine: points per tile %d is negative", c.PointsPerTile)
	}
	return nil
}

// Sink observes the engine's output in order. Calls happen on the goroutine
// that issued the move, after the core has computed the whole cascade.
type Sink interface {
	OnStep(Step)
	OnSettled(MoveResult)
}

// SinkFunc adapts a step callback to Sink. OnSettled is a no-op.
type SinkFunc func(Step)

// OnStep calls f(s).
func (f SinkFunc) OnStep(s Step) { f(s) }

// OnSettled does nothing.
func (SinkFunc) OnSettled(MoveResult) {}

// MoveResult is the outcome of an accepted move.
type MoveResult struct {
	Swap       Swap
	Resolution Resolution
	Score      int    // Points gained by this move
	Total      int    // Score after this move
	LegalSwaps []Swap // Legal swaps on the final board
	Dead       bool   // No legal swap remains
}

// Steps returns the cascade waves of the move.
func (r MoveResult) Steps() []Step {
	return r.Resolution.Steps
}

// Option configures an Engine.
type Option func(*Engine)

// WithSource sets the tile source.
func WithSource(src Source) Option {
	return func(e *Engine) { e.src = src }
}

// WithSeed uses a deterministic source for a non-zero seed.
func WithSeed(seed uint64) Option {
	return func(e *Engine) { e.src = NewSource(seed) }
}

// WithLogger sets the logger for operator warnings.
func WithLogger(l *log.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithSink registers an observer for cascade steps.
func WithSink(s Sink) Option {
	return func(e *Engine) { e.sink = s }
}

// Engine owns one authoritative board and serializes every change to it.
type Engine struct {
	cfg    Config
	src    Source
	logger *log.Logger
	sink   Sink

	detector  *Detector
	validator *Validator
	generator *Generator
	resolver  *Resolver

	busy atomic.Bool

	mu      sync.Mutex
	board   Board
	started bool
	score   int
	moves   int
}

// New creates an engine. Call Start to generate the first board.
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	if e.src == nil {
		e.src = NewSource(0)
	}
	if e.logger == nil {
		e.logger = log.Default()
	}

	e.detector = NewDetector(cfg.CacheSize)
	e.validator = NewValidator(e.detector)
	e.generator = NewGenerator(e.src, cfg.Kinds, e.logger)
	e.resolver = &Resolver{
		Source:        e.src,
		Kinds:         cfg.Kinds,
		PointsPerTile: cfg.PointsPerTile,
		MaxWaves:      cfg.MaxWaves,
		Detector:      e.detector,
		Logger:        e.logger,
	}
	return e, nil
}

// Config returns the engine's rules.
func (e *Engine) Config() Config {
	return e.cfg
}

// Start generates a fresh board and resets score and move count.
func (e *Engine) Start() GenReport {
	e.mu.Lock()
	defer e.mu.Unlock()

	report := e.regenerateLocked()
	e.score = 0
	e.moves = 0
	return report
}

// Shuffle replaces the board with a freshly generated one of the same size,
// keeping score and move count. The engine never does this on its own.
func (e *Engine) Shuffle() GenReport {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.regenerateLocked()
}

func (e *Engine) regenerateLocked() GenReport {
	b, report := e.generator.Generate(e.cfg.Width, e.cfg.Height, e.cfg.MaxAttempts)
	e.board = b
	e.started = true
	e.validator.Reset(b)
	return report
}

// Load replaces the board with b, for puzzles and tests.
func (e *Engine) Load(b Board) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.board = b
	e.started = true
	e.validator.Reset(b)
}

// Board returns the current board.
func (e *Engine) Board() Board {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.board
}

// Score returns the accumulated score.
func (e *Engine) Score() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.score
}

// Moves returns the number of accepted moves.
func (e *Engine) Moves() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.moves
}

// LegalSwaps returns the legal swaps on the current board.
func (e *Engine) LegalSwaps() []Swap {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started {
		return nil
	}
	return e.validator.LegalSwaps(e.board)
}

// Hint returns one legal swap, if any.
func (e *Engine) Hint() (Swap, bool) {
	legal := e.LegalSwaps()
	if len(legal) == 0 {
		return Swap{}, false
	}
	return legal[0], true
}

// Dead reports whether the current board has no legal swap.
func (e *Engine) Dead() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.started {
		return false
	}
	return e.validator.Dead(e.board)
}

// Matches returns the matches on the current board. It is empty between
// moves unless the last cascade was truncated or generation was exhausted.
func (e *Engine) Matches() []Match {
	return e.detector.Find(e.Board())
}

// CacheStats returns detector and validator counters.
func (e *Engine) CacheStats() (DetectorStats, ValidatorStats) {
	return e.detector.Stats(), e.validator.Stats()
}

// Move swaps a and b and resolves the resulting cascade. The swap must be
// adjacent and legal. Only one move is resolved at a time; a request that
// arrives while another is in flight is rejected with ErrMoveInProgress.
func (e *Engine) Move(a, b Coord) (MoveResult, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return MoveResult{}, ErrMoveInProgress
	}
	defer e.busy.Store(false)

	result, err := e.resolveMove(a, b)
	if err != nil {
		return MoveResult{}, err
	}

	if e.sink != nil {
		for _, s := range result.Resolution.Steps {
			e.sink.OnStep(s)
		}
		e.sink.OnSettled(result)
	}
	return result, nil
}

func (e *Engine) resolveMove(a, b Coord) (MoveResult, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.started {
		return MoveResult{}, ErrNotStarted
	}
	s := NewSwap(a, b)
	if !s.Adjacent() || !e.board.InBounds(s.A.X, s.A.Y) || !e.board.InBounds(s.B.X, s.B.Y) {
		return MoveResult{}, fmt.Errorf("%w: %v", ErrNotAdjacent, s)
	}
	if !e.validator.IsLegal(e.board, s) {
		return MoveResult{}, fmt.Errorf("%w: %v", ErrIllegalSwap, s)
	}

	res := e.resolver.Resolve(e.board, s)
	if res.Truncated {
		e.validator.Reset(res.Final)
	} else {
		e.validator.Update(res.Final, res.Changed)
	}
	e.board = res.Final
	e.score += res.Score
	e.moves++

	legal := e.validator.LegalSwaps(e.board)
	result := MoveResult{
		Swap:       s,
		Resolution: res,
		Score:      res.Score,
		Total:      e.score,
		LegalSwaps: legal,
		Dead:       len(legal) == 0,
	}

	ds, vs := e.detector.Stats(), e.validator.Stats()
	e.logger.Debug("move resolved",
		"swap", s, "waves", len(res.Steps), "score", res.Score,
		"legal", len(legal), "detector_hits", ds.Hits,
		"full_recomputes", vs.FullRecomputes, "incremental", vs.IncrementalRecomputes)
	if result.Dead {
		e.logger.Info("no legal swaps remain", "moves", e.moves, "score", e.score)
	}
	return result, nil
}
