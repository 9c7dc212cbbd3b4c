package engine

import (
	"iter"

	"github.com/charmbracelet/log"
	"github.com/samber/lo"
)

// DefaultMaxWaves bounds a single cascade.
const DefaultMaxWaves = 100

// Phase is a state of the cascade state machine. It names the last
// transition performed.
type Phase uint8

const (
	PhaseSwapPending Phase = iota
	PhaseSwapped
	PhaseMatchesFound
	PhaseNoMatches
	PhaseScoring
	PhaseRemoving
	PhaseGravity
	PhaseRefilling
	PhaseResolved
)

var phaseNames = [...]string{
	"SwapPending", "Swapped", "MatchesFound", "NoMatches", "Scoring",
	"Removing", "GravityApplying", "Refilling", "Resolved",
}

// String returns the phase name.
func (p Phase) String() string {
	if int(p) >= len(phaseNames) {
		return "Unknown"
	}
	return phaseNames[p]
}

// Fall records one tile moving down its column during gravity.
type Fall struct {
	Column  int
	FromRow int
	ToRow   int
	Type    TileType
}

// Refill records one new tile placed into an emptied cell.
type Refill struct {
	Column int
	Row    int
	Type   TileType
}

// Step is the report of one cascade wave.
type Step struct {
	Wave    int     // 1 for the wave caused by the swap, 2 for the next, ...
	Matches []Match // Matches detected at the start of the wave
	Removed []Coord // Union of match cells, row-major
	Falls   []Fall
	Refills []Refill
	Score   int // sum(match length) * points per tile * Wave

	Cleared Board // After removal
	Fallen  Board // After gravity
	Board   Board // After refill
}

// Resolution is the outcome of resolving one swap.
type Resolution struct {
	Start     Board
	Swapped   Board
	Final     Board
	Steps     []Step
	Score     int
	Changed   []Coord // Cells whose content differs between Start and Final
	Truncated bool    // The wave limit stopped the cascade
}

// Resolver drives match -> remove -> gravity -> refill waves until the board
// settles.
type Resolver struct {
	Source        Source
	Kinds         int
	PointsPerTile int
	MaxWaves      int
	Detector      *Detector // Optional detection cache
	Logger        *log.Logger
}

// Cascade is one in-flight resolution. Each call to Advance performs a
// single state transition.
type Cascade struct {
	r         *Resolver
	swap      Swap
	phase     Phase
	start     Board
	swapped   Board
	board     Board
	wave      int
	matches   []Match
	step      Step
	steps     []Step
	score     int
	truncated bool
}

// Begin starts a cascade for s on b. No work is done until Advance.
func (r *Resolver) Begin(b Board, s Swap) *Cascade {
	return &Cascade{r: r, swap: s, phase: PhaseSwapPending, start: b, board: b}
}

// Phase returns the last transition performed.
func (c *Cascade) Phase() Phase {
	return c.phase
}

// Board returns the current board.
func (c *Cascade) Board() Board {
	return c.board
}

// Wave returns the index of the current or last wave, 0 before the first.
func (c *Cascade) Wave() int {
	return c.wave
}

// Steps returns the waves completed so far.
func (c *Cascade) Steps() []Step {
	return c.steps
}

// Done reports whether the cascade has resolved.
func (c *Cascade) Done() bool {
	return c.phase == PhaseResolved
}

// Advance performs one transition and returns the new phase.
func (c *Cascade) Advance() Phase {
	switch c.phase {
	case PhaseSwapPending:
		c.board = SimulateSwap(c.board, c.swap.A, c.swap.B)
		c.swapped = c.board
		c.phase = PhaseSwapped

	case PhaseSwapped, PhaseRefilling:
		c.detect()

	case PhaseMatchesFound:
		if c.wave >= c.r.maxWaves() {
			c.truncated = true
			c.r.logger().Warn("cascade wave limit reached", "waves", c.wave, "matches", len(c.matches))
			c.phase = PhaseResolved
			break
		}
		c.wave++
		total := lo.SumBy(c.matches, func(m Match) int { return m.Len() })
		c.step = Step{
			Wave:    c.wave,
			Matches: c.matches,
			Score:   total * c.r.PointsPerTile * c.wave,
		}
		c.score += c.step.Score
		c.phase = PhaseScoring

	case PhaseScoring:
		c.step.Removed = MatchedCoords(c.matches)
		c.board = RemoveMatches(c.board, c.matches)
		c.step.Cleared = c.board
		c.phase = PhaseRemoving

	case PhaseRemoving:
		c.board, c.step.Falls = ApplyGravity(c.board)
		c.step.Fallen = c.board
		c.phase = PhaseGravity

	case PhaseGravity:
		c.board, c.step.Refills = FillEmpty(c.board, c.r.Source, c.r.Kinds)
		c.step.Board = c.board
		c.steps = append(c.steps, c.step)
		c.step = Step{}
		c.phase = PhaseRefilling

	case PhaseNoMatches:
		c.phase = PhaseResolved
	}
	return c.phase
}

func (c *Cascade) detect() {
	c.matches = c.r.Detector.Find(c.board)
	if len(c.matches) > 0 {
		c.phase = PhaseMatchesFound
	} else {
		c.phase = PhaseNoMatches
	}
}

// Resolution summarizes the cascade. Valid once Done.
func (c *Cascade) Resolution() Resolution {
	return Resolution{
		Start:     c.start,
		Swapped:   c.swapped,
		Final:     c.board,
		Steps:     c.steps,
		Score:     c.score,
		Changed:   diffCoords(c.start, c.board),
		Truncated: c.truncated,
	}
}

// Resolve applies s to b and runs the cascade to completion.
func (r *Resolver) Resolve(b Board, s Swap) Resolution {
	c := r.Begin(b, s)
	for !c.Done() {
		c.Advance()
	}
	return c.Resolution()
}

// Waves streams the waves of the cascade for s on b as they complete.
func (r *Resolver) Waves(b Board, s Swap) iter.Seq[Step] {
	return func(yield func(Step) bool) {
		c := r.Begin(b, s)
		emitted := 0
		for !c.Done() {
			c.Advance()
			for ; emitted < len(c.steps); emitted++ {
				if !yield(c.steps[emitted]) {
					return
				}
			}
		}
	}
}

func (r *Resolver) maxWaves() int {
	if r.MaxWaves <= 0 {
		return DefaultMaxWaves
	}
	return r.MaxWaves
}

func (r *Resolver) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}

// RemoveMatches empties every cell of every match.
func RemoveMatches(b Board, ms []Match) Board {
	e := b.Edit()
	for _, m := range ms {
		for _, c := range m.Cells {
			e.Set(c.X, c.Y, Empty)
		}
	}
	return e.Board()
}

// ApplyGravity compacts every column downward, preserving the vertical order
// of its tiles. Empty cells end up at the top of each column.
func ApplyGravity(b Board) (Board, []Fall) {
	var falls []Fall
	e := b.Edit()
	for x := 0; x < b.w; x++ {
		write := b.h - 1
		for y := b.h - 1; y >= 0; y-- {
			t := e.At(x, y)
			if t == Empty {
				continue
			}
			if y != write {
				e.Set(x, write, t)
				e.Set(x, y, Empty)
				falls = append(falls, Fall{Column: x, FromRow: y, ToRow: write, Type: t})
			}
			write--
		}
	}
	return e.Board(), falls
}

// FillEmpty places a new tile in every empty cell, column by column from left
// to right and from the bottom of each gap upward. Each pick avoids
// completing a run with the two settled cells below or to the left, falling
// back to an unconstrained pick when every kind is excluded.
func FillEmpty(b Board, src Source, kinds int) (Board, []Refill) {
	var refills []Refill
	e := b.Edit()
	for x := 0; x < b.w; x++ {
		for y := b.h - 1; y >= 0; y-- {
			if e.At(x, y) != Empty {
				continue
			}
			t := pickTile(src, kinds, forbiddenAt(e, x, y, down, left))
			e.Set(x, y, t)
			refills = append(refills, Refill{Column: x, Row: y, Type: t})
		}
	}
	return e.Board(), refills
}

// diffCoords returns the row-major coordinates whose tiles differ.
func diffCoords(a, b Board) []Coord {
	if a.w != b.w || a.h != b.h {
		return nil
	}
	var changed []Coord
	for i := range a.tiles {
		if a.tiles[i] != b.tiles[i] {
			changed = append(changed, C(i%a.w, i/a.w))
		}
	}
	return changed
}
