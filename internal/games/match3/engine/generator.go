package engine

import (
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/charmbracelet/log"
)

// DefaultMaxAttempts is the generation retry limit used when none is given.
const DefaultMaxAttempts = 100

var (
	errPreexistingMatch = errors.New("board contains a match")
	errNoLegalSwap      = errors.New("board has no legal swap")
)

// GenReport describes how a board was produced.
type GenReport struct {
	Attempts  int    // Number of boards generated
	Exhausted bool   // True if no attempt satisfied both invariants
	Reason    string // Why the last attempt was rejected, when Exhausted
}

// Generator produces starting boards that contain no match and at least one
// legal swap.
type Generator struct {
	Source Source
	Kinds  int
	Logger *log.Logger
}

// NewGenerator creates a generator drawing tiles from src.
func NewGenerator(src Source, kinds int, logger *log.Logger) *Generator {
	if logger == nil {
		logger = log.Default()
	}
	return &Generator{Source: src, Kinds: kinds, Logger: logger}
}

// Generate fills a w x h board and regenerates until it has no match and at
// least one legal swap, up to maxAttempts times. When the limit is reached
// the last attempt is returned with Exhausted set and a warning is logged.
func (g *Generator) Generate(w, h, maxAttempts int) (Board, GenReport) {
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var (
		board  Board
		report GenReport
	)

	err := retry.Do(
		func() error {
			report.Attempts++
			board = g.fill(w, h)
			if HasMatch(board) {
				return errPreexistingMatch
			}
			if IsDead(board) {
				return errNoLegalSwap
			}
			return nil
		},
		retry.Attempts(uint(maxAttempts)),
		retry.DelayType(func(uint, error, *retry.Config) time.Duration { return 0 }),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			g.Logger.Debug("regenerating board", "attempt", n+1, "reason", err)
		}),
	)
	if err != nil {
		report.Exhausted = true
		report.Reason = err.Error()
		g.Logger.Warn("board generation exhausted, using last attempt",
			"width", w, "height", h, "kinds", g.Kinds,
			"attempts", report.Attempts, "reason", err)
	}

	return board, report
}

// fill builds one candidate board in row-major order.
func (g *Generator) fill(w, h int) Board {
	e := NewBoard(w, h).Edit()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			e.Set(x, y, pickTile(g.Source, g.Kinds, forbiddenAt(e, x, y, left, up)))
		}
	}
	return e.Board()
}

// Neighbor directions used by the local run constraint.
var (
	left = C(-1, 0)
	up   = C(0, -1)
	down = C(0, 1)
)

// forbiddenAt returns the tile types that would complete a run of MinRun
// with the two settled cells in each of the given directions from (x, y).
func forbiddenAt(e *Builder, x, y int, dirs ...Coord) []TileType {
	var forbidden []TileType
	for _, d := range dirs {
		t1 := e.At(x+d.X, y+d.Y)
		t2 := e.At(x+2*d.X, y+2*d.Y)
		if t1 != Empty && t1 == t2 {
			forbidden = append(forbidden, t1)
		}
	}
	return forbidden
}

// pickTile picks uniformly among the kinds not in forbidden. If every kind
// is forbidden it falls back to an unconstrained pick, which may create a
// run; callers that need the global guarantee validate afterwards.
func pickTile(src Source, kinds int, forbidden []TileType) TileType {
	if kinds < 1 {
		kinds = 1
	}
	if kinds > MaxKinds {
		kinds = MaxKinds
	}

	allowed := make([]TileType, 0, kinds)
	for t := TileType(1); int(t) <= kinds; t++ {
		ok := true
		for _, f := range forbidden {
			if f == t {
				ok = false
				break
			}
		}
		if ok {
			allowed = append(allowed, t)
		}
	}

	if len(allowed) == 0 {
		return TileType(1 + src.Intn(kinds))
	}
	return allowed[src.Intn(len(allowed))]
}
