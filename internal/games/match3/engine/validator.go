package engine

import (
	"sync"

	"github.com/samber/lo"
)

// dependencyReach is how far along a row or column a swap endpoint can see
// when deciding whether it completes a run.
const dependencyReach = MinRun - 1

// ValidatorStats counts recomputation work.
type ValidatorStats struct {
	FullRecomputes        int
	IncrementalRecomputes int
	SwapsEvaluated        int
}

// Validator maintains the set of legal swaps for the current board and
// recomputes only the swaps affected by a change when the caller names the
// changed coordinates. It is safe for concurrent use.
type Validator struct {
	mu sync.Mutex

	board     Board
	hasBoard  bool
	matchFree bool // Whether the cached board has no existing match
	dirty     bool
	pending   []Coord // Changed coordinates not yet applied
	legal     map[Swap]bool

	// index maps each coordinate to the swaps whose legality depends on it.
	index  map[Coord][]Swap
	swaps  []Swap
	indexW int
	indexH int

	detector *Detector
	stats    ValidatorStats
}

// NewValidator creates an empty validator. The first query performs a full
// recomputation. d may be nil.
func NewValidator(d *Detector) *Validator {
	return &Validator{dirty: true, detector: d}
}

// Reset replaces the board without a change hint.
// The whole cache becomes dirty.
func (v *Validator) Reset(b Board) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.resetLocked(b)
}

func (v *Validator) resetLocked(b Board) {
	v.board = b
	v.hasBoard = true
	v.dirty = true
	v.pending = nil
}

// Update replaces the board and names the coordinates whose contents may
// differ from the previous board. Only swaps depending on those coordinates
// are re-evaluated on the next query. A hint that misses a changed
// coordinate is treated as no hint at all.
func (v *Validator) Update(b Board, changed []Coord) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if !v.hasBoard || b.w != v.board.w || b.h != v.board.h {
		v.resetLocked(b)
		return
	}

	named := make(map[Coord]struct{}, len(changed))
	for _, c := range changed {
		named[c] = struct{}{}
	}
	for i := range b.tiles {
		if b.tiles[i] == v.board.tiles[i] {
			continue
		}
		if _, ok := named[C(i%b.w, i/b.w)]; !ok {
			v.resetLocked(b)
			return
		}
	}

	v.board = b
	v.pending = append(v.pending, changed...)
}

// LegalSwaps returns the legal swaps of b in row-major order.
// If b differs from the board the cache was built for, the cache is treated
// as replaced without a hint.
func (v *Validator) LegalSwaps(b Board) []Swap {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.syncLocked(b)
	legal := make([]Swap, 0, len(v.legal))
	for _, s := range v.swaps {
		if v.legal[s] {
			legal = append(legal, s)
		}
	}
	return legal
}

// IsLegal reports whether s is an adjacent swap that creates a match on b.
func (v *Validator) IsLegal(b Board, s Swap) bool {
	s = NewSwap(s.A, s.B)
	if !s.Adjacent() {
		return false
	}

	v.mu.Lock()
	defer v.mu.Unlock()

	v.syncLocked(b)
	return v.legal[s]
}

// Dead reports whether b has no legal swap.
func (v *Validator) Dead(b Board) bool {
	v.mu.Lock()
	defer v.mu.Unlock()

	v.syncLocked(b)
	for _, ok := range v.legal {
		if ok {
			return false
		}
	}
	return true
}

// Stats returns a snapshot of the recomputation counters.
func (v *Validator) Stats() ValidatorStats {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.stats
}

// syncLocked brings the cache in line with b. Caller holds v.mu.
func (v *Validator) syncLocked(b Board) {
	if !v.hasBoard || !v.board.Equal(b) {
		v.resetLocked(b)
	}
	v.ensureIndexLocked()

	if !v.dirty && len(v.pending) == 0 {
		return
	}

	matchFree := len(v.detector.Find(v.board)) == 0
	if v.dirty || !v.matchFree || !matchFree {
		// An existing match makes every swap depend on the whole board.
		v.fullLocked(matchFree)
		return
	}

	affected := lo.Uniq(lo.FlatMap(v.pending, func(c Coord, _ int) []Swap {
		return v.index[c]
	}))
	for _, s := range affected {
		v.legal[s] = WouldCreateMatch(v.board, s)
	}
	v.pending = nil
	v.stats.IncrementalRecomputes++
	v.stats.SwapsEvaluated += len(affected)
}

func (v *Validator) fullLocked(matchFree bool) {
	v.legal = make(map[Swap]bool, len(v.swaps))
	for _, s := range v.swaps {
		v.legal[s] = WouldCreateMatch(v.board, s)
	}
	v.matchFree = matchFree
	v.dirty = false
	v.pending = nil
	v.stats.FullRecomputes++
	v.stats.SwapsEvaluated += len(v.swaps)
}

// ensureIndexLocked builds the coordinate -> swaps index for the current
// board size.
func (v *Validator) ensureIndexLocked() {
	w, h := v.board.w, v.board.h
	if v.index != nil && v.indexW == w && v.indexH == h {
		return
	}

	v.swaps = AdjacentSwaps(w, h)
	v.index = make(map[Coord][]Swap, w*h)
	for _, s := range v.swaps {
		deps := lo.Uniq(append(reach(v.board, s.A), reach(v.board, s.B)...))
		for _, c := range deps {
			v.index[c] = append(v.index[c], s)
		}
	}
	v.indexW, v.indexH = w, h
	v.dirty = true
}

// reach returns the in-bounds cells in c's row and column within
// dependencyReach of c, including c itself.
func reach(b Board, c Coord) []Coord {
	cells := make([]Coord, 0, 4*dependencyReach+1)
	cells = append(cells, c)
	for d := 1; d <= dependencyReach; d++ {
		for _, n := range []Coord{c.Add(-d, 0), c.Add(d, 0), c.Add(0, -d), c.Add(0, d)} {
			if b.InBounds(n.X, n.Y) {
				cells = append(cells, n)
			}
		}
	}
	return cells
}
