package engine

import (
	"slices"
	"sync"

	"github.com/samber/lo"
)

// MinRun is the shortest run of identical tiles that counts as a match.
const MinRun = 3

// Orientation is the axis of a match.
type Orientation uint8

const (
	Horizontal Orientation = iota
	Vertical
)

// String returns the string representation of an orientation.
func (o Orientation) String() string {
	if o == Vertical {
		return "Vertical"
	}
	return "Horizontal"
}

// Match is a maximal run of MinRun or more same-typed tiles.
type Match struct {
	Type        TileType
	Orientation Orientation
	Cells       []Coord // Ordered left to right or top to bottom
}

// Len returns the number of tiles in the run.
func (m Match) Len() int {
	return len(m.Cells)
}

// Contains reports whether c is part of the run.
func (m Match) Contains(c Coord) bool {
	return slices.Contains(m.Cells, c)
}

// FindMatches returns every maximal horizontal run (rows top to bottom) and
// then every maximal vertical run (columns left to right) of MinRun or more
// identical non-empty tiles.
func FindMatches(b Board) []Match {
	var matches []Match

	for y := 0; y < b.h; y++ {
		x := 0
		for x < b.w {
			t := b.tiles[b.index(x, y)]
			end := x + 1
			for end < b.w && b.tiles[b.index(end, y)] == t {
				end++
			}
			if t != Empty && end-x >= MinRun {
				cells := make([]Coord, 0, end-x)
				for i := x; i < end; i++ {
					cells = append(cells, C(i, y))
				}
				matches = append(matches, Match{Type: t, Orientation: Horizontal, Cells: cells})
			}
			x = end
		}
	}

	for x := 0; x < b.w; x++ {
		y := 0
		for y < b.h {
			t := b.tiles[b.index(x, y)]
			end := y + 1
			for end < b.h && b.tiles[b.index(x, end)] == t {
				end++
			}
			if t != Empty && end-y >= MinRun {
				cells := make([]Coord, 0, end-y)
				for i := y; i < end; i++ {
					cells = append(cells, C(x, i))
				}
				matches = append(matches, Match{Type: t, Orientation: Vertical, Cells: cells})
			}
			y = end
		}
	}

	return matches
}

// HasMatch reports whether the board contains at least one match.
func HasMatch(b Board) bool {
	return len(FindMatches(b)) > 0
}

// MatchedCoords returns the union of all match cells, row-major, without
// duplicates. Crossing runs share their intersection cell.
func MatchedCoords(ms []Match) []Coord {
	all := lo.FlatMap(ms, func(m Match, _ int) []Coord { return m.Cells })
	coords := lo.Uniq(all)
	slices.SortFunc(coords, compareCoords)
	return coords
}

func compareCoords(a, b Coord) int {
	switch {
	case a.Less(b):
		return -1
	case b.Less(a):
		return 1
	default:
		return 0
	}
}

// DetectorStats counts cache activity.
type DetectorStats struct {
	Hits   int
	Misses int
	Size   int
}

type detectorEntry struct {
	board   Board
	matches []Match
}

// Detector caches FindMatches results keyed by board contents.
// It is safe for concurrent use.
type Detector struct {
	mu       sync.Mutex
	capacity int
	entries  map[uint64][]detectorEntry
	size     int
	hits     int
	misses   int
}

// NewDetector creates a detector that remembers up to capacity boards.
// A capacity <= 0 disables caching.
func NewDetector(capacity int) *Detector {
	return &Detector{
		capacity: capacity,
		entries:  make(map[uint64][]detectorEntry),
	}
}

// Find returns the matches on b, identical to FindMatches(b).
func (d *Detector) Find(b Board) []Match {
	if d == nil || d.capacity <= 0 {
		return FindMatches(b)
	}

	key := b.Fingerprint()

	d.mu.Lock()
	for _, e := range d.entries[key] {
		if e.board.Equal(b) {
			d.hits++
			out := cloneMatches(e.matches)
			d.mu.Unlock()
			return out
		}
	}
	d.misses++
	d.mu.Unlock()

	matches := FindMatches(b)

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.size >= d.capacity {
		// Full: start over.
		d.entries = make(map[uint64][]detectorEntry)
		d.size = 0
	}
	d.entries[key] = append(d.entries[key], detectorEntry{board: b, matches: cloneMatches(matches)})
	d.size++
	return matches
}

// Stats returns a snapshot of the cache counters.
func (d *Detector) Stats() DetectorStats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DetectorStats{Hits: d.hits, Misses: d.misses, Size: d.size}
}

func cloneMatches(ms []Match) []Match {
	if ms == nil {
		return nil
	}
	out := make([]Match, len(ms))
	for i, m := range ms {
		out[i] = Match{Type: m.Type, Orientation: m.Orientation, Cells: slices.Clone(m.Cells)}
	}
	return out
}
