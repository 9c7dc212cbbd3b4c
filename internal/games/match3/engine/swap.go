package engine

import (
	"fmt"
	"slices"
)

// Swap is an unordered pair of coordinates proposed for exchange.
// NewSwap normalises the pair so that A precedes B in row-major order,
// which makes Swap values comparable with ==.
type Swap struct {
	A Coord
	B Coord
}

// NewSwap returns the swap of a and b. NewSwap(a, b) == NewSwap(b, a).
func NewSwap(a, b Coord) Swap {
	if b.Less(a) {
		a, b = b, a
	}
	return Swap{A: a, B: b}
}

// Adjacent reports whether the two endpoints share an edge.
func (s Swap) Adjacent() bool {
	return s.A.Adjacent(s.B)
}

// Touches reports whether c is one of the endpoints.
func (s Swap) Touches(c Coord) bool {
	return s.A == c || s.B == c
}

// String returns a string representation of the swap.
func (s Swap) String() string {
	return fmt.Sprintf("%v<->%v", s.A, s.B)
}

// SimulateSwap returns b with the contents of a and c exchanged.
// The input board is not modified. If either position is out of bounds the
// input is returned unchanged.
func SimulateSwap(b Board, a, c Coord) Board {
	if !b.InBounds(a.X, a.Y) || !b.InBounds(c.X, c.Y) {
		return b
	}
	ta, tc := b.At(a), b.At(c)
	if ta == tc {
		return b
	}
	e := b.Edit()
	e.Set(a.X, a.Y, tc)
	e.Set(c.X, c.Y, ta)
	return e.Board()
}

// WouldCreateMatch reports whether applying s to b leaves at least one match.
func WouldCreateMatch(b Board, s Swap) bool {
	return HasMatch(SimulateSwap(b, s.A, s.B))
}

// AdjacentSwaps enumerates every right-neighbor and down-neighbor pair of a
// w x h board in row-major order.
func AdjacentSwaps(w, h int) []Swap {
	swaps := make([]Swap, 0, 2*w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if x+1 < w {
				swaps = append(swaps, NewSwap(C(x, y), C(x+1, y)))
			}
			if y+1 < h {
				swaps = append(swaps, NewSwap(C(x, y), C(x, y+1)))
			}
		}
	}
	return swaps
}

// AllLegalSwaps returns every adjacent swap that would create a match, in
// row-major order of the first endpoint. An empty result means the board is
// dead.
func AllLegalSwaps(b Board) []Swap {
	var legal []Swap
	for _, s := range AdjacentSwaps(b.w, b.h) {
		if WouldCreateMatch(b, s) {
			legal = append(legal, s)
		}
	}
	return legal
}

// IsLegal reports whether s is adjacent and belongs to AllLegalSwaps(b).
func IsLegal(b Board, s Swap) bool {
	s = NewSwap(s.A, s.B)
	if !s.Adjacent() {
		return false
	}
	if !b.InBounds(s.A.X, s.A.Y) || !b.InBounds(s.B.X, s.B.Y) {
		return false
	}
	return slices.Contains(AllLegalSwaps(b), s)
}

// IsDead reports whether b has no legal swap.
func IsDead(b Board) bool {
	for _, s := range AdjacentSwaps(b.w, b.h) {
		if WouldCreateMatch(b, s) {
			return false
		}
	}
	return true
}
