package engine

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// ErrRaggedBoard is returned by ParseBoard when rows differ in length.
var ErrRaggedBoard = errors.New("engine: board rows have different lengths")

// Board is an immutable snapshot of the grid.
// Tiles are stored in row-major order: index = y*W + x.
// The backing slice is never written after the Board is published, so
// copies of a Board share it freely.
type Board struct {
	w     int
	h     int
	tiles []TileType
}

// NewBoard creates a board with all cells empty.
func NewBoard(w, h int) Board {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return Board{w: w, h: h, tiles: make([]TileType, w*h)}
}

// ParseBoard builds a board from text rows, top row first.
// Each rune is a tile as returned by TileType.Rune ('.' for empty).
func ParseBoard(rows ...string) (Board, error) {
	if len(rows) == 0 {
		return NewBoard(0, 0), nil
	}
	w := len([]rune(rows[0]))
	b := NewBoard(w, len(rows))
	for y, row := range rows {
		runes := []rune(row)
		if len(runes) != w {
			return Board{}, fmt.Errorf("%w: row %d has %d cells, want %d", ErrRaggedBoard, y, len(runes), w)
		}
		for x, r := range runes {
			t, ok := tileFromRune(r)
			if !ok {
				return Board{}, fmt.Errorf("engine: unknown tile %q at (%d,%d)", r, x, y)
			}
			b.tiles[y*w+x] = t
		}
	}
	return b, nil
}

// MustParseBoard is like ParseBoard but panics on error.
// Intended for fixtures and tests.
func MustParseBoard(rows ...string) Board {
	b, err := ParseBoard(rows...)
	if err != nil {
		panic(err)
	}
	return b
}

// Width returns the number of columns.
func (b Board) Width() int {
	return b.w
}

// Height returns the number of rows.
func (b Board) Height() int {
	return b.h
}

// InBounds returns true if (x, y) is within the board.
func (b Board) InBounds(x, y int) bool {
	return x >= 0 && x < b.w && y >= 0 && y < b.h
}

func (b Board) index(x, y int) int {
	return y*b.w + x
}

// Get returns the cell at (x, y).
// Out-of-bounds positions return an empty cell so neighbor scans need no
// edge checks.
func (b Board) Get(x, y int) Cell {
	if !b.InBounds(x, y) {
		return Cell{Type: Empty, Pos: C(x, y)}
	}
	return Cell{Type: b.tiles[b.index(x, y)], Pos: C(x, y)}
}

// At returns the tile type at c, or Empty when out of bounds.
func (b Board) At(c Coord) TileType {
	if !b.InBounds(c.X, c.Y) {
		return Empty
	}
	return b.tiles[b.index(c.X, c.Y)]
}

// WithCell returns a new board with (x, y) set to t.
// Out-of-bounds positions return the receiver unchanged.
func (b Board) WithCell(x, y int, t TileType) Board {
	if !b.InBounds(x, y) {
		return b
	}
	e := b.Edit()
	e.Set(x, y, t)
	return e.Board()
}

// Edit returns a copy-on-write builder seeded with this board.
func (b Board) Edit() *Builder {
	return &Builder{w: b.w, h: b.h, tiles: b.tiles}
}

// Equal returns true if two boards have the same dimensions and contents.
func (b Board) Equal(other Board) bool {
	if b.w != other.w || b.h != other.h {
		return false
	}
	for i, t := range b.tiles {
		if t != other.tiles[i] {
			return false
		}
	}
	return true
}

// Fingerprint hashes dimensions and contents.
// Equal boards always have equal fingerprints.
func (b Board) Fingerprint() uint64 {
	buf := make([]byte, 0, 8+len(b.tiles))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(b.w))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(b.h))
	for _, t := range b.tiles {
		buf = append(buf, byte(t))
	}
	return xxhash.Sum64(buf)
}

// EmptyCount returns the number of empty cells.
func (b Board) EmptyCount() int {
	n := 0
	for _, t := range b.tiles {
		if t == Empty {
			n++
		}
	}
	return n
}

// Column returns the tiles of column x from top to bottom.
func (b Board) Column(x int) []TileType {
	if x < 0 || x >= b.w {
		return nil
	}
	col := make([]TileType, b.h)
	for y := 0; y < b.h; y++ {
		col[y] = b.tiles[b.index(x, y)]
	}
	return col
}

// String renders the board as newline-separated rows of tile runes.
func (b Board) String() string {
	var sb strings.Builder
	sb.Grow(b.w*b.h + b.h)
	for y := 0; y < b.h; y++ {
		if y > 0 {
			sb.WriteRune('\n')
		}
		for x := 0; x < b.w; x++ {
			sb.WriteRune(b.tiles[b.index(x, y)].Rune())
		}
	}
	return sb.String()
}

// Rows returns the board as text rows, the inverse of ParseBoard.
func (b Board) Rows() []string {
	if b.h == 0 {
		return nil
	}
	return strings.Split(b.String(), "\n")
}

// Builder accumulates mutations against a board.
// The first write copies the backing slice; later writes are in place.
type Builder struct {
	w      int
	h      int
	tiles  []TileType
	copied bool
}

// Set writes t at (x, y). Out-of-bounds writes are ignored.
func (e *Builder) Set(x, y int, t TileType) {
	if x < 0 || x >= e.w || y < 0 || y >= e.h {
		return
	}
	i := y*e.w + x
	if e.tiles[i] == t {
		return
	}
	if !e.copied {
		tiles := make([]TileType, len(e.tiles))
		copy(tiles, e.tiles)
		e.tiles = tiles
		e.copied = true
	}
	e.tiles[i] = t
}

// At returns the tile at (x, y), or Empty when out of bounds.
func (e *Builder) At(x, y int) TileType {
	if x < 0 || x >= e.w || y < 0 || y >= e.h {
		return Empty
	}
	return e.tiles[y*e.w+x]
}

// Board publishes the accumulated state. The builder must not be used
// afterwards.
func (e *Builder) Board() Board {
	b := Board{w: e.w, h: e.h, tiles: e.tiles}
	e.tiles = nil
	return b
}
