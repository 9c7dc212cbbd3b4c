// Package engine implements the match-3 board resolution engine: board
// generation, match detection, swap validation and cascade resolution.
// This package is UI-agnostic and deterministic for a given tile source.
package engine

import "fmt"

// TileType identifies the kind of tile occupying a cell.
// The zero value is Empty.
type TileType uint8

const (
	Empty TileType = iota
	Red
	Green
	Blue
	Yellow
	Purple
	Orange
	White
)

// MaxKinds is the number of non-empty tile types available.
const MaxKinds = 7

var tileRunes = [...]rune{'.', 'R', 'G', 'B', 'Y', 'P', 'O', 'W'}

var tileNames = [...]string{"Empty", "Red", "Green", "Blue", "Yellow", "Purple", "Orange", "White"}

// Rune returns the single-character text form of the tile.
func (t TileType) Rune() rune {
	if int(t) >= len(tileRunes) {
		return '?'
	}
	return tileRunes[t]
}

// String returns the tile name.
func (t TileType) String() string {
	if int(t) >= len(tileNames) {
		return "Unknown"
	}
	return tileNames[t]
}

// IsEmpty reports whether the tile is Empty.
func (t TileType) IsEmpty() bool {
	return t == Empty
}

// tileFromRune is the inverse of Rune.
func tileFromRune(r rune) (TileType, bool) {
	for i, tr := range tileRunes {
		if tr == r {
			return TileType(i), true
		}
	}
	return Empty, false
}

// Coord represents a cell position on the board.
// X increases to the right, Y increases downward (row 0 is the top).
type Coord struct {
	X int
	Y int
}

// C is a convenience constructor for Coord.
func C(x, y int) Coord {
	return Coord{X: x, Y: y}
}

// String returns a string representation of the coordinate.
func (c Coord) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// Add returns a new Coord offset by (dx, dy).
func (c Coord) Add(dx, dy int) Coord {
	return Coord{X: c.X + dx, Y: c.Y + dy}
}

// Manhattan returns the Manhattan distance to another coordinate.
func (c Coord) Manhattan(other Coord) int {
	dx := c.X - other.X
	dy := c.Y - other.Y
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}
	return dx + dy
}

// Adjacent returns true if the two coordinates share an edge.
func (c Coord) Adjacent(other Coord) bool {
	return c.Manhattan(other) == 1
}

// Less orders coordinates row-major: by row, then by column.
func (c Coord) Less(other Coord) bool {
	if c.Y != other.Y {
		return c.Y < other.Y
	}
	return c.X < other.X
}

// Cell is the content of one board position.
type Cell struct {
	Type TileType
	Pos  Coord
}

// IsEmpty reports whether the cell holds no tile.
func (c Cell) IsEmpty() bool {
	return c.Type == Empty
}
