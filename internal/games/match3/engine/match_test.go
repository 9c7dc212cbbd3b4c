package engine

import (
	"slices"
	"testing"
)

func TestFindMatches(t *testing.T) {
	tests := []struct {
		name     string
		rows     []string
		expected []Match
	}{
		{
			name:     "no matches",
			rows:     []string{"RGB", "GBR", "BRG"},
			expected: nil,
		},
		{
			name: "horizontal run",
			rows: []string{"GRRRB", "BGYPO"},
			expected: []Match{
				{Type: Red, Orientation: Horizontal, Cells: []Coord{C(1, 0), C(2, 0), C(3, 0)}},
			},
		},
		{
			name: "vertical run of four",
			rows: []string{"BG", "BR", "BY", "BP"},
			expected: []Match{
				{Type: Blue, Orientation: Vertical, Cells: []Coord{C(0, 0), C(0, 1), C(0, 2), C(0, 3)}},
			},
		},
		{
			name: "run of five is one match",
			rows: []string{"YYYYY"},
			expected: []Match{
				{Type: Yellow, Orientation: Horizontal, Cells: []Coord{C(0, 0), C(1, 0), C(2, 0), C(3, 0), C(4, 0)}},
			},
		},
		{
			name: "crossing runs",
			rows: []string{"RRR", "RGB", "RBG"},
			expected: []Match{
				{Type: Red, Orientation: Horizontal, Cells: []Coord{C(0, 0), C(1, 0), C(2, 0)}},
				{Type: Red, Orientation: Vertical, Cells: []Coord{C(0, 0), C(0, 1), C(0, 2)}},
			},
		},
		{
			name:     "empty cells never match",
			rows:     []string{"...", "RGB"},
			expected: nil,
		},
		{
			name:     "two is not a run",
			rows:     []string{"RRGG"},
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FindMatches(MustParseBoard(tt.rows...))
			if len(got) != len(tt.expected) {
				t.Fatalf("expected %d matches, got %d: %v", len(tt.expected), len(got), got)
			}
			for i := range got {
				want := tt.expected[i]
				if got[i].Type != want.Type || got[i].Orientation != want.Orientation {
					t.Errorf("match %d: got %v %v, want %v %v",
						i, got[i].Type, got[i].Orientation, want.Type, want.Orientation)
				}
				if !slices.Equal(got[i].Cells, want.Cells) {
					t.Errorf("match %d: cells %v, want %v", i, got[i].Cells, want.Cells)
				}
			}
		})
	}
}

func TestMatchedCoordsDeduplicates(t *testing.T) {
	ms := FindMatches(MustParseBoard("RRR", "RGB", "RBG"))
	got := MatchedCoords(ms)
	want := []Coord{C(0, 0), C(1, 0), C(2, 0), C(0, 1), C(0, 2)}
	if !slices.Equal(got, want) {
		t.Errorf("MatchedCoords = %v, want %v", got, want)
	}
}

func TestFindMatchesDoesNotModifyBoard(t *testing.T) {
	b := MustParseBoard("RRR", "GBY")
	before := b.String()
	FindMatches(b)
	if b.String() != before {
		t.Errorf("board changed: %q -> %q", before, b.String())
	}
}

func TestDetectorCachesByContent(t *testing.T) {
	d := NewDetector(8)
	a := MustParseBoard("GRRRB", "BGYPO")
	b := MustParseBoard("GRRRB", "BGYPO")

	first := d.Find(a)
	second := d.Find(b)

	stats := d.Stats()
	if stats.Hits != 1 || stats.Misses != 1 {
		t.Errorf("expected 1 hit and 1 miss, got %+v", stats)
	}
	if len(first) != 1 || len(second) != 1 || !slices.Equal(first[0].Cells, second[0].Cells) {
		t.Errorf("cached result differs: %v vs %v", first, second)
	}

	// Callers may scribble on the result without poisoning the cache.
	second[0].Cells[0] = C(9, 9)
	third := d.Find(a)
	if third[0].Cells[0] != C(1, 0) {
		t.Errorf("cache entry was modified through a returned slice: %v", third[0].Cells)
	}
}

func TestDetectorEvictsWhenFull(t *testing.T) {
	d := NewDetector(2)
	d.Find(MustParseBoard("RGB"))
	d.Find(MustParseBoard("GBR"))
	d.Find(MustParseBoard("BRG"))

	if size := d.Stats().Size; size > 2 {
		t.Errorf("detector holds %d boards, capacity is 2", size)
	}
}

func TestDetectorDisabled(t *testing.T) {
	d := NewDetector(0)
	b := MustParseBoard("RRR")
	if got := d.Find(b); len(got) != 1 {
		t.Errorf("expected 1 match, got %d", len(got))
	}
	d.Find(b)
	if stats := d.Stats(); stats.Hits != 0 || stats.Size != 0 {
		t.Errorf("disabled detector should not cache, got %+v", stats)
	}
}
