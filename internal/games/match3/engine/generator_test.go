package engine

import "testing"

func TestGenerateInvariants(t *testing.T) {
	for size := 5; size <= 8; size++ {
		for seed := uint64(1); seed <= 25; seed++ {
			gen := NewGenerator(NewRNG(seed), 5, quietLogger())
			b, report := gen.Generate(size, size, DefaultMaxAttempts)

			if b.Width() != size || b.Height() != size {
				t.Fatalf("seed %d: expected %dx%d board, got %dx%d", seed, size, size, b.Width(), b.Height())
			}
			if report.Exhausted {
				t.Errorf("seed %d size %d: generation exhausted after %d attempts", seed, size, report.Attempts)
			}
			if HasMatch(b) {
				t.Errorf("seed %d size %d: board contains a match:\n%s", seed, size, b)
			}
			if IsDead(b) {
				t.Errorf("seed %d size %d: board has no legal swap:\n%s", seed, size, b)
			}
			if b.EmptyCount() != 0 {
				t.Errorf("seed %d size %d: board has empty cells", seed, size)
			}
			for y := 0; y < size; y++ {
				for x := 0; x < size; x++ {
					if tt := b.At(C(x, y)); tt < Red || tt > Purple {
						t.Fatalf("seed %d: tile %v at (%d,%d) outside the first 5 kinds", seed, tt, x, y)
					}
				}
			}
		}
	}
}

func TestGenerateRectangular(t *testing.T) {
	gen := NewGenerator(NewRNG(3), 6, quietLogger())
	b, report := gen.Generate(10, 4, DefaultMaxAttempts)
	if b.Width() != 10 || b.Height() != 4 {
		t.Fatalf("expected 10x4 board, got %dx%d", b.Width(), b.Height())
	}
	if report.Exhausted || HasMatch(b) || IsDead(b) {
		t.Errorf("invalid board (report %+v):\n%s", report, b)
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a, _ := NewGenerator(NewRNG(42), 6, quietLogger()).Generate(8, 8, DefaultMaxAttempts)
	b, _ := NewGenerator(NewRNG(42), 6, quietLogger()).Generate(8, 8, DefaultMaxAttempts)
	if !a.Equal(b) {
		t.Errorf("same seed produced different boards:\n%s\n\n%s", a, b)
	}

	c, _ := NewGenerator(NewRNG(43), 6, quietLogger()).Generate(8, 8, DefaultMaxAttempts)
	if a.Equal(c) {
		t.Error("different seeds produced the same board")
	}
}

func TestGenerateExhaustion(t *testing.T) {
	// With a single kind every board is one big match.
	gen := NewGenerator(NewRNG(1), 1, quietLogger())
	b, report := gen.Generate(4, 4, 5)

	if !report.Exhausted {
		t.Fatal("expected exhausted report")
	}
	if report.Attempts != 5 {
		t.Errorf("expected 5 attempts, got %d", report.Attempts)
	}
	if report.Reason == "" {
		t.Error("expected a rejection reason")
	}
	if b.Width() != 4 || b.Height() != 4 || b.EmptyCount() != 0 {
		t.Errorf("expected the last full 4x4 attempt, got:\n%s", b)
	}
}

func TestGenerateAttemptsClamped(t *testing.T) {
	gen := NewGenerator(NewRNG(1), 1, quietLogger())
	_, report := gen.Generate(3, 3, 0)
	if report.Attempts != 1 || !report.Exhausted {
		t.Errorf("expected a single exhausted attempt, got %+v", report)
	}
}

func TestPickTileAvoidsForbidden(t *testing.T) {
	src := NewRNG(9)
	for i := 0; i < 500; i++ {
		tt := pickTile(src, 3, []TileType{Red, Blue})
		if tt != Green {
			t.Fatalf("pick %d: expected Green, got %v", i, tt)
		}
	}
	if tt := pickTile(src, 1, []TileType{Red}); tt != Red {
		t.Errorf("fallback pick = %v, want Red", tt)
	}
}
