package match3

import "github.com/vovakirdan/tui-match3/internal/games/match3/engine"

// frame is one picture of a cascade wave.
type frame struct {
	board     engine.Board
	highlight map[engine.Coord]bool
	wave      int
	gain      int
}

// playback replays the waves of a resolved move at a fixed pace. The
// engine has already settled; this only delays what the player sees.
type playback struct {
	frames []frame
	pos    int
	ticks  int
	result engine.MoveResult
}

// add appends the pictures of one wave: matched cells highlighted on the
// board they were found on, then the board after gravity, then after
// refill.
func (p *playback) add(s engine.Step) {
	before := s.Cleared
	if n := len(p.frames); n > 0 {
		before = p.frames[n-1].board
	}
	hl := make(map[engine.Coord]bool, len(s.Removed))
	for _, c := range s.Removed {
		hl[c] = true
	}
	p.frames = append(p.frames,
		frame{board: before, highlight: hl, wave: s.Wave, gain: s.Score},
		frame{board: s.Fallen, wave: s.Wave, gain: s.Score},
		frame{board: s.Board, wave: s.Wave, gain: s.Score},
	)
}

// settle records the move outcome and fixes the first frame's board to the
// swapped board.
func (p *playback) settle(r engine.MoveResult) {
	p.result = r
	if len(p.frames) > 0 {
		p.frames[0].board = r.Resolution.Swapped
	}
}

// advance moves one tick forward and reports whether playback finished.
func (p *playback) advance(stepTicks int) bool {
	if p.pos >= len(p.frames) {
		return true
	}
	p.ticks++
	if p.ticks >= stepTicks {
		p.ticks = 0
		p.pos++
	}
	return p.pos >= len(p.frames)
}

// current returns the frame on screen, if any.
func (p *playback) current() (frame, bool) {
	if p == nil || p.pos >= len(p.frames) {
		return frame{}, false
	}
	return p.frames[p.pos], true
}
