package match3

import (
	"fmt"

	"github.com/vovakirdan/tui-match3/internal/core"
	"github.com/vovakirdan/tui-match3/internal/games/match3/engine"
)

const (
	cellWidth = 3 // Marker, tile, marker
	hudHeight = 3
	minWidth  = 42
)

var tileColors = map[engine.TileType]core.Color{
	engine.Red:    core.ColorRed,
	engine.Green:  core.ColorGreen,
	engine.Blue:   core.ColorBlue,
	engine.Yellow: core.ColorYellow,
	engine.Purple: core.ColorMagenta,
	engine.Orange: core.ColorOrange,
	engine.White:  core.ColorWhite,
}

// layoutSize returns the screen size needed for a w x h board.
func layoutSize(w, h int) (int, int) {
	return max(w*cellWidth+2, minWidth), hudHeight + h + 2 + 2
}

// Render draws the game state to the screen.
func (g *Game) Render(dst *core.Screen) {
	dst.Clear()

	if g.tooSmall {
		g.renderTooSmall(dst)
		return
	}
	if g.eng == nil {
		return
	}

	w, h := g.cfg.Board.Width, g.cfg.Board.Height
	boardW := w*cellWidth + 2
	boardH := h + 2
	layoutW, layoutH := layoutSize(w, h)
	originX := (g.screenW - layoutW) / 2
	originY := max((g.screenH-layoutH)/2, 0)
	boardX := originX + (layoutW-boardW)/2
	boardY := originY + hudHeight

	g.renderHUD(dst, originX, originY, layoutW)
	dst.DrawBox(core.NewRect(boardX, boardY, boardW, boardH), core.ColorGray)
	g.renderBoard(dst, boardX+1, boardY+1)

	footerY := boardY + boardH
	if g.message != "" {
		dst.DrawStyledText(originX+(layoutW-len(g.message))/2, footerY, g.message, core.Style{Fg: core.ColorYellow})
	}
	help := g.Controls()
	dst.DrawStyledText(originX+(layoutW-len(help))/2, footerY+1, help, core.Style{Fg: core.ColorGray})

	g.renderOverlays(dst, boardX+boardW/2, boardY+boardH/2)
}

func (g *Game) renderTooSmall(dst *core.Screen) {
	dst.DrawTextCentered(g.screenH/2, "Window too small")
	w, h := layoutSize(g.cfg.Board.Width, g.cfg.Board.Height)
	dst.DrawTextCentered(g.screenH/2+1, fmt.Sprintf("Need %dx%d", w, h))
}

func (g *Game) renderHUD(dst *core.Screen, x, y, width int) {
	title := g.Title()
	dst.DrawStyledText(x+(width-len(title))/2, y, title, core.Style{Fg: core.ColorBrightWhite, Bold: true})

	score := fmt.Sprintf("Score: %d", g.eng.Score())
	dst.DrawText(x, y+1, score)

	moves := fmt.Sprintf("Moves: %d", g.eng.Moves())
	if g.mode == ModeClassic && g.cfg.Classic.MoveLimit > 0 {
		moves = fmt.Sprintf("Moves: %d/%d", g.eng.Moves(), g.cfg.Classic.MoveLimit)
	}
	dst.DrawText(x+width-len(moves), y+1, moves)

	chain := fmt.Sprintf("Best chain: %d", g.bestCascade)
	dst.DrawText(x, y+2, chain)

	var last string
	if f, ok := g.playback.current(); ok {
		last = fmt.Sprintf("Wave %d +%d", f.wave, f.gain)
	} else if g.lastGain > 0 {
		last = fmt.Sprintf("Last: +%d", g.lastGain)
	}
	dst.DrawStyledText(x+width-len(last), y+2, last, core.Style{Fg: core.ColorCyan})
}

func (g *Game) renderBoard(dst *core.Screen, x0, y0 int) {
	board := g.eng.Board()
	var highlight map[engine.Coord]bool
	f, playing := g.playback.current()
	if playing {
		board = f.board
		highlight = f.highlight
	}
	hinting := !playing && g.hintTTL > 0

	for y := 0; y < board.Height(); y++ {
		for x := 0; x < board.Width(); x++ {
			c := engine.C(x, y)
			t := board.At(c)
			cx := x0 + x*cellWidth

			st := core.Style{Fg: tileColors[t]}
			r := t.Rune()
			if t.IsEmpty() {
				r = ' '
			}

			left, right := ' ', ' '
			marker := core.Style{Fg: core.ColorGray}
			switch {
			case highlight[c]:
				left, right = '*', '*'
				marker = core.Style{Fg: core.ColorBrightWhite, Bold: true}
				st.Bold = true
			case !playing && g.hasSel && g.selected == c:
				left, right = '[', ']'
				marker = core.Style{Fg: core.ColorBrightWhite, Bold: true}
			case hinting && g.hint.Touches(c):
				left, right = '(', ')'
				marker = core.Style{Fg: core.ColorCyan}
			}
			if !playing && !g.gameOver && g.cursor == c {
				st.Reverse = true
			}

			dst.SetCell(cx, y0+y, core.Cell{Rune: left, Style: marker})
			dst.SetCell(cx+1, y0+y, core.Cell{Rune: r, Style: st})
			dst.SetCell(cx+2, y0+y, core.Cell{Rune: right, Style: marker})
		}
	}
}

func (g *Game) renderOverlays(dst *core.Screen, centerX, centerY int) {
	switch {
	case g.paused:
		drawOverlay(dst, centerX, centerY, "PAUSED", "Press P to resume")
	case g.gameOver && g.playback == nil:
		drawOverlay(dst, centerX, centerY,
			"GAME OVER",
			g.overReason,
			fmt.Sprintf("Score: %d", g.eng.Score()),
			"Press R to restart")
	}
}

// drawOverlay draws a boxed block of centered lines.
func drawOverlay(dst *core.Screen, centerX, centerY int, lines ...string) {
	maxLen := 0
	for _, line := range lines {
		maxLen = max(maxLen, len(line))
	}

	box := core.NewRect(centerX-(maxLen+4)/2, centerY-(len(lines)+2)/2, maxLen+4, len(lines)+2)
	for y := box.Y; y < box.Bottom(); y++ {
		dst.DrawHLine(box.X, y, box.W, ' ')
	}
	dst.DrawBox(box, core.ColorBrightWhite)

	for i, line := range lines {
		dst.DrawStyledText(centerX-len(line)/2, box.Y+1+i, line, core.Style{Bold: i == 0})
	}
}

// Controls returns the control hints for the game.
func (g *Game) Controls() string {
	return "Arrows Enter:select H:hint P:pause Q:quit"
}
