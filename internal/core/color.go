package core

// Color is the foreground color of a screen cell. The platform maps each
// value to a terminal color.
type Color uint8

const (
	ColorDefault Color = iota
	ColorRed
	ColorGreen
	ColorBlue
	ColorYellow
	ColorMagenta
	ColorOrange
	ColorWhite
	ColorCyan
	ColorGray
	ColorBrightWhite
)

// Style is the rendering attribute set of a cell.
type Style struct {
	Fg      Color
	Bold    bool
	Reverse bool // Swap foreground and background, used for the cursor
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case ColorRed:
		return "red"
	case ColorGreen:
		return "green"
	case ColorBlue:
		return "blue"
	case ColorYellow:
		return "yellow"
	case ColorMagenta:
		return "magenta"
	case ColorOrange:
		return "orange"
	case ColorWhite:
		return "white"
	case ColorCyan:
		return "cyan"
	case ColorGray:
		return "gray"
	case ColorBrightWhite:
		return "bright-white"
	default:
		return "default"
	}
}
