// Package draw renders to ANSI terminals: a scaled half-block canvas plus
// cursor and chunked-output helpers that work over a raw tty or an SSH channel.
package draw

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Shade characters from lightest to darkest.
// Use these to render different intensities in the terminal.
var Shades = []rune{' ', '░', '▒', '▓', '█'}

// ShadeLevel returns a shade character for a value between 0.0 (empty) and 1.0 (solid).
func ShadeLevel(intensity float64) rune {
	if intensity <= 0 {
		return Shades[0]
	}
	if intensity >= 1 {
		return Shades[len(Shades)-1]
	}
	idx := int(intensity * float64(len(Shades)-1))
	return Shades[idx]
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockLight     = '░'
	BlockMedium    = '▒'
	BlockDark      = '▓'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
	BlockLeftHalf  = '▌'
	BlockRightHalf = '▐'
)

// Color is a terminal foreground color. The zero value marks an unset pixel.
type Color uint8

const (
	ColorNone Color = iota
	ColorWhite
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorBrightCyan
	ColorBrightYellow
	ColorGray
)

// ColorReset restores the terminal's default attributes.
const ColorReset = "\033[0m"

var colorSequences = [...]string{
	ColorNone:         ColorReset,
	ColorWhite:        "\033[37m",
	ColorRed:          "\033[31m",
	ColorGreen:        "\033[32m",
	ColorYellow:       "\033[33m",
	ColorBlue:         "\033[34m",
	ColorMagenta:      "\033[35m",
	ColorCyan:         "\033[36m",
	ColorBrightCyan:   "\033[96m",
	ColorBrightYellow: "\033[93m",
	ColorGray:         "\033[90m",
}

// Sequence returns the SGR escape sequence selecting c.
func (c Color) Sequence() string {
	if int(c) < len(colorSequences) {
		return colorSequences[c]
	}
	return ColorReset
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
