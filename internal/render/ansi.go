package render

import (
	"bufio"
	"io"
	"time"
	"unicode/utf8"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/object"
)

// ANSIOptions configures the ANSI frontend.
type ANSIOptions struct {
	TermSizeFunc draw.TermSizeFunc
}

// ANSI draws with raw escape sequences on a half-block canvas. It works on
// any byte stream, so it serves both a local raw-mode tty and SSH sessions.
type ANSI struct {
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates UI text for chunked output
	writer       io.Writer
	inputStream  *input.Stream
	termSizeFunc draw.TermSizeFunc

	prevScreen Screen
	prevNotice string
	started    bool
}

var _ Frontend = (*ANSI)(nil)

// NewANSI creates an ANSI frontend reading keys from r and drawing to w.
func NewANSI(r *bufio.Reader, w io.Writer, rules config.Rules, opts ANSIOptions) *ANSI {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := draw.TerminalSizeRawWith(termSizeFunc)
	renderWidth, renderHeight, offsetCol, offsetRow := draw.ClampTermSize(termWidth, termHeight, config.MaxTermWidth, config.MaxTermHeight)
	canvas := draw.NewScaledCanvas(renderWidth, renderHeight, rules.Width, rules.Height)
	canvas.SetOffset(offsetCol, offsetRow)

	draw.HideCursor(w)
	draw.ClearScreen(w)

	return &ANSI{
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w, offsetCol, offsetRow),
		writer:       w,
		inputStream:  input.StartStream(r),
		termSizeFunc: termSizeFunc,
	}
}

// Writer returns the frame buffer. Bytes written to it go out with the next frame.
func (a *ANSI) Writer() io.Writer {
	return a.chunkWriter
}

// ReadInput drains pending key bytes.
func (a *ANSI) ReadInput() input.Input {
	return input.ReadInput(a.inputStream)
}

// ResetInput forgets held keys.
func (a *ANSI) ResetInput() {
	input.ResetKeyInput(a.inputStream)
}

// Draw renders one frame of the scene.
func (a *ANSI) Draw(scene *Scene) error {
	a.updateScreen()

	// On screen or notice transitions, do a full terminal clear
	// so UI elements from the previous screen don't persist.
	if !a.started || scene.Screen != a.prevScreen || scene.Notice != a.prevNotice {
		a.chunkWriter.Clear()
		a.canvas.ForceRedraw()
		a.prevScreen = scene.Screen
		a.prevNotice = scene.Notice
		a.started = true
	}

	a.canvas.Clear()

	for _, sp := range scene.Sprites() {
		a.drawSprite(sp)
	}
	for _, p := range scene.Particles() {
		if p.Visible() {
			a.canvas.SetPen(p.Color)
			a.canvas.SetFloat(p.X, p.Y)
		}
	}

	a.canvas.Render(a.chunkWriter)

	// Draw border when terminal exceeds max render resolution
	a.canvas.RenderBorder(a.chunkWriter)

	a.drawUI(scene)

	return a.chunkWriter.Flush()
}

// Close restores the cursor and clears the screen.
func (a *ANSI) Close() error {
	a.chunkWriter.Clear()
	if err := a.chunkWriter.Flush(); err != nil {
		return err
	}
	draw.ShowCursor(a.writer)
	return nil
}

func (a *ANSI) drawSprite(sp Sprite) {
	a.canvas.SetPen(colorFor(sp))
	switch sp.Kind {
	case object.KindPlayer, object.KindEnemy:
		a.canvas.DrawPolygon(placeShape(a.canvas, shapeFor(sp), sp), true)
	default:
		a.canvas.FillRect(sp.X, sp.Y, sp.W, sp.H)
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual pixels
// outside the new canvas area (e.g. old borders or offset content).
func (a *ANSI) updateScreen() {
	termWidth, termHeight, err := draw.TerminalSizeRawWith(a.termSizeFunc)
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := draw.ClampTermSize(termWidth, termHeight, config.MaxTermWidth, config.MaxTermHeight)

	if renderWidth != a.canvas.TerminalWidth() || renderHeight != a.canvas.TerminalHeight() ||
		offsetCol != a.canvas.OffsetCol() || offsetRow != a.canvas.OffsetRow() {
		a.chunkWriter.Clear()
		a.canvas.Resize(renderWidth, renderHeight)
		a.canvas.ForceRedraw()
	}

	a.canvas.SetOffset(offsetCol, offsetRow)
	a.chunkWriter.SetOffset(offsetCol, offsetRow)
}

// drawUI draws the HUD and the screen overlay on top of the canvas.
func (a *ANSI) drawUI(scene *Scene) {
	termWidth := a.canvas.TerminalWidth()
	termHeight := a.canvas.TerminalHeight()
	centerX := termWidth / 2
	centerY := termHeight / 2

	if scene.Screen != ScreenStart {
		left, right := HUDText(scene)
		a.writeText(2, 1, left, draw.ColorNone)
		a.writeText(termWidth-len(right), 1, right, draw.ColorNone)
	}

	for _, line := range OverlayLines(scene, time.Now()) {
		color := draw.ColorNone
		if line.Accent {
			color = draw.ColorBrightYellow
		}
		a.writeText(centerX-utf8.RuneCountInString(line.Text)/2, centerY+line.Offset, line.Text, color)
	}

	if scene.Notice != "" {
		a.writeText(centerX-utf8.RuneCountInString(scene.Notice)/2, termHeight, scene.Notice, draw.ColorBrightYellow)
	}
}

// writeText writes s inside the canvas area and marks the covered cells so
// the canvas repaints them once the text is gone.
func (a *ANSI) writeText(col, row int, s string, color draw.Color) {
	if row < 1 || row > a.canvas.TerminalHeight() {
		return
	}
	col = max(col, 1)
	if color == draw.ColorNone {
		a.chunkWriter.WriteAt(col, row, s)
	} else {
		a.chunkWriter.WriteColored(col, row, color, s)
	}
	a.canvas.MarkTextDirty(col, row, utf8.RuneCountInString(s))
}
