package render

import (
	"math"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/object"
)

// Enemy ship colours for the tcell frontend: beige, blue, green, pink, yellow.
var variantRGB = [...]tcell.Color{
	tcell.NewRGBColor(245, 222, 179),
	tcell.NewRGBColor(80, 140, 255),
	tcell.NewRGBColor(90, 220, 120),
	tcell.NewRGBColor(255, 130, 200),
	tcell.NewRGBColor(250, 220, 60),
}

var (
	styleDefault = tcell.StyleDefault
	styleAccent  = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	styleBorder  = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// Tcell draws cell-resolution sprites in full colour through a tcell screen
// and reads keys from its event queue.
type Tcell struct {
	screen tcell.Screen
	width  float64
	height float64

	mu      sync.Mutex
	tracker *input.Tracker
	closed  bool
}

var _ Frontend = (*Tcell)(nil)

// NewTcell initializes screen and starts its event pump. A nil screen opens the
// process's terminal.
func NewTcell(screen tcell.Screen, rules config.Rules) (*Tcell, error) {
	if screen == nil {
		var err error
		if screen, err = tcell.NewScreen(); err != nil {
			return nil, err
		}
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.SetStyle(styleDefault)
	screen.HideCursor()
	screen.Clear()

	t := &Tcell{
		screen:  screen,
		width:   rules.Width,
		height:  rules.Height,
		tracker: input.NewTracker(),
	}
	go t.pollEvents()
	return t, nil
}

// pollEvents feeds key presses into the tracker until the screen is finalized.
func (t *Tcell) pollEvents() {
	for {
		ev := t.screen.PollEvent()
		if ev == nil {
			t.mu.Lock()
			t.closed = true
			t.mu.Unlock()
			return
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			t.handleKey(ev)
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

func (t *Tcell) handleKey(ev *tcell.EventKey) {
	now := time.Now()
	t.mu.Lock()
	defer t.mu.Unlock()

	switch ev.Key() {
	case tcell.KeyLeft:
		t.tracker.Press(input.KeyLeft, now)
	case tcell.KeyRight:
		t.tracker.Press(input.KeyRight, now)
	case tcell.KeyEnter:
		t.tracker.Press(input.KeyEnter, now)
	case tcell.KeyEscape, tcell.KeyCtrlC:
		t.tracker.Press(input.KeyQuit, now)
	case tcell.KeyRune:
		if k, ok := input.KeyForRune(ev.Rune()); ok {
			t.tracker.Press(k, now)
		}
	}
}

// ReadInput returns the keys held right now. A finalized screen reads as Quit.
func (t *Tcell) ReadInput() input.Input {
	t.mu.Lock()
	defer t.mu.Unlock()
	in := t.tracker.Snapshot(time.Now())
	if t.closed {
		in.Quit = true
	}
	return in
}

// ResetInput forgets held keys.
func (t *Tcell) ResetInput() {
	t.mu.Lock()
	t.tracker.Reset()
	t.mu.Unlock()
}

// viewport maps the logical playfield onto the centered, clamped cell area.
type viewport struct {
	cols, rows int
	offX, offY int
	sx, sy     float64
}

func (v viewport) cell(x, y float64) (int, int) {
	return v.offX + int(math.Floor(x*v.sx)), v.offY + int(math.Floor(y*v.sy))
}

func (v viewport) inside(col, row int) bool {
	return col >= v.offX && col < v.offX+v.cols && row >= v.offY && row < v.offY+v.rows
}

func (t *Tcell) viewport() viewport {
	termWidth, termHeight := t.screen.Size()
	cols, rows, offX, offY := draw.ClampTermSize(termWidth, termHeight, config.MaxTermWidth, config.MaxTermHeight)
	return viewport{
		cols: cols, rows: rows,
		offX: offX, offY: offY,
		sx: float64(cols) / t.width,
		sy: float64(rows) / t.height,
	}
}

// Draw renders one frame of the scene.
func (t *Tcell) Draw(scene *Scene) error {
	t.screen.Clear()
	v := t.viewport()

	t.drawBorder(v)
	for _, sp := range scene.Sprites() {
		t.drawSprite(v, sp)
	}
	for _, p := range scene.Particles() {
		if !p.Visible() {
			continue
		}
		col, row := v.cell(p.X, p.Y)
		if v.inside(col, row) {
			t.screen.SetContent(col, row, particleRune(p), nil, styleDefault.Foreground(tcellColor(p.Color)))
		}
	}

	if scene.Screen != ScreenStart {
		left, right := HUDText(scene)
		t.drawText(v, v.offX+1, v.offY, left, styleDefault)
		t.drawText(v, v.offX+v.cols-utf8.RuneCountInString(right)-1, v.offY, right, styleDefault)
	}

	centerX := v.offX + v.cols/2
	centerY := v.offY + v.rows/2
	for _, line := range OverlayLines(scene, time.Now()) {
		style := styleDefault
		if line.Accent {
			style = styleAccent
		}
		t.drawText(v, centerX-utf8.RuneCountInString(line.Text)/2, centerY+line.Offset, line.Text, style)
	}
	if scene.Notice != "" {
		t.drawText(v, centerX-utf8.RuneCountInString(scene.Notice)/2, v.offY+v.rows-1, scene.Notice, styleAccent)
	}

	t.screen.Show()
	return nil
}

// Close finalizes the screen, which also stops the event pump.
func (t *Tcell) Close() error {
	t.screen.Fini()
	return nil
}

func (t *Tcell) drawSprite(v viewport, sp Sprite) {
	style := styleDefault.Foreground(spriteColor(sp))
	ch := '█'
	switch sp.Kind {
	case object.KindPlayer:
		ch = '▲'
	case object.KindPlayerLaser, object.KindEnemyLaser:
		ch = '┃'
	}

	col0, row0 := v.cell(sp.X, sp.Y)
	col1 := max(v.offX+int(math.Ceil((sp.X+sp.W)*v.sx))-1, col0)
	row1 := max(v.offY+int(math.Ceil((sp.Y+sp.H)*v.sy))-1, row0)
	for row := row0; row <= row1; row++ {
		for col := col0; col <= col1; col++ {
			if v.inside(col, row) {
				t.screen.SetContent(col, row, ch, nil, style)
			}
		}
	}
}

func (t *Tcell) drawBorder(v viewport) {
	if v.offX < 1 && v.offY < 1 {
		return
	}
	left, right := v.offX-1, v.offX+v.cols
	top, bottom := v.offY-1, v.offY+v.rows
	for col := left; col <= right; col++ {
		t.screen.SetContent(col, top, tcell.RuneHLine, nil, styleBorder)
		t.screen.SetContent(col, bottom, tcell.RuneHLine, nil, styleBorder)
	}
	for row := top; row <= bottom; row++ {
		t.screen.SetContent(left, row, tcell.RuneVLine, nil, styleBorder)
		t.screen.SetContent(right, row, tcell.RuneVLine, nil, styleBorder)
	}
	t.screen.SetContent(left, top, tcell.RuneULCorner, nil, styleBorder)
	t.screen.SetContent(right, top, tcell.RuneURCorner, nil, styleBorder)
	t.screen.SetContent(left, bottom, tcell.RuneLLCorner, nil, styleBorder)
	t.screen.SetContent(right, bottom, tcell.RuneLRCorner, nil, styleBorder)
}

// drawText puts a string on the screen, clipped to the viewport.
func (t *Tcell) drawText(v viewport, col, row int, text string, style tcell.Style) {
	i := 0
	for _, r := range text {
		if v.inside(col+i, row) {
			t.screen.SetContent(col+i, row, r, nil, style)
		}
		i++
	}
}

func spriteColor(sp Sprite) tcell.Color {
	if sp.Kind == object.KindEnemy {
		return variantRGB[variantIndex(sp.Variant, len(variantRGB))]
	}
	return tcellColor(colorFor(sp))
}

// tcellColor maps a canvas colour to the tcell palette.
func tcellColor(c draw.Color) tcell.Color {
	switch c {
	case draw.ColorRed:
		return tcell.ColorRed
	case draw.ColorGreen:
		return tcell.ColorGreen
	case draw.ColorYellow:
		return tcell.ColorOlive
	case draw.ColorBlue:
		return tcell.ColorNavy
	case draw.ColorMagenta:
		return tcell.ColorPurple
	case draw.ColorCyan:
		return tcell.ColorTeal
	case draw.ColorBrightCyan:
		return tcell.ColorAqua
	case draw.ColorBrightYellow:
		return tcell.ColorYellow
	case draw.ColorGray:
		return tcell.ColorGray
	default:
		return tcell.ColorWhite
	}
}
