package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setPixels(c *Canvas) int {
	n := 0
	for _, p := range c.pixels {
		if p != ColorNone {
			n++
		}
	}
	return n
}

func TestFillRectScales(t *testing.T) {
	// 80x30 terminal over an 800x600 playfield: 10 logical units per column,
	// 10 per sub-pixel row.
	c := NewScaledCanvas(80, 30, 800, 600)
	c.SetPen(ColorRed)
	c.FillRect(100, 100, 40, 30)

	assert.Equal(t, 4*3, setPixels(c))
	assert.Equal(t, ColorRed, c.pixels[10*80+10])
	assert.Equal(t, ColorRed, c.pixels[12*80+13])
	assert.Equal(t, ColorNone, c.pixels[13*80+10])
}

func TestFillRectThinStaysVisible(t *testing.T) {
	c := NewScaledCanvas(80, 30, 800, 600)
	c.FillRect(101, 100, 2, 5)
	assert.Equal(t, 1, setPixels(c))
}

func TestFillRectClipsToCanvas(t *testing.T) {
	c := NewScaledCanvas(10, 5, 100, 100)
	c.FillRect(-50, -50, 1000, 1000)
	assert.Equal(t, len(c.pixels), setPixels(c))
}

func TestRenderWritesOnlyChanges(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(1, 0)
	c.Set(1, 1)

	var buf bytes.Buffer
	c.Render(&buf)
	first := buf.String()
	assert.Contains(t, first, string(BlockFull))
	assert.Equal(t, 1, strings.Count(first, "\033[1;2H"))

	buf.Reset()
	c.Render(&buf)
	assert.Empty(t, buf.String(), "unchanged frame writes nothing")

	buf.Reset()
	c.Clear()
	c.Render(&buf)
	assert.Equal(t, "\033[1;2H ", buf.String(), "vacated cell is blanked")
}

func TestRenderHalfBlocks(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(1, 1)

	var buf bytes.Buffer
	c.Render(&buf)
	out := buf.String()
	assert.Contains(t, out, string(BlockUpperHalf))
	assert.Contains(t, out, string(BlockLowerHalf))
	assert.True(t, strings.HasSuffix(out, ColorReset))
}

func TestForceRedrawAndDirtyText(t *testing.T) {
	c := NewCanvas(3, 1)
	c.Set(0, 0)

	var buf bytes.Buffer
	c.Render(&buf)

	buf.Reset()
	c.ForceRedraw()
	c.Render(&buf)
	assert.Contains(t, buf.String(), string(BlockUpperHalf))

	buf.Reset()
	c.MarkTextDirty(2, 1, 2)
	c.Render(&buf)
	assert.Equal(t, "\033[1;2H \033[1;3H ", buf.String())
}

func TestRenderAppliesOffset(t *testing.T) {
	c := NewCanvas(2, 1)
	c.SetOffset(5, 3)
	c.Set(0, 0)

	var buf bytes.Buffer
	c.Render(&buf)
	assert.Contains(t, buf.String(), "\033[4;6H")
}

func TestRenderBorder(t *testing.T) {
	c := NewCanvas(3, 2)

	var buf bytes.Buffer
	c.RenderBorder(&buf)
	assert.Empty(t, buf.String())

	c.SetOffset(2, 2)
	c.RenderBorder(&buf)
	out := buf.String()
	assert.Contains(t, out, "┌───┐")
	assert.Contains(t, out, "└───┘")
	assert.Equal(t, 4, strings.Count(out, "│"))
}

func TestLogicalToTerminal(t *testing.T) {
	c := NewScaledCanvas(80, 30, 800, 600)
	col, row := c.LogicalToTerminal(400, 300)
	assert.Equal(t, 41, col)
	assert.Equal(t, 16, row)
}

func TestClampTermSize(t *testing.T) {
	w, h, oc, or := ClampTermSize(200, 60, 160, 50)
	assert.Equal(t, []int{160, 50, 20, 5}, []int{w, h, oc, or})

	w, h, oc, or = ClampTermSize(80, 24, 160, 50)
	assert.Equal(t, []int{80, 24, 0, 0}, []int{w, h, oc, or})
}

func TestChunkWriterFlush(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 2, 1)

	cw.WriteAt(1, 1, "hi")
	cw.WriteColored(3, 2, ColorGreen, "ok")
	cw.WriteString(strings.Repeat("x", 3*maxChunkSize))
	require.Positive(t, cw.Len())

	require.NoError(t, cw.Flush())
	assert.Zero(t, cw.Len())

	got := out.String()
	assert.True(t, strings.HasPrefix(got, "\033[2;3Hhi\033[3;5H"+ColorGreen.Sequence()+"ok"+ColorReset))
	assert.Equal(t, 3*maxChunkSize, strings.Count(got, "x"))
}

func TestShadeLevel(t *testing.T) {
	assert.Equal(t, ' ', ShadeLevel(-1))
	assert.Equal(t, '█', ShadeLevel(2))
	assert.Equal(t, '▒', ShadeLevel(0.5))
}

func TestChunkWriterClearIgnoresOffset(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 7, 4)
	cw.Clear()
	cw.WriteAt(1, 1, "x")
	require.NoError(t, cw.Flush())
	assert.Equal(t, "\033[H\033[2J\033[5;8Hx", out.String())
}

func TestTerminalHelpers(t *testing.T) {
	var out bytes.Buffer
	HideCursor(&out)
	ClearScreen(&out)
	ShowCursor(&out)
	assert.Equal(t, "\033[?25l\033[H\033[2J\033[?25h", out.String())
}
