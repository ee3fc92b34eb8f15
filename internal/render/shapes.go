package render

import (
	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/object"
)

// Outlines in unit space (0..1 across the sprite's bounding box).
var (
	playerShape = []draw.Point{
		{X: 0.5, Y: 0}, {X: 0.62, Y: 0.35}, {X: 1, Y: 0.8}, {X: 1, Y: 1},
		{X: 0, Y: 1}, {X: 0, Y: 0.8}, {X: 0.38, Y: 0.35},
	}

	// One silhouette per enemy variant.
	enemyShapes = [...][]draw.Point{
		{ // saucer
			{X: 0.3, Y: 0}, {X: 0.7, Y: 0}, {X: 1, Y: 0.5}, {X: 0.8, Y: 1},
			{X: 0.2, Y: 1}, {X: 0, Y: 0.5},
		},
		{ // crab
			{X: 0, Y: 0.2}, {X: 0.25, Y: 0.4}, {X: 0.75, Y: 0.4}, {X: 1, Y: 0.2},
			{X: 1, Y: 0.8}, {X: 0.7, Y: 1}, {X: 0.3, Y: 1}, {X: 0, Y: 0.8},
		},
		{ // arrow
			{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 0.5, Y: 1},
		},
		{ // diamond
			{X: 0.5, Y: 0}, {X: 1, Y: 0.5}, {X: 0.5, Y: 1}, {X: 0, Y: 0.5},
		},
		{ // bat
			{X: 0, Y: 0}, {X: 0.35, Y: 0.3}, {X: 0.65, Y: 0.3}, {X: 1, Y: 0},
			{X: 0.8, Y: 1}, {X: 0.5, Y: 0.7}, {X: 0.2, Y: 1},
		},
	}

	// Ship colours, indexed by variant: beige, blue, green, pink, yellow.
	variantColors = [...]draw.Color{
		draw.ColorWhite, draw.ColorBlue, draw.ColorGreen, draw.ColorMagenta, draw.ColorYellow,
	}
)

// shapeFor returns the unit outline for a sprite.
func shapeFor(s Sprite) []draw.Point {
	switch s.Kind {
	case object.KindPlayer:
		return playerShape
	case object.KindEnemy:
		return enemyShapes[variantIndex(s.Variant, len(enemyShapes))]
	}
	return nil
}

// colorFor returns the ANSI colour a sprite is drawn in.
func colorFor(s Sprite) draw.Color {
	switch s.Kind {
	case object.KindPlayer:
		return draw.ColorBrightCyan
	case object.KindEnemy:
		return variantColors[variantIndex(s.Variant, len(variantColors))]
	case object.KindPlayerLaser:
		return draw.ColorCyan
	case object.KindEnemyLaser:
		return draw.ColorRed
	}
	return draw.ColorWhite
}

func variantIndex(v, n int) int {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// placeShape maps a unit outline into a sprite's box, reusing the canvas's point buffer.
func placeShape(c *draw.Canvas, unit []draw.Point, s Sprite) []draw.Point {
	pts := c.BorrowPoints(len(unit))
	for i, p := range unit {
		pts[i] = draw.Point{X: s.X + p.X*s.W, Y: s.Y + p.Y*s.H}
	}
	return pts
}
