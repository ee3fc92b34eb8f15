package object

import (
	"math/rand"

	"github.com/tomz197/invaders/internal/loop/config"
)

// Slot is an enemy's base position in the formation.
type Slot struct {
	X, Y float64
}

// Formation lays out the enemy grid at level start.
type Formation struct {
	rules *config.Rules
	rng   *rand.Rand
}

// NewFormation creates a formation builder. rng drives the initial cooldowns.
func NewFormation(r *config.Rules, rng *rand.Rand) *Formation {
	return &Formation{rules: r, rng: rng}
}

// Spacing returns the horizontal distance between neighbouring columns.
func (f *Formation) Spacing() float64 {
	r := f.rules
	spacing := r.Width - 2*r.EnemyEdgePadding
	if r.EnemiesPerRow > 1 {
		spacing /= float64(r.EnemiesPerRow - 1)
	}
	return spacing
}

// Slots returns the grid positions, rows top to bottom and columns left to right.
func (f *Formation) Slots() []Slot {
	r := f.rules
	spacing := f.Spacing()
	slots := make([]Slot, 0, r.EnemyRows*r.EnemiesPerRow)

	for row := 0; row < r.EnemyRows; row++ {
		y := r.EnemyVertPadding + float64(row)*r.EnemyVertSpacing
		for col := 0; col < r.EnemiesPerRow; col++ {
			slots = append(slots, Slot{X: float64(col)*spacing + spacing/2, Y: y})
		}
	}
	return slots
}

// Spawn creates the full grid. Each enemy draws its own initial cooldown
// uniformly from [EnemyCooldownMin, EnemyCooldown].
func (f *Formation) Spawn(ids *IDSource) []*Enemy {
	return f.SpawnAt(ids, f.Slots())
}

// SpawnAt creates one enemy per slot. Variants cycle with the column of a
// full grid row.
func (f *Formation) SpawnAt(ids *IDSource, slots []Slot) []*Enemy {
	r := f.rules
	perRow := max(r.EnemiesPerRow, 1)
	enemies := make([]*Enemy, 0, len(slots))

	for i, slot := range slots {
		variant := 0
		if r.EnemyVariants > 0 {
			variant = (i % perRow) % r.EnemyVariants
		}
		enemies = append(enemies, NewEnemy(ids.Next(), slot.X, slot.Y, r.EnemyWidth, r.EnemyHeight, f.cooldown(), variant))
	}
	return enemies
}

// cooldown draws a randomized initial fire cooldown.
func (f *Formation) cooldown() float64 {
	r := f.rules
	return r.EnemyCooldownMin + f.rng.Float64()*(r.EnemyCooldown-r.EnemyCooldownMin)
}
