package object

import (
	"time"

	"github.com/tomz197/invaders/internal/physics"
)

// Enemy is one ship of the formation. It sways around its base position
// and fires on its own cooldown.
type Enemy struct {
	Body
	BaseX, BaseY float64 // Formation slot; X/Y hold the swayed position
	Cooldown     float64 // Seconds until the next shot
	Variant      int     // Ship colour, cosmetic only
}

// NewEnemy creates an enemy at its formation slot.
func NewEnemy(id ID, x, y, w, h, cooldown float64, variant int) *Enemy {
	return &Enemy{
		Body: Body{
			ID:   id,
			Kind: KindEnemy,
			X:    x,
			Y:    y,
			W:    w,
			H:    h,
		},
		BaseX:    x,
		BaseY:    y,
		Cooldown: cooldown,
		Variant:  variant,
	}
}

// Update applies the formation-wide sway for the current clock reading.
// Every enemy uses the same wall-clock phase, so the formation moves in lockstep.
func (e *Enemy) Update(ctx UpdateContext) {
	dx, dy := physics.Oscillation(epochSeconds(ctx.Now), ctx.Rules.OscillationX, ctx.Rules.OscillationY)
	e.X = e.BaseX + dx
	e.Y = e.BaseY + dy
}

// UpdateWeapon ticks the cooldown and fires once it runs out. The cooldown
// resets to the shared constant even when the spawner drops the shot.
func (e *Enemy) UpdateWeapon(ctx UpdateContext) (fired bool) {
	e.Cooldown -= ctx.Delta.Seconds()
	if e.Cooldown > 0 || e.IsDestroyed() {
		return false
	}

	r := ctx.Rules
	e.Cooldown = r.EnemyCooldown
	if ctx.Spawner == nil {
		return false
	}
	return ctx.Spawner.Spawn(NewEnemyLaser(e.X+(e.W-r.LaserWidth)/2, e.Y, r))
}

// epochSeconds converts a clock reading to fractional seconds since the Unix epoch.
func epochSeconds(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}
