package object

import (
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/physics"
)

// Player is the player-controlled ship. It only moves horizontally.
type Player struct {
	Body
	Cooldown float64 // Seconds until the next shot is allowed
}

// NewPlayer creates the ship centred horizontally near the playfield bottom.
func NewPlayer(id ID, r *config.Rules) *Player {
	return &Player{
		Body: Body{
			ID:   id,
			Kind: KindPlayer,
			X:    r.Width / 2,
			Y:    r.Height - r.PlayerYOffset,
			W:    2 * r.ShipWidth,
			H:    r.ShipHeight,
		},
	}
}

// Update moves the ship by the input axis, clamps it to the playfield,
// ticks the cooldown down and fires if requested.
func (p *Player) Update(ctx UpdateContext) (fired bool) {
	dt := ctx.Delta.Seconds()
	r := ctx.Rules

	p.X = physics.Clamp(p.X+ctx.Input.Axis()*r.PlayerSpeed*dt, 0, r.PlayerMaxX())

	if p.Cooldown > 0 {
		p.Cooldown -= dt
	}

	if ctx.Input.Fire {
		return p.Fire(ctx)
	}
	return false
}

// Fire spawns a laser from the ship's nose when the cooldown has run out.
// A successful shot resets the cooldown to the configured constant.
func (p *Player) Fire(ctx UpdateContext) bool {
	if p.Cooldown > 0 || p.IsDestroyed() || ctx.Spawner == nil {
		return false
	}

	r := ctx.Rules
	laser := NewPlayerLaser(p.X+r.ShipWidth-r.LaserWidth/2, p.Y, r)
	if !ctx.Spawner.Spawn(laser) {
		return false
	}
	p.Cooldown = r.PlayerCooldown
	return true
}
