package object

import "github.com/tomz197/invaders/internal/loop/config"

// Projectile is a laser. Player lasers travel up, enemy lasers travel down;
// otherwise they are identical.
type Projectile struct {
	Body
	VY float64 // Vertical velocity, negative is upwards
}

// NewPlayerLaser creates an upward laser with its top-left corner at (x, y).
// The ID is assigned by the Spawner.
func NewPlayerLaser(x, y float64, r *config.Rules) *Projectile {
	return &Projectile{
		Body: Body{Kind: KindPlayerLaser, X: x, Y: y, W: r.LaserWidth, H: r.LaserHeight},
		VY:   -r.LaserSpeed,
	}
}

// NewEnemyLaser creates a downward laser with its top-left corner at (x, y).
func NewEnemyLaser(x, y float64, r *config.Rules) *Projectile {
	return &Projectile{
		Body: Body{Kind: KindEnemyLaser, X: x, Y: y, W: r.LaserWidth, H: r.LaserHeight},
		VY:   r.EnemyLaserSpeed,
	}
}

// Update moves the laser and marks it destroyed once it leaves the playfield.
// Returns true if the projectile should be removed.
func (p *Projectile) Update(ctx UpdateContext) bool {
	if p.IsDestroyed() {
		return true
	}

	p.Y += p.VY * ctx.Delta.Seconds()

	if p.Y < 0 || p.Y > ctx.Rules.Height {
		p.MarkDestroyed()
		return true
	}
	return false
}
