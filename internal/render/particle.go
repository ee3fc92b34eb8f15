package render

import (
	"math"
	"math/rand"
	"sync"

	"github.com/tomz197/invaders/internal/draw"
)

// particlePool is a sync.Pool for reusing Particle objects to reduce allocations.
var particlePool = sync.Pool{
	New: func() any {
		return &Particle{}
	},
}

// Particle is a short-lived explosion fragment. It exists only in the
// presentation layer and never takes part in collisions.
type Particle struct {
	X, Y        float64 // Position
	VX, VY      float64 // Velocity
	Lifetime    float64 // Seconds remaining
	MaxLifetime float64 // Initial lifetime (for fade calculation)
	Drag        float64 // Velocity decay (1.0 = no drag)
	Symbol      rune    // Character to display
	Color       draw.Color
}

// ParticleSpawner receives newly created particles.
type ParticleSpawner interface {
	SpawnParticle(p *Particle)
}

// NewParticle creates a single particle from the pool.
func NewParticle(x, y, vx, vy, lifetime float64, symbol rune) *Particle {
	p := particlePool.Get().(*Particle)
	p.X = x
	p.Y = y
	p.VX = vx
	p.VY = vy
	p.Lifetime = lifetime
	p.MaxLifetime = lifetime
	p.Drag = 0.95
	p.Symbol = symbol
	p.Color = draw.ColorWhite
	return p
}

// Release returns the particle to the pool for reuse.
// Should be called when the particle is removed from the scene.
func (p *Particle) Release() {
	particlePool.Put(p)
}

var explosionSymbols = []rune{'#', '@', '*', '%', 'X', 'O', '+', '▪'}

// SpawnExplosion creates particles in a circular burst pattern.
func SpawnExplosion(rng *rand.Rand, x, y float64, count int, speed, lifetime float64, color draw.Color, spawner ParticleSpawner) {
	if spawner == nil {
		return
	}

	for i := 0; i < count; i++ {
		angle := rng.Float64() * 2 * math.Pi
		// Random speed variation (50% to 150%)
		spd := speed * (0.5 + rng.Float64())
		// Random lifetime variation (50% to 100%)
		life := lifetime * (0.5 + rng.Float64()*0.5)

		p := NewParticle(x, y, math.Cos(angle)*spd, math.Sin(angle)*spd, life,
			explosionSymbols[rng.Intn(len(explosionSymbols))])
		p.Color = color
		spawner.SpawnParticle(p)
	}
}

// Update moves the particle and reports whether it has expired.
func (p *Particle) Update(dt float64) (expired bool) {
	p.Lifetime -= dt
	if p.Lifetime <= 0 {
		return true
	}

	dragFactor := math.Pow(p.Drag, dt*60) // Normalize drag to ~60fps
	p.VX *= dragFactor
	p.VY *= dragFactor

	p.X += p.VX * dt
	p.Y += p.VY * dt
	return false
}

// Intensity is the remaining fraction of the particle's life, from 1 down to 0.
func (p *Particle) Intensity() float64 {
	if p.MaxLifetime <= 0 {
		return 0
	}
	return max(p.Lifetime/p.MaxLifetime, 0)
}

// Visible reports whether the particle is still bright enough to draw.
// Particles are hidden for the last quarter of their life.
func (p *Particle) Visible() bool {
	return p.Intensity() >= 0.25
}
