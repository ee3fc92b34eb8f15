// Package render is the presentation side of the game: a Scene that mirrors
// the simulation from its events, and terminal frontends that draw it and
// collect key input.
package render

import (
	"cmp"
	"math/rand"
	"slices"
	"time"

	"github.com/tomz197/invaders/internal/draw"
	"github.com/tomz197/invaders/internal/game"
	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/object"
)

// Screen selects what the frontend shows on top of the playfield.
type Screen int

const (
	ScreenStart   Screen = iota // Title and controls
	ScreenPlaying               // HUD only
	ScreenWon                   // Level cleared, press ENTER
	ScreenLost                  // Game over, press ENTER
)

// Sprite is the presentation copy of one live entity.
type Sprite struct {
	ID         object.ID
	Kind       object.Kind
	X, Y, W, H float64
	Variant    int
}

// Frontend draws scenes and reports key input. Implementations own the terminal.
type Frontend interface {
	ReadInput() input.Input
	ResetInput()
	Draw(scene *Scene) error
	Close() error
}

// Scene is everything a frontend needs to draw a frame. It is rebuilt purely
// from simulation events and never reads the simulation state directly.
type Scene struct {
	Width, Height float64

	Screen   Screen
	HUD      game.HUD
	NewTop   bool   // The round that just ended set a new top score
	Notice   string // Optional status line (e.g. inactivity warning)
	sprites  map[object.ID]Sprite
	ordered  []Sprite
	dirty    bool
	rng      *rand.Rand
	effects  bool
	particle []*Particle
}

// NewScene creates an empty scene for a playfield of the given rules.
func NewScene(rules config.Rules, rng *rand.Rand) *Scene {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Scene{
		Width:   rules.Width,
		Height:  rules.Height,
		Screen:  ScreenStart,
		sprites: make(map[object.ID]Sprite),
		rng:     rng,
		effects: true,
	}
}

// SetEffects turns explosion particles on or off.
func (s *Scene) SetEffects(on bool) {
	s.effects = on
}

// Apply updates the scene from one tick's events.
func (s *Scene) Apply(events []game.Event) {
	for _, ev := range events {
		switch ev.Type {
		case game.EntityCreated, game.EntityMoved:
			s.sprites[ev.ID] = Sprite{
				ID: ev.ID, Kind: ev.Kind,
				X: ev.X, Y: ev.Y, W: ev.W, H: ev.H,
				Variant: ev.Variant,
			}
			s.dirty = true
		case game.EntityDestroyed:
			delete(s.sprites, ev.ID)
			s.dirty = true
			if ev.Killed && (ev.Kind == object.KindEnemy || ev.Kind == object.KindPlayer) {
				s.explode(ev)
			}
		case game.HUDChanged:
			s.HUD = ev.HUD
		case game.NewTopScore:
			s.HUD = ev.HUD
			s.NewTop = true
		case game.PhaseChanged:
			s.HUD = ev.HUD
			switch ev.Phase {
			case game.PhaseWon:
				s.Screen = ScreenWon
			case game.PhaseLost:
				s.Screen = ScreenLost
			}
		}
	}
}

func (s *Scene) explode(ev game.Event) {
	if !s.effects {
		return
	}
	color := colorFor(Sprite{Kind: ev.Kind, Variant: ev.Variant})
	SpawnExplosion(s.rng, ev.X+ev.W/2, ev.Y+ev.H/2,
		config.ExplosionParticles, config.ExplosionSpeed, config.ExplosionLifetime, color, s)
}

// SpawnParticle implements ParticleSpawner.
func (s *Scene) SpawnParticle(p *Particle) {
	s.particle = append(s.particle, p)
}

// Update advances presentation-only effects by dt.
func (s *Scene) Update(dt time.Duration) {
	secs := dt.Seconds()
	kept := s.particle[:0]
	for _, p := range s.particle {
		if p.Update(secs) {
			p.Release()
			continue
		}
		kept = append(kept, p)
	}
	clear(s.particle[len(kept):])
	s.particle = kept
}

// Reset forgets every sprite and effect before a new level starts.
func (s *Scene) Reset() {
	clear(s.sprites)
	s.ordered = s.ordered[:0]
	s.dirty = false
	for _, p := range s.particle {
		p.Release()
	}
	clear(s.particle)
	s.particle = s.particle[:0]
	s.NewTop = false
	s.Notice = ""
}

// Sprites returns the live sprites in draw order: ships first, then lasers,
// each by ID. The slice is reused between calls.
func (s *Scene) Sprites() []Sprite {
	if !s.dirty {
		return s.ordered
	}
	s.ordered = s.ordered[:0]
	for _, sp := range s.sprites {
		s.ordered = append(s.ordered, sp)
	}
	slices.SortFunc(s.ordered, func(a, b Sprite) int {
		if c := cmp.Compare(drawLayer(a.Kind), drawLayer(b.Kind)); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	s.dirty = false
	return s.ordered
}

// Particles returns the live particles.
func (s *Scene) Particles() []*Particle {
	return s.particle
}

// Sprite looks up a live sprite by ID.
func (s *Scene) Sprite(id object.ID) (Sprite, bool) {
	sp, ok := s.sprites[id]
	return sp, ok
}

func drawLayer(k object.Kind) int {
	switch k {
	case object.KindEnemy:
		return 0
	case object.KindPlayer:
		return 1
	default:
		return 2
	}
}

// particleRune picks the glyph for a particle: its symbol while bright, then a fading shade.
func particleRune(p *Particle) rune {
	if p.Intensity() > 0.6 {
		return p.Symbol
	}
	return draw.ShadeLevel(p.Intensity() * 1.5)
}
