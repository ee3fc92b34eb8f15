// Package object holds the simulation entities: the player ship, the enemy
// formation and the lasers both sides fire.
package object

import (
	"time"

	"github.com/tomz197/invaders/internal/input"
	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/physics"
)

// ID identifies an entity for its whole lifetime. Presentation maps IDs to
// visual resources; the simulation never holds those.
type ID uint32

// IDSource hands out unique, increasing IDs. The zero value starts at 1.
type IDSource struct {
	last ID
}

// Next returns a fresh ID.
func (s *IDSource) Next() ID {
	s.last++
	return s.last
}

// Kind distinguishes entity types.
type Kind uint8

const (
	KindPlayer Kind = iota
	KindEnemy
	KindPlayerLaser
	KindEnemyLaser
)

func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindEnemy:
		return "enemy"
	case KindPlayerLaser:
		return "player-laser"
	case KindEnemyLaser:
		return "enemy-laser"
	default:
		return "unknown"
	}
}

// Spawner allows objects to spawn projectiles during update.
type Spawner interface {
	// Spawn adds a projectile to play and assigns its ID. It returns false
	// when the projectile was dropped (e.g. a pool cap was reached).
	Spawn(p *Projectile) bool
}

// UpdateContext provides all the information an object needs during update.
type UpdateContext struct {
	Delta   time.Duration
	Now     time.Time // Clock reading for this tick
	Input   input.Input
	Rules   *config.Rules
	Spawner Spawner
}

// Destructible is implemented by objects that can be destroyed/marked for removal.
type Destructible interface {
	// MarkDestroyed marks the object for removal on the next purge.
	MarkDestroyed()
	// IsDestroyed returns true if the object is marked for destruction.
	IsDestroyed() bool
}

// Body is the state shared by every entity: identity, a top-left position,
// a bounding-box size and the liveness flag.
type Body struct {
	ID        ID
	Kind      Kind
	X, Y      float64
	W, H      float64
	destroyed bool
}

// MarkDestroyed marks the entity for removal. There is no way back.
func (b *Body) MarkDestroyed() {
	b.destroyed = true
}

// IsDestroyed returns true if the entity is marked for destruction.
func (b *Body) IsDestroyed() bool {
	return b.destroyed
}

// Rect returns the entity's bounding box at its current position.
func (b *Body) Rect() physics.Rect {
	return physics.NewRect(b.X, b.Y, b.W, b.H)
}

// Entity is implemented by everything the simulation owns.
type Entity interface {
	Destructible
	Base() *Body
}

// Base returns the shared entity state.
func (b *Body) Base() *Body {
	return b
}
