// Package game is the simulation core: a single-threaded tick pipeline that
// moves the player, the enemy formation and the lasers, resolves hits,
// manages entity lifecycle and decides when a round is won or lost.
package game

import (
	"math/rand"
	"time"

	"github.com/tomz197/invaders/internal/loop/config"
	"github.com/tomz197/invaders/internal/object"
	"github.com/tomz197/invaders/internal/physics"
	"github.com/tomz197/invaders/internal/store"
)

// Phase is the round's overall state.
type Phase int

const (
	PhasePlaying Phase = iota // Ticks run and input is processed
	PhaseWon                  // Every enemy destroyed
	PhaseLost                 // The player was hit
)

func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseWon:
		return "won"
	case PhaseLost:
		return "lost"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further ticks will run.
func (p Phase) Terminal() bool {
	return p == PhaseWon || p == PhaseLost
}

// State is one level of play. It is built at level start and replaced, not
// reset, when the level ends. It is not safe for concurrent use.
type State struct {
	rules   config.Rules
	clock   Clock
	rng     *rand.Rand
	gateway *store.Gateway
	slots   []object.Slot

	ids   object.IDSource
	phase Phase

	level    int
	score    float64
	topScore float64
	next     store.Progress

	player       *object.Player
	playerLasers []*object.Projectile
	enemies      []*object.Enemy
	enemyLasers  []*object.Projectile

	lastTime  time.Time
	events    []Event
	delivered bool
	hud       HUD
	hudSent   bool

	grid *physics.SpatialGrid
}

// Option customizes a State.
type Option func(*State)

// WithClock sets the time source. Defaults to SystemClock.
func WithClock(c Clock) Option {
	return func(s *State) { s.clock = c }
}

// WithRand sets the random source for enemy cooldowns.
func WithRand(rng *rand.Rand) Option {
	return func(s *State) { s.rng = rng }
}

// WithGateway persists progress when the round ends.
func WithGateway(g *store.Gateway) Option {
	return func(s *State) { s.gateway = g }
}

// WithEnemySlots replaces the formation grid with enemies at the given positions.
func WithEnemySlots(slots ...object.Slot) Option {
	return func(s *State) { s.slots = slots }
}

// NewState starts a level from persisted progress: it places the player,
// spawns the formation and queues their creation events for the first Tick.
func NewState(rules config.Rules, progress store.Progress, opts ...Option) *State {
	s := &State{
		rules:    rules,
		level:    max(progress.Level, 0),
		score:    max(progress.Score, 0),
		topScore: max(progress.TopScore, 0),
		phase:    PhasePlaying,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.clock == nil {
		s.clock = SystemClock{}
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(s.clock.Now().UnixNano()))
	}

	s.grid = physics.NewSpatialGrid(rules.Width, rules.Height,
		physics.CellSizeFor(rules.EnemyWidth, rules.EnemyHeight, rules.LaserWidth, rules.LaserHeight))

	s.player = object.NewPlayer(s.ids.Next(), &s.rules)
	s.emit(bodyEvent(EntityCreated, &s.player.Body))

	formation := object.NewFormation(&s.rules, s.rng)
	if s.slots != nil {
		s.enemies = formation.SpawnAt(&s.ids, s.slots)
	} else {
		s.enemies = formation.Spawn(&s.ids)
	}
	for _, e := range s.enemies {
		ev := bodyEvent(EntityCreated, &e.Body)
		ev.Variant = e.Variant
		s.emit(ev)
	}

	s.lastTime = s.clock.Now()
	s.syncHUD()
	return s
}

// Phase returns the round's state.
func (s *State) Phase() Phase { return s.phase }

// Level returns the level counter.
func (s *State) Level() int { return s.level }

// Score returns the current score.
func (s *State) Score() float64 { return s.score }

// TopScore returns the best score seen, including this round.
func (s *State) TopScore() float64 { return s.topScore }

// Rules returns the rules this level runs under.
func (s *State) Rules() config.Rules { return s.rules }

// Player returns the live player ship, or nil once it has been destroyed.
func (s *State) Player() *object.Player { return s.player }

// Enemies returns the live enemies in spawn order.
func (s *State) Enemies() []*object.Enemy { return s.enemies }

// PlayerLasers returns the live player lasers.
func (s *State) PlayerLasers() []*object.Projectile { return s.playerLasers }

// EnemyLasers returns the live enemy lasers.
func (s *State) EnemyLasers() []*object.Projectile { return s.enemyLasers }

// Next returns the progress written when the round ended. It is the zero
// value while the round is still being played.
func (s *State) Next() store.Progress { return s.next }

// HUD returns the current heads-up display values.
func (s *State) HUD() HUD {
	return HUD{Score: s.score, Level: s.level, TopScore: s.topScore}
}

// emit queues an event for the current tick.
func (s *State) emit(ev Event) {
	s.events = append(s.events, ev)
}
