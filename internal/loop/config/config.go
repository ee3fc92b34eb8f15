// Package config centralizes all tunable game parameters.
package config

import "time"

// Playfield - the fixed logical coordinate space every entity lives in.
// Renderers scale it to whatever the terminal offers.
const (
	PlayfieldWidth  = 800
	PlayfieldHeight = 600
)

// Player ship
const (
	PlayerYOffset  = 45    // Distance of the ship's top edge from the playfield bottom
	ShipWidth      = 20    // Half the ship sprite width; clamp bound is W - 2*ShipWidth
	ShipHeight     = 30    // Ship sprite height
	PlayerMaxSpeed = 600.0 // Units per second
	LaserCooldown  = 0.5   // Seconds between player shots
)

// Lasers
const (
	LaserMaxSpeed   = 300.0 // Player laser, units per second upwards
	EnemyLaserSpeed = 300.0 // Enemy laser, units per second downwards
	LaserWidth      = 6
	LaserHeight     = 18
	MaxEnemyLasers  = 10 // Enemy fire beyond this many live lasers is dropped
)

// Enemy formation
const (
	EnemyRows            = 3
	EnemiesPerRow        = 8
	EnemyEdgePadding     = 65
	EnemyVertPadding     = 70
	EnemyVertSpacing     = 80
	EnemyWidth           = 40
	EnemyHeight          = 30
	EnemyVariants        = 5    // Beige, Blue, Green, Pink, Yellow
	EnemyFireCooldownMin = 0.5  // Lower bound of the randomized initial cooldown
	EnemyFireCooldown    = 5.0  // Reset value after each shot; upper bound of the initial draw
	OscillationX         = 40.0 // Horizontal sway amplitude
	OscillationY         = 10.0 // Vertical bob amplitude
)

// Scoring
const (
	EnemyValue      = 50.0
	LevelScoreBonus = 10.0
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS

	// Max render resolution (terminal columns x rows). Larger terminals get a
	// centered play area with a border.
	MaxTermWidth  = 160
	MaxTermHeight = 60
)

// Effects
const (
	ExplosionParticles = 14
	ExplosionSpeed     = 180.0 // Logical units per second
	ExplosionLifetime  = 0.6   // Seconds
	TopScoreCueDelay   = time.Second
)

// Remote sessions
const (
	InactivityWarnSeconds       = 60.0
	InactivityDisconnectSeconds = 90.0
	ShutdownDisplaySeconds      = 5.0 // How long players see the shutdown notice before disconnect
)

// Rules carries every tunable the simulation reads. The zero value is not
// useful; start from DefaultRules and override fields.
type Rules struct {
	Width, Height float64

	PlayerYOffset  float64
	ShipWidth      float64
	ShipHeight     float64
	PlayerSpeed    float64
	PlayerCooldown float64

	LaserSpeed      float64
	EnemyLaserSpeed float64
	LaserWidth      float64
	LaserHeight     float64
	MaxEnemyLasers  int

	EnemyRows        int
	EnemiesPerRow    int
	EnemyEdgePadding float64
	EnemyVertPadding float64
	EnemyVertSpacing float64
	EnemyWidth       float64
	EnemyHeight      float64
	EnemyVariants    int
	EnemyCooldownMin float64
	EnemyCooldown    float64
	OscillationX     float64
	OscillationY     float64

	EnemyValue      float64
	LevelScoreBonus float64
}

// DefaultRules returns the rules built from the package constants.
func DefaultRules() Rules {
	return Rules{
		Width:  PlayfieldWidth,
		Height: PlayfieldHeight,

		PlayerYOffset:  PlayerYOffset,
		ShipWidth:      ShipWidth,
		ShipHeight:     ShipHeight,
		PlayerSpeed:    PlayerMaxSpeed,
		PlayerCooldown: LaserCooldown,

		LaserSpeed:      LaserMaxSpeed,
		EnemyLaserSpeed: EnemyLaserSpeed,
		LaserWidth:      LaserWidth,
		LaserHeight:     LaserHeight,
		MaxEnemyLasers:  MaxEnemyLasers,

		EnemyRows:        EnemyRows,
		EnemiesPerRow:    EnemiesPerRow,
		EnemyEdgePadding: EnemyEdgePadding,
		EnemyVertPadding: EnemyVertPadding,
		EnemyVertSpacing: EnemyVertSpacing,
		EnemyWidth:       EnemyWidth,
		EnemyHeight:      EnemyHeight,
		EnemyVariants:    EnemyVariants,
		EnemyCooldownMin: EnemyFireCooldownMin,
		EnemyCooldown:    EnemyFireCooldown,
		OscillationX:     OscillationX,
		OscillationY:     OscillationY,

		EnemyValue:      EnemyValue,
		LevelScoreBonus: LevelScoreBonus,
	}
}

// PlayerMaxX is the largest x the player ship may occupy.
func (r Rules) PlayerMaxX() float64 {
	return r.Width - 2*r.ShipWidth
}

// KillValue is the score awarded for one enemy at the given level.
func (r Rules) KillValue(level int) float64 {
	return r.EnemyValue + float64(level)*r.LevelScoreBonus
}
